package codec

import (
	"image"
	"image/color"

	"github.com/yimagine/ymagine/bitmap"
)

// ExtractRow reads one row out of a decoded stdlib image.Image in the
// given color mode. Going through Image.At/RGBA keeps this adapter
// agnostic to whichever concrete stdlib representation a given decoder
// produced (image.YCbCr, image.NRGBA, image.Paletted, ...).
func ExtractRow(img image.Image, y int, mode bitmap.ColorMode, out []byte) {
	b := img.Bounds()
	bpp := mode.Bpp()
	for x := 0; x < b.Dx(); x++ {
		r16, g16, b16, a16 := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
		r, g, bl, a := byte(r16>>8), byte(g16>>8), byte(b16>>8), byte(a16>>8)
		off := x * bpp
		switch mode {
		case bitmap.Grayscale:
			out[off] = byte((299*int(r) + 587*int(g) + 114*int(bl)) / 1000)
		case bitmap.RGB:
			out[off], out[off+1], out[off+2] = r, g, bl
		case bitmap.RGBA:
			out[off], out[off+1], out[off+2], out[off+3] = r, g, bl, a
		}
	}
}

// BitmapImage adapts a *bitmap.Bitmap to the standard image.Image
// interface so stdlib encoders (image/jpeg, image/png) can read it
// directly without an intermediate full-image copy.
type BitmapImage struct {
	Bm *bitmap.Bitmap
}

func (i BitmapImage) ColorModel() color.Model {
	switch i.Bm.Colormode() {
	case bitmap.Grayscale:
		return color.GrayModel
	case bitmap.RGBA:
		return color.NRGBAModel
	default:
		return color.NRGBAModel
	}
}

func (i BitmapImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, i.Bm.Width(), i.Bm.Height())
}

func (i BitmapImage) At(x, y int) color.Color {
	row := i.Bm.Row(y)
	bpp := i.Bm.Bpp()
	off := x * bpp
	switch i.Bm.Colormode() {
	case bitmap.Grayscale:
		return color.Gray{Y: row[off]}
	case bitmap.RGB:
		return color.NRGBA{R: row[off], G: row[off+1], B: row[off+2], A: 0xff}
	case bitmap.RGBA:
		return color.NRGBA{R: row[off], G: row[off+1], B: row[off+2], A: row[off+3]}
	default:
		return color.NRGBA{}
	}
}
