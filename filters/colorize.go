package filters

import (
	"github.com/yimagine/ymagine/bitmap"
	"github.com/yimagine/ymagine/colorspace"
	"github.com/yimagine/ymagine/internal/errs"
)

// Colorize recolors bm in place towards color, preserving a luminance
// gradient: full brightness in the middle third of the image, darkening
// towards the top and bottom thirds. Only the reference color's hue is
// kept — saturation is forced to 180 and value to 255 before building the
// lookup table, so two different bright colors of the same hue colorize
// identically.
func Colorize(bm *bitmap.Bitmap, color colorspace.RGB) error {
	bpp := bm.Colormode().Bpp()
	if bpp < 3 {
		return errs.New(errs.InvalidArgument, "filters.Colorize", nil)
	}
	if err := bm.Lock(); err != nil {
		return err
	}
	defer bm.Unlock()

	w, h := bm.Width(), bm.Height()
	if w <= 0 || h <= 0 {
		return nil
	}

	const yfixedOne = 1024
	brightness := (yfixedOne * 96) / 100
	contrast := (yfixedOne * 12) / 100

	hsv := colorspace.RGBToHSV(color)
	refColor := colorspace.HSVToRGB(colorspace.HSV{H: hsv.H, S: 180, V: 255})
	lut := colorizeLUT(refColor, brightness, contrast)

	for y := 0; y < h; y++ {
		rowLum := mapLuminance(y, h, yfixedOne, (yfixedOne*28)/100)
		row := bm.Row(y)
		for x := 0; x < w; x++ {
			off := x * bpp
			r, g, b := row[off], row[off+1], row[off+2]
			lum := colorspace.Luminance(r, g, b)
			lum = (lum * rowLum) / yfixedOne
			lum = clip8i(lum)
			lc := lut[lum]
			if bpp == 4 && row[off+3] != 0xff {
				a := int(row[off+3])
				row[off] = byte((int(lc[0]) * a) / 255)
				row[off+1] = byte((int(lc[1]) * a) / 255)
				row[off+2] = byte((int(lc[2]) * a) / 255)
			} else {
				row[off], row[off+1], row[off+2] = lc[0], lc[1], lc[2]
			}
		}
	}
	return nil
}

// colorizeLUT builds the 256-entry brightness/contrast-graded lookup
// table colorize.c precomputes once per call (init_lookup_table).
func colorizeLUT(ref colorspace.RGB, brightness, contrast int) [256][3]byte {
	const yfixedOne = 1024
	var lut [256][3]byte
	for i := 0; i < 256; i++ {
		l := clip8i((i*brightness)/yfixedOne + (contrast*255)/yfixedOne)
		lut[i] = [3]byte{
			byte((l * int(ref.R)) / 255),
			byte((l * int(ref.G)) / 255),
			byte((l * int(ref.B)) / 255),
		}
	}
	return lut
}

// mapLuminance is colorize.c's map_luminance: a linear vertical gradient
// in the top and bottom thirds of the image, full "bright" in the middle
// third.
func mapLuminance(y, height, bright, dark int) int {
	ymin, ymax := 0, height/3
	if y >= ymin && y <= ymax {
		return interpolateLinear(dark, bright, ymin, ymax, y)
	}
	ymin, ymax = (height*2)/3, height
	if y >= ymin && y < ymax {
		return interpolateLinear(bright, dark, ymin, ymax, y)
	}
	return bright
}

func interpolateLinear(vmin, vmax, cmin, cmax, c int) int {
	if c <= cmin {
		return vmin
	}
	if c >= cmax {
		return vmax
	}
	return vmin + ((c-cmin)*(vmax-vmin))/(cmax-cmin)
}

func clip8i(v int) int {
	if v <= 0 {
		return 0
	}
	if v >= 0xff {
		return 0xff
	}
	return v
}
