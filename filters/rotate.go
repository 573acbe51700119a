// Package filters collects the peripheral pixel-buffer operations built
// on top of bitmap.Bitmap: rotation, blur, image-level composition, and
// colorize.
package filters

import (
	"math"

	"github.com/yimagine/ymagine/bitmap"
	"github.com/yimagine/ymagine/internal/errs"
)

// Rotate writes a rotated copy of src into dst, rotating by angle degrees
// around (centerX, centerY) in src's coordinate space. dst must already
// be sized to the desired output dimensions. Pixels that rotate in from
// outside src's bounds are filled with background. Sampling uses a
// 4-bit-fraction bilinear interpolation, matching rotate.c's
// Ymagine_rotateRaw exactly (same fixed-point weights, same nearest-four
// neighborhood), generalized from that routine's raw-buffer form to
// operate through locked Bitmaps.
func Rotate(dst, src *bitmap.Bitmap, centerX, centerY int, angle float64, background [4]byte) error {
	if dst.Colormode().Bpp() != src.Colormode().Bpp() {
		return errs.New(errs.InvalidArgument, "filters.Rotate", nil)
	}
	if err := src.Lock(); err != nil {
		return err
	}
	defer src.Unlock()
	if err := dst.Lock(); err != nil {
		return err
	}
	defer dst.Unlock()

	bpp := src.Colormode().Bpp()
	w, h := src.Width(), src.Height()
	ow, oh := dst.Width(), dst.Height()

	rad := angle * math.Pi / 180.0
	sina := int(16.0 * math.Sin(rad))
	cosa := int(16.0 * math.Cos(rad))

	ocx, ocy := ow/2, oh/2

	at := func(x, y int) [4]byte {
		if x < 0 || y < 0 || x >= w || y >= h {
			return background
		}
		row := src.Row(y)
		var px [4]byte
		copy(px[:bpp], row[x*bpp:(x+1)*bpp])
		return px
	}

	for y := 0; y < oh; y++ {
		ydif := ocy - y
		destRow := dst.Row(y)
		for x := 0; x < ow; x++ {
			xdif := ocx - x
			xpm := -xdif*cosa - ydif*sina
			ypm := -ydif*cosa + xdif*sina
			xp := centerX + (xpm >> 4)
			yp := centerY + (ypm >> 4)
			xf := xpm & 0x0f
			yf := ypm & 0x0f

			p00 := at(xp, yp)
			p10 := at(xp+1, yp)
			p01 := at(xp, yp+1)
			p11 := at(xp+1, yp+1)

			dest := destRow[x*bpp : (x+1)*bpp]
			for k := 0; k < bpp; k++ {
				v := (16-xf)*(16-yf)*int(p00[k]) +
					xf*(16-yf)*int(p10[k]) +
					(16-xf)*yf*int(p01[k]) +
					xf*yf*int(p11[k])
				dest[k] = byte((v + 128) / 256)
			}
		}
	}
	return nil
}
