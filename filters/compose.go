package filters

import (
	"github.com/yimagine/ymagine/bitmap"
	"github.com/yimagine/ymagine/internal/errs"
	"github.com/yimagine/ymagine/shader"
)

// ComposeColor fills bm with color using the given compose mode, matching
// compose.c's Ymagine_composeColor: every row is produced by running the
// shader's per-pixel ComposePixel against a constant source color.
func ComposeColor(bm *bitmap.Bitmap, color [4]byte, mode shader.Compose) error {
	if err := bm.Lock(); err != nil {
		return err
	}
	defer bm.Unlock()

	bpp := bm.Colormode().Bpp()
	for y := 0; y < bm.Height(); y++ {
		row := bm.Row(y)
		for x := 0; x < bm.Width(); x++ {
			px := row[x*bpp : (x+1)*bpp]
			var src [4]byte
			copy(src[:bpp], px)
			out := shader.ComposePixel(mode, src, color)
			copy(px, out[:bpp])
		}
	}
	return nil
}

// ComposeImage overlays src onto dst at (offsetX, offsetY) using mode,
// matching compose.c's Ymagine_composeImage. Both bitmaps must share the
// same color mode.
func ComposeImage(dst, src *bitmap.Bitmap, offsetX, offsetY int, mode shader.Compose) error {
	if dst.Colormode() != src.Colormode() {
		return errs.New(errs.InvalidArgument, "filters.ComposeImage", nil)
	}
	if err := dst.Lock(); err != nil {
		return err
	}
	defer dst.Unlock()
	if err := src.Lock(); err != nil {
		return err
	}
	defer src.Unlock()

	bpp := dst.Colormode().Bpp()
	for y := 0; y < src.Height(); y++ {
		dy := y + offsetY
		if dy < 0 || dy >= dst.Height() {
			continue
		}
		srcRow := src.Row(y)
		dstRow := dst.Row(dy)
		for x := 0; x < src.Width(); x++ {
			dx := x + offsetX
			if dx < 0 || dx >= dst.Width() {
				continue
			}
			var colorPx [4]byte
			copy(colorPx[:bpp], srcRow[x*bpp:(x+1)*bpp])
			var destPx [4]byte
			copy(destPx[:bpp], dstRow[dx*bpp:(dx+1)*bpp])
			out := shader.ComposePixel(mode, destPx, colorPx)
			copy(dstRow[dx*bpp:(dx+1)*bpp], out[:bpp])
		}
	}
	return nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
