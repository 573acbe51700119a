package filters

import (
	"github.com/yimagine/ymagine/bitmap"
	"github.com/yimagine/ymagine/internal/errs"
)

// Blur applies an in-place approximate Gaussian blur to bm, by repeated
// separable box blurs: a small-radius box blur repeated across a handful
// of iterations approximates a true Gaussian reasonably well.
func Blur(bm *bitmap.Bitmap, radius int) error {
	if radius <= 0 {
		return nil
	}
	niter := 1
	for (niter+1)*(niter+1) < radius && niter < 4 {
		niter++
	}

	if err := bm.Lock(); err != nil {
		return err
	}
	defer bm.Unlock()

	bpp := bm.Colormode().Bpp()
	w, h := bm.Width(), bm.Height()
	if w == 0 || h == 0 {
		return nil
	}
	if bpp < 3 {
		return errs.New(errs.InvalidArgument, "filters.Blur", nil)
	}

	for i := 0; i < niter; i++ {
		boxBlurHorizontal(bm, radius, bpp, w, h)
		boxBlurVertical(bm, radius, bpp, w, h)
	}
	return nil
}

func boxBlurHorizontal(bm *bitmap.Bitmap, radius, bpp, w, h int) {
	tmp := make([]byte, w*bpp)
	for y := 0; y < h; y++ {
		row := bm.Row(y)
		copy(tmp, row[:w*bpp])
		for x := 0; x < w; x++ {
			var sum [4]int
			n := 0
			for dx := -radius; dx <= radius; dx++ {
				sx := x + dx
				if sx < 0 || sx >= w {
					continue
				}
				for k := 0; k < bpp; k++ {
					sum[k] += int(tmp[sx*bpp+k])
				}
				n++
			}
			for k := 0; k < bpp; k++ {
				row[x*bpp+k] = byte(sum[k] / n)
			}
		}
	}
}

func boxBlurVertical(bm *bitmap.Bitmap, radius, bpp, w, h int) {
	col := make([]byte, h*bpp)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			row := bm.Row(y)
			copy(col[y*bpp:(y+1)*bpp], row[x*bpp:(x+1)*bpp])
		}
		for y := 0; y < h; y++ {
			var sum [4]int
			n := 0
			for dy := -radius; dy <= radius; dy++ {
				sy := y + dy
				if sy < 0 || sy >= h {
					continue
				}
				for k := 0; k < bpp; k++ {
					sum[k] += int(col[sy*bpp+k])
				}
				n++
			}
			row := bm.Row(y)
			for k := 0; k < bpp; k++ {
				row[x*bpp+k] = byte(sum[k] / n)
			}
		}
	}
}
