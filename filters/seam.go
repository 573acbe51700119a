package filters

import (
	"github.com/yimagine/ymagine/bitmap"
	"github.com/yimagine/ymagine/colorspace"
)

// SobelEnergy computes a per-pixel gradient-magnitude energy map over bm.
// It is the one seam-carving primitive this repository implements
// directly: the seam-removal dynamic program itself (building a seam
// map, carving seams out, rendering the result) is treated as an
// external collaborator's job and is out of scope here. A gradient
// energy map is still useful on its own — the CLI's "shape" verb uses it
// to find the highest-energy sub-region of an image.
func SobelEnergy(bm *bitmap.Bitmap) ([][]int, error) {
	if err := bm.Lock(); err != nil {
		return nil, err
	}
	defer bm.Unlock()

	bpp := bm.Colormode().Bpp()
	w, h := bm.Width(), bm.Height()
	energy := make([][]int, h)
	for y := range energy {
		energy[y] = make([]int, w)
	}
	if w == 0 || h == 0 {
		return energy, nil
	}

	lum := func(x, y int) int {
		if x < 0 {
			x = 0
		}
		if x >= w {
			x = w - 1
		}
		if y < 0 {
			y = 0
		}
		if y >= h {
			y = h - 1
		}
		row := bm.Row(y)
		off := x * bpp
		if bpp == 1 {
			return int(row[off])
		}
		return colorspace.Luminance(row[off], row[off+1], row[off+2])
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gx := -lum(x-1, y-1) - 2*lum(x-1, y) - lum(x-1, y+1) +
				lum(x+1, y-1) + 2*lum(x+1, y) + lum(x+1, y+1)
			gy := -lum(x-1, y-1) - 2*lum(x, y-1) - lum(x+1, y-1) +
				lum(x-1, y+1) + 2*lum(x, y+1) + lum(x+1, y+1)
			if gx < 0 {
				gx = -gx
			}
			if gy < 0 {
				gy = -gy
			}
			energy[y][x] = gx + gy
		}
	}
	return energy, nil
}

// HighestEnergyWindow returns the top-left corner of the ww x wh window
// with the highest total Sobel energy, a simple saliency-cropping
// building block for the CLI's "shape" verb.
func HighestEnergyWindow(energy [][]int, ww, wh int) (x, y int) {
	h := len(energy)
	if h == 0 || ww <= 0 || wh <= 0 {
		return 0, 0
	}
	w := len(energy[0])
	if ww > w {
		ww = w
	}
	if wh > h {
		wh = h
	}

	colSum := make([][]int, h)
	for yy := 0; yy < h; yy++ {
		colSum[yy] = make([]int, w+1)
		for xx := 0; xx < w; xx++ {
			colSum[yy][xx+1] = colSum[yy][xx] + energy[yy][xx]
		}
	}

	best := -1
	for oy := 0; oy+wh <= h; oy++ {
		for ox := 0; ox+ww <= w; ox++ {
			total := 0
			for yy := oy; yy < oy+wh; yy++ {
				total += colSum[yy][ox+ww] - colSum[yy][ox]
			}
			if total > best {
				best, x, y = total, ox, oy
			}
		}
	}
	return x, y
}
