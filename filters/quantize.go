package filters

import (
	"image"
	"sort"

	sharpyuv "github.com/deepteams/webp/sharpyuv"
	"github.com/yimagine/ymagine/bitmap"
	"github.com/yimagine/ymagine/colorspace"
	"github.com/yimagine/ymagine/internal/errs"
)

// Color is an RGBA color with a dominance score, returned by Quantize.
type Color struct {
	R, G, B, A uint8
	Score      int
}

// paletteSeed is the fixed 17-entry seed palette quantize.c's
// quantizeWithOptions starts its k-means iteration from.
var paletteSeed = [17][4]uint8{
	{0x00, 0x00, 0x00, 0xff}, {0x00, 0x00, 0xaa, 0xff}, {0x00, 0xaa, 0x00, 0xff},
	{0x00, 0xaa, 0xaa, 0xff}, {0xaa, 0x00, 0x00, 0xff}, {0xaa, 0x00, 0xaa, 0xff},
	{0xaa, 0x55, 0x00, 0xff}, {0xaa, 0xaa, 0xaa, 0xff}, {0x55, 0x55, 0x55, 0xff},
	{0x55, 0x55, 0xff, 0xff}, {0x55, 0xff, 0x55, 0xff}, {0x55, 0xff, 0xff, 0xff},
	{0xff, 0x55, 0x55, 0xff}, {0xff, 0x55, 0xff, 0xff}, {0xff, 0x55, 0xff, 0xff},
	{0xff, 0xff, 0x55, 0xff}, {0xff, 0xff, 0xff, 0xff},
}

type centroid struct {
	color                                    [4]uint8
	accumR, accumG, accumB, accumA, count int64
}

func sq(v int64) int64 { return v * v }

func dist(a, b int64) int64 {
	if a > b {
		return a - b
	}
	return b - a
}

// norm2 is quantize.c's perceptually-weighted distance: heavy weight on
// green, moderate on red, light on blue, alpha ignored entirely.
func norm2(a, b [4]uint8) int64 {
	return 7*sq(dist(int64(a[0]), int64(b[0]))) +
		28*sq(dist(int64(a[1]), int64(b[1]))) +
		1*sq(dist(int64(a[2]), int64(b[2])))
}

// sharpDownsampleThreshold is the pixel-count cutoff above which Quantize
// clusters over a sharp-YUV 4:2:0 downsample of bm instead of every source
// pixel, to keep the k-means passes bounded on large images.
const sharpDownsampleThreshold = 512 * 512

// quantizeSamples collects the pixel set Quantize clusters over.
func quantizeSamples(bm *bitmap.Bitmap) ([][4]uint8, error) {
	bpp := bm.Colormode().Bpp()
	w, h := bm.Width(), bm.Height()

	if w*h <= sharpDownsampleThreshold {
		samples := make([][4]uint8, 0, w*h)
		for y := 0; y < h; y++ {
			row := bm.Row(y)
			for x := 0; x < w; x++ {
				off := x * bpp
				var px [4]uint8
				px[0], px[1], px[2] = row[off], row[off+1], row[off+2]
				if bpp == 4 {
					px[3] = row[off+3]
				} else {
					px[3] = 0xff
				}
				samples = append(samples, px)
			}
		}
		return samples, nil
	}

	rgb := make([]byte, w*h*3)
	for y := 0; y < h; y++ {
		row := bm.Row(y)
		for x := 0; x < w; x++ {
			off := x * bpp
			o := (y*w + x) * 3
			rgb[o], rgb[o+1], rgb[o+2] = row[off], row[off+1], row[off+2]
		}
	}

	yuv := image.NewYCbCr(image.Rect(0, 0, w, h), image.YCbCrSubsampleRatio420)
	if err := sharpyuv.Convert(rgb, w, h, w*3, yuv, sharpyuv.DefaultOptions()); err != nil {
		return nil, errs.New(errs.InvalidState, "filters.Quantize", err)
	}

	uvW, uvH := (w+1)/2, (h+1)/2
	samples := make([][4]uint8, 0, uvW*uvH)
	for j := 0; j < uvH; j++ {
		for i := 0; i < uvW; i++ {
			yi := yuv.YOffset(i*2, j*2)
			ci := yuv.COffset(i*2, j*2)
			c := colorspace.YUVToRGB(yuv.Y[yi], yuv.Cb[ci], yuv.Cr[ci])
			samples = append(samples, [4]uint8{c.R, c.G, c.B, 0xff})
		}
	}
	return samples, nil
}

// Quantize runs k-means color quantization over bm and returns up to
// maxColors dominant colors, most dominant first, matching quantize.c's
// quantizeWithOptions(..., YMAGINE_THEME_SATURATION): after k-means
// converges, each centroid's score is reweighted to favor saturated
// colors over near-black/near-white ones. Large images cluster over a
// sharp-YUV downsample rather than every source pixel.
func Quantize(bm *bitmap.Bitmap, maxColors int) ([]Color, error) {
	if maxColors <= 0 {
		return nil, nil
	}
	if maxColors > len(paletteSeed) {
		maxColors = len(paletteSeed)
	}
	if err := bm.Lock(); err != nil {
		return nil, err
	}
	defer bm.Unlock()

	bpp := bm.Colormode().Bpp()
	if bpp < 3 {
		return nil, errs.New(errs.InvalidArgument, "filters.Quantize", nil)
	}
	w, h := bm.Width(), bm.Height()
	if w <= 0 || h <= 0 {
		return nil, nil
	}

	samples, err := quantizeSamples(bm)
	if err != nil {
		return nil, err
	}

	centroids := make([]centroid, maxColors)
	for c := 0; c < maxColors; c++ {
		centroids[c].color = paletteSeed[c]
	}

	const maxIters = 100
	for iter := 0; iter < maxIters; iter++ {
		for c := range centroids {
			centroids[c].accumR, centroids[c].accumG = 0, 0
			centroids[c].accumB, centroids[c].accumA, centroids[c].count = 0, 0, 0
		}

		for _, cur := range samples {
			refID := 0
			refDist := norm2(cur, centroids[0].color)
			for c := 1; c < maxColors; c++ {
				if d := norm2(cur, centroids[c].color); d < refDist {
					refDist, refID = d, c
				}
			}

			centroids[refID].accumR += int64(cur[0])
			centroids[refID].accumG += int64(cur[1])
			centroids[refID].accumB += int64(cur[2])
			centroids[refID].accumA += int64(cur[3])
			centroids[refID].count++
		}

		var maxMove int64
		for c := range centroids {
			var next [4]uint8
			if centroids[c].count == 0 {
				next = [4]uint8{0xff, 0xff, 0xff, 0xff}
			} else {
				n := centroids[c].count
				next = [4]uint8{
					uint8(centroids[c].accumR / n),
					uint8(centroids[c].accumG / n),
					uint8(centroids[c].accumB / n),
					0xff,
				}
			}
			if d := norm2(next, centroids[c].color); d > maxMove {
				maxMove = d
			}
			centroids[c].color = next
		}
		if maxMove < 1 {
			break
		}
	}

	applySaturationScores(centroids)

	sort.SliceStable(centroids, func(i, j int) bool {
		ci, cj := centroids[i], centroids[j]
		if ci.count != cj.count {
			return ci.count > cj.count
		}
		for k := 0; k < 4; k++ {
			if ci.color[k] != cj.color[k] {
				return ci.color[k] < cj.color[k]
			}
		}
		return false
	})

	out := make([]Color, 0, maxColors)
	for _, c := range centroids {
		if c.count <= 0 {
			continue
		}
		out = append(out, Color{R: c.color[0], G: c.color[1], B: c.color[2], A: c.color[3], Score: int(c.count)})
	}
	return out, nil
}

// applySaturationScores reweights each centroid's vote count to prefer
// colors far from both black and white, matching quantize.c's
// YMAGINE_THEME_SATURATION post-pass.
func applySaturationScores(centroids []centroid) {
	black := [4]uint8{0x00, 0x00, 0x00, 0xff}
	white := [4]uint8{0xff, 0xff, 0xff, 0xff}
	critColor := [4]uint8{0x20, 0x20, 0x20, 0xff}
	dcrit := norm2(critColor, black)
	if dcrit == 0 {
		return
	}

	for i := range centroids {
		dwhite := norm2(white, centroids[i].color)
		dblack := norm2(black, centroids[i].color)
		dmin := dwhite
		if dblack < dmin {
			dmin = dblack
		}

		coeff := int64(256)
		if dmin < dcrit {
			coeff = (256 * (dcrit + (dcrit - dmin))) / dcrit
		}
		if coeff == 0 {
			coeff = 1
		}
		centroids[i].count = (centroids[i].count * 256) / coeff
	}
}

// DominantColor returns the single most dominant color in bm, or the
// transparent-black sentinel quantize.c's getThemeColor returns when no
// color could be determined.
func DominantColor(bm *bitmap.Bitmap) (Color, error) {
	colors, err := Quantize(bm, 8)
	if err != nil {
		return Color{}, err
	}
	if len(colors) == 0 {
		return Color{}, nil
	}
	return colors[0], nil
}
