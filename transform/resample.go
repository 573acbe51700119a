package transform

import (
	"github.com/yimagine/ymagine/bitmap"
	"github.com/yimagine/ymagine/colorspace"
)

// buildHorizontalMap precomputes, for each destination column i, the
// fixed-point source-space boundary up to which that column integrates
// samples: map[i] = ScaleFixedPoint(i+1, destWidth, srcWidth). Computed
// once per Transformer configuration rather than per row.
func buildHorizontalMap(destWidth, srcWidth int) []int64 {
	m := make([]int64, destWidth)
	for i := 0; i < destWidth; i++ {
		m[i] = ScaleFixedPoint(i+1, destWidth, srcWidth)
	}
	return m
}

// bltLineExt performs an area-weighted horizontal resample: each
// destination column integrates the fractional overlap of every source
// sample between the previous column's boundary and its own.
func bltLineExt(src []byte, srcWidth, bpp int, dst []byte, destWidth int, hmap []int64) {
	var f0 int64
	var sum [4]int64
	for i := 0; i < destWidth; i++ {
		f1 := hmap[i]
		sum[0], sum[1], sum[2], sum[3] = 0, 0, 0, 0
		var total int64
		pos := f0
		for pos < f1 {
			srcIdx := int(pos >> FixedShift)
			if srcIdx >= srcWidth {
				srcIdx = srcWidth - 1
			}
			boundary := int64(srcIdx+1) << FixedShift
			segEnd := f1
			if boundary < segEnd {
				segEnd = boundary
			}
			w := segEnd - pos
			off := srcIdx * bpp
			for c := 0; c < bpp; c++ {
				sum[c] += int64(src[off+c]) * w
			}
			total += w
			pos = segEnd
		}
		if total == 0 {
			total = 1
		}
		doff := i * bpp
		for c := 0; c < bpp; c++ {
			dst[doff+c] = byte(sum[c] / total)
		}
		f0 = f1
	}
}

// mergeRow implements YmagineMergeLine: per-channel weighted average of
// an accumulator row with a newly arrived contribution, short-circuiting
// when either weight is zero.
func mergeRow(accum, src []byte, stashWeight, weight int64) {
	if stashWeight == 0 {
		copy(accum, src)
		return
	}
	if weight == 0 {
		return
	}
	total := stashWeight + weight
	for i := range accum {
		accum[i] = byte((int64(accum[i])*stashWeight + int64(src[i])*weight) / total)
	}
}

// convertRow translates one full-width row from srcMode to destMode:
// RGB->RGBA forces alpha 0xFF, RGBA->RGB drops alpha without premultiply,
// Grayscale->RGB triplicates the channel, and YUV is converted via the
// BT.601 table.
func convertRow(src []byte, width int, srcMode, destMode bitmap.ColorMode, dst []byte) {
	if srcMode == destMode {
		copy(dst, src[:width*srcMode.Bpp()])
		return
	}
	sbpp, dbpp := srcMode.Bpp(), destMode.Bpp()
	for i := 0; i < width; i++ {
		var r, g, b, a uint8 = 0, 0, 0, 0xff
		so := i * sbpp
		switch srcMode {
		case bitmap.Grayscale:
			r, g, b = src[so], src[so], src[so]
		case bitmap.RGB:
			r, g, b = src[so], src[so+1], src[so+2]
		case bitmap.RGBA:
			r, g, b, a = src[so], src[so+1], src[so+2], src[so+3]
		case bitmap.YUV:
			c := colorspace.YUVToRGB(src[so], src[so+1], src[so+2])
			r, g, b = c.R, c.G, c.B
		}

		do := i * dbpp
		switch destMode {
		case bitmap.Grayscale:
			dst[do] = colorspace.Luminance2(r, g, b)
		case bitmap.RGB:
			dst[do], dst[do+1], dst[do+2] = r, g, b
		case bitmap.RGBA:
			dst[do], dst[do+1], dst[do+2], dst[do+3] = r, g, b, a
		case bitmap.YUV:
			dst[do], dst[do+1], dst[do+2] = r, g, b // decoder-internal only; not re-encoded
		}
	}
}
