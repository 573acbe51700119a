// Package shader implements PixelShader: an ordered composition of
// per-pixel color operations — a color-matrix LUT, a vignette overlay, and
// a preset LUT — applied by the Transformer to each finished row.
package shader

import (
	"math"

	"github.com/yimagine/ymagine/colorspace"
)

// VignetteSource supplies one row of a vignette mask, already scaled to
// the image rect the Transformer is producing. Row returns RGBA bytes for
// `width` pixels.
type VignetteSource interface {
	Row(y, width int) []byte
}

type vignetteEffect struct {
	mask    VignetteSource
	compose Compose
}

type presetEffect struct {
	lut [3][256]byte
}

// PixelShader accumulates color-matrix adjustments into one 3x256 LUT and
// holds an ordered list of non-LUT effects (vignette, preset): color
// effects accumulate additively into the one LUT, vignette applied
// first, then the LUT.
type PixelShader struct {
	lut        [3][256]int32 // accumulated in 16.16 fixed point, channel order R,G,B
	lutDirty   bool
	vignettes  []vignetteEffect
	presets    []presetEffect
}

// New returns an identity PixelShader (LUT is the identity ramp until a
// color effect is added).
func New() *PixelShader {
	s := &PixelShader{}
	s.resetLUT()
	return s
}

func (s *PixelShader) resetLUT() {
	for c := 0; c < 3; c++ {
		for i := 0; i < 256; i++ {
			s.lut[c][i] = int32(i) << 16
		}
	}
}

const fix16 = 1 << 16

func clampFix(v int32) int32 {
	if v < 0 {
		return 0
	}
	if v > 255<<16 {
		return 255 << 16
	}
	return v
}

// AddBrightness adds a constant offset in [-1, 1] (fraction of full
// scale) to every channel.
func (s *PixelShader) AddBrightness(amount float64) {
	delta := int32(amount * 255 * fix16)
	s.applyPerEntry(func(v int32) int32 { return v + delta })
}

// AddExposure multiplies every channel by 2^stops.
func (s *PixelShader) AddExposure(stops float64) {
	mul := math.Pow(2, stops)
	s.applyPerEntry(func(v int32) int32 { return int32(float64(v) * mul) })
}

// AddContrast pivots every channel around mid-gray (128) by factor.
func (s *PixelShader) AddContrast(factor float64) {
	pivot := int32(128) << 16
	s.applyPerEntry(func(v int32) int32 { return pivot + int32(float64(v-pivot)*factor) })
}

// AddSaturation compresses (factor < 1) or expands (factor > 1) each
// channel's distance from the per-entry luminance-weighted gray value.
func (s *PixelShader) AddSaturation(factor float64) {
	// Saturation needs all three channels together, so it is applied as
	// a post-pass over the current LUT rather than per-entry per-channel.
	var gray [256]int32
	for i := 0; i < 256; i++ {
		r, g, b := s.lut[0][i]>>16, s.lut[1][i]>>16, s.lut[2][i]>>16
		gray[i] = (218*r + 732*g + 74*b) >> 10
	}
	for c := 0; c < 3; c++ {
		for i := 0; i < 256; i++ {
			v := s.lut[c][i] >> 16
			g := gray[i]
			s.lut[c][i] = clampFix((g + int32(float64(v-g)*factor)) << 16)
		}
	}
}

// AddTemperature warms (positive) or cools (negative) the image by
// ramping red/blue in opposite directions.
func (s *PixelShader) AddTemperature(amount float64) {
	rDelta := int32(amount * 40 * fix16)
	bDelta := int32(-amount * 40 * fix16)
	for i := 0; i < 256; i++ {
		s.lut[0][i] = clampFix(s.lut[0][i] + rDelta)
		s.lut[2][i] = clampFix(s.lut[2][i] + bDelta)
	}
}

// AddWhitebalance scales the R, G and B channels by independent gains
// (rGain, gGain, bGain).
func (s *PixelShader) AddWhitebalance(rGain, gGain, bGain float64) {
	s.applyChannel(0, func(v int32) int32 { return int32(float64(v) * rGain) })
	s.applyChannel(1, func(v int32) int32 { return int32(float64(v) * gGain) })
	s.applyChannel(2, func(v int32) int32 { return int32(float64(v) * bGain) })
}

func (s *PixelShader) applyPerEntry(f func(int32) int32) {
	for c := 0; c < 3; c++ {
		for i := 0; i < 256; i++ {
			s.lut[c][i] = clampFix(f(s.lut[c][i]))
		}
	}
}

func (s *PixelShader) applyChannel(c int, f func(int32) int32) {
	for i := 0; i < 256; i++ {
		s.lut[c][i] = clampFix(f(s.lut[c][i]))
	}
}

// SetPreset installs a 3x256 lookup table applied after all accumulated
// color-matrix effects, matching the Preset(lut) effect variant.
func (s *PixelShader) SetPreset(lut [3][256]byte) {
	s.presets = append(s.presets, presetEffect{lut: lut})
}

// AddVignette appends a vignette effect: mask supplies per-row RGBA
// composited over the row via compose.
func (s *PixelShader) AddVignette(mask VignetteSource, compose Compose) {
	s.vignettes = append(s.vignettes, vignetteEffect{mask: mask, compose: compose})
}

// HasVignette reports whether any vignette effect is present; the
// Transformer queries this to decide whether it must buffer the
// pre-shader row for re-derivation at multiple destination rows.
func (s *PixelShader) HasVignette() bool {
	return len(s.vignettes) > 0
}

// Apply shades one destination row in place. row is bpp-packed RGB or
// RGBA, width pixels wide; (x, y) is the row's position within the full
// output image, used to fetch the right vignette mask row.
func (s *PixelShader) Apply(row []byte, bpp, width, x, y int) {
	if bpp < 3 {
		return
	}
	for _, v := range s.vignettes {
		maskRow := v.mask.Row(y, width)
		if maskRow == nil {
			continue
		}
		for i := 0; i < width; i++ {
			off := i * bpp
			var src [4]uint8
			src[0], src[1], src[2] = row[off], row[off+1], row[off+2]
			if bpp == 4 {
				src[3] = row[off+3]
			} else {
				src[3] = 0xff
			}
			var col [4]uint8
			mOff := i * 4
			if mOff+4 <= len(maskRow) {
				col[0], col[1], col[2], col[3] = maskRow[mOff], maskRow[mOff+1], maskRow[mOff+2], maskRow[mOff+3]
			}
			out := ComposePixel(v.compose, src, col)
			row[off], row[off+1], row[off+2] = out[0], out[1], out[2]
			if bpp == 4 {
				row[off+3] = out[3]
			}
		}
	}

	for i := 0; i < width; i++ {
		off := i * bpp
		r := byte((s.lut[0][row[off]]) >> 16)
		g := byte((s.lut[1][row[off+1]]) >> 16)
		b := byte((s.lut[2][row[off+2]]) >> 16)
		row[off], row[off+1], row[off+2] = r, g, b
		for _, p := range s.presets {
			row[off] = p.lut[0][row[off]]
			row[off+1] = p.lut[1][row[off+1]]
			row[off+2] = p.lut[2][row[off+2]]
		}
	}
}

// HSVAdjust is a convenience helper: shift hue/saturation/value of a
// single RGB pixel.
func HSVAdjust(c colorspace.RGB, dh, ds, dv int) colorspace.RGB {
	hsv := colorspace.RGBToHSV(c)
	h := int(hsv.H) + dh
	h &= colorspace.H360 - 1
	s := clampInt(int(hsv.S)+ds, 0, 255)
	v := clampInt(int(hsv.V)+dv, 0, 255)
	return colorspace.HSVToRGB(colorspace.HSV{H: uint8(h), S: uint8(s), V: uint8(v)})
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
