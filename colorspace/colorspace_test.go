package colorspace

import "testing"

func TestRGBToHSVRoundTrip(t *testing.T) {
	cases := []RGB{
		{R: 0, G: 0, B: 0},
		{R: 255, G: 255, B: 255},
		{R: 255, G: 0, B: 0},
		{R: 0, G: 255, B: 0},
		{R: 0, G: 0, B: 255},
		{R: 128, G: 64, B: 200},
	}
	for _, c := range cases {
		hsv := RGBToHSV(c)
		got := HSVToRGB(hsv)
		// Quantization to 8-bit hue means round trips aren't bit-exact;
		// allow a small tolerance per channel.
		if absDiff(int(got.R), int(c.R)) > 2 || absDiff(int(got.G), int(c.G)) > 2 || absDiff(int(got.B), int(c.B)) > 2 {
			t.Errorf("RGB %+v -> HSV %+v -> RGB %+v, too far from original", c, hsv, got)
		}
	}
}

func TestRGBToHSVGrayIsZeroSaturation(t *testing.T) {
	hsv := RGBToHSV(RGB{R: 128, G: 128, B: 128})
	if hsv.S != 0 {
		t.Errorf("gray pixel saturation = %d, want 0", hsv.S)
	}
}

func TestLuminanceWeights(t *testing.T) {
	white := Luminance(255, 255, 255)
	black := Luminance(0, 0, 0)
	if white <= black {
		t.Errorf("Luminance(white)=%d should exceed Luminance(black)=%d", white, black)
	}
	if black != 0 {
		t.Errorf("Luminance(black) = %d, want 0", black)
	}
	if white < 250 || white > 255 {
		t.Errorf("Luminance(white) = %d, want close to 255", white)
	}
}

func TestYUVToRGBPrimaries(t *testing.T) {
	white := YUVToRGB(255, 128, 128)
	if white.R < 240 || white.G < 240 || white.B < 240 {
		t.Errorf("full-luma neutral-chroma YUV should decode near white, got %+v", white)
	}
	black := YUVToRGB(16, 128, 128)
	if black.R > 15 || black.G > 15 || black.B > 15 {
		t.Errorf("black-level neutral-chroma YUV should decode near black, got %+v", black)
	}
}

func absDiff(a, b int) int {
	if a < b {
		return b - a
	}
	return a - b
}
