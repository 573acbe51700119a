package shader

import (
	"testing"

	"github.com/yimagine/ymagine/colorspace"
)

func TestNewShaderIsIdentity(t *testing.T) {
	s := New()
	row := []byte{10, 20, 30, 255, 200, 100, 50, 255}
	want := append([]byte(nil), row...)
	s.Apply(row, 4, 2, 0, 0)
	for i := range row {
		if row[i] != want[i] {
			t.Fatalf("identity shader mutated row: got %v, want %v", row, want)
		}
	}
}

func TestAddBrightnessShiftsAllChannels(t *testing.T) {
	s := New()
	s.AddBrightness(0.2)
	row := []byte{100, 100, 100, 255}
	s.Apply(row, 4, 1, 0, 0)
	for i := 0; i < 3; i++ {
		if row[i] <= 100 {
			t.Errorf("channel %d = %d, want brighter than 100", i, row[i])
		}
	}
}

func TestAddContrastPivotsAroundGray(t *testing.T) {
	s := New()
	s.AddContrast(2.0)
	row := []byte{128, 128, 128, 255}
	s.Apply(row, 4, 1, 0, 0)
	for i := 0; i < 3; i++ {
		if row[i] != 128 {
			t.Errorf("mid-gray pixel should be a contrast fixed point, got %d", row[i])
		}
	}
}

func TestComposePixelReplace(t *testing.T) {
	src := [4]uint8{1, 2, 3, 4}
	color := [4]uint8{10, 20, 30, 40}
	got := ComposePixel(Replace, src, color)
	if got != color {
		t.Errorf("Replace = %v, want %v", got, color)
	}
}

func TestComposePixelOverOpaqueTop(t *testing.T) {
	base := [4]uint8{0, 0, 0, 255}
	top := [4]uint8{255, 255, 255, 255}
	got := ComposePixel(Over, base, top)
	if got[0] != 255 || got[1] != 255 || got[2] != 255 || got[3] != 255 {
		t.Errorf("opaque Over should fully replace, got %v", got)
	}
}

func TestComposePixelOverTransparentTop(t *testing.T) {
	base := [4]uint8{10, 20, 30, 255}
	top := [4]uint8{255, 255, 255, 0}
	got := ComposePixel(Over, base, top)
	if got != base {
		t.Errorf("fully transparent Over should be a no-op, got %v want %v", got, base)
	}
}

func TestComposePixelPlusClips(t *testing.T) {
	src := [4]uint8{200, 200, 200, 200}
	color := [4]uint8{200, 200, 200, 200}
	got := ComposePixel(Plus, src, color)
	if got[0] != 255 {
		t.Errorf("Plus should clip to 255, got %d", got[0])
	}
}

func TestHSVAdjustWrapsHue(t *testing.T) {
	// A large positive hue shift must not panic even when it pushes the
	// 8-bit hue wheel past its top.
	c := HSVAdjust(colorspace.RGB{R: 255, G: 0, B: 0}, 250, 0, 0)
	_ = c
}
