package filters

import (
	"testing"

	"github.com/yimagine/ymagine/bitmap"
	"github.com/yimagine/ymagine/colorspace"
	"github.com/yimagine/ymagine/shader"
)

func solidBitmap(t *testing.T, mode bitmap.ColorMode, w, h int, fill []byte) *bitmap.Bitmap {
	t.Helper()
	bm := bitmap.New(mode)
	if err := bm.Resize(w, h); err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if err := bm.Lock(); err != nil {
		t.Fatalf("Lock: %v", err)
	}
	buf := bm.Buffer()
	bpp := mode.Bpp()
	for i := 0; i < w*h; i++ {
		copy(buf[i*bpp:(i+1)*bpp], fill)
	}
	bm.Unlock()
	return bm
}

func TestComposeColorReplace(t *testing.T) {
	bm := solidBitmap(t, bitmap.RGBA, 2, 2, []byte{0, 0, 0, 255})
	if err := ComposeColor(bm, [4]byte{200, 100, 50, 255}, shader.Replace); err != nil {
		t.Fatalf("ComposeColor: %v", err)
	}
	bm.Lock()
	defer bm.Unlock()
	row := bm.Row(0)
	if row[0] != 200 || row[1] != 100 || row[2] != 50 {
		t.Errorf("row = %v, want replaced with (200,100,50,255)", row)
	}
}

func TestComposeImageOffsetClips(t *testing.T) {
	dst := solidBitmap(t, bitmap.RGB, 4, 4, []byte{0, 0, 0})
	src := solidBitmap(t, bitmap.RGB, 2, 2, []byte{255, 255, 255})
	if err := ComposeImage(dst, src, 3, 3, shader.Replace); err != nil {
		t.Fatalf("ComposeImage: %v", err)
	}
	dst.Lock()
	defer dst.Unlock()
	row := dst.Row(3)
	if row[3*3] != 255 {
		t.Errorf("in-bounds pixel at (3,3) = %d, want 255", row[3*3])
	}
	// The second column of src would land at x=4, outside a width-4 canvas
	// (valid indices 0..3); ComposeImage must silently clip it rather than
	// panic or corrupt adjacent rows.
}

func TestComposeImageRejectsMismatchedMode(t *testing.T) {
	dst := solidBitmap(t, bitmap.RGB, 2, 2, []byte{0, 0, 0})
	src := solidBitmap(t, bitmap.RGBA, 2, 2, []byte{0, 0, 0, 255})
	if err := ComposeImage(dst, src, 0, 0, shader.Replace); err == nil {
		t.Fatal("expected an error composing bitmaps of different color modes")
	}
}

func TestBlurIsNoOpAtZeroRadius(t *testing.T) {
	bm := solidBitmap(t, bitmap.RGB, 3, 3, []byte{10, 20, 30})
	if err := Blur(bm, 0); err != nil {
		t.Fatalf("Blur: %v", err)
	}
	bm.Lock()
	defer bm.Unlock()
	row := bm.Row(1)
	if row[3] != 10 || row[4] != 20 || row[5] != 30 {
		t.Errorf("zero-radius blur should not modify pixels, got %v", row)
	}
}

func TestBlurSmoothsASharpEdge(t *testing.T) {
	bm := bitmap.New(bitmap.RGB)
	if err := bm.Resize(8, 8); err != nil {
		t.Fatal(err)
	}
	bm.Lock()
	buf := bm.Buffer()
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := byte(0)
			if x >= 4 {
				v = 255
			}
			off := (y*8 + x) * 3
			buf[off], buf[off+1], buf[off+2] = v, v, v
		}
	}
	bm.Unlock()

	if err := Blur(bm, 2); err != nil {
		t.Fatalf("Blur: %v", err)
	}
	bm.Lock()
	defer bm.Unlock()
	row := bm.Row(4)
	// Right at the former edge (x=4), blurring should pull the value away
	// from a hard 0/255 step.
	v := row[4*3]
	if v == 0 || v == 255 {
		t.Errorf("pixel at the blurred edge = %d, want an intermediate value", v)
	}
}

func TestColorizeRejectsGrayscale(t *testing.T) {
	bm := bitmap.New(bitmap.Grayscale)
	if err := bm.Resize(2, 2); err != nil {
		t.Fatal(err)
	}
	if err := Colorize(bm, colorspace.RGB{R: 255, G: 0, B: 0}); err == nil {
		t.Fatal("expected Colorize to reject a grayscale bitmap")
	}
}

func TestColorizeTintsTowardsReferenceHue(t *testing.T) {
	bm := solidBitmap(t, bitmap.RGB, 4, 9, []byte{128, 128, 128})
	if err := Colorize(bm, colorspace.RGB{R: 0, G: 0, B: 255}); err != nil {
		t.Fatalf("Colorize: %v", err)
	}
	bm.Lock()
	defer bm.Unlock()
	// Middle row (full brightness band) should now lean blue.
	row := bm.Row(4)
	if row[2] <= row[0] {
		t.Errorf("colorized middle row = (%d,%d,%d), want blue channel dominant", row[0], row[1], row[2])
	}
}

func TestQuantizeReturnsAtMostMaxColors(t *testing.T) {
	bm := bitmap.New(bitmap.RGB)
	if err := bm.Resize(8, 8); err != nil {
		t.Fatal(err)
	}
	bm.Lock()
	buf := bm.Buffer()
	for i := 0; i < 8*8; i++ {
		c := byte(0)
		if i%2 == 0 {
			c = 255
		}
		buf[i*3], buf[i*3+1], buf[i*3+2] = c, 0, 255-c
	}
	bm.Unlock()

	colors, err := Quantize(bm, 4)
	if err != nil {
		t.Fatalf("Quantize: %v", err)
	}
	if len(colors) == 0 {
		t.Fatal("expected at least one dominant color")
	}
	if len(colors) > 4 {
		t.Errorf("got %d colors, want at most 4", len(colors))
	}
	for i := 1; i < len(colors); i++ {
		if colors[i].Score > colors[i-1].Score {
			t.Errorf("colors not sorted by descending score: %+v", colors)
		}
	}
}

func TestDominantColorOnSolidImage(t *testing.T) {
	bm := solidBitmap(t, bitmap.RGB, 4, 4, []byte{10, 200, 30})
	c, err := DominantColor(bm)
	if err != nil {
		t.Fatalf("DominantColor: %v", err)
	}
	if c.Score == 0 {
		t.Fatal("expected a nonzero dominant-color score for a solid image")
	}
}

func TestSobelEnergyZeroOnFlatImage(t *testing.T) {
	bm := solidBitmap(t, bitmap.RGB, 5, 5, []byte{50, 50, 50})
	energy, err := SobelEnergy(bm)
	if err != nil {
		t.Fatalf("SobelEnergy: %v", err)
	}
	for y := range energy {
		for x := range energy[y] {
			if energy[y][x] != 0 {
				t.Fatalf("energy[%d][%d] = %d, want 0 on a flat image", y, x, energy[y][x])
			}
		}
	}
}

func TestHighestEnergyWindowFindsHotspot(t *testing.T) {
	energy := make([][]int, 10)
	for y := range energy {
		energy[y] = make([]int, 10)
	}
	for y := 6; y < 9; y++ {
		for x := 6; x < 9; x++ {
			energy[y][x] = 100
		}
	}
	x, y := HighestEnergyWindow(energy, 3, 3)
	if x != 6 || y != 6 {
		t.Errorf("HighestEnergyWindow = (%d,%d), want (6,6)", x, y)
	}
}

func TestRotateZeroDegreesIsIdentity(t *testing.T) {
	src := solidBitmap(t, bitmap.RGB, 4, 4, []byte{10, 20, 30})
	dst := bitmap.New(bitmap.RGB)
	if err := dst.Resize(4, 4); err != nil {
		t.Fatal(err)
	}
	if err := Rotate(dst, src, 2, 2, 0, [4]byte{0, 0, 0, 0}); err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	dst.Lock()
	defer dst.Unlock()
	row := dst.Row(2)
	if row[2*3] != 10 || row[2*3+1] != 20 || row[2*3+2] != 30 {
		t.Errorf("zero-degree rotation center pixel = %v, want (10,20,30)", row[2*3:2*3+3])
	}
}
