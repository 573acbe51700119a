package jpegcodec

import (
	"bytes"
	"testing"

	"github.com/yimagine/ymagine/bitmap"
	"github.com/yimagine/ymagine/channel"
	"github.com/yimagine/ymagine/format"
)

func solidRGB(t *testing.T, w, h int, r, g, b byte) *bitmap.Bitmap {
	t.Helper()
	bm := bitmap.New(bitmap.RGB)
	if err := bm.Resize(w, h); err != nil {
		t.Fatal(err)
	}
	bm.Lock()
	buf := bm.Buffer()
	for i := 0; i < w*h; i++ {
		buf[i*3], buf[i*3+1], buf[i*3+2] = r, g, b
	}
	bm.Unlock()
	return bm
}

func TestEncodeDecodeRoundTripPreservesDimensionsAndColor(t *testing.T) {
	src := solidRGB(t, 16, 16, 200, 20, 20)

	var encoded bytes.Buffer
	if err := (Codec{}).Encode(channel.NewWriter(&encoded), src, format.Default()); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	info, err := (Codec{}).Probe(channel.NewReader(bytes.NewReader(encoded.Bytes())))
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.Width != 16 || info.Height != 16 {
		t.Fatalf("Probe size = %dx%d, want 16x16", info.Width, info.Height)
	}

	dest := bitmap.New(bitmap.RGB)
	if err := (Codec{}).Decode(channel.NewReader(bytes.NewReader(encoded.Bytes())), format.Default(), dest); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	dest.Lock()
	defer dest.Unlock()
	row := dest.Row(8)
	// Lossy JPEG quantization moves individual values a little; the
	// dominant red channel should still read far above the other two.
	if row[0] < 150 {
		t.Errorf("red channel = %d, want > 150 after a red-solid JPEG round trip", row[0])
	}
	if row[0] <= row[1] || row[0] <= row[2] {
		t.Errorf("row = %v, want red channel dominant", row[:3])
	}
}

func TestDecodeAppliesRequestedScale(t *testing.T) {
	src := solidRGB(t, 20, 10, 50, 100, 150)
	var encoded bytes.Buffer
	if err := (Codec{}).Encode(channel.NewWriter(&encoded), src, format.Default()); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	opts := format.Default().WithMaxSize(10, 5).WithScaleMode(format.ScaleFit)
	dest := bitmap.New(bitmap.RGB)
	if err := (Codec{}).Decode(channel.NewReader(bytes.NewReader(encoded.Bytes())), opts, dest); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if dest.Width() != 10 || dest.Height() != 5 {
		t.Errorf("decoded size = %dx%d, want 10x5", dest.Width(), dest.Height())
	}
}

func TestDecodeRejectsGarbageInput(t *testing.T) {
	dest := bitmap.New(bitmap.RGB)
	err := (Codec{}).Decode(channel.NewReader(bytes.NewReader([]byte("not a jpeg"))), format.Default(), dest)
	if err == nil {
		t.Fatal("expected an error decoding non-JPEG data")
	}
}
