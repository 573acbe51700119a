package webpcodec

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

func TestEncodeDecodeRoundTripPreservesDimensions(t *testing.T) {
	src := solidRGB(t, 32, 16, 30, 180, 30)

	var encoded bytes.Buffer
	if err := (Codec{}).Encode(channel.NewWriter(&encoded), src, format.Default()); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	info, err := (Codec{}).Probe(channel.NewReader(bytes.NewReader(encoded.Bytes())))
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.Width != 32 || info.Height != 16 {
		t.Fatalf("Probe size = %dx%d, want 32x16", info.Width, info.Height)
	}

	dest := bitmap.New(bitmap.RGB)
	if err := (Codec{}).Decode(channel.NewReader(bytes.NewReader(encoded.Bytes())), format.Default(), dest); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if dest.Width() != 32 || dest.Height() != 16 {
		t.Fatalf("decoded size = %dx%d, want 32x16", dest.Width(), dest.Height())
	}
	dest.Lock()
	defer dest.Unlock()
	row := dest.Row(8)
	if row[1] <= row[0] || row[1] <= row[2] {
		t.Errorf("row = %v, want green channel dominant after a green-solid WebP round trip", row[:3])
	}
}

func TestDecodeRejectsGarbageInput(t *testing.T) {
	dest := bitmap.New(bitmap.RGB)
	err := (Codec{}).Decode(channel.NewReader(bytes.NewReader([]byte("not a webp"))), format.Default(), dest)
	if err == nil {
		t.Fatal("expected an error decoding non-WebP data")
	}
}
