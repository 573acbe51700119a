package pngcodec

import (
	"bytes"
	"testing"

	"github.com/yimagine/ymagine/bitmap"
	"github.com/yimagine/ymagine/channel"
	"github.com/yimagine/ymagine/format"
)

func TestProbeReportsDimensions(t *testing.T) {
	src := bitmap.New(bitmap.RGB)
	if err := src.Resize(4, 3); err != nil {
		t.Fatal(err)
	}
	src.Lock()
	buf := src.Buffer()
	for i := range buf {
		buf[i] = byte(i)
	}
	src.Unlock()

	var out bytes.Buffer
	if err := (Codec{}).Encode(channel.NewWriter(&out), src, format.Default()); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	info, err := (Codec{}).Probe(channel.NewReader(bytes.NewReader(out.Bytes())))
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if info.Width != 4 || info.Height != 3 {
		t.Errorf("Probe size = %dx%d, want 4x3", info.Width, info.Height)
	}
}

func TestDecodeRoundTripsRGBExactly(t *testing.T) {
	src := bitmap.New(bitmap.RGB)
	if err := src.Resize(3, 2); err != nil {
		t.Fatal(err)
	}
	src.Lock()
	copy(src.Buffer(), []byte{
		10, 20, 30, 40, 50, 60, 70, 80, 90,
		11, 21, 31, 41, 51, 61, 71, 81, 91,
	})
	src.Unlock()

	var encoded bytes.Buffer
	if err := (Codec{}).Encode(channel.NewWriter(&encoded), src, format.Default()); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	dest := bitmap.New(bitmap.RGB)
	opts := format.Default()
	if err := (Codec{}).Decode(channel.NewReader(bytes.NewReader(encoded.Bytes())), opts, dest); err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if dest.Width() != 3 || dest.Height() != 2 {
		t.Fatalf("decoded size = %dx%d, want 3x2", dest.Width(), dest.Height())
	}
	dest.Lock()
	defer dest.Unlock()
	src.Lock()
	defer src.Unlock()
	for y := 0; y < 2; y++ {
		got, want := dest.Row(y), src.Row(y)
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("row %d byte %d = %d, want %d", y, i, got[i], want[i])
			}
		}
	}
}

func TestDecodeRejectsGarbageInput(t *testing.T) {
	dest := bitmap.New(bitmap.RGB)
	err := (Codec{}).Decode(channel.NewReader(bytes.NewReader([]byte("not a png"))), format.Default(), dest)
	if err == nil {
		t.Fatal("expected an error decoding non-PNG data")
	}
}
