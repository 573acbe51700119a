package transform

import (
	"testing"

	"github.com/yimagine/ymagine/bitmap"
)

type rowCollector struct {
	rows [][]byte
}

func (c *rowCollector) WriteRow(row []byte, width, bpp, y int) error {
	cp := make([]byte, width*bpp)
	copy(cp, row)
	for len(c.rows) <= y {
		c.rows = append(c.rows, nil)
	}
	c.rows[y] = cp
	return nil
}

func solidRow(w, bpp int, val byte) []byte {
	row := make([]byte, w*bpp)
	for i := range row {
		row[i] = val
	}
	return row
}

func TestTransformerIdentityPassthrough(t *testing.T) {
	tr := New()
	if err := tr.Configure(Config{
		SrcWidth: 4, SrcHeight: 2,
		DestWidth: 4, DestHeight: 2,
		SrcMode: bitmap.RGB, DestMode: bitmap.RGB,
	}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	var out rowCollector
	tr.AddWriter(&out)

	rows := [][]byte{
		{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12},
		{13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24},
	}
	for _, r := range rows {
		if err := tr.Push(r); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	if len(out.rows) != 2 {
		t.Fatalf("got %d output rows, want 2", len(out.rows))
	}
	for i, r := range rows {
		for j := range r {
			if out.rows[i][j] != r[j] {
				t.Errorf("row %d byte %d = %d, want %d", i, j, out.rows[i][j], r[j])
			}
		}
	}
}

func TestTransformerDownscaleRowCount(t *testing.T) {
	tr := New()
	if err := tr.Configure(Config{
		SrcWidth: 4, SrcHeight: 4,
		DestWidth: 2, DestHeight: 2,
		SrcMode: bitmap.RGB, DestMode: bitmap.RGB,
	}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	var out rowCollector
	tr.AddWriter(&out)

	for i := 0; i < 4; i++ {
		if err := tr.Push(solidRow(4, 3, byte(50*i+10))); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	if len(out.rows) != 2 {
		t.Fatalf("got %d output rows, want 2", len(out.rows))
	}
	for _, row := range out.rows {
		if len(row) != 2*3 {
			t.Errorf("output row width = %d bytes, want 6", len(row))
		}
	}
}

func TestTransformerCropWindow(t *testing.T) {
	tr := New()
	if err := tr.Configure(Config{
		SrcWidth: 4, SrcHeight: 4,
		SrcRect:   bitmap.Rect{X: 1, Y: 1, Width: 2, Height: 2},
		DestWidth: 2, DestHeight: 2,
		SrcMode: bitmap.RGB, DestMode: bitmap.RGB,
	}); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	var out rowCollector
	tr.AddWriter(&out)

	for y := 0; y < 4; y++ {
		row := make([]byte, 4*3)
		for x := 0; x < 4; x++ {
			row[x*3] = byte(y*4 + x)
		}
		if err := tr.Push(row); err != nil {
			t.Fatalf("Push: %v", err)
		}
	}
	if len(out.rows) != 2 {
		t.Fatalf("got %d rows, want 2 (crop height)", len(out.rows))
	}
	// Row 0 of the output should come from source row 1, columns 1..2:
	// red channel values 4*1+1=5 and 4*1+2=6.
	if out.rows[0][0] != 5 {
		t.Errorf("cropped row 0 col 0 red = %d, want 5", out.rows[0][0])
	}
}

func TestTransformerRejectsEmptyRects(t *testing.T) {
	tr := New()
	err := tr.Configure(Config{
		SrcWidth: 0, SrcHeight: 0,
		DestWidth: 4, DestHeight: 4,
		SrcMode: bitmap.RGB, DestMode: bitmap.RGB,
	})
	if err == nil {
		t.Fatal("expected Configure to reject a zero-size source")
	}
}

func TestConvertRowGrayToRGBTriplicates(t *testing.T) {
	src := []byte{10, 200}
	dst := make([]byte, 2*3)
	convertRow(src, 2, bitmap.Grayscale, bitmap.RGB, dst)
	want := []byte{10, 10, 10, 200, 200, 200}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("byte %d = %d, want %d", i, dst[i], want[i])
		}
	}
}

func TestConvertRowRGBToRGBAForcesOpaqueAlpha(t *testing.T) {
	src := []byte{1, 2, 3}
	dst := make([]byte, 4)
	convertRow(src, 1, bitmap.RGB, bitmap.RGBA, dst)
	if dst[3] != 0xff {
		t.Errorf("alpha = %d, want 0xff", dst[3])
	}
}
