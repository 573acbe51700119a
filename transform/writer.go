package transform

import "github.com/yimagine/ymagine/bitmap"

// Writer accepts a finished scanline and its width/bpp/y coordinate.
// Multiple writers are modeled as an ordered slice of these.
type Writer interface {
	WriteRow(row []byte, width, bpp, y int) error
}

// WriterFunc adapts a plain function to the Writer interface.
type WriterFunc func(row []byte, width, bpp, y int) error

func (f WriterFunc) WriteRow(row []byte, width, bpp, y int) error { return f(row, width, bpp, y) }

// BitmapWriter is the built-in writer that copies finished rows into a
// destination Bitmap's full canvas, offset by (OffsetX, OffsetY), clipped
// to the canvas; the bitmap's active region is not consulted. It mirrors
// transformer.c's WriterVbitmap. If the destination mode is RGBA
// and Premultiplied is set, each pixel's RGB is premultiplied by its
// alpha on the way in.
type BitmapWriter struct {
	Dest          *bitmap.Bitmap
	OffsetX       int
	OffsetY       int
	Premultiplied bool
}

func (w *BitmapWriter) WriteRow(row []byte, width, bpp, y int) error {
	desty := w.OffsetY + y
	if desty < 0 || desty >= w.Dest.Height() {
		return nil
	}
	dst := w.Dest.Row(desty)
	if dst == nil {
		return nil
	}

	destx := w.OffsetX
	srcStart := 0
	if destx < 0 {
		srcStart = -destx * bpp
		destx = 0
	}
	dstBpp := w.Dest.Bpp()
	n := width
	if destx+n > w.Dest.Width() {
		n = w.Dest.Width() - destx
	}
	if n <= 0 {
		return nil
	}

	if w.Premultiplied && bpp == 4 && dstBpp == 4 {
		for i := 0; i < n; i++ {
			s := row[srcStart+i*bpp : srcStart+i*bpp+4]
			d := dst[(destx+i)*dstBpp : (destx+i)*dstBpp+4]
			a := int(s[3])
			d[0] = byte(int(s[0]) * a / 255)
			d[1] = byte(int(s[1]) * a / 255)
			d[2] = byte(int(s[2]) * a / 255)
			d[3] = s[3]
		}
		return nil
	}

	copy(dst[destx*dstBpp:(destx+n)*dstBpp], row[srcStart:srcStart+n*bpp])
	return nil
}
