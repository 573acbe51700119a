// Package channel implements the byte-stream abstraction: reading,
// writing, and peek-back for non-destructive format sniffing, built on
// bufio.
package channel

import (
	"bufio"
	"io"

	"github.com/yimagine/ymagine/internal/errs"
)

// Reader is a peekable byte-stream source: Peek lets the Dispatcher sniff
// a format's magic bytes and "push them back" simply by not consuming
// them, rather than requiring an explicit push-back call.
type Reader struct {
	br *bufio.Reader
}

// NewReader wraps an io.Reader. If r is already a *bufio.Reader, it is
// reused directly whatever its buffer size.
func NewReader(r io.Reader) *Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return &Reader{br: br}
	}
	return &Reader{br: bufio.NewReaderSize(r, 32*1024)}
}

// Peek returns the next n bytes without consuming them, so a caller can
// sniff a format's magic bytes and leave them in the stream for the
// decoder that follows.
func (r *Reader) Peek(n int) ([]byte, error) {
	b, err := r.br.Peek(n)
	if err != nil && err != io.EOF {
		return b, errs.New(errs.IoError, "Reader.Peek", err)
	}
	return b, nil
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.br.Read(p)
	if err != nil && err != io.EOF {
		return n, errs.New(errs.IoError, "Reader.Read", err)
	}
	return n, err
}

// ReadAll drains the reader with io.ReadAll; the source's length, if it
// exposes one, is not used to size the result.
func (r *Reader) ReadAll() ([]byte, error) {
	b, err := io.ReadAll(r.br)
	if err != nil {
		return nil, errs.New(errs.IoError, "Reader.ReadAll", err)
	}
	return b, nil
}

// Writer is the sink half of the channel abstraction.
type Writer struct {
	w io.Writer
}

func NewWriter(w io.Writer) *Writer { return &Writer{w: w} }

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	if err != nil {
		return n, errs.New(errs.IoError, "Writer.Write", err)
	}
	return n, nil
}
