// Package codec declares the shared contract every per-format adapter
// implements: a decoder parses a header, invokes the FormatOptions
// progress callback, computes the crop/output geometry, configures a
// Transformer, and pushes scanlines; an encoder pulls scanlines from a
// Bitmap (or, on the direct transcode path, receives them straight from a
// Transformer writer) and serializes them.
package codec

import (
	"github.com/yimagine/ymagine/bitmap"
	"github.com/yimagine/ymagine/channel"
	"github.com/yimagine/ymagine/format"
)

// Info is what a decoder reports once it has parsed the source header,
// before any scanline is produced.
type Info struct {
	Width, Height int
	Mode          bitmap.ColorMode
}

// Decoder is the decode contract every per-format adapter implements.
type Decoder interface {
	// Probe parses just enough of the header to report dimensions and
	// native color mode.
	Probe(r *channel.Reader) (Info, error)
	// Decode drives a full decode into dest, following the contract:
	// invoke callback, compute crop/output size, configure a Transformer,
	// push every source row.
	Decode(r *channel.Reader, opts *format.FormatOptions, dest *bitmap.Bitmap) error
}

// Encoder implements the encode half: pull scanlines from src and
// serialize them to w.
type Encoder interface {
	Encode(w *channel.Writer, src *bitmap.Bitmap, opts *format.FormatOptions) error
}
