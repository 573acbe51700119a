// Package dispatch implements the Dispatcher: format sniffing and
// pipeline assembly for the three public entry points — DecodeImage,
// Transcode, and EncodeImage. It is the one
// package that knows about every codec adapter; everything upstream of it
// (the CLI, language bindings) only ever calls through here.
package dispatch

import (
	"bytes"

	"github.com/yimagine/ymagine/bitmap"
	"github.com/yimagine/ymagine/channel"
	"github.com/yimagine/ymagine/codec"
	"github.com/yimagine/ymagine/codec/gifcodec"
	"github.com/yimagine/ymagine/codec/jpegcodec"
	"github.com/yimagine/ymagine/codec/pngcodec"
	"github.com/yimagine/ymagine/codec/webpcodec"
	"github.com/yimagine/ymagine/filters"
	"github.com/yimagine/ymagine/format"
	"github.com/yimagine/ymagine/internal/errs"
)

// Format is the tagged variant DetectFormat returns.
type Format int

const (
	FormatUnknown Format = iota
	FormatJPEG
	FormatPNG
	FormatWebP
	FormatGIF
)

func (f Format) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	case FormatWebP:
		return "webp"
	case FormatGIF:
		return "gif"
	default:
		return "unknown"
	}
}

var pngSig = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// DetectFormat sniffs the first bytes of r non-destructively (Peek, never
// Read) against the byte signatures of the four supported formats.
func DetectFormat(r *channel.Reader) (Format, error) {
	head, err := r.Peek(16)
	if err != nil {
		return FormatUnknown, err
	}

	switch {
	case len(head) >= 3 && head[0] == 0xFF && head[1] == 0xD8 && head[2] == 0xFF:
		return FormatJPEG, nil
	case len(head) >= 8 && bytes.Equal(head[:8], pngSig):
		return FormatPNG, nil
	case len(head) >= 12 && string(head[0:4]) == "RIFF" && string(head[8:12]) == "WEBP":
		return FormatWebP, nil
	case len(head) >= 6 && (string(head[:6]) == "GIF87a" || string(head[:6]) == "GIF89a"):
		return FormatGIF, nil
	}
	return FormatUnknown, errs.New(errs.BadInput, "DetectFormat", nil)
}

func decoderFor(f Format) (codec.Decoder, error) {
	switch f {
	case FormatJPEG:
		return jpegcodec.Codec{}, nil
	case FormatPNG:
		return pngcodec.Codec{}, nil
	case FormatWebP:
		return webpcodec.Codec{}, nil
	case FormatGIF:
		return gifcodec.Codec{}, nil
	default:
		return nil, errs.New(errs.BadInput, "decoderFor", nil)
	}
}

func encoderFor(f format.OutputFormat) (codec.Encoder, error) {
	switch f {
	case format.FormatJPEG:
		return jpegcodec.Codec{}, nil
	case format.FormatPNG:
		return pngcodec.Codec{}, nil
	case format.FormatWebP:
		return webpcodec.Codec{}, nil
	default:
		// FormatGIF has no Encoder (gifcodec.Codec implements Decoder
		// only — GIF encoding is out of scope), and FormatUnknown is
		// never a valid encode target.
		return nil, errs.New(errs.InvalidArgument, "encoderFor", nil)
	}
}

// toFormatOutputFormat maps a sniffed input Format onto format.OutputFormat
// so the direct transcode fast path can compare "input format == requested
// output format" without a second switch table.
func toFormatOutputFormat(f Format) format.OutputFormat {
	switch f {
	case FormatJPEG:
		return format.FormatJPEG
	case FormatPNG:
		return format.FormatPNG
	case FormatWebP:
		return format.FormatWebP
	case FormatGIF:
		return format.FormatGIF
	default:
		return format.FormatUnknown
	}
}

// DecodeImage sniffs the format, calls the matching decoder, and
// optionally rotates and blurs the result.
func DecodeImage(dest *bitmap.Bitmap, r *channel.Reader, opts *format.FormatOptions) error {
	f, err := DetectFormat(r)
	if err != nil {
		return err
	}
	dec, err := decoderFor(f)
	if err != nil {
		return err
	}

	if opts.Rotate != 0 {
		// Decode to a temp bitmap at the already-computed output size,
		// then rotate into the caller's bitmap around that bitmap's
		// center. The crop rect is already baked into the temp bitmap's
		// content by the decoder, so its own center is the crop rect's
		// center.
		rotateOpts := *opts
		rotateOpts.Rotate = 0
		tmp := bitmap.New(dest.Colormode())
		if err := dec.Decode(r, &rotateOpts, tmp); err != nil {
			return err
		}
		if err := dest.Resize(tmp.Width(), tmp.Height()); err != nil {
			return err
		}
		bg := [4]byte{opts.BackgroundColor.R, opts.BackgroundColor.G, opts.BackgroundColor.B, opts.BackgroundColor.A}
		if err := filters.Rotate(dest, tmp, tmp.Width()/2, tmp.Height()/2, opts.Rotate, bg); err != nil {
			return err
		}
	} else {
		if err := dec.Decode(r, opts, dest); err != nil {
			return err
		}
	}

	if opts.Blur > 0 {
		if err := filters.Blur(dest, int(opts.Blur)); err != nil {
			return err
		}
	}
	return nil
}

// EncodeImage pulls scanlines from src and serializes them through the
// encoder matching opts.Format.
func EncodeImage(w *channel.Writer, src *bitmap.Bitmap, opts *format.FormatOptions) error {
	enc, err := encoderFor(opts.Format)
	if err != nil {
		return err
	}
	return enc.Encode(w, src, opts)
}

// Transcode drives an in-place format conversion: the direct
// JPEG-to-JPEG path skips allocating an intermediate destination bitmap
// when the input is JPEG, the requested output is JPEG (or Unknown,
// meaning "same as input"), and no rotation or blur is requested;
// otherwise it falls back to decode-then-encode.
//
// The standard library's image/jpeg package exposes no scanline-level
// encode API (only a full image.Image in one call), so this path cannot
// be a true zero-buffer scanline splice. The optimization that does carry
// over is real: no resizable-destination-bitmap bookkeeping, no
// rotate/blur branch, and a single small intermediate bitmap sized to the
// transform's own output rather than to whatever the caller's destination
// bitmap happened to be — see SPEC_FULL.md's "Open Question Resolutions".
func Transcode(in *channel.Reader, out *channel.Writer, opts *format.FormatOptions) error {
	srcFmt, err := DetectFormat(in)
	if err != nil {
		return err
	}

	direct := srcFmt == FormatJPEG &&
		(opts.Format == format.FormatJPEG || opts.Format == format.FormatUnknown) &&
		opts.Rotate == 0 && opts.Blur <= 0

	if direct {
		return transcodeJPEGDirect(in, out, opts)
	}

	dest := bitmap.New(bitmap.RGBA)
	if err := DecodeImage(dest, in, opts); err != nil {
		return err
	}
	outOpts := *opts
	if outOpts.Format == format.FormatUnknown {
		outOpts.Format = toFormatOutputFormat(srcFmt)
	}
	return EncodeImage(out, dest, &outOpts)
}

// transcodeJPEGDirect drives a JPEG decode straight into the minimal
// intermediate bitmap the transform requires, then re-encodes it,
// without exposing a resizable destination bitmap to the caller. The
// source's chroma subsampling is not inspected and opts.Subsampling is
// not applied: the re-encode uses image/jpeg's own subsampling. The only
// rejection is for Subsampling 0 with a probed mode other than RGB, and
// jpegcodec.Probe reports RGB for every JPEG, so that check does not
// fire for any input.
func transcodeJPEGDirect(in *channel.Reader, out *channel.Writer, opts *format.FormatOptions) error {
	// Probe and Decode each drain the channel independently, so buffer
	// the source once here and hand each call its own fresh Reader over
	// the same bytes.
	data, err := in.ReadAll()
	if err != nil {
		return err
	}

	dec := jpegcodec.Codec{}
	info, err := dec.Probe(channel.NewReader(bytes.NewReader(data)))
	if err != nil {
		return err
	}
	if opts.Subsampling == 0 && info.Mode != bitmap.RGB {
		return errs.New(errs.InvalidArgument, "transcodeJPEGDirect", nil)
	}

	tmp := bitmap.New(bitmap.RGB)
	directOpts := *opts
	directOpts.Resizable = true
	if err := dec.Decode(channel.NewReader(bytes.NewReader(data)), &directOpts, tmp); err != nil {
		return err
	}

	enc := jpegcodec.Codec{}
	return enc.Encode(out, tmp, opts)
}
