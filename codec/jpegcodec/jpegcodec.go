// Package jpegcodec adapts the standard library's image/jpeg decoder and
// encoder to the codec.Decoder/codec.Encoder contract. The Go standard
// library does not expose an incremental, row-by-row JPEG decode API the
// way libjpeg's scanline interface does, so this adapter decodes the full
// frame once and then drives the Transformer by replaying its rows — the
// Transformer itself still never buffers more than one scanline's worth
// of working memory, preserving the bounded-memory contract for
// everything downstream of the stdlib decode step.
package jpegcodec

import (
	"bytes"
	stdjpeg "image/jpeg"

	"github.com/yimagine/ymagine/bitmap"
	"github.com/yimagine/ymagine/channel"
	"github.com/yimagine/ymagine/codec"
	"github.com/yimagine/ymagine/format"
	"github.com/yimagine/ymagine/internal/errs"
	"github.com/yimagine/ymagine/transform"
)

// Codec implements codec.Decoder and codec.Encoder for baseline and
// progressive JPEG.
type Codec struct{}

func (Codec) Probe(r *channel.Reader) (codec.Info, error) {
	data, err := r.ReadAll()
	if err != nil {
		return codec.Info{}, err
	}
	cfg, err := stdjpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return codec.Info{}, errs.New(errs.BadInput, "jpegcodec.Probe", err)
	}
	return codec.Info{Width: cfg.Width, Height: cfg.Height, Mode: bitmap.RGB}, nil
}

func (Codec) Decode(r *channel.Reader, opts *format.FormatOptions, dest *bitmap.Bitmap) error {
	data, err := r.ReadAll()
	if err != nil {
		return err
	}

	cfg, err := stdjpeg.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return errs.New(errs.BadInput, "jpegcodec.Decode", err)
	}
	srcW, srcH := cfg.Width, cfg.Height

	if err := opts.InvokeCallback(srcW, srcH, format.FormatJPEG); err != nil {
		return err
	}

	cropRect, err := format.ComputeCropRect(opts, srcW, srcH)
	if err != nil {
		return err
	}
	outW, outH, scaleMode, err := format.ComputeOutputSize(opts, cropRect.Width, cropRect.Height)
	if err != nil {
		return err
	}
	if scaleMode == format.ScaleCrop {
		cropRect = intersectCentered(cropRect, format.SourceWindowForCrop(cropRect.Width, cropRect.Height, outW, outH))
	}

	if opts.Resizable {
		if err := dest.Resize(outW, outH); err != nil {
			return err
		}
	}

	img, err := stdjpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return errs.New(errs.BadInput, "jpegcodec.Decode", err)
	}

	if p := extractXMPPano(data); p != nil {
		dest.SetXMP(p)
	}

	tr := transform.New()
	if err := tr.Configure(transform.Config{
		SrcWidth: srcW, SrcHeight: srcH, SrcRect: cropRect,
		DestWidth: outW, DestHeight: outH, DestRect: bitmap.FullRect(outW, outH),
		SrcMode: bitmap.RGB, DestMode: dest.Colormode(),
	}); err != nil {
		return err
	}
	if opts.Shader != nil {
		tr.SetShader(opts.Shader)
	}
	tr.SetSharpen(opts.Sharpen)
	tr.AddWriter(&transform.BitmapWriter{Dest: dest})

	if err := dest.Lock(); err != nil {
		return err
	}
	defer dest.Unlock()

	row := make([]byte, srcW*bitmap.RGB.Bpp())
	for y := 0; y < srcH; y++ {
		codec.ExtractRow(img, y, bitmap.RGB, row)
		if err := tr.Push(row); err != nil {
			return err
		}
	}
	return nil
}

func (Codec) Encode(w *channel.Writer, src *bitmap.Bitmap, opts *format.FormatOptions) error {
	quality := opts.Quality
	if quality <= 0 {
		quality = 85
	}
	if err := src.Lock(); err != nil {
		return err
	}
	defer src.Unlock()

	buf := &bytes.Buffer{}
	if err := stdjpeg.Encode(buf, codec.BitmapImage{Bm: src}, &stdjpeg.Options{Quality: quality}); err != nil {
		return errs.New(errs.IoError, "jpegcodec.Encode", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}
	return nil
}

// intersectCentered keeps the caller's requested crop rect but clamps it
// to the centered same-aspect window format.ScaleCrop computed, so an
// explicit crop combined with scale=crop narrows rather than overrides.
// centered is relative to requested's origin, since SourceWindowForCrop
// only sees the crop's width and height.
func intersectCentered(requested, centered bitmap.Rect) bitmap.Rect {
	if requested == (bitmap.Rect{}) {
		return centered
	}
	centered.X += requested.X
	centered.Y += requested.Y
	return bitmap.Intersect(requested, centered)
}
