// Package webpcodec adapts github.com/deepteams/webp (VP8, VP8L, and
// VP8X) to the codec.Decoder/codec.Encoder contract. Unlike jpegcodec
// and pngcodec, this is not a thin stdlib wrapper: it drives that
// module's VP8 bitstream encoder and decoder directly.
package webpcodec

import (
	"bytes"

	webp "github.com/deepteams/webp"
	"github.com/yimagine/ymagine/bitmap"
	"github.com/yimagine/ymagine/channel"
	"github.com/yimagine/ymagine/codec"
	"github.com/yimagine/ymagine/format"
	"github.com/yimagine/ymagine/internal/errs"
	"github.com/yimagine/ymagine/transform"
)

// Codec implements codec.Decoder and codec.Encoder for WebP (VP8/VP8L
// decode, VP8 lossy encode — VP8L/lossless encode and animation are
// exposed by github.com/deepteams/webp but not wired through this
// adapter, since only WebP lossy is offered as an output format here).
type Codec struct{}

func (Codec) Probe(r *channel.Reader) (codec.Info, error) {
	data, err := r.ReadAll()
	if err != nil {
		return codec.Info{}, err
	}
	f, err := webp.GetFeatures(bytes.NewReader(data))
	if err != nil {
		return codec.Info{}, errs.New(errs.BadInput, "webpcodec.Probe", err)
	}
	mode := bitmap.RGB
	if f.HasAlpha {
		mode = bitmap.RGBA
	}
	return codec.Info{Width: f.Width, Height: f.Height, Mode: mode}, nil
}

func (Codec) Decode(r *channel.Reader, opts *format.FormatOptions, dest *bitmap.Bitmap) error {
	data, err := r.ReadAll()
	if err != nil {
		return err
	}
	f, err := webp.GetFeatures(bytes.NewReader(data))
	if err != nil {
		return errs.New(errs.BadInput, "webpcodec.Decode", err)
	}
	srcW, srcH := f.Width, f.Height
	srcMode := bitmap.RGB
	if f.HasAlpha {
		srcMode = bitmap.RGBA
	}

	if err := opts.InvokeCallback(srcW, srcH, format.FormatWebP); err != nil {
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
		cropRect = bitmap.Intersect(cropRect, format.SourceWindowForCrop(cropRect.Width, cropRect.Height, outW, outH))
	}

	if opts.Resizable {
		if err := dest.Resize(outW, outH); err != nil {
			return err
		}
	}

	img, err := webp.Decode(bytes.NewReader(data))
	if err != nil {
		return errs.New(errs.BadInput, "webpcodec.Decode", err)
	}

	tr := transform.New()
	if err := tr.Configure(transform.Config{
		SrcWidth: srcW, SrcHeight: srcH, SrcRect: cropRect,
		DestWidth: outW, DestHeight: outH, DestRect: bitmap.FullRect(outW, outH),
		SrcMode: srcMode, DestMode: dest.Colormode(),
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

	row := make([]byte, srcW*srcMode.Bpp())
	for y := 0; y < srcH; y++ {
		codec.ExtractRow(img, y, srcMode, row)
		if err := tr.Push(row); err != nil {
			return err
		}
	}
	return nil
}

func (Codec) Encode(w *channel.Writer, src *bitmap.Bitmap, opts *format.FormatOptions) error {
	quality := float32(opts.Quality)
	if quality <= 0 {
		quality = 85
	}
	if err := src.Lock(); err != nil {
		return err
	}
	defer src.Unlock()

	encOpts := webp.DefaultOptions()
	encOpts.Quality = quality
	encOpts.Lossless = false

	buf := &bytes.Buffer{}
	if err := webp.Encode(buf, codec.BitmapImage{Bm: src}, encOpts); err != nil {
		return errs.New(errs.IoError, "webpcodec.Encode", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}
	return nil
}
