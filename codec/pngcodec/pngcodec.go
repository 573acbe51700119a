// Package pngcodec adapts the standard library's image/png decoder and
// encoder to the codec.Decoder/codec.Encoder contract, the same way
// jpegcodec does for JPEG.
package pngcodec

import (
	"bytes"
	stdpng "image/png"

	"github.com/yimagine/ymagine/bitmap"
	"github.com/yimagine/ymagine/channel"
	"github.com/yimagine/ymagine/codec"
	"github.com/yimagine/ymagine/format"
	"github.com/yimagine/ymagine/internal/errs"
	"github.com/yimagine/ymagine/transform"
)

// PNG's color model (grayscale/RGB/palette, any of which may carry a
// tRNS alpha chunk) is read out uniformly as RGBA via
// image.Image.At().RGBA() — simpler and just as correct as inspecting
// image.Config.ColorModel, and it sidesteps comparing color.Model values
// (func-backed interfaces are not safely comparable).

// Codec implements codec.Decoder and codec.Encoder for PNG.
type Codec struct{}

func (Codec) Probe(r *channel.Reader) (codec.Info, error) {
	data, err := r.ReadAll()
	if err != nil {
		return codec.Info{}, err
	}
	cfg, err := stdpng.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return codec.Info{}, errs.New(errs.BadInput, "pngcodec.Probe", err)
	}
	return codec.Info{Width: cfg.Width, Height: cfg.Height, Mode: bitmap.RGBA}, nil
}

func (Codec) Decode(r *channel.Reader, opts *format.FormatOptions, dest *bitmap.Bitmap) error {
	data, err := r.ReadAll()
	if err != nil {
		return err
	}
	cfg, err := stdpng.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return errs.New(errs.BadInput, "pngcodec.Decode", err)
	}
	srcW, srcH := cfg.Width, cfg.Height
	srcMode := bitmap.RGBA

	if err := opts.InvokeCallback(srcW, srcH, format.FormatPNG); err != nil {
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

	img, err := stdpng.Decode(bytes.NewReader(data))
	if err != nil {
		return errs.New(errs.BadInput, "pngcodec.Decode", err)
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
	if err := src.Lock(); err != nil {
		return err
	}
	defer src.Unlock()

	buf := &bytes.Buffer{}
	enc := &stdpng.Encoder{CompressionLevel: stdpng.BestCompression}
	if err := enc.Encode(buf, codec.BitmapImage{Bm: src}); err != nil {
		return errs.New(errs.IoError, "pngcodec.Encode", err)
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}
	return nil
}
