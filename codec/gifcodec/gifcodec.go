// Package gifcodec adapts the standard library's image/gif decoder to the
// codec.Decoder contract. GIF decode only: GIF as an output format was
// declared but never implemented upstream either, so this package
// implements no Encoder.
package gifcodec

import (
	"bytes"
	stdgif "image/gif"

	"github.com/yimagine/ymagine/bitmap"
	"github.com/yimagine/ymagine/channel"
	"github.com/yimagine/ymagine/codec"
	"github.com/yimagine/ymagine/format"
	"github.com/yimagine/ymagine/internal/errs"
	"github.com/yimagine/ymagine/transform"
)

// Codec implements codec.Decoder for GIF, single frame only; animated
// image sequences are out of scope.
type Codec struct{}

func (Codec) Probe(r *channel.Reader) (codec.Info, error) {
	data, err := r.ReadAll()
	if err != nil {
		return codec.Info{}, err
	}
	cfg, err := stdgif.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return codec.Info{}, errs.New(errs.BadInput, "gifcodec.Probe", err)
	}
	return codec.Info{Width: cfg.Width, Height: cfg.Height, Mode: bitmap.RGBA}, nil
}

func (Codec) Decode(r *channel.Reader, opts *format.FormatOptions, dest *bitmap.Bitmap) error {
	data, err := r.ReadAll()
	if err != nil {
		return err
	}
	cfg, err := stdgif.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return errs.New(errs.BadInput, "gifcodec.Decode", err)
	}
	srcW, srcH := cfg.Width, cfg.Height

	if err := opts.InvokeCallback(srcW, srcH, format.FormatGIF); err != nil {
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

	g, err := stdgif.DecodeAll(bytes.NewReader(data))
	if err != nil {
		return errs.New(errs.BadInput, "gifcodec.Decode", err)
	}
	if len(g.Image) == 0 {
		return errs.New(errs.BadInput, "gifcodec.Decode", nil)
	}
	img := g.Image[0] // only the first frame is decoded

	tr := transform.New()
	if err := tr.Configure(transform.Config{
		SrcWidth: srcW, SrcHeight: srcH, SrcRect: cropRect,
		DestWidth: outW, DestHeight: outH, DestRect: bitmap.FullRect(outW, outH),
		SrcMode: bitmap.RGBA, DestMode: dest.Colormode(),
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

	row := make([]byte, srcW*bitmap.RGBA.Bpp())
	for y := 0; y < srcH; y++ {
		codec.ExtractRow(img, y, bitmap.RGBA, row)
		if err := tr.Push(row); err != nil {
			return err
		}
	}
	return nil
}
