// Package format implements FormatOptions: the immutable-after-build
// description of a requested transform, plus the two derived routines the
// core depends on — computeCropRect and computeOutputSize.
package format

import (
	"github.com/yimagine/ymagine/bitmap"
	"github.com/yimagine/ymagine/internal/errs"
	"github.com/yimagine/ymagine/shader"
)

// ScaleMode selects how output dimensions are derived from source
// dimensions and the size caps.
type ScaleMode int

const (
	ScaleNone ScaleMode = iota
	ScaleLetterbox
	ScaleCrop
	ScaleFit
	ScaleHalfQuick
	ScaleHalfAverage
)

// AdjustMode records how an output size is to be fit to the caps (inner,
// outer, or none). ComputeOutputSize does not read it: the output size
// depends only on the caps and the ScaleMode.
type AdjustMode int

const (
	AdjustNone AdjustMode = iota
	AdjustInner
	AdjustOuter
)

// OffsetMode / SizeMode select how crop{x,y} / crop{width,height} are
// interpreted.
type OffsetMode int

const (
	OffsetNone OffsetMode = iota
	OffsetAbsolute
	OffsetRelative
)

type SizeMode int

const (
	SizeNone SizeMode = iota
	SizeAbsolute
	SizeRelative
)

// OutputFormat names the target encoder, or Unknown to mean "same as
// input" / "decode only".
type OutputFormat int

const (
	FormatUnknown OutputFormat = iota
	FormatJPEG
	FormatPNG
	FormatWebP
	FormatGIF
)

// MetaMode controls APPn marker copy policy on JPEG transcode.
type MetaMode int

const (
	MetaNone MetaMode = iota
	MetaComments
	MetaAll
	MetaDefault
)

// RGBA is a plain 8-bit-per-channel color used for background fill.
type RGBA struct{ R, G, B, A uint8 }

// ProgressCallback is invoked once dimensions are known and before any
// scanline is produced. Returning a non-nil error aborts the operation.
// The callback is a typed closure rather than a function pointer plus a
// void* user-data parameter: Go closures capture their own state, so no extra `data`
// field is needed here (the FormatOptions.Data field is kept only for
// parity with host-language bindings that still thread an opaque value
// through cgo/JNI boundaries).
type ProgressCallback func(opts *FormatOptions, width, height int, sourceFormat OutputFormat) error

// FormatOptions is the pure data record describing a requested
// decode/transform/encode, built with chained setter methods.
type FormatOptions struct {
	MaxWidth, MaxHeight int

	ScaleMode  ScaleMode
	AdjustMode AdjustMode
	Resizable  bool

	CropOffsetMode OffsetMode
	CropSizeMode   SizeMode
	CropX, CropY, CropWidth, CropHeight                 int
	CropXRel, CropYRel, CropWidthRel, CropHeightRel float64

	Quality      int
	Accuracy     int
	Subsampling  int
	Progressive  bool

	Sharpen float64
	Blur    float64
	Rotate  float64

	Format OutputFormat

	MetaMode MetaMode

	BackgroundColor RGBA

	Shader *shader.PixelShader

	ProgressCallback ProgressCallback
	Data             any
}

// Default returns FormatOptions with every sentinel-resolved field at its
// unconstrained/default value.
func Default() *FormatOptions {
	return &FormatOptions{
		MaxWidth:  -1,
		MaxHeight: -1,
		ScaleMode: ScaleNone,
		Resizable: true,
		Quality:   85,
		Accuracy:  -1,
		Format:    FormatUnknown,
		MetaMode:  MetaDefault,
	}
}

// WithMaxSize sets the size caps (chained-setter style).
func (o *FormatOptions) WithMaxSize(w, h int) *FormatOptions {
	o.MaxWidth, o.MaxHeight = w, h
	return o
}

// WithScaleMode sets the scale mode.
func (o *FormatOptions) WithScaleMode(m ScaleMode) *FormatOptions {
	o.ScaleMode = m
	return o
}

// WithCropAbsolute sets an absolute-pixel crop window.
func (o *FormatOptions) WithCropAbsolute(x, y, w, h int) *FormatOptions {
	o.CropOffsetMode, o.CropSizeMode = OffsetAbsolute, SizeAbsolute
	o.CropX, o.CropY, o.CropWidth, o.CropHeight = x, y, w, h
	return o
}

// WithCropRelative sets a fraction-of-source crop window.
func (o *FormatOptions) WithCropRelative(x, y, w, h float64) *FormatOptions {
	o.CropOffsetMode, o.CropSizeMode = OffsetRelative, SizeRelative
	o.CropXRel, o.CropYRel, o.CropWidthRel, o.CropHeightRel = x, y, w, h
	return o
}

// WithShader attaches a PixelShader.
func (o *FormatOptions) WithShader(s *shader.PixelShader) *FormatOptions {
	o.Shader = s
	return o
}

// InvokeCallback calls the progress callback exactly once: each decoder
// adapter calls it after it has parsed dimensions and before it begins
// pushing scanlines.
func (o *FormatOptions) InvokeCallback(width, height int, srcFormat OutputFormat) error {
	if o.ProgressCallback == nil {
		return nil
	}
	if err := o.ProgressCallback(o, width, height, srcFormat); err != nil {
		return errs.New(errs.Aborted, "FormatOptions.InvokeCallback", err)
	}
	return nil
}

// ComputeCropRect computes the crop rectangle in source coordinates: crop
// offsets in Relative mode are multiplied by (srcW, srcH) and rounded; None offset
// means 0, None size means "full". Cropping happens in source coordinates
// before scaling.
func ComputeCropRect(o *FormatOptions, srcW, srcH int) (bitmap.Rect, error) {
	x, y := 0, 0
	w, h := srcW, srcH

	switch o.CropOffsetMode {
	case OffsetNone:
		x, y = 0, 0
	case OffsetAbsolute:
		x, y = o.CropX, o.CropY
	case OffsetRelative:
		x = roundFrac(o.CropXRel, srcW)
		y = roundFrac(o.CropYRel, srcH)
	default:
		return bitmap.Rect{}, errs.New(errs.InvalidArgument, "ComputeCropRect", nil)
	}

	switch o.CropSizeMode {
	case SizeNone:
		w, h = srcW-x, srcH-y
	case SizeAbsolute:
		w, h = o.CropWidth, o.CropHeight
	case SizeRelative:
		w = roundFrac(o.CropWidthRel, srcW)
		h = roundFrac(o.CropHeightRel, srcH)
	default:
		return bitmap.Rect{}, errs.New(errs.InvalidArgument, "ComputeCropRect", nil)
	}

	if w < 0 || h < 0 {
		return bitmap.Rect{}, errs.New(errs.InvalidArgument, "ComputeCropRect", nil)
	}

	r := bitmap.Rect{X: x, Y: y, Width: w, Height: h}
	return bitmap.Intersect(r, bitmap.FullRect(srcW, srcH)), nil
}

func roundFrac(frac float64, total int) int {
	return int(frac*float64(total) + 0.5)
}

// ComputeOutputSize derives the output dimensions from the source size,
// the size caps, and the requested scale mode.
func ComputeOutputSize(o *FormatOptions, srcW, srcH int) (outW, outH int, effective ScaleMode, err error) {
	if srcW <= 0 || srcH <= 0 {
		return 0, 0, o.ScaleMode, errs.New(errs.InvalidArgument, "ComputeOutputSize", nil)
	}

	if o.MaxWidth < 0 && o.MaxHeight < 0 {
		return srcW, srcH, ScaleNone, nil
	}

	maxW, maxH := o.MaxWidth, o.MaxHeight
	if maxW < 0 {
		maxW = srcW
	}
	if maxH < 0 {
		maxH = srcH
	}

	switch o.ScaleMode {
	case ScaleFit:
		return maxW, maxH, ScaleFit, nil

	case ScaleLetterbox:
		w, h := fitAspect(srcW, srcH, maxW, maxH)
		return w, h, ScaleLetterbox, nil

	case ScaleCrop:
		return maxW, maxH, ScaleCrop, nil

	case ScaleHalfQuick, ScaleHalfAverage:
		return srcW / 2, srcH / 2, o.ScaleMode, nil

	default: // ScaleNone
		w, h := srcW, srcH
		if w > maxW {
			h = h * maxW / w
			w = maxW
		}
		if h > maxH {
			w = w * maxH / h
			h = maxH
		}
		return w, h, ScaleNone, nil
	}
}

// fitAspect returns the largest w<=maxW, h<=maxH preserving src's aspect
// ratio, used by Letterbox.
func fitAspect(srcW, srcH, maxW, maxH int) (int, int) {
	w := maxW
	h := h1(srcH, srcW, w)
	if h > maxH {
		h = maxH
		w = h1(srcW, srcH, h)
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

func h1(a, b, scaled int) int {
	return a * scaled / b
}

// SourceWindowForCrop computes the crop window to use for ScaleCrop: the
// centered same-aspect-as-output trim of the source.
func SourceWindowForCrop(srcW, srcH, outW, outH int) bitmap.Rect {
	if outW <= 0 || outH <= 0 {
		return bitmap.FullRect(srcW, srcH)
	}
	srcAspect := float64(srcW) / float64(srcH)
	outAspect := float64(outW) / float64(outH)
	if srcAspect > outAspect {
		w := int(float64(srcH) * outAspect)
		x := (srcW - w) / 2
		return bitmap.Rect{X: x, Y: 0, Width: w, Height: srcH}
	}
	h := int(float64(srcW) / outAspect)
	y := (srcH - h) / 2
	return bitmap.Rect{X: 0, Y: y, Width: srcW, Height: h}
}
