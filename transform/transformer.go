// Package transform implements the Transformer: the streaming scanline
// engine that is this repository's core. It consumes exactly
// srcRect.Height source scanlines and emits exactly destRect.Height
// destination scanlines, fusing crop, horizontal/vertical resampling,
// pixel-shader color transforms, and sharpen convolution in one pass,
// never buffering more than O(srcW+dstW) bytes at a time. See DESIGN.md
// for the full grounding note on the resample/merge/convolution stages.
package transform

import (
	"github.com/yimagine/ymagine/bitmap"
	"github.com/yimagine/ymagine/internal/errs"
	"github.com/yimagine/ymagine/shader"
)

// Config is the set of parameters that must be supplied before the first
// Push.
type Config struct {
	SrcWidth, SrcHeight int
	SrcRect             bitmap.Rect // window within the source; zero Rect means full image

	DestWidth, DestHeight int
	DestRect              bitmap.Rect // window within the destination canvas

	SrcMode, DestMode bitmap.ColorMode
}

// Stats is the optional per-transform histogram, gathered from source
// luminance as rows are pushed (the Y_MUL-scaled formula used is shared
// with colorspace.Luminance).
type Stats struct {
	Count          int64
	HistR, HistG, HistB, HistLum [256]int64
}

// Transformer is the streaming scanline engine driving every codec's
// decode and transcode path.
type Transformer struct {
	cfg Config

	shader  *shader.PixelShader
	kernel  Kernel
	sharpen bool
	writers []Writer

	statsEnabled bool
	stats        Stats

	prepared  bool
	finished  bool
	configErr error

	hmap    []int64
	scratch []byte // srcRect.Width * destMode.Bpp() conversion buffer
	scaled  []byte // destRect.Width * destMode.Bpp() horizontal-scale buffer
	curBuf  []byte // destRect.Width * destMode.Bpp() vertical accumulator

	conv *convWindow

	srcLineIdx  int
	stashWeight int64
	curYF       int64
}

// New returns an unconfigured Transformer; call Configure before Push.
func New() *Transformer {
	return &Transformer{kernel: Identity}
}

// Configure sets the source/destination geometry and color modes. It must
// be called exactly once, before the first Push.
func (t *Transformer) Configure(cfg Config) error {
	if cfg.SrcRect == (bitmap.Rect{}) {
		cfg.SrcRect = bitmap.FullRect(cfg.SrcWidth, cfg.SrcHeight)
	}
	cfg.SrcRect = bitmap.Intersect(cfg.SrcRect, bitmap.FullRect(cfg.SrcWidth, cfg.SrcHeight))
	if cfg.DestRect.Width == 0 && cfg.DestRect.Height == 0 {
		cfg.DestRect.Width, cfg.DestRect.Height = cfg.DestWidth, cfg.DestHeight
	}
	if cfg.SrcRect.Empty() || cfg.DestRect.Empty() {
		return errs.New(errs.InvalidArgument, "Transformer.Configure", nil)
	}
	t.cfg = cfg
	return nil
}

// SetShader attaches a PixelShader applied to every completed row before
// convolution.
func (t *Transformer) SetShader(s *shader.PixelShader) { t.shader = s }

// SetSharpen derives a fast-mode 3x3 kernel from sigma; sigma == 0
// disables convolution.
func (t *Transformer) SetSharpen(sigma float64) {
	t.kernel = CalculateSharpenKernel(sigma, true)
	t.sharpen = sigma > 0
}

// SetKernel overrides the convolution kernel directly.
func (t *Transformer) SetKernel(k Kernel) {
	t.kernel = k
	t.sharpen = true
}

// SetStats enables the per-line luminance/RGB histogram.
func (t *Transformer) SetStats(enabled bool) { t.statsEnabled = enabled }

// Stats returns the accumulated histogram; only meaningful if SetStats(true)
// was called before pushing.
func (t *Transformer) Stats() Stats { return t.stats }

// AddWriter appends a capability that will receive every finished
// destination row; writers, BitmapWriter included, are called in the
// order they were added.
func (t *Transformer) AddWriter(w Writer) { t.writers = append(t.writers, w) }

func (t *Transformer) prepare() error {
	if t.cfg.SrcWidth == 0 || t.cfg.DestRect.Width == 0 {
		return errs.New(errs.InvalidState, "Transformer.prepare", nil)
	}
	bpp := t.cfg.DestMode.Bpp()
	t.hmap = buildHorizontalMap(t.cfg.DestRect.Width, t.cfg.SrcRect.Width)
	t.scratch = make([]byte, t.cfg.SrcRect.Width*bpp)
	t.scaled = make([]byte, t.cfg.DestRect.Width*bpp)
	t.curBuf = make([]byte, t.cfg.DestRect.Width*bpp)
	if t.sharpen {
		t.conv = newConvWindow(t.kernel, t.cfg.DestRect.Width, bpp)
	}
	t.prepared = true
	return nil
}

// Push consumes one full-width source scanline. It may synchronously
// produce zero, one, or many destination scanlines via the installed
// writers, which are all invoked (in ascending y) before Push returns.
func (t *Transformer) Push(row []byte) error {
	if !t.prepared {
		if err := t.prepare(); err != nil {
			return err
		}
	}
	if t.finished {
		return nil
	}

	lineIdx := t.srcLineIdx
	t.srcLineIdx++

	if t.statsEnabled {
		t.accumulateStats(row)
	}

	if lineIdx < t.cfg.SrcRect.Y || lineIdx >= t.cfg.SrcRect.Y+t.cfg.SrcRect.Height {
		return nil
	}
	s := lineIdx - t.cfg.SrcRect.Y

	srcBpp := t.cfg.SrcMode.Bpp()
	x0, w := t.cfg.SrcRect.X, t.cfg.SrcRect.Width
	cropped := row[x0*srcBpp : (x0+w)*srcBpp]

	convertRow(cropped, w, t.cfg.SrcMode, t.cfg.DestMode, t.scratch)
	bltLineExt(t.scratch, w, t.cfg.DestMode.Bpp(), t.scaled, t.cfg.DestRect.Width, t.hmap)

	f1 := ScaleFixedPoint(s+1, t.cfg.SrcRect.Height, t.cfg.DestRect.Height)
	f0 := t.curYF
	for f0 < f1 {
		rowIdx := FixedInt(f0)
		boundary := int64(rowIdx+1) << FixedShift
		segEnd := f1
		if boundary < segEnd {
			segEnd = boundary
		}
		weight := segEnd - f0

		mergeRow(t.curBuf, t.scaled, t.stashWeight, weight)
		t.stashWeight += weight

		if segEnd == boundary {
			if err := t.dispatchRow(rowIdx, t.curBuf); err != nil {
				return err
			}
			t.stashWeight = 0
		}
		f0 = segEnd
	}
	t.curYF = f1

	if lineIdx == t.cfg.SrcRect.Y+t.cfg.SrcRect.Height-1 {
		return t.Flush()
	}
	return nil
}

func (t *Transformer) accumulateStats(row []byte) {
	bpp := t.cfg.SrcMode.Bpp()
	if bpp < 3 {
		return
	}
	for x := 0; x+bpp <= len(row); x += bpp {
		r, g, b := row[x], row[x+1], row[x+2]
		t.stats.HistR[r]++
		t.stats.HistG[g]++
		t.stats.HistB[b]++
		lum := (218*int(r) + 732*int(g) + 74*int(b)) >> 10
		if lum < 0 {
			lum = 0
		}
		if lum > 255 {
			lum = 255
		}
		t.stats.HistLum[lum]++
		t.stats.Count++
	}
}

// dispatchRow shades and (optionally) convolves one completed destination
// row, then hands it to every installed writer.
func (t *Transformer) dispatchRow(rowIdx int, accum []byte) error {
	bpp := t.cfg.DestMode.Bpp()
	row := cloneRow(accum)

	if t.shader != nil {
		t.shader.Apply(row, bpp, t.cfg.DestRect.Width, t.cfg.DestRect.X, t.cfg.DestRect.Y+rowIdx)
	}

	if t.sharpen {
		if out, y, ok := t.conv.push(row, rowIdx); ok {
			return t.emit(out, y)
		}
		return nil
	}
	return t.emit(row, rowIdx)
}

func (t *Transformer) emit(row []byte, y int) error {
	bpp := t.cfg.DestMode.Bpp()
	for _, w := range t.writers {
		if err := w.WriteRow(row, t.cfg.DestRect.Width, bpp, y); err != nil {
			t.finished = true
			return errs.New(errs.Aborted, "Transformer.emit", err)
		}
	}
	return nil
}

// Flush finalizes the pipeline: if sharpening is active, it replicates
// the last row as its own successor and emits the final convolved row.
// Flush is idempotent and is called automatically by Push once the
// configured number of source rows has been consumed.
func (t *Transformer) Flush() error {
	if t.finished {
		return nil
	}
	t.finished = true
	if t.sharpen && t.conv != nil {
		if out, y, ok := t.conv.flush(); ok {
			return t.emit(out, y)
		}
	}
	return nil
}
