// Command ymagine drives the decode/transform/encode pipeline from the
// command line, with one verb per operation (info, decode, transcode,
// tile, psnr, blur, design, shape), dispatched the way the WebP
// command-line tool dispatches subcommands — a flag.NewFlagSet per verb,
// parsed after the verb name in os.Args.
package main

import (
	"flag"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/yimagine/ymagine/bitmap"
	"github.com/yimagine/ymagine/channel"
	"github.com/yimagine/ymagine/codec"
	"github.com/yimagine/ymagine/codec/gifcodec"
	"github.com/yimagine/ymagine/codec/jpegcodec"
	"github.com/yimagine/ymagine/codec/pngcodec"
	"github.com/yimagine/ymagine/codec/webpcodec"
	"github.com/yimagine/ymagine/colorspace"
	"github.com/yimagine/ymagine/dispatch"
	"github.com/yimagine/ymagine/filters"
	"github.com/yimagine/ymagine/format"
	"github.com/yimagine/ymagine/shader"
)

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ExitOnError)
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "info":
		err = runInfo(os.Args[2:])
	case "decode":
		err = runDecode(os.Args[2:])
	case "transcode":
		err = runTranscode(os.Args[2:])
	case "tile":
		err = runTile(os.Args[2:])
	case "psnr":
		err = runPSNR(os.Args[2:])
	case "blur":
		err = runBlur(os.Args[2:])
	case "design":
		err = runDesign(os.Args[2:])
	case "shape":
		err = runShape(os.Args[2:])
	case "-h", "-help", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "ymagine: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "ymagine: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage:
  ymagine info <input>                 Report dimensions and format
  ymagine decode [options] <in> <out>  Decode + transform to a bitmap file
  ymagine transcode [options] <in> <out>
  ymagine tile [options] <in> <outdir> Slice an image into fixed-size tiles
  ymagine psnr <a> <b>                 Compare two equal-sized images
  ymagine blur -radius N <in> <out>    Apply a standalone blur
  ymagine design [options] <in> <out>  Compose a color/shader over an image
  ymagine shape [options] <in> <out>   Crop the highest-energy sub-region

Run "ymagine <command> -h" for command-specific options.
`)
}

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	l, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func openReader(path string) (*channel.Reader, func() error, error) {
	if path == "-" {
		return channel.NewReader(os.Stdin), func() error { return nil }, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return channel.NewReader(f), f.Close, nil
}

func openWriter(path string) (*channel.Writer, func() error, error) {
	if path == "-" {
		return channel.NewWriter(os.Stdout), func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return channel.NewWriter(f), f.Close, nil
}

// --- shared flag helpers ---

// addCommonOptions registers the -width/-height/-quality/-scale/-crop/
// -cropr/-format/-meta/-sharpen/-blur/-rotate/-adjust flags shared across
// subcommands, returning a closure that builds a *format.FormatOptions
// from the parsed values.
func addCommonOptions(fs *flag.FlagSet) func() (*format.FormatOptions, error) {
	width := fs.Int("width", -1, "max output width (-1 = unconstrained)")
	height := fs.Int("height", -1, "max output height (-1 = unconstrained)")
	quality := fs.Int("quality", 85, "encode quality 0..100")
	scaleMode := fs.String("scale", "none", "letterbox|crop|fit|none")
	adjustMode := fs.String("adjust", "none", "inner|outer|none")
	crop := fs.String("crop", "", "WxH@X,Y absolute crop window")
	cropr := fs.String("cropr", "", "FxF@F,F relative crop window")
	outFormat := fs.String("format", "", "jpeg|png|webp|none")
	meta := fs.String("meta", "default", "none|comments|all|default")
	sharpen := fs.Float64("sharpen", 0, "sharpen sigma")
	blur := fs.Float64("blur", 0, "post-transform blur radius")
	rotate := fs.Float64("rotate", 0, "rotation angle in degrees")
	shaderSpec := fs.String("shader", "", "comma-separated key=value color effects")
	force := fs.Bool("force", false, "overwrite an existing output file")
	_ = force // accepted but not read: openWriter always creates (truncates) the output

	return func() (*format.FormatOptions, error) {
		opts := format.Default()
		opts.MaxWidth, opts.MaxHeight = *width, *height
		opts.Quality = *quality

		switch strings.ToLower(*scaleMode) {
		case "letterbox":
			opts.ScaleMode = format.ScaleLetterbox
		case "crop":
			opts.ScaleMode = format.ScaleCrop
		case "fit":
			opts.ScaleMode = format.ScaleFit
		case "none", "":
			opts.ScaleMode = format.ScaleNone
		default:
			return nil, fmt.Errorf("unknown -scale %q", *scaleMode)
		}

		switch strings.ToLower(*adjustMode) {
		case "inner":
			opts.AdjustMode = format.AdjustInner
		case "outer":
			opts.AdjustMode = format.AdjustOuter
		case "none", "":
			opts.AdjustMode = format.AdjustNone
		default:
			return nil, fmt.Errorf("unknown -adjust %q", *adjustMode)
		}

		if *crop != "" {
			x, y, w, h, err := parseAbsoluteCrop(*crop)
			if err != nil {
				return nil, err
			}
			opts.WithCropAbsolute(x, y, w, h)
		}
		if *cropr != "" {
			x, y, w, h, err := parseRelativeCrop(*cropr)
			if err != nil {
				return nil, err
			}
			opts.WithCropRelative(x, y, w, h)
		}

		switch strings.ToLower(*outFormat) {
		case "jpeg", "jpg":
			opts.Format = format.FormatJPEG
		case "png":
			opts.Format = format.FormatPNG
		case "webp":
			opts.Format = format.FormatWebP
		case "none", "":
			opts.Format = format.FormatUnknown
		default:
			return nil, fmt.Errorf("unknown -format %q", *outFormat)
		}

		switch strings.ToLower(*meta) {
		case "none":
			opts.MetaMode = format.MetaNone
		case "comments":
			opts.MetaMode = format.MetaComments
		case "all":
			opts.MetaMode = format.MetaAll
		case "default", "":
			opts.MetaMode = format.MetaDefault
		default:
			return nil, fmt.Errorf("unknown -meta %q", *meta)
		}

		opts.Sharpen = *sharpen
		opts.Blur = *blur
		opts.Rotate = *rotate

		if *shaderSpec != "" {
			s, err := parseShaderSpec(*shaderSpec)
			if err != nil {
				return nil, err
			}
			opts.Shader = s
		}

		return opts, nil
	}
}

// parseShaderSpec builds a PixelShader from a "-shader" flag value like
// "brightness=0.1,contrast=1.2,saturation=0.5,exposure=-0.3,temperature=0.2".
func parseShaderSpec(spec string) (*shader.PixelShader, error) {
	s := shader.New()
	for _, term := range strings.Split(spec, ",") {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		kv := strings.SplitN(term, "=", 2)
		if len(kv) != 2 {
			return nil, fmt.Errorf("invalid shader term %q (want key=value)", term)
		}
		v, err := strconv.ParseFloat(kv[1], 64)
		if err != nil {
			return nil, fmt.Errorf("invalid shader value %q: %w", term, err)
		}
		switch strings.ToLower(kv[0]) {
		case "brightness":
			s.AddBrightness(v)
		case "exposure":
			s.AddExposure(v)
		case "contrast":
			s.AddContrast(v)
		case "saturation":
			s.AddSaturation(v)
		case "temperature":
			s.AddTemperature(v)
		default:
			return nil, fmt.Errorf("unknown shader effect %q", kv[0])
		}
	}
	return s, nil
}

func parseAbsoluteCrop(spec string) (x, y, w, h int, err error) {
	// WxH@X,Y
	parts := strings.SplitN(spec, "@", 2)
	if len(parts) != 2 {
		return 0, 0, 0, 0, fmt.Errorf("invalid -crop %q (want WxH@X,Y)", spec)
	}
	if _, err = fmt.Sscanf(parts[0], "%dx%d", &w, &h); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid -crop size %q: %w", parts[0], err)
	}
	if _, err = fmt.Sscanf(parts[1], "%d,%d", &x, &y); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid -crop offset %q: %w", parts[1], err)
	}
	return x, y, w, h, nil
}

func parseRelativeCrop(spec string) (x, y, w, h float64, err error) {
	parts := strings.SplitN(spec, "@", 2)
	if len(parts) != 2 {
		return 0, 0, 0, 0, fmt.Errorf("invalid -cropr %q (want FxF@F,F)", spec)
	}
	if _, err = fmt.Sscanf(parts[0], "%gx%g", &w, &h); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid -cropr size %q: %w", parts[0], err)
	}
	if _, err = fmt.Sscanf(parts[1], "%g,%g", &x, &y); err != nil {
		return 0, 0, 0, 0, fmt.Errorf("invalid -cropr offset %q: %w", parts[1], err)
	}
	return x, y, w, h, nil
}

// outputFormatFor picks the destination format when the caller didn't
// force one with -format, falling back to the output path's extension.
func outputFormatFor(opts *format.FormatOptions, outPath string) format.OutputFormat {
	if opts.Format != format.FormatUnknown {
		return opts.Format
	}
	switch strings.ToLower(extOf(outPath)) {
	case ".jpg", ".jpeg":
		return format.FormatJPEG
	case ".webp":
		return format.FormatWebP
	default:
		return format.FormatPNG
	}
}

func extOf(path string) string {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return ""
	}
	return path[i:]
}

// --- info ---

func runInfo(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("info: missing input file\nUsage: ymagine info <input>")
	}
	r, closeFn, err := openReader(args[0])
	if err != nil {
		return err
	}
	defer closeFn()

	f, err := dispatch.DetectFormat(r)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}
	dec, err := decoderFor(f)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}
	probeInfo, err := dec.Probe(r)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}

	fmt.Printf("File:       %s\n", args[0])
	fmt.Printf("Format:     %s\n", f)
	fmt.Printf("Dimensions: %d x %d\n", probeInfo.Width, probeInfo.Height)
	fmt.Printf("Color mode: %s\n", probeInfo.Mode)
	return nil
}

// decoderFor mirrors dispatch's internal format table for the one case the
// CLI needs outside the main decode path: reporting Probe() results for
// "info" without forcing a full decode.
func decoderFor(f dispatch.Format) (codec.Decoder, error) {
	switch f {
	case dispatch.FormatJPEG:
		return jpegcodec.Codec{}, nil
	case dispatch.FormatPNG:
		return pngcodec.Codec{}, nil
	case dispatch.FormatWebP:
		return webpcodec.Codec{}, nil
	case dispatch.FormatGIF:
		return gifcodec.Codec{}, nil
	default:
		return nil, fmt.Errorf("unrecognized format")
	}
}

// --- decode ---

func runDecode(args []string) error {
	fs := newFlagSet("decode")
	getOpts := addCommonOptions(fs)
	verbose := fs.Bool("v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("decode: need <input> <output>\nUsage: ymagine decode [options] <in> <out>")
	}
	log := newLogger(*verbose)
	defer log.Sync()

	opts, err := getOpts()
	if err != nil {
		return err
	}
	in, inClose, err := openReader(fs.Arg(0))
	if err != nil {
		return err
	}
	defer inClose()
	out, outClose, err := openWriter(fs.Arg(1))
	if err != nil {
		return err
	}

	dest := bitmap.New(bitmap.RGBA)
	if err := dispatch.DecodeImage(dest, in, opts); err != nil {
		outClose()
		return fmt.Errorf("decode: %w", err)
	}
	log.Info("decoded", zap.Int("width", dest.Width()), zap.Int("height", dest.Height()))

	opts.Format = outputFormatFor(opts, fs.Arg(1))
	if err := dispatch.EncodeImage(out, dest, opts); err != nil {
		outClose()
		return fmt.Errorf("decode: encoding output: %w", err)
	}
	return outClose()
}

// --- transcode ---

func runTranscode(args []string) error {
	fs := newFlagSet("transcode")
	getOpts := addCommonOptions(fs)
	verbose := fs.Bool("v", false, "verbose logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("transcode: need <input> <output>\nUsage: ymagine transcode [options] <in> <out>")
	}
	log := newLogger(*verbose)
	defer log.Sync()

	opts, err := getOpts()
	if err != nil {
		return err
	}
	in, inClose, err := openReader(fs.Arg(0))
	if err != nil {
		return err
	}
	defer inClose()
	out, outClose, err := openWriter(fs.Arg(1))
	if err != nil {
		return err
	}

	opts.Format = outputFormatFor(opts, fs.Arg(1))
	log.Info("transcoding", zap.String("to", opts.Format.String()))
	if err := dispatch.Transcode(in, out, opts); err != nil {
		outClose()
		return fmt.Errorf("transcode: %w", err)
	}
	return outClose()
}

// --- tile ---

func runTile(args []string) error {
	fs := newFlagSet("tile")
	tileW := fs.Int("tilewidth", 256, "tile width in pixels")
	tileH := fs.Int("tileheight", 256, "tile height in pixels")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("tile: need <input> <outdir>\nUsage: ymagine tile [options] <in> <outdir>")
	}
	in, inClose, err := openReader(fs.Arg(0))
	if err != nil {
		return err
	}
	defer inClose()
	outdir := fs.Arg(1)
	if err := os.MkdirAll(outdir, 0o755); err != nil {
		return err
	}

	dest := bitmap.New(bitmap.RGBA)
	if err := dispatch.DecodeImage(dest, in, format.Default()); err != nil {
		return fmt.Errorf("tile: %w", err)
	}

	n := 0
	for y := 0; y < dest.Height(); y += *tileH {
		for x := 0; x < dest.Width(); x += *tileW {
			w := *tileW
			if x+w > dest.Width() {
				w = dest.Width() - x
			}
			h := *tileH
			if y+h > dest.Height() {
				h = dest.Height() - y
			}
			tile := bitmap.New(dest.Colormode())
			if err := tile.Resize(w, h); err != nil {
				return err
			}
			if err := filters.ComposeImage(tile, dest, -x, -y, shader.Replace); err != nil {
				return err
			}
			path := fmt.Sprintf("%s/tile_%03d.png", outdir, n)
			outFile, err := os.Create(path)
			if err != nil {
				return err
			}
			err = dispatch.EncodeImage(channel.NewWriter(outFile), tile, &format.FormatOptions{Format: format.FormatPNG})
			outFile.Close()
			if err != nil {
				return fmt.Errorf("tile: encoding %s: %w", path, err)
			}
			n++
		}
	}
	fmt.Fprintf(os.Stderr, "Wrote %d tiles to %s\n", n, outdir)
	return nil
}

// --- psnr ---

func runPSNR(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("psnr: need <a> <b>\nUsage: ymagine psnr <a> <b>")
	}

	decodeOne := func(path string) (*bitmap.Bitmap, error) {
		r, closeFn, err := openReader(path)
		if err != nil {
			return nil, err
		}
		defer closeFn()
		bm := bitmap.New(bitmap.RGBA)
		if err := dispatch.DecodeImage(bm, r, format.Default()); err != nil {
			return nil, err
		}
		return bm, nil
	}

	a, err := decodeOne(args[0])
	if err != nil {
		return fmt.Errorf("psnr: %w", err)
	}
	b, err := decodeOne(args[1])
	if err != nil {
		return fmt.Errorf("psnr: %w", err)
	}

	if err := a.Lock(); err != nil {
		return err
	}
	defer a.Unlock()
	if err := b.Lock(); err != nil {
		return err
	}
	defer b.Unlock()

	fmt.Printf("%.2f dB\n", bitmap.PSNR(a, b))
	return nil
}

// --- blur ---

func runBlur(args []string) error {
	fs := newFlagSet("blur")
	radius := fs.Int("radius", 3, "blur radius in pixels")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("blur: need <in> <out>\nUsage: ymagine blur -radius N <in> <out>")
	}
	in, inClose, err := openReader(fs.Arg(0))
	if err != nil {
		return err
	}
	defer inClose()
	out, outClose, err := openWriter(fs.Arg(1))
	if err != nil {
		return err
	}

	dest := bitmap.New(bitmap.RGBA)
	if err := dispatch.DecodeImage(dest, in, format.Default()); err != nil {
		outClose()
		return fmt.Errorf("blur: %w", err)
	}
	if err := filters.Blur(dest, *radius); err != nil {
		outClose()
		return fmt.Errorf("blur: %w", err)
	}

	opts := &format.FormatOptions{Format: outputFormatFor(format.Default(), fs.Arg(1)), Quality: 85}
	if err := dispatch.EncodeImage(out, dest, opts); err != nil {
		outClose()
		return fmt.Errorf("blur: %w", err)
	}
	return outClose()
}

// --- design ---

func runDesign(args []string) error {
	fs := newFlagSet("design")
	colorize := fs.String("colorize", "", "hex RRGGBB color to recolor the image towards")
	composeColor := fs.String("color", "", "hex RRGGBB color to compose over the image")
	composeMode := fs.String("mode", "over", "compose mode: over/under/plus/minus/mult/colorize/...")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("design: need <in> <out>\nUsage: ymagine design [options] <in> <out>")
	}
	in, inClose, err := openReader(fs.Arg(0))
	if err != nil {
		return err
	}
	defer inClose()
	out, outClose, err := openWriter(fs.Arg(1))
	if err != nil {
		return err
	}

	dest := bitmap.New(bitmap.RGBA)
	if err := dispatch.DecodeImage(dest, in, format.Default()); err != nil {
		outClose()
		return fmt.Errorf("design: %w", err)
	}

	if *colorize != "" {
		c, err := parseHexColor(*colorize)
		if err != nil {
			outClose()
			return err
		}
		if err := filters.Colorize(dest, colorspace.RGB{R: c.R, G: c.G, B: c.B}); err != nil {
			outClose()
			return fmt.Errorf("design: %w", err)
		}
	}
	if *composeColor != "" {
		c, err := parseHexColor(*composeColor)
		if err != nil {
			outClose()
			return err
		}
		mode, err := parseComposeMode(*composeMode)
		if err != nil {
			outClose()
			return err
		}
		if err := filters.ComposeColor(dest, [4]byte{c.R, c.G, c.B, c.A}, mode); err != nil {
			outClose()
			return fmt.Errorf("design: %w", err)
		}
	}

	opts := &format.FormatOptions{Format: outputFormatFor(format.Default(), fs.Arg(1)), Quality: 85}
	if err := dispatch.EncodeImage(out, dest, opts); err != nil {
		outClose()
		return fmt.Errorf("design: %w", err)
	}
	return outClose()
}

// --- shape ---

func runShape(args []string) error {
	fs := newFlagSet("shape")
	width := fs.Int("width", 256, "window width")
	height := fs.Int("height", 256, "window height")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("shape: need <in> <out>\nUsage: ymagine shape [options] <in> <out>")
	}
	in, inClose, err := openReader(fs.Arg(0))
	if err != nil {
		return err
	}
	defer inClose()
	out, outClose, err := openWriter(fs.Arg(1))
	if err != nil {
		return err
	}

	dest := bitmap.New(bitmap.RGBA)
	if err := dispatch.DecodeImage(dest, in, format.Default()); err != nil {
		outClose()
		return fmt.Errorf("shape: %w", err)
	}

	energy, err := filters.SobelEnergy(dest)
	if err != nil {
		outClose()
		return fmt.Errorf("shape: %w", err)
	}
	x, y := filters.HighestEnergyWindow(energy, *width, *height)
	ww, wh := *width, *height
	if x+ww > dest.Width() {
		ww = dest.Width() - x
	}
	if y+wh > dest.Height() {
		wh = dest.Height() - y
	}

	crop := bitmap.New(dest.Colormode())
	if err := crop.Resize(ww, wh); err != nil {
		outClose()
		return err
	}
	if err := filters.ComposeImage(crop, dest, -x, -y, shader.Replace); err != nil {
		outClose()
		return fmt.Errorf("shape: %w", err)
	}

	opts := &format.FormatOptions{Format: outputFormatFor(format.Default(), fs.Arg(1)), Quality: 85}
	if err := dispatch.EncodeImage(out, crop, opts); err != nil {
		outClose()
		return fmt.Errorf("shape: %w", err)
	}
	return outClose()
}

func parseComposeMode(s string) (shader.Compose, error) {
	switch strings.ToLower(s) {
	case "replace":
		return shader.Replace, nil
	case "over":
		return shader.Over, nil
	case "under":
		return shader.Under, nil
	case "plus":
		return shader.Plus, nil
	case "minus":
		return shader.Minus, nil
	case "add":
		return shader.Add, nil
	case "subtract":
		return shader.Subtract, nil
	case "difference":
		return shader.Difference, nil
	case "bump":
		return shader.Bump, nil
	case "map":
		return shader.Map, nil
	case "mix":
		return shader.Mix, nil
	case "mult":
		return shader.Mult, nil
	case "luminance":
		return shader.Luminance, nil
	case "luminanceinv":
		return shader.LuminanceInv, nil
	case "colorize":
		return shader.Colorize, nil
	default:
		return 0, fmt.Errorf("unknown compose mode %q", s)
	}
}

func parseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q (want RRGGBB or RRGGBBAA)", s)
	}
	var v uint64
	_, err := fmt.Sscanf(s, "%x", &v)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
	}
	c := color.RGBA{A: 0xff}
	if len(s) == 8 {
		c.A = uint8(v)
		v >>= 8
	}
	c.B = uint8(v)
	v >>= 8
	c.G = uint8(v)
	v >>= 8
	c.R = uint8(v)
	return c, nil
}
