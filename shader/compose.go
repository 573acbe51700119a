package shader

// Compose is a Porter-Duff-style pixel compositing mode.
type Compose int

const (
	Replace Compose = iota
	Over
	Under
	Plus
	Minus
	Add
	Subtract
	Difference
	Bump
	Map
	Mix
	Mult
	Luminance
	LuminanceInv
	Colorize
)

func clip8(v int) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 0xff {
		return 0xff
	}
	return uint8(v)
}

// ComposePixel blends one source RGBA pixel with one color RGBA pixel
// according to mode, using the same per-mode integer arithmetic across
// every Compose variant.
func ComposePixel(mode Compose, src, color [4]uint8) [4]uint8 {
	switch mode {
	case Replace:
		return color
	case Over:
		return composeOver(src, color)
	case Under:
		return composeOver(color, src)
	case Plus:
		return [4]uint8{
			clip8(int(src[0]) + int(color[0])),
			clip8(int(src[1]) + int(color[1])),
			clip8(int(src[2]) + int(color[2])),
			clip8(int(src[3]) + int(color[3])),
		}
	case Minus:
		return [4]uint8{
			clip8(int(src[0]) - int(color[0])),
			clip8(int(src[1]) - int(color[1])),
			clip8(int(src[2]) - int(color[2])),
			clip8(int(src[3]) - int(color[3])),
		}
	case Add:
		return [4]uint8{
			uint8(int(src[0]) + int(color[0])),
			uint8(int(src[1]) + int(color[1])),
			uint8(int(src[2]) + int(color[2])),
			uint8(int(src[3]) + int(color[3])),
		}
	case Subtract:
		return [4]uint8{
			uint8(int(src[0]) - int(color[0])),
			uint8(int(src[1]) - int(color[1])),
			uint8(int(src[2]) - int(color[2])),
			uint8(int(src[3]) - int(color[3])),
		}
	case Difference:
		return [4]uint8{
			clip8(abs(int(src[0]) - int(color[0]))),
			clip8(abs(int(src[1]) - int(color[1]))),
			clip8(abs(int(src[2]) - int(color[2]))),
			clip8(abs(int(src[3]) - int(color[3]))),
		}
	case Bump:
		return [4]uint8{color[0], color[1], color[2], src[3]}
	case Map:
		return [4]uint8{color[0], color[1], color[2], clip8(int(src[3]) * int(color[3]) / 255)}
	case Mix:
		return [4]uint8{
			uint8((int(src[0]) + int(color[0])) / 2),
			uint8((int(src[1]) + int(color[1])) / 2),
			uint8((int(src[2]) + int(color[2])) / 2),
			uint8((int(src[3]) + int(color[3])) / 2),
		}
	case Mult:
		return [4]uint8{
			uint8((int(src[0])*int(color[0]) + 128) >> 8),
			uint8((int(src[1])*int(color[1]) + 128) >> 8),
			uint8((int(src[2])*int(color[2]) + 128) >> 8),
			uint8((int(src[3])*int(color[3]) + 128) >> 8),
		}
	case Luminance:
		lum := composeLuminance(src)
		return composeOver(src, [4]uint8{color[0], color[1], color[2], lum})
	case LuminanceInv:
		lum := 255 - composeLuminance(src)
		return composeOver(src, [4]uint8{color[0], color[1], color[2], lum})
	case Colorize:
		brightness := (218*int(src[0]) + 732*int(src[1]) + 74*int(src[2])) >> 10
		out := (brightness * int(color[0])) >> 10
		return [4]uint8{clip8(out), clip8((brightness * int(color[1])) >> 10), clip8((brightness * int(color[2])) >> 10), src[3]}
	default:
		return src
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func composeLuminance(p [4]uint8) uint8 {
	return clip8((218*int(p[0]) + 732*int(p[1]) + 74*int(p[2])) >> 10)
}

// composeOver is the Porter-Duff "over" operator: base drawn under top,
// top's alpha channel controlling the blend.
func composeOver(base, top [4]uint8) [4]uint8 {
	a := int(top[3])
	inv := 255 - a
	outAlpha := a + (inv*int(base[3]))/255
	if outAlpha == 0 {
		return [4]uint8{0, 0, 0, 0}
	}
	r := (int(top[0])*a + int(base[0])*inv) / 255
	g := (int(top[1])*a + int(base[1])*inv) / 255
	b := (int(top[2])*a + int(base[2])*inv) / 255
	return [4]uint8{clip8(r), clip8(g), clip8(b), clip8(outAlpha)}
}
