package transform

import "math"

// Kernel is a 3x3 convolution kernel laid out row-major in Q10 fixed
// point: [corner, edge, corner, edge, center, edge, corner, edge, corner].
type Kernel [9]int32

// Identity is the no-op kernel (center=1, everything else 0), used when
// sharpening is disabled.
var Identity = Kernel{0, 0, 0, 0, FixedOne, 0, 0, 0, 0}

// CalculateSharpenKernel derives a 3x3 approximately-Gaussian sharpen
// kernel from sigma. sigma == 0 means "no sharpen". fast==true (the only
// mode the codec path exercises) folds the corner weight into the edge
// weight and zeroes the corners.
func CalculateSharpenKernel(sigma float64, fast bool) Kernel {
	if sigma <= 0 {
		return Identity
	}

	twoSigmaSq := 2 * sigma * sigma
	kcorner := FixedOne * -math.Exp(-1/twoSigmaSq) / twoSigmaSq
	kedge := FixedOne * -math.Exp(-2/twoSigmaSq) / twoSigmaSq

	if fast {
		kedge += kcorner
		kcorner = 0
	}

	kcenter := float64(FixedOne) - 4*kedge - 4*kcorner

	c := int32(kcorner)
	e := int32(kedge)
	return Kernel{c, e, c, e, int32(kcenter), e, c, e, c}
}

// ApplyChannel runs the 3x3 kernel over one pixel column, given the already
// edge-replicated top/center/bottom rows and the pixel's left/center/right
// neighbors (also already edge-replicated at row boundaries), producing
// one output channel value clipped to [0,255].
func (k Kernel) ApplyChannel(topLeft, top, topRight, left, center, right, botLeft, bot, botRight uint8) uint8 {
	sum := int(k[0])*int(topLeft) + int(k[1])*int(top) + int(k[2])*int(topRight) +
		int(k[3])*int(left) + int(k[4])*int(center) + int(k[5])*int(right) +
		int(k[6])*int(botLeft) + int(k[7])*int(bot) + int(k[8])*int(botRight)
	v := sum >> FixedShift
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}
