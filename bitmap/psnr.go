package bitmap

import "math"

// PSNR computes the peak signal-to-noise ratio between two equal-sized
// bitmaps: symmetric, capped at 100 when MSE is effectively zero, and -1
// for mismatched shapes.
func PSNR(a, b *Bitmap) float64 {
	if a.width != b.width || a.height != b.height || a.mode.Bpp() != b.mode.Bpp() {
		return -1
	}
	bufA, bufB := a.Buffer(), b.Buffer()
	if bufA == nil || bufB == nil {
		return -1
	}

	bpp := a.mode.Bpp()
	rowBytes := a.width * bpp
	var sumSq float64
	var n int64
	for y := 0; y < a.height; y++ {
		ra := bufA[y*a.pitch : y*a.pitch+rowBytes]
		rb := bufB[y*b.pitch : y*b.pitch+rowBytes]
		for i := range ra {
			d := float64(ra[i]) - float64(rb[i])
			sumSq += d * d
		}
		n += int64(rowBytes)
	}
	if n == 0 {
		return 100
	}
	mse := sumSq / float64(n)
	if mse <= 1e-10 {
		return 100
	}
	psnr := 10 * math.Log10((255*255)/mse)
	if psnr > 100 {
		psnr = 100
	}
	return psnr
}
