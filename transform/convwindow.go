package transform

// convWindow implements a 3-line rolling sharpen window: the first pushed
// row is duplicated to serve as the row above it, and the last row (at
// Flush) is duplicated to serve as the row below it. Only three rows of
// width O(dstW) are ever held.
type convWindow struct {
	kernel      Kernel
	width, bpp  int
	prev, cur, next []byte
	prevY, curY int
	n           int // 0 before the first row, then 2 (first row is row -1 and row 0)
}

func newConvWindow(kernel Kernel, width, bpp int) *convWindow {
	return &convWindow{kernel: kernel, width: width, bpp: bpp}
}

// push feeds one post-shader row (with its destination y) into the
// window. It returns the convolved row and its y once enough rows have
// arrived to compute it, or ok=false if more input is needed first.
func (w *convWindow) push(row []byte, y int) (out []byte, outY int, ok bool) {
	switch w.n {
	case 0:
		w.prev = cloneRow(row)
		w.cur = w.prev
		w.curY = y
		w.n = 2 // row 0 simultaneously seeds both "row -1" and row 0
		return nil, 0, false
	default:
		w.next = cloneRow(row)
		out = w.convolve(w.prev, w.cur, w.next)
		outY = w.curY
		w.prev, w.cur, w.curY = w.cur, w.next, y
		return out, outY, true
	}
}

// flush emits the final row, duplicating the last row as its own
// successor (the bottom boundary).
func (w *convWindow) flush() (out []byte, outY int, ok bool) {
	if w.n == 0 {
		return nil, 0, false
	}
	out = w.convolve(w.prev, w.cur, w.cur)
	return out, w.curY, true
}

func cloneRow(row []byte) []byte {
	c := make([]byte, len(row))
	copy(c, row)
	return c
}

func (w *convWindow) convolve(top, cur, bot []byte) []byte {
	out := make([]byte, w.width*w.bpp)
	k := w.kernel
	for x := 0; x < w.width; x++ {
		lx := x - 1
		if lx < 0 {
			lx = 0
		}
		rx := x + 1
		if rx >= w.width {
			rx = w.width - 1
		}
		for c := 0; c < w.bpp; c++ {
			if c == 3 {
				// Alpha passes through uncharged by sharpening.
				out[x*w.bpp+c] = cur[x*w.bpp+c]
				continue
			}
			out[x*w.bpp+c] = k.ApplyChannel(
				top[lx*w.bpp+c], top[x*w.bpp+c], top[rx*w.bpp+c],
				cur[lx*w.bpp+c], cur[x*w.bpp+c], cur[rx*w.bpp+c],
				bot[lx*w.bpp+c], bot[x*w.bpp+c], bot[rx*w.bpp+c],
			)
		}
	}
	return out
}
