package bitmap

// Rect is a signed pixel rectangle. A nil *Rect conventionally means
// "entire canvas" wherever the core accepts an optional window.
type Rect struct {
	X, Y, Width, Height int
}

// Empty reports whether the rect has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersect returns the overlap of a and b. Intersecting with the zero
// Rect is treated as "full canvas" only by callers that pass it
// explicitly via FullRect; the zero value of Rect itself is an empty
// rect, not a wildcard, so a nil *Rect (see IntersectNullable) or
// FullRect expresses "entire canvas".
func Intersect(a, b Rect) Rect {
	x0, y0 := max(a.X, b.X), max(a.Y, b.Y)
	x1, y1 := min(a.X+a.Width, b.X+b.Width), min(a.Y+a.Height, b.Y+b.Height)
	if x1 <= x0 || y1 <= y0 {
		return Rect{}
	}
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// FullRect returns the rect covering (0,0)-(w,h), the canonical
// replacement for a nil "entire canvas" rect once concrete dimensions are
// known.
func FullRect(w, h int) Rect {
	return Rect{Width: w, Height: h}
}

// IntersectNullable implements intersect(r, null) = r from the testable
// property in spec form: a nil rect acts as the identity element.
func IntersectNullable(a *Rect, full Rect) Rect {
	if a == nil {
		return full
	}
	return Intersect(*a, full)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
