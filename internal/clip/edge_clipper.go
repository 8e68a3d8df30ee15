package clip

// EdgeClipper clips stroke segments against a rectangular region.
type EdgeClipper struct {
	clip Rect
}

// NewEdgeClipper creates an edge clipper for the given bounds.
func NewEdgeClipper(clip Rect) *EdgeClipper {
	return &EdgeClipper{clip: clip}
}

// Clip returns the clip rectangle.
func (ec *EdgeClipper) Clip() Rect {
	return ec.clip
}

// Outcode constants for Cohen-Sutherland rejection.
const (
	outcodeInside = 0
	outcodeLeft   = 1
	outcodeRight  = 2
	outcodeBottom = 4
	outcodeTop    = 8
)

// outcode computes the Cohen-Sutherland outcode for a point.
func (ec *EdgeClipper) outcode(p Point) int {
	code := outcodeInside

	if p.X < ec.clip.X0 {
		code |= outcodeLeft
	} else if p.X > ec.clip.X1 {
		code |= outcodeRight
	}

	if p.Y < ec.clip.Y0 {
		code |= outcodeTop
	} else if p.Y > ec.clip.Y1 {
		code |= outcodeBottom
	}

	return code
}

// Outside reports whether both endpoints lie beyond the same edge.
// This is the cheap separating-axis rejection run before clipping.
func (ec *EdgeClipper) Outside(p0, p1 Point) bool {
	return ec.outcode(p0)&ec.outcode(p1) != 0
}

// ClipSegment clips the segment p0p1 to the clip rectangle using the
// Liang-Barsky parametric form. It returns the parameter range [t0, t1] of
// the visible part, or ok == false if no part is visible. Returning
// parameters instead of points lets the caller interpolate pressure.
func (ec *EdgeClipper) ClipSegment(p0, p1 Point) (t0, t1 float64, ok bool) {
	code0 := ec.outcode(p0)
	code1 := ec.outcode(p1)
	if code0|code1 == 0 {
		return 0, 1, true
	}
	if code0&code1 != 0 {
		return 0, 0, false
	}

	d := p1.Sub(p0)
	t0, t1 = 0, 1
	edges := [4]struct{ p, q float64 }{
		{-d.X, p0.X - ec.clip.X0},
		{d.X, ec.clip.X1 - p0.X},
		{-d.Y, p0.Y - ec.clip.Y0},
		{d.Y, ec.clip.Y1 - p0.Y},
	}
	for _, e := range edges {
		if e.p == 0 {
			if e.q < 0 {
				return 0, 0, false
			}
			continue
		}
		r := e.q / e.p
		if e.p < 0 {
			if r > t1 {
				return 0, 0, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, false
			}
			t1 = min(t1, r)
		}
	}
	return t0, t1, true
}
