package geom

import "math"

// Rect is a closed axis-aligned rectangle in canvas space: a point p is
// inside when Min.X <= p.X <= Max.X and Min.Y <= p.Y <= Max.Y.
//
// The canonical empty rectangle has Min > Max on both axes, so that Union
// with it is the identity and it intersects nothing.
type Rect struct {
	Min, Max V2
}

// EmptyRect returns the canonical empty rectangle.
func EmptyRect() Rect {
	return Rect{
		Min: V2{X: math.MaxInt64, Y: math.MaxInt64},
		Max: V2{X: math.MinInt64, Y: math.MinInt64},
	}
}

// RectFromPoints returns the smallest rectangle containing a and b.
func RectFromPoints(a, b V2) Rect {
	return Rect{
		Min: V2{X: min(a.X, b.X), Y: min(a.Y, b.Y)},
		Max: V2{X: max(a.X, b.X), Y: max(a.Y, b.Y)},
	}
}

// RectAround returns a square of half-size r centered on c.
func RectAround(c V2, r int64) Rect {
	return Rect{
		Min: V2{X: c.X - r, Y: c.Y - r},
		Max: V2{X: c.X + r, Y: c.Y + r},
	}
}

// Empty reports whether r contains no points.
func (r Rect) Empty() bool {
	return r.Min.X > r.Max.X || r.Min.Y > r.Max.Y
}

// Width returns the horizontal extent of r, 0 for empty rectangles.
func (r Rect) Width() int64 {
	if r.Empty() {
		return 0
	}
	return r.Max.X - r.Min.X
}

// Height returns the vertical extent of r, 0 for empty rectangles.
func (r Rect) Height() int64 {
	if r.Empty() {
		return 0
	}
	return r.Max.Y - r.Min.Y
}

// Center returns the midpoint of r, truncated toward zero.
func (r Rect) Center() V2 {
	return V2{
		X: r.Min.X + (r.Max.X-r.Min.X)/2,
		Y: r.Min.Y + (r.Max.Y-r.Min.Y)/2,
	}
}

// Union returns the smallest rectangle containing r and s.
func (r Rect) Union(s Rect) Rect {
	return Rect{
		Min: V2{X: min(r.Min.X, s.Min.X), Y: min(r.Min.Y, s.Min.Y)},
		Max: V2{X: max(r.Max.X, s.Max.X), Y: max(r.Max.Y, s.Max.Y)},
	}
}

// Intersect returns the intersection of r and s, possibly empty.
func (r Rect) Intersect(s Rect) Rect {
	out := Rect{
		Min: V2{X: max(r.Min.X, s.Min.X), Y: max(r.Min.Y, s.Min.Y)},
		Max: V2{X: min(r.Max.X, s.Max.X), Y: min(r.Max.Y, s.Max.Y)},
	}
	if out.Empty() {
		return EmptyRect()
	}
	return out
}

// Intersects reports whether r and s share at least one point.
func (r Rect) Intersects(s Rect) bool {
	return r.Min.X <= s.Max.X && s.Min.X <= r.Max.X &&
		r.Min.Y <= s.Max.Y && s.Min.Y <= r.Max.Y
}

// Enlarge grows r by d on every side. Empty rectangles stay empty.
func (r Rect) Enlarge(d int64) Rect {
	if r.Empty() {
		return r
	}
	return Rect{
		Min: V2{X: r.Min.X - d, Y: r.Min.Y - d},
		Max: V2{X: r.Max.X + d, Y: r.Max.Y + d},
	}
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p V2) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X &&
		p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// ContainsRect reports whether s lies entirely inside r.
// The empty rectangle is contained in every rectangle.
func (r Rect) ContainsRect(s Rect) bool {
	if s.Empty() {
		return true
	}
	return r.Contains(s.Min) && r.Contains(s.Max)
}

// SegmentOutside reports whether the segment ab lies entirely on one side
// of r: both endpoints left of, right of, above or below it. A false result
// means the segment may touch r; it is a separating-axis rejection, not an
// exact intersection test.
func (r Rect) SegmentOutside(a, b V2) bool {
	return (a.X < r.Min.X && b.X < r.Min.X) ||
		(a.X > r.Max.X && b.X > r.Max.X) ||
		(a.Y < r.Min.Y && b.Y < r.Min.Y) ||
		(a.Y > r.Max.Y && b.Y > r.Max.Y)
}
