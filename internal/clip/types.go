// Package clip turns strokes into tile-local geometry for the rasterizer.
//
// For each tile, every stroke that survived culling is re-centered on the
// tile's reference point, cut down to the part that can reach the tile, and
// converted to float32 coordinates. Brushes so large that float32 cannot
// resolve a pixel at their extent keep float64 coordinates instead.
// Strokes whose brush provably covers the whole tile are flagged so the
// rasterizer can blend them without any per-pixel distance work.
package clip

// Point represents a 2D point with float64 coordinates relative to a tile's
// reference point.
type Point struct {
	X, Y float64
}

// Pt creates a Point from x, y coordinates.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Sub returns the difference of two points.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Lerp performs linear interpolation between p and q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// Rect is a closed float64 rectangle given by its edges.
type Rect struct {
	X0, Y0, X1, Y1 float64
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X0 && p.X <= r.X1 && p.Y >= r.Y0 && p.Y <= r.Y1
}

// Corners returns the four corners of r.
func (r Rect) Corners() [4]Point {
	return [4]Point{{r.X0, r.Y0}, {r.X1, r.Y0}, {r.X1, r.Y1}, {r.X0, r.Y1}}
}

// Center returns the midpoint of r.
func (r Rect) Center() Point {
	return Point{X: (r.X0 + r.X1) / 2, Y: (r.Y0 + r.Y1) / 2}
}
