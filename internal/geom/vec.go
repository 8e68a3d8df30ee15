// Package geom provides the integer vector and rectangle types shared by the
// stroke store, the view transform and the tile pipeline.
//
// Canvas coordinates are int64 so that a canvas spanning well beyond
// ±(1<<30) units can be addressed without overflow. Raster (screen)
// coordinates use image.Point and image.Rectangle from the standard library.
package geom

import (
	"image"
	"math"
)

// V2 is a 2D integer vector used both as a point and as a size.
type V2 struct {
	X, Y int64
}

// Pt is a convenience function to create a V2.
func Pt(x, y int64) V2 {
	return V2{X: x, Y: y}
}

// FromPoint converts a raster image.Point to a V2.
func FromPoint(p image.Point) V2 {
	return V2{X: int64(p.X), Y: int64(p.Y)}
}

// Point converts v to a raster image.Point.
// Values outside the int range saturate.
func (v V2) Point() image.Point {
	return image.Point{X: saturate(v.X), Y: saturate(v.Y)}
}

// Add returns v + w.
func (v V2) Add(w V2) V2 {
	return V2{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns v - w.
func (v V2) Sub(w V2) V2 {
	return V2{X: v.X - w.X, Y: v.Y - w.Y}
}

// Mul returns v scaled by s.
func (v V2) Mul(s int64) V2 {
	return V2{X: v.X * s, Y: v.Y * s}
}

// Div returns v divided by s, truncating toward zero.
func (v V2) Div(s int64) V2 {
	return V2{X: v.X / s, Y: v.Y / s}
}

// Width returns X, for V2 values used as a size.
func (v V2) Width() int64 { return v.X }

// Height returns Y, for V2 values used as a size.
func (v V2) Height() int64 { return v.Y }

func saturate(v int64) int {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	if v < math.MinInt32 {
		return math.MinInt32
	}
	return int(v)
}
