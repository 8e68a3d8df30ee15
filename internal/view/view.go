// Package view holds the pan/zoom model of the canvas and the transforms
// between canvas space and raster (screen) space.
//
// Scale is the number of canvas units covered by one raster pixel, so a
// larger Scale is further zoomed out:
//
//	CanvasToRaster(p) = (Pan + p) / Scale + ScreenCenter
//	RasterToCanvas(p) = (p - ScreenCenter) * Scale - Pan
//
// Division truncates toward zero. The two transforms are not exact inverses;
// a raster round trip may drift by one pixel per axis.
package view

import (
	"image"
	"math"

	"golang.org/x/image/math/fixed"

	"github.com/gogpu/ink/internal/color"
	"github.com/gogpu/ink/internal/geom"
)

// Default view parameters.
const (
	DefaultScale             = 1024
	MinScale                 = 1
	MaxScale                 = 1 << 36
	DefaultCanvasRadiusLimit = 1 << 50

	// localScaleThreshold is the Scale below which tile-local coordinates
	// are multiplied by zoomedInLocalScale, so that sub-pixel sample offsets
	// stay several canvas units apart.
	localScaleThreshold = 8
	zoomedInLocalScale  = 4
)

// CanvasView is the viewport onto the canvas. It is mutated only by Pan,
// ZoomAt and Resize, and read by every transform.
type CanvasView struct {
	Scale        int64
	Pan          geom.V2 // canvas units
	ScreenCenter geom.V2
	ScreenSize   geom.V2

	// Downsampling is the edge of the pixel block that shares one computed
	// color. It is a power of two; 1 is full quality.
	Downsampling int

	// CanvasRadiusLimit bounds |Pan| on each axis so that every transform
	// stays inside the int64 range.
	CanvasRadiusLimit int64

	Background color.ColorF32
}

// New returns a view of the given raster size at DefaultScale, centered on
// the canvas origin, with an opaque white background.
func New(width, height int) CanvasView {
	v := CanvasView{
		Scale:             DefaultScale,
		Downsampling:      1,
		CanvasRadiusLimit: DefaultCanvasRadiusLimit,
		Background:        color.ColorF32{R: 1, G: 1, B: 1, A: 1},
	}
	v.Resize(width, height)
	return v
}

// CanvasToRaster maps a canvas point to a raster pixel.
func (v *CanvasView) CanvasToRaster(p geom.V2) geom.V2 {
	return v.Pan.Add(p).Div(v.Scale).Add(v.ScreenCenter)
}

// RasterToCanvas maps a raster pixel to a canvas point.
func (v *CanvasView) RasterToCanvas(p geom.V2) geom.V2 {
	return p.Sub(v.ScreenCenter).Mul(v.Scale).Sub(v.Pan)
}

// RasterToCanvasFixed maps a sub-pixel raster position, as delivered by
// pointer devices, to a canvas point. At small Scale the fractional pixel
// bits still select distinct canvas units.
func (v *CanvasView) RasterToCanvasFixed(p fixed.Point26_6) geom.V2 {
	cx := int64(v.ScreenCenter.X) << 6
	cy := int64(v.ScreenCenter.Y) << 6
	return geom.V2{
		X: ((int64(p.X)-cx)*v.Scale)>>6 - v.Pan.X,
		Y: ((int64(p.Y)-cy)*v.Scale)>>6 - v.Pan.Y,
	}
}

// CanvasRectToRaster maps a closed canvas rectangle to the half-open raster
// rectangle of pixels it touches. Each corner is transformed on its own.
func (v *CanvasView) CanvasRectToRaster(r geom.Rect) image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}
	lo := v.CanvasToRaster(r.Min)
	hi := v.CanvasToRaster(r.Max)
	return image.Rectangle{
		Min: lo.Point(),
		Max: hi.Add(geom.Pt(1, 1)).Point(),
	}.Canon()
}

// RasterRectToCanvas maps a half-open raster rectangle to the closed canvas
// rectangle it covers. Each corner is transformed on its own.
func (v *CanvasView) RasterRectToCanvas(r image.Rectangle) geom.Rect {
	if r.Empty() {
		return geom.EmptyRect()
	}
	return geom.RectFromPoints(
		v.RasterToCanvas(geom.FromPoint(r.Min)),
		v.RasterToCanvas(geom.FromPoint(r.Max)),
	)
}

// Screen returns the raster rectangle of the whole screen.
func (v *CanvasView) Screen() image.Rectangle {
	return image.Rect(0, 0, int(v.ScreenSize.X), int(v.ScreenSize.Y))
}

// LocalScale returns the multiplier applied to tile-local coordinates.
func (v *CanvasView) LocalScale() int64 {
	if v.Scale < localScaleThreshold {
		return zoomedInLocalScale
	}
	return 1
}

// Resize sets the raster size and recenters the screen.
func (v *CanvasView) Resize(width, height int) {
	v.ScreenSize = geom.Pt(int64(width), int64(height))
	v.ScreenCenter = v.ScreenSize.Div(2)
}

// PanBy moves the canvas content by delta raster pixels.
func (v *CanvasView) PanBy(delta image.Point) {
	v.Pan = v.Pan.Add(geom.FromPoint(delta).Mul(v.Scale))
	v.clampPan()
}

// ZoomAt changes the scale by factor, keeping the canvas point under the
// raster position at fixed. factor > 1 zooms in. The scale is clamped to
// [MinScale, MaxScale]; it reports whether the scale changed.
func (v *CanvasView) ZoomAt(at image.Point, factor float64) bool {
	if !(factor > 0) || math.IsInf(factor, 0) {
		return false
	}
	next := int64(math.Round(float64(v.Scale) / factor))
	switch {
	case next == v.Scale && factor > 1:
		next--
	case next == v.Scale && factor < 1:
		next++
	}
	next = min(max(next, MinScale), MaxScale)
	if next == v.Scale {
		return false
	}

	p := geom.FromPoint(at)
	anchor := v.RasterToCanvas(p)
	v.Scale = next
	v.Pan = p.Sub(v.ScreenCenter).Mul(v.Scale).Sub(anchor)
	v.clampPan()
	return true
}

func (v *CanvasView) clampPan() {
	lim := v.CanvasRadiusLimit
	if lim <= 0 {
		return
	}
	v.Pan.X = min(max(v.Pan.X, -lim), lim)
	v.Pan.Y = min(max(v.Pan.Y, -lim), lim)
}
