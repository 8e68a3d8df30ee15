package stroke

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gogpu/ink/internal/color"
	"github.com/gogpu/ink/internal/geom"
)

// MaxPoints is the capacity of a single stroke. Input beyond it is
// rejected; the caller starts a new stroke.
const MaxPoints = 2048

// Stroke validation errors.
var (
	ErrEmptyStroke       = errors.New("stroke: no points")
	ErrPressureMismatch  = errors.New("stroke: points and pressures differ in length")
	ErrTooManyPoints     = errors.New("stroke: too many points")
	ErrPressureRange     = errors.New("stroke: pressure outside (0,1]")
	ErrNonPositiveRadius = errors.New("stroke: brush radius must be positive")
)

// EraserColor is the sentinel brush color marking an eraser. Eraser strokes
// composite the view background instead of a paint color.
var EraserColor = color.ColorF32{R: -1, G: -1, B: -1, A: -1}

// Brush describes how a stroke is painted.
type Brush struct {
	// Radius in canvas units: the on-screen radius times the view scale at
	// the time the stroke was drawn.
	Radius int64

	// Color is premultiplied and linear, or EraserColor.
	Color color.ColorF32
}

// IsEraser reports whether b is an eraser brush.
func (b Brush) IsEraser() bool {
	return b.Color == EraserColor
}

// PaintColor returns the color b composites with: its own color, or bg for
// an eraser.
func (b Brush) PaintColor(bg color.ColorF32) color.ColorF32 {
	if b.IsEraser() {
		return bg
	}
	return b.Color
}

// Stroke is a polyline in canvas space with one pressure value per point.
// A single-point stroke is a dot.
type Stroke struct {
	Brush     Brush
	Points    []geom.V2
	Pressures []float32
	LayerID   uuid.UUID

	// Bounds is the bounding rectangle of Points enlarged by the brush
	// radius. It is maintained by New, AddPoint and UpdateBounds.
	Bounds geom.Rect
}

// New builds a stroke from points and pressures, taking ownership of both
// slices, and computes its bounds.
func New(brush Brush, points []geom.V2, pressures []float32, layer uuid.UUID) (Stroke, error) {
	s := Stroke{
		Brush:     brush,
		Points:    points,
		Pressures: pressures,
		LayerID:   layer,
	}
	if err := s.Validate(); err != nil {
		return Stroke{}, err
	}
	s.UpdateBounds()
	return s, nil
}

// Validate checks the stroke invariants.
func (s *Stroke) Validate() error {
	switch {
	case len(s.Points) == 0:
		return ErrEmptyStroke
	case len(s.Points) != len(s.Pressures):
		return fmt.Errorf("%w: %d points, %d pressures", ErrPressureMismatch, len(s.Points), len(s.Pressures))
	case len(s.Points) > MaxPoints:
		return fmt.Errorf("%w: %d > %d", ErrTooManyPoints, len(s.Points), MaxPoints)
	case s.Brush.Radius <= 0:
		return ErrNonPositiveRadius
	}
	for i, p := range s.Pressures {
		if !(p > 0 && p <= 1) {
			return fmt.Errorf("%w: pressure[%d] = %v", ErrPressureRange, i, p)
		}
	}
	return nil
}

// Len returns the number of points.
func (s *Stroke) Len() int {
	return len(s.Points)
}

// IsDot reports whether s is a single point.
func (s *Stroke) IsDot() bool {
	return len(s.Points) == 1
}

// AddPoint appends a point, keeping Bounds current.
func (s *Stroke) AddPoint(p geom.V2, pressure float32) error {
	if len(s.Points) >= MaxPoints {
		return ErrTooManyPoints
	}
	if !(pressure > 0 && pressure <= 1) {
		return fmt.Errorf("%w: %v", ErrPressureRange, pressure)
	}
	if len(s.Points) == 0 {
		s.Bounds = geom.EmptyRect()
	}
	s.Points = append(s.Points, p)
	s.Pressures = append(s.Pressures, pressure)
	s.Bounds = s.Bounds.Union(geom.RectAround(p, s.Brush.Radius))
	return nil
}

// UpdateBounds recomputes Bounds from the points.
func (s *Stroke) UpdateBounds() {
	b := geom.EmptyRect()
	for _, p := range s.Points {
		b = b.Union(geom.RectFromPoints(p, p))
	}
	s.Bounds = b.Enlarge(s.Brush.Radius)
}

// Clone returns a deep copy of s.
func (s *Stroke) Clone() Stroke {
	c := *s
	c.Points = append([]geom.V2(nil), s.Points...)
	c.Pressures = append([]float32(nil), s.Pressures...)
	return c
}
