package ink

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gogpu/ink/internal/geom"
	"github.com/gogpu/ink/internal/stroke"
)

// Canvas errors.
var (
	ErrNoStroke      = errors.New("ink: no stroke in progress")
	ErrLayerNotFound = errors.New("ink: layer not found")
	ErrLastLayer     = errors.New("ink: cannot remove the last layer")
	ErrStrokeDrawing = errors.New("ink: stroke in progress")
	ErrInvalidBrush  = errors.New("ink: invalid brush")
)

// Brush describes how a stroke is painted. Radius is in canvas units.
type Brush = stroke.Brush

// Point is a canvas coordinate.
type Point = geom.V2

// Canvas holds the layers of a drawing and the stroke being drawn.
//
// Thread safety: a Canvas is not safe for concurrent use. The Engine reads
// it only while a frame is rendering, from its worker goroutines, so it
// must not be modified during Render.
type Canvas struct {
	layers     []*Layer
	active     int
	bucketSize int

	working stroke.Stroke
	drawing bool
}

// NewCanvas creates a canvas with one empty layer.
func NewCanvas(bucketSize int) *Canvas {
	c := &Canvas{bucketSize: bucketSize}
	c.AddLayer("Layer 1")
	return c
}

// AddLayer adds an empty layer on top and makes it active.
func (c *Canvas) AddLayer(name string) *Layer {
	l := newLayer(name, c.bucketSize)
	c.layers = append(c.layers, l)
	c.active = len(c.layers) - 1
	return l
}

// RemoveLayer deletes the layer with the given id.
func (c *Canvas) RemoveLayer(id uuid.UUID) error {
	i, err := c.index(id)
	if err != nil {
		return err
	}
	if len(c.layers) == 1 {
		return ErrLastLayer
	}
	if c.drawing && i == c.active {
		return ErrStrokeDrawing
	}
	c.layers = append(c.layers[:i], c.layers[i+1:]...)
	if c.active >= i && c.active > 0 {
		c.active--
	}
	return nil
}

// Layers returns the layers bottom to top. The slice must not be modified.
func (c *Canvas) Layers() []*Layer {
	return c.layers
}

// Layer returns the layer with the given id.
func (c *Canvas) Layer(id uuid.UUID) (*Layer, error) {
	i, err := c.index(id)
	if err != nil {
		return nil, err
	}
	return c.layers[i], nil
}

// Active returns the layer that receives new strokes.
func (c *Canvas) Active() *Layer {
	return c.layers[c.active]
}

// SetActive selects the layer that receives new strokes.
func (c *Canvas) SetActive(id uuid.UUID) error {
	if c.drawing {
		return ErrStrokeDrawing
	}
	i, err := c.index(id)
	if err != nil {
		return err
	}
	c.active = i
	return nil
}

func (c *Canvas) index(id uuid.UUID) (int, error) {
	for i, l := range c.layers {
		if l.ID == id {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrLayerNotFound, id)
}

// Len returns the number of committed strokes in all layers.
func (c *Canvas) Len() int {
	n := 0
	for _, l := range c.layers {
		n += l.Len()
	}
	return n
}

// BeginStroke starts a stroke on the active layer. A stroke already in
// progress is committed first.
func (c *Canvas) BeginStroke(b Brush) error {
	if b.Radius <= 0 {
		return fmt.Errorf("%w: radius %d", ErrInvalidBrush, b.Radius)
	}
	if c.drawing {
		c.EndStroke()
	}
	c.working.Brush = b
	c.working.LayerID = c.Active().ID
	c.working.Points = c.working.Points[:0]
	c.working.Pressures = c.working.Pressures[:0]
	c.working.Bounds = geom.EmptyRect()
	c.drawing = true
	return nil
}

// AddPoint extends the working stroke. A non-positive or NaN pressure,
// which is what devices without pressure report, is taken as 1. A point
// equal to the previous one is dropped and added is false.
//
// When the stroke reaches stroke.MaxPoints it is committed and a new one
// continues from its last point.
func (c *Canvas) AddPoint(p Point, pressure float32) (added bool, err error) {
	if !c.drawing {
		return false, ErrNoStroke
	}
	if !(pressure > 0 && pressure <= 1) {
		pressure = 1
	}

	w := &c.working
	if n := w.Len(); n > 0 && w.Points[n-1] == p {
		return false, nil
	}
	if w.Len() == stroke.MaxPoints {
		lastP, lastPressure := w.Points[w.Len()-1], w.Pressures[w.Len()-1]
		b := w.Brush
		c.EndStroke()
		if err := c.BeginStroke(b); err != nil {
			return false, err
		}
		if err := w.AddPoint(lastP, lastPressure); err != nil {
			return false, err
		}
	}
	if err := w.AddPoint(p, pressure); err != nil {
		return false, err
	}
	return true, nil
}

// Working returns the stroke in progress, or nil. The stroke belongs to the
// canvas and changes with the next AddPoint.
func (c *Canvas) Working() *stroke.Stroke {
	if !c.drawing || c.working.Len() == 0 {
		return nil
	}
	return &c.working
}

// Drawing reports whether a stroke is in progress.
func (c *Canvas) Drawing() bool {
	return c.drawing
}

// EndStroke commits the working stroke to its layer and returns its stored
// copy. Committing clears the layer's redo history. A stroke without points
// is discarded and nil is returned.
func (c *Canvas) EndStroke() *stroke.Stroke {
	if !c.drawing {
		return nil
	}
	c.drawing = false
	if c.working.Len() == 0 {
		return nil
	}
	l, err := c.Layer(c.working.LayerID)
	if err != nil {
		// The layer was removed while drawing; RemoveLayer forbids that
		// for the active layer, so this is the active one.
		l = c.Active()
	}
	return l.commit(c.working.Clone())
}

// CancelStroke discards the working stroke.
func (c *Canvas) CancelStroke() {
	c.drawing = false
}

// Undo moves the newest stroke of the active layer to its redo history and
// returns it. It does nothing while a stroke is in progress.
func (c *Canvas) Undo() (stroke.Stroke, bool) {
	if c.drawing {
		return stroke.Stroke{}, false
	}
	return c.Active().undo()
}

// Redo restores the most recently undone stroke of the active layer.
func (c *Canvas) Redo() (*stroke.Stroke, bool) {
	if c.drawing {
		return nil, false
	}
	return c.Active().redo()
}

// Clear removes every stroke from every layer.
func (c *Canvas) Clear() {
	c.drawing = false
	for _, l := range c.layers {
		l.clear()
	}
}
