package ink

import (
	"fmt"
	"image"
	"math"
	"time"
	"unsafe"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/ink/internal/clip"
	"github.com/gogpu/ink/internal/color"
	"github.com/gogpu/ink/internal/geom"
	"github.com/gogpu/ink/internal/parallel"
	"github.com/gogpu/ink/internal/raster"
	"github.com/gogpu/ink/internal/view"
)

// View is the pan and zoom state of the canvas on screen.
type View = view.CanvasView

// RenderFlags modify a Render call.
type RenderFlags uint8

const (
	// FullRedraw redraws the whole screen.
	FullRedraw RenderFlags = 1 << iota

	// QualityRedraw renders at full quality in a single pass. With an empty
	// dirty rectangle it redraws the area left at reduced quality.
	QualityRedraw
)

// FrameStats describes a rendered frame.
type FrameStats struct {
	// Dirty is the screen area that was redrawn, expanded to whole tiles.
	Dirty image.Rectangle

	Passes       int
	Downsampling int  // block edge of the last pass
	Complete     bool // the last pass was full quality

	Groups    int
	Tiles     int // tiles dispatched, summed over passes
	Pixels    int // pixels dispatched, summed over passes
	Abandoned int // tiles left for the next frame for lack of memory
	Grown     int // workers whose scratch memory was doubled

	Elapsed time.Duration
	Err     error
}

// Engine renders a Canvas through a View into an RGBA image.
//
// Thread safety: all methods must be called from one goroutine. Render
// blocks until the frame is finished.
type Engine struct {
	cfg     Config
	view    view.CanvasView
	canvas  *Canvas
	sched   *parallel.Scheduler
	raster  raster.Rasterizer
	refiner *Refiner
	buf     *image.RGBA
	frame   frameRenderer

	// pending collects areas invalidated since the last frame.
	pending image.Rectangle
}

// NewEngine creates an engine for a width x height screen, with an empty
// canvas and the view centered on the canvas origin.
func NewEngine(width, height int, opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	cfg := o.cfg
	if err := cfg.Validate(); err != nil {
		Logger().Error("ink: engine setup failed", "err", err)
		return nil, err
	}
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: screen %dx%d", ErrInvalidConfig, width, height)
	}

	kind, _ := raster.ParseKind(cfg.Rasterizer)
	gamma, _ := color.ParseGamma(cfg.Gamma)
	r, err := raster.New(kind, raster.Options{Samples: cfg.Samples, Gamma: gamma})
	if err != nil {
		Logger().Error("ink: engine setup failed", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	points, strokes := scratchSizes(cfg.ArenaBytes)
	sched, err := parallel.NewScheduler(width, height, parallel.Config{
		Workers:          cfg.workerCount(),
		TileSize:         cfg.TileSize,
		GroupSide:        cfg.GroupSide,
		PointsPerWorker:  points,
		StrokesPerWorker: strokes,
	})
	if err != nil {
		Logger().Error("ink: engine setup failed", "err", err)
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	v := view.New(width, height)
	v.Scale = cfg.DefaultScale
	v.CanvasRadiusLimit = cfg.CanvasRadiusLimit

	e := &Engine{
		cfg:     cfg,
		view:    v,
		canvas:  NewCanvas(cfg.BucketSize),
		sched:   sched,
		raster:  r,
		refiner: NewRefiner(cfg.Budget(), cfg.IdleTimeout(), cfg.StartDownsampling, o.now),
		buf:     image.NewRGBA(image.Rect(0, 0, width, height)),
	}
	e.frame.fastPath = true
	e.pending = e.view.Screen()

	Logger().Info("ink: engine started",
		"size", image.Pt(width, height),
		"workers", sched.Pool().Workers(),
		"rasterizer", r.Name(),
		"samples", cfg.Samples)
	return e, nil
}

// scratchSizes splits a per-worker byte budget between segment floats and
// clipped strokes. Each float32 segment value brings 1/clip.WideShare of a
// float64 one along.
func scratchSizes(bytes int) (points, strokes int) {
	const pointShare = 3 // of 4
	perPoint := int(unsafe.Sizeof(float32(0))) + int(unsafe.Sizeof(float64(0)))/clip.WideShare
	points = bytes * pointShare / 4 / perPoint
	strokes = bytes / 4 / int(unsafe.Sizeof(clip.ClippedStroke{}))
	return max(points, clip.SegStride), max(strokes, 1)
}

// ErrClosed is reported in FrameStats.Err by Render after Close.
var ErrClosed = parallel.ErrClosed

// Close stops the workers. Frames rendered afterwards fail with ErrClosed.
func (e *Engine) Close() {
	if tiles := e.sched.Close(); tiles > 0 {
		Logger().Info("ink: engine stopped", "tiles", tiles)
	}
}

// Config returns the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// View returns the view. Changing it directly does not invalidate the
// screen; use Pan, ZoomAt and Resize, or Invalidate.
func (e *Engine) View() *View {
	return &e.view
}

// Canvas returns the canvas.
func (e *Engine) Canvas() *Canvas {
	return e.canvas
}

// Image returns the rendered frame. It is premultiplied, gamma encoded
// RGBA and changes with every Render.
func (e *Engine) Image() *image.RGBA {
	return e.buf
}

// Rasterizer returns the name of the rasterizer strategy in use.
func (e *Engine) Rasterizer() string {
	return e.raster.Name()
}

// SetFastPath enables or disables the flat fill of tiles entirely covered
// by a stroke. It is on by default; turning it off only costs time.
func (e *Engine) SetFastPath(on bool) {
	e.frame.fastPath = on
}

// Invalidate marks a screen area for the next Render.
func (e *Engine) Invalidate(r image.Rectangle) {
	e.pending = e.pending.Union(r.Intersect(e.view.Screen()))
}

// Resize changes the screen size. The whole screen is redrawn next frame.
func (e *Engine) Resize(width, height int) {
	if image.Pt(width, height) == e.buf.Rect.Size() {
		return
	}
	e.view.Resize(width, height)
	e.sched.Resize(width, height)
	e.buf = image.NewRGBA(image.Rect(0, 0, width, height))
	e.pending = e.view.Screen()
}

// Pan moves the canvas content by delta pixels.
func (e *Engine) Pan(delta image.Point) {
	if delta == (image.Point{}) {
		return
	}
	e.view.PanBy(delta)
	e.refiner.Input()
	e.pending = e.view.Screen()
}

// ZoomAt zooms by factor around the screen position at; factor > 1 zooms
// in. It reports whether the zoom level changed.
func (e *Engine) ZoomAt(at image.Point, factor float64) bool {
	if !e.view.ZoomAt(at, factor) {
		return false
	}
	e.refiner.Input()
	e.pending = e.view.Screen()
	return true
}

// SetBackground changes the background color.
func (e *Engine) SetBackground(c Color) {
	e.view.Background = c
	e.pending = e.view.Screen()
}

// BeginStroke starts a stroke on the active layer with a brush of the
// given on-screen radius. The radius is stored in canvas units, so the
// stroke keeps its size on the canvas when the view zooms.
func (e *Engine) BeginStroke(radius float64, c Color) error {
	if !(radius > 0) {
		return fmt.Errorf("%w: radius %v", ErrInvalidBrush, radius)
	}
	cr := radius * float64(e.view.Scale)
	if cr >= math.MaxInt64/4 {
		return fmt.Errorf("%w: radius %v too large at scale %d", ErrInvalidBrush, radius, e.view.Scale)
	}
	return e.canvas.BeginStroke(Brush{Radius: max(int64(math.Round(cr)), 1), Color: c})
}

// AddSample extends the working stroke with a pointer sample at screen
// position p, in 26.6 fixed point. pressure is in (0,1]; anything else is
// read as 1. It returns the screen area to redraw.
func (e *Engine) AddSample(p fixed.Point26_6, pressure float32) (image.Rectangle, error) {
	e.refiner.Input()
	added, err := e.canvas.AddPoint(e.view.RasterToCanvasFixed(p), pressure)
	if err != nil {
		Logger().Warn("ink: sample rejected", "err", err)
		return image.Rectangle{}, err
	}
	if !added {
		return image.Rectangle{}, nil
	}
	r := e.StrokeDirtyRect()
	e.pending = e.pending.Union(r)
	return r, nil
}

// EndStroke commits the working stroke. Its pixels are already on screen.
func (e *Engine) EndStroke() {
	e.canvas.EndStroke()
}

// StrokeDirtyRect returns the screen area covered by the last segment of
// the working stroke, or an empty rectangle.
func (e *Engine) StrokeDirtyRect() image.Rectangle {
	w := e.canvas.Working()
	if w == nil {
		return image.Rectangle{}
	}
	n := w.Len()
	a, b := w.Points[max(n-2, 0)], w.Points[n-1]
	r := geom.RectFromPoints(a, b).Enlarge(w.Brush.Radius)
	return e.view.CanvasRectToRaster(r).Inset(-1).Intersect(e.view.Screen())
}

// Undo removes the newest stroke of the active layer and returns the
// screen area to redraw.
func (e *Engine) Undo() image.Rectangle {
	s, ok := e.canvas.Undo()
	if !ok {
		return image.Rectangle{}
	}
	return e.invalidateCanvas(s.Bounds)
}

// Redo restores the most recently undone stroke and returns the screen
// area to redraw.
func (e *Engine) Redo() image.Rectangle {
	s, ok := e.canvas.Redo()
	if !ok {
		return image.Rectangle{}
	}
	return e.invalidateCanvas(s.Bounds)
}

func (e *Engine) invalidateCanvas(r geom.Rect) image.Rectangle {
	rr := e.view.CanvasRectToRaster(r).Inset(-1).Intersect(e.view.Screen())
	e.pending = e.pending.Union(rr)
	return rr
}

// QualityRedrawDue reports whether part of the screen is at reduced
// quality and input has been idle long enough to redraw it.
func (e *Engine) QualityRedrawDue() bool {
	return e.refiner.QualityRedrawDue()
}

// Render draws the dirty area plus everything invalidated since the last
// frame. Tiles abandoned by the previous frame for lack of scratch memory
// are redrawn too, after the workers that gave up have had their memory
// doubled. When nothing is dirty and a quality redraw is due, it runs.
func (e *Engine) Render(dirty image.Rectangle, flags RenderFlags) FrameStats {
	screen := e.view.Screen()
	if flags&FullRedraw != 0 {
		dirty = screen
	}
	dirty = dirty.Union(e.pending)
	e.pending = image.Rectangle{}

	quality := flags&QualityRedraw != 0
	if dirty.Empty() && (quality || e.refiner.QualityRedrawDue()) {
		quality = true
		dirty = e.refiner.Stale()
	}

	var st FrameStats
	var retry image.Rectangle
	retry, st.Grown = e.sched.Setup()
	dirty = dirty.Union(retry).Intersect(screen)
	if dirty.Empty() {
		return st
	}
	st.Dirty = e.sched.Grid().Align(dirty)

	e.frame.prepare(&e.view, e.canvas, e.raster, e.buf)
	ref, err := e.refiner.Run(st.Dirty, quality, func(factor int) error {
		e.frame.factor = factor
		res := e.sched.Render(st.Dirty, &e.frame)
		st.Groups = res.Groups
		st.Tiles += res.Tiles
		st.Pixels += res.Pixels
		st.Abandoned = res.Abandoned
		return res.Err
	})
	st.Passes = ref.Passes
	st.Downsampling = ref.Factor
	st.Complete = ref.Complete
	st.Elapsed = ref.Elapsed
	st.Err = err

	if err != nil {
		Logger().Warn("ink: frame failed", "dirty", st.Dirty, "err", err)
	}
	Logger().Debug("ink: frame",
		"dirty", st.Dirty,
		"passes", st.Passes,
		"downsampling", st.Downsampling,
		"tiles", st.Tiles,
		"abandoned", st.Abandoned,
		"elapsed", st.Elapsed)
	return st
}

// Present copies area r of the rendered frame into dst at the same
// position.
func (e *Engine) Present(dst draw.Image, r image.Rectangle) {
	r = r.Intersect(e.buf.Rect)
	if r.Empty() {
		return
	}
	draw.Copy(dst, r.Min, e.buf, r, draw.Src, nil)
}
