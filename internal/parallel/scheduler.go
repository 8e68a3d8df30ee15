package parallel

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/ink/internal/arena"
	"github.com/gogpu/ink/internal/clip"
)

// ErrClosed is returned by Render after Close.
var ErrClosed = errors.New("parallel: scheduler closed")

// Config sizes the scheduler.
type Config struct {
	// Workers is the pool size; 0 selects min(GOMAXPROCS, MaxWorkers).
	Workers int

	TileSize  int
	GroupSide int

	// PointsPerWorker and StrokesPerWorker are the initial scratch arena
	// capacities, in float32 values and clipped strokes.
	PointsPerWorker  int
	StrokesPerWorker int
}

// Result describes one dispatched frame.
type Result struct {
	// Rect is the tile-aligned area that was dispatched.
	Rect image.Rectangle

	Groups int
	Tiles  int
	Pixels int

	// Abandoned counts tiles skipped for lack of scratch memory. They are
	// returned by the next Setup.
	Abandoned int

	// Err joins the errors of all groups, other than running out of memory.
	Err error
}

// Scheduler splits dirty rectangles into tile groups and renders them on a
// WorkerPool.
//
// Thread safety: a Scheduler is driven by one goroutine.
type Scheduler struct {
	cfg     Config
	grid    *TileGrid
	pool    *WorkerPool
	failed  *DirtyRegion
	scratch []*clip.Scratch
}

// NewScheduler creates a scheduler for a width x height screen and starts
// its workers. The scratch memory of all workers is allocated up front, as
// one region per arena type split between them.
func NewScheduler(width, height int, cfg Config) (*Scheduler, error) {
	if cfg.PointsPerWorker <= 0 || cfg.StrokesPerWorker <= 0 {
		return nil, fmt.Errorf("parallel: scratch sizes must be positive, got %d points, %d strokes",
			cfg.PointsPerWorker, cfg.StrokesPerWorker)
	}
	s := &Scheduler{
		cfg:  cfg,
		grid: NewTileGrid(width, height, cfg.TileSize, cfg.GroupSide),
	}
	s.cfg.TileSize, s.cfg.GroupSide = s.grid.TileSize(), s.grid.GroupSide()

	n := WorkerCount(cfg.Workers)
	wideSize := clip.WideSize(cfg.PointsPerWorker)
	points := arena.New[float32](n * cfg.PointsPerWorker)
	wide := arena.New[float64](n * wideSize)
	strokes := arena.New[clip.ClippedStroke](n * cfg.StrokesPerWorker)
	s.scratch = make([]*clip.Scratch, n)
	for i := range s.scratch {
		p, err := points.Spawn(cfg.PointsPerWorker)
		if err != nil {
			return nil, fmt.Errorf("parallel: worker %d points: %w", i, err)
		}
		w, err := wide.Spawn(wideSize)
		if err != nil {
			return nil, fmt.Errorf("parallel: worker %d wide points: %w", i, err)
		}
		st, err := strokes.Spawn(cfg.StrokesPerWorker)
		if err != nil {
			return nil, fmt.Errorf("parallel: worker %d strokes: %w", i, err)
		}
		s.scratch[i] = clip.NewScratchFrom(p, w, st)
	}
	s.pool = NewWorkerPool(n, s.grid.MaxGroups(), s.workerScratch)

	s.failed = NewDirtyRegion(max(s.grid.TilesX(), 1), max(s.grid.TilesY(), 1), s.grid.TileSize())
	return s, nil
}

// Resize adapts the tiling to a new screen size. When the screen now has
// more groups than the work stack can hold, the pool is restarted with a
// larger stack; worker scratch memory is kept.
func (s *Scheduler) Resize(width, height int) {
	s.grid.Resize(width, height)
	s.failed = NewDirtyRegion(max(s.grid.TilesX(), 1), max(s.grid.TilesY(), 1), s.grid.TileSize())

	if s.grid.MaxGroups() <= s.pool.Capacity() {
		return
	}
	workers := s.pool.Workers()
	s.pool.Close()
	s.pool = NewWorkerPool(workers, s.grid.MaxGroups(), s.workerScratch)
	slogger().Debug("parallel: work stack enlarged", "capacity", s.pool.Capacity())
}

func (s *Scheduler) workerScratch(id int) *clip.Scratch {
	return s.scratch[id]
}

// Setup runs before each frame. It doubles the scratch memory of workers
// that abandoned tiles and returns the area those tiles covered, which
// must be rendered again.
func (s *Scheduler) Setup() (retry image.Rectangle, grown int) {
	grown = s.pool.Grow()
	if s.failed.IsEmpty() {
		return image.Rectangle{}, grown
	}
	return s.failed.TakeBounds().Intersect(s.grid.Bounds()), grown
}

// Render dispatches the tiles covering dirty and waits for them. It fails
// with ErrClosed once the scheduler is closed.
func (s *Scheduler) Render(dirty image.Rectangle, r GroupRenderer) Result {
	if !s.pool.IsRunning() {
		return Result{Err: ErrClosed}
	}
	groups := s.grid.Split(dirty)
	res := Result{Rect: s.grid.Align(dirty), Groups: len(groups)}
	if len(groups) == 0 {
		return res
	}
	for i := range groups {
		res.Tiles += len(groups[i].Tiles)
		res.Pixels += groups[i].Pixels()
	}

	errs := s.pool.Run(groups, r, s.failed)
	res.Err = errors.Join(errs...)
	res.Abandoned = s.failed.Count()
	if res.Err != nil {
		slogger().Warn("parallel: frame finished with errors", "err", res.Err)
	}
	return res
}

// Grid returns the tile grid.
func (s *Scheduler) Grid() *TileGrid {
	return s.grid
}

// Pool returns the worker pool.
func (s *Scheduler) Pool() *WorkerPool {
	return s.pool
}

// Close stops the workers and reports how many tiles they rendered.
func (s *Scheduler) Close() (tiles int64) {
	if !s.pool.IsRunning() {
		return 0
	}
	tiles = s.pool.TilesRendered()
	s.pool.Close()
	return tiles
}
