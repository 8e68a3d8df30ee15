package parallel

import (
	"errors"
	"fmt"
	"image"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/gogpu/ink/internal/arena"
	"github.com/gogpu/ink/internal/clip"
)

// MaxWorkers caps the size of the worker pool.
const MaxWorkers = 64

// GroupRenderer renders one tile group on a worker goroutine.
//
// RenderGroup must only touch the worker's own scratch memory and the
// pixels of g. A tile that cannot be rendered because scratch memory ran
// out is reported with Worker.Abandon and rendering continues with the next
// tile; other errors are returned.
type GroupRenderer interface {
	RenderGroup(w *Worker, g *Group) error
}

// Worker is the per-goroutine state of the pool.
type Worker struct {
	// ID is the worker index in [0, Workers()).
	ID int

	// Scratch is owned by this worker alone.
	Scratch *clip.Scratch

	pool     *WorkerPool
	needMore atomic.Bool
	tiles    atomic.Int64
}

// Abandon records that tile could not be rendered because w's scratch
// memory is too small. The tile is queued for the next frame and w's
// arenas are grown before it.
func (w *Worker) Abandon(tile image.Rectangle, err error) {
	w.needMore.Store(true)
	if w.pool.failed != nil {
		w.pool.failed.MarkRect(tile)
	}
	slogger().Debug("parallel: tile abandoned", "worker", w.ID, "tile", tile, "err", err)
}

// Rendered counts a finished tile.
func (w *Worker) Rendered() {
	w.tiles.Add(1)
}

// NeedsMemory reports whether w abandoned a tile since its last growth.
func (w *Worker) NeedsMemory() bool {
	return w.needMore.Load()
}

type workItem struct {
	group    *Group
	renderer GroupRenderer
	err      *error
}

// WorkerPool is a fixed set of goroutines rendering tile groups.
//
// Work is handed over through a fixed-capacity stack guarded by a mutex.
// Two counting semaphores, implemented as buffered channels, pair every push
// with one wake-up of a parked worker and every finished item with one
// completion token. Run pushes a whole frame and then blocks for one
// completion per item: a fork-join barrier. Only one goroutine may call Run
// at a time.
//
// Thread safety: Run and Close must be called from the same goroutine.
type WorkerPool struct {
	workers []*Worker

	mu    sync.Mutex
	stack []workItem // len is the number of pending items, cap is fixed

	workAvailable chan struct{}
	completed     chan struct{}

	// done signals workers to stop.
	done chan struct{}

	// wg waits for all workers to finish.
	wg sync.WaitGroup

	running atomic.Bool

	failed *DirtyRegion
	errs   []error
}

// NewWorkerPool starts workers goroutines able to take up to capacity
// items per Run. If workers is 0 or negative, GOMAXPROCS is used; it is
// capped at MaxWorkers. newScratch creates each worker's scratch memory.
func NewWorkerPool(workers, capacity int, newScratch func(id int) *clip.Scratch) *WorkerPool {
	workers = WorkerCount(workers)
	capacity = max(capacity, 1)

	p := &WorkerPool{
		workers:       make([]*Worker, workers),
		stack:         make([]workItem, 0, capacity),
		workAvailable: make(chan struct{}, capacity),
		completed:     make(chan struct{}, capacity),
		done:          make(chan struct{}),
		errs:          make([]error, 0, capacity),
	}
	for i := range p.workers {
		p.workers[i] = &Worker{ID: i, Scratch: newScratch(i), pool: p}
	}

	p.running.Store(true)

	p.wg.Add(workers)
	for _, w := range p.workers {
		go p.worker(w)
	}

	slogger().Debug("parallel: worker pool started", "workers", workers, "capacity", capacity)
	return p
}

// WorkerCount resolves a requested pool size: GOMAXPROCS when n is not
// positive, capped at MaxWorkers.
func WorkerCount(n int) int {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	return min(n, MaxWorkers)
}

// worker is the main loop for each worker goroutine.
func (p *WorkerPool) worker(w *Worker) {
	defer p.wg.Done()

	for {
		select {
		case <-p.done:
			return
		case <-p.workAvailable:
		}

		item := p.pop()
		*item.err = p.runItem(w, item)
		p.completed <- struct{}{}
	}
}

// runItem renders one group, turning a panic into an error so that the
// dispatcher's join still completes.
func (p *WorkerPool) runItem(w *Worker, item workItem) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parallel: worker %d panicked: %v", w.ID, r)
		}
	}()
	err = item.renderer.RenderGroup(w, item.group)
	if errors.Is(err, arena.ErrOutOfMemory) {
		// The renderer gave up on the whole group.
		w.Abandon(item.group.Rect, err)
		return nil
	}
	return err
}

func (p *WorkerPool) push(item workItem) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.stack) == cap(p.stack) {
		panic(fmt.Sprintf("parallel: work stack overflow (capacity %d)", cap(p.stack)))
	}
	p.stack = append(p.stack, item)
}

func (p *WorkerPool) pop() workItem {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := len(p.stack) - 1
	item := p.stack[n]
	p.stack[n] = workItem{}
	p.stack = p.stack[:n]
	return item
}

// Run renders every group with r and waits until all of them are done.
// Tiles abandoned for lack of memory are recorded in failed. The returned
// slice holds one error per group and is reused by the next Run.
//
// Pushing more groups than the pool's capacity is a programming error and
// panics.
func (p *WorkerPool) Run(groups []Group, r GroupRenderer, failed *DirtyRegion) []error {
	if len(groups) == 0 || !p.running.Load() {
		return nil
	}
	if len(groups) > cap(p.stack) {
		panic(fmt.Sprintf("parallel: %d groups exceed capacity %d", len(groups), cap(p.stack)))
	}

	p.failed = failed
	p.errs = p.errs[:len(groups)]
	clear(p.errs)

	for i := range groups {
		p.push(workItem{group: &groups[i], renderer: r, err: &p.errs[i]})
		p.workAvailable <- struct{}{}
	}
	for range groups {
		<-p.completed
	}
	return p.errs
}

// Grow doubles the scratch memory of every worker that abandoned a tile
// and returns how many were grown. It must not run concurrently with Run.
func (p *WorkerPool) Grow() int {
	n := 0
	for _, w := range p.workers {
		if !w.needMore.Load() {
			continue
		}
		w.Scratch.Grow()
		w.needMore.Store(false)
		n++
		slogger().Info("parallel: worker scratch grown",
			"worker", w.ID,
			"points", w.Scratch.Points.Cap(),
			"strokes", w.Scratch.Strokes.Cap())
	}
	return n
}

// Close stops the workers. Close is safe to call multiple times.
func (p *WorkerPool) Close() {
	if !p.running.CompareAndSwap(true, false) {
		return
	}
	close(p.done)
	p.wg.Wait()
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return len(p.workers)
}

// Worker returns worker i.
func (p *WorkerPool) Worker(i int) *Worker {
	return p.workers[i]
}

// Capacity returns the maximum number of groups per Run.
func (p *WorkerPool) Capacity() int {
	return cap(p.stack)
}

// IsRunning returns true if the pool is still accepting work.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}

// TilesRendered returns the total number of tiles finished by all workers.
func (p *WorkerPool) TilesRendered() int64 {
	var n int64
	for _, w := range p.workers {
		n += w.tiles.Load()
	}
	return n
}
