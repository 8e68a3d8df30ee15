package clip

import (
	"fmt"

	"github.com/gogpu/ink/internal/arena"
	"github.com/gogpu/ink/internal/color"
	"github.com/gogpu/ink/internal/stroke"
)

// Scratch is one worker's clipping memory. Nothing in it is shared; it is
// carved into a child region per tile and the region is popped when the
// tile is done.
type Scratch struct {
	Points  *arena.Arena[float32]
	Wide    *arena.Arena[float64]
	Strokes *arena.Arena[ClippedStroke]

	// Mask is reused by culling across tile groups.
	Mask []bool

	list List
}

// WideShare is the size of the float64 segment arena relative to the
// float32 one. Only strokes far larger than the screen use it.
const WideShare = 4

// WideSize returns the float64 arena size that goes with a float32 arena of
// the given size.
func WideSize(points int) int {
	return max(points/WideShare, SegStride)
}

// NewScratch allocates scratch arenas holding the given number of float32
// segment values and clipped strokes, plus WideSize(points) float64 values.
func NewScratch(points, strokes int) *Scratch {
	return &Scratch{
		Points:  arena.New[float32](points),
		Wide:    arena.New[float64](WideSize(points)),
		Strokes: arena.New[ClippedStroke](strokes),
	}
}

// NewScratchFrom wraps existing arenas, typically regions spawned from one
// large allocation shared out between workers.
func NewScratchFrom(points *arena.Arena[float32], wide *arena.Arena[float64], strokes *arena.Arena[ClippedStroke]) *Scratch {
	return &Scratch{Points: points, Wide: wide, Strokes: strokes}
}

// Grow replaces the arenas with ones twice as large.
// It must not be called while a tile is open.
func (s *Scratch) Grow() {
	s.Points = arena.New[float32](max(2*s.Points.Cap(), 1))
	s.Wide = arena.New[float64](max(2*s.Wide.Cap(), 1))
	s.Strokes = arena.New[ClippedStroke](max(2*s.Strokes.Cap(), 1))
}

// Reset releases everything allocated from the arenas.
func (s *Scratch) Reset() {
	s.Points.Reset()
	s.Wide.Reset()
	s.Strokes.Reset()
}

// List collects the clipped strokes of one tile in z-order, oldest first.
// The rasterizer walks it from the end.
type List struct {
	tile    *Tile
	bg      color.ColorF32
	points  *arena.Arena[float32]
	wide    *arena.Arena[float64]
	strokes *arena.Arena[ClippedStroke]
	items   []ClippedStroke
}

// BeginTile opens child regions of the arenas for tile t and returns an
// empty list with room for capacity strokes. The list must be closed with
// End before the next BeginTile.
func (s *Scratch) BeginTile(t *Tile, bg color.ColorF32, capacity int) (*List, error) {
	l := &s.list
	*l = List{tile: t, bg: bg}
	l.points = s.Points.PushRest()
	l.wide = s.Wide.PushRest()
	l.strokes = s.Strokes.PushRest()

	items, err := l.strokes.Alloc(capacity)
	if err != nil {
		l.End()
		return nil, fmt.Errorf("clip: stroke list of %d: %w", capacity, err)
	}
	l.items = items[:0]
	return l, nil
}

// Add clips s to the tile and appends it if any part of it is visible.
// An opaque stroke that fills the tile hides everything added before it,
// so those entries are dropped.
func (l *List) Add(s *stroke.Stroke) error {
	cs, ok, err := ClipToTile(s, l.tile, l.bg, l.points, l.wide)
	if err != nil || !ok {
		return err
	}
	if cs.FillsTile && cs.Color.Opaque() {
		l.items = l.items[:0]
	}
	if len(l.items) == cap(l.items) {
		return fmt.Errorf("clip: stroke list full at %d: %w", cap(l.items), arena.ErrOutOfMemory)
	}
	l.items = append(l.items, cs)
	return nil
}

// Strokes returns the clipped strokes, oldest first.
func (l *List) Strokes() []ClippedStroke {
	return l.items
}

// Tile returns the tile the list was opened for.
func (l *List) Tile() *Tile {
	return l.tile
}

// End pops the tile's arena regions, freeing every clipped stroke at once.
func (l *List) End() {
	if l.strokes != nil {
		l.strokes.Pop()
		l.wide.Pop()
		l.points.Pop()
		l.strokes, l.wide, l.points = nil, nil, nil
	}
	l.items = nil
}
