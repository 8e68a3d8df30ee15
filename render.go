package ink

import (
	"errors"
	"fmt"
	"image"

	"github.com/gogpu/ink/internal/arena"
	"github.com/gogpu/ink/internal/clip"
	"github.com/gogpu/ink/internal/cull"
	"github.com/gogpu/ink/internal/parallel"
	"github.com/gogpu/ink/internal/raster"
	"github.com/gogpu/ink/internal/stroke"
	"github.com/gogpu/ink/internal/view"
)

// frameRenderer renders tile groups for one pass. It is filled in by the
// engine before dispatch and only read by the workers.
type frameRenderer struct {
	view     view.CanvasView
	stores   []*stroke.Store // visible layers, bottom to top
	working  *stroke.Stroke
	raster   raster.Rasterizer
	dst      *image.RGBA
	factor   int
	fastPath bool
}

// prepare snapshots the canvas for a pass. The canvas must not change
// until the pass has finished.
func (f *frameRenderer) prepare(v *view.CanvasView, c *Canvas, r raster.Rasterizer, dst *image.RGBA) {
	f.view = *v
	f.stores = f.stores[:0]
	for _, l := range c.Layers() {
		if l.Visible {
			f.stores = append(f.stores, l.store)
		}
	}
	f.working = nil
	if w := c.Working(); w != nil {
		if l, err := c.Layer(w.LayerID); err == nil && l.Visible {
			f.working = w
		}
	}
	f.raster = r
	f.dst = dst
}

// RenderGroup culls the strokes once for the whole group, then clips and
// rasterizes its tiles one by one. A tile whose strokes do not fit in the
// worker's scratch memory is abandoned; the rest of the group continues.
func (f *frameRenderer) RenderGroup(w *parallel.Worker, g *parallel.Group) error {
	s := w.Scratch
	s.Reset()

	rect := f.view.RasterRectToCanvas(g.Rect)
	total := 0
	for _, st := range f.stores {
		total += st.Len()
	}
	if cap(s.Mask) < total {
		s.Mask = make([]bool, total)
	}
	mask := s.Mask[:total]

	visible := 0
	off := 0
	for _, st := range f.stores {
		n := st.Len()
		cull.FilterStrokes(st, rect, mask[off:off+n])
		visible += cull.Count(mask[off : off+n])
		off += n
	}
	working := f.working
	if working != nil && cull.StrokeMayTouch(working, rect) {
		visible++
	} else {
		working = nil
	}

	bg := f.view.Background
	for _, r := range g.Tiles {
		t := clip.NewTile(&f.view, r)
		t.FastPath = f.fastPath

		err := f.renderTile(s, &t, mask, working, visible, bg)
		switch {
		case errors.Is(err, arena.ErrOutOfMemory):
			w.Abandon(r, err)
			continue
		case err != nil:
			return fmt.Errorf("ink: tile %v: %w", r, err)
		}
		w.Rendered()
	}
	return nil
}

func (f *frameRenderer) renderTile(s *clip.Scratch, t *clip.Tile, mask []bool, working *stroke.Stroke, visible int, bg Color) error {
	list, err := s.BeginTile(t, bg, max(visible, 1))
	if err != nil {
		return err
	}
	defer list.End()

	off := 0
	for _, st := range f.stores {
		m := mask[off : off+st.Len()]
		off += st.Len()
		st.Each(func(i int, sk *stroke.Stroke) bool {
			if m[i] {
				err = list.Add(sk)
			}
			return err == nil
		})
		if err != nil {
			return err
		}
	}
	if working != nil {
		if err := list.Add(working); err != nil {
			return err
		}
	}

	f.raster.RasterizeTile(f.dst, t, list.Strokes(), bg, f.factor)
	return nil
}
