package clip

import (
	"fmt"
	"image"
	"math"

	"github.com/gogpu/ink/internal/arena"
	"github.com/gogpu/ink/internal/color"
	"github.com/gogpu/ink/internal/geom"
	"github.com/gogpu/ink/internal/stroke"
	"github.com/gogpu/ink/internal/view"
)

// SegStride is the number of float32 values per clipped segment:
// ax, ay, bx, by, pressure at a, pressure at b.
const SegStride = 6

// PreciseExtent is the distance from the tile center, in raster pixels,
// beyond which float32 can no longer resolve sub-pixel offsets. Strokes
// whose clip bounds reach past it keep their segments in float64.
const PreciseExtent = 1 << 14

// fillMargin shrinks the brush radius in the fills-tile test so that float32
// rounding in the per-pixel path can never disagree with it.
const fillMargin = 1e-4

// ClippedStroke is a stroke reduced to the segments that can reach one tile,
// in tile-local coordinates. Its memory belongs to the tile's arena.
type ClippedStroke struct {
	// Color is the resolved paint color; erasers carry the background.
	Color color.ColorF32

	// Radius is the brush radius in tile-local units.
	Radius   float32
	Radius64 float64

	// Segs holds SegStride values per segment.
	Segs []float32

	// Precise strokes hold their segments in Segs64 instead of Segs and are
	// evaluated in float64.
	Precise bool
	Segs64  []float64

	// Dot marks a single-point stroke: its one segment has a == b and is
	// evaluated as a point.
	Dot bool

	// FillsTile marks a stroke whose brush covers every pixel of the tile.
	FillsTile bool
}

// NumSegments returns the number of segments.
func (cs *ClippedStroke) NumSegments() int {
	if cs.Precise {
		return len(cs.Segs64) / SegStride
	}
	return len(cs.Segs) / SegStride
}

// Segment returns segment k widened to float64.
func (cs *ClippedStroke) Segment(k int) (a, b Point, pa, pb float64) {
	if cs.Precise {
		s := cs.Segs64[k*SegStride : (k+1)*SegStride]
		return Point{s[0], s[1]}, Point{s[2], s[3]}, s[4], s[5]
	}
	s := cs.Segs[k*SegStride : (k+1)*SegStride]
	return Point{float64(s[0]), float64(s[1])}, Point{float64(s[2]), float64(s[3])},
		float64(s[4]), float64(s[5])
}

// Tile describes the mapping between one raster tile and its tile-local
// coordinate space. Local coordinates are canvas units relative to
// Reference, multiplied by LocalScale.
type Tile struct {
	Rect       image.Rectangle // raster pixels
	Center     geom.V2         // raster point mapped to the local origin
	Reference  geom.V2         // canvas point of Center
	LocalScale int64
	Step       float64   // local units per raster pixel
	Bounds     geom.Rect // canvas area covered by Rect

	// FastPath enables fills-tile detection. Disabling it forces every
	// stroke through per-pixel evaluation.
	FastPath bool
}

// NewTile builds the tile mapping for raster rectangle r under v.
func NewTile(v *view.CanvasView, r image.Rectangle) Tile {
	c := geom.Pt(int64(r.Min.X+r.Max.X)/2, int64(r.Min.Y+r.Max.Y)/2)
	ls := v.LocalScale()
	return Tile{
		Rect:       r,
		Center:     c,
		Reference:  v.RasterToCanvas(c),
		LocalScale: ls,
		Step:       float64(v.Scale * ls),
		Bounds:     v.RasterRectToCanvas(r),
		FastPath:   true,
	}
}

// LocalX returns the local coordinate of raster abscissa x.
func (t *Tile) LocalX(x float64) float64 {
	return (x - float64(t.Center.X)) * t.Step
}

// LocalY returns the local coordinate of raster ordinate y.
func (t *Tile) LocalY(y float64) float64 {
	return (y - float64(t.Center.Y)) * t.Step
}

// LocalRect returns the tile's pixel area in local coordinates.
func (t *Tile) LocalRect() Rect {
	return Rect{
		X0: t.LocalX(float64(t.Rect.Min.X)),
		Y0: t.LocalY(float64(t.Rect.Min.Y)),
		X1: t.LocalX(float64(t.Rect.Max.X)),
		Y1: t.LocalY(float64(t.Rect.Max.Y)),
	}
}

func (t *Tile) relative(p geom.V2) Point {
	return Point{X: float64(p.X - t.Reference.X), Y: float64(p.Y - t.Reference.Y)}
}

// ClipToTile converts s into tile-local segments. Segments that cannot come
// within the brush radius of the tile are dropped and the rest are cut to
// the tile bounds enlarged by the radius. ok is false when nothing of s can
// reach the tile.
//
// A brush so large that the clip bounds extend past PreciseExtent pixels
// produces a Precise stroke with float64 segments from wide; all others get
// float32 segments from points. An exhausted arena is reported as
// arena.ErrOutOfMemory.
func ClipToTile(s *stroke.Stroke, t *Tile, bg color.ColorF32, points *arena.Arena[float32], wide *arena.Arena[float64]) (cs ClippedStroke, ok bool, err error) {
	if len(s.Points) == 0 {
		panic("clip: empty stroke")
	}
	enl := t.Bounds.Enlarge(s.Brush.Radius)
	if enl.Empty() {
		return ClippedStroke{}, false, nil
	}
	lo, hi := t.relative(enl.Min), t.relative(enl.Max)
	ec := NewEdgeClipper(Rect{X0: lo.X, Y0: lo.Y, X1: hi.X, Y1: hi.Y})

	dot := len(s.Points) == 1
	n := 0
	if dot {
		if ec.Clip().Contains(t.relative(s.Points[0])) {
			n = 1
		}
	} else {
		for i := 1; i < len(s.Points); i++ {
			if !ec.Outside(t.relative(s.Points[i-1]), t.relative(s.Points[i])) {
				n++
			}
		}
	}
	if n == 0 {
		return ClippedStroke{}, false, nil
	}

	ls := float64(t.LocalScale)
	precise := maxAbs(lo, hi)*ls > t.Step*PreciseExtent

	var buf []float32
	var buf64 []float64
	if precise {
		buf64, err = wide.Alloc(n * SegStride)
	} else {
		buf, err = points.Alloc(n * SegStride)
	}
	if err != nil {
		return ClippedStroke{}, false, fmt.Errorf("clip: %d segments: %w", n, err)
	}

	emit := func(k int, a, b Point, pa, pb float64) {
		if precise {
			seg := buf64[k*SegStride : (k+1)*SegStride]
			seg[0], seg[1], seg[2], seg[3] = a.X*ls, a.Y*ls, b.X*ls, b.Y*ls
			seg[4], seg[5] = pa, pb
			return
		}
		seg := buf[k*SegStride : (k+1)*SegStride]
		seg[0] = float32(a.X * ls)
		seg[1] = float32(a.Y * ls)
		seg[2] = float32(b.X * ls)
		seg[3] = float32(b.Y * ls)
		seg[4] = float32(pa)
		seg[5] = float32(pb)
	}

	k := 0
	if dot {
		p := t.relative(s.Points[0])
		pr := float64(s.Pressures[0])
		emit(0, p, p, pr, pr)
		k = 1
	} else {
		for i := 1; i < len(s.Points); i++ {
			a, b := t.relative(s.Points[i-1]), t.relative(s.Points[i])
			if ec.Outside(a, b) {
				continue
			}
			t0, t1, visible := ec.ClipSegment(a, b)
			if !visible {
				continue
			}
			pa, pb := float64(s.Pressures[i-1]), float64(s.Pressures[i])
			emit(k, a.Lerp(b, t0), a.Lerp(b, t1), pa+(pb-pa)*t0, pa+(pb-pa)*t1)
			k++
		}
	}
	if k == 0 {
		return ClippedStroke{}, false, nil
	}

	cs = ClippedStroke{
		Color:    s.Brush.PaintColor(bg),
		Radius:   float32(float64(s.Brush.Radius) * ls),
		Radius64: float64(s.Brush.Radius) * ls,
		Dot:      dot,
		Precise:  precise,
	}
	if precise {
		cs.Segs64 = buf64[:k*SegStride]
	} else {
		cs.Segs = buf[:k*SegStride]
	}
	if t.FastPath {
		cs.FillsTile = RectFilledByStroke(&cs, t.LocalRect())
	}
	return cs, true, nil
}

// RectFilledByStroke reports whether the brush of cs provably covers r.
// For each segment it takes the point closest to the center of r and the
// smaller of the segment's two pressures; if every corner of r lies inside
// that disc, the convex r lies inside the brush footprint.
func RectFilledByStroke(cs *ClippedStroke, r Rect) bool {
	c := r.Center()
	corners := r.Corners()
	for k := 0; k < cs.NumSegments(); k++ {
		a, b, pa, pb := cs.Segment(k)
		if !cs.Dot && a == b {
			continue
		}
		rad := min(pa, pb) * cs.Radius64 * (1 - fillMargin)
		p := closestOnSegment(a, b, c)
		inside := true
		for _, q := range corners {
			d := q.Sub(p)
			if d.X*d.X+d.Y*d.Y >= rad*rad {
				inside = false
				break
			}
		}
		if inside {
			return true
		}
	}
	return false
}

func maxAbs(lo, hi Point) float64 {
	return max(math.Abs(lo.X), math.Abs(lo.Y), math.Abs(hi.X), math.Abs(hi.Y))
}

func closestOnSegment(a, b, p Point) Point {
	ab := b.Sub(a)
	den := ab.X*ab.X + ab.Y*ab.Y
	if den == 0 {
		return a
	}
	ap := p.Sub(a)
	t := (ap.X*ab.X + ap.Y*ab.Y) / den
	return a.Lerp(b, min(max(t, 0), 1))
}
