package clip

import (
	"image"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ink/internal/arena"
	"github.com/gogpu/ink/internal/color"
	"github.com/gogpu/ink/internal/geom"
	"github.com/gogpu/ink/internal/stroke"
	"github.com/gogpu/ink/internal/view"
)

var (
	white = color.ColorF32{R: 1, G: 1, B: 1, A: 1}
	red   = color.ColorF32{R: 1, A: 1}
)

func mustStroke(t *testing.T, r int64, c color.ColorF32, pts []geom.V2, prs []float32) *stroke.Stroke {
	t.Helper()
	if prs == nil {
		prs = make([]float32, len(pts))
		for i := range prs {
			prs[i] = 1
		}
	}
	s, err := stroke.New(stroke.Brush{Radius: r, Color: c}, pts, prs, uuid.Nil)
	require.NoError(t, err)
	return &s
}

func wideArena() *arena.Arena[float64] {
	return arena.New[float64](64)
}

// testTile is the 64x64 tile at the top-left of a 128x128 screen at scale
// 16: canvas [-1024,0] on both axes, reference point (-512,-512).
func testTile() Tile {
	v := view.New(128, 128)
	v.Scale = 16
	return NewTile(&v, image.Rect(0, 0, 64, 64))
}

func TestClipSegment(t *testing.T) {
	ec := NewEdgeClipper(Rect{X0: 0, Y0: 0, X1: 10, Y1: 10})
	tests := []struct {
		name   string
		p0, p1 Point
		t0, t1 float64
		ok     bool
	}{
		{"inside", Pt(1, 1), Pt(9, 9), 0, 1, true},
		{"crossing", Pt(-10, 5), Pt(20, 5), 1.0 / 3, 2.0 / 3, true},
		{"entering", Pt(5, -10), Pt(5, 5), 2.0 / 3, 1, true},
		{"same side", Pt(-5, -5), Pt(-1, 20), 0, 0, false},
		{"corner miss", Pt(-5, 8), Pt(8, 21), 0, 0, false},
		{"vertical outside", Pt(11, 0), Pt(11, 10), 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t0, t1, ok := ec.ClipSegment(tt.p0, tt.p1)
			require.Equal(t, tt.ok, ok)
			if ok {
				assert.InDelta(t, tt.t0, t0, 1e-12)
				assert.InDelta(t, tt.t1, t1, 1e-12)
			}
		})
	}
}

func TestNewTileMapping(t *testing.T) {
	tile := testTile()
	assert.Equal(t, geom.Pt(32, 32), tile.Center)
	assert.Equal(t, geom.Pt(-512, -512), tile.Reference)
	assert.Equal(t, int64(1), tile.LocalScale)
	assert.Equal(t, Rect{X0: -512, Y0: -512, X1: 512, Y1: 512}, tile.LocalRect())

	v := view.New(128, 128)
	v.Scale = 2
	zoomed := NewTile(&v, image.Rect(64, 64, 128, 128))
	assert.Equal(t, int64(4), zoomed.LocalScale)
	assert.Equal(t, 8.0, zoomed.Step)
}

func TestClipToTileFarSegment(t *testing.T) {
	tile := testTile()
	s := mustStroke(t, 10, red,
		[]geom.V2{geom.Pt(-1<<40, -500), geom.Pt(1<<40, -500)},
		[]float32{0.5, 1})

	pts := arena.New[float32](64)
	cs, ok, err := ClipToTile(s, &tile, white, pts, wideArena())
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, cs.NumSegments())

	for i, want := range []float32{-522, 12, 522, 12} {
		assert.InDelta(t, want, cs.Segs[i], 1e-3)
	}
	assert.InDelta(t, 0.75, cs.Segs[4], 1e-6)
	assert.InDelta(t, 0.75, cs.Segs[5], 1e-6)
	assert.Equal(t, float32(10), cs.Radius)
	assert.False(t, cs.FillsTile)
}

func TestClipToTilePrecise(t *testing.T) {
	v := view.New(256, 64)
	v.Scale = 1
	const r = 1 << 33
	v.Pan = geom.Pt(-r, 0)
	tile := NewTile(&v, image.Rect(64, 0, 128, 64))
	require.Equal(t, int64(4), tile.LocalScale)

	dot := mustStroke(t, r, red, []geom.V2{{}}, nil)
	pts := arena.New[float32](64)
	wide := wideArena()
	cs, ok, err := ClipToTile(dot, &tile, white, pts, wide)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, cs.Precise)
	assert.Empty(t, cs.Segs)
	assert.Zero(t, pts.Used())
	require.Equal(t, 1, cs.NumSegments())

	// Reference is canvas (r-32, 0); the dot sits at the origin.
	a, b, pa, pb := cs.Segment(0)
	assert.Equal(t, Pt(-(r-32)*4, 0), a)
	assert.Equal(t, a, b)
	assert.Equal(t, 1.0, pa)
	assert.Equal(t, 1.0, pb)
	assert.Equal(t, float64(r*4), cs.Radius64)

	small := mustStroke(t, 10, red, []geom.V2{tile.Reference}, nil)
	cs, ok, err = ClipToTile(small, &tile, white, pts, wide)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, cs.Precise)
	assert.Len(t, cs.Segs, SegStride)
}

func TestClipToTilePreciseOutOfMemory(t *testing.T) {
	v := view.New(256, 64)
	v.Scale = 1
	v.Pan = geom.Pt(-1<<33, 0)
	tile := NewTile(&v, image.Rect(64, 0, 128, 64))
	dot := mustStroke(t, 1<<33, red, []geom.V2{{}}, nil)

	_, _, err := ClipToTile(dot, &tile, white, arena.New[float32](64), arena.New[float64](SegStride-1))
	assert.ErrorIs(t, err, arena.ErrOutOfMemory)
}

func TestClipToTileDropsInvisible(t *testing.T) {
	tile := testTile()
	pts := arena.New[float32](64)

	far := mustStroke(t, 10, red, []geom.V2{geom.Pt(5000, 5000), geom.Pt(6000, 5000)}, nil)
	_, ok, err := ClipToTile(far, &tile, white, pts, wideArena())
	require.NoError(t, err)
	assert.False(t, ok)

	dot := mustStroke(t, 10, red, []geom.V2{geom.Pt(-2000, -500)}, nil)
	_, ok, err = ClipToTile(dot, &tile, white, pts, wideArena())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, pts.Used())
}

func TestClipToTileFillsTile(t *testing.T) {
	tests := []struct {
		name   string
		radius int64
		want   bool
	}{
		{"covers", 800, true},
		{"corners outside", 700, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tile := testTile()
			s := mustStroke(t, tt.radius, red, []geom.V2{tile.Reference}, nil)
			cs, ok, err := ClipToTile(s, &tile, white, arena.New[float32](8), wideArena())
			require.NoError(t, err)
			require.True(t, ok)
			assert.True(t, cs.Dot)
			assert.Equal(t, tt.want, cs.FillsTile)

			tile.FastPath = false
			cs, _, _ = ClipToTile(s, &tile, white, arena.New[float32](8), wideArena())
			assert.False(t, cs.FillsTile)
		})
	}
}

func TestFillsTileUsesSmallerPressure(t *testing.T) {
	tile := testTile()
	s := mustStroke(t, 1200,
		red,
		[]geom.V2{geom.Pt(-2000, -512), geom.Pt(1000, -512)},
		[]float32{1, 0.5})
	cs, ok, err := ClipToTile(s, &tile, white, arena.New[float32](8), wideArena())
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, cs.FillsTile)
}

func TestClipToTileOutOfMemory(t *testing.T) {
	tile := testTile()
	s := mustStroke(t, 10, red, []geom.V2{geom.Pt(-600, -600), geom.Pt(-400, -400), geom.Pt(-600, -300)}, nil)
	_, _, err := ClipToTile(s, &tile, white, arena.New[float32](SegStride), wideArena())
	assert.ErrorIs(t, err, arena.ErrOutOfMemory)
}

func TestEraserResolvesToBackground(t *testing.T) {
	tile := testTile()
	s := mustStroke(t, 10, stroke.EraserColor, []geom.V2{tile.Reference}, nil)
	cs, ok, err := ClipToTile(s, &tile, white, arena.New[float32](8), wideArena())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, white, cs.Color)
}

func TestListOpaqueFillDropsOlder(t *testing.T) {
	tile := testTile()
	sc := NewScratch(1024, 16)

	small := mustStroke(t, 10, red, []geom.V2{tile.Reference}, nil)
	translucent := mustStroke(t, 800, red.Scale(0.5), []geom.V2{tile.Reference}, nil)
	opaque := mustStroke(t, 800, red, []geom.V2{tile.Reference}, nil)

	l, err := sc.BeginTile(&tile, white, 8)
	require.NoError(t, err)
	require.NoError(t, l.Add(small))
	require.NoError(t, l.Add(translucent))
	assert.Len(t, l.Strokes(), 2)

	require.NoError(t, l.Add(opaque))
	require.NoError(t, l.Add(small))
	got := l.Strokes()
	require.Len(t, got, 2)
	assert.True(t, got[0].FillsTile)
	assert.False(t, got[1].FillsTile)

	l.End()
	assert.Zero(t, sc.Points.Used())
	assert.Zero(t, sc.Strokes.Used())
	assert.Positive(t, sc.Points.Peak())
}

func TestListCapacity(t *testing.T) {
	tile := testTile()
	sc := NewScratch(1024, 4)

	_, err := sc.BeginTile(&tile, white, 5)
	require.ErrorIs(t, err, arena.ErrOutOfMemory)

	l, err := sc.BeginTile(&tile, white, 1)
	require.NoError(t, err)
	s := mustStroke(t, 10, red, []geom.V2{tile.Reference}, nil)
	require.NoError(t, l.Add(s))
	assert.ErrorIs(t, l.Add(s), arena.ErrOutOfMemory)
	l.End()

	sc.Grow()
	assert.Equal(t, 2048, sc.Points.Cap())
	assert.Equal(t, 2*WideSize(1024), sc.Wide.Cap())
	assert.Equal(t, 8, sc.Strokes.Cap())
}
