package geom

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyRectIsUnionIdentity(t *testing.T) {
	r := RectFromPoints(Pt(-5, 3), Pt(10, -7))
	assert.Equal(t, r, EmptyRect().Union(r))
	assert.Equal(t, r, r.Union(EmptyRect()))
	assert.True(t, EmptyRect().Empty())
	assert.False(t, EmptyRect().Intersects(r))
	assert.True(t, EmptyRect().Enlarge(100).Empty())
}

func TestRectFromPointsNormalizes(t *testing.T) {
	r := RectFromPoints(Pt(10, -7), Pt(-5, 3))
	assert.Equal(t, Pt(-5, -7), r.Min)
	assert.Equal(t, Pt(10, 3), r.Max)
	assert.Equal(t, int64(15), r.Width())
	assert.Equal(t, int64(10), r.Height())
}

func TestRectIntersect(t *testing.T) {
	a := RectFromPoints(Pt(0, 0), Pt(10, 10))
	b := RectFromPoints(Pt(5, 5), Pt(20, 20))
	c := RectFromPoints(Pt(11, 0), Pt(20, 4))

	assert.Equal(t, RectFromPoints(Pt(5, 5), Pt(10, 10)), a.Intersect(b))
	assert.True(t, a.Intersects(b))
	assert.False(t, a.Intersects(c))
	assert.True(t, a.Intersect(c).Empty())

	// Closed rectangles share their border.
	d := RectFromPoints(Pt(10, 10), Pt(12, 12))
	assert.True(t, a.Intersects(d))
}

func TestRectContains(t *testing.T) {
	r := RectAround(Pt(0, 0), 4)
	assert.True(t, r.Contains(Pt(4, -4)))
	assert.False(t, r.Contains(Pt(5, 0)))
	assert.True(t, r.ContainsRect(RectAround(Pt(1, 1), 2)))
	assert.False(t, r.ContainsRect(RectAround(Pt(1, 1), 4)))
	assert.True(t, r.ContainsRect(EmptyRect()))
}

func TestSegmentOutside(t *testing.T) {
	r := RectFromPoints(Pt(0, 0), Pt(10, 10))

	tests := []struct {
		name string
		a, b V2
		want bool
	}{
		{"left", Pt(-5, 0), Pt(-1, 20), true},
		{"right", Pt(11, 0), Pt(30, 5), true},
		{"above", Pt(0, -3), Pt(20, -1), true},
		{"below", Pt(0, 11), Pt(5, 40), true},
		{"crossing", Pt(-5, 5), Pt(15, 5), false},
		{"inside", Pt(2, 2), Pt(3, 3), false},
		// Conservative: a diagonal that misses the corner is not rejected.
		{"corner miss", Pt(-10, 5), Pt(5, -10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.SegmentOutside(tt.a, tt.b))
		})
	}
}

func TestV2Arithmetic(t *testing.T) {
	v := Pt(7, -9)
	assert.Equal(t, Pt(8, -8), v.Add(Pt(1, 1)))
	assert.Equal(t, Pt(6, -10), v.Sub(Pt(1, 1)))
	assert.Equal(t, Pt(14, -18), v.Mul(2))
	assert.Equal(t, Pt(3, -4), v.Div(2)) // truncates toward zero
}

func TestV2PointSaturates(t *testing.T) {
	assert.Equal(t, image.Pt(math.MaxInt32, math.MinInt32), Pt(math.MaxInt64, math.MinInt64).Point())
	assert.Equal(t, Pt(3, 4), FromPoint(image.Pt(3, 4)))
}
