package stroke

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ink/internal/color"
	"github.com/gogpu/ink/internal/geom"
)

func dot(x, y, r int64) Stroke {
	s, err := New(Brush{Radius: r, Color: color.ColorF32{A: 1}},
		[]geom.V2{geom.Pt(x, y)}, []float32{1}, uuid.Nil)
	if err != nil {
		panic(err)
	}
	return s
}

func randomStroke(rng *rand.Rand) Stroke {
	n := 1 + rng.Intn(6)
	pts := make([]geom.V2, n)
	prs := make([]float32, n)
	for i := range pts {
		pts[i] = geom.Pt(rng.Int63n(1<<32)-1<<31, rng.Int63n(1<<32)-1<<31)
		prs[i] = 0.05 + rng.Float32()*0.95
	}
	s, err := New(Brush{Radius: 1 + rng.Int63n(1<<16)}, pts, prs, uuid.Nil)
	if err != nil {
		panic(err)
	}
	return s
}

func TestStoreBucketOverflow(t *testing.T) {
	st := NewStore(500)
	var last *Stroke
	for i := 0; i < 501; i++ {
		last = st.Append(dot(int64(i), 0, 10))
	}

	assert.Equal(t, 501, st.Len())
	assert.Equal(t, 2, st.BucketCount())
	got := st.At(500)
	assert.Same(t, last, got)
	assert.Equal(t, geom.Pt(500, 0), got.Points[0])
}

func TestStoreAppendIndexConsistency(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	st := NewStore(7)

	var want []Stroke
	var ptrs []*Stroke
	for i := 0; i < 100; i++ {
		s := randomStroke(rng)
		want = append(want, s)
		ptrs = append(ptrs, st.Append(s))
	}

	for i := range want {
		got := st.At(i)
		assert.Same(t, ptrs[i], got, "address of stroke %d moved", i)
		assert.Same(t, got, st.At(i))
		assert.Equal(t, want[i].Points, got.Points)
		assert.Equal(t, want[i].Pressures, got.Pressures)
	}
}

func TestStoreBucketBoundsSound(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	st := NewStore(16)
	for i := 0; i < 200; i++ {
		st.Append(randomStroke(rng))
	}
	for i := 0; i < 13; i++ {
		st.Pop()
	}

	k := 0
	st.EachBucket(func(first int, bounds geom.Rect, strokes []Stroke) bool {
		assert.Equal(t, bounds, st.BucketBounds(k))
		for j := range strokes {
			assert.True(t, bounds.ContainsRect(strokes[j].Bounds),
				"bucket %d does not contain stroke %d", k, first+j)
		}
		k++
		return true
	})
}

func TestStorePopAcrossBuckets(t *testing.T) {
	st := NewStore(2)
	for i := 0; i < 5; i++ {
		st.Append(dot(int64(i), 0, 1))
	}

	for i := 4; i >= 1; i-- {
		s := st.Pop()
		assert.Equal(t, int64(i), s.Points[0].X)
	}
	assert.Equal(t, 1, st.Len())

	st.Append(dot(10, 0, 1))
	st.Append(dot(11, 0, 1))
	assert.Equal(t, int64(10), st.At(1).Points[0].X)
	assert.Equal(t, int64(11), st.At(2).Points[0].X)
	assert.Equal(t, 3, st.BucketCount(), "buckets are reused, not reallocated")
}

func TestStoreResetReusesBuckets(t *testing.T) {
	st := NewStore(4)
	for i := 0; i < 10; i++ {
		st.Append(dot(int64(i), 0, 1))
	}
	require.Equal(t, 3, st.BucketCount())

	st.Reset()
	assert.Equal(t, 0, st.Len())
	for k := 0; k < st.BucketCount(); k++ {
		assert.True(t, st.BucketBounds(k).Empty())
	}

	for i := 0; i < 10; i++ {
		st.Append(dot(int64(i), 0, 1))
	}
	assert.Equal(t, 3, st.BucketCount())
}

func TestStoreOutOfRangePanics(t *testing.T) {
	st := NewStore(4)
	st.Append(dot(0, 0, 1))
	assert.Panics(t, func() { st.At(1) })
	assert.Panics(t, func() { st.At(-1) })
	st.Pop()
	assert.Panics(t, func() { st.Pop() })
}

func TestStoreEachStops(t *testing.T) {
	st := NewStore(3)
	for i := 0; i < 9; i++ {
		st.Append(dot(int64(i), 0, 1))
	}
	var seen []int
	st.Each(func(i int, s *Stroke) bool {
		seen = append(seen, i)
		return i < 4
	})
	assert.Equal(t, []int{0, 1, 2, 3, 4}, seen)
}

func BenchmarkStoreAppend(b *testing.B) {
	s := dot(0, 0, 1)
	st := NewStore(DefaultBucketSize)
	for i := 0; i < b.N; i++ {
		if st.Len() == 1<<16 {
			st.Reset()
		}
		st.Append(s)
	}
}
