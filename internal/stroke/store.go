package stroke

import (
	"fmt"

	"github.com/gogpu/ink/internal/geom"
)

// DefaultBucketSize is the number of strokes per bucket.
const DefaultBucketSize = 500

type bucket struct {
	strokes []Stroke // len grows up to cap, never reallocated
	bounds  geom.Rect
	next    *bucket
}

// Store is an append-mostly container of strokes with stable addresses.
type Store struct {
	bucketSize int
	head       *bucket
	cur        *bucket // bucket receiving the next append
	buckets    int
	count      int
}

// NewStore creates an empty store. A bucketSize <= 0 selects
// DefaultBucketSize. No bucket is allocated until the first append.
func NewStore(bucketSize int) *Store {
	if bucketSize <= 0 {
		bucketSize = DefaultBucketSize
	}
	return &Store{bucketSize: bucketSize}
}

func (st *Store) newBucket() *bucket {
	st.buckets++
	return &bucket{
		strokes: make([]Stroke, 0, st.bucketSize),
		bounds:  geom.EmptyRect(),
	}
}

// Append stores s and returns its stable address.
func (st *Store) Append(s Stroke) *Stroke {
	switch {
	case st.head == nil:
		st.head = st.newBucket()
		st.cur = st.head
	case len(st.cur.strokes) == st.bucketSize:
		if st.cur.next == nil {
			st.cur.next = st.newBucket()
		}
		st.cur = st.cur.next
	}
	b := st.cur
	b.strokes = append(b.strokes, s)
	b.bounds = b.bounds.Union(s.Bounds)
	st.count++
	return &b.strokes[len(b.strokes)-1]
}

// At returns the stroke at index i. It panics if i is out of range.
func (st *Store) At(i int) *Stroke {
	if i < 0 || i >= st.count {
		panic(fmt.Sprintf("stroke: index %d out of range [0,%d)", i, st.count))
	}
	b := st.head
	for ; i >= st.bucketSize; i -= st.bucketSize {
		b = b.next
	}
	return &b.strokes[i]
}

// Pop removes and returns the most recently appended stroke.
// It panics on an empty store.
func (st *Store) Pop() Stroke {
	if st.count == 0 {
		panic("stroke: pop from empty store")
	}
	if len(st.cur.strokes) == 0 {
		st.cur = st.prev(st.cur)
	}
	b := st.cur
	last := len(b.strokes) - 1
	s := b.strokes[last]
	b.strokes[last] = Stroke{}
	b.strokes = b.strokes[:last]
	b.bounds = geom.EmptyRect()
	for i := range b.strokes {
		b.bounds = b.bounds.Union(b.strokes[i].Bounds)
	}
	st.count--
	return s
}

// prev returns the bucket before b. Buckets are singly linked, so this
// walks from the head; it is only needed when Pop crosses a bucket edge.
func (st *Store) prev(b *bucket) *bucket {
	p := st.head
	for p.next != b {
		p = p.next
	}
	return p
}

// Reset empties the store but keeps every bucket for reuse.
func (st *Store) Reset() {
	for b := st.head; b != nil; b = b.next {
		clear(b.strokes)
		b.strokes = b.strokes[:0]
		b.bounds = geom.EmptyRect()
	}
	st.cur = st.head
	st.count = 0
}

// Len returns the number of strokes.
func (st *Store) Len() int {
	return st.count
}

// BucketSize returns the capacity of each bucket.
func (st *Store) BucketSize() int {
	return st.bucketSize
}

// BucketCount returns the number of allocated buckets, including empty
// ones kept after Reset or Pop.
func (st *Store) BucketCount() int {
	return st.buckets
}

// BucketBounds returns the bounds of bucket k.
func (st *Store) BucketBounds(k int) geom.Rect {
	if k < 0 || k >= st.buckets {
		panic(fmt.Sprintf("stroke: bucket %d out of range [0,%d)", k, st.buckets))
	}
	b := st.head
	for ; k > 0; k-- {
		b = b.next
	}
	return b.bounds
}

// EachBucket calls fn for every non-empty bucket in order with the index
// of its first stroke, its bounds and its strokes. The slice aliases store
// memory and must not be retained past the next mutation. Iteration stops
// when fn returns false.
func (st *Store) EachBucket(fn func(first int, bounds geom.Rect, strokes []Stroke) bool) {
	first := 0
	for b := st.head; b != nil && len(b.strokes) > 0; b = b.next {
		if !fn(first, b.bounds, b.strokes) {
			return
		}
		first += len(b.strokes)
	}
}

// Each calls fn for every stroke in insertion order until fn returns false.
func (st *Store) Each(fn func(i int, s *Stroke) bool) {
	st.EachBucket(func(first int, _ geom.Rect, strokes []Stroke) bool {
		for j := range strokes {
			if !fn(first+j, &strokes[j]) {
				return false
			}
		}
		return true
	})
}
