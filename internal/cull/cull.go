// Package cull decides which strokes can touch a region of canvas space.
//
// The test is conservative: it may keep a stroke that turns out to paint
// nothing in the region, but it never drops one that does. Exact per-segment
// clipping happens later, per tile.
package cull

import (
	"github.com/gogpu/ink/internal/geom"
	"github.com/gogpu/ink/internal/stroke"
)

// Region outcodes, as in Cohen-Sutherland line clipping.
const (
	inside = 0
	left   = 1
	right  = 2
	below  = 4
	above  = 8
)

func outcode(r geom.Rect, p geom.V2) int {
	code := inside
	if p.X < r.Min.X {
		code |= left
	} else if p.X > r.Max.X {
		code |= right
	}
	if p.Y < r.Min.Y {
		code |= above
	} else if p.Y > r.Max.Y {
		code |= below
	}
	return code
}

// StrokeMayTouch reports whether any part of s can lie within its brush
// radius of rect.
func StrokeMayTouch(s *stroke.Stroke, rect geom.Rect) bool {
	if len(s.Points) == 0 || !s.Bounds.Intersects(rect) {
		return false
	}
	r := rect.Enlarge(s.Brush.Radius)
	prev := outcode(r, s.Points[0])
	if len(s.Points) == 1 {
		return prev == inside
	}
	for _, p := range s.Points[1:] {
		code := outcode(r, p)
		if prev&code == 0 {
			return true
		}
		prev = code
	}
	return false
}

// FilterStrokes writes into mask, one entry per stroke in the store, whether
// the stroke may touch rect. mask is grown as needed and returned. Whole
// buckets whose bounds miss rect are skipped without looking at their
// strokes.
func FilterStrokes(st *stroke.Store, rect geom.Rect, mask []bool) []bool {
	n := st.Len()
	if cap(mask) < n {
		mask = make([]bool, n)
	}
	mask = mask[:n]
	if rect.Empty() {
		clear(mask)
		return mask
	}

	st.EachBucket(func(first int, bounds geom.Rect, strokes []stroke.Stroke) bool {
		out := mask[first : first+len(strokes)]
		if !bounds.Intersects(rect) {
			clear(out)
			return true
		}
		for i := range strokes {
			out[i] = StrokeMayTouch(&strokes[i], rect)
		}
		return true
	})
	return mask
}

// Count returns the number of set entries in mask.
func Count(mask []bool) int {
	n := 0
	for _, m := range mask {
		if m {
			n++
		}
	}
	return n
}
