// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import "github.com/gogpu/ink/internal/clip"

// countPrecise is the inside test for Precise strokes. It is shared by every
// strategy, so they agree on these strokes bit for bit.
func countPrecise(cs *clip.ClippedStroke, px, py []float64) int {
	n := 0
	for k := range px {
		if insidePrecise(cs, px[k], py[k]) {
			n++
		}
	}
	return n
}

// insidePrecise evaluates the capsule union of cs in float64. Distances are
// compared squared; float64 keeps both sides exact enough for any radius
// the canvas allows.
func insidePrecise(cs *clip.ClippedStroke, px, py float64) bool {
	r := cs.Radius64
	segs := cs.Segs64
	for k := 0; k+clip.SegStride <= len(segs); k += clip.SegStride {
		ax, ay, bx, by := segs[k], segs[k+1], segs[k+2], segs[k+3]
		pa, pb := segs[k+4], segs[k+5]

		abx := float64(bx - ax)
		aby := float64(by - ay)
		apx := float64(px - ax)
		apy := float64(py - ay)
		den := float64(float64(abx*abx) + float64(aby*aby))

		var t float64
		if den == 0 {
			if !cs.Dot {
				continue
			}
		} else {
			t = min(max(float64(float64(float64(apx*abx)+float64(apy*aby))/den), 0), 1)
		}

		dx := float64(apx - float64(abx*t))
		dy := float64(apy - float64(aby*t))
		d2 := float64(float64(dx*dx) + float64(dy*dy))
		rr := float64(float64(pa+float64(float64(pb-pa)*t)) * r)
		if d2 < float64(rr*rr) {
			return true
		}
	}
	return false
}
