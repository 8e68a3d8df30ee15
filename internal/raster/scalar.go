// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"image"

	"github.com/chewxy/math32"

	"github.com/gogpu/ink/internal/clip"
	"github.com/gogpu/ink/internal/color"
)

// Scalar evaluates one segment at a time.
type Scalar struct {
	pattern *Pattern
	gamma   color.Gamma
}

// Name implements Rasterizer.
func (s *Scalar) Name() string { return "scalar" }

// RasterizeTile implements Rasterizer.
func (s *Scalar) RasterizeTile(dst *image.RGBA, t *clip.Tile, strokes []clip.ClippedStroke, bg color.ColorF32, downsampling int) {
	fillTile(dst, t, strokes, bg, downsampling, s.pattern, s.gamma, countScalar)
}

func countScalar(cs *clip.ClippedStroke, sx, sy []float32) int {
	n := 0
	for k := range sx {
		if insideScalar(cs, sx[k], sy[k]) {
			n++
		}
	}
	return n
}

// insideScalar reports whether (px, py) lies within the brush of any
// segment of cs. For each segment the closest point is found by projecting
// onto the segment and clamping to [0,1]; the pressure there scales the
// radius.
func insideScalar(cs *clip.ClippedStroke, px, py float32) bool {
	r := cs.Radius
	big := r >= SqrtThreshold
	segs := cs.Segs
	for k := 0; k+clip.SegStride <= len(segs); k += clip.SegStride {
		ax, ay, bx, by := segs[k], segs[k+1], segs[k+2], segs[k+3]
		pa, pb := segs[k+4], segs[k+5]

		abx := float32(bx - ax)
		aby := float32(by - ay)
		apx := float32(px - ax)
		apy := float32(py - ay)
		den := float32(float32(abx*abx) + float32(aby*aby))

		var t float32
		if den == 0 {
			if !cs.Dot {
				// zero-length segment
				continue
			}
		} else {
			t = float32(float32(float32(apx*abx)+float32(apy*aby)) / den)
			if t < 0 {
				t = 0
			} else if t > 1 {
				t = 1
			}
		}

		dx := float32(apx - float32(abx*t))
		dy := float32(apy - float32(aby*t))
		d2 := float32(float32(dx*dx) + float32(dy*dy))
		rr := float32(float32(pa+float32(float32(pb-pa)*t)) * r)

		if big {
			if math32.Sqrt(d2) < rr {
				return true
			}
		} else if d2 < float32(rr*rr) {
			return true
		}
	}
	return false
}
