// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"image"

	"github.com/gogpu/ink/internal/clip"
	"github.com/gogpu/ink/internal/color"
	"github.com/gogpu/ink/internal/wide"
)

// SIMD evaluates four segments per step in wide.F32x4 lanes.
type SIMD struct {
	pattern *Pattern
	gamma   color.Gamma
}

// Name implements Rasterizer.
func (s *SIMD) Name() string { return "simd" }

// RasterizeTile implements Rasterizer.
func (s *SIMD) RasterizeTile(dst *image.RGBA, t *clip.Tile, strokes []clip.ClippedStroke, bg color.ColorF32, downsampling int) {
	fillTile(dst, t, strokes, bg, downsampling, s.pattern, s.gamma, countSIMD)
}

// segGroup holds four segments in structure-of-arrays form.
type segGroup struct {
	ax, ay   wide.F32x4
	abx, aby wide.F32x4
	den      wide.F32x4
	pa, pb   wide.F32x4
	nonzero  wide.Mask4 // den != 0
	valid    wide.Mask4
}

func (g *segGroup) load(cs *clip.ClippedStroke, first int) {
	var bx, by wide.F32x4
	segs := cs.NumSegments()
	for i := 0; i < wide.Lanes; i++ {
		k := first + i
		if k >= segs {
			g.ax[i], g.ay[i], bx[i], by[i], g.pa[i], g.pb[i] = 0, 0, 0, 0, 0, 0
			continue
		}
		s := cs.Segs[k*clip.SegStride : (k+1)*clip.SegStride]
		g.ax[i], g.ay[i], bx[i], by[i], g.pa[i], g.pb[i] = s[0], s[1], s[2], s[3], s[4], s[5]
	}
	g.abx = bx.Sub(g.ax)
	g.aby = by.Sub(g.ay)
	g.den = g.abx.Mul(g.abx).Add(g.aby.Mul(g.aby))
	for i := 0; i < wide.Lanes; i++ {
		g.nonzero[i] = g.den[i] != 0
		g.valid[i] = first+i < segs && (g.nonzero[i] || cs.Dot)
	}
}

var zero4 wide.F32x4

func (g *segGroup) inside(px, py float32, r wide.F32x4, big bool) bool {
	apx := wide.SplatF32(px).Sub(g.ax)
	apy := wide.SplatF32(py).Sub(g.ay)
	t := apx.Mul(g.abx).Add(apy.Mul(g.aby)).Div(g.den).Clamp(0, 1).Select(g.nonzero, zero4)

	dx := apx.Sub(g.abx.Mul(t))
	dy := apy.Sub(g.aby.Mul(t))
	d2 := dx.Mul(dx).Add(dy.Mul(dy))
	rr := g.pa.Lerp(g.pb, t).Mul(r)

	var m wide.Mask4
	if big {
		m = d2.Sqrt().Less(rr)
	} else {
		m = d2.Less(rr.Mul(rr))
	}
	return m.And(g.valid).Any()
}

func countSIMD(cs *clip.ClippedStroke, sx, sy []float32) int {
	var done [maxSamples]bool
	n := 0
	r := wide.SplatF32(cs.Radius)
	big := cs.Radius >= SqrtThreshold
	var g segGroup
	for k := 0; k < cs.NumSegments() && n < len(sx); k += wide.Lanes {
		g.load(cs, k)
		for s := range sx {
			if done[s] {
				continue
			}
			if g.inside(sx[s], sy[s], r, big) {
				done[s] = true
				n++
			}
		}
	}
	return n
}
