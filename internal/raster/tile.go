// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import (
	"image"

	"github.com/gogpu/ink/internal/clip"
	"github.com/gogpu/ink/internal/color"
)

// maxSamples bounds the per-pixel sample buffers.
const maxSamples = 16

// countFunc returns how many of the sample positions lie inside cs.
type countFunc func(cs *clip.ClippedStroke, sx, sy []float32) int

// fillTile is the pixel loop shared by every strategy. Only the inside
// test differs between them.
func fillTile(dst *image.RGBA, t *clip.Tile, strokes []clip.ClippedStroke, bg color.ColorF32,
	downsampling int, p *Pattern, g color.Gamma, count countFunc) {
	f := max(downsampling, 1)
	clipRect := t.Rect.Intersect(dst.Rect)
	if clipRect.Empty() {
		return
	}

	n := p.Len()
	var sxBuf, syBuf [maxSamples]float32
	var pxBuf, pyBuf [maxSamples]float64
	sx, sy := sxBuf[:n], syBuf[:n]
	px, py := pxBuf[:n], pyBuf[:n]
	total := float32(n)

	for by := t.Rect.Min.Y; by < t.Rect.Max.Y; by += f {
		for bx := t.Rect.Min.X; bx < t.Rect.Max.X; bx += f {
			block := image.Rect(bx, by, bx+f, by+f).Intersect(clipRect)
			if block.Empty() {
				continue
			}

			for k := 0; k < n; k++ {
				px[k] = t.LocalX(float64(bx) + 0.5 + p.X[k])
				py[k] = t.LocalY(float64(by) + 0.5 + p.Y[k])
				sx[k], sy[k] = float32(px[k]), float32(py[k])
			}

			acc := color.Transparent
			for i := len(strokes) - 1; i >= 0; i-- {
				cs := &strokes[i]
				cov := float32(1)
				if !cs.FillsTile {
					var in int
					if cs.Precise {
						in = countPrecise(cs, px, py)
					} else {
						in = count(cs, sx, sy)
					}
					if in == 0 {
						continue
					}
					cov = float32(in) / total
				}
				acc = color.Under(acc, cs.Color.Scale(cov))
				if acc.Opaque() {
					break
				}
			}
			acc = color.Under(acc, bg)
			writeBlock(dst, block, color.Encode(acc, g))
		}
	}
}

func writeBlock(dst *image.RGBA, r image.Rectangle, c color.ColorU8) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		off := dst.PixOffset(r.Min.X, y)
		row := dst.Pix[off : off+4*r.Dx() : off+4*r.Dx()]
		for i := 0; i < len(row); i += 4 {
			row[i+0] = c.R
			row[i+1] = c.G
			row[i+2] = c.B
			row[i+3] = c.A
		}
	}
}
