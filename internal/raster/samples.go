// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package raster

import "fmt"

// Pattern is a set of sub-pixel sample offsets relative to the pixel
// center, in pixels.
type Pattern struct {
	X, Y []float64
}

// Len returns the number of samples.
func (p *Pattern) Len() int {
	return len(p.X)
}

// rgss4 is the four-sample rotated grid.
var rgss4 = &Pattern{
	X: []float64{-0.375, 0.125, 0.375, -0.125},
	Y: []float64{-0.125, -0.375, 0.125, 0.375},
}

// rgss16 is a sixteen-sample rotated grid: every row and every column of
// the 16x16 sub-grid holds exactly one sample.
var rgss16 = func() *Pattern {
	p := &Pattern{X: make([]float64, 16), Y: make([]float64, 16)}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			k := r*4 + c
			p.X[k] = (float64(c*4+r)+0.5)/16 - 0.5
			p.Y[k] = (float64(r*4+3-c)+0.5)/16 - 0.5
		}
	}
	return p
}()

// PatternFor returns the rotated-grid pattern with n samples.
func PatternFor(n int) (*Pattern, error) {
	switch n {
	case 4:
		return rgss4, nil
	case 16:
		return rgss16, nil
	default:
		return nil, fmt.Errorf("raster: unsupported sample count %d (want 4 or 16)", n)
	}
}
