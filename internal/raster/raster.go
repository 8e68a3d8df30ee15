// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package raster fills tiles from clipped strokes.
//
// Each pixel (or each downsampling block) is evaluated at a fixed set of
// sub-pixel sample positions. A sample is inside a stroke when it lies
// within the pressure-scaled brush radius of one of the stroke's segments;
// coverage is the fraction of samples inside. Strokes are walked from the
// newest to the oldest and accumulated with the under operator, the walk
// stops once the accumulated color is opaque, and the view background is
// composited last.
//
// Two strategies implement the segment test: Scalar evaluates one segment
// at a time, SIMD evaluates four lanes at once with wide.F32x4. Both round
// every intermediate to float32 explicitly and produce the same pixels.
package raster

import (
	"fmt"
	"image"

	"golang.org/x/sys/cpu"

	"github.com/gogpu/ink/internal/clip"
	"github.com/gogpu/ink/internal/color"
)

// SqrtThreshold is the tile-local brush radius from which the inside test
// compares distances instead of squared distances.
const SqrtThreshold = 1 << 16

// Rasterizer fills the pixels of one tile.
// Implementations are stateless and safe for concurrent use.
type Rasterizer interface {
	// Name identifies the strategy in logs and stats.
	Name() string

	// RasterizeTile writes the pixels of t.Rect into dst. strokes are in
	// z-order, oldest first. downsampling is the edge of the pixel block
	// sharing one computed color.
	RasterizeTile(dst *image.RGBA, t *clip.Tile, strokes []clip.ClippedStroke, bg color.ColorF32, downsampling int)
}

// Kind selects a rasterizer strategy.
type Kind uint8

const (
	// KindAuto picks SIMD when the CPU has vector units, Scalar otherwise.
	KindAuto Kind = iota
	KindScalar
	KindSIMD
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case KindAuto:
		return "auto"
	case KindScalar:
		return "scalar"
	case KindSIMD:
		return "simd"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// ParseKind converts a config name into a Kind.
func ParseKind(s string) (Kind, bool) {
	switch s {
	case "auto", "":
		return KindAuto, true
	case "scalar":
		return KindScalar, true
	case "simd":
		return KindSIMD, true
	default:
		return KindAuto, false
	}
}

// Detect returns the strategy suited to the running CPU.
func Detect() Kind {
	if cpu.X86.HasSSE41 || cpu.X86.HasAVX2 || cpu.ARM64.HasASIMD {
		return KindSIMD
	}
	return KindScalar
}

// Options configures a rasterizer.
type Options struct {
	Samples int         // 4 or 16
	Gamma   color.Gamma // output transfer function
}

// New creates the rasterizer of the given kind. KindAuto is resolved with
// Detect.
func New(kind Kind, opts Options) (Rasterizer, error) {
	p, err := PatternFor(opts.Samples)
	if err != nil {
		return nil, err
	}
	if kind == KindAuto {
		kind = Detect()
	}
	switch kind {
	case KindScalar:
		return &Scalar{pattern: p, gamma: opts.Gamma}, nil
	case KindSIMD:
		return &SIMD{pattern: p, gamma: opts.Gamma}, nil
	default:
		return nil, fmt.Errorf("raster: unknown rasterizer %v", kind)
	}
}
