package main

import (
	"math"
	"math/rand"

	"golang.org/x/image/math/fixed"

	"github.com/gogpu/ink"
)

type sample struct {
	pos      fixed.Point26_6
	pressure float32
}

type genStroke struct {
	radius  float64
	color   ink.Color
	samples []sample
}

// generator produces pen-like strokes: random walks with smoothly varying
// direction and pressure, sampled at sub-pixel positions.
type generator struct {
	rng           *rand.Rand
	width, height int
}

func newGenerator(seed int64, width, height int) *generator {
	return &generator{rng: rand.New(rand.NewSource(seed)), width: width, height: height}
}

func (g *generator) stroke() genStroke {
	r := g.rng
	s := genStroke{
		radius: 1 + r.ExpFloat64()*3,
		color:  ink.RGBA(r.Float32(), r.Float32(), r.Float32(), 0.5+r.Float32()/2),
	}
	if r.Intn(10) == 0 {
		s.color = ink.EraserColor
	}

	x, y := r.Float64()*float64(g.width), r.Float64()*float64(g.height)
	dir := r.Float64() * 2 * math.Pi
	n := 1 + r.Intn(60)
	s.samples = make([]sample, 0, n)
	for i := 0; i < n; i++ {
		s.samples = append(s.samples, sample{
			pos: fixed.Point26_6{
				X: fixed.Int26_6(x * 64),
				Y: fixed.Int26_6(y * 64),
			},
			pressure: float32(0.3 + 0.7*math.Abs(math.Sin(float64(i)/8))),
		})
		dir += r.NormFloat64() * 0.3
		step := 2 + r.Float64()*4
		x = min(max(x+math.Cos(dir)*step, 0), float64(g.width))
		y = min(max(y+math.Sin(dir)*step, 0), float64(g.height))
	}
	return s
}
