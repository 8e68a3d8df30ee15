package ink

import (
	"image"
	"time"
)

// Refiner drives progressive rendering. A frame is rendered in passes with
// pixel blocks of Start, Start/2, ... down to 1, and stops early once the
// frame has used up its budget. Areas left at reduced quality are
// remembered and redrawn in full once input has been idle for IdleTimeout.
type Refiner struct {
	Budget      time.Duration
	Start       int
	IdleTimeout time.Duration

	now       func() time.Time
	lastInput time.Time

	// stale is the union of areas whose last pass was not full quality.
	stale image.Rectangle
}

// NewRefiner creates a refiner reading time from now.
func NewRefiner(budget, idleTimeout time.Duration, start int, now func() time.Time) *Refiner {
	if now == nil {
		now = time.Now
	}
	return &Refiner{
		Budget:      budget,
		Start:       max(start, 1),
		IdleTimeout: idleTimeout,
		now:         now,
		lastInput:   now(),
	}
}

// Input records user input, postponing the quality redraw.
func (r *Refiner) Input() {
	r.lastInput = r.now()
}

// Stale returns the area still shown at reduced quality.
func (r *Refiner) Stale() image.Rectangle {
	return r.stale
}

// QualityRedrawDue reports whether a reduced quality area exists and input
// has been idle long enough to redraw it in full.
func (r *Refiner) QualityRedrawDue() bool {
	return !r.stale.Empty() && r.now().Sub(r.lastInput) >= r.IdleTimeout
}

// Refinement is the outcome of one Run.
type Refinement struct {
	Passes   int
	Factor   int // block edge of the last pass
	Elapsed  time.Duration
	Complete bool // the last pass was full quality
}

// Run renders dirty by calling pass with decreasing block sizes, starting
// from Start, or from 1 when quality is set. An error from pass stops the
// run and is returned.
func (r *Refiner) Run(dirty image.Rectangle, quality bool, pass func(factor int) error) (Refinement, error) {
	start := r.now()
	f := r.Start
	if quality {
		f = 1
	}

	var res Refinement
	for {
		if err := pass(f); err != nil {
			res.Elapsed = r.now().Sub(start)
			r.stale = r.stale.Union(dirty)
			return res, err
		}
		res.Passes++
		res.Factor = f
		if f == 1 {
			break
		}
		if r.now().Sub(start) > r.Budget {
			break
		}
		f /= 2
	}
	res.Elapsed = r.now().Sub(start)
	res.Complete = res.Factor == 1

	switch {
	case res.Complete && r.stale.In(dirty):
		r.stale = image.Rectangle{}
	case !res.Complete:
		r.stale = r.stale.Union(dirty)
	}
	return res, nil
}
