package ink

import "time"

// Option configures an Engine during creation.
// Options are applied in order on top of DefaultConfig, so a later option
// overrides an earlier one.
//
// Example:
//
//	// Defaults
//	e, _ := ink.NewEngine(1280, 720)
//
//	// Settings from a file, with the worker count forced
//	cfg, _ := ink.LoadConfig("ink.toml")
//	e, _ := ink.NewEngine(1280, 720, ink.WithConfig(cfg), ink.WithWorkers(2))
type Option func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	cfg Config
	now func() time.Time
}

// defaultOptions returns the default engine options.
func defaultOptions() engineOptions {
	return engineOptions{
		cfg: DefaultConfig(),
		now: time.Now,
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(o *engineOptions) {
		o.cfg = cfg
	}
}

// WithWorkers sets the worker pool size. 0 uses GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *engineOptions) {
		o.cfg.Workers = n
	}
}

// WithRasterizer selects the rasterizer strategy by name: "auto",
// "scalar" or "simd".
func WithRasterizer(name string) Option {
	return func(o *engineOptions) {
		o.cfg.Rasterizer = name
	}
}

// WithSamples sets the number of coverage samples per pixel, 4 or 16.
func WithSamples(n int) Option {
	return func(o *engineOptions) {
		o.cfg.Samples = n
	}
}

// WithBudget sets the frame time budget of progressive refinement.
func WithBudget(d time.Duration) Option {
	return func(o *engineOptions) {
		o.cfg.BudgetMS = int(d / time.Millisecond)
	}
}

// WithArenaBytes sets the initial scratch memory per worker.
func WithArenaBytes(n int) Option {
	return func(o *engineOptions) {
		o.cfg.ArenaBytes = n
	}
}

// WithClock replaces the clock used for frame budgets and idle detection.
// Tests use it to make refinement deterministic.
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) {
		if now != nil {
			o.now = now
		}
	}
}
