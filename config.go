package ink

import (
	"bytes"
	"errors"
	"fmt"
	"math/bits"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/ink/internal/color"
	"github.com/gogpu/ink/internal/parallel"
	"github.com/gogpu/ink/internal/raster"
	"github.com/gogpu/ink/internal/stroke"
	"github.com/gogpu/ink/internal/view"
)

// ErrInvalidConfig is returned, wrapped, for configuration that the engine
// cannot start with.
var ErrInvalidConfig = errors.New("ink: invalid config")

// Config holds the engine settings. The zero value is not usable; start
// from DefaultConfig.
type Config struct {
	// TileSize is the tile edge in pixels.
	TileSize int `toml:"tile_size"`

	// GroupSide is the tile group edge in tiles.
	GroupSide int `toml:"group_side"`

	// Workers is the worker pool size; 0 uses GOMAXPROCS. The pool never
	// exceeds MaxWorkers.
	Workers    int `toml:"workers"`
	MaxWorkers int `toml:"max_workers"`

	// BucketSize is the number of strokes per store bucket.
	BucketSize int `toml:"bucket_size"`

	// ArenaBytes is the initial scratch memory of each worker. Workers that
	// run out have it doubled before the next frame.
	ArenaBytes int `toml:"arena_bytes"`

	// Samples per pixel: 4 or 16.
	Samples int `toml:"samples"`

	// Gamma is "srgb" or "sqrt".
	Gamma string `toml:"gamma"`

	// Rasterizer is "auto", "scalar" or "simd".
	Rasterizer string `toml:"rasterizer"`

	// BudgetMS is the frame time after which progressive refinement stops.
	BudgetMS int `toml:"budget_ms"`

	// StartDownsampling is the pixel block edge of the first pass of a
	// frame. It must be a power of two.
	StartDownsampling int `toml:"start_downsampling"`

	// IdleTimeoutMS is how long input must pause before a frame left at
	// reduced quality is redrawn in full.
	IdleTimeoutMS int `toml:"idle_timeout_ms"`

	DefaultScale      int64 `toml:"default_scale"`
	CanvasRadiusLimit int64 `toml:"canvas_radius_limit"`
}

// DefaultConfig returns the default engine settings.
func DefaultConfig() Config {
	return Config{
		TileSize:          parallel.DefaultTileSize,
		GroupSide:         parallel.DefaultGroupSide,
		Workers:           0,
		MaxWorkers:        parallel.MaxWorkers,
		BucketSize:        stroke.DefaultBucketSize,
		ArenaBytes:        1 << 20,
		Samples:           16,
		Gamma:             "srgb",
		Rasterizer:        "auto",
		BudgetMS:          15,
		StartDownsampling: 8,
		IdleTimeoutMS:     250,
		DefaultScale:      view.DefaultScale,
		CanvasRadiusLimit: view.DefaultCanvasRadiusLimit,
	}
}

// LoadConfig reads a TOML file on top of DefaultConfig.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("ink: load config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes TOML on top of DefaultConfig and validates the
// result. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Marshal encodes c as TOML.
func (c Config) Marshal() ([]byte, error) {
	return toml.Marshal(c)
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...)
	}
	switch {
	case c.TileSize < 8 || c.TileSize > 1024:
		return bad("tile_size %d outside [8, 1024]", c.TileSize)
	case c.GroupSide < 1 || c.GroupSide > 64:
		return bad("group_side %d outside [1, 64]", c.GroupSide)
	case c.Workers < 0:
		return bad("workers %d is negative", c.Workers)
	case c.MaxWorkers < 1 || c.MaxWorkers > parallel.MaxWorkers:
		return bad("max_workers %d outside [1, %d]", c.MaxWorkers, parallel.MaxWorkers)
	case c.BucketSize < 1:
		return bad("bucket_size %d must be positive", c.BucketSize)
	case c.ArenaBytes < 4096:
		return bad("arena_bytes %d below 4096", c.ArenaBytes)
	case c.Samples != 4 && c.Samples != 16:
		return bad("samples %d, want 4 or 16", c.Samples)
	case c.BudgetMS <= 0:
		return bad("budget_ms %d must be positive", c.BudgetMS)
	case c.StartDownsampling < 1 || c.StartDownsampling > 64 || bits.OnesCount(uint(c.StartDownsampling)) != 1:
		return bad("start_downsampling %d is not a power of two in [1, 64]", c.StartDownsampling)
	case c.IdleTimeoutMS < 0:
		return bad("idle_timeout_ms %d is negative", c.IdleTimeoutMS)
	case c.DefaultScale < view.MinScale || c.DefaultScale > view.MaxScale:
		return bad("default_scale %d outside [%d, %d]", c.DefaultScale, view.MinScale, int64(view.MaxScale))
	case c.CanvasRadiusLimit <= 0 || c.CanvasRadiusLimit > 1<<60:
		return bad("canvas_radius_limit %d outside (0, 2^60]", c.CanvasRadiusLimit)
	}
	if _, ok := color.ParseGamma(c.Gamma); !ok {
		return bad("gamma %q, want srgb or sqrt", c.Gamma)
	}
	if _, ok := raster.ParseKind(c.Rasterizer); !ok {
		return bad("rasterizer %q, want auto, scalar or simd", c.Rasterizer)
	}
	return nil
}

// Budget returns BudgetMS as a duration.
func (c Config) Budget() time.Duration {
	return time.Duration(c.BudgetMS) * time.Millisecond
}

// IdleTimeout returns IdleTimeoutMS as a duration.
func (c Config) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutMS) * time.Millisecond
}

// workerCount resolves the pool size.
func (c Config) workerCount() int {
	return min(parallel.WorkerCount(c.Workers), c.MaxWorkers)
}
