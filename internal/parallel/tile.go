// Package parallel schedules tile rasterization across a fixed pool of
// workers.
//
// The dirty part of the screen is cut into square tiles aligned to a
// screen-wide grid, and tiles are batched into square tile groups. A group
// is the unit of work: one worker takes it, culls strokes once for the
// whole group, then clips and rasterizes its tiles in order. Groups write
// disjoint parts of the destination image, so no pixel synchronization is
// needed.
//
// Key features:
//
//   - Workers are started once and parked between frames
//   - A fixed-capacity work stack guarded by a mutex, plus two counting
//     semaphores (work available, completed)
//   - Per-worker scratch arenas that are never shared
//   - Lock-free tracking of tiles that ran out of memory, re-rendered on the
//     next frame after the starved workers' arenas are doubled
package parallel

import "image"

// Tiling defaults.
const (
	// DefaultTileSize is the edge of a tile in pixels.
	// A 64x64 RGBA tile is 16KB and fits L1 cache.
	DefaultTileSize = 64

	// DefaultGroupSide is the edge of a tile group in tiles; groups hold up
	// to DefaultGroupSide² tiles.
	DefaultGroupSide = 4
)

// Group is a batch of tiles rendered by one worker, in order.
type Group struct {
	// Rect is the union of Tiles.
	Rect image.Rectangle

	// Tiles are clipped to the screen. Edge tiles may be smaller than the
	// tile size.
	Tiles []image.Rectangle
}

// Pixels returns the number of pixels covered by the group.
func (g *Group) Pixels() int {
	n := 0
	for _, t := range g.Tiles {
		n += t.Dx() * t.Dy()
	}
	return n
}
