package parallel

import (
	"image"
	"math/bits"
	"sync/atomic"
)

// DirtyRegion tracks which tiles must be redrawn using an atomic bitmap.
// Workers mark tiles they had to abandon; the next frame's setup collects
// them and renders them again.
//
// The bitmap uses one bit per tile, packed into uint64 words (64 tiles per word).
// All methods are safe for concurrent use without external synchronization.
type DirtyRegion struct {
	// words is the atomic bitmap where each bit represents a tile's dirty state.
	// Bit index = ty * tilesX + tx
	words []atomic.Uint64

	tilesX, tilesY int
	tileSize       int
}

// NewDirtyRegion creates a dirty region tracker for a grid of tilesX by
// tilesY tiles of tileSize pixels. All tiles start clean.
// Returns nil if dimensions are invalid (zero or negative).
func NewDirtyRegion(tilesX, tilesY, tileSize int) *DirtyRegion {
	if tilesX <= 0 || tilesY <= 0 || tileSize <= 0 {
		return nil
	}

	totalTiles := tilesX * tilesY
	numWords := (totalTiles + 63) / 64

	return &DirtyRegion{
		words:    make([]atomic.Uint64, numWords),
		tilesX:   tilesX,
		tilesY:   tilesY,
		tileSize: tileSize,
	}
}

// Mark marks a single tile as dirty.
// This is a lock-free O(1) operation using atomic OR.
// Does nothing if coordinates are out of bounds.
func (d *DirtyRegion) Mark(tx, ty int) {
	if tx < 0 || tx >= d.tilesX || ty < 0 || ty >= d.tilesY {
		return
	}
	idx := ty*d.tilesX + tx
	d.words[idx/64].Or(1 << (idx & 63))
}

// MarkRect marks every tile intersecting the pixel rectangle r.
func (d *DirtyRegion) MarkRect(r image.Rectangle) {
	if r.Empty() {
		return
	}
	ts := d.tileSize
	tx1 := max(r.Min.X/ts, 0)
	ty1 := max(r.Min.Y/ts, 0)
	tx2 := min((r.Max.X-1)/ts, d.tilesX-1)
	ty2 := min((r.Max.Y-1)/ts, d.tilesY-1)

	for ty := ty1; ty <= ty2; ty++ {
		for tx := tx1; tx <= tx2; tx++ {
			d.Mark(tx, ty)
		}
	}
}

// IsEmpty returns true if no tiles are marked as dirty.
func (d *DirtyRegion) IsEmpty() bool {
	for i := range d.words {
		if d.words[i].Load() != 0 {
			return false
		}
	}
	return true
}

// Count returns the number of tiles marked as dirty.
func (d *DirtyRegion) Count() int {
	count := 0
	for i := range d.words {
		count += bits.OnesCount64(d.words[i].Load())
	}
	return count
}

// TakeBounds clears the region and returns the pixel bounding rectangle of
// the tiles that were dirty, or an empty rectangle.
func (d *DirtyRegion) TakeBounds() image.Rectangle {
	var out image.Rectangle
	ts := d.tileSize
	for wordIdx := range d.words {
		word := d.words[wordIdx].Swap(0)
		for word != 0 {
			bitIdx := bits.TrailingZeros64(word)
			tileIdx := wordIdx*64 + bitIdx
			tx, ty := tileIdx%d.tilesX, tileIdx/d.tilesX
			out = out.Union(image.Rect(tx*ts, ty*ts, (tx+1)*ts, (ty+1)*ts))
			word &^= 1 << bitIdx
		}
	}
	return out
}

// TilesX returns the number of tiles horizontally.
func (d *DirtyRegion) TilesX() int {
	return d.tilesX
}

// TilesY returns the number of tiles vertically.
func (d *DirtyRegion) TilesY() int {
	return d.tilesY
}
