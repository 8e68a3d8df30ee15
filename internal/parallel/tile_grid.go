package parallel

import "image"

// TileGrid divides the screen into a grid of square tiles and turns dirty
// rectangles into tile groups.
//
// Thread safety: TileGrid is used by the dispatching goroutine only.
type TileGrid struct {
	width, height int
	tileSize      int
	groupSide     int

	// tilesX and tilesY are the grid dimensions in tiles.
	tilesX, tilesY int

	// tiles and groups are reused by Split.
	tiles  []image.Rectangle
	groups []Group
}

// NewTileGrid creates a grid for a screen of width x height pixels.
// Non-positive tileSize or groupSide select the defaults.
func NewTileGrid(width, height, tileSize, groupSide int) *TileGrid {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	if groupSide <= 0 {
		groupSide = DefaultGroupSide
	}
	g := &TileGrid{tileSize: tileSize, groupSide: groupSide}
	g.Resize(width, height)
	return g
}

// Resize changes the screen dimensions.
func (g *TileGrid) Resize(width, height int) {
	g.width = max(width, 0)
	g.height = max(height, 0)
	g.tilesX = (g.width + g.tileSize - 1) / g.tileSize
	g.tilesY = (g.height + g.tileSize - 1) / g.tileSize
}

// Bounds returns the screen rectangle.
func (g *TileGrid) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.width, g.height)
}

// TileSize returns the tile edge in pixels.
func (g *TileGrid) TileSize() int { return g.tileSize }

// GroupSide returns the group edge in tiles.
func (g *TileGrid) GroupSide() int { return g.groupSide }

// TilesX returns the number of tile columns.
func (g *TileGrid) TilesX() int { return g.tilesX }

// TilesY returns the number of tile rows.
func (g *TileGrid) TilesY() int { return g.tilesY }


// MaxGroups returns the number of groups covering the whole screen, the
// most a single Split can return.
func (g *TileGrid) MaxGroups() int {
	gx := (g.tilesX + g.groupSide - 1) / g.groupSide
	gy := (g.tilesY + g.groupSide - 1) / g.groupSide
	return gx * gy
}

// TileRect returns the screen rectangle of tile (tx, ty), clipped to the
// screen.
func (g *TileGrid) TileRect(tx, ty int) image.Rectangle {
	r := image.Rect(tx*g.tileSize, ty*g.tileSize, (tx+1)*g.tileSize, (ty+1)*g.tileSize)
	return r.Intersect(g.Bounds())
}

// tileSpan returns the half-open tile index range covering r.
func (g *TileGrid) tileSpan(r image.Rectangle) (tx0, ty0, tx1, ty1 int) {
	r = r.Intersect(g.Bounds())
	if r.Empty() {
		return 0, 0, 0, 0
	}
	ts := g.tileSize
	return r.Min.X / ts, r.Min.Y / ts, (r.Max.X + ts - 1) / ts, (r.Max.Y + ts - 1) / ts
}

// Align expands r to whole tiles, clipped to the screen.
func (g *TileGrid) Align(r image.Rectangle) image.Rectangle {
	tx0, ty0, tx1, ty1 := g.tileSpan(r)
	if tx0 == tx1 {
		return image.Rectangle{}
	}
	return image.Rect(tx0*g.tileSize, ty0*g.tileSize, tx1*g.tileSize, ty1*g.tileSize).Intersect(g.Bounds())
}

// Split returns the tile groups covering dirty. Groups are laid out on the
// screen-wide group grid so a tile always lands in the same group. The
// returned slice and the tile slices inside it are reused by the next call.
func (g *TileGrid) Split(dirty image.Rectangle) []Group {
	g.tiles = g.tiles[:0]
	g.groups = g.groups[:0]

	tx0, ty0, tx1, ty1 := g.tileSpan(dirty)
	if tx0 == tx1 || ty0 == ty1 {
		return g.groups
	}
	if need := (tx1 - tx0) * (ty1 - ty0); cap(g.tiles) < need {
		g.tiles = make([]image.Rectangle, 0, need)
	}

	gs := g.groupSide
	for gy := ty0 / gs; gy*gs < ty1; gy++ {
		for gx := tx0 / gs; gx*gs < tx1; gx++ {
			start := len(g.tiles)
			var rect image.Rectangle
			for ty := max(gy*gs, ty0); ty < min((gy+1)*gs, ty1); ty++ {
				for tx := max(gx*gs, tx0); tx < min((gx+1)*gs, tx1); tx++ {
					t := g.TileRect(tx, ty)
					g.tiles = append(g.tiles, t)
					rect = rect.Union(t)
				}
			}
			g.groups = append(g.groups, Group{Rect: rect, Tiles: g.tiles[start:len(g.tiles):len(g.tiles)]})
		}
	}
	return g.groups
}
