package parallel

// TileGrid divides an output plane into square tiles.
//
// Edge tiles may have smaller dimensions when the plane is not evenly
// divisible by the tile size. Tiles are stored in a flat slice, accessed via
// index calculation: index = ty * tilesX + tx.
type TileGrid struct {
	// tiles is a flat slice of all tiles (row-major order).
	tiles []Tile

	tilesX   int
	tilesY   int
	width    int
	height   int
	tileSize int
}

// NewTileGrid creates a tile grid covering a width x height plane with
// tileSize x tileSize tiles. A non-positive tileSize selects DefaultTileSize.
// A non-positive plane yields an empty grid.
func NewTileGrid(width, height, tileSize int) *TileGrid {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}
	if width <= 0 || height <= 0 {
		return &TileGrid{tileSize: tileSize}
	}

	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize

	g := &TileGrid{
		tiles:    make([]Tile, 0, tilesX*tilesY),
		tilesX:   tilesX,
		tilesY:   tilesY,
		width:    width,
		height:   height,
		tileSize: tileSize,
	}

	for ty := range tilesY {
		for tx := range tilesX {
			x0 := tx * tileSize
			y0 := ty * tileSize
			g.tiles = append(g.tiles, Tile{
				X:       tx,
				Y:       ty,
				OriginX: x0,
				OriginY: y0,
				Width:   min(tileSize, width-x0),
				Height:  min(tileSize, height-y0),
			})
		}
	}

	return g
}

// TileAt returns the tile at tile coordinates (tx, ty).
// The boolean is false if coordinates are out of bounds.
func (g *TileGrid) TileAt(tx, ty int) (Tile, bool) {
	if tx < 0 || tx >= g.tilesX || ty < 0 || ty >= g.tilesY {
		return Tile{}, false
	}
	return g.tiles[ty*g.tilesX+tx], true
}

// TileAtPixel returns the tile containing the pixel (px, py).
// The boolean is false if the pixel is outside the plane.
func (g *TileGrid) TileAtPixel(px, py int) (Tile, bool) {
	if px < 0 || px >= g.width || py < 0 || py >= g.height {
		return Tile{}, false
	}
	return g.TileAt(px/g.tileSize, py/g.tileSize)
}

// TileCount returns the total number of tiles in the grid.
func (g *TileGrid) TileCount() int {
	return len(g.tiles)
}

// TilesX returns the number of tiles horizontally.
func (g *TileGrid) TilesX() int {
	return g.tilesX
}

// TilesY returns the number of tiles vertically.
func (g *TileGrid) TilesY() int {
	return g.tilesY
}

// TileSize returns the tile edge in pixels.
func (g *TileGrid) TileSize() int {
	return g.tileSize
}

// Width returns the plane width in pixels.
func (g *TileGrid) Width() int {
	return g.width
}

// Height returns the plane height in pixels.
func (g *TileGrid) Height() int {
	return g.height
}

// AllTiles returns all tiles in row-major order.
// The returned slice should not be modified.
func (g *TileGrid) AllTiles() []Tile {
	return g.tiles
}

// ForEach calls fn for each tile in the grid.
// Tiles are visited in row-major order (left-to-right, top-to-bottom).
func (g *TileGrid) ForEach(fn func(tile Tile)) {
	for _, tile := range g.tiles {
		fn(tile)
	}
}
