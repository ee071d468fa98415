// Package parallel provides the worker scheduling infrastructure behind the
// kconv convolution strategies.
//
// It contains:
//
//   - WorkerPool, a work-stealing goroutine pool with ParallelFor
//   - TileGrid, the partition of an output plane into square tiles
//   - StagePool, reuse of per-tile staging buffers via sync.Pool
//   - Barrier and RunTeam, the cooperative rendezvous used by tile teams
//
// Thread safety: TileGrid is read-only after construction. WorkerPool,
// StagePool and Barrier are safe for concurrent use.
package parallel

// DefaultTileSize is the default tile edge in pixels.
// 16x16 output tiles keep a 3x3 halo of 18x18 bytes per channel well inside L1.
const DefaultTileSize = 16

// Tile is one rectangular partition of an output plane.
//
// Edge tiles may have smaller actual dimensions when the plane is not
// evenly divisible by the tile size.
type Tile struct {
	// X is the tile column index (0-based).
	X int

	// Y is the tile row index (0-based).
	Y int

	// OriginX is the column of the tile's top-left pixel.
	OriginX int

	// OriginY is the row of the tile's top-left pixel.
	OriginY int

	// Width is the actual width in pixels (may be < tile size for edge tiles).
	Width int

	// Height is the actual height in pixels (may be < tile size for edge tiles).
	Height int
}

// Bounds returns the pixel bounds of this tile in plane space.
// Returns (x, y, width, height) where x,y is the top-left corner.
func (t Tile) Bounds() (x, y, w, h int) {
	return t.OriginX, t.OriginY, t.Width, t.Height
}

// Pixels returns the number of output pixels covered by the tile.
func (t Tile) Pixels() int {
	return t.Width * t.Height
}

// Contains returns true if the plane-space pixel (px, py) is within this tile.
func (t Tile) Contains(px, py int) bool {
	return px >= t.OriginX && px < t.OriginX+t.Width &&
		py >= t.OriginY && py < t.OriginY+t.Height
}

// Halo returns the dimensions of the input region a tile needs to compute
// its outputs: the tile extent plus haloW columns and haloH rows on each side.
func (t Tile) Halo(haloW, haloH int) (w, h int) {
	return t.Width + 2*haloW, t.Height + 2*haloH
}
