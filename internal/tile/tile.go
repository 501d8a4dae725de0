// Package tile defines the per-tile structure-of-arrays storage and
// its row-major indexing convention.
package tile

// Coord identifies a tile in the toroidal tile grid.
type Coord struct {
	CX, CY int
}

// Tile is a fixed T x T block of land cells stored struct-of-arrays:
// one contiguous buffer per field, indexed row-major. Its only methods
// are the read-only CellCount and Coord accessors — mutation is
// performed by the terrain and hydrology packages, not by Tile itself.
type Tile struct {
	CX, CY int
	Side   int // T

	TerrainHeightM []float32 // static after generation
	WaterDepthM    []float32 // >= 0
	RunoffFlux     []float32 // >= 0, accumulator
	RiverID        []int32   // -1 = none

	// Inert in this spec: storage exists for future vegetation/soil/
	// atmosphere subsystems but nothing here mutates them.
	SoilMoisture  []float32
	FieldCapacity []float32
	GrassCover    []float32
}

// New allocates a tile of side x side cells at grid position (cx, cy).
// RiverID is initialized to -1 (no river); every other field starts at
// its zero value.
func New(cx, cy, side int) *Tile {
	n := side * side
	t := &Tile{
		CX: cx, CY: cy, Side: side,
		TerrainHeightM: make([]float32, n),
		WaterDepthM:    make([]float32, n),
		RunoffFlux:     make([]float32, n),
		RiverID:        make([]int32, n),
		SoilMoisture:   make([]float32, n),
		FieldCapacity:  make([]float32, n),
		GrassCover:     make([]float32, n),
	}
	for i := range t.RiverID {
		t.RiverID[i] = -1
	}
	return t
}

// CellCount returns T*T, the number of cells in the tile.
func (t *Tile) CellCount() int { return t.Side * t.Side }

// Idx converts local (x, y) cell coordinates to a row-major array
// index.
func Idx(side, x, y int) int { return y*side + x }

// Coord returns this tile's grid coordinate.
func (t *Tile) Coord() Coord { return Coord{CX: t.CX, CY: t.CY} }
