// Package ghost builds the (T+2)x(T+2) halo arrays hydrology routing
// reads across tile boundaries, pulling neighbor tiles through the
// tile cache so lookups wrap toroidally and may trigger generation.
package ghost

import (
	"terrasim/internal/tile"
	"terrasim/internal/tilecache"
)

// Border is the padded halo around a center tile: paddedSize = T+2,
// interior cell (lx, ly) of the center tile sits at (lx+1, ly+1).
type Border struct {
	PaddedSize     int
	TerrainHeightM []float32
	WaterDepthM    []float32
}

// Idx converts padded (px, py) coordinates to a row-major index.
func (b *Border) Idx(px, py int) int { return py*b.PaddedSize + px }

// Build constructs the ghost border for the tile at (cx, cy), reading
// the center tile and its eight neighbors through cache. Every
// neighbor lookup goes through cache.GetTile and therefore wraps
// toroidally and may allocate/generate a neighbor tile.
func Build(cx, cy int, cache *tilecache.Cache) *Border {
	center := cache.GetTile(cx, cy)
	t := center.Side
	padded := t + 2

	b := &Border{
		PaddedSize:     padded,
		TerrainHeightM: make([]float32, padded*padded),
		WaterDepthM:    make([]float32, padded*padded),
	}

	n := cache.GetTile(cx, cy-1)
	s := cache.GetTile(cx, cy+1)
	w := cache.GetTile(cx-1, cy)
	e := cache.GetTile(cx+1, cy)
	nw := cache.GetTile(cx-1, cy-1)
	ne := cache.GetTile(cx+1, cy-1)
	sw := cache.GetTile(cx-1, cy+1)
	se := cache.GetTile(cx+1, cy+1)

	// interior: center tile, offset by (1, 1)
	for ly := 0; ly < t; ly++ {
		for lx := 0; lx < t; lx++ {
			srcIdx := tile.Idx(t, lx, ly)
			dstIdx := b.Idx(lx+1, ly+1)
			b.TerrainHeightM[dstIdx] = center.TerrainHeightM[srcIdx]
			b.WaterDepthM[dstIdx] = center.WaterDepthM[srcIdx]
		}
	}

	// top row (py=0, px=1..T): bottom row of N tile
	for lx := 0; lx < t; lx++ {
		srcIdx := tile.Idx(t, lx, t-1)
		dstIdx := b.Idx(lx+1, 0)
		b.TerrainHeightM[dstIdx] = n.TerrainHeightM[srcIdx]
		b.WaterDepthM[dstIdx] = n.WaterDepthM[srcIdx]
	}

	// bottom row (py=T+1): top row of S tile
	for lx := 0; lx < t; lx++ {
		srcIdx := tile.Idx(t, lx, 0)
		dstIdx := b.Idx(lx+1, t+1)
		b.TerrainHeightM[dstIdx] = s.TerrainHeightM[srcIdx]
		b.WaterDepthM[dstIdx] = s.WaterDepthM[srcIdx]
	}

	// left column: rightmost column of W tile
	for ly := 0; ly < t; ly++ {
		srcIdx := tile.Idx(t, t-1, ly)
		dstIdx := b.Idx(0, ly+1)
		b.TerrainHeightM[dstIdx] = w.TerrainHeightM[srcIdx]
		b.WaterDepthM[dstIdx] = w.WaterDepthM[srcIdx]
	}

	// right column: leftmost column of E tile
	for ly := 0; ly < t; ly++ {
		srcIdx := tile.Idx(t, 0, ly)
		dstIdx := b.Idx(t+1, ly+1)
		b.TerrainHeightM[dstIdx] = e.TerrainHeightM[srcIdx]
		b.WaterDepthM[dstIdx] = e.WaterDepthM[srcIdx]
	}

	// corners: single cell from each diagonal neighbor
	setCorner := func(px, py int, src *tile.Tile, sx, sy int) {
		srcIdx := tile.Idx(t, sx, sy)
		dstIdx := b.Idx(px, py)
		b.TerrainHeightM[dstIdx] = src.TerrainHeightM[srcIdx]
		b.WaterDepthM[dstIdx] = src.WaterDepthM[srcIdx]
	}
	setCorner(0, 0, nw, t-1, t-1)
	setCorner(t+1, 0, ne, 0, t-1)
	setCorner(0, t+1, sw, t-1, 0)
	setCorner(t+1, t+1, se, 0, 0)

	return b
}
