// Package hydrology implements the per-tile D8 surface-water router:
// steepest-descent flow across eight neighbors per sub-step, optionally
// reading a ghost border for cross-tile flow.
package hydrology

import (
	"math"

	"terrasim/internal/ghost"
	"terrasim/internal/tile"
)

// direction is one of the eight D8 neighbor offsets, visited in the
// fixed order N, NE, E, SE, S, SW, W, NW with cardinal weight 1.0 and
// diagonal weight 1/sqrt(2).
type direction struct {
	dx, dy int
	weight float64
}

var directions = [8]direction{
	{0, -1, 1.0},            // N
	{1, -1, 1 / math.Sqrt2}, // NE
	{1, 0, 1.0},             // E
	{1, 1, 1 / math.Sqrt2},  // SE
	{0, 1, 1.0},             // S
	{-1, 1, 1 / math.Sqrt2}, // SW
	{-1, 0, 1.0},            // W
	{-1, -1, 1 / math.Sqrt2},// NW
}

// Stats summarizes a single Route call.
type Stats struct {
	TotalFlowVolume float64
	ActiveCells     int
	SubSteps        int
}

// Route runs cfg.SubStepsPerTick D8 routing sub-steps over t, optionally
// reading halo for cross-tile surface heights. It mutates
// t.WaterDepthM and, if cfg.TrackRunoffFlux, t.RunoffFlux.
func Route(t *tile.Tile, halo *ghost.Border, cfg Config) Stats {
	side := t.Side
	n := side * side

	stats := Stats{SubSteps: cfg.SubStepsPerTick}
	activeSeen := make(map[int]bool)

	delta := make([]float32, n)

	for step := 0; step < cfg.SubStepsPerTick; step++ {
		for i := range delta {
			delta[i] = 0
		}

		for y := 0; y < side; y++ {
			for x := 0; x < side; x++ {
				idx := tile.Idx(side, x, y)
				w := float64(t.WaterDepthM[idx])
				if w < cfg.MinWaterDepthM {
					continue
				}

				s := float64(t.TerrainHeightM[idx]) + w

				bestS := math.Inf(1)
				bestWinnerIdx := -1
				bestWeight := 0.0
				bestIsHalo := false
				bestHaloCoords := [2]int{}

				for _, d := range directions {
					nx, ny := x+d.dx, y+d.dy
					if nx >= 0 && nx < side && ny >= 0 && ny < side {
						nIdx := tile.Idx(side, nx, ny)
						sPrime := float64(t.TerrainHeightM[nIdx]) + float64(t.WaterDepthM[nIdx])
						if sPrime < bestS {
							bestS = sPrime
							bestWinnerIdx = nIdx
							bestWeight = d.weight
							bestIsHalo = false
						}
					} else if halo != nil {
						hx, hy := nx+1, ny+1
						hIdx := halo.Idx(hx, hy)
						sPrime := float64(halo.TerrainHeightM[hIdx]) + float64(halo.WaterDepthM[hIdx])
						if sPrime < bestS {
							bestS = sPrime
							bestWeight = d.weight
							bestIsHalo = true
							bestHaloCoords = [2]int{hx, hy}
						}
					}
				}

				if bestWinnerIdx == -1 && !bestIsHalo {
					continue // no reachable neighbor at all (only a 1x1 tile without a halo)
				}
				if bestS >= s {
					continue // no strictly lower neighbor
				}

				flow := math.Min(w, (s-bestS)*0.5) * cfg.FlowFraction * bestWeight
				if flow < cfg.MinWaterDepthM {
					continue
				}

				delta[idx] -= float32(flow)
				if bestIsHalo {
					// flow leaves the tile; lost from this tile's volume
				} else {
					delta[bestWinnerIdx] += float32(flow)
					if cfg.TrackRunoffFlux {
						t.RunoffFlux[bestWinnerIdx] += float32(flow)
					}
				}

				activeSeen[idx] = true
				stats.TotalFlowVolume += flow
				_ = bestHaloCoords
			}
		}

		for i := range t.WaterDepthM {
			v := t.WaterDepthM[i] + delta[i]
			if v < 0 {
				v = 0
			}
			t.WaterDepthM[i] = v
		}
	}

	stats.ActiveCells = len(activeSeen)
	return stats
}

// AddPrecipitation adds amountM of water to every land cell
// (terrainHeightM >= 0) and returns the count of cells touched.
func AddPrecipitation(t *tile.Tile, amountM float64) int {
	count := 0
	for i, h := range t.TerrainHeightM {
		if h >= 0 {
			t.WaterDepthM[i] += float32(amountM)
			count++
		}
	}
	return count
}

// AddWaterAtCell adds amountM of water at a single local cell.
func AddWaterAtCell(t *tile.Tile, lx, ly int, amountM float64) {
	idx := tile.Idx(t.Side, lx, ly)
	t.WaterDepthM[idx] += float32(amountM)
}

// TotalWaterVolume sums waterDepthM across every cell.
func TotalWaterVolume(t *tile.Tile) float64 {
	var total float64
	for _, w := range t.WaterDepthM {
		total += float64(w)
	}
	return total
}

// CountWetCells counts cells whose waterDepthM exceeds threshold.
func CountWetCells(t *tile.Tile, threshold float64) int {
	count := 0
	for _, w := range t.WaterDepthM {
		if float64(w) > threshold {
			count++
		}
	}
	return count
}
