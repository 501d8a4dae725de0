package terrain

import (
	"math"
	"sort"
)

// WorldMetadata is the immutable-after-init result of calibrating the
// terrain pipeline against a coarse R x R world-wide sample grid.
type WorldMetadata struct {
	CoarseRes        int
	SeaLevelBiasM    float64
	CoarseLandMask   []uint8  // 1 = land, row-major R*R
	CoastDistanceMap []float64 // BFS distance in coarse cells, +Inf if unreachable
	OceanMask        []uint8  // 1 = connected ocean
}

// Calibrate samples RawHeight on an R x R coarse grid, derives the
// sea-level bias that makes exactly the target ocean fraction of
// samples lie below zero, and builds the coarse land mask, the
// toroidal coast-distance field, and the ocean-connectivity mask. It
// must be called exactly once before any Fill* method.
func (g *Generator) Calibrate() {
	r := g.cfg.CoarseSampleRes
	samples := make([]float64, r*r)

	cellW := g.cfg.WidthM / float64(r)
	cellH := g.cfg.HeightM / float64(r)

	for sy := 0; sy < r; sy++ {
		for sx := 0; sx < r; sx++ {
			x := (float64(sx) + 0.5) * cellW
			y := (float64(sy) + 0.5) * cellH
			samples[sy*r+sx] = g.RawHeight(x, y)
		}
	}

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	quantileIdx := int(g.cfg.TargetOceanFraction * float64(r*r))
	if quantileIdx >= len(sorted) {
		quantileIdx = len(sorted) - 1
	}
	if quantileIdx < 0 {
		quantileIdx = 0
	}
	bias := -sorted[quantileIdx]

	landMask := make([]uint8, r*r)
	for i, s := range samples {
		if s+bias >= 0 {
			landMask[i] = 1
		}
	}

	coastDist := coastDistanceBFS(landMask, r)
	oceanMask := oceanConnectivityBFS(samples, bias, r)

	g.meta = &WorldMetadata{
		CoarseRes:        r,
		SeaLevelBiasM:    bias,
		CoarseLandMask:   landMask,
		CoastDistanceMap: coastDist,
		OceanMask:        oceanMask,
	}
}

// coastDistanceBFS computes, for every ocean cell, the toroidal
// 4-connected BFS distance (in coarse cells) to the nearest coastal
// ocean cell, i.e. an ocean cell with a 4-neighbor land cell, which
// itself gets 0. Land cells and unreachable ocean cells (a fully
// ocean-covered world) get +Inf.
func coastDistanceBFS(landMask []uint8, r int) []float64 {
	dist := make([]float64, r*r)
	for i := range dist {
		dist[i] = math.Inf(1)
	}

	type cell struct{ x, y int }
	queue := make([]cell, 0, r*r/4)

	for y := 0; y < r; y++ {
		for x := 0; x < r; x++ {
			idx := y*r + x
			if landMask[idx] == 1 {
				continue
			}
			if hasLandNeighbor4(landMask, r, x, y) {
				dist[idx] = 0
				queue = append(queue, cell{x, y})
			}
		}
	}

	dirs := [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	for head := 0; head < len(queue); head++ {
		c := queue[head]
		idx := c.y*r + c.x
		d := dist[idx]
		for _, dd := range dirs {
			nx := wrap(c.x+dd[0], r)
			ny := wrap(c.y+dd[1], r)
			nIdx := ny*r + nx
			if landMask[nIdx] == 1 {
				continue
			}
			if dist[nIdx] > d+1 {
				dist[nIdx] = d + 1
				queue = append(queue, cell{nx, ny})
			}
		}
	}

	return dist
}

func hasLandNeighbor4(landMask []uint8, r, x, y int) bool {
	dirs := [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	for _, d := range dirs {
		nx := wrap(x+d[0], r)
		ny := wrap(y+d[1], r)
		if landMask[ny*r+nx] == 1 {
			return true
		}
	}
	return false
}

// oceanConnectivityBFS floods out from the global-minimum-height coarse
// cell over every below-sea-level cell reachable via 4-connectivity,
// excluding inland depressions that never connect to the global
// minimum.
func oceanConnectivityBFS(samples []float64, bias float64, r int) []uint8 {
	mask := make([]uint8, r*r)

	minIdx := 0
	minVal := math.Inf(1)
	for i, s := range samples {
		v := s + bias
		if v < minVal {
			minVal = v
			minIdx = i
		}
	}
	if minVal >= 0 {
		return mask
	}

	type cell struct{ x, y int }
	startX, startY := minIdx%r, minIdx/r
	visited := make([]bool, r*r)
	visited[minIdx] = true
	mask[minIdx] = 1
	queue := []cell{{startX, startY}}

	dirs := [4][2]int{{0, -1}, {0, 1}, {-1, 0}, {1, 0}}
	for head := 0; head < len(queue); head++ {
		c := queue[head]
		for _, d := range dirs {
			nx := wrap(c.x+d[0], r)
			ny := wrap(c.y+d[1], r)
			nIdx := ny*r + nx
			if visited[nIdx] {
				continue
			}
			if samples[nIdx]+bias < 0 {
				visited[nIdx] = true
				mask[nIdx] = 1
				queue = append(queue, cell{nx, ny})
			}
		}
	}

	return mask
}

func wrap(v, span int) int {
	v %= span
	if v < 0 {
		v += span
	}
	return v
}
