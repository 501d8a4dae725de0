package terrain

import "math"

// RawHeight computes the pure, pre-sea-level-bias terrain height in
// meters at world meters (x, y): continentalness with domain warp and
// coastline detail, then mountain belt contributions.
func (g *Generator) RawHeight(x, y float64) float64 {
	w, h := g.cfg.WidthM, g.cfg.HeightM

	c0 := g.continentalness(x, y)

	a := 0.4 * g.cfg.DomainWarpAmplitudeM
	dx := a * g.noiseWarpX.FbmDefault(x, y, 1/(0.15*w), 3)
	dy := a * g.noiseWarpY.FbmDefault(x, y, 1/(0.15*w), 3)
	c1 := g.continentalness(x+dx, y+dy)

	c := 0.3*c0 + 0.7*c1
	c += 0.15 * g.noiseCoastline.FbmDefault(x, y, 1/g.cfg.CoastlineDetailScaleM, 4)

	height := (c - 0.5) * 4000

	for _, b := range g.mainBelts {
		height += g.beltContribution(x, y, b, w, h)
	}
	for _, b := range g.secondaryBelts {
		height += g.beltContribution(x, y, b, w, h)
	}

	height += 200 * g.noiseHills.Fbm(x, y, 1/20000.0, 4, 2.2, 0.45)

	return height
}

func (g *Generator) beltContribution(x, y float64, b belt, w, h float64) float64 {
	m := beltMask(x, y, b, w, h)
	if m == 0 {
		return 0
	}
	return m * b.peakM * g.noiseRidge.RidgedDefault(x, y, 1/50000.0, 4)
}

// continentalness is the base C0 term: summed continent-center falloff
// plus a broad continent-shaped fBm layer.
func (g *Generator) continentalness(x, y float64) float64 {
	c := 0.0
	for _, ctr := range g.majors {
		d := toroidalDistance(x, y, ctr.x, ctr.y, g.cfg.WidthM, g.cfg.HeightM)
		c += ctr.strength * smoothFalloff(d, ctr.radiusM)
	}
	for _, ctr := range g.minors {
		d := toroidalDistance(x, y, ctr.x, ctr.y, g.cfg.WidthM, g.cfg.HeightM)
		c += ctr.strength * smoothFalloff(d, ctr.radiusM)
	}
	c += 0.3 * g.noiseContinent.FbmDefault(x, y, 1/(0.3*g.cfg.WidthM), 3)
	return c
}

// hypsometricRemap maps positive (post-bias) heights to
// (min(h/(2*maxH), 1))^0.4 * maxH. The 0.4 power raises low
// elevations proportionally more than high ones, and the result never
// exceeds maxH.
func hypsometricRemap(h, maxH float64) float64 {
	ratio := h / (2 * maxH)
	if ratio > 1 {
		ratio = 1
	}
	return math.Pow(ratio, 0.4) * maxH
}

// bathymetry computes the piecewise shelf/slope/basin depth curve for
// a below-sea-level (post-bias) height h at world point (x, y).
func (g *Generator) bathymetry(h, x, y float64) float64 {
	sx, sy := g.coarseCell(x, y)
	distCells := g.meta.CoastDistanceMap[sy*g.meta.CoarseRes+sx]

	var depth float64
	if math.IsInf(distCells, 1) {
		depth = g.cfg.BasinDepthM
	} else {
		coarseCellM := g.cfg.WidthM / float64(g.meta.CoarseRes)
		dKm := distCells * coarseCellM / 1000

		switch {
		case dKm < 50:
			depth = (dKm / 50) * g.cfg.ShelfDepthM
		case dKm < 200:
			t := (dKm - 50) / (200 - 50)
			depth = lerp(g.cfg.ShelfDepthM, g.cfg.SlopeDepthM, t)
		case dKm < 500:
			t := (dKm - 200) / (500 - 200)
			depth = lerp(g.cfg.SlopeDepthM, g.cfg.BasinDepthM, t)
		default:
			depth = g.cfg.BasinDepthM
		}
	}

	depth = depth + 0.1*(h-depth)
	if depth > -1 {
		depth = -1
	}
	return depth
}

func lerp(a, b, t float64) float64 { return a + t*(b-a) }

// coarseCell maps world meters (x, y) to a wrapped coarse-grid cell
// (sx, sy) in [0, CoarseRes).
func (g *Generator) coarseCell(x, y float64) (int, int) {
	r := g.meta.CoarseRes
	sx := int(math.Floor(x/g.cfg.WidthM*float64(r))) % r
	sy := int(math.Floor(y/g.cfg.HeightM*float64(r))) % r
	if sx < 0 {
		sx += r
	}
	if sy < 0 {
		sy += r
	}
	return sx, sy
}
