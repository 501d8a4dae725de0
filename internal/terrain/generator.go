package terrain

import (
	"terrasim/internal/noise"
	"terrasim/internal/rng"
	"terrasim/internal/tile"
)

// Generator is the terrain pipeline: it owns the seeded noise layers
// and placed continents/belts, exposes the pure RawHeight function,
// and (after Calibrate) the world metadata needed for bathymetry and
// per-tile fills.
type Generator struct {
	cfg WorldConfig

	noiseContinent *noise.TorusNoise
	noiseWarpX     *noise.TorusNoise
	noiseWarpY     *noise.TorusNoise
	noiseCoastline *noise.TorusNoise
	noiseRidge     *noise.TorusNoise
	noiseHills     *noise.TorusNoise

	majors         []center
	minors         []center
	mainBelts      []belt
	secondaryBelts []belt

	meta *WorldMetadata
}

// NewGenerator derives the noise layers and placement streams from
// masterSeed and places continents, minors, and belts. Calibrate must
// be called once before Fill* methods are used.
func NewGenerator(masterSeed uint32, cfg WorldConfig) *Generator {
	base := noise.NewTorusNoise(masterSeed, cfg.WidthM, cfg.HeightM)

	g := &Generator{
		cfg:            cfg,
		noiseContinent: noise.DeriveTorusNoise(base, "continent"),
		noiseWarpX:     noise.DeriveTorusNoise(base, "warpX"),
		noiseWarpY:     noise.DeriveTorusNoise(base, "warpY"),
		noiseCoastline: noise.DeriveTorusNoise(base, "coastline"),
		noiseRidge:     noise.DeriveTorusNoise(base, "ridge"),
		noiseHills:     noise.DeriveTorusNoise(base, "hills"),
	}

	placementMgr := rng.NewManager(masterSeed)
	placement := placementMgr.Stream("placement")

	majorStream := placement.Fork("major")
	g.majors = placeMajors(majorStream, cfg)

	minorCountStream := placement.Fork("minor-count")
	minorStream := placement.Fork("minor")
	g.minors = placeMinors(minorCountStream, minorStream, cfg, g.majors)

	mainBeltStream := placement.Fork("main-belts")
	g.mainBelts = placeBelts(mainBeltStream, g.majors, cfg.MainBelts, cfg.MainBeltLenM, cfg.MainBeltWidthM, cfg.MainBeltPeakM)

	secondaryBeltStream := placement.Fork("secondary-belts")
	g.secondaryBelts = placeBelts(secondaryBeltStream, g.majors, cfg.SecondaryBelts, cfg.SecondaryBeltLenM, cfg.SecondaryBeltWidthM, cfg.SecondaryBeltPeakM)

	return g
}

// Metadata returns the world metadata computed by Calibrate. It is
// nil until Calibrate has been called.
func (g *Generator) Metadata() *WorldMetadata { return g.meta }

// FillTerrain populates a freshly allocated tile's terrain height and
// initial ocean water, matching the §4.4 per-tile fill and ocean-water
// init procedures. Calibrate must have run first.
func (g *Generator) FillTerrain(t *tile.Tile) {
	side := t.Side
	for ly := 0; ly < side; ly++ {
		for lx := 0; lx < side; lx++ {
			worldCellX := t.CX*side + lx
			worldCellY := t.CY*side + ly
			xM := (float64(worldCellX) + 0.5) * g.cfg.CellSizeM
			yM := (float64(worldCellY) + 0.5) * g.cfg.CellSizeM

			h := g.RawHeight(xM, yM) + g.meta.SeaLevelBiasM

			var final float64
			if h >= 0 {
				final = hypsometricRemap(h, g.cfg.MaxHeightM)
			} else {
				final = g.bathymetry(h, xM, yM)
			}
			final = clamp(final, g.cfg.MinHeightM, g.cfg.MaxHeightM)

			idx := tile.Idx(side, lx, ly)
			t.TerrainHeightM[idx] = float32(final)

			sx, sy := g.coarseCell(xM, yM)
			ocean := g.meta.OceanMask[sy*g.meta.CoarseRes+sx] == 1
			if ocean && final < 0 {
				t.WaterDepthM[idx] = float32(-final)
			} else {
				t.WaterDepthM[idx] = 0
			}
		}
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
