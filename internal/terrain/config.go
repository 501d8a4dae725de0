// Package terrain implements the seamless toroidal procedural terrain
// pipeline: continent/belt placement, domain-warped continentalness,
// mountain belts, ocean-fraction calibration, bathymetry, and
// ocean-connectivity flood fill.
package terrain

import (
	"fmt"

	"terrasim/internal/simerr"
)

// WorldConfig describes the immutable world geometry and terrain
// bounds. TileSideCells (T) times CellSizeM gives a tile's physical
// side length; WidthM/(T*CellSizeM) gives the toroidal grid
// width in tiles (and likewise for height).
type WorldConfig struct {
	WidthM, HeightM float64
	CellSizeM       float64
	TileSideCells   int

	MinHeightM, MaxHeightM float64

	TargetOceanFraction float64
	OceanFractionTol    float64

	CoarseSampleRes int // R

	MajorContinents  int
	MajorRadiusM     float64
	MinorCountMin    int
	MinorCountMax    int
	MinorRadiusM     float64

	DomainWarpAmplitudeM   float64
	CoastlineDetailScaleM  float64

	MainBelts      int
	MainBeltLenM   [2]float64
	MainBeltWidthM [2]float64
	MainBeltPeakM  [2]float64

	SecondaryBelts      int
	SecondaryBeltLenM   [2]float64
	SecondaryBeltWidthM [2]float64
	SecondaryBeltPeakM  [2]float64

	ShelfDepthM, SlopeDepthM, BasinDepthM float64
}

// DefaultWorldConfig returns the §6 reference configuration.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{
		WidthM:    2_500_000,
		HeightM:   2_500_000,
		CellSizeM: 1,
		TileSideCells: 256,

		MinHeightM: -3000,
		MaxHeightM: 4500,

		TargetOceanFraction: 0.65,
		OceanFractionTol:    0.02,

		CoarseSampleRes: 1024,

		MajorContinents: 3,
		MajorRadiusM:    2_500_000,
		MinorCountMin:   5,
		MinorCountMax:   8,
		MinorRadiusM:    900_000,

		DomainWarpAmplitudeM:  400_000,
		CoastlineDetailScaleM: 100_000,

		MainBelts:      3,
		MainBeltLenM:   [2]float64{3_000_000, 6_000_000},
		MainBeltWidthM: [2]float64{300_000, 600_000},
		MainBeltPeakM:  [2]float64{1500, 2500},

		SecondaryBelts:      2,
		SecondaryBeltLenM:   [2]float64{1_500_000, 3_500_000},
		SecondaryBeltWidthM: [2]float64{150_000, 400_000},
		SecondaryBeltPeakM:  [2]float64{800, 1500},

		ShelfDepthM: -200,
		SlopeDepthM: -1500,
		BasinDepthM: -3000,
	}
}

// Validate checks the configuration's invariants, matching the
// fail-fast constructor-time validation style used throughout this
// repo's core packages.
func (c WorldConfig) Validate() error {
	if c.WidthM <= 0 || c.HeightM <= 0 || c.CellSizeM <= 0 || c.TileSideCells <= 0 {
		return fmt.Errorf("world dimensions must be positive: %w", simerr.ErrInvalidConfig)
	}
	tileSideM := float64(c.TileSideCells) * c.CellSizeM
	if c.WidthM < tileSideM || c.HeightM < tileSideM {
		return fmt.Errorf("world must be at least one tile wide/tall: %w", simerr.ErrInvalidConfig)
	}
	if c.MinHeightM >= c.MaxHeightM {
		return fmt.Errorf("min_h must be < max_h: %w", simerr.ErrInvalidConfig)
	}
	if c.TargetOceanFraction <= 0 || c.TargetOceanFraction >= 1 {
		return fmt.Errorf("target ocean fraction must be in (0,1): %w", simerr.ErrInvalidConfig)
	}
	if c.OceanFractionTol < 0 {
		return fmt.Errorf("ocean fraction tolerance must be >= 0: %w", simerr.ErrInvalidConfig)
	}
	if c.CoarseSampleRes <= 0 {
		return fmt.Errorf("coarse sample resolution must be positive: %w", simerr.ErrInvalidConfig)
	}
	return nil
}

// TileGridSize returns the toroidal grid dimensions in tiles.
func (c WorldConfig) TileGridSize() (tilesX, tilesY int) {
	tileSideM := float64(c.TileSideCells) * c.CellSizeM
	tilesX = int(c.WidthM / tileSideM)
	tilesY = int(c.HeightM / tileSideM)
	return
}
