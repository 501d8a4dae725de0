package hydrology

import (
	"fmt"

	"terrasim/internal/simerr"
)

// Config holds the D8 router's tunable constants, defaulted per §6.
type Config struct {
	FlowFraction     float64
	SubStepsPerTick  int
	MinWaterDepthM   float64
	TrackRunoffFlux  bool
}

// DefaultConfig returns the reference hydrology configuration.
func DefaultConfig() Config {
	return Config{
		FlowFraction:    0.4,
		SubStepsPerTick: 8,
		MinWaterDepthM:  1e-6,
		TrackRunoffFlux: true,
	}
}

// Validate checks the configuration's invariants.
func (c Config) Validate() error {
	if c.FlowFraction <= 0 || c.FlowFraction > 1 {
		return fmt.Errorf("flow fraction must be in (0,1]: %w", simerr.ErrInvalidConfig)
	}
	if c.SubStepsPerTick <= 0 {
		return fmt.Errorf("sub steps per tick must be positive: %w", simerr.ErrInvalidConfig)
	}
	if c.MinWaterDepthM < 0 {
		return fmt.Errorf("min water depth must be >= 0: %w", simerr.ErrInvalidConfig)
	}
	return nil
}
