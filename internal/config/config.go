// Package config loads the process configuration from CLI flags, with
// reference defaults matching the simulation's documented constants.
package config

import (
	"flag"
	"fmt"
	"time"

	"terrasim/internal/hydrology"
	"terrasim/internal/simerr"
	"terrasim/internal/terrain"
)

// Config is the fully assembled process configuration.
type Config struct {
	MasterSeed uint32

	World     terrain.WorldConfig
	Hydrology hydrology.Config

	DeltaRealSeconds int
	MaxResidentChunks int

	HTTPAddr string
	APIKey   string
	DBPath   string
}

// Load constructs a Config from the given flag set, applying reference
// defaults, and parses args.
func Load(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{World: terrain.DefaultWorldConfig(), Hydrology: hydrology.DefaultConfig()}

	seed := fs.Uint("seed", 42, "master RNG seed")
	deltaReal := fs.Int("tick-interval", 2, "real seconds between scheduler ticks, in [1,60]")
	maxChunks := fs.Int("max-resident-chunks", 64, "maximum tiles resident in the cache at once")
	addr := fs.String("http-addr", ":8080", "httpapi listen address")
	apiKey := fs.String("api-key", "", "static API key required on gated httpapi endpoints")
	dbPath := fs.String("db", "data/terrasim.db", "checkpoint store path (empty disables the store)")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg.MasterSeed = uint32(*seed)
	cfg.DeltaRealSeconds = *deltaReal
	cfg.MaxResidentChunks = *maxChunks
	cfg.HTTPAddr = *addr
	cfg.APIKey = *apiKey
	cfg.DBPath = *dbPath

	return cfg, nil
}

// Validate enforces the documented ranges and returns simerr.ErrInvalidConfig
// wrapped with the offending field name on violation.
func (c Config) Validate() error {
	if c.DeltaRealSeconds < 1 || c.DeltaRealSeconds > 60 {
		return fmt.Errorf("tick-interval must be in [1,60]: %w", simerr.ErrInvalidConfig)
	}
	if c.MaxResidentChunks <= 0 {
		return fmt.Errorf("max-resident-chunks must be positive: %w", simerr.ErrInvalidConfig)
	}
	if err := c.World.Validate(); err != nil {
		return fmt.Errorf("world config: %w", err)
	}
	if err := c.Hydrology.Validate(); err != nil {
		return fmt.Errorf("hydrology config: %w", err)
	}
	return nil
}

// TickInterval returns DeltaRealSeconds as a time.Duration.
func (c Config) TickInterval() time.Duration {
	return time.Duration(c.DeltaRealSeconds) * time.Second
}
