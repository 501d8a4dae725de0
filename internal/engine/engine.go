// Package engine owns the process-wide world and scheduler singletons:
// each is an exclusive, option-of-resource slot guarded against double
// initialization. Starting the engine over an installed world also
// wires hydrology routing into the scheduler as a cadenced system.
package engine

import (
	"fmt"
	"sync"
	"time"

	"terrasim/internal/ghost"
	"terrasim/internal/hydrology"
	"terrasim/internal/scheduler"
	"terrasim/internal/simerr"
	"terrasim/internal/terrain"
	"terrasim/internal/tile"
	"terrasim/internal/tilecache"
)

// World bundles the terrain generator and tile cache behind the single
// process-wide world slot.
type World struct {
	Config    terrain.WorldConfig
	Generator *terrain.Generator
	Cache     *tilecache.Cache
}

var (
	mu        sync.Mutex
	world     *World
	sched     *scheduler.Scheduler
)

// InitWorld constructs and installs the process-wide world. Fails with
// AlreadyInitialized if one is already set.
func InitWorld(masterSeed uint32, cfg terrain.WorldConfig, maxResidentChunks int) (*World, error) {
	mu.Lock()
	defer mu.Unlock()

	if world != nil {
		return nil, fmt.Errorf("world already initialized: %w", simerr.ErrAlreadyInitialized)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	gen := terrain.NewGenerator(masterSeed, cfg)
	gen.Calibrate()

	tilesX, tilesY := cfg.TileGridSize()
	cache, err := tilecache.New(tilesX, tilesY, maxResidentChunks, func(cx, cy int) *tile.Tile {
		t := tile.New(cx, cy, cfg.TileSideCells)
		gen.FillTerrain(t)
		return t
	})
	if err != nil {
		return nil, err
	}

	w := &World{Config: cfg, Generator: gen, Cache: cache}
	world = w
	return w, nil
}

// CurrentWorld returns the process-wide world, or nil if uninitialized.
func CurrentWorld() *World {
	mu.Lock()
	defer mu.Unlock()
	return world
}

// StartEngine installs the process-wide scheduler and starts its tick
// loop. If a world is installed, it also registers the hydrology
// subsystem as a cadenced system firing once per tick: every resident
// tile is routed through hydrology.Route using a ghost border built
// from its neighbors. Fails if a scheduler is already running.
func StartEngine(deltaReal time.Duration, hydroCfg hydrology.Config) (*scheduler.Scheduler, error) {
	mu.Lock()
	defer mu.Unlock()

	if sched != nil {
		return nil, fmt.Errorf("engine already running: %w", simerr.ErrAlreadyInitialized)
	}

	s := scheduler.New(deltaReal)

	if world != nil {
		w := world
		if err := s.RegisterSystem("hydrology", scheduler.DeltaGameSeconds, func(scheduler.StepContext) {
			w.Cache.ForEachResident(func(t *tile.Tile) {
				halo := ghost.Build(t.CX, t.CY, w.Cache)
				hydrology.Route(t, halo, hydroCfg)
			})
		}); err != nil {
			return nil, err
		}
	}

	s.Start()
	sched = s
	return s, nil
}

// CurrentScheduler returns the process-wide scheduler, or nil if not
// running.
func CurrentScheduler() *scheduler.Scheduler {
	mu.Lock()
	defer mu.Unlock()
	return sched
}

// StopEngine clears the scheduler slot, stopping the tick loop. A
// subsequent StartEngine with different config simulates
// restart-only reconfiguration. No-op if not running.
func StopEngine() {
	mu.Lock()
	defer mu.Unlock()

	if sched == nil {
		return
	}
	sched.Stop()
	sched = nil
}

// ResetForTest force-clears both singleton slots. Test-only hook.
func ResetForTest() {
	mu.Lock()
	defer mu.Unlock()

	if sched != nil {
		sched.Stop()
	}
	sched = nil
	world = nil
}
