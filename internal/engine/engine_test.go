package engine

import (
	"testing"
	"time"

	"terrasim/internal/hydrology"
	"terrasim/internal/terrain"
)

func smallConfig() terrain.WorldConfig {
	cfg := terrain.DefaultWorldConfig()
	cfg.WidthM = 40_000
	cfg.HeightM = 40_000
	cfg.CellSizeM = 100
	cfg.TileSideCells = 8
	cfg.CoarseSampleRes = 32
	cfg.MajorContinents = 1
	cfg.MajorRadiusM = 10_000
	cfg.MinorCountMin = 0
	cfg.MinorCountMax = 1
	cfg.MinorRadiusM = 4_000
	cfg.MainBelts = 0
	cfg.SecondaryBelts = 0
	return cfg
}

func TestInitWorldSingletonGating(t *testing.T) {
	ResetForTest()
	defer ResetForTest()

	_, err := InitWorld(1, smallConfig(), 4)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := InitWorld(1, smallConfig(), 4); err == nil {
		t.Fatal("expected AlreadyInitialized on second InitWorld")
	}
}

func TestStartEngineSingletonGating(t *testing.T) {
	ResetForTest()
	defer ResetForTest()

	_, err := StartEngine(time.Hour, hydrology.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer StopEngine()

	if _, err := StartEngine(time.Hour, hydrology.DefaultConfig()); err == nil {
		t.Fatal("expected AlreadyInitialized on second StartEngine")
	}
}

func TestStopEngineAllowsRestart(t *testing.T) {
	ResetForTest()
	defer ResetForTest()

	_, err := StartEngine(time.Hour, hydrology.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	StopEngine()

	if _, err := StartEngine(time.Hour, hydrology.DefaultConfig()); err != nil {
		t.Fatalf("expected restart to succeed after stop, got %v", err)
	}
}

func TestStartEngineRegistersHydrologySystem(t *testing.T) {
	ResetForTest()
	defer ResetForTest()

	if _, err := InitWorld(7, smallConfig(), 4); err != nil {
		t.Fatal(err)
	}

	s, err := StartEngine(time.Hour, hydrology.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer StopEngine()

	acc, ok := s.GetState().Accumulators["hydrology"]
	if !ok {
		t.Fatal("expected StartEngine to register a \"hydrology\" cadenced system when a world is installed")
	}
	if acc.CadenceSeconds != 60 {
		t.Fatalf("expected hydrology system to fire once per tick (cadence 60), got %v", acc.CadenceSeconds)
	}
}

func TestStartEngineTicksHydrologyWithoutIncreasingWaterVolume(t *testing.T) {
	ResetForTest()
	defer ResetForTest()

	w, err := InitWorld(7, smallConfig(), 4)
	if err != nil {
		t.Fatal(err)
	}

	// Wet a cell on a resident tile before the scheduler ever ticks.
	tl := w.Cache.GetTile(0, 0)
	tl.WaterDepthM[0] += 1.0

	before := hydrology.TotalWaterVolume(tl)

	s, err := StartEngine(time.Hour, hydrology.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	defer StopEngine()

	s.Tick()

	after := hydrology.TotalWaterVolume(w.Cache.GetTile(0, 0))
	if after > before {
		t.Fatalf("expected hydrology tick to never increase a tile's water volume, went from %v to %v", before, after)
	}
}

func TestCurrentWorldReflectsGeneratedTiles(t *testing.T) {
	ResetForTest()
	defer ResetForTest()

	w, err := InitWorld(7, smallConfig(), 4)
	if err != nil {
		t.Fatal(err)
	}
	if CurrentWorld() != w {
		t.Fatal("expected CurrentWorld to return the installed world")
	}

	tl := w.Cache.GetTile(0, 0)
	if len(tl.TerrainHeightM) != 64 {
		t.Fatalf("expected 8x8=64 cells, got %d", len(tl.TerrainHeightM))
	}
}
