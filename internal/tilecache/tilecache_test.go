package tilecache

import (
	"testing"

	"terrasim/internal/tile"
)

func countingGenerator(calls *int) GeneratorFunc {
	return func(cx, cy int) *tile.Tile {
		*calls++
		return tile.New(cx, cy, 4)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	if _, err := New(0, 4, 3, nil); err == nil {
		t.Fatal("expected error for non-positive worldTilesX")
	}
	if _, err := New(4, 4, 0, nil); err == nil {
		t.Fatal("expected error for non-positive capacity")
	}
}

func TestToroidalWrapIdentity(t *testing.T) {
	calls := 0
	c, err := New(4, 4, 8, countingGenerator(&calls))
	if err != nil {
		t.Fatal(err)
	}

	a := c.GetTile(0, 0)
	b := c.GetTile(4, 0)
	d := c.GetTile(-4, 0)

	if a != b || a != d {
		t.Fatalf("expected wrapped coordinates to resolve to the same tile reference")
	}
	if calls != 1 {
		t.Fatalf("expected exactly one generation call, got %d", calls)
	}
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	calls := 0
	c, err := New(4, 4, 3, countingGenerator(&calls))
	if err != nil {
		t.Fatal(err)
	}

	c.GetTile(0, 0)
	c.GetTile(1, 0)
	c.GetTile(2, 0)
	c.GetTile(0, 0) // re-touch (0,0); LRU order now: (0,0) most recent, then (2,0), then (1,0) least recent
	c.GetTile(3, 0) // capacity 3 exceeded: evicts (1,0)

	if c.HasTile(1, 0) {
		t.Fatal("expected (1,0) to have been evicted")
	}
	if !c.HasTile(0, 0) || !c.HasTile(2, 0) || !c.HasTile(3, 0) {
		t.Fatal("expected (0,0), (2,0), (3,0) to remain resident")
	}

	stats := c.GetStats()
	if stats.ResidentCount != 3 {
		t.Fatalf("expected residentCount 3, got %d", stats.ResidentCount)
	}
	if stats.Evictions != 1 {
		t.Fatalf("expected 1 eviction, got %d", stats.Evictions)
	}
}

func TestHasTileDoesNotDisturbOrder(t *testing.T) {
	calls := 0
	c, err := New(4, 4, 2, countingGenerator(&calls))
	if err != nil {
		t.Fatal(err)
	}

	c.GetTile(0, 0)
	c.GetTile(1, 0)
	c.HasTile(0, 0) // must not promote (0,0)
	c.GetTile(2, 0) // capacity 2: evicts (0,0), the true LRU

	if c.HasTile(0, 0) {
		t.Fatal("hasTile should not have protected (0,0) from eviction")
	}
}

func TestClearEvictsAll(t *testing.T) {
	calls := 0
	c, err := New(4, 4, 8, countingGenerator(&calls))
	if err != nil {
		t.Fatal(err)
	}
	c.GetTile(0, 0)
	c.GetTile(1, 1)
	c.Clear()

	count := 0
	c.ForEachResident(func(*tile.Tile) { count++ })
	if count != 0 {
		t.Fatalf("expected 0 resident tiles after clear, got %d", count)
	}
}

func TestGeneratorCalledOncePerTile(t *testing.T) {
	calls := 0
	c, err := New(4, 4, 8, countingGenerator(&calls))
	if err != nil {
		t.Fatal(err)
	}
	c.GetTile(0, 0)
	c.GetTile(0, 0)
	c.GetTile(0, 0)
	if calls != 1 {
		t.Fatalf("expected generator called once, got %d", calls)
	}
}

func TestResetStats(t *testing.T) {
	calls := 0
	c, err := New(4, 4, 8, countingGenerator(&calls))
	if err != nil {
		t.Fatal(err)
	}
	c.GetTile(0, 0)
	c.GetTile(0, 0)
	c.ResetStats()

	stats := c.GetStats()
	if stats.TotalAccesses != 0 || stats.CacheHits != 0 || stats.CacheMisses != 0 {
		t.Fatalf("expected zeroed counters after reset, got %+v", stats)
	}
	if stats.ResidentCount != 1 {
		t.Fatalf("residentCount should reflect current state, got %d", stats.ResidentCount)
	}
}
