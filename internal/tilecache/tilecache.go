// Package tilecache implements the lazy, LRU-evicted tile cache: the
// only mutable shared structure in the simulation. Coordinates wrap
// toroidally by Euclidean modulo before every lookup.
package tilecache

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"terrasim/internal/simerr"
	"terrasim/internal/tile"
)

// GeneratorFunc lazily allocates and populates the tile at grid
// coordinate (cx, cy) and returns it. It is called at most once per tile, on first
// access (or first access after eviction).
type GeneratorFunc func(cx, cy int) *tile.Tile

// Stats accumulates cache activity counters since the last resetStats.
type Stats struct {
	ResidentCount int
	TotalAccesses int
	CacheHits     int
	CacheMisses   int
	Evictions     int
}

// Cache is the LRU tile cache. worldTilesX/Y bound the toroidal grid;
// getTile wraps any (cx, cy) into that range before touching the LRU.
type Cache struct {
	worldTilesX, worldTilesY int
	generator                GeneratorFunc

	mu    sync.RWMutex
	lru   *lru.Cache[tile.Coord, *tile.Tile]
	stats Stats
}

// New constructs a tile cache over a worldTilesX x worldTilesY toroidal
// grid with the given resident capacity. generator may be nil, in which
// case GetTile allocates an unpopulated 1x1 tile with tile.New.
func New(worldTilesX, worldTilesY, maxResidentChunks int, generator GeneratorFunc) (*Cache, error) {
	if worldTilesX <= 0 || worldTilesY <= 0 {
		return nil, fmt.Errorf("world tile dimensions must be positive: %w", simerr.ErrInvalidConfig)
	}
	if maxResidentChunks <= 0 {
		return nil, fmt.Errorf("max resident chunks must be positive: %w", simerr.ErrInvalidConfig)
	}

	c := &Cache{
		worldTilesX: worldTilesX,
		worldTilesY: worldTilesY,
		generator:   generator,
	}

	l, err := lru.NewWithEvict[tile.Coord, *tile.Tile](maxResidentChunks, func(tile.Coord, *tile.Tile) {
		c.stats.Evictions++
	})
	if err != nil {
		return nil, fmt.Errorf("constructing lru: %w", err)
	}
	c.lru = l

	return c, nil
}

func (c *Cache) wrap(cx, cy int) tile.Coord {
	return tile.Coord{CX: wrapMod(cx, c.worldTilesX), CY: wrapMod(cy, c.worldTilesY)}
}

func wrapMod(v, span int) int {
	v %= span
	if v < 0 {
		v += span
	}
	return v
}

// GetTile wraps (cx, cy) toroidally, marks the resident tile as most
// recently used (generating it on first access), and returns a stable
// reference valid until the next operation that might evict it.
func (c *Cache) GetTile(cx, cy int) *tile.Tile {
	key := c.wrap(cx, cy)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.TotalAccesses++

	if t, ok := c.lru.Get(key); ok {
		c.stats.CacheHits++
		return t
	}

	c.stats.CacheMisses++

	var t *tile.Tile
	if c.generator != nil {
		t = c.generator(key.CX, key.CY)
	} else {
		t = tile.New(key.CX, key.CY, 1)
	}
	c.lru.Add(key, t)
	return t
}

// HasTile reports whether (cx, cy) is currently resident, without
// affecting LRU order.
func (c *Cache) HasTile(cx, cy int) bool {
	key := c.wrap(cx, cy)

	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.lru.Contains(key)
}

// ForEachResident visits every resident tile in unspecified order,
// without affecting LRU order.
func (c *Cache) ForEachResident(fn func(t *tile.Tile)) {
	c.mu.RLock()
	keys := c.lru.Keys()
	tiles := make([]*tile.Tile, 0, len(keys))
	for _, k := range keys {
		if t, ok := c.lru.Peek(k); ok {
			tiles = append(tiles, t)
		}
	}
	c.mu.RUnlock()

	for _, t := range tiles {
		fn(t)
	}
}

// Clear evicts every resident tile.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lru.Purge()
}

// GetStats returns a snapshot of cache activity counters.
func (c *Cache) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := c.stats
	s.ResidentCount = c.lru.Len()
	return s
}

// ResetStats zeroes the activity counters. ResidentCount is unaffected
// since it reflects current state, not accumulated activity.
func (c *Cache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats = Stats{}
}
