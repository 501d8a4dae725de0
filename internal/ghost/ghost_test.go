package ghost

import (
	"testing"

	"terrasim/internal/tile"
	"terrasim/internal/tilecache"
)

func markedGenerator(cx, cy int) *tile.Tile {
	t := tile.New(cx, cy, 4)
	for i := range t.TerrainHeightM {
		// encode (cx, cy, local index) into the height so tests can
		// verify exactly which source tile/cell a halo slot copied.
		t.TerrainHeightM[i] = float32(cx*1000 + cy*100 + i)
		t.WaterDepthM[i] = float32(i)
	}
	return t
}

func TestBuildInterior(t *testing.T) {
	c, err := tilecache.New(4, 4, 16, markedGenerator)
	if err != nil {
		t.Fatal(err)
	}
	center := c.GetTile(1, 1)

	b := Build(1, 1, c)
	if b.PaddedSize != 6 {
		t.Fatalf("expected padded size 6, got %d", b.PaddedSize)
	}

	for ly := 0; ly < 4; ly++ {
		for lx := 0; lx < 4; lx++ {
			want := center.TerrainHeightM[tile.Idx(4, lx, ly)]
			got := b.TerrainHeightM[b.Idx(lx+1, ly+1)]
			if got != want {
				t.Fatalf("interior (%d,%d): want %v got %v", lx, ly, want, got)
			}
		}
	}
}

func TestBuildEdgesAndCorners(t *testing.T) {
	c, err := tilecache.New(4, 4, 16, markedGenerator)
	if err != nil {
		t.Fatal(err)
	}
	b := Build(1, 1, c)

	n := c.GetTile(1, 0)
	s := c.GetTile(1, 2)
	w := c.GetTile(0, 1)
	e := c.GetTile(2, 1)
	nw := c.GetTile(0, 0)
	ne := c.GetTile(2, 0)
	sw := c.GetTile(0, 2)
	se := c.GetTile(2, 2)

	for lx := 0; lx < 4; lx++ {
		if got, want := b.TerrainHeightM[b.Idx(lx+1, 0)], n.TerrainHeightM[tile.Idx(4, lx, 3)]; got != want {
			t.Fatalf("top row lx=%d: want %v got %v", lx, want, got)
		}
		if got, want := b.TerrainHeightM[b.Idx(lx+1, 5)], s.TerrainHeightM[tile.Idx(4, lx, 0)]; got != want {
			t.Fatalf("bottom row lx=%d: want %v got %v", lx, want, got)
		}
	}
	for ly := 0; ly < 4; ly++ {
		if got, want := b.TerrainHeightM[b.Idx(0, ly+1)], w.TerrainHeightM[tile.Idx(4, 3, ly)]; got != want {
			t.Fatalf("left col ly=%d: want %v got %v", ly, want, got)
		}
		if got, want := b.TerrainHeightM[b.Idx(5, ly+1)], e.TerrainHeightM[tile.Idx(4, 0, ly)]; got != want {
			t.Fatalf("right col ly=%d: want %v got %v", ly, want, got)
		}
	}

	if got, want := b.TerrainHeightM[b.Idx(0, 0)], nw.TerrainHeightM[tile.Idx(4, 3, 3)]; got != want {
		t.Fatalf("NW corner: want %v got %v", want, got)
	}
	if got, want := b.TerrainHeightM[b.Idx(5, 0)], ne.TerrainHeightM[tile.Idx(4, 0, 3)]; got != want {
		t.Fatalf("NE corner: want %v got %v", want, got)
	}
	if got, want := b.TerrainHeightM[b.Idx(0, 5)], sw.TerrainHeightM[tile.Idx(4, 3, 0)]; got != want {
		t.Fatalf("SW corner: want %v got %v", want, got)
	}
	if got, want := b.TerrainHeightM[b.Idx(5, 5)], se.TerrainHeightM[tile.Idx(4, 0, 0)]; got != want {
		t.Fatalf("SE corner: want %v got %v", want, got)
	}
}

func TestBuildWrapsAtWorldEdge(t *testing.T) {
	c, err := tilecache.New(4, 4, 16, markedGenerator)
	if err != nil {
		t.Fatal(err)
	}
	// tile (0,0) has no negative neighbors; confirm it wraps to (3,3)/(3,0)/(0,3) etc.
	b := Build(0, 0, c)
	nw := c.GetTile(3, 3)
	if got, want := b.TerrainHeightM[b.Idx(0, 0)], nw.TerrainHeightM[tile.Idx(4, 3, 3)]; got != want {
		t.Fatalf("wrapped NW corner: want %v got %v", want, got)
	}
}
