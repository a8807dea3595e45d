package mapstate

import "testing"

func TestTileOutOfBounds(t *testing.T) {
	m := NewMap(4, 4, "seed", "RANDOM", false)
	if _, err := m.Tile(-1, 0); err == nil {
		t.Fatal("expected OutOfBounds for negative x")
	}
	if _, err := m.Tile(4, 0); err == nil {
		t.Fatal("expected OutOfBounds for x == width")
	}
	if _, err := m.Tile(0, 4); err == nil {
		t.Fatal("expected OutOfBounds for y == height")
	}
}

func TestNeighborsNoWrapDropsOffEdge(t *testing.T) {
	m := NewMap(4, 4, "seed", "RANDOM", false)
	corner := m.Neighbors(0, 0)
	if len(corner) != 3 {
		t.Fatalf("expected 3 neighbors at an unwrapped corner, got %d", len(corner))
	}
	center := m.Neighbors(1, 1)
	if len(center) != 8 {
		t.Fatalf("expected 8 neighbors off the edge, got %d", len(center))
	}
}

func TestNeighborsWrapAroundX(t *testing.T) {
	m := NewMap(4, 4, "seed", "RANDOM", true)
	edge := m.Neighbors(0, 1)
	if len(edge) != 8 {
		t.Fatalf("expected 8 neighbors with x-wrap, got %d", len(edge))
	}
	found := false
	for _, n := range edge {
		if n.X == 3 {
			found = true
		}
	}
	if !found {
		t.Fatal("expected wrap to reach x=width-1")
	}
}

func TestDistanceIsChebyshev(t *testing.T) {
	if got := Distance(0, 0, 3, 1); got != 3 {
		t.Fatalf("expected chebyshev distance 3, got %d", got)
	}
	if got := Distance(2, 2, 2, 2); got != 0 {
		t.Fatalf("expected 0 distance for same tile, got %d", got)
	}
}

func TestMovementCostHalvedByRoadWithFloor(t *testing.T) {
	m := NewMap(3, 3, "seed", "RANDOM", false)
	tile, _ := m.Tile(1, 1)
	tile.Terrain = Grassland

	base, err := m.MovementCost(1, 1)
	if err != nil || base != 3 {
		t.Fatalf("expected grassland base cost 3, got %d err=%v", base, err)
	}

	tile.Improvements["road"] = true
	withRoad, err := m.MovementCost(1, 1)
	if err != nil || withRoad != 1 {
		t.Fatalf("expected road-halved cost 1, got %d err=%v", withRoad, err)
	}
}

func TestIsWaterForOceanAndLake(t *testing.T) {
	m := NewMap(3, 3, "seed", "RANDOM", false)
	oceanTile, _ := m.Tile(0, 0)
	oceanTile.Terrain = Ocean
	lakeTile, _ := m.Tile(1, 0)
	lakeTile.Terrain = Lake
	landTile, _ := m.Tile(2, 0)
	landTile.Terrain = Grassland

	if !m.IsWater(0, 0) {
		t.Fatal("expected ocean to be water")
	}
	if !m.IsWater(1, 0) {
		t.Fatal("expected lake to be water")
	}
	if m.IsWater(2, 0) {
		t.Fatal("expected grassland to not be water")
	}
}

func TestUpdateTilePatchesOnlySetFields(t *testing.T) {
	m := NewMap(3, 3, "seed", "RANDOM", false)
	terrain := Hills
	if err := m.UpdateTile(1, 1, TilePatch{Terrain: &terrain, AddImprove: "road"}); err != nil {
		t.Fatal(err)
	}
	tile, _ := m.Tile(1, 1)
	if tile.Terrain != Hills {
		t.Fatalf("expected terrain patched to hills, got %s", tile.Terrain)
	}
	if !tile.Improvements["road"] {
		t.Fatal("expected road improvement added")
	}

	if err := m.UpdateTile(1, 1, TilePatch{RemoveImprove: "road"}); err != nil {
		t.Fatal(err)
	}
	if tile.Improvements["road"] {
		t.Fatal("expected road improvement removed")
	}
	if tile.Terrain != Hills {
		t.Fatal("expected terrain to survive an unrelated patch")
	}
}
