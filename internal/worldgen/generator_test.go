package worldgen

import (
	"testing"

	"github.com/turnforge/atlascore/internal/mapstate"
)

func testParams(seed string, players int) Params {
	ids := make([]string, players)
	for i := range ids {
		ids[i] = "p" + string(rune('1'+i))
	}
	return Params{
		Width: 30, Height: 20,
		Generator:   Random,
		Landmass:    LandmassNormal,
		Temperature: 50,
		Wetness:     50,
		Rivers:      50,
		Resources:   ResourceNormal,
		Startpos:    StartposGeneratorChoice,
		Seed:        seed,
		PlayerIDs:   ids,
	}
}

func TestGenerateIsDeterministicForSameSeed(t *testing.T) {
	p := testParams("world-seed-1", 2)
	m1, err := Generate(p)
	if err != nil {
		t.Fatal(err)
	}
	m2, err := Generate(p)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < p.Height; y++ {
		for x := 0; x < p.Width; x++ {
			a, b := m1.Tiles[y][x], m2.Tiles[y][x]
			if a.Terrain != b.Terrain || a.Elevation != b.Elevation || a.RiverMask != b.RiverMask {
				t.Fatalf("tile (%d,%d) diverged between identical-seed runs", x, y)
			}
		}
	}
	if len(m1.StartingPositions) != len(m2.StartingPositions) {
		t.Fatal("starting position count diverged between identical-seed runs")
	}
	for i := range m1.StartingPositions {
		if m1.StartingPositions[i] != m2.StartingPositions[i] {
			t.Fatalf("starting position %d diverged: %+v != %+v", i, m1.StartingPositions[i], m2.StartingPositions[i])
		}
	}
}

func TestGenerateIsDeterministicAcrossAllStartposRules(t *testing.T) {
	for _, rule := range []StartposRule{StartposOnePerContinent, StartposAllOnOne, StartposTwoOnThree, StartposVariable} {
		p := testParams("world-seed-startpos", 3)
		p.Startpos = rule

		m1, err := Generate(p)
		if err != nil {
			t.Fatalf("rule %d: %v", rule, err)
		}
		m2, err := Generate(p)
		if err != nil {
			t.Fatalf("rule %d: %v", rule, err)
		}
		if len(m1.StartingPositions) != len(m2.StartingPositions) {
			t.Fatalf("rule %d: starting position count diverged between identical-seed runs", rule)
		}
		for i := range m1.StartingPositions {
			if m1.StartingPositions[i] != m2.StartingPositions[i] {
				t.Fatalf("rule %d: starting position %d diverged: %+v != %+v", rule, i, m1.StartingPositions[i], m2.StartingPositions[i])
			}
		}
	}
}

func TestGenerateProducesOneStartingPositionPerPlayerOnLand(t *testing.T) {
	p := testParams("world-seed-2", 4)
	m, err := Generate(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(m.StartingPositions) != 4 {
		t.Fatalf("expected 4 starting positions, got %d", len(m.StartingPositions))
	}
	for _, sp := range m.StartingPositions {
		tile, err := m.Tile(sp.X, sp.Y)
		if err != nil {
			t.Fatal(err)
		}
		if !tile.Terrain.IsLand() {
			t.Fatalf("starting position (%d,%d) for %s is not land: %s", sp.X, sp.Y, sp.PlayerID, tile.Terrain)
		}
	}
}

func TestGenerateEveryLandTileHasContinentID(t *testing.T) {
	p := testParams("world-seed-3", 2)
	m, err := Generate(p)
	if err != nil {
		t.Fatal(err)
	}
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			tile := m.Tiles[y][x]
			if tile.Terrain.IsLand() && tile.ContinentID < 1 {
				t.Fatalf("land tile (%d,%d) missing a continent id", x, y)
			}
		}
	}
}

func TestGenerateSmallIslandMapFallsBackToRandom(t *testing.T) {
	p := testParams("world-seed-4", 1)
	p.Width, p.Height = 6, 6 // below smallMapTileThreshold
	p.Generator = Island

	m, err := Generate(p)
	if err != nil {
		t.Fatal(err)
	}
	if m.Generator != string(Random) {
		t.Fatalf("expected the small-map fallback to record RANDOM, got %q", m.Generator)
	}
	if len(m.StartingPositions) != 1 {
		t.Fatalf("expected 1 starting position, got %d", len(m.StartingPositions))
	}
}

func TestTerrainSettingsToParamsFillsDefaults(t *testing.T) {
	p := TerrainSettings{}.ToParams(0, 0)
	if p.Generator != Random || p.Landmass != LandmassNormal || p.Resources != ResourceNormal {
		t.Fatalf("expected zero-value settings to resolve to documented defaults, got %+v", p)
	}
	if p.Width != 40 || p.Height != 30 {
		t.Fatalf("expected default 40x30 dimensions, got %dx%d", p.Width, p.Height)
	}
	if p.Temperature != 50 || p.Wetness != 50 || p.Rivers != 50 {
		t.Fatalf("expected 50/50/50 bias defaults, got T=%d W=%d R=%d", p.Temperature, p.Wetness, p.Rivers)
	}
}

func TestDistanceHelpersAgreeWithMapstate(t *testing.T) {
	if mapstate.Distance(0, 0, 5, 2) != 5 {
		t.Fatal("expected chebyshev distance helper to agree with mapstate.Distance")
	}
}
