package game

import (
	"testing"

	"github.com/turnforge/atlascore/internal/ruleset"
	"github.com/turnforge/atlascore/internal/worldgen"
)

func testRuleset() ruleset.Provider {
	return ruleset.NewProvider(ruleset.Default())
}

func TestGenerateWorldSeedsStartingUnitsAndVisibility(t *testing.T) {
	g := New("g1", "Test Game", "p1", testRuleset())
	g.Players = []*Player{
		{ID: "p1", Nation: "romans"},
		{ID: "p2", Nation: "greeks"},
	}

	params := worldgen.Params{
		Width: 20, Height: 20,
		Generator: worldgen.Random, Landmass: worldgen.LandmassNormal,
		Temperature: 50, Wetness: 50, Rivers: 50, Resources: worldgen.ResourceNormal,
		Seed: "instance-seed", PlayerIDs: []string{"p1", "p2"},
	}
	if err := g.GenerateWorld(params, 7); err != nil {
		t.Fatal(err)
	}
	if g.Status != StatusPlaying {
		t.Fatalf("expected status playing after world generation, got %s", g.Status)
	}

	for _, p := range g.Players {
		units := g.Units.ForPlayer(p.ID)
		if len(units) != 3 {
			t.Fatalf("expected the opening settler+worker+warrior stack for %s, got %d units", p.ID, len(units))
		}
		sp := units[0]
		if !g.Visibility.IsVisible(p.ID, sp.X, sp.Y) {
			t.Fatalf("expected %s's starting tile to be visible after initial visibility update", p.ID)
		}
	}
}

func TestAvailableNationsExcludesTaken(t *testing.T) {
	g := New("g1", "Test Game", "p1", testRuleset())
	g.Players = []*Player{{ID: "p1", Nation: "romans"}}

	available := g.AvailableNations()
	for _, n := range available {
		if n.ID == "romans" {
			t.Fatal("expected romans to be excluded once taken")
		}
	}
	if len(available) != len(testRuleset().Nations())-1 {
		t.Fatalf("expected exactly one nation excluded, got %d available", len(available))
	}
}

func TestPlayerLookupByID(t *testing.T) {
	g := New("g1", "Test Game", "p1", testRuleset())
	g.Players = []*Player{{ID: "p1"}, {ID: "p2"}}

	if g.Player("p2") == nil {
		t.Fatal("expected to find p2")
	}
	if g.Player("ghost") != nil {
		t.Fatal("expected nil for an unknown player id")
	}
}
