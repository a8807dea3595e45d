package visibility

import (
	"testing"

	"github.com/turnforge/atlascore/internal/mapstate"
)

func TestUpdatePlayerVisibilityMarksExploredSticky(t *testing.T) {
	m := mapstate.NewMap(10, 10, "seed", "RANDOM", false)
	mgr := NewManager(m)

	mgr.UpdatePlayerVisibility("p1", []SightSource{{X: 5, Y: 5, SightRange: 1}})
	if !mgr.IsVisible("p1", 5, 5) || !mgr.IsExplored("p1", 5, 5) {
		t.Fatal("expected the sight source's own tile to be visible and explored")
	}
	if !mgr.IsVisible("p1", 6, 6) {
		t.Fatal("expected a diagonal neighbor within sight range to be visible")
	}

	// Move the only source away: visibility clears but exploration sticks.
	mgr.UpdatePlayerVisibility("p1", []SightSource{{X: 0, Y: 0, SightRange: 1}})
	if mgr.IsVisible("p1", 5, 5) {
		t.Fatal("expected visibility to clear once no source covers the tile")
	}
	if !mgr.IsExplored("p1", 5, 5) {
		t.Fatal("expected exploration to remain sticky after visibility clears")
	}
}

func TestIsVisibleOutOfBoundsIsFalse(t *testing.T) {
	m := mapstate.NewMap(5, 5, "seed", "RANDOM", false)
	mgr := NewManager(m)
	if mgr.IsVisible("p1", -1, 0) || mgr.IsVisible("p1", 5, 5) {
		t.Fatal("expected out-of-bounds queries to report not visible")
	}
}

func TestPlayerMapViewOnlyIncludesExploredTiles(t *testing.T) {
	m := mapstate.NewMap(5, 5, "seed", "RANDOM", false)
	mgr := NewManager(m)
	mgr.UpdatePlayerVisibility("p1", []SightSource{{X: 2, Y: 2, SightRange: 0}})

	view := mgr.PlayerMapView("p1")
	if len(view) != 1 {
		t.Fatalf("expected exactly 1 explored tile at sight range 0, got %d", len(view))
	}
	if view[0].X != 2 || view[0].Y != 2 || !view[0].Visible || !view[0].Explored {
		t.Fatalf("unexpected snapshot: %+v", view[0])
	}
}

func TestPlayersHaveIndependentViews(t *testing.T) {
	m := mapstate.NewMap(5, 5, "seed", "RANDOM", false)
	mgr := NewManager(m)
	mgr.UpdatePlayerVisibility("p1", []SightSource{{X: 0, Y: 0, SightRange: 0}})
	mgr.UpdatePlayerVisibility("p2", []SightSource{{X: 4, Y: 4, SightRange: 0}})

	if mgr.IsVisible("p1", 4, 4) {
		t.Fatal("p1 should not see p2's sight source")
	}
	if mgr.IsVisible("p2", 0, 0) {
		t.Fatal("p2 should not see p1's sight source")
	}
}
