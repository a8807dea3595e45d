package ruleset

import (
	"testing"

	"github.com/turnforge/atlascore/internal/rng"
)

func TestUnknownLookupsReturnDomainErrors(t *testing.T) {
	p := NewProvider(Default())

	if _, err := p.Nation("atlanteans"); err == nil {
		t.Fatal("expected an error for an unknown nation")
	}
	if _, err := p.UnitType("catapult"); err == nil {
		t.Fatal("expected an error for an unknown unit type")
	}
	if _, err := p.Building("colosseum"); err == nil {
		t.Fatal("expected an error for an unknown building")
	}
	if _, err := p.Tech("gunpowder"); err == nil {
		t.Fatal("expected an error for an unknown tech")
	}
}

func TestKnownLookupsRoundTrip(t *testing.T) {
	p := NewProvider(Default())

	n, err := p.Nation("romans")
	if err != nil || n.Name != "Romans" {
		t.Fatalf("expected Romans, got %+v err=%v", n, err)
	}
	u, err := p.UnitType("warrior")
	if err != nil || u.Combat != 10 {
		t.Fatalf("expected warrior combat 10, got %+v err=%v", u, err)
	}
}

func TestPickTerrainFavorsHigherWeight(t *testing.T) {
	p := NewProvider(Default())
	stream := rng.New("terrain-test")

	counts := map[string]int{}
	for i := 0; i < 2000; i++ {
		pick := p.PickTerrain([]string{"desert", "swamp"}, PropDry, PropWet, PropFoliage, stream)
		counts[pick]++
	}
	if counts["desert"] == 0 || counts["swamp"] == 0 {
		t.Fatalf("expected both candidates to be reachable, got %v", counts)
	}
	// swamp weighs 90+30=120 against desert's 95 for these properties
	if counts["swamp"] <= counts["desert"] {
		t.Fatalf("expected the heavier swamp to be drawn more often than desert, got %v", counts)
	}
}

func TestPickTerrainEmptyCandidates(t *testing.T) {
	p := NewProvider(Default())
	stream := rng.New("empty-test")
	if got := p.PickTerrain(nil, PropDry, PropWet, PropFoliage, stream); got != "" {
		t.Fatalf("expected empty string for no candidates, got %q", got)
	}
}
