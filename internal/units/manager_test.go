package units

import (
	"testing"

	"github.com/turnforge/atlascore/internal/mapstate"
	"github.com/turnforge/atlascore/internal/rng"
	"github.com/turnforge/atlascore/internal/ruleset"
)

func testRuleset() ruleset.Provider {
	return ruleset.NewProvider(ruleset.Default())
}

func TestCreateRejectsOcean(t *testing.T) {
	m := mapstate.NewMap(5, 5, "seed", "RANDOM", false)
	tile, _ := m.Tile(2, 2)
	tile.Terrain = mapstate.Ocean
	mgr := NewManager(testRuleset(), m)

	if _, err := mgr.Create("p1", "warrior", 2, 2); err == nil {
		t.Fatal("expected an error creating a land unit on ocean")
	}
}

func TestCreateForbidsDoubleCivilianStacking(t *testing.T) {
	m := mapstate.NewMap(5, 5, "seed", "RANDOM", false)
	mgr := NewManager(testRuleset(), m)

	if _, err := mgr.Create("p1", "settler", 1, 1); err != nil {
		t.Fatalf("first settler: %v", err)
	}
	if _, err := mgr.Create("p1", "settler", 1, 1); err == nil {
		t.Fatal("expected CivilianStackingForbidden on a second civilian")
	}
	// A combat unit may still share the tile.
	if _, err := mgr.Create("p1", "warrior", 1, 1); err != nil {
		t.Fatalf("warrior should be able to stack with a civilian: %v", err)
	}
}

func TestMoveDebitsMovementAndRejectsNonAdjacent(t *testing.T) {
	m := mapstate.NewMap(5, 5, "seed", "RANDOM", false)
	mgr := NewManager(testRuleset(), m)
	u, err := mgr.Create("p1", "warrior", 0, 0)
	if err != nil {
		t.Fatal(err)
	}

	if err := mgr.Move(u.ID, 2, 2); err == nil {
		t.Fatal("expected non-adjacent move to fail")
	}

	before := u.MovementLeft
	if err := mgr.Move(u.ID, 1, 1); err != nil {
		t.Fatalf("adjacent move failed: %v", err)
	}
	if u.MovementLeft >= before {
		t.Fatalf("expected movement to be debited: before=%d after=%d", before, u.MovementLeft)
	}
	if u.X != 1 || u.Y != 1 {
		t.Fatalf("unit did not relocate: (%d,%d)", u.X, u.Y)
	}
}

func TestMoveRejectsOntoEnemyUnit(t *testing.T) {
	m := mapstate.NewMap(5, 5, "seed", "RANDOM", false)
	mgr := NewManager(testRuleset(), m)
	attacker, _ := mgr.Create("p1", "warrior", 0, 0)
	if _, err := mgr.Create("p2", "warrior", 1, 1); err != nil {
		t.Fatal(err)
	}

	if err := mgr.Move(attacker.ID, 1, 1); err == nil {
		t.Fatal("expected move onto an enemy combat unit to fail")
	}
}

func TestAttackDealsDamageAndSpendsAllMovement(t *testing.T) {
	m := mapstate.NewMap(5, 5, "seed", "RANDOM", false)
	mgr := NewManager(testRuleset(), m)
	attacker, _ := mgr.Create("p1", "warrior", 0, 0)
	defender, _ := mgr.Create("p2", "warrior", 1, 0)

	result, err := mgr.Attack(attacker.ID, defender.ID, 1, rng.New("combat-test"))
	if err != nil {
		t.Fatalf("attack failed: %v", err)
	}
	if !result.AttackerDestroyed && !result.DefenderDestroyed &&
		result.AttackerDamage == 0 && result.DefenderDamage == 0 {
		t.Fatal("expected combat to produce some damage")
	}
	if attacker.MovementLeft != 0 {
		t.Fatalf("attacker should spend all remaining movement on attack, got %d", attacker.MovementLeft)
	}
}

func TestResetMovementHealsFortifiedUnitsOffOwnTerritory(t *testing.T) {
	m := mapstate.NewMap(5, 5, "seed", "RANDOM", false)
	mgr := NewManager(testRuleset(), m)
	u, _ := mgr.Create("p1", "warrior", 0, 0)
	u.Health = 50
	u.Fortified = true

	notOwn := func(x, y int) bool { return false }
	mgr.ResetMovement("p1", notOwn)

	if u.Health != 60 {
		t.Fatalf("expected a fortified unit to heal +10 regardless of territory, got %d", u.Health)
	}
}

func TestResetMovementZeroesNonFortifiedHealingOffOwnTerritory(t *testing.T) {
	m := mapstate.NewMap(5, 5, "seed", "RANDOM", false)
	mgr := NewManager(testRuleset(), m)
	u, _ := mgr.Create("p1", "warrior", 0, 0)
	u.Health = 50

	notOwn := func(x, y int) bool { return false }
	mgr.ResetMovement("p1", notOwn)

	if u.Health != 50 {
		t.Fatalf("expected no healing off own territory for a non-fortified unit, got %d", u.Health)
	}
}
