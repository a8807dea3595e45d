package units

import (
	"fmt"
	"sort"

	"github.com/turnforge/atlascore/internal/errs"
	"github.com/turnforge/atlascore/internal/ids"
	"github.com/turnforge/atlascore/internal/mapstate"
	"github.com/turnforge/atlascore/internal/rng"
	"github.com/turnforge/atlascore/internal/ruleset"
)

// Manager owns every unit in one game and mediates all mutation
// through the Map it was constructed with, matching the "concrete
// service the Game Instance holds by composition" design note.
type Manager struct {
	rs    ruleset.Provider
	m     *mapstate.Map
	units map[string]*Unit
}

func NewManager(rs ruleset.Provider, m *mapstate.Map) *Manager {
	return &Manager{rs: rs, m: m, units: map[string]*Unit{}}
}

// UnitRefs adapts the manager's live units into the map[string]UnitRef
// mapstate.Tile.HasCivilian expects, without mapstate importing units.
func (mgr *Manager) UnitRefs() map[string]mapstate.UnitRef {
	out := make(map[string]mapstate.UnitRef, len(mgr.units))
	for id, u := range mgr.units {
		out[id] = u
	}
	return out
}

// Get returns a unit by id, or UnknownId.
func (mgr *Manager) Get(id string) (*Unit, error) {
	u, ok := mgr.units[id]
	if !ok {
		return nil, errs.New(errs.UnknownId, fmt.Sprintf("unknown unit %q", id))
	}
	return u, nil
}

// ForPlayer returns a player's units in stable id order.
func (mgr *Manager) ForPlayer(player string) []*Unit {
	var out []*Unit
	for _, u := range mgr.units {
		if u.OwnerID == player {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Create places a new unit for player at (x,y), per spec.md §4.5.
func (mgr *Manager) Create(player, unitType string, x, y int) (*Unit, error) {
	ut, err := mgr.rs.UnitType(unitType)
	if err != nil {
		return nil, errs.New(errs.UnknownId, fmt.Sprintf("unknown unit type %q", unitType))
	}
	tile, err := mgr.m.Tile(x, y)
	if err != nil {
		return nil, errs.New(errs.InvalidInput, fmt.Sprintf("invalid position (%d,%d): %v", x, y, err))
	}
	if tile.Terrain.IsOceanFamily() {
		// naval units are out of this ruleset's default unit types; every
		// spawn is a land unit and so never targets ocean.
		return nil, errs.New(errs.InvalidInput, "cannot create a land unit on ocean")
	}
	if ut.Combat == 0 && tile.HasCivilian(mgr.UnitRefs()) {
		return nil, errs.New(errs.CivilianStackingForbidden, fmt.Sprintf("tile (%d,%d) already holds a friendly civilian", x, y))
	}

	u := &Unit{
		ID:           ids.New("unit"),
		OwnerID:      player,
		Type:         ut.ID,
		Combat:       ut.Combat,
		X:            x,
		Y:            y,
		Health:       100,
		MovementLeft: ut.MaxMovement,
		MaxMovement:  ut.MaxMovement,
		SightRange:   ut.SightRange,
		VeteranBonus: ut.VeteranBonus,
	}
	mgr.units[u.ID] = u
	tile.UnitIDs[u.ID] = true
	return u, nil
}

// Move relocates a unit to an adjacent, reachable, non-enemy-occupied
// tile, debiting movement and unfortifying, per spec.md §4.5.
func (mgr *Manager) Move(unitID string, toX, toY int) error {
	u, err := mgr.Get(unitID)
	if err != nil {
		return err
	}
	dist := mapstate.Distance(u.X, u.Y, toX, toY)
	if dist != 1 {
		return errs.New(errs.InvalidInput, "destination is not adjacent")
	}
	toTile, err := mgr.m.Tile(toX, toY)
	if err != nil {
		return errs.New(errs.OutOfBounds, err.Error())
	}
	for id := range toTile.UnitIDs {
		other, ok := mgr.units[id]
		if ok && other.OwnerID != u.OwnerID && other.Combat > 0 {
			return errs.New(errs.CannotMoveOntoEnemyUnit, "destination holds an enemy unit; use attack instead")
		}
	}
	if u.IsCivilian() && toTile.HasCivilian(mgr.UnitRefs()) {
		return errs.New(errs.CivilianStackingForbidden, "destination already holds a friendly civilian")
	}

	cost, err := mgr.m.MovementCost(toX, toY)
	if err != nil {
		return err
	}
	if toTile.Terrain.IsOceanFamily() {
		return errs.New(errs.InvalidInput, "boats-only terrain; land unit cannot enter ocean")
	}
	if u.MovementLeft < cost {
		return errs.New(errs.NotEnoughMovement, fmt.Sprintf("need %d movement, have %d", cost, u.MovementLeft))
	}

	fromTile, _ := mgr.m.Tile(u.X, u.Y)
	delete(fromTile.UnitIDs, u.ID)
	toTile.UnitIDs[u.ID] = true

	u.X, u.Y = toX, toY
	u.MovementLeft -= cost
	u.Fortified = false
	u.FortifiedSince = 0
	u.Sentry = false
	return nil
}

// AttackResult is the outcome reported by Attack, per spec.md §4.5.
type AttackResult struct {
	AttackerDamage    int
	DefenderDamage    int
	AttackerDestroyed bool
	DefenderDestroyed bool
}

// terrainDefenseBonus mirrors the teacher's combat.go notion of
// terrain modifying the defender's effective strength.
func terrainDefenseBonus(t mapstate.Terrain) float64 {
	switch t {
	case mapstate.Hills:
		return 0.50
	case mapstate.Mountains:
		return 1.00
	case mapstate.Forest, mapstate.Jungle, mapstate.Swamp:
		return 0.25
	default:
		return 0.0
	}
}

func effectiveStrength(base, veteranLevel, veteranBonusPct int, terrainBonus float64) float64 {
	strength := float64(base) * (1.0 + float64(veteranLevel)*float64(veteranBonusPct)/100.0)
	return strength * (1.0 + terrainBonus)
}

// Attack resolves combat between two units, consuming the attacker's
// remaining movement regardless of outcome, per spec.md §4.5.
func (mgr *Manager) Attack(attackerID, defenderID string, currentTurn int, stream *rng.Stream) (AttackResult, error) {
	attacker, err := mgr.Get(attackerID)
	if err != nil {
		return AttackResult{}, err
	}
	defender, err := mgr.Get(defenderID)
	if err != nil {
		return AttackResult{}, err
	}
	if mapstate.Distance(attacker.X, attacker.Y, defender.X, defender.Y) != 1 {
		return AttackResult{}, errs.New(errs.InvalidInput, "defender is not adjacent")
	}

	defTile, _ := mgr.m.Tile(defender.X, defender.Y)
	attackerLoadout, _ := mgr.rs.UnitType(attacker.Type)
	defenderLoadout, _ := mgr.rs.UnitType(defender.Type)

	defenseBonus := terrainDefenseBonus(defTile.Terrain)
	if hasFortifyBonus(defender, currentTurn) {
		defenseBonus += 0.50
	}
	attackStrength := effectiveStrength(attackerLoadout.Combat, attacker.VeteranLevel, attacker.VeteranBonus, 0)
	defendStrength := effectiveStrength(defenderLoadout.Combat, defender.VeteranLevel, defender.VeteranBonus, defenseBonus)

	total := attackStrength + defendStrength
	var attackerDamage, defenderDamage int
	if total <= 0 {
		attackerDamage, defenderDamage = 50, 50
	} else {
		winProb := attackStrength / total
		rounds := 4
		for i := 0; i < rounds; i++ {
			if stream.Chance(winProb) {
				defenderDamage += 20 + stream.Intn(10)
			} else {
				attackerDamage += 20 + stream.Intn(10)
			}
		}
	}

	defender.Health -= defenderDamage
	attacker.Health -= attackerDamage

	result := AttackResult{AttackerDamage: attackerDamage, DefenderDamage: defenderDamage}
	if defender.Health <= 0 {
		result.DefenderDestroyed = true
		mgr.destroy(defender)
	} else if stream.Chance(0.15) {
		defender.VeteranLevel++
	}
	if attacker.Health <= 0 {
		result.AttackerDestroyed = true
		mgr.destroy(attacker)
	} else if !result.DefenderDestroyed && stream.Chance(0.15) {
		attacker.VeteranLevel++
	}

	attacker.MovementLeft = 0
	attacker.Fortified = false
	attacker.FortifiedSince = 0
	return result, nil
}

func (mgr *Manager) destroy(u *Unit) {
	if t, err := mgr.m.Tile(u.X, u.Y); err == nil {
		delete(t.UnitIDs, u.ID)
	}
	delete(mgr.units, u.ID)
}

// Consume removes a unit outright, with no combat involved — used when
// a settler is spent founding a city, per spec.md §3.
func (mgr *Manager) Consume(unitID string) error {
	u, err := mgr.Get(unitID)
	if err != nil {
		return err
	}
	mgr.destroy(u)
	return nil
}

// Fortify, Sentry, SkipTurn set per-turn unit state, per spec.md §4.5.
func (mgr *Manager) Fortify(unitID string, currentTurn int) error {
	u, err := mgr.Get(unitID)
	if err != nil {
		return err
	}
	u.Fortified = true
	u.FortifiedSince = currentTurn
	return nil
}

func (mgr *Manager) Sentry(unitID string) error {
	u, err := mgr.Get(unitID)
	if err != nil {
		return err
	}
	u.Sentry = true
	return nil
}

func (mgr *Manager) SkipTurn(unitID string) error {
	u, err := mgr.Get(unitID)
	if err != nil {
		return err
	}
	u.SkippedTurn = true
	return nil
}

// hasFortifyBonus reports whether a unit has been fortified for at
// least one full turn, per spec.md §4.5's "after one full turn" clause.
func hasFortifyBonus(u *Unit, currentTurn int) bool {
	return u.Fortified && u.FortifiedSince > 0 && currentTurn > u.FortifiedSince
}

// ResetMovement restores a player's units to full movement at turn
// start and applies territory-aware healing, per spec.md §4.5.
func (mgr *Manager) ResetMovement(player string, onOwnTerritory func(x, y int) bool) {
	for _, u := range mgr.ForPlayer(player) {
		u.MovementLeft = u.MaxMovement
		u.SkippedTurn = false

		var heal int
		if u.Fortified {
			heal = 10
		} else if onOwnTerritory == nil || onOwnTerritory(u.X, u.Y) {
			heal = 5
		}
		u.Health += heal
		if u.Health > 100 {
			u.Health = 100
		}
	}
}

// LoadUnits rehydrates units from persistence, clamping any corrupted
// movement_left into [0, type.max_movement], per spec.md §4.5.
func (mgr *Manager) LoadUnits(loaded []*Unit) {
	mgr.units = make(map[string]*Unit, len(loaded))
	for _, u := range loaded {
		if u.MovementLeft < 0 {
			u.MovementLeft = 0
		}
		if u.MovementLeft > u.MaxMovement {
			u.MovementLeft = u.MaxMovement
		}
		mgr.units[u.ID] = u
		if t, err := mgr.m.Tile(u.X, u.Y); err == nil {
			t.UnitIDs[u.ID] = true
		}
	}
}

// All returns every unit in stable id order, for persistence snapshots.
func (mgr *Manager) All() []*Unit {
	out := make([]*Unit, 0, len(mgr.units))
	for _, u := range mgr.units {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
