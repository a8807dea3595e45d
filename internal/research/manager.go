// Package research implements the Research Manager of spec.md §4.7.
// Grounded on the same TechTree/HasPrereqs shape cities.Manager uses
// for production (1siamBot-rts-engine's engine/systems/production.go),
// specialized to per-player bulb accumulation and tech completion.
package research

import (
	"fmt"

	"github.com/turnforge/atlascore/internal/errs"
	"github.com/turnforge/atlascore/internal/ruleset"
)

// PlayerResearch is one player's research state.
type PlayerResearch struct {
	PlayerID         string
	CurrentTech      string // "" if awaiting client selection
	BulbsAccumulated int
	Completed        map[string]bool
}

func newPlayerResearch(player string) *PlayerResearch {
	return &PlayerResearch{PlayerID: player, Completed: map[string]bool{}}
}

// Manager owns every player's research state in one game.
type Manager struct {
	rs    ruleset.Provider
	state map[string]*PlayerResearch
}

func NewManager(rs ruleset.Provider) *Manager {
	return &Manager{rs: rs, state: map[string]*PlayerResearch{}}
}

func (mgr *Manager) stateFor(player string) *PlayerResearch {
	s, ok := mgr.state[player]
	if !ok {
		s = newPlayerResearch(player)
		mgr.state[player] = s
	}
	return s
}

// Get returns a player's research state (read-only snapshot).
func (mgr *Manager) Get(player string) *PlayerResearch {
	return mgr.stateFor(player)
}

func hasPrereqs(tech ruleset.Tech, completed map[string]bool) bool {
	for _, p := range tech.Prereqs {
		if !completed[p] {
			return false
		}
	}
	return true
}

// SetCurrentResearch assigns the player's active research target, per
// spec.md §4.7.
func (mgr *Manager) SetCurrentResearch(player, tech string) error {
	t, err := mgr.rs.Tech(tech)
	if err != nil {
		return err
	}
	s := mgr.stateFor(player)
	if s.Completed[tech] {
		return errs.New(errs.AlreadyResearched, fmt.Sprintf("%s already researched by %s", tech, player))
	}
	if !hasPrereqs(t, s.Completed) {
		return errs.New(errs.PrereqNotMet, fmt.Sprintf("%s requires %v", tech, t.Prereqs))
	}
	s.CurrentTech = tech
	return nil
}

// AddResearchPoints adds bulbs to the player's current tech, completing
// it when the accumulated total reaches cost, per spec.md §4.7. At most
// one tech completes per call: completion clears CurrentTech, and any
// excess bulbs stay on BulbsAccumulated for the next selected tech.
func (mgr *Manager) AddResearchPoints(player string, n int) []string {
	s := mgr.stateFor(player)
	s.BulbsAccumulated += n

	var completed []string
	for s.CurrentTech != "" {
		t, err := mgr.rs.Tech(s.CurrentTech)
		if err != nil {
			s.CurrentTech = ""
			break
		}
		if s.BulbsAccumulated < t.Cost {
			break
		}
		s.BulbsAccumulated -= t.Cost
		s.Completed[t.ID] = true
		completed = append(completed, t.ID)
		s.CurrentTech = "" // awaiting client selection, per spec.md §4.7
	}
	return completed
}

// AvailableTechs returns the set of unresearched techs whose prereqs
// are a subset of the player's completed set, per spec.md §4.7.
func (mgr *Manager) AvailableTechs(player string) []string {
	s := mgr.stateFor(player)
	var out []string
	for id, t := range mgr.rs.Techs() {
		if s.Completed[id] {
			continue
		}
		if hasPrereqs(t, s.Completed) {
			out = append(out, id)
		}
	}
	return out
}

// LoadPlayerResearch rehydrates research state from persistence.
func (mgr *Manager) LoadPlayerResearch(loaded []*PlayerResearch) {
	mgr.state = make(map[string]*PlayerResearch, len(loaded))
	for _, s := range loaded {
		if s.Completed == nil {
			s.Completed = map[string]bool{}
		}
		mgr.state[s.PlayerID] = s
	}
}
