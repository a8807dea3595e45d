package turns

import (
	"fmt"

	"github.com/turnforge/atlascore/internal/cities"
	"github.com/turnforge/atlascore/internal/errs"
	"github.com/turnforge/atlascore/internal/mapstate"
	"github.com/turnforge/atlascore/internal/research"
	"github.com/turnforge/atlascore/internal/rng"
	"github.com/turnforge/atlascore/internal/units"
	"github.com/turnforge/atlascore/internal/visibility"
)

// ProgressEvent is one frame of the SSE stream described in spec.md
// §6.3.
type ProgressEvent struct {
	Stage      string  `json:"stage"`
	Message    string  `json:"message"`
	Progress   float64 `json:"progress"`
	ActionType string  `json:"actionType,omitempty"`
	Error      string  `json:"error,omitempty"`
	Success    *bool   `json:"success,omitempty"`
	Turn       int     `json:"turn,omitempty"`
}

// cachedResult is what an idempotent resubmission replays verbatim.
type cachedResult struct {
	events []ProgressEvent
}

// Coordinator is the per-game Turn Coordinator of spec.md §4.9. One
// Coordinator instance belongs to exactly one Game Instance, enforcing
// the single-writer scheduling model described in §5 by never being
// shared across goroutines without the caller's own serialization.
type Coordinator struct {
	gameSeed    int64
	playerIDs   []string // stable order: resolution replays players in this order
	connected   map[string]bool

	TurnVersion  int
	hasEndedTurn map[string]bool
	pending      map[string]*PlayerSubmission
	idempotency  map[string]*cachedResult // key: playerID + "|" + idempotencyKey

	m         *mapstate.Map
	unitsM    *units.Manager
	citiesM   *cities.Manager
	researchM *research.Manager
	visM      *visibility.Manager
}

func NewCoordinator(gameSeed int64, playerIDs []string, m *mapstate.Map, unitsM *units.Manager, citiesM *cities.Manager, researchM *research.Manager, visM *visibility.Manager) *Coordinator {
	connected := make(map[string]bool, len(playerIDs))
	ended := make(map[string]bool, len(playerIDs))
	for _, p := range playerIDs {
		connected[p] = true
	}
	return &Coordinator{
		gameSeed:     gameSeed,
		playerIDs:    append([]string{}, playerIDs...),
		connected:    connected,
		TurnVersion:  1,
		hasEndedTurn: ended,
		pending:      map[string]*PlayerSubmission{},
		idempotency:  map[string]*cachedResult{},
		m:            m,
		unitsM:       unitsM,
		citiesM:      citiesM,
		researchM:    researchM,
		visM:         visM,
	}
}

func (c *Coordinator) SetConnected(player string, connected bool) {
	c.connected[player] = connected
}

// ResolveTurn buffers one player's submission and, once every
// connected player has submitted (or is force-resolved by a caller-
// driven timeout), resolves the turn and streams progress via emit,
// per spec.md §4.9.
func (c *Coordinator) ResolveTurn(sub PlayerSubmission, emit func(ProgressEvent)) error {
	key := sub.PlayerID + "|" + sub.IdempotencyKey
	if sub.IdempotencyKey != "" {
		if cached, ok := c.idempotency[key]; ok {
			for _, e := range cached.events {
				emit(e)
			}
			return nil
		}
	}

	if sub.TurnVersion != c.TurnVersion {
		return errs.New(errs.StaleTurn, fmt.Sprintf("turn %d != current %d", sub.TurnVersion, c.TurnVersion))
	}

	c.pending[sub.PlayerID] = &sub
	c.hasEndedTurn[sub.PlayerID] = true

	if !c.allSubmitted() {
		emit(ProgressEvent{Stage: "buffered", Message: "waiting for other players", Progress: 0})
		return nil
	}

	events := c.resolve()
	for _, e := range events {
		emit(e)
	}
	if sub.IdempotencyKey != "" {
		c.idempotency[key] = &cachedResult{events: events}
	}
	return nil
}

// ForceResolve converts every non-submitting connected player into an
// "ended turn" with empty actions and resolves immediately, modeling
// the per-turn timeout of spec.md §5.
func (c *Coordinator) ForceResolve(emit func(ProgressEvent)) {
	for _, p := range c.playerIDs {
		if !c.connected[p] {
			continue
		}
		if _, ok := c.pending[p]; !ok {
			c.pending[p] = &PlayerSubmission{PlayerID: p, TurnVersion: c.TurnVersion}
			c.hasEndedTurn[p] = true
		}
	}
	events := c.resolve()
	for _, e := range events {
		emit(e)
	}
}

func (c *Coordinator) allSubmitted() bool {
	for _, p := range c.playerIDs {
		if !c.connected[p] {
			continue
		}
		if !c.hasEndedTurn[p] {
			return false
		}
	}
	return true
}

func boolPtr(b bool) *bool { return &b }

// resolve runs the six resolution stages of spec.md §4.9, rolling back
// to the pre-resolution snapshot on any stage error.
func (c *Coordinator) resolve() []ProgressEvent {
	var events []ProgressEvent
	emit := func(e ProgressEvent) { events = append(events, e) }

	snap := c.takeSnapshot()
	fail := func(stage string, err error) []ProgressEvent {
		c.restoreSnapshot(snap)
		emit(ProgressEvent{Stage: stage, Message: err.Error(), Progress: 1, Error: string(errs.KindOf(err)), Success: boolPtr(false)})
		return events
	}

	emit(ProgressEvent{Stage: "actions", Message: "replaying player actions", Progress: 0.1})
	// Stable player order per spec.md §4.9: the Coordinator's own
	// playerIDs order (join order), not a lexical resort.
	stablePlayers := c.playerIDs

	totalActions := 0
	for _, p := range stablePlayers {
		if sub, ok := c.pending[p]; ok {
			totalActions += len(sub.Actions)
		}
	}
	done := 0
	for _, p := range stablePlayers {
		sub, ok := c.pending[p]
		if !ok {
			continue
		}
		for _, a := range sub.Actions {
			progress := 0.1
			if totalActions > 0 {
				progress = 0.1 + 0.5*float64(done)/float64(totalActions)
			}
			if err := c.applyAction(p, a); err != nil {
				// invalid per-action errors are recorded and skipped, never
				// abort the whole turn, per spec.md §4.9 stage 1.
				emit(ProgressEvent{Stage: "actions", Message: err.Error(), Progress: progress, ActionType: string(a.Kind), Error: string(errs.KindOf(err))})
			} else {
				emit(ProgressEvent{Stage: "actions", Message: "applied", Progress: progress, ActionType: string(a.Kind)})
			}
			done++
		}
	}

	emit(ProgressEvent{Stage: "cities", Message: "processing city production and growth", Progress: 0.65})
	nextTurn := c.TurnVersion + 1
	for _, err := range c.citiesM.ProcessAllCitiesTurn(nextTurn) {
		return fail("cities", err)
	}

	emit(ProgressEvent{Stage: "units", Message: "resetting movement and healing", Progress: 0.8})
	for _, p := range c.playerIDs {
		c.unitsM.ResetMovement(p, c.onOwnTerritory(p))
	}

	emit(ProgressEvent{Stage: "visibility", Message: "updating player visibility", Progress: 0.9})
	for _, p := range c.playerIDs {
		c.visM.UpdatePlayerVisibility(p, c.sightSourcesFor(p))
	}

	c.TurnVersion++
	for p := range c.hasEndedTurn {
		c.hasEndedTurn[p] = false
	}
	c.pending = map[string]*PlayerSubmission{}

	emit(ProgressEvent{Stage: "done", Message: "turn resolved", Progress: 1, Success: boolPtr(true), Turn: c.TurnVersion})
	return events
}

func (c *Coordinator) onOwnTerritory(player string) func(x, y int) bool {
	return func(x, y int) bool {
		t, err := c.m.Tile(x, y)
		if err != nil {
			return false
		}
		if t.CityID == "" {
			return false
		}
		city, err := c.citiesM.Get(t.CityID)
		return err == nil && city.OwnerID == player
	}
}

func (c *Coordinator) sightSourcesFor(player string) []visibility.SightSource {
	var out []visibility.SightSource
	for _, u := range c.unitsM.ForPlayer(player) {
		out = append(out, visibility.SightSource{X: u.X, Y: u.Y, SightRange: u.SightRange})
	}
	for _, city := range c.citiesM.ForPlayer(player) {
		out = append(out, visibility.SightSource{X: city.X, Y: city.Y, SightRange: 2})
	}
	return out
}

// applyAction dispatches one action through the Unit/City/Research
// managers, per spec.md §4.9 stage 1. Per-turn stochastic decisions
// (combat) are seeded from hash(game_seed, turn_version, event_tag),
// per spec.md §5, so a resumed resolve reproduces identical combat.
func (c *Coordinator) applyAction(player string, a Action) error {
	switch a.Kind {
	case ActionUnitMove:
		return c.applyMove(player, a)
	case ActionUnitAttack:
		return c.applyAttack(player, a)
	case ActionFoundCity:
		_, err := c.citiesM.FoundCity(player, a.Name, a.X, a.Y, c.TurnVersion)
		return err
	case ActionResearchSelection:
		return c.researchM.SetCurrentResearch(player, a.TechID)
	case ActionSetProduction:
		return c.citiesM.SetProduction(a.CityID, a.ProductionID, cities.ProductionKind(a.ProductionKind))
	case ActionFortify:
		return c.unitsM.Fortify(a.UnitID, c.TurnVersion)
	case ActionEndTurn:
		return nil
	default:
		return errs.New(errs.InvalidInput, fmt.Sprintf("unknown action kind %q", a.Kind))
	}
}

func (c *Coordinator) applyMove(player string, a Action) error {
	u, err := c.unitsM.Get(a.UnitID)
	if err != nil {
		return err
	}
	if u.OwnerID != player {
		return errs.New(errs.NotPlayerTurn, "unit is not owned by the submitting player")
	}
	return c.unitsM.Move(a.UnitID, a.ToX, a.ToY)
}

func (c *Coordinator) applyAttack(player string, a Action) error {
	attacker, err := c.unitsM.Get(a.AttackerUnitID)
	if err != nil {
		return err
	}
	if attacker.OwnerID != player {
		return errs.New(errs.NotPlayerTurn, "attacker is not owned by the submitting player")
	}
	stream := rng.ForTurnEvent(c.gameSeed, int64(c.TurnVersion), "attack:"+a.AttackerUnitID+">"+a.DefenderUnitID)
	_, err = c.unitsM.Attack(a.AttackerUnitID, a.DefenderUnitID, c.TurnVersion, stream)
	return err
}
