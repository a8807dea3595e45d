package turns

import (
	"testing"

	"github.com/turnforge/atlascore/internal/cities"
	"github.com/turnforge/atlascore/internal/mapstate"
	"github.com/turnforge/atlascore/internal/research"
	"github.com/turnforge/atlascore/internal/ruleset"
	"github.com/turnforge/atlascore/internal/units"
	"github.com/turnforge/atlascore/internal/visibility"
)

func newTestCoordinator(t *testing.T, players []string) (*Coordinator, *units.Manager, *cities.Manager) {
	t.Helper()
	rs := ruleset.NewProvider(ruleset.Default())
	m := mapstate.NewMap(10, 10, "coord-seed", "RANDOM", false)
	unitsM := units.NewManager(rs, m)
	citiesM := cities.NewManager(rs, m, unitsM)
	researchM := research.NewManager(rs)
	visM := visibility.NewManager(m)
	return NewCoordinator(42, players, m, unitsM, citiesM, researchM, visM), unitsM, citiesM
}

func TestResolveTurnRejectsStaleSubmission(t *testing.T) {
	c, _, _ := newTestCoordinator(t, []string{"p1"})
	err := c.ResolveTurn(PlayerSubmission{PlayerID: "p1", TurnVersion: 99}, func(ProgressEvent) {})
	if err == nil {
		t.Fatal("expected StaleTurn for a mismatched turn version")
	}
}

func TestResolveTurnBuffersUntilAllConnectedPlayersSubmit(t *testing.T) {
	c, _, _ := newTestCoordinator(t, []string{"p1", "p2"})

	var p1Events []ProgressEvent
	if err := c.ResolveTurn(PlayerSubmission{PlayerID: "p1", TurnVersion: 1, Actions: []Action{{Kind: ActionEndTurn}}}, func(e ProgressEvent) {
		p1Events = append(p1Events, e)
	}); err != nil {
		t.Fatal(err)
	}
	if len(p1Events) != 1 || p1Events[0].Stage != "buffered" {
		t.Fatalf("expected a single buffered event while waiting on p2, got %+v", p1Events)
	}
	if c.TurnVersion != 1 {
		t.Fatalf("turn should not advance until every player submits, got %d", c.TurnVersion)
	}

	var p2Events []ProgressEvent
	if err := c.ResolveTurn(PlayerSubmission{PlayerID: "p2", TurnVersion: 1, Actions: []Action{{Kind: ActionEndTurn}}}, func(e ProgressEvent) {
		p2Events = append(p2Events, e)
	}); err != nil {
		t.Fatal(err)
	}
	last := p2Events[len(p2Events)-1]
	if last.Stage != "done" || last.Success == nil || !*last.Success {
		t.Fatalf("expected a terminal done/success event, got %+v", last)
	}
	if c.TurnVersion != 2 {
		t.Fatalf("expected turn to advance to 2, got %d", c.TurnVersion)
	}
}

func TestResolveTurnIdempotentResubmissionReplaysCachedEvents(t *testing.T) {
	c, _, _ := newTestCoordinator(t, []string{"p1"})

	sub := PlayerSubmission{PlayerID: "p1", TurnVersion: 1, Actions: []Action{{Kind: ActionEndTurn}}, IdempotencyKey: "req-1"}
	var first []ProgressEvent
	if err := c.ResolveTurn(sub, func(e ProgressEvent) { first = append(first, e) }); err != nil {
		t.Fatal(err)
	}
	if c.TurnVersion != 2 {
		t.Fatalf("expected turn to advance once, got %d", c.TurnVersion)
	}

	// Resubmit the identical request (e.g. a retried HTTP call). This
	// must replay the cached result, not try to resolve turn 1 again.
	var second []ProgressEvent
	if err := c.ResolveTurn(sub, func(e ProgressEvent) { second = append(second, e) }); err != nil {
		t.Fatal(err)
	}
	if len(first) != len(second) {
		t.Fatalf("expected identical replayed event count, got %d vs %d", len(first), len(second))
	}
	if c.TurnVersion != 2 {
		t.Fatalf("idempotent replay must not advance the turn again, got %d", c.TurnVersion)
	}
}

func TestResolveTurnMovesUnitAndResetsMovementNextTurn(t *testing.T) {
	c, unitsM, _ := newTestCoordinator(t, []string{"p1"})
	u, err := unitsM.Create("p1", "warrior", 0, 0)
	if err != nil {
		t.Fatal(err)
	}

	sub := PlayerSubmission{
		PlayerID:    "p1",
		TurnVersion: 1,
		Actions:     []Action{{Kind: ActionUnitMove, UnitID: u.ID, ToX: 1, ToY: 0}},
	}
	var events []ProgressEvent
	if err := c.ResolveTurn(sub, func(e ProgressEvent) { events = append(events, e) }); err != nil {
		t.Fatal(err)
	}

	moved, err := unitsM.Get(u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if moved.X != 1 || moved.Y != 0 {
		t.Fatalf("expected unit relocated to (1,0), got (%d,%d)", moved.X, moved.Y)
	}
	if moved.MovementLeft != moved.MaxMovement {
		t.Fatalf("expected movement reset at end of turn resolution, got %d/%d", moved.MovementLeft, moved.MaxMovement)
	}

	last := events[len(events)-1]
	if last.Stage != "done" {
		t.Fatalf("expected a terminal done event, got %+v", last)
	}
}

func TestResolveTurnInvalidActionIsRecordedNotFatal(t *testing.T) {
	c, _, _ := newTestCoordinator(t, []string{"p1"})

	sub := PlayerSubmission{
		PlayerID:    "p1",
		TurnVersion: 1,
		Actions:     []Action{{Kind: ActionUnitMove, UnitID: "no-such-unit", ToX: 1, ToY: 1}},
	}
	var events []ProgressEvent
	if err := c.ResolveTurn(sub, func(e ProgressEvent) { events = append(events, e) }); err != nil {
		t.Fatal(err)
	}

	sawActionError := false
	for _, e := range events {
		if e.Stage == "actions" && e.Error != "" {
			sawActionError = true
		}
	}
	if !sawActionError {
		t.Fatal("expected the invalid move to surface as a per-action error event")
	}
	if c.TurnVersion != 2 {
		t.Fatalf("a per-action error must not abort the whole turn, expected TurnVersion 2, got %d", c.TurnVersion)
	}
}
