// Package turns implements the Turn Coordinator of spec.md §4.9: a
// single-writer, idempotent per-game turn resolver that replays
// buffered player actions in a stable deterministic order, advances
// cities/units/research/visibility, and streams progress the way the
// teacher's GameSyncService streams combat resolution — grounded on
// services/server/grpcserver.go's streaming intent, reimplemented
// over net/http's http.Flusher since the generated Connect/gRPC-gateway
// stack this spec drops never shipped an http.Flusher-free transport.
package turns

// ActionKind enumerates the wire action types of spec.md §6.2.
type ActionKind string

const (
	ActionUnitMove          ActionKind = "unit_move"
	ActionUnitAttack        ActionKind = "unit_attack"
	ActionFoundCity         ActionKind = "found_city"
	ActionResearchSelection ActionKind = "research_selection"
	ActionSetProduction     ActionKind = "set_production"
	ActionFortify           ActionKind = "fortify"
	ActionEndTurn           ActionKind = "end_turn"
)

// Action is one player-submitted action, a tagged union over the
// kind-specific fields spec.md §6.2 lists.
type Action struct {
	Kind ActionKind

	UnitID   string
	ToX, ToY int

	AttackerUnitID string
	DefenderUnitID string

	Name string
	X, Y int

	TechID string

	CityID         string
	ProductionID   string
	ProductionKind string
}

// PlayerSubmission is one player's buffered turn submission.
type PlayerSubmission struct {
	PlayerID       string
	TurnVersion    int
	Actions        []Action
	IdempotencyKey string
}
