// Package errs defines the stable error-kind vocabulary shared by every
// manager and the HTTP surface. A Kind is a wire-stable string; the
// Message is for humans and may change across releases.
package errs

import "fmt"

type Kind string

const (
	InvalidInput     Kind = "InvalidInput"
	OutOfBounds      Kind = "OutOfBounds"
	UnknownId        Kind = "UnknownId"
	UnknownRuleset   Kind = "UnknownRuleset"
	NotAuthenticated Kind = "NotAuthenticated"
	NotHost          Kind = "NotHost"
	NotPlayerTurn    Kind = "NotPlayerTurn"

	GameFull        Kind = "GameFull"
	NationTaken     Kind = "NationTaken"
	GameNotJoinable Kind = "GameNotJoinable"
	GameNotActive   Kind = "GameNotActive"
	StaleTurn       Kind = "StaleTurn"

	CivilianStackingForbidden Kind = "CivilianStackingForbidden"
	CannotMoveOntoEnemyUnit   Kind = "CannotMoveOntoEnemyUnit"
	NotEnoughMovement         Kind = "NotEnoughMovement"
	InvalidFounderPosition    Kind = "InvalidFounderPosition"
	CityTooClose              Kind = "CityTooClose"
	BuildingAlreadyPresent    Kind = "BuildingAlreadyPresent"
	PrereqNotMet              Kind = "PrereqNotMet"
	AlreadyResearched         Kind = "AlreadyResearched"

	MapGenerationFailed Kind = "MapGenerationFailed"
	PersistenceFailed   Kind = "PersistenceFailed"
	Internal            Kind = "Internal"
)

// Error is the error type every manager returns for domain-rule failures.
// It carries a stable Kind plus a human Message; it never wraps a stack
// trace onto the wire (see spec.md §7).
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// KindOf extracts the Kind of err, defaulting to Internal for anything
// that isn't an *Error produced by this package.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if ok := asError(err, &e); ok {
		return e.Kind
	}
	return Internal
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
