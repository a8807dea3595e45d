package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/turnforge/atlascore/internal/errs"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// writeError maps a domain error's stable Kind onto an HTTP status and
// writes the {error, message} body spec.md §6.1 requires. The wire
// format never carries a stack trace, per §7.
func writeError(w http.ResponseWriter, err error) {
	kind := errs.KindOf(err)
	writeJSON(w, statusFor(kind), map[string]string{
		"error":   string(kind),
		"message": err.Error(),
	})
}

func statusFor(kind errs.Kind) int {
	switch kind {
	case errs.InvalidInput, errs.OutOfBounds:
		return http.StatusBadRequest
	case errs.UnknownId, errs.UnknownRuleset:
		return http.StatusNotFound
	case errs.NotAuthenticated:
		return http.StatusUnauthorized
	case errs.NotHost, errs.NotPlayerTurn:
		return http.StatusForbidden
	case errs.GameFull, errs.NationTaken, errs.GameNotJoinable, errs.GameNotActive, errs.StaleTurn:
		return http.StatusConflict
	case errs.CivilianStackingForbidden, errs.CannotMoveOntoEnemyUnit, errs.NotEnoughMovement,
		errs.InvalidFounderPosition, errs.CityTooClose, errs.BuildingAlreadyPresent,
		errs.PrereqNotMet, errs.AlreadyResearched:
		return http.StatusUnprocessableEntity
	case errs.MapGenerationFailed, errs.PersistenceFailed, errs.Internal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
