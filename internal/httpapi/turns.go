package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/turnforge/atlascore/internal/errs"
	"github.com/turnforge/atlascore/internal/turns"
)

type resolveRequestBody struct {
	TurnVersion    int              `json:"turnVersion"`
	PlayerActions  []actionWireBody `json:"playerActions"`
	IdempotencyKey string           `json:"idempotencyKey"`
}

// actionWireBody is one playerActions[] entry. spec.md §6.2 tags each
// action by its own name ("unit_move {unitId, toX, toY}", …); the wire
// discriminator field is "type" and set_production's building-vs-unit
// tag is renamed to "productionKind" here to avoid colliding with that
// discriminator.
type actionWireBody struct {
	Type           string `json:"type"`
	UnitID         string `json:"unitId"`
	ToX            int    `json:"toX"`
	ToY            int    `json:"toY"`
	AttackerUnitID string `json:"attackerUnitId"`
	DefenderUnitID string `json:"defenderUnitId"`
	Name           string `json:"name"`
	X              int    `json:"x"`
	Y              int    `json:"y"`
	TechID         string `json:"techId"`
	CityID         string `json:"cityId"`
	ProductionID   string `json:"id"`
	ProductionKind string `json:"productionKind"`
}

func (a actionWireBody) toAction() turns.Action {
	return turns.Action{
		Kind:           turns.ActionKind(a.Type),
		UnitID:         a.UnitID,
		ToX:            a.ToX,
		ToY:            a.ToY,
		AttackerUnitID: a.AttackerUnitID,
		DefenderUnitID: a.DefenderUnitID,
		Name:           a.Name,
		X:              a.X,
		Y:              a.Y,
		TechID:         a.TechID,
		CityID:         a.CityID,
		ProductionID:   a.ProductionID,
		ProductionKind: a.ProductionKind,
	}
}

// handleResolveTurn streams the turn-resolution progress of spec.md
// §6.3 as Server-Sent Events. Resolution runs on an errgroup worker so
// a client disconnect (request context cancelled) doesn't leave the
// per-instance lock held past the handler's return, mirroring the
// teacher's intent behind services/server/grpcserver.go's streaming
// RPCs without the generated transport (see DESIGN.md).
func (s *Server) handleResolveTurn(w http.ResponseWriter, r *http.Request) {
	g, userID, err := s.requester(r)
	if err != nil {
		writeError(w, err)
		return
	}
	player := func() string {
		g.Lock()
		defer g.Unlock()
		p := playerByUser(g, userID)
		if p == nil {
			return ""
		}
		return p.ID
	}()
	if player == "" {
		writeJSON(w, http.StatusForbidden, map[string]string{
			"error": string(errs.NotPlayerTurn), "message": "caller is not a player in this game",
		})
		return
	}

	var body resolveRequestBody
	if err := decodeJSON(r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": string(errs.InvalidInput), "message": "malformed request body"})
		return
	}
	actions := make([]turns.Action, len(body.PlayerActions))
	for i, a := range body.PlayerActions {
		actions[i] = a.toAction()
	}
	sub := turns.PlayerSubmission{
		PlayerID: player, TurnVersion: body.TurnVersion, Actions: actions, IdempotencyKey: body.IdempotencyKey,
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, errs.New(errs.Internal, "streaming unsupported by this response writer"))
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	eg, ctx := errgroup.WithContext(r.Context())
	frames := make(chan turns.ProgressEvent, 16)
	eg.Go(func() error {
		defer close(frames)
		g.Lock()
		defer g.Unlock()
		return g.Turns.ResolveTurn(sub, func(e turns.ProgressEvent) {
			select {
			case frames <- e:
			case <-ctx.Done():
			}
		})
	})

	for frame := range frames {
		data, _ := json.Marshal(frame)
		fmt.Fprintf(w, "event: progress\ndata: %s\n\n", data)
		flusher.Flush()
	}
	if err := eg.Wait(); err != nil {
		// headers are already committed to the SSE stream; a terminal
		// error can only be reported as one more frame, not an HTTP status.
		data, _ := json.Marshal(map[string]any{"success": false, "error": string(errs.KindOf(err)), "message": err.Error()})
		fmt.Fprintf(w, "event: progress\ndata: %s\n\n", data)
		flusher.Flush()
	}
}
