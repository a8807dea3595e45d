package httpapi

import (
	"net/http"

	"github.com/turnforge/atlascore/internal/errs"
	"github.com/turnforge/atlascore/internal/ids"
	"github.com/turnforge/atlascore/internal/storage"
)

const sessionUserIDKey = "userId"

// handleLogin implements spec.md §6.1's simple username login: no
// password, replacing the teacher's OAuth flow (web/server/auth.go's
// oneauth wiring, dropped per DESIGN.md — no OAuth provider credentials
// are in scope here). A first-seen username is registered on the fly.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
	}
	if err := decodeJSON(r, &body); err != nil || body.Username == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": string(errs.InvalidInput), "message": "username is required"})
		return
	}

	ctx := r.Context()
	user, err := s.Store.GetUserByUsername(ctx, body.Username)
	if errs.KindOf(err) == errs.UnknownId {
		user = &storage.UserGORM{ID: ids.New("user"), Username: body.Username}
		if err := s.Store.CreateUser(ctx, user); err != nil {
			writeError(w, err)
			return
		}
	} else if err != nil {
		writeError(w, err)
		return
	}

	if err := s.Sessions.RenewToken(ctx); err != nil {
		writeError(w, errs.Wrap(errs.Internal, "renew session token", err))
		return
	}
	s.Sessions.Put(ctx, sessionUserIDKey, user.ID)

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"sessionId": s.Sessions.Token(ctx),
	})
}

func (s *Server) currentUserID(r *http.Request) string {
	return s.Sessions.GetString(r.Context(), sessionUserIDKey)
}

// requireAuth rejects requests with no session user before delegating,
// the single authorization check most of §6.1's mutating endpoints need.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.currentUserID(r) == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{
				"error": string(errs.NotAuthenticated), "message": "login required",
			})
			return
		}
		next(w, r)
	}
}
