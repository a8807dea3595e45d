package httpapi

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/turnforge/atlascore/internal/game"
	"github.com/turnforge/atlascore/internal/ruleset"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(game.NewRegistry(), nil, ruleset.NewProvider(ruleset.Default()))
}

// authedRequest builds a request carrying a session context as if the
// session middleware had already loaded and authenticated it, without
// going through handleLogin (which needs a live Store).
func authedRequest(t *testing.T, s *Server, method, path, userID string, body any) *http.Request {
	t.Helper()
	ctx, err := s.Sessions.Load(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if userID != "" {
		s.Sessions.Put(ctx, sessionUserIDKey, userID)
	}
	var r *http.Request
	if body != nil {
		b, _ := json.Marshal(body)
		r = httptest.NewRequest(method, path, bytes.NewReader(b))
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	return r.WithContext(ctx)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestListNationsServesRulesetFixture(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/api/nations", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Nations []nationDTO `json:"nations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Nations) != len(ruleset.Default().Nations) {
		t.Fatalf("expected %d nations, got %d", len(ruleset.Default().Nations), len(body.Nations))
	}
}

func TestCreateGameRequiresAuth(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()
	r := authedRequest(t, s, "POST", "/api/games", "", map[string]any{"name": "Test", "maxPlayers": 1})
	s.mux.ServeHTTP(w, r)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a session user, got %d", w.Code)
	}
}

func TestCreateSinglePlayerGameStartsImmediately(t *testing.T) {
	s := newTestServer(t)
	w := httptest.NewRecorder()
	r := authedRequest(t, s, "POST", "/api/games", "user-1", map[string]any{
		"name": "Solo Game", "maxPlayers": 1,
		"mapWidth": 20, "mapHeight": 20,
	})
	s.mux.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool   `json:"success"`
		GameID  string `json:"gameId"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Success || resp.GameID == "" {
		t.Fatalf("expected a created game id, got %+v", resp)
	}

	g, err := s.Registry.Get(resp.GameID)
	if err != nil {
		t.Fatal(err)
	}
	if g.Status != game.StatusPlaying {
		t.Fatalf("expected a single-player game to start immediately, got status %s", g.Status)
	}
	if g.Map == nil {
		t.Fatal("expected the map to be generated for a single-player game")
	}
}

func TestJoinGameFillsLobbyAndStartsGame(t *testing.T) {
	s := newTestServer(t)

	createW := httptest.NewRecorder()
	createR := authedRequest(t, s, "POST", "/api/games", "host-1", map[string]any{
		"name": "Two Player", "maxPlayers": 2, "mapWidth": 20, "mapHeight": 20,
	})
	s.mux.ServeHTTP(createW, createR)
	var createResp struct {
		GameID string `json:"gameId"`
	}
	json.Unmarshal(createW.Body.Bytes(), &createResp)

	g, err := s.Registry.Get(createResp.GameID)
	if err != nil {
		t.Fatal(err)
	}
	if g.Status != game.StatusLobby {
		t.Fatalf("expected a 2-player game to remain in lobby after creation, got %s", g.Status)
	}

	joinW := httptest.NewRecorder()
	joinR := authedRequest(t, s, "POST", "/api/games/"+createResp.GameID+"/join", "user-2", map[string]any{})
	s.mux.ServeHTTP(joinW, joinR)
	if joinW.Code != http.StatusOK {
		t.Fatalf("expected join to succeed, got %d: %s", joinW.Code, joinW.Body.String())
	}

	if g.Status != game.StatusPlaying {
		t.Fatalf("expected the game to start once the roster filled, got %s", g.Status)
	}
}

func TestResolveTurnStreamsProgressAndEndsTurn(t *testing.T) {
	s := newTestServer(t)

	createW := httptest.NewRecorder()
	createR := authedRequest(t, s, "POST", "/api/games", "host-1", map[string]any{
		"name": "Solo Resolve", "maxPlayers": 1, "mapWidth": 20, "mapHeight": 20,
	})
	s.mux.ServeHTTP(createW, createR)
	var createResp struct {
		GameID string `json:"gameId"`
	}
	json.Unmarshal(createW.Body.Bytes(), &createResp)

	resolveW := httptest.NewRecorder()
	resolveR := authedRequest(t, s, "POST", "/api/games/"+createResp.GameID+"/turns/resolve", "host-1", map[string]any{
		"turnVersion":   1,
		"playerActions": []map[string]any{{"type": "end_turn"}},
	})
	s.mux.ServeHTTP(resolveW, resolveR)

	if resolveW.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resolveW.Code)
	}
	if ct := resolveW.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected an SSE content type, got %q", ct)
	}

	sawDone := false
	scanner := bufio.NewScanner(strings.NewReader(resolveW.Body.String()))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var frame struct {
			Stage   string `json:"stage"`
			Success *bool  `json:"success"`
		}
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &frame); err != nil {
			t.Fatal(err)
		}
		if frame.Stage == "done" {
			sawDone = true
			if frame.Success == nil || !*frame.Success {
				t.Fatal("expected the terminal frame to report success")
			}
		}
	}
	if !sawDone {
		t.Fatal("expected a terminal \"done\" SSE frame")
	}

	g, err := s.Registry.Get(createResp.GameID)
	if err != nil {
		t.Fatal(err)
	}
	if g.Turns.TurnVersion != 2 {
		t.Fatalf("expected the turn to advance to 2, got %d", g.Turns.TurnVersion)
	}
}
