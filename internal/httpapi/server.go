// Package httpapi is the HTTP/SSE surface of spec.md §6: a plain
// net/http.ServeMux + JSON surface fronting the Game Instance Registry,
// grounded on web/server/api.go's mux-registration shape and
// web/server/auth.go's session wiring, reimplemented over
// net/http.ServeMux + alexedwards/scs instead of grpc-gateway/Connect
// (see DESIGN.md for why the generated transport was dropped).
package httpapi

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/otel"

	"github.com/turnforge/atlascore/internal/game"
	"github.com/turnforge/atlascore/internal/ruleset"
	"github.com/turnforge/atlascore/internal/storage"
)

const instrumentationName = "github.com/turnforge/atlascore/internal/httpapi"

var (
	Tracer = otel.Tracer(instrumentationName)
	Logger = otelslog.NewLogger(instrumentationName)
)

// Server wires the Game Instance Registry, the durable Store, and the
// default Ruleset Provider into one http.Handler.
type Server struct {
	Registry *game.Registry
	Store    *storage.Store
	Ruleset  ruleset.Provider
	Sessions *scs.SessionManager

	mux *http.ServeMux
}

// NewServer builds the Server and registers every route.
func NewServer(reg *game.Registry, store *storage.Store, rs ruleset.Provider) *Server {
	sm := scs.New()
	sm.Lifetime = 24 * time.Hour
	sm.Cookie.Name = "atlascore_session"

	s := &Server{Registry: reg, Store: store, Ruleset: rs, Sessions: sm}
	s.mux = http.NewServeMux()
	s.routes()
	return s
}

// Handler returns the fully wired handler, logging then session
// middleware then the mux, mirroring webserver.go's withLogger(CORS(mux))
// wrapping order.
func (s *Server) Handler() http.Handler {
	return withLogging(s.Sessions.LoadAndSave(s.mux))
}

func (s *Server) routes() {
	s.mux.HandleFunc("GET /health", handleHealth)

	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	s.mux.HandleFunc("GET /api/games", s.handleListGames)
	s.mux.HandleFunc("POST /api/games", s.requireAuth(s.handleCreateGame))
	s.mux.HandleFunc("GET /api/games/{id}", s.handleGetGame)
	s.mux.HandleFunc("POST /api/games/{id}/join", s.requireAuth(s.handleJoinGame))
	s.mux.HandleFunc("POST /api/games/{id}/observe", s.requireAuth(s.handleObserveGame))
	s.mux.HandleFunc("DELETE /api/games/{id}", s.requireAuth(s.handleDeleteGame))

	s.mux.HandleFunc("GET /api/games/{id}/map", s.requireAuth(s.handleGetMap))
	s.mux.HandleFunc("GET /api/games/{id}/units", s.requireAuth(s.handleGetUnits))
	s.mux.HandleFunc("GET /api/games/{id}/cities", s.requireAuth(s.handleGetCities))
	s.mux.HandleFunc("GET /api/games/{id}/tiles", s.requireAuth(s.handleGetTiles))

	s.mux.HandleFunc("POST /api/games/{id}/turns/resolve", s.requireAuth(s.handleResolveTurn))

	s.mux.HandleFunc("GET /api/nations", s.handleListNations)
	s.mux.HandleFunc("GET /api/nations/rulesets", s.handleListRulesets)
	s.mux.HandleFunc("GET /api/nations/{id}", s.handleGetNation)
	s.mux.HandleFunc("GET /api/nations/{id}/leaders", s.handleNationLeaders)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// withLogging logs method, path, status, and latency the way
// webserver.go's withLogger wraps httpsnoop around the handler, minus
// the third-party dependency (the small statusWriter wrapper below is
// all that's needed for a status code + duration log line).
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		Logger.InfoContext(r.Context(), "http request",
			"method", r.Method, "path", r.URL.Path,
			"status", sw.status, "duration_ms", time.Since(start).Milliseconds())
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Flush lets the SSE handler keep using http.Flusher through the
// logging wrapper.
func (w *statusWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Start runs the server until ctx is cancelled, mirroring
// webserver.go's StartWithHandler shutdown-channel pattern over a
// caller-supplied context instead of a stop channel.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.Handler(),
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()
	Logger.Info("http server listening", "addr", addr)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
