// Command worldserver is the server entrypoint of spec.md §6: it wires
// the durable Store, the default Ruleset Provider, and a fresh Game
// Instance Registry into an httpapi.Server and runs it until
// interrupted, grounded on cmd/backend/main.go's flag-parse-then-
// SetupApp-then-Start shape (minus the gRPC/gateway pair it replaces
// with one net/http server — see DESIGN.md).
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/turnforge/atlascore/internal/config"
	"github.com/turnforge/atlascore/internal/game"
	"github.com/turnforge/atlascore/internal/httpapi"
	"github.com/turnforge/atlascore/internal/ruleset"
	"github.com/turnforge/atlascore/internal/storage"
)

func main() {
	cfg := config.Load()
	log.Printf("starting worldserver: listenAddr=%s ruleset=%s", cfg.ListenAddr, cfg.RulesetID)

	store, err := storage.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}

	rs := ruleset.NewProvider(ruleset.Default())
	registry := game.NewRegistry()
	server := httpapi.NewServer(registry, store, rs)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Start(ctx, cfg.ListenAddr); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
