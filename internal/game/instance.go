// Package game composes the nine leaf components of spec.md §2 into
// one Game Instance per concurrently-hosted game, plus a Registry
// holding every in-process instance, grounded on the teacher's
// grpcserver.go notion of one server process hosting many concurrent
// game sessions (the per-instance single-writer lock noted in
// spec.md §5 replaces the teacher's generated-service dispatch).
package game

import (
	"sync"

	"github.com/turnforge/atlascore/internal/cities"
	"github.com/turnforge/atlascore/internal/mapstate"
	"github.com/turnforge/atlascore/internal/research"
	"github.com/turnforge/atlascore/internal/ruleset"
	"github.com/turnforge/atlascore/internal/turns"
	"github.com/turnforge/atlascore/internal/units"
	"github.com/turnforge/atlascore/internal/visibility"
	"github.com/turnforge/atlascore/internal/worldgen"
)

// Player is a participant in a Game Instance.
type Player struct {
	ID            string
	UserID        string
	PlayerNumber  int
	Nation        string
	Color         string
	Gold          int
	Science       int
	Culture       int
	Connected     bool
}

type Status string

const (
	StatusLobby    Status = "lobby"
	StatusPlaying  Status = "playing"
	StatusFinished Status = "finished"
)

// Instance is one Game Instance (spec.md §2): the composition root
// holding all nine components plus the roster and lifecycle status a
// single game needs. Every mutating method must be called holding mu,
// matching the "per-instance lock" scheduling model of spec.md §5.
type Instance struct {
	mu sync.Mutex

	ID      string
	Name    string
	HostID  string
	Status  Status
	Ruleset ruleset.Provider

	MaxPlayers int
	Players    []*Player

	// PendingParams/PendingSeed hold the generation request made at
	// game-creation time; GenerateWorld is deferred until the roster is
	// full (see httpapi.handleJoinGame), so a lobby can list mapWidth
	// /mapHeight before a single tile exists.
	PendingParams worldgen.Params
	PendingSeed   int64

	Map         *mapstate.Map
	Units       *units.Manager
	Cities      *cities.Manager
	Research    *research.Manager
	Visibility  *visibility.Manager
	Turns       *turns.Coordinator

	Seed      string
	Generator string
}

// Lock/Unlock expose the instance mutex so httpapi handlers can
// serialize mutating requests per spec.md §5 ("per-instance lock or
// actor mailbox"). Read-only handlers may skip locking and read a
// consistent snapshot instead.
func (g *Instance) Lock()   { g.mu.Lock() }
func (g *Instance) Unlock() { g.mu.Unlock() }

// New creates a Game Instance in lobby status with no map generated
// yet; the map and per-player managers are built by GenerateWorld once
// the roster is final.
func New(id, name, hostID string, rs ruleset.Provider) *Instance {
	return &Instance{ID: id, Name: name, HostID: hostID, Status: StatusLobby, Ruleset: rs}
}

// GenerateWorld runs the Map Generator and wires up the remaining
// eight components over the resulting Map, transitioning the instance
// to playing. Called once, after the roster is final.
func (g *Instance) GenerateWorld(p worldgen.Params, gameSeed int64) error {
	p.Ruleset = g.Ruleset
	mp, err := worldgen.Generate(p)
	if err != nil {
		return err
	}

	g.Map = mp
	g.Seed = p.Seed
	g.Generator = string(p.Generator)
	g.Units = units.NewManager(g.Ruleset, mp)
	g.Cities = cities.NewManager(g.Ruleset, mp, g.Units)
	g.Research = research.NewManager(g.Ruleset)

	playerIDs := make([]string, len(g.Players))
	for i, p := range g.Players {
		playerIDs[i] = p.ID
	}
	g.Visibility = visibility.NewManager(mp)
	g.Turns = turns.NewCoordinator(gameSeed, playerIDs, mp, g.Units, g.Cities, g.Research, g.Visibility)
	g.Status = StatusPlaying

	for _, sp := range mp.StartingPositions {
		g.seedStartingUnits(sp.PlayerID, sp.X, sp.Y)
	}
	for _, p := range g.Players {
		g.Visibility.UpdatePlayerVisibility(p.ID, g.sightSourcesFor(p.ID))
	}
	return nil
}

// seedStartingUnits places the classic settler+worker+warrior opening
// stack on a player's starting tile. Two civilians may not share a
// tile, so a unit the starting tile refuses (the worker) goes on the
// first tile within distance 1 that accepts it.
func (g *Instance) seedStartingUnits(player string, x, y int) {
	for _, unitType := range []string{"settler", "worker", "warrior"} {
		if _, err := g.Units.Create(player, unitType, x, y); err == nil {
			continue
		}
		for _, t := range g.Map.VisibleTiles(x, y, 1) {
			if _, err := g.Units.Create(player, unitType, t.X, t.Y); err == nil {
				break
			}
		}
	}
}

func (g *Instance) sightSourcesFor(player string) []visibility.SightSource {
	var out []visibility.SightSource
	for _, u := range g.Units.ForPlayer(player) {
		out = append(out, visibility.SightSource{X: u.X, Y: u.Y, SightRange: u.SightRange})
	}
	for _, c := range g.Cities.ForPlayer(player) {
		out = append(out, visibility.SightSource{X: c.X, Y: c.Y, SightRange: 2})
	}
	return out
}

// Player looks up a roster entry by id.
func (g *Instance) Player(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// AvailableNations returns nations not yet assigned to a player.
func (g *Instance) AvailableNations() []ruleset.Nation {
	taken := map[string]bool{}
	for _, p := range g.Players {
		taken[p.Nation] = true
	}
	var out []ruleset.Nation
	for _, n := range g.Ruleset.Nations() {
		if !taken[n.ID] {
			out = append(out, n)
		}
	}
	return out
}
