package httpapi

import (
	"fmt"
	"net/http"

	"github.com/turnforge/atlascore/internal/errs"
	"github.com/turnforge/atlascore/internal/game"
	"github.com/turnforge/atlascore/internal/ids"
	"github.com/turnforge/atlascore/internal/worldgen"
)

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	instances := s.Registry.List()
	out := make([]gameListEntry, 0, len(instances))
	for _, g := range instances {
		g.Lock()
		entry := gameListEntry{
			ID:             g.ID,
			Name:           g.Name,
			Status:         string(g.Status),
			CurrentPlayers: len(g.Players),
			MapSize:        mapSizeLabel(g),
			CanJoin:        g.Status == game.StatusLobby && len(g.AvailableNations()) > 0,
		}
		if host := g.Player(g.HostID); host != nil {
			entry.HostName = host.Nation
		}
		if g.Turns != nil {
			entry.CurrentTurn = g.Turns.TurnVersion
		}
		g.Unlock()
		out = append(out, entry)
	}
	writeJSON(w, http.StatusOK, out)
}

func mapSizeLabel(g *game.Instance) string {
	if g.Map != nil {
		return fmt.Sprintf("%dx%d", g.Map.Width, g.Map.Height)
	}
	return fmt.Sprintf("%dx%d", g.PendingParams.Width, g.PendingParams.Height)
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name            string                  `json:"name"`
		GameType        string                  `json:"gameType"`
		MaxPlayers      int                     `json:"maxPlayers"`
		MapWidth        int                     `json:"mapWidth"`
		MapHeight       int                     `json:"mapHeight"`
		TerrainSettings worldgen.TerrainSettings `json:"terrainSettings"`
		SelectedNation  string                  `json:"selectedNation"`
	}
	if err := decodeJSON(r, &body); err != nil || body.Name == "" || body.MaxPlayers < 1 {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"error": string(errs.InvalidInput), "message": "name and maxPlayers are required",
		})
		return
	}

	hostID := s.currentUserID(r)
	g := game.New(ids.New("game"), body.Name, hostID, s.Ruleset)
	g.MaxPlayers = body.MaxPlayers

	assignedNation, err := addPlayer(g, hostID, body.SelectedNation)
	if err != nil {
		writeError(w, err)
		return
	}

	g.PendingParams = body.TerrainSettings.ToParams(body.MapWidth, body.MapHeight)
	g.PendingSeed = seedHash(ids.NewToken())
	if g.MaxPlayers == 1 {
		if err := startGame(g); err != nil {
			writeError(w, err)
			return
		}
	}

	s.Registry.Add(g)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"gameId":         g.ID,
		"assignedNation": assignedNation,
	})
}

// addPlayer joins userID to g as selectedNation ("random" or
// a specific nation id), the shared rule POST /games and POST
// /games/:id/join both apply per spec.md §6.1.
func addPlayer(g *game.Instance, userID, selectedNation string) (string, error) {
	if len(g.Players) >= g.MaxPlayers {
		return "", errs.New(errs.GameFull, "game is full")
	}
	available := g.Ruleset.Nations()
	taken := map[string]bool{}
	for _, p := range g.Players {
		taken[p.Nation] = true
	}
	var nation string
	if selectedNation == "" || selectedNation == "random" {
		for _, n := range available {
			if !taken[n.ID] {
				nation = n.ID
				break
			}
		}
		if nation == "" {
			return "", errs.New(errs.GameFull, "no unused nations remain")
		}
	} else {
		if taken[selectedNation] {
			return "", errs.New(errs.NationTaken, fmt.Sprintf("nation %q already taken", selectedNation))
		}
		found := false
		for _, n := range available {
			if n.ID == selectedNation {
				found = true
				break
			}
		}
		if !found {
			return "", errs.New(errs.InvalidInput, fmt.Sprintf("unknown nation %q", selectedNation))
		}
		nation = selectedNation
	}

	nationInfo, _ := g.Ruleset.Nation(nation)
	g.Players = append(g.Players, &game.Player{
		ID:           ids.New("player"),
		UserID:       userID,
		PlayerNumber: len(g.Players) + 1,
		Nation:       nation,
		Color:        nationInfo.Color,
		Connected:    true,
	})
	return nation, nil
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.Registry.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	g.Lock()
	defer g.Unlock()

	userID := s.currentUserID(r)
	me := playerByUser(g, userID)
	snap := gameSnapshot{
		ID:         g.ID,
		Name:       g.Name,
		Status:     string(g.Status),
		IsHost:     userID != "" && userID == g.HostID,
		CanObserve: true,
	}
	if g.Turns != nil {
		snap.CurrentTurn = g.Turns.TurnVersion
		snap.Year = yearFromTurn(g.Turns.TurnVersion)
	}
	for _, p := range g.Players {
		snap.Players = append(snap.Players, playerView{
			ID: p.ID, Nation: p.Nation, Color: p.Color,
			Gold: p.Gold, Science: p.Science, Culture: p.Culture,
			Connected: p.Connected,
		})
		if me == nil || p.ID != me.ID {
			continue
		}
		snap.CurrentPlayer = p.ID
		snap.IsMyTurn = true // single-pool simultaneous-turn model: every connected player may act every turn
	}
	writeJSON(w, http.StatusOK, snap)
}

func playerByUser(g *game.Instance, userID string) *game.Player {
	if userID == "" {
		return nil
	}
	for _, p := range g.Players {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

func (s *Server) handleJoinGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.Registry.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	g.Lock()
	defer g.Unlock()

	if g.Status != game.StatusLobby {
		writeError(w, errs.New(errs.GameNotJoinable, "game is not accepting new players"))
		return
	}

	var body struct {
		Civilization   string `json:"civilization"`
		SelectedNation string `json:"selectedNation"`
	}
	decodeJSON(r, &body)
	nation := body.SelectedNation
	if nation == "" {
		nation = body.Civilization
	}

	userID := s.currentUserID(r)
	if p := playerByUser(g, userID); p != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "playerId": p.ID, "assignedNation": p.Nation})
		return
	}

	assigned, err := addPlayer(g, userID, nation)
	if err != nil {
		writeError(w, err)
		return
	}
	p := g.Players[len(g.Players)-1]
	if len(g.Players) >= g.MaxPlayers {
		if err := startGame(g); err != nil {
			writeError(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "playerId": p.ID, "assignedNation": assigned})
}

// startGame runs the Map Generator over the lobby's final roster and
// transitions the instance to playing; it is called once, either at
// creation (single-player games) or when the last seat fills.
func startGame(g *game.Instance) error {
	p := g.PendingParams
	p.PlayerIDs = make([]string, len(g.Players))
	for i, pl := range g.Players {
		p.PlayerIDs[i] = pl.ID
	}
	return g.GenerateWorld(p, g.PendingSeed)
}

func (s *Server) handleObserveGame(w http.ResponseWriter, r *http.Request) {
	if _, err := s.Registry.Get(r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	g, err := s.Registry.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	g.Lock()
	if s.currentUserID(r) != g.HostID {
		g.Unlock()
		writeError(w, errs.New(errs.NotHost, "only the host may delete a game"))
		return
	}
	s.Registry.Delete(g.ID)
	g.Unlock()
	if err := s.Store.DeleteGame(r.Context(), g.ID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// seedHash folds an opaque token seed into an int64 RNG seed, the way
// worldgen.Generate expects, without pulling in a hashing dependency
// beyond what internal/rng already wraps.
func seedHash(token string) int64 {
	var h int64 = 1469598103934665603
	for i := 0; i < len(token); i++ {
		h ^= int64(token[i])
		h *= 1099511628211
	}
	if h < 0 {
		h = -h
	}
	return h
}
