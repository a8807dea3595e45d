package httpapi

import (
	"net/http"
	"strconv"

	"github.com/turnforge/atlascore/internal/game"
)

// tileDTO is one visible/explored tile, filtered per caller by the
// Visibility Manager before serialization, per spec.md §6.1's
// "filtered by caller's visibility" contract.
type tileDTO struct {
	X           int    `json:"x"`
	Y           int    `json:"y"`
	Terrain     string `json:"terrain"`
	Elevation   int    `json:"elevation"`
	Resource    string `json:"resource,omitempty"`
	RiverMask   int    `json:"riverMask"`
	ContinentID int    `json:"continentId"`
	Visible     bool   `json:"visible"`
	Explored    bool   `json:"explored"`
}

type unitDTO struct {
	ID           string `json:"id"`
	OwnerID      string `json:"ownerId"`
	Type         string `json:"type"`
	X            int    `json:"x"`
	Y            int    `json:"y"`
	Health       int    `json:"health"`
	MovementLeft string `json:"movementLeft"`
	MaxMovement  string `json:"maxMovement"`
	VeteranLevel int    `json:"veteranLevel"`
	Fortified    bool   `json:"fortified"`
}

type cityDTO struct {
	ID         string `json:"id"`
	OwnerID    string `json:"ownerId"`
	Name       string `json:"name"`
	X          int    `json:"x"`
	Y          int    `json:"y"`
	Population int    `json:"population"`
	Food       int    `json:"food"`
	Production int    `json:"production"`
	IsCapital  bool   `json:"isCapital"`
}

func formatFragments(v int) string { return strconv.Itoa(v) }

// requester resolves the game and the calling player (possibly "" for
// an observer) shared by every /api/games/:id/{map,units,cities,tiles}
// handler.
func (s *Server) requester(r *http.Request) (*game.Instance, string, error) {
	g, err := s.Registry.Get(r.PathValue("id"))
	if err != nil {
		return nil, "", err
	}
	return g, s.currentUserID(r), nil
}

func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	g, userID, err := s.requester(r)
	if err != nil {
		writeError(w, err)
		return
	}
	g.Lock()
	defer g.Unlock()
	if g.Map == nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"width": g.PendingParams.Width, "height": g.PendingParams.Height, "tiles": []tileDTO{},
		})
		return
	}
	player := playerByUser(g, userID)
	out := make([]tileDTO, 0, g.Map.Width*g.Map.Height)
	for y := 0; y < g.Map.Height; y++ {
		for x := 0; x < g.Map.Width; x++ {
			t, _ := g.Map.Tile(x, y)
			explored := player == nil || g.Visibility.IsExplored(player.ID, x, y)
			if !explored {
				continue
			}
			out = append(out, tileDTO{
				X: x, Y: y,
				Terrain: string(t.Terrain), Elevation: t.Elevation,
				Resource: t.Resource, RiverMask: t.RiverMask, ContinentID: t.ContinentID,
				Visible:  player == nil || g.Visibility.IsVisible(player.ID, x, y),
				Explored: explored,
			})
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"width": g.Map.Width, "height": g.Map.Height, "tiles": out})
}

func (s *Server) handleGetTiles(w http.ResponseWriter, r *http.Request) {
	s.handleGetMap(w, r)
}

func (s *Server) handleGetUnits(w http.ResponseWriter, r *http.Request) {
	g, userID, err := s.requester(r)
	if err != nil {
		writeError(w, err)
		return
	}
	g.Lock()
	defer g.Unlock()
	if g.Units == nil {
		writeJSON(w, http.StatusOK, []unitDTO{})
		return
	}
	player := playerByUser(g, userID)
	out := []unitDTO{}
	for _, u := range g.Units.All() {
		if player != nil && u.OwnerID != player.ID && !g.Visibility.IsVisible(player.ID, u.X, u.Y) {
			continue
		}
		out = append(out, unitDTO{
			ID: u.ID, OwnerID: u.OwnerID, Type: u.Type,
			X: u.X, Y: u.Y, Health: u.Health,
			MovementLeft: formatFragments(u.MovementLeft),
			MaxMovement:  formatFragments(u.MaxMovement),
			VeteranLevel: u.VeteranLevel, Fortified: u.Fortified,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetCities(w http.ResponseWriter, r *http.Request) {
	g, userID, err := s.requester(r)
	if err != nil {
		writeError(w, err)
		return
	}
	g.Lock()
	defer g.Unlock()
	if g.Cities == nil {
		writeJSON(w, http.StatusOK, []cityDTO{})
		return
	}
	player := playerByUser(g, userID)
	out := []cityDTO{}
	for _, c := range g.Cities.All() {
		if player != nil && c.OwnerID != player.ID && !g.Visibility.IsExplored(player.ID, c.X, c.Y) {
			continue
		}
		out = append(out, cityDTO{
			ID: c.ID, OwnerID: c.OwnerID, Name: c.Name,
			X: c.X, Y: c.Y, Population: c.Population,
			Food: c.FoodStock, Production: c.ProductionStock, IsCapital: c.IsCapital,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
