// Package visibility implements the Visibility Manager of spec.md
// §4.8: a from-scratch bitset manager (no teacher equivalent — the
// teacher wargame has no fog of war). Grounded in the project's own
// Chebyshev-disc helper shared with mapstate (mapstate.Map.VisibleTiles),
// the same radius query the map generator and city working-tile
// assignment already use.
package visibility

import (
	"github.com/turnforge/atlascore/internal/mapstate"
)

// PlayerView is a per-player bitset pair over the W*H grid:
// Explored is sticky, Visible is recomputed every turn.
type PlayerView struct {
	PlayerID string
	Width, Height int
	Explored []bool // sticky once set
	Visible  []bool // cleared and recomputed each update
}

func newPlayerView(player string, w, h int) *PlayerView {
	return &PlayerView{
		PlayerID: player,
		Width:    w,
		Height:   h,
		Explored: make([]bool, w*h),
		Visible:  make([]bool, w*h),
	}
}

func (v *PlayerView) idx(x, y int) int { return y*v.Width + x }

// SightSource is anything that projects visibility: a unit or a city.
type SightSource struct {
	X, Y, SightRange int
}

// Manager owns every player's visibility bitsets for one game's map.
type Manager struct {
	m     *mapstate.Map
	views map[string]*PlayerView
}

func NewManager(m *mapstate.Map) *Manager {
	return &Manager{m: m, views: map[string]*PlayerView{}}
}

func (mgr *Manager) viewFor(player string) *PlayerView {
	v, ok := mgr.views[player]
	if !ok {
		v = newPlayerView(player, mgr.m.Width, mgr.m.Height)
		mgr.views[player] = v
	}
	return v
}

// UpdatePlayerVisibility clears Visible and re-accumulates it from
// every one of the player's sight sources (units, cities), marking
// Explored along the way, per spec.md §4.8.
func (mgr *Manager) UpdatePlayerVisibility(player string, sources []SightSource) {
	v := mgr.viewFor(player)
	for i := range v.Visible {
		v.Visible[i] = false
	}
	for _, s := range sources {
		for _, t := range mgr.m.VisibleTiles(s.X, s.Y, s.SightRange) {
			i := v.idx(t.X, t.Y)
			v.Visible[i] = true
			v.Explored[i] = true
			t.SetVisible(player, true)
		}
	}
	mgr.clearStaleTileVisibility(player, v)
}

// clearStaleTileVisibility unsets mapstate.Tile's per-player visible
// flag for tiles no longer in the freshly-recomputed Visible bitset,
// keeping the tile-level cache (used by mapstate queries elsewhere)
// consistent with this manager's bitset of record.
func (mgr *Manager) clearStaleTileVisibility(player string, v *PlayerView) {
	for y := 0; y < v.Height; y++ {
		for x := 0; x < v.Width; x++ {
			if v.Visible[v.idx(x, y)] {
				continue
			}
			if t, err := mgr.m.Tile(x, y); err == nil && t.IsVisible(player) {
				t.SetVisible(player, false)
			}
		}
	}
}

func (mgr *Manager) IsVisible(player string, x, y int) bool {
	v := mgr.viewFor(player)
	if x < 0 || x >= v.Width || y < 0 || y >= v.Height {
		return false
	}
	return v.Visible[v.idx(x, y)]
}

func (mgr *Manager) IsExplored(player string, x, y int) bool {
	v := mgr.viewFor(player)
	if x < 0 || x >= v.Width || y < 0 || y >= v.Height {
		return false
	}
	return v.Explored[v.idx(x, y)]
}

// TileSnapshot is one tile's transport-ready visibility state, per
// spec.md §4.8's player_map_view.
type TileSnapshot struct {
	X, Y     int
	Visible  bool
	Explored bool
}

// PlayerMapView returns every tile's visible/explored state for player,
// for transport to that player's client, per spec.md §4.8.
func (mgr *Manager) PlayerMapView(player string) []TileSnapshot {
	v := mgr.viewFor(player)
	out := make([]TileSnapshot, 0, v.Width*v.Height)
	for y := 0; y < v.Height; y++ {
		for x := 0; x < v.Width; x++ {
			i := v.idx(x, y)
			if !v.Explored[i] {
				continue
			}
			out = append(out, TileSnapshot{X: x, Y: y, Visible: v.Visible[i], Explored: v.Explored[i]})
		}
	}
	return out
}
