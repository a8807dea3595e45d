package mapstate

import (
	"fmt"

	"github.com/turnforge/atlascore/internal/errs"
)

// StartingPosition pins one player to their initial tile.
type StartingPosition struct {
	X, Y     int
	PlayerID string
}

// Map is the W x H tile grid plus the generation parameters that
// produced it, matching spec.md §3's Map entity.
type Map struct {
	Width, Height int
	Seed          string
	Generator     string
	WrapID        bool // x wraps when true

	Tiles             [][]*Tile // Tiles[y][x]
	StartingPositions []StartingPosition
}

func NewMap(width, height int, seed, generator string, wrap bool) *Map {
	m := &Map{Width: width, Height: height, Seed: seed, Generator: generator, WrapID: wrap}
	m.Tiles = make([][]*Tile, height)
	for y := 0; y < height; y++ {
		m.Tiles[y] = make([]*Tile, width)
		for x := 0; x < width; x++ {
			m.Tiles[y][x] = NewTile(x, y)
		}
	}
	return m
}

// Tile returns the tile at (x,y), or an OutOfBounds error.
func (m *Map) Tile(x, y int) (*Tile, error) {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return nil, errs.New(errs.OutOfBounds, fmt.Sprintf("(%d,%d) outside %dx%d map", x, y, m.Width, m.Height))
	}
	return m.Tiles[y][x], nil
}

// InBounds reports whether (x,y) is addressable, accounting for x-wrap.
func (m *Map) InBounds(x, y int) bool {
	if y < 0 || y >= m.Height {
		return false
	}
	if m.WrapID {
		return true
	}
	return x >= 0 && x < m.Width
}

// normalizeX wraps x into [0,Width) when WrapID is set.
func (m *Map) normalizeX(x int) int {
	if !m.WrapID {
		return x
	}
	x %= m.Width
	if x < 0 {
		x += m.Width
	}
	return x
}

// Neighbors returns up to 8 adjacent tiles (Chebyshev ring), honoring
// x-wrap when WrapID is set, per spec.md §4.4.
func (m *Map) Neighbors(x, y int) []*Tile {
	var out []*Tile
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := m.normalizeX(x+dx), y+dy
			if ny < 0 || ny >= m.Height {
				continue
			}
			if !m.WrapID && (nx < 0 || nx >= m.Width) {
				continue
			}
			out = append(out, m.Tiles[ny][nx])
		}
	}
	return out
}

// Distance is the Chebyshev distance used for all adjacency/range
// queries per the GLOSSARY.
func Distance(ax, ay, bx, by int) int {
	dx := ax - bx
	if dx < 0 {
		dx = -dx
	}
	dy := ay - by
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// VisibleTiles returns every tile within Chebyshev radius r of (cx,cy).
func (m *Map) VisibleTiles(cx, cy, r int) []*Tile {
	var out []*Tile
	for y := cy - r; y <= cy+r; y++ {
		if y < 0 || y >= m.Height {
			continue
		}
		for x := cx - r; x <= cx+r; x++ {
			nx := m.normalizeX(x)
			if !m.WrapID && (nx < 0 || nx >= m.Width) {
				continue
			}
			out = append(out, m.Tiles[y][nx])
		}
	}
	return out
}

// TilePatch describes a partial tile mutation for UpdateTile.
type TilePatch struct {
	Terrain      *Terrain
	Resource     *string
	AddImprove   string
	RemoveImprove string
	CityID       *string
	AddUnitID    string
	RemoveUnitID string
}

// UpdateTile applies patch to the tile at (x,y).
func (m *Map) UpdateTile(x, y int, patch TilePatch) error {
	t, err := m.Tile(x, y)
	if err != nil {
		return err
	}
	if patch.Terrain != nil {
		t.Terrain = *patch.Terrain
	}
	if patch.Resource != nil {
		t.Resource = *patch.Resource
	}
	if patch.AddImprove != "" {
		t.Improvements[patch.AddImprove] = true
	}
	if patch.RemoveImprove != "" {
		delete(t.Improvements, patch.RemoveImprove)
	}
	if patch.CityID != nil {
		t.CityID = *patch.CityID
	}
	if patch.AddUnitID != "" {
		t.UnitIDs[patch.AddUnitID] = true
	}
	if patch.RemoveUnitID != "" {
		delete(t.UnitIDs, patch.RemoveUnitID)
	}
	return nil
}

// baseMovementCost returns the terrain movement cost in fragments
// before road/improvement modifiers, per spec.md §4.4.
func baseMovementCost(t Terrain) int {
	switch t {
	case Grassland, Plains:
		return 3
	case Hills:
		return 6
	case Mountains:
		return 9
	case Forest, Jungle, Swamp:
		return 6
	case Desert, Tundra:
		return 3
	case DeepOcean, Ocean, Coast, Lake:
		return 3 // boats-only; land units are rejected by the unit manager
	default:
		return 3
	}
}

// MovementCost returns the fragment cost of entering (x,y), halved (min 1)
// when a road improvement is present.
func (m *Map) MovementCost(x, y int) (int, error) {
	t, err := m.Tile(x, y)
	if err != nil {
		return 0, err
	}
	cost := baseMovementCost(t.Terrain)
	if t.Improvements["road"] {
		cost = cost / 2
		if cost < 1 {
			cost = 1
		}
	}
	return cost, nil
}

// IsWater reports whether the terrain at (x,y) requires a naval unit to
// cross (ocean family or lake); out-of-bounds coordinates report false.
func (m *Map) IsWater(x, y int) bool {
	t, err := m.Tile(x, y)
	if err != nil {
		return false
	}
	return t.Terrain.IsOceanFamily() || t.Terrain == Lake
}
