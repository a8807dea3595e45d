package turns

import (
	"github.com/turnforge/atlascore/internal/cities"
	"github.com/turnforge/atlascore/internal/mapstate"
	"github.com/turnforge/atlascore/internal/research"
	"github.com/turnforge/atlascore/internal/units"
)

// snapshot is the pre-resolution state the Coordinator restores to on
// a failed resolve, per spec.md §4.9: "rolled back to the
// pre-resolution snapshot; turn_version is not incremented."
type snapshot struct {
	turnVersion    int
	hasEndedTurn   map[string]bool
	units          []*units.Unit
	cities         []*cities.City
	research       []*research.PlayerResearch
	tileOccupancy  []tileOccupancy
}

type tileOccupancy struct {
	x, y     int
	cityID   string
	unitIDs  map[string]bool
	riverMask int
	terrain  mapstate.Terrain
	improvements map[string]bool
	resource string
}

func (c *Coordinator) takeSnapshot() *snapshot {
	s := &snapshot{
		turnVersion:  c.TurnVersion,
		hasEndedTurn: map[string]bool{},
	}
	for p, v := range c.hasEndedTurn {
		s.hasEndedTurn[p] = v
	}
	for _, u := range c.unitsM.All() {
		cp := *u
		s.units = append(s.units, &cp)
	}
	for _, city := range c.citiesM.All() {
		cp := *city
		cp.Buildings = copyBoolMap(city.Buildings)
		cp.WorkingTiles = append([][2]int{}, city.WorkingTiles...)
		s.cities = append(s.cities, &cp)
	}
	for _, pid := range c.playerIDs {
		r := c.researchM.Get(pid)
		cp := *r
		cp.Completed = copyBoolMap(r.Completed)
		s.research = append(s.research, &cp)
	}
	for y := 0; y < c.m.Height; y++ {
		for x := 0; x < c.m.Width; x++ {
			t := c.m.Tiles[y][x]
			s.tileOccupancy = append(s.tileOccupancy, tileOccupancy{
				x: x, y: y,
				cityID:       t.CityID,
				unitIDs:      copyBoolMap(t.UnitIDs),
				riverMask:    t.RiverMask,
				terrain:      t.Terrain,
				improvements: copyBoolMap(t.Improvements),
				resource:     t.Resource,
			})
		}
	}
	return s
}

func copyBoolMap(m map[string]bool) map[string]bool {
	out := make(map[string]bool, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (c *Coordinator) restoreSnapshot(s *snapshot) {
	c.TurnVersion = s.turnVersion
	c.hasEndedTurn = s.hasEndedTurn

	c.unitsM.LoadUnits(s.units)
	c.citiesM.LoadCities(s.cities)
	c.researchM.LoadPlayerResearch(s.research)

	for _, occ := range s.tileOccupancy {
		t := c.m.Tiles[occ.y][occ.x]
		t.CityID = occ.cityID
		t.UnitIDs = occ.unitIDs
		t.RiverMask = occ.riverMask
		t.Terrain = occ.terrain
		t.Improvements = occ.improvements
		t.Resource = occ.resource
	}
}
