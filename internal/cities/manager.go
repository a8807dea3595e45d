package cities

import (
	"fmt"
	"sort"

	"github.com/turnforge/atlascore/internal/errs"
	"github.com/turnforge/atlascore/internal/ids"
	"github.com/turnforge/atlascore/internal/mapstate"
	"github.com/turnforge/atlascore/internal/ruleset"
	"github.com/turnforge/atlascore/internal/units"
)

// minCityDistance is the minimum Chebyshev spacing between two cities,
// a small illustrative constant in lieu of ruleset-data-driven spacing.
const minCityDistance = 2

// Manager owns every city in one game.
type Manager struct {
	rs     ruleset.Provider
	m      *mapstate.Map
	unitsM *units.Manager
	cities map[string]*City
}

func NewManager(rs ruleset.Provider, m *mapstate.Map, unitsM *units.Manager) *Manager {
	return &Manager{rs: rs, m: m, unitsM: unitsM, cities: map[string]*City{}}
}

func (mgr *Manager) Get(id string) (*City, error) {
	c, ok := mgr.cities[id]
	if !ok {
		return nil, errs.New(errs.UnknownId, fmt.Sprintf("unknown city %q", id))
	}
	return c, nil
}

func (mgr *Manager) ForPlayer(player string) []*City {
	var out []*City
	for _, c := range mgr.cities {
		if c.OwnerID == player {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// All returns every city in stable id order, the iteration order
// process_all_cities_turn relies on.
func (mgr *Manager) All() []*City {
	out := make([]*City, 0, len(mgr.cities))
	for _, c := range mgr.cities {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// FoundCity creates a city at (x,y), per spec.md §4.6.
func (mgr *Manager) FoundCity(player, name string, x, y, turn int) (*City, error) {
	tile, err := mgr.m.Tile(x, y)
	if err != nil {
		return nil, errs.New(errs.InvalidFounderPosition, err.Error())
	}
	if !tile.Terrain.IsLand() {
		return nil, errs.New(errs.InvalidFounderPosition, "cannot found a city on ocean")
	}
	if tile.CityID != "" {
		return nil, errs.New(errs.InvalidFounderPosition, "tile already holds a city")
	}
	for _, c := range mgr.cities {
		if mapstate.Distance(c.X, c.Y, x, y) < minCityDistance {
			return nil, errs.New(errs.CityTooClose, fmt.Sprintf("too close to %s", c.ID))
		}
	}

	settlerID, err := mgr.settlerAt(tile, player)
	if err != nil {
		return nil, err
	}

	isCapital := len(mgr.ForPlayer(player)) == 0
	c := &City{
		ID:           ids.New("city"),
		OwnerID:      player,
		Name:         name,
		X:            x,
		Y:            y,
		Population:   1,
		FoundedTurn:  turn,
		Buildings:    map[string]bool{},
		WorkingTiles: [][2]int{{x, y}},
		IsCapital:    isCapital,
	}
	if isCapital {
		c.Buildings["palace"] = true
	}
	mgr.cities[c.ID] = c
	tile.CityID = c.ID
	mgr.refreshLocked(c)
	if err := mgr.unitsM.Consume(settlerID); err != nil {
		return nil, err
	}
	return c, nil
}

// settlerAt locates a settler-class unit owned by player on tile,
// per spec.md §3's "founding requires a settler-class unit on land".
// The found_city wire action carries no unitId, so the settler is
// located by tile and ownership rather than passed explicitly.
func (mgr *Manager) settlerAt(tile *mapstate.Tile, player string) (string, error) {
	for unitID := range tile.UnitIDs {
		u, err := mgr.unitsM.Get(unitID)
		if err != nil || u.OwnerID != player {
			continue
		}
		ut, err := mgr.rs.UnitType(u.Type)
		if err != nil || !ut.CanFound {
			continue
		}
		return unitID, nil
	}
	return "", errs.New(errs.InvalidFounderPosition, "no settler present to found a city")
}

// SetProduction assigns a city's current production target, per
// spec.md §4.6.
func (mgr *Manager) SetProduction(cityID, targetID string, kind ProductionKind) error {
	c, err := mgr.Get(cityID)
	if err != nil {
		return err
	}
	switch kind {
	case ProductionUnit:
		if _, err := mgr.rs.UnitType(targetID); err != nil {
			return err
		}
	case ProductionBuilding:
		if _, err := mgr.rs.Building(targetID); err != nil {
			return err
		}
		if c.HasBuilding(targetID) {
			return errs.New(errs.BuildingAlreadyPresent, fmt.Sprintf("%s already built in %s", targetID, c.ID))
		}
	default:
		return errs.New(errs.InvalidInput, fmt.Sprintf("unknown production kind %q", kind))
	}
	c.CurrentProductionID = targetID
	c.CurrentProductionKind = kind
	return nil
}

// productionCost looks up the gold/shield cost of the city's current
// production target.
func (mgr *Manager) productionCost(c *City) (int, error) {
	switch c.CurrentProductionKind {
	case ProductionUnit:
		ut, err := mgr.rs.UnitType(c.CurrentProductionID)
		return ut.Cost, err
	case ProductionBuilding:
		b, err := mgr.rs.Building(c.CurrentProductionID)
		return b.Cost, err
	default:
		return 0, errs.New(errs.InvalidInput, "no production set")
	}
}

// RefreshCity recomputes per-turn yields from working tiles and
// building effects, per spec.md §4.6.
func (mgr *Manager) RefreshCity(cityID string) error {
	c, err := mgr.Get(cityID)
	if err != nil {
		return err
	}
	mgr.refreshLocked(c)
	return nil
}

func (mgr *Manager) refreshLocked(c *City) {
	food, production, science, gold, culture := 0, 0, 0, 0, 0
	for _, wt := range c.WorkingTiles {
		t, err := mgr.m.Tile(wt[0], wt[1])
		if err != nil {
			continue
		}
		tf, tp := tileYield(t)
		food += tf
		production += tp
		gold += 1
		science += 1
	}

	scienceMult, goldMult, foodBonusPct := 1.0, 1.0, 0
	for id := range c.Buildings {
		b, err := mgr.rs.Building(id)
		if err != nil {
			continue
		}
		if b.ScienceMult > 0 {
			scienceMult *= b.ScienceMult
		}
		if b.GoldMult > 0 {
			goldMult *= b.GoldMult
		}
		foodBonusPct += b.FoodBonus
	}

	food += food * foodBonusPct / 100
	c.FoodPerTurn = food - c.Population // upkeep: one food per citizen
	c.ProductionPerTurn = production
	c.SciencePerTurn = int(float64(science) * scienceMult)
	c.GoldPerTurn = int(float64(gold) * goldMult)
	c.CulturePerTurn = culture
}

func tileYield(t *mapstate.Tile) (food, production int) {
	switch {
	case t.Terrain == mapstate.Grassland:
		food = 3
	case t.Terrain == mapstate.Plains:
		food, production = 2, 1
	case t.Terrain == mapstate.Hills:
		production = 3
	case t.Terrain == mapstate.Forest, t.Terrain == mapstate.Jungle:
		food, production = 1, 2
	case t.Terrain.IsOceanFamily():
		food = 2
	default:
		food = 1
	}
	if t.Resource != "" {
		food++
	}
	return food, production
}

// growthCost is the food-stock cost of advancing to the next
// population tier, a simple linear schedule.
func growthCost(population int) int {
	return 10 + population*5
}

// ProcessCityTurn applies one turn of growth and production progress,
// per spec.md §4.6.
func (mgr *Manager) ProcessCityTurn(cityID string, turn int) error {
	c, err := mgr.Get(cityID)
	if err != nil {
		return err
	}

	c.FoodStock += c.FoodPerTurn
	if c.FoodStock >= 2*c.Population {
		c.Population++
		c.FoodStock -= growthCost(c.Population - 1)
		if c.FoodStock < 0 {
			c.FoodStock = 0
		}
		mgr.assignWorkingTile(c)
		mgr.refreshLocked(c)
	}

	if c.CurrentProductionID == "" {
		return nil
	}
	c.ProductionStock += c.ProductionPerTurn
	cost, err := mgr.productionCost(c)
	if err != nil {
		c.CurrentProductionID = ""
		return nil
	}
	if cost > 0 && c.ProductionStock >= cost {
		if err := mgr.completeProduction(c, turn); err != nil {
			return err
		}
		c.ProductionStock -= cost
		c.CurrentProductionID = ""
	}
	return nil
}

func (mgr *Manager) completeProduction(c *City, turn int) error {
	switch c.CurrentProductionKind {
	case ProductionUnit:
		x, y := mgr.spawnTile(c)
		_, err := mgr.unitsM.Create(c.OwnerID, c.CurrentProductionID, x, y)
		return err
	case ProductionBuilding:
		c.Buildings[c.CurrentProductionID] = true
	}
	return nil
}

// spawnTile returns the city tile if free of a friendly civilian, else
// the nearest free adjacent tile, per spec.md §4.6's civilian-stacking
// accommodation.
func (mgr *Manager) spawnTile(c *City) (int, int) {
	tile, err := mgr.m.Tile(c.X, c.Y)
	if err == nil && !tile.HasCivilian(mgr.unitsM.UnitRefs()) {
		return c.X, c.Y
	}
	for _, n := range mgr.m.Neighbors(c.X, c.Y) {
		if n.Terrain.IsLand() && !n.HasCivilian(mgr.unitsM.UnitRefs()) {
			return n.X, n.Y
		}
	}
	return c.X, c.Y
}

// assignWorkingTile adds one more tile to the city's working set on
// growth, preferring the highest-yield unworked neighbour.
func (mgr *Manager) assignWorkingTile(c *City) {
	working := map[[2]int]bool{}
	for _, wt := range c.WorkingTiles {
		working[wt] = true
	}

	var best *mapstate.Tile
	bestYield := -1
	for r := 1; r <= 2; r++ {
		for _, t := range mgr.m.VisibleTiles(c.X, c.Y, r) {
			if working[[2]int{t.X, t.Y}] || t.CityID != "" {
				continue
			}
			food, prod := tileYield(t)
			if y := food + prod; y > bestYield {
				bestYield = y
				best = t
			}
		}
		if best != nil {
			break
		}
	}
	if best != nil {
		c.WorkingTiles = append(c.WorkingTiles, [2]int{best.X, best.Y})
	}
}

// ProcessAllCitiesTurn iterates cities in stable id order, per
// spec.md §4.6.
func (mgr *Manager) ProcessAllCitiesTurn(turn int) []error {
	var errsOut []error
	for _, c := range mgr.All() {
		if err := mgr.ProcessCityTurn(c.ID, turn); err != nil {
			errsOut = append(errsOut, err)
		}
	}
	return errsOut
}

// LoadCities rehydrates cities from persistence.
func (mgr *Manager) LoadCities(loaded []*City) {
	mgr.cities = make(map[string]*City, len(loaded))
	for _, c := range loaded {
		mgr.cities[c.ID] = c
		if t, err := mgr.m.Tile(c.X, c.Y); err == nil {
			t.CityID = c.ID
		}
	}
}
