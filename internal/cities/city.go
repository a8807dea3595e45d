// Package cities implements the City Manager of spec.md §4.6. Not
// present in the teacher (a wargame has no city-building); grounded
// on the production-queue/prereq shape of 1siamBot-rts-engine's
// engine/systems/production.go (TechTree, build queue, progress
// accumulation, completion spawning a unit/building), recast onto the
// spec's city/building/working-tile model.
package cities

// ProductionKind distinguishes the two things a city can build.
type ProductionKind string

const (
	ProductionUnit     ProductionKind = "unit"
	ProductionBuilding ProductionKind = "building"
)

// City is the spec.md §3 City entity.
type City struct {
	ID         string
	GameID     string
	OwnerID    string
	Name       string
	X, Y       int
	Population int
	FoundedTurn int

	FoodStock     int
	FoodPerTurn   int
	ProductionStock int
	ProductionPerTurn int
	SciencePerTurn    int
	GoldPerTurn       int
	CulturePerTurn    int

	CurrentProductionID   string
	CurrentProductionKind ProductionKind

	Buildings    map[string]bool
	WorkingTiles [][2]int // tile coordinates this city works, center first
	IsCapital    bool
}

func (c *City) HasBuilding(id string) bool { return c.Buildings[id] }
