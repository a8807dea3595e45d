// Package ruleset implements the read-only Ruleset Provider of §4.2: a
// pure lookup over nations, unit types, buildings, and the tech tree,
// plus the weighted terrain picker the map generator's terrain-placement
// stage draws on.
//
// Grounded on lib/rules_engine.go's RulesEngine (PopulateReferenceMaps,
// GetUnitData/GetTerrainData-by-id lookups returning a domain error on
// miss) and on 1siamBot-rts-engine/engine/systems/production.go's
// TechTree (prereq sets keyed by string id). Where the teacher's engine
// reads ruleset data out of a protobuf-generated struct, this package
// reads it out of a plain Go struct — the "content is not part of this
// spec" clause in spec.md §1 means only the lookup surface is load-bearing.
package ruleset

import (
	"fmt"

	"github.com/turnforge/atlascore/internal/errs"
	"github.com/turnforge/atlascore/internal/rng"
)

type Nation struct {
	ID    string
	Name  string
	Color string
}

type UnitType struct {
	ID            string
	Name          string
	Combat        int // 0 => civilian
	MaxMovement   int // in fragments; 3 fragments == one full move
	SightRange    int
	Cost          int
	CanFound      bool // settler-class: can found a city
	VeteranBonus  int  // percent combat bonus per veteran level
}

type Building struct {
	ID          string
	Name        string
	Cost        int
	ScienceMult float64 // e.g. library = 1.5
	GoldMult    float64 // e.g. marketplace = 1.5
	FoodBonus   int      // e.g. granary
	Unique      bool     // at most one per city (always true per spec.md §3)
}

type Tech struct {
	ID      string
	Name    string
	Cost    int
	Prereqs []string
}

// TerrainProperty tags the dominant character of a terrain used by
// pick_terrain's weighted draw.
type TerrainProperty string

const (
	PropFoliage  TerrainProperty = "FOLIAGE"
	PropDry      TerrainProperty = "DRY"
	PropWet      TerrainProperty = "WET"
	PropFrozen   TerrainProperty = "FROZEN"
	PropCold     TerrainProperty = "COLD"
	PropTropical TerrainProperty = "TROPICAL"
)

// Ruleset is the full set of data the provider serves for one ruleset id.
type Ruleset struct {
	ID        string
	Nations   []Nation
	UnitTypes map[string]UnitType
	Buildings map[string]Building
	Techs     map[string]Tech
	// TerrainProps maps a terrain name to its property intensities [0,100].
	TerrainProps map[string]map[TerrainProperty]int
}

// Provider is the pure, read-only lookup interface components depend on.
type Provider interface {
	Nations() []Nation
	Nation(id string) (Nation, error)
	UnitType(id string) (UnitType, error)
	Building(id string) (Building, error)
	Tech(id string) (Tech, error)
	Techs() map[string]Tech
	TerrainProperties(terrain string) map[TerrainProperty]int
	// PickTerrain performs a biased weighted pick among candidate terrains
	// using each candidate's intensity for the three given properties.
	PickTerrain(candidates []string, prop1, prop2, prop3 TerrainProperty, stream *rng.Stream) string
}

// memProvider is the in-memory implementation backing the default
// ruleset; a real deployment can substitute any Provider loading from
// an external data file without this package's callers changing.
type memProvider struct {
	rs Ruleset
}

func NewProvider(rs Ruleset) Provider {
	return &memProvider{rs: rs}
}

func (p *memProvider) Nations() []Nation { return p.rs.Nations }

func (p *memProvider) Nation(id string) (Nation, error) {
	for _, n := range p.rs.Nations {
		if n.ID == id {
			return n, nil
		}
	}
	return Nation{}, errs.New(errs.UnknownId, fmt.Sprintf("unknown nation %q", id))
}

func (p *memProvider) UnitType(id string) (UnitType, error) {
	if u, ok := p.rs.UnitTypes[id]; ok {
		return u, nil
	}
	return UnitType{}, errs.New(errs.UnknownId, fmt.Sprintf("unknown unit type %q", id))
}

func (p *memProvider) Building(id string) (Building, error) {
	if b, ok := p.rs.Buildings[id]; ok {
		return b, nil
	}
	return Building{}, errs.New(errs.UnknownId, fmt.Sprintf("unknown building %q", id))
}

func (p *memProvider) Tech(id string) (Tech, error) {
	if t, ok := p.rs.Techs[id]; ok {
		return t, nil
	}
	return Tech{}, errs.New(errs.UnknownId, fmt.Sprintf("unknown tech %q", id))
}

func (p *memProvider) Techs() map[string]Tech { return p.rs.Techs }

func (p *memProvider) TerrainProperties(terrain string) map[TerrainProperty]int {
	return p.rs.TerrainProps[terrain]
}

// PickTerrain draws among candidates weighted by the sum of their
// intensities for the three requested properties, falling back to a
// uniform draw if every candidate has zero combined weight.
func (p *memProvider) PickTerrain(candidates []string, prop1, prop2, prop3 TerrainProperty, stream *rng.Stream) string {
	if len(candidates) == 0 {
		return ""
	}
	weights := make([]int, len(candidates))
	total := 0
	for i, c := range candidates {
		props := p.rs.TerrainProps[c]
		w := props[prop1] + props[prop2] + props[prop3]
		if w <= 0 {
			w = 1 // keep every candidate reachable
		}
		weights[i] = w
		total += w
	}
	roll := stream.Intn(total)
	for i, w := range weights {
		if roll < w {
			return candidates[i]
		}
		roll -= w
	}
	return candidates[len(candidates)-1]
}

// LoadUnknownRuleset reports the UnknownRuleset error used by any real
// loader implementation keyed off a ruleset name not on disk.
func LoadUnknownRuleset(name string) error {
	return errs.New(errs.UnknownRuleset, fmt.Sprintf("unknown ruleset %q", name))
}
