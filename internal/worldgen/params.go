// Package worldgen implements the Map Generator component of spec.md
// §4.3: a fixed, deterministic pipeline turning a seed and a parameter
// bundle into a fully-populated mapstate.Map.
//
// Each pipeline stage lives in its own file (height.go, poles.go,
// shore.go, continents.go, climate.go, relief.go, terrain.go,
// rivers.go, resources.go, startpos.go, validate.go), mirroring the
// teacher's one-file-per-concern layout in lib/ (rules_engine.go,
// combat_calculator.go, movement_calculator.go each own one pipeline
// concern). generator.go wires the stages together the way the
// teacher's board.go builds a Map: allocate, then mutate in place.
package worldgen

import "github.com/turnforge/atlascore/internal/ruleset"

// GeneratorKind selects the height-synthesis strategy, the tagged
// variant described in spec.md's design notes ("Polymorphism across
// map generators is a tagged variant").
type GeneratorKind string

const (
	Random  GeneratorKind = "RANDOM"
	Fractal GeneratorKind = "FRACTAL"
	Island  GeneratorKind = "ISLAND"
	Fair    GeneratorKind = "FAIR"
	Fracture GeneratorKind = "FRACTURE"
)

type Landmass string

const (
	LandmassSparse Landmass = "sparse"
	LandmassNormal Landmass = "normal"
	LandmassDense  Landmass = "dense"
)

// targetLandFraction returns the land:ocean ratio shore-level selection
// aims for, per spec.md §4.3 step 4.
func (l Landmass) targetLandFraction() float64 {
	switch l {
	case LandmassSparse:
		return 0.30
	case LandmassDense:
		return 0.70
	default:
		return 0.50
	}
}

type ResourceDensity string

const (
	ResourceSparse   ResourceDensity = "sparse"
	ResourceNormal   ResourceDensity = "normal"
	ResourceAbundant ResourceDensity = "abundant"
)

// StartposRule governs the continental distribution of starting
// positions; placeStartingPositions applies it for ISLAND/FAIR only.
type StartposRule int

const (
	StartposGeneratorChoice StartposRule = 0
	StartposOnePerContinent StartposRule = 1
	StartposTwoOnThree      StartposRule = 2
	StartposAllOnOne        StartposRule = 3
	StartposVariable        StartposRule = 4
)

// Params is the full generation parameter bundle spec.md §4.3 opens with.
type Params struct {
	Width, Height int
	Generator     GeneratorKind
	Landmass      Landmass
	Huts          int // [0,50]
	Temperature   int // {35,50,75} bias
	Wetness       int // {35,50,75} bias
	Rivers        int // {35,50,75} -> river_pct
	Resources     ResourceDensity
	Startpos      StartposRule
	Seed          string
	PlayerIDs     []string
	WrapID        bool

	Forest, Jungle, Desert, Swamp int // target percentages of remaining land

	Ruleset ruleset.Provider
}

func (p Params) riverPct() float64 {
	return float64(p.Rivers) / 100.0 * 0.5 // rivers param biases density, not a literal fraction
}

// TerrainSettings is the wire shape of spec.md §6.5's game-creation
// config, decoded directly from the httpapi POST /api/games body and
// converted to a Params once the roster (and so PlayerIDs) is final.
type TerrainSettings struct {
	Generator   GeneratorKind   `json:"generator"`
	Landmass    Landmass        `json:"landmass"`
	Huts        int             `json:"huts"`
	Temperature int             `json:"temperature"`
	Wetness     int             `json:"wetness"`
	Rivers      int             `json:"rivers"`
	Resources   ResourceDensity `json:"resources"`
	Startpos    StartposRule    `json:"startpos"`
	WrapID      bool            `json:"wrapX"`
}

// ToParams fills in the defaults a zero-value TerrainSettings (an
// empty JSON object) should resolve to, matching spec.md §6.5's
// enumerated defaults.
func (t TerrainSettings) ToParams(width, height int) Params {
	p := Params{
		Width: width, Height: height,
		Generator:   t.Generator,
		Landmass:    t.Landmass,
		Huts:        t.Huts,
		Temperature: t.Temperature,
		Wetness:     t.Wetness,
		Rivers:      t.Rivers,
		Resources:   t.Resources,
		Startpos:    t.Startpos,
		WrapID:      t.WrapID,
	}
	if p.Generator == "" {
		p.Generator = Random
	}
	if p.Landmass == "" {
		p.Landmass = LandmassNormal
	}
	if p.Temperature == 0 {
		p.Temperature = 50
	}
	if p.Wetness == 0 {
		p.Wetness = 50
	}
	if p.Rivers == 0 {
		p.Rivers = 50
	}
	if p.Resources == "" {
		p.Resources = ResourceNormal
	}
	if p.Width == 0 {
		p.Width = 40
	}
	if p.Height == 0 {
		p.Height = 30
	}
	return p
}
