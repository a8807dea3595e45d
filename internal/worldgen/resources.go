package worldgen

import (
	"github.com/turnforge/atlascore/internal/mapstate"
	"github.com/turnforge/atlascore/internal/rng"
)

// resourceDensityFraction returns the per-eligible-tile chance of a
// resource appearing, per spec.md §4.3 step 10.
func resourceDensityFraction(d ResourceDensity) float64 {
	switch d {
	case ResourceSparse:
		return 0.03
	case ResourceAbundant:
		return 0.12
	default:
		return 0.06
	}
}

// terrainResources lists the resources compatible with each terrain,
// a small illustrative table in lieu of the external ruleset data file.
var terrainResources = map[mapstate.Terrain][]string{
	mapstate.Grassland: {"wheat", "cattle"},
	mapstate.Plains:    {"wheat", "horses"},
	mapstate.Hills:     {"iron", "coal"},
	mapstate.Mountains: {"gold", "gems"},
	mapstate.Forest:    {"furs", "game"},
	mapstate.Jungle:    {"spices", "gems"},
	mapstate.Desert:    {"oil"},
	mapstate.Tundra:    {"furs"},
	mapstate.Swamp:     {"game"},
	mapstate.Coast:     {"fish"},
	mapstate.Ocean:     {"fish", "whales"},
}

// scatterResources places per-terrain-compatible resources at
// densities derived from the resources parameter, per spec.md §4.3
// step 10.
func scatterResources(mp *mapstate.Map, density ResourceDensity, stream *rng.Stream) {
	resStream := stream.Sub("resources")
	fraction := resourceDensityFraction(density)

	for y := 0; y < mp.Height; y++ {
		for x := 0; x < mp.Width; x++ {
			t := mp.Tiles[y][x]
			choices, ok := terrainResources[t.Terrain]
			if !ok || len(choices) == 0 {
				continue
			}
			if !resStream.Chance(fraction) {
				continue
			}
			t.Resource = choices[resStream.Intn(len(choices))]
		}
	}
}
