package worldgen

import (
	"github.com/turnforge/atlascore/internal/mapstate"
	"github.com/turnforge/atlascore/internal/ruleset"
	"github.com/turnforge/atlascore/internal/rng"
)

// weightedTerrain pairs a candidate terrain with its target percentage
// and the three property tags pick_terrain should weigh it by.
type weightedTerrain struct {
	terrain string
	pct     int
	prop1   ruleset.TerrainProperty
	prop2   ruleset.TerrainProperty
	prop3   ruleset.TerrainProperty
}

// placeTerrain is makeTerrains from spec.md §4.3 step 8: over the
// land tiles still marked provisional grassland (relief.go has
// already carved out hills/mountains), place forest/jungle/desert/
// tundra/swamp in proportion to the requested percentages, falling
// back to plains/grassland by temperature for the remainder.
func placeTerrain(mp *mapstate.Map, p Params, stream *rng.Stream) {
	terrainStream := stream.Sub("terrain")

	candidates := []weightedTerrain{
		{"forest", p.Forest, ruleset.PropFoliage, ruleset.PropWet, ruleset.PropFoliage},
		{"jungle", p.Jungle, ruleset.PropFoliage, ruleset.PropTropical, ruleset.PropWet},
		{"desert", p.Desert, ruleset.PropDry, ruleset.PropTropical, ruleset.PropDry},
		{"tundra", 15, ruleset.PropFrozen, ruleset.PropCold, ruleset.PropFrozen},
		{"swamp", p.Swamp, ruleset.PropWet, ruleset.PropFoliage, ruleset.PropWet},
	}

	for y := 0; y < mp.Height; y++ {
		for x := 0; x < mp.Width; x++ {
			t := mp.Tiles[y][x]
			if t.Terrain != mapstate.Grassland {
				continue // already water, hills, or mountains
			}

			var eligible []weightedTerrain
			for _, c := range candidates {
				if c.pct <= 0 {
					continue
				}
				if !climateEligible(c.terrain, t) {
					continue
				}
				eligible = append(eligible, c)
			}

			if len(eligible) == 0 || !terrainStream.Chance(combinedPct(eligible)) {
				t.Terrain = plainsOrGrassland(t, terrainStream)
				continue
			}

			names := make([]string, len(eligible))
			for i, c := range eligible {
				names[i] = c.terrain
			}
			chosen := eligible[terrainStream.Intn(len(eligible))]
			picked := p.Ruleset.PickTerrain(names, chosen.prop1, chosen.prop2, chosen.prop3, terrainStream)
			t.Terrain = mapstate.Terrain(picked)
			applyTerrainProperties(t, p.Ruleset)
		}
	}
}

func combinedPct(cands []weightedTerrain) float64 {
	sum := 0
	for _, c := range cands {
		sum += c.pct
	}
	if sum > 100 {
		sum = 100
	}
	return float64(sum) / 100.0
}

// climateEligible filters candidate terrains by temperature/wetness
// constraints so e.g. jungle never lands in a frozen region.
func climateEligible(terrain string, t *mapstate.Tile) bool {
	switch terrain {
	case "jungle":
		return t.Temperature.Has(mapstate.Tropical) && t.Wetness >= 50
	case "desert":
		return t.Wetness <= 35
	case "tundra":
		return t.Temperature.Has(mapstate.Cold) || t.Temperature.Has(mapstate.Frozen)
	case "swamp":
		return t.Wetness >= 60 && !t.Temperature.Has(mapstate.Frozen)
	case "forest":
		return t.Wetness >= 35 && !t.Temperature.Has(mapstate.Frozen)
	default:
		return true
	}
}

func plainsOrGrassland(t *mapstate.Tile, stream *rng.Stream) mapstate.Terrain {
	if t.Temperature.Has(mapstate.Tropical) || t.Wetness < 45 {
		return mapstate.Plains
	}
	if t.Temperature.Has(mapstate.Frozen) && stream.Chance(0.5) {
		return mapstate.Plains
	}
	return mapstate.Grassland
}

func applyTerrainProperties(t *mapstate.Tile, p ruleset.Provider) {
	props := p.TerrainProperties(string(t.Terrain))
	for prop, intensity := range props {
		t.Properties[string(prop)] = intensity
	}
}
