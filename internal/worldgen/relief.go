package worldgen

import (
	"github.com/turnforge/atlascore/internal/mapstate"
	"github.com/turnforge/atlascore/internal/rng"
)

// applyRelief converts some land tiles to hills/mountains based on
// local elevation variance, per spec.md §4.3 step 7. Hot regions
// prefer hills at ~40%, cold regions prefer mountains at ~80%.
func applyRelief(mp *mapstate.Map, hm *heightMap, stream *rng.Stream) {
	reliefStream := stream.Sub("relief")

	for y := 0; y < mp.Height; y++ {
		for x := 0; x < mp.Width; x++ {
			t := mp.Tiles[y][x]
			if !t.Terrain.IsLand() {
				continue
			}
			variance := localElevationVariance(hm, x, y)
			if variance < 18 {
				continue // flat enough to stay grassland/plains/etc.
			}

			hot := t.Temperature.Has(mapstate.Temperate) || t.Temperature.Has(mapstate.Tropical)
			cold := t.Temperature.Has(mapstate.Cold) || t.Temperature.Has(mapstate.Frozen)

			var hillsChance float64
			switch {
			case cold:
				hillsChance = 0.20 // cold regions prefer mountains at ~80%
			case hot:
				hillsChance = 0.40
			default:
				hillsChance = 0.55
			}

			// Steeper local variance tilts further toward mountains
			// regardless of climate, matching "based on local elevation
			// variance" in the spec.
			steepBonus := clamp(variance-18, 0, 60)
			hillsChance -= float64(steepBonus) / 150.0

			if reliefStream.Chance(hillsChance) {
				t.Terrain = mapstate.Hills
			} else {
				t.Terrain = mapstate.Mountains
			}
		}
	}
}

func localElevationVariance(hm *heightMap, x, y int) int {
	minE, maxE := 255, 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			nx, ny := x+dx, y+dy
			if nx < 0 || nx >= hm.w || ny < 0 || ny >= hm.h {
				continue
			}
			e := hm.at(nx, ny)
			if e < minE {
				minE = e
			}
			if e > maxE {
				maxE = e
			}
		}
	}
	return maxE - minE
}
