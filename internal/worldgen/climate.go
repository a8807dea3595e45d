package worldgen

import (
	"github.com/turnforge/atlascore/internal/mapstate"
	"github.com/turnforge/atlascore/internal/rng"
)

// assignClimate sets temperature (as a function of latitude and
// elevation, biased by the temperature parameter) and wetness (from a
// smoothed noise field biased by wetness and distance-to-water), per
// spec.md §4.3 step 6.
func assignClimate(mp *mapstate.Map, temperatureBias, wetnessBias int, stream *rng.Stream) {
	assignTemperature(mp, temperatureBias)
	assignWetness(mp, wetnessBias, stream)
}

func assignTemperature(mp *mapstate.Map, bias int) {
	mid := float64(mp.Height-1) / 2.0
	biasFactor := (float64(bias) - 50.0) / 50.0 // -0.3..+0.5 roughly

	for y := 0; y < mp.Height; y++ {
		latFrac := 1.0
		if mid > 0 {
			latFrac = absf(float64(y)-mid) / mid // 0 at equator, 1 at poles
		}
		for x := 0; x < mp.Width; x++ {
			t := mp.Tiles[y][x]
			// elevation cools a tile independent of latitude
			elevCooling := float64(t.Elevation) / 255.0 * 0.25
			score := latFrac + elevCooling - biasFactor*0.3
			t.Temperature = temperatureBand(score)
		}
	}
}

func temperatureBand(score float64) mapstate.Temperature {
	switch {
	case score >= 0.85:
		return mapstate.Frozen
	case score >= 0.60:
		return mapstate.Cold
	case score <= 0.15:
		return mapstate.Tropical
	default:
		return mapstate.Temperate
	}
}

func assignWetness(mp *mapstate.Map, bias int, stream *rng.Stream) {
	wetStream := stream.Sub("wetness")
	noise := newHeightMap(mp.Width, mp.Height)
	for y := 0; y < mp.Height; y++ {
		for x := 0; x < mp.Width; x++ {
			noise.set(x, y, wetStream.Intn(101))
		}
	}
	noise = smooth(noise, 2)

	biasFactor := float64(bias-50) / 50.0 * 20.0 // -20..+20

	for y := 0; y < mp.Height; y++ {
		for x := 0; x < mp.Width; x++ {
			t := mp.Tiles[y][x]
			w := float64(noise.at(x, y)) + biasFactor - distanceToWaterPenalty(mp, x, y)
			t.Wetness = clamp(int(w), 0, 100)
		}
	}
}

// distanceToWaterPenalty reduces wetness the farther a tile sits from
// any ocean/lake tile, sampled within a small radius for performance.
func distanceToWaterPenalty(mp *mapstate.Map, x, y int) float64 {
	const radius = 4
	for r := 1; r <= radius; r++ {
		for _, t := range mp.VisibleTiles(x, y, r) {
			if t.Terrain.IsOceanFamily() || t.Terrain == mapstate.Lake {
				return float64(r-1) * 3.0
			}
		}
	}
	return float64(radius) * 4.0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
