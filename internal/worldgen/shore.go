package worldgen

import "github.com/turnforge/atlascore/internal/mapstate"

// selectShoreLevel picks the elevation threshold (spec.md §4.3 step 4)
// so the land:ocean ratio matches the requested landmass fraction,
// using a histogram over the 0..255 elevation range.
func selectShoreLevel(m *heightMap, landFraction float64) int {
	var hist [256]int
	for _, e := range m.v {
		hist[e]++
	}
	total := len(m.v)
	target := int(float64(total) * (1 - landFraction)) // tiles below threshold == ocean

	cumulative := 0
	for level := 0; level < 256; level++ {
		cumulative += hist[level]
		if cumulative >= target {
			return level
		}
	}
	return 200
}

// writeOceanLand applies the shore level: tiles below it become a
// depth-graded ocean terrain, tiles at/above become provisional
// grassland pending climate/terrain placement.
func writeOceanLand(mp *mapstate.Map, hm *heightMap, shoreLevel int) {
	deepThreshold := shoreLevel * 2 / 3
	coastThreshold := shoreLevel - shoreLevel/6 // shallow band just below shore

	for y := 0; y < mp.Height; y++ {
		for x := 0; x < mp.Width; x++ {
			t := mp.Tiles[y][x]
			e := hm.at(x, y)
			t.Elevation = e
			switch {
			case e >= shoreLevel:
				t.Terrain = mapstate.Grassland // provisional; terrain.go refines
			case e >= coastThreshold:
				t.Terrain = mapstate.Coast
			case e >= deepThreshold:
				t.Terrain = mapstate.Ocean
			default:
				t.Terrain = mapstate.DeepOcean
			}
		}
	}
}
