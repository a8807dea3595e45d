package worldgen

import (
	"github.com/turnforge/atlascore/internal/mapstate"
	"github.com/turnforge/atlascore/internal/rng"
)

// directionBit maps a unit step to the river-mask bit it sets on the
// tile being departed, per spec.md §3's {N,E,S,W} bitmask.
func directionBit(dx, dy int) int {
	switch {
	case dy < 0:
		return mapstate.RiverNorth
	case dy > 0:
		return mapstate.RiverSouth
	case dx > 0:
		return mapstate.RiverEast
	default:
		return mapstate.RiverWest
	}
}

// carveRivers selects sources from higher-elevation non-mountain land
// until river_pct of eligible land tiles have been touched, walking
// each downhill to water; per spec.md §4.3 step 9, loops and strands
// abort that single river without affecting others.
func carveRivers(mp *mapstate.Map, hm *heightMap, riverPct float64, stream *rng.Stream) {
	riverStream := stream.Sub("rivers")

	var sources [][2]int
	for y := 0; y < mp.Height; y++ {
		for x := 0; x < mp.Width; x++ {
			t := mp.Tiles[y][x]
			if t.Terrain.IsLand() && t.Terrain != mapstate.Mountains && t.Elevation > 170 {
				sources = append(sources, [2]int{x, y})
			}
		}
	}
	riverStream.Shuffle(len(sources), func(i, j int) { sources[i], sources[j] = sources[j], sources[i] })

	target := int(float64(len(sources)) * riverPct)
	touched := make(map[[2]int]bool)

	for i := 0; i < len(sources) && len(touched) < target; i++ {
		walkRiver(mp, hm, sources[i][0], sources[i][1], touched)
	}
}

func walkRiver(mp *mapstate.Map, hm *heightMap, sx, sy int, touched map[[2]int]bool) {
	const maxSteps = 256
	visited := map[[2]int]bool{}
	x, y := sx, sy

	for step := 0; step < maxSteps; step++ {
		if visited[[2]int{x, y}] {
			return // loop: abort this river only
		}
		visited[[2]int{x, y}] = true

		t, err := mp.Tile(x, y)
		if err != nil {
			return
		}
		if t.Terrain.IsOceanFamily() || t.Terrain == mapstate.Lake {
			return // reached water; prior step already wrote its exit bit
		}

		nx, ny, ok := lowestNeighbor(mp, hm, x, y)
		if !ok {
			return // stranded: no lower neighbour
		}

		bit := directionBit(nx-x, ny-y)
		t.RiverMask |= bit
		touched[[2]int{x, y}] = true

		// opposite bit marks the entry side of the next tile too, so a
		// river reads as continuous from either tile's perspective.
		if nt, err := mp.Tile(nx, ny); err == nil {
			nt.RiverMask |= oppositeBit(bit)
		}

		x, y = nx, ny
	}
}

func oppositeBit(bit int) int {
	switch bit {
	case mapstate.RiverNorth:
		return mapstate.RiverSouth
	case mapstate.RiverSouth:
		return mapstate.RiverNorth
	case mapstate.RiverEast:
		return mapstate.RiverWest
	default:
		return mapstate.RiverEast
	}
}

func lowestNeighbor(mp *mapstate.Map, hm *heightMap, x, y int) (int, int, bool) {
	bestX, bestY, bestE := x, y, hm.at(x, y)
	found := false
	for _, d := range [][2]int{{0, -1}, {1, 0}, {0, 1}, {-1, 0}} {
		nx, ny := x+d[0], y+d[1]
		if !mp.InBounds(nx, ny) {
			continue
		}
		e := hm.at(nx, ny)
		if e < bestE {
			bestE = e
			bestX, bestY = nx, ny
			found = true
		}
	}
	return bestX, bestY, found
}
