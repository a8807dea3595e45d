package worldgen

import "github.com/turnforge/atlascore/internal/mapstate"

// labelContinents flood-fills land tiles into continent ids >= 1,
// leaving ocean tiles at 0, per spec.md §4.3 step 5. Lakes are not
// special-cased here since none exist yet at this stage; markLakes
// runs right after this pass in generateOnce.
func labelContinents(mp *mapstate.Map) {
	visited := make([][]bool, mp.Height)
	for y := range visited {
		visited[y] = make([]bool, mp.Width)
	}

	nextID := 1
	for y := 0; y < mp.Height; y++ {
		for x := 0; x < mp.Width; x++ {
			t := mp.Tiles[y][x]
			if visited[y][x] || !t.Terrain.IsLand() {
				continue
			}
			floodFillContinent(mp, visited, x, y, nextID)
			nextID++
		}
	}
}

// maxLakeSize bounds how large an enclosed water blob can be before
// it's treated as an inland sea rather than a lake.
const maxLakeSize = 6

// markLakes reclassifies small ocean blobs fully enclosed by land as
// lakes, per the tile invariant "lake only on tiles fully enclosed by
// land" in spec.md §8. Must run after labelContinents so land
// connectivity is already resolved.
func markLakes(mp *mapstate.Map) {
	visited := make([][]bool, mp.Height)
	for y := range visited {
		visited[y] = make([]bool, mp.Width)
	}

	for y := 0; y < mp.Height; y++ {
		for x := 0; x < mp.Width; x++ {
			t := mp.Tiles[y][x]
			if visited[y][x] || !t.Terrain.IsOceanFamily() {
				continue
			}
			blob, touchesMapEdge := collectWaterBlob(mp, visited, x, y)
			if touchesMapEdge || len(blob) > maxLakeSize {
				continue
			}
			if !enclosedByLand(mp, blob) {
				continue
			}
			for _, p := range blob {
				mp.Tiles[p[1]][p[0]].Terrain = mapstate.Lake
			}
		}
	}
}

func collectWaterBlob(mp *mapstate.Map, visited [][]bool, sx, sy int) ([][2]int, bool) {
	stack := [][2]int{{sx, sy}}
	visited[sy][sx] = true
	var blob [][2]int
	touchesEdge := false

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := p[0], p[1]
		blob = append(blob, p)
		if x == 0 || y == 0 || x == mp.Width-1 || y == mp.Height-1 {
			touchesEdge = true
		}

		for _, n := range mp.Neighbors(x, y) {
			if visited[n.Y][n.X] || !n.Terrain.IsOceanFamily() {
				continue
			}
			visited[n.Y][n.X] = true
			stack = append(stack, [2]int{n.X, n.Y})
		}
	}
	return blob, touchesEdge
}

func enclosedByLand(mp *mapstate.Map, blob [][2]int) bool {
	for _, p := range blob {
		for _, n := range mp.Neighbors(p[0], p[1]) {
			if n.Terrain.IsOceanFamily() {
				continue
			}
			if !n.Terrain.IsLand() {
				return false
			}
		}
	}
	return true
}

func floodFillContinent(mp *mapstate.Map, visited [][]bool, sx, sy, id int) {
	stack := [][2]int{{sx, sy}}
	visited[sy][sx] = true
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := p[0], p[1]
		mp.Tiles[y][x].ContinentID = id

		for _, n := range mp.Neighbors(x, y) {
			if visited[n.Y][n.X] || !n.Terrain.IsLand() {
				continue
			}
			visited[n.Y][n.X] = true
			stack = append(stack, [2]int{n.X, n.Y})
		}
	}
}
