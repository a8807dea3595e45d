package worldgen

import (
	"fmt"

	"github.com/turnforge/atlascore/internal/errs"
	"github.com/turnforge/atlascore/internal/mapstate"
)

// validate checks the invariants listed in spec.md §8: elevation<->
// terrain consistency, every continent id >= 1, and one starting
// position per player, per §4.3 step 12.
func validate(mp *mapstate.Map, shoreLevel int, players int) error {
	for y := 0; y < mp.Height; y++ {
		for x := 0; x < mp.Width; x++ {
			t := mp.Tiles[y][x]
			isOceanFamily := t.Terrain.IsOceanFamily()
			isBelowShore := t.Elevation < shoreLevel
			if isOceanFamily != isBelowShore && t.Terrain != mapstate.Lake {
				return errs.New(errs.MapGenerationFailed, fmt.Sprintf(
					"tile (%d,%d) elevation=%d shoreLevel=%d terrain=%s violates elevation<->terrain invariant",
					x, y, t.Elevation, shoreLevel, t.Terrain))
			}
			if t.Terrain.IsLand() && t.ContinentID < 1 {
				return errs.New(errs.MapGenerationFailed, fmt.Sprintf("land tile (%d,%d) missing continent id", x, y))
			}
			if t.RiverMask < 0 || t.RiverMask > 15 {
				return errs.New(errs.MapGenerationFailed, fmt.Sprintf("tile (%d,%d) river_mask %d out of range", x, y, t.RiverMask))
			}
		}
	}

	if len(mp.StartingPositions) != players {
		return errs.New(errs.MapGenerationFailed, fmt.Sprintf("expected %d starting positions, got %d", players, len(mp.StartingPositions)))
	}
	for _, sp := range mp.StartingPositions {
		t, err := mp.Tile(sp.X, sp.Y)
		if err != nil || !t.Terrain.IsLand() {
			return errs.New(errs.MapGenerationFailed, fmt.Sprintf("starting position for %s not on land", sp.PlayerID))
		}
	}
	return nil
}
