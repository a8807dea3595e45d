package worldgen

import (
	"github.com/turnforge/atlascore/internal/errs"
	"github.com/turnforge/atlascore/internal/mapstate"
	"github.com/turnforge/atlascore/internal/rng"
	"github.com/turnforge/atlascore/internal/ruleset"
)

const validationMaxRetries = 5

// smallMapTileThreshold is the island-generator minimum-size fallback:
// below this tile count, ISLAND generation falls back to RANDOM
// unconditionally since there isn't room for island kernels' minimum
// spacing (an 8x8 board).
const smallMapTileThreshold = 64

// Generate runs the full pipeline of spec.md §4.3 and returns a fully
// populated Map. The entire pipeline is a pure function of
// (p.Seed, p, p.PlayerIDs): rerunning with identical inputs reproduces
// an identical Map, tile-for-tile and starting-position-for-position.
func Generate(p Params) (*mapstate.Map, error) {
	effective := p
	if effective.Ruleset == nil {
		effective.Ruleset = ruleset.NewProvider(ruleset.Default())
	}
	if (effective.Generator == Island || effective.Generator == Fair) && effective.Width*effective.Height < smallMapTileThreshold {
		effective.Generator = Random
	}

	rootStream := rng.New(p.Seed)

	var mp *mapstate.Map
	var lastErr error
	for attempt := 0; attempt < validationMaxRetries; attempt++ {
		stream := rootStream.Sub(retryTag(attempt))
		candidate, shoreLevel, err := generateOnce(effective, stream)
		if err != nil {
			if effective.Generator == Fair {
				return nil, err // FAIR returns MapGenerationFailed, no retry escalation
			}
			lastErr = err
			continue
		}
		if verr := validate(candidate, shoreLevel, len(effective.PlayerIDs)); verr != nil {
			lastErr = verr
			continue
		}
		mp = candidate
		lastErr = nil
		break
	}

	if mp == nil {
		if lastErr == nil {
			lastErr = errs.New(errs.MapGenerationFailed, "generation exhausted retries")
		}
		return nil, lastErr
	}
	return mp, nil
}

func retryTag(attempt int) string {
	tags := []string{"gen-0", "gen-1", "gen-2", "gen-3", "gen-4", "gen-5", "gen-6", "gen-7"}
	if attempt < len(tags) {
		return tags[attempt]
	}
	return "gen-n"
}

// generateOnce runs stages 1-11 of the pipeline once; validation
// (stage 12) is performed by the caller so it can drive the retry loop.
func generateOnce(p Params, stream *rng.Stream) (*mapstate.Map, int, error) {
	mp := mapstate.NewMap(p.Width, p.Height, p.Seed, string(p.Generator), p.WrapID)

	hm := synthesizeHeight(p, stream.Sub("height"))
	normalizeHmapPoles(hm)

	shoreLevel := selectShoreLevel(hm, p.Landmass.targetLandFraction())
	writeOceanLand(mp, hm, shoreLevel)

	labelContinents(mp)
	markLakes(mp)

	assignClimate(mp, p.Temperature, p.Wetness, stream)
	applyRelief(mp, hm, stream)
	placeTerrain(mp, p, stream)
	carveRivers(mp, hm, p.riverPct(), stream)
	scatterResources(mp, p.Resources, stream)

	if err := placeStartingPositions(mp, p, stream); err != nil {
		return nil, shoreLevel, err
	}

	return mp, shoreLevel, nil
}
