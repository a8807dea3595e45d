package worldgen

import (
	"math"
	"sort"

	"github.com/turnforge/atlascore/internal/errs"
	"github.com/turnforge/atlascore/internal/mapstate"
	"github.com/turnforge/atlascore/internal/rng"
)

const startposMaxTries = 40

// placeStartingPositions generates candidate land tiles scored by
// terrain quality and spacing, and places one per player maintaining
// the minimum pairwise distance and continental-distribution rule,
// per spec.md §4.3 step 11. The startpos rule applies to ISLAND and
// FAIR only; other generators use the generator's-choice spacing. On
// failure after startposMaxTries, every generator but FAIR falls back
// to RANDOM-style placement at half the spacing (ignoring continent
// grouping); FAIR returns MapGenerationFailed.
func placeStartingPositions(mp *mapstate.Map, p Params, stream *rng.Stream) error {
	spStream := stream.Sub("startpos")
	n := len(p.PlayerIDs)
	if n == 0 {
		return nil
	}

	minDist := minPairwiseDistance(mp.Width, mp.Height, n)

	for attempt := 0; attempt < startposMaxTries; attempt++ {
		candidates := scoreCandidates(mp)
		if len(candidates) < n {
			continue
		}
		spStream.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })

		rule := p.Startpos
		if p.Generator != Island && p.Generator != Fair {
			rule = StartposGeneratorChoice
		}
		chosen := pickByStartpos(mp, candidates, rule, n, minDist, spStream)
		if len(chosen) == n {
			applyStartingPositions(mp, p.PlayerIDs, chosen)
			return nil
		}
	}

	if p.Generator != Fair {
		candidates := scoreCandidates(mp)
		chosen := pickGreedySpaced(candidates, n, minDist/2, spStream)
		if len(chosen) == n {
			applyStartingPositions(mp, p.PlayerIDs, chosen)
			return nil
		}
	}

	return errs.New(errs.MapGenerationFailed, "unable to place starting positions satisfying spacing and continent rules")
}

// minPairwiseDistance implements the spacing rule max(W,H)/sqrt(players)*c.
func minPairwiseDistance(w, h, players int) float64 {
	const c = 0.75
	maxWH := float64(w)
	if float64(h) > maxWH {
		maxWH = float64(h)
	}
	return maxWH / math.Sqrt(float64(players)) * c
}

type candidate struct {
	x, y, continentID int
	score              float64
}

// scoreCandidates finds land tiles suitable as a starting position,
// scored by terrain quality (grassland/plains preferred, no nearby
// mountains/ocean-only dead ends).
func scoreCandidates(mp *mapstate.Map) []candidate {
	var out []candidate
	for y := 0; y < mp.Height; y++ {
		for x := 0; x < mp.Width; x++ {
			t := mp.Tiles[y][x]
			if !t.Terrain.IsLand() || t.Terrain == mapstate.Mountains {
				continue
			}
			out = append(out, candidate{x: x, y: y, continentID: t.ContinentID, score: qualityScore(mp, t)})
		}
	}
	return out
}

func qualityScore(mp *mapstate.Map, t *mapstate.Tile) float64 {
	score := 1.0
	switch t.Terrain {
	case mapstate.Grassland, mapstate.Plains:
		score += 2.0
	case mapstate.Hills:
		score += 0.5
	}
	if t.Resource != "" {
		score += 1.0
	}
	for _, n := range mp.Neighbors(t.X, t.Y) {
		if n.Terrain.IsOceanFamily() {
			score += 0.3 // coastal access is valuable
		}
	}
	return score
}

func pickByStartpos(mp *mapstate.Map, candidates []candidate, rule StartposRule, n int, minDist float64, stream *rng.Stream) []candidate {
	switch rule {
	case StartposOnePerContinent:
		return pickOnePerContinent(candidates, n, minDist)
	case StartposAllOnOne:
		return pickAllOnOne(candidates, n, minDist, stream)
	case StartposTwoOnThree:
		return pickTwoOnThree(candidates, n, minDist, stream)
	case StartposVariable:
		if stream.Bool() {
			return pickOnePerContinent(candidates, n, minDist)
		}
		return pickGreedySpaced(candidates, n, minDist, stream)
	default:
		return pickGreedySpaced(candidates, n, minDist, stream)
	}
}

// pickGreedySpaced walks the (already-shuffled) candidate list,
// accepting any candidate at least minDist from every prior pick.
func pickGreedySpaced(candidates []candidate, n int, minDist float64, stream *rng.Stream) []candidate {
	var chosen []candidate
	for _, c := range candidates {
		if len(chosen) >= n {
			break
		}
		if farEnough(chosen, c, minDist) {
			chosen = append(chosen, c)
		}
	}
	return chosen
}

func farEnough(chosen []candidate, c candidate, minDist float64) bool {
	for _, o := range chosen {
		if chebyshev(o.x, o.y, c.x, c.y) < minDist {
			return false
		}
	}
	return true
}

func chebyshev(ax, ay, bx, by int) float64 {
	dx := math.Abs(float64(ax - bx))
	dy := math.Abs(float64(ay - by))
	if dx > dy {
		return dx
	}
	return dy
}

// pickOnePerContinent requires n distinct continents, one pick each.
func pickOnePerContinent(candidates []candidate, n int, minDist float64) []candidate {
	byContinent := map[int][]candidate{}
	for _, c := range candidates {
		byContinent[c.continentID] = append(byContinent[c.continentID], c)
	}
	if len(byContinent) < n {
		return nil
	}
	var chosen []candidate
	for _, id := range sortedContinentIDs(byContinent) {
		if len(chosen) >= n {
			break
		}
		best := bestScoring(byContinent[id])
		chosen = append(chosen, best)
	}
	if len(chosen) != n {
		return nil
	}
	return chosen
}

// pickAllOnOne places every player on the single largest continent.
func pickAllOnOne(candidates []candidate, n int, minDist float64, stream *rng.Stream) []candidate {
	byContinent := map[int][]candidate{}
	for _, c := range candidates {
		byContinent[c.continentID] = append(byContinent[c.continentID], c)
	}
	var largest []candidate
	for _, id := range sortedContinentIDs(byContinent) {
		group := byContinent[id]
		if len(group) > len(largest) {
			largest = group
		}
	}
	return pickGreedySpaced(largest, n, minDist, stream)
}

// pickTwoOnThree approximates a 2-per-continent distribution across
// roughly n/2 continents, falling back to greedy spacing if that
// shape can't be satisfied.
func pickTwoOnThree(candidates []candidate, n int, minDist float64, stream *rng.Stream) []candidate {
	byContinent := map[int][]candidate{}
	for _, c := range candidates {
		byContinent[c.continentID] = append(byContinent[c.continentID], c)
	}
	var chosen []candidate
	for _, id := range sortedContinentIDs(byContinent) {
		if len(chosen) >= n {
			break
		}
		take := 2
		if n-len(chosen) < 2 {
			take = n - len(chosen)
		}
		picked := pickGreedySpaced(byContinent[id], take, minDist, stream)
		chosen = append(chosen, picked...)
	}
	if len(chosen) != n {
		return nil
	}
	return chosen
}

// sortedContinentIDs returns byContinent's keys in ascending order, so
// callers iterate continents in a fixed order instead of Go's
// randomized map order — required for the generator to stay a pure
// function of (seed, parameters, player set).
func sortedContinentIDs(byContinent map[int][]candidate) []int {
	ids := make([]int, 0, len(byContinent))
	for id := range byContinent {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func bestScoring(group []candidate) candidate {
	best := group[0]
	for _, c := range group[1:] {
		if c.score > best.score {
			best = c
		}
	}
	return best
}

func applyStartingPositions(mp *mapstate.Map, playerIDs []string, chosen []candidate) {
	mp.StartingPositions = mp.StartingPositions[:0]
	for i, pid := range playerIDs {
		c := chosen[i]
		mp.StartingPositions = append(mp.StartingPositions, mapstate.StartingPosition{X: c.x, Y: c.y, PlayerID: pid})
	}
}
