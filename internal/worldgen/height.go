package worldgen

import (
	"math"

	"github.com/turnforge/atlascore/internal/rng"
)

// heightMap is a flat W*H grid of elevations in [0,255].
type heightMap struct {
	w, h int
	v    []int
}

func newHeightMap(w, h int) *heightMap {
	return &heightMap{w: w, h: h, v: make([]int, w*h)}
}

func (m *heightMap) at(x, y int) int { return m.v[y*m.w+x] }
func (m *heightMap) set(x, y, e int) {
	if e < 0 {
		e = 0
	}
	if e > 255 {
		e = 255
	}
	m.v[y*m.w+x] = e
}

// synthesizeHeight dispatches on generator kind, per spec.md §4.3 step 2.
func synthesizeHeight(p Params, stream *rng.Stream) *heightMap {
	switch p.Generator {
	case Fractal:
		return heightFractal(p.Width, p.Height, stream)
	case Island, Fair:
		return heightIsland(p.Width, p.Height, stream)
	case Fracture:
		return heightFracture(p.Width, p.Height, stream)
	default:
		return heightRandom(p.Width, p.Height, stream)
	}
}

// heightRandom: uniform sampling followed by box-blur smoothing.
func heightRandom(w, h int, stream *rng.Stream) *heightMap {
	m := newHeightMap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.set(x, y, stream.Intn(256))
		}
	}
	return smooth(m, 2)
}

func smooth(m *heightMap, passes int) *heightMap {
	cur := m
	for i := 0; i < passes; i++ {
		next := newHeightMap(cur.w, cur.h)
		for y := 0; y < cur.h; y++ {
			for x := 0; x < cur.w; x++ {
				sum, n := 0, 0
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := x+dx, y+dy
						if nx < 0 || nx >= cur.w || ny < 0 || ny >= cur.h {
							continue
						}
						sum += cur.at(nx, ny)
						n++
					}
				}
				next.set(x, y, sum/n)
			}
		}
		cur = next
	}
	return cur
}

// diamondSquarePow2 runs the classic diamond-square algorithm over a
// (2^n)+1 grid, seeding corners at mid-grey and roughening by a
// decaying random displacement.
func diamondSquarePow2(size int, stream *rng.Stream) *heightMap {
	m := newHeightMap(size, size)
	m.set(0, 0, 128+stream.Intn(64)-32)
	m.set(size-1, 0, 128+stream.Intn(64)-32)
	m.set(0, size-1, 128+stream.Intn(64)-32)
	m.set(size-1, size-1, 128+stream.Intn(64)-32)

	step := size - 1
	roughness := 128.0
	for step > 1 {
		half := step / 2

		for y := half; y < size; y += step {
			for x := half; x < size; x += step {
				avg := (m.at(x-half, y-half) + m.at(x+half, y-half) + m.at(x-half, y+half) + m.at(x+half, y+half)) / 4
				m.set(x, y, avg+displacement(stream, roughness))
			}
		}

		for y := 0; y < size; y += half {
			offset := 0
			if (y/half)%2 == 0 {
				offset = half
			}
			for x := offset; x < size; x += step {
				sum, n := 0, 0
				if x-half >= 0 {
					sum += m.at(x-half, y)
					n++
				}
				if x+half < size {
					sum += m.at(x+half, y)
					n++
				}
				if y-half >= 0 {
					sum += m.at(x, y-half)
					n++
				}
				if y+half < size {
					sum += m.at(x, y+half)
					n++
				}
				if n == 0 {
					continue
				}
				m.set(x, y, sum/n+displacement(stream, roughness))
			}
		}

		step = half
		roughness *= 0.55
	}
	return m
}

func displacement(stream *rng.Stream, roughness float64) int {
	return int((stream.Float64()*2 - 1) * roughness)
}

func nextPow2Plus1(n int) int {
	size := 1
	for size+1 < n {
		size *= 2
	}
	return size + 1
}

// heightFractal: diamond-square on a power-of-two padded grid, bounded
// by edge damping so the frame trends toward ocean.
func heightFractal(w, h int, stream *rng.Stream) *heightMap {
	size := nextPow2Plus1(max(w, h))
	raw := diamondSquarePow2(size, stream)

	m := newHeightMap(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			e := raw.at(x, y)
			e = int(float64(e) * edgeDamping(x, y, w, h))
			m.set(x, y, e)
		}
	}
	return m
}

// edgeDamping returns a multiplier in (0,1] that falls off toward the
// map frame so fractal maps don't land masses on the border uniformly.
func edgeDamping(x, y, w, h int) float64 {
	dx := distToEdge(x, w)
	dy := distToEdge(y, h)
	d := dx
	if dy < d {
		d = dy
	}
	band := float64(min(w, h)) * 0.12
	if band < 1 {
		band = 1
	}
	if float64(d) >= band {
		return 1.0
	}
	return 0.35 + 0.65*(float64(d)/band)
}

func distToEdge(v, size int) int {
	d := v
	if size-1-v < d {
		d = size - 1 - v
	}
	return d
}

// heightIsland seeds N island kernels and accretes neighbours with
// decreasing probability, then perturbs with diamond-square, used by
// both ISLAND and FAIR (FAIR additionally constrains symmetry at the
// starting-position stage, not here).
func heightIsland(w, h int, stream *rng.Stream) *heightMap {
	m := newHeightMap(w, h)
	for i := range m.v {
		m.v[i] = 20 // ocean floor baseline
	}

	numKernels := 3 + stream.Intn(4)
	type pt struct{ x, y int }
	frontier := make([]pt, 0, numKernels)
	for i := 0; i < numKernels; i++ {
		cx := w/4 + stream.Intn(w/2+1)
		cy := h/4 + stream.Intn(h/2+1)
		m.set(cx, cy, 220)
		frontier = append(frontier, pt{cx, cy})
	}

	prob := 0.78
	for len(frontier) > 0 && prob > 0.05 {
		var next []pt
		for _, p := range frontier {
			for _, d := range [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
				nx, ny := p.x+d[0], p.y+d[1]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				if m.at(nx, ny) >= 180 {
					continue
				}
				if stream.Chance(prob) {
					m.set(nx, ny, 150+stream.Intn(70))
					next = append(next, pt{nx, ny})
				}
			}
		}
		frontier = next
		prob *= 0.88
	}

	m = smooth(m, 1)
	perturb := diamondSquarePow2(nextPow2Plus1(max(w, h)), stream.Sub("island-perturb"))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			blended := m.at(x, y)*3/4 + perturb.at(x, y)/4
			m.set(x, y, blended)
		}
	}
	return m
}

// heightFracture superimposes linear fracture lines, each raising a
// band of elevation along its length, to create elongated landmasses.
func heightFracture(w, h int, stream *rng.Stream) *heightMap {
	m := newHeightMap(w, h)
	for i := range m.v {
		m.v[i] = 60
	}

	numLines := 4 + stream.Intn(5)
	for i := 0; i < numLines; i++ {
		x0, y0 := stream.Intn(w), stream.Intn(h)
		angle := stream.Float64() * 3.14159265
		length := float64(min(w, h)) * (0.4 + stream.Float64()*0.5)
		dx, dy := math.Cos(angle), math.Sin(angle)
		steps := int(length)
		for s := 0; s < steps; s++ {
			x := x0 + int(dx*float64(s))
			y := y0 + int(dy*float64(s))
			for wy := -2; wy <= 2; wy++ {
				for wx := -2; wx <= 2; wx++ {
					nx, ny := x+wx, y+wy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					falloff := 1.0 - (absf(float64(wx))+absf(float64(wy)))/5.0
					if falloff < 0 {
						continue
					}
					boost := int(120 * falloff)
					cur := m.at(nx, ny)
					m.set(nx, ny, cur+boost)
				}
			}
		}
	}
	return smooth(m, 1)
}

func absf(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
