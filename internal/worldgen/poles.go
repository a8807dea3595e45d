package worldgen

// normalizeHmapPoles linearly depresses elevation toward the north and
// south edges so poles trend toward ocean/tundra rather than evenly
// distributed terrain, per spec.md §4.3 step 3. The heightmap is
// scaled in place; the damping factors are not stored, so the
// pre-transform elevation is not kept.
func normalizeHmapPoles(m *heightMap) {
	for y := 0; y < m.h; y++ {
		damp := poleDamping(y, m.h)
		for x := 0; x < m.w; x++ {
			e := float64(m.at(x, y)) * damp
			m.set(x, y, int(e))
		}
	}
}

// poleDamping returns a multiplier in [0.35, 1.0]: 1.0 at the equator
// row, falling toward 0.35 at the poles.
func poleDamping(y, h int) float64 {
	if h <= 1 {
		return 1.0
	}
	mid := float64(h-1) / 2.0
	latFrac := absf(float64(y) - mid) / mid // 0 at equator, 1 at poles
	return 1.0 - 0.65*latFrac*latFrac
}
