package coloring

// ApplyStats reports what the applier and greedy repair pass did.
type ApplyStats struct {
	GreedyRepairs int
}

// Apply implements the Applier (spec §4.6): it decodes each vertex's
// final (b1,b2) LP values into its 2-bit color and writes Vertex.Color,
// rounding any value still not exactly 0 or 1 to its nearer integer.
// It then runs the Greedy Refiner: a bounded pass over every ordered
// pair of colors that repeatedly looks for a still-conflicting edge and
// reassigns one endpoint to the lowest-numbered color that is not used
// by any of its neighbors, stopping once a full pass finds no conflict
// or the pass budget (the number of colors squared: 16 for FOUR, 9 for
// THREE) is exhausted. The greedy pass itself is skipped entirely whenever any
// vertex carries a precoloring (spec §4.6): repair would otherwise
// reassign colors around a fixed vertex that the rounder already had to
// resolve without that option.
func Apply(m *Model) ApplyStats {
	var stats ApplyStats

	for _, v := range m.Graph.Vertices {
		if v.Precolor >= 0 {
			v.Color = v.Precolor
			continue
		}
		b1, b2 := m.vbit[v.ID][0], m.vbit[v.ID][1]
		v.Color = DecodeColor(round01(m.Engine.Value(b1)), round01(m.Engine.Value(b2)))
	}

	if m.Graph.HasPrecoloring() {
		return stats
	}

	numColors := m.Graph.Mode.NumColors()
	budget := numColors * numColors

	for pass := 0; pass < budget; pass++ {
		conflict := m.firstConflict()
		if conflict == nil {
			break
		}
		m.repairConflict(conflict, numColors)
		stats.GreedyRepairs++
	}

	return stats
}

// firstConflict returns an edge whose endpoints currently share a
// color, or nil if the coloring is already proper.
func (m *Model) firstConflict() *Edge {
	for _, e := range m.Graph.Edges {
		if m.Graph.Vertices[e.S].Color == m.Graph.Vertices[e.T].Color {
			return e
		}
	}
	return nil
}

// repairConflict reassigns the non-precolored endpoint of e (preferring
// to leave a precolored endpoint untouched) to the lowest-numbered
// color not used by any of its neighbors. If both endpoints are
// precolored the conflict is left as-is and no error is reported.
func (m *Model) repairConflict(e *Edge, numColors int) {
	target := e.T
	if m.Graph.Vertices[e.S].Precolor < 0 {
		target = e.S
	} else if m.Graph.Vertices[e.T].Precolor < 0 {
		target = e.T
	} else {
		return
	}

	used := make([]bool, numColors)
	for _, nb := range m.Graph.Neighbors(target) {
		other := nb.Other(target)
		c := m.Graph.Vertices[other].Color
		if c >= 0 && c < numColors {
			used[c] = true
		}
	}

	for c := 0; c < numColors; c++ {
		if !used[c] {
			m.Graph.Vertices[target].Color = c
			return
		}
	}
	// Every color is used by some neighbor: leave the conflict in place,
	// degree exceeds numColors-1 and no proper coloring of this vertex
	// exists within the current neighborhood assignment.
}
