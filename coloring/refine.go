package coloring

import (
	"fmt"

	"layoutdecomp/pkg/apperror"
)

// RefinerConfig bounds the Iterative Refiner's main loop.
type RefinerConfig struct {
	MaxIterations int     // 0 means unbounded (spec §5 default)
	Epsilon       float64 // half-integer tolerance
}

// RefineStats reports what one Refine call did, for Solve's Stats().
type RefineStats struct {
	Iterations     int
	OddCyclesCut   int
	FinalHalfCount int
}

// Refine implements the Iterative Refiner (spec §4.3): repeatedly
// perturb the objective to push fractional bit-pairs toward integers,
// re-optimize, and inject odd-cycle cuts discovered in the current
// fractional solution, stopping once the count of non-integer vertex
// pairs stops shrinking or the iteration budget is exhausted.
//
// Each pass adds two families of small objective nudges (never large
// enough to change the feasible region, only to break symmetric ties):
//   - pair-direction terms, pushing each vertex's (b1,b2) pair jointly
//     toward whichever corner of [0,1]^2 it is already closest to;
//   - edge-direction terms, pushing each edge's auxiliary bit toward its
//     own nearer integer. The auxiliary bit appears in no constraint, so
//     this term does not compare the two endpoints' vertex bits.
//
// Odd-cycle cuts (§4.4) are injected for every newly found odd cycle
// that still has at least one fractional vertex.
func Refine(m *Model, cfg RefinerConfig, collectors *RefinerCollectors) (RefineStats, error) {
	if cfg.Epsilon <= 0 {
		cfg.Epsilon = 1e-6
	}

	var stats RefineStats
	seenCuts := make(map[string]bool)
	prevHalf := -1

	for iter := 0; cfg.MaxIterations == 0 || iter < cfg.MaxIterations; iter++ {
		status, err := m.Engine.Optimize()
		if err != nil {
			return stats, err
		}
		if status != StatusOptimal {
			return stats, apperror.ErrColoringBug
		}
		stats.Iterations++
		if collectors != nil {
			collectors.RefinerIterations.Inc()
		}

		halfCount := m.countHalfIntegerPairs(cfg.Epsilon)
		stats.FinalHalfCount = halfCount

		if halfCount == 0 {
			break
		}
		if prevHalf >= 0 && halfCount >= prevHalf {
			// No progress this pass: apply nudges and cuts once more,
			// then let the caller (the rounder) take over from here.
			m.applyDirectionalNudges(cfg.Epsilon)
			stats.OddCyclesCut += m.injectOddCycleCuts(seenCuts, cfg.Epsilon, collectors)
			break
		}
		prevHalf = halfCount

		m.applyDirectionalNudges(cfg.Epsilon)
		newCuts := m.injectOddCycleCuts(seenCuts, cfg.Epsilon, collectors)
		stats.OddCyclesCut += newCuts
	}

	return stats, nil
}

// RefinerCollectors is the subset of metrics.ColoringCollectors the
// refiner touches; kept as its own interface so coloring need not
// import the metrics package directly.
type RefinerCollectors struct {
	RefinerIterations interface{ Inc() }
	OddCyclesFound    interface{ Inc() }
}

// countHalfIntegerPairs counts vertices with at least one of their
// (b1,b2) LP values away from {0,1} by more than eps.
func (m *Model) countHalfIntegerPairs(eps float64) int {
	count := 0
	for _, v := range m.Graph.Vertices {
		b1, b2 := m.vbit[v.ID][0], m.vbit[v.ID][1]
		if isFractional(m.Engine.Value(b1), eps) || isFractional(m.Engine.Value(b2), eps) {
			count++
		}
	}
	return count
}

func isFractional(x, eps float64) bool {
	frac := x - float64(int(x))
	if frac < 0 {
		frac = -frac
	}
	return frac > eps && frac < 1-eps
}

// applyDirectionalNudges adds the pair-direction and edge-direction
// objective perturbations for the current fractional solution.
func (m *Model) applyDirectionalNudges(eps float64) {
	const nudge = 1e-4

	for _, v := range m.Graph.Vertices {
		b1, b2 := m.vbit[v.ID][0], m.vbit[v.ID][1]
		x1, x2 := m.Engine.Value(b1), m.Engine.Value(b2)
		m.Engine.AddObjectiveTerm(b1, directionTerm(x1, nudge))
		m.Engine.AddObjectiveTerm(b2, directionTerm(x2, nudge))
	}

	for _, e := range m.Graph.Edges {
		aux := m.ebit[e.ID]
		x := m.Engine.Value(aux)
		m.Engine.AddObjectiveTerm(aux, directionTerm(x, nudge))
	}
}

// directionTerm returns a small objective coefficient that pushes x
// toward its nearer integer: negative (reward increasing) if x is
// already past the midpoint, positive (reward decreasing) otherwise.
func directionTerm(x, nudge float64) float64 {
	if x >= 0.5 {
		return -nudge
	}
	return nudge
}

// injectOddCycleCuts scans every vertex as a detection root, adds the
// per-bit vertex-sum cut (see addOddCycleConstraint) for each freshly
// discovered odd cycle with at least one vertex still fractional, and
// returns how many new cuts were added.
func (m *Model) injectOddCycleCuts(seen map[string]bool, eps float64, collectors *RefinerCollectors) int {
	added := 0
	for _, root := range m.Graph.Vertices {
		cycles := detectOddCycles(m.Graph, root.ID)
		for _, cyc := range cycles {
			if !m.cycleIsFractional(cyc, eps) {
				continue
			}
			sig := cycleSignature(cyc)
			if seen[sig] {
				continue
			}
			seen[sig] = true
			m.addOddCycleConstraint(cyc)
			added++
			if collectors != nil {
				collectors.OddCyclesFound.Inc()
			}
		}
	}
	return added
}

func (m *Model) cycleIsFractional(cyc OddCycle, eps float64) bool {
	for _, v := range cyc {
		b1, b2 := m.vbit[v][0], m.vbit[v][1]
		if isFractional(m.Engine.Value(b1), eps) || isFractional(m.Engine.Value(b2), eps) {
			return true
		}
	}
	return false
}

// addOddCycleConstraint adds, for each bit index i in {0,1}, the pair
// of constraints sum_{v in C} v_i >= 1 and sum_{v in C} v_i <= L-1
// (spec §4.3 step 3): an odd cycle of length L cannot be properly
// 2-colored, so its vertices cannot agree on bit i unanimously in
// either direction.
func (m *Model) addOddCycleConstraint(cyc OddCycle) {
	L := len(cyc)
	sig := cycleSignature(cyc)
	for i := 0; i < 2; i++ {
		terms := make(map[int]float64, L)
		for _, v := range cyc {
			terms[m.vbit[v][i]] = 1
		}
		m.Engine.AddConstr(terms, GE, 1, fmt.Sprintf("oddcycle_%s_b%d_lo", sig, i))
		m.Engine.AddConstr(terms, LE, float64(L-1), fmt.Sprintf("oddcycle_%s_b%d_hi", sig, i))
	}
}

