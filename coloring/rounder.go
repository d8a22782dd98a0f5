package coloring

import "layoutdecomp/pkg/apperror"

// RounderStats reports what the binding-analysis rounder did.
type RounderStats struct {
	PairsRounded int
	Aborted      int
}

// Round implements the Binding-Analysis Rounder (spec §4.5): for every
// vertex whose bit pair is still fractional after refinement, it scans
// every constraint binding (slack within eps of 0) on that vertex's two
// bit variables, uses each one's coefficients and leaning direction to
// invalidate incompatible color candidates, and fixes the vertex to the
// lexicographically-smallest surviving candidate.
//
// If a vertex's binding constraints disagree on leaning direction (the
// direction-compatibility abort rule, failFlag) or none are binding,
// the vertex is left fractional and RounderStats.Aborted is
// incremented; the caller's greedy repair pass (spec §4.6) is expected
// to fix it up afterward.
func Round(m *Model, eps float64) (RounderStats, error) {
	var stats RounderStats

	status, err := m.Engine.Optimize()
	if err != nil {
		return stats, err
	}
	if status != StatusOptimal {
		return stats, apperror.ErrColoringBug
	}

	for _, v := range m.Graph.Vertices {
		if v.Precolor >= 0 {
			continue
		}
		b1, b2 := m.vbit[v.ID][0], m.vbit[v.ID][1]
		x1, x2 := m.Engine.Value(b1), m.Engine.Value(b2)

		if !isFractional(x1, eps) && !isFractional(x2, eps) {
			continue
		}

		candidate, ok := m.bindingCandidate(v.ID, eps)
		if !ok {
			stats.Aborted++
			continue
		}

		fb1, fb2 := EncodeColor(candidate)
		m.Engine.SetLB(b1, float64(fb1))
		m.Engine.SetUB(b1, float64(fb1))
		m.Engine.SetLB(b2, float64(fb2))
		m.Engine.SetUB(b2, float64(fb2))
		stats.PairsRounded++
	}

	if stats.PairsRounded > 0 {
		// Re-solve so the values Apply decodes reflect the bounds fixed above.
		status, err = m.Engine.Optimize()
		if err != nil {
			return stats, err
		}
		if status != StatusOptimal {
			return stats, apperror.ErrColoringBug
		}
	}

	return stats, nil
}

// bindingCandidate implements spec §4.5's direction/sense scan: it walks
// every constraint binding on v's bit pair (slack within eps of 0),
// reads each one's coefficients a1,a2 on v's own bits b1,b2 via Coeff,
// and combines them with the pair's current LP values into
// Δ = a1*(x1-0.5) + a2*(x2-0.5). Δ's sign says which side of this
// constraint's boundary v's fractional pair is leaning toward; every
// binding constraint touching v must agree on that sign (the
// direction-compatibility rule), or the scan aborts (failFlag) and
// returns ok=false so the caller's greedy repair resolves v instead.
// Constraints that agree narrow the surviving candidate set one bit at
// a time; the smallest surviving candidate is returned.
func (m *Model) bindingCandidate(v int, eps float64) (int, bool) {
	numColors := m.Graph.Mode.NumColors()
	alive := make([]bool, 4)
	for c := 0; c < 4; c++ {
		alive[c] = c < numColors
	}

	b1, b2 := m.vbit[v][0], m.vbit[v][1]
	x1, x2 := m.Engine.Value(b1), m.Engine.Value(b2)

	seen := make(map[int]bool)
	constrIDs := append(append([]int{}, m.Engine.Column(b1)...), m.Engine.Column(b2)...)

	anyBinding := false
	dirSign := 0.0
	failFlag := false

	for _, constrID := range constrIDs {
		if seen[constrID] {
			continue
		}
		seen[constrID] = true

		if m.Engine.Slack(constrID) > eps {
			continue
		}
		_ = m.Engine.ConstrSense(constrID) // sense is read for completeness; slack is already sense-normalized

		a1 := m.Engine.Coeff(constrID, b1)
		a2 := m.Engine.Coeff(constrID, b2)
		delta := a1*(x1-0.5) + a2*(x2-0.5)
		if delta > -eps && delta < eps {
			continue
		}

		sign := 1.0
		if delta < 0 {
			sign = -1.0
		}
		if dirSign == 0 {
			dirSign = sign
		} else if sign != dirSign {
			failFlag = true
			break
		}
		anyBinding = true

		excludeByDirection(alive, a1, a2, sign)
	}

	if failFlag || !anyBinding {
		return 0, false
	}

	for c := 0; c < 4; c++ {
		if alive[c] {
			return c, true
		}
	}
	return 0, false
}

// excludeByDirection removes from alive every candidate color whose
// bits agree, on every axis the constraint actually constrains (a_i !=
// 0), with the corner this constraint's sign is leaning toward: for
// sign < 0, the corner where each constrained bit sits at the value
// that drives a_i*(x_i-0.5) to its most negative extreme (0 if a_i>0,
// 1 if a_i<0); for sign > 0, the opposite value on each such axis.
// Bits the constraint does not mention (a_i == 0) are unconstrained by
// it and never rule a candidate out on their own.
func excludeByDirection(alive []bool, a1, a2, sign float64) {
	for c := 0; c < 4; c++ {
		if !alive[c] {
			continue
		}
		cb1, cb2 := EncodeColor(c)
		if matchesLeaningCorner(a1, cb1, sign) && matchesLeaningCorner(a2, cb2, sign) {
			alive[c] = false
		}
	}
}

// matchesLeaningCorner reports whether candidate bit value bit matches
// the value that constraint coefficient a drives toward under sign, or
// is vacuously true if a == 0 (that axis is unconstrained).
func matchesLeaningCorner(a float64, bit int, sign float64) bool {
	if a == 0 {
		return true
	}
	extreme := 0
	if a < 0 {
		extreme = 1
	}
	if sign < 0 {
		return bit == extreme
	}
	return bit != extreme
}

func round01(x float64) int {
	if x >= 0.5 {
		return 1
	}
	return 0
}
