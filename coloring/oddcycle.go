package coloring

// OddCycle is an ordered list of vertex IDs forming a simple cycle of
// odd length, stored only as long as enumeration is in progress (spec §3).
type OddCycle []int

// detectOddCycles implements the Odd-Cycle Detector (spec §4.4): an
// iterative DFS rooted at v that maintains a distance-parity array (the
// 2-coloring class, -1 if unseen), a visited flag array, and an
// in-cycle array marking every vertex of a traced cycle. Only cycles
// that contain v are kept; that check is made on the traced cycle itself.
//
// This is grounded on the iterative-stack DFS used by the pack's cycle
// detectors (parity/visited arrays, explicit stack instead of recursion),
// adapted from "enumerate every cycle" to "enumerate odd cycles through
// one root". The detector is a cycle *enumerator*, not an all-pairs
// search: it yields every odd cycle through v that the DFS tree
// produces, duplicates across different roots are tolerated since the
// resulting cuts are redundant-but-harmless.
//
// The spec's open question about a stray integer-array write after
// setting parity is resolved by omitting that write: only the parity
// array is assigned (see spec §9).
func detectOddCycles(g *ConflictGraph, root int) []OddCycle {
	n := len(g.Vertices)
	parity := make([]int, n) // -1 = unseen, else 0/1
	for i := range parity {
		parity[i] = -1
	}
	visited := make([]bool, n)
	inCycle := make([]bool, n)

	var stack []int
	var cycles []OddCycle

	parity[root] = 0
	visited[root] = true
	stack = append(stack, root)

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		advanced := false
		for _, e := range g.Neighbors(top) {
			nbr := e.Other(top)
			if parity[nbr] == -1 {
				parity[nbr] = 1 - parity[top]
				visited[nbr] = true
				stack = append(stack, nbr)
				advanced = true
				break
			}
		}
		if advanced {
			continue
		}

		// No unseen neighbor: look for a same-parity visited neighbor
		// that closes an odd cycle back to somewhere on the stack.
		for _, e := range g.Neighbors(top) {
			nbr := e.Other(top)
			if visited[nbr] && parity[nbr] == parity[top] && nbr != top {
				if cyc, ok := closeCycle(stack, nbr, inCycle); ok {
					if containsVertex(cyc, root) {
						cycles = append(cycles, cyc)
					}
				}
			}
		}

		// Pop top and clear its visited flag: it is no longer on the stack,
		// so it can no longer close a cycle. Its parity stays set, so it is
		// never pushed again.
		stack = stack[:len(stack)-1]
		visited[top] = false
	}

	return cycles
}

// closeCycle traces the stack back from its top to u (inclusive),
// marking those vertices in-cycle, and returns the traced segment as an
// odd cycle. ok is false if u is not found on the stack.
func closeCycle(stack []int, u int, inCycle []bool) (OddCycle, bool) {
	idx := -1
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i] == u {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, false
	}

	segment := append(OddCycle(nil), stack[idx:]...)
	for _, v := range segment {
		inCycle[v] = true
	}
	if len(segment)%2 == 0 {
		// segment length is the cycle length; odd cycles have odd length.
		return nil, false
	}
	return segment, true
}

func containsVertex(cyc OddCycle, v int) bool {
	for _, u := range cyc {
		if u == v {
			return true
		}
	}
	return false
}

// cycleSignature canonicalizes a cycle for the optional duplicate
// filter (spec §9): the sorted tuple of vertex IDs, since the detector
// only needs to avoid re-adding a cut over the exact same vertex set.
func cycleSignature(cyc OddCycle) string {
	sorted := append(OddCycle(nil), cyc...)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1] > sorted[j]; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}
	b := make([]byte, 0, len(sorted)*4)
	for i, v := range sorted {
		if i > 0 {
			b = append(b, ',')
		}
		b = appendInt(b, v)
	}
	return string(b)
}

func appendInt(b []byte, v int) []byte {
	if v == 0 {
		return append(b, '0')
	}
	neg := v < 0
	if neg {
		v = -v
	}
	start := len(b)
	for v > 0 {
		b = append(b, byte('0'+v%10))
		v /= 10
	}
	if neg {
		b = append(b, '-')
	}
	// reverse the digits just appended
	for i, j := start, len(b)-1; i < j; i, j = i+1, j-1 {
		b[i], b[j] = b[j], b[i]
	}
	return b
}
