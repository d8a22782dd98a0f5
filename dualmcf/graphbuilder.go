package dualmcf

import (
	"math"

	"layoutdecomp/pkg/apperror"
)

// Super source/sink node IDs. Variable nodes occupy [0, NumVars); these
// two synthetic IDs always sit just past that range.
const (
	superSourceOffset = 0
	superSinkOffset   = 1
)

// BuiltGraph is everything the graph builder produces: the flow graph
// itself plus the bookkeeping the decoder needs afterward.
type BuiltGraph struct {
	Graph       *FlowGraph
	Source      int
	Sink        int
	FlowValue   float64
	FeasibleOnly bool // true when every weight is 0: no MCF solve is needed, only a negative-cycle check
}

// Build implements the Graph Builder (spec §4.7): it turns a Model's
// difference constraints into the dual min-cost-flow problem.
//
// Each constraint x_i - x_j >= b becomes, in the dual, a nonnegative
// flow variable y on the arc j->i with cost -b (the dual maximizes
// sum(b*y), so the min-cost-flow formulation minimizes -b*y). Since y
// is otherwise unbounded above, the arc is given a big-M surrogate
// capacity instead of an unbounded one, sized from the largest
// right-hand side or bound magnitude times the number of constraint
// and bound arcs.
//
// A simple bound lb <= x_v <= ub (v != 0, spec §3) contributes the same
// way, as two more difference constraints against the fixed reference
// variable 0 (spec §4.7 sources (b) and (c)): x_v - x_0 >= lb becomes
// arc 0->v with cost -lb, and x_0 - x_v >= -ub becomes arc v->0 with
// cost ub.
//
// The dual's per-node equality constraints only balance (sum(Weight)
// == 0) when the primal objective is orthogonal to the constraint
// matrix's null space -- the classic fact that a pure
// difference-constraint LP is unbounded unless its objective weights
// sum to zero. If every weight is 0 the caller only wants a
// feasibility check, so Build skips the flow formulation entirely and
// reports FeasibleOnly. If the weights are nonzero but do not sum to
// zero, Build returns apperror.CodeFlowUnbounded.
func Build(m *Model, bigMHeadroom float64) (*BuiltGraph, error) {
	if bigMHeadroom < 1 {
		bigMHeadroom = 2
	}

	sumWeight := 0.0
	maxAbsWeight := 0.0
	for _, w := range m.Weight {
		sumWeight += w
		if a := math.Abs(w); a > maxAbsWeight {
			maxAbsWeight = a
		}
	}

	allZero := maxAbsWeight <= Epsilon
	if !allZero && math.Abs(sumWeight) > Epsilon*float64(m.NumVars+1) {
		return nil, apperror.ErrFlowUnbounded
	}

	g := NewFlowGraph()
	for v := 0; v < m.NumVars; v++ {
		g.ensureNode(v)
	}

	maxB := 0.0
	for _, c := range m.Constraints {
		if a := math.Abs(c.B); a > maxB {
			maxB = a
		}
	}
	numBoundArcs := 0
	for v := 1; v < m.NumVars; v++ {
		if m.LB[v] > -Infinity+Epsilon {
			if a := math.Abs(m.LB[v]); a > maxB {
				maxB = a
			}
			numBoundArcs++
		}
		if m.UB[v] < Infinity-Epsilon {
			if a := math.Abs(m.UB[v]); a > maxB {
				maxB = a
			}
			numBoundArcs++
		}
	}
	bigM := bigMHeadroom * (maxB*float64(len(m.Constraints)+numBoundArcs) + 1)

	for _, c := range m.Constraints {
		g.AddArcWithReverse(c.J, c.I, bigM, -c.B, c.ID)
	}

	for v := 1; v < m.NumVars; v++ {
		if m.LB[v] > -Infinity+Epsilon {
			g.AddArcWithReverse(0, v, bigM, -m.LB[v], -1)
		}
		if m.UB[v] < Infinity-Epsilon {
			g.AddArcWithReverse(v, 0, bigM, m.UB[v], -1)
		}
	}

	if allZero {
		return &BuiltGraph{Graph: g, FeasibleOnly: true}, nil
	}

	source := m.NumVars + superSourceOffset
	sink := m.NumVars + superSinkOffset
	g.ensureNode(source)
	g.ensureNode(sink)

	// Weight[v] is the dual's required (inflow - outflow) balance at v.
	// A node with Weight[v] > 0 accumulates flow from the constraint
	// arcs and must drain the excess to the super sink; a node with
	// Weight[v] < 0 emits more than it receives and must draw the
	// shortfall from the super source.
	flowValue := 0.0
	for v, w := range m.Weight {
		switch {
		case w > Epsilon:
			g.AddArcWithReverse(v, sink, w, 0, -1)
			flowValue += w
		case w < -Epsilon:
			g.AddArcWithReverse(source, v, -w, 0, -1)
		}
	}

	return &BuiltGraph{
		Graph:     g,
		Source:    source,
		Sink:      sink,
		FlowValue: flowValue,
	}, nil
}
