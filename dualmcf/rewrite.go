package dualmcf

// RewriteResult carries the bookkeeping the Negative-Cost Rewriter
// produces.
type RewriteResult struct {
	// ObjectiveOffset is the cost of the pre-committed flow on every
	// inverted arc, which never appears as flow on an arc an engine
	// actually solves for. Solve does not report an objective value and
	// does not add this offset to any cost.
	ObjectiveOffset float64
	Inversions      int
}

// RewriteNegativeCosts implements the Negative-Cost Rewriter (spec
// §4.8). Every forward arc with negative cost is replaced by its
// reverse, now-nonnegative-cost companion; the capacity units that
// would always flow along the original negative-cost arc (since
// sending them can only help a minimization) are pre-committed as
// extra supply/demand at its endpoints, via new arcs into the graph's
// super source/sink.
//
// This lets every engine assume nonnegative arc costs, matching the
// usual precondition for capacity scaling and cost scaling; Solve calls
// it before every engine, cycle canceling included.
//
// RewriteNegativeCosts must only be called on a graph that has a
// super source/sink (bg.FeasibleOnly == false); a feasibility-only
// check never needs an optimal flow and runs Bellman-Ford directly
// instead.
func RewriteNegativeCosts(bg *BuiltGraph) RewriteResult {
	var result RewriteResult
	if bg.FeasibleOnly {
		return result
	}
	g := bg.Graph

	var toInvert []*FlowArc
	var invertFrom []int
	for _, u := range g.GetSortedNodes() {
		for _, arc := range g.GetNeighborsList(u) {
			if !arc.IsReverse && arc.Cost < -Epsilon {
				toInvert = append(toInvert, arc)
				invertFrom = append(invertFrom, u)
			}
		}
	}

	for i, arc := range toInvert {
		u := invertFrom[i]
		v := arc.To
		cap := arc.OriginalCapacity
		cost := arc.Cost
		constraintID := arc.ConstraintID

		g.removeArc(u, v)
		g.removeArc(v, u)
		g.AddArcWithReverse(v, u, cap, -cost, constraintID)

		g.AddArcWithReverse(u, bg.Sink, cap, 0, -1)
		g.AddArcWithReverse(bg.Source, v, cap, 0, -1)

		result.ObjectiveOffset += cap * cost
		bg.FlowValue += cap
		result.Inversions++
	}

	return result
}
