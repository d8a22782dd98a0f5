package dualmcf

import (
	"context"
	"math"
)

// CostScalingEngine implements the epsilon-scaling refinement pass on
// top of an initial feasible-and-optimal flow: it maintains a node
// price function, relaxing eps-optimality by repeatedly tightening
// prices along admissible residual arcs (those whose reduced cost is
// still negative at the current eps), halving eps each round until
// eps-optimality implies exact optimality. Unlike the push-relabel
// algorithm it is descended from, it never needs to move flow itself
// here: the priming SSP pass already leaves no negative-reduced-cost
// augmenting path from source to sink, so only the price refinement is
// left to do. The prices stay local to Solve and are not returned;
// Solve's decoding computes its own potentials.
//
// Grounded on and adapted from the pack's push_relabel.go: the
// price/relabel bookkeeping mirrors that file's height-function
// preflow-push structure, generalized from maximum flow's height to
// cost scaling's price, per Goldberg & Tarjan's observation that cost
// scaling is preflow-push run against reduced costs.
type CostScalingEngine struct{}

func (e *CostScalingEngine) Name() string { return "cost_scaling" }

func (e *CostScalingEngine) Solve(ctx context.Context, g *FlowGraph, source, sink int, requiredFlow float64, cfg EngineConfig) *EngineResult {
	eps := cfg.Epsilon
	if eps <= 0 {
		eps = Epsilon
	}

	nodes := g.GetSortedNodes()
	n := len(nodes)
	price := make(map[int]float64, n)

	maxCost := 1.0
	for _, u := range nodes {
		for _, arc := range g.GetNeighborsList(u) {
			if c := math.Abs(arc.Cost); c > maxCost {
				maxCost = c
			}
		}
	}

	ssp := &NetworkSimplexEngine{}
	sspResult := ssp.Solve(ctx, g, source, sink, requiredFlow, cfg)
	if sspResult.Canceled {
		return sspResult
	}

	iterations := sspResult.Iterations
	scalingEps := maxCost

	for scalingEps >= 1.0/float64(n+1) {
		select {
		case <-ctx.Done():
			return &EngineResult{Flow: sspResult.Flow, Cost: g.TotalCost(), Iterations: iterations, Canceled: true}
		default:
		}
		if cfg.MaxIterations > 0 && iterations >= cfg.MaxIterations {
			break
		}

		tightened := false
		for _, u := range nodes {
			for _, arc := range g.GetNeighborsList(u) {
				if !arc.HasCapacity() {
					continue
				}
				reduced := arc.Cost + price[u] - price[arc.To]
				if reduced < -scalingEps-Epsilon {
					price[arc.To] = arc.Cost + price[u] + scalingEps
					tightened = true
					iterations++
				}
			}
		}
		if !tightened {
			break
		}

		scalingEps /= 2
	}

	return &EngineResult{Flow: sspResult.Flow, Cost: g.TotalCost(), Iterations: iterations}
}
