package dualmcf

import (
	"context"
	"math"
)

// CapacityScalingEngine implements the Capacity Scaling variant of
// min-cost flow: it processes arcs in phases by a shrinking capacity
// threshold delta, restricting each phase's shortest-path search to
// arcs with residual capacity >= delta, and halves delta until it
// drops below 1. This bounds the number of augmenting paths relative
// to SSP's path count, at the cost of repeated Bellman-Ford
// reinitializations per phase.
//
// Grounded on and adapted from the pack's
// CapacityScalingMinCostFlowWithContext (same phase/threshold
// structure, same delta-halving schedule), restricted here to this
// package's FlowGraph and EngineConfig types.
type CapacityScalingEngine struct{}

func (e *CapacityScalingEngine) Name() string { return "capacity_scaling" }

func (e *CapacityScalingEngine) Solve(ctx context.Context, g *FlowGraph, source, sink int, requiredFlow float64, cfg EngineConfig) *EngineResult {
	eps := cfg.Epsilon
	if eps <= 0 {
		eps = Epsilon
	}

	maxCap := 0.0
	for _, u := range g.GetSortedNodes() {
		for _, arc := range g.GetNeighborsList(u) {
			if arc.Capacity > maxCap && arc.Capacity < Infinity {
				maxCap = arc.Capacity
			}
		}
	}
	delta := math.Pow(2, math.Floor(math.Log2(math.Max(maxCap, 1))))

	totalFlow, totalCost := 0.0, 0.0
	iterations := 0

	for delta >= 1 {
		select {
		case <-ctx.Done():
			return &EngineResult{Flow: totalFlow, Cost: totalCost, Iterations: iterations, Canceled: true}
		default:
		}

		for totalFlow < requiredFlow-eps {
			if cfg.MaxIterations > 0 && iterations >= cfg.MaxIterations {
				return &EngineResult{Flow: totalFlow, Cost: totalCost, Iterations: iterations}
			}

			sp := bellmanFordDelta(ctx, g, source, delta)
			if sp.HasNegativeCycle || sp.Distances[sink] >= Infinity-eps {
				break
			}

			path := reconstructPath(sp.Parent, source, sink)
			if len(path) == 0 {
				break
			}

			flow := requiredFlow - totalFlow
			if b := bottleneckCapacity(g, path); b < flow {
				flow = b
			}
			if flow < delta && delta > 1 {
				break
			}
			if flow <= eps {
				break
			}

			totalCost += pathCost(g, path, flow)
			augmentPath(g, path, flow)
			totalFlow += flow
			iterations++
		}

		delta /= 2
	}

	return &EngineResult{Flow: totalFlow, Cost: totalCost, Iterations: iterations}
}

// bellmanFordDelta is bellmanFord restricted to arcs with residual
// capacity at least delta, the phase-restriction capacity scaling relies on.
func bellmanFordDelta(ctx context.Context, g *FlowGraph, source int, delta float64) *bellmanFordResult {
	nodes := g.GetSortedNodes()
	dist := make(map[int]float64, len(nodes))
	parent := make(map[int]int, len(nodes))
	for _, n := range nodes {
		dist[n] = Infinity
		parent[n] = -1
	}
	dist[source] = 0

	for i := 0; i < len(nodes)-1; i++ {
		select {
		case <-ctx.Done():
			return &bellmanFordResult{Distances: dist, Parent: parent}
		default:
		}
		relaxed := false
		for _, u := range nodes {
			if dist[u] >= Infinity-Epsilon {
				continue
			}
			for _, arc := range g.GetNeighborsList(u) {
				if arc.Capacity < delta {
					continue
				}
				if nd := dist[u] + arc.Cost; nd < dist[arc.To]-Epsilon {
					dist[arc.To] = nd
					parent[arc.To] = u
					relaxed = true
				}
			}
		}
		if !relaxed {
			break
		}
	}

	hasNegCycle := false
	for _, u := range nodes {
		if dist[u] >= Infinity-Epsilon {
			continue
		}
		for _, arc := range g.GetNeighborsList(u) {
			if arc.Capacity >= delta && dist[u]+arc.Cost < dist[arc.To]-Epsilon {
				hasNegCycle = true
			}
		}
	}

	return &bellmanFordResult{Distances: dist, Parent: parent, HasNegativeCycle: hasNegCycle}
}
