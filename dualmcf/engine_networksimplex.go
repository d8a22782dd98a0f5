package dualmcf

import "context"

// NetworkSimplexEngine solves min-cost flow via Successive Shortest
// Paths with node potentials (Johnson's technique): repeatedly find a
// shortest path from source to sink under reduced costs, using
// Dijkstra once potentials are nonnegative-safe, and augment along it.
//
// Despite the name this is the SSP-with-potentials algorithm, not a
// simplex-tableau pivot; it is grounded on and adapted from the
// pack's SuccessiveShortestPathInternal, which plays the same
// "default, general-purpose" role among MCF engines that network
// simplex plays in commercial solvers.
type NetworkSimplexEngine struct{}

func (e *NetworkSimplexEngine) Name() string { return "network_simplex" }

func (e *NetworkSimplexEngine) Solve(ctx context.Context, g *FlowGraph, source, sink int, requiredFlow float64, cfg EngineConfig) *EngineResult {
	eps := cfg.Epsilon
	if eps <= 0 {
		eps = Epsilon
	}

	nodes := g.GetSortedNodes()
	potential := make(map[int]float64, len(nodes))

	init := bellmanFord(ctx, g, source)
	if init.HasNegativeCycle {
		return &EngineResult{}
	}
	for _, n := range nodes {
		if init.Distances[n] < Infinity-eps {
			potential[n] = init.Distances[n]
		}
	}

	totalFlow, totalCost := 0.0, 0.0
	iterations := 0
	useInit := true

	for totalFlow < requiredFlow-eps {
		if cfg.MaxIterations > 0 && iterations >= cfg.MaxIterations {
			break
		}
		select {
		case <-ctx.Done():
			return &EngineResult{Flow: totalFlow, Cost: totalCost, Iterations: iterations, Canceled: true}
		default:
		}

		var sp *bellmanFordResult
		if useInit {
			sp = init
			useInit = false
		} else {
			sp = dijkstraWithPotentials(g, source, potential)
			for _, n := range nodes {
				if sp.Distances[n] < Infinity-eps {
					potential[n] += sp.Distances[n]
				}
			}
		}

		if sp.Distances[sink] >= Infinity-eps {
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
		if flow <= eps {
			break
		}

		totalCost += pathCost(g, path, flow)
		augmentPath(g, path, flow)
		totalFlow += flow
		iterations++
	}

	return &EngineResult{Flow: totalFlow, Cost: totalCost, Iterations: iterations}
}
