package dualmcf

import (
	"context"
	"fmt"
	"time"

	"layoutdecomp/pkg/apperror"
	"layoutdecomp/pkg/config"
	"layoutdecomp/pkg/logger"
	"layoutdecomp/pkg/metrics"
)

// Result is the decoded output of Solve: the primal variable
// assignment recovered from the dual flow's node potentials, plus the
// dual flow values on each constraint (for sensitivity/debugging), and
// summary Stats.
type Result struct {
	X          []float64
	DualY      map[int]float64
	Feasible   bool
	EngineUsed string
	Stats      Stats
}

// Stats summarizes one Solve call.
type Stats struct {
	ArcInversions int
	Iterations    int
	Duration      time.Duration
}

func engineByName(name string) Engine {
	switch name {
	case "capacity_scaling":
		return &CapacityScalingEngine{}
	case "cost_scaling":
		return &CostScalingEngine{}
	case "cycle_canceling":
		return &CycleCancelingEngine{}
	case "network_simplex", "":
		return &NetworkSimplexEngine{}
	default:
		return nil
	}
}

// Solve implements the Solve & Decode step (spec §4.9): it builds the
// dual min-cost-flow graph from m, rewrites negative-cost arcs,
// dispatches to the configured Engine, and decodes the optimal flow's
// node potentials as the primal difference-constraint solution.
//
// If m has no objective (every weight is 0), Solve skips the flow
// formulation and reports feasibility directly from a negative-cycle
// check on the constraint graph, per the Graph Builder's
// FeasibleOnly case.
func Solve(ctx context.Context, m *Model, cfg config.DualMCFConfig, collectors *metrics.DualMCFCollectors) (Result, error) {
	start := time.Now()
	log := logger.WithCore("dualmcf")

	if m == nil {
		return Result{}, apperror.ErrNilInput
	}
	if m.NumVars == 0 {
		return Result{}, apperror.ErrEmptyGraph
	}

	bg, err := Build(m, cfg.BigMHeadroom)
	if err != nil {
		log.Error("graph builder failed", "error", err)
		return Result{}, err
	}

	if bg.FeasibleOnly {
		bf := bellmanFord(ctx, bg.Graph, 0)
		if bf.HasNegativeCycle {
			return Result{}, apperror.ErrFlowInfeasible
		}
		// Arc j->i costs -b, so the distances satisfy d_i - d_j <= -b;
		// x = -d satisfies x_i - x_j >= b.
		x := make([]float64, m.NumVars)
		for v := 0; v < m.NumVars; v++ {
			x[v] = -bf.Distances[v]
		}
		return Result{
			X:        x,
			DualY:    map[int]float64{},
			Feasible: true,
			Stats:    Stats{Duration: time.Since(start)},
		}, nil
	}

	rewrite := RewriteNegativeCosts(bg)
	if collectors != nil {
		for i := 0; i < rewrite.Inversions; i++ {
			collectors.ArcInversions.Inc()
		}
	}

	engineName := cfg.DefaultEngine
	engine := engineByName(engineName)
	if engine == nil {
		return Result{}, apperror.New(apperror.CodeInvalidAlgorithm,
			fmt.Sprintf("unknown dual-mcf engine %q", engineName))
	}

	engCfg := EngineConfig{Epsilon: 1e-9}
	engResult := engine.Solve(ctx, bg.Graph, bg.Source, bg.Sink, bg.FlowValue, engCfg)

	status := "ok"
	if engResult.Canceled {
		status = "canceled"
	} else if engResult.Flow < bg.FlowValue-engCfg.Epsilon {
		status = "infeasible"
	}
	if collectors != nil {
		collectors.EngineSolves.WithLabelValues(engine.Name(), status).Inc()
		collectors.SolveDuration.WithLabelValues(engine.Name()).Observe(time.Since(start).Seconds())
	}

	if engResult.Canceled {
		return Result{}, apperror.New(apperror.CodeInternal, "dual-mcf engine canceled before convergence")
	}
	if engResult.Flow < bg.FlowValue-engCfg.Epsilon {
		return Result{}, apperror.ErrFlowInfeasible
	}

	potentials := nodePotentials(ctx, bg.Graph, 0)
	x := make([]float64, m.NumVars)
	for v := 0; v < m.NumVars; v++ {
		x[v] = potentials[v]
	}

	dualY := make(map[int]float64, len(m.Constraints))
	for _, c := range m.Constraints {
		arc := bg.Graph.GetArc(c.J, c.I)
		if arc != nil && !arc.IsReverse {
			dualY[c.ID] = arc.Flow
			continue
		}
		// The arc was inverted by the rewriter; its dual value is the
		// pre-committed capacity minus the flow now sitting on the
		// reversed, nonnegative-cost arc.
		if inv := bg.Graph.GetArc(c.I, c.J); inv != nil && !inv.IsReverse {
			dualY[c.ID] = inv.OriginalCapacity - inv.Flow
		}
	}

	stats := Stats{
		ArcInversions: rewrite.Inversions,
		Iterations:    engResult.Iterations,
		Duration:      time.Since(start),
	}

	log.Info("solve complete",
		"vars", m.NumVars, "constraints", len(m.Constraints),
		"engine", engine.Name(), "iterations", stats.Iterations,
		"arc_inversions", stats.ArcInversions,
	)

	return Result{
		X:          x,
		DualY:      dualY,
		Feasible:   true,
		EngineUsed: engine.Name(),
		Stats:      stats,
	}, nil
}
