package coloring

import (
	"time"

	"layoutdecomp/pkg/apperror"
	"layoutdecomp/pkg/config"
	"layoutdecomp/pkg/logger"
	"layoutdecomp/pkg/metrics"
)

// Stats summarizes one Solve call for callers that want visibility
// into how much work the relaxation did.
type Stats struct {
	RefinerIterations int
	OddCyclesCut      int
	PairsRounded      int
	RounderAborts     int
	GreedyRepairs     int
	Duration          time.Duration
}

// Solve runs the full LP-coloring pipeline over g: Model Builder,
// Anchor, Iterative Refiner, Binding-Analysis Rounder, and Applier with
// greedy repair (spec §4.1-§4.6), writing the result into g.Vertices'
// Color fields and returning summary Stats.
//
// collectors may be nil to disable telemetry. cfg supplies the
// refiner's iteration budget and tolerance; its zero value applies the
// package defaults.
func Solve(g *ConflictGraph, cfg config.ColoringConfig, collectors *metrics.ColoringCollectors) (Stats, error) {
	start := time.Now()
	log := logger.WithCore("coloring")

	if g == nil {
		return Stats{}, apperror.ErrNilInput
	}
	if len(g.Vertices) == 0 {
		return Stats{}, apperror.ErrEmptyGraph
	}

	eps := cfg.Epsilon
	if eps <= 0 {
		eps = 1e-6
	}

	engine := NewGonumLPEngine()
	if cfg.Threads > 0 {
		engine.SetThreads(cfg.Threads)
	}

	model := BuildModel(g, engine)
	model.ApplyAnchor()

	refCollectors := adaptRefinerCollectors(collectors)

	maxIter := cfg.MaxIterations
	if maxIter <= 0 {
		maxIter = 2 * len(g.Vertices)
	}

	refStats, err := Refine(model, RefinerConfig{MaxIterations: maxIter, Epsilon: eps}, refCollectors)
	if err != nil {
		log.Error("refiner failed", "error", err)
		return Stats{}, err
	}

	roundStats, err := Round(model, eps)
	if err != nil {
		log.Error("rounder failed", "error", err)
		return Stats{}, err
	}
	if collectors != nil && roundStats.Aborted > 0 {
		collectors.RounderAborts.Add(float64(roundStats.Aborted))
	}

	applyStats := Apply(model)
	if collectors != nil && applyStats.GreedyRepairs > 0 {
		collectors.GreedyRepairs.Add(float64(applyStats.GreedyRepairs))
	}

	stats := Stats{
		RefinerIterations: refStats.Iterations,
		OddCyclesCut:      refStats.OddCyclesCut,
		PairsRounded:      roundStats.PairsRounded,
		RounderAborts:     roundStats.Aborted,
		GreedyRepairs:     applyStats.GreedyRepairs,
		Duration:          time.Since(start),
	}

	if collectors != nil {
		collectors.SolveDuration.Observe(stats.Duration.Seconds())
	}
	log.Info("solve complete",
		"vertices", len(g.Vertices), "edges", len(g.Edges),
		"refiner_iterations", stats.RefinerIterations,
		"odd_cycles_cut", stats.OddCyclesCut,
		"pairs_rounded", stats.PairsRounded,
		"rounder_aborts", stats.RounderAborts,
		"greedy_repairs", stats.GreedyRepairs,
	)

	return stats, nil
}

func adaptRefinerCollectors(c *metrics.ColoringCollectors) *RefinerCollectors {
	if c == nil {
		return nil
	}
	return &RefinerCollectors{
		RefinerIterations: c.RefinerIterations,
		OddCyclesFound:    c.OddCyclesFound,
	}
}
