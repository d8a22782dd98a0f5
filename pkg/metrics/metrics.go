// Package metrics provides prometheus collectors for the coloring and
// dual-MCF solver cores. Collectors are constructed once per process
// and passed into a core as an optional, nil-safe dependency — a core
// never reaches for a global registry itself.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ColoringCollectors groups the LP-coloring core's telemetry.
type ColoringCollectors struct {
	RefinerIterations    prometheus.Counter
	OddCyclesFound       prometheus.Counter
	OddCyclesDeduplicated prometheus.Counter
	RounderAborts        prometheus.Counter
	SolveDuration        prometheus.Histogram
	GreedyRepairs        prometheus.Counter
}

// NewColoringCollectors registers and returns the coloring core's
// collectors under namespace/subsystem. Pass nil as the *ColoringCollectors
// dependency anywhere a core accepts one to disable telemetry entirely.
func NewColoringCollectors(namespace, subsystem string) *ColoringCollectors {
	return &ColoringCollectors{
		RefinerIterations: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "refiner_iterations_total",
			Help: "Total number of iterative-refiner passes executed.",
		}),
		OddCyclesFound: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "odd_cycles_found_total",
			Help: "Total number of odd cycles discovered by the detector.",
		}),
		OddCyclesDeduplicated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "odd_cycles_deduplicated_total",
			Help: "Total number of odd cycles dropped as duplicate signatures. coloring.Solve does not increment this counter.",
		}),
		RounderAborts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "binding_rounder_aborts_total",
			Help: "Total number of half-integer pairs the binding-analysis rounder could not resolve.",
		}),
		SolveDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name:    "solve_duration_seconds",
			Help:    "Wall-clock duration of a coloring Solve call.",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		}),
		GreedyRepairs: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "greedy_repairs_total",
			Help: "Total number of conflicting edges the greedy local repair pass tried to fix.",
		}),
	}
}

// DualMCFCollectors groups the dual-MCF core's telemetry.
type DualMCFCollectors struct {
	ArcInversions prometheus.Counter
	EngineSolves  *prometheus.CounterVec
	SolveDuration *prometheus.HistogramVec
}

// NewDualMCFCollectors registers and returns the dual-MCF core's
// collectors under namespace/subsystem.
func NewDualMCFCollectors(namespace, subsystem string) *DualMCFCollectors {
	return &DualMCFCollectors{
		ArcInversions: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "arc_inversions_total",
			Help: "Total number of arcs rewritten to non-negative cost by the Negative-Cost Rewriter.",
		}),
		EngineSolves: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name: "engine_solves_total",
			Help: "Total number of MCF engine invocations, by engine and status.",
		}, []string{"engine", "status"}),
		SolveDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Subsystem: subsystem,
			Name:    "solve_duration_seconds",
			Help:    "Wall-clock duration of a dual-MCF Solve call, by engine.",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		}, []string{"engine"}),
	}
}
