// Package config provides layered tuning configuration for callers that
// construct coloring/dual-MCF solver cores. The cores themselves never
// read configuration from disk or environment (spec: "no file, wire, or
// environment-variable surface is part of the core") — this package is
// purely a convenience for a caller assembling option structs.
package config

import "fmt"

// Config is the top-level tuning configuration for both solver cores.
type Config struct {
	Log      LogConfig      `koanf:"log"`
	Coloring ColoringConfig `koanf:"coloring"`
	DualMCF  DualMCFConfig  `koanf:"dualmcf"`
}

// LogConfig mirrors logger.Config's fields for layered loading.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Output string `koanf:"output"`
}

// ColoringConfig holds default tuning for the LP-coloring core.
type ColoringConfig struct {
	// Epsilon is the tolerance used for half-integer/integrality tests (spec §7).
	Epsilon float64 `koanf:"epsilon"`

	// MaxIterations bounds the iterative refiner's passes (spec §7's
	// non-termination guard); coloring.Solve uses 2*|V| when it is zero.
	// The binding-analysis rounder makes a single pass and is not bounded
	// by it.
	MaxIterations int `koanf:"max_iterations"`

	// Threads is the thread-count hint forwarded to the LP engine (spec §5).
	Threads int `koanf:"threads"`
}

// DualMCFConfig holds default tuning for the dual-MCF core.
//
// dualmcf.Solve reads DefaultEngine and BigMHeadroom only. The
// algorithm-specific fields (scaling factors, methods, pivot rule) are
// loaded and validated but are not passed to any engine.
type DualMCFConfig struct {
	// DefaultEngine names one of "capacity_scaling", "network_simplex",
	// "cost_scaling", "cycle_canceling" (spec §4.9).
	DefaultEngine string `koanf:"default_engine"`

	// ScalingFactor is the Capacity Scaling engine's scaling factor (spec default 4).
	ScalingFactor int `koanf:"scaling_factor"`

	// CostScalingMethod is one of "push", "augment", "partial_augment" (spec default partial_augment).
	CostScalingMethod string `koanf:"cost_scaling_method"`

	// CostScalingFactor is the epsilon-scaling factor (spec default 16).
	CostScalingFactor int `koanf:"cost_scaling_factor"`

	// PivotRule is one of "first_eligible", "best_eligible", "block_search",
	// "candidate_list", "altering_list" (spec default block_search).
	PivotRule string `koanf:"pivot_rule"`

	// CycleCancelingMethod is one of "simple", "min_mean", "cancel_and_tighten"
	// (spec default cancel_and_tighten).
	CycleCancelingMethod string `koanf:"cycle_canceling_method"`

	// BigMHeadroom multiplies the computed big-M surrogate for extra safety margin.
	BigMHeadroom float64 `koanf:"big_m_headroom"`
}

// Validate checks the configuration for obviously invalid values.
func (c *Config) Validate() error {
	if c.Coloring.Epsilon < 0 {
		return fmt.Errorf("config: coloring.epsilon must be non-negative, got %v", c.Coloring.Epsilon)
	}
	if c.DualMCF.ScalingFactor < 2 {
		return fmt.Errorf("config: dualmcf.scaling_factor must be >= 2, got %d", c.DualMCF.ScalingFactor)
	}
	if c.DualMCF.BigMHeadroom < 1 {
		return fmt.Errorf("config: dualmcf.big_m_headroom must be >= 1, got %v", c.DualMCF.BigMHeadroom)
	}
	return nil
}
