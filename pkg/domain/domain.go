// Package domain holds numerical constants used by the dual-MCF solver
// core.
package domain

// Epsilon is the default tolerance for the dual-MCF core's
// floating-point comparisons (residual capacity, distance relaxation,
// weight balance, negative-cost detection). The coloring core takes its
// tolerance from config.ColoringConfig instead.
const Epsilon = 1e-6

// Infinity is the sentinel distance/capacity used in place of a true
// unbounded value, chosen far larger than any value the dual-MCF core
// will compute for realistic inputs.
const Infinity = 1e18
