// Package dualmcf implements the Dual-MCF Core: a system of difference
// constraints x_i - x_j >= b is solved by building the LP-dual min-cost
// flow problem on the constraint graph and reading the primal solution
// back off the flow's optimal node potentials.
package dualmcf

import (
	"fmt"

	"layoutdecomp/pkg/apperror"
	"layoutdecomp/pkg/domain"
)

// DifferenceConstraint encodes x_I - x_J >= B.
type DifferenceConstraint struct {
	ID   int
	I, J int
	B    float64
}

// Model is the Model Intake for the dual-MCF core: a variable count,
// the difference constraints over those variables, an optional
// per-variable objective weight (0 if the caller only wants a feasible
// solution rather than an optimal one), and optional per-variable
// simple bounds.
//
// Per spec §3 every constraint in the Linear Model is either a
// differential constraint (x_i - x_j >= b, held in Constraints) or a
// simple bound (lb <= x_i <= ub, held in LB/UB). Variable 0 is the
// system's fixed reference: a bound on variable v != 0 is dualized
// against it directly (spec §4.7 sources (b) and (c)).
type Model struct {
	NumVars     int
	Constraints []DifferenceConstraint
	Weight      []float64

	// LB/UB hold each variable's simple bound, domain.Infinity-valued
	// (negative for LB, positive for UB) when unset.
	LB []float64
	UB []float64
}

// NewModel returns an empty model over numVars variables with all
// weights at 0 and all bounds unset (unbounded).
func NewModel(numVars int) *Model {
	lb := make([]float64, numVars)
	ub := make([]float64, numVars)
	for v := 0; v < numVars; v++ {
		lb[v] = -domain.Infinity
		ub[v] = domain.Infinity
	}
	return &Model{
		NumVars: numVars,
		Weight:  make([]float64, numVars),
		LB:      lb,
		UB:      ub,
	}
}

// AddConstraint adds x_i - x_j >= b. i and j must be distinct and in range.
func (m *Model) AddConstraint(i, j int, b float64) (*DifferenceConstraint, error) {
	if i == j {
		return nil, apperror.New(apperror.CodeNonDifferentialConstraint,
			fmt.Sprintf("constraint variables must be distinct, got (%d,%d)", i, j))
	}
	if i < 0 || i >= m.NumVars || j < 0 || j >= m.NumVars {
		return nil, apperror.New(apperror.CodeNilInput,
			fmt.Sprintf("constraint (%d,%d) references a variable outside [0,%d)", i, j, m.NumVars))
	}

	c := DifferenceConstraint{ID: len(m.Constraints), I: i, J: j, B: b}
	m.Constraints = append(m.Constraints, c)
	return &m.Constraints[len(m.Constraints)-1], nil
}

// SetBounds fixes variable v's simple bound lb <= x_v <= ub (spec §3).
// v must not be the reference variable 0, since bounds are dualized
// relative to it (spec §4.7); lb may be -domain.Infinity and ub may be
// +domain.Infinity to leave one side unbounded.
func (m *Model) SetBounds(v int, lb, ub float64) error {
	if v < 0 || v >= m.NumVars {
		return apperror.New(apperror.CodeNilInput, fmt.Sprintf("bounds: variable %d out of range", v))
	}
	if v == 0 {
		return apperror.New(apperror.CodeInvalidBounds,
			"bounds: variable 0 is the fixed reference and cannot carry a simple bound")
	}
	if lb > ub {
		return apperror.New(apperror.CodeInvalidBounds,
			fmt.Sprintf("bounds: variable %d has lb %g > ub %g", v, lb, ub))
	}
	m.LB[v] = lb
	m.UB[v] = ub
	return nil
}

// SetWeight sets variable v's primal objective coefficient.
func (m *Model) SetWeight(v int, w float64) error {
	if v < 0 || v >= m.NumVars {
		return apperror.New(apperror.CodeNilInput, fmt.Sprintf("weight: variable %d out of range", v))
	}
	m.Weight[v] = w
	return nil
}
