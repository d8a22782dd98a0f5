package coloring

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"layoutdecomp/pkg/apperror"
)

// Sense is a constraint's comparison operator.
type Sense int

const (
	GE Sense = iota // >=
	LE               // <=
	EQ               // =
)

// Status is the outcome of an LP optimize() call.
type Status int

const (
	StatusOptimal Status = iota
	StatusInfeasible
	StatusUnbounded
)

// LPEngine is the thin contract the coloring core needs from an
// external LP solver (spec §6): incremental variable/constraint
// addition, re-solve, and post-solve bound mutation.
type LPEngine interface {
	// AddVar adds a continuous variable in [lb, ub] with the given
	// objective coefficient and returns its stable ID.
	AddVar(lb, ub, objCoeff float64, name string) int

	// AddConstr adds sum(terms[v]*x_v) <sense> rhs and returns its stable ID.
	AddConstr(terms map[int]float64, sense Sense, rhs float64, name string) int

	// AddObjectiveTerm adds delta to variable varID's objective coefficient.
	AddObjectiveTerm(varID int, delta float64)

	// SetThreads forwards a parallelism hint to the engine (spec §5); may be a no-op.
	SetThreads(n int)

	// Optimize (re-)solves the current model.
	Optimize() (Status, error)

	// Value returns varID's value in the last solved solution.
	Value(varID int) float64

	// Slack returns constrID's slack in the last solved solution (0 if binding).
	Slack(constrID int) float64

	// ConstrSense returns constrID's sense.
	ConstrSense(constrID int) Sense

	// Coeff returns the coefficient of varID within constrID (0 if absent).
	Coeff(constrID, varID int) float64

	// Column returns the IDs of constraints that reference varID.
	Column(varID int) []int

	// SetLB / SetUB mutate a variable's bound after a solve, without
	// rebuilding the rest of the model (spec §6).
	SetLB(varID int, lb float64)
	SetUB(varID int, ub float64)
}

// gonumTerm is one (variable, coefficient) pair of a constraint row.
type gonumTerm struct {
	varID int
	coeff float64
}

type gonumConstr struct {
	id     int
	terms  []gonumTerm
	sense  Sense
	rhs    float64
	slack  float64
}

type gonumVar struct {
	id    int
	lb    float64
	ub    float64
	obj   float64
	value float64
}

// GonumLPEngine is the concrete LPEngine backing the coloring core,
// grounded on the retrieval pack's use of gonum.org/v1/gonum/optimize/convex/lp
// for branch-and-bound LP relaxations. It accumulates variables and
// constraints incrementally, then materializes a standard-form tableau
// (x = y + lb, slack/surplus rows for bounds and inequalities) each time
// Optimize is called, since gonum's Simplex only accepts a fixed
// equality-standard-form problem.
type GonumLPEngine struct {
	vars    []*gonumVar
	constrs []*gonumConstr
	column  map[int][]int // varID -> constraint IDs touching it
	threads int
	tol     float64
}

// NewGonumLPEngine constructs an empty engine.
func NewGonumLPEngine() *GonumLPEngine {
	return &GonumLPEngine{
		column: make(map[int][]int),
		tol:    1e-9,
	}
}

func (e *GonumLPEngine) AddVar(lb, ub, objCoeff float64, name string) int {
	v := &gonumVar{id: len(e.vars), lb: lb, ub: ub, obj: objCoeff}
	e.vars = append(e.vars, v)
	return v.id
}

func (e *GonumLPEngine) AddConstr(terms map[int]float64, sense Sense, rhs float64, name string) int {
	c := &gonumConstr{id: len(e.constrs), sense: sense, rhs: rhs}
	for v, coeff := range terms {
		c.terms = append(c.terms, gonumTerm{varID: v, coeff: coeff})
		e.column[v] = append(e.column[v], c.id)
	}
	e.constrs = append(e.constrs, c)
	return c.id
}

func (e *GonumLPEngine) AddObjectiveTerm(varID int, delta float64) {
	e.vars[varID].obj += delta
}

func (e *GonumLPEngine) SetThreads(n int) { e.threads = n }

func (e *GonumLPEngine) SetLB(varID int, lb float64) { e.vars[varID].lb = lb }
func (e *GonumLPEngine) SetUB(varID int, ub float64) { e.vars[varID].ub = ub }

func (e *GonumLPEngine) Value(varID int) float64          { return e.vars[varID].value }
func (e *GonumLPEngine) Slack(constrID int) float64       { return e.constrs[constrID].slack }
func (e *GonumLPEngine) ConstrSense(constrID int) Sense   { return e.constrs[constrID].sense }
func (e *GonumLPEngine) Column(varID int) []int           { return e.column[varID] }

func (e *GonumLPEngine) Coeff(constrID, varID int) float64 {
	for _, t := range e.constrs[constrID].terms {
		if t.varID == varID {
			return t.coeff
		}
	}
	return 0
}

// Optimize materializes the current model into gonum's standard form
// (minimize c^T y s.t. A y = b, y >= 0) and invokes lp.Simplex.
//
// Each original variable x_j in [lb_j, ub_j] is substituted with
// y_j = x_j - lb_j >= 0, plus a bound-closing row y_j + s_j = ub_j - lb_j
// so the simplex tableau sees it as bounded. Each original inequality
// constraint gets a surplus (>=) or slack (<=) variable; equality
// constraints add no extra variable.
func (e *GonumLPEngine) Optimize() (Status, error) {
	n := len(e.vars)
	extra := 0
	// One bound-closing row + slack var per original variable.
	boundSlack := make([]int, n)
	for j := range e.vars {
		boundSlack[j] = n + extra
		extra++
	}
	// One slack/surplus var per non-equality constraint.
	constrSlack := make([]int, len(e.constrs))
	for i, c := range e.constrs {
		if c.sense != EQ {
			constrSlack[i] = n + extra
			extra++
		} else {
			constrSlack[i] = -1
		}
	}

	totalCols := n + extra
	totalRows := n + len(e.constrs)

	A := mat.NewDense(totalRows, totalCols, nil)
	b := make([]float64, totalRows)
	c := make([]float64, totalCols)

	for j, v := range e.vars {
		c[j] = v.obj
	}

	row := 0
	for j, v := range e.vars {
		width := v.ub - v.lb
		if width < 0 {
			return StatusInfeasible, nil
		}
		A.Set(row, j, 1)
		A.Set(row, boundSlack[j], 1)
		b[row] = width
		row++
	}
	for i, cons := range e.constrs {
		for _, t := range cons.terms {
			A.Set(row, t.varID, t.coeff)
		}
		rhsPrime := cons.rhs
		for _, t := range cons.terms {
			rhsPrime -= t.coeff * e.vars[t.varID].lb
		}
		switch cons.sense {
		case GE:
			A.Set(row, constrSlack[i], -1)
		case LE:
			A.Set(row, constrSlack[i], 1)
		}
		b[row] = rhsPrime
		row++
	}

	// Simplex requires b >= 0; flip rows with negative RHS.
	for r := 0; r < totalRows; r++ {
		if b[r] < 0 {
			b[r] = -b[r]
			for col := 0; col < totalCols; col++ {
				A.Set(r, col, -A.At(r, col))
			}
		}
	}

	optF, optX, err := lp.Simplex(nil, c, A, b, e.tol)
	if err != nil {
		if err == lp.ErrInfeasible {
			return StatusInfeasible, nil
		}
		return StatusInfeasible, apperror.Wrap(err, apperror.CodeColoringInfeasible,
			fmt.Sprintf("gonum simplex failed: %v", err))
	}
	_ = optF

	for j, v := range e.vars {
		v.value = optX[j] + v.lb
	}
	for i, cons := range e.constrs {
		if constrSlack[i] < 0 {
			cons.slack = 0
			continue
		}
		cons.slack = optX[constrSlack[i]]
	}

	return StatusOptimal, nil
}
