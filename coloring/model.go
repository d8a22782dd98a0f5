// Package coloring implements the LP-relaxation k-coloring core used by
// double/triple/quadruple patterning layout decomposition: a conflict
// graph is colored with 2-bit codes by iteratively tightening a
// continuous LP relaxation, injecting odd-cycle cuts, rounding
// half-integer pairs via binding-constraint analysis, and finishing
// with a local greedy repair.
//
// The core owns its LP engine and intermediate graph state exclusively
// for the lifetime of one Solve call; results are written back into the
// input ConflictGraph's vertex colors exactly once, on success.
package coloring

import (
	"fmt"

	"layoutdecomp/pkg/apperror"
)

// ColorMode selects how many colors the relaxation may use.
type ColorMode int

const (
	// THREE restricts colors to {0,1,2}; the (1,1) code is forbidden.
	THREE ColorMode = iota
	// FOUR allows the full {0,1,2,3} code space.
	FOUR
)

// NumColors returns the number of usable colors for the mode.
func (m ColorMode) NumColors() int {
	if m == THREE {
		return 3
	}
	return 4
}

// Vertex is one node of the conflict graph. Color holds the 2-bit code
// (b1<<1)|b2 once Solve has written it back; it is -1 until then.
type Vertex struct {
	ID int

	// Precolor is the fixed color in {0,1,2,3}, or -1 if unconstrained.
	Precolor int

	// Color is the resolved color written back by Solve, or -1 before that.
	Color int

	degree int
}

// Edge is an undirected conflict: its endpoints must not receive the
// same color. Weight must be a strictly positive integer (spec §3).
type Edge struct {
	ID     int
	S, T   int
	Weight int64
}

// ConflictGraph is the immutable-by-convention input to the LP-coloring
// core: an undirected graph with positive edge weights and optional
// per-vertex precoloring.
type ConflictGraph struct {
	Mode     ColorMode
	Vertices []*Vertex
	Edges    []*Edge

	adj map[int][]int // vertex ID -> incident edge indices
}

// NewConflictGraph builds a ConflictGraph over vertex IDs 0..n-1 with no
// edges and no precoloring.
func NewConflictGraph(n int, mode ColorMode) *ConflictGraph {
	g := &ConflictGraph{
		Mode:     mode,
		Vertices: make([]*Vertex, n),
		adj:      make(map[int][]int, n),
	}
	for i := 0; i < n; i++ {
		g.Vertices[i] = &Vertex{ID: i, Precolor: -1, Color: -1}
	}
	return g
}

// AddEdge adds an undirected conflict edge between s and t with the
// given strictly-positive weight. Returns apperror.CodeInvalidEdgeWeight
// if weight <= 0, or apperror.CodeNilInput if an endpoint is out of
// range, per spec §3's invariant that endpoints are distinct and
// weights are strictly positive.
func (g *ConflictGraph) AddEdge(s, t int, weight int64) (*Edge, error) {
	if weight <= 0 {
		return nil, apperror.New(apperror.CodeInvalidEdgeWeight,
			fmt.Sprintf("edge (%d,%d) has non-positive weight %d", s, t, weight)).
			WithDetails("s", s).WithDetails("t", t).WithDetails("weight", weight)
	}
	if s == t {
		return nil, apperror.New(apperror.CodeInvalidEdgeWeight,
			fmt.Sprintf("edge endpoints must be distinct, got (%d,%d)", s, t))
	}
	if s < 0 || s >= len(g.Vertices) || t < 0 || t >= len(g.Vertices) {
		return nil, apperror.New(apperror.CodeNilInput,
			fmt.Sprintf("edge (%d,%d) references a vertex outside [0,%d)", s, t, len(g.Vertices)))
	}

	e := &Edge{ID: len(g.Edges), S: s, T: t, Weight: weight}
	g.Edges = append(g.Edges, e)
	g.adj[s] = append(g.adj[s], e.ID)
	g.adj[t] = append(g.adj[t], e.ID)
	g.Vertices[s].degree++
	g.Vertices[t].degree++

	return e, nil
}

// SetPrecolor fixes vertex v's final color, bypassing the LP relaxation
// for that vertex's bits. color must be in [0, Mode.NumColors()).
func (g *ConflictGraph) SetPrecolor(v, color int) error {
	if v < 0 || v >= len(g.Vertices) {
		return apperror.New(apperror.CodeNilInput, fmt.Sprintf("precolor: vertex %d out of range", v))
	}
	if color < 0 || color >= g.Mode.NumColors() {
		return apperror.New(apperror.CodeBadPrecoloring,
			fmt.Sprintf("precolor: color %d invalid for mode with %d colors", color, g.Mode.NumColors()))
	}
	g.Vertices[v].Precolor = color
	return nil
}

// HasPrecoloring reports whether any vertex carries a fixed color.
func (g *ConflictGraph) HasPrecoloring() bool {
	for _, v := range g.Vertices {
		if v.Precolor >= 0 {
			return true
		}
	}
	return false
}

// Neighbors returns the incident edges of vertex v.
func (g *ConflictGraph) Neighbors(v int) []*Edge {
	idxs := g.adj[v]
	out := make([]*Edge, len(idxs))
	for i, idx := range idxs {
		out[i] = g.Edges[idx]
	}
	return out
}

// Other returns the endpoint of e that is not v.
func (e *Edge) Other(v int) int {
	if e.S == v {
		return e.T
	}
	return e.S
}

// DecodeColor composes the 2-bit color index from its bits.
func DecodeColor(b1, b2 int) int {
	return (b1 << 1) | b2
}

// EncodeColor splits a color index into its 2 bits.
func EncodeColor(color int) (b1, b2 int) {
	return (color >> 1) & 1, color & 1
}
