package coloring

import "fmt"

// Model ties a ConflictGraph to its LP relaxation: the 2|V| vertex bit
// variables, the |E| auxiliary edge bit variables, and the engine that
// owns them.
type Model struct {
	Graph  *ConflictGraph
	Engine LPEngine

	vbit [][2]int // vbit[v][i] -> LP variable ID for vertex v's bit i
	ebit []int    // ebit[e] -> LP variable ID for edge e's auxiliary bit

	anchored   bool
	anchorVert int
}

// BuildModel implements the Model Builder (spec §4.1): it allocates the
// 2|V| continuous vertex bits and |E| auxiliary edge bits in [0,1], and
// emits the four cover constraints per conflict edge (plus the
// sum<=1 constraint per vertex when Mode==THREE) that forbid identical
// 2-bit codes on an edge's endpoints. The initial objective is 0 (pure
// feasibility); refinement perturbs it later.
func BuildModel(g *ConflictGraph, engine LPEngine) *Model {
	m := &Model{Graph: g, Engine: engine}

	m.vbit = make([][2]int, len(g.Vertices))
	for _, v := range g.Vertices {
		m.vbit[v.ID][0] = engine.AddVar(0, 1, 0, fmt.Sprintf("v%d_b1", v.ID))
		m.vbit[v.ID][1] = engine.AddVar(0, 1, 0, fmt.Sprintf("v%d_b2", v.ID))
	}

	m.ebit = make([]int, len(g.Edges))
	for _, e := range g.Edges {
		m.ebit[e.ID] = engine.AddVar(0, 1, 0, fmt.Sprintf("e%d_aux", e.ID))
	}

	for _, e := range g.Edges {
		m.addCoverConstraints(e)
	}

	if g.Mode == THREE {
		for _, v := range g.Vertices {
			b1, b2 := m.vbit[v.ID][0], m.vbit[v.ID][1]
			engine.AddConstr(map[int]float64{b1: 1, b2: 1}, LE, 1, fmt.Sprintf("v%d_three", v.ID))
		}
	}

	m.fixPrecoloring()

	return m
}

// fixPrecoloring tightens the bit bounds of every precolored vertex to
// its fixed code, so the relaxation never needs to decide it.
func (m *Model) fixPrecoloring() {
	for _, v := range m.Graph.Vertices {
		if v.Precolor < 0 {
			continue
		}
		b1bit, b2bit := EncodeColor(v.Precolor)
		b1, b2 := m.vbit[v.ID][0], m.vbit[v.ID][1]
		m.Engine.SetLB(b1, float64(b1bit))
		m.Engine.SetUB(b1, float64(b1bit))
		m.Engine.SetLB(b2, float64(b2bit))
		m.Engine.SetUB(b2, float64(b2bit))
	}
}

// addCoverConstraints emits the four "cover" constraints of spec §4.1
// for edge e, one per forbidden identical 2-bit code.
func (m *Model) addCoverConstraints(e *Edge) {
	s1, s2 := m.vbit[e.S][0], m.vbit[e.S][1]
	t1, t2 := m.vbit[e.T][0], m.vbit[e.T][1]

	// (0,0)=(0,0): s1+s2+t1+t2 >= 1
	m.Engine.AddConstr(map[int]float64{s1: 1, s2: 1, t1: 1, t2: 1}, GE, 1,
		fmt.Sprintf("e%d_cover00", e.ID))

	// (1,0)=(1,0): (1-s1)+s2+(1-t1)+t2 >= 1  <=>  -s1+s2-t1+t2 >= -1
	m.Engine.AddConstr(map[int]float64{s1: -1, s2: 1, t1: -1, t2: 1}, GE, -1,
		fmt.Sprintf("e%d_cover10", e.ID))

	// (0,1)=(0,1): s1+(1-s2)+t1+(1-t2) >= 1  <=>  s1-s2+t1-t2 >= -1
	m.Engine.AddConstr(map[int]float64{s1: 1, s2: -1, t1: 1, t2: -1}, GE, -1,
		fmt.Sprintf("e%d_cover01", e.ID))

	// (1,1)=(1,1): (1-s1)+(1-s2)+(1-t1)+(1-t2) >= 1 <=> -s1-s2-t1-t2 >= -3
	m.Engine.AddConstr(map[int]float64{s1: -1, s2: -1, t1: -1, t2: -1}, GE, -3,
		fmt.Sprintf("e%d_cover11", e.ID))
}

// VertexBitVars returns the LP variable IDs for vertex v's two color bits.
func (m *Model) VertexBitVars(v int) (bit1, bit2 int) {
	return m.vbit[v][0], m.vbit[v][1]
}

// EdgeAuxVar returns the LP variable ID of edge e's auxiliary bit.
func (m *Model) EdgeAuxVar(e int) int {
	return m.ebit[e]
}

// ApplyAnchor implements the Anchor step (spec §4.2): if no vertex is
// precolored, fix both color bits of the highest-degree vertex (lowest
// index on ties, since the scan keeps the first maximum seen) to 0,
// eliminating the relaxation's (0,1,2,3)-permutation symmetry.
func (m *Model) ApplyAnchor() {
	if m.Graph.HasPrecoloring() {
		return
	}

	best := 0
	for _, v := range m.Graph.Vertices {
		if v.degree > m.Graph.Vertices[best].degree {
			best = v.ID
		}
	}

	b1, b2 := m.vbit[best][0], m.vbit[best][1]
	m.Engine.SetLB(b1, 0)
	m.Engine.SetUB(b1, 0)
	m.Engine.SetLB(b2, 0)
	m.Engine.SetUB(b2, 0)

	m.anchored = true
	m.anchorVert = best
}
