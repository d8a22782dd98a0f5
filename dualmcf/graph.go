package dualmcf

import (
	"sort"

	"layoutdecomp/pkg/domain"
)

// Epsilon is the tolerance used for all floating-point comparisons in
// this package.
const Epsilon = domain.Epsilon

// Infinity represents an unreachable distance or unbounded capacity.
const Infinity = domain.Infinity

// FlowArc is one directed arc of a FlowGraph.
//
// Every arc added through AddArcWithReverse carries an implicit reverse
// arc with zero original capacity and negated cost, so that pushing
// flow can always be undone by later algorithms.
type FlowArc struct {
	To       int
	Capacity float64
	Cost     float64
	Flow     float64

	OriginalCapacity float64
	IsReverse        bool

	// ConstraintID identifies the difference constraint this arc was
	// built from, or -1 for an arc not built from Model.Constraints
	// (bound arcs and supply/demand arcs). Only meaningful on forward arcs.
	ConstraintID int
}

// HasCapacity reports whether the arc still has positive residual capacity.
func (a *FlowArc) HasCapacity() bool {
	return a.Capacity > Epsilon
}

// FlowGraph is the residual network the dual-MCF engines operate on:
// nodes are variable indices (plus two synthetic super source/sink
// nodes added by the graph builder), arcs are the rewritten constraint
// and supply/demand arcs.
//
// Grounded on the same adjacency-map-plus-deterministic-list shape used
// elsewhere in the pack for residual flow graphs: lookup by (from, to)
// is O(1), and iteration always goes through the sorted node list or
// the insertion-ordered arc list so that every engine produces the same
// result run to run.
type FlowGraph struct {
	Nodes    map[int]bool
	Arcs     map[int]map[int]*FlowArc
	ArcsList map[int][]*FlowArc

	sortedNodes      []int
	sortedNodesDirty bool
}

// NewFlowGraph returns an empty graph.
func NewFlowGraph() *FlowGraph {
	return &FlowGraph{
		Nodes:            make(map[int]bool),
		Arcs:             make(map[int]map[int]*FlowArc),
		ArcsList:         make(map[int][]*FlowArc),
		sortedNodesDirty: true,
	}
}

func (g *FlowGraph) ensureNode(id int) {
	if !g.Nodes[id] {
		g.Nodes[id] = true
		g.sortedNodesDirty = true
	}
}

// AddArc adds a forward arc, accumulating capacity if one already
// exists between the same pair of nodes.
func (g *FlowGraph) AddArc(from, to int, capacity, cost float64, constraintID int) {
	g.ensureNode(from)
	g.ensureNode(to)

	if g.Arcs[from] == nil {
		g.Arcs[from] = make(map[int]*FlowArc)
	}
	if existing := g.Arcs[from][to]; existing != nil && !existing.IsReverse {
		existing.Capacity += capacity
		existing.OriginalCapacity += capacity
		return
	}

	arc := &FlowArc{
		To:               to,
		Capacity:         capacity,
		Cost:             cost,
		OriginalCapacity: capacity,
		ConstraintID:     constraintID,
	}
	g.Arcs[from][to] = arc
	g.ArcsList[from] = append(g.ArcsList[from], arc)
}

// AddReverseArc adds the zero-capacity companion arc for from->to.
func (g *FlowGraph) AddReverseArc(from, to int, cost float64) {
	g.ensureNode(from)
	g.ensureNode(to)

	if g.Arcs[from] == nil {
		g.Arcs[from] = make(map[int]*FlowArc)
	}
	if g.Arcs[from][to] != nil {
		return
	}

	arc := &FlowArc{
		To:           to,
		Cost:         -cost,
		IsReverse:    true,
		ConstraintID: -1,
	}
	g.Arcs[from][to] = arc
	g.ArcsList[from] = append(g.ArcsList[from], arc)
}

// AddArcWithReverse adds both the forward arc and its reverse companion.
func (g *FlowGraph) AddArcWithReverse(from, to int, capacity, cost float64, constraintID int) {
	g.AddArc(from, to, capacity, cost, constraintID)
	g.AddReverseArc(to, from, cost)
}

// removeArc deletes the arc from->to, if present, from both the
// lookup map and the insertion-ordered list.
func (g *FlowGraph) removeArc(from, to int) {
	if g.Arcs[from] == nil {
		return
	}
	delete(g.Arcs[from], to)
	list := g.ArcsList[from]
	for i, a := range list {
		if a.To == to {
			g.ArcsList[from] = append(list[:i], list[i+1:]...)
			break
		}
	}
}

// GetArc returns the arc from->to, or nil.
func (g *FlowGraph) GetArc(from, to int) *FlowArc {
	if g.Arcs[from] == nil {
		return nil
	}
	return g.Arcs[from][to]
}

// GetNeighborsList returns from's outgoing arcs in insertion order.
func (g *FlowGraph) GetNeighborsList(from int) []*FlowArc {
	return g.ArcsList[from]
}

// GetSortedNodes returns every node ID in ascending order, cached until
// the next AddArc/AddReverseArc call introduces a new node.
func (g *FlowGraph) GetSortedNodes() []int {
	if g.sortedNodesDirty || len(g.sortedNodes) != len(g.Nodes) {
		g.sortedNodes = make([]int, 0, len(g.Nodes))
		for n := range g.Nodes {
			g.sortedNodes = append(g.sortedNodes, n)
		}
		sort.Ints(g.sortedNodes)
		g.sortedNodesDirty = false
	}
	return g.sortedNodes
}

// UpdateFlow pushes flow units along from->to and reflects it on the
// reverse arc.
func (g *FlowGraph) UpdateFlow(from, to int, flow float64) {
	if arc := g.GetArc(from, to); arc != nil {
		arc.Flow += flow
		arc.Capacity -= flow
	}
	if back := g.GetArc(to, from); back != nil {
		back.Capacity += flow
	}
}

// TotalCost sums Flow*Cost over every forward arc with positive flow.
func (g *FlowGraph) TotalCost() float64 {
	total := 0.0
	for _, from := range g.GetSortedNodes() {
		for _, arc := range g.ArcsList[from] {
			if !arc.IsReverse && arc.Flow > Epsilon {
				total += arc.Flow * arc.Cost
			}
		}
	}
	return total
}
