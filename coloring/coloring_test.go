package coloring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"layoutdecomp/pkg/config"
)

func assertProperColoring(t *testing.T, g *ConflictGraph) {
	t.Helper()
	for _, v := range g.Vertices {
		assert.GreaterOrEqual(t, v.Color, 0, "vertex %d left uncolored", v.ID)
		assert.Less(t, v.Color, g.Mode.NumColors(), "vertex %d color out of range", v.ID)
	}
	for _, e := range g.Edges {
		assert.NotEqual(t, g.Vertices[e.S].Color, g.Vertices[e.T].Color,
			"edge (%d,%d) endpoints share color %d", e.S, e.T, g.Vertices[e.S].Color)
	}
}

func defaultCfg() config.ColoringConfig {
	return config.ColoringConfig{Epsilon: 1e-6, MaxIterations: 50, Threads: 1}
}

func TestSolve_Triangle_ThreeColorable(t *testing.T) {
	g := NewConflictGraph(3, THREE)
	_, err := g.AddEdge(0, 1, 1)
	require.NoError(t, err)
	_, err = g.AddEdge(1, 2, 1)
	require.NoError(t, err)
	_, err = g.AddEdge(0, 2, 1)
	require.NoError(t, err)

	_, err = Solve(g, defaultCfg(), nil)
	require.NoError(t, err)
	assertProperColoring(t, g)
}

func TestSolve_K4_FourColorable(t *testing.T) {
	g := NewConflictGraph(4, FOUR)
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			_, err := g.AddEdge(i, j, 1)
			require.NoError(t, err)
		}
	}

	_, err := Solve(g, defaultCfg(), nil)
	require.NoError(t, err)
	assertProperColoring(t, g)
}

func TestSolve_OddPentagon_ThreeColorable(t *testing.T) {
	g := NewConflictGraph(5, THREE)
	for i := 0; i < 5; i++ {
		_, err := g.AddEdge(i, (i+1)%5, 1)
		require.NoError(t, err)
	}

	_, err := Solve(g, defaultCfg(), nil)
	require.NoError(t, err)
	assertProperColoring(t, g)
}

func TestSolve_PrecoloredGraph_RespectsFixedColors(t *testing.T) {
	g := NewConflictGraph(3, FOUR)
	_, err := g.AddEdge(0, 1, 1)
	require.NoError(t, err)
	_, err = g.AddEdge(1, 2, 1)
	require.NoError(t, err)

	require.NoError(t, g.SetPrecolor(0, 2))
	require.NoError(t, g.SetPrecolor(2, 1))

	_, err = Solve(g, defaultCfg(), nil)
	require.NoError(t, err)
	assertProperColoring(t, g)

	assert.Equal(t, 2, g.Vertices[0].Color)
	assert.Equal(t, 1, g.Vertices[2].Color)
}

func TestConflictGraph_AddEdge_RejectsNonPositiveWeight(t *testing.T) {
	g := NewConflictGraph(2, THREE)
	_, err := g.AddEdge(0, 1, 0)
	require.Error(t, err)
}

func TestConflictGraph_AddEdge_RejectsSelfLoop(t *testing.T) {
	g := NewConflictGraph(2, THREE)
	_, err := g.AddEdge(0, 0, 1)
	require.Error(t, err)
}

func TestEncodeDecodeColor_RoundTrip(t *testing.T) {
	for c := 0; c < 4; c++ {
		b1, b2 := EncodeColor(c)
		assert.Equal(t, c, DecodeColor(b1, b2))
	}
}
