package dualmcf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"layoutdecomp/pkg/config"
)

func defaultCfg() config.DualMCFConfig {
	return config.DualMCFConfig{DefaultEngine: "network_simplex", BigMHeadroom: 2}
}

func TestSolve_FeasibilityOnly_NoObjective(t *testing.T) {
	m := NewModel(3)
	_, err := m.AddConstraint(1, 0, 2) // x1 - x0 >= 2
	require.NoError(t, err)
	_, err = m.AddConstraint(2, 1, 3) // x2 - x1 >= 3
	require.NoError(t, err)

	result, err := Solve(context.Background(), m, defaultCfg(), nil)
	require.NoError(t, err)
	assert.True(t, result.Feasible)
	assert.GreaterOrEqual(t, result.X[1]-result.X[0], 2.0-1e-6)
	assert.GreaterOrEqual(t, result.X[2]-result.X[1], 3.0-1e-6)
}

func TestSolve_InfeasibleDifferenceSystem_NegativeCycle(t *testing.T) {
	m := NewModel(2)
	_, err := m.AddConstraint(0, 1, 1) // x0 - x1 >= 1
	require.NoError(t, err)
	_, err = m.AddConstraint(1, 0, 1) // x1 - x0 >= 1 : contradictory
	require.NoError(t, err)

	_, err = Solve(context.Background(), m, defaultCfg(), nil)
	require.Error(t, err)
}

func TestSolve_WithBalancedObjective_NetworkSimplex(t *testing.T) {
	m := NewModel(3)
	_, err := m.AddConstraint(1, 0, 1)
	require.NoError(t, err)
	_, err = m.AddConstraint(2, 1, 1)
	require.NoError(t, err)

	require.NoError(t, m.SetWeight(0, -1))
	require.NoError(t, m.SetWeight(2, 1))

	result, err := Solve(context.Background(), m, defaultCfg(), nil)
	require.NoError(t, err)
	assert.True(t, result.Feasible)
}

func TestSolve_UnbalancedWeights_ReturnsUnbounded(t *testing.T) {
	m := NewModel(2)
	_, err := m.AddConstraint(0, 1, 1)
	require.NoError(t, err)
	require.NoError(t, m.SetWeight(0, 1))
	require.NoError(t, m.SetWeight(1, 1))

	_, err = Solve(context.Background(), m, defaultCfg(), nil)
	require.Error(t, err)
}

func TestModel_AddConstraint_RejectsSelfReference(t *testing.T) {
	m := NewModel(2)
	_, err := m.AddConstraint(0, 0, 1)
	require.Error(t, err)
}

func TestEngineByName_UnknownEngine(t *testing.T) {
	assert.Nil(t, engineByName("quantum_annealing"))
}

func TestSolve_BoundedVariables_MinimizesSumObjective(t *testing.T) {
	// x1,x2 in [0,10]; x1-x2>=3, x2>=1; minimize x1+x2.
	// Expected optimum: x2=1, x1=4, objective=5.
	m := NewModel(3) // x0 is the fixed reference (pinned to 0), x1,x2 are the real variables
	_, err := m.AddConstraint(1, 2, 3) // x1 - x2 >= 3
	require.NoError(t, err)
	require.NoError(t, m.SetBounds(1, 0, 10))
	require.NoError(t, m.SetBounds(2, 1, 10))

	require.NoError(t, m.SetWeight(1, 1))
	require.NoError(t, m.SetWeight(2, 1))
	require.NoError(t, m.SetWeight(0, -2))

	result, err := Solve(context.Background(), m, defaultCfg(), nil)
	require.NoError(t, err)
	require.True(t, result.Feasible)

	x1 := result.X[1] - result.X[0]
	x2 := result.X[2] - result.X[0]
	assert.InDelta(t, 1.0, x2, 1e-4)
	assert.InDelta(t, 4.0, x1, 1e-4)
	assert.InDelta(t, 5.0, x1+x2, 1e-4)
}

func TestModel_SetBounds_RejectsReferenceVariable(t *testing.T) {
	m := NewModel(2)
	require.Error(t, m.SetBounds(0, 0, 1))
}

func TestModel_SetBounds_RejectsInvertedRange(t *testing.T) {
	m := NewModel(2)
	require.Error(t, m.SetBounds(1, 5, 1))
}

func TestAllEngines_AgreeOnFeasibleFlowValue(t *testing.T) {
	for _, name := range []string{"network_simplex", "capacity_scaling", "cost_scaling", "cycle_canceling"} {
		t.Run(name, func(t *testing.T) {
			m := NewModel(3)
			_, err := m.AddConstraint(1, 0, 2)
			require.NoError(t, err)
			_, err = m.AddConstraint(2, 1, 3)
			require.NoError(t, err)
			require.NoError(t, m.SetWeight(0, -1))
			require.NoError(t, m.SetWeight(2, 1))

			cfg := defaultCfg()
			cfg.DefaultEngine = name
			result, err := Solve(context.Background(), m, cfg, nil)
			require.NoError(t, err)
			assert.True(t, result.Feasible)
		})
	}
}
