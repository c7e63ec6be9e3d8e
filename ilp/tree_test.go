package ilp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

func TestFeasibleForIP(t *testing.T) {

	testdata := []struct {
		constraints []bool
		solution    []float64
		shouldPass  bool
	}{
		{
			constraints: []bool{false, false, false, false},
			solution:    []float64{1, 2, 3, 4.5},
			shouldPass:  true,
		},
		{
			constraints: []bool{false, false, false, true},
			solution:    []float64{1, 2, 3, 4.5},
			shouldPass:  false,
		},
		{
			constraints: []bool{true, false, false, true},
			solution:    []float64{1, 2, 3, 4.5},
			shouldPass:  false,
		},
		{
			constraints: []bool{true, true, true, true},
			solution:    []float64{1, 2, 3, 4},
			shouldPass:  true,
		},
		{
			constraints: []bool{true, true},
			solution:    []float64{0.9999999999, 2.0000000001},
			shouldPass:  true,
		},
	}

	for _, testd := range testdata {
		assert.Equal(t, testd.shouldPass, integral(testd.constraints, testd.solution))
	}

	assert.Panics(t, func() { integral([]bool{true}, []float64{1, 2}) })
}

// maximize x0 s.t. 2x0 <= 3, x0 in [0, 5] integer, in minimization standard form.
func fractionalRoot() subProblem {
	return subProblem{
		milpProblem: milpProblem{
			c: []float64{-1},
			G: mat.NewDense(2, 1, []float64{
				2,
				1,
			}),
			h:       []float64{3, 5},
			integer: []bool{true},
		},
	}
}

func TestEnumerationTree_search(t *testing.T) {
	logger := newTreeLogger()
	tree := newEnumerationTree(context.Background(), fractionalRoot(), logger, 0)

	best, abandoned, err := tree.search(2)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.False(t, abandoned)
	assert.InDelta(t, -1, best.z, 1e-9)
	assert.InDeltaSlice(t, []float64{1}, best.x, 1e-9)

	assert.Equal(t, 1, logger.count(BETTER_THAN_INCUMBENT_BRANCHING))
	assert.Equal(t, 1, logger.count(BETTER_THAN_INCUMBENT_FEASIBLE))
	assert.Equal(t, 1, logger.count(SUBPROBLEM_NOT_FEASIBLE))
}

func TestEnumerationTree_integralRoot(t *testing.T) {
	root := fractionalRoot()
	root.h = []float64{4, 5}

	logger := newTreeLogger()
	best, abandoned, err := newEnumerationTree(context.Background(), root, logger, 0).search(1)
	require.NoError(t, err)
	require.NotNil(t, best)
	assert.False(t, abandoned)
	assert.InDelta(t, -2, best.z, 1e-9)
	assert.Equal(t, []Decision{INITIAL_RX_FEASIBLE_FOR_IP}, logger.decisions)
}

func TestEnumerationTree_infeasibleRoot(t *testing.T) {
	root := fractionalRoot()
	// x0 >= 2 and 2x0 <= 3
	root.G = mat.NewDense(2, 1, []float64{2, -1})
	root.h = []float64{3, -2}

	logger := newTreeLogger()
	best, abandoned, err := newEnumerationTree(context.Background(), root, logger, 0).search(1)
	require.NoError(t, err)
	assert.Nil(t, best)
	assert.False(t, abandoned)
	assert.Equal(t, []Decision{INITIAL_RELAXATION_NOT_FEASIBLE}, logger.decisions)
}

func TestEnumerationTree_nodeLimit(t *testing.T) {
	logger := newTreeLogger()
	best, abandoned, err := newEnumerationTree(context.Background(), fractionalRoot(), logger, 1).search(1)
	require.NoError(t, err)
	assert.Nil(t, best)
	assert.True(t, abandoned)
	assert.Equal(t, 1, logger.count(SEARCH_ABANDONED))
}

func TestEnumerationTree_cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	best, abandoned, err := newEnumerationTree(ctx, fractionalRoot(), nil, 0).search(1)
	require.NoError(t, err)
	assert.Nil(t, best)
	assert.True(t, abandoned)
}

func TestEnumerationTree_classifyFailure(t *testing.T) {
	tree := newEnumerationTree(context.Background(), fractionalRoot(), nil, 0)

	assert.Equal(t, SUBPROBLEM_NOT_FEASIBLE, tree.classifyFailure(lp.ErrInfeasible))
	assert.Equal(t, SUBPROBLEM_IS_DEGENERATE, tree.classifyFailure(lp.ErrSingular))
	assert.False(t, tree.abandoned.Load())

	assert.Equal(t, SUBPROBLEM_SOLVER_FAILED, tree.classifyFailure(lp.ErrLinSolve))
	assert.True(t, tree.abandoned.Load())
	assert.ErrorIs(t, tree.err, ErrSolverFailure)
}
