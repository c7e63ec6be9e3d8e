package milp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBruteForce(t *testing.T) {
	// maximize x0 + x1 subject to 2x0 + 3x1 <= 4
	prob, err := NewProblemFromDense(Maximize,
		[]float64{1, 1},
		[][]float64{{2, 3}},
		[]RowSense{LessEqual},
		[]float64{4},
	)
	require.NoError(t, err)

	z, x, ok, err := BruteForce(prob, []int{0, 1})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, float64(1), z)
	assert.Equal(t, float64(1), x[0]+x[1])
}

func TestBruteForce_Minimize(t *testing.T) {
	// minimize 3x0 + 2x1 + 4x2 subject to x0 + x1 >= 1, x1 + x2 >= 1, x0 + x2 >= 1
	prob, err := NewProblemFromDense(Minimize,
		[]float64{3, 2, 4},
		[][]float64{
			{1, 1, 0},
			{0, 1, 1},
			{1, 0, 1},
		},
		[]RowSense{GreaterEqual, GreaterEqual, GreaterEqual},
		[]float64{1, 1, 1},
	)
	require.NoError(t, err)

	z, x, ok, err := BruteForce(prob, []int{0, 1, 2})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, float64(5), z)
	assert.Equal(t, []float64{1, 1, 0}, x)
}

func TestBruteForce_Infeasible(t *testing.T) {
	prob, err := NewProblemFromDense(Minimize,
		[]float64{1},
		[][]float64{{1}},
		[]RowSense{GreaterEqual},
		[]float64{2},
	)
	require.NoError(t, err)

	_, _, ok, err := BruteForce(prob, []int{0})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestBruteForce_Limits(t *testing.T) {
	prob := NewProblem(Minimize)
	cols := make([]int, MaxBruteForceCols+1)
	for j := range cols {
		cols[j] = prob.AddBinaryVariable(1)
	}
	_, _, _, err := BruteForce(prob, cols)
	assert.ErrorIs(t, err, ErrTooManyColumns)

	c := prob.AddVariable(1, false)
	_, _, _, err = BruteForce(prob, []int{c})
	assert.ErrorIs(t, err, ErrNonBinaryColumn)
}
