package milp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProblem_checkTerm(t *testing.T) {

	// a true case
	prob := NewProblem(Minimize)
	v := prob.AddVariable(1, false)
	assert.True(t, prob.checkTerm(Term{Col: v, Coef: 2}))

	// a term with a column not declared in the problem
	assert.False(t, prob.checkTerm(Term{Col: v + 1, Coef: 1}))
	assert.False(t, prob.checkTerm(Term{Col: -1, Coef: 1}))
}

func TestProblem_AddConstraint(t *testing.T) {
	prob := NewProblem(Maximize)
	x0 := prob.AddBinaryVariable(1)
	x1 := prob.AddBinaryVariable(1)
	x2 := prob.AddVariable(3, false)

	r0, err := prob.AddConstraint(LessEqual, 4, Term{x0, 2}, Term{x1, 3})
	require.NoError(t, err)
	r1, err := prob.AddConstraint(GreaterEqual, 1, Term{x1, 1}, Term{x2, 1}, Term{x2, 1})
	require.NoError(t, err)

	assert.Equal(t, 0, r0)
	assert.Equal(t, 1, r1)
	assert.Equal(t, 3, prob.NumCols())
	assert.Equal(t, 2, prob.NumRows())

	// repeated terms are summed
	assert.Equal(t, float64(2), prob.Coefficient(r1, x2))

	assert.Equal(t, float64(4), prob.RowUpperBound(r0))
	assert.True(t, math.IsInf(prob.RowLowerBound(r0), -1))
	assert.Equal(t, float64(1), prob.RowLowerBound(r1))
	assert.True(t, math.IsInf(prob.RowUpperBound(r1), 1))

	assert.Equal(t, float64(1), prob.ColUpperBound(x0))
	assert.True(t, math.IsInf(prob.ColUpperBound(x2), 1))
	assert.True(t, prob.IsInteger(x1))
	assert.False(t, prob.IsInteger(x2))

	assert.Equal(t, NewIntSet(0, 1), prob.RowsOfCol(x1))
	assert.Equal(t, NewIntSet(x1, x2), prob.ColsOfRow(r1))
}

func TestProblem_AddConstraintErrors(t *testing.T) {
	prob := NewProblem(Minimize)
	prob.AddBinaryVariable(1)

	_, err := prob.AddConstraint(LessEqual, 1)
	assert.ErrorIs(t, err, ErrEmptyConstraint)

	_, err = prob.AddConstraint(LessEqual, 1, Term{Col: 5, Coef: 1})
	assert.ErrorIs(t, err, ErrUnknownVariable)
	assert.Equal(t, 0, prob.NumRows())
}

func TestNewProblemFromDense(t *testing.T) {
	prob, err := NewProblemFromDense(Maximize,
		[]float64{1, 2, 3},
		[][]float64{
			{1, 0, 2},
			{0, 0, 0},
			{0, 4, 0},
		},
		[]RowSense{LessEqual, LessEqual, Equal},
		[]float64{2, 0, 4},
	)
	require.NoError(t, err)

	assert.Equal(t, Maximize, prob.ObjSense())
	assert.Equal(t, 3, prob.NumRows())
	assert.Equal(t, []int{0, 2}, prob.Row(0).Indices())
	assert.Equal(t, 0, prob.Row(1).NumElements())
	assert.Equal(t, float64(4), prob.RowLowerBound(2))
	assert.Equal(t, float64(4), prob.RowUpperBound(2))

	_, err = NewProblemFromDense(Minimize, []float64{1}, [][]float64{{1, 2}}, []RowSense{LessEqual}, []float64{1})
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = NewProblemFromDense(Minimize, []float64{1}, [][]float64{{1}}, nil, []float64{1})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestProblem_Incidence(t *testing.T) {
	prob, err := NewProblemFromDense(Minimize,
		[]float64{1, 1, 1, 1},
		[][]float64{
			{1, 1, 0, 0},
			{0, 1, 1, 0},
			{0, 0, 0, 1},
		},
		[]RowSense{LessEqual, LessEqual, LessEqual},
		[]float64{1, 1, 1},
	)
	require.NoError(t, err)

	assert.Equal(t, NewIntSet(0, 1), prob.RowsTouching(NewIntSet(1)))
	assert.Equal(t, NewIntSet(0, 1, 2), prob.ColsTouching(NewIntSet(0, 1)))

	// mutation keeps the incidence maps consistent
	prob.SetCoefficient(1, 1, 0)
	assert.Equal(t, NewIntSet(0), prob.RowsTouching(NewIntSet(1)))
	prob.SetCoefficient(2, 0, 5)
	assert.Equal(t, NewIntSet(0, 2), prob.RowsOfCol(0))
	assert.Equal(t, NewIntSet(0, 3), prob.ColsOfRow(2))
}

func TestProblem_ObjectiveAndFeasible(t *testing.T) {
	prob, err := NewProblemFromDense(Maximize,
		[]float64{1, 1},
		[][]float64{{2, 3}},
		[]RowSense{LessEqual},
		[]float64{4},
	)
	require.NoError(t, err)

	assert.Equal(t, float64(1), prob.Objective([]float64{1, 0}))
	assert.True(t, prob.Feasible([]float64{1, 0}, 1e-9))
	assert.False(t, prob.Feasible([]float64{1, 1}, 1e-9))
	assert.False(t, prob.Feasible([]float64{2, 0}, 1e-9))
}
