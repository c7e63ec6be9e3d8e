package ilp

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/robionica/les/milp"
)

// sparse turns dense coefficients into a row vector.
func sparse(coefs ...float64) *milp.SparseVector {
	v := milp.NewSparseVector()
	for j, c := range coefs {
		v.Set(j, c)
	}
	return v
}

func Test_toMILP(t *testing.T) {
	p := &Problem{
		Sense:   milp.Maximize,
		C:       []float64{3, 2},
		Lower:   []float64{1, 0},
		Upper:   []float64{4, math.Inf(1)},
		Integer: []bool{true, false},
		Rows: []Row{
			{Coefs: sparse(1, 1), Lower: math.Inf(-1), Upper: 6},
			{Coefs: sparse(0, 1), Lower: 2, Upper: 2},
			{Coefs: sparse(1, -1), Lower: -5, Upper: math.Inf(1)},
		},
	}

	mp, sh, err := toMILP(p)
	require.NoError(t, err)

	assert.Equal(t, []float64{-3, -2}, mp.c)
	assert.Equal(t, []bool{true, false}, mp.integer)

	assert.Nil(t, mp.A)
	assert.Empty(t, mp.b)

	// the upper side of row 0, both sides of row 1, the lower side of row 2, the finite width of x0
	require.NotNil(t, mp.G)
	assert.True(t, mat.Equal(mat.NewDense(5, 2, []float64{
		1, 1,
		0, 1,
		0, -1,
		-1, 1,
		1, 0,
	}), mp.G), "got\n%v", mat.Formatted(mp.G))
	assert.Equal(t, []float64{5, 2, -2, 6, 3}, mp.h)

	assert.Equal(t, []float64{1, 0}, sh.lower)
	assert.Equal(t, -1.0, sh.sign)
	assert.Equal(t, 3.0, sh.offset)
}

func Test_toMILP_unboundedColumns(t *testing.T) {
	free := func(sense milp.ObjSense) *Problem {
		return &Problem{
			Sense:   sense,
			C:       []float64{1},
			Lower:   []float64{0},
			Upper:   []float64{math.Inf(1)},
			Integer: []bool{false},
		}
	}

	_, _, err := toMILP(free(milp.Maximize))
	assert.ErrorIs(t, err, ErrUnbounded)

	// minimizing pins the column to its lower bound
	mp, _, err := toMILP(free(milp.Minimize))
	require.NoError(t, err)
	assert.Nil(t, mp.A)
	assert.True(t, mat.Equal(mat.NewDense(1, 1, []float64{1}), mp.G))
	assert.Equal(t, []float64{0}, mp.h)
}

func Test_toMILP_emptyIntegerRange(t *testing.T) {
	p := &Problem{
		Sense:   milp.Minimize,
		C:       []float64{1},
		Lower:   []float64{0.2},
		Upper:   []float64{0.8},
		Integer: []bool{true},
	}
	_, _, err := toMILP(p)
	assert.ErrorIs(t, err, errInfeasible)
}

func TestShift_restore(t *testing.T) {
	sh := shift{lower: []float64{1, -2}}
	assert.Equal(t, []float64{3, -0.5}, sh.restore([]float64{1.9999999, 1.5}, []bool{true, false}))
}

func TestProblem_Validate(t *testing.T) {
	ok := &Problem{
		C:       []float64{1, 2},
		Lower:   []float64{0, 0},
		Upper:   []float64{1, 1},
		Integer: []bool{true, true},
		Rows:    []Row{{Coefs: sparse(1, 1), Lower: 0, Upper: 1}},
	}
	assert.NoError(t, ok.Validate())

	short := *ok
	short.Upper = []float64{1}
	assert.ErrorIs(t, short.Validate(), ErrDimensions)

	free := *ok
	free.Lower = []float64{math.Inf(-1), 0}
	assert.ErrorIs(t, free.Validate(), ErrFreeVariable)

	stray := *ok
	stray.Rows = []Row{{Coefs: sparse(0, 0, 1), Lower: 0, Upper: 1}}
	assert.ErrorIs(t, stray.Validate(), ErrDimensions)
}
