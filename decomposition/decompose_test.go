package decomposition

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robionica/les/milp"
)

func lessEqual(n int) []milp.RowSense {
	senses := make([]milp.RowSense, n)
	for i := range senses {
		senses[i] = milp.LessEqual
	}
	return senses
}

// three row groups linked through columns {2, 3} and {6}
func chainProblem(t *testing.T) *milp.Problem {
	t.Helper()
	p, err := milp.NewProblemFromDense(milp.Maximize,
		[]float64{8, 2, 5, 5, 8, 3, 9, 7, 6},
		[][]float64{
			{2, 3, 4, 1, 0, 0, 0, 0, 0},
			{1, 2, 3, 2, 0, 0, 0, 0, 0},
			{0, 0, 1, 4, 3, 4, 2, 0, 0},
			{0, 0, 2, 1, 1, 2, 5, 0, 0},
			{0, 0, 0, 0, 0, 0, 2, 1, 2},
			{0, 0, 0, 0, 0, 0, 3, 4, 1},
		},
		lessEqual(6),
		[]float64{7, 6, 9, 7, 3, 5},
	)
	require.NoError(t, err)
	return p
}

func sets(items ...[]int) []milp.IntSet {
	out := make([]milp.IntSet, len(items))
	for i, s := range items {
		out[i] = milp.NewIntSet(s...)
	}
	return out
}

func TestDecompose_singleRow(t *testing.T) {
	// maximize x0 + x1 s.t. 2x0 + 3x1 <= 4
	p, err := milp.NewProblemFromDense(milp.Maximize,
		[]float64{1, 1},
		[][]float64{{2, 3}},
		lessEqual(1),
		[]float64{4},
	)
	require.NoError(t, err)

	chain, err := Decompose(p)
	require.NoError(t, err)
	assert.Equal(t, sets([]int{0}), chain.U)
	assert.Empty(t, chain.S)
	assert.Equal(t, sets([]int{0, 1}), chain.M)
}

func TestDecompose_chain(t *testing.T) {
	chain, err := Decompose(chainProblem(t))
	require.NoError(t, err)

	assert.Equal(t, sets([]int{0, 1}, []int{2, 3}, []int{4, 5}), chain.U)
	assert.Equal(t, sets([]int{2, 3}, []int{6}), chain.S)
	assert.Equal(t, sets([]int{0, 1}, []int{4, 5}, []int{7, 8}), chain.M)
	assert.Equal(t, "U=[{0, 1} {2, 3} {4, 5}] S=[{2, 3} {6}] M=[{0, 1} {4, 5} {7, 8}]", chain.String())
}

func TestDecompose_twoBlocks(t *testing.T) {
	p, err := milp.NewProblemFromDense(milp.Maximize,
		[]float64{2, 3, 1, 5, 4, 6, 1},
		[][]float64{
			{3, 4, 1, 0, 0, 0, 0},
			{0, 2, 3, 3, 0, 0, 0},
			{0, 2, 0, 0, 3, 0, 0},
			{0, 0, 2, 0, 0, 3, 2},
		},
		lessEqual(4),
		[]float64{6, 5, 4, 5},
	)
	require.NoError(t, err)

	chain, err := Decompose(p)
	require.NoError(t, err)
	assert.Equal(t, sets([]int{0}, []int{1, 2, 3}), chain.U)
	assert.Equal(t, sets([]int{1, 2}), chain.S)
	assert.Equal(t, sets([]int{0}, []int{3, 4, 5, 6}), chain.M)
}

func TestDecompose_seedFromTheMiddle(t *testing.T) {
	chain, err := Decompose(chainProblem(t), WithSeed(4))
	require.NoError(t, err)

	// column 4 reaches rows {2, 3} first, then both neighbouring groups at once
	assert.Equal(t, sets([]int{2, 3}, []int{0, 1, 4, 5}), chain.U)
	assert.Equal(t, sets([]int{2, 3, 6}), chain.S)
	assert.Equal(t, sets([]int{4, 5}, []int{0, 1, 7, 8}), chain.M)
}

func TestDecompose_errors(t *testing.T) {
	p, err := milp.NewProblemFromDense(milp.Maximize,
		[]float64{1, 1, 1},
		[][]float64{{1, 1, 0}},
		lessEqual(1),
		[]float64{1},
	)
	require.NoError(t, err)

	tests := []struct {
		name string
		p    *milp.Problem
		opts []Option
		want error
	}{
		{name: "isolated seed", p: p, opts: []Option{WithSeed(2)}, want: ErrIsolatedColumn},
		{name: "isolated among seeds", p: p, opts: []Option{WithSeed(0, 2)}, want: ErrIsolatedColumn},
		{name: "seed out of range", p: p, opts: []Option{WithSeed(3)}, want: ErrSeedOutOfRange},
		{name: "negative seed", p: p, opts: []Option{WithSeed(-1)}, want: ErrSeedOutOfRange},
		{name: "no columns", p: milp.NewProblem(milp.Maximize), want: ErrEmptyProblem},
		{name: "no rows", p: func() *milp.Problem {
			q := milp.NewProblem(milp.Maximize)
			q.AddBinaryVariable(1)
			return q
		}(), want: ErrEmptyProblem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chain, err := Decompose(tt.p, tt.opts...)
			assert.ErrorIs(t, err, tt.want)
			assert.Zero(t, chain.NumBlocks())
		})
	}
}

func TestDecompose_mergeEmptyBlocks(t *testing.T) {
	// a staircase where the middle layer only touches separator columns
	p, err := milp.NewProblemFromDense(milp.Minimize,
		[]float64{1, 1, 1, 1},
		[][]float64{
			{1, 1, 0, 0},
			{0, 1, 1, 0},
			{0, 0, 1, 1},
		},
		lessEqual(3),
		[]float64{1, 1, 1},
	)
	require.NoError(t, err)

	chain, err := Decompose(p, WithMergeEmptyBlocks(false))
	require.NoError(t, err)
	assert.Equal(t, sets([]int{0}, []int{1}, []int{2}), chain.U)
	assert.Equal(t, sets([]int{1}, []int{2}), chain.S)
	assert.Equal(t, sets([]int{0}, []int{}, []int{3}), chain.M)

	chain, err = Decompose(p)
	require.NoError(t, err)
	assert.Equal(t, sets([]int{0, 1}, []int{2}), chain.U)
	assert.Equal(t, sets([]int{2}), chain.S)
	assert.Equal(t, sets([]int{0, 1}, []int{3}), chain.M)
}

func TestDecompose_maxSeparatorSize(t *testing.T) {
	p := chainProblem(t)

	// {2, 3} is too wide: the first two layers merge, {6} survives
	chain, err := Decompose(p, WithMaxSeparatorSize(1))
	require.NoError(t, err)
	assert.Equal(t, sets([]int{0, 1, 2, 3}, []int{4, 5}), chain.U)
	assert.Equal(t, sets([]int{6}), chain.S)
	assert.Equal(t, sets([]int{0, 1, 2, 3, 4, 5}, []int{7, 8}), chain.M)

	chain, err = Decompose(p, WithMaxSeparatorSize(2))
	require.NoError(t, err)
	assert.Equal(t, 3, chain.NumBlocks())
}

func TestDecompose_generatedInvariants(t *testing.T) {
	configs := []milp.GeneratorConfig{
		{Blocks: 1, BlockWidth: 4, Seed: 1},
		{Blocks: 3, BlockWidth: 3, Seed: 2},
		{Blocks: 5, BlockWidth: 4, BlockHeight: 3, BridgeSize: 2, Seed: 3},
		{Blocks: 8, BlockWidth: 5, BridgeSize: 3, Seed: 4},
	}
	for _, cfg := range configs {
		p, err := milp.Generate(cfg)
		require.NoError(t, err)

		for _, maxSep := range []int{0, 1, 2, 3} {
			chain, err := Decompose(p, WithMaxSeparatorSize(maxSep))
			require.NoError(t, err, "%+v", cfg)
			require.NoError(t, chain.Validate())

			assert.Equal(t, len(chain.U), len(chain.M))
			assert.Equal(t, len(chain.U), len(chain.S)+1)

			// the generated problems are connected, so the closure covers everything
			assert.Equal(t, p.NumRows(), chain.Rows().Len())
			assert.Equal(t, p.NumCols(), chain.Cols().Len())

			for i, s := range chain.S {
				if maxSep > 0 {
					assert.LessOrEqual(t, s.Len(), maxSep, "separator %d of %+v", i, cfg)
				}
			}
			for i, m := range chain.M {
				assert.NotZero(t, m.Len(), "middle %d of %+v", i, cfg)
			}

			// every column of a block's rows is one of its own columns
			for i, u := range chain.U {
				own := chain.Left(i).Union(chain.M[i]).Union(chain.Right(i))
				assert.True(t, p.ColsTouching(u).Difference(own).Len() == 0)
			}

			if maxSep == 0 {
				assert.Equal(t, cfg.Blocks, chain.NumBlocks())
			}
		}
	}
}

func TestDecompose_closureMatchesComponent(t *testing.T) {
	// two disconnected chains
	p, err := milp.NewProblemFromDense(milp.Maximize,
		[]float64{1, 1, 1, 1, 1},
		[][]float64{
			{1, 1, 0, 0, 0},
			{0, 0, 1, 1, 0},
			{0, 0, 0, 1, 1},
		},
		lessEqual(3),
		[]float64{1, 1, 1},
	)
	require.NoError(t, err)

	for _, comp := range milp.Components(p) {
		chain, err := Decompose(p, WithSeed(comp.Cols[0]))
		require.NoError(t, err)
		assert.Equal(t, milp.NewIntSet(comp.Rows...), chain.Rows())
		assert.Equal(t, milp.NewIntSet(comp.Cols...), chain.Cols())
	}
}

func TestDecompose_idempotent(t *testing.T) {
	p, err := milp.Generate(milp.GeneratorConfig{Blocks: 6, BlockWidth: 4, BridgeSize: 2, Seed: 7})
	require.NoError(t, err)

	first, err := Decompose(p, WithMaxSeparatorSize(2))
	require.NoError(t, err)
	second, err := Decompose(p, WithMaxSeparatorSize(2))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestChain_Validate(t *testing.T) {
	tests := []struct {
		name  string
		chain Chain
	}{
		{name: "empty", chain: Chain{}},
		{name: "lengths", chain: Chain{U: sets([]int{0}, []int{1}), M: sets([]int{0}, []int{1})}},
		{
			name: "overlapping rows",
			chain: Chain{
				U: sets([]int{0, 1}, []int{1}),
				S: sets([]int{2}),
				M: sets([]int{0}, []int{1}),
			},
		},
		{
			name: "overlapping middles",
			chain: Chain{
				U: sets([]int{0}, []int{1}),
				S: sets([]int{2}),
				M: sets([]int{0}, []int{0}),
			},
		},
		{
			name: "middle in separator",
			chain: Chain{
				U: sets([]int{0}, []int{1}),
				S: sets([]int{2}),
				M: sets([]int{0}, []int{2}),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.chain.Validate(), ErrInconsistentChain)
		})
	}
}
