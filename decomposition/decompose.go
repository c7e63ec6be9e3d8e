package decomposition

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/robionica/les/milp"
)

// Decompose computes the separator chain of the rows and columns reachable from the seed.
//
// The closure is expanded from the seed columns one row/column step at a time; each
// step contributes a row layer. Separators are the columns shared by adjacent layers.
// Layers whose separator exceeds the configured maximum are merged, and blocks
// without private columns are folded into their left neighbour.
//
// Rows and columns outside the seed's connected component are left out of the chain.
func Decompose(p *milp.Problem, opts ...Option) (Chain, error) {
	return DecomposeContext(context.Background(), p, opts...)
}

// DecomposeContext is Decompose with a parent context for tracing.
func DecomposeContext(ctx context.Context, p *milp.Problem, opts ...Option) (Chain, error) {
	o := newOptions(opts)

	_, span := o.tracer.Start(ctx, "decomposition.Decompose",
		trace.WithAttributes(
			attribute.Int("num_cols", p.NumCols()),
			attribute.Int("num_rows", p.NumRows()),
			attribute.IntSlice("seed", o.seed),
			attribute.Int("max_separator_size", o.maxSeparatorSize),
		),
	)
	defer span.End()

	chain, err := decompose(p, o)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "decomposition failed")
		return Chain{}, err
	}

	maxSep := 0
	for _, s := range chain.S {
		maxSep = max(maxSep, s.Len())
	}
	span.SetAttributes(
		attribute.Int("blocks", chain.NumBlocks()),
		attribute.Int("widest_separator", maxSep),
	)
	span.SetStatus(codes.Ok, "decomposed")

	if uncovered := p.NumCols() - chain.Cols().Len(); uncovered > 0 {
		o.logger.Debug("columns outside the seed's component left out of the chain",
			slog.Int("uncovered_cols", uncovered),
			slog.Int("uncovered_rows", p.NumRows()-chain.Rows().Len()),
		)
	}
	return chain, nil
}

func decompose(p *milp.Problem, o options) (Chain, error) {
	if p.NumCols() == 0 || p.NumRows() == 0 {
		return Chain{}, errors.Wrapf(ErrEmptyProblem, "%d columns, %d rows", p.NumCols(), p.NumRows())
	}

	seed := o.seed
	if len(seed) == 0 {
		seed = []int{0}
	}
	for _, j := range seed {
		if j < 0 || j >= p.NumCols() {
			return Chain{}, errors.Wrapf(ErrSeedOutOfRange, "column %d of %d", j, p.NumCols())
		}
		if p.RowsOfCol(j).Len() == 0 {
			return Chain{}, errors.Wrapf(ErrIsolatedColumn, "seed column %d", j)
		}
	}

	cumulative, err := closure(p, milp.NewIntSet(seed...))
	if err != nil {
		return Chain{}, err
	}
	U := rowLayers(cumulative)
	U, S := separators(p, U, o)
	M := middles(p, U, S)

	chain := Chain{U: U, S: S, M: M}
	if o.mergeEmptyBlocks {
		chain = mergeEmptyBlocks(chain, o.logger)
	}

	if err := chain.Validate(); err != nil {
		return Chain{}, err
	}

	o.logger.Debug("separator chain computed",
		slog.Int("blocks", chain.NumBlocks()),
		slog.String("chain", chain.String()),
	)
	return chain, nil
}

// closure expands cols through alternating row and column incidence until the
// column set stops growing, returning the cumulative row set of every step.
func closure(p *milp.Problem, cols milp.IntSet) ([]milp.IntSet, error) {
	var cumulative []milp.IntSet
	for {
		rows := p.RowsTouching(cols)
		if rows.Len() == 0 {
			return nil, errors.Wrapf(ErrIsolatedColumn, "columns %v", cols)
		}
		cumulative = append(cumulative, rows)

		next := p.ColsTouching(rows)
		if next.Equal(cols) {
			return cumulative, nil
		}
		cols = next
	}
}

// rowLayers turns cumulative row sets into disjoint layers.
// A step that added no rows yields no layer.
func rowLayers(cumulative []milp.IntSet) []milp.IntSet {
	U := []milp.IntSet{cumulative[0].Clone()}
	for i := 1; i < len(cumulative); i++ {
		layer := cumulative[i].Difference(cumulative[i-1])
		if layer.Len() == 0 {
			continue
		}
		U = append(U, layer)
	}
	return U
}

// separators computes the columns shared by adjacent layers, merging layers whose
// separator is wider than the configured maximum.
func separators(p *milp.Problem, U []milp.IntSet, o options) ([]milp.IntSet, []milp.IntSet) {
	var S []milp.IntSet
	for i := 0; i+1 < len(U); {
		s := p.ColsTouching(U[i+1]).Intersect(p.ColsTouching(U[i]))
		if o.maxSeparatorSize > 0 && s.Len() > o.maxSeparatorSize {
			o.logger.Debug("separator too wide, merging row layers",
				slog.Int("layer", i),
				slog.Int("separator_size", s.Len()),
				slog.Int("max_separator_size", o.maxSeparatorSize),
			)
			U[i] = U[i].Union(U[i+1])
			U = append(U[:i+1], U[i+2:]...)
			continue
		}
		S = append(S, s)
		i++
	}
	return U, S
}

// middles computes the columns private to each layer.
func middles(p *milp.Problem, U, S []milp.IntSet) []milp.IntSet {
	M := make([]milp.IntSet, len(U))
	for i := range U {
		m := p.ColsTouching(U[i])
		if i > 0 {
			m = m.Difference(S[i-1])
		}
		if i < len(S) {
			m = m.Difference(S[i])
		}
		M[i] = m
	}
	return M
}

// mergeEmptyBlocks folds every block without private columns into its left
// neighbour; the separator between them becomes private to the merged block.
func mergeEmptyBlocks(c Chain, logger *slog.Logger) Chain {
	for i := 1; i < len(c.U); {
		if c.M[i].Len() > 0 {
			i++
			continue
		}
		logger.Debug("merging block without private columns", slog.Int("block", i))

		c.U[i-1] = c.U[i-1].Union(c.U[i])
		c.M[i-1] = c.M[i-1].Union(c.S[i-1])

		c.U = append(c.U[:i], c.U[i+1:]...)
		c.M = append(c.M[:i], c.M[i+1:]...)
		c.S = append(c.S[:i-1], c.S[i:]...)

		// the merged block may now be followed by another empty block
		i = max(i-1, 1)
	}
	return c
}
