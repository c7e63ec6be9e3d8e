package decomposition

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"

	"github.com/robionica/les/milp"
)

// Materialize builds one Block per link of chain. Every nonzero entry of a block's
// rows is copied into the left, middle or right sub-matrix according to the set its
// column belongs to; each sub-matrix also carries the bounds of every block row.
// Blocks never share storage.
func Materialize(p *milp.Problem, chain Chain, opts ...Option) ([]*Block, error) {
	o := newOptions(opts)
	if err := chain.Validate(); err != nil {
		return nil, err
	}

	blocks := make([]*Block, chain.NumBlocks())
	for i := range blocks {
		left, middle, right := chain.Left(i), chain.M[i], chain.Right(i)
		b := newBlock(p, i, chain.U[i].Sorted(), left.Sorted(), middle.Sorted(), right.Sorted())

		for _, u := range b.rows {
			if u < 0 || u >= p.NumRows() {
				return nil, errors.Wrapf(ErrInconsistentChain, "block %d refers to row %d of %d", i, u, p.NumRows())
			}
			lower, upper := p.RowLowerBound(u), p.RowUpperBound(u)
			b.Left.SetRowBounds(u, lower, upper)
			b.Middle.SetRowBounds(u, lower, upper)
			b.Right.SetRowBounds(u, lower, upper)

			row := p.Row(u)
			for pos := 0; pos < row.NumElements(); pos++ {
				col, v := row.IndexAt(pos), row.ValueAt(pos)
				switch {
				case left.Has(col):
					b.Left.SetCoefficient(u, col, v)
				case middle.Has(col):
					b.Middle.SetCoefficient(u, col, v)
				case right.Has(col):
					b.Right.SetCoefficient(u, col, v)
				case o.tolerateStray:
					o.logger.Warn("dropping entry outside the block's columns",
						slog.Int("block", i),
						slog.Int("row", u),
						slog.Int("col", col),
						slog.Float64("coef", v),
					)
				default:
					return nil, errors.Wrapf(ErrStrayEntry, "block %d, row %d, column %d", i, u, col)
				}
			}
		}
		blocks[i] = b
	}

	o.logger.Debug("blocks materialized", slog.Int("blocks", len(blocks)))
	return blocks, nil
}

// DecomposeByBlocks runs Decompose and Materialize with the same options.
func DecomposeByBlocks(p *milp.Problem, opts ...Option) ([]*Block, error) {
	return DecomposeByBlocksContext(context.Background(), p, opts...)
}

func DecomposeByBlocksContext(ctx context.Context, p *milp.Problem, opts ...Option) ([]*Block, error) {
	chain, err := DecomposeContext(ctx, p, opts...)
	if err != nil {
		return nil, err
	}
	return Materialize(p, chain, opts...)
}
