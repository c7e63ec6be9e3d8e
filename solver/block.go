package solver

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/robionica/les/decomposition"
	"github.com/robionica/les/ilp"
	"github.com/robionica/les/milp"
)

// maxMaskBits bounds the width of a separator enumerated through a uint64 mask.
const maxMaskBits = 62

// SolveBlock enumerates every assignment of the block's left and right separators,
// solves the restricted problem over the middle columns through oracle and records
// every feasible result as a candidate of the block. The table entry of each right
// mask is set to its best candidate. Infeasible restrictions are skipped.
//
// The cost is 2^(|left|+|right|) oracle calls.
func SolveBlock(ctx context.Context, b *decomposition.Block, oracle ilp.Oracle) error {
	o := newOptions([]Option{WithOracle(oracle)})
	return solveBlock(ctx, b, o)
}

func solveBlock(ctx context.Context, b *decomposition.Block, o options) error {
	start := time.Now()
	ctx, span := o.tracer.Start(ctx, "solver.SolveBlock",
		trace.WithAttributes(
			attribute.Int("block", b.Index),
			attribute.Int("left_cols", len(b.LeftCols())),
			attribute.Int("middle_cols", len(b.MiddleCols())),
			attribute.Int("right_cols", len(b.RightCols())),
			attribute.Int("rows", len(b.Rows())),
		),
	)
	defer span.End()

	if err := enumerate(ctx, b, o.oracle); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "block solve failed")
		return err
	}

	blocksSolved.Inc()
	blockSolveDuration.Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("table_entries", b.NumSolutions()))
	span.SetStatus(codes.Ok, "block solved")

	o.logger.DebugContext(ctx, "block solved",
		slog.Int("block", b.Index),
		slog.Int("table_entries", b.NumSolutions()),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// restriction is the restricted problem of a block with the row bounds before
// subtracting the fixed separator contributions.
type restriction struct {
	problem      *ilp.Problem
	lower, upper []float64

	// coefficients of the separator columns in each row, indexed [row][bit]
	leftCoefs, rightCoefs [][]float64
}

func newRestriction(b *decomposition.Block) (*restriction, error) {
	p := b.Problem()

	for _, cols := range [][]int{b.LeftCols(), b.RightCols()} {
		if len(cols) > maxMaskBits {
			return nil, errors.Wrapf(ErrSeparatorTooWide, "block %d: %d columns", b.Index, len(cols))
		}
		for _, j := range cols {
			if !p.IsInteger(j) || p.ColLowerBound(j) != 0 || p.ColUpperBound(j) != 1 {
				return nil, errors.Wrapf(ErrNonBinarySeparator, "block %d, column %d", b.Index, j)
			}
		}
	}

	middle := b.MiddleCols()
	local := make(map[int]int, len(middle))
	sub := &ilp.Problem{
		Sense:   p.ObjSense(),
		C:       make([]float64, len(middle)),
		Lower:   make([]float64, len(middle)),
		Upper:   make([]float64, len(middle)),
		Integer: make([]bool, len(middle)),
	}
	for k, j := range middle {
		local[j] = k
		sub.C[k] = p.ObjCoef(j)
		sub.Lower[k] = p.ColLowerBound(j)
		sub.Upper[k] = p.ColUpperBound(j)
		sub.Integer[k] = p.IsInteger(j)
	}

	r := &restriction{problem: sub}
	for _, u := range b.Rows() {
		coefs := milp.NewSparseVector()
		if row := b.Middle.Row(u); row != nil {
			for pos := 0; pos < row.NumElements(); pos++ {
				coefs.Set(local[row.IndexAt(pos)], row.ValueAt(pos))
			}
		}
		sub.Rows = append(sub.Rows, ilp.Row{Coefs: coefs})
		r.lower = append(r.lower, b.Middle.RowLowerBound(u))
		r.upper = append(r.upper, b.Middle.RowUpperBound(u))

		leftCoefs := make([]float64, len(b.LeftCols()))
		for k, j := range b.LeftCols() {
			leftCoefs[k] = b.Left.Coefficient(u, j)
		}
		rightCoefs := make([]float64, len(b.RightCols()))
		for k, j := range b.RightCols() {
			rightCoefs[k] = b.Right.Coefficient(u, j)
		}
		r.leftCoefs = append(r.leftCoefs, leftCoefs)
		r.rightCoefs = append(r.rightCoefs, rightCoefs)
	}
	return r, nil
}

// fix sets the row bounds of the restricted problem for the given separator masks.
func (r *restriction) fix(leftMask, rightMask uint64) {
	for i := range r.problem.Rows {
		fixed := maskDot(leftMask, r.leftCoefs[i]) + maskDot(rightMask, r.rightCoefs[i])
		r.problem.Rows[i].Lower = r.lower[i] - fixed
		r.problem.Rows[i].Upper = r.upper[i] - fixed
	}
}

func enumerate(ctx context.Context, b *decomposition.Block, oracle ilp.Oracle) error {
	r, err := newRestriction(b)
	if err != nil {
		return err
	}

	p := b.Problem()
	leftObj := make([]float64, len(b.LeftCols()))
	for k, j := range b.LeftCols() {
		leftObj[k] = p.ObjCoef(j)
	}

	b.Reset()
	for rightMask := uint64(0); rightMask < b.NumRightMasks(); rightMask++ {
		for leftMask := uint64(0); leftMask < b.NumLeftMasks(); leftMask++ {
			if err := ctx.Err(); err != nil {
				return errors.Wrapf(err, "block %d", b.Index)
			}

			r.fix(leftMask, rightMask)
			res, err := oracle.Solve(ctx, r.problem)
			if err != nil {
				oracleCalls.WithLabelValues("error").Inc()
				return errors.Wrapf(ErrOracleFailed, "block %d, right mask %d, left mask %d: %v", b.Index, rightMask, leftMask, err)
			}
			oracleCalls.WithLabelValues(res.Status.String()).Inc()

			switch res.Status {
			case ilp.Infeasible:
				continue
			case ilp.Abandoned:
				return errors.Wrapf(ErrOracleFailed, "block %d, right mask %d, left mask %d: search abandoned", b.Index, rightMask, leftMask)
			}

			b.AddCandidate(decomposition.Candidate{
				RightMask: rightMask,
				LeftMask:  leftMask,
				Local:     res.Objective + maskDot(leftMask, leftObj),
				Middle:    res.X,
				Left:      maskBits(leftMask, len(b.LeftCols())),
			})
		}

		if best, ok := b.BestCandidate(rightMask); ok {
			b.SetSolution(rightMask, &decomposition.BlockSolution{
				Objective: best.Local,
				Local:     best.Local,
				LeftMask:  best.LeftMask,
				Middle:    best.Middle,
				Left:      best.Left,
			})
		}
	}
	b.MarkSolved()
	return nil
}

// maskDot sums the values whose bit is set in mask.
func maskDot(mask uint64, values []float64) float64 {
	var sum float64
	for k, v := range values {
		if mask&(1<<uint(k)) != 0 {
			sum += v
		}
	}
	return sum
}

// maskBits expands the low n bits of mask into 0/1 values.
func maskBits(mask uint64, n int) []float64 {
	bits := make([]float64, n)
	for k := range bits {
		bits[k] = float64((mask >> uint(k)) & 1)
	}
	return bits
}
