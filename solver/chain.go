package solver

import (
	"context"
	"log/slog"
	"math"
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/robionica/les/decomposition"
)

// objectiveTol is the tolerance between the objective recomputed from the stitched
// assignment and the one accumulated through the tables.
const objectiveTol = 1e-6

// Solution is an assignment of every column of the problem the blocks were cut from.
type Solution struct {
	Objective float64
	Values    []float64
}

// SolveChain solves every block not solved yet, combines the block tables from
// left to right and stitches the optimal assignment back from the last block.
// Blocks are solved concurrently; the combination and the stitch are sequential.
func SolveChain(ctx context.Context, blocks []*decomposition.Block, opts ...Option) (Solution, error) {
	o := newOptions(opts)
	runID := uuid.New()
	logger := o.logger.With(slog.String("run", runID.String()))

	ctx, span := o.tracer.Start(ctx, "solver.SolveChain",
		trace.WithAttributes(
			attribute.String("run", runID.String()),
			attribute.Int("blocks", len(blocks)),
			attribute.Int("workers", o.workers),
		),
	)
	defer span.End()

	sol, err := solveChain(ctx, blocks, o, logger)
	if err != nil {
		chainSolves.WithLabelValues(outcome(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "chain solve failed")
		logger.ErrorContext(ctx, "chain solve failed", slog.Any("error", err))
		return Solution{}, err
	}

	chainSolves.WithLabelValues("optimal").Inc()
	span.SetAttributes(attribute.Float64("objective", sol.Objective))
	span.SetStatus(codes.Ok, "chain solved")
	logger.InfoContext(ctx, "chain solved",
		slog.Int("blocks", len(blocks)),
		slog.Float64("objective", sol.Objective),
	)
	return sol, nil
}

func outcome(err error) string {
	switch {
	case errors.Is(err, ErrInfeasible):
		return "infeasible"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	}
	return "error"
}

func solveChain(ctx context.Context, blocks []*decomposition.Block, o options, logger *slog.Logger) (Solution, error) {
	if err := checkChain(blocks); err != nil {
		return Solution{}, err
	}

	pending := lo.Filter(blocks, func(b *decomposition.Block, _ int) bool { return !b.IsSolved() })
	logger.DebugContext(ctx, "solving blocks",
		slog.Int("pending", len(pending)),
		slog.Int("solved", len(blocks)-len(pending)),
	)
	if err := solveBlocks(ctx, pending, o); err != nil {
		return Solution{}, err
	}

	if err := reduce(blocks); err != nil {
		return Solution{}, err
	}

	sol, err := Stitch(blocks)
	if err != nil {
		return Solution{}, err
	}

	last, _ := blocks[len(blocks)-1].Solution(0)
	if math.Abs(sol.Objective-last.Objective) > objectiveTol*math.Max(1, math.Abs(last.Objective)) {
		logger.WarnContext(ctx, "stitched objective differs from the table",
			slog.Float64("stitched", sol.Objective),
			slog.Float64("table", last.Objective),
		)
	}
	return sol, nil
}

// checkChain verifies that blocks are the consecutive links of one chain.
func checkChain(blocks []*decomposition.Block) error {
	if len(blocks) == 0 {
		return ErrEmptyChain
	}
	p := blocks[0].Problem()
	rows := make(map[int]int)
	for i, b := range blocks {
		if b.Problem() != p {
			return errors.Wrapf(ErrForeignBlocks, "block %d", i)
		}
		for _, u := range b.Rows() {
			if prev, ok := rows[u]; ok {
				return errors.Wrapf(ErrBrokenChain, "row %d in blocks %d and %d", u, prev, i)
			}
			rows[u] = i
		}
		if i+1 < len(blocks) && !slices.Equal(b.RightCols(), blocks[i+1].LeftCols()) {
			return errors.Wrapf(ErrBrokenChain, "right separator of block %d is not the left separator of block %d", i, i+1)
		}
	}
	if n := len(blocks[0].LeftCols()); n != 0 {
		return errors.Wrapf(ErrBrokenChain, "first block has %d left separator columns", n)
	}
	if n := len(blocks[len(blocks)-1].RightCols()); n != 0 {
		return errors.Wrapf(ErrBrokenChain, "last block has %d right separator columns", n)
	}
	return nil
}

// solveBlocks runs solveBlock over blocks on o.workers goroutines and returns the
// first failure. A failure cancels the blocks still queued.
func solveBlocks(ctx context.Context, blocks []*decomposition.Block, o options) error {
	if len(blocks) == 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tasks := make(chan *decomposition.Block)
	errs := make(chan error, len(blocks))
	var wg sync.WaitGroup

	for w := 0; w < min(o.workers, len(blocks)); w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range tasks {
				if err := solveBlock(ctx, b, o); err != nil {
					errs <- err
					cancel()
				}
			}
		}()
	}

feed:
	for _, b := range blocks {
		select {
		case tasks <- b:
		case <-ctx.Done():
			break feed
		}
	}
	close(tasks)
	wg.Wait()
	close(errs)

	// report the root cause rather than the cancellations it triggered
	var first error
	for err := range errs {
		if first == nil || (isCancellation(first) && !isCancellation(err)) {
			first = err
		}
	}
	if first == nil {
		first = ctx.Err()
	}
	return first
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled)
}

// reduce rebuilds the tables of blocks from left to right: the entry of a right
// mask is the candidate maximizing (or minimizing) its local objective plus the
// table entry of the previous block for the candidate's left mask. Candidates whose
// left mask has no entry in the previous block are skipped.
func reduce(blocks []*decomposition.Block) error {
	sense := blocks[0].Problem().ObjSense()
	for i, b := range blocks {
		b.ClearSolutions()
		for rightMask := uint64(0); rightMask < b.NumRightMasks(); rightMask++ {
			var best *decomposition.BlockSolution
			for _, c := range b.Candidates(rightMask) {
				total := c.Local
				if i > 0 {
					prev, err := blocks[i-1].Solution(c.LeftMask)
					if err != nil {
						continue
					}
					total += prev.Objective
				}
				if best == nil || sense.Better(total, best.Objective) {
					best = &decomposition.BlockSolution{
						Objective: total,
						Local:     c.Local,
						LeftMask:  c.LeftMask,
						Middle:    c.Middle,
						Left:      c.Left,
					}
				}
			}
			if best != nil {
				b.SetSolution(rightMask, best)
			}
		}
	}

	last := blocks[len(blocks)-1]
	if _, err := last.Solution(0); err != nil {
		return errors.Wrapf(ErrInfeasible, "block %d has no feasible assignment", last.Index)
	}
	return nil
}

// Stitch walks the solved blocks from the last to the first, following the left
// mask of each table entry into the previous block, and assembles the values of
// every middle and separator column. Columns outside the blocks stay at zero. The
// objective is recomputed from the assembled values.
func Stitch(blocks []*decomposition.Block) (Solution, error) {
	if len(blocks) == 0 {
		return Solution{}, ErrEmptyChain
	}
	p := blocks[0].Problem()
	x := make([]float64, p.NumCols())

	mask := uint64(0)
	for i := len(blocks) - 1; i >= 0; i-- {
		b := blocks[i]
		s, err := b.Solution(mask)
		if err != nil {
			return Solution{}, err
		}
		for k, j := range b.MiddleCols() {
			x[j] = s.Middle[k]
		}
		for k, j := range b.LeftCols() {
			x[j] = s.Left[k]
		}
		mask = s.LeftMask
	}

	return Solution{Objective: p.Objective(x), Values: x}, nil
}
