package solver

import (
	"context"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/robionica/les/decomposition"
	"github.com/robionica/les/milp"
)

// SolveProblem splits p into its connected components and solves each one on its
// own: a component with rows is decomposed from its smallest column and solved as a
// chain, a column without rows is set to its best bound.
func SolveProblem(ctx context.Context, p *milp.Problem, opts ...Option) (Solution, error) {
	if p.NumCols() == 0 {
		return Solution{}, decomposition.ErrEmptyProblem
	}
	o := newOptions(opts)
	logger := o.logger.With(slog.String("problem", uuid.NewString()))

	comps := milp.Components(p)
	ctx, span := o.tracer.Start(ctx, "solver.SolveProblem",
		trace.WithAttributes(
			attribute.Int("cols", p.NumCols()),
			attribute.Int("rows", p.NumRows()),
			attribute.Int("components", len(comps)),
		),
	)
	defer span.End()

	sol := Solution{Values: make([]float64, p.NumCols())}
	for _, comp := range comps {
		if err := solveComponent(ctx, p, comp, o, &sol); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "problem solve failed")
			return Solution{}, err
		}
	}
	sol.Objective = p.Objective(sol.Values)

	span.SetAttributes(attribute.Float64("objective", sol.Objective))
	span.SetStatus(codes.Ok, "problem solved")
	logger.InfoContext(ctx, "problem solved",
		slog.Int("components", len(comps)),
		slog.Float64("objective", sol.Objective),
	)
	return sol, nil
}

func solveComponent(ctx context.Context, p *milp.Problem, comp milp.Component, o options, sol *Solution) error {
	if len(comp.Rows) == 0 {
		for _, j := range comp.Cols {
			v, err := bestBound(p, j)
			if err != nil {
				return err
			}
			sol.Values[j] = v
		}
		return nil
	}

	decompOpts := []decomposition.Option{
		decomposition.WithLogger(o.logger),
		decomposition.WithTracer(o.tracer),
	}
	decompOpts = append(decompOpts, o.decompOpts...)
	decompOpts = append(decompOpts, decomposition.WithSeed(comp.Cols[0]))
	blocks, err := decomposition.DecomposeByBlocksContext(ctx, p, decompOpts...)
	if err != nil {
		return errors.Wrapf(err, "component of column %d", comp.Cols[0])
	}

	o.logger.DebugContext(ctx, "component decomposed",
		slog.Int("seed", comp.Cols[0]),
		slog.Int("cols", len(comp.Cols)),
		slog.Int("rows", len(comp.Rows)),
		slog.Int("blocks", len(blocks)),
	)

	part, err := solveChain(ctx, blocks, o, o.logger)
	if err != nil {
		return errors.Wrapf(err, "component of column %d", comp.Cols[0])
	}
	for _, j := range comp.Cols {
		sol.Values[j] = part.Values[j]
	}
	return nil
}

// bestBound returns the value of a column without rows that optimizes its
// objective term. A zero objective coefficient picks the bound closest to zero.
func bestBound(p *milp.Problem, j int) (float64, error) {
	lower, upper := p.ColLowerBound(j), p.ColUpperBound(j)
	if p.IsInteger(j) {
		lower, upper = math.Ceil(lower), math.Floor(upper)
	}
	if lower > upper {
		return 0, errors.Wrapf(ErrInfeasible, "column %d has an empty range", j)
	}

	c := p.ObjCoef(j)
	var v float64
	switch {
	case c == 0:
		v = math.Max(lower, math.Min(upper, 0))
	case p.ObjSense().Better(c*upper, c*lower):
		v = upper
	default:
		v = lower
	}
	if math.IsInf(v, 0) {
		return 0, errors.Wrapf(ErrUnbounded, "column %d", j)
	}
	return v, nil
}
