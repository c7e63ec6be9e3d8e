//go:build (linux || darwin) && (amd64 || arm64)

package ilp

import (
	"context"
	"time"

	"github.com/bartolsthoorn/gohighs/highs"
	"github.com/pkg/errors"

	"github.com/robionica/les/milp"
)

// HiGHS is an Oracle backed by the HiGHS MIP solver.
type HiGHS struct {
	// TimeLimit bounds each call; a call that hits it reports Abandoned. Zero means no limit.
	TimeLimit time.Duration
}

// Solve implements Oracle.
func (h HiGHS) Solve(ctx context.Context, p *Problem) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{Status: Abandoned}, nil
	}
	if p.NumVars() == 0 {
		if p.rowsHoldAt(nil) {
			return Result{Status: Optimal, X: []float64{}}, nil
		}
		return Result{Status: Infeasible}, nil
	}

	m := toModel(p)

	opts := []highs.SolveOption{highs.WithOutput(false)}
	limit, ok := timeLimit(ctx, h.TimeLimit, time.Now())
	if !ok {
		return Result{Status: Abandoned}, nil
	}
	if limit > 0 {
		opts = append(opts, highs.WithTimeLimit(limit.Seconds()))
	}

	sol, err := m.Solve(opts...)
	if err != nil {
		return Result{}, errors.Wrapf(ErrSolverFailure, "highs: %v", err)
	}

	switch {
	case sol.IsOptimal():
		x := make([]float64, p.NumVars())
		copy(x, sol.ColValues)
		return Result{Status: Optimal, Objective: p.objective(x), X: x}, nil
	case sol.IsUnbounded() && !sol.IsInfeasible():
		return Result{}, ErrUnbounded
	case sol.IsInfeasible():
		return Result{Status: Infeasible}, nil
	case sol.IsTimeLimit():
		return Result{Status: Abandoned}, nil
	}
	return Result{}, errors.Wrapf(ErrSolverFailure, "highs model status %s", sol.Status)
}

func toModel(p *Problem) *highs.Model {
	n := p.NumVars()
	m := &highs.Model{
		Maximize: p.Sense == milp.Maximize,
		ColCosts: append([]float64(nil), p.C...),
		ColLower: append([]float64(nil), p.Lower...),
		ColUpper: append([]float64(nil), p.Upper...),
		VarTypes: make([]highs.VariableType, n),
	}
	for j, integer := range p.Integer {
		if integer {
			m.VarTypes[j] = highs.Integer
		}
	}
	for _, r := range p.Rows {
		var cols []int
		var vals []float64
		if r.Coefs != nil {
			for pos := 0; pos < r.Coefs.NumElements(); pos++ {
				cols = append(cols, r.Coefs.IndexAt(pos))
				vals = append(vals, r.Coefs.ValueAt(pos))
			}
		}
		m.AddSparseRow(r.Lower, cols, vals, r.Upper)
	}
	return m
}
