package ilp

import (
	"context"
	"math"

	"github.com/pkg/errors"

	"github.com/robionica/les/milp"
)

// Status is the outcome of one oracle call.
type Status int

const (
	// Optimal means X is an optimal assignment.
	Optimal Status = iota
	// Infeasible means no assignment satisfies the rows and bounds.
	Infeasible
	// Abandoned means the search stopped early (node limit, time limit, cancellation).
	Abandoned
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "optimal"
	case Infeasible:
		return "infeasible"
	case Abandoned:
		return "abandoned"
	}
	return "unknown"
}

// Result is what an Oracle reports for one problem.
// Objective is expressed in the problem's own sense.
type Result struct {
	Status    Status
	Objective float64
	X         []float64
}

// Oracle solves a single mixed-integer problem.
type Oracle interface {
	Solve(ctx context.Context, p *Problem) (Result, error)
}

// Row is a sparse constraint Lower <= a·x <= Upper. Use ±Inf for a missing side.
type Row struct {
	Coefs *milp.SparseVector
	Lower float64
	Upper float64
}

// Problem is a self-contained MILP over variables 0..len(C)-1.
type Problem struct {
	Sense   milp.ObjSense
	C       []float64
	Lower   []float64
	Upper   []float64
	Integer []bool
	Rows    []Row
}

func (p *Problem) NumVars() int { return len(p.C) }

// Validate checks the dimensions of the problem.
func (p *Problem) Validate() error {
	n := len(p.C)
	if len(p.Lower) != n || len(p.Upper) != n || len(p.Integer) != n {
		return errors.Wrapf(ErrDimensions, "%d objective coefficients, %d lower, %d upper, %d integrality flags",
			n, len(p.Lower), len(p.Upper), len(p.Integer))
	}
	for j := 0; j < n; j++ {
		if math.IsInf(p.Lower[j], -1) {
			return errors.Wrapf(ErrFreeVariable, "variable %d", j)
		}
	}
	for i, r := range p.Rows {
		if r.Coefs == nil {
			continue
		}
		for pos := 0; pos < r.Coefs.NumElements(); pos++ {
			if idx := r.Coefs.IndexAt(pos); idx < 0 || idx >= n {
				return errors.Wrapf(ErrDimensions, "row %d refers to variable %d of %d", i, idx, n)
			}
		}
	}
	return nil
}

// rowsHoldAt reports whether every row holds at x.
func (p *Problem) rowsHoldAt(x []float64) bool {
	for _, r := range p.Rows {
		var activity float64
		if r.Coefs != nil {
			activity = r.Coefs.Dot(x)
		}
		if activity > r.Upper+feasibilityTol || activity < r.Lower-feasibilityTol {
			return false
		}
	}
	return true
}

func (p *Problem) objective(x []float64) float64 {
	var z float64
	for j, c := range p.C {
		z += c * x[j]
	}
	return z
}
