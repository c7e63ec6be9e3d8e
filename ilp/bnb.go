package ilp

import (
	"context"
	"runtime"

	"github.com/pkg/errors"
)

// BranchAndBound is an Oracle that solves LP relaxations with the gonum simplex and
// enumerates branches concurrently.
type BranchAndBound struct {
	workers   int
	heuristic BranchHeuristic
	maxNodes  int64
	observers observers
}

// BranchAndBoundOption configures a BranchAndBound oracle.
type BranchAndBoundOption func(*BranchAndBound)

// WithWorkers sets the number of goroutines solving relaxations. Defaults to GOMAXPROCS.
func WithWorkers(n int) BranchAndBoundOption {
	return func(b *BranchAndBound) { b.workers = n }
}

// WithHeuristic selects the variable to branch on.
func WithHeuristic(h BranchHeuristic) BranchAndBoundOption {
	return func(b *BranchAndBound) { b.heuristic = h }
}

// WithMaxNodes bounds the number of relaxations solved per call. Zero means no limit.
// A search that hits the limit reports Abandoned.
func WithMaxNodes(n int64) BranchAndBoundOption {
	return func(b *BranchAndBound) { b.maxNodes = n }
}

// WithObserver adds an observer of the branch-and-bound decisions.
func WithObserver(o DecisionObserver) BranchAndBoundOption {
	return func(b *BranchAndBound) { b.observers = append(b.observers, o) }
}

// NewBranchAndBound returns an oracle that reports its decisions to the Prometheus registry.
func NewBranchAndBound(opts ...BranchAndBoundOption) *BranchAndBound {
	b := &BranchAndBound{
		workers:   runtime.GOMAXPROCS(0),
		heuristic: BRANCH_MAXFUN,
		observers: observers{PrometheusObserver{}},
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Solve implements Oracle.
func (b *BranchAndBound) Solve(ctx context.Context, p *Problem) (Result, error) {
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

	ps := newPresolver()
	pp, err := ps.presolve(p)
	if errors.Is(err, errInfeasible) {
		return Result{Status: Infeasible}, nil
	}
	if err != nil {
		return Result{}, err
	}

	tree := newEnumerationTree(ctx, pp.root(b.heuristic), b.observers, b.maxNodes)
	best, abandoned, err := tree.search(b.workers)
	if err != nil {
		return Result{}, err
	}
	if best == nil {
		if abandoned {
			return Result{Status: Abandoned}, nil
		}
		return Result{Status: Infeasible}, nil
	}

	sol := ps.postsolve(*best)
	res := Result{
		Status:    Optimal,
		Objective: p.objective(sol.x),
		X:         sol.x,
	}
	// an incumbent found before the search was cut short is not proven optimal
	if abandoned {
		res.Status = Abandoned
	}
	return res, nil
}
