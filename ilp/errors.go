package ilp

import "github.com/pkg/errors"

var (
	// ErrDimensions indicates a problem whose vectors and rows do not agree in size.
	ErrDimensions = errors.New("ilp: inconsistent problem dimensions")
	// ErrFreeVariable indicates a variable without a finite lower bound.
	ErrFreeVariable = errors.New("ilp: variables must have a finite lower bound")
	// ErrUnbounded indicates an objective that can be improved without limit.
	ErrUnbounded = errors.New("ilp: problem is unbounded")
	// ErrSolverFailure indicates an unexpected failure of the relaxation solver.
	ErrSolverFailure = errors.New("ilp: relaxation solver failed")

	// errInfeasible is used internally when presolve proves infeasibility.
	errInfeasible = errors.New("ilp: infeasible")
)
