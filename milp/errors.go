package milp

import "github.com/pkg/errors"

var (
	// ErrDimensionMismatch indicates dense input whose lengths do not agree.
	ErrDimensionMismatch = errors.New("milp: dimensions of c, A, senses and b do not agree")
	// ErrUnknownVariable indicates a term referring to a column not declared on the problem.
	ErrUnknownVariable = errors.New("milp: term refers to an undeclared variable")
	// ErrEmptyConstraint indicates a constraint without terms.
	ErrEmptyConstraint = errors.New("milp: constraint must have at least one term")
	// ErrTooManyColumns indicates a brute force request beyond its enumeration limit.
	ErrTooManyColumns = errors.New("milp: too many columns to enumerate")
	// ErrNonBinaryColumn indicates a brute force request over a column that is not 0/1.
	ErrNonBinaryColumn = errors.New("milp: column is not binary")
	// ErrInvalidGenerator indicates generator parameters that cannot produce a chain.
	ErrInvalidGenerator = errors.New("milp: invalid generator configuration")
)
