package decomposition

import "github.com/pkg/errors"

var (
	// ErrEmptyProblem indicates a problem without columns or rows.
	ErrEmptyProblem = errors.New("decomposition: problem has no columns or no rows")
	// ErrSeedOutOfRange indicates a seed column that is not a column of the problem.
	ErrSeedOutOfRange = errors.New("decomposition: seed column out of range")
	// ErrIsolatedColumn indicates a column of the closure without incident rows.
	ErrIsolatedColumn = errors.New("decomposition: column has no incident rows")
	// ErrInconsistentChain indicates a chain that violates its structural invariants.
	ErrInconsistentChain = errors.New("decomposition: inconsistent separator chain")
	// ErrStrayEntry indicates a row entry whose column lies outside the block's column sets.
	ErrStrayEntry = errors.New("decomposition: entry outside the block's columns")
	// ErrMissingSolution indicates a solution table lookup for a mask that was never stored.
	ErrMissingSolution = errors.New("decomposition: no solution stored for mask")
)
