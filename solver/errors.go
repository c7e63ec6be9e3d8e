package solver

import "github.com/pkg/errors"

var (
	// ErrEmptyChain indicates a chain solve without blocks.
	ErrEmptyChain = errors.New("solver: no blocks to solve")
	// ErrForeignBlocks indicates blocks cut from different problems.
	ErrForeignBlocks = errors.New("solver: blocks originate from different problems")
	// ErrBrokenChain indicates blocks that do not form one contiguous chain.
	ErrBrokenChain = errors.New("solver: blocks do not form a contiguous chain")
	// ErrSeparatorTooWide indicates a separator whose assignments do not fit a mask.
	ErrSeparatorTooWide = errors.New("solver: separator too wide to enumerate")
	// ErrNonBinarySeparator indicates a separator column that is not a 0/1 column.
	ErrNonBinarySeparator = errors.New("solver: separator column is not binary")
	// ErrOracleFailed indicates an oracle error or an abandoned oracle search.
	ErrOracleFailed = errors.New("solver: oracle failed")
	// ErrInfeasible indicates a chain without any feasible assignment.
	ErrInfeasible = errors.New("solver: problem is infeasible")
	// ErrUnbounded indicates a column without rows whose objective improves without limit.
	ErrUnbounded = errors.New("solver: problem is unbounded")
)
