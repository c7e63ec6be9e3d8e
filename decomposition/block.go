package decomposition

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/robionica/les/milp"
)

// Candidate is one feasible assignment of a block for a fixed pair of separator masks.
// Bit j of a mask is the value of the j-th column of the matching separator, in ascending
// column order.
type Candidate struct {
	RightMask uint64
	LeftMask  uint64

	// Local is the objective of the middle assignment plus the objective
	// contribution of the left separator columns set by LeftMask.
	Local float64

	// values of MiddleCols() and LeftCols(), in that order
	Middle []float64
	Left   []float64
}

// BlockSolution is the entry of a block's solution table for one right mask.
type BlockSolution struct {
	// Objective is the best objective of this block and all blocks to its left,
	// given the right mask.
	Objective float64

	// Local is the objective contribution of this block alone.
	Local float64

	LeftMask uint64
	Middle   []float64
	Left     []float64
}

// Block is one link of a materialized separator chain. The three sub-matrices
// hold the block's rows restricted to the left separator, the private columns and
// the right separator, keyed on the problem's row and column indices.
type Block struct {
	Index int

	Left   *milp.SparseMatrix
	Middle *milp.SparseMatrix
	Right  *milp.SparseMatrix

	problem    *milp.Problem
	rows       []int
	leftCols   []int
	middleCols []int
	rightCols  []int

	solved     bool
	candidates map[uint64][]Candidate
	table      map[uint64]*BlockSolution
}

func newBlock(p *milp.Problem, index int, rows, left, middle, right []int) *Block {
	return &Block{
		Index:      index,
		Left:       milp.NewSparseMatrix(),
		Middle:     milp.NewSparseMatrix(),
		Right:      milp.NewSparseMatrix(),
		problem:    p,
		rows:       rows,
		leftCols:   left,
		middleCols: middle,
		rightCols:  right,
		candidates: make(map[uint64][]Candidate),
		table:      make(map[uint64]*BlockSolution),
	}
}

// Problem returns the problem the block was cut from.
func (b *Block) Problem() *milp.Problem { return b.problem }

// Rows returns the block's row layer, ascending.
func (b *Block) Rows() []int { return b.rows }

// LeftCols returns the left separator columns in mask bit order.
func (b *Block) LeftCols() []int { return b.leftCols }

// MiddleCols returns the private columns, ascending.
func (b *Block) MiddleCols() []int { return b.middleCols }

// RightCols returns the right separator columns in mask bit order.
func (b *Block) RightCols() []int { return b.rightCols }

// NumRightMasks returns the number of assignments of the right separator.
func (b *Block) NumRightMasks() uint64 { return 1 << uint(len(b.rightCols)) }

// NumLeftMasks returns the number of assignments of the left separator.
func (b *Block) NumLeftMasks() uint64 { return 1 << uint(len(b.leftCols)) }

func (b *Block) IsSolved() bool { return b.solved }

func (b *Block) MarkSolved() { b.solved = true }

// Reset drops all candidates and table entries and clears the solved flag.
func (b *Block) Reset() {
	b.solved = false
	b.candidates = make(map[uint64][]Candidate)
	b.table = make(map[uint64]*BlockSolution)
}

// ClearSolutions drops the table entries and keeps the candidates.
func (b *Block) ClearSolutions() {
	b.table = make(map[uint64]*BlockSolution)
}

// AddCandidate records a feasible assignment for its right mask.
func (b *Block) AddCandidate(c Candidate) {
	b.candidates[c.RightMask] = append(b.candidates[c.RightMask], c)
}

// Candidates returns the feasible assignments recorded for rightMask.
func (b *Block) Candidates(rightMask uint64) []Candidate {
	return b.candidates[rightMask]
}

// BestCandidate returns the candidate for rightMask with the best local objective
// under the problem's sense. Ties keep the candidate recorded first.
func (b *Block) BestCandidate(rightMask uint64) (Candidate, bool) {
	var best Candidate
	found := false
	sense := b.problem.ObjSense()
	for _, c := range b.candidates[rightMask] {
		if !found || sense.Better(c.Local, best.Local) {
			best, found = c, true
		}
	}
	return best, found
}

// SetSolution stores the table entry for rightMask, replacing any previous one.
func (b *Block) SetSolution(rightMask uint64, s *BlockSolution) {
	b.table[rightMask] = s
}

// Solution returns the table entry for rightMask.
func (b *Block) Solution(rightMask uint64) (*BlockSolution, error) {
	s, ok := b.table[rightMask]
	if !ok {
		return nil, errors.Wrapf(ErrMissingSolution, "block %d, right mask %d", b.Index, rightMask)
	}
	return s, nil
}

// NumSolutions returns the number of table entries.
func (b *Block) NumSolutions() int { return len(b.table) }

func (b *Block) String() string {
	return fmt.Sprintf("block %d: rows %v left %v middle %v right %v",
		b.Index, b.rows, b.leftCols, b.middleCols, b.rightCols)
}
