package decomposition

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/robionica/les/milp"
)

// Chain is a path decomposition of the rows and columns reachable from a seed.
// Block i owns the rows U[i] and the private columns M[i]; it shares S[i-1] with
// block i-1 and S[i] with block i+1.
type Chain struct {
	U []milp.IntSet
	S []milp.IntSet
	M []milp.IntSet
}

// NumBlocks returns the number of blocks in the chain.
func (c Chain) NumBlocks() int { return len(c.U) }

// Left returns the left separator of block i, empty for the first block.
func (c Chain) Left(i int) milp.IntSet {
	if i == 0 || i-1 >= len(c.S) {
		return milp.NewIntSet()
	}
	return c.S[i-1]
}

// Right returns the right separator of block i, empty for the last block.
func (c Chain) Right(i int) milp.IntSet {
	if i >= len(c.S) {
		return milp.NewIntSet()
	}
	return c.S[i]
}

// Rows returns the union of all row layers.
func (c Chain) Rows() milp.IntSet {
	rows := milp.NewIntSet()
	for _, u := range c.U {
		rows.AddAll(u)
	}
	return rows
}

// Cols returns every column owned by or shared between blocks.
func (c Chain) Cols() milp.IntSet {
	cols := milp.NewIntSet()
	for _, m := range c.M {
		cols.AddAll(m)
	}
	for _, s := range c.S {
		cols.AddAll(s)
	}
	return cols
}

// Validate checks the structural invariants of the chain: the list lengths agree,
// row layers and middle sets are pairwise disjoint and no middle set overlaps an
// adjacent separator.
func (c Chain) Validate() error {
	if len(c.U) == 0 {
		return errors.Wrap(ErrInconsistentChain, "no blocks")
	}
	if len(c.U) != len(c.M) || len(c.U) != len(c.S)+1 {
		return errors.Wrapf(ErrInconsistentChain, "%d row layers, %d middle sets, %d separators",
			len(c.U), len(c.M), len(c.S))
	}

	seenRows := milp.NewIntSet()
	seenCols := milp.NewIntSet()
	for i := range c.U {
		if overlap := seenRows.Intersect(c.U[i]); overlap.Len() > 0 {
			return errors.Wrapf(ErrInconsistentChain, "row layer %d repeats rows %v", i, overlap)
		}
		seenRows.AddAll(c.U[i])

		if overlap := seenCols.Intersect(c.M[i]); overlap.Len() > 0 {
			return errors.Wrapf(ErrInconsistentChain, "middle set %d repeats columns %v", i, overlap)
		}
		seenCols.AddAll(c.M[i])

		if overlap := c.M[i].Intersect(c.Left(i).Union(c.Right(i))); overlap.Len() > 0 {
			return errors.Wrapf(ErrInconsistentChain, "middle set %d overlaps its separators in %v", i, overlap)
		}
	}
	return nil
}

func (c Chain) String() string {
	var b strings.Builder
	write := func(name string, sets []milp.IntSet) {
		fmt.Fprintf(&b, "%s=[", name)
		for i, s := range sets {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString(s.String())
		}
		b.WriteString("]")
	}
	write("U", c.U)
	b.WriteString(" ")
	write("S", c.S)
	b.WriteString(" ")
	write("M", c.M)
	return b.String()
}
