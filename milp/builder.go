package milp

import (
	"math"

	"github.com/pkg/errors"
)

// Term is one coefficient of a constraint, e.g. "3 * x2".
type Term struct {
	Col  int
	Coef float64
}

// AddVariable adds a column with the given objective coefficient and returns its index.
// Integer columns are bounded to [0, 1]; continuous columns to [0, +Inf).
func (p *Problem) AddVariable(coef float64, integer bool) int {
	upper := math.Inf(1)
	if integer {
		upper = 1
	}

	p.c = append(p.c, coef)
	p.colLower = append(p.colLower, 0)
	p.colUpper = append(p.colUpper, upper)
	p.integer = append(p.integer, integer)
	p.colRows = append(p.colRows, make(IntSet))

	return len(p.c) - 1
}

// AddBinaryVariable adds a 0/1 column.
func (p *Problem) AddBinaryVariable(coef float64) int {
	return p.AddVariable(coef, true)
}

// AddConstraint adds the row "sum(terms) <sense> rhs" and returns its index.
// Repeated terms on the same column are summed.
func (p *Problem) AddConstraint(sense RowSense, rhs float64, terms ...Term) (int, error) {
	if len(terms) == 0 {
		return -1, ErrEmptyConstraint
	}

	for _, t := range terms {
		if !p.checkTerm(t) {
			return -1, errors.Wrapf(ErrUnknownVariable, "column %d", t.Col)
		}
	}

	row := len(p.rows)
	p.rows = append(p.rows, NewSparseVector())
	p.rowSense = append(p.rowSense, sense)
	p.rhs = append(p.rhs, rhs)

	for _, t := range terms {
		p.SetCoefficient(row, t.Col, p.rows[row].At(t.Col)+t.Coef)
	}

	return row, nil
}

// check whether the term refers to a column currently present in the problem
func (p *Problem) checkTerm(t Term) bool {
	return t.Col >= 0 && t.Col < len(p.c)
}

// NewProblemFromDense builds a binary problem from a dense description:
// objective c, constraint matrix A (one slice per row), row senses and right-hand sides b.
func NewProblemFromDense(sense ObjSense, c []float64, A [][]float64, senses []RowSense, b []float64) (*Problem, error) {
	if len(A) != len(b) || len(senses) != len(b) {
		return nil, ErrDimensionMismatch
	}

	p := NewProblem(sense)
	for _, coef := range c {
		p.AddBinaryVariable(coef)
	}

	for i, row := range A {
		if len(row) != len(c) {
			return nil, errors.Wrapf(ErrDimensionMismatch, "row %d has %d entries, want %d", i, len(row), len(c))
		}

		var terms []Term
		for j, v := range row {
			if v != 0 {
				terms = append(terms, Term{Col: j, Coef: v})
			}
		}

		// an all-zero row is kept so that row indices match the dense input
		r := len(p.rows)
		p.rows = append(p.rows, NewSparseVector())
		p.rowSense = append(p.rowSense, senses[i])
		p.rhs = append(p.rhs, b[i])
		for _, t := range terms {
			p.SetCoefficient(r, t.Col, t.Coef)
		}
	}

	return p, nil
}
