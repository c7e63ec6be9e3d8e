package milp

import (
	"math"
)

// ObjSense is the optimization direction of a problem.
type ObjSense int

const (
	Minimize ObjSense = 1
	Maximize ObjSense = -1
)

func (s ObjSense) String() string {
	if s == Maximize {
		return "maximize"
	}
	return "minimize"
}

// Better reports whether objective value a is strictly preferable to b under this sense.
func (s ObjSense) Better(a, b float64) bool {
	if s == Maximize {
		return a > b
	}
	return a < b
}

// RowSense is the relation between a row's activity and its right-hand side.
type RowSense byte

const (
	LessEqual    RowSense = 'L'
	GreaterEqual RowSense = 'G'
	Equal        RowSense = 'E'
)

// Problem is a sparse MILP with row/column incidence maps.
// The incidence maps are updated on every matrix mutation, so RowsTouching and
// ColsTouching always reflect the current matrix content.
type Problem struct {
	sense ObjSense

	// objective coefficients and column data, indexed by column
	c        []float64
	colLower []float64
	colUpper []float64
	integer  []bool

	// constraint rows and their relation to the right-hand side, indexed by row
	rows     []*SparseVector
	rowSense []RowSense
	rhs      []float64

	// rows holding a nonzero in each column
	colRows []IntSet
}

// NewProblem returns an empty problem with the given objective sense.
func NewProblem(sense ObjSense) *Problem {
	return &Problem{sense: sense}
}

func (p *Problem) NumCols() int { return len(p.c) }

func (p *Problem) NumRows() int { return len(p.rows) }

func (p *Problem) ObjSense() ObjSense { return p.sense }

func (p *Problem) SetObjSense(s ObjSense) { p.sense = s }

func (p *Problem) ObjCoef(j int) float64 { return p.c[j] }

func (p *Problem) SetObjCoef(j int, v float64) { p.c[j] = v }

func (p *Problem) ColLowerBound(j int) float64 { return p.colLower[j] }

func (p *Problem) ColUpperBound(j int) float64 { return p.colUpper[j] }

func (p *Problem) SetColBounds(j int, lower, upper float64) {
	p.colLower[j] = lower
	p.colUpper[j] = upper
}

func (p *Problem) IsInteger(j int) bool { return p.integer[j] }

func (p *Problem) RowSense(i int) RowSense { return p.rowSense[i] }

func (p *Problem) RowRHS(i int) float64 { return p.rhs[i] }

// RowUpperBound returns the upper bound on the activity of row i (+Inf for >= rows).
func (p *Problem) RowUpperBound(i int) float64 {
	if p.rowSense[i] == GreaterEqual {
		return math.Inf(1)
	}
	return p.rhs[i]
}

// RowLowerBound returns the lower bound on the activity of row i (-Inf for <= rows).
func (p *Problem) RowLowerBound(i int) float64 {
	if p.rowSense[i] == LessEqual {
		return math.Inf(-1)
	}
	return p.rhs[i]
}

// Row returns row i. The vector is owned by the problem and must not be modified.
func (p *Problem) Row(i int) *SparseVector { return p.rows[i] }

// Coefficient returns the entry at (row, col).
func (p *Problem) Coefficient(row, col int) float64 { return p.rows[row].At(col) }

// SetCoefficient sets the entry at (row, col) and keeps the incidence maps in step.
func (p *Problem) SetCoefficient(row, col int, v float64) {
	p.rows[row].Set(col, v)
	if v == 0 {
		delete(p.colRows[col], row)
		return
	}
	p.colRows[col].Add(row)
}

// RowsOfCol returns the rows holding a nonzero in column j.
func (p *Problem) RowsOfCol(j int) IntSet { return p.colRows[j].Clone() }

// ColsOfRow returns the columns holding a nonzero in row i.
func (p *Problem) ColsOfRow(i int) IntSet { return NewIntSet(p.rows[i].indices...) }

// RowsTouching returns every row with a nonzero in at least one of cols.
func (p *Problem) RowsTouching(cols IntSet) IntSet {
	rows := make(IntSet)
	for j := range cols {
		rows.AddAll(p.colRows[j])
	}
	return rows
}

// ColsTouching returns every column with a nonzero in at least one of rows.
func (p *Problem) ColsTouching(rows IntSet) IntSet {
	cols := make(IntSet)
	for i := range rows {
		cols.Add(p.rows[i].indices...)
	}
	return cols
}

// Objective evaluates the objective function at x.
func (p *Problem) Objective(x []float64) float64 {
	var z float64
	for j, c := range p.c {
		z += c * x[j]
	}
	return z
}

// Feasible reports whether x satisfies all rows and column bounds within tol.
func (p *Problem) Feasible(x []float64, tol float64) bool {
	for j := range p.c {
		if x[j] < p.colLower[j]-tol || x[j] > p.colUpper[j]+tol {
			return false
		}
	}
	for i, r := range p.rows {
		activity := r.Dot(x)
		if activity > p.RowUpperBound(i)+tol || activity < p.RowLowerBound(i)-tol {
			return false
		}
	}
	return true
}
