package ilp

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// subProblem is one node of the enumeration tree: the presolved root problem,
// shared read-only by every node, plus the cuts added on the way down from the root.
type subProblem struct {
	id     int64
	parent int64

	milpProblem
	heuristic BranchHeuristic

	// cuts are ordered from the root down; the last one was added by the parent's branch.
	cuts []cut
}

// cut bounds one variable: x[col] <= value when upper is set, x[col] >= value otherwise.
type cut struct {
	col   int
	upper bool
	value float64
}

// row returns the cut as a "g·x <= h" inequality over n variables.
func (k cut) row(n int) ([]float64, float64) {
	g := make([]float64, n)
	if k.upper {
		g[k.col] = 1
		return g, k.value
	}
	g[k.col] = -1
	return g, -k.value
}

type solution struct {
	problem *subProblem
	x       []float64
	z       float64
	err     error
}

// inequalities returns the rows of G stacked on top of the cuts.
// Neither the returned matrix nor the returned vector alias the shared root problem.
func (p subProblem) inequalities() (*mat.Dense, []float64) {
	if len(p.cuts) == 0 {
		if p.G == nil {
			return nil, nil
		}
		return mat.DenseCopyOf(p.G), append([]float64(nil), p.h...)
	}

	n := len(p.c)
	rows := len(p.h) + len(p.cuts)
	G := mat.NewDense(rows, n, nil)
	h := make([]float64, 0, rows)

	if p.G != nil {
		G.Slice(0, len(p.h), 0, n).(*mat.Dense).Copy(p.G)
	}
	h = append(h, p.h...)

	for i, k := range p.cuts {
		g, v := k.row(n)
		G.SetRow(len(p.h)+i, g)
		h = append(h, v)
	}
	return G, h
}

// withSlacks turns "A·x = b, G·x <= h" into "A'·x' = b'" by adding one slack
// variable per inequality. The slacks have zero cost and come after x.
func withSlacks(c []float64, A *mat.Dense, b []float64, G *mat.Dense, h []float64) ([]float64, *mat.Dense, []float64) {
	if G == nil {
		panic("ilp: no inequalities to add slacks for")
	}
	if err := checkDims(c, A, b, G, h); err != nil {
		panic(err)
	}

	n, eq, ineq := len(c), len(b), len(h)

	cs := make([]float64, n+ineq)
	copy(cs, c)

	bs := make([]float64, 0, eq+ineq)
	bs = append(bs, b...)
	bs = append(bs, h...)

	As := mat.NewDense(eq+ineq, n+ineq, nil)
	if A != nil {
		As.Slice(0, eq, 0, n).(*mat.Dense).Copy(A)
	}
	As.Slice(eq, eq+ineq, 0, n).(*mat.Dense).Copy(G)
	for i := 0; i < ineq; i++ {
		As.Set(eq+i, n+i, 1)
	}
	return cs, As, bs
}

// solve computes the LP relaxation of p.
func (p subProblem) solve() solution {
	s := solution{problem: &p}

	c, A, b := p.c, p.A, p.b
	if G, h := p.inequalities(); G != nil {
		c, A, b = withSlacks(p.c, p.A, p.b, G, h)
	}
	if A == nil {
		// every variable is free of rows; toMILP bounds each one so this is not reached from Solve
		s.err = lp.ErrUnbounded
		return s
	}

	// the simplex needs at least as many variables as equalities
	if rows, cols := A.Dims(); rows > cols {
		s.err = lp.ErrSingular
		return s
	}

	A, b = flipNegativeRows(A, b)
	z, x, err := lp.Simplex(c, A, b, simplexTol, nil)
	if err != nil {
		s.err = err
		return s
	}
	s.z, s.x = z, x[:len(p.c)]
	return s
}

// branchPoint selects the fractional integer variable to branch on, -1 if there is none.
func (s solution) branchPoint() int {
	switch s.problem.heuristic {
	case BRANCH_MAXFUN:
		return maxFunBranchPoint(s.problem.c, s.x, s.problem.integer)
	case BRANCH_MOST_INFEASIBLE:
		return mostInfeasibleBranchPoint(s.x, s.problem.integer)
	case BRANCH_NAIVE:
		return s.naiveBranchPoint()
	}
	panic("ilp: unknown branch heuristic " + s.problem.heuristic.String())
}

// branch splits the relaxation at a fractional variable v into a node with
// v <= floor(x[v]) and a node with v >= floor(x[v])+1.
func (s solution) branch(nextID func() int64) (down, up subProblem) {
	v := s.branchPoint()
	if v < 0 {
		panic("ilp: branching on an integer feasible solution")
	}
	floor := math.Floor(s.x[v])

	down = s.problem.child(cut{col: v, upper: true, value: floor}, nextID())
	up = s.problem.child(cut{col: v, upper: false, value: floor + 1}, nextID())
	return down, up
}

// child returns a node below p with one more cut. The root problem is shared,
// the cut list is not.
func (p *subProblem) child(k cut, id int64) subProblem {
	cuts := make([]cut, len(p.cuts), len(p.cuts)+1)
	copy(cuts, p.cuts)

	return subProblem{
		id:          id,
		parent:      p.id,
		milpProblem: p.milpProblem,
		heuristic:   p.heuristic,
		cuts:        append(cuts, k),
	}
}

// checkDims verifies that c, A, b, G and h describe the same variables.
func checkDims(c []float64, A *mat.Dense, b []float64, G *mat.Dense, h []float64) error {
	if A == nil && G == nil {
		return errors.Wrap(ErrDimensions, "no constraint matrix")
	}
	if A == nil && len(b) > 0 {
		return errors.Wrap(ErrDimensions, "b given without A")
	}
	if G == nil && len(h) > 0 {
		return errors.Wrap(ErrDimensions, "h given without G")
	}
	if A != nil {
		if r, cols := A.Dims(); r != len(b) || cols != len(c) {
			return errors.Wrapf(ErrDimensions, "A is %dx%d, b has %d entries, c has %d", r, cols, len(b), len(c))
		}
	}
	if G != nil {
		if r, cols := G.Dims(); r != len(h) || cols != len(c) {
			return errors.Wrapf(ErrDimensions, "G is %dx%d, h has %d entries, c has %d", r, cols, len(h), len(c))
		}
	}
	return nil
}
