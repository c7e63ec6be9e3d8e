package ilp

import (
	"gonum.org/v1/gonum/mat"
)

// presolvedProblem is the standard form handed to the enumeration tree.
type presolvedProblem struct {
	milpProblem
}

// root returns the node the enumeration tree starts from: the whole problem without cuts.
func (p presolvedProblem) root(heuristic BranchHeuristic) subProblem {
	return subProblem{milpProblem: p.milpProblem, heuristic: heuristic}
}

// undoer maps a solution of a presolved problem onto the problem before that step.
type undoer func(solution) solution

// presolver records an undoer for every presolve step that changes the variables.
// postsolve runs them last step first.
type presolver struct {
	undo []undoer
}

func newPresolver() *presolver {
	return &presolver{}
}

func (ps *presolver) push(u undoer) {
	ps.undo = append(ps.undo, u)
}

// presolve brings p into nonnegative minimization form and drops empty rows.
// errInfeasible is returned when an empty row can not hold.
func (ps *presolver) presolve(p *Problem) (presolvedProblem, error) {
	mp, sh, err := toMILP(p)
	if err != nil {
		return presolvedProblem{}, err
	}

	integer := p.Integer
	ps.push(func(s solution) solution {
		s.x = sh.restore(s.x, integer)
		s.z = sh.sign*s.z + sh.offset
		return s
	})

	// dropping a row leaves the variables alone, so there is nothing to undo
	if mp.A, mp.b, err = removeEmptyRows(mp.A, mp.b, func(rhs float64) bool { return rhs == 0 }); err != nil {
		return presolvedProblem{}, err
	}
	if mp.G, mp.h, err = removeEmptyRows(mp.G, mp.h, func(rhs float64) bool { return rhs >= 0 }); err != nil {
		return presolvedProblem{}, err
	}
	return presolvedProblem{milpProblem: mp}, nil
}

func (ps *presolver) postsolve(s solution) solution {
	for i := len(ps.undo) - 1; i >= 0; i-- {
		s = ps.undo[i](s)
	}
	return s
}

func isZeroRow(row []float64) bool {
	for _, v := range row {
		if v != 0 {
			return false
		}
	}
	return true
}

// removeEmptyRows returns copies of A and b without the all-zero rows of A. Every
// dropped row must satisfy holds(rhs), otherwise errInfeasible is returned. The
// matrix is nil when no row is left.
func removeEmptyRows(A *mat.Dense, b []float64, holds func(rhs float64) bool) (*mat.Dense, []float64, error) {
	if A == nil {
		return nil, nil, nil
	}

	rows, cols := A.Dims()
	var data, rhs []float64
	for i := 0; i < rows; i++ {
		row := A.RawRowView(i)
		if isZeroRow(row) {
			if !holds(b[i]) {
				return nil, nil, errInfeasible
			}
			continue
		}
		data = append(data, row...)
		rhs = append(rhs, b[i])
	}

	if len(rhs) == 0 {
		return nil, nil, nil
	}
	return mat.NewDense(len(rhs), cols, data), rhs, nil
}

// flipNegativeRows negates every equality row whose right-hand side is negative,
// so the simplex always starts from b >= 0. A and b are copied before they are changed.
func flipNegativeRows(A *mat.Dense, b []float64) (*mat.Dense, []float64) {
	var flipped *mat.Dense
	var rhs []float64
	for i, v := range b {
		if v >= 0 {
			continue
		}
		if flipped == nil {
			flipped = mat.DenseCopyOf(A)
			rhs = append([]float64(nil), b...)
		}
		rhs[i] = -v
		row := flipped.RawRowView(i)
		for j := range row {
			row[j] = -row[j]
		}
	}
	if flipped == nil {
		return A, b
	}
	return flipped, rhs
}
