package ilp

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	// tolerance used when checking integrality of relaxation values
	integralityTol = 1e-6

	// tolerance used when checking row activities
	feasibilityTol = 1e-9

	// tolerance handed to the simplex for the maximal reduced cost
	simplexTol = 1e-10
)

// milpProblem is a minimization problem over nonnegative variables:
//
//	minimize	cᵀ x
//	s.t.		A * x = b
//				G * x <= h
//				x >= 0 .
//
// A and G may be nil when no constraints of that type are present.
type milpProblem struct {
	c []float64
	A *mat.Dense
	b []float64
	G *mat.Dense
	h []float64

	// which variables to apply the integrality constraint to. Same order as c.
	integer []bool
}

// shift records how a milpProblem solution maps back onto the Problem it was built from:
// x = lower + y, and the objective is sign * cᵀy + offset.
type shift struct {
	lower  []float64
	sign   float64
	offset float64
}

func (s shift) restore(y []float64, integer []bool) []float64 {
	x := make([]float64, len(s.lower))
	for j := range x {
		x[j] = s.lower[j] + y[j]
		if integer[j] {
			x[j] = math.Round(x[j])
		}
	}
	return x
}

// toMILP converts p to the nonnegative minimization form used by the enumeration tree.
// Maximization objectives are negated, lower bounds are shifted to zero, finite upper bounds
// become inequalities, and every row is split into one inequality per finite side.
func toMILP(p *Problem) (milpProblem, shift, error) {
	n := p.NumVars()
	sign := float64(p.Sense)

	sh := shift{
		lower: make([]float64, n),
		sign:  sign,
	}
	c := make([]float64, n)
	width := make([]float64, n)
	for j := 0; j < n; j++ {
		lower, upper := p.Lower[j], p.Upper[j]
		if p.Integer[j] {
			lower, upper = math.Ceil(lower-integralityTol), math.Floor(upper+integralityTol)
		}
		if upper < lower {
			return milpProblem{}, sh, errInfeasible
		}
		sh.lower[j] = lower
		sh.offset += p.C[j] * lower
		c[j] = sign * p.C[j]
		width[j] = upper - lower
	}

	var gData, h []float64
	inRow := make([]bool, n)

	for _, r := range p.Rows {
		dense := make([]float64, n)
		var fixed float64
		if r.Coefs != nil {
			for pos := 0; pos < r.Coefs.NumElements(); pos++ {
				j := r.Coefs.IndexAt(pos)
				dense[j] = r.Coefs.ValueAt(pos)
				fixed += dense[j] * sh.lower[j]
				inRow[j] = true
			}
		}

		// equality rows too; with one slack per inequality the relaxation has full row rank
		lower, upper := r.Lower-fixed, r.Upper-fixed
		if !math.IsInf(upper, 1) {
			gData = append(gData, dense...)
			h = append(h, upper)
		}
		if !math.IsInf(lower, -1) {
			neg := make([]float64, n)
			for j, v := range dense {
				neg[j] = -v
			}
			gData = append(gData, neg...)
			h = append(h, -lower)
		}
	}

	for j := 0; j < n; j++ {
		if math.IsInf(width[j], 1) {
			if inRow[j] {
				continue
			}
			// a variable with no upper bound and no row is only bounded by its objective
			if c[j] < 0 {
				return milpProblem{}, sh, ErrUnbounded
			}
			width[j] = 0
		}
		bound := make([]float64, n)
		bound[j] = 1
		gData = append(gData, bound...)
		h = append(h, width[j])
	}

	mp := milpProblem{
		c:       c,
		h:       h,
		integer: p.Integer,
	}
	if len(h) > 0 {
		mp.G = mat.NewDense(len(h), n, gData)
	}
	return mp, sh, nil
}
