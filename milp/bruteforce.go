package milp

import (
	"math"

	"github.com/pkg/errors"
)

// MaxBruteForceCols bounds the enumeration done by BruteForce.
const MaxBruteForceCols = 24

const feasibilityTol = 1e-9

// BruteForce enumerates every 0/1 assignment of cols and returns the best
// objective over the rows touching them, with every other column held at 0.
// ok is false when no assignment is feasible. It is meant as a reference for
// small instances only.
func BruteForce(p *Problem, cols []int) (z float64, x []float64, ok bool, err error) {
	if len(cols) > MaxBruteForceCols {
		return 0, nil, false, errors.Wrapf(ErrTooManyColumns, "%d > %d", len(cols), MaxBruteForceCols)
	}
	for _, j := range cols {
		if p.colLower[j] > 0 || p.colUpper[j] < 1 || !p.integer[j] {
			return 0, nil, false, errors.Wrapf(ErrNonBinaryColumn, "column %d", j)
		}
	}

	rows := p.RowsTouching(NewIntSet(cols...)).Sorted()
	cur := make([]float64, p.NumCols())
	best := math.Inf(1)
	if p.sense == Maximize {
		best = math.Inf(-1)
	}

	for mask := uint64(0); mask < uint64(1)<<len(cols); mask++ {
		var obj float64
		for k, j := range cols {
			cur[j] = float64((mask >> k) & 1)
			obj += p.c[j] * cur[j]
		}
		if !rowsHold(p, rows, cur) {
			continue
		}
		if !ok || p.sense.Better(obj, best) {
			best = obj
			x = append(x[:0], cur...)
			ok = true
		}
	}

	if !ok {
		return 0, nil, false, nil
	}
	return best, x, true, nil
}

func rowsHold(p *Problem, rows []int, x []float64) bool {
	for _, i := range rows {
		activity := p.rows[i].Dot(x)
		if activity > p.RowUpperBound(i)+feasibilityTol || activity < p.RowLowerBound(i)-feasibilityTol {
			return false
		}
	}
	return true
}
