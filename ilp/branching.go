package ilp

import "math"

// BranchHeuristic selects the fractional variable a node is split on.
type BranchHeuristic int

const (
	// BRANCH_MAXFUN picks the variable with the largest absolute objective coefficient.
	BRANCH_MAXFUN BranchHeuristic = 0
	// BRANCH_MOST_INFEASIBLE picks the variable whose fractional part is closest to 1/2.
	BRANCH_MOST_INFEASIBLE BranchHeuristic = 1
	// BRANCH_NAIVE cycles through the variables, starting after the last one cut.
	BRANCH_NAIVE BranchHeuristic = 2
)

func (h BranchHeuristic) String() string {
	switch h {
	case BRANCH_MAXFUN:
		return "maxfun"
	case BRANCH_MOST_INFEASIBLE:
		return "most-infeasible"
	case BRANCH_NAIVE:
		return "naive"
	}
	return "unknown"
}

func isFractional(v float64) bool {
	return math.Abs(v-math.Round(v)) > integralityTol
}

// highestScoring returns the fractional integer variable with the highest score,
// the last one on ties, or -1 when x is integral.
func highestScoring(x []float64, integer []bool, score func(j int) float64) int {
	if len(x) != len(integer) {
		panic("ilp: integrality flags and values differ in length")
	}
	pick, best := -1, math.Inf(-1)
	for j, v := range x {
		if !integer[j] || !isFractional(v) {
			continue
		}
		if s := score(j); s >= best {
			pick, best = j, s
		}
	}
	return pick
}

func maxFunBranchPoint(c []float64, x []float64, integer []bool) int {
	if len(c) != len(x) {
		panic("ilp: objective and values differ in length")
	}
	return highestScoring(x, integer, func(j int) float64 { return math.Abs(c[j]) })
}

func mostInfeasibleBranchPoint(x []float64, integer []bool) int {
	return highestScoring(x, integer, func(j int) float64 {
		_, f := math.Modf(x[j])
		return -math.Abs(0.5 - math.Abs(f))
	})
}

// naiveBranchPoint scans the variables cyclically from the one after the last cut.
func (s solution) naiveBranchPoint() int {
	n := len(s.problem.c)
	from := 0
	if k := len(s.problem.cuts); k > 0 {
		from = s.problem.cuts[k-1].col + 1
	}
	for i := range n {
		j := (from + i) % n
		if s.problem.integer[j] && isFractional(s.x[j]) {
			return j
		}
	}
	return -1
}
