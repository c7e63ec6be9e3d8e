package ilp

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DecisionObserver receives each subproblem solution and the decision taken on it.
// ProcessDecision is called from a single goroutine per search.
type DecisionObserver interface {
	ProcessDecision(Node, Decision)
}

// Node represents a node from the enumeration tree.
type Node struct {
	ID     int64
	Parent int64

	// objective function value of the relaxation, in minimization form
	Z float64

	// relaxation values of the standard form variables
	X []float64
}

// convert a solution to a node.
// Note that we do not keep a reference to the subproblem itself.
func newNode(s solution) Node {
	n := Node{Z: s.z, X: s.x}
	if s.problem != nil {
		n.ID = s.problem.id
		n.Parent = s.problem.parent
	}
	return n
}

type noopObserver struct{}

func (noopObserver) ProcessDecision(Node, Decision) {}

// treeLogger records every node and decision of a search.
type treeLogger struct {
	mu        sync.Mutex
	nodes     []Node
	decisions []Decision
}

func newTreeLogger() *treeLogger {
	return &treeLogger{}
}

func (l *treeLogger) ProcessDecision(n Node, d Decision) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nodes = append(l.nodes, n)
	l.decisions = append(l.decisions, d)
}

func (l *treeLogger) count(d Decision) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	var k int
	for _, got := range l.decisions {
		if got == d {
			k++
		}
	}
	return k
}

var decisionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "les",
	Subsystem: "bnb",
	Name:      "decisions_total",
	Help:      "Branch-and-bound decisions taken, by decision.",
}, []string{"decision"})

// PrometheusObserver counts decisions in les_bnb_decisions_total.
type PrometheusObserver struct{}

func (PrometheusObserver) ProcessDecision(_ Node, d Decision) {
	decisionsTotal.WithLabelValues(d.label()).Inc()
}

// label is a short metric label for d.
func (d Decision) label() string {
	switch d {
	case SUBPROBLEM_IS_DEGENERATE:
		return "degenerate"
	case SUBPROBLEM_NOT_FEASIBLE:
		return "infeasible"
	case SUBPROBLEM_SOLVER_FAILED:
		return "failed"
	case WORSE_THAN_INCUMBENT:
		return "pruned"
	case BETTER_THAN_INCUMBENT_BRANCHING:
		return "branched"
	case BETTER_THAN_INCUMBENT_FEASIBLE:
		return "incumbent"
	case INITIAL_RELAXATION_NOT_FEASIBLE:
		return "root_infeasible"
	case INITIAL_RX_FEASIBLE_FOR_IP:
		return "root_integral"
	case SEARCH_ABANDONED:
		return "abandoned"
	}
	return "other"
}

// observers fans a decision out to several observers.
type observers []DecisionObserver

func (o observers) ProcessDecision(n Node, d Decision) {
	for _, obs := range o {
		obs.ProcessDecision(n, d)
	}
}
