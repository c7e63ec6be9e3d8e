package ilp

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// Decision is what the search did with one solved node.
type Decision string

const (
	SUBPROBLEM_IS_DEGENERATE        Decision = "subproblem contains a degenerate (singular) matrix"
	SUBPROBLEM_NOT_FEASIBLE         Decision = "subproblem has no feasible solution"
	SUBPROBLEM_SOLVER_FAILED        Decision = "subproblem could not be solved"
	WORSE_THAN_INCUMBENT            Decision = "worse than incumbent"
	BETTER_THAN_INCUMBENT_BRANCHING Decision = "better than incumbent but not integer feasible, so branching"
	BETTER_THAN_INCUMBENT_FEASIBLE  Decision = "better than incumbent and integer feasible, so replacing incumbent"
	INITIAL_RELAXATION_NOT_FEASIBLE Decision = "initial relaxation is not feasible"
	INITIAL_RX_FEASIBLE_FOR_IP      Decision = "initial relaxation is feasible for IP"
	SEARCH_ABANDONED                Decision = "search abandoned, not branching"
)

// simplex failures that only prune the node
var prunedBy = map[error]Decision{
	lp.ErrInfeasible: SUBPROBLEM_NOT_FEASIBLE,
	lp.ErrSingular:   SUBPROBLEM_IS_DEGENERATE,
}

// enumerationTree runs the branch-and-bound search. Nodes flow from the checker
// through an unbounded queue (the pump) to the solve workers, and solved nodes
// flow back to the single checker, which owns the incumbent.
type enumerationTree struct {
	ctx  context.Context
	root subProblem

	queue   chan subProblem // checker -> pump
	work    chan subProblem // pump -> workers
	results chan solution   // workers -> checker

	// nodes queued, being solved or being checked
	pending sync.WaitGroup

	observer DecisionObserver

	// 0 means no limit
	maxNodes int64
	nodes    atomic.Int64
	lastID   atomic.Int64

	abandoned atomic.Bool

	// owned by the checker
	incumbent *solution
	err       error
}

func newEnumerationTree(ctx context.Context, root subProblem, observer DecisionObserver, maxNodes int64) *enumerationTree {
	if observer == nil {
		observer = noopObserver{}
	}
	// unbuffered; the pump does the buffering
	return &enumerationTree{
		ctx:      ctx,
		root:     root,
		queue:    make(chan subProblem),
		work:     make(chan subProblem),
		results:  make(chan solution),
		observer: observer,
		maxNodes: maxNodes,
	}
}

func (t *enumerationTree) nextID() int64 {
	return t.lastID.Add(1)
}

// search returns the best integer feasible solution found, nil if there is none.
// abandoned reports whether the search stopped before the tree was exhausted.
func (t *enumerationTree) search(workers int) (best *solution, abandoned bool, err error) {
	rx := t.root.solve()
	t.nodes.Add(1)
	switch {
	case rx.err == lp.ErrInfeasible:
		t.observer.ProcessDecision(newNode(rx), INITIAL_RELAXATION_NOT_FEASIBLE)
		return nil, false, nil
	case rx.err == lp.ErrUnbounded:
		return nil, false, ErrUnbounded
	case rx.err != nil:
		return nil, false, errors.Wrapf(ErrSolverFailure, "initial relaxation: %v", rx.err)
	case integral(t.root.integer, rx.x):
		t.observer.ProcessDecision(newNode(rx), INITIAL_RX_FEASIBLE_FOR_IP)
		return &rx, false, nil
	}

	go t.pump()
	go t.checker()
	for w := 0; w < max(workers, 1); w++ {
		go t.worker()
	}

	// the root goes through the checker like every other node, which branches it
	t.submit(rx)
	t.pending.Wait()
	close(t.queue)

	if t.err != nil {
		return nil, true, t.err
	}
	return t.incumbent, t.abandoned.Load(), nil
}

func (t *enumerationTree) submit(s solution) {
	t.pending.Add(1)
	t.results <- s
}

func (t *enumerationTree) enqueue(nodes ...subProblem) {
	for _, n := range nodes {
		t.pending.Add(1)
		t.queue <- n
	}
}

// pump moves nodes from queue to work through a slice, so the checker never blocks
// on busy workers. It closes work and results once queue is closed.
func (t *enumerationTree) pump() {
	var fifo []subProblem
	for {
		// a nil channel is never selected, which disables the send while fifo is empty
		var out chan subProblem
		var head subProblem
		if len(fifo) > 0 {
			out, head = t.work, fifo[0]
		}

		select {
		case n, ok := <-t.queue:
			if !ok {
				close(t.work)
				close(t.results)
				return
			}
			fifo = append(fifo, n)
		case out <- head:
			fifo = fifo[1:]
		}
	}
}

func (t *enumerationTree) worker() {
	for n := range t.work {
		// drain without solving once the search is abandoned
		if !t.abandoned.Load() {
			s := n.solve()
			t.nodes.Add(1)
			t.submit(s)
		}
		t.pending.Done()
	}
}

// stop reports whether the search must stop branching, and latches the answer.
func (t *enumerationTree) stop() bool {
	if t.abandoned.Load() {
		return true
	}
	if t.ctx.Err() != nil || (t.maxNodes > 0 && t.nodes.Load() >= t.maxNodes) {
		t.abandoned.Store(true)
		return true
	}
	return false
}

// checker decides the fate of every solved node. The objective is minimized.
func (t *enumerationTree) checker() {
	for s := range t.results {
		bound := math.Inf(1)
		if t.incumbent != nil {
			bound = t.incumbent.z
		}

		var d Decision
		switch {
		case s.err != nil:
			d = t.classifyFailure(s.err)
		case s.z >= bound-feasibilityTol:
			d = WORSE_THAN_INCUMBENT
		case integral(t.root.integer, s.x):
			inc := s
			t.incumbent = &inc
			d = BETTER_THAN_INCUMBENT_FEASIBLE
		case t.stop():
			d = SEARCH_ABANDONED
		default:
			d = BETTER_THAN_INCUMBENT_BRANCHING
			t.enqueue(s.branch(t.nextID))
		}

		t.observer.ProcessDecision(newNode(s), d)
		t.pending.Done()
	}
}

// classifyFailure maps a simplex failure that prunes the node to its decision. Any
// other failure is kept as the search error and abandons the search.
func (t *enumerationTree) classifyFailure(err error) Decision {
	if d, ok := prunedBy[err]; ok {
		return d
	}
	if t.err == nil {
		t.err = errors.Wrapf(ErrSolverFailure, "subproblem relaxation: %v", err)
	}
	t.abandoned.Store(true)
	return SUBPROBLEM_SOLVER_FAILED
}

// integral reports whether every integer variable of x is integral.
func integral(integer []bool, x []float64) bool {
	if len(integer) != len(x) {
		panic(fmt.Sprintf("ilp: %d integrality flags for %d values", len(integer), len(x)))
	}
	for j, v := range x {
		if integer[j] && isFractional(v) {
			return false
		}
	}
	return true
}
