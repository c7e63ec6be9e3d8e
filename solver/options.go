package solver

import (
	"log/slog"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/robionica/les/decomposition"
	"github.com/robionica/les/ilp"
)

type options struct {
	workers    int
	oracle     ilp.Oracle
	logger     *slog.Logger
	tracer     trace.Tracer
	decompOpts []decomposition.Option
}

// Option configures SolveChain and SolveProblem.
type Option func(*options)

func newOptions(opts []Option) options {
	o := options{
		workers: runtime.GOMAXPROCS(0),
		logger:  slog.Default(),
		tracer:  otel.Tracer("github.com/robionica/les/solver"),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.oracle == nil {
		o.oracle = ilp.NewBranchAndBound()
	}
	if o.workers < 1 {
		o.workers = 1
	}
	return o
}

// WithWorkers sets the number of blocks solved concurrently. Defaults to GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithOracle sets the solver of the restricted block problems.
// Defaults to a branch-and-bound oracle.
func WithOracle(oracle ilp.Oracle) Option {
	return func(o *options) { o.oracle = oracle }
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(o *options) {
		if t != nil {
			o.tracer = t
		}
	}
}

// WithDecomposition passes options to the decomposition done by SolveProblem.
// Seeds are chosen per component and override any WithSeed given here.
func WithDecomposition(opts ...decomposition.Option) Option {
	return func(o *options) { o.decompOpts = append(o.decompOpts, opts...) }
}
