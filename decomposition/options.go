package decomposition

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type options struct {
	seed             []int
	maxSeparatorSize int
	mergeEmptyBlocks bool
	tolerateStray    bool
	logger           *slog.Logger
	tracer           trace.Tracer
}

// Option configures Decompose, Materialize and DecomposeByBlocks.
type Option func(*options)

func defaultOptions() options {
	return options{
		seed:             []int{0},
		mergeEmptyBlocks: true,
		logger:           slog.Default(),
		tracer:           otel.Tracer("github.com/robionica/les/decomposition"),
	}
}

func newOptions(opts []Option) options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithSeed sets the columns the closure expansion starts from. Defaults to column 0.
func WithSeed(cols ...int) Option {
	return func(o *options) { o.seed = append([]int(nil), cols...) }
}

// WithMaxSeparatorSize bounds the number of columns in any separator.
// Adjacent row layers are merged until the bound holds. Zero means unbounded.
func WithMaxSeparatorSize(n int) Option {
	return func(o *options) { o.maxSeparatorSize = n }
}

// WithMergeEmptyBlocks folds blocks without private columns into their left neighbour.
// Enabled by default.
func WithMergeEmptyBlocks(merge bool) Option {
	return func(o *options) { o.mergeEmptyBlocks = merge }
}

// WithTolerateStrayEntries makes Materialize drop, rather than reject, row entries
// whose column lies outside the block's column sets.
func WithTolerateStrayEntries(tolerate bool) Option {
	return func(o *options) { o.tolerateStray = tolerate }
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
