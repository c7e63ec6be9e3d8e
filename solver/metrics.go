package solver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	oracleCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "les",
		Subsystem: "solver",
		Name:      "oracle_calls_total",
		Help:      "Restricted block problems handed to the oracle, by result status.",
	}, []string{"status"})

	blocksSolved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "les",
		Subsystem: "solver",
		Name:      "blocks_solved_total",
		Help:      "Blocks whose separator assignments were all enumerated.",
	})

	blockSolveDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "les",
		Subsystem: "solver",
		Name:      "block_solve_duration_seconds",
		Help:      "Time spent enumerating the separator assignments of one block.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
	})

	chainSolves = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "les",
		Subsystem: "solver",
		Name:      "chain_solves_total",
		Help:      "Chain solves, by outcome.",
	}, []string{"outcome"})
)
