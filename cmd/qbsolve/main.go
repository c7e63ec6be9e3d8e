// The qbsolve command generates a quasi-block binary program, decomposes it into
// a chain of blocks and solves the chain block by block.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/robionica/les/decomposition"
	"github.com/robionica/les/ilp"
	"github.com/robionica/les/milp"
	"github.com/robionica/les/solver"
)

var (
	blocks       = flag.Int("blocks", 3, "number of row groups in the generated chain")
	width        = flag.Int("width", 4, "columns per row group, bridge included")
	height       = flag.Int("height", milp.DefaultBlockHeight, "rows per row group")
	bridge       = flag.Int("bridge", milp.DefaultBridgeSize, "columns shared by neighbouring row groups")
	seed         = flag.Int64("seed", 1, "generator seed")
	maxSeparator = flag.Int("max-separator", 0, "largest separator kept before layers are merged, 0 for no bound")
	workers      = flag.Int("workers", 0, "blocks solved concurrently, 0 for GOMAXPROCS")
	oracleName   = flag.String("oracle", "bnb", "block oracle: bnb or highs")
	nodeLimit    = flag.Int64("node-limit", 0, "branch-and-bound node limit per oracle call, 0 for none")
	timeout      = flag.Duration("timeout", 0, "overall time limit, 0 for none")
	verify       = flag.Bool("verify", false, "compare against exhaustive enumeration (at most 24 columns)")
	metrics      = flag.Bool("metrics", false, "print the collected metrics on exit")
	debug        = flag.Bool("debug", false, "log decomposition and block progress")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	if err := run(); err != nil {
		glog.Exitf("qbsolve: %v", err)
	}
}

func run() error {
	level := slog.LevelWarn
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	oracle, err := newOracle(*oracleName)
	if err != nil {
		return err
	}

	p, err := milp.Generate(milp.GeneratorConfig{
		Blocks:      *blocks,
		BlockWidth:  *width,
		BlockHeight: *height,
		BridgeSize:  *bridge,
		Seed:        *seed,
	})
	if err != nil {
		return err
	}
	glog.Infof("generated %d rows, %d columns", p.NumRows(), p.NumCols())

	chain, err := decomposition.DecomposeContext(ctx, p,
		decomposition.WithMaxSeparatorSize(*maxSeparator),
		decomposition.WithLogger(logger),
	)
	if err != nil {
		return err
	}
	fmt.Println(chain)

	bs, err := decomposition.Materialize(p, chain, decomposition.WithLogger(logger))
	if err != nil {
		return err
	}
	for _, b := range bs {
		fmt.Println(b)
	}

	opts := []solver.Option{solver.WithOracle(oracle), solver.WithLogger(logger)}
	if *workers > 0 {
		opts = append(opts, solver.WithWorkers(*workers))
	}
	start := time.Now()
	sol, err := solver.SolveChain(ctx, bs, opts...)
	if err != nil {
		return err
	}
	fmt.Printf("objective %g in %v\n", sol.Objective, time.Since(start))
	fmt.Printf("x = %v\n", sol.Values)

	if *verify {
		if err := check(p, sol); err != nil {
			return err
		}
	}
	if *metrics {
		return dumpMetrics()
	}
	return nil
}

func newOracle(name string) (ilp.Oracle, error) {
	switch name {
	case "bnb":
		var opts []ilp.BranchAndBoundOption
		if *nodeLimit > 0 {
			opts = append(opts, ilp.WithMaxNodes(*nodeLimit))
		}
		return ilp.NewBranchAndBound(opts...), nil
	case "highs":
		if o, ok := highsOracle(); ok {
			return o, nil
		}
		return nil, errors.New("the highs oracle is not available on this platform")
	}
	return nil, errors.Errorf("unknown oracle %q", name)
}

func check(p *milp.Problem, sol solver.Solution) error {
	cols := make([]int, p.NumCols())
	for j := range cols {
		cols[j] = j
	}
	z, _, ok, err := milp.BruteForce(p, cols)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("verify: enumeration found no feasible assignment")
	}
	if !p.Feasible(sol.Values, 1e-6) {
		return errors.New("verify: chain solution violates a row")
	}
	if d := z - sol.Objective; d > 1e-6 || d < -1e-6 {
		return errors.Errorf("verify: enumeration optimum %g, chain optimum %g", z, sol.Objective)
	}
	glog.Infof("verified against %d assignments", uint64(1)<<len(cols))
	return nil
}

func dumpMetrics() error {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(os.Stdout, mf); err != nil {
			return err
		}
	}
	return nil
}
