package commands

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/binarytree/pkg/avl"
	"github.com/Sumatoshi-tech/binarytree/pkg/observability"
	"github.com/Sumatoshi-tech/binarytree/pkg/render"
)

const (
	// ctxCheckInterval is how many workload rounds run between cancellation checks.
	ctxCheckInterval = 1024

	serverReadHeaderTimeout = 5 * time.Second
	serverShutdownTimeout   = 5 * time.Second
)

type benchOptions struct {
	items       int
	seed        int64
	metricsAddr string
	hold        bool
}

func (a *app) benchCommand() *cobra.Command {
	var opts benchOptions

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Run a random insert/remove workload",
		Long: `Insert random keys, removing and locating others along the way, then
verify the tree's invariants. Operation counts and durations are recorded as
metrics: with --metrics-addr they are served at /metrics, otherwise they are
printed in the Prometheus text format when the run ends.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("items") {
				opts.items = a.cfg.Bench.Items
			}

			if !cmd.Flags().Changed("seed") {
				opts.seed = a.cfg.Bench.Seed
			}

			if opts.metricsAddr == "" {
				opts.metricsAddr = a.cfg.Telemetry.MetricsAddr
			}

			return a.runBench(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.items, "items", 0, "number of insert rounds (default from config)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed (default from config)")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "serve /metrics on this address while running")
	cmd.Flags().BoolVar(&opts.hold, "hold", false, "keep serving /metrics after the run until interrupted")

	return cmd
}

func (a *app) runBench(cmd *cobra.Command, opts benchOptions) error {
	ctx := cmd.Context()

	exporter, err := observability.NewPrometheusExporter()
	if err != nil {
		return err
	}

	metrics, err := observability.NewTreeMetrics(exporter.MeterProvider.Meter("binarytree"))
	if err != nil {
		return err
	}

	if opts.metricsAddr != "" {
		stop, serveErr := a.serveMetrics(opts.metricsAddr, exporter.Handler)
		if serveErr != nil {
			return serveErr
		}
		defer stop()
	}

	ctx, span := a.providers.Tracer.Start(ctx, "binarytree.bench")
	defer span.End()

	start := time.Now()

	tree, ops, err := runWorkload(ctx, opts, a.cfg.Tree.MaxDepth, metrics)
	if err != nil {
		return err
	}

	elapsed := max(time.Since(start), time.Nanosecond)

	err = tree.Check()
	if err != nil {
		return err
	}

	a.logger.InfoContext(ctx, "bench finished", "ops", ops, "elapsed", elapsed, "size", tree.Len())

	out := cmd.OutOrStdout()

	if !a.quiet {
		fmt.Fprintln(out, render.Summary(tree))
		fmt.Fprintf(out, "%s operations in %s (%s ops/s)\n",
			humanize.Comma(int64(ops)), elapsed.Round(time.Microsecond), humanize.Comma(int64(float64(ops)/elapsed.Seconds())))
	}

	if opts.metricsAddr == "" {
		if !a.quiet {
			return exporter.WriteText(out)
		}

		return nil
	}

	if opts.hold {
		a.logger.InfoContext(ctx, "holding metrics endpoint, interrupt to exit", "addr", opts.metricsAddr)
		<-ctx.Done()
	}

	return nil
}

// runWorkload performs opts.items rounds. Each round inserts a random key,
// locates another and, on odd rounds, removes a third.
func runWorkload(
	ctx context.Context, opts benchOptions, maxDepth int, metrics *observability.TreeMetrics,
) (*avl.Tree[int64], int, error) {
	tree := avl.New[int64](avl.WithMaxDepth(maxDepth))
	rng := rand.New(rand.NewPCG(uint64(opts.seed), uint64(opts.seed))) //nolint:gosec // reproducible workload.
	keySpace := int64(max(opts.items, 1)) * 2
	before := tree.Stats()
	ops := 0

	defer func() { metrics.RecordStats(ctx, before, tree.Stats()) }()

	for round := range opts.items {
		if round%ctxCheckInterval == 0 {
			err := ctx.Err()
			if err != nil {
				return nil, ops, fmt.Errorf("bench interrupted: %w", err)
			}
		}

		start := time.Now()
		inserted, err := tree.Insert(rng.Int64N(keySpace))
		metrics.RecordOp(ctx, "insert", opStatus(inserted, err), time.Since(start))
		ops++

		if err != nil {
			return nil, ops, err
		}

		start = time.Now()
		_, found, err := tree.Locate(rng.Int64N(keySpace))
		metrics.RecordOp(ctx, "locate", opStatus(found, err), time.Since(start))
		ops++

		if err != nil {
			return nil, ops, err
		}

		if round%2 == 1 {
			start = time.Now()
			removed, removeErr := tree.Remove(rng.Int64N(keySpace))
			metrics.RecordOp(ctx, "remove", opStatus(removed, removeErr), time.Since(start))
			ops++

			if removeErr != nil {
				return nil, ops, removeErr
			}
		}
	}

	return tree, ops, nil
}

func opStatus(hit bool, err error) string {
	switch {
	case err != nil:
		return observability.StatusError
	case hit:
		return observability.StatusOK
	default:
		return observability.StatusMiss
	}
}

// serveMetrics starts a /metrics server in the background and returns a
// function that shuts it down.
func (a *app) serveMetrics(addr string, handler http.Handler) (func(), error) {
	var lc net.ListenConfig

	ln, err := lc.Listen(context.Background(), "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	srv := &http.Server{
		Handler:           observability.HTTPMiddleware(a.providers.Tracer, a.logger, mux),
		ReadHeaderTimeout: serverReadHeaderTimeout,
	}

	go func() {
		serveErr := srv.Serve(ln)
		if serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", "error", serveErr)
		}
	}()

	a.logger.Info("serving metrics", "addr", ln.Addr().String())

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
		defer cancel()

		shutdownErr := srv.Shutdown(ctx)
		if shutdownErr != nil {
			a.logger.Warn("metrics server shutdown failed", "error", shutdownErr)
		}
	}, nil
}
