// Package batch solves many load cases against one assembled model using a
// pool of workers, each owning a clone of the solver.
package batch

import (
	"context"
	"fmt"
	"github.com/notargets/cstfem/fem"
	"github.com/notargets/cstfem/model"
	"golang.org/x/sync/errgroup"
	"io"
	"log/slog"
	"runtime"
)

type Config struct {
	Workers  int
	Strategy Strategy
	Logger   *slog.Logger
}

// DefaultConfig uses one worker per CPU and block partitioning
func DefaultConfig() Config {
	return Config{Workers: runtime.NumCPU(), Strategy: BlockPartition}
}

// Case is one force vector to solve
type Case struct {
	Name   string
	Forces model.Vector
}

// Result holds the outcome of one case. A failed solve sets Err and leaves
// the other cases unaffected.
type Result struct {
	Case     string
	Solution *fem.Solution
	Err      error
}

// Run solves every case and returns the results in input order. The context
// is checked before each case; cancellation aborts the whole batch.
func Run(ctx context.Context, s *fem.Solver, cases []Case, cfg Config) ([]Result, error) {
	if s.State() < fem.Rearranged {
		return nil, fmt.Errorf("batch in solver state %v: %w", s.State(), fem.ErrState)
	}
	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	layout, err := NewLayout(len(cases), cfg.Workers, cfg.Strategy)
	if err != nil {
		return nil, err
	}
	stats := layout.Statistics()
	log.Debug("batch layout", "cases", len(cases), "workers", stats.NumPartitions,
		"strategy", cfg.Strategy, "imbalance", stats.Imbalance)

	results := make([]Result, len(cases))
	g, gctx := errgroup.WithContext(ctx)
	for _, p := range layout.Partitions {
		worker := s.Clone()
		g.Go(func() error {
			for _, c := range p.Cases {
				if err := gctx.Err(); err != nil {
					return err
				}
				sol, err := worker.Solve(cases[c].Forces)
				results[c] = Result{Case: cases[c].Name, Solution: sol, Err: err}
				if err != nil {
					log.Warn("case failed", "case", cases[c].Name, "partition", p.ID, "error", err)
				}
			}
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, fmt.Errorf("batch aborted: %w", err)
	}
	return results, nil
}
