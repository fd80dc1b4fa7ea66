package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jpjj/tsp-solver-comparison/internal/bench/corpus"
	"github.com/jpjj/tsp-solver-comparison/internal/bench/solver"
	"github.com/jpjj/tsp-solver-comparison/internal/bench/stats"
)

type Config struct {
	Repetitions int
	// ParallelSolvers runs the adapters for one instance concurrently.
	// Off by default: concurrent solvers contend for CPU and skew each
	// other's wall-clock timing. Repetitions of a single solver are never
	// parallelized.
	ParallelSolvers bool
}

// Runner executes every configured solver against one instance at a time.
// The budget is passed through to the adapter (and as a ctx deadline);
// the runner does not kill an adapter that ignores it. A stalled adapter
// stalls its repetition -- wrap such solvers in a supervised subprocess
// if hard enforcement is needed.
type Runner struct {
	config Config
}

func New(cfg Config) *Runner {
	if cfg.Repetitions <= 0 {
		cfg.Repetitions = 1
	}
	return &Runner{config: cfg}
}

// Execute runs all repetitions of every solver on one instance and folds
// each solver's attempts into metrics. Per-attempt failures are isolated:
// a crashing or misbehaving adapter never affects other repetitions,
// other solvers, or subsequent instances.
func (r *Runner) Execute(ctx context.Context, inst *corpus.Instance, solvers []solver.Configured) map[string]*SolverMetrics {
	results := make([]*SolverMetrics, len(solvers))

	if r.config.ParallelSolvers {
		g, gctx := errgroup.WithContext(ctx)
		for i, c := range solvers {
			g.Go(func() error {
				results[i] = r.runSolver(gctx, inst, c)
				return nil
			})
		}
		_ = g.Wait() // runSolver never returns an error; failures are recorded
	} else {
		for i, c := range solvers {
			results[i] = r.runSolver(ctx, inst, c)
		}
	}

	metrics := make(map[string]*SolverMetrics, len(results))
	for _, m := range results {
		metrics[m.Solver] = m
	}
	return metrics
}

func (r *Runner) runSolver(ctx context.Context, inst *corpus.Instance, c solver.Configured) *SolverMetrics {
	name := c.Adapter.Name()
	m := &SolverMetrics{Solver: name}

	if c.MaxDimension > 0 && inst.Dimension > c.MaxDimension {
		m.Skipped = true
		slog.Info("Solver skipped, instance exceeds its size limit",
			"instance", inst.Name, "solver", name, "dimension", inst.Dimension, "limit", c.MaxDimension)
		return m
	}

	budget := c.Budget.Resolve(inst.Dimension)
	slog.Info("Running solver",
		"instance", inst.Name, "solver", name, "budget", budget, "repetitions", r.config.Repetitions)
	for i := 0; i < r.config.Repetitions; i++ {
		length, elapsed, err := r.attempt(ctx, inst, c.Adapter, budget)
		if err != nil {
			m.Failures++
			slog.Warn("Solve attempt failed",
				"instance", inst.Name, "solver", name, "repetition", i, "error", err)
			continue
		}
		m.Lengths = append(m.Lengths, length)
		m.Times = append(m.Times, elapsed)
	}

	if m.Solved() {
		m.AvgLength = stats.Summarize(m.Lengths).Mean
		m.AvgTime = stats.MeanDuration(m.Times)
		m.Gap = OptimalityGap(m.AvgLength, inst.Optimal)
		slog.Info("Solver done",
			"instance", inst.Name, "solver", name, "avg_length", m.AvgLength, "avg_time", m.AvgTime)
	}
	return m
}

// attempt times a single adapter invocation and checks its tour. Panics
// inside an adapter are converted to failed attempts.
func (r *Runner) attempt(ctx context.Context, inst *corpus.Instance, a solver.Adapter, budget time.Duration) (length float64, elapsed time.Duration, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("solver panicked: %v", p)
		}
	}()

	actx := ctx
	if budget > 0 {
		var cancel context.CancelFunc
		actx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}

	start := time.Now()
	tour, err := a.Solve(actx, inst.Matrix, budget)
	elapsed = time.Since(start)
	if err != nil {
		return 0, elapsed, err
	}
	if err := ValidateTour(tour, inst.Dimension); err != nil {
		return 0, elapsed, err
	}
	return TourLength(inst.Matrix, tour), elapsed, nil
}

// TourLength is the canonical tour cost: the sum of consecutive cyclic
// edge weights. Every length and gap in the system derives from this one
// definition.
func TourLength(matrix [][]float64, tour solver.Tour) float64 {
	var sum float64
	n := len(tour)
	for i := 0; i < n; i++ {
		sum += matrix[tour[i]][tour[(i+1)%n]]
	}
	return sum
}

// ValidateTour enforces the permutation invariant: length n, indices in
// range, no repeats.
func ValidateTour(tour solver.Tour, n int) error {
	if len(tour) != n {
		return fmt.Errorf("invalid tour length %d (want %d)", len(tour), n)
	}
	seen := make([]bool, n)
	for _, v := range tour {
		if v < 0 || v >= n {
			return fmt.Errorf("tour node %d out of range [0,%d)", v, n)
		}
		if seen[v] {
			return fmt.Errorf("tour visits node %d twice", v)
		}
		seen[v] = true
	}
	return nil
}
