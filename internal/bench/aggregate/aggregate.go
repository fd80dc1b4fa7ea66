// Package aggregate folds per-instance metrics into corpus-wide running
// statistics. Aggregation is over gaps and times, never raw lengths, so
// instances of very different scale remain comparable.
package aggregate

import (
	"fmt"
	"time"

	"github.com/jpjj/tsp-solver-comparison/internal/bench/runner"
	"github.com/jpjj/tsp-solver-comparison/internal/bench/stats"
)

// Aggregator accumulates one record per completed instance. It keeps
// running means only -- no per-instance history -- so memory stays flat
// across arbitrarily long corpus sweeps.
type Aggregator struct {
	solvers   []string
	perSolver map[string]*solverTotals
	instances int
}

type solverTotals struct {
	gap   stats.Running
	time  stats.Running // seconds
	solved  int
	failed  int
	skipped int
}

// Summary is one solver's corpus-wide view. MeanGap is nil when no
// instance contributed a defined gap. GapCount says how many did.
type Summary struct {
	Solver   string
	Solved   int
	Failed   int
	Skipped  int
	MeanGap  *float64
	GapCount int
	MeanTime time.Duration
}

func New(solverNames []string) *Aggregator {
	a := &Aggregator{
		solvers:   append([]string(nil), solverNames...),
		perSolver: make(map[string]*solverTotals, len(solverNames)),
	}
	for _, name := range solverNames {
		a.perSolver[name] = &solverTotals{}
	}
	return a
}

// Record folds one completed instance in. It must be called exactly once
// per instance, in processing order. A solver absent from metrics (or
// skipped) contributes nothing to its own aggregates and never
// contaminates the others'.
func (a *Aggregator) Record(instanceName string, dimension int, optimal float64, metrics map[string]*runner.SolverMetrics) error {
	for name := range metrics {
		if _, ok := a.perSolver[name]; !ok {
			return fmt.Errorf("instance %s reports undeclared solver %q", instanceName, name)
		}
	}
	a.instances++

	for _, name := range a.solvers {
		totals := a.perSolver[name]
		m, ok := metrics[name]
		switch {
		case !ok || m.Skipped:
			totals.skipped++
		case !m.Solved():
			totals.failed++
		default:
			totals.solved++
			totals.time.Add(m.AvgTime.Seconds())
			if m.Gap != nil {
				totals.gap.Add(*m.Gap)
			}
		}
	}
	return nil
}

// Instances returns how many records have been folded in so far.
func (a *Aggregator) Instances() int { return a.instances }

// Summarize is safe to call at any point during the run; each call sees
// every instance recorded so far.
func (a *Aggregator) Summarize() []Summary {
	summaries := make([]Summary, 0, len(a.solvers))
	for _, name := range a.solvers {
		totals := a.perSolver[name]
		s := Summary{
			Solver:   name,
			Solved:   totals.solved,
			Failed:   totals.failed,
			Skipped:  totals.skipped,
			GapCount: totals.gap.Count(),
		}
		if totals.time.Count() > 0 {
			s.MeanTime = time.Duration(totals.time.Mean() * float64(time.Second))
		}
		if totals.gap.Count() > 0 {
			g := totals.gap.Mean()
			s.MeanGap = &g
		}
		summaries = append(summaries, s)
	}
	return summaries
}
