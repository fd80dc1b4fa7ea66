// Package sink persists benchmark rows as the run progresses. Every sink
// writes each row durably before returning, so a crash loses at most the
// in-flight instance. Sink errors are fatal to the run by contract:
// results are the entire point of a benchmark.
package sink

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jpjj/tsp-solver-comparison/internal/bench/runner"
)

var (
	ErrNotInitialized     = errors.New("sink: append before initialize")
	ErrAlreadyInitialized = errors.New("sink: schema already declared")
)

// Row is one completed instance. Optimal follows the corpus convention:
// 0 means unknown, and is serialized as an explicit empty/null marker,
// never as a number.
type Row struct {
	Instance  string
	Dimension int
	Optimal   float64
	Metrics   map[string]*runner.SolverMetrics
}

// Sink receives the fixed solver schema once, then rows in corpus order.
// Adding a solver after Initialize is unsupported: AppendRow fails fast
// on any row mentioning an undeclared solver.
type Sink interface {
	Initialize(solverNames []string) error
	AppendRow(row Row) error
	Finalize() error
}

func checkRow(declared map[string]bool, row Row) error {
	for name := range row.Metrics {
		if !declared[name] {
			return fmt.Errorf("sink: row for %s reports undeclared solver %q", row.Instance, name)
		}
	}
	return nil
}

func declaredSet(solverNames []string) map[string]bool {
	set := make(map[string]bool, len(solverNames))
	for _, name := range solverNames {
		set[name] = true
	}
	return set
}

// All sinks format through these helpers, so the tabular and narrative
// outputs can never drift apart: lengths and gaps carry 2 decimals,
// times 4.

func formatLength(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatTime(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 4, 64)
}

// formatGap renders an absent gap as the empty string. Never a zero: a
// missing optimum must not read as a perfect solve.
func formatGap(g *float64) string {
	if g == nil {
		return ""
	}
	return strconv.FormatFloat(*g, 'f', 2, 64)
}

func formatOptimal(optimal float64) string {
	if optimal <= 0 {
		return ""
	}
	return formatLength(optimal)
}
