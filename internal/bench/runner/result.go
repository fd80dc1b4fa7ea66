package runner

import (
	"time"
)

// SolverMetrics is the outcome of one (instance, solver) pairing across
// all repetitions. Lengths and Times hold successful attempts only;
// averages are taken over those, never over failed repetitions. Gap is
// nil whenever the instance has no usable optimum.
type SolverMetrics struct {
	Solver string

	Lengths  []float64
	Times    []time.Duration
	Failures int

	// Skipped marks "no result": the solver was not run for this
	// instance at all (size limit), as opposed to running and failing.
	Skipped bool

	AvgLength float64
	AvgTime   time.Duration
	Gap       *float64
}

// Solved reports whether at least one repetition produced a valid tour.
// Averages of an unsolved metrics record are meaningless and stay zero;
// sinks must render the explicit no-success marker instead.
func (m *SolverMetrics) Solved() bool {
	return len(m.Lengths) > 0
}

// OptimalityGap is the percentage excess of avgLength over the known
// optimum, or nil when no positive optimum is available. A gap is never
// computed against a missing or non-positive denominator.
func OptimalityGap(avgLength, optimal float64) *float64 {
	if optimal <= 0 {
		return nil
	}
	g := (avgLength - optimal) / optimal * 100
	return &g
}
