package solver

import (
	"context"
	"time"
)

// Tour is an ordered visiting sequence over node indices 0..n-1, implicitly
// closed (the last node connects back to the first). A successful solve
// always returns a full permutation; failures are errors, never partial
// tours.
type Tour []int

// Adapter is the uniform boundary around one TSP solver. Solve is handed
// the normalized distance matrix and its resolved time budget; the budget
// also arrives as a deadline on ctx. Adapters must not mutate the matrix
// or any state visible outside the call.
type Adapter interface {
	Name() string
	Solve(ctx context.Context, matrix [][]float64, budget time.Duration) (Tour, error)
}

// Budget is a per-solver time allowance: a fixed number of seconds, or a
// factor scaled by instance dimension. Exactly one field is set.
type Budget struct {
	Seconds float64
	Factor  float64
}

// Resolve turns the budget into a concrete duration for one instance.
func (b Budget) Resolve(dimension int) time.Duration {
	seconds := b.Seconds
	if b.Factor > 0 {
		seconds = b.Factor * float64(dimension)
	}
	return time.Duration(seconds * float64(time.Second))
}

// Configured pairs an adapter with the harness-level settings that the
// executor, not the adapter, interprets.
type Configured struct {
	Adapter      Adapter
	Budget       Budget
	MaxDimension int // 0 = no size limit
}
