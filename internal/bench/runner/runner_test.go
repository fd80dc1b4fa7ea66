package runner

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpjj/tsp-solver-comparison/internal/bench/corpus"
	"github.com/jpjj/tsp-solver-comparison/internal/bench/solver"
)

// symMatrix is the reference symmetric instance; any 3-node cycle on it
// has length 45.
var symMatrix = [][]float64{
	{0, 10, 15},
	{10, 0, 20},
	{15, 20, 0},
}

// asymMatrix gives tour [0,1,2] length 10 and [0,2,1] length 12.
var asymMatrix = [][]float64{
	{0, 3, 4},
	{4, 0, 3},
	{4, 4, 0},
}

type fixedAdapter struct {
	name string
	tour solver.Tour
}

func (a *fixedAdapter) Name() string { return a.name }
func (a *fixedAdapter) Solve(context.Context, [][]float64, time.Duration) (solver.Tour, error) {
	return a.tour, nil
}

type failingAdapter struct {
	name string
}

func (a *failingAdapter) Name() string { return a.name }
func (a *failingAdapter) Solve(context.Context, [][]float64, time.Duration) (solver.Tour, error) {
	return nil, errors.New("solver exploded")
}

type panicAdapter struct {
	name string
}

func (a *panicAdapter) Name() string { return a.name }
func (a *panicAdapter) Solve(context.Context, [][]float64, time.Duration) (solver.Tour, error) {
	panic("index out of range")
}

// sequenceAdapter replays scripted outcomes, one per call.
type sequenceAdapter struct {
	name  string
	tours []solver.Tour
	errs  []error
	calls int
}

func (a *sequenceAdapter) Name() string { return a.name }
func (a *sequenceAdapter) Solve(context.Context, [][]float64, time.Duration) (solver.Tour, error) {
	i := a.calls
	a.calls++
	if a.errs[i] != nil {
		return nil, a.errs[i]
	}
	return a.tours[i], nil
}

func instance(name string, matrix [][]float64, optimal float64) *corpus.Instance {
	return &corpus.Instance{Name: name, Dimension: len(matrix), Matrix: matrix, Optimal: optimal}
}

func configured(a solver.Adapter) solver.Configured {
	return solver.Configured{Adapter: a, Budget: solver.Budget{Seconds: 1}}
}

func TestTourLengthRotationAndReversalInvariant(t *testing.T) {
	base := solver.Tour{0, 1, 2}
	rotated := solver.Tour{1, 2, 0}
	reversed := solver.Tour{2, 1, 0}

	want := TourLength(symMatrix, base)
	assert.Equal(t, 45.0, want)
	assert.Equal(t, want, TourLength(symMatrix, rotated))
	assert.Equal(t, want, TourLength(symMatrix, reversed))
}

func TestValidateTour(t *testing.T) {
	tests := []struct {
		name    string
		tour    solver.Tour
		n       int
		wantErr bool
	}{
		{"valid", solver.Tour{2, 0, 1}, 3, false},
		{"too short", solver.Tour{0, 1}, 3, true},
		{"too long", solver.Tour{0, 1, 2, 0}, 3, true},
		{"duplicate", solver.Tour{0, 1, 1}, 3, true},
		{"out of range high", solver.Tour{0, 1, 3}, 3, true},
		{"out of range negative", solver.Tour{0, -1, 2}, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTour(tt.tour, tt.n)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestExecuteGapArithmetic(t *testing.T) {
	r := New(Config{Repetitions: 1})
	inst := instance("tri", symMatrix, 40)

	metrics := r.Execute(context.Background(), inst, []solver.Configured{
		configured(&fixedAdapter{name: "exact", tour: solver.Tour{0, 1, 2}}),
	})

	m := metrics["exact"]
	require.True(t, m.Solved())
	assert.Equal(t, 45.0, m.AvgLength)
	require.NotNil(t, m.Gap)
	// (45 - 40) / 40 * 100
	assert.InDelta(t, 12.5, *m.Gap, 1e-12)
}

func TestExecuteZeroGapAtOptimum(t *testing.T) {
	r := New(Config{Repetitions: 1})
	inst := instance("tri", symMatrix, 45)

	metrics := r.Execute(context.Background(), inst, []solver.Configured{
		configured(&fixedAdapter{name: "exact", tour: solver.Tour{1, 0, 2}}),
	})

	m := metrics["exact"]
	require.NotNil(t, m.Gap)
	assert.InDelta(t, 0.0, *m.Gap, 1e-12)
}

func TestExecuteNoGapWithoutOptimum(t *testing.T) {
	r := New(Config{Repetitions: 1})
	inst := instance("tri", symMatrix, 0)

	metrics := r.Execute(context.Background(), inst, []solver.Configured{
		configured(&fixedAdapter{name: "exact", tour: solver.Tour{0, 1, 2}}),
	})

	assert.Nil(t, metrics["exact"].Gap)
}

func TestExecuteAveragesOverSuccessesOnly(t *testing.T) {
	r := New(Config{Repetitions: 3})
	inst := instance("asym", asymMatrix, 0)

	adapter := &sequenceAdapter{
		name:  "flaky",
		tours: []solver.Tour{{0, 1, 2}, {0, 2, 1}, nil},
		errs:  []error{nil, nil, errors.New("timeout")},
	}

	metrics := r.Execute(context.Background(), inst, []solver.Configured{configured(adapter)})

	m := metrics["flaky"]
	require.True(t, m.Solved())
	assert.Equal(t, []float64{10, 12}, m.Lengths)
	assert.Equal(t, 1, m.Failures)
	// 11, not 22/3: failed repetitions never count as zero.
	assert.InDelta(t, 11.0, m.AvgLength, 1e-12)
}

func TestExecuteIsolatesFailingSolver(t *testing.T) {
	r := New(Config{Repetitions: 2})
	inst := instance("tri", symMatrix, 45)

	solvers := []solver.Configured{
		configured(&failingAdapter{name: "broken"}),
		configured(&panicAdapter{name: "panicky"}),
		configured(&fixedAdapter{name: "good", tour: solver.Tour{0, 1, 2}}),
	}

	metrics := r.Execute(context.Background(), inst, solvers)

	broken := metrics["broken"]
	assert.False(t, broken.Solved())
	assert.False(t, broken.Skipped)
	assert.Equal(t, 2, broken.Failures)
	assert.Empty(t, broken.Lengths)
	assert.Nil(t, broken.Gap)

	panicky := metrics["panicky"]
	assert.False(t, panicky.Solved())
	assert.Equal(t, 2, panicky.Failures)

	good := metrics["good"]
	require.True(t, good.Solved())
	assert.Equal(t, 45.0, good.AvgLength)

	// The next instance is unaffected.
	next := r.Execute(context.Background(), instance("tri2", symMatrix, 45), solvers)
	assert.True(t, next["good"].Solved())
}

func TestExecuteRejectsInvalidTours(t *testing.T) {
	r := New(Config{Repetitions: 1})
	inst := instance("tri", symMatrix, 45)

	solvers := []solver.Configured{
		configured(&fixedAdapter{name: "short", tour: solver.Tour{0, 1}}),
		configured(&fixedAdapter{name: "dup", tour: solver.Tour{0, 1, 1}}),
		configured(&fixedAdapter{name: "range", tour: solver.Tour{0, 1, 99}}),
	}

	metrics := r.Execute(context.Background(), inst, solvers)

	for _, name := range []string{"short", "dup", "range"} {
		m := metrics[name]
		assert.False(t, m.Solved(), name)
		assert.Equal(t, 1, m.Failures, name)
	}
}

func TestExecuteSkipsOversizedInstance(t *testing.T) {
	r := New(Config{Repetitions: 1})
	inst := instance("tri", symMatrix, 45)

	c := configured(&fixedAdapter{name: "limited", tour: solver.Tour{0, 1, 2}})
	c.MaxDimension = 2

	metrics := r.Execute(context.Background(), inst, []solver.Configured{c})

	m := metrics["limited"]
	assert.True(t, m.Skipped)
	assert.False(t, m.Solved())
	assert.Zero(t, m.Failures)
}

func TestExecuteDeterministicRepetitions(t *testing.T) {
	r := New(Config{Repetitions: 3})
	inst := instance("tri", symMatrix, 45)

	metrics := r.Execute(context.Background(), inst, []solver.Configured{
		configured(&fixedAdapter{name: "det", tour: solver.Tour{0, 1, 2}}),
	})

	m := metrics["det"]
	require.Len(t, m.Lengths, 3)
	for _, l := range m.Lengths {
		assert.Equal(t, 45.0, l)
	}
	assert.Equal(t, 45.0, m.AvgLength)
}

func TestExecuteParallelMatchesSequential(t *testing.T) {
	inst := instance("tri", symMatrix, 45)
	solvers := []solver.Configured{
		configured(&fixedAdapter{name: "a", tour: solver.Tour{0, 1, 2}}),
		configured(&failingAdapter{name: "b"}),
		configured(&fixedAdapter{name: "c", tour: solver.Tour{2, 0, 1}}),
	}

	seq := New(Config{Repetitions: 2}).Execute(context.Background(), inst, solvers)
	par := New(Config{Repetitions: 2, ParallelSolvers: true}).Execute(context.Background(), inst, solvers)

	require.Len(t, par, len(seq))
	for name, sm := range seq {
		pm := par[name]
		require.NotNil(t, pm, name)
		assert.Equal(t, sm.Lengths, pm.Lengths, name)
		assert.Equal(t, sm.Failures, pm.Failures, name)
		assert.Equal(t, sm.AvgLength, pm.AvgLength, name)
	}
}

func TestExecuteLogsSolverProgress(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	inst := instance("tri", symMatrix, 45)
	New(Config{Repetitions: 1}).Execute(context.Background(), inst,
		[]solver.Configured{configured(&fixedAdapter{name: "a", tour: solver.Tour{0, 1, 2}})})

	out := buf.String()
	assert.Contains(t, out, "Running solver")
	assert.Contains(t, out, "Solver done")
	assert.Contains(t, out, "solver=a")
	assert.Contains(t, out, "instance=tri")
}

func TestOptimalityGap(t *testing.T) {
	assert.Nil(t, OptimalityGap(100, 0))
	assert.Nil(t, OptimalityGap(100, -1))

	g := OptimalityGap(110, 100)
	require.NotNil(t, g)
	assert.InDelta(t, 10.0, *g, 1e-12)
}
