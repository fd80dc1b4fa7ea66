package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpjj/tsp-solver-comparison/internal/bench/runner"
)

func solvedMetrics(name string, gap float64, avgTime time.Duration) *runner.SolverMetrics {
	return &runner.SolverMetrics{
		Solver:    name,
		Lengths:   []float64{1},
		Times:     []time.Duration{avgTime},
		AvgLength: 1,
		AvgTime:   avgTime,
		Gap:       &gap,
	}
}

func failedMetrics(name string) *runner.SolverMetrics {
	return &runner.SolverMetrics{Solver: name, Failures: 1}
}

func skippedMetrics(name string) *runner.SolverMetrics {
	return &runner.SolverMetrics{Solver: name, Skipped: true}
}

func TestSummarizeMeansAcrossInstances(t *testing.T) {
	a := New([]string{"nn"})

	require.NoError(t, a.Record("i1", 10, 100, map[string]*runner.SolverMetrics{
		"nn": solvedMetrics("nn", 10, 100*time.Millisecond),
	}))
	require.NoError(t, a.Record("i2", 500, 200, map[string]*runner.SolverMetrics{
		"nn": solvedMetrics("nn", 20, 300*time.Millisecond),
	}))

	s := a.Summarize()
	require.Len(t, s, 1)
	assert.Equal(t, 2, s[0].Solved)
	assert.Equal(t, 2, s[0].GapCount)
	require.NotNil(t, s[0].MeanGap)
	assert.InDelta(t, 15.0, *s[0].MeanGap, 1e-9)
	assert.InDelta(t, 0.2, s[0].MeanTime.Seconds(), 1e-9)
	assert.Equal(t, 2, a.Instances())
}

func TestAbsentSolverDoesNotContaminate(t *testing.T) {
	a := New([]string{"nn", "big_only"})

	require.NoError(t, a.Record("small", 5, 50, map[string]*runner.SolverMetrics{
		"nn":       solvedMetrics("nn", 0, time.Millisecond),
		"big_only": skippedMetrics("big_only"),
	}))
	// big_only missing entirely counts as skipped too.
	require.NoError(t, a.Record("tiny", 3, 30, map[string]*runner.SolverMetrics{
		"nn": solvedMetrics("nn", 2, time.Millisecond),
	}))

	s := a.Summarize()
	byName := map[string]Summary{}
	for _, e := range s {
		byName[e.Solver] = e
	}

	assert.Equal(t, 2, byName["nn"].Solved)
	require.NotNil(t, byName["nn"].MeanGap)
	assert.InDelta(t, 1.0, *byName["nn"].MeanGap, 1e-9)

	assert.Equal(t, 0, byName["big_only"].Solved)
	assert.Equal(t, 2, byName["big_only"].Skipped)
	assert.Nil(t, byName["big_only"].MeanGap)
}

func TestFailedSolverHasNoMeanGap(t *testing.T) {
	a := New([]string{"broken"})
	require.NoError(t, a.Record("i1", 5, 50, map[string]*runner.SolverMetrics{
		"broken": failedMetrics("broken"),
	}))

	s := a.Summarize()
	assert.Equal(t, 1, s[0].Failed)
	assert.Nil(t, s[0].MeanGap)
	assert.Zero(t, s[0].MeanTime)
}

func TestSolvedWithoutOptimumCountsTimeOnly(t *testing.T) {
	a := New([]string{"nn"})
	m := solvedMetrics("nn", 0, 100*time.Millisecond)
	m.Gap = nil
	require.NoError(t, a.Record("i1", 5, 0, map[string]*runner.SolverMetrics{"nn": m}))

	s := a.Summarize()
	assert.Equal(t, 1, s[0].Solved)
	assert.Equal(t, 0, s[0].GapCount)
	assert.Nil(t, s[0].MeanGap)
	assert.InDelta(t, 0.1, s[0].MeanTime.Seconds(), 1e-9)
}

func TestSummarizeIsMonotonic(t *testing.T) {
	a := New([]string{"nn"})

	require.NoError(t, a.Record("i1", 5, 50, map[string]*runner.SolverMetrics{
		"nn": solvedMetrics("nn", 10, time.Millisecond),
	}))
	first := a.Summarize()
	assert.Equal(t, 1, first[0].Solved)

	require.NoError(t, a.Record("i2", 5, 50, map[string]*runner.SolverMetrics{
		"nn": solvedMetrics("nn", 30, time.Millisecond),
	}))
	second := a.Summarize()
	assert.Equal(t, 2, second[0].Solved)
	assert.InDelta(t, 20.0, *second[0].MeanGap, 1e-9)

	// The earlier snapshot is unchanged.
	assert.InDelta(t, 10.0, *first[0].MeanGap, 1e-9)
}

func TestRecordRejectsUndeclaredSolver(t *testing.T) {
	a := New([]string{"nn"})
	err := a.Record("i1", 5, 50, map[string]*runner.SolverMetrics{
		"ghost": solvedMetrics("ghost", 1, time.Millisecond),
	})
	assert.Error(t, err)
	assert.Zero(t, a.Instances())
}
