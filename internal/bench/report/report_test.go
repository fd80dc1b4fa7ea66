package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jpjj/tsp-solver-comparison/internal/bench/aggregate"
)

func sampleSummaries() []aggregate.Summary {
	gap := 12.5
	return []aggregate.Summary{
		{Solver: "nn", Solved: 10, Failed: 1, Skipped: 2, MeanGap: &gap, GapCount: 8, MeanTime: 250 * time.Millisecond},
		{Solver: "random", Solved: 13, MeanTime: time.Millisecond},
	}
}

func TestGeneratePreservesOrderAndConverts(t *testing.T) {
	meta := Meta{RunID: "run-1", StartedAt: time.Now()}
	r := Generate(meta, 13, sampleSummaries())

	require.Len(t, r.Solvers, 2)
	assert.Equal(t, "nn", r.Solvers[0].Solver)
	assert.Equal(t, "random", r.Solvers[1].Solver)
	assert.Equal(t, 0.25, r.Solvers[0].MeanTime)
	require.NotNil(t, r.Solvers[0].MeanGap)
	assert.Equal(t, 12.5, *r.Solvers[0].MeanGap)
	assert.Nil(t, r.Solvers[1].MeanGap)
	assert.Equal(t, 13, r.Instances)
}

func TestWriteTableRendersGapAndNA(t *testing.T) {
	r := Generate(Meta{RunID: "run-1"}, 13, sampleSummaries())

	var b strings.Builder
	WriteTable(r, &b)
	out := b.String()

	assert.Contains(t, out, "run-1")
	assert.Contains(t, out, "nn")
	assert.Contains(t, out, "12.50 (8 inst)")
	assert.Contains(t, out, "n/a")
	assert.Contains(t, out, "0.2500")
}

func TestWriteJSONRoundTrip(t *testing.T) {
	r := Generate(Meta{RunID: "run-1", GoVersion: "go1.24"}, 2, sampleSummaries())
	// A nested output dir is created on demand, matching the sinks.
	path := filepath.Join(t.TempDir(), "out", "report.json")

	require.NoError(t, WriteJSON(r, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "\n"))

	var back Report
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, "run-1", back.Meta.RunID)
	require.Len(t, back.Solvers, 2)
	require.NotNil(t, back.Solvers[0].MeanGap)
	assert.Equal(t, 12.5, *back.Solvers[0].MeanGap)
	assert.Nil(t, back.Solvers[1].MeanGap)
}

func TestCollectMetaBasics(t *testing.T) {
	start := time.Now()
	m := CollectMeta(start)

	assert.NotEmpty(t, m.RunID)
	assert.Equal(t, start, m.StartedAt)
	assert.NotEmpty(t, m.GoVersion)
	assert.Positive(t, m.NumCPU)
}
