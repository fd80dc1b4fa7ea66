// Package report renders the end-of-run summary: a console table for
// humans and an optional JSON document for tooling.
package report

import (
	"time"

	"github.com/jpjj/tsp-solver-comparison/internal/bench/aggregate"
)

// Meta identifies a run and the machine it ran on, so archived reports
// from different hosts stay comparable.
type Meta struct {
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
	Duration  string    `json:"duration"`
	GoVersion string    `json:"go_version"`
	OS        string    `json:"os"`
	Arch      string    `json:"arch"`
	NumCPU    int       `json:"num_cpu"`
	Platform  string    `json:"platform,omitempty"`
	CPUModel  string    `json:"cpu_model,omitempty"`
	TotalRAM  string    `json:"total_ram,omitempty"`
}

type Entry struct {
	Solver   string   `json:"solver"`
	Solved   int      `json:"solved"`
	Failed   int      `json:"failed"`
	Skipped  int      `json:"skipped"`
	MeanGap  *float64 `json:"mean_gap_percent"`
	GapCount int      `json:"gap_count"`
	MeanTime float64  `json:"mean_time_seconds"`
}

type Report struct {
	Meta      Meta    `json:"meta"`
	Instances int     `json:"instances"`
	Solvers   []Entry `json:"solvers"`
}

// Generate freezes the aggregator's final state into a report. Solver
// order follows the run configuration.
func Generate(meta Meta, instances int, summaries []aggregate.Summary) *Report {
	r := &Report{Meta: meta, Instances: instances}
	for _, s := range summaries {
		r.Solvers = append(r.Solvers, Entry{
			Solver:   s.Solver,
			Solved:   s.Solved,
			Failed:   s.Failed,
			Skipped:  s.Skipped,
			MeanGap:  s.MeanGap,
			GapCount: s.GapCount,
			MeanTime: s.MeanTime.Seconds(),
		})
	}
	return r
}
