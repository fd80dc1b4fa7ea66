package report

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// WriteTable renders the summary for the console. Absent gaps print as
// "n/a" so a corpus without optima never reads as a perfect run.
func WriteTable(r *Report, w io.Writer) {
	fmt.Fprintf(w, "\nRun %s on %s (%d instances)\n", r.Meta.RunID, r.Meta.Platform, r.Instances)
	if r.Meta.CPUModel != "" {
		fmt.Fprintf(w, "%s, %d CPUs, %s RAM\n", r.Meta.CPUModel, r.Meta.NumCPU, r.Meta.TotalRAM)
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{"Solver", "Solved", "Failed", "Skipped", "Mean Gap %", "Mean Time (s)"})
	for _, e := range r.Solvers {
		gap := "n/a"
		if e.MeanGap != nil {
			gap = fmt.Sprintf("%.2f (%d inst)", *e.MeanGap, e.GapCount)
		}
		t.AppendRow(table.Row{
			e.Solver,
			e.Solved,
			e.Failed,
			e.Skipped,
			gap,
			fmt.Sprintf("%.4f", e.MeanTime),
		})
	}

	t.Render()
	if r.Meta.Duration != "" {
		fmt.Fprintf(w, "Total duration: %s\n", r.Meta.Duration)
	}
}
