package sink

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// TextSink writes the narrative form: one block per instance, same values
// as the tabular sink, formatted for direct reading.
type TextSink struct {
	f        *os.File
	solvers  []string
	declared map[string]bool
}

func NewTextSink(path string) (*TextSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create text output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create text output: %w", err)
	}
	return &TextSink{f: f}, nil
}

func (s *TextSink) Initialize(solverNames []string) error {
	if s.declared != nil {
		return ErrAlreadyInitialized
	}
	s.solvers = append([]string(nil), solverNames...)
	s.declared = declaredSet(solverNames)

	if _, err := fmt.Fprintf(s.f, "TSP solver comparison (%s)\n", strings.Join(s.solvers, ", ")); err != nil {
		return fmt.Errorf("write text header: %w", err)
	}
	return s.sync()
}

func (s *TextSink) AppendRow(row Row) error {
	if s.declared == nil {
		return ErrNotInitialized
	}
	if err := checkRow(s.declared, row); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s (dimension %d)\n", row.Instance, row.Dimension)
	if row.Optimal > 0 {
		fmt.Fprintf(&b, "  optimal length: %s\n", formatOptimal(row.Optimal))
	} else {
		fmt.Fprintf(&b, "  optimal length: unknown\n")
	}
	for _, name := range s.solvers {
		writeSolverLine(&b, name, row)
	}

	if _, err := io.WriteString(s.f, b.String()); err != nil {
		return fmt.Errorf("write text row for %s: %w", row.Instance, err)
	}
	return s.sync()
}

func writeSolverLine(b *strings.Builder, name string, row Row) {
	m := row.Metrics[name]
	switch {
	case m == nil || m.Skipped:
		fmt.Fprintf(b, "  %s: no result (exceeds size limit)\n", name)
	case !m.Solved():
		fmt.Fprintf(b, "  %s: no successful attempts (%d failed)\n", name, m.Failures)
	default:
		gap := formatGap(m.Gap)
		if gap == "" {
			gap = "n/a"
		} else {
			gap += "%"
		}
		fmt.Fprintf(b, "  %s: avg length %s, avg time %ss, gap %s\n",
			name, formatLength(m.AvgLength), formatTime(m.AvgTime), gap)
		if m.Failures > 0 {
			fmt.Fprintf(b, "    (%d of %d repetitions failed)\n", m.Failures, m.Failures+len(m.Lengths))
		}
	}
}

func (s *TextSink) Finalize() error {
	if err := s.sync(); err != nil {
		s.f.Close()
		return err
	}
	if err := s.f.Close(); err != nil {
		return fmt.Errorf("close text output: %w", err)
	}
	return nil
}

func (s *TextSink) sync() error {
	if err := s.f.Sync(); err != nil {
		return fmt.Errorf("sync text output: %w", err)
	}
	return nil
}
