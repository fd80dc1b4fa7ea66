package sink

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// CSVSink streams one row per instance into a CSV file. Columns are
// instance metadata first, then an {avg_length, avg_time, gap} triple per
// solver in declaration order. The writer is flushed and synced after
// every row.
type CSVSink struct {
	f        *os.File
	w        *csv.Writer
	solvers  []string
	declared map[string]bool
}

func NewCSVSink(path string) (*CSVSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create csv output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create csv output: %w", err)
	}
	return &CSVSink{f: f, w: csv.NewWriter(f)}, nil
}

func (s *CSVSink) Initialize(solverNames []string) error {
	if s.declared != nil {
		return ErrAlreadyInitialized
	}
	s.solvers = append([]string(nil), solverNames...)
	s.declared = declaredSet(solverNames)

	header := []string{"instance_name", "dimension", "optimal_length"}
	for _, name := range s.solvers {
		header = append(header,
			name+"_avg_length",
			name+"_avg_time",
			name+"_gap",
		)
	}
	if err := s.w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	return s.flush()
}

func (s *CSVSink) AppendRow(row Row) error {
	if s.declared == nil {
		return ErrNotInitialized
	}
	if err := checkRow(s.declared, row); err != nil {
		return err
	}

	record := []string{
		row.Instance,
		fmt.Sprintf("%d", row.Dimension),
		formatOptimal(row.Optimal),
	}
	for _, name := range s.solvers {
		m := row.Metrics[name]
		if m == nil || !m.Solved() {
			// Skipped and all-failed solvers both leave their triple
			// empty; the narrative sink carries the distinction.
			record = append(record, "", "", "")
			continue
		}
		record = append(record,
			formatLength(m.AvgLength),
			formatTime(m.AvgTime),
			formatGap(m.Gap),
		)
	}
	if err := s.w.Write(record); err != nil {
		return fmt.Errorf("write csv row for %s: %w", row.Instance, err)
	}
	return s.flush()
}

func (s *CSVSink) Finalize() error {
	if err := s.flush(); err != nil {
		s.f.Close()
		return err
	}
	if err := s.f.Close(); err != nil {
		return fmt.Errorf("close csv output: %w", err)
	}
	return nil
}

func (s *CSVSink) flush() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}
	if err := s.f.Sync(); err != nil {
		return fmt.Errorf("sync csv output: %w", err)
	}
	return nil
}
