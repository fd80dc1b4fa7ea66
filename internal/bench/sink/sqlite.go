package sink

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver (pure Go)
)

// SQLiteSink mirrors the tabular schema into a `results` table. Raw
// float values are stored (precision is a presentation concern); absent
// optima and gaps become SQL NULL. Each row is one INSERT inside its own
// implicit transaction, giving the same crash-only durability as the CSV
// sink.
type SQLiteSink struct {
	db       *sql.DB
	insert   *sql.Stmt
	solvers  []string
	declared map[string]bool
}

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func NewSQLiteSink(path string) (*SQLiteSink, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite output: %w", err)
	}
	return &SQLiteSink{db: db}, nil
}

func (s *SQLiteSink) Initialize(solverNames []string) error {
	if s.declared != nil {
		return ErrAlreadyInitialized
	}
	for _, name := range solverNames {
		if !identPattern.MatchString(name) {
			return fmt.Errorf("sink: solver name %q is not a valid column prefix", name)
		}
	}
	s.solvers = append([]string(nil), solverNames...)
	s.declared = declaredSet(solverNames)

	columns := []string{
		"instance_name TEXT NOT NULL",
		"dimension INTEGER NOT NULL",
		"optimal_length REAL",
	}
	placeholders := []string{"?", "?", "?"}
	names := []string{"instance_name", "dimension", "optimal_length"}
	for _, solverName := range s.solvers {
		for _, suffix := range []string{"avg_length", "avg_time", "gap"} {
			col := solverName + "_" + suffix
			columns = append(columns, col+" REAL")
			placeholders = append(placeholders, "?")
			names = append(names, col)
		}
	}

	if _, err := s.db.Exec("DROP TABLE IF EXISTS results"); err != nil {
		return fmt.Errorf("reset results table: %w", err)
	}
	ddl := "CREATE TABLE results (" + strings.Join(columns, ", ") + ")"
	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("create results table: %w", err)
	}

	stmt, err := s.db.Prepare(
		"INSERT INTO results (" + strings.Join(names, ", ") + ") VALUES (" + strings.Join(placeholders, ", ") + ")")
	if err != nil {
		return fmt.Errorf("prepare results insert: %w", err)
	}
	s.insert = stmt
	return nil
}

func (s *SQLiteSink) AppendRow(row Row) error {
	if s.declared == nil {
		return ErrNotInitialized
	}
	if err := checkRow(s.declared, row); err != nil {
		return err
	}

	args := make([]any, 0, 3+3*len(s.solvers))
	args = append(args, row.Instance, row.Dimension, nullableOptimal(row.Optimal))
	for _, name := range s.solvers {
		m := row.Metrics[name]
		if m == nil || !m.Solved() {
			args = append(args, nil, nil, nil)
			continue
		}
		var gap any
		if m.Gap != nil {
			gap = *m.Gap
		}
		args = append(args, m.AvgLength, m.AvgTime.Seconds(), gap)
	}

	if _, err := s.insert.Exec(args...); err != nil {
		return fmt.Errorf("insert results row for %s: %w", row.Instance, err)
	}
	return nil
}

func (s *SQLiteSink) Finalize() error {
	if s.insert != nil {
		if err := s.insert.Close(); err != nil {
			s.db.Close()
			return fmt.Errorf("close results insert: %w", err)
		}
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close sqlite output: %w", err)
	}
	return nil
}

func nullableOptimal(optimal float64) any {
	if optimal <= 0 {
		return nil
	}
	return optimal
}
