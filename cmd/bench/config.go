package main

import (
	"flag"
	"fmt"
	"strings"

	"github.com/jpjj/tsp-solver-comparison/internal/bench/spec"
)

type cliConfig struct {
	SpecPath string

	// Quick single-run mode, used when no spec file is given.
	CorpusDir string
	Solvers   string
	MaxSize   int
	Runs      int
	Seconds   float64
	Parallel  bool

	CSVPath    string
	TextPath   string
	SQLitePath string
	ReportPath string

	EnvPath string
}

func parseFlags() cliConfig {
	cfg := cliConfig{}

	flag.StringVar(&cfg.SpecPath, "spec", "", "Path to run spec YAML (overrides quick-mode flags)")
	flag.StringVar(&cfg.CorpusDir, "corpus", "", "Corpus directory with TSPLIB instances (quick mode; default $TSP_BENCH_CORPUS)")
	flag.StringVar(&cfg.Solvers, "solvers", "nearest_neighbor,two_opt", "Solver types to compare, comma-separated (quick mode)")
	flag.IntVar(&cfg.MaxSize, "max-size", spec.DefaultMaxSize, "Skip instances with more nodes than this (-1 for no limit)")
	flag.IntVar(&cfg.Runs, "runs", 1, "Repetitions per solver per instance")
	flag.Float64Var(&cfg.Seconds, "seconds", 1.0, "Time budget per solve, in seconds (quick mode)")
	flag.BoolVar(&cfg.Parallel, "parallel", false, "Run solvers for one instance concurrently")
	flag.StringVar(&cfg.CSVPath, "csv", "results.csv", "CSV output path (quick mode; empty disables)")
	flag.StringVar(&cfg.TextPath, "text", "", "Text output path (quick mode)")
	flag.StringVar(&cfg.SQLitePath, "sqlite", "", "SQLite output path (quick mode)")
	flag.StringVar(&cfg.ReportPath, "report", "", "JSON report output path")
	flag.StringVar(&cfg.EnvPath, "env", ".env", "Path to .env file with defaults")

	flag.Parse()
	return cfg
}

// buildQuickSpec assembles a RunSpec from the quick-mode flags. Solver
// names equal their types, so a quick run reads naturally in the output.
func buildQuickSpec(cfg cliConfig) (*spec.RunSpec, error) {
	if cfg.CorpusDir == "" {
		return nil, fmt.Errorf("quick mode requires --corpus or $TSP_BENCH_CORPUS")
	}

	solvers := make(map[string]spec.Solver)
	var order []string
	for _, raw := range strings.Split(cfg.Solvers, ",") {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		if _, dup := solvers[name]; dup {
			return nil, fmt.Errorf("solver %q listed twice", name)
		}
		solvers[name] = spec.Solver{
			Type:             name,
			TimeLimitSeconds: cfg.Seconds,
		}
		order = append(order, name)
	}

	s := &spec.RunSpec{
		Corpus: spec.Corpus{
			Dir:     cfg.CorpusDir,
			MaxSize: cfg.MaxSize,
		},
		Solvers: solvers,
		Run: spec.Run{
			Solvers:         order,
			Repetitions:     cfg.Runs,
			ParallelSolvers: cfg.Parallel,
		},
		Output: spec.Output{
			CSV:    cfg.CSVPath,
			Text:   cfg.TextPath,
			SQLite: cfg.SQLitePath,
			Report: cfg.ReportPath,
		},
	}
	if err := spec.Validate(s); err != nil {
		return nil, err
	}
	return s, nil
}
