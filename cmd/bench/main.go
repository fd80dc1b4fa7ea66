package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/jpjj/tsp-solver-comparison/internal/bench/aggregate"
	"github.com/jpjj/tsp-solver-comparison/internal/bench/corpus"
	"github.com/jpjj/tsp-solver-comparison/internal/bench/report"
	"github.com/jpjj/tsp-solver-comparison/internal/bench/runner"
	"github.com/jpjj/tsp-solver-comparison/internal/bench/sink"
	"github.com/jpjj/tsp-solver-comparison/internal/bench/solver"
	"github.com/jpjj/tsp-solver-comparison/internal/bench/spec"
	"github.com/jpjj/tsp-solver-comparison/pkg/config/env"
)

func main() {
	cfg := parseFlags()
	env.LoadDotEnv(cfg.EnvPath)

	if cfg.CorpusDir == "" {
		cfg.CorpusDir = os.Getenv("TSP_BENCH_CORPUS")
	}

	var (
		rs  *spec.RunSpec
		err error
	)
	if cfg.SpecPath != "" {
		rs, err = spec.LoadFromFile(cfg.SpecPath)
		if err != nil {
			slog.Error("Failed to load run spec", "path", cfg.SpecPath, "error", err)
			os.Exit(1)
		}
	} else {
		rs, err = buildQuickSpec(cfg)
		if err != nil {
			slog.Error("Invalid quick-mode configuration", "error", err)
			os.Exit(1)
		}
	}
	if cfg.ReportPath != "" {
		rs.Output.Report = cfg.ReportPath
	}

	if err := run(context.Background(), rs); err != nil {
		slog.Error("Benchmark failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, rs *spec.RunSpec) error {
	start := time.Now()
	meta := report.CollectMeta(start)
	slog.Info("Starting benchmark run",
		"run_id", meta.RunID,
		"corpus", rs.Corpus.Dir,
		"solvers", rs.Run.Solvers,
		"repetitions", rs.Run.Repetitions,
	)

	loader, err := corpus.NewLoader(rs.Corpus.Dir, rs.Corpus.OptimaFile)
	if err != nil {
		return err
	}
	names, err := loader.ListInstances(rs.Corpus.MaxSize)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		slog.Warn("Corpus contains no instances within the size limit",
			"dir", rs.Corpus.Dir, "max_size", rs.Corpus.MaxSize)
	}

	solvers, err := solver.CreateFromSpec(rs)
	if err != nil {
		return err
	}

	out, err := buildSinks(rs.Output)
	if err != nil {
		return err
	}
	if err := out.Initialize(rs.Run.Solvers); err != nil {
		return err
	}

	r := runner.New(runner.Config{
		Repetitions:     rs.Run.Repetitions,
		ParallelSolvers: rs.Run.ParallelSolvers,
	})
	agg := aggregate.New(rs.Run.Solvers)

	for _, name := range names {
		inst, err := loader.Load(name)
		if err != nil {
			// A broken instance file must not abort the sweep.
			slog.Warn("Skipping unreadable instance", "instance", name, "error", err)
			continue
		}
		slog.Info("Benchmarking instance", "instance", inst.Name, "dimension", inst.Dimension)

		metrics := r.Execute(ctx, inst, solvers)

		row := sink.Row{
			Instance:  inst.Name,
			Dimension: inst.Dimension,
			Optimal:   inst.Optimal,
			Metrics:   metrics,
		}
		if err := out.AppendRow(row); err != nil {
			// Losing results defeats the run; stop here rather than
			// burn solver time on rows nobody will see.
			out.Finalize()
			return err
		}
		if err := agg.Record(inst.Name, inst.Dimension, inst.Optimal, metrics); err != nil {
			out.Finalize()
			return err
		}
	}

	if err := out.Finalize(); err != nil {
		return err
	}

	meta.Duration = time.Since(start).Round(time.Millisecond).String()
	rpt := report.Generate(meta, agg.Instances(), agg.Summarize())
	report.WriteTable(rpt, os.Stdout)

	if rs.Output.Report != "" {
		if err := report.WriteJSON(rpt, rs.Output.Report); err != nil {
			return err
		}
		slog.Info("Report written", "path", rs.Output.Report)
	}
	return nil
}

func buildSinks(out spec.Output) (sink.Sink, error) {
	var sinks []sink.Sink
	if out.CSV != "" {
		s, err := sink.NewCSVSink(out.CSV)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	if out.Text != "" {
		s, err := sink.NewTextSink(out.Text)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	if out.SQLite != "" {
		s, err := sink.NewSQLiteSink(out.SQLite)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, s)
	}
	return sink.NewMulti(sinks...), nil
}
