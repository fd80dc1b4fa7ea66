package spec

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMaxSize     = 1000
	DefaultRepetitions = 1
	DefaultOptimaFile  = "optima.yaml"
)

func LoadFromFile(path string) (*RunSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run spec: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*RunSpec, error) {
	var s RunSpec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse run spec YAML: %w", err)
	}
	if err := Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the spec and fills defaults in place.
func Validate(s *RunSpec) error {
	if s.Corpus.Dir == "" {
		return fmt.Errorf("spec has no corpus dir")
	}
	// Absent max_size gets the default ceiling; any negative value
	// disables the ceiling entirely.
	if s.Corpus.MaxSize == 0 {
		s.Corpus.MaxSize = DefaultMaxSize
	} else if s.Corpus.MaxSize < 0 {
		s.Corpus.MaxSize = -1
	}
	if s.Corpus.OptimaFile == "" {
		s.Corpus.OptimaFile = DefaultOptimaFile
	}

	if len(s.Solvers) == 0 {
		return fmt.Errorf("spec has no solvers")
	}
	for name, sv := range s.Solvers {
		if sv.Type == "" {
			return fmt.Errorf("solver %q has no type", name)
		}
		if sv.TimeLimitSeconds < 0 || sv.TimeLimitFactor < 0 {
			return fmt.Errorf("solver %q has a negative time limit", name)
		}
		if sv.TimeLimitSeconds > 0 && sv.TimeLimitFactor > 0 {
			return fmt.Errorf("solver %q sets both time_limit_seconds and time_limit_factor", name)
		}
		if sv.TimeLimitSeconds == 0 && sv.TimeLimitFactor == 0 {
			return fmt.Errorf("solver %q has no time budget", name)
		}
		if sv.MaxDimension < 0 {
			return fmt.Errorf("solver %q max_dimension must be >= 0", name)
		}
	}

	if len(s.Run.Solvers) == 0 {
		for name := range s.Solvers {
			s.Run.Solvers = append(s.Run.Solvers, name)
		}
		sort.Strings(s.Run.Solvers)
	}
	seen := make(map[string]bool, len(s.Run.Solvers))
	for _, name := range s.Run.Solvers {
		if _, ok := s.Solvers[name]; !ok {
			return fmt.Errorf("run references unknown solver %q", name)
		}
		if seen[name] {
			return fmt.Errorf("run lists solver %q twice", name)
		}
		seen[name] = true
	}

	if s.Run.Repetitions < 0 {
		return fmt.Errorf("repetitions must be >= 0, got %d", s.Run.Repetitions)
	}
	if s.Run.Repetitions == 0 {
		s.Run.Repetitions = DefaultRepetitions
	}

	if s.Output.CSV == "" && s.Output.Text == "" && s.Output.SQLite == "" {
		return fmt.Errorf("spec declares no result sink (csv, text or sqlite)")
	}
	return nil
}
