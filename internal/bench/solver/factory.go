package solver

import (
	"fmt"

	"github.com/jpjj/tsp-solver-comparison/internal/bench/spec"
)

// CreateFromSpec builds the configured adapters in the run's declared
// order. Unknown solver types fail the whole run up front; there is no
// point starting a benchmark with a hole in the comparison.
func CreateFromSpec(s *spec.RunSpec) ([]Configured, error) {
	configured := make([]Configured, 0, len(s.Run.Solvers))
	for _, name := range s.Run.Solvers {
		sv := s.Solvers[name]
		c, err := New(name, sv)
		if err != nil {
			return nil, err
		}
		configured = append(configured, c)
	}
	return configured, nil
}

// New builds one configured adapter from its spec entry.
func New(name string, sv spec.Solver) (Configured, error) {
	var a Adapter
	switch sv.Type {
	case "random":
		a = NewRandom(name, sv.Seed)
	case "nearest_neighbor":
		a = NewNearestNeighbor(name)
	case "greedy_edge":
		a = NewGreedyEdge(name)
	case "two_opt":
		a = NewTwoOpt(name)
	default:
		return Configured{}, fmt.Errorf("unsupported solver type %q for %q", sv.Type, name)
	}
	return Configured{
		Adapter:      a,
		Budget:       Budget{Seconds: sv.TimeLimitSeconds, Factor: sv.TimeLimitFactor},
		MaxDimension: sv.MaxDimension,
	}, nil
}
