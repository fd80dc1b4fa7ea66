// Package stats holds the small numeric helpers shared by the executor
// and the aggregator. The running mean uses Welford's update so long
// corpus sweeps stay numerically stable without keeping sample history.
package stats

import (
	"math"
	"time"
)

// Running accumulates a mean one observation at a time.
type Running struct {
	n    int
	mean float64
}

func (r *Running) Add(x float64) {
	r.n++
	r.mean += (x - r.mean) / float64(r.n)
}

func (r *Running) Count() int { return r.n }

// Mean returns 0 for an empty accumulator; callers gate on Count.
func (r *Running) Mean() float64 { return r.mean }

// Sample summarizes a bounded list of observations.
type Sample struct {
	N    int
	Min  float64
	Max  float64
	Mean float64
	Std  float64
}

func Summarize(values []float64) Sample {
	s := Sample{N: len(values)}
	if s.N == 0 {
		return s
	}

	s.Min = values[0]
	s.Max = values[0]
	sum := 0.0
	for _, v := range values {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		sum += v
	}
	s.Mean = sum / float64(s.N)

	if s.N >= 2 {
		variance := 0.0
		for _, v := range values {
			d := v - s.Mean
			variance += d * d
		}
		s.Std = math.Sqrt(variance / float64(s.N-1))
	}
	return s
}

// MeanDuration averages wall-clock samples; zero when empty.
func MeanDuration(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}
	var sum int64
	for _, d := range durations {
		sum += int64(d)
	}
	return time.Duration(sum / int64(len(durations)))
}
