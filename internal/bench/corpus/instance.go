package corpus

// Instance is one TSP problem drawn from the benchmark corpus. The matrix
// is the normalized pairwise cost table: square, non-negative, zero
// diagonal, not necessarily symmetric. Instances are immutable after load.
type Instance struct {
	Name      string
	Dimension int
	Matrix    [][]float64

	// Optimal is the known-optimal tour length, or 0 when unknown.
	// Use HasOptimal before reading it; 0 is never a real optimum.
	Optimal float64
}

func (inst *Instance) HasOptimal() bool {
	return inst.Optimal > 0
}
