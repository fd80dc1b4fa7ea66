package spec

// RunSpec declares a full benchmark run: which corpus to sweep, which
// solvers to compare, how often to repeat each solve, and where results go.
type RunSpec struct {
	Corpus  Corpus            `yaml:"corpus"`
	Solvers map[string]Solver `yaml:"solvers"`
	Run     Run               `yaml:"run"`
	Output  Output            `yaml:"output"`
}

type Corpus struct {
	Dir string `yaml:"dir"`
	// MaxSize is the global instance size ceiling. 0 means the default
	// ceiling, -1 means no ceiling.
	MaxSize    int    `yaml:"max_size"`
	OptimaFile string `yaml:"optima_file,omitempty"`
}

// Solver configures one adapter. Exactly one of TimeLimitSeconds and
// TimeLimitFactor must be set: a fixed budget in seconds, or a budget of
// factor*dimension seconds. MaxDimension == 0 means no size limit.
type Solver struct {
	Type             string  `yaml:"type"`
	TimeLimitSeconds float64 `yaml:"time_limit_seconds,omitempty"`
	TimeLimitFactor  float64 `yaml:"time_limit_factor,omitempty"`
	MaxDimension     int     `yaml:"max_dimension,omitempty"`
	Seed             int64   `yaml:"seed,omitempty"`
}

type Run struct {
	// Solvers fixes the reporting order. Empty means all declared solvers
	// in lexical order.
	Solvers         []string `yaml:"solvers,omitempty"`
	Repetitions     int      `yaml:"repetitions"`
	ParallelSolvers bool     `yaml:"parallel_solvers"`
}

type Output struct {
	CSV    string `yaml:"csv,omitempty"`
	Text   string `yaml:"text,omitempty"`
	SQLite string `yaml:"sqlite,omitempty"`
	Report string `yaml:"report,omitempty"`
}
