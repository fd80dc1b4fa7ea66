package sink

// Multi fans every call out to each configured sink in order. The first
// error stops the fan-out and propagates; by the sink contract it is
// fatal upstream anyway.
type Multi struct {
	sinks []Sink
}

func NewMulti(sinks ...Sink) *Multi {
	return &Multi{sinks: sinks}
}

func (m *Multi) Initialize(solverNames []string) error {
	for _, s := range m.sinks {
		if err := s.Initialize(solverNames); err != nil {
			return err
		}
	}
	return nil
}

func (m *Multi) AppendRow(row Row) error {
	for _, s := range m.sinks {
		if err := s.AppendRow(row); err != nil {
			return err
		}
	}
	return nil
}

// Finalize closes every sink even when one fails, returning the first
// error so no file handle leaks on a partially failed shutdown.
func (m *Multi) Finalize() error {
	var first error
	for _, s := range m.sinks {
		if err := s.Finalize(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
