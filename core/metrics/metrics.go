// Package metrics defines interfaces and implementations for observing
// sweep progress. Sinks like PromSink and InfluxSink record one entry
// per solved budget and the selected best budget, and can be combined
// with NewMultiSink. The factory helpers return a MultiSink
// automatically when multiple sinks are configured.
package metrics

// SolveRecord describes one finished budget solve.
type SolveRecord struct {
	RunID           string
	Budget          float64
	Status          string
	Coverage        float64
	Cost            float64
	Profit          float64
	DurationSeconds float64
}

// BestRecord describes the sweep outcome.
type BestRecord struct {
	RunID  string
	Budget float64
	Profit float64
}

// MetricsSink records sweep observations.
type MetricsSink interface {
	RecordSolve(rec SolveRecord) error
	RecordBest(rec BestRecord) error
}

// NopSink discards all records.
type NopSink struct{}

func (NopSink) RecordSolve(SolveRecord) error { return nil }
func (NopSink) RecordBest(BestRecord) error   { return nil }

// MultiSink fans records out to several sinks, returning the first
// error encountered.
type MultiSink struct {
	sinks []MetricsSink
}

// NewMultiSink combines the given sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) RecordSolve(rec SolveRecord) error {
	for _, s := range m.sinks {
		if err := s.RecordSolve(rec); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiSink) RecordBest(rec BestRecord) error {
	for _, s := range m.sinks {
		if err := s.RecordBest(rec); err != nil {
			return err
		}
	}
	return nil
}
