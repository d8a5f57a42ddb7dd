package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/evplan/core/metrics"
)

// PromSink records sweep solves in Prometheus metrics.
type PromSink struct {
	solves   *prometheus.CounterVec
	duration *prometheus.HistogramVec
	coverage *prometheus.GaugeVec
	best     prometheus.Gauge
}

// NewPromSink registers sweep metrics on the default Prometheus
// registerer.
func NewPromSink() (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	solves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sweep_solves_total",
		Help: "Total number of budget solves by status",
	}, []string{"status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sweep_solve_duration_seconds",
		Help:    "Wall time of one budget solve",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})
	coverage := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "sweep_coverage",
		Help: "Demand-weighted coverage observed per budget",
	}, []string{"budget"})
	best := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "sweep_best_budget",
		Help: "Budget selected by the last sweep",
	})

	if err := reg.Register(solves); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			solves = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(coverage); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			coverage = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(best); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			best = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}

	return &PromSink{solves: solves, duration: duration, coverage: coverage, best: best}, nil
}

// RecordSolve increments the per-status counters for one budget solve.
func (s *PromSink) RecordSolve(rec coremetrics.SolveRecord) error {
	s.solves.WithLabelValues(rec.Status).Inc()
	s.duration.WithLabelValues(rec.Status).Observe(rec.DurationSeconds)
	s.coverage.WithLabelValues(strconv.FormatFloat(rec.Budget, 'f', -1, 64)).Set(rec.Coverage)
	return nil
}

// RecordBest sets the best-budget gauge.
func (s *PromSink) RecordBest(rec coremetrics.BestRecord) error {
	s.best.Set(rec.Budget)
	return nil
}
