package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/evplan/core/metrics"
)

func TestPromSinkRecords(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	require.NoError(t, sink.RecordSolve(coremetrics.SolveRecord{
		RunID:           "run-1",
		Budget:          2000,
		Status:          "optimal",
		Coverage:        150,
		Cost:            1800,
		Profit:          5700,
		DurationSeconds: 0.02,
	}))
	require.NoError(t, sink.RecordBest(coremetrics.BestRecord{RunID: "run-1", Budget: 2000, Profit: 5700}))

	families, err := reg.Gather()
	require.NoError(t, err)

	byName := map[string]float64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			switch mf.GetName() {
			case "sweep_solves_total":
				byName[mf.GetName()] = m.GetCounter().GetValue()
			case "sweep_coverage", "sweep_best_budget":
				byName[mf.GetName()] = m.GetGauge().GetValue()
			}
		}
	}
	require.Equal(t, 1.0, byName["sweep_solves_total"])
	require.Equal(t, 150.0, byName["sweep_coverage"])
	require.Equal(t, 2000.0, byName["sweep_best_budget"])
}

func TestPromSinkDoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)

	// A second sink on the same registry reuses the existing collectors.
	sink, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	require.NoError(t, sink.RecordSolve(coremetrics.SolveRecord{Status: "optimal"}))
}
