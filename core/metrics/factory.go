package metrics

import (
	"fmt"
	"sync"

	"github.com/mitchellh/mapstructure"
)

// SinkConfig names a sink implementation and carries its raw settings.
type SinkConfig struct {
	Type string         `json:"type"`
	Conf map[string]any `json:"conf"`
}

// SinkFactory builds a MetricsSink from raw settings.
type SinkFactory func(conf map[string]any) (MetricsSink, error)

// Config defines settings for metrics sinks.
type Config struct {
	Sinks []SinkConfig `json:"sinks"`
}

var (
	sinkMu        sync.RWMutex
	sinkFactories = make(map[string]SinkFactory)
)

// RegisterSink adds a sink factory identified by name.
func RegisterSink(name string, f SinkFactory) error {
	if f == nil {
		return fmt.Errorf("sink factory nil for %s", name)
	}
	sinkMu.Lock()
	defer sinkMu.Unlock()
	if _, ok := sinkFactories[name]; ok {
		return fmt.Errorf("sink factory already registered for %s", name)
	}
	sinkFactories[name] = f
	return nil
}

// NewMetricsSink creates a MetricsSink from the provided configuration.
// No sinks yields a NopSink; several are combined into a MultiSink.
func NewMetricsSink(cfgs []SinkConfig) (MetricsSink, error) {
	switch len(cfgs) {
	case 0:
		return NopSink{}, nil
	case 1:
		return newSink(cfgs[0])
	}
	sinks := make([]MetricsSink, len(cfgs))
	for i, c := range cfgs {
		s, err := newSink(c)
		if err != nil {
			return nil, err
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}

func newSink(cfg SinkConfig) (MetricsSink, error) {
	sinkMu.RLock()
	f, ok := sinkFactories[cfg.Type]
	sinkMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown sink type %s", cfg.Type)
	}
	return f(cfg.Conf)
}

// DecodeSinkConf fills out a sink settings struct using json tags.
func DecodeSinkConf(conf map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{TagName: "json", Result: out})
	if err != nil {
		return err
	}
	return dec.Decode(conf)
}
