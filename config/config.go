package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/evplan/core/metrics"
	"github.com/kilianp07/evplan/core/plan"
	"github.com/kilianp07/evplan/core/sweep"
	infrasolver "github.com/kilianp07/evplan/infra/solver"
)

// DatasetConfig points at the CSV input tables.
type DatasetConfig struct {
	// Dir holds areas.csv, sites.csv and trips.csv.
	Dir string `json:"dir"`
}

// Validate checks mandatory fields.
func (c DatasetConfig) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("dataset dir is required")
	}
	return nil
}

type Config struct {
	Dataset DatasetConfig      `json:"dataset"`
	Planner plan.Config        `json:"planner"`
	Solver  infrasolver.Config `json:"solver"`
	Sweep   sweep.Config       `json:"sweep"`
	Metrics metrics.Config     `json:"metrics"`
}

// Load reads the configuration file (YAML or JSON) and applies
// EV_-prefixed environment overrides.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("EV_", "__", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "ev_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Planner.SetDefaults()
	cfg.Sweep.SetDefaults()
	if err := cfg.Planner.Validate(); err != nil {
		return nil, err
	}
	// The sweep section is validated by the sweep controller itself so
	// single-budget runs can omit it.
	return &cfg, nil
}
