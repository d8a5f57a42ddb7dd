package sweep

import (
	"fmt"
	"sort"
)

// Config defines the budget sweep: either an explicit budget list or an
// inclusive (min, max, step) range, plus the profit model and worker
// count.
type Config struct {
	Budgets []float64 `json:"budgets"`
	Min     float64   `json:"min"`
	Max     float64   `json:"max"`
	Step    float64   `json:"step"`
	// ValuePerCoverage converts one unit of demand-weighted coverage
	// into the same currency as the budget for the default profit model.
	ValuePerCoverage float64 `json:"value_per_coverage"`
	// Workers bounds concurrent budget solves.
	Workers int `json:"workers"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Workers == 0 {
		c.Workers = 1
	}
	if c.ValuePerCoverage == 0 {
		c.ValuePerCoverage = 1
	}
}

// Validate checks that exactly one budget source is configured and that
// its values are usable.
func (c Config) Validate() error {
	hasList := len(c.Budgets) > 0
	hasRange := c.Step != 0 || c.Max != 0
	if hasList && hasRange {
		return fmt.Errorf("budgets and min/max/step are mutually exclusive")
	}
	if !hasList && !hasRange {
		return fmt.Errorf("either budgets or min/max/step is required")
	}
	if hasList {
		for _, b := range c.Budgets {
			if b < 0 {
				return fmt.Errorf("negative budget %v", b)
			}
		}
	} else {
		if c.Min < 0 {
			return fmt.Errorf("min must be non-negative, got %v", c.Min)
		}
		if c.Step <= 0 {
			return fmt.Errorf("step must be positive, got %v", c.Step)
		}
		if c.Max < c.Min {
			return fmt.Errorf("max %v below min %v", c.Max, c.Min)
		}
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	return nil
}

// BudgetList expands the configuration into the ascending budget
// sequence to sweep.
func (c Config) BudgetList() ([]float64, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if len(c.Budgets) > 0 {
		out := append([]float64(nil), c.Budgets...)
		sort.Float64s(out)
		return out, nil
	}
	var out []float64
	for b := c.Min; b <= c.Max+1e-9; b += c.Step {
		out = append(out, b)
	}
	return out, nil
}
