package plan

import "fmt"

// Config defines planning parameters shared by the exact and greedy
// planners.
type Config struct {
	// CapSpot is the number of trips a single charging spot can serve.
	CapSpot float64 `json:"cap_spot"`
	// Tolerance bounds the numerical slack accepted when checking a
	// solver assignment against the modelled constraints.
	Tolerance float64 `json:"tolerance"`
	// GreedyFallback enables the heuristic allocator when the exact
	// solver fails with an engine error.
	GreedyFallback bool `json:"greedy_fallback"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.CapSpot == 0 {
		c.CapSpot = 200
	}
	if c.Tolerance == 0 {
		c.Tolerance = 1e-6
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.CapSpot <= 0 {
		return fmt.Errorf("cap_spot must be positive, got %v", c.CapSpot)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("tolerance must be non-negative, got %v", c.Tolerance)
	}
	return nil
}
