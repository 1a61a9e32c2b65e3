// internal/workers/valuation/build-valuation-report/config.go
package buildvaluationreport

import (
	"fmt"
	"time"

	"artvaluation-workers/internal/valuation"
)

type Config struct {
	Enabled       bool                  `mapstructure:"enabled"`
	MaxJobsActive int                   `mapstructure:"max_jobs_active"`
	Timeout       time.Duration         `mapstructure:"timeout"`
	Assumptions   valuation.Assumptions `mapstructure:"assumptions"`
	Scenarios     []valuation.Scenario  `mapstructure:"scenarios"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       15 * time.Second,
		Assumptions:   valuation.DefaultAssumptions(),
		Scenarios:     valuation.DefaultScenarios(),
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if err := c.Assumptions.Validate(); err != nil {
		return fmt.Errorf("default assumptions: %w", err)
	}
	if err := valuation.ValidateScenarios(c.Scenarios); err != nil {
		return fmt.Errorf("default scenarios: %w", err)
	}
	return nil
}
