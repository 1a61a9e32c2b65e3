package valuation

// Scenario is a named shift of the annual growth assumption.
type Scenario struct {
	Label string  `mapstructure:"label" json:"label"`
	Delta float64 `mapstructure:"delta" json:"delta"`
}

// DefaultScenarios returns the +5%, baseline, -5% set in display order.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{Label: "+5%", Delta: 0.05},
		{Label: "baseline", Delta: 0},
		{Label: "-5%", Delta: -0.05},
	}
}

// SensitivityScenario holds the undepreciated revenue series of one scenario.
type SensitivityScenario struct {
	Label    string    `json:"label"`
	Delta    float64   `json:"delta"`
	Revenues []float64 `json:"revenues"`
}

// ValidateScenarios rejects an empty set or repeated labels.
func ValidateScenarios(scenarios []Scenario) error {
	if len(scenarios) == 0 {
		return invalid("scenarios", "at least one scenario is required")
	}
	seen := make(map[string]struct{}, len(scenarios))
	for _, s := range scenarios {
		if s.Label == "" {
			return invalid("scenarios", "scenario label must not be empty")
		}
		if _, dup := seen[s.Label]; dup {
			return invalid("scenarios", "duplicate scenario label %q", s.Label)
		}
		seen[s.Label] = struct{}{}
	}
	return nil
}

// RunSensitivity recomputes raw revenue with growth shifted by each delta.
// Depreciation is not applied. Output order follows the input order.
func RunSensitivity(a Assumptions, scenarios []Scenario) ([]SensitivityScenario, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateScenarios(scenarios); err != nil {
		return nil, err
	}

	out := make([]SensitivityScenario, len(scenarios))
	for i, s := range scenarios {
		factor := 1 + a.AnnualGrowth + s.Delta
		revenues := make([]float64, a.HorizonYears)
		for y := 1; y <= a.HorizonYears; y++ {
			revenues[y-1] = rawRevenue(a, factor, y)
		}
		out[i] = SensitivityScenario{Label: s.Label, Delta: s.Delta, Revenues: revenues}
	}
	return out, nil
}

// ScenariosByLabel indexes scenario output by label.
func ScenariosByLabel(scenarios []SensitivityScenario) map[string][]float64 {
	m := make(map[string][]float64, len(scenarios))
	for _, s := range scenarios {
		m[s.Label] = s.Revenues
	}
	return m
}
