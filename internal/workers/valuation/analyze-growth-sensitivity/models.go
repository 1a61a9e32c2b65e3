// internal/workers/valuation/analyze-growth-sensitivity/models.go
package analyzegrowthsensitivity

import "artvaluation-workers/internal/valuation"

type Input struct {
	ArtistID    string                         `json:"artistId,omitempty"`
	Assumptions *valuation.AssumptionOverrides `json:"assumptions,omitempty"`
	Scenarios   []valuation.Scenario           `json:"scenarios,omitempty"`
}

// Output lists one revenue series per scenario, in request order, with the
// shared x-axis labels.
type Output struct {
	YearLabels      []string                        `json:"yearLabels"`
	Scenarios       []valuation.SensitivityScenario `json:"scenarios"`
	AssumptionsUsed valuation.Assumptions           `json:"assumptionsUsed"`
	Cached          bool                            `json:"-"`
}
