// internal/workers/valuation/build-valuation-report/models.go
package buildvaluationreport

import (
	"time"

	"artvaluation-workers/internal/valuation"
)

type Input struct {
	ArtistID    string                         `json:"artistId"`
	Scores      []valuation.DimensionScore     `json:"scores,omitempty"`
	Ratings     []int                          `json:"ratings,omitempty"`
	Assumptions *valuation.AssumptionOverrides `json:"assumptions,omitempty"`
	Scenarios   []valuation.Scenario           `json:"scenarios,omitempty"`
}

type ScoreSummary struct {
	*valuation.ScoreResult
	AverageScoreDisplay string `json:"averageScoreDisplay"`
}

type ProjectionSummary struct {
	*valuation.Projection
	PaybackLabel string `json:"paybackLabel"`
}

// Output is the full dashboard payload for one artist. Every view is
// computed from AssumptionsUsed.
type Output struct {
	ReportID        string                          `json:"reportId"`
	ArtistID        string                          `json:"artistId"`
	GeneratedAt     time.Time                       `json:"generatedAt"`
	Score           ScoreSummary                    `json:"score"`
	AssumptionsUsed valuation.Assumptions           `json:"assumptionsUsed"`
	Projection      ProjectionSummary               `json:"projection"`
	YearLabels      []string                        `json:"yearLabels"`
	Sensitivity     []valuation.SensitivityScenario `json:"sensitivity"`
}
