package valuation

// Evaluation bundles the three dashboard views computed from one
// assumption set, so every view shares the same horizon.
type Evaluation struct {
	Score       *ScoreResult          `json:"score"`
	Assumptions Assumptions           `json:"assumptions"`
	Projection  *Projection           `json:"projection"`
	Sensitivity []SensitivityScenario `json:"sensitivity"`
}

// Evaluate validates all inputs before computing anything and returns no
// partial result on failure.
func Evaluate(scores []DimensionScore, a Assumptions, scenarios []Scenario) (*Evaluation, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateScenarios(scenarios); err != nil {
		return nil, err
	}

	score, err := AggregateDimensionScores(scores)
	if err != nil {
		return nil, err
	}
	projection, err := ProjectCashFlow(a)
	if err != nil {
		return nil, err
	}
	sensitivity, err := RunSensitivity(a, scenarios)
	if err != nil {
		return nil, err
	}

	return &Evaluation{
		Score:       score,
		Assumptions: a,
		Projection:  projection,
		Sensitivity: sensitivity,
	}, nil
}

// ScoresFromRatings labels ratings given in Dimensions order.
func ScoresFromRatings(ratings []int) []DimensionScore {
	out := make([]DimensionScore, len(ratings))
	for i, r := range ratings {
		name := ""
		if i < len(Dimensions) {
			name = Dimensions[i]
		}
		out[i] = DimensionScore{Dimension: name, Rating: r}
	}
	return out
}
