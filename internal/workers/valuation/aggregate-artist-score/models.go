// internal/workers/valuation/aggregate-artist-score/models.go
package aggregateartistscore

import "artvaluation-workers/internal/valuation"

type Input struct {
	ArtistID string                     `json:"artistId"`
	Scores   []valuation.DimensionScore `json:"scores,omitempty"`
	Ratings  []int                      `json:"ratings,omitempty"`
}

type Output struct {
	ArtistID            string                     `json:"artistId,omitempty"`
	AverageScore        float64                    `json:"averageScore"`
	AverageScoreDisplay string                     `json:"averageScoreDisplay"`
	RatingTier          valuation.RatingTier       `json:"ratingTier"`
	RatingLabel         string                     `json:"ratingLabel"`
	Scorecard           []valuation.DimensionScore `json:"scorecard"`
}
