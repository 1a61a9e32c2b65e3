package valuation

import (
	"fmt"
	"strconv"
)

const (
	DimensionCount = 12
	MinRating      = 1
	MaxRating      = 5
)

// Dimensions lists the twelve scored categories in display order.
var Dimensions = []string{
	"Historical",
	"Academic",
	"Market",
	"Scarcity coefficient",
	"Generational inheritance premium",
	"Age-output curve",
	"Contract structure",
	"Value release path",
	"Moral hazard prevention",
	"Revenue potential",
	"Cost control",
	"Aesthetic depreciation rate",
}

// RatingTier is the short code of an investment rating.
type RatingTier string

const (
	TierAPlus RatingTier = "A+"
	TierA     RatingTier = "A"
	TierB     RatingTier = "B"
	TierC     RatingTier = "C"
)

// rank orders tiers so that C < B < A < A+.
func (t RatingTier) rank() int {
	switch t {
	case TierAPlus:
		return 3
	case TierA:
		return 2
	case TierB:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether t is the same tier as other or better.
func (t RatingTier) AtLeast(other RatingTier) bool {
	return t.rank() >= other.rank()
}

var tierLabels = map[RatingTier]string{
	TierAPlus: "A+ (core recommendation)",
	TierA:     "A (quality project)",
	TierB:     "B (stable project)",
	TierC:     "C (caution advised)",
}

// Label returns the display label of the tier.
func (t RatingTier) Label() string {
	return tierLabels[t]
}

// DimensionScore pairs a dimension with its 1-5 rating.
type DimensionScore struct {
	Dimension string `json:"dimension"`
	Rating    int    `json:"rating"`
}

// ScoreResult is the outcome of aggregating a full scorecard.
type ScoreResult struct {
	Average   float64          `json:"averageScore"`
	Tier      RatingTier       `json:"ratingTier"`
	Label     string           `json:"ratingLabel"`
	Scorecard []DimensionScore `json:"scorecard"`
}

// AverageDisplay renders the average with two decimals.
func (r *ScoreResult) AverageDisplay() string {
	return strconv.FormatFloat(r.Average, 'f', 2, 64)
}

// ClassifyRating maps an average score to its tier. Thresholds are checked
// from the top down and the average is never rounded beforehand.
func ClassifyRating(avg float64) RatingTier {
	switch {
	case avg >= 4.5:
		return TierAPlus
	case avg >= 4.0:
		return TierA
	case avg >= 3.0:
		return TierB
	default:
		return TierC
	}
}

// AggregateScores averages exactly twelve ratings given in Dimensions order.
func AggregateScores(ratings []int) (*ScoreResult, error) {
	if len(ratings) != DimensionCount {
		return nil, invalid("ratings", "expected %d ratings, got %d", DimensionCount, len(ratings))
	}

	scorecard := make([]DimensionScore, DimensionCount)
	sum := 0
	for i, r := range ratings {
		if r < MinRating || r > MaxRating {
			return nil, invalid(fmt.Sprintf("ratings[%d]", i), "rating %d outside [%d,%d]", r, MinRating, MaxRating)
		}
		scorecard[i] = DimensionScore{Dimension: Dimensions[i], Rating: r}
		sum += r
	}

	avg := float64(sum) / float64(DimensionCount)
	tier := ClassifyRating(avg)

	return &ScoreResult{
		Average:   avg,
		Tier:      tier,
		Label:     tier.Label(),
		Scorecard: scorecard,
	}, nil
}

// AggregateDimensionScores accepts a named scorecard in any order. Every
// dimension must be present exactly once.
func AggregateDimensionScores(scores []DimensionScore) (*ScoreResult, error) {
	if len(scores) != DimensionCount {
		return nil, invalid("scores", "expected %d dimension scores, got %d", DimensionCount, len(scores))
	}

	index := make(map[string]int, DimensionCount)
	for i, d := range Dimensions {
		index[d] = i
	}

	ratings := make([]int, DimensionCount)
	seen := make([]bool, DimensionCount)
	for _, s := range scores {
		i, ok := index[s.Dimension]
		if !ok {
			return nil, invalid("scores", "unknown dimension %q", s.Dimension)
		}
		if seen[i] {
			return nil, invalid("scores", "duplicate dimension %q", s.Dimension)
		}
		seen[i] = true
		ratings[i] = s.Rating
	}

	return AggregateScores(ratings)
}
