package valuation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniformRatings(v int) []int {
	r := make([]int, DimensionCount)
	for i := range r {
		r[i] = v
	}
	return r
}

func TestAggregateScores_Tiers(t *testing.T) {
	tests := []struct {
		name         string
		ratings      []int
		expectedAvg  float64
		expectedTier RatingTier
		expectedText string
	}{
		{
			name:         "all ones",
			ratings:      uniformRatings(1),
			expectedAvg:  1.0,
			expectedTier: TierC,
			expectedText: "C (caution advised)",
		},
		{
			name:         "all fives",
			ratings:      uniformRatings(5),
			expectedAvg:  5.0,
			expectedTier: TierAPlus,
			expectedText: "A+ (core recommendation)",
		},
		{
			name:         "slider defaults",
			ratings:      uniformRatings(3),
			expectedAvg:  3.0,
			expectedTier: TierB,
			expectedText: "B (stable project)",
		},
		{
			name:         "exactly four",
			ratings:      uniformRatings(4),
			expectedAvg:  4.0,
			expectedTier: TierA,
			expectedText: "A (quality project)",
		},
		{
			name:         "exactly four and a half",
			ratings:      []int{5, 5, 5, 5, 5, 5, 4, 4, 4, 4, 4, 4},
			expectedAvg:  4.5,
			expectedTier: TierAPlus,
			expectedText: "A+ (core recommendation)",
		},
		{
			name:         "just below four and a half",
			ratings:      []int{5, 5, 5, 5, 5, 4, 4, 4, 4, 4, 4, 4},
			expectedAvg:  53.0 / 12.0,
			expectedTier: TierA,
			expectedText: "A (quality project)",
		},
		{
			name:         "just below three",
			ratings:      []int{3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 2},
			expectedAvg:  35.0 / 12.0,
			expectedTier: TierC,
			expectedText: "C (caution advised)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := AggregateScores(tt.ratings)
			require.NoError(t, err)

			assert.InDelta(t, tt.expectedAvg, result.Average, 1e-9)
			assert.Equal(t, tt.expectedTier, result.Tier)
			assert.Equal(t, tt.expectedText, result.Label)
			assert.Len(t, result.Scorecard, DimensionCount)
		})
	}
}

func TestAggregateScores_AverageIsExactMean(t *testing.T) {
	ratings := []int{1, 2, 3, 4, 5, 1, 2, 3, 4, 5, 3, 2}
	sum := 0
	for _, r := range ratings {
		sum += r
	}

	result, err := AggregateScores(ratings)
	require.NoError(t, err)
	assert.InDelta(t, float64(sum)/12, result.Average, 1e-9)
	assert.Equal(t, "2.92", result.AverageDisplay())
}

func TestAggregateScores_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		field   string
	}{
		{name: "empty", ratings: nil, field: "ratings"},
		{name: "eleven ratings", ratings: uniformRatings(3)[:11], field: "ratings"},
		{name: "thirteen ratings", ratings: append(uniformRatings(3), 3), field: "ratings"},
		{name: "zero rating", ratings: []int{3, 3, 3, 0, 3, 3, 3, 3, 3, 3, 3, 3}, field: "ratings[3]"},
		{name: "six rating", ratings: []int{3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 6}, field: "ratings[11]"},
		{name: "negative rating", ratings: []int{-1, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3, 3}, field: "ratings[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := AggregateScores(tt.ratings)
			assert.Nil(t, result)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))

			var inputErr *InputError
			require.True(t, errors.As(err, &inputErr))
			assert.Equal(t, tt.field, inputErr.Field)
		})
	}
}

func TestAggregateScores_TierMonotonic(t *testing.T) {
	// Raising any single rating must never lower the tier.
	for base := MinRating; base < MaxRating; base++ {
		ratings := uniformRatings(base)
		for i := 0; i < DimensionCount; i++ {
			before, err := AggregateScores(ratings)
			require.NoError(t, err)

			raised := append([]int(nil), ratings...)
			raised[i]++
			after, err := AggregateScores(raised)
			require.NoError(t, err)

			assert.True(t, after.Tier.AtLeast(before.Tier), "base=%d index=%d", base, i)
			ratings = raised
		}
	}
}

func TestAggregateDimensionScores(t *testing.T) {
	t.Run("any order maps to display order", func(t *testing.T) {
		scores := make([]DimensionScore, DimensionCount)
		for i, d := range Dimensions {
			scores[DimensionCount-1-i] = DimensionScore{Dimension: d, Rating: (i % 5) + 1}
		}

		result, err := AggregateDimensionScores(scores)
		require.NoError(t, err)
		for i, s := range result.Scorecard {
			assert.Equal(t, Dimensions[i], s.Dimension)
			assert.Equal(t, (i%5)+1, s.Rating)
		}
	})

	t.Run("unknown dimension", func(t *testing.T) {
		scores := ScoresFromRatings(uniformRatings(3))
		scores[4].Dimension = "Popularity"

		_, err := AggregateDimensionScores(scores)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "Popularity")
	})

	t.Run("duplicate dimension", func(t *testing.T) {
		scores := ScoresFromRatings(uniformRatings(3))
		scores[1].Dimension = scores[0].Dimension

		_, err := AggregateDimensionScores(scores)
		assert.ErrorIs(t, err, ErrInvalidInput)
		assert.Contains(t, err.Error(), "duplicate")
	})

	t.Run("missing dimension", func(t *testing.T) {
		_, err := AggregateDimensionScores(ScoresFromRatings(uniformRatings(3))[:10])
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestClassifyRating_Boundaries(t *testing.T) {
	assert.Equal(t, TierAPlus, ClassifyRating(4.5))
	assert.Equal(t, TierA, ClassifyRating(4.4999999))
	assert.Equal(t, TierA, ClassifyRating(4.0))
	assert.Equal(t, TierB, ClassifyRating(3.9999999))
	assert.Equal(t, TierB, ClassifyRating(3.0))
	assert.Equal(t, TierC, ClassifyRating(2.9999999))
}
