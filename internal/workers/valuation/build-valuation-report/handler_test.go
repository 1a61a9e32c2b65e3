package buildvaluationreport

import (
	"context"
	"testing"
	"time"

	"artvaluation-workers/internal/common/camunda/camundatest"
	"artvaluation-workers/internal/common/config"
	"artvaluation-workers/internal/common/errors"
	"artvaluation-workers/internal/common/logger"
	"artvaluation-workers/internal/valuation"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

// ==========================
// Test Helpers
// ==========================

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	h, err := NewHandler(HandlerOptions{
		CustomConfig: DefaultConfig(),
		Logger:       logger.NewTestLogger(t),
		IDGenerator:  func() string { return "report-1" },
		Clock:        func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return h
}

func uniform(rating int) []int {
	out := make([]int, valuation.DimensionCount)
	for i := range out {
		out[i] = rating
	}
	return out
}

func ratingsVar(ratings []int) []interface{} {
	out := make([]interface{}, len(ratings))
	for i, r := range ratings {
		out[i] = r
	}
	return out
}

// ==========================
// Constructor & Config
// ==========================

func TestHandler_NewHandler_DefaultsToUUID(t *testing.T) {
	h, err := NewHandler(HandlerOptions{CustomConfig: DefaultConfig(), Logger: logger.NewNoOpLogger()})
	require.NoError(t, err)

	out, err := h.Execute(context.Background(), &Input{ArtistID: "a-1", Ratings: uniform(3)})
	require.NoError(t, err)

	_, err = uuid.Parse(out.ReportID)
	assert.NoError(t, err)
	assert.WithinDuration(t, time.Now(), out.GeneratedAt, time.Minute)
	assert.Equal(t, time.UTC, out.GeneratedAt.Location())
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	appCfg := &config.Config{
		Workers: map[string]config.WorkerConfig{
			TaskType: {Enabled: true, MaxJobsActive: 3, Timeout: 20000},
		},
		Valuation: config.ValuationConfig{
			Scenarios: []valuation.Scenario{{Label: "flat", Delta: 0}},
		},
	}

	cfg := createConfigFromAppConfig(appCfg, nil)
	assert.Equal(t, 3, cfg.MaxJobsActive)
	assert.Equal(t, 20*time.Second, cfg.Timeout)
	assert.Equal(t, valuation.DefaultAssumptions(), cfg.Assumptions)
	require.Len(t, cfg.Scenarios, 1)
	assert.Equal(t, "flat", cfg.Scenarios[0].Label)
}

// ==========================
// Execute
// ==========================

func TestHandler_Execute_ReferenceReport(t *testing.T) {
	h := newTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{ArtistID: "artist-9", Ratings: uniform(4)})
	require.NoError(t, err)

	assert.Equal(t, "report-1", out.ReportID)
	assert.Equal(t, "artist-9", out.ArtistID)
	assert.Equal(t, fixedNow, out.GeneratedAt)

	assert.Equal(t, valuation.TierA, out.Score.Tier)
	assert.Equal(t, "4.00", out.Score.AverageScoreDisplay)

	assert.Equal(t, valuation.DefaultAssumptions(), out.AssumptionsUsed)
	assert.Equal(t, "Year 4", out.Projection.PaybackLabel)
	assert.InDelta(t, 9.789312597091708, out.Projection.Years[4].Cumulative, 1e-9)

	require.Len(t, out.Sensitivity, 3)
	assert.Equal(t, out.Projection.RawRevenues(), valuation.ScenariosByLabel(out.Sensitivity)["baseline"])
	assert.Len(t, out.YearLabels, 5)
}

func TestHandler_Execute_SharedHorizon(t *testing.T) {
	h := newTestHandler(t)
	horizon := 7

	out, err := h.Execute(context.Background(), &Input{
		ArtistID:    "a-2",
		Ratings:     uniform(2),
		Assumptions: &valuation.AssumptionOverrides{HorizonYears: &horizon},
	})
	require.NoError(t, err)

	assert.Len(t, out.Projection.Years, 7)
	assert.Len(t, out.YearLabels, 7)
	for _, s := range out.Sensitivity {
		assert.Len(t, s.Revenues, 7, s.Label)
	}
}

func TestHandler_Execute_NoPartialReport(t *testing.T) {
	h := newTestHandler(t)
	growth := -1.0

	tests := []struct {
		name  string
		input *Input
		field string
	}{
		{
			name:  "missing scorecard",
			input: &Input{ArtistID: "a-3"},
		},
		{
			name:  "invalid growth",
			input: &Input{ArtistID: "a-3", Ratings: uniform(3), Assumptions: &valuation.AssumptionOverrides{AnnualGrowth: &growth}},
			field: "annual_growth",
		},
		{
			name:  "duplicate scenario labels",
			input: &Input{ArtistID: "a-3", Ratings: uniform(3), Scenarios: []valuation.Scenario{{Label: "x"}, {Label: "x"}}},
			field: "scenarios",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := h.Execute(context.Background(), tt.input)
			assert.Nil(t, out)
			require.Error(t, err)

			stdErr := h.errHandler.Normalize(err)
			assert.Equal(t, errors.ErrCodeInvalidInput, stdErr.Code)
			if tt.field != "" {
				assert.Equal(t, tt.field, stdErr.Metadata["invalidField"])
			}
		})
	}
}

// ==========================
// Handle
// ==========================

func TestHandler_Handle_CompletesJob(t *testing.T) {
	h := newTestHandler(t)
	client := camundatest.NewJobClient()

	h.Handle(client, camundatest.NewJob(51, TaskType, map[string]interface{}{
		"artistId": "artist-51",
		"ratings":  ratingsVar(uniform(5)),
		"scenarios": []interface{}{
			map[string]interface{}{"label": "bear", "delta": -0.1},
			map[string]interface{}{"label": "bull", "delta": 0.1},
		},
	}))

	completed := client.Gateway.Completed()
	require.Len(t, completed, 1)

	vars := camundatest.Variables(completed[0].Variables)
	assert.Equal(t, "report-1", vars["reportId"])
	assert.Equal(t, "2024-03-01T09:30:00Z", vars["generatedAt"])

	score := vars["score"].(map[string]interface{})
	assert.Equal(t, "A+", score["ratingTier"])
	assert.Equal(t, "5.00", score["averageScoreDisplay"])
	assert.Equal(t, float64(5), score["averageScore"])

	projection := vars["projection"].(map[string]interface{})
	assert.Equal(t, float64(4), projection["paybackYear"])
	assert.Equal(t, "Year 4", projection["paybackLabel"])

	sensitivity := vars["sensitivity"].([]interface{})
	require.Len(t, sensitivity, 2)
	assert.Equal(t, "bear", sensitivity[0].(map[string]interface{})["label"])
}

func TestHandler_Handle_MissingArtistID(t *testing.T) {
	h := newTestHandler(t)
	client := camundatest.NewJobClient()

	h.Handle(client, camundatest.NewJob(52, TaskType, map[string]interface{}{
		"ratings": ratingsVar(uniform(3)),
	}))

	assert.Empty(t, client.Gateway.Completed())
	thrown := client.Gateway.Thrown()
	require.Len(t, thrown, 1)
	assert.Equal(t, "INVALID_INPUT", thrown[0].ErrorCode)
}
