// internal/workers/valuation/build-valuation-report/handler.go
package buildvaluationreport

import (
	"context"
	"fmt"
	"time"

	"artvaluation-workers/internal/common/camunda"
	"artvaluation-workers/internal/common/config"
	"artvaluation-workers/internal/common/errors"
	"artvaluation-workers/internal/common/logger"
	"artvaluation-workers/internal/common/metrics"
	"artvaluation-workers/internal/common/observability"
	"artvaluation-workers/internal/valuation"
	"artvaluation-workers/internal/workers/valuation/jobinput"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const TaskType = "build-valuation-report"

type Handler struct {
	config     *Config
	logger     logger.Logger
	obs        *observability.Observability
	errHandler *errors.ErrorHandler
	newID      func() string
	now        func() time.Time
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Logger        logger.Logger
	Observability *observability.Observability
	// IDGenerator and Clock default to uuid.NewString and time.Now.
	IDGenerator func() string
	Clock       func() time.Time
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json")
	}
	loggerInstance = loggerInstance.WithFields(map[string]interface{}{"taskType": TaskType})

	newID := opts.IDGenerator
	if newID == nil {
		newID = uuid.NewString
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}

	return &Handler{
		config:     workerConfig,
		logger:     loggerInstance,
		obs:        opts.Observability,
		errHandler: errors.NewErrorHandler(loggerInstance, TaskType, jobinput.Classify),
		newID:      newID,
		now:        now,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	ctx, span := h.obs.StartSpan(ctx, TaskType, attribute.Int64("job.key", job.GetKey()))
	defer span.End()

	h.logger.Info("Building valuation report", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	input, err := h.parseInput(job)
	if err != nil {
		h.failJob(ctx, client, job, span, err, startTime)
		return
	}

	output, err := h.Execute(ctx, input)
	if err != nil {
		h.failJob(ctx, client, job, span, err, startTime)
		return
	}
	span.SetAttributes(attribute.String("valuation.report_id", output.ReportID))

	if err := camunda.CompleteJob(ctx, client, job, output); err != nil {
		span.RecordError(err)
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err,
		})
		return
	}

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
	h.obs.RecordJobProcessed(ctx, TaskType, "success")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), "success")

	h.logger.Info("Valuation report built", map[string]interface{}{
		"jobKey":     job.GetKey(),
		"reportId":   output.ReportID,
		"artistId":   output.ArtistID,
		"ratingTier": output.Score.Tier,
		"payback":    output.Projection.PaybackLabel,
	})
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewInputParsingFailedError(err)
	}

	result := GetInputSchema().ValidateInput(variables)
	if !result.Valid {
		return nil, errors.NewValidationFailedError(result.GetErrorMessages())
	}

	var input Input
	if err := jobinput.Decode(variables, &input); err != nil {
		return nil, err
	}
	return &input, nil
}

// Execute evaluates the scorecard, the projection and the sensitivity
// scenarios against one merged assumption set. Nothing is returned unless
// every part succeeds.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	scorecard, err := jobinput.Scorecard(input.Scores, input.Ratings)
	if err != nil {
		return nil, err
	}

	assumptions := input.Assumptions.Apply(h.config.Assumptions)
	scenarios := h.config.Scenarios
	if len(input.Scenarios) > 0 {
		scenarios = input.Scenarios
	}

	_, span := h.obs.StartSpan(ctx, "build-valuation-report.evaluate",
		attribute.Int("valuation.horizon_years", assumptions.HorizonYears),
		attribute.Int("valuation.scenarios", len(scenarios)))
	evaluation, err := valuation.Evaluate(scorecard, assumptions, scenarios)
	if err != nil {
		span.RecordError(err)
		span.End()
		return nil, err
	}
	span.End()

	metrics.ValuationRatings.WithLabelValues(string(evaluation.Score.Tier)).Inc()
	metrics.RecordPayback(evaluation.Projection.Payback.Reached)

	labels := make([]string, assumptions.HorizonYears)
	for i := range labels {
		labels[i] = valuation.YearLabel(i + 1)
	}

	return &Output{
		ReportID:    h.newID(),
		ArtistID:    input.ArtistID,
		GeneratedAt: h.now().UTC(),
		Score: ScoreSummary{
			ScoreResult:         evaluation.Score,
			AverageScoreDisplay: evaluation.Score.AverageDisplay(),
		},
		AssumptionsUsed: evaluation.Assumptions,
		Projection: ProjectionSummary{
			Projection:   evaluation.Projection,
			PaybackLabel: evaluation.Projection.Payback.Label(),
		},
		YearLabels:  labels,
		Sensitivity: evaluation.Sensitivity,
	}, nil
}

func (h *Handler) failJob(ctx context.Context, client worker.JobClient, job entities.Job, span trace.Span, err error, startTime time.Time) {
	stdErr := h.errHandler.HandleJobError(ctx, client, job, err)

	span.RecordError(err)
	span.SetStatus(codes.Error, string(stdErr.Code))

	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.obs.RecordJobProcessed(ctx, TaskType, "failed")
	h.obs.RecordJobDuration(ctx, TaskType, time.Since(startTime), "failed")
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()

	if appConfig != nil {
		if appConfig.Valuation.Assumptions != (valuation.Assumptions{}) {
			cfg.Assumptions = appConfig.Valuation.Assumptions
		}
		if len(appConfig.Valuation.Scenarios) > 0 {
			cfg.Scenarios = appConfig.Valuation.Scenarios
		}

		if workerCfg, exists := appConfig.Workers[TaskType]; exists {
			cfg.Enabled = workerCfg.Enabled
			if workerCfg.MaxJobsActive > 0 {
				cfg.MaxJobsActive = workerCfg.MaxJobsActive
			}
			if workerCfg.Timeout > 0 {
				cfg.Timeout = config.GetDuration(workerCfg.Timeout)
			}
		}
	}

	return cfg
}
