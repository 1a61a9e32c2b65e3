// internal/workers/valuation/aggregate-artist-score/handler.go
package aggregateartistscore

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
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const TaskType = "aggregate-artist-score"

type Handler struct {
	config     *Config
	logger     logger.Logger
	obs        *observability.Observability
	errHandler *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Logger        logger.Logger
	Observability *observability.Observability
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

	return &Handler{
		config:     workerConfig,
		logger:     loggerInstance,
		obs:        opts.Observability,
		errHandler: errors.NewErrorHandler(loggerInstance, TaskType, jobinput.Classify),
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

	h.logger.Info("Processing artist score aggregation", map[string]interface{}{
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

	h.logger.Info("Artist score aggregated", map[string]interface{}{
		"jobKey":       job.GetKey(),
		"artistId":     input.ArtistID,
		"averageScore": output.AverageScoreDisplay,
		"ratingTier":   output.RatingTier,
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

// Execute aggregates the scorecard. A named scorecard takes precedence over
// positional ratings.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	_, span := h.obs.StartSpan(ctx, "aggregate-scores")
	defer span.End()

	var (
		result *valuation.ScoreResult
		err    error
	)
	if len(input.Scores) > 0 {
		result, err = valuation.AggregateDimensionScores(input.Scores)
	} else {
		result, err = valuation.AggregateScores(input.Ratings)
	}
	if err != nil {
		return nil, err
	}

	metrics.ValuationRatings.WithLabelValues(string(result.Tier)).Inc()
	span.SetAttributes(attribute.String("valuation.tier", string(result.Tier)))

	return &Output{
		ArtistID:            input.ArtistID,
		AverageScore:        result.Average,
		AverageScoreDisplay: result.AverageDisplay(),
		RatingTier:          result.Tier,
		RatingLabel:         result.Label,
		Scorecard:           result.Scorecard,
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
