// internal/workers/valuation/project-cash-flow/handler.go
package projectcashflow

import (
	"context"
	"fmt"
	"time"

	"artvaluation-workers/internal/common/cache"
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
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const TaskType = "project-cash-flow"

type Handler struct {
	config     *Config
	logger     logger.Logger
	cache      *cache.ResultCache
	obs        *observability.Observability
	errHandler *errors.ErrorHandler
}

type HandlerOptions struct {
	AppConfig     *config.Config
	CustomConfig  *Config
	Logger        logger.Logger
	Redis         *redis.Client
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

	var resultCache *cache.ResultCache
	if opts.Redis != nil {
		resultCache = cache.NewResultCache(opts.Redis, "valuation:"+TaskType, workerConfig.CacheTTL)
	}

	return &Handler{
		config:     workerConfig,
		logger:     loggerInstance,
		cache:      resultCache,
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

	h.logger.Info("Processing cash flow projection", map[string]interface{}{
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

	h.logger.Info("Cash flow projected", map[string]interface{}{
		"jobKey":      job.GetKey(),
		"artistId":    input.ArtistID,
		"horizon":     output.AssumptionsUsed.HorizonYears,
		"paybackYear": output.Projection.PaybackLabel,
		"cached":      output.Cached,
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

// Execute merges the overrides over the configured assumptions and projects
// the cash flow, consulting the result cache first. Cache failures are
// logged and never fail the job.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	assumptions := input.Assumptions.Apply(h.config.Assumptions)
	if err := assumptions.Validate(); err != nil {
		return nil, err
	}

	cacheKey := ""
	if h.cache.Enabled() {
		if key, err := h.cache.Key(assumptions); err == nil {
			cacheKey = key
			if cached, ok := h.lookup(ctx, key); ok {
				return cached, nil
			}
		}
	}

	_, span := h.obs.StartSpan(ctx, "project-cash-flow.compute",
		attribute.Int("valuation.horizon_years", assumptions.HorizonYears))
	projection, err := valuation.ProjectCashFlow(assumptions)
	span.End()
	if err != nil {
		return nil, err
	}
	metrics.RecordPayback(projection.Payback.Reached)

	output := &Output{
		Projection: ProjectionResult{
			Projection:   projection,
			PaybackLabel: projection.Payback.Label(),
		},
		AssumptionsUsed: assumptions,
	}

	if cacheKey != "" {
		if err := h.cache.Set(ctx, cacheKey, output); err != nil {
			h.warnCache("store", err)
		}
	}

	return output, nil
}

func (h *Handler) lookup(ctx context.Context, key string) (*Output, bool) {
	var cached Output
	hit, err := h.cache.Get(ctx, key, &cached)
	switch {
	case err != nil:
		h.warnCache("lookup", err)
		metrics.ValuationCacheLookups.WithLabelValues(TaskType, "error").Inc()
		return nil, false
	case !hit:
		metrics.ValuationCacheLookups.WithLabelValues(TaskType, "miss").Inc()
		return nil, false
	}
	metrics.ValuationCacheLookups.WithLabelValues(TaskType, "hit").Inc()
	cached.Cached = true
	return &cached, true
}

func (h *Handler) warnCache(op string, err error) {
	stdErr := errors.NewCacheUnavailableError(err)
	h.logger.Warn("Result cache "+op+" failed, continuing without cache", map[string]interface{}{
		"errorCode": string(stdErr.Code),
		"details":   stdErr.Details,
	})
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
		if appConfig.Valuation.CacheTTL > 0 {
			cfg.CacheTTL = appConfig.Valuation.CacheTTLDuration()
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
