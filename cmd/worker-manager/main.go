// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"artvaluation-workers/internal/common/cache"
	"artvaluation-workers/internal/common/camunda"
	"artvaluation-workers/internal/common/config"
	"artvaluation-workers/internal/common/logger"
	"artvaluation-workers/internal/common/observability"
	"artvaluation-workers/pkg/registry"

	aas "artvaluation-workers/internal/workers/valuation/aggregate-artist-score"
	ags "artvaluation-workers/internal/workers/valuation/analyze-growth-sensitivity"
	bvr "artvaluation-workers/internal/workers/valuation/build-valuation-report"
	pcf "artvaluation-workers/internal/workers/valuation/project-cash-flow"
)

type registration struct {
	taskType string
	enabled  bool
	handler  camunda.JobHandler
}

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("info", "console")
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Zeebe ---
	zeebe, err := camunda.NewClientWithConfig(ctx, camunda.ConfigFromApp(cfg.Camunda))
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	defer zeebe.Close()
	zapLog.Info("Zeebe client connected successfully", zap.String("gateway", cfg.Camunda.BrokerAddress))

	// --- Redis (optional result cache) ---
	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		redisClient := cache.NewRedis(cfg.Redis)
		err = retryWithBackoff(func() error {
			return redisClient.Ping(ctx)
		}, 3, time.Second, zapLog, "Redis connection")

		if err != nil {
			zapLog.Warn("redis unavailable, running without result cache", zap.Error(err))
			_ = redisClient.Close()
		} else {
			defer redisClient.Close()
			rdb = redisClient.Client
			zapLog.Info("Redis connected successfully", zap.String("address", cfg.Redis.Address))
		}
	} else {
		zapLog.Info("redis.address not set, result cache disabled")
	}

	// --- Handlers ---
	scoreHandler, err := aas.NewHandler(aas.HandlerOptions{
		AppConfig:     cfg,
		Logger:        log,
		Observability: obs,
	})
	if err != nil {
		zapLog.Fatal("failed to create aggregate-artist-score handler", zap.Error(err))
	}

	projectionHandler, err := pcf.NewHandler(pcf.HandlerOptions{
		AppConfig:     cfg,
		Logger:        log,
		Redis:         rdb,
		Observability: obs,
	})
	if err != nil {
		zapLog.Fatal("failed to create project-cash-flow handler", zap.Error(err))
	}

	sensitivityHandler, err := ags.NewHandler(ags.HandlerOptions{
		AppConfig:     cfg,
		Logger:        log,
		Redis:         rdb,
		Observability: obs,
	})
	if err != nil {
		zapLog.Fatal("failed to create analyze-growth-sensitivity handler", zap.Error(err))
	}

	reportHandler, err := bvr.NewHandler(bvr.HandlerOptions{
		AppConfig:     cfg,
		Logger:        log,
		Observability: obs,
	})
	if err != nil {
		zapLog.Fatal("failed to create build-valuation-report handler", zap.Error(err))
	}

	registrations := []registration{
		{aas.TaskType, scoreHandler.GetConfig().Enabled, scoreHandler},
		{pcf.TaskType, projectionHandler.GetConfig().Enabled, projectionHandler},
		{ags.TaskType, sensitivityHandler.GetConfig().Enabled, sensitivityHandler},
		{bvr.TaskType, reportHandler.GetConfig().Enabled, reportHandler},
	}

	checkRegistry(cfg.Registry.Path, registrations, zapLog)

	// --- Workers ---
	var workers []*camunda.CamundaWorker
	for _, r := range registrations {
		if !r.enabled {
			zapLog.Info("worker disabled", zap.String("taskType", r.taskType))
			continue
		}
		wcfg := config.GetWorkerConfig(cfg, r.taskType)
		workers = append(workers, camunda.NewWorker(zeebe.GetClient(), r.taskType, wcfg, r.handler, zapLog))
	}
	zapLog.Info("Workers registered", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           newMux(zeebe),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		zapLog.Info("Health/Metrics server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}

	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error stopping Health/Metrics server", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

// checkRegistry warns about enabled workers missing from the activity
// registry. A missing or invalid registry never blocks startup.
func checkRegistry(path string, registrations []registration, log *zap.Logger) {
	reg, err := registry.LoadRegistry(path)
	if err != nil {
		log.Warn("activity registry not loaded", zap.String("path", path), zap.Error(err))
		return
	}
	if err := reg.Validate(); err != nil {
		log.Warn("activity registry invalid", zap.String("path", path), zap.Error(err))
		return
	}

	for _, r := range registrations {
		if !r.enabled {
			continue
		}
		activity, ok := reg.FindByTaskType(r.taskType)
		if !ok {
			log.Warn("worker task type not in activity registry", zap.String("taskType", r.taskType))
			continue
		}
		log.Debug("worker registered in activity registry",
			zap.String("taskType", r.taskType),
			zap.String("activityVersion", activity.Version),
			zap.String("status", activity.ImplementationStatus),
		)
	}
}

func newMux(zeebe *camunda.Client) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, "healthy", "")
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := zeebe.HealthCheck(ctx); err != nil {
			writeStatus(w, http.StatusServiceUnavailable, "not ready", err.Error())
			return
		}
		writeStatus(w, http.StatusOK, "ready", "")
	})
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func writeStatus(w http.ResponseWriter, code int, status, detail string) {
	body := map[string]string{
		"status": status,
		"time":   time.Now().Format(time.RFC3339),
	}
	if detail != "" {
		body["error"] = detail
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
