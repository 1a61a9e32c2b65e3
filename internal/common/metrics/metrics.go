// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WorkerJobsCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_completed_total",
			Help: "Total number of jobs completed by worker",
		},
		[]string{"task_type"},
	)

	WorkerJobsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worker_jobs_failed_total",
			Help: "Total number of jobs failed by worker",
		},
		[]string{"task_type", "error_code"},
	)

	WorkerJobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "worker_job_duration_seconds",
			Help: "Duration of job processing in seconds",
		},
		[]string{"task_type"},
	)

	WorkerJobsActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "worker_jobs_active",
			Help: "Number of active jobs per worker",
		},
		[]string{"task_type"},
	)

	// ValuationRatings counts aggregated scorecards by tier.
	ValuationRatings = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "valuation_ratings_total",
			Help: "Total number of artist scorecards aggregated, by rating tier",
		},
		[]string{"tier"},
	)

	// ValuationPayback counts projections by whether payback was reached.
	ValuationPayback = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "valuation_projections_total",
			Help: "Total number of cash flow projections, by payback outcome",
		},
		[]string{"payback"},
	)

	ValuationCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "valuation_cache_lookups_total",
			Help: "Result cache lookups by task type and outcome (hit, miss, error)",
		},
		[]string{"task_type", "result"},
	)
)

// RecordPayback increments the projection counter for the given outcome.
func RecordPayback(reached bool) {
	if reached {
		ValuationPayback.WithLabelValues("reached").Inc()
		return
	}
	ValuationPayback.WithLabelValues("not_reached").Inc()
}
