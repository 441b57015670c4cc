// Package metrics defines the Prometheus instruments exported at /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cineclass_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cineclass_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "endpoint"},
	)

	// Recommendation Metrics
	RecommendationRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cineclass_recommendation_runs_total",
			Help: "Recommendation runs by the matcher rung that produced the candidates",
		},
		[]string{"rung"},
	)

	RecommendationCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cineclass_recommendation_candidates",
			Help:    "Candidates left after history exclusion, per run",
			Buckets: []float64{0, 1, 5, 10, 30, 50, 100},
		},
	)

	QuizResultsRecorded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cineclass_quiz_results_recorded_total",
			Help: "Total number of quiz results appended to user histories",
		},
	)

	// Catalog Job Metrics
	JobItemsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cineclass_job_items_total",
			Help: "Items processed by catalog jobs by outcome",
		},
		[]string{"job", "outcome"}, // "stored", "skipped", "failed", "removed"
	)

	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cineclass_provider_requests_total",
			Help: "Metadata provider requests by outcome",
		},
		[]string{"outcome"}, // "ok", "retry", "error", "breaker_open"
	)
)

// RecordAPIRequest records one served request.
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordRecommendation records one scoring run.
func RecordRecommendation(rung string, candidates int) {
	RecommendationRuns.WithLabelValues(rung).Inc()
	RecommendationCandidates.Observe(float64(candidates))
}

// RecordJobItem counts one catalog job item.
func RecordJobItem(job, outcome string) {
	JobItemsTotal.WithLabelValues(job, outcome).Inc()
}

// RecordProviderRequest counts one metadata provider request.
func RecordProviderRequest(outcome string) {
	ProviderRequests.WithLabelValues(outcome).Inc()
}
