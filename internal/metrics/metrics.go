// Package metrics provides Prometheus metrics for the acquisition pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RunsTotal counts Acquire runs by outcome.
	RunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsagent",
			Name:      "acquire_runs_total",
			Help:      "Total number of acquisition runs",
		},
		[]string{"category", "status"},
	)

	// CandidatesTotal counts attempted candidates by outcome.
	CandidatesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsagent",
			Name:      "candidates_total",
			Help:      "Total number of attempted headline candidates",
		},
		[]string{"category", "outcome"},
	)

	// HeadlineBatchSize observes how many headlines each upstream call returned.
	HeadlineBatchSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "newsagent",
			Name:      "headline_batch_size",
			Help:      "Distribution of headline batch sizes",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		},
		[]string{"source"},
	)

	// CacheLookupsTotal counts content cache lookups.
	CacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsagent",
			Name:      "content_cache_lookups_total",
			Help:      "Content cache lookups by result",
		},
		[]string{"result"},
	)

	// SummariesTotal counts summaries by the strategy that produced them.
	SummariesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "newsagent",
			Name:      "summaries_total",
			Help:      "Summaries produced by strategy",
		},
		[]string{"strategy"},
	)

	// RunDuration measures Acquire duration.
	RunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "newsagent",
			Name:      "acquire_duration_seconds",
			Help:      "Duration of acquisition runs in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"category"},
	)
)

// RecordRun records a finished acquisition run.
func RecordRun(category, status string, seconds float64) {
	RunsTotal.WithLabelValues(category, status).Inc()
	RunDuration.WithLabelValues(category).Observe(seconds)
}

// RecordCandidate records the outcome of one candidate.
func RecordCandidate(category, outcome string) {
	CandidatesTotal.WithLabelValues(category, outcome).Inc()
}

// RecordBatch records an upstream headline batch.
func RecordBatch(source string, size int) {
	HeadlineBatchSize.WithLabelValues(source).Observe(float64(size))
}

// RecordCacheLookup records a cache hit or miss.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordSummary records which strategy produced a summary.
func RecordSummary(strategy string) {
	SummariesTotal.WithLabelValues(strategy).Inc()
}
