// Package metrics holds the Prometheus instrumentation for crawls and
// pipeline stages.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PagesFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "answer_trust_pages_total",
			Help: "Pages attempted by the crawler",
		},
		[]string{"parser", "outcome"}, // outcome: fetched, failed, blocked
	)

	RenderFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "answer_trust_render_fallbacks_total",
			Help: "Headless render failures that fell back to static fetch",
		},
		[]string{"engine", "reason"}, // reason: error, empty, circuit_open
	)

	RendererCircuitState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "answer_trust_renderer_circuit_state",
			Help: "Renderer circuit breaker state (0 closed, 1 open, 2 half-open)",
		},
		[]string{"engine"},
	)

	CrawlDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "answer_trust_crawl_duration_seconds",
			Help:    "Wall time of a site crawl",
			Buckets: []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
	)

	StageOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "answer_trust_stage_outcomes_total",
			Help: "Terminal outcome per pipeline stage",
		},
		[]string{"stage", "outcome"}, // outcome: pass, fail, accept, downgrade, reject, error, ...
	)

	EntityConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "answer_trust_entity_confidence",
			Help:    "Distribution of computed entity confidence scores",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		},
	)

	DriftSimilarity = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "answer_trust_drift_similarity",
			Help:    "Similarity between captured AI outputs and canonical answers",
			Buckets: []float64{0.3, 0.5, 0.7, 0.8, 0.9, 0.95, 1},
		},
		[]string{"source"},
	)
)

// ObserveCrawl records a crawl that started at start.
func ObserveCrawl(start time.Time) {
	CrawlDuration.Observe(time.Since(start).Seconds())
}

// Stage increments the outcome counter for stage.
func Stage(stage, outcome string) {
	StageOutcomes.WithLabelValues(stage, outcome).Inc()
}
