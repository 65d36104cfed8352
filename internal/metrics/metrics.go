// Package metrics defines the Prometheus instrumentation for the
// sentiment analysis pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalyzeRequestsTotal tracks analyze requests by backend and outcome.
	AnalyzeRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyze_requests_total",
			Help: "Total analyze requests by scoring backend and status",
		},
		[]string{"backend", "status"},
	)

	// BackendCallDuration tracks scoring backend call latency in seconds.
	BackendCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scoring_backend_duration_seconds",
			Help:    "Scoring backend call duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20},
		},
		[]string{"backend"},
	)

	// BackendFallbacksTotal counts fallbacks to the lexicon scorer.
	BackendFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scoring_backend_fallbacks_total",
			Help: "Fallbacks to the lexicon scorer by failed backend",
		},
		[]string{"backend"},
	)

	// LedgerWritesTotal tracks ledger publish attempts by outcome.
	LedgerWritesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ledger_writes_total",
			Help: "Total ledger write attempts by status",
		},
		[]string{"status"},
	)

	// LedgerWriteDuration tracks ledger write latency in seconds.
	LedgerWriteDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ledger_write_duration_seconds",
			Help:    "Ledger write duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
	)

	// ClassifierBreakerState tracks the classifier circuit breaker state
	// (0=closed, 1=half-open, 2=open).
	ClassifierBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "classifier_circuit_breaker_state",
			Help: "Classifier circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)

	// PublishedVibeScore exposes the last published score per topic.
	PublishedVibeScore = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "published_vibe_score",
			Help: "Last published vibe score (0-100) per topic",
		},
		[]string{"topic"},
	)
)
