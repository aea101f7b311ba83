// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, route and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barnsbot_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures response time. Buckets reach into tens of
	// seconds because uploads and model calls are slow.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "barnsbot_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"method", "path"},
	)

	// IngestedFilesTotal counts processed files by result (added or failed).
	IngestedFilesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barnsbot_ingested_files_total",
			Help: "Files processed by the ingest pipeline",
		},
		[]string{"result"},
	)

	// AnswersTotal counts questions by outcome.
	AnswersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "barnsbot_answers_total",
			Help: "Questions answered, by outcome",
		},
		[]string{"outcome"},
	)
)

// RecordIngest adds a batch's counts.
func RecordIngest(added, failed int) {
	IngestedFilesTotal.WithLabelValues("added").Add(float64(added))
	IngestedFilesTotal.WithLabelValues("failed").Add(float64(failed))
}

// RecordAnswer counts one answer with the given outcome.
func RecordAnswer(outcome string) {
	AnswersTotal.WithLabelValues(outcome).Inc()
}
