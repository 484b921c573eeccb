// Package monitoring provides Prometheus metrics for the service
package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	chatOutcomesTotal   *prometheus.CounterVec
	modelRequestsTotal  *prometheus.CounterVec
	indexRecipes        prometheus.Gauge
	cacheOpsTotal       *prometheus.CounterVec
}

// NewMetrics registers the service collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "souschef",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "souschef",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		chatOutcomesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "souschef",
				Name:      "chat_outcomes_total",
				Help:      "Chat turns by terminal outcome",
			},
			[]string{"outcome"},
		),
		modelRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "souschef",
				Name:      "model_requests_total",
				Help:      "Language model calls by purpose and result",
			},
			[]string{"purpose", "result"},
		),
		indexRecipes: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "souschef",
				Name:      "index_recipes",
				Help:      "Number of recipes in the published search index",
			},
		),
		cacheOpsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "souschef",
				Name:      "cache_operations_total",
				Help:      "Completion cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

// RecordHTTPRequest records one served HTTP request.
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	m.httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordChatOutcome records the terminal outcome of one chat turn.
func (m *Metrics) RecordChatOutcome(outcome string) {
	m.chatOutcomesTotal.WithLabelValues(outcome).Inc()
}

// RecordModelRequest records one language model call.
func (m *Metrics) RecordModelRequest(purpose string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.modelRequestsTotal.WithLabelValues(purpose, result).Inc()
}

// SetIndexSize records the size of the currently published index.
func (m *Metrics) SetIndexSize(n int) {
	m.indexRecipes.Set(float64(n))
}

// RecordCacheOp records a completion cache lookup result ("hit" or "miss").
func (m *Metrics) RecordCacheOp(result string) {
	m.cacheOpsTotal.WithLabelValues(result).Inc()
}
