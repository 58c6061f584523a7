package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/kirillkom/sentiment-analyzer/internal/core/domain"
)

// AnalysisMetrics implements ports.AnalysisObserver on a prometheus registry.
type AnalysisMetrics struct {
	service string

	analysesTotal  *prometheus.CounterVec
	fallbacksTotal *prometheus.CounterVec
	batchItems     *prometheus.HistogramVec
	remoteDuration *prometheus.HistogramVec
	breakerOpen    *prometheus.GaugeVec
}

func NewAnalysisMetrics(registry prometheus.Registerer, service string) *AnalysisMetrics {
	analysesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Completed analyses by scoring method and sentiment.",
		},
		[]string{"service", "method", "sentiment"},
	)
	fallbacksTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Analyses that fell back to the local scorer, by reason.",
		},
		[]string{"service", "reason"},
	)
	batchItems := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_items",
			Help:      "Distribution of items per batch request.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		},
		[]string{"service"},
	)
	remoteDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_duration_seconds",
			Help:      "Remote model call duration in seconds by outcome.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		},
		[]string{"service", "outcome"},
	)
	breakerOpen := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_open",
			Help:      "1 while the circuit breaker of an operation is open.",
		},
		[]string{"service", "operation"},
	)

	registry.MustRegister(analysesTotal, fallbacksTotal, batchItems, remoteDuration, breakerOpen)

	return &AnalysisMetrics{
		service:        service,
		analysesTotal:  analysesTotal,
		fallbacksTotal: fallbacksTotal,
		batchItems:     batchItems,
		remoteDuration: remoteDuration,
		breakerOpen:    breakerOpen,
	}
}

func (m *AnalysisMetrics) ObserveAnalysis(method domain.Method, sentiment domain.Sentiment) {
	m.analysesTotal.WithLabelValues(m.service, string(method), string(sentiment)).Inc()
}

func (m *AnalysisMetrics) ObserveFallback(reason string) {
	if reason == "" {
		reason = "unknown"
	}
	m.fallbacksTotal.WithLabelValues(m.service, reason).Inc()
}

func (m *AnalysisMetrics) ObserveRemoteCall(duration time.Duration, err error) {
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, context.DeadlineExceeded):
		outcome = "timeout"
	default:
		outcome = "error"
	}
	m.remoteDuration.WithLabelValues(m.service, outcome).Observe(duration.Seconds())
}

func (m *AnalysisMetrics) ObserveBatch(size int) {
	m.batchItems.WithLabelValues(m.service).Observe(float64(size))
}

// ObserveBreakerState matches resilience.StateListener.
func (m *AnalysisMetrics) ObserveBreakerState(operation string, open bool) {
	value := 0.0
	if open {
		value = 1
	}
	m.breakerOpen.WithLabelValues(m.service, operation).Set(value)
}
