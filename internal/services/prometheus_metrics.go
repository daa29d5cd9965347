package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metric names accepted by PrometheusMetrics.
const (
	MetricDomainOperation     = "domain_operation"
	MetricAuthEvent           = "auth_event"
	MetricEventPublished      = "event_published"
	MetricDashboardBuild      = "dashboard_build"
	MetricExportBuild         = "export_build"
	MetricCircuitBreakerState = "circuit_breaker_state"
	MetricExpensesGenerated   = "expenses_generated"
)

type PrometheusMetrics struct {
	domainOperationsTotal *prometheus.CounterVec
	authEventsTotal       *prometheus.CounterVec
	eventsPublishedTotal  *prometheus.CounterVec
	dashboardBuildSeconds prometheus.Histogram
	exportBuildSeconds    prometheus.Histogram
	circuitBreakerState   *prometheus.GaugeVec
	generatedExpenses     prometheus.Counter
}

// NewPrometheusMetrics registers the domain collectors with reg. Pass
// prometheus.DefaultRegisterer to expose them on /metrics.
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		domainOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "domain_operations_total",
				Help: "Total number of successful domain writes by entity and operation",
			},
			[]string{"entity", "operation"},
		),
		authEventsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "auth_events_total",
				Help: "Total number of authentication events",
			},
			[]string{"event"},
		),
		eventsPublishedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "events_published_total",
				Help: "Total number of domain events handed to the broker by outcome",
			},
			[]string{"status"},
		),
		dashboardBuildSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dashboard_build_seconds",
				Help:    "Time spent loading and aggregating a monthly dashboard",
				Buckets: prometheus.DefBuckets,
			},
		),
		exportBuildSeconds: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "export_build_seconds",
				Help:    "Time spent building a monthly export",
				Buckets: prometheus.DefBuckets,
			},
		),
		circuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"service"},
		),
		generatedExpenses: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "generated_expenses_total",
				Help: "Total number of demo expenses generated",
			},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	switch name {
	case MetricDomainOperation:
		if entity, op := tags["entity"], tags["operation"]; entity != "" && op != "" {
			m.domainOperationsTotal.WithLabelValues(entity, op).Inc()
		}
	case MetricAuthEvent:
		if event := tags["event"]; event != "" {
			m.authEventsTotal.WithLabelValues(event).Inc()
		}
	case MetricEventPublished:
		if status := tags["status"]; status != "" {
			m.eventsPublishedTotal.WithLabelValues(status).Inc()
		}
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case MetricDashboardBuild:
		m.dashboardBuildSeconds.Observe(duration.Seconds())
	case MetricExportBuild:
		m.exportBuildSeconds.Observe(duration.Seconds())
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case MetricCircuitBreakerState:
		if service := tags["service"]; service != "" {
			m.circuitBreakerState.WithLabelValues(service).Set(value)
		}
	case MetricExpensesGenerated:
		m.generatedExpenses.Add(value)
	}
}
