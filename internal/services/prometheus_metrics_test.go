package services

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusMetrics_Counters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetrics(reg)

	m.IncrementCounter(MetricDomainOperation, map[string]string{"entity": "expense", "operation": "create"})
	m.IncrementCounter(MetricDomainOperation, map[string]string{"entity": "expense", "operation": "create"})
	m.IncrementCounter(MetricDomainOperation, map[string]string{"entity": "expense"})
	m.IncrementCounter(MetricAuthEvent, map[string]string{"event": "login"})
	m.IncrementCounter(MetricEventPublished, map[string]string{"status": "failed"})
	m.IncrementCounter("unknown", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.domainOperationsTotal.WithLabelValues("expense", "create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.authEventsTotal.WithLabelValues("login")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsPublishedTotal.WithLabelValues("failed")))
}

func TestPrometheusMetrics_GaugesAndHistograms(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetrics(reg)

	m.RecordGauge(MetricCircuitBreakerState, float64(StateOpen), map[string]string{"service": "amqp"})
	m.RecordGauge(MetricExpensesGenerated, 25, nil)
	m.RecordProcessingTime(MetricDashboardBuild, 20*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.circuitBreakerState.WithLabelValues("amqp")))
	assert.Equal(t, 25.0, testutil.ToFloat64(m.generatedExpenses))

	count, err := testutil.GatherAndCount(reg, "dashboard_build_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewPrometheusMetrics_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		NewPrometheusMetrics(prometheus.NewRegistry())
		NewPrometheusMetrics(prometheus.NewRegistry())
	})
}
