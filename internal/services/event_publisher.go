package services

import (
	"context"

	"finance-tracker/internal/events"
)

const eventBrokerService = "event_broker"

// GuardedPublisher sends domain events through a circuit breaker. A broker
// outage is logged and counted but never fails the write that raised the event.
type GuardedPublisher struct {
	publisher   events.Publisher
	breaker     CircuitBreakerInterface
	metrics     MetricsRecorderInterface
	auditLogger AuditLoggerInterface
}

func NewGuardedPublisher(
	publisher events.Publisher,
	breaker CircuitBreakerInterface,
	metrics MetricsRecorderInterface,
	auditLogger AuditLoggerInterface,
) *GuardedPublisher {
	return &GuardedPublisher{
		publisher:   publisher,
		breaker:     breaker,
		metrics:     metrics,
		auditLogger: auditLogger,
	}
}

func (p *GuardedPublisher) Publish(ctx context.Context, event events.Event) {
	before := p.breaker.GetState()

	if p.breaker.IsOpen() {
		p.auditLogger.LogEventPublishSkipped(ctx, event.ID, string(event.Type))
		p.metrics.IncrementCounter(MetricEventPublished, map[string]string{"status": "skipped"})
		return
	}

	if err := p.publisher.Publish(ctx, event); err != nil {
		p.breaker.RecordFailure()
		p.auditLogger.LogEventPublishFailed(ctx, event.ID, string(event.Type), err.Error())
		p.metrics.IncrementCounter(MetricEventPublished, map[string]string{"status": "failed"})
	} else {
		p.breaker.RecordSuccess()
		p.metrics.IncrementCounter(MetricEventPublished, map[string]string{"status": "published"})
	}

	if after := p.breaker.GetState(); after != before {
		p.auditLogger.LogCircuitBreakerStateChange(ctx, eventBrokerService, before.String(), after.String())
		p.metrics.RecordGauge(MetricCircuitBreakerState, float64(after), map[string]string{"service": eventBrokerService})
	}
}

func (p *GuardedPublisher) Close() error {
	return p.publisher.Close()
}
