package services

import (
	"context"

	"finance-tracker/internal/events"

	"github.com/google/uuid"
)

const (
	EntityCategory     = "category"
	EntityExpense      = "expense"
	EntitySubscription = "subscription"

	OperationCreate = "create"
	OperationUpdate = "update"
	OperationDelete = "delete"
)

// activityRecorder fans a successful domain write out to the activity log,
// the operation counter and the event publisher.
type activityRecorder struct {
	publisher   EventPublisherInterface
	auditLogger AuditLoggerInterface
	metrics     MetricsRecorderInterface
}

func (r activityRecorder) created(ctx context.Context, entity string, eventType events.Type, entityID, userID uuid.UUID, payload map[string]any) {
	r.auditLogger.LogEntityCreated(ctx, entity, entityID, userID)
	r.count(entity, OperationCreate)
	r.publisher.Publish(ctx, events.New(eventType, userID, entityID, payload))
}

func (r activityRecorder) updated(ctx context.Context, entity string, eventType events.Type, entityID, userID uuid.UUID, fields []string, payload map[string]any) {
	r.auditLogger.LogEntityUpdated(ctx, entity, entityID, userID, fields)
	r.count(entity, OperationUpdate)
	r.publisher.Publish(ctx, events.New(eventType, userID, entityID, payload))
}

func (r activityRecorder) deleted(ctx context.Context, entity string, eventType events.Type, entityID, userID uuid.UUID) {
	r.auditLogger.LogEntityDeleted(ctx, entity, entityID, userID)
	r.count(entity, OperationDelete)
	r.publisher.Publish(ctx, events.New(eventType, userID, entityID, nil))
}

func (r activityRecorder) count(entity, operation string) {
	r.metrics.IncrementCounter(MetricDomainOperation, map[string]string{"entity": entity, "operation": operation})
}
