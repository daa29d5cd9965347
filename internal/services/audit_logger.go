package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) AuditLoggerInterface {
	return &AuditLogger{
		logger: logger,
	}
}

func (al *AuditLogger) LogEntityCreated(ctx context.Context, entity string, entityID, userID uuid.UUID) {
	al.logger.InfoContext(ctx, entity+" created",
		slog.String("event_type", entity+"_created"),
		slog.String("entity_id", entityID.String()),
		slog.String("user_id", userID.String()),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", CorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogEntityUpdated(ctx context.Context, entity string, entityID, userID uuid.UUID, fields []string) {
	al.logger.InfoContext(ctx, entity+" updated",
		slog.String("event_type", entity+"_updated"),
		slog.String("entity_id", entityID.String()),
		slog.String("user_id", userID.String()),
		slog.Any("fields", fields),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", CorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogEntityDeleted(ctx context.Context, entity string, entityID, userID uuid.UUID) {
	al.logger.InfoContext(ctx, entity+" deleted",
		slog.String("event_type", entity+"_deleted"),
		slog.String("entity_id", entityID.String()),
		slog.String("user_id", userID.String()),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", CorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogExpensesGenerated(ctx context.Context, userID uuid.UUID, month string, count int) {
	al.logger.InfoContext(ctx, "expenses generated",
		slog.String("event_type", "expenses_generated"),
		slog.String("user_id", userID.String()),
		slog.String("month", month),
		slog.Int("count", count),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", CorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogDashboardBuilt(ctx context.Context, userID uuid.UUID, month string, durationMs int64) {
	al.logger.DebugContext(ctx, "dashboard built",
		slog.String("event_type", "dashboard_built"),
		slog.String("user_id", userID.String()),
		slog.String("month", month),
		slog.Int64("duration_ms", durationMs),
		slog.String("correlation_id", CorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogExportGenerated(ctx context.Context, userID uuid.UUID, month string, rows int) {
	al.logger.InfoContext(ctx, "monthly export generated",
		slog.String("event_type", "export_generated"),
		slog.String("user_id", userID.String()),
		slog.String("month", month),
		slog.Int("rows", rows),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", CorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogEventPublishFailed(ctx context.Context, eventID uuid.UUID, eventType string, errorMsg string) {
	al.logger.WarnContext(ctx, "event publish failed",
		slog.String("event_type", "event_publish_failed"),
		slog.String("event_id", eventID.String()),
		slog.String("domain_event", eventType),
		slog.String("error", errorMsg),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", CorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogEventPublishSkipped(ctx context.Context, eventID uuid.UUID, eventType string) {
	al.logger.WarnContext(ctx, "event publish skipped, circuit open",
		slog.String("event_type", "event_publish_skipped"),
		slog.String("event_id", eventID.String()),
		slog.String("domain_event", eventType),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", CorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogCircuitBreakerStateChange(ctx context.Context, service string, oldState, newState string) {
	al.logger.WarnContext(ctx, "circuit breaker state change",
		slog.String("event_type", "circuit_breaker_state_change"),
		slog.String("service", service),
		slog.String("old_state", oldState),
		slog.String("new_state", newState),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", CorrelationID(ctx)),
	)
}
