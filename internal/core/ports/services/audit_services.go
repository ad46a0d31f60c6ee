package services

import (
	"context"

	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
)

// EventPublisher publishes audit events to a stream.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value any) error
	Close() error
}

// AuditSvc records audit entries. Recording never fails the calling operation.
type AuditSvc interface {
	Record(ctx context.Context, entry domain.ActivityLog)
	ListEntityActivity(ctx context.Context, entityType, entityID string, limit int) ([]domain.ActivityLog, error)
}
