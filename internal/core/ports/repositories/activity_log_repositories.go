package repositories

import (
	"context"

	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
)

// ActivityLogRepository stores audit records.
type ActivityLogRepository interface {
	SaveActivityLog(ctx context.Context, entry domain.ActivityLog) error

	// ListActivityLogsByEntity returns the newest entries first.
	ListActivityLogsByEntity(ctx context.Context, entityType, entityID string, limit int) ([]domain.ActivityLog, error)
}
