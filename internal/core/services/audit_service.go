package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/txn_reconciliation_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/txn_reconciliation_app/internal/core/ports/services"
	"github.com/google/uuid"
)

type auditService struct {
	BaseService
	repo      portsrepo.ActivityLogRepository
	publisher portssvc.EventPublisher
}

// AuditOption configures the audit service
type AuditOption func(*auditService)

// WithAuditClock overrides the time source.
func WithAuditClock(clock func() time.Time) AuditOption {
	return func(s *auditService) {
		s.clock = clock
	}
}

// NewAuditService stores entries in repo and, when publisher is not nil, publishes them keyed by entity ID.
func NewAuditService(repo portsrepo.ActivityLogRepository, publisher portssvc.EventPublisher, options ...AuditOption) portssvc.AuditSvc {
	svc := &auditService{repo: repo, publisher: publisher}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AuditSvc = (*auditService)(nil)

// Record fills in the ID and timestamp, then stores and publishes the entry.
// Failures are logged; the caller's operation has already happened.
func (s *auditService) Record(ctx context.Context, entry domain.ActivityLog) {
	if entry.ActivityID == "" {
		entry.ActivityID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.Now()
	}
	if entry.ActorID == "" {
		entry.ActorID = domain.SystemActor
	}

	if err := s.repo.SaveActivityLog(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to store activity log",
			slog.String("action", string(entry.Action)),
			slog.String("entity_id", entry.EntityID))
	}

	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, entry.EntityID, entry); err != nil {
		s.LogError(ctx, err, "Failed to publish audit event",
			slog.String("action", string(entry.Action)),
			slog.String("entity_id", entry.EntityID))
	}
}

func (s *auditService) ListEntityActivity(ctx context.Context, entityType, entityID string, limit int) ([]domain.ActivityLog, error) {
	entries, err := s.repo.ListActivityLogsByEntity(ctx, entityType, entityID, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list activity logs",
			slog.String("entity_type", entityType),
			slog.String("entity_id", entityID))
		return nil, err
	}
	return entries, nil
}
