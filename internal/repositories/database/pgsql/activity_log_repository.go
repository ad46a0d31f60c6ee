package pgsql

import (
	"context"

	"github.com/SscSPs/txn_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/txn_reconciliation_app/internal/core/ports/repositories"
	"github.com/SscSPs/txn_reconciliation_app/internal/models"
	"github.com/SscSPs/txn_reconciliation_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxActivityLogRepository struct {
	Pool *pgxpool.Pool
}

func newPgxActivityLogRepository(pool *pgxpool.Pool) portsrepo.ActivityLogRepository {
	return &PgxActivityLogRepository{Pool: pool}
}

var _ portsrepo.ActivityLogRepository = (*PgxActivityLogRepository)(nil)

func (r *PgxActivityLogRepository) SaveActivityLog(ctx context.Context, entry domain.ActivityLog) error {
	m, err := mapping.ToModelActivityLog(entry)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO activity_logs (activity_id, actor_id, action, entity_type, entity_id, description,
			old_values, new_values, ip_address, user_agent, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.ActivityID,
		m.ActorID,
		m.Action,
		m.EntityType,
		m.EntityID,
		m.Description,
		m.OldValues,
		m.NewValues,
		m.IPAddress,
		m.UserAgent,
		m.CreatedAt,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert activity log for "+m.EntityType+" "+m.EntityID, err)
	}
	return nil
}

func (r *PgxActivityLogRepository) ListActivityLogsByEntity(ctx context.Context, entityType, entityID string, limit int) ([]domain.ActivityLog, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	query := `
		SELECT activity_id::text, actor_id, action, entity_type, entity_id, description,
			old_values, new_values, ip_address, user_agent, created_at
		FROM activity_logs
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3;
	`
	rows, err := r.Pool.Query(ctx, query, entityType, entityID, limit)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list activity logs", err)
	}
	defer rows.Close()

	entries := []domain.ActivityLog{}
	for rows.Next() {
		var m models.ActivityLog
		if err := rows.Scan(
			&m.ActivityID,
			&m.ActorID,
			&m.Action,
			&m.EntityType,
			&m.EntityID,
			&m.Description,
			&m.OldValues,
			&m.NewValues,
			&m.IPAddress,
			&m.UserAgent,
			&m.CreatedAt,
		); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan activity log row", err)
		}
		entry, err := mapping.ToDomainActivityLog(m)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to decode activity log "+m.ActivityID, err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating activity log rows", err)
	}
	return entries, nil
}
