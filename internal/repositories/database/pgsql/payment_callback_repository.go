package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/txn_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/txn_reconciliation_app/internal/core/ports/repositories"
	"github.com/SscSPs/txn_reconciliation_app/internal/models"
	"github.com/SscSPs/txn_reconciliation_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const callbackColumns = `callback_id::text, transaction_id, gateway_transaction_id, gateway_status, fraud_status,
		status_code, gross_amount, payment_type, raw_payload, signature, verified, is_duplicate,
		received_at, processed_at`

type PgxPaymentCallbackRepository struct {
	Pool *pgxpool.Pool
}

func newPgxPaymentCallbackRepository(pool *pgxpool.Pool) portsrepo.PaymentCallbackRepositoryFacade {
	return &PgxPaymentCallbackRepository{Pool: pool}
}

var _ portsrepo.PaymentCallbackRepositoryFacade = (*PgxPaymentCallbackRepository)(nil)

// SaveCallback appends a callback row and reports whether an identical delivery was stored before.
// Two identical deliveries racing each other may both be stored as originals.
func (r *PgxPaymentCallbackRepository) SaveCallback(ctx context.Context, callback domain.PaymentCallback) (*domain.PaymentCallback, error) {
	m := mapping.ToModelPaymentCallback(callback)
	if len(m.RawPayload) == 0 {
		m.RawPayload = []byte("{}")
	}
	query := `
		INSERT INTO payment_callbacks (callback_id, transaction_id, gateway_transaction_id, gateway_status, fraud_status,
			status_code, gross_amount, payment_type, raw_payload, signature, verified, is_duplicate, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11,
			EXISTS (
				SELECT 1 FROM payment_callbacks
				WHERE transaction_id = $2
				  AND gateway_transaction_id IS NOT DISTINCT FROM $3
				  AND gateway_status = $4
			),
			$12)
		RETURNING is_duplicate;
	`
	err := r.Pool.QueryRow(ctx, query,
		m.CallbackID,
		m.TransactionID,
		m.GatewayTransactionID,
		m.GatewayStatus,
		m.FraudStatus,
		m.StatusCode,
		m.GrossAmount,
		m.PaymentType,
		m.RawPayload,
		m.Signature,
		m.Verified,
		m.ReceivedAt,
	).Scan(&m.IsDuplicate)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: callback %s", apperrors.ErrDuplicate, m.CallbackID)
		}
		return nil, apperrors.NewAppError(500, "failed to insert payment callback for "+m.TransactionID, err)
	}

	saved := mapping.ToDomainPaymentCallback(m)
	return &saved, nil
}

func (r *PgxPaymentCallbackRepository) FindCallbackByID(ctx context.Context, callbackID string) (*domain.PaymentCallback, error) {
	query := `SELECT ` + callbackColumns + ` FROM payment_callbacks WHERE callback_id = $1;`
	cb, err := scanCallback(r.Pool.QueryRow(ctx, query, callbackID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("callback %s: %w", callbackID, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, "failed to find payment callback "+callbackID, err)
	}
	return cb, nil
}

func (r *PgxPaymentCallbackRepository) ListCallbacksByTransactionID(ctx context.Context, transactionID string) ([]domain.PaymentCallback, error) {
	query := `SELECT ` + callbackColumns + ` FROM payment_callbacks WHERE transaction_id = $1 ORDER BY received_at ASC, callback_id ASC;`
	return r.queryCallbacks(ctx, query, transactionID)
}

func (r *PgxPaymentCallbackRepository) ListUnprocessedCallbacks(ctx context.Context, limit int) ([]domain.PaymentCallback, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	query := `
		SELECT ` + callbackColumns + ` FROM payment_callbacks
		WHERE processed_at IS NULL AND verified
		ORDER BY last_attempt_at ASC NULLS FIRST, received_at ASC, callback_id ASC
		LIMIT $1;
	`
	return r.queryCallbacks(ctx, query, limit)
}

// MarkCallbackProcessed only sets processed_at once. A second call reports false.
func (r *PgxPaymentCallbackRepository) MarkCallbackProcessed(ctx context.Context, callbackID string, processedAt time.Time) (bool, error) {
	query := `UPDATE payment_callbacks SET processed_at = $2 WHERE callback_id = $1 AND processed_at IS NULL;`
	tag, err := r.Pool.Exec(ctx, query, callbackID, processedAt)
	if err != nil {
		return false, apperrors.NewAppError(500, "failed to mark payment callback processed "+callbackID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// MarkCallbacksAttempted moves the callbacks behind every callback not attempted since.
func (r *PgxPaymentCallbackRepository) MarkCallbacksAttempted(ctx context.Context, callbackIDs []string, attemptedAt time.Time) error {
	if len(callbackIDs) == 0 {
		return nil
	}
	query := `
		UPDATE payment_callbacks
		SET reconcile_attempts = reconcile_attempts + 1, last_attempt_at = $2
		WHERE callback_id = ANY($1::uuid[]) AND processed_at IS NULL;
	`
	if _, err := r.Pool.Exec(ctx, query, callbackIDs, attemptedAt); err != nil {
		return apperrors.NewAppError(500, "failed to record callback reconcile attempts", err)
	}
	return nil
}

func (r *PgxPaymentCallbackRepository) queryCallbacks(ctx context.Context, query string, args ...any) ([]domain.PaymentCallback, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query payment callbacks", err)
	}
	defer rows.Close()

	callbacks := []domain.PaymentCallback{}
	for rows.Next() {
		cb, err := scanCallback(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payment callback row", err)
		}
		callbacks = append(callbacks, *cb)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payment callback rows", err)
	}
	return callbacks, nil
}

func scanCallback(row rowScanner) (*domain.PaymentCallback, error) {
	var m models.PaymentCallback
	err := row.Scan(
		&m.CallbackID,
		&m.TransactionID,
		&m.GatewayTransactionID,
		&m.GatewayStatus,
		&m.FraudStatus,
		&m.StatusCode,
		&m.GrossAmount,
		&m.PaymentType,
		&m.RawPayload,
		&m.Signature,
		&m.Verified,
		&m.IsDuplicate,
		&m.ReceivedAt,
		&m.ProcessedAt,
	)
	if err != nil {
		return nil, err
	}
	cb := mapping.ToDomainPaymentCallback(m)
	return &cb, nil
}
