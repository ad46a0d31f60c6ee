package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/txn_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/txn_reconciliation_app/internal/core/ports/repositories"
	"github.com/SscSPs/txn_reconciliation_app/internal/models"
	"github.com/SscSPs/txn_reconciliation_app/internal/utils/mapping"
	"github.com/SscSPs/txn_reconciliation_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `transaction_id, reference, user_id, type, amount, fee, currency, description, status,
		payment_gateway_id, payment_method, metadata, from_account, to_account,
		approved_by, approved_at, processed_at, created_at, updated_at`

const defaultListLimit = 20

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// SaveTransaction inserts a new transaction row.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m, err := mapping.ToModelTransaction(txn)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.TransactionID,
		m.Reference,
		m.UserID,
		m.Type,
		m.Amount,
		m.Fee,
		m.Currency,
		m.Description,
		m.Status,
		m.PaymentGatewayID,
		m.PaymentMethod,
		m.Metadata,
		m.FromAccount,
		m.ToAccount,
		m.ApprovedBy,
		m.ApprovedAt,
		m.ProcessedAt,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction %s or reference %s", apperrors.ErrDuplicate, m.TransactionID, m.Reference)
		}
		return apperrors.NewAppError(500, "failed to insert transaction "+m.TransactionID, err)
	}
	return nil
}

// FindTransactionByID retrieves a transaction without locking it.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, "failed to find transaction "+transactionID, err)
	}
	return txn, nil
}

// ListTransactions returns transactions newest first, paginated by (created_at, transaction_id).
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	conditions := []string{}
	args := []any{}
	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}
	if filter.Status != nil {
		addCondition("status = $%d", string(*filter.Status))
	}
	if filter.Type != nil {
		addCondition("type = $%d", string(*filter.Type))
	}
	if filter.UserID != nil {
		addCondition("user_id = $%d", *filter.UserID)
	}
	if filter.NextToken != nil {
		cursor, err := pagination.ParseCursor(*filter.NextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursor.CreatedAt, cursor.ID)
		conditions = append(conditions, fmt.Sprintf("(created_at, transaction_id) < ($%d, $%d)", len(args)-1, len(args)))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(" ORDER BY created_at DESC, transaction_id DESC LIMIT $%d;", len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to list transactions", err)
	}
	defer rows.Close()

	txns := make([]domain.Transaction, 0, limit)
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan transaction row", err)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating transaction rows", err)
	}

	var nextToken *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		token := pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.TransactionID}.Encode()
		nextToken = &token
	}
	return txns, nextToken, nil
}

// UpdateTransactionLocked reads the row FOR UPDATE, applies mutate and writes the result before committing.
// Concurrent callers for the same transaction ID wait on the row lock, so mutate always sees the latest state.
func (r *PgxTransactionRepository) UpdateTransactionLocked(ctx context.Context, transactionID string, mutate portsrepo.TransactionMutation) (*domain.Transaction, error) {
	var updated domain.Transaction
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		current, err := r.findTransactionForUpdate(ctx, tx, transactionID)
		if err != nil {
			return err
		}

		updated, err = mutate(*current)
		if err != nil {
			return err
		}
		if updated.TransactionID != current.TransactionID || updated.Reference != current.Reference {
			return fmt.Errorf("%w: transaction ID and reference are immutable", apperrors.ErrValidation)
		}
		if err := updated.Validate(); err != nil {
			return err
		}

		m, err := mapping.ToModelTransaction(updated)
		if err != nil {
			return err
		}
		query := `
			UPDATE transactions
			SET status = $2, payment_gateway_id = $3, payment_method = $4, metadata = $5,
			    approved_by = $6, approved_at = $7, processed_at = $8, updated_at = $9
			WHERE transaction_id = $1;
		`
		if _, err := tx.Exec(ctx, query,
			m.TransactionID,
			m.Status,
			m.PaymentGatewayID,
			m.PaymentMethod,
			m.Metadata,
			m.ApprovedBy,
			m.ApprovedAt,
			m.ProcessedAt,
			m.UpdatedAt,
		); err != nil {
			return apperrors.NewAppError(500, "failed to update transaction "+transactionID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *PgxTransactionRepository) findTransactionForUpdate(ctx context.Context, tx pgx.Tx, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1 FOR UPDATE;`
	txn, err := scanTransaction(tx.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("transaction %s: %w", transactionID, apperrors.ErrNotFound)
		}
		return nil, apperrors.NewAppError(500, "failed to lock transaction "+transactionID, err)
	}
	return txn, nil
}

func scanTransaction(row rowScanner) (*domain.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.Reference,
		&m.UserID,
		&m.Type,
		&m.Amount,
		&m.Fee,
		&m.Currency,
		&m.Description,
		&m.Status,
		&m.PaymentGatewayID,
		&m.PaymentMethod,
		&m.Metadata,
		&m.FromAccount,
		&m.ToAccount,
		&m.ApprovedBy,
		&m.ApprovedAt,
		&m.ProcessedAt,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	txn, err := mapping.ToDomainTransaction(m)
	if err != nil {
		return nil, err
	}
	return &txn, nil
}
