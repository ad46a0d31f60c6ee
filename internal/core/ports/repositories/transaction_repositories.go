package repositories

import (
	"context"

	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
)

// TransactionMutation receives the locked current state and returns the state to persist.
// Returning an error aborts the update; nothing is written and the error is passed back unchanged.
type TransactionMutation func(current domain.Transaction) (domain.Transaction, error)

// TransactionReader defines read operations for mirrored transactions
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction by its external transaction ID.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactions retrieves a page of transactions, newest first, using token-based pagination.
	// It returns the transactions, a token for the next page, and an error.
	ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines write operations for mirrored transactions
type TransactionWriter interface {
	// SaveTransaction inserts a new transaction. Returns apperrors.ErrDuplicate if the ID or reference exists.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransactionLocked serialises writers on one transaction row.
	// The row is read FOR UPDATE, handed to mutate, and the result is written in the same database transaction.
	UpdateTransactionLocked(ctx context.Context, transactionID string, mutate TransactionMutation) (*domain.Transaction, error)
}

// TransactionRepositoryFacade combines all transaction repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
