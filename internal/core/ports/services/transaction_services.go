package services

import (
	"context"

	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/txn_reconciliation_app/internal/dto"
)

// TransactionReaderSvc defines read operations for mirrored transactions
type TransactionReaderSvc interface {
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
	ListCallbacks(ctx context.Context, transactionID string) ([]domain.PaymentCallback, error)
}

// TransactionWriterSvc defines write operations for mirrored transactions
type TransactionWriterSvc interface {
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, actor domain.Actor) (*domain.Transaction, error)

	// ApplyLedgerNotification applies a status pushed by the ledger service. Returns apperrors.ErrNotFound
	// when the transaction is not mirrored locally.
	ApplyLedgerNotification(ctx context.Context, req dto.LedgerNotificationRequest) (*domain.Transaction, error)
}

// TransactionSyncSvc mirrors ledger service transactions locally.
type TransactionSyncSvc interface {
	SyncFromLedger(ctx context.Context, req dto.SyncTransactionsRequest, actor domain.Actor) (*domain.SyncResult, error)
}

// TransactionSvcFacade combines all transaction service interfaces
type TransactionSvcFacade interface {
	TransactionReaderSvc
	TransactionWriterSvc
	TransactionSyncSvc
}
