package services

import (
	"context"

	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerTransactionClient covers transaction calls to the ledger service.
// Remote failures are reported through domain.RemoteResult, never as a Go error.
type LedgerTransactionClient interface {
	ApproveTransaction(ctx context.Context, transactionID, approverID string) domain.RemoteResult
	RejectTransaction(ctx context.Context, transactionID, rejecterID, reason string) domain.RemoteResult

	// GetTransaction returns nil with an OK result when the ledger does not know the transaction.
	GetTransaction(ctx context.Context, transactionID string) (*domain.RemoteTransaction, domain.RemoteResult)
	GetTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.RemoteTransaction, domain.RemoteResult)
}

// LedgerSessionClient covers the session bootstrap calls used to identify admins.
type LedgerSessionClient interface {
	Login(ctx context.Context, email, password string) (*domain.LedgerSession, domain.RemoteResult)
	Register(ctx context.Context, name, email, password, phone string) (*domain.LedgerSession, domain.RemoteResult)
	VerifyToken(ctx context.Context, token string) (*domain.LedgerUser, domain.RemoteResult)
	Logout(ctx context.Context, token string) domain.RemoteResult

	// GetUserBalance returns nil unless the result is OK.
	GetUserBalance(ctx context.Context, token string) (*decimal.Decimal, domain.RemoteResult)
}

// LedgerServiceClient is the full typed interface to the remote ledger service.
type LedgerServiceClient interface {
	LedgerTransactionClient
	LedgerSessionClient
	Health(ctx context.Context) domain.LedgerHealth
}
