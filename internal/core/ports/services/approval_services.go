package services

import (
	"context"

	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
)

// ApprovalSvcFacade coordinates admin decisions between the ledger service and the local mirror.
// The ledger service is always called first; the local row is only changed after it succeeds.
type ApprovalSvcFacade interface {
	ApproveTransaction(ctx context.Context, transactionID string, actor domain.Actor) (*domain.Transaction, error)
	RejectTransaction(ctx context.Context, transactionID string, actor domain.Actor, reason string) (*domain.Transaction, error)

	// BulkApprove and BulkReject handle every ID independently and report one outcome per ID, in input order.
	BulkApprove(ctx context.Context, transactionIDs []string, actor domain.Actor) []domain.ApprovalOutcome
	BulkReject(ctx context.Context, transactionIDs []string, actor domain.Actor, reason string) []domain.ApprovalOutcome
}
