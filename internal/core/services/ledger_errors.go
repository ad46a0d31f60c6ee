package services

import (
	"fmt"

	"github.com/SscSPs/txn_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
)

// ledgerError converts a failed ledger service result into an error kind.
// Timeouts become ErrRemoteTimeout. Calls the ledger refused become onRejected.
// Everything else is reported as ErrRemoteApprovalFailed.
func ledgerError(operation string, res domain.RemoteResult, onRejected error) error {
	switch res.Outcome {
	case domain.RemoteTimedOut:
		return fmt.Errorf("%w: ledger %s: %s", apperrors.ErrRemoteTimeout, operation, res.Message)
	case domain.RemoteRejectedCall:
		if onRejected == nil {
			onRejected = apperrors.ErrRemoteApprovalFailed
		}
		return fmt.Errorf("%w: ledger %s rejected (HTTP %d): %s", onRejected, operation, res.StatusCode, res.Message)
	default:
		return fmt.Errorf("%w: ledger %s %s (HTTP %d): %s", apperrors.ErrRemoteApprovalFailed, operation, res.Outcome, res.StatusCode, res.Message)
	}
}
