package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/txn_reconciliation_app/internal/apperrors"
	"github.com/shopspring/decimal"
)

// TransactionType is the kind of money movement a transaction mirrors.
type TransactionType string

const (
	TypeTopup      TransactionType = "topup"
	TypePayment    TransactionType = "payment"
	TypeTransfer   TransactionType = "transfer"
	TypeWithdrawal TransactionType = "withdrawal"
)

// IsValid reports whether t is one of the known transaction types.
func (t TransactionType) IsValid() bool {
	switch t {
	case TypeTopup, TypePayment, TypeTransfer, TypeWithdrawal:
		return true
	}
	return false
}

// TransactionStatus is the local status vocabulary.
type TransactionStatus string

const (
	StatusPending    TransactionStatus = "pending"
	StatusProcessing TransactionStatus = "processing"
	StatusCompleted  TransactionStatus = "completed"
	StatusFailed     TransactionStatus = "failed"
	StatusCancelled  TransactionStatus = "cancelled"

	// StatusUnknown is produced only by gateway status mapping and is never stored.
	StatusUnknown TransactionStatus = "unknown"
)

// DefaultCurrency is used when a transaction is created without a currency.
const DefaultCurrency = "IDR"

// allowedTransitions lists every permitted status edge. Terminal statuses have no entry.
var allowedTransitions = map[TransactionStatus][]TransactionStatus{
	StatusPending:    {StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled},
	StatusProcessing: {StatusCompleted, StatusFailed, StatusCancelled},
}

// IsPersistable reports whether s may be stored on a transaction.
func (s TransactionStatus) IsPersistable() bool {
	switch s {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition may leave s.
func (s TransactionStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Transaction is the local mirror of a financial movement owned by the ledger service.
type Transaction struct {
	TransactionID    string            `json:"transactionId"`
	Reference        string            `json:"reference"`
	UserID           string            `json:"userId"`
	Type             TransactionType   `json:"type"`
	Amount           decimal.Decimal   `json:"amount"`
	Fee              decimal.Decimal   `json:"fee"`
	Currency         string            `json:"currency"`
	Description      string            `json:"description"`
	Status           TransactionStatus `json:"status"`
	PaymentGatewayID *string           `json:"paymentGatewayId,omitempty"`
	PaymentMethod    *string           `json:"paymentMethod,omitempty"`
	Metadata         map[string]any    `json:"metadata,omitempty"`
	FromAccount      *string           `json:"fromAccount,omitempty"`
	ToAccount        *string           `json:"toAccount,omitempty"`
	ApprovedBy       *string           `json:"approvedBy,omitempty"`
	ApprovedAt       *time.Time        `json:"approvedAt,omitempty"`
	ProcessedAt      *time.Time        `json:"processedAt,omitempty"`
	CreatedAt        time.Time         `json:"createdAt"`
	UpdatedAt        time.Time         `json:"updatedAt"`
}

// Validate checks the structural invariants of a transaction.
func (t Transaction) Validate() error {
	if strings.TrimSpace(t.TransactionID) == "" {
		return fmt.Errorf("%w: transaction ID is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(t.Reference) == "" {
		return fmt.Errorf("%w: reference is required", apperrors.ErrValidation)
	}
	if !t.Type.IsValid() {
		return fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, t.Type)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if t.Fee.IsNegative() {
		return fmt.Errorf("%w: fee must not be negative", apperrors.ErrValidation)
	}
	if !t.Status.IsPersistable() {
		return fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, t.Status)
	}
	if t.Type == TypeTransfer && (isBlank(t.FromAccount) || isBlank(t.ToAccount)) {
		return fmt.Errorf("%w: transfer requires both from and to accounts", apperrors.ErrValidation)
	}
	return nil
}

// CanBeApproved reports whether an admin may approve the transaction.
func (t Transaction) CanBeApproved() bool {
	return t.Status == StatusPending
}

// CanBeRejected reports whether an admin may reject the transaction.
func (t Transaction) CanBeRejected() bool {
	return t.Status == StatusPending || t.Status == StatusProcessing
}

// CanTransitionTo reports whether the state machine has an edge from the current status to next.
func (t Transaction) CanTransitionTo(next TransactionStatus) bool {
	for _, allowed := range allowedTransitions[t.Status] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Approve returns the approved copy of t. On failure the original value is returned with ErrInvalidStateTransition.
func (t Transaction) Approve(actorID string, now time.Time) (Transaction, error) {
	if !t.CanBeApproved() {
		return t, fmt.Errorf("%w: cannot approve transaction %s in status %s", apperrors.ErrInvalidStateTransition, t.TransactionID, t.Status)
	}
	return t.settle(StatusCompleted, actorID, now), nil
}

// Reject returns the rejected copy of t. The rejecting actor is recorded in ApprovedBy.
func (t Transaction) Reject(actorID string, now time.Time) (Transaction, error) {
	if !t.CanBeRejected() {
		return t, fmt.Errorf("%w: cannot reject transaction %s in status %s", apperrors.ErrInvalidStateTransition, t.TransactionID, t.Status)
	}
	return t.settle(StatusFailed, actorID, now), nil
}

// TransitionTo moves t to next without an acting admin, as done for gateway and ledger notifications.
func (t Transaction) TransitionTo(next TransactionStatus, now time.Time) (Transaction, error) {
	if !t.CanTransitionTo(next) {
		return t, fmt.Errorf("%w: %s -> %s for transaction %s", apperrors.ErrInvalidStateTransition, t.Status, next, t.TransactionID)
	}
	updated := t
	updated.Status = next
	updated.UpdatedAt = now
	if next == StatusCompleted || next == StatusFailed {
		updated.ProcessedAt = timePtr(now)
	}
	return updated, nil
}

func (t Transaction) settle(status TransactionStatus, actorID string, now time.Time) Transaction {
	updated := t
	updated.Status = status
	updated.ApprovedBy = &actorID
	updated.ApprovedAt = timePtr(now)
	updated.ProcessedAt = timePtr(now)
	updated.UpdatedAt = now
	return updated
}

// TransactionFilter narrows transaction listings, locally and on the ledger service.
type TransactionFilter struct {
	Status    *TransactionStatus
	Type      *TransactionType
	UserID    *string
	Limit     int
	NextToken *string
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func timePtr(t time.Time) *time.Time {
	return &t
}
