package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RemoteOutcome classifies the result of a ledger service call.
type RemoteOutcome string

const (
	RemoteOK              RemoteOutcome = "ok"
	RemoteRejectedCall    RemoteOutcome = "rejected"
	RemoteUnavailable     RemoteOutcome = "unavailable"
	RemoteTimedOut        RemoteOutcome = "timeout"
	RemoteInvalidResponse RemoteOutcome = "invalid_response"
)

// RemoteResult is what every ledger service call reports, in place of an error, for remote conditions.
type RemoteResult struct {
	Outcome    RemoteOutcome
	StatusCode int
	Message    string
	ErrorCode  string
}

// OK reports whether the call succeeded.
func (r RemoteResult) OK() bool {
	return r.Outcome == RemoteOK
}

// RemoteTransaction is a transaction as reported by the ledger service.
type RemoteTransaction struct {
	TransactionID string
	Reference     string
	UserID        string
	Type          string
	Amount        decimal.Decimal
	Fee           decimal.Decimal
	Currency      string
	Description   string
	Status        string
	PaymentMethod *string
	GatewayID     *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LedgerUser is the ledger service identity of an authenticated admin.
type LedgerUser struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// LedgerSession is returned by a successful ledger service login.
type LedgerSession struct {
	User  LedgerUser
	Token string
}

// LedgerHealth summarises the ledger service health endpoint.
type LedgerHealth struct {
	Status string
	Result RemoteResult
}

// Actor is the request-scoped identity performing an administrative action.
type Actor struct {
	ID          string
	LedgerToken string
	IPAddress   string
	UserAgent   string
}

// ApprovalOutcome is the per-item result of a bulk approve or reject.
type ApprovalOutcome struct {
	TransactionID string `json:"transactionId"`
	Success       bool   `json:"success"`
	ErrorKind     string `json:"errorKind,omitempty"`
	Message       string `json:"message"`
}

// SyncResult summarises a sync of ledger transactions into the local mirror.
type SyncResult struct {
	Fetched   int `json:"fetched"`
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Skipped   int `json:"skipped"`
}

// ReconcileResult summarises a pass over unprocessed callbacks.
type ReconcileResult struct {
	Examined  int `json:"examined"`
	Processed int `json:"processed"`
	Pending   int `json:"pending"`
}
