package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is the row layout of the transactions table.
// Metadata holds the JSON encoded metadata column.
type Transaction struct {
	TransactionID    string
	Reference        string
	UserID           string
	Type             string
	Amount           decimal.Decimal
	Fee              decimal.Decimal
	Currency         string
	Description      string
	Status           string
	PaymentGatewayID *string
	PaymentMethod    *string
	Metadata         []byte
	FromAccount      *string
	ToAccount        *string
	ApprovedBy       *string
	ApprovedAt       *time.Time
	ProcessedAt      *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
