package models

import "time"

// PaymentCallback is the row layout of the payment_callbacks table.
type PaymentCallback struct {
	CallbackID           string
	TransactionID        string
	GatewayTransactionID *string
	GatewayStatus        string
	FraudStatus          *string
	StatusCode           string
	GrossAmount          string
	PaymentType          *string
	RawPayload           []byte
	Signature            string
	Verified             bool
	IsDuplicate          bool
	ReceivedAt           time.Time
	ProcessedAt          *time.Time
}
