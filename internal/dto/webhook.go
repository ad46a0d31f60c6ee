package dto

import "encoding/json"

// GatewayNotificationRequest is the payment gateway webhook body.
// Numeric-looking fields are kept as strings so the signature is computed over the exact wire text.
type GatewayNotificationRequest struct {
	OrderID           string `json:"order_id" validate:"required"`
	TransactionStatus string `json:"transaction_status" validate:"required"`
	StatusCode        string `json:"status_code" validate:"required"`
	GrossAmount       string `json:"gross_amount" validate:"required"`
	SignatureKey      string `json:"signature_key" validate:"required"`
	FraudStatus       string `json:"fraud_status,omitempty"`
	TransactionID     string `json:"transaction_id,omitempty"`
	PaymentType       string `json:"payment_type,omitempty"`
	TransactionTime   string `json:"transaction_time,omitempty"`
	Currency          string `json:"currency,omitempty"`
}

// WebhookResponse is returned to webhook senders.
type WebhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// LedgerNotificationRequest is pushed by the ledger service when it changes a transaction.
type LedgerNotificationRequest struct {
	TransactionID string          `json:"transaction_id" binding:"required"`
	Status        string          `json:"status" binding:"required"`
	Timestamp     string          `json:"timestamp"`
	UserID        string          `json:"user_id,omitempty"`
	Amount        json.RawMessage `json:"amount,omitempty" swaggertype:"string"`
}

// ReconcileCallbacksRequest bounds a reconciliation pass.
type ReconcileCallbacksRequest struct {
	Limit int `json:"limit" binding:"omitempty,min=1,max=500"`
}
