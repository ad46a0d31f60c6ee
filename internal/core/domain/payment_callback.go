package domain

import (
	"encoding/json"
	"time"
)

// GatewayNotification is a payment gateway webhook body after structural validation.
// String fields hold the literal wire values; they feed the signature digest unchanged.
type GatewayNotification struct {
	OrderID              string
	TransactionStatus    string
	StatusCode           string
	GrossAmount          string
	SignatureKey         string
	FraudStatus          string
	GatewayTransactionID string
	PaymentType          string
	Raw                  json.RawMessage
}

// PaymentCallback is one received gateway notification. Rows are append-only.
type PaymentCallback struct {
	CallbackID           string          `json:"callbackId"`
	TransactionID        string          `json:"transactionId"`
	GatewayTransactionID *string         `json:"gatewayTransactionId,omitempty"`
	GatewayStatus        string          `json:"gatewayStatus"`
	FraudStatus          *string         `json:"fraudStatus,omitempty"`
	StatusCode           string          `json:"statusCode"`
	GrossAmount          string          `json:"grossAmount"`
	PaymentType          *string         `json:"paymentType,omitempty"`
	RawPayload           json.RawMessage `json:"rawPayload"`
	Signature            string          `json:"signature"`
	Verified             bool            `json:"verified"`
	Duplicate            bool            `json:"duplicate"`
	ReceivedAt           time.Time       `json:"receivedAt"`
	ProcessedAt          *time.Time      `json:"processedAt,omitempty"`
}

// IsProcessed reports whether the callback already caused (or confirmed) a transaction status.
func (c PaymentCallback) IsProcessed() bool {
	return c.ProcessedAt != nil
}

// MappedStatus is the local status this callback asks for.
func (c PaymentCallback) MappedStatus() TransactionStatus {
	fraud := ""
	if c.FraudStatus != nil {
		fraud = *c.FraudStatus
	}
	return MapGatewayStatus(c.GatewayStatus, fraud)
}

// WebhookOutcome describes what ingesting a single notification did to the local state.
type WebhookOutcome string

const (
	// OutcomeApplied means the transaction moved to the mapped status.
	OutcomeApplied WebhookOutcome = "applied"
	// OutcomeReplayed means the transaction already had the mapped status.
	OutcomeReplayed WebhookOutcome = "replayed"
	// OutcomeIgnoredTransition means the state machine refused the move, usually because the transaction is terminal.
	OutcomeIgnoredTransition WebhookOutcome = "ignored_transition"
	// OutcomeUnmatched means no local transaction carries the order id yet.
	OutcomeUnmatched WebhookOutcome = "unmatched"
	// OutcomeUnmappedStatus means the gateway status is not part of the known vocabulary.
	OutcomeUnmappedStatus WebhookOutcome = "unmapped_status"
	// OutcomeDeferred means the callback was recorded but the status could not be applied because of a
	// storage failure. It stays unprocessed for the next reconciliation pass.
	OutcomeDeferred WebhookOutcome = "deferred"
)

// WebhookResult is returned after a notification has been durably recorded.
type WebhookResult struct {
	CallbackID    string
	TransactionID string
	Outcome       WebhookOutcome
	Status        TransactionStatus
	Duplicate     bool
}

// Processed reports whether the callback was marked processed.
func (r WebhookResult) Processed() bool {
	return r.Outcome == OutcomeApplied || r.Outcome == OutcomeReplayed
}
