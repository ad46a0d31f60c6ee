package services

import (
	"context"

	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
)

// WebhookIngestorSvc processes inbound payment gateway notifications.
type WebhookIngestorSvc interface {
	// IngestGatewayNotification validates, verifies and records one raw notification body.
	// An error is returned only when the body is malformed, the signature is invalid,
	// or the callback could not be durably recorded.
	IngestGatewayNotification(ctx context.Context, body []byte) (*domain.WebhookResult, error)
}

// CallbackReconcilerSvc retries matching of callbacks that arrived before their transaction.
type CallbackReconcilerSvc interface {
	ReconcileUnprocessedCallbacks(ctx context.Context, limit int, actor domain.Actor) (*domain.ReconcileResult, error)
}

// WebhookSvcFacade combines webhook related services
type WebhookSvcFacade interface {
	WebhookIngestorSvc
	CallbackReconcilerSvc
}
