package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
)

// PaymentCallbackReader defines read operations for received gateway callbacks
type PaymentCallbackReader interface {
	FindCallbackByID(ctx context.Context, callbackID string) (*domain.PaymentCallback, error)

	// ListCallbacksByTransactionID returns callbacks for an order ID, oldest first.
	ListCallbacksByTransactionID(ctx context.Context, transactionID string) ([]domain.PaymentCallback, error)

	// ListUnprocessedCallbacks returns verified callbacks that never caused a status change,
	// least recently attempted first and then oldest first.
	ListUnprocessedCallbacks(ctx context.Context, limit int) ([]domain.PaymentCallback, error)
}

// PaymentCallbackWriter defines write operations for received gateway callbacks.
// Callbacks are append-only; the only mutation is marking one processed.
type PaymentCallbackWriter interface {
	// SaveCallback appends a callback. The returned copy has Duplicate set when an earlier
	// callback with the same gateway transaction ID, order ID and gateway status exists.
	SaveCallback(ctx context.Context, callback domain.PaymentCallback) (*domain.PaymentCallback, error)

	// MarkCallbackProcessed sets processed_at if it is still empty and reports whether this call set it.
	MarkCallbackProcessed(ctx context.Context, callbackID string, processedAt time.Time) (bool, error)

	// MarkCallbacksAttempted records a reconcile attempt that left the callbacks unprocessed.
	MarkCallbacksAttempted(ctx context.Context, callbackIDs []string, attemptedAt time.Time) error
}

// PaymentCallbackRepositoryFacade combines all callback repository interfaces
type PaymentCallbackRepositoryFacade interface {
	PaymentCallbackReader
	PaymentCallbackWriter
}
