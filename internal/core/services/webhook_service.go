package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/txn_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/txn_reconciliation_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/txn_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/txn_reconciliation_app/internal/dto"
	"github.com/SscSPs/txn_reconciliation_app/internal/metrics"
	"github.com/SscSPs/txn_reconciliation_app/internal/utils/mapping"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// SignatureChecker verifies gateway notification signatures over the literal wire values.
type SignatureChecker interface {
	Verify(orderID, statusCode, grossAmount, signature string) bool
}

// errAlreadyInStatus aborts a locked update without writing when the row already holds the wanted status.
var errAlreadyInStatus = errors.New("transaction already in requested status")

type webhookService struct {
	BaseService
	txnRepo      portsrepo.TransactionRepositoryFacade
	callbackRepo portsrepo.PaymentCallbackRepositoryFacade
	verifier     SignatureChecker
	audit        portssvc.AuditSvc
	validate     *validator.Validate
}

// WebhookOption configures the webhook service
type WebhookOption func(*webhookService)

// WithWebhookClock overrides the time source.
func WithWebhookClock(clock func() time.Time) WebhookOption {
	return func(s *webhookService) {
		s.clock = clock
	}
}

// NewWebhookService creates the gateway notification ingestor and callback reconciler.
func NewWebhookService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	callbackRepo portsrepo.PaymentCallbackRepositoryFacade,
	verifier SignatureChecker,
	audit portssvc.AuditSvc,
	options ...WebhookOption,
) portssvc.WebhookSvcFacade {
	svc := &webhookService{
		txnRepo:      txnRepo,
		callbackRepo: callbackRepo,
		verifier:     verifier,
		audit:        audit,
		validate:     validator.New(),
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.WebhookSvcFacade = (*webhookService)(nil)

func (s *webhookService) IngestGatewayNotification(ctx context.Context, body []byte) (*domain.WebhookResult, error) {
	notification, err := s.parseNotification(body)
	if err != nil {
		metrics.WebhooksTotal.WithLabelValues("malformed").Inc()
		s.LogWarn(ctx, "Rejected malformed gateway notification", slog.String("error", err.Error()))
		return nil, err
	}

	logger := s.GetLogger(ctx).With(
		slog.String("order_id", notification.OrderID),
		slog.String("gateway_status", notification.TransactionStatus))

	if !s.verifier.Verify(notification.OrderID, notification.StatusCode, notification.GrossAmount, notification.SignatureKey) {
		metrics.WebhooksTotal.WithLabelValues("signature_invalid").Inc()
		logger.Warn("Gateway notification signature mismatch")
		s.audit.Record(ctx, domain.ActivityLog{
			ActorID:     domain.SystemActor,
			Action:      domain.ActionWebhookSignatureInvalid,
			EntityType:  domain.EntityTransaction,
			EntityID:    notification.OrderID,
			Description: "gateway notification rejected: signature mismatch",
			NewValues: map[string]any{
				"transaction_status": notification.TransactionStatus,
				"status_code":        notification.StatusCode,
				"gross_amount":       notification.GrossAmount,
			},
		})
		return nil, fmt.Errorf("%w: order %s", apperrors.ErrSignatureInvalid, notification.OrderID)
	}

	callback := mapping.ToDomainPaymentCallbackFromNotification(notification)
	callback.CallbackID = uuid.NewString()
	callback.Verified = true
	callback.ReceivedAt = s.Now()

	saved, err := s.callbackRepo.SaveCallback(ctx, callback)
	if err != nil {
		metrics.WebhooksTotal.WithLabelValues("storage_error").Inc()
		logger.Error("Failed to record gateway notification", slog.String("error", err.Error()))
		return nil, fmt.Errorf("record callback for %s: %w", notification.OrderID, err)
	}

	result := s.applyCallback(ctx, *saved)
	metrics.WebhooksTotal.WithLabelValues(string(result.Outcome)).Inc()
	logger.Info("Gateway notification recorded",
		slog.String("callback_id", result.CallbackID),
		slog.String("outcome", string(result.Outcome)),
		slog.Bool("duplicate", result.Duplicate))
	return &result, nil
}

func (s *webhookService) ReconcileUnprocessedCallbacks(ctx context.Context, limit int, actor domain.Actor) (*domain.ReconcileResult, error) {
	callbacks, err := s.callbackRepo.ListUnprocessedCallbacks(ctx, limit)
	if err != nil {
		s.LogError(ctx, err, "Failed to list unprocessed callbacks")
		return nil, err
	}

	result := &domain.ReconcileResult{Examined: len(callbacks)}
	var attempted []string
	for _, cb := range callbacks {
		if ctx.Err() != nil {
			break
		}
		if s.applyCallback(ctx, cb).Processed() {
			result.Processed++
			continue
		}
		attempted = append(attempted, cb.CallbackID)
	}
	result.Pending = result.Examined - result.Processed

	if len(attempted) > 0 {
		if err := s.callbackRepo.MarkCallbacksAttempted(ctx, attempted, s.Now()); err != nil {
			// the next pass sees the same callbacks first
			s.LogError(ctx, err, "Failed to record callback reconcile attempts", slog.Int("count", len(attempted)))
		}
	}

	s.LogInfo(ctx, "Callback reconciliation finished",
		slog.Int("examined", result.Examined),
		slog.Int("processed", result.Processed))
	s.audit.Record(ctx, domain.ActivityLog{
		ActorID:     actor.ID,
		Action:      domain.ActionCallbacksReconciled,
		EntityType:  domain.EntityPaymentCallback,
		EntityID:    "batch",
		Description: fmt.Sprintf("reconciled %d of %d unprocessed callbacks", result.Processed, result.Examined),
		NewValues:   map[string]any{"examined": result.Examined, "processed": result.Processed, "pending": result.Pending},
		IPAddress:   actor.IPAddress,
		UserAgent:   actor.UserAgent,
	})
	return result, ctx.Err()
}

func (s *webhookService) parseNotification(body []byte) (domain.GatewayNotification, error) {
	var req dto.GatewayNotificationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return domain.GatewayNotification{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedPayload, err)
	}
	if err := s.validate.Struct(req); err != nil {
		return domain.GatewayNotification{}, fmt.Errorf("%w: %v", apperrors.ErrMalformedPayload, err)
	}
	return domain.GatewayNotification{
		OrderID:              req.OrderID,
		TransactionStatus:    req.TransactionStatus,
		StatusCode:           req.StatusCode,
		GrossAmount:          req.GrossAmount,
		SignatureKey:         req.SignatureKey,
		FraudStatus:          req.FraudStatus,
		GatewayTransactionID: req.TransactionID,
		PaymentType:          req.PaymentType,
		Raw:                  json.RawMessage(body),
	}, nil
}

// applyCallback moves the callback's transaction to the mapped status under the row lock.
// The callback is marked processed when the status was applied or already in place.
func (s *webhookService) applyCallback(ctx context.Context, cb domain.PaymentCallback) domain.WebhookResult {
	result := domain.WebhookResult{
		CallbackID:    cb.CallbackID,
		TransactionID: cb.TransactionID,
		Duplicate:     cb.Duplicate,
	}
	logger := s.GetLogger(ctx).With(
		slog.String("callback_id", cb.CallbackID),
		slog.String("transaction_id", cb.TransactionID))

	target := cb.MappedStatus()
	if target == domain.StatusUnknown {
		logger.Warn("Unrecognised gateway status, callback left unprocessed", slog.String("gateway_status", cb.GatewayStatus))
		result.Outcome = domain.OutcomeUnmappedStatus
		return result
	}
	result.Status = target

	now := s.Now()
	_, err := s.txnRepo.UpdateTransactionLocked(ctx, cb.TransactionID, func(current domain.Transaction) (domain.Transaction, error) {
		if current.Status == target {
			return current, errAlreadyInStatus
		}
		next, err := current.TransitionTo(target, now)
		if err != nil {
			return current, err
		}
		if next.PaymentGatewayID == nil && cb.GatewayTransactionID != nil {
			next.PaymentGatewayID = cb.GatewayTransactionID
		}
		if next.PaymentMethod == nil && cb.PaymentType != nil {
			next.PaymentMethod = cb.PaymentType
		}
		return next, nil
	})

	switch {
	case err == nil:
		result.Outcome = domain.OutcomeApplied
	case errors.Is(err, errAlreadyInStatus):
		result.Outcome = domain.OutcomeReplayed
	case errors.Is(err, apperrors.ErrInvalidStateTransition):
		logger.Info("Gateway status not applicable to current transaction status", slog.String("reason", err.Error()))
		result.Outcome = domain.OutcomeIgnoredTransition
		return result
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Info("No local transaction for gateway notification yet")
		result.Outcome = domain.OutcomeUnmatched
		return result
	default:
		logger.Error("Failed to apply gateway status", slog.String("error", err.Error()))
		result.Outcome = domain.OutcomeDeferred
		return result
	}

	if _, err := s.callbackRepo.MarkCallbackProcessed(ctx, cb.CallbackID, now); err != nil {
		// the status is applied; a later reconcile pass replays the callback and marks it
		logger.Error("Failed to mark callback processed", slog.String("error", err.Error()))
	}
	return result
}
