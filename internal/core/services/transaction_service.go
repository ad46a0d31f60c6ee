package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/txn_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/txn_reconciliation_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/txn_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/txn_reconciliation_app/internal/dto"
	"github.com/SscSPs/txn_reconciliation_app/internal/utils"
	"github.com/SscSPs/txn_reconciliation_app/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

const defaultSyncLimit = 100

type transactionService struct {
	BaseService
	txnRepo      portsrepo.TransactionRepositoryFacade
	callbackRepo portsrepo.PaymentCallbackReader
	ledger       portssvc.LedgerTransactionClient
	audit        portssvc.AuditSvc
}

// TransactionOption configures the transaction service
type TransactionOption func(*transactionService)

// WithTransactionClock overrides the time source.
func WithTransactionClock(clock func() time.Time) TransactionOption {
	return func(s *transactionService) {
		s.clock = clock
	}
}

// NewTransactionService creates the service for local transaction queries, creation and ledger sync.
func NewTransactionService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	callbackRepo portsrepo.PaymentCallbackReader,
	ledger portssvc.LedgerTransactionClient,
	audit portssvc.AuditSvc,
	options ...TransactionOption,
) portssvc.TransactionSvcFacade {
	svc := &transactionService{
		txnRepo:      txnRepo,
		callbackRepo: callbackRepo,
		ledger:       ledger,
		audit:        audit,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

func (s *transactionService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

func (s *transactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	txns, nextToken, err := s.txnRepo.ListTransactions(ctx, params.ToFilter())
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions")
		return nil, err
	}
	resp := dto.ToListTransactionsResponse(txns, nextToken)
	return &resp, nil
}

func (s *transactionService) ListCallbacks(ctx context.Context, transactionID string) ([]domain.PaymentCallback, error) {
	callbacks, err := s.callbackRepo.ListCallbacksByTransactionID(ctx, transactionID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list callbacks", slog.String("transaction_id", transactionID))
		return nil, err
	}
	return callbacks, nil
}

func (s *transactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, actor domain.Actor) (*domain.Transaction, error) {
	now := s.Now()

	transactionID, err := utils.GenerateTransactionID(now)
	if err != nil {
		s.LogError(ctx, err, "Failed to generate transaction ID")
		return nil, err
	}
	reference, err := utils.GenerateReference()
	if err != nil {
		s.LogError(ctx, err, "Failed to generate reference")
		return nil, err
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	fee := decimal.Zero
	if req.Fee != nil {
		fee = *req.Fee
	}
	metadata := make(map[string]any, len(req.Metadata)+1)
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	metadata["created_by"] = actor.ID

	txn := domain.Transaction{
		TransactionID: transactionID,
		Reference:     reference,
		UserID:        req.UserID,
		Type:          req.Type,
		Amount:        req.Amount.Round(2),
		Fee:           fee.Round(2),
		Currency:      currency,
		Description:   req.Description,
		Status:        domain.StatusPending,
		PaymentMethod: req.PaymentMethod,
		Metadata:      metadata,
		FromAccount:   req.FromAccount,
		ToAccount:     req.ToAccount,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := txn.Validate(); err != nil {
		return nil, err
	}

	if err := s.txnRepo.SaveTransaction(ctx, txn); err != nil {
		s.LogError(ctx, err, "Failed to save transaction", slog.String("transaction_id", txn.TransactionID))
		return nil, err
	}
	s.LogInfo(ctx, "Transaction created",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("actor_id", actor.ID))
	return &txn, nil
}

// ApplyLedgerNotification moves a mirrored transaction to the status reported by the ledger service.
// A notification for the status the row already holds is a no-op.
func (s *transactionService) ApplyLedgerNotification(ctx context.Context, req dto.LedgerNotificationRequest) (*domain.Transaction, error) {
	target := domain.MapRemoteStatus(req.Status)
	now := s.Now()

	var unchanged domain.Transaction
	updated, err := s.txnRepo.UpdateTransactionLocked(ctx, req.TransactionID, func(current domain.Transaction) (domain.Transaction, error) {
		if current.Status == target {
			unchanged = current
			return current, errAlreadyInStatus
		}
		next, err := current.TransitionTo(target, now)
		if err != nil {
			return current, err
		}
		next.Metadata = withMetadata(next.Metadata, map[string]any{
			"ledger_status":      req.Status,
			"ledger_notified_at": req.Timestamp,
		})
		return next, nil
	})
	if errors.Is(err, errAlreadyInStatus) {
		return &unchanged, nil
	}
	if err != nil {
		s.LogWarn(ctx, "Ledger notification not applied",
			slog.String("transaction_id", req.TransactionID),
			slog.String("ledger_status", req.Status),
			slog.String("error", err.Error()))
		return nil, err
	}
	s.LogInfo(ctx, "Ledger notification applied",
		slog.String("transaction_id", req.TransactionID),
		slog.String("status", string(updated.Status)))
	return updated, nil
}

// SyncFromLedger mirrors ledger service transactions locally. Unknown transactions are inserted.
// Known ones only move forward along the state machine, so terminal rows are never downgraded.
func (s *transactionService) SyncFromLedger(ctx context.Context, req dto.SyncTransactionsRequest, actor domain.Actor) (*domain.SyncResult, error) {
	filter := domain.TransactionFilter{Limit: req.Limit}
	if filter.Limit <= 0 {
		filter.Limit = defaultSyncLimit
	}
	if req.Status != "" {
		status := domain.TransactionStatus(req.Status)
		filter.Status = &status
	}
	if req.Type != "" {
		txnType := domain.TransactionType(req.Type)
		filter.Type = &txnType
	}
	if req.UserID != "" {
		filter.UserID = &req.UserID
	}

	remote, res := s.ledger.GetTransactions(ctx, filter)
	if !res.OK() {
		err := ledgerError("list transactions", res, nil)
		s.LogError(ctx, err, "Ledger sync failed")
		return nil, err
	}

	result := &domain.SyncResult{Fetched: len(remote)}
	for _, r := range remote {
		if ctx.Err() != nil {
			break
		}
		switch s.syncOne(ctx, mapping.ToDomainTransactionFromRemote(r)) {
		case syncCreated:
			result.Created++
		case syncUpdated:
			result.Updated++
		case syncUnchanged:
			result.Unchanged++
		}
	}
	// includes items never reached after cancellation
	result.Skipped = result.Fetched - result.Created - result.Updated - result.Unchanged

	s.LogInfo(ctx, "Ledger sync finished",
		slog.Int("fetched", result.Fetched),
		slog.Int("created", result.Created),
		slog.Int("updated", result.Updated),
		slog.Int("skipped", result.Skipped))
	s.audit.Record(ctx, domain.ActivityLog{
		ActorID:     actor.ID,
		Action:      domain.ActionTransactionsSynced,
		EntityType:  domain.EntityTransaction,
		EntityID:    "batch",
		Description: fmt.Sprintf("synced %d transactions from ledger", result.Fetched),
		NewValues: map[string]any{
			"fetched":   result.Fetched,
			"created":   result.Created,
			"updated":   result.Updated,
			"unchanged": result.Unchanged,
			"skipped":   result.Skipped,
		},
		IPAddress: actor.IPAddress,
		UserAgent: actor.UserAgent,
	})
	return result, nil
}

type syncOutcome int

const (
	syncSkipped syncOutcome = iota
	syncCreated
	syncUpdated
	syncUnchanged
)

func (s *transactionService) syncOne(ctx context.Context, mirror domain.Transaction) syncOutcome {
	logger := s.GetLogger(ctx).With(slog.String("transaction_id", mirror.TransactionID))
	if err := mirror.Validate(); err != nil {
		logger.Warn("Skipping invalid ledger transaction", slog.String("error", err.Error()))
		return syncSkipped
	}

	err := s.txnRepo.SaveTransaction(ctx, mirror)
	if err == nil {
		return syncCreated
	}
	if !errors.Is(err, apperrors.ErrDuplicate) {
		logger.Error("Failed to insert ledger transaction", slog.String("error", err.Error()))
		return syncSkipped
	}

	now := s.Now()
	_, err = s.txnRepo.UpdateTransactionLocked(ctx, mirror.TransactionID, func(current domain.Transaction) (domain.Transaction, error) {
		if current.Status == mirror.Status {
			return current, errAlreadyInStatus
		}
		next, err := current.TransitionTo(mirror.Status, now)
		if err != nil {
			return current, err
		}
		if next.PaymentGatewayID == nil {
			next.PaymentGatewayID = mirror.PaymentGatewayID
		}
		if next.PaymentMethod == nil {
			next.PaymentMethod = mirror.PaymentMethod
		}
		next.Metadata = withMetadata(next.Metadata, map[string]any{"remote_status": mirror.Metadata["remote_status"]})
		return next, nil
	})
	switch {
	case err == nil:
		return syncUpdated
	case errors.Is(err, errAlreadyInStatus), errors.Is(err, apperrors.ErrInvalidStateTransition):
		return syncUnchanged
	default:
		// a duplicate reference on a different ID also lands here
		logger.Error("Failed to update mirrored transaction", slog.String("error", err.Error()))
		return syncSkipped
	}
}

func withMetadata(base map[string]any, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}
