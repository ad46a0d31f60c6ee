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
	"github.com/SscSPs/txn_reconciliation_app/internal/metrics"
	"golang.org/x/sync/errgroup"
)

const (
	defaultRemoteTimeout   = 30 * time.Second
	defaultBulkConcurrency = 4
	defaultBulkDeadline    = 60 * time.Second
	// LocalApplyTimeout bounds the local write that follows an accepted ledger decision.
	LocalApplyTimeout = 10 * time.Second
)

type approvalService struct {
	BaseService
	txnRepo       portsrepo.TransactionRepositoryFacade
	ledger        portssvc.LedgerTransactionClient
	audit         portssvc.AuditSvc
	remoteTimeout time.Duration
	concurrency   int
	bulkDeadline  time.Duration
}

// ApprovalOption configures the approval service
type ApprovalOption func(*approvalService)

// WithRemoteTimeout bounds each ledger service call.
func WithRemoteTimeout(d time.Duration) ApprovalOption {
	return func(s *approvalService) {
		if d > 0 {
			s.remoteTimeout = d
		}
	}
}

// WithBulkConcurrency limits how many items of a bulk request are in flight.
func WithBulkConcurrency(n int) ApprovalOption {
	return func(s *approvalService) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithBulkDeadline bounds a whole bulk request. Items not started by then are reported as remote timeouts.
func WithBulkDeadline(d time.Duration) ApprovalOption {
	return func(s *approvalService) {
		if d > 0 {
			s.bulkDeadline = d
		}
	}
}

// WithApprovalClock overrides the time source.
func WithApprovalClock(clock func() time.Time) ApprovalOption {
	return func(s *approvalService) {
		s.clock = clock
	}
}

// NewApprovalService creates the approval orchestrator.
func NewApprovalService(
	txnRepo portsrepo.TransactionRepositoryFacade,
	ledger portssvc.LedgerTransactionClient,
	audit portssvc.AuditSvc,
	options ...ApprovalOption,
) portssvc.ApprovalSvcFacade {
	svc := &approvalService{
		txnRepo:       txnRepo,
		ledger:        ledger,
		audit:         audit,
		remoteTimeout: defaultRemoteTimeout,
		concurrency:   defaultBulkConcurrency,
		bulkDeadline:  defaultBulkDeadline,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ApprovalSvcFacade = (*approvalService)(nil)

// decision describes one kind of admin decision.
type decision struct {
	action   string
	target   domain.TransactionStatus
	allowed  func(domain.Transaction) bool
	remote   func(ctx context.Context, actor domain.Actor) domain.RemoteResult
	apply    func(txn domain.Transaction, actorID string, now time.Time) (domain.Transaction, error)
	success  domain.ActivityAction
	reason   string
	verbPast string
}

func (s *approvalService) approval(transactionID string) decision {
	return decision{
		action:  "approve",
		target:  domain.StatusCompleted,
		allowed: domain.Transaction.CanBeApproved,
		remote: func(ctx context.Context, actor domain.Actor) domain.RemoteResult {
			return s.ledger.ApproveTransaction(ctx, transactionID, actor.ID)
		},
		apply:    domain.Transaction.Approve,
		success:  domain.ActionTransactionApproved,
		verbPast: "approved",
	}
}

func (s *approvalService) rejection(transactionID, reason string) decision {
	return decision{
		action:  "reject",
		target:  domain.StatusFailed,
		allowed: domain.Transaction.CanBeRejected,
		remote: func(ctx context.Context, actor domain.Actor) domain.RemoteResult {
			return s.ledger.RejectTransaction(ctx, transactionID, actor.ID, reason)
		},
		apply:    domain.Transaction.Reject,
		success:  domain.ActionTransactionRejected,
		reason:   reason,
		verbPast: "rejected",
	}
}

func (s *approvalService) ApproveTransaction(ctx context.Context, transactionID string, actor domain.Actor) (*domain.Transaction, error) {
	return s.decide(ctx, transactionID, actor, s.approval(transactionID))
}

func (s *approvalService) RejectTransaction(ctx context.Context, transactionID string, actor domain.Actor, reason string) (*domain.Transaction, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", apperrors.ErrValidation)
	}
	return s.decide(ctx, transactionID, actor, s.rejection(transactionID, reason))
}

func (s *approvalService) BulkApprove(ctx context.Context, transactionIDs []string, actor domain.Actor) []domain.ApprovalOutcome {
	return s.bulk(ctx, transactionIDs, func(ctx context.Context, id string) error {
		_, err := s.ApproveTransaction(ctx, id, actor)
		return err
	}, "approved")
}

func (s *approvalService) BulkReject(ctx context.Context, transactionIDs []string, actor domain.Actor, reason string) []domain.ApprovalOutcome {
	return s.bulk(ctx, transactionIDs, func(ctx context.Context, id string) error {
		_, err := s.RejectTransaction(ctx, id, actor, reason)
		return err
	}, "rejected")
}

// decide runs the remote call first and only then updates the local row.
// No row lock is held while waiting on the ledger service.
func (s *approvalService) decide(ctx context.Context, transactionID string, actor domain.Actor, d decision) (*domain.Transaction, error) {
	logger := s.GetLogger(ctx).With(
		slog.String("transaction_id", transactionID),
		slog.String("action", d.action),
		slog.String("actor_id", actor.ID))

	current, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		logger.Warn("Transaction lookup failed", slog.String("error", err.Error()))
		metrics.ApprovalsTotal.WithLabelValues(d.action, apperrors.Kind(err)).Inc()
		return nil, err
	}
	if !d.allowed(*current) {
		err := fmt.Errorf("%w: cannot %s transaction %s in status %s",
			apperrors.ErrInvalidStateTransition, d.action, transactionID, current.Status)
		metrics.ApprovalsTotal.WithLabelValues(d.action, apperrors.Kind(err)).Inc()
		return nil, err
	}

	remoteCtx, cancel := context.WithTimeout(ctx, s.remoteTimeout)
	res := d.remote(remoteCtx, actor)
	cancel()
	if !res.OK() {
		err := ledgerError(d.action, res, nil)
		logger.Warn("Ledger service did not accept decision",
			slog.String("outcome", string(res.Outcome)),
			slog.Int("status_code", res.StatusCode),
			slog.String("message", res.Message))
		metrics.ApprovalsTotal.WithLabelValues(d.action, apperrors.Kind(err)).Inc()
		s.audit.Record(ctx, s.activity(d, actor, domain.ActionTransactionApprovalFailed, current, nil, err.Error()))
		return nil, err
	}

	// the ledger has committed; a client that went away must not leave the local row behind
	localCtx, cancelLocal := context.WithTimeout(context.WithoutCancel(ctx), LocalApplyTimeout)
	defer cancelLocal()

	now := s.Now()
	var alreadySettled domain.Transaction
	updated, err := s.txnRepo.UpdateTransactionLocked(localCtx, transactionID, func(locked domain.Transaction) (domain.Transaction, error) {
		if locked.Status == d.target {
			alreadySettled = locked
			return locked, errAlreadyInStatus
		}
		return d.apply(locked, actor.ID, now)
	})
	if errors.Is(err, errAlreadyInStatus) {
		updated, err = &alreadySettled, nil
	}
	if err != nil {
		syncErr := fmt.Errorf("%w: ledger %s transaction %s but the local update failed: %w",
			apperrors.ErrLocalSyncFailed, d.verbPast, transactionID, err)
		logger.Error("Local sync failed after ledger accepted decision", slog.String("error", err.Error()))
		metrics.LocalSyncFailures.Inc()
		metrics.ApprovalsTotal.WithLabelValues(d.action, apperrors.Kind(syncErr)).Inc()
		s.audit.Record(localCtx, s.activity(d, actor, domain.ActionTransactionLocalSyncFail, current, nil, syncErr.Error()))
		return nil, syncErr
	}

	metrics.ApprovalsTotal.WithLabelValues(d.action, "success").Inc()
	logger.Info("Transaction " + d.verbPast)
	s.audit.Record(localCtx, s.activity(d, actor, d.success, current, updated, "transaction "+d.verbPast))
	return updated, nil
}

func (s *approvalService) activity(d decision, actor domain.Actor, action domain.ActivityAction, before, after *domain.Transaction, description string) domain.ActivityLog {
	entry := domain.ActivityLog{
		ActorID:     actor.ID,
		Action:      action,
		EntityType:  domain.EntityTransaction,
		EntityID:    before.TransactionID,
		Description: description,
		OldValues:   map[string]any{"status": string(before.Status)},
		IPAddress:   actor.IPAddress,
		UserAgent:   actor.UserAgent,
	}
	if after != nil {
		entry.NewValues = map[string]any{"status": string(after.Status)}
		if d.reason != "" {
			entry.NewValues["reason"] = d.reason
		}
	}
	return entry
}

// bulk runs one independent decision per distinct ID with bounded concurrency.
// Outcomes follow the input order; repeated IDs share the outcome of their first occurrence.
// The whole run shares one deadline so the outcome list can still be returned to the caller.
func (s *approvalService) bulk(ctx context.Context, transactionIDs []string, run func(context.Context, string) error, verbPast string) []domain.ApprovalOutcome {
	bulkCtx, cancel := context.WithTimeout(ctx, s.bulkDeadline)
	defer cancel()

	outcomes := make([]domain.ApprovalOutcome, len(transactionIDs))
	first := make(map[string]int, len(transactionIDs))

	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for i, id := range transactionIDs {
		if _, seen := first[id]; seen {
			continue
		}
		first[id] = i
		g.Go(func() error {
			if err := bulkCtx.Err(); err != nil {
				outcomes[i] = toApprovalOutcome(id,
					fmt.Errorf("%w: bulk request ended before transaction %s was attempted: %v", apperrors.ErrRemoteTimeout, id, err),
					verbPast)
				return nil
			}
			outcomes[i] = toApprovalOutcome(id, run(bulkCtx, id), verbPast)
			return nil
		})
	}
	_ = g.Wait()

	for i, id := range transactionIDs {
		if j := first[id]; j != i {
			outcomes[i] = outcomes[j]
		}
	}
	return outcomes
}

func toApprovalOutcome(transactionID string, err error, verbPast string) domain.ApprovalOutcome {
	if err != nil {
		return domain.ApprovalOutcome{
			TransactionID: transactionID,
			Success:       false,
			ErrorKind:     apperrors.Kind(err),
			Message:       err.Error(),
		}
	}
	return domain.ApprovalOutcome{
		TransactionID: transactionID,
		Success:       true,
		Message:       "transaction " + verbPast,
	}
}
