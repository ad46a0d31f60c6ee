package handlers_test

import (
	"context"
	"errors"

	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	portssvc "github.com/SscSPs/txn_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/txn_reconciliation_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock TransactionService ---
type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListTransactionsResponse), args.Error(1)
}

func (m *MockTransactionService) ListCallbacks(ctx context.Context, transactionID string) ([]domain.PaymentCallback, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentCallback), args.Error(1)
}

func (m *MockTransactionService) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, actor domain.Actor) (*domain.Transaction, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) ApplyLedgerNotification(ctx context.Context, req dto.LedgerNotificationRequest) (*domain.Transaction, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionService) SyncFromLedger(ctx context.Context, req dto.SyncTransactionsRequest, actor domain.Actor) (*domain.SyncResult, error) {
	args := m.Called(ctx, req, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncResult), args.Error(1)
}

var _ portssvc.TransactionSvcFacade = (*MockTransactionService)(nil)

// --- Mock ApprovalService ---
type MockApprovalService struct {
	mock.Mock
}

func (m *MockApprovalService) ApproveTransaction(ctx context.Context, transactionID string, actor domain.Actor) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockApprovalService) RejectTransaction(ctx context.Context, transactionID string, actor domain.Actor, reason string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID, actor, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockApprovalService) BulkApprove(ctx context.Context, transactionIDs []string, actor domain.Actor) []domain.ApprovalOutcome {
	args := m.Called(ctx, transactionIDs, actor)
	return args.Get(0).([]domain.ApprovalOutcome)
}

func (m *MockApprovalService) BulkReject(ctx context.Context, transactionIDs []string, actor domain.Actor, reason string) []domain.ApprovalOutcome {
	args := m.Called(ctx, transactionIDs, actor, reason)
	return args.Get(0).([]domain.ApprovalOutcome)
}

var _ portssvc.ApprovalSvcFacade = (*MockApprovalService)(nil)

// --- Mock WebhookService ---
type MockWebhookService struct {
	mock.Mock
}

func (m *MockWebhookService) IngestGatewayNotification(ctx context.Context, body []byte) (*domain.WebhookResult, error) {
	args := m.Called(ctx, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WebhookResult), args.Error(1)
}

func (m *MockWebhookService) ReconcileUnprocessedCallbacks(ctx context.Context, limit int, actor domain.Actor) (*domain.ReconcileResult, error) {
	args := m.Called(ctx, limit, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconcileResult), args.Error(1)
}

var _ portssvc.WebhookSvcFacade = (*MockWebhookService)(nil)

// --- Mock SessionService ---
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}

func (m *MockSessionService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

func (m *MockSessionService) Logout(ctx context.Context, actor domain.Actor) error {
	return m.Called(ctx, actor).Error(0)
}

func (m *MockSessionService) Balance(ctx context.Context, actor domain.Actor) (decimal.Decimal, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

var _ portssvc.SessionSvcFacade = (*MockSessionService)(nil)

// --- Mock AuditSvc ---
type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Record(ctx context.Context, entry domain.ActivityLog) {
	m.Called(ctx, entry)
}

func (m *MockAuditService) ListEntityActivity(ctx context.Context, entityType, entityID string, limit int) ([]domain.ActivityLog, error) {
	args := m.Called(ctx, entityType, entityID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActivityLog), args.Error(1)
}

var _ portssvc.AuditSvc = (*MockAuditService)(nil)

// stubLedger only answers health checks; the handlers never call the ledger directly otherwise.
type stubLedger struct {
	portssvc.LedgerServiceClient
	health domain.LedgerHealth
}

func (s stubLedger) Health(context.Context) domain.LedgerHealth {
	return s.health
}

// stubPinger fails when err is set.
type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}

var errDBDown = errors.New("connection refused")
