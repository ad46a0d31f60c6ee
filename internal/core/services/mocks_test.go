package services_test

import (
	"context"
	"sync"
	"time"

	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	portsrepo "github.com/SscSPs/txn_reconciliation_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// MockTransactionRepository is a mock type for the TransactionRepositoryFacade interface.
// UpdateTransactionLocked expects Return(lockedRow, lookupErr, writeErr): the mutation runs against
// lockedRow and the mutated value is captured in Written.
type MockTransactionRepository struct {
	mock.Mock
	mu      sync.Mutex
	Written []domain.Transaction
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, filter)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.Transaction), next, args.Error(2)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockTransactionRepository) UpdateTransactionLocked(ctx context.Context, transactionID string, mutate portsrepo.TransactionMutation) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	locked := *args.Get(0).(*domain.Transaction)
	updated, err := mutate(locked)
	if err != nil {
		return nil, err
	}
	if err := args.Error(2); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.Written = append(m.Written, updated)
	m.mu.Unlock()
	return &updated, nil
}

// MockPaymentCallbackRepository is a mock type for the PaymentCallbackRepositoryFacade interface
type MockPaymentCallbackRepository struct {
	mock.Mock
}

func (m *MockPaymentCallbackRepository) FindCallbackByID(ctx context.Context, callbackID string) (*domain.PaymentCallback, error) {
	args := m.Called(ctx, callbackID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentCallback), args.Error(1)
}

func (m *MockPaymentCallbackRepository) ListCallbacksByTransactionID(ctx context.Context, transactionID string) ([]domain.PaymentCallback, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentCallback), args.Error(1)
}

func (m *MockPaymentCallbackRepository) ListUnprocessedCallbacks(ctx context.Context, limit int) ([]domain.PaymentCallback, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentCallback), args.Error(1)
}

// SaveCallback echoes the callback back; the duplicate flag comes from the first return value.
func (m *MockPaymentCallbackRepository) SaveCallback(ctx context.Context, callback domain.PaymentCallback) (*domain.PaymentCallback, error) {
	args := m.Called(ctx, callback)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	saved := callback
	saved.Duplicate = args.Bool(0)
	return &saved, nil
}

func (m *MockPaymentCallbackRepository) MarkCallbackProcessed(ctx context.Context, callbackID string, processedAt time.Time) (bool, error) {
	args := m.Called(ctx, callbackID, processedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockPaymentCallbackRepository) MarkCallbacksAttempted(ctx context.Context, callbackIDs []string, attemptedAt time.Time) error {
	args := m.Called(ctx, callbackIDs, attemptedAt)
	return args.Error(0)
}

// MockActivityLogRepository is a mock type for the ActivityLogRepository interface
type MockActivityLogRepository struct {
	mock.Mock
}

func (m *MockActivityLogRepository) SaveActivityLog(ctx context.Context, entry domain.ActivityLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockActivityLogRepository) ListActivityLogsByEntity(ctx context.Context, entityType, entityID string, limit int) ([]domain.ActivityLog, error) {
	args := m.Called(ctx, entityType, entityID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActivityLog), args.Error(1)
}

// MockAuditSvc is a mock type for the AuditSvc interface
type MockAuditSvc struct {
	mock.Mock
}

func (m *MockAuditSvc) Record(ctx context.Context, entry domain.ActivityLog) {
	m.Called(ctx, entry)
}

func (m *MockAuditSvc) ListEntityActivity(ctx context.Context, entityType, entityID string, limit int) ([]domain.ActivityLog, error) {
	args := m.Called(ctx, entityType, entityID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ActivityLog), args.Error(1)
}

// MockEventPublisher is a mock type for the EventPublisher interface
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, key string, value any) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error {
	return m.Called().Error(0)
}

// MockLedgerClient is a mock type for the LedgerServiceClient interface
type MockLedgerClient struct {
	mock.Mock
}

func (m *MockLedgerClient) ApproveTransaction(ctx context.Context, transactionID, approverID string) domain.RemoteResult {
	return m.Called(ctx, transactionID, approverID).Get(0).(domain.RemoteResult)
}

func (m *MockLedgerClient) RejectTransaction(ctx context.Context, transactionID, rejecterID, reason string) domain.RemoteResult {
	return m.Called(ctx, transactionID, rejecterID, reason).Get(0).(domain.RemoteResult)
}

func (m *MockLedgerClient) GetTransaction(ctx context.Context, transactionID string) (*domain.RemoteTransaction, domain.RemoteResult) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Get(1).(domain.RemoteResult)
	}
	return args.Get(0).(*domain.RemoteTransaction), args.Get(1).(domain.RemoteResult)
}

func (m *MockLedgerClient) GetTransactions(ctx context.Context, filter domain.TransactionFilter) ([]domain.RemoteTransaction, domain.RemoteResult) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(domain.RemoteResult)
	}
	return args.Get(0).([]domain.RemoteTransaction), args.Get(1).(domain.RemoteResult)
}

func (m *MockLedgerClient) Login(ctx context.Context, email, password string) (*domain.LedgerSession, domain.RemoteResult) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Get(1).(domain.RemoteResult)
	}
	return args.Get(0).(*domain.LedgerSession), args.Get(1).(domain.RemoteResult)
}

func (m *MockLedgerClient) Register(ctx context.Context, name, email, password, phone string) (*domain.LedgerSession, domain.RemoteResult) {
	args := m.Called(ctx, name, email, password, phone)
	if args.Get(0) == nil {
		return nil, args.Get(1).(domain.RemoteResult)
	}
	return args.Get(0).(*domain.LedgerSession), args.Get(1).(domain.RemoteResult)
}

func (m *MockLedgerClient) VerifyToken(ctx context.Context, token string) (*domain.LedgerUser, domain.RemoteResult) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Get(1).(domain.RemoteResult)
	}
	return args.Get(0).(*domain.LedgerUser), args.Get(1).(domain.RemoteResult)
}

func (m *MockLedgerClient) Logout(ctx context.Context, token string) domain.RemoteResult {
	return m.Called(ctx, token).Get(0).(domain.RemoteResult)
}

func (m *MockLedgerClient) GetUserBalance(ctx context.Context, token string) (*decimal.Decimal, domain.RemoteResult) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Get(1).(domain.RemoteResult)
	}
	return args.Get(0).(*decimal.Decimal), args.Get(1).(domain.RemoteResult)
}

func (m *MockLedgerClient) Health(ctx context.Context) domain.LedgerHealth {
	return m.Called(ctx).Get(0).(domain.LedgerHealth)
}

var fixedNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func pendingTransaction(id string) *domain.Transaction {
	created := fixedNow.Add(-time.Hour)
	return &domain.Transaction{
		TransactionID: id,
		Reference:     "REF-ABCDEFGH",
		UserID:        "user-1",
		Type:          domain.TypeTopup,
		Amount:        decimal.RequireFromString("150000.00"),
		Fee:           decimal.Zero,
		Currency:      domain.DefaultCurrency,
		Status:        domain.StatusPending,
		CreatedAt:     created,
		UpdatedAt:     created,
	}
}

func withStatus(txn *domain.Transaction, status domain.TransactionStatus) *domain.Transaction {
	copied := *txn
	copied.Status = status
	return &copied
}

func okResult() domain.RemoteResult {
	return domain.RemoteResult{Outcome: domain.RemoteOK, StatusCode: 200}
}
