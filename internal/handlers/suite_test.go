package handlers_test

import (
	"bytes"
	"io"
	"log/slog"
	"net/http/httptest"
	"time"

	portssvc "github.com/SscSPs/txn_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/txn_reconciliation_app/internal/handlers"
	"github.com/SscSPs/txn_reconciliation_app/internal/middleware"
	"github.com/SscSPs/txn_reconciliation_app/internal/platform/config"
	"github.com/SscSPs/txn_reconciliation_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

const (
	testJWTSecret    = "test-secret-key-that-is-long-enough"
	testLedgerAPIKey = "ledger-webhook-key"
	testUserID       = "admin-42"
	testLedgerToken  = "ledger-session-token"
)

// HandlerTestSuite wires the real router, auth middleware and mocked services.
type HandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockTxnService *MockTransactionService
	mockApproval   *MockApprovalService
	mockWebhook    *MockWebhookService
	mockSession    *MockSessionService
	mockAudit      *MockAuditService
	ledger         stubLedger
	db             stubPinger
	token          string
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.mockTxnService = new(MockTransactionService)
	suite.mockApproval = new(MockApprovalService)
	suite.mockWebhook = new(MockWebhookService)
	suite.mockSession = new(MockSessionService)
	suite.mockAudit = new(MockAuditService)
	suite.ledger = stubLedger{}
	suite.db = stubPinger{}
	suite.buildRouter()

	token, _, err := utils.GenerateJWT(testUserID, testLedgerToken, testJWTSecret, time.Hour, "txn-test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	suite.token = token
}

func (suite *HandlerTestSuite) buildRouter() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{
		IsProduction:        true,
		JWTSecret:           testJWTSecret,
		LedgerWebhookAPIKey: testLedgerAPIKey,
		LoginRateLimit:      "1000-M",
	}
	services := &portssvc.ServiceContainer{
		Transaction: suite.mockTxnService,
		Approval:    suite.mockApproval,
		Webhook:     suite.mockWebhook,
		Session:     suite.mockSession,
		Audit:       suite.mockAudit,
		Ledger:      suite.ledger,
	}

	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(logger))
	handlers.RegisterRoutes(suite.router, cfg, services, suite.db, nil, logger)
}

func (suite *HandlerTestSuite) TearDownTest() {
	suite.mockTxnService.AssertExpectations(suite.T())
	suite.mockApproval.AssertExpectations(suite.T())
	suite.mockWebhook.AssertExpectations(suite.T())
	suite.mockSession.AssertExpectations(suite.T())
	suite.mockAudit.AssertExpectations(suite.T())
}

// do sends a request; authenticated requests carry the suite token.
func (suite *HandlerTestSuite) do(method, path string, body []byte, authenticated bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		req.Header.Set("Authorization", "Bearer "+suite.token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// request sends a request with custom headers and no token.
func (suite *HandlerTestSuite) request(method, path string, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}
