package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/SscSPs/txn_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/txn_reconciliation_app/internal/dto"
	"github.com/stretchr/testify/mock"
)

const gatewayBody = `{"order_id":"TXN-1","transaction_status":"settlement","status_code":"200","gross_amount":"150000.00","signature_key":"abc"}`

func (suite *HandlerTestSuite) TestPaymentGateway_Applied() {
	result := &domain.WebhookResult{CallbackID: "cb-1", TransactionID: "TXN-1", Outcome: domain.OutcomeApplied, Status: domain.StatusCompleted}
	suite.mockWebhook.On("IngestGatewayNotification", mock.Anything, []byte(gatewayBody)).Return(result, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/webhooks/payment-gateway", []byte(gatewayBody), false)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.WebhookResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Success)
	suite.Equal("Notification processed", resp.Message)
}

func (suite *HandlerTestSuite) TestPaymentGateway_BurstFromOneAddressIsAccepted() {
	result := &domain.WebhookResult{CallbackID: "cb-1", TransactionID: "TXN-1", Outcome: domain.OutcomeReplayed, Status: domain.StatusCompleted}
	suite.mockWebhook.On("IngestGatewayNotification", mock.Anything, []byte(gatewayBody)).Return(result, nil).Times(20)

	for i := 0; i < 20; i++ {
		w := suite.do(http.MethodPost, "/api/v1/webhooks/payment-gateway", []byte(gatewayBody), false)
		suite.Equal(http.StatusOK, w.Code, "delivery %d", i)
		suite.Empty(w.Header().Get("X-RateLimit-Limit"))
	}
}

func (suite *HandlerTestSuite) TestPaymentGateway_RecordedButNotApplied() {
	for _, outcome := range []domain.WebhookOutcome{domain.OutcomeUnmatched, domain.OutcomeIgnoredTransition, domain.OutcomeUnmappedStatus, domain.OutcomeDeferred, domain.OutcomeReplayed} {
		suite.Run(string(outcome), func() {
			suite.SetupTest()
			suite.mockWebhook.On("IngestGatewayNotification", mock.Anything, mock.Anything).
				Return(&domain.WebhookResult{TransactionID: "TXN-1", Outcome: outcome}, nil).Once()

			w := suite.do(http.MethodPost, "/api/v1/webhooks/payment-gateway", []byte(gatewayBody), false)

			suite.Equal(http.StatusOK, w.Code)
			suite.Contains(w.Body.String(), `"success":true`)
		})
	}
}

func (suite *HandlerTestSuite) TestPaymentGateway_Rejected() {
	cases := map[string]error{
		"malformed_payload": fmt.Errorf("%w: order_id is required", apperrors.ErrMalformedPayload),
		"signature_invalid": apperrors.ErrSignatureInvalid,
	}
	for kind, err := range cases {
		suite.Run(kind, func() {
			suite.SetupTest()
			suite.mockWebhook.On("IngestGatewayNotification", mock.Anything, mock.Anything).Return(nil, err).Once()

			w := suite.do(http.MethodPost, "/api/v1/webhooks/payment-gateway", []byte(`{}`), false)

			suite.Equal(http.StatusBadRequest, w.Code)
			suite.Equal(kind, decodeError(suite, w.Body.Bytes()).ErrorKind)
		})
	}
}

func (suite *HandlerTestSuite) TestPaymentGateway_StorageFailure() {
	suite.mockWebhook.On("IngestGatewayNotification", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("save callback: %w", fmt.Errorf("connection refused"))).Once()

	w := suite.do(http.MethodPost, "/api/v1/webhooks/payment-gateway", []byte(gatewayBody), false)

	suite.Equal(http.StatusInternalServerError, w.Code)
	resp := decodeError(suite, w.Body.Bytes())
	suite.Equal("Failed to record gateway notification", resp.Error)
	suite.NotContains(resp.Error, "connection refused")
}

func (suite *HandlerTestSuite) TestLedgerNotification_RequiresAPIKey() {
	body := []byte(`{"transaction_id":"TXN-1","status":"approved"}`)

	w := suite.request(http.MethodPost, "/api/v1/webhooks/ledger", body, map[string]string{"Content-Type": "application/json"})
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.request(http.MethodPost, "/api/v1/webhooks/ledger", body, map[string]string{"Content-Type": "application/json", "X-API-Key": "wrong"})
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestLedgerNotification() {
	headers := map[string]string{"Content-Type": "application/json", "X-API-Key": testLedgerAPIKey}
	body := []byte(`{"transaction_id":"TXN-1","status":"approved","timestamp":"2024-03-01T10:00:00Z"}`)
	matchReq := mock.MatchedBy(func(r dto.LedgerNotificationRequest) bool {
		return r.TransactionID == "TXN-1" && r.Status == "approved"
	})

	suite.Run("applied", func() {
		suite.SetupTest()
		suite.mockTxnService.On("ApplyLedgerNotification", mock.Anything, matchReq).
			Return(sampleTransaction("TXN-1", domain.StatusCompleted), nil).Once()

		w := suite.request(http.MethodPost, "/api/v1/webhooks/ledger", body, headers)
		suite.Equal(http.StatusOK, w.Code)
	})

	suite.Run("unknown transaction is acknowledged", func() {
		suite.SetupTest()
		suite.mockTxnService.On("ApplyLedgerNotification", mock.Anything, matchReq).
			Return(nil, apperrors.ErrNotFound).Once()

		w := suite.request(http.MethodPost, "/api/v1/webhooks/ledger", body, headers)
		suite.Equal(http.StatusOK, w.Code)
		suite.Contains(w.Body.String(), "not mirrored")
	})

	suite.Run("terminal row is acknowledged", func() {
		suite.SetupTest()
		suite.mockTxnService.On("ApplyLedgerNotification", mock.Anything, matchReq).
			Return(nil, apperrors.ErrInvalidStateTransition).Once()

		w := suite.request(http.MethodPost, "/api/v1/webhooks/ledger", body, headers)
		suite.Equal(http.StatusOK, w.Code)
	})

	suite.Run("storage failure", func() {
		suite.SetupTest()
		suite.mockTxnService.On("ApplyLedgerNotification", mock.Anything, matchReq).
			Return(nil, fmt.Errorf("update TXN-1: %w", fmt.Errorf("deadlock detected"))).Once()

		w := suite.request(http.MethodPost, "/api/v1/webhooks/ledger", body, headers)
		suite.Equal(http.StatusInternalServerError, w.Code)
	})

	suite.Run("missing status", func() {
		suite.SetupTest()
		w := suite.request(http.MethodPost, "/api/v1/webhooks/ledger", []byte(`{"transaction_id":"TXN-1"}`), headers)
		suite.Equal(http.StatusBadRequest, w.Code)
	})
}

func (suite *HandlerTestSuite) TestHealth() {
	suite.ledger = stubLedger{health: domain.LedgerHealth{Status: "healthy", Result: domain.RemoteResult{Outcome: domain.RemoteOK}}}
	suite.buildRouter()

	w := suite.do(http.MethodGet, "/health", nil, false)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"status":"ok","database":"up","ledger":"healthy"}`, w.Body.String())
}

func (suite *HandlerTestSuite) TestHealth_DatabaseDown() {
	suite.db = stubPinger{err: errDBDown}
	suite.ledger = stubLedger{health: domain.LedgerHealth{Result: domain.RemoteResult{Outcome: domain.RemoteUnavailable}}}
	suite.buildRouter()

	w := suite.do(http.MethodGet, "/health", nil, false)

	suite.Equal(http.StatusServiceUnavailable, w.Code)
	suite.JSONEq(`{"status":"degraded","database":"down","ledger":"unavailable"}`, w.Body.String())
}
