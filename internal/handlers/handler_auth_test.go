package handlers_test

import (
	"fmt"
	"net/http"
	"time"

	"github.com/SscSPs/txn_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/txn_reconciliation_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func (suite *HandlerTestSuite) TestLogin_Success() {
	req := dto.LoginRequest{Email: "admin@example.com", Password: "secret-pass"}
	suite.mockSession.On("Login", mock.Anything, req).Return(&dto.LoginResponse{
		Token:     "jwt",
		ExpiresAt: time.Date(2024, 3, 1, 11, 0, 0, 0, time.UTC),
		User:      dto.UserResponse{UserID: "42", Email: "admin@example.com"},
	}, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/auth/login", []byte(`{"email":"admin@example.com","password":"secret-pass"}`), false)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), `"token":"jwt"`)
}

func (suite *HandlerTestSuite) TestLogin_InvalidCredentials() {
	suite.mockSession.On("Login", mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: login: invalid credentials", apperrors.ErrUnauthorized)).Once()

	w := suite.do(http.MethodPost, "/api/v1/auth/login", []byte(`{"email":"admin@example.com","password":"wrong"}`), false)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Invalid email or password", decodeError(suite, w.Body.Bytes()).Error)
}

func (suite *HandlerTestSuite) TestLogin_LedgerDown() {
	suite.mockSession.On("Login", mock.Anything, mock.Anything).Return(nil, apperrors.ErrRemoteTimeout).Once()

	w := suite.do(http.MethodPost, "/api/v1/auth/login", []byte(`{"email":"admin@example.com","password":"secret-pass"}`), false)

	suite.Equal(http.StatusGatewayTimeout, w.Code)
}

func (suite *HandlerTestSuite) TestLogin_BadEmail() {
	w := suite.do(http.MethodPost, "/api/v1/auth/login", []byte(`{"email":"not-an-email","password":"x"}`), false)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestBalance() {
	suite.mockSession.On("Balance", mock.Anything, mock.MatchedBy(func(a domain.Actor) bool {
		return a.LedgerToken == testLedgerToken
	})).Return(decimal.RequireFromString("2500.50"), nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/auth/balance", nil, true)

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"balance":"2500.5"}`, w.Body.String())
}

func (suite *HandlerTestSuite) TestLogout() {
	suite.mockSession.On("Logout", mock.Anything, mock.MatchedBy(isTestActor)).Return(nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/auth/logout", nil, true)

	suite.Equal(http.StatusNoContent, w.Code)
}
