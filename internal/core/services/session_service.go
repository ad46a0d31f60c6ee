package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/txn_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	portssvc "github.com/SscSPs/txn_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/txn_reconciliation_app/internal/dto"
	"github.com/SscSPs/txn_reconciliation_app/internal/utils"
	"github.com/shopspring/decimal"
)

type sessionService struct {
	BaseService
	ledger    portssvc.LedgerSessionClient
	jwtSecret string
	jwtExpiry time.Duration
	jwtIssuer string
}

// NewSessionService creates the admin session service. Credentials are checked by the ledger service.
func NewSessionService(ledger portssvc.LedgerSessionClient, jwtSecret string, jwtExpiry time.Duration, jwtIssuer string) portssvc.SessionSvcFacade {
	return &sessionService{
		ledger:    ledger,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		jwtIssuer: jwtIssuer,
	}
}

var _ portssvc.SessionSvcFacade = (*sessionService)(nil)

func (s *sessionService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	session, res := s.ledger.Login(ctx, email, req.Password)
	if !res.OK() {
		err := ledgerError("login", res, apperrors.ErrUnauthorized)
		s.LogWarn(ctx, "Ledger login failed", slog.String("email", email), slog.String("outcome", string(res.Outcome)))
		return nil, err
	}
	if session == nil || session.User.ID == "" || session.Token == "" {
		return nil, fmt.Errorf("%w: ledger login returned no session", apperrors.ErrRemoteApprovalFailed)
	}

	token, expiresAt, err := utils.GenerateJWT(session.User.ID, session.Token, s.jwtSecret, s.jwtExpiry, s.jwtIssuer)
	if err != nil {
		s.LogError(ctx, err, "Failed to sign access token", slog.String("user_id", session.User.ID))
		return nil, apperrors.NewAppError(500, "failed to issue access token", err)
	}

	s.LogInfo(ctx, "Admin logged in", slog.String("user_id", session.User.ID))
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      toUserResponse(session.User),
	}, nil
}

func (s *sessionService) Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error) {
	session, res := s.ledger.Register(ctx, strings.TrimSpace(req.Name), strings.ToLower(strings.TrimSpace(req.Email)), req.Password, req.Phone)
	if !res.OK() {
		return nil, ledgerError("register", res, apperrors.ErrValidation)
	}
	if session == nil {
		return nil, fmt.Errorf("%w: ledger register returned no user", apperrors.ErrRemoteApprovalFailed)
	}
	user := toUserResponse(session.User)
	return &user, nil
}

func (s *sessionService) Logout(ctx context.Context, actor domain.Actor) error {
	if actor.LedgerToken == "" {
		return nil
	}
	if res := s.ledger.Logout(ctx, actor.LedgerToken); !res.OK() {
		err := ledgerError("logout", res, apperrors.ErrUnauthorized)
		s.LogWarn(ctx, "Ledger logout failed", slog.String("user_id", actor.ID), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func (s *sessionService) Balance(ctx context.Context, actor domain.Actor) (decimal.Decimal, error) {
	if actor.LedgerToken == "" {
		return decimal.Zero, fmt.Errorf("%w: no ledger session", apperrors.ErrUnauthorized)
	}
	balance, res := s.ledger.GetUserBalance(ctx, actor.LedgerToken)
	if !res.OK() {
		return decimal.Zero, ledgerError("balance", res, apperrors.ErrUnauthorized)
	}
	if balance == nil {
		return decimal.Zero, nil
	}
	return *balance, nil
}

func toUserResponse(u domain.LedgerUser) dto.UserResponse {
	return dto.UserResponse{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
	}
}
