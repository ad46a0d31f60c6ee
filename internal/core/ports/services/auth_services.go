package services

import (
	"context"

	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/txn_reconciliation_app/internal/dto"
	"github.com/shopspring/decimal"
)

// SessionSvcFacade bootstraps admin identity from the ledger service and issues local access tokens.
type SessionSvcFacade interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Register(ctx context.Context, req dto.RegisterRequest) (*dto.UserResponse, error)
	Logout(ctx context.Context, actor domain.Actor) error
	Balance(ctx context.Context, actor domain.Actor) (decimal.Decimal, error)
}
