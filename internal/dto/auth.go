package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoginRequest is forwarded to the ledger service.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is forwarded to the ledger service.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone,omitempty"`
}

// UserResponse is the admin identity as known to the ledger service.
type UserResponse struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role,omitempty"`
}

// LoginResponse represents the response for a successful login.
type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// BalanceResponse is the ledger balance of the authenticated user.
type BalanceResponse struct {
	Balance decimal.Decimal `json:"balance" swaggertype:"string"`
}
