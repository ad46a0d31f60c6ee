package middleware

import (
	"context"
	"log/slog"

	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// contextKey is used for values stored in the request context.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey      = contextKey("logger")
	userIDKey         = contextKey("userID")
	ledgerTokenCtxKey = contextKey("ledgerToken")
)

// GetLoggerFromCtx retrieves the request-scoped logger from a standard context.
// It returns the default logger if none is found.
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return slog.Default()
	}
	if logger, ok := ctx.Value(loggerCtxKey).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}

// WithLogger returns a copy of ctx carrying logger. Used by background callers and tests.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userID, ok := c.Request.Context().Value(userIDKey).(string); ok && userID != "" {
		return userID, true
	}
	return "", false
}

// GetActorFromContext builds the acting admin for service calls from the authenticated request.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	userID, ok := GetUserIDFromContext(c)
	if !ok {
		return domain.Actor{}, false
	}
	ledgerToken, _ := c.Request.Context().Value(ledgerTokenCtxKey).(string)
	return domain.Actor{
		ID:          userID,
		LedgerToken: ledgerToken,
		IPAddress:   c.ClientIP(),
		UserAgent:   c.Request.UserAgent(),
	}, true
}
