package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/txn_reconciliation_app/internal/middleware"
)

// BaseService carries the request-scoped logging helpers and the clock shared by all services.
type BaseService struct {
	clock func() time.Time
}

// GetLogger returns the request logger carried by ctx.
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs msg at error level with err as the "error" attribute.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	if err != nil {
		keyvals = append([]any{slog.String("error", err.Error())}, keyvals...)
	}
	s.GetLogger(ctx).ErrorContext(ctx, msg, keyvals...)
}

func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).WarnContext(ctx, msg, keyvals...)
}

func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).InfoContext(ctx, msg, keyvals...)
}

// Now returns the current time in UTC, or the injected clock's time in tests.
func (s *BaseService) Now() time.Time {
	if s.clock != nil {
		return s.clock()
	}
	return time.Now().UTC()
}
