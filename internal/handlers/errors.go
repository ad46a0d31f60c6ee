package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/SscSPs/txn_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/txn_reconciliation_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the generic error body.
type ErrorResponse struct {
	Error     string `json:"error"`
	ErrorKind string `json:"error_kind,omitempty"`
}

// statusForError maps service errors to HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrLocalSyncFailed):
		return http.StatusInternalServerError
	case errors.Is(err, apperrors.ErrRemoteTimeout):
		return http.StatusGatewayTimeout
	case errors.Is(err, apperrors.ErrRemoteApprovalFailed):
		return http.StatusBadGateway
	case errors.Is(err, apperrors.ErrInvalidStateTransition):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrMalformedPayload),
		errors.Is(err, apperrors.ErrSignatureInvalid),
		errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. Unclassified errors are not echoed to the client.
func respondError(c *gin.Context, err error, fallbackMsg string) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	status := statusForError(err)
	kind := apperrors.Kind(err)

	msg := err.Error()
	if kind == "internal" {
		msg = fallbackMsg
	}
	if status >= http.StatusInternalServerError {
		logger.Error(fallbackMsg, slog.String("error", err.Error()), slog.String("error_kind", kind))
	} else {
		logger.Warn(fallbackMsg, slog.String("error", err.Error()), slog.String("error_kind", kind))
	}
	c.JSON(status, ErrorResponse{Error: msg, ErrorKind: kind})
}

func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromCtx(c.Request.Context()).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error(), ErrorKind: "validation"})
}

// requireActor returns the authenticated admin or writes 401.
func requireActor(c *gin.Context) (domain.Actor, bool) {
	actor, ok := middleware.GetActorFromContext(c)
	if !ok {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Actor not found in context")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return domain.Actor{}, false
	}
	return actor, true
}
