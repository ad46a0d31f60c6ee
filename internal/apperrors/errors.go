package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal is used for unexpected storage or infrastructure failures.
var ErrInternal = errors.New("internal error")

// Webhook ingestion errors.
var (
	// ErrMalformedPayload is returned when a notification misses required fields or is not valid JSON.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrSignatureInvalid is returned when the notification signature does not match.
	ErrSignatureInvalid = errors.New("signature invalid")
)

// ErrInvalidStateTransition is returned when a status change is not allowed from the current status.
// The transaction is left untouched.
var ErrInvalidStateTransition = errors.New("invalid state transition")

// Approval orchestration errors.
var (
	// ErrRemoteApprovalFailed means the ledger service refused or could not be reached. No local change was made.
	ErrRemoteApprovalFailed = errors.New("remote approval failed")
	// ErrRemoteTimeout means the ledger service did not answer in time. No local change was made.
	ErrRemoteTimeout = errors.New("remote call timed out")
	// ErrLocalSyncFailed means the ledger service accepted the change but the local mirror could not be updated.
	// Such transactions need reconciliation.
	ErrLocalSyncFailed = errors.New("local sync failed after remote success")
)

// AppError carries an HTTP-ish code and a message on top of a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError. err may be nil.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Kind returns a short machine readable name for the error category of err.
// Unknown errors are reported as "internal".
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrLocalSyncFailed):
		return "local_sync_failed"
	case errors.Is(err, ErrRemoteTimeout):
		return "remote_timeout"
	case errors.Is(err, ErrRemoteApprovalFailed):
		return "remote_approval_failed"
	case errors.Is(err, ErrInvalidStateTransition):
		return "invalid_state_transition"
	case errors.Is(err, ErrSignatureInvalid):
		return "signature_invalid"
	case errors.Is(err, ErrMalformedPayload):
		return "malformed_payload"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrDuplicate):
		return "duplicate"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	default:
		return "internal"
	}
}
