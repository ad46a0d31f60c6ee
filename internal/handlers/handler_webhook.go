package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/SscSPs/txn_reconciliation_app/internal/apperrors"
	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	portssvc "github.com/SscSPs/txn_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/txn_reconciliation_app/internal/dto"
	"github.com/SscSPs/txn_reconciliation_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

const maxWebhookBodyBytes = 1 << 20

type webhookHandler struct {
	webhookService     portssvc.WebhookIngestorSvc
	transactionService portssvc.TransactionWriterSvc
}

func newWebhookHandler(ws portssvc.WebhookIngestorSvc, ts portssvc.TransactionWriterSvc) *webhookHandler {
	return &webhookHandler{webhookService: ws, transactionService: ts}
}

// registerWebhookRoutes wires the inbound notification endpoints. Neither uses admin JWT auth.
// Gateway deliveries are signed and come from a handful of gateway IPs, so they are not rate limited.
func registerWebhookRoutes(rg *gin.RouterGroup, ws portssvc.WebhookIngestorSvc, ts portssvc.TransactionWriterSvc, ledgerAPIKey string) {
	h := newWebhookHandler(ws, ts)

	webhooks := rg.Group("/webhooks")
	{
		webhooks.POST("/payment-gateway", h.paymentGatewayNotification)
		webhooks.POST("/ledger", middleware.APIKeyAuth(ledgerAPIKey), h.ledgerNotification)
	}
}

// paymentGatewayNotification godoc
// @Summary Receive a payment gateway notification
// @Description Verifies the signature, records the callback and applies the mapped status to the transaction.
// @Description Returns 200 once the callback is durably recorded, even if it could not be applied yet.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param notification body dto.GatewayNotificationRequest true "Gateway notification"
// @Success 200 {object} dto.WebhookResponse
// @Failure 400 {object} ErrorResponse "Malformed payload or invalid signature"
// @Failure 500 {object} ErrorResponse "Callback could not be recorded"
// @Router /webhooks/payment-gateway [post]
func (h *webhookHandler) paymentGatewayNotification(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBodyBytes))
	if err != nil {
		logger.Warn("Failed to read webhook body", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body", ErrorKind: apperrors.Kind(apperrors.ErrMalformedPayload)})
		return
	}

	result, err := h.webhookService.IngestGatewayNotification(c.Request.Context(), body)
	if err != nil {
		// the gateway retries on 5xx
		msg := "Failed to record gateway notification"
		if errors.Is(err, apperrors.ErrMalformedPayload) || errors.Is(err, apperrors.ErrSignatureInvalid) {
			msg = "Rejected gateway notification"
		}
		respondError(c, err, msg)
		return
	}

	logger.Info("Gateway notification handled",
		slog.String("order_id", result.TransactionID),
		slog.String("callback_id", result.CallbackID),
		slog.String("outcome", string(result.Outcome)))
	c.JSON(http.StatusOK, dto.WebhookResponse{Success: true, Message: webhookMessage(result.Outcome)})
}

func webhookMessage(outcome domain.WebhookOutcome) string {
	switch outcome {
	case domain.OutcomeApplied:
		return "Notification processed"
	case domain.OutcomeReplayed:
		return "Notification already applied"
	case domain.OutcomeIgnoredTransition:
		return "Notification recorded; transaction already settled"
	case domain.OutcomeUnmatched:
		return "Notification recorded; transaction not found"
	case domain.OutcomeUnmappedStatus:
		return "Notification recorded; status not actionable"
	default:
		return "Notification recorded"
	}
}

// ledgerNotification godoc
// @Summary Receive a ledger service transaction update
// @Description Applies a status pushed by the ledger service. Unknown transactions and stale updates are acknowledged.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param notification body dto.LedgerNotificationRequest true "Ledger notification"
// @Success 200 {object} dto.WebhookResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse "Invalid API key"
// @Failure 500 {object} ErrorResponse
// @Security ApiKeyAuth
// @Router /webhooks/ledger [post]
func (h *webhookHandler) ledgerNotification(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.LedgerNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	logger = logger.With(slog.String("transaction_id", req.TransactionID), slog.String("remote_status", req.Status))
	txn, err := h.transactionService.ApplyLedgerNotification(c.Request.Context(), req)
	switch {
	case err == nil:
		logger.Info("Ledger notification applied", slog.String("status", string(txn.Status)))
		c.JSON(http.StatusOK, dto.WebhookResponse{Success: true, Message: "Transaction updated"})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Ledger notification for unknown transaction")
		c.JSON(http.StatusOK, dto.WebhookResponse{Success: true, Message: "Transaction not mirrored locally"})
	case errors.Is(err, apperrors.ErrInvalidStateTransition):
		logger.Warn("Ledger notification ignored", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, dto.WebhookResponse{Success: true, Message: "Transition not applicable"})
	default:
		respondError(c, err, "Failed to apply ledger notification")
	}
}
