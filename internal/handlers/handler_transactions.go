package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	portssvc "github.com/SscSPs/txn_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/txn_reconciliation_app/internal/dto"
	"github.com/SscSPs/txn_reconciliation_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

const (
	defaultActivityLimit  = 50
	defaultReconcileLimit = 100
)

// transactionHandler serves the admin transaction endpoints.
type transactionHandler struct {
	transactionService portssvc.TransactionSvcFacade
	approvalService    portssvc.ApprovalSvcFacade
	webhookService     portssvc.CallbackReconcilerSvc
	auditService       portssvc.AuditSvc
}

func newTransactionHandler(
	ts portssvc.TransactionSvcFacade,
	as portssvc.ApprovalSvcFacade,
	ws portssvc.CallbackReconcilerSvc,
	audit portssvc.AuditSvc,
) *transactionHandler {
	return &transactionHandler{
		transactionService: ts,
		approvalService:    as,
		webhookService:     ws,
		auditService:       audit,
	}
}

// RegisterTransactionRoutes registers the admin transaction routes on an authenticated group.
func RegisterTransactionRoutes(
	rg *gin.RouterGroup,
	ts portssvc.TransactionSvcFacade,
	as portssvc.ApprovalSvcFacade,
	ws portssvc.CallbackReconcilerSvc,
	audit portssvc.AuditSvc,
) {
	h := newTransactionHandler(ts, as, ws, audit)

	admin := rg.Group("/admin")
	transactions := admin.Group("/transactions")
	{
		transactions.GET("", h.listTransactions)
		transactions.POST("", h.createTransaction)
		transactions.POST("/sync", h.syncTransactions)
		transactions.POST("/bulk-approve", h.bulkApprove)
		transactions.POST("/bulk-reject", h.bulkReject)
		transactions.GET("/:id", h.getTransaction)
		transactions.POST("/:id/approve", h.approveTransaction)
		transactions.POST("/:id/reject", h.rejectTransaction)
		transactions.GET("/:id/callbacks", h.listCallbacks)
		transactions.GET("/:id/activity", h.listActivity)
	}

	admin.POST("/callbacks/reconcile", h.reconcileCallbacks)
}

// approveTransaction godoc
// @Summary Approve a pending transaction
// @Description Approves the transaction in the ledger service, then mirrors the result locally.
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 409 {object} ErrorResponse "Transaction is not pending"
// @Failure 500 {object} ErrorResponse "Approved remotely but the local mirror was not updated"
// @Failure 502 {object} ErrorResponse "Ledger service refused or is unavailable"
// @Failure 504 {object} ErrorResponse "Ledger service timed out"
// @Security BearerAuth
// @Router /admin/transactions/{id}/approve [post]
func (h *transactionHandler) approveTransaction(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	transactionID := c.Param("id")

	txn, err := h.approvalService.ApproveTransaction(c.Request.Context(), transactionID, actor)
	if err != nil {
		respondError(c, err, "Failed to approve transaction")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Transaction approved", slog.String("transaction_id", transactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// rejectTransaction godoc
// @Summary Reject a pending or processing transaction
// @Description Rejects the transaction in the ledger service, then mirrors the result locally. A reason is required.
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param rejection body dto.RejectTransactionRequest true "Rejection reason"
// @Success 200 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 504 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/transactions/{id}/reject [post]
func (h *transactionHandler) rejectTransaction(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.RejectTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	transactionID := c.Param("id")

	txn, err := h.approvalService.RejectTransaction(c.Request.Context(), transactionID, actor, req.Reason)
	if err != nil {
		respondError(c, err, "Failed to reject transaction")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Transaction rejected", slog.String("transaction_id", transactionID))
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// bulkApprove godoc
// @Summary Approve several transactions
// @Description Each transaction is handled independently; the response lists one outcome per ID in request order.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body dto.BulkApproveRequest true "Transaction IDs"
// @Success 200 {object} dto.BulkActionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/transactions/bulk-approve [post]
func (h *transactionHandler) bulkApprove(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.BulkApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp := dto.ToBulkActionResponse(h.approvalService.BulkApprove(c.Request.Context(), req.TransactionIDs, actor))
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Bulk approve finished",
		slog.Int("succeeded", resp.Succeeded), slog.Int("failed", resp.Failed))
	c.JSON(http.StatusOK, resp)
}

// bulkReject godoc
// @Summary Reject several transactions
// @Description Each transaction is handled independently with the same reason; one outcome per ID in request order.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body dto.BulkRejectRequest true "Transaction IDs and reason"
// @Success 200 {object} dto.BulkActionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/transactions/bulk-reject [post]
func (h *transactionHandler) bulkReject(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.BulkRejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	resp := dto.ToBulkActionResponse(h.approvalService.BulkReject(c.Request.Context(), req.TransactionIDs, actor, req.Reason))
	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Bulk reject finished",
		slog.Int("succeeded", resp.Succeeded), slog.Int("failed", resp.Failed))
	c.JSON(http.StatusOK, resp)
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	txn, err := h.transactionService.GetTransaction(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to retrieve transaction")
		return
	}
	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List mirrored transactions
// @Description Newest first, with keyset pagination through next_token.
// @Tags transactions
// @Produce json
// @Param status query string false "Filter by status"
// @Param type query string false "Filter by type"
// @Param user_id query string false "Filter by user"
// @Param limit query int false "Page size" default(20)
// @Param next_token query string false "Token from the previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		respondBindError(c, err)
		return
	}

	resp, err := h.transactionService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		respondError(c, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// createTransaction godoc
// @Summary Register a transaction
// @Description Creates a pending transaction in the local mirror.
// @Tags transactions
// @Accept json
// @Produce json
// @Param transaction body dto.CreateTransactionRequest true "Transaction"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/transactions [post]
func (h *transactionHandler) createTransaction(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	txn, err := h.transactionService.CreateTransaction(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err, "Failed to create transaction")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Transaction created", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listCallbacks godoc
// @Summary List gateway callbacks of a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {array} dto.PaymentCallbackResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/transactions/{id}/callbacks [get]
func (h *transactionHandler) listCallbacks(c *gin.Context) {
	callbacks, err := h.transactionService.ListCallbacks(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err, "Failed to list callbacks")
		return
	}
	c.JSON(http.StatusOK, dto.ToPaymentCallbackResponses(callbacks))
}

// listActivity godoc
// @Summary List audit entries of a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Param limit query int false "Maximum entries" default(50)
// @Success 200 {array} domain.ActivityLog
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/transactions/{id}/activity [get]
func (h *transactionHandler) listActivity(c *gin.Context) {
	limit := defaultActivityLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 500 {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be between 1 and 500", ErrorKind: "validation"})
			return
		}
		limit = n
	}

	entries, err := h.auditService.ListEntityActivity(c.Request.Context(), domain.EntityTransaction, c.Param("id"), limit)
	if err != nil {
		respondError(c, err, "Failed to list activity")
		return
	}
	if entries == nil {
		entries = []domain.ActivityLog{}
	}
	c.JSON(http.StatusOK, entries)
}

// syncTransactions godoc
// @Summary Mirror ledger service transactions locally
// @Description Fetches transactions from the ledger service and creates or advances local rows. Terminal rows are never downgraded.
// @Tags transactions
// @Accept json
// @Produce json
// @Param filter body dto.SyncTransactionsRequest false "Remote filter"
// @Success 200 {object} domain.SyncResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Failure 504 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/transactions/sync [post]
func (h *transactionHandler) syncTransactions(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.SyncTransactionsRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}

	result, err := h.transactionService.SyncFromLedger(c.Request.Context(), req, actor)
	if err != nil {
		respondError(c, err, "Failed to sync transactions")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Transactions synced",
		slog.Int("fetched", result.Fetched), slog.Int("created", result.Created), slog.Int("updated", result.Updated))
	c.JSON(http.StatusOK, result)
}

// reconcileCallbacks godoc
// @Summary Re-apply unprocessed gateway callbacks
// @Description Retries matching of verified callbacks that have not been applied yet, oldest first.
// @Tags callbacks
// @Accept json
// @Produce json
// @Param request body dto.ReconcileCallbacksRequest false "Batch size"
// @Success 200 {object} domain.ReconcileResult
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /admin/callbacks/reconcile [post]
func (h *transactionHandler) reconcileCallbacks(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req dto.ReconcileCallbacksRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondBindError(c, err)
			return
		}
	}
	if req.Limit == 0 {
		req.Limit = defaultReconcileLimit
	}

	result, err := h.webhookService.ReconcileUnprocessedCallbacks(c.Request.Context(), req.Limit, actor)
	if err != nil {
		respondError(c, err, "Failed to reconcile callbacks")
		return
	}
	c.JSON(http.StatusOK, result)
}
