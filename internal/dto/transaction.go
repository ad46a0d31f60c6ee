package dto

import (
	"encoding/json"
	"time"

	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest registers a locally initiated transaction before the ledger confirms it.
type CreateTransactionRequest struct {
	UserID        string                 `json:"userId" binding:"required"`
	Type          domain.TransactionType `json:"type" binding:"required,oneof=topup payment transfer withdrawal"`
	Amount        decimal.Decimal        `json:"amount" swaggertype:"string"`
	Fee           *decimal.Decimal       `json:"fee,omitempty" swaggertype:"string"`
	Currency      string                 `json:"currency,omitempty" binding:"omitempty,len=3"`
	Description   string                 `json:"description,omitempty" binding:"max=255"`
	PaymentMethod *string                `json:"paymentMethod,omitempty"`
	FromAccount   *string                `json:"fromAccount,omitempty"`
	ToAccount     *string                `json:"toAccount,omitempty"`
	Metadata      map[string]any         `json:"metadata,omitempty"`
}

// RejectTransactionRequest carries the mandatory rejection reason.
type RejectTransactionRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// BulkApproveRequest lists transactions to approve.
type BulkApproveRequest struct {
	TransactionIDs []string `json:"transactionIds" binding:"required,min=1,max=100,dive,required"`
}

// BulkRejectRequest lists transactions to reject with one shared reason.
type BulkRejectRequest struct {
	TransactionIDs []string `json:"transactionIds" binding:"required,min=1,max=100,dive,required"`
	Reason         string   `json:"reason" binding:"required,max=500"`
}

// BulkActionResponse reports per-item outcomes of a bulk action.
type BulkActionResponse struct {
	Results   []domain.ApprovalOutcome `json:"results"`
	Succeeded int                      `json:"succeeded"`
	Failed    int                      `json:"failed"`
}

// ToBulkActionResponse counts outcomes.
func ToBulkActionResponse(results []domain.ApprovalOutcome) BulkActionResponse {
	resp := BulkActionResponse{Results: results}
	for _, r := range results {
		if r.Success {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
	}
	return resp
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Status    string `form:"status" binding:"omitempty,oneof=pending processing completed failed cancelled"`
	Type      string `form:"type" binding:"omitempty,oneof=topup payment transfer withdrawal"`
	UserID    string `form:"user_id"`
	Limit     int    `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken string `form:"next_token"`
}

// ToFilter converts query parameters into a domain filter.
func (p ListTransactionsParams) ToFilter() domain.TransactionFilter {
	filter := domain.TransactionFilter{Limit: p.Limit}
	if p.Status != "" {
		status := domain.TransactionStatus(p.Status)
		filter.Status = &status
	}
	if p.Type != "" {
		txnType := domain.TransactionType(p.Type)
		filter.Type = &txnType
	}
	if p.UserID != "" {
		filter.UserID = &p.UserID
	}
	if p.NextToken != "" {
		filter.NextToken = &p.NextToken
	}
	return filter
}

// SyncTransactionsRequest selects which ledger transactions to mirror.
type SyncTransactionsRequest struct {
	Status string `json:"status" binding:"omitempty"`
	Type   string `json:"type" binding:"omitempty,oneof=topup payment transfer withdrawal"`
	UserID string `json:"userId"`
	Limit  int    `json:"limit" binding:"omitempty,min=1,max=500"`
}

// TransactionResponse defines the data returned for a transaction.
type TransactionResponse struct {
	TransactionID    string          `json:"transactionId"`
	Reference        string          `json:"reference"`
	UserID           string          `json:"userId"`
	Type             string          `json:"type"`
	Amount           decimal.Decimal `json:"amount" swaggertype:"string"`
	Fee              decimal.Decimal `json:"fee" swaggertype:"string"`
	Currency         string          `json:"currency"`
	Description      string          `json:"description"`
	Status           string          `json:"status"`
	PaymentGatewayID *string         `json:"paymentGatewayId,omitempty"`
	PaymentMethod    *string         `json:"paymentMethod,omitempty"`
	Metadata         map[string]any  `json:"metadata,omitempty"`
	FromAccount      *string         `json:"fromAccount,omitempty"`
	ToAccount        *string         `json:"toAccount,omitempty"`
	ApprovedBy       *string         `json:"approvedBy,omitempty"`
	ApprovedAt       *time.Time      `json:"approvedAt,omitempty"`
	ProcessedAt      *time.Time      `json:"processedAt,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:    txn.TransactionID,
		Reference:        txn.Reference,
		UserID:           txn.UserID,
		Type:             string(txn.Type),
		Amount:           txn.Amount,
		Fee:              txn.Fee,
		Currency:         txn.Currency,
		Description:      txn.Description,
		Status:           string(txn.Status),
		PaymentGatewayID: txn.PaymentGatewayID,
		PaymentMethod:    txn.PaymentMethod,
		Metadata:         txn.Metadata,
		FromAccount:      txn.FromAccount,
		ToAccount:        txn.ToAccount,
		ApprovedBy:       txn.ApprovedBy,
		ApprovedAt:       txn.ApprovedAt,
		ProcessedAt:      txn.ProcessedAt,
		CreatedAt:        txn.CreatedAt,
		UpdatedAt:        txn.UpdatedAt,
	}
}

// ToListTransactionsResponse converts a page of domain transactions.
func ToListTransactionsResponse(txns []domain.Transaction, nextToken *string) ListTransactionsResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return ListTransactionsResponse{Transactions: responses, NextToken: nextToken}
}

// PaymentCallbackResponse exposes a stored callback to admins. The raw payload is included as received.
type PaymentCallbackResponse struct {
	CallbackID           string          `json:"callbackId"`
	TransactionID        string          `json:"transactionId"`
	GatewayTransactionID *string         `json:"gatewayTransactionId,omitempty"`
	GatewayStatus        string          `json:"gatewayStatus"`
	FraudStatus          *string         `json:"fraudStatus,omitempty"`
	GrossAmount          string          `json:"grossAmount"`
	Verified             bool            `json:"verified"`
	Duplicate            bool            `json:"duplicate"`
	ReceivedAt           time.Time       `json:"receivedAt"`
	ProcessedAt          *time.Time      `json:"processedAt,omitempty"`
	RawPayload           json.RawMessage `json:"rawPayload" swaggertype:"object"`
}

// ToPaymentCallbackResponses converts stored callbacks.
func ToPaymentCallbackResponses(callbacks []domain.PaymentCallback) []PaymentCallbackResponse {
	out := make([]PaymentCallbackResponse, len(callbacks))
	for i, cb := range callbacks {
		out[i] = PaymentCallbackResponse{
			CallbackID:           cb.CallbackID,
			TransactionID:        cb.TransactionID,
			GatewayTransactionID: cb.GatewayTransactionID,
			GatewayStatus:        cb.GatewayStatus,
			FraudStatus:          cb.FraudStatus,
			GrossAmount:          cb.GrossAmount,
			Verified:             cb.Verified,
			Duplicate:            cb.Duplicate,
			ReceivedAt:           cb.ReceivedAt,
			ProcessedAt:          cb.ProcessedAt,
			RawPayload:           cb.RawPayload,
		}
	}
	return out
}
