package ledgersvc

import (
	"encoding/json"
	"time"

	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// envelope is the response body shape of every ledger service API endpoint.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *envelopeError  `json:"error,omitempty"`
}

type envelopeError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// flexibleID accepts IDs sent either as JSON strings or numbers.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexibleID(n.String())
	return nil
}

type approveRequest struct {
	ApprovedBy string `json:"approved_by"`
	ApprovedAt string `json:"approved_at"`
}

type rejectRequest struct {
	RejectedBy string `json:"rejected_by"`
	RejectedAt string `json:"rejected_at"`
	Reason     string `json:"reason"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone,omitempty"`
}

type remoteUser struct {
	ID    flexibleID `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  string     `json:"role"`
}

func (u remoteUser) toDomain() domain.LedgerUser {
	return domain.LedgerUser{ID: string(u.ID), Name: u.Name, Email: u.Email, Role: u.Role}
}

// sessionData is the data of login and register responses.
type sessionData struct {
	User  remoteUser `json:"user"`
	Token string     `json:"token"`
}

type balanceData struct {
	Balance decimal.Decimal `json:"balance"`
}

type remoteTransaction struct {
	TransactionID    string          `json:"transaction_id"`
	Reference        string          `json:"reference"`
	UserID           flexibleID      `json:"user_id"`
	Type             string          `json:"type"`
	Amount           decimal.Decimal `json:"amount"`
	Fee              decimal.Decimal `json:"fee"`
	Currency         string          `json:"currency"`
	Description      string          `json:"description"`
	Status           string          `json:"status"`
	PaymentMethod    *string         `json:"payment_method"`
	PaymentGatewayID *string         `json:"payment_gateway_id"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

func (r remoteTransaction) toDomain() domain.RemoteTransaction {
	return domain.RemoteTransaction{
		TransactionID: r.TransactionID,
		Reference:     r.Reference,
		UserID:        string(r.UserID),
		Type:          r.Type,
		Amount:        r.Amount,
		Fee:           r.Fee,
		Currency:      r.Currency,
		Description:   r.Description,
		Status:        r.Status,
		PaymentMethod: r.PaymentMethod,
		GatewayID:     r.PaymentGatewayID,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

type healthBody struct {
	Status string `json:"status"`
}
