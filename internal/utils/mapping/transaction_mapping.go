package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/txn_reconciliation_app/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) (models.Transaction, error) {
	metadata, err := marshalJSONMap(d.Metadata)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("encode metadata of %s: %w", d.TransactionID, err)
	}
	return models.Transaction{
		TransactionID:    d.TransactionID,
		Reference:        d.Reference,
		UserID:           d.UserID,
		Type:             string(d.Type),
		Amount:           d.Amount,
		Fee:              d.Fee,
		Currency:         d.Currency,
		Description:      d.Description,
		Status:           string(d.Status),
		PaymentGatewayID: d.PaymentGatewayID,
		PaymentMethod:    d.PaymentMethod,
		Metadata:         metadata,
		FromAccount:      d.FromAccount,
		ToAccount:        d.ToAccount,
		ApprovedBy:       d.ApprovedBy,
		ApprovedAt:       d.ApprovedAt,
		ProcessedAt:      d.ProcessedAt,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}, nil
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) (domain.Transaction, error) {
	metadata, err := unmarshalJSONMap(m.Metadata)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("decode metadata of %s: %w", m.TransactionID, err)
	}
	return domain.Transaction{
		TransactionID:    m.TransactionID,
		Reference:        m.Reference,
		UserID:           m.UserID,
		Type:             domain.TransactionType(m.Type),
		Amount:           m.Amount,
		Fee:              m.Fee,
		Currency:         m.Currency,
		Description:      m.Description,
		Status:           domain.TransactionStatus(m.Status),
		PaymentGatewayID: m.PaymentGatewayID,
		PaymentMethod:    m.PaymentMethod,
		Metadata:         metadata,
		FromAccount:      m.FromAccount,
		ToAccount:        m.ToAccount,
		ApprovedBy:       m.ApprovedBy,
		ApprovedAt:       m.ApprovedAt,
		ProcessedAt:      m.ProcessedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}, nil
}

// ToDomainTransactionFromRemote builds a local mirror of a ledger service transaction.
func ToDomainTransactionFromRemote(r domain.RemoteTransaction) domain.Transaction {
	currency := r.Currency
	if currency == "" {
		currency = domain.DefaultCurrency
	}
	return domain.Transaction{
		TransactionID:    r.TransactionID,
		Reference:        r.Reference,
		UserID:           r.UserID,
		Type:             domain.TransactionType(r.Type),
		Amount:           r.Amount,
		Fee:              r.Fee,
		Currency:         currency,
		Description:      r.Description,
		Status:           domain.MapRemoteStatus(r.Status),
		PaymentGatewayID: r.GatewayID,
		PaymentMethod:    r.PaymentMethod,
		Metadata:         map[string]any{"source": "ledger_sync", "remote_status": r.Status},
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func marshalJSONMap(m map[string]any) ([]byte, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

func unmarshalJSONMap(b []byte) (map[string]any, error) {
	if len(b) == 0 || string(b) == "null" {
		return nil, nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	if len(m) == 0 {
		return nil, nil
	}
	return m, nil
}
