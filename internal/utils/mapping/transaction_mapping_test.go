package mapping

import (
	"testing"
	"time"

	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/txn_reconciliation_app/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToDomainTransaction_Metadata(t *testing.T) {
	m := models.Transaction{
		TransactionID: "TXN-1",
		Status:        "pending",
		Metadata:      []byte(`{"channel":"snap","attempt":2}`),
	}
	d, err := ToDomainTransaction(m)
	require.NoError(t, err)
	assert.Equal(t, "snap", d.Metadata["channel"])
	assert.Equal(t, float64(2), d.Metadata["attempt"])

	m.Metadata = []byte(`{}`)
	d, err = ToDomainTransaction(m)
	require.NoError(t, err)
	assert.Nil(t, d.Metadata)

	m.Metadata = []byte(`[1,2]`)
	_, err = ToDomainTransaction(m)
	assert.Error(t, err)
}

func TestToModelTransaction_EmptyMetadata(t *testing.T) {
	m, err := ToModelTransaction(domain.Transaction{TransactionID: "TXN-1"})
	require.NoError(t, err)
	assert.Equal(t, []byte("{}"), m.Metadata)
}

func TestToDomainTransactionFromRemote(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	d := ToDomainTransactionFromRemote(domain.RemoteTransaction{
		TransactionID: "TXN-9",
		Reference:     "REF-9",
		Type:          "topup",
		Amount:        decimal.RequireFromString("50000.00"),
		Status:        "approved",
		CreatedAt:     created,
		UpdatedAt:     created,
	})

	assert.Equal(t, domain.StatusCompleted, d.Status)
	assert.Equal(t, domain.DefaultCurrency, d.Currency)
	assert.Equal(t, "approved", d.Metadata["remote_status"])
}

func TestToDomainPaymentCallbackFromNotification(t *testing.T) {
	cb := ToDomainPaymentCallbackFromNotification(domain.GatewayNotification{
		OrderID:           "TXN-1",
		TransactionStatus: "capture",
		StatusCode:        "200",
		GrossAmount:       "10000.00",
		SignatureKey:      "abc",
		FraudStatus:       "challenge",
	})

	assert.Nil(t, cb.GatewayTransactionID)
	require.NotNil(t, cb.FraudStatus)
	assert.Equal(t, domain.StatusProcessing, cb.MappedStatus())
}
