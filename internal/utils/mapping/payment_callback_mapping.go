package mapping

import (
	"encoding/json"

	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/txn_reconciliation_app/internal/models"
)

// ToModelPaymentCallback converts a domain PaymentCallback to a model PaymentCallback
func ToModelPaymentCallback(d domain.PaymentCallback) models.PaymentCallback {
	return models.PaymentCallback{
		CallbackID:           d.CallbackID,
		TransactionID:        d.TransactionID,
		GatewayTransactionID: d.GatewayTransactionID,
		GatewayStatus:        d.GatewayStatus,
		FraudStatus:          d.FraudStatus,
		StatusCode:           d.StatusCode,
		GrossAmount:          d.GrossAmount,
		PaymentType:          d.PaymentType,
		RawPayload:           []byte(d.RawPayload),
		Signature:            d.Signature,
		Verified:             d.Verified,
		IsDuplicate:          d.Duplicate,
		ReceivedAt:           d.ReceivedAt,
		ProcessedAt:          d.ProcessedAt,
	}
}

// ToDomainPaymentCallback converts a model PaymentCallback to a domain PaymentCallback
func ToDomainPaymentCallback(m models.PaymentCallback) domain.PaymentCallback {
	return domain.PaymentCallback{
		CallbackID:           m.CallbackID,
		TransactionID:        m.TransactionID,
		GatewayTransactionID: m.GatewayTransactionID,
		GatewayStatus:        m.GatewayStatus,
		FraudStatus:          m.FraudStatus,
		StatusCode:           m.StatusCode,
		GrossAmount:          m.GrossAmount,
		PaymentType:          m.PaymentType,
		RawPayload:           json.RawMessage(m.RawPayload),
		Signature:            m.Signature,
		Verified:             m.Verified,
		Duplicate:            m.IsDuplicate,
		ReceivedAt:           m.ReceivedAt,
		ProcessedAt:          m.ProcessedAt,
	}
}

// ToDomainPaymentCallbackFromNotification builds the callback record for a verified notification.
func ToDomainPaymentCallbackFromNotification(n domain.GatewayNotification) domain.PaymentCallback {
	return domain.PaymentCallback{
		TransactionID:        n.OrderID,
		GatewayTransactionID: optional(n.GatewayTransactionID),
		GatewayStatus:        n.TransactionStatus,
		FraudStatus:          optional(n.FraudStatus),
		StatusCode:           n.StatusCode,
		GrossAmount:          n.GrossAmount,
		PaymentType:          optional(n.PaymentType),
		RawPayload:           n.Raw,
		Signature:            n.SignatureKey,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
