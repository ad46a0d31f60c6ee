package mapping

import (
	"fmt"

	"github.com/SscSPs/txn_reconciliation_app/internal/core/domain"
	"github.com/SscSPs/txn_reconciliation_app/internal/models"
)

// ToModelActivityLog converts a domain ActivityLog to a model ActivityLog
func ToModelActivityLog(d domain.ActivityLog) (models.ActivityLog, error) {
	oldValues, err := marshalJSONMap(d.OldValues)
	if err != nil {
		return models.ActivityLog{}, fmt.Errorf("encode old values: %w", err)
	}
	newValues, err := marshalJSONMap(d.NewValues)
	if err != nil {
		return models.ActivityLog{}, fmt.Errorf("encode new values: %w", err)
	}
	return models.ActivityLog{
		ActivityID:  d.ActivityID,
		ActorID:     d.ActorID,
		Action:      string(d.Action),
		EntityType:  d.EntityType,
		EntityID:    d.EntityID,
		Description: d.Description,
		OldValues:   oldValues,
		NewValues:   newValues,
		IPAddress:   optional(d.IPAddress),
		UserAgent:   optional(d.UserAgent),
		CreatedAt:   d.CreatedAt,
	}, nil
}

// ToDomainActivityLog converts a model ActivityLog to a domain ActivityLog
func ToDomainActivityLog(m models.ActivityLog) (domain.ActivityLog, error) {
	oldValues, err := unmarshalJSONMap(m.OldValues)
	if err != nil {
		return domain.ActivityLog{}, fmt.Errorf("decode old values: %w", err)
	}
	newValues, err := unmarshalJSONMap(m.NewValues)
	if err != nil {
		return domain.ActivityLog{}, fmt.Errorf("decode new values: %w", err)
	}
	d := domain.ActivityLog{
		ActivityID:  m.ActivityID,
		ActorID:     m.ActorID,
		Action:      domain.ActivityAction(m.Action),
		EntityType:  m.EntityType,
		EntityID:    m.EntityID,
		Description: m.Description,
		OldValues:   oldValues,
		NewValues:   newValues,
		CreatedAt:   m.CreatedAt,
	}
	if m.IPAddress != nil {
		d.IPAddress = *m.IPAddress
	}
	if m.UserAgent != nil {
		d.UserAgent = *m.UserAgent
	}
	return d, nil
}
