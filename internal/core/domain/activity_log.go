package domain

import "time"

// ActivityAction names an audited action.
type ActivityAction string

const (
	ActionTransactionApproved       ActivityAction = "transaction.approved"
	ActionTransactionRejected       ActivityAction = "transaction.rejected"
	ActionTransactionApprovalFailed ActivityAction = "transaction.approval_failed"
	ActionTransactionLocalSyncFail  ActivityAction = "transaction.local_sync_failed"
	ActionWebhookSignatureInvalid   ActivityAction = "webhook.signature_invalid"
	ActionTransactionsSynced        ActivityAction = "transactions.synced"
	ActionCallbacksReconciled       ActivityAction = "callbacks.reconciled"
)

// SystemActor is recorded when no admin triggered the action.
const SystemActor = "system"

// Entity types referenced by activity logs.
const (
	EntityTransaction     = "transaction"
	EntityPaymentCallback = "payment_callback"
)

// ActivityLog is an append-only audit record.
type ActivityLog struct {
	ActivityID  string         `json:"activityId"`
	ActorID     string         `json:"actorId"`
	Action      ActivityAction `json:"action"`
	EntityType  string         `json:"entityType"`
	EntityID    string         `json:"entityId"`
	Description string         `json:"description"`
	OldValues   map[string]any `json:"oldValues,omitempty"`
	NewValues   map[string]any `json:"newValues,omitempty"`
	IPAddress   string         `json:"ipAddress,omitempty"`
	UserAgent   string         `json:"userAgent,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
}
