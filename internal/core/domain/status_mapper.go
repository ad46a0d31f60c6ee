package domain

import "strings"

// GatewayStatusKind enumerates the payment gateway notification statuses this system understands.
type GatewayStatusKind int

const (
	GatewayUnknown GatewayStatusKind = iota
	GatewaySettlement
	GatewayCapture
	GatewayPending
	GatewayDeny
	GatewayCancel
	GatewayExpire
	GatewayFailure
)

var gatewayStatusKinds = map[string]GatewayStatusKind{
	"settlement": GatewaySettlement,
	"capture":    GatewayCapture,
	"pending":    GatewayPending,
	"deny":       GatewayDeny,
	"cancel":     GatewayCancel,
	"expire":     GatewayExpire,
	"failure":    GatewayFailure,
}

// GatewayStatus is a parsed gateway status. Raw always keeps the value as received.
type GatewayStatus struct {
	Kind GatewayStatusKind
	Raw  string
}

// ParseGatewayStatus never fails; unrecognised input yields GatewayUnknown.
func ParseGatewayStatus(raw string) GatewayStatus {
	return GatewayStatus{Kind: gatewayStatusKinds[normalizeStatus(raw)], Raw: raw}
}

// FraudChallenge is the fraud sub-status that holds a captured payment for review.
const FraudChallenge = "challenge"

// MapGatewayStatus translates a gateway status and optional fraud sub-status into the local vocabulary.
// Unrecognised statuses map to StatusUnknown.
func MapGatewayStatus(status, fraudStatus string) TransactionStatus {
	switch ParseGatewayStatus(status).Kind {
	case GatewaySettlement:
		return StatusCompleted
	case GatewayCapture:
		if normalizeStatus(fraudStatus) == FraudChallenge {
			return StatusProcessing
		}
		return StatusCompleted
	case GatewayPending:
		return StatusProcessing
	case GatewayDeny, GatewayCancel, GatewayExpire, GatewayFailure:
		return StatusFailed
	default:
		return StatusUnknown
	}
}

// RemoteStatusKind enumerates the ledger service transaction statuses.
type RemoteStatusKind int

const (
	RemoteUnknown RemoteStatusKind = iota
	RemoteApproved
	RemoteCompleted
	RemoteSuccess
	RemoteRejected
	RemoteFailed
	RemoteProcessing
	RemoteCancelled
)

var remoteStatusKinds = map[string]RemoteStatusKind{
	"approved":   RemoteApproved,
	"completed":  RemoteCompleted,
	"success":    RemoteSuccess,
	"rejected":   RemoteRejected,
	"failed":     RemoteFailed,
	"processing": RemoteProcessing,
	"cancelled":  RemoteCancelled,
}

// RemoteStatus is a parsed ledger service status.
type RemoteStatus struct {
	Kind RemoteStatusKind
	Raw  string
}

// ParseRemoteStatus never fails; unrecognised input yields RemoteUnknown.
func ParseRemoteStatus(raw string) RemoteStatus {
	return RemoteStatus{Kind: remoteStatusKinds[normalizeStatus(raw)], Raw: raw}
}

// MapRemoteStatus translates a ledger service status. Anything unrecognised is treated as pending.
func MapRemoteStatus(raw string) TransactionStatus {
	switch ParseRemoteStatus(raw).Kind {
	case RemoteApproved, RemoteCompleted, RemoteSuccess:
		return StatusCompleted
	case RemoteRejected, RemoteFailed:
		return StatusFailed
	case RemoteProcessing:
		return StatusProcessing
	case RemoteCancelled:
		return StatusCancelled
	default:
		return StatusPending
	}
}

func normalizeStatus(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
