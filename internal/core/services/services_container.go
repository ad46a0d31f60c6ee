package services

import (
	portsrepo "github.com/SscSPs/txn_reconciliation_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/txn_reconciliation_app/internal/core/ports/services"
	"github.com/SscSPs/txn_reconciliation_app/internal/platform/config"
	"github.com/SscSPs/txn_reconciliation_app/internal/utils"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
// publisher may be nil, in which case audit entries are only stored.
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	ledger portssvc.LedgerServiceClient,
	publisher portssvc.EventPublisher,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{Ledger: ledger}

	// Audit first since every other service records through it
	container.Audit = NewAuditService(repos.ActivityLogRepo, publisher)

	container.Webhook = NewWebhookService(
		repos.TransactionRepo,
		repos.PaymentCallbackRepo,
		utils.NewSignatureVerifier(cfg.MidtransServerKey),
		container.Audit,
	)

	container.Approval = NewApprovalService(
		repos.TransactionRepo,
		ledger,
		container.Audit,
		WithRemoteTimeout(cfg.LedgerServiceTimeout),
		WithBulkConcurrency(cfg.BulkConcurrency),
		WithBulkDeadline(cfg.BulkDeadline),
	)

	container.Transaction = NewTransactionService(
		repos.TransactionRepo,
		repos.PaymentCallbackRepo,
		ledger,
		container.Audit,
	)

	container.Session = NewSessionService(ledger, cfg.JWTSecret, cfg.JWTExpiryDuration, cfg.JWTIssuer)

	return container
}
