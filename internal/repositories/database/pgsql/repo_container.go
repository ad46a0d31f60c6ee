package pgsql

import (
	portsrepo "github.com/SscSPs/txn_reconciliation_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TransactionRepo:     newPgxTransactionRepository(dbPool),
		PaymentCallbackRepo: newPgxPaymentCallbackRepository(dbPool),
		ActivityLogRepo:     newPgxActivityLogRepository(dbPool),
	}
}
