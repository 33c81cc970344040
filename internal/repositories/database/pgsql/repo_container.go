package pgsql

import (
	portsrepo "github.com/SscSPs/restaurant_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgx repository onto one pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool, journalPrefix string) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		TxManager:    newPgxTransactionManager(dbPool),
		AccountRepo:  newPgxAccountRepository(dbPool),
		PeriodRepo:   newPgxPeriodRepository(dbPool),
		JournalRepo:  newPgxJournalRepository(dbPool),
		SequenceRepo: newPgxSequenceRepository(dbPool, journalPrefix),
		DocumentRepo: newPgxDocumentRepository(dbPool),
		BankRepo:     newPgxBankTransactionRepository(dbPool),
	}
}
