package services

import (
	portsrepo "github.com/SscSPs/restaurant_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/restaurant_ledger/internal/core/ports/services"
	"github.com/SscSPs/restaurant_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}
	retry := RetryPolicy{MaxRetries: cfg.PostingMaxRetries, Backoff: cfg.PostingRetryBackoff}

	container.Account = NewAccountService(repos.TxManager, repos.AccountRepo)
	container.Period = NewPeriodService(repos.TxManager, repos.PeriodRepo, repos.JournalRepo,
		WithPeriodRetryPolicy(retry))

	container.Journal = NewJournalService(
		repos.TxManager,
		repos.JournalRepo,
		repos.AccountRepo,
		repos.PeriodRepo,
		repos.SequenceRepo,
		repos.DocumentRepo,
		WithJournalRetryPolicy(retry),
	)

	// Document posters share the posting engine's in-transaction entry point
	poster := container.Journal.(EntryPoster)
	container.Document = NewDocumentService(repos.TxManager, poster, repos.DocumentRepo,
		WithDocumentRetryPolicy(retry))

	container.Close = NewPeriodCloseService(repos.TxManager, repos.PeriodRepo, repos.JournalRepo,
		WithBankTransactions(repos.BankRepo),
		WithCloseRetryPolicy(retry))
	container.Bank = NewBankTransactionService(repos.BankRepo, repos.AccountRepo)
	container.Report = NewReportingService(repos.TxManager, repos.PeriodRepo, repos.JournalRepo, repos.AccountRepo)

	return container
}
