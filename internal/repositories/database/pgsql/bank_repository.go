package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/restaurant_ledger/internal/apperrors"
	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/restaurant_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/restaurant_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxBankTransactionRepository struct {
	BaseRepository
}

func newPgxBankTransactionRepository(pool *pgxpool.Pool) portsrepo.BankTransactionRepository {
	return &PgxBankTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BankTransactionRepository = (*PgxBankTransactionRepository)(nil)

func (r *PgxBankTransactionRepository) SaveBankTransaction(ctx context.Context, txn domain.BankTransaction) error {
	m := mapping.ToModelBankTransaction(txn)
	query := `
		INSERT INTO bank_transactions (bank_transaction_id, tenant_id, account_code, transaction_date, amount, reference,
		                               reconciled, reconciled_at, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.BankTransactionID, m.TenantID, m.AccountCode, m.TransactionDate, m.Amount, m.Reference,
		m.Reconciled, m.ReconciledAt, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save bank transaction: %w", err)
	}
	return nil
}

func (r *PgxBankTransactionRepository) MarkReconciled(ctx context.Context, tenantID string, bankTransactionID string, userID string, now time.Time) error {
	query := `
		UPDATE bank_transactions
		SET reconciled = TRUE, reconciled_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE tenant_id = $1 AND bank_transaction_id = $2;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, tenantID, bankTransactionID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to reconcile bank transaction %s: %w", bankTransactionID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxBankTransactionRepository) CountUnreconciledInRange(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) (int64, error) {
	query := `
		SELECT COUNT(*) FROM bank_transactions
		WHERE tenant_id = $1 AND NOT reconciled AND transaction_date BETWEEN $2::date AND $3::date;
	`
	var count int64
	if err := tx.QueryRow(ctx, query, tenantID, domain.DateOnly(start), domain.DateOnly(end)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count unreconciled bank transactions: %w", err)
	}
	return count, nil
}
