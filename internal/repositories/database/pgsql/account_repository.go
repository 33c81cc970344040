package pgsql

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/restaurant_ledger/internal/apperrors"
	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/restaurant_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/restaurant_ledger/internal/models"
	"github.com/SscSPs/restaurant_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, tenant_id, code, name, account_type, balance, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for chart-of-accounts data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (models.GLAccount, error) {
	var m models.GLAccount
	err := row.Scan(
		&m.AccountID,
		&m.TenantID,
		&m.Code,
		&m.Name,
		&m.AccountType,
		&m.Balance,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func collectAccounts(rows pgx.Rows) ([]models.GLAccount, error) {
	defer rows.Close()
	accounts := []models.GLAccount{}
	for rows.Next() {
		m, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.GLAccount) error {
	m := mapping.ToModelAccount(account)

	query := `
		INSERT INTO gl_accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.TenantID,
		m.Code,
		m.Name,
		m.AccountType,
		m.Balance,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, m.Code)
		}
		return fmt.Errorf("failed to save account %s: %w", m.Code, err)
	}
	return nil
}

// FindAccountByCode retrieves a tenant's account by its code.
func (r *PgxAccountRepository) FindAccountByCode(ctx context.Context, tenantID string, code string) (*domain.GLAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM gl_accounts WHERE tenant_id = $1 AND code = $2;`

	m, err := scanAccount(r.Pool.QueryRow(ctx, query, tenantID, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %s: %w", code, err)
	}
	account := mapping.ToDomainAccount(m)
	return &account, nil
}

// ListAccounts retrieves accounts ordered by code. A non-positive limit returns all of them.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, tenantID string, limit int, offset int) ([]domain.GLAccount, error) {
	if offset < 0 {
		offset = 0
	}

	var rows pgx.Rows
	var err error
	if limit <= 0 {
		query := `SELECT ` + accountColumns + ` FROM gl_accounts WHERE tenant_id = $1 ORDER BY code OFFSET $2;`
		rows, err = r.Pool.Query(ctx, query, tenantID, offset)
	} else {
		query := `SELECT ` + accountColumns + ` FROM gl_accounts WHERE tenant_id = $1 ORDER BY code LIMIT $2 OFFSET $3;`
		rows, err = r.Pool.Query(ctx, query, tenantID, limit, offset)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for tenant %s: %w", tenantID, err)
	}

	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainAccountSlice(accounts), nil
}

func (r *PgxAccountRepository) ListAccountsInTx(ctx context.Context, tx pgx.Tx, tenantID string) ([]domain.GLAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM gl_accounts WHERE tenant_id = $1 ORDER BY code;`
	rows, err := tx.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for tenant %s: %w", tenantID, err)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainAccountSlice(accounts), nil
}

// DeleteAccountInTx removes an account. Lines reference accounts with ON DELETE RESTRICT,
// so a referenced account surfaces as ErrAccountInUse even if the caller's check raced.
func (r *PgxAccountRepository) DeleteAccountInTx(ctx context.Context, tx pgx.Tx, accountID string) error {
	cmdTag, err := tx.Exec(ctx, `DELETE FROM gl_accounts WHERE account_id = $1;`, accountID)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return fmt.Errorf("%w: account %s", apperrors.ErrAccountInUse, accountID)
		}
		return fmt.Errorf("failed to delete account %s: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindAccountsByCodesForUpdate locks the requested accounts in account_id order so that
// concurrent postings touching overlapping accounts always queue in the same order.
func (r *PgxAccountRepository) FindAccountsByCodesForUpdate(ctx context.Context, tx pgx.Tx, tenantID string, codes []string) (map[string]domain.GLAccount, error) {
	if len(codes) == 0 {
		return map[string]domain.GLAccount{}, nil
	}

	query := `
		SELECT ` + accountColumns + `
		FROM gl_accounts
		WHERE tenant_id = $1 AND code = ANY($2)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, tenantID, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts by code: %w", err)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]domain.GLAccount, len(accounts))
	for _, m := range accounts {
		byCode[m.Code] = mapping.ToDomainAccount(m)
	}
	return byCode, nil
}

// FindAccountsByIDsForUpdate retrieves multiple accounts by IDs and locks the rows for update.
// Must be called within a transaction.
func (r *PgxAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.GLAccount, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.GLAccount{}, nil
	}

	query := `
		SELECT ` + accountColumns + `
		FROM gl_accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs for update: %w", err)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.GLAccount, len(accounts))
	for _, m := range accounts {
		byID[m.AccountID] = mapping.ToDomainAccount(m)
	}

	if len(byID) != len(accountIDs) {
		missing := []string{}
		for _, id := range accountIDs {
			if _, found := byID[id]; !found {
				missing = append(missing, id)
			}
		}
		slog.WarnContext(ctx, "Some accounts requested for update lock were not found", "missing_accounts", missing)
		return nil, fmt.Errorf("%w: could not find or lock all requested accounts, missing: %v", apperrors.ErrNotFound, missing)
	}
	return byID, nil
}

// IncrementBalancesInTx applies balance += delta for each account in a single batch.
func (r *PgxAccountRepository) IncrementBalancesInTx(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal, userID string, now time.Time) error {
	if len(changes) == 0 {
		return nil
	}

	query := `
		UPDATE gl_accounts
		SET balance = balance + $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`

	batch := &pgx.Batch{}
	accountIDs := make([]string, 0, len(changes))
	for _, accountID := range sortedKeys(changes) {
		delta := changes[accountID]
		if delta.IsZero() {
			continue
		}
		batch.Queue(query, accountID, delta, now, userID)
		accountIDs = append(accountIDs, accountID)
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = fmt.Errorf("failed to update balance for account %s: %w", accountIDs[i], err)
			}
		} else if ct.RowsAffected() == 0 && batchErr == nil {
			batchErr = fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, accountIDs[i])
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close balance update batch: %w", err)
	}
	return batchErr
}

// CountLinesForAccount counts journal lines of any entry status referencing the account.
func (r *PgxAccountRepository) CountLinesForAccount(ctx context.Context, tx pgx.Tx, accountID string) (int64, error) {
	var count int64
	err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM journal_entry_lines WHERE account_id = $1;`, accountID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count lines for account %s: %w", accountID, err)
	}
	return count, nil
}

// ComputeBalancesFromLines recomputes every account balance from finalized lines using the
// same sign convention as postings.
func (r *PgxAccountRepository) ComputeBalancesFromLines(ctx context.Context, tx pgx.Tx, tenantID string) (map[string]decimal.Decimal, error) {
	query := `
		SELECT a.account_id,
		       COALESCE(SUM(CASE WHEN a.account_type IN ('ASSET', 'EXPENSE')
		                         THEN l.debit - l.credit
		                         ELSE l.credit - l.debit END), 0) AS computed
		FROM gl_accounts a
		JOIN journal_entry_lines l ON l.account_id = a.account_id
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE a.tenant_id = $1 AND e.status IN ('POSTED', 'REVERSED')
		GROUP BY a.account_id;
	`
	rows, err := tx.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to compute balances for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	balances := make(map[string]decimal.Decimal)
	for rows.Next() {
		var accountID string
		var computed decimal.Decimal
		if err := rows.Scan(&accountID, &computed); err != nil {
			return nil, fmt.Errorf("failed to scan computed balance: %w", err)
		}
		balances[accountID] = computed
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating computed balances: %w", err)
	}
	return balances, nil
}
