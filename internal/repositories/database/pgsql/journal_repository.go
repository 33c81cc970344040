package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/restaurant_ledger/internal/apperrors"
	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/restaurant_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/restaurant_ledger/internal/models"
	"github.com/SscSPs/restaurant_ledger/internal/utils/mapping"
	"github.com/SscSPs/restaurant_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const entryColumns = `entry_id, tenant_id, doc_type, doc_number, posting_date, remarks, author, approver, status,
	original_entry_id, reversing_entry_id, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

type queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.TenantID,
		&m.DocType,
		&m.DocNumber,
		&m.PostingDate,
		&m.Remarks,
		&m.Author,
		&m.Approver,
		&m.Status,
		&m.OriginalEntryID,
		&m.ReversingEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// InsertEntry writes the header and queues every line in one batch round trip.
func (r *PgxJournalRepository) InsertEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO journal_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);`,
		m.EntryID, m.TenantID, m.DocType, m.DocNumber, m.PostingDate, m.Remarks, m.Author, m.Approver,
		m.Status, m.OriginalEntryID, m.ReversingEntryID, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)

	lineQuery := `
		INSERT INTO journal_entry_lines (line_id, entry_id, line_no, account_id, debit, credit, memo)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	for _, line := range entry.Lines {
		l := mapping.ToModelJournalLine(line)
		batch.Queue(lineQuery, l.LineID, m.EntryID, l.LineNo, l.AccountID, l.Debit, l.Credit, l.Memo)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			if i == 0 && isPgError(err, pgUniqueViolation) {
				batchErr = fmt.Errorf("%w: document number %s already used", apperrors.ErrDuplicate, m.DocNumber)
			} else if i == 0 {
				batchErr = fmt.Errorf("failed to insert entry %s: %w", m.EntryID, err)
			} else {
				batchErr = fmt.Errorf("failed to insert line %d of entry %s: %w", i, m.EntryID, err)
			}
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close entry insert batch: %w", err)
	}
	return batchErr
}

// MarkEntryPosted turns a draft into a posted entry. The status guard keeps a concurrent
// post of the same draft from winning twice.
func (r *PgxJournalRepository) MarkEntryPosted(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	query := `
		UPDATE journal_entries
		SET doc_number = $2, status = 'POSTED', approver = $3, last_updated_at = $4, last_updated_by = $5
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	cmdTag, err := tx.Exec(ctx, query, m.EntryID, m.DocNumber, m.Approver, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to post draft %s: %w", m.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s", apperrors.ErrEntryNotDraft, m.EntryID)
	}
	return nil
}

func (r *PgxJournalRepository) UpdateEntryStatusAndLinks(ctx context.Context, tx pgx.Tx, entryID string, status domain.JournalStatus, reversingEntryID *string, userID string, now time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = $2, reversing_entry_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE entry_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, entryID, string(status), reversingEntryID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxJournalRepository) DeleteEntry(ctx context.Context, tx pgx.Tx, entryID string) error {
	cmdTag, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1;`, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxJournalRepository) findEntry(ctx context.Context, q queryer, query string, tenantID, entryID string) (*domain.JournalEntry, error) {
	m, err := scanEntry(q.QueryRow(ctx, query, tenantID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}

	lines, err := r.findLines(ctx, q, entryID)
	if err != nil {
		return nil, err
	}
	entry := mapping.ToDomainJournalEntry(m)
	entry.Lines = lines
	return &entry, nil
}

func (r *PgxJournalRepository) findLines(ctx context.Context, q queryer, entryID string) ([]domain.JournalLine, error) {
	query := `
		SELECT l.line_id, l.entry_id, l.line_no, l.account_id, a.code, l.debit, l.credit, l.memo
		FROM journal_entry_lines l
		JOIN gl_accounts a ON a.account_id = l.account_id
		WHERE l.entry_id = $1
		ORDER BY l.line_no;
	`
	rows, err := q.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of entry %s: %w", entryID, err)
	}
	defer rows.Close()

	lines := []models.JournalLine{}
	for rows.Next() {
		var l models.JournalLine
		if err := rows.Scan(&l.LineID, &l.EntryID, &l.LineNo, &l.AccountID, &l.AccountCode, &l.Debit, &l.Credit, &l.Memo); err != nil {
			return nil, fmt.Errorf("failed to scan line of entry %s: %w", entryID, err)
		}
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating lines of entry %s: %w", entryID, err)
	}
	return mapping.ToDomainJournalLineSlice(lines), nil
}

func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, tenantID string, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE tenant_id = $1 AND entry_id = $2;`
	return r.findEntry(ctx, r.Pool, query, tenantID, entryID)
}

func (r *PgxJournalRepository) FindEntryByIDForUpdate(ctx context.Context, tx pgx.Tx, tenantID string, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE tenant_id = $1 AND entry_id = $2 FOR UPDATE;`
	return r.findEntry(ctx, tx, query, tenantID, entryID)
}

// ListEntries pages through a tenant's entries newest first. The token encodes the
// (posting_date, created_at) of the last entry on the previous page.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// One extra row tells whether another page exists.
	fetchLimit := limit + 1

	var rows pgx.Rows
	var err error
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, decodeErr)
		}
		query := `
			SELECT ` + entryColumns + `
			FROM journal_entries
			WHERE tenant_id = $1 AND (posting_date, created_at) < ($2::date, $3::timestamptz)
			ORDER BY posting_date DESC, created_at DESC
			LIMIT $4;
		`
		rows, err = r.Pool.Query(ctx, query, tenantID, lastDate, lastCreatedAt, fetchLimit)
	} else {
		query := `
			SELECT ` + entryColumns + `
			FROM journal_entries
			WHERE tenant_id = $1
			ORDER BY posting_date DESC, created_at DESC
			LIMIT $2;
		`
		rows, err = r.Pool.Query(ctx, query, tenantID, fetchLimit)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query entries for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	entries := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		m, scanErr := scanEntry(rows)
		if scanErr != nil {
			return nil, nil, fmt.Errorf("failed to scan entry row: %w", scanErr)
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating entry rows: %w", err)
	}

	var nextTokenVal *string
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeToken(last.PostingDate, last.CreatedAt)
		nextTokenVal = &token
		entries = entries[:limit]
	}

	result := make([]domain.JournalEntry, len(entries))
	for i, m := range entries {
		result[i] = mapping.ToDomainJournalEntry(m)
	}
	return result, nextTokenVal, nil
}

func (r *PgxJournalRepository) countInRange(ctx context.Context, tx pgx.Tx, query string, tenantID string, start, end time.Time) (int64, error) {
	var count int64
	if err := tx.QueryRow(ctx, query, tenantID, domain.DateOnly(start), domain.DateOnly(end)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}

func (r *PgxJournalRepository) CountEntriesInRange(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) (int64, error) {
	return r.countInRange(ctx, tx, `
		SELECT COUNT(*) FROM journal_entries
		WHERE tenant_id = $1 AND posting_date BETWEEN $2::date AND $3::date;`,
		tenantID, start, end)
}

func (r *PgxJournalRepository) CountDraftsInRange(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) (int64, error) {
	return r.countInRange(ctx, tx, `
		SELECT COUNT(*) FROM journal_entries
		WHERE tenant_id = $1 AND status = 'DRAFT' AND posting_date BETWEEN $2::date AND $3::date;`,
		tenantID, start, end)
}

func (r *PgxJournalRepository) SumFinalLinesInRange(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) (domain.PeriodTotals, error) {
	query := `
		SELECT COUNT(DISTINCT e.entry_id), COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_entries e
		JOIN journal_entry_lines l ON l.entry_id = e.entry_id
		WHERE e.tenant_id = $1 AND e.status IN ('POSTED', 'REVERSED')
		  AND e.posting_date BETWEEN $2::date AND $3::date;
	`
	var totals domain.PeriodTotals
	err := tx.QueryRow(ctx, query, tenantID, domain.DateOnly(start), domain.DateOnly(end)).
		Scan(&totals.EntryCount, &totals.TotalDebit, &totals.TotalCredit)
	if err != nil {
		return domain.PeriodTotals{}, fmt.Errorf("failed to sum lines for tenant %s: %w", tenantID, err)
	}
	return totals, nil
}

func (r *PgxJournalRepository) SumLinesByAccountInRange(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       COALESCE(SUM(l.debit), 0), COALESCE(SUM(l.credit), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN gl_accounts a ON a.account_id = l.account_id
		WHERE e.tenant_id = $1 AND e.status IN ('POSTED', 'REVERSED')
		  AND e.posting_date BETWEEN $2::date AND $3::date
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`
	rows, err := tx.Query(ctx, query, tenantID, domain.DateOnly(start), domain.DateOnly(end))
	if err != nil {
		return nil, fmt.Errorf("failed to sum lines by account for tenant %s: %w", tenantID, err)
	}
	defer rows.Close()

	result := []domain.TrialBalanceRow{}
	for rows.Next() {
		var row domain.TrialBalanceRow
		var accountType string
		if err := rows.Scan(&row.AccountID, &row.Code, &row.AccountName, &accountType, &row.Debit, &row.Credit); err != nil {
			return nil, fmt.Errorf("error scanning trial balance row: %w", err)
		}
		row.AccountType = domain.AccountType(accountType)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}
	return result, nil
}

func (r *PgxJournalRepository) FindUnbalancedEntriesInRange(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time, tolerance decimal.Decimal) ([]string, error) {
	query := `
		SELECT e.doc_number
		FROM journal_entries e
		JOIN journal_entry_lines l ON l.entry_id = e.entry_id
		WHERE e.tenant_id = $1 AND e.status IN ('POSTED', 'REVERSED')
		  AND e.posting_date BETWEEN $2::date AND $3::date
		GROUP BY e.entry_id, e.doc_number
		HAVING ABS(SUM(l.debit) - SUM(l.credit)) >= $4
		ORDER BY e.doc_number;
	`
	rows, err := tx.Query(ctx, query, tenantID, domain.DateOnly(start), domain.DateOnly(end), tolerance)
	if err != nil {
		return nil, fmt.Errorf("failed to find unbalanced entries: %w", err)
	}
	defer rows.Close()

	docNumbers := []string{}
	for rows.Next() {
		var docNumber string
		if err := rows.Scan(&docNumber); err != nil {
			return nil, fmt.Errorf("failed to scan unbalanced entry: %w", err)
		}
		docNumbers = append(docNumbers, docNumber)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating unbalanced entries: %w", err)
	}
	return docNumbers, nil
}
