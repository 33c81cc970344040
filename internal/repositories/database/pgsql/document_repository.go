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
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const documentColumns = `document_id, tenant_id, doc_type, entry_id, counterparty, control_account, document_date,
	total, paid_amount, applies_to_doc_id, created_at, created_by, last_updated_at, last_updated_by`

// documentSelect reads documents together with the status of their posting entry.
const documentSelect = `
	SELECT d.document_id, d.tenant_id, d.doc_type, d.entry_id, d.counterparty, d.control_account, d.document_date,
		d.total, d.paid_amount, d.applies_to_doc_id, e.status, d.created_at, d.created_by, d.last_updated_at, d.last_updated_by
	FROM ledger_documents d
	JOIN journal_entries e ON e.entry_id = d.entry_id`

type PgxDocumentRepository struct {
	BaseRepository
}

func newPgxDocumentRepository(pool *pgxpool.Pool) portsrepo.DocumentRepository {
	return &PgxDocumentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DocumentRepository = (*PgxDocumentRepository)(nil)

func scanDocument(row pgx.Row) (models.LedgerDocument, error) {
	var m models.LedgerDocument
	err := row.Scan(
		&m.DocumentID,
		&m.TenantID,
		&m.DocType,
		&m.EntryID,
		&m.Counterparty,
		&m.ControlAccount,
		&m.DocumentDate,
		&m.Total,
		&m.PaidAmount,
		&m.AppliesToDocID,
		&m.EntryStatus,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, tx pgx.Tx, doc domain.LedgerDocument) error {
	m := mapping.ToModelDocument(doc)
	query := `
		INSERT INTO ledger_documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, query,
		m.DocumentID, m.TenantID, m.DocType, m.EntryID, m.Counterparty, m.ControlAccount, m.DocumentDate,
		m.Total, m.PaidAmount, m.AppliesToDocID, m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save %s document: %w", m.DocType, err)
	}
	return nil
}

func (r *PgxDocumentRepository) FindDocumentByIDForUpdate(ctx context.Context, tx pgx.Tx, tenantID string, documentID string) (*domain.LedgerDocument, error) {
	query := documentSelect + ` WHERE d.tenant_id = $1 AND d.document_id = $2 FOR UPDATE OF d;`
	m, err := scanDocument(tx.QueryRow(ctx, query, tenantID, documentID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find document %s: %w", documentID, err)
	}
	doc := mapping.ToDomainDocument(m)
	return &doc, nil
}

func (r *PgxDocumentRepository) FindDocumentsByEntryID(ctx context.Context, tx pgx.Tx, entryID string) ([]domain.LedgerDocument, error) {
	query := documentSelect + ` WHERE d.entry_id = $1 ORDER BY d.created_at FOR UPDATE OF d;`
	rows, err := tx.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents of entry %s: %w", entryID, err)
	}
	defer rows.Close()

	docs := []domain.LedgerDocument{}
	for rows.Next() {
		m, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		docs = append(docs, mapping.ToDomainDocument(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating document rows: %w", err)
	}
	return docs, nil
}

// AddPaidAmount adjusts an invoice's paid amount; the table's check constraint keeps it within [0, total].
func (r *PgxDocumentRepository) AddPaidAmount(ctx context.Context, tx pgx.Tx, documentID string, amount decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE ledger_documents
		SET paid_amount = paid_amount + $2, last_updated_at = $3, last_updated_by = $4
		WHERE document_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, documentID, amount, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update paid amount of document %s: %w", documentID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteDocumentsByEntryID drops the documents of an entry. An invoice still referenced by
// payment rows, voided ones included, cannot be dropped.
func (r *PgxDocumentRepository) DeleteDocumentsByEntryID(ctx context.Context, tx pgx.Tx, entryID string) error {
	if _, err := tx.Exec(ctx, `DELETE FROM ledger_documents WHERE entry_id = $1;`, entryID); err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return fmt.Errorf("%w: documents of entry %s are referenced by payments", apperrors.ErrEntryHasPayments, entryID)
		}
		return fmt.Errorf("failed to delete documents of entry %s: %w", entryID, err)
	}
	return nil
}
