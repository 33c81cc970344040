package pgsql

import (
	"context"
	"fmt"
	"strconv"

	"github.com/SscSPs/restaurant_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/restaurant_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSequenceRepository struct {
	BaseRepository
	journalPrefix string
}

// newPgxSequenceRepository creates the document-number allocator. journalPrefix seeds the
// JE series of a tenant the first time it is used; other series use the type's default.
func newPgxSequenceRepository(pool *pgxpool.Pool, journalPrefix string) portsrepo.SequenceRepository {
	return &PgxSequenceRepository{BaseRepository: BaseRepository{Pool: pool}, journalPrefix: journalPrefix}
}

var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

func (r *PgxSequenceRepository) prefixFor(docType domain.DocumentType) string {
	if docType == domain.DocJournal && r.journalPrefix != "" {
		return r.journalPrefix
	}
	return docType.DefaultPrefix()
}

// NextDocNumber increments the counter row in place. The upsert holds the row lock until
// the caller's transaction ends, so a rolled-back posting never consumes a number.
func (r *PgxSequenceRepository) NextDocNumber(ctx context.Context, tx pgx.Tx, tenantID string, docType domain.DocumentType) (string, error) {
	query := `
		INSERT INTO document_series (tenant_id, doc_type, prefix, next_number)
		VALUES ($1, $2, $3, 2)
		ON CONFLICT (tenant_id, doc_type)
		DO UPDATE SET next_number = document_series.next_number + 1
		RETURNING prefix, next_number - 1;
	`
	var prefix string
	var number int64
	if err := tx.QueryRow(ctx, query, tenantID, string(docType), r.prefixFor(docType)).Scan(&prefix, &number); err != nil {
		return "", fmt.Errorf("failed to allocate %s number for tenant %s: %w", docType, tenantID, err)
	}
	return prefix + strconv.FormatInt(number, 10), nil
}
