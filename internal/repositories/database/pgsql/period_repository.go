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
)

const periodColumns = `period_id, tenant_id, name, start_date, end_date, status, closed_at, closed_by, created_at, created_by, last_updated_at, last_updated_by`

type PgxPeriodRepository struct {
	BaseRepository
}

func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

func scanPeriod(row pgx.Row) (models.AccountingPeriod, error) {
	var m models.AccountingPeriod
	err := row.Scan(
		&m.PeriodID,
		&m.TenantID,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
		&m.ClosedAt,
		&m.ClosedBy,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func collectPeriods(rows pgx.Rows) ([]domain.AccountingPeriod, error) {
	defer rows.Close()
	periods := []models.AccountingPeriod{}
	for rows.Next() {
		m, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period row: %w", err)
		}
		periods = append(periods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period rows: %w", err)
	}
	return mapping.ToDomainPeriodSlice(periods), nil
}

func (r *PgxPeriodRepository) findOne(ctx context.Context, q queryer, query string, tenantID, periodID string) (*domain.AccountingPeriod, error) {
	m, err := scanPeriod(q.QueryRow(ctx, query, tenantID, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period %s: %w", periodID, err)
	}
	period := mapping.ToDomainPeriod(m)
	return &period, nil
}

func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, tenantID string, periodID string) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE tenant_id = $1 AND period_id = $2;`
	return r.findOne(ctx, r.Pool, query, tenantID, periodID)
}

func (r *PgxPeriodRepository) ListPeriods(ctx context.Context, tenantID string) ([]domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE tenant_id = $1 ORDER BY start_date;`
	rows, err := r.Pool.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods for tenant %s: %w", tenantID, err)
	}
	return collectPeriods(rows)
}

func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, tx pgx.Tx, period domain.AccountingPeriod) error {
	m := mapping.ToModelPeriod(period)
	query := `
		INSERT INTO accounting_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := tx.Exec(ctx, query,
		m.PeriodID, m.TenantID, m.Name, m.StartDate, m.EndDate, m.Status, m.ClosedAt, m.ClosedBy,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return fmt.Errorf("%w: period %s already exists", apperrors.ErrDuplicate, m.Name)
		}
		return fmt.Errorf("failed to save period %s: %w", m.Name, err)
	}
	return nil
}

func (r *PgxPeriodRepository) UpdatePeriod(ctx context.Context, tx pgx.Tx, period domain.AccountingPeriod) error {
	m := mapping.ToModelPeriod(period)
	query := `
		UPDATE accounting_periods
		SET name = $2, start_date = $3, end_date = $4, last_updated_at = $5, last_updated_by = $6
		WHERE period_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, m.PeriodID, m.Name, m.StartDate, m.EndDate, m.LastUpdatedAt, m.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to update period %s: %w", m.PeriodID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdatePeriodStatus switches the status and stamps closed_at/closed_by when closing.
func (r *PgxPeriodRepository) UpdatePeriodStatus(ctx context.Context, tx pgx.Tx, periodID string, status domain.PeriodStatus, userID string, now time.Time) error {
	query := `
		UPDATE accounting_periods
		SET status = $2,
		    closed_at = CASE WHEN $2 = 'CLOSED' THEN $3::timestamptz ELSE NULL END,
		    closed_by = CASE WHEN $2 = 'CLOSED' THEN $4 ELSE NULL END,
		    last_updated_at = $3, last_updated_by = $4
		WHERE period_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, periodID, string(status), now, userID)
	if err != nil {
		return fmt.Errorf("failed to update status of period %s: %w", periodID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxPeriodRepository) DeletePeriod(ctx context.Context, tx pgx.Tx, periodID string) error {
	cmdTag, err := tx.Exec(ctx, `DELETE FROM accounting_periods WHERE period_id = $1;`, periodID)
	if err != nil {
		return fmt.Errorf("failed to delete period %s: %w", periodID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// LockPeriodRegistry takes a transaction-scoped advisory lock keyed on the tenant.
func (r *PgxPeriodRepository) LockPeriodRegistry(ctx context.Context, tx pgx.Tx, tenantID string) error {
	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext('accounting_periods:' || $1));`, tenantID); err != nil {
		return fmt.Errorf("failed to lock period registry for tenant %s: %w", tenantID, err)
	}
	return nil
}

func (r *PgxPeriodRepository) FindPeriodByIDForUpdate(ctx context.Context, tx pgx.Tx, tenantID string, periodID string) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE tenant_id = $1 AND period_id = $2 FOR UPDATE;`
	return r.findOne(ctx, tx, query, tenantID, periodID)
}

// FindPeriodsContaining returns all periods whose inclusive range holds date, locked FOR SHARE.
func (r *PgxPeriodRepository) FindPeriodsContaining(ctx context.Context, tx pgx.Tx, tenantID string, date time.Time) ([]domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE tenant_id = $1 AND start_date <= $2::date AND end_date >= $2::date
		ORDER BY start_date
		FOR SHARE;
	`
	rows, err := tx.Query(ctx, query, tenantID, domain.DateOnly(date))
	if err != nil {
		return nil, fmt.Errorf("failed to find periods containing %s: %w", date.Format(time.DateOnly), err)
	}
	return collectPeriods(rows)
}

// FindOverlappingPeriods uses the inclusive rule: a.start <= b.end AND b.start <= a.end.
func (r *PgxPeriodRepository) FindOverlappingPeriods(ctx context.Context, tx pgx.Tx, tenantID string, start, end time.Time, excludeID string) ([]domain.AccountingPeriod, error) {
	query := `
		SELECT ` + periodColumns + `
		FROM accounting_periods
		WHERE tenant_id = $1 AND start_date <= $3::date AND end_date >= $2::date
		  AND ($4 = '' OR period_id <> $4)
		ORDER BY start_date;
	`
	rows, err := tx.Query(ctx, query, tenantID, domain.DateOnly(start), domain.DateOnly(end), excludeID)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping periods: %w", err)
	}
	return collectPeriods(rows)
}
