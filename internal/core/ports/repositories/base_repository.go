package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// WithinTx runs fn inside a single database transaction. The transaction is
	// committed when fn returns nil and rolled back otherwise. Store aborts such as
	// serialization failures surface as apperrors.ErrTxConflict.
	WithinTx(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context, tx pgx.Tx) error) error
}
