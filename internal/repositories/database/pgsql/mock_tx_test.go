package pgsql

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"
)

// beginMockTx opens a transaction on a pgxmock connection. Expectations not met fail the test.
func beginMockTx(t *testing.T) (pgxmock.PgxConnIface, pgx.Tx) {
	t.Helper()
	mock, err := pgxmock.NewConn()
	require.NoError(t, err)
	mock.ExpectBegin()
	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = mock.Close(context.Background())
	})
	return mock, tx
}

func columns(list string) []string {
	cols := strings.Split(list, ",")
	for i, c := range cols {
		cols[i] = strings.TrimSpace(c)
	}
	return cols
}
