package store

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// Set COINPULSE_TEST_PG to a connection string of a disposable database.
func TestPostgresContract(t *testing.T) {
	dsn := os.Getenv("COINPULSE_TEST_PG")
	if dsn == "" {
		t.Skip("COINPULSE_TEST_PG not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "DROP TABLE IF EXISTS tickers")
	require.NoError(t, err)

	s := NewPostgres(pool)
	require.NoError(t, s.EnsureSchema(ctx))
	require.NoError(t, s.EnsureSchema(ctx))
	require.NoError(t, s.Ping(ctx))

	runContract(t, s)
}
