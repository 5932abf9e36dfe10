package repository

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// testPool подключается к POSTGRES_CONN, накатывает миграции и очищает таблицы.
// Без POSTGRES_CONN тест пропускается.
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	conn := os.Getenv("POSTGRES_CONN")
	if conn == "" {
		t.Skip("POSTGRES_CONN is not set")
	}

	m, err := migrate.New("file://../../migrations", conn)
	require.NoError(t, err)
	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		require.NoError(t, err)
	}
	srcErr, dbErr := m.Close()
	require.NoError(t, srcErr)
	require.NoError(t, dbErr)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, conn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE partner, partner_history, service_offer RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
	return pool
}

func strPtr(s string) *string {
	return &s
}
