//go:build integration

package testsupport

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/ovaphlow/pitchfork/service-exercise-tracker/pkg/database"
)

// StartPostgres launches a throwaway Postgres container, waits until it
// accepts connections and returns a sqlx handle opened through
// database.Connect. Everything is torn down with the test.
func StartPostgres(ctx context.Context, t *testing.T) *sqlx.DB {
	t.Helper()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("tracker"),
		postgrescontainer.WithUsername("tracker"),
		postgrescontainer.WithPassword("tracker"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, waitForDatabase(ctx, connStr))

	sqlDB, err := database.Connect(database.Config{DSN: connStr, MaxConns: 4, Timeout: 5 * time.Second, TimeZone: "UTC"})
	require.NoError(t, err)

	db := sqlx.NewDb(sqlDB, "postgres")
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func waitForDatabase(ctx context.Context, connStr string) error {
	deadline := time.Now().Add(30 * time.Second)
	for {
		pool, err := pgxpool.New(ctx, connStr)
		if err == nil {
			err = pool.Ping(ctx)
			pool.Close()
			if err == nil {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return err
		}
		time.Sleep(time.Second)
	}
}
