//go:build integration

package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"travel-time-service/internal/platform/db"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgres starts a Postgres container and returns an open pgx connection.
func setupPostgres(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_routes",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/test_routes?sslmode=disable", host, port.Port())

	var conn *sql.DB
	require.Eventually(t, func() bool {
		conn, err = db.Open(db.DriverPostgres, dsn)
		return err == nil
	}, 30*time.Second, time.Second, "PostgreSQL not ready for connections")
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestSQLBatchStorePostgres(t *testing.T) {
	conn := setupPostgres(t)
	require.NoError(t, InitSchema(conn))

	store := NewSQLBatchStore(conn, db.DriverPostgres, nil)
	want := sampleBatch()
	ctx := context.Background()

	require.NoError(t, store.SaveBatch(ctx, want))

	got, err := store.GetBatch(ctx, want.ID)
	require.NoError(t, err)
	require.Len(t, got.Results, len(want.Results))
	require.Equal(t, want.Summary, got.Summary)
	require.Nil(t, got.Results[1].DurationMinutes)
}
