//go:build integration

package postgres

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"example.com/actiontracker/internal/domain"
)

func TestJournalAppendAndRecent(t *testing.T) {
	ctx := context.Background()
	pool := setupPostgres(t, ctx)

	journal := NewJournal(pool)
	base := time.Now().UTC().Truncate(time.Millisecond)

	first := domain.JournalEntry{
		ID:         uuid.NewString(),
		Action:     "jump",
		Time:       100,
		Source:     "http",
		Payload:    []byte(`{"action":"jump","time":100}`),
		ReceivedAt: base,
	}
	second := domain.JournalEntry{
		ID:         uuid.NewString(),
		Action:     "swim",
		Time:       12.5,
		Source:     "kafka:actions",
		Payload:    []byte(`{"action":"swim","time":12.5}`),
		ReceivedAt: base.Add(time.Second),
	}

	require.NoError(t, journal.Append(ctx, first))
	require.NoError(t, journal.Append(ctx, second))
	// Replays of the same entry are ignored.
	require.NoError(t, journal.Append(ctx, first))

	entries, err := journal.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, second.ID, entries[0].ID)
	require.Equal(t, "swim", entries[0].Action)
	require.Equal(t, 12.5, entries[0].Time)
	require.JSONEq(t, string(second.Payload), string(entries[0].Payload))
	require.True(t, second.ReceivedAt.Equal(entries[0].ReceivedAt))
	require.Equal(t, first.ID, entries[1].ID)
}

func setupPostgres(t *testing.T, ctx context.Context) *pgxpool.Pool {
	t.Helper()

	pg, err := postgrescontainer.Run(ctx, "postgres:16-alpine",
		postgrescontainer.WithDatabase("actions"),
		postgrescontainer.WithUsername("platform"),
		postgrescontainer.WithPassword("platform"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, waitForDatabase(ctx, connStr))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	runMigrations(t, ctx, pool)
	return pool
}

func runMigrations(t *testing.T, ctx context.Context, pool *pgxpool.Pool) {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	require.True(t, ok)
	migrationsPath := filepath.Join(filepath.Dir(file), "../../../db/postgres/migrations")

	files, err := filepath.Glob(filepath.Join(migrationsPath, "*.up.sql"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	sort.Strings(files)

	for _, file := range files {
		content, readErr := os.ReadFile(file)
		require.NoErrorf(t, readErr, "read migration %s", file)
		_, execErr := pool.Exec(ctx, string(content))
		require.NoErrorf(t, execErr, "execute migration %s", file)
	}
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
