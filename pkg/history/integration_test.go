//go:build integration
// +build integration

package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/williamokano/img_uploader/pkg/history"
)

func setupPostgresContainer(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	pgContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("img_uploader"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, "", err
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		pgContainer.Terminate(ctx)
		return nil, "", err
	}

	return pgContainer, connStr, nil
}

func TestPostgresRecorder(t *testing.T) {
	// Skip in short mode
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	pgContainer, dsn, err := setupPostgresContainer(ctx)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL: %v", err)
	}
	defer pgContainer.Terminate(ctx)

	recorder, err := history.Open(ctx, dsn)
	require.NoError(t, err)
	defer recorder.Close()

	base := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	for i, name := range []string{"a.png", "b.png", "c.png"} {
		err := recorder.Record(ctx, history.Entry{
			Key:         "uploads/" + name,
			URL:         "https://cdn.example.com/uploads/" + name,
			Backend:     "env_s3",
			FileName:    name,
			ContentType: "image/png",
			Size:        int64(100 * (i + 1)),
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	t.Run("newest_first", func(t *testing.T) {
		entries, err := recorder.Recent(ctx, 2)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "uploads/c.png", entries[0].Key)
		assert.Equal(t, "uploads/b.png", entries[1].Key)
		assert.Equal(t, int64(300), entries[0].Size)
		assert.True(t, base.Add(2*time.Minute).Equal(entries[0].CreatedAt))
	})

	t.Run("default_limit", func(t *testing.T) {
		entries, err := recorder.Recent(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})

	t.Run("table_creation_is_idempotent", func(t *testing.T) {
		again, err := history.NewPostgres(ctx, dsn)
		require.NoError(t, err)
		defer again.Close()

		entries, err := again.Recent(ctx, 10)
		require.NoError(t, err)
		assert.Len(t, entries, 3)
	})
}
