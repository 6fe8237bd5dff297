package store_test

import (
	"context"
	"io/fs"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/trustnotify/internal/store"
	"github.com/dmitrymomot/trustnotify/pkg/mongo"
	"github.com/dmitrymomot/trustnotify/pkg/pg"
)

func TestMigrations_Embedded(t *testing.T) {
	t.Parallel()

	names, err := fs.Glob(store.Migrations(), "*.sql")
	require.NoError(t, err)
	assert.Contains(t, names, "00001_create_notifications.sql")
}

func TestMongo(t *testing.T) {
	url := os.Getenv("TEST_MONGODB_URL")
	if url == "" {
		t.Skip("TEST_MONGODB_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := store.Open(ctx, store.Config{
		Driver: store.DriverMongo,
		Mongo: mongo.Config{
			ConnectionURL:  url,
			Database:       "trustnotify_test",
			ConnectTimeout: 5 * time.Second,
			MaxPoolSize:    5,
			RetryAttempts:  1,
		},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	runStoreSuite(t, s)
}

func TestPostgres(t *testing.T) {
	url := os.Getenv("TEST_PG_CONN_URL")
	if url == "" {
		t.Skip("TEST_PG_CONN_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := store.Open(ctx, store.Config{
		Driver: store.DriverPostgres,
		Postgres: pg.Config{
			ConnectionString: url,
			MaxOpenConns:     4,
			RetryAttempts:    1,
			MigrationsTable:  "schema_migrations",
		},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	runStoreSuite(t, s)
}
