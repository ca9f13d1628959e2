package database

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"frtutracker/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.SetOutput(logger.ERROR, io.Discard)
	os.Exit(m.Run())
}

func TestOpenSQLiteUpsert(t *testing.T) {
	ctx := context.Background()
	db, err := Open(ctx, "", filepath.Join(t.TempDir(), "kv.db"))
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, "sqlite", db.Dialect.Name)

	_, err = db.ExecContext(ctx, db.Dialect.UpsertValue(), "k1", `["a"]`, "t1")
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, db.Dialect.UpsertValue(), "k1", `["b"]`, "t2")
	require.NoError(t, err)

	var v string
	require.NoError(t, db.QueryRowContext(ctx, db.Dialect.SelectValue(), "k1").Scan(&v))
	assert.Equal(t, `["b"]`, v)

	var n int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM kv_store").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestOpenReopensExistingFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "kv.db")

	db, err := Open(ctx, "sqlite", path)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, db.Dialect.UpsertValue(), "k", "v", "t")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = Open(ctx, "sqlite", path)
	require.NoError(t, err)
	defer db.Close()
	var v string
	require.NoError(t, db.QueryRowContext(ctx, db.Dialect.SelectValue(), "k").Scan(&v))
	assert.Equal(t, "v", v)
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", "")
	assert.Error(t, err)
}

func TestDialectPlaceholders(t *testing.T) {
	assert.Contains(t, dialects["postgres"].SelectValue(), "$1")
	assert.Equal(t, "pgx", dialects["postgres"].driverName)
	assert.Contains(t, dialects["mysql"].UpsertValue(), "ON DUPLICATE KEY UPDATE")
}
