package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"frtutracker/database"
)

// SQLExecutor is the connection the record store runs on: the pool for
// plain reads and the entry point for transactions.
type SQLExecutor interface {
	kvQuerier
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// kvQuerier is the subset shared by *sql.DB and *sql.Tx.
type kvQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// NewSQLExecutor adapts an opened pool.
func NewSQLExecutor(db *sql.DB) SQLExecutor {
	return db
}

// kvAccess reads and writes whole JSON blobs through either the pool or a
// transaction.
type kvAccess struct {
	q       kvQuerier
	dialect database.Dialect
}

func (a kvAccess) read(ctx context.Context, key string, dest any) (bool, error) {
	var raw string
	err := a.q.QueryRowContext(ctx, a.dialect.SelectValue(), key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return true, &DeserializationError{Key: key, Err: err}
	}
	return true, nil
}

func (a kvAccess) write(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := a.q.ExecContext(ctx, a.dialect.UpsertValue(), key, string(raw), now); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}

