package database

import (
	"context"
	"database/sql"
	"fmt"

	"frtutracker/logger"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Dialect holds the statements that differ between the supported engines.
type Dialect struct {
	Name        string
	driverName  string
	createTable string
	selectValue string
	upsertValue string
}

var dialects = map[string]Dialect{
	"sqlite": {
		Name:       "sqlite",
		driverName: "sqlite",
		createTable: `CREATE TABLE IF NOT EXISTS kv_store (
			k VARCHAR(100) PRIMARY KEY,
			v TEXT NOT NULL,
			updated_at VARCHAR(50) NOT NULL DEFAULT ''
		)`,
		selectValue: `SELECT v FROM kv_store WHERE k = ?`,
		upsertValue: `INSERT INTO kv_store (k, v, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(k) DO UPDATE SET v = excluded.v, updated_at = excluded.updated_at`,
	},
	"mysql": {
		Name:       "mysql",
		driverName: "mysql",
		createTable: `CREATE TABLE IF NOT EXISTS kv_store (
			k VARCHAR(100) PRIMARY KEY,
			v LONGTEXT NOT NULL,
			updated_at VARCHAR(50) NOT NULL DEFAULT ''
		) CHARACTER SET utf8mb4 COLLATE utf8mb4_unicode_ci`,
		selectValue: `SELECT v FROM kv_store WHERE k = ?`,
		upsertValue: `INSERT INTO kv_store (k, v, updated_at) VALUES (?, ?, ?)
			ON DUPLICATE KEY UPDATE v = VALUES(v), updated_at = VALUES(updated_at)`,
	},
	"postgres": {
		Name:       "postgres",
		driverName: "pgx",
		createTable: `CREATE TABLE IF NOT EXISTS kv_store (
			k VARCHAR(100) PRIMARY KEY,
			v TEXT NOT NULL,
			updated_at VARCHAR(50) NOT NULL DEFAULT ''
		)`,
		selectValue: `SELECT v FROM kv_store WHERE k = $1`,
		upsertValue: `INSERT INTO kv_store (k, v, updated_at) VALUES ($1, $2, $3)
			ON CONFLICT (k) DO UPDATE SET v = EXCLUDED.v, updated_at = EXCLUDED.updated_at`,
	},
}

// SelectValue reads one blob by key.
func (d Dialect) SelectValue() string { return d.selectValue }

// UpsertValue writes one blob by key, replacing any previous value.
func (d Dialect) UpsertValue() string { return d.upsertValue }

// DB is an opened key-value database.
type DB struct {
	*sql.DB
	Dialect Dialect
}

// Open connects to the database and creates the key-value table.
// driver: "sqlite", "mysql" or "postgres"; an empty driver means sqlite.
func Open(ctx context.Context, driver, dsn string) (*DB, error) {
	if driver == "" {
		driver = "sqlite"
	}
	dialect, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if dsn == "" && driver == "sqlite" {
		dsn = "./frtu.db"
	}

	db, err := sql.Open(dialect.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == "sqlite" {
		// sqlite allows one writer at a time
		db.SetMaxOpenConns(1)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, dialect.createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	logger.Info("Database initialized (%s)", dialect.Name)
	return &DB{DB: db, Dialect: dialect}, nil
}
