// Package sqldb serves the world tables from MySQL (the original world
// database) or SQLite through database/sql.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"

	"github.com/samirrijal/worldreports/internal/adapters/sqlbuilder"
	"github.com/samirrijal/worldreports/internal/pkg/retry"
)

// DB wraps a database/sql pool together with its dialect.
type DB struct {
	SQL     *sql.DB
	dialect sqlbuilder.Dialect
}

// Options tunes pool size and connect retries.
type Options struct {
	MaxConns   int
	Retries    int
	RetryDelay time.Duration
}

// Open connects to driver ("mysql" or "sqlite") at dsn and waits until the
// server answers a ping.
func Open(ctx context.Context, driver, dsn string, opts Options) (*DB, error) {
	var dialect sqlbuilder.Dialect
	switch driver {
	case "mysql":
		dialect = sqlbuilder.MySQL
	case "sqlite":
		dialect = sqlbuilder.SQLite
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if opts.MaxConns > 0 {
		db.SetMaxOpenConns(opts.MaxConns)
		db.SetMaxIdleConns(opts.MaxConns)
	}
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := retry.Connect(ctx, driver, opts.Retries, opts.RetryDelay, db.PingContext); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return &DB{SQL: db, dialect: dialect}, nil
}

// Dialect reports the SQL flavour of the connection.
func (db *DB) Dialect() sqlbuilder.Dialect {
	return db.dialect
}

// Ping checks connectivity.
func (db *DB) Ping(ctx context.Context) error {
	return db.SQL.PingContext(ctx)
}

// Stat returns pool statistics for metrics.
func (db *DB) Stat() any {
	return db.SQL.Stats()
}

// Close releases pool resources.
func (db *DB) Close() {
	_ = db.SQL.Close()
}
