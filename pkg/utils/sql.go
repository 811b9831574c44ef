package utils

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// PoolConfig controls database/sql pool behavior.
// Zero values fall back to conservative defaults.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
	// KeepConns disables lifetime and idle recycling.
	KeepConns bool
}

func (c PoolConfig) withDefaults() PoolConfig {
	c.MaxOpenConns = orInt(c.MaxOpenConns, 10)
	c.MaxIdleConns = orInt(c.MaxIdleConns, c.MaxOpenConns)
	if c.KeepConns {
		c.ConnMaxLifetime, c.ConnMaxIdleTime = 0, 0
	} else {
		c.ConnMaxLifetime = orDuration(c.ConnMaxLifetime, 30*time.Minute)
		c.ConnMaxIdleTime = orDuration(c.ConnMaxIdleTime, 5*time.Minute)
	}
	c.PingTimeout = orDuration(c.PingTimeout, 5*time.Second)
	return c
}

// OpenPostgres opens a Postgres connection through the pgx stdlib driver.
// The caller must blank-import github.com/jackc/pgx/v5/stdlib.
// dsn must not be logged; it contains secrets.
func OpenPostgres(ctx context.Context, dsn string, pool PoolConfig) (*sql.DB, error) {
	return open(ctx, "pgx", dsn, pool)
}

// OpenSQLite opens (creating if needed) a SQLite database file through
// modernc.org/sqlite. The caller must blank-import the driver.
// path ":memory:" opens a private in-memory database.
func OpenSQLite(ctx context.Context, path string, busyTimeout time.Duration) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
	}
	// One long-lived writer connection: an in-memory database dies with it.
	return open(ctx, "sqlite", sqliteDSN(path, busyTimeout), PoolConfig{MaxOpenConns: 1, MaxIdleConns: 1, KeepConns: true})
}

// sqliteDSN carries pragmas as modernc _pragma parameters so every new
// connection applies them.
func sqliteDSN(path string, busyTimeout time.Duration) string {
	var pragmas []string
	if busyTimeout > 0 {
		pragmas = append(pragmas, fmt.Sprintf("_pragma=busy_timeout(%d)", busyTimeout.Milliseconds()))
	}
	if path != ":memory:" {
		pragmas = append(pragmas, "_pragma=journal_mode(WAL)")
	}
	if len(pragmas) == 0 {
		return path
	}
	return path + "?" + strings.Join(pragmas, "&")
}

func open(ctx context.Context, driverName, dsn string, pool PoolConfig) (*sql.DB, error) {
	pool = pool.withDefaults()

	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(pool.MaxOpenConns)
	db.SetMaxIdleConns(pool.MaxIdleConns)
	db.SetConnMaxLifetime(pool.ConnMaxLifetime)
	db.SetConnMaxIdleTime(pool.ConnMaxIdleTime)

	if err := HealthCheck(ctx, db, pool.PingTimeout); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// HealthCheck pings the DB with a timeout.
func HealthCheck(ctx context.Context, db *sql.DB, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("db ping failed: %w", err)
	}
	return nil
}

// TxFunc is the unit of work executed inside a transaction.
type TxFunc func(ctx context.Context, tx *sql.Tx) error

// WithTx runs fn inside a transaction.
// - If fn returns error: tx is rolled back and the error is returned.
// - If fn panics: tx is rolled back and the panic is re-thrown.
// - If commit fails: commit error is returned.
func WithTx(ctx context.Context, db *sql.DB, opts *sql.TxOptions, fn TxFunc) (err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	err = fn(ctx, tx)
	return err
}
