package circuitbreaker

import (
	"context"
	"database/sql"
	"time"

	"github.com/sony/gobreaker"
)

// DB wraps a payload store connection with circuit breaker protection.
// It satisfies the query interface the persistence adapters depend on.
type DB struct {
	cb *CircuitBreaker
	db *sql.DB
}

// StoreConfig returns configuration for payload store breakers.
// It trips when the last 5 or more counted calls all failed.
func StoreConfig() Config {
	return Config{
		Name:             "payload-store",
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 1.0,
		MinRequests:      5,
	}
}

// NewDB wraps db using StoreConfig.
func NewDB(db *sql.DB) *DB {
	return NewDBWithConfig(db, StoreConfig())
}

// NewDBWithConfig wraps db using cfg.
func NewDBWithConfig(db *sql.DB, cfg Config) *DB {
	return &DB{cb: New(cfg), db: db}
}

// QueryContext executes a query with circuit breaker protection.
func (d *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return Run(d.cb, func() (*sql.Rows, error) {
		return d.db.QueryContext(ctx, query, args...)
	})
}

// ExecContext executes a statement with circuit breaker protection.
func (d *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return Run(d.cb, func() (sql.Result, error) {
		return d.db.ExecContext(ctx, query, args...)
	})
}

// QueryRowContext is not protected: sql.Row defers its error until Scan.
// Adapters that need protection for single-row reads use QueryContext.
func (d *DB) QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row {
	return d.db.QueryRowContext(ctx, query, args...)
}

// State returns the current state of the circuit breaker.
func (d *DB) State() gobreaker.State {
	return d.cb.State()
}

// Unwrap returns the underlying connection.
func (d *DB) Unwrap() *sql.DB {
	return d.db
}

// IsOpen reports whether store calls are currently rejected.
func (d *DB) IsOpen() bool {
	return d.cb.IsOpen()
}
