package db

import (
	"context"
	"fmt"
)

var schemas = map[string][]string{
	DriverSQLite: {
		`CREATE TABLE IF NOT EXISTS payloads (
    endpoint   TEXT NOT NULL,
    id         TEXT NOT NULL,
    num_id     INTEGER,
    payload    TEXT NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (endpoint, id)
)`,
		`CREATE INDEX IF NOT EXISTS idx_payloads_endpoint_num_id ON payloads(endpoint, num_id)`,
	},
	DriverPostgres: {
		`CREATE TABLE IF NOT EXISTS payloads (
    endpoint   TEXT NOT NULL,
    id         TEXT NOT NULL,
    num_id     BIGINT,
    payload    JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (endpoint, id)
)`,
		`CREATE INDEX IF NOT EXISTS idx_payloads_endpoint_num_id ON payloads(endpoint, num_id)`,
	},
}

// MigrateUp creates the payloads table and its indexes for driver.
func MigrateUp(ctx context.Context, q Querier, driver string) error {
	stmts, ok := schemas[driver]
	if !ok {
		return fmt.Errorf("migrate: unsupported store driver %q", driver)
	}
	for _, stmt := range stmts {
		if _, err := q.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate %s: %w", driver, err)
		}
	}
	return nil
}
