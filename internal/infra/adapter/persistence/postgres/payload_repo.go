// Package postgres implements the payload repository on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Online-Ugyvitel/ddata-core/internal/codec"
	"github.com/Online-Ugyvitel/ddata-core/internal/domain/entity"
	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
	"github.com/Online-Ugyvitel/ddata-core/internal/infra/db"
	"github.com/Online-Ugyvitel/ddata-core/internal/observability/metrics"
	"github.com/Online-Ugyvitel/ddata-core/internal/repository"
)

const driver = "postgres"

// PayloadRepo stores record payloads in the payloads table. Payloads are stored as jsonb.
type PayloadRepo struct {
	db    db.Querier
	codec codec.Codec
}

// NewPayloadRepo returns a PayloadRepo running its statements on q.
func NewPayloadRepo(q db.Querier) repository.PayloadRepository {
	return &PayloadRepo{db: q, codec: codec.JSON{}}
}

// observe records the duration and outcome of one store operation.
func observe(op string, start time.Time, err *error) {
	metrics.RecordStoreOperation(driver, op, time.Since(start), *err)
}

// Get returns the payload stored under (endpoint, id), or nil when there is none.
func (repo *PayloadRepo) Get(ctx context.Context, endpoint string, id model.ID) (_ model.Payload, err error) {
	defer observe("get", time.Now(), &err)

	const query = `
SELECT payload
FROM payloads
WHERE endpoint = $1 AND id = $2
LIMIT 1`
	rows, err := repo.db.QueryContext(ctx, query, endpoint, id.String())
	if err != nil {
		return nil, fmt.Errorf("Get: QueryContext: %w", wrapPgError(err))
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("Get: rows.Err: %w", err)
		}
		return nil, nil
	}
	var raw []byte
	if err := rows.Scan(&raw); err != nil {
		return nil, fmt.Errorf("Get: Scan: %w", err)
	}
	p, err := repo.codec.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return p, nil
}

// Put inserts or replaces the payload under (endpoint, id) and returns the id.
// A zero id stores the payload under the next integer id of endpoint.
func (repo *PayloadRepo) Put(ctx context.Context, endpoint string, id model.ID, payload model.Payload) (_ model.ID, err error) {
	defer observe("put", time.Now(), &err)

	raw, err := repo.codec.Encode(payload)
	if err != nil {
		return model.ID{}, fmt.Errorf("Put: %w", err)
	}

	if id.IsZero() {
		return repo.insertNext(ctx, endpoint, raw)
	}

	const query = `
INSERT INTO payloads (endpoint, id, num_id, payload, updated_at)
VALUES ($1, $2, $3, $4::jsonb, now())
ON CONFLICT (endpoint, id) DO UPDATE SET
    num_id = EXCLUDED.num_id,
    payload = EXCLUDED.payload,
    updated_at = EXCLUDED.updated_at`
	if _, err := repo.db.ExecContext(ctx, query,
		endpoint, id.String(), numID(id), string(raw),
	); err != nil {
		return model.ID{}, fmt.Errorf("Put: ExecContext: %w", wrapPgError(err))
	}
	return id, nil
}

// insertNext stores raw under the next integer id of endpoint in one statement.
// A concurrent writer picking the same id fails on the primary key.
func (repo *PayloadRepo) insertNext(ctx context.Context, endpoint string, raw []byte) (model.ID, error) {
	const query = `
INSERT INTO payloads (endpoint, id, num_id, payload, updated_at)
SELECT $1, n::text, n, jsonb_set($2::jsonb, '{id}', to_jsonb(n)), now()
FROM (SELECT COALESCE(MAX(num_id), 0) + 1 AS n FROM payloads WHERE endpoint = $1) AS next
RETURNING num_id`
	var n int64
	if err := repo.db.QueryRowContext(ctx, query, endpoint, string(raw)).Scan(&n); err != nil {
		return model.ID{}, fmt.Errorf("Put: insert next id: %w", wrapPgError(err))
	}
	return model.IntID(n), nil
}

// Delete removes the payload under (endpoint, id).
// It returns entity.ErrNotFound when no row was deleted.
func (repo *PayloadRepo) Delete(ctx context.Context, endpoint string, id model.ID) (err error) {
	defer observe("delete", time.Now(), &err)

	const query = `DELETE FROM payloads WHERE endpoint = $1 AND id = $2`
	res, err := repo.db.ExecContext(ctx, query, endpoint, id.String())
	if err != nil {
		return fmt.Errorf("Delete: ExecContext: %w", wrapPgError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("Delete: RowsAffected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("Delete: %s/%s: %w", endpoint, id, entity.ErrNotFound)
	}
	return nil
}

// List returns one page of the payloads of endpoint, integer ids first in
// ascending order, then string ids.
func (repo *PayloadRepo) List(ctx context.Context, endpoint string, offset, limit int) (_ []model.Payload, err error) {
	defer observe("list", time.Now(), &err)

	const query = `
SELECT payload
FROM payloads
WHERE endpoint = $1
ORDER BY num_id ASC NULLS LAST, id
LIMIT $2 OFFSET $3`
	rows, err := repo.db.QueryContext(ctx, query, endpoint, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("List: QueryContext: %w", wrapPgError(err))
	}
	defer func() { _ = rows.Close() }()

	payloads := make([]model.Payload, 0, limit)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		p, err := repo.codec.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("List: %w", err)
		}
		payloads = append(payloads, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("List: rows.Err: %w", err)
	}
	return payloads, nil
}

// Count returns the number of payloads stored for endpoint.
func (repo *PayloadRepo) Count(ctx context.Context, endpoint string) (_ int64, err error) {
	defer observe("count", time.Now(), &err)

	const query = `SELECT COUNT(*) FROM payloads WHERE endpoint = $1`
	var n int64
	if err := repo.db.QueryRowContext(ctx, query, endpoint).Scan(&n); err != nil {
		return 0, fmt.Errorf("Count: QueryRowContext: %w", wrapPgError(err))
	}
	return n, nil
}

// ErrConflict is returned when a concurrent insert took the same key.
var ErrConflict = errors.New("payload key conflict")

// wrapPgError maps unique violations to ErrConflict and keeps the server
// error in the chain.
func wrapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %w", ErrConflict, err)
	}
	return err
}

func numID(id model.ID) any {
	n, ok := id.Int64()
	if !ok {
		return nil
	}
	return n
}
