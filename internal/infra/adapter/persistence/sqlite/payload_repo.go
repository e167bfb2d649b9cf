// Package sqlite implements the payload repository on SQLite.
package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/Online-Ugyvitel/ddata-core/internal/codec"
	"github.com/Online-Ugyvitel/ddata-core/internal/domain/entity"
	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
	"github.com/Online-Ugyvitel/ddata-core/internal/infra/db"
	"github.com/Online-Ugyvitel/ddata-core/internal/observability/metrics"
	"github.com/Online-Ugyvitel/ddata-core/internal/repository"
)

const driver = "sqlite"

// PayloadRepo stores record payloads in the payloads table. Payloads are stored as JSON text.
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
WHERE endpoint = ? AND id = ?
LIMIT 1`
	rows, err := repo.db.QueryContext(ctx, query, endpoint, id.String())
	if err != nil {
		return nil, fmt.Errorf("Get: QueryContext: %w", err)
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
VALUES (?, ?, ?, ?, ?)
ON CONFLICT (endpoint, id) DO UPDATE SET
    num_id = excluded.num_id,
    payload = excluded.payload,
    updated_at = excluded.updated_at`
	if _, err := repo.db.ExecContext(ctx, query,
		endpoint, id.String(), numID(id), string(raw), time.Now().UTC(),
	); err != nil {
		return model.ID{}, fmt.Errorf("Put: ExecContext: %w", err)
	}
	return id, nil
}

// insertNext stores raw under the next integer id of endpoint in one statement.
func (repo *PayloadRepo) insertNext(ctx context.Context, endpoint string, raw []byte) (model.ID, error) {
	const query = `
INSERT INTO payloads (endpoint, id, num_id, payload, updated_at)
SELECT ?, CAST(n AS TEXT), n, json_set(?, '$.id', n), ?
FROM (SELECT COALESCE(MAX(num_id), 0) + 1 AS n FROM payloads WHERE endpoint = ?)
RETURNING num_id`
	rows, err := repo.db.QueryContext(ctx, query, endpoint, string(raw), time.Now().UTC(), endpoint)
	if err != nil {
		return model.ID{}, fmt.Errorf("Put: insert next id: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var n int64
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return model.ID{}, fmt.Errorf("Put: rows.Err: %w", err)
		}
		return model.ID{}, fmt.Errorf("Put: insert next id: no id returned")
	}
	if err := rows.Scan(&n); err != nil {
		return model.ID{}, fmt.Errorf("Put: Scan: %w", err)
	}
	return model.IntID(n), nil
}

// Delete removes the payload under (endpoint, id).
// It returns entity.ErrNotFound when no row was deleted.
func (repo *PayloadRepo) Delete(ctx context.Context, endpoint string, id model.ID) (err error) {
	defer observe("delete", time.Now(), &err)

	const query = `DELETE FROM payloads WHERE endpoint = ? AND id = ?`
	res, err := repo.db.ExecContext(ctx, query, endpoint, id.String())
	if err != nil {
		return fmt.Errorf("Delete: ExecContext: %w", err)
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
WHERE endpoint = ?
ORDER BY num_id IS NULL, num_id, id
LIMIT ? OFFSET ?`
	rows, err := repo.db.QueryContext(ctx, query, endpoint, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("List: QueryContext: %w", err)
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

	const query = `SELECT COUNT(*) FROM payloads WHERE endpoint = ?`
	var n int64
	if err := repo.db.QueryRowContext(ctx, query, endpoint).Scan(&n); err != nil {
		return 0, fmt.Errorf("Count: QueryRowContext: %w", err)
	}
	return n, nil
}

// numID is the sortable integer form of id, or nil for string ids.
func numID(id model.ID) any {
	n, ok := id.Int64()
	if !ok {
		return nil
	}
	return n
}
