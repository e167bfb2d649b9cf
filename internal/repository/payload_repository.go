// Package repository declares the storage ports of the record layer.
package repository

import (
	"context"

	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
)

// PayloadRepository stores saved record payloads keyed by (api endpoint, id).
//
// Get returns (nil, nil) when no payload is stored under the key.
// Put with a zero id assigns the next integer id of the endpoint, writes it
// into the stored payload's "id" field and returns it. Delete returns
// entity.ErrNotFound when nothing was deleted.
type PayloadRepository interface {
	Get(ctx context.Context, endpoint string, id model.ID) (model.Payload, error)
	Put(ctx context.Context, endpoint string, id model.ID, payload model.Payload) (model.ID, error)
	Delete(ctx context.Context, endpoint string, id model.ID) error
	List(ctx context.Context, endpoint string, offset, limit int) ([]model.Payload, error)
	Count(ctx context.Context, endpoint string) (int64, error)
}
