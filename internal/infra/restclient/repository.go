package restclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/Online-Ugyvitel/ddata-core/internal/common/pagination"
	"github.com/Online-Ugyvitel/ddata-core/internal/domain/entity"
	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
	"github.com/Online-Ugyvitel/ddata-core/internal/repository"
)

// payloadRepo exposes a Client as a repository.PayloadRepository so that the
// record service can use the API and the local store interchangeably.
type payloadRepo struct {
	client *Client
}

// AsRepository adapts c to repository.PayloadRepository.
//
// List pages must be aligned (offset a multiple of limit), and the API is
// expected to answer list requests with {"items": [...], "total": n}.
func AsRepository(c *Client) repository.PayloadRepository {
	return &payloadRepo{client: c}
}

func (r *payloadRepo) Get(ctx context.Context, endpoint string, id model.ID) (model.Payload, error) {
	p, err := r.client.Fetch(ctx, endpoint, id)
	if errors.Is(err, entity.ErrNotFound) {
		return nil, nil
	}
	return p, err
}

func (r *payloadRepo) Put(ctx context.Context, endpoint string, id model.ID, payload model.Payload) (model.ID, error) {
	saved, err := r.client.Save(ctx, endpoint, id, payload)
	if err != nil {
		return model.ID{}, err
	}
	if v, ok := saved.Lookup("id"); ok {
		if sid, ok := model.ParseID(v); ok && !sid.IsZero() {
			return sid, nil
		}
	}
	if id.IsZero() {
		return model.ID{}, fmt.Errorf("POST %s: response carries no id", endpoint)
	}
	return id, nil
}

func (r *payloadRepo) Delete(ctx context.Context, endpoint string, id model.ID) error {
	return r.client.Delete(ctx, endpoint, id)
}

func (r *payloadRepo) List(ctx context.Context, endpoint string, offset, limit int) ([]model.Payload, error) {
	if limit <= 0 {
		return []model.Payload{}, nil
	}
	params := pagination.Params{Page: offset/limit + 1, PerPage: limit}
	page, err := r.client.List(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	items := page.Objects("items")
	if items == nil {
		items = []model.Payload{}
	}
	return items, nil
}

func (r *payloadRepo) Count(ctx context.Context, endpoint string) (int64, error) {
	page, err := r.client.List(ctx, endpoint, pagination.Params{Page: 1, PerPage: 1})
	if err != nil {
		return 0, err
	}
	return int64(model.FieldAsNumber(page, "total", 0)), nil
}
