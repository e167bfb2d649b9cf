package record

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Online-Ugyvitel/ddata-core/internal/common/pagination"
	"github.com/Online-Ugyvitel/ddata-core/internal/domain/entity"
	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
	"github.com/Online-Ugyvitel/ddata-core/internal/observability/logging"
	"github.com/Online-Ugyvitel/ddata-core/internal/observability/metrics"
	"github.com/Online-Ugyvitel/ddata-core/internal/repository"
)

// DefaultWorkers bounds the concurrent loads of LoadMany.
const DefaultWorkers = 4

// Service provides the record use cases for one record type.
type Service[R model.Record] struct {
	Repo repository.PayloadRepository

	// New returns an empty record; it also names the api endpoint.
	New func() R

	// Workers bounds LoadMany; values below 1 mean DefaultWorkers.
	Workers int

	Pagination pagination.Config
}

// NewService returns a Service for the records built by factory.
func NewService[R model.Record](repo repository.PayloadRepository, factory func() R) *Service[R] {
	return &Service[R]{
		Repo:       repo,
		New:        factory,
		Workers:    DefaultWorkers,
		Pagination: pagination.DefaultConfig(),
	}
}

func (s *Service[R]) endpoint() string {
	return s.New().APIEndpoint()
}

// Hydrate builds a record from payload. It never fails.
func (s *Service[R]) Hydrate(payload model.Payload) R {
	r := model.Init(s.New(), payload)
	metrics.RecordHydration(r.ModelName())
	return r
}

// Load retrieves and hydrates the record stored under id.
// Returns ErrInvalidRecordID for a zero id and ErrRecordNotFound when nothing is stored.
func (s *Service[R]) Load(ctx context.Context, id model.ID) (R, error) {
	var zero R
	if id.IsZero() {
		return zero, ErrInvalidRecordID
	}

	payload, err := s.Repo.Get(ctx, s.endpoint(), id)
	if err != nil {
		return zero, fmt.Errorf("load %s/%s: %w", s.endpoint(), id, err)
	}
	if payload == nil {
		return zero, fmt.Errorf("load %s/%s: %w", s.endpoint(), id, ErrRecordNotFound)
	}
	return s.Hydrate(payload), nil
}

// LoadMany loads ids concurrently and returns the records in the order of ids.
// The first failure cancels the remaining loads.
func (s *Service[R]) LoadMany(ctx context.Context, ids []model.ID) ([]R, error) {
	out := make([]R, len(ids))
	workers := s.Workers
	if workers < 1 {
		workers = DefaultWorkers
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			r, err := s.Load(gctx, id)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Save validates r and stores its saved payload.
//
// An invalid record is not stored: the returned error is an *entity.RecordError
// matching entity.ErrValidationFailed. On success r is rehydrated from the
// stored payload, so an id assigned by the repository is visible on r.
func (s *Service[R]) Save(ctx context.Context, r R) (model.ID, error) {
	logger := logging.WithRecord(logging.FromContext(ctx), r)

	if err := entity.Check(r); err != nil {
		var recErr *entity.RecordError
		failed := r.ValidationErrors()
		if errors.As(err, &recErr) {
			failed = recErr.FieldNames()
		}
		metrics.RecordValidation(r.ModelName(), failed)
		logger.Info("record rejected", slog.Any("fields", failed))
		return model.ID{}, fmt.Errorf("save %s: %w", r.ModelName(), err)
	}
	metrics.RecordValidation(r.ModelName(), nil)

	payload := model.PrepareToSave(r)
	var id model.ID
	if v, ok := payload.Lookup("id"); ok {
		id, _ = model.ParseID(v)
	}

	saved, err := s.Repo.Put(ctx, r.APIEndpoint(), id, payload)
	if err != nil {
		return model.ID{}, fmt.Errorf("save %s: %w", r.ModelName(), err)
	}

	payload["id"] = saved.Value()
	model.Init(r, payload)
	logger.Debug("record saved", slog.String("id", saved.String()))
	return saved, nil
}

// Delete removes the record stored under id.
func (s *Service[R]) Delete(ctx context.Context, id model.ID) error {
	if id.IsZero() {
		return ErrInvalidRecordID
	}
	if err := s.Repo.Delete(ctx, s.endpoint(), id); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return fmt.Errorf("delete %s/%s: %w", s.endpoint(), id, ErrRecordNotFound)
		}
		return fmt.Errorf("delete %s/%s: %w", s.endpoint(), id, err)
	}
	return nil
}

// Page loads one page of records. Missing page parameters take the
// configured defaults; out of range values are rejected.
func (s *Service[R]) Page(ctx context.Context, params pagination.Params) (*entity.SearchResult[R], error) {
	params = params.WithDefaults(s.Pagination)
	if err := params.Validate(s.Pagination); err != nil {
		return nil, fmt.Errorf("page %s: %w", s.endpoint(), err)
	}

	total, err := s.Repo.Count(ctx, s.endpoint())
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", s.endpoint(), err)
	}
	payloads, err := s.Repo.List(ctx, s.endpoint(), params.Offset(), params.PerPage)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.endpoint(), err)
	}

	items := make([]any, len(payloads))
	for i, p := range payloads {
		items[i] = p
	}
	res := entity.NewSearchResult(s.New).Init(model.Payload{
		"items":    items,
		"total":    total,
		"page":     params.Page,
		"per_page": params.PerPage,
	})
	for _, item := range res.Items {
		metrics.RecordHydration(item.ModelName())
	}
	return res, nil
}
