package entity

import (
	"github.com/Online-Ugyvitel/ddata-core/internal/common/pagination"
	"github.com/Online-Ugyvitel/ddata-core/internal/domain/model"
)

// SearchResult is one page of records returned by a list or search endpoint.
type SearchResult[T model.Record] struct {
	model.Base
	Items   []T
	Total   int64
	Page    int64
	PerPage int64

	factory func() T
}

var searchResultRules = model.Rules{}.
	Add("total", model.RuleInteger).
	Add("page", model.RuleRequired, model.RuleInteger).
	Add("per_page", model.RuleRequired, model.RuleInteger)

// NewSearchResult returns an empty result page whose items are built by
// factory. A SearchResult without a factory hydrates no items.
func NewSearchResult[T model.Record](factory func() T) *SearchResult[T] {
	return &SearchResult[T]{factory: factory}
}

// APIEndpoint implements model.Record.
func (*SearchResult[T]) APIEndpoint() string { return "/search" }

// ModelName implements model.Record.
func (*SearchResult[T]) ModelName() string { return "SearchResult" }

// ValidationRules implements model.Record.
func (*SearchResult[T]) ValidationRules() model.Rules { return searchResultRules }

// Fields implements model.Record.
func (s *SearchResult[T]) Fields() model.Fields {
	cfg := pagination.DefaultConfig()
	return model.Fields{
		model.List("items", &s.Items, s.factory),
		model.Int("total", &s.Total, 0),
		model.Int("page", &s.Page, int64(cfg.DefaultPage)).Truthy(),
		model.Int("per_page", &s.PerPage, int64(cfg.DefaultPerPage)).Truthy(),
	}
}

// Init hydrates s from data in place and returns s.
func (s *SearchResult[T]) Init(data any) *SearchResult[T] {
	return model.Init(s, data)
}

// PrepareToSave returns the plain payload of s with every item serialized.
func (s *SearchResult[T]) PrepareToSave() model.Payload {
	return model.PrepareToSave(s)
}

// Validate recomputes the validation state of the page. Items are not validated.
func (s *SearchResult[T]) Validate() bool {
	return model.Validate(s)
}

// Metadata derives the pagination metadata of the page.
func (s *SearchResult[T]) Metadata() pagination.Metadata {
	params := pagination.Params{Page: int(s.Page), PerPage: int(s.PerPage)}.
		WithDefaults(pagination.DefaultConfig())
	return pagination.BuildMetadata(params, s.Total)
}

// LastPage returns the number of the last page.
func (s *SearchResult[T]) LastPage() int {
	return s.Metadata().TotalPages
}
