package pagination

import (
	"fmt"
	"net/url"
	"strconv"
)

// Params selects one page of a listing.
type Params struct {
	Page    int // 1-based page number
	PerPage int // Items per page
}

// ParseValues reads page and per_page from query values. Missing values take
// the config defaults; malformed or out of range values are an error.
func ParseValues(q url.Values, cfg Config) (Params, error) {
	params := Params{Page: cfg.DefaultPage, PerPage: cfg.DefaultPerPage}

	if s := q.Get("page"); s != "" {
		page, err := strconv.Atoi(s)
		if err != nil || page < 1 {
			return params, fmt.Errorf("invalid query parameter: page must be a positive integer")
		}
		params.Page = page
	}

	if s := q.Get("per_page"); s != "" {
		perPage, err := strconv.Atoi(s)
		if err != nil || perPage < 1 || perPage > cfg.MaxPerPage {
			return params, fmt.Errorf("invalid query parameter: per_page must be between 1 and %d", cfg.MaxPerPage)
		}
		params.PerPage = perPage
	}

	return params, nil
}

// Values encodes p as page and per_page query values.
func (p Params) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(p.Page))
	v.Set("per_page", strconv.Itoa(p.PerPage))
	return v
}

// Validate checks p against cfg.
func (p Params) Validate(cfg Config) error {
	if p.Page < 1 {
		return fmt.Errorf("page must be a positive integer")
	}
	if p.PerPage < 1 || p.PerPage > cfg.MaxPerPage {
		return fmt.Errorf("per_page must be between 1 and %d", cfg.MaxPerPage)
	}
	return nil
}

// WithDefaults replaces non-positive values with the config defaults and caps
// PerPage at MaxPerPage.
func (p Params) WithDefaults(cfg Config) Params {
	if p.Page <= 0 {
		p.Page = cfg.DefaultPage
	}
	if p.PerPage <= 0 {
		p.PerPage = cfg.DefaultPerPage
	}
	if p.PerPage > cfg.MaxPerPage {
		p.PerPage = cfg.MaxPerPage
	}
	return p
}

// Offset returns the zero-based row offset of the first item on the page.
func (p Params) Offset() int {
	return CalculateOffset(p.Page, p.PerPage)
}
