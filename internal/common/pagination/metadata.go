package pagination

// Metadata describes where a page sits in the full listing.
type Metadata struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
}

// Response is a page of items together with its metadata.
type Response[T any] struct {
	Data       []T      `json:"data"`
	Pagination Metadata `json:"pagination"`
}

// NewResponse pairs data with its metadata.
func NewResponse[T any](data []T, metadata Metadata) Response[T] {
	return Response[T]{Data: data, Pagination: metadata}
}

// BuildMetadata computes the metadata of page p of a listing with total items.
func BuildMetadata(p Params, total int64) Metadata {
	return Metadata{
		Total:      total,
		Page:       p.Page,
		PerPage:    p.PerPage,
		TotalPages: CalculateTotalPages(total, p.PerPage),
	}
}

// CalculateOffset returns (page - 1) * perPage.
func CalculateOffset(page, perPage int) int {
	if page < 1 {
		return 0
	}
	return (page - 1) * perPage
}

// CalculateTotalPages returns ceil(total / perPage), and at least 1.
func CalculateTotalPages(total int64, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 1 // always at least 1 page
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}
