package domain

import (
	"fmt"
	"strings"
	"time"
)

// SortField is one of the closed set of fields a caller may order by.
// Keeping this a parsed enum means an invalid field is rejected at the
// boundary instead of deep inside the query pipeline.
type SortField string

const (
	SortByTitle         SortField = "title"
	SortByCategory      SortField = "category"
	SortByDatePublished SortField = "datePublished"
)

// NewSortField parses a sort field name case-insensitively.
func NewSortField(s string) (SortField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "title":
		return SortByTitle, nil
	case "category":
		return SortByCategory, nil
	case "datepublished":
		return SortByDatePublished, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSortField, s)
	}
}

// SortDirection is the per-key ordering direction.
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// NewSortDirection parses a direction; the empty string means ascending.
func NewSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "asc":
		return Ascending, nil
	case "desc":
		return Descending, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidSortDirection, s)
	}
}

// SortKey is one (field, direction) pair of a multi-key ordering.
type SortKey struct {
	Field     SortField
	Direction SortDirection
}

// QueryParams carries every request-scoped knob of a list query. Filter
// state always travels with the request; nothing is remembered server-side
// between calls.
type QueryParams struct {
	// Inclusive publication date range; a nil bound imposes no constraint.
	// From after To is accepted as supplied and simply matches nothing.
	FromDate *time.Time
	ToDate   *time.Time

	// Case-insensitive substring filters; empty means unconstrained.
	SearchTitle    string
	SearchCategory string
	SearchAuthor   string

	// AuthorID restricts results to one author's materials.
	AuthorID string

	// Statuses is the requested approval status set. Empty means "role
	// default"; the visibility policy derives the effective set either way.
	Statuses []ApprovalStatus

	// OrderBy keys applied in order with stable tie-breaking. Empty keeps
	// the store's snapshot order.
	OrderBy []SortKey

	// PageNumber is 1-based. Zero means "use the default".
	PageNumber int
	// PageSize zero means "use the configured default"; values above the
	// configured maximum are clamped.
	PageSize int
}

// PagedResult is one page of items plus the metadata every paged response
// must carry. TotalCount counts the filtered set, not the unfiltered one.
type PagedResult[T any] struct {
	Items       []T
	TotalCount  int
	PageSize    int
	CurrentPage int
	TotalPages  int
	HasNext     bool
	HasPrevious bool
}

// NewPagedResult assembles page metadata from the slice of items on the
// current page and the total filtered count. Callers are responsible for
// having sliced items to at most pageSize elements.
func NewPagedResult[T any](items []T, totalCount, pageNumber, pageSize int) PagedResult[T] {
	totalPages := 0
	if totalCount > 0 {
		totalPages = (totalCount + pageSize - 1) / pageSize
	}
	return PagedResult[T]{
		Items:       items,
		TotalCount:  totalCount,
		PageSize:    pageSize,
		CurrentPage: pageNumber,
		TotalPages:  totalPages,
		HasNext:     pageNumber < totalPages,
		HasPrevious: pageNumber > 1,
	}
}
