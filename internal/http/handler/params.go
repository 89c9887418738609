package handler

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rezkam/cardfile/internal/domain"
)

// parseQueryParams maps URL query values to domain query parameters.
// Unknown sort fields and statuses are rejected here so that a bad query
// fails before it ever reaches the service.
func parseQueryParams(values url.Values) (domain.QueryParams, error) {
	params := domain.QueryParams{
		SearchTitle:    values.Get("searchTitle"),
		SearchCategory: values.Get("searchCategory"),
		SearchAuthor:   values.Get("searchAuthor"),
		AuthorID:       values.Get("authorId"),
	}

	var err error
	if params.FromDate, err = parseDate(values.Get("fromDate")); err != nil {
		return domain.QueryParams{}, fmt.Errorf("fromDate: %w", err)
	}
	if params.ToDate, err = parseDate(values.Get("toDate")); err != nil {
		return domain.QueryParams{}, fmt.Errorf("toDate: %w", err)
	}

	for _, raw := range values["approvalStatus"] {
		for _, part := range splitList(raw) {
			status, err := domain.NewApprovalStatus(part)
			if err != nil {
				return domain.QueryParams{}, err
			}
			params.Statuses = append(params.Statuses, status)
		}
	}

	if params.OrderBy, err = parseOrderBy(values.Get("orderBy")); err != nil {
		return domain.QueryParams{}, err
	}

	if params.PageNumber, err = parsePositiveInt(values.Get("pageNumber")); err != nil {
		return domain.QueryParams{}, fmt.Errorf("%w: pageNumber", domain.ErrInvalidPagination)
	}
	if params.PageSize, err = parsePositiveInt(values.Get("pageSize")); err != nil {
		return domain.QueryParams{}, fmt.Errorf("%w: pageSize", domain.ErrInvalidPagination)
	}

	return params, nil
}

// parseDate accepts RFC 3339 timestamps and plain dates.
func parseDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid date %q, expected RFC 3339 or YYYY-MM-DD", raw)
}

// parseOrderBy parses a comma-separated list of "field" or "field direction"
// entries, e.g. "title desc,datePublished".
func parseOrderBy(raw string) ([]domain.SortKey, error) {
	if raw == "" {
		return nil, nil
	}

	var keys []domain.SortKey
	for _, part := range splitList(raw) {
		fields := strings.Fields(part)
		if len(fields) > 2 {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSortField, part)
		}

		field, err := domain.NewSortField(fields[0])
		if err != nil {
			return nil, err
		}

		direction := domain.Ascending
		if len(fields) == 2 {
			if direction, err = domain.NewSortDirection(fields[1]); err != nil {
				return nil, err
			}
		}

		keys = append(keys, domain.SortKey{Field: field, Direction: direction})
	}
	return keys, nil
}

func parsePositiveInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("not a positive integer: %q", raw)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
