package material

import (
	"slices"
	"strings"
	"time"

	"github.com/rezkam/cardfile/internal/domain"
)

// applyFilters keeps every material matching all predicates, preserving the
// input order. The predicates are independent and commute; none of them
// mutates an item. An inverted date range (from after to) is applied as
// supplied and matches nothing.
func applyFilters(items []domain.TextMaterial, params domain.QueryParams, statuses []domain.ApprovalStatus) []domain.TextMaterial {
	out := make([]domain.TextMaterial, 0, len(items))
	for _, m := range items {
		if !matchesDateRange(m, params.FromDate, params.ToDate) {
			continue
		}
		if !containsFold(m.Title, params.SearchTitle) {
			continue
		}
		// A material whose category reference no longer resolves is excluded
		// when a category search is active, not treated as an error.
		if params.SearchCategory != "" {
			if m.CategoryTitle == nil || !containsFold(*m.CategoryTitle, params.SearchCategory) {
				continue
			}
		}
		if params.SearchAuthor != "" {
			if m.AuthorName == "" || !containsFold(m.AuthorName, params.SearchAuthor) {
				continue
			}
		}
		if params.AuthorID != "" && m.AuthorID != params.AuthorID {
			continue
		}
		if !slices.Contains(statuses, m.Status) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func matchesDateRange(m domain.TextMaterial, from, to *time.Time) bool {
	if from != nil && m.DatePublished.Before(*from) {
		return false
	}
	if to != nil && m.DatePublished.After(*to) {
		return false
	}
	return true
}

// containsFold reports whether s contains pattern case-insensitively.
// An empty pattern matches everything.
func containsFold(s, pattern string) bool {
	if pattern == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(pattern))
}
