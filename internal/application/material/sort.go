package material

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rezkam/cardfile/internal/domain"
)

// normalizeSortKeys validates every key against the closed field set and
// fills in the default direction. Validation happens before any data is
// fetched so an invalid key fails the whole query atomically.
func normalizeSortKeys(keys []domain.SortKey) ([]domain.SortKey, error) {
	out := make([]domain.SortKey, 0, len(keys))
	for _, k := range keys {
		switch k.Field {
		case domain.SortByTitle, domain.SortByCategory, domain.SortByDatePublished:
		default:
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSortField, k.Field)
		}
		switch k.Direction {
		case "":
			k.Direction = domain.Ascending
		case domain.Ascending, domain.Descending:
		default:
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidSortDirection, k.Direction)
		}
		out = append(out, k)
	}
	return out, nil
}

// sortMaterials orders items in place by the given keys. The sort is stable,
// so later keys only break ties left by earlier ones and an empty key list
// keeps the input order, which keeps pagination reproducible.
func sortMaterials(items []domain.TextMaterial, keys []domain.SortKey) {
	if len(keys) == 0 {
		return
	}
	slices.SortStableFunc(items, func(a, b domain.TextMaterial) int {
		for _, k := range keys {
			c := compareByField(a, b, k.Field)
			if k.Direction == domain.Descending {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
}

func compareByField(a, b domain.TextMaterial, field domain.SortField) int {
	switch field {
	case domain.SortByTitle:
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case domain.SortByCategory:
		return strings.Compare(strings.ToLower(categoryTitle(a)), strings.ToLower(categoryTitle(b)))
	case domain.SortByDatePublished:
		return a.DatePublished.Compare(b.DatePublished)
	default:
		return 0
	}
}

// categoryTitle sorts materials without a category as the empty string, so
// they group together at one end instead of failing.
func categoryTitle(m domain.TextMaterial) string {
	if m.CategoryTitle == nil {
		return ""
	}
	return *m.CategoryTitle
}
