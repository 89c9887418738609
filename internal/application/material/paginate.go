package material

import (
	"fmt"

	"github.com/rezkam/cardfile/internal/domain"
)

// paginate slices the filtered, sorted sequence into one page. A page number
// past the end is not an error: the caller gets an empty item list with the
// metadata still describing the real totals.
func paginate(items []domain.TextMaterial, pageNumber, pageSize int) (domain.PagedResult[domain.TextMaterial], error) {
	if pageNumber <= 0 || pageSize <= 0 {
		return domain.PagedResult[domain.TextMaterial]{},
			fmt.Errorf("%w: pageNumber=%d pageSize=%d", domain.ErrInvalidPagination, pageNumber, pageSize)
	}

	offset := (pageNumber - 1) * pageSize
	page := []domain.TextMaterial{}
	if offset < len(items) {
		end := min(offset+pageSize, len(items))
		page = items[offset:end]
	}

	return domain.NewPagedResult(page, len(items), pageNumber, pageSize), nil
}
