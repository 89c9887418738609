package material

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/cardfile/internal/domain"
)

func materialsN(n int) []domain.TextMaterial {
	out := make([]domain.TextMaterial, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, domain.TextMaterial{ID: int64(i)})
	}
	return out
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name       string
		total      int
		pageNumber int
		pageSize   int
		wantIDs    []int64
		wantPages  int
		wantNext   bool
		wantPrev   bool
	}{
		{"first page", 3, 1, 2, []int64{1, 2}, 2, true, false},
		{"short last page", 3, 2, 2, []int64{3}, 2, false, true},
		{"single page", 3, 1, 10, []int64{1, 2, 3}, 1, false, false},
		{"page past the end", 3, 99, 10, []int64{}, 1, false, true},
		{"empty input", 0, 1, 10, []int64{}, 0, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := paginate(materialsN(tc.total), tc.pageNumber, tc.pageSize)
			require.NoError(t, err)

			assert.Equal(t, tc.wantIDs, ids(got.Items))
			assert.Equal(t, tc.total, got.TotalCount)
			assert.Equal(t, tc.pageNumber, got.CurrentPage)
			assert.Equal(t, tc.pageSize, got.PageSize)
			assert.Equal(t, tc.wantPages, got.TotalPages)
			assert.Equal(t, tc.wantNext, got.HasNext)
			assert.Equal(t, tc.wantPrev, got.HasPrevious)
		})
	}
}

func TestPaginate_InvalidParameters(t *testing.T) {
	_, err := paginate(materialsN(3), 0, 10)
	assert.ErrorIs(t, err, domain.ErrInvalidPagination)

	_, err = paginate(materialsN(3), 1, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidPagination)

	_, err = paginate(materialsN(3), -1, -5)
	assert.ErrorIs(t, err, domain.ErrInvalidPagination)
}

// The pagination invariant: walking every page yields exactly the filtered
// set, once.
func TestPaginate_PagesCoverTotalExactly(t *testing.T) {
	const total, pageSize = 23, 5
	items := materialsN(total)

	seen := make([]int64, 0, total)
	page := 1
	for {
		result, err := paginate(items, page, pageSize)
		require.NoError(t, err)
		seen = append(seen, ids(result.Items)...)
		if !result.HasNext {
			break
		}
		page++
	}

	assert.Equal(t, ids(items), seen)
	assert.Equal(t, 5, page)
}
