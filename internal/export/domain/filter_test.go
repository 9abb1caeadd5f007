package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Normalize(t *testing.T) {
	tests := []struct {
		name          string
		sortBy        string
		sortDirection string
		wantSortBy    string
		wantDirection string
		wantOrderBy   string
	}{
		{
			name:          "known field and direction",
			sortBy:        "district",
			sortDirection: "desc",
			wantSortBy:    "district",
			wantDirection: "desc",
			wantOrderBy:   "district DESC",
		},
		{
			name:          "unknown sort field falls back to name ascending",
			sortBy:        "zzz",
			sortDirection: "asc",
			wantSortBy:    "name",
			wantDirection: "asc",
			wantOrderBy:   "full_name ASC",
		},
		{
			name:          "empty sort pair gets defaults",
			sortBy:        "",
			sortDirection: "",
			wantSortBy:    "name",
			wantDirection: "asc",
			wantOrderBy:   "full_name ASC",
		},
		{
			name:          "unknown direction degrades to ascending",
			sortBy:        "age",
			sortDirection: "sideways",
			wantSortBy:    "age",
			wantDirection: "asc",
			wantOrderBy:   "age ASC",
		},
		{
			name:          "direction is case insensitive",
			sortBy:        "createdAt",
			sortDirection: "DESC",
			wantSortBy:    "createdAt",
			wantDirection: "desc",
			wantOrderBy:   "created_at DESC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Filter{SortBy: tt.sortBy, SortDirection: tt.sortDirection}
			f.Normalize()

			assert.Equal(t, tt.wantSortBy, f.SortBy)
			assert.Equal(t, tt.wantDirection, f.SortDirection)
			assert.Equal(t, tt.wantOrderBy, f.OrderBy())
		})
	}
}

func TestInclude_Count(t *testing.T) {
	assert.Equal(t, 0, Include{}.Count())
	assert.Equal(t, 2, Include{Education: true, Portfolio: true}.Count())
	assert.Equal(t, 7, Include{
		Education:      true,
		Skills:         true,
		Certifications: true,
		Training:       true,
		Businesses:     true,
		Portfolio:      true,
		Socials:        true,
	}.Count())
}

func TestValidFormat(t *testing.T) {
	assert.True(t, ValidFormat(FormatJSON))
	assert.True(t, ValidFormat(FormatCSV))
	assert.True(t, ValidFormat(FormatXLSX))
	assert.False(t, ValidFormat("pdf"))
	assert.False(t, ValidFormat(""))
}
