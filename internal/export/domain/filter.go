package domain

import (
	"strings"
	"time"

	"github.com/youthtrack/backend/internal/export/model"
)

// Export formats
const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

// ValidFormat reports whether format names a supported export format.
func ValidFormat(format string) bool {
	switch format {
	case FormatJSON, FormatXLSX, FormatCSV:
		return true
	}
	return false
}

// Include selects which related collections are attached to each exported
// participant document.
type Include struct {
	Education      bool `json:"education"`
	Skills         bool `json:"skills"`
	Certifications bool `json:"certifications"`
	Training       bool `json:"training"`
	Businesses     bool `json:"businesses"`
	Portfolio      bool `json:"portfolio"`
	Socials        bool `json:"socials"`
}

// For reports whether the named collection is requested.
func (i Include) For(name string) bool {
	switch name {
	case model.CollectionEducation:
		return i.Education
	case model.CollectionSkills:
		return i.Skills
	case model.CollectionCertifications:
		return i.Certifications
	case model.CollectionTraining:
		return i.Training
	case model.CollectionBusinesses:
		return i.Businesses
	case model.CollectionPortfolio:
		return i.Portfolio
	case model.CollectionSocials:
		return i.Socials
	}
	return false
}

// Count returns the number of requested collections, which is also the
// exact number of secondary queries an aggregation will issue.
func (i Include) Count() int {
	n := 0
	for _, name := range model.CollectionNames {
		if i.For(name) {
			n++
		}
	}
	return n
}

// Sort fields accepted from clients; anything else falls back to the
// default full-name ascending sort.
const (
	SortByName      = "name"
	SortByDistrict  = "district"
	SortByAge       = "age"
	SortByCreatedAt = "createdAt"

	SortAscending  = "asc"
	SortDescending = "desc"
)

var sortColumns = map[string]string{
	SortByName:      "full_name",
	SortByDistrict:  "district",
	SortByAge:       "age",
	SortByCreatedAt: "created_at",
}

// Filter describes which participants an export covers and how the result
// is shaped. Empty categorical lists mean "no restriction"; a range with
// one bound missing is open-ended on that side.
type Filter struct {
	Districts        []string   `json:"district,omitempty"`
	Genders          []string   `json:"gender,omitempty"`
	ProgramModels    []string   `json:"programModel,omitempty"`
	TrainingStatuses []string   `json:"trainingStatus,omitempty"`
	MinAge           *int       `json:"minAge,omitempty"`
	MaxAge           *int       `json:"maxAge,omitempty"`
	Keyword          string     `json:"keyword,omitempty"`
	CreatedFrom      *time.Time `json:"createdFrom,omitempty"`
	CreatedTo        *time.Time `json:"createdTo,omitempty"`

	SortBy        string `json:"sortBy"`
	SortDirection string `json:"sortDirection"`

	Include Include `json:"include"`
}

// Normalize resolves the sort pair against the allow-list. Unknown sort
// fields and directions degrade to the default (full name, ascending)
// instead of failing the request.
func (f *Filter) Normalize() {
	if _, ok := sortColumns[f.SortBy]; !ok {
		f.SortBy = SortByName
	}
	switch strings.ToLower(f.SortDirection) {
	case SortDescending:
		f.SortDirection = SortDescending
	default:
		f.SortDirection = SortAscending
	}
}

// OrderBy returns the resolved ORDER BY expression. Both parts come from
// fixed allow-lists, never from raw client input.
func (f *Filter) OrderBy() string {
	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = sortColumns[SortByName]
	}
	direction := "ASC"
	if f.SortDirection == SortDescending {
		direction = "DESC"
	}
	return column + " " + direction
}
