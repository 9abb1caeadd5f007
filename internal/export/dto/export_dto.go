package dto

import (
	"strings"
	"time"

	"github.com/youthtrack/backend/internal/export/domain"
)

type CreateExportRequest struct {
	Format        string     `json:"format" binding:"required,oneof=json xlsx csv"`
	Filters       FilterDTO  `json:"filters"`
	Include       IncludeDTO `json:"include"`
	SortBy        string     `json:"sortBy"`
	SortDirection string     `json:"sortDirection"`
	Filename      string     `json:"filename"`
}

// FilterDTO mirrors the external filter payload. Absent lists mean no
// restriction; absent bounds leave a range open-ended.
type FilterDTO struct {
	District       []string   `json:"district"`
	Gender         []string   `json:"gender"`
	ProgramModel   []string   `json:"programModel"`
	TrainingStatus []string   `json:"trainingStatus"`
	MinAge         *int       `json:"minAge"`
	MaxAge         *int       `json:"maxAge"`
	Keyword        string     `json:"keyword"`
	CreatedFrom    *time.Time `json:"createdFrom"`
	CreatedTo      *time.Time `json:"createdTo"`
}

type IncludeDTO struct {
	Education      bool `json:"education"`
	Skills         bool `json:"skills"`
	Certifications bool `json:"certifications"`
	Training       bool `json:"training"`
	Businesses     bool `json:"businesses"`
	Portfolio      bool `json:"portfolio"`
	Socials        bool `json:"socials"`
}

// ToFilter maps the request onto the domain filter and normalizes the
// sort pair (unknown values degrade to the default, they never fail).
func (r *CreateExportRequest) ToFilter() *domain.Filter {
	f := &domain.Filter{
		Districts:        r.Filters.District,
		Genders:          r.Filters.Gender,
		ProgramModels:    r.Filters.ProgramModel,
		TrainingStatuses: r.Filters.TrainingStatus,
		MinAge:           r.Filters.MinAge,
		MaxAge:           r.Filters.MaxAge,
		Keyword:          strings.TrimSpace(r.Filters.Keyword),
		CreatedFrom:      r.Filters.CreatedFrom,
		CreatedTo:        r.Filters.CreatedTo,
		SortBy:           r.SortBy,
		SortDirection:    r.SortDirection,
		Include: domain.Include{
			Education:      r.Include.Education,
			Skills:         r.Include.Skills,
			Certifications: r.Include.Certifications,
			Training:       r.Include.Training,
			Businesses:     r.Include.Businesses,
			Portfolio:      r.Include.Portfolio,
			Socials:        r.Include.Socials,
		},
	}
	f.Normalize()
	return f
}

// Basename returns the sanitized download basename for the export,
// falling back to the given default when the request carries none.
func (r *CreateExportRequest) Basename(fallback string) string {
	name := sanitizeBasename(r.Filename)
	if name == "" {
		return fallback
	}
	return name
}

// sanitizeBasename keeps only characters that are safe in a filename and
// strips any extension the client may have attached.
func sanitizeBasename(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		switch name[i+1:] {
		case "json", "xlsx", "csv":
			name = name[:i]
		}
	}

	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

type CreateExportResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

type ExportStatusResponse struct {
	JobID     string `json:"jobId"`
	Status    string `json:"status"`
	Format    string `json:"format,omitempty"`
	SizeBytes int64  `json:"sizeBytes,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
	Error     string `json:"error,omitempty"`
}

// FromJobStatus maps tracker state onto the client-visible response shape:
// completed jobs report format and size, failed jobs report the error, and
// processing jobs report only the status.
func FromJobStatus(s *domain.JobStatus) ExportStatusResponse {
	resp := ExportStatusResponse{
		JobID:  s.ID,
		Status: s.Status,
	}

	switch s.Status {
	case domain.JobStatusCompleted:
		resp.Format = s.Format
		resp.SizeBytes = s.SizeBytes
		resp.CreatedAt = s.CreatedAt.Format(time.RFC3339)
	case domain.JobStatusFailed:
		resp.Error = s.Error
	}

	return resp
}

type ListExportsResponse struct {
	Exports []ExportStatusResponse `json:"exports"`
}
