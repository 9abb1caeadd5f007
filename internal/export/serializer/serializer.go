package serializer

import (
	"fmt"
	"time"

	"github.com/youthtrack/backend/internal/export/domain"
	"github.com/youthtrack/backend/internal/export/model"
)

// Metadata carries the export parameters every writer records alongside
// the data.
type Metadata struct {
	Title       string
	GeneratedAt time.Time
	Filter      *domain.Filter
}

// Serializer writes an aggregated document set to a file at path. An empty
// document set must still produce a syntactically valid file; exports with
// zero matches are a normal outcome.
type Serializer interface {
	Format() string
	Extension() string
	ContentType() string
	Write(path string, docs []model.AggregatedDocument, meta Metadata) error
}

// ForFormat returns the serializer for a supported export format.
func ForFormat(format string) (Serializer, error) {
	switch format {
	case domain.FormatJSON:
		return &JSONSerializer{}, nil
	case domain.FormatCSV:
		return &CSVSerializer{}, nil
	case domain.FormatXLSX:
		return &XLSXSerializer{}, nil
	}
	return nil, fmt.Errorf("unsupported export format: %q", format)
}

// ContentTypeFor returns the download content type for a format, falling
// back to a generic byte stream for anything unknown.
func ContentTypeFor(format string) string {
	s, err := ForFormat(format)
	if err != nil {
		return "application/octet-stream"
	}
	return s.ContentType()
}
