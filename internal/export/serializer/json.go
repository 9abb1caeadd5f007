package serializer

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/youthtrack/backend/internal/export/domain"
	"github.com/youthtrack/backend/internal/export/model"
)

// JSONSerializer writes the document set faithfully nested, pretty-printed,
// under a metadata envelope.
type JSONSerializer struct{}

func (s *JSONSerializer) Format() string      { return domain.FormatJSON }
func (s *JSONSerializer) Extension() string   { return "json" }
func (s *JSONSerializer) ContentType() string { return "application/json" }

type jsonEnvelope struct {
	ExportInfo jsonExportInfo             `json:"exportInfo"`
	Docs       []model.AggregatedDocument `json:"participants"`
}

type jsonExportInfo struct {
	Title        string         `json:"title"`
	GeneratedAt  string         `json:"generatedAt"`
	TotalRecords int            `json:"totalRecords"`
	Filters      *domain.Filter `json:"filters"`
}

func (s *JSONSerializer) Write(path string, docs []model.AggregatedDocument, meta Metadata) error {
	if docs == nil {
		docs = []model.AggregatedDocument{}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create json export file: %w", err)
	}
	defer file.Close()

	envelope := jsonEnvelope{
		ExportInfo: jsonExportInfo{
			Title:        meta.Title,
			GeneratedAt:  meta.GeneratedAt.UTC().Format(time.RFC3339),
			TotalRecords: len(docs),
			Filters:      meta.Filter,
		},
		Docs: docs,
	}

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(envelope); err != nil {
		return fmt.Errorf("failed to encode json export: %w", err)
	}

	return nil
}
