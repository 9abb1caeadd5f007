package serializer

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/youthtrack/backend/internal/export/domain"
	"github.com/youthtrack/backend/internal/export/model"
)

// CSVSerializer flattens each document to one row. Columns are the sorted
// union of keys across all rows; rows missing a column get an empty cell.
type CSVSerializer struct{}

func (s *CSVSerializer) Format() string      { return domain.FormatCSV }
func (s *CSVSerializer) Extension() string   { return "csv" }
func (s *CSVSerializer) ContentType() string { return "text/csv" }

func (s *CSVSerializer) Write(path string, docs []model.AggregatedDocument, meta Metadata) error {
	rows, err := flattenDocuments(docs)
	if err != nil {
		return fmt.Errorf("failed to flatten documents: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create csv export file: %w", err)
	}
	defer file.Close()

	// Zero matches means a zero-column union: the artifact is an empty
	// file, which any CSV reader parses as zero data rows.
	if len(rows) == 0 {
		return nil
	}

	w := csv.NewWriter(file)

	columns := columnUnion(rows)
	if err := w.Write(columns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	record := make([]string, len(columns))
	for _, row := range rows {
		for i, column := range columns {
			record[i] = cellString(row[column])
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to flush csv export: %w", err)
	}

	return nil
}
