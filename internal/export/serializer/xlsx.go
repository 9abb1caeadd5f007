package serializer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"github.com/youthtrack/backend/internal/export/domain"
	"github.com/youthtrack/backend/internal/export/model"
)

// Sheet names used by the multi-sheet workbook.
const (
	SheetParticipants = "Participants"
	SheetExportInfo   = "Export Info"
)

// XLSXSerializer writes one sheet of flattened participant rows, one sheet
// per related-collection type that has at least one instance anywhere in
// the result set, and a metadata sheet with the export parameters.
type XLSXSerializer struct{}

func (s *XLSXSerializer) Format() string    { return domain.FormatXLSX }
func (s *XLSXSerializer) Extension() string { return "xlsx" }
func (s *XLSXSerializer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (s *XLSXSerializer) Write(path string, docs []model.AggregatedDocument, meta Metadata) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetParticipants)
	if err != nil {
		return fmt.Errorf("failed to create participants sheet: %w", err)
	}
	f.SetActiveSheet(index)

	rows, err := flattenDocuments(docs)
	if err != nil {
		return fmt.Errorf("failed to flatten documents: %w", err)
	}
	if err := writeTable(f, SheetParticipants, rows); err != nil {
		return err
	}

	collectionRows, err := collectCollectionRows(docs)
	if err != nil {
		return err
	}
	for _, name := range model.CollectionNames {
		instances := collectionRows[name]
		if len(instances) == 0 {
			continue
		}
		sheet := PrettyHeader(name)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create %s sheet: %w", name, err)
		}
		if err := writeTable(f, sheet, instances); err != nil {
			return err
		}
	}

	if err := writeExportInfo(f, len(docs), meta); err != nil {
		return err
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save xlsx export file: %w", err)
	}

	return nil
}

// collectCollectionRows gathers every related-collection instance across
// all documents, keyed by collection name, each row tagged with the owning
// participant's display name (the owner id is already a field of the row).
func collectCollectionRows(docs []model.AggregatedDocument) (map[string][]map[string]any, error) {
	out := make(map[string][]map[string]any)
	for i := range docs {
		for _, c := range docs[i].Collections() {
			if c.Items == nil || c.Len == 0 {
				continue
			}
			instances, err := sliceMaps(c.Items)
			if err != nil {
				return nil, fmt.Errorf("failed to flatten %s rows: %w", c.Name, err)
			}
			for _, instance := range instances {
				instance["participantName"] = docs[i].Participant.FullName
			}
			out[c.Name] = append(out[c.Name], instances...)
		}
	}
	return out, nil
}

// sliceMaps converts a slice value into per-element key/value maps via its
// JSON encoding, mirroring structMap.
func sliceMaps(items any) ([]map[string]any, error) {
	encoded, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()

	var maps []map[string]any
	if err := dec.Decode(&maps); err != nil {
		return nil, err
	}
	return maps, nil
}

// writeTable writes a header row of prettified column names followed by
// one row per record. Columns follow the sorted-union rule, so repeated
// exports of the same result set produce identical sheets.
func writeTable(f *excelize.File, sheet string, rows []map[string]any) error {
	columns := columnUnion(rows)
	if len(columns) == 0 {
		return nil
	}

	header := make([]any, len(columns))
	for i, column := range columns {
		header[i] = PrettyHeader(column)
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	for i, row := range rows {
		values := make([]any, len(columns))
		for j, column := range columns {
			values[j] = cellValue(row[column])
		}
		if err := setRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}

	return nil
}

// writeExportInfo records the export timestamp, the total record count,
// and a flag per collection type indicating whether it was included.
func writeExportInfo(f *excelize.File, total int, meta Metadata) error {
	if _, err := f.NewSheet(SheetExportInfo); err != nil {
		return fmt.Errorf("failed to create metadata sheet: %w", err)
	}

	rows := [][]any{
		{"Title", meta.Title},
		{"Generated At", meta.GeneratedAt.UTC().Format(time.RFC3339)},
		{"Total Records", total},
	}

	var include domain.Include
	if meta.Filter != nil {
		include = meta.Filter.Include
	}
	for _, name := range model.CollectionNames {
		rows = append(rows, []any{"Include " + PrettyHeader(name), include.For(name)})
	}

	for i, row := range rows {
		if err := setRow(f, SheetExportInfo, i+1, row); err != nil {
			return err
		}
	}

	return nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", rowNum, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", rowNum, sheet, err)
	}
	return nil
}

// cellValue renders one value for a spreadsheet cell, keeping numbers and
// booleans typed. Object- and array-valued fields are JSON-encoded text.
func cellValue(v any) any {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return t
	case int:
		return t
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if n, err := t.Float64(); err == nil {
			return n
		}
		return t.String()
	default:
		encoded, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}
