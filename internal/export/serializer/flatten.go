package serializer

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/youthtrack/backend/internal/export/model"
)

// structMap converts a value into a flat key/value map via its JSON
// encoding, so the column set is inferred from whatever fields the value
// actually carries. Numbers stay json.Number to keep their exact text.
func structMap(v any) (map[string]any, error) {
	encoded, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()

	var m map[string]any
	if err := dec.Decode(&m); err != nil {
		return nil, err
	}
	return m, nil
}

// flattenDocument produces the single tabular row for one document: every
// participant field, plus <name>Count and <name>Summary for each requested
// collection.
func flattenDocument(doc model.AggregatedDocument) (map[string]any, error) {
	row, err := structMap(doc.Participant)
	if err != nil {
		return nil, err
	}

	for _, c := range doc.Collections() {
		if c.Items == nil {
			continue
		}
		row[c.Name+"Count"] = c.Len
		row[c.Name+"Summary"] = c.SummaryText()
	}

	return row, nil
}

func flattenDocuments(docs []model.AggregatedDocument) ([]map[string]any, error) {
	rows := make([]map[string]any, 0, len(docs))
	for _, doc := range docs {
		row, err := flattenDocument(doc)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// columnUnion returns the sorted union of keys across all rows. Sorting,
// not insertion order, is what makes repeated exports byte-identical.
func columnUnion(rows []map[string]any) []string {
	seen := make(map[string]bool)
	for _, row := range rows {
		for key := range row {
			seen[key] = true
		}
	}

	columns := make([]string, 0, len(seen))
	for key := range seen {
		columns = append(columns, key)
	}
	sort.Strings(columns)
	return columns
}

// cellString renders one value for a text cell. Object- and array-valued
// fields are JSON-encoded; missing values become the empty string.
func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	default:
		encoded, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}

// PrettyHeader derives a display header from a field name by inserting a
// space before each internal capital and capitalizing the first letter:
// "yearOfBirth" becomes "Year Of Birth". Downstream report consumers
// depend on this exact transform.
func PrettyHeader(field string) string {
	var b strings.Builder
	for i, r := range field {
		if i == 0 {
			b.WriteRune(unicode.ToUpper(r))
			continue
		}
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
