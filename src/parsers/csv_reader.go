package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadTable reads a CSV stream into a Table. Header names are lowercased and
// trimmed so schema detection is insensitive to casing and stray whitespace.
// Records shorter than the header are padded with empty strings; longer ones
// are truncated.
func ReadTable(file io.Reader) (*Table, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	headers := make([]string, len(header))
	for i, h := range header {
		headers[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\uFEFF")))
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read all CSV records: %w", err)
	}

	table := &Table{Headers: headers}
	for _, record := range records {
		row := make(map[string]string, len(headers))
		for i, name := range headers {
			if i < len(record) {
				row[name] = strings.TrimSpace(record[i])
			} else {
				row[name] = ""
			}
		}
		table.Records = append(table.Records, row)
	}
	return table, nil
}
