package parsers

import (
	"github.com/username/sellerfolio/backend/src/models"
)

// Table is a parsed CSV file: the header field list plus one map per record,
// keyed by normalized (lowercased, trimmed) header name.
type Table struct {
	Headers []string
	Records []map[string]string
}

// HasFields reports whether every required field is present in the header.
func (t *Table) HasFields(required ...string) bool {
	present := make(map[string]bool, len(t.Headers))
	for _, h := range t.Headers {
		present[h] = true
	}
	for _, f := range required {
		if !present[f] {
			return false
		}
	}
	return true
}

// ParseResult is the outcome of parsing one uploaded file. An unrecognized
// schema yields Type == models.SourceUnknown with zero rows and no error.
type ParseResult struct {
	Rows []models.SettlementRow
	Type string
}

// Normalizer converts parsed CSV records into normalized settlement rows.
// Each marketplace schema has its own implementation.
type Normalizer interface {
	Normalize(records []map[string]string) []models.SettlementRow
}
