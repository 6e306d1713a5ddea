// src/parsers/factory.go
package parsers

import (
	"io"

	"github.com/username/sellerfolio/backend/src/logger"
	"github.com/username/sellerfolio/backend/src/models"
	"github.com/username/sellerfolio/backend/src/parsers/amazon"
	"github.com/username/sellerfolio/backend/src/parsers/childasin"
	"github.com/username/sellerfolio/backend/src/parsers/selmon"
)

// Required header sets per known schema. A file is classified by the first
// schema whose required fields are all present in its header.
var (
	amazonRequired    = []string{amazon.FieldDate, amazon.FieldType}
	selmonRequired    = []string{selmon.FieldSoldAt, selmon.FieldCategory, selmon.FieldTotalInclTax}
	childASINRequired = []string{childasin.FieldASIN, childasin.FieldParentASIN}
)

// DetectSource classifies a parsed table by its header fields.
func DetectSource(table *Table) string {
	switch {
	case table.HasFields(amazonRequired...):
		return models.SourceAmazon
	case table.HasFields(selmonRequired...):
		return models.SourceSelmon
	case table.HasFields(childASINRequired...):
		return models.SourceChildASIN
	default:
		return models.SourceUnknown
	}
}

// GetNormalizer returns the normalizer for a detected source type, or nil for
// an unknown source.
func GetNormalizer(sourceType string) Normalizer {
	switch sourceType {
	case models.SourceAmazon:
		return amazon.NewNormalizer()
	case models.SourceSelmon:
		return selmon.NewNormalizer()
	case models.SourceChildASIN:
		return childasin.NewNormalizer()
	default:
		return nil
	}
}

// ParseFile reads an uploaded CSV, detects its marketplace schema and
// normalizes its rows. A file matching no known schema degrades to an empty
// result with Type "unknown"; that is a per-file discard, not an error.
func ParseFile(file io.Reader) (*ParseResult, error) {
	table, err := ReadTable(file)
	if err != nil {
		return nil, err
	}

	sourceType := DetectSource(table)
	normalizer := GetNormalizer(sourceType)
	if normalizer == nil {
		if logger.L != nil {
			logger.L.Warn("Unrecognized CSV schema, discarding file contents", "headers", table.Headers)
		}
		return &ParseResult{Type: models.SourceUnknown}, nil
	}

	return &ParseResult{
		Rows: normalizer.Normalize(table.Records),
		Type: sourceType,
	}, nil
}
