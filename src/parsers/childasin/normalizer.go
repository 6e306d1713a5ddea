package childasin

import (
	"strings"

	"github.com/username/sellerfolio/backend/src/models"
)

// Column names of the child-ASIN mapping export.
const (
	FieldASIN       = "asin"
	FieldParentASIN = "parent asin"
)

// Normalizer handles child-ASIN mapping files. They are persisted alongside
// the settlement exports but the aggregation engine excludes them from the
// working dataset; the mapping lives in Description (child) and OrderID
// (parent).
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

func (n *Normalizer) Normalize(records []map[string]string) []models.SettlementRow {
	var rows []models.SettlementRow
	for _, rec := range records {
		asin := strings.TrimSpace(rec[FieldASIN])
		if asin == "" {
			continue
		}
		rows = append(rows, models.SettlementRow{
			Source:      models.SourceChildASIN,
			Description: asin,
			OrderID:     strings.TrimSpace(rec[FieldParentASIN]),
		})
	}
	return rows
}
