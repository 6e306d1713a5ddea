package amazon

import (
	"strings"

	"github.com/username/sellerfolio/backend/src/models"
)

// Column names of the Amazon settlement date-range report (normalized to
// lowercase by the CSV reader).
const (
	FieldDate        = "date"
	FieldType        = "type"
	FieldOrderID     = "order id"
	FieldDescription = "description"
	FieldSales       = "product sales"
	FieldRebates     = "promotional rebates"
	FieldSellingFees = "selling fees"
	FieldOther       = "other"
	FieldTotal       = "total"
)

// Normalizer maps Amazon settlement records to the common row shape. Amazon
// is the primary schema, so this is mostly a field-for-field copy.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

func (n *Normalizer) Normalize(records []map[string]string) []models.SettlementRow {
	var rows []models.SettlementRow
	for _, rec := range records {
		row := models.SettlementRow{
			Source:             models.SourceAmazon,
			Date:               rec[FieldDate],
			TransactionType:    rec[FieldType],
			OrderID:            rec[FieldOrderID],
			Description:        rec[FieldDescription],
			ProductSales:       rec[FieldSales],
			PromotionalRebates: rec[FieldRebates],
			SellingFees:        rec[FieldSellingFees],
			Other:              rec[FieldOther],
			Total:              rec[FieldTotal],
		}
		// A row with no date, type or total can never contribute to any
		// aggregate; drop it here rather than special-casing downstream.
		if strings.TrimSpace(row.Date) == "" ||
			strings.TrimSpace(row.TransactionType) == "" ||
			strings.TrimSpace(row.Total) == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}
