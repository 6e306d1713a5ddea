package selmon

import (
	"fmt"
	"strings"

	"github.com/username/sellerfolio/backend/src/models"
	"github.com/username/sellerfolio/backend/src/utils"
)

// Column names of the Selmon sales export (normalized to lowercase by the
// CSV reader).
const (
	FieldSoldAt       = "sold at"
	FieldCategory     = "category"
	FieldTotalInclTax = "total (tax incl)"
	FieldDescription  = "description"
	FieldMall         = "mall"
	FieldLineID       = "line id"
	FieldQuantity     = "quantity"
	FieldTotal        = "total"
	FieldUnitAmount   = "unit amount"
)

// Normalizer reshapes Selmon export records into the common (Amazon-shaped)
// row form: day-truncated date, marketplace-prefixed transaction type and
// description, synthesized order id when the export has no line item id.
type Normalizer struct{}

func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

func (n *Normalizer) Normalize(records []map[string]string) []models.SettlementRow {
	var rows []models.SettlementRow
	for _, rec := range records {
		soldAt := rec[FieldSoldAt]
		category := rec[FieldCategory]

		// Day-level truncation: the sale timestamp becomes a Y/M/D date.
		var date string
		if t, err := utils.ParseFlexibleDate(soldAt); err == nil {
			date = utils.DayKey(t)
		}

		orderID := rec[FieldLineID]
		if orderID == "" {
			orderID = SynthesizeOrderID(soldAt, category)
		}

		description := ""
		if detail := strings.TrimSpace(rec[FieldDescription]); detail != "" {
			description = models.SelmonProductPrefix + detail
		}

		row := models.SettlementRow{
			Source:          models.SourceSelmon,
			Date:            date,
			TransactionType: models.SelmonTypePrefix + strings.TrimSpace(category),
			OrderID:         orderID,
			Description:     description,
			Total:           rec[FieldTotal],
			SoldAt:          soldAt,
			Category:        category,
			Mall:            rec[FieldMall],
			Quantity:        rec[FieldQuantity],
			TotalInclTax:    rec[FieldTotalInclTax],
			UnitAmount:      rec[FieldUnitAmount],
		}

		// Same required-field policy as the primary schema: no date, no
		// category or no amount at all means the row contributes nothing.
		if row.Date == "" || strings.TrimSpace(category) == "" ||
			(strings.TrimSpace(row.TotalInclTax) == "" &&
				strings.TrimSpace(row.Total) == "" &&
				strings.TrimSpace(row.UnitAmount) == "") {
			continue
		}
		rows = append(rows, row)
	}
	return rows
}

// SynthesizeOrderID builds the fallback order key for exports without a line
// item id.
func SynthesizeOrderID(soldAt, category string) string {
	return fmt.Sprintf("SELMON-%s-%s", strings.TrimSpace(soldAt), strings.TrimSpace(category))
}
