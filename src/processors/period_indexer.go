package processors

import (
	"sort"

	"github.com/username/sellerfolio/backend/src/models"
	"github.com/username/sellerfolio/backend/src/utils"
)

// PeriodAll is the period key for the whole working dataset.
const PeriodAll = "all"

// SubPeriodAll selects the full month when querying a month summary.
const SubPeriodAll = "all"

// PeriodIndexer builds the period-key -> summary lookup. The index is always
// rebuilt in full when the underlying row set changes; Aggregate has no
// incremental-update capability and every summary is a pure function of its
// row subset.
type PeriodIndexer struct {
	processor *SettlementProcessor
}

func NewPeriodIndexer(processor *SettlementProcessor) *PeriodIndexer {
	return &PeriodIndexer{processor: processor}
}

// BuildIndex aggregates once over all rows and once per calendar month.
// Month summaries keep their unfiltered row subset attached for later
// sub-period refinement. Rows whose date cannot be parsed are skipped from
// month partitioning (they still count toward the "all" summary).
func (ix *PeriodIndexer) BuildIndex(rows []models.SettlementRow) map[string]*models.PeriodSummary {
	index := make(map[string]*models.PeriodSummary)
	index[PeriodAll] = ix.processor.Aggregate(rows)

	byMonth := make(map[string][]models.SettlementRow)
	for _, row := range rows {
		t, err := utils.ParseFlexibleDate(row.Date)
		if err != nil {
			continue
		}
		key := utils.MonthKey(t)
		byMonth[key] = append(byMonth[key], row)
	}

	for key, monthRows := range byMonth {
		summary := ix.processor.Aggregate(monthRows)
		summary.RawRows = monthRows
		index[key] = summary
	}
	return index
}

// Refine re-aggregates a month summary's raw rows filtered to a day-of-month
// range (early 1-10, middle 11-20, late 21-end). Sub-period results are not
// cached; queries are interactive and re-aggregation is cheap.
func (ix *PeriodIndexer) Refine(monthSummary *models.PeriodSummary, subPeriod string) *models.PeriodSummary {
	low, high := utils.DayOfMonthRange(subPeriod)
	var filtered []models.SettlementRow
	for _, row := range monthSummary.RawRows {
		t, err := utils.ParseFlexibleDate(row.Date)
		if err != nil {
			continue
		}
		if day := t.Day(); day >= low && day <= high {
			filtered = append(filtered, row)
		}
	}
	return ix.processor.Aggregate(filtered)
}

// PeriodKeys lists the index's period keys with "all" first and months in
// ascending order.
func PeriodKeys(index map[string]*models.PeriodSummary) []string {
	var months []string
	for key := range index {
		if key != PeriodAll {
			months = append(months, key)
		}
	}
	sort.Strings(months)
	return append([]string{PeriodAll}, months...)
}
