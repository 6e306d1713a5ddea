package processors

import (
	"math"
	"strings"

	"github.com/username/sellerfolio/backend/src/models"
	"github.com/username/sellerfolio/backend/src/utils"
)

// selmonAmount resolves the row's signed amount from the three candidate
// columns in priority order; the first non-empty cell wins.
func selmonAmount(row *models.SettlementRow) float64 {
	for _, cell := range []string{row.TotalInclTax, row.Total, row.UnitAmount} {
		if strings.TrimSpace(cell) != "" {
			return utils.ParseAmount(cell)
		}
	}
	return 0
}

// selmonAccumulate handles one secondary-marketplace row. Sales revenue rows
// feed both the nested Selmon summary and the primary day bucket; expense
// rows reduce the day's profit directly. The finalize pass later recomputes
// day profit as sales - fees, which is consistent with the incremental
// writes here, so both code paths must keep that identity.
func selmonAccumulate(st *foldState, row *models.SettlementRow) {
	date := strings.TrimSpace(row.Date)
	if date == "" {
		date = strings.TrimSpace(row.SoldAt)
	}
	if date == "" {
		return
	}

	category := strings.TrimSpace(row.Category)
	if category == "" {
		category = models.UnknownProduct
	}

	amount := selmonAmount(row)

	mall := strings.TrimSpace(row.Mall)
	if mall == "" {
		mall = models.UnknownProduct
	}

	orderID := strings.TrimSpace(row.OrderID)
	if orderID == "" {
		orderID = SelmonFallbackOrderKey(date, row.Description)
	}

	quantity := utils.ParseQuantity(row.Quantity)

	// The Selmon daily map is keyed by a normalized Y/M/D date, derived
	// independently from the display date that keys the primary day bucket.
	// The two keyspaces are not guaranteed identical; both get populated.
	normalizedDay := date
	if t, err := utils.ParseFlexibleDate(date); err == nil {
		normalizedDay = utils.DayKey(t)
	}

	s := st.summary
	bucket := st.txBucket(models.SelmonTypePrefix + category)
	bucket.Count++
	bucket.Amount += amount

	if category == models.SelmonCategorySales {
		s.Selmon.TotalSales += amount
		s.Selmon.CategorySales += amount

		ms, ok := s.Selmon.MallSales[mall]
		if !ok {
			ms = &models.MallSales{}
			s.Selmon.MallSales[mall] = ms
		}
		ms.Amount += amount
		ms.Quantity += quantity

		sd := selmonDay(s, normalizedDay)
		sd.Sales += amount

		d := st.day(date)
		d.Sales += amount
		d.Profit += amount

		name := strings.TrimSpace(row.Description)
		if name == "" {
			name = models.SelmonProductPrefix + models.UnknownProduct
		}
		pd := st.product(name)
		pd.Sales += amount
		pd.Profit += amount
		pd.Units += quantity

		d.OrderIDs[orderID] = struct{}{}
		st.orderTypes[orderID] = orderTypeSelmon
		return
	}

	// Any non-sales category is an expense.
	expense := math.Abs(amount)
	s.Selmon.TotalExpenses += expense
	if category == models.SelmonCategoryAdvertising {
		s.Selmon.AdvertisingExpenses += expense
	} else {
		s.Selmon.OtherExpenses += expense
	}

	sd := selmonDay(s, normalizedDay)
	sd.Expenses += expense

	d := st.day(date)
	d.Fees += expense
	d.Profit -= expense
}

func selmonDay(s *models.PeriodSummary, key string) *models.SelmonDailyData {
	sd, ok := s.Selmon.Daily[key]
	if !ok {
		sd = &models.SelmonDailyData{}
		s.Selmon.Daily[key] = sd
	}
	return sd
}
