package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/username/sellerfolio/backend/src/models"
)

func orderRow(date, orderID, desc, price, promo, fees, other, total string) models.SettlementRow {
	return models.SettlementRow{
		Source:             models.SourceAmazon,
		Date:               date,
		TransactionType:    models.TxTypeOrderPayment,
		OrderID:            orderID,
		Description:        desc,
		ProductSales:       price,
		PromotionalRebates: promo,
		SellingFees:        fees,
		Other:              other,
		Total:              total,
	}
}

func selmonRow(date, category, mall, desc, quantity, totalInclTax string) models.SettlementRow {
	return models.SettlementRow{
		Source:          models.SourceSelmon,
		Date:            date,
		TransactionType: models.SelmonTypePrefix + category,
		Description:     desc,
		Category:        category,
		Mall:            mall,
		Quantity:        quantity,
		TotalInclTax:    totalInclTax,
	}
}

func TestAggregateSingleOrderPayment(t *testing.T) {
	p := NewSettlementProcessor()

	s := p.Aggregate([]models.SettlementRow{
		orderRow("2024/5/1", "111-0000001", "Widget", "1000", "0", "-150", "0", "850"),
	})

	assert.InDelta(t, 1000, s.TotalSales, 1e-9)
	assert.InDelta(t, 150, s.TotalSalesFees, 1e-9)
	assert.InDelta(t, 0, s.TotalFulfillmentFees, 1e-9)
	assert.InDelta(t, 850, s.GrossProfit, 1e-9)
	assert.InDelta(t, 850, s.TotalProfit, 1e-9)
	assert.Equal(t, 1, s.OrderCount)
	assert.Equal(t, 1, s.AmazonOrderCount)
	assert.Equal(t, 0, s.MultiChannelOrderCount)

	d := s.Daily["2024/5/1"]
	require.NotNil(t, d)
	assert.InDelta(t, 1000, d.Sales, 1e-9)
	assert.InDelta(t, 150, d.Fees, 1e-9)
	assert.InDelta(t, 850, d.Profit, 1e-9)
	assert.Equal(t, 1, d.OrderCount)

	pd := s.Products["Widget"]
	require.NotNil(t, pd)
	assert.InDelta(t, 1000, pd.Sales, 1e-9)
	assert.InDelta(t, 150, pd.Fees, 1e-9)
	assert.InDelta(t, 850, pd.Profit, 1e-9)
	assert.Equal(t, 1, pd.Units)

	bucket := s.TransactionTypes[models.TxTypeOrderPaymentItem]
	require.NotNil(t, bucket)
	assert.Equal(t, 1, bucket.Count)
	assert.InDelta(t, 1000, bucket.Amount, 1e-9)

	samples := s.ProductFees["Widget"]
	require.NotNil(t, samples)
	require.Len(t, samples.Normal, 1)
	assert.InDelta(t, 150, samples.Normal[0], 1e-9)
	assert.Empty(t, samples.MultiChannel)
}

func TestAggregateOrderPaymentSplitsItemAndOtherBuckets(t *testing.T) {
	p := NewSettlementProcessor()

	s := p.Aggregate([]models.SettlementRow{
		orderRow("2024/5/1", "111-0000002", "Widget", "900", "0", "-90", "100", "910"),
	})

	item := s.TransactionTypes[models.TxTypeOrderPaymentItem]
	require.NotNil(t, item)
	assert.Equal(t, 1, item.Count)
	assert.InDelta(t, 900, item.Amount, 1e-9)

	other := s.TransactionTypes[models.TxTypeOrderPaymentOther]
	require.NotNil(t, other)
	assert.Equal(t, 1, other.Count)
	assert.InDelta(t, 100, other.Amount, 1e-9)

	// Sales include both components.
	assert.InDelta(t, 1000, s.TotalSales, 1e-9)
}

func TestAggregateVineUnit(t *testing.T) {
	p := NewSettlementProcessor()

	s := p.Aggregate([]models.SettlementRow{
		orderRow("2024/5/2", "111-0000003", "Review Unit", "500", "-500", "0", "0", "0"),
	})

	assert.Equal(t, 1, s.Vine.Count)
	assert.InDelta(t, 500, s.Vine.TotalAmount, 1e-9)

	// Vine units still flow through the regular totals.
	assert.InDelta(t, 500, s.TotalSales, 1e-9)
	assert.InDelta(t, 500, s.TotalSalesFees, 1e-9)
	assert.Equal(t, 1, s.AmazonOrderCount)
}

func TestAggregateVineToleranceBoundary(t *testing.T) {
	p := NewSettlementProcessor()

	// Rebate off by more than the tolerance: a plain discounted sale.
	s := p.Aggregate([]models.SettlementRow{
		orderRow("2024/5/2", "111-0000004", "Discounted", "500", "-499.98", "0", "0", "0.02"),
	})
	assert.Equal(t, 0, s.Vine.Count)

	// Off by less than the tolerance: counts as a vine unit.
	s = p.Aggregate([]models.SettlementRow{
		orderRow("2024/5/2", "111-0000005", "Review Unit", "500", "-499.995", "0", "0", "0.005"),
	})
	assert.Equal(t, 1, s.Vine.Count)
}

func TestAggregateMultiChannelInference(t *testing.T) {
	p := NewSettlementProcessor()

	s := p.Aggregate([]models.SettlementRow{
		orderRow("2024/5/3", "S-0000001", "Widget", "0", "0", "-500", "0", "-500"),
	})

	assert.Equal(t, 1, s.MultiChannel.Count)
	assert.InDelta(t, 500, s.MultiChannel.TotalFees, 1e-9)
	assert.Equal(t, 1, s.MultiChannelOrderCount)
	assert.Equal(t, 0, s.AmazonOrderCount)
	assert.Equal(t, 1, s.OrderCount)

	bucket := s.TransactionTypes[models.TxTypeMultiChannel]
	require.NotNil(t, bucket)
	assert.Equal(t, 1, bucket.Count)
	assert.InDelta(t, -500, bucket.Amount, 1e-9)

	samples := s.ProductFees["Widget"]
	require.NotNil(t, samples)
	require.Len(t, samples.MultiChannel, 1)
	assert.InDelta(t, 500, samples.MultiChannel[0], 1e-9)
	assert.Empty(t, samples.Normal)

	// The fee still lands in the sales-fee total.
	assert.InDelta(t, 0, s.TotalSales, 1e-9)
	assert.InDelta(t, 500, s.TotalSalesFees, 1e-9)

	// The day still records the order.
	d := s.Daily["2024/5/3"]
	require.NotNil(t, d)
	assert.Equal(t, 1, d.OrderCount)
}

func TestAggregateUniqueOrderCounting(t *testing.T) {
	p := NewSettlementProcessor()

	// Two rows of the same order plus one distinct order, all on one day.
	s := p.Aggregate([]models.SettlementRow{
		orderRow("2024/5/4", "111-SAME", "Widget", "400", "0", "-40", "0", "360"),
		orderRow("2024/5/4", "111-SAME", "Widget", "400", "0", "-40", "0", "360"),
		orderRow("2024/5/4", "111-OTHER", "Gadget", "300", "0", "-30", "0", "270"),
	})

	assert.Equal(t, 2, s.AmazonOrderCount)
	assert.Equal(t, 2, s.OrderCount)

	d := s.Daily["2024/5/4"]
	require.NotNil(t, d)
	assert.Equal(t, 2, d.OrderCount)

	// Monetary sums still see all three rows.
	assert.InDelta(t, 1100, s.TotalSales, 1e-9)
}

func TestAggregateMissingOrderIDFallsBackToSyntheticKey(t *testing.T) {
	p := NewSettlementProcessor()

	// Identical rows without an order id synthesize the same key and
	// collapse into one unique order.
	s := p.Aggregate([]models.SettlementRow{
		orderRow("2024/5/5", "", "Widget", "200", "0", "-20", "0", "180"),
		orderRow("2024/5/5", "", "Widget", "200", "0", "-20", "0", "180"),
	})
	assert.Equal(t, 1, s.AmazonOrderCount)

	// A different total produces a different synthetic key.
	s = p.Aggregate([]models.SettlementRow{
		orderRow("2024/5/5", "", "Widget", "200", "0", "-20", "0", "180"),
		orderRow("2024/5/5", "", "Widget", "300", "0", "-30", "0", "270"),
	})
	assert.Equal(t, 2, s.AmazonOrderCount)
}

func TestAggregateRefundAccumulators(t *testing.T) {
	p := NewSettlementProcessor()

	refund := models.SettlementRow{
		Source:          models.SourceAmazon,
		Date:            "2024/5/6",
		TransactionType: models.TxTypeRefund,
		Description:     "Widget",
		SellingFees:     "-80",
		Other:           "-20",
		Total:           "-800",
	}
	s := p.Aggregate([]models.SettlementRow{refund})

	assert.Equal(t, 1, s.RefundCount)
	assert.InDelta(t, 800, s.RefundAmount, 1e-9)
	assert.InDelta(t, -800, s.TotalRefundAmount, 1e-9)
	assert.InDelta(t, 100, s.FeeBreakdown.RefundFees, 1e-9)

	d := s.Daily["2024/5/6"]
	require.NotNil(t, d)
	assert.Equal(t, 1, d.RefundCount)
	assert.InDelta(t, 800, d.RefundAmount, 1e-9)

	// Refunds never touch the sales totals; only their fees reach profit.
	assert.InDelta(t, 0, s.TotalSales, 1e-9)
	assert.InDelta(t, 100, s.TotalFulfillmentFees, 1e-9)
	assert.InDelta(t, -100, s.TotalProfit, 1e-9)

	bucket := s.TransactionTypes[models.TxTypeRefund]
	require.NotNil(t, bucket)
	assert.Equal(t, 1, bucket.Count)
	assert.InDelta(t, -800, bucket.Amount, 1e-9)
}

func TestAggregateInventoryReimbursement(t *testing.T) {
	p := NewSettlementProcessor()

	s := p.Aggregate([]models.SettlementRow{
		orderRow("2024/5/7", "111-0000006", "Widget", "1000", "0", "-100", "0", "900"),
		{
			Source:          models.SourceAmazon,
			Date:            "2024/5/7",
			TransactionType: models.TxTypeInventoryReimbursement,
			Description:     "Lost inventory",
			Total:           "1200",
		},
	})

	assert.InDelta(t, 1200, s.InventoryRefund, 1e-9)
	// Reimbursements feed profit, not sales.
	assert.InDelta(t, 1000, s.TotalSales, 1e-9)
	assert.InDelta(t, s.GrossProfit-s.TotalFulfillmentFees+1200, s.TotalProfit, 1e-9)
}

func TestAggregatePayoutTransferContributesNothing(t *testing.T) {
	p := NewSettlementProcessor()

	base := []models.SettlementRow{
		orderRow("2024/5/8", "111-0000007", "Widget", "1000", "0", "-100", "0", "900"),
	}
	withTransfer := append(append([]models.SettlementRow{}, base...), models.SettlementRow{
		Source:          models.SourceAmazon,
		Date:            "2024/5/8",
		TransactionType: models.TxTypePayoutTransfer,
		Total:           "-900",
	})

	want := p.Aggregate(base)
	got := p.Aggregate(withTransfer)

	assert.InDelta(t, want.TotalSales, got.TotalSales, 1e-9)
	assert.InDelta(t, want.TotalProfit, got.TotalProfit, 1e-9)
	assert.Equal(t, want.OrderCount, got.OrderCount)
	assert.NotContains(t, got.TransactionTypes, models.TxTypePayoutTransfer)
}

func TestAggregateSkipsDatelessRows(t *testing.T) {
	p := NewSettlementProcessor()

	s := p.Aggregate([]models.SettlementRow{
		orderRow("  ", "111-0000008", "Widget", "1000", "0", "-100", "0", "900"),
	})

	assert.InDelta(t, 0, s.TotalSales, 1e-9)
	assert.Empty(t, s.Daily)
	assert.Equal(t, 0, s.OrderCount)
}

func TestAggregateMalformedAmountsDegradeToZero(t *testing.T) {
	p := NewSettlementProcessor()

	// A malformed price parses to 0; with no promo and negative fees the row
	// then carries the multichannel signature and is counted there.
	s := p.Aggregate([]models.SettlementRow{
		orderRow("2024/5/9", "111-0000009", "Widget", "not-a-number", "0", "-100", "0", "900"),
	})
	assert.InDelta(t, 0, s.TotalSales, 1e-9)
	assert.InDelta(t, 100, s.TotalSalesFees, 1e-9)
	assert.Equal(t, 0, s.AmazonOrderCount)
	assert.Equal(t, 1, s.MultiChannelOrderCount)
	assert.Equal(t, 1, s.OrderCount)

	// A malformed rebate cell leaves the price intact, so the row stays a
	// plain order; only the rebate degrades to 0.
	s = p.Aggregate([]models.SettlementRow{
		orderRow("2024/5/9", "111-0000010", "Widget", "1000", "not-a-number", "-100", "0", "900"),
	})
	assert.InDelta(t, 1000, s.TotalSales, 1e-9)
	assert.InDelta(t, 100, s.TotalSalesFees, 1e-9)
	assert.Equal(t, 1, s.AmazonOrderCount)
	assert.Equal(t, 0, s.MultiChannelOrderCount)
}

func TestAggregateFeeRowsFeedFulfillmentTotals(t *testing.T) {
	p := NewSettlementProcessor()

	s := p.Aggregate([]models.SettlementRow{
		{
			Source:          models.SourceAmazon,
			Date:            "2024/5/10",
			TransactionType: "FBA Transaction Fee",
			Description:     "Widget",
			SellingFees:     "-300",
			Other:           "-50",
			Total:           "-350",
		},
	})

	assert.InDelta(t, 350, s.FeeBreakdown.FulfillmentFees, 1e-9)
	assert.InDelta(t, 350, s.TotalFulfillmentFees, 1e-9)
	assert.InDelta(t, -350, s.TotalProfit, 1e-9)

	bucket := s.TransactionTypes["FBA Transaction Fee"]
	require.NotNil(t, bucket)
	assert.Equal(t, 1, bucket.Count)
	assert.InDelta(t, -350, bucket.Amount, 1e-9)
}

func TestAggregateSelmonSalesRevenue(t *testing.T) {
	p := NewSettlementProcessor()

	row := selmonRow("2024/5/11", models.SelmonCategorySales, "MallX", "[selmon] Gadget", "2", "2000")
	row.OrderID = "L-0001"
	s := p.Aggregate([]models.SettlementRow{row})

	assert.InDelta(t, 2000, s.Selmon.TotalSales, 1e-9)
	assert.InDelta(t, 2000, s.Selmon.CategorySales, 1e-9)
	assert.InDelta(t, 0, s.Selmon.TotalExpenses, 1e-9)

	ms := s.Selmon.MallSales["MallX"]
	require.NotNil(t, ms)
	assert.InDelta(t, 2000, ms.Amount, 1e-9)
	assert.Equal(t, 2, ms.Quantity)

	sd := s.Selmon.Daily["2024/5/11"]
	require.NotNil(t, sd)
	assert.InDelta(t, 2000, sd.Sales, 1e-9)

	d := s.Daily["2024/5/11"]
	require.NotNil(t, d)
	assert.InDelta(t, 2000, d.Sales, 1e-9)
	assert.InDelta(t, 2000, d.Profit, 1e-9)

	pd := s.Products["[selmon] Gadget"]
	require.NotNil(t, pd)
	assert.InDelta(t, 2000, pd.Sales, 1e-9)
	assert.Equal(t, 2, pd.Units)

	assert.Equal(t, 1, s.SelmonOrderCount)
	assert.Equal(t, 1, s.OrderCount)

	// Selmon sales merge into the grand total exactly once.
	assert.InDelta(t, 2000, s.TotalSales, 1e-9)

	bucket := s.TransactionTypes[models.SelmonTypePrefix+models.SelmonCategorySales]
	require.NotNil(t, bucket)
	assert.Equal(t, 1, bucket.Count)
	assert.InDelta(t, 2000, bucket.Amount, 1e-9)
}

func TestAggregateSelmonExpenses(t *testing.T) {
	p := NewSettlementProcessor()

	s := p.Aggregate([]models.SettlementRow{
		selmonRow("2024/5/12", models.SelmonCategoryAdvertising, "MallX", "", "", "-300"),
		selmonRow("2024/5/12", "platform fee", "MallX", "", "", "-120"),
	})

	assert.InDelta(t, 420, s.Selmon.TotalExpenses, 1e-9)
	assert.InDelta(t, 300, s.Selmon.AdvertisingExpenses, 1e-9)
	assert.InDelta(t, 120, s.Selmon.OtherExpenses, 1e-9)

	sd := s.Selmon.Daily["2024/5/12"]
	require.NotNil(t, sd)
	assert.InDelta(t, 420, sd.Expenses, 1e-9)

	d := s.Daily["2024/5/12"]
	require.NotNil(t, d)
	assert.InDelta(t, 420, d.Fees, 1e-9)
	assert.InDelta(t, -420, d.Profit, 1e-9)

	// Expense rows never register an order.
	assert.Equal(t, 0, s.SelmonOrderCount)

	assert.InDelta(t, 420, s.TotalExpenses, 1e-9)
	assert.InDelta(t, -420, s.GrossProfit, 1e-9)
}

func TestSelmonAmountColumnPriority(t *testing.T) {
	cases := []struct {
		name string
		row  models.SettlementRow
		want float64
	}{
		{"tax-inclusive total wins", models.SettlementRow{TotalInclTax: "100", Total: "90", UnitAmount: "80"}, 100},
		{"total when tax column empty", models.SettlementRow{Total: "90", UnitAmount: "80"}, 90},
		{"unit amount as last resort", models.SettlementRow{UnitAmount: "80"}, 80},
		{"all empty", models.SettlementRow{}, 0},
		{"non-empty but malformed cell still wins", models.SettlementRow{TotalInclTax: "garbage", Total: "90"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := tc.row
			assert.InDelta(t, tc.want, selmonAmount(&row), 1e-9)
		})
	}
}

func TestAggregateProfitIdentityOnMixedDataset(t *testing.T) {
	p := NewSettlementProcessor()

	rows := []models.SettlementRow{
		orderRow("2024/5/1", "111-A", "Widget", "1000", "0", "-150", "0", "850"),
		orderRow("2024/5/1", "111-B", "Gadget", "500", "-50", "-60", "30", "420"),
		orderRow("2024/5/2", "S-MC", "Widget", "0", "0", "-500", "0", "-500"),
		orderRow("2024/5/2", "111-C", "Review Unit", "500", "-500", "0", "0", "0"),
		{Source: models.SourceAmazon, Date: "2024/5/3", TransactionType: models.TxTypeRefund, SellingFees: "-80", Other: "-20", Total: "-800"},
		{Source: models.SourceAmazon, Date: "2024/5/3", TransactionType: models.TxTypeInventoryReimbursement, Total: "1200"},
		{Source: models.SourceAmazon, Date: "2024/5/3", TransactionType: models.TxTypePayoutTransfer, Total: "-5000"},
		{Source: models.SourceAmazon, Date: "2024/5/4", TransactionType: "FBA Transaction Fee", SellingFees: "-300", Other: "-50", Total: "-350"},
		{Source: models.SourceAmazon, Date: "2024/5/4", TransactionType: "Cost of Advertising", Other: "-220", Total: "-220"},
	}
	row := selmonRow("2024/5/5", models.SelmonCategorySales, "MallX", "[selmon] Gadget", "2", "2000")
	row.OrderID = "L-1"
	rows = append(rows, row, selmonRow("2024/5/5", models.SelmonCategoryAdvertising, "MallX", "", "", "-300"))

	s := p.Aggregate(rows)

	assert.InDelta(t, s.TotalSalesFees+s.TotalFulfillmentFees+s.Selmon.TotalExpenses, s.TotalExpenses, 1e-9)
	assert.InDelta(t, s.TotalSales-(s.TotalSalesFees+s.Selmon.TotalExpenses), s.GrossProfit, 1e-9)
	assert.InDelta(t, s.GrossProfit-s.TotalFulfillmentFees+s.InventoryRefund, s.TotalProfit, 1e-9)

	for date, d := range s.Daily {
		assert.InDeltaf(t, d.Sales-d.Fees, d.Profit, 1e-9, "day %s", date)
	}
	for name, pd := range s.Products {
		assert.InDeltaf(t, pd.Sales-pd.Fees, pd.Profit, 1e-9, "product %s", name)
	}

	assert.Equal(t, s.AmazonOrderCount+s.MultiChannelOrderCount+s.SelmonOrderCount, s.OrderCount)
}

func TestAggregateIsPureAcrossCalls(t *testing.T) {
	p := NewSettlementProcessor()

	rows := []models.SettlementRow{
		orderRow("2024/5/1", "111-A", "Widget", "1000", "0", "-150", "0", "850"),
	}
	first := p.Aggregate(rows)
	second := p.Aggregate(rows)

	// No state leaks between runs: re-aggregating the same input must not
	// double any accumulator.
	assert.InDelta(t, first.TotalSales, second.TotalSales, 1e-9)
	assert.InDelta(t, first.TotalProfit, second.TotalProfit, 1e-9)
	assert.Equal(t, first.OrderCount, second.OrderCount)
}
