// src/export/csv.go
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/username/sellerfolio/backend/src/models"
	"github.com/username/sellerfolio/backend/src/utils"
)

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// BuildSummaryCSV renders a period summary as CSV text: the headline totals,
// the nine-way fee breakdown, transaction type buckets, daily and product
// breakdowns, per-product fee dispersion statistics and the Selmon mall
// table. Read-only projections over the summary; no recomputation.
func BuildSummaryCSV(period, subPeriod string, s *models.PeriodSummary) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	write := func(record ...string) {
		// csv.Writer only fails on the final Flush; checked once below.
		w.Write(record)
	}

	write("period", period)
	write("sub period", subPeriod)
	write()

	write("metric", "value")
	write("total sales", formatAmount(s.TotalSales))
	write("total sales fees", formatAmount(s.TotalSalesFees))
	write("total fulfillment fees", formatAmount(s.TotalFulfillmentFees))
	write("total expenses", formatAmount(s.TotalExpenses))
	write("gross profit", formatAmount(s.GrossProfit))
	write("total profit", formatAmount(s.TotalProfit))
	write("refund count", fmt.Sprintf("%d", s.RefundCount))
	write("refund amount", formatAmount(s.RefundAmount))
	write("refund amount (signed)", formatAmount(s.TotalRefundAmount))
	write("inventory refund", formatAmount(s.InventoryRefund))
	write("order count", fmt.Sprintf("%d", s.OrderCount))
	write("amazon order count", fmt.Sprintf("%d", s.AmazonOrderCount))
	write("multi-channel order count", fmt.Sprintf("%d", s.MultiChannelOrderCount))
	write("selmon order count", fmt.Sprintf("%d", s.SelmonOrderCount))
	write("vine count", fmt.Sprintf("%d", s.Vine.Count))
	write("vine amount", formatAmount(s.Vine.TotalAmount))
	write("selmon sales", formatAmount(s.Selmon.TotalSales))
	write("selmon expenses", formatAmount(s.Selmon.TotalExpenses))
	write()

	write("fee category", "amount")
	write("returns", formatAmount(s.FeeBreakdown.ReturnFees))
	write("inbound shipping", formatAmount(s.FeeBreakdown.InboundFees))
	write("fulfillment", formatAmount(s.FeeBreakdown.FulfillmentFees))
	write("storage", formatAmount(s.FeeBreakdown.StorageFees))
	write("subscription", formatAmount(s.FeeBreakdown.SubscriptionFees))
	write("advertising", formatAmount(s.FeeBreakdown.AdvertisingFees))
	write("coupon", formatAmount(s.FeeBreakdown.CouponFees))
	write("refund fees", formatAmount(s.FeeBreakdown.RefundFees))
	write("other", formatAmount(s.FeeBreakdown.OtherFees))
	write()

	write("transaction type", "count", "amount")
	for _, name := range sortedKeys(s.TransactionTypes) {
		b := s.TransactionTypes[name]
		write(name, fmt.Sprintf("%d", b.Count), formatAmount(b.Amount))
	}
	write()

	write("date", "sales", "fees", "profit", "refund amount", "refund count", "orders")
	for _, date := range sortedKeys(s.Daily) {
		d := s.Daily[date]
		write(date, formatAmount(d.Sales), formatAmount(d.Fees), formatAmount(d.Profit),
			formatAmount(d.RefundAmount), fmt.Sprintf("%d", d.RefundCount), fmt.Sprintf("%d", d.OrderCount))
	}
	write()

	write("product", "sales", "fees", "profit", "units",
		"fee mean", "fee min", "fee max", "fee cv",
		"mcf fee mean", "mcf fee min", "mcf fee max", "mcf fee cv")
	for _, name := range sortedKeys(s.Products) {
		p := s.Products[name]
		record := []string{name, formatAmount(p.Sales), formatAmount(p.Fees), formatAmount(p.Profit), fmt.Sprintf("%d", p.Units)}
		samples := s.ProductFees[name]
		if samples == nil {
			samples = &models.ProductFeeSamples{}
		}
		normal := utils.ComputeFeeStats(samples.Normal)
		mcf := utils.ComputeFeeStats(samples.MultiChannel)
		record = append(record,
			formatAmount(normal.Mean), formatAmount(normal.Min), formatAmount(normal.Max), fmt.Sprintf("%.4f", normal.CV),
			formatAmount(mcf.Mean), formatAmount(mcf.Min), formatAmount(mcf.Max), fmt.Sprintf("%.4f", mcf.CV))
		w.Write(record)
	}
	write()

	write("mall", "sales", "quantity")
	for _, mall := range sortedKeys(s.Selmon.MallSales) {
		ms := s.Selmon.MallSales[mall]
		write(mall, formatAmount(ms.Amount), fmt.Sprintf("%d", ms.Quantity))
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("error writing summary CSV: %w", err)
	}
	return buf.Bytes(), nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
