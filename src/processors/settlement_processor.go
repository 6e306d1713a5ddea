package processors

import (
	"math"
	"strings"

	"github.com/username/sellerfolio/backend/src/models"
	"github.com/username/sellerfolio/backend/src/utils"
)

// vineTolerance is the float tolerance when checking whether a promotional
// rebate fully offsets the product price.
const vineTolerance = 0.01

// SettlementProcessor folds normalized settlement rows into a PeriodSummary.
// Aggregate is a pure function: every call gets fresh accumulator state, so
// summaries can be recomputed from scratch whenever the file set changes.
type SettlementProcessor struct{}

func NewSettlementProcessor() *SettlementProcessor {
	return &SettlementProcessor{}
}

// foldState threads the shared accumulators through both marketplace
// branches. orderTypes maps order id -> origin tag; it is consulted only by
// the finalize pass when partitioning unique orders.
type foldState struct {
	summary    *models.PeriodSummary
	orderTypes map[string]string
}

func newFoldState() *foldState {
	return &foldState{
		summary: &models.PeriodSummary{
			Daily:            make(map[string]*models.DailyData),
			Products:         make(map[string]*models.ProductData),
			ProductFees:      make(map[string]*models.ProductFeeSamples),
			TransactionTypes: make(map[string]*models.TransactionTypeData),
			Selmon: models.SelmonSummary{
				Daily:     make(map[string]*models.SelmonDailyData),
				MallSales: make(map[string]*models.MallSales),
			},
		},
		orderTypes: make(map[string]string),
	}
}

func (st *foldState) day(date string) *models.DailyData {
	d, ok := st.summary.Daily[date]
	if !ok {
		d = &models.DailyData{OrderIDs: make(map[string]struct{})}
		st.summary.Daily[date] = d
	}
	return d
}

func (st *foldState) product(name string) *models.ProductData {
	p, ok := st.summary.Products[name]
	if !ok {
		p = &models.ProductData{}
		st.summary.Products[name] = p
	}
	return p
}

func (st *foldState) productFees(name string) *models.ProductFeeSamples {
	s, ok := st.summary.ProductFees[name]
	if !ok {
		s = &models.ProductFeeSamples{}
		st.summary.ProductFees[name] = s
	}
	return s
}

func (st *foldState) txBucket(name string) *models.TransactionTypeData {
	b, ok := st.summary.TransactionTypes[name]
	if !ok {
		b = &models.TransactionTypeData{}
		st.summary.TransactionTypes[name] = b
	}
	return b
}

// Aggregate runs the single forward pass over the rows and then the ordered
// finalize phase. Accumulation mutates raw sums only; every derived value
// (profits, totals, unique order counts) is computed in finalize.
func (p *SettlementProcessor) Aggregate(rows []models.SettlementRow) *models.PeriodSummary {
	st := newFoldState()
	for i := range rows {
		row := &rows[i]
		if row.Source == models.SourceSelmon {
			selmonAccumulate(st, row)
			continue
		}
		primaryAccumulate(st, row)
	}
	finalize(st)
	return st.summary
}

// primaryAccumulate handles one Amazon-schema row.
func primaryAccumulate(st *foldState, row *models.SettlementRow) {
	txType := strings.TrimSpace(row.TransactionType)

	// Payout transfers move money to the bank, they are not sales events.
	if txType == models.TxTypePayoutTransfer {
		return
	}
	// A row without a date cannot be attributed to any day.
	if strings.TrimSpace(row.Date) == "" {
		return
	}

	desc := strings.TrimSpace(row.Description)
	if desc == "" {
		desc = models.UnknownProduct
	}

	price := utils.ParseAmount(row.ProductSales)
	promo := utils.ParseAmount(row.PromotionalRebates)
	fees := utils.ParseAmount(row.SellingFees)
	other := utils.ParseAmount(row.Other)
	total := utils.ParseAmount(row.Total)

	// The export has no distinct type for multichannel fulfillment orders;
	// they are inferred from the zero-price / negative-fee signature.
	multiChannel := txType == models.TxTypeOrderPayment &&
		price == 0 && promo == 0 && fees < 0

	// Per-transaction-type bucketing. Order payments split into synthetic
	// sub-buckets by amount composition; both may fire for one row.
	switch {
	case multiChannel:
		bucket := st.txBucket(models.TxTypeMultiChannel)
		bucket.Count++
		bucket.Amount += total
	case txType == models.TxTypeOrderPayment:
		if price > 0 {
			bucket := st.txBucket(models.TxTypeOrderPaymentItem)
			bucket.Count++
			bucket.Amount += price
		}
		if other > 0 {
			bucket := st.txBucket(models.TxTypeOrderPaymentOther)
			bucket.Count++
			bucket.Amount += other
		}
	default:
		bucket := st.txBucket(txType)
		bucket.Count++
		bucket.Amount += total
	}

	s := st.summary
	switch txType {
	case models.TxTypeOrderPayment: // includes inferred multichannel rows
		sales := price + other
		salesFees := math.Abs(fees) + math.Abs(promo)

		// Vine review unit: price fully offset by the rebate. Tracked
		// separately for reporting but still part of every total.
		if price > 0 && math.Abs(price-math.Abs(promo)) < vineTolerance {
			s.Vine.Count++
			s.Vine.TotalAmount += price
		}

		s.TotalSales += sales
		s.TotalSalesFees += salesFees

		d := st.day(row.Date)
		d.Sales += sales
		d.Fees += salesFees

		if desc != models.UnknownProduct {
			pd := st.product(desc)
			pd.Sales += sales
			pd.Fees += salesFees
			pd.Units++
		}

		samples := st.productFees(desc)
		if multiChannel {
			samples.MultiChannel = append(samples.MultiChannel, math.Abs(fees))
			s.MultiChannel.Count++
			s.MultiChannel.TotalFees += math.Abs(fees)
		} else {
			samples.Normal = append(samples.Normal, math.Abs(fees))
		}

		// Even an all-zero order still counts as one order.
		orderID := strings.TrimSpace(row.OrderID)
		if orderID == "" {
			orderID = SynthesizeOrderKey(row.Date, desc, total)
		}
		d.OrderIDs[orderID] = struct{}{}
		if multiChannel {
			st.orderTypes[orderID] = orderTypeMultiChannel
		} else {
			st.orderTypes[orderID] = orderTypeAmazon
		}

	case models.TxTypeRefund:
		s.RefundCount++
		s.RefundAmount += math.Abs(total)
		// Signed accumulator kept distinct from the display total above.
		s.TotalRefundAmount += total
		s.FeeBreakdown.RefundFees += math.Abs(fees) + math.Abs(other)

		d := st.day(row.Date)
		d.RefundCount++
		d.RefundAmount += math.Abs(total)

	case models.TxTypeInventoryReimbursement:
		// Offsets fulfillment fees in the profit identity, not sales.
		s.InventoryRefund += total

	default:
		classifyFee(&s.FeeBreakdown, txType, desc, fees, other)
	}
}

// finalize derives every computed field from the accumulated raw sums.
// Step order matters: Selmon sales merge into the grand total exactly once,
// and day/product profit is recomputed last so primary-sourced days (which
// never write profit during the fold) end up consistent with the days the
// Selmon branch wrote incrementally.
func finalize(st *foldState) {
	s := st.summary

	amazonOrders := make(map[string]struct{})
	selmonOrders := make(map[string]struct{})
	for _, d := range s.Daily {
		for id := range d.OrderIDs {
			switch st.orderTypes[id] {
			case orderTypeSelmon:
				selmonOrders[id] = struct{}{}
			case orderTypeMultiChannel:
				// Excluded from the unique count: multichannel rows were
				// already counted one-by-one during the fold.
			default:
				amazonOrders[id] = struct{}{}
			}
		}
		d.OrderCount = len(d.OrderIDs)
	}

	s.AmazonOrderCount = len(amazonOrders)
	s.SelmonOrderCount = len(selmonOrders)
	s.MultiChannelOrderCount = s.MultiChannel.Count
	s.OrderCount = s.AmazonOrderCount + s.MultiChannelOrderCount + s.SelmonOrderCount

	s.TotalFulfillmentFees = s.FeeBreakdown.Sum()

	s.TotalSales += s.Selmon.TotalSales

	s.TotalExpenses = s.TotalSalesFees + s.TotalFulfillmentFees + s.Selmon.TotalExpenses

	s.GrossProfit = s.TotalSales - (s.TotalSalesFees + s.Selmon.TotalExpenses)
	s.TotalProfit = s.GrossProfit - s.TotalFulfillmentFees + s.InventoryRefund

	// Overwrites the partial profit the Selmon branch wrote incrementally;
	// primary-sourced days get their profit here for the first time.
	for _, d := range s.Daily {
		d.Profit = d.Sales - d.Fees
	}
	for _, pd := range s.Products {
		pd.Profit = pd.Sales - pd.Fees
	}
}
