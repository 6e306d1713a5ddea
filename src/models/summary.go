package models

// FeeBreakdown itemizes marketplace/fulfillment fees into the nine named
// sub-categories the export layer reports on. Each field is an absolute sum.
type FeeBreakdown struct {
	ReturnFees       float64 `json:"return_fees"`
	InboundFees      float64 `json:"inbound_fees"`
	FulfillmentFees  float64 `json:"fulfillment_fees"`
	StorageFees      float64 `json:"storage_fees"`
	SubscriptionFees float64 `json:"subscription_fees"`
	AdvertisingFees  float64 `json:"advertising_fees"`
	CouponFees       float64 `json:"coupon_fees"`
	RefundFees       float64 `json:"refund_fees"`
	OtherFees        float64 `json:"other_fees"`
}

// Sum is the total across all nine categories.
func (f FeeBreakdown) Sum() float64 {
	return f.ReturnFees + f.InboundFees + f.FulfillmentFees + f.StorageFees +
		f.SubscriptionFees + f.AdvertisingFees + f.CouponFees + f.RefundFees + f.OtherFees
}

// DailyData is the per-calendar-day bucket, keyed by the row's display date
// string. Profit is not accumulated during the fold; it is derived in the
// finalize pass as sales - fees.
type DailyData struct {
	Sales        float64             `json:"sales"`
	Fees         float64             `json:"fees"`
	Profit       float64             `json:"profit"`
	RefundAmount float64             `json:"refund_amount"`
	RefundCount  int                 `json:"refund_count"`
	OrderIDs     map[string]struct{} `json:"-"`
	OrderCount   int                 `json:"order_count"`
}

// ProductData is the per-product bucket, keyed by product description.
type ProductData struct {
	Sales  float64 `json:"sales"`
	Fees   float64 `json:"fees"`
	Profit float64 `json:"profit"`
	Units  int     `json:"units"`
}

// ProductFeeSamples holds the raw per-row seller fee samples for one product,
// split by fulfillment path. Lists, not running statistics, so the export
// layer can compute exact dispersion afterwards.
type ProductFeeSamples struct {
	Normal       []float64 `json:"normal"`
	MultiChannel []float64 `json:"multi_channel"`
}

// TransactionTypeData is the per-transaction-type bucket.
type TransactionTypeData struct {
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

// MultiChannelData tracks inferred multichannel-fulfillment transactions.
type MultiChannelData struct {
	Count     int     `json:"count"`
	TotalFees float64 `json:"total_fees"`
}

// VineData tracks promotional review units: rows whose product price is fully
// offset by the promotional rebate. They still count toward the sales totals.
type VineData struct {
	Count       int     `json:"count"`
	TotalAmount float64 `json:"total_amount"`
}

// SelmonDailyData is the secondary marketplace's own daily bucket, keyed by
// the normalized YYYY/M/D date. This keyspace is independent from the primary
// daily map, which is keyed by the raw display date string.
type SelmonDailyData struct {
	Sales    float64 `json:"sales"`
	Expenses float64 `json:"expenses"`
}

// MallSales is the per-storefront sales bucket for the secondary marketplace.
type MallSales struct {
	Amount   float64 `json:"amount"`
	Quantity int     `json:"quantity"`
}

// SelmonSummary is the nested secondary-marketplace rollup.
type SelmonSummary struct {
	TotalSales          float64                     `json:"total_sales"`
	TotalExpenses       float64                     `json:"total_expenses"`
	CategorySales       float64                     `json:"category_sales"`
	AdvertisingExpenses float64                     `json:"advertising_expenses"`
	OtherExpenses       float64                     `json:"other_expenses"`
	Daily               map[string]*SelmonDailyData `json:"daily"`
	MallSales           map[string]*MallSales       `json:"mall_sales"`
}

// PeriodSummary is the aggregate output for one row subset. It is a pure
// function of its input rows and is always recomputed from scratch.
type PeriodSummary struct {
	TotalSales           float64      `json:"total_sales"`
	TotalSalesFees       float64      `json:"total_sales_fees"`
	TotalFulfillmentFees float64      `json:"total_fulfillment_fees"`
	TotalExpenses        float64      `json:"total_expenses"`
	GrossProfit          float64      `json:"gross_profit"`
	TotalProfit          float64      `json:"total_profit"`
	FeeBreakdown         FeeBreakdown `json:"fee_breakdown"`

	// RefundAmount is the absolute total for display; TotalRefundAmount is
	// the signed accumulator. Downstream consumers read both independently.
	RefundCount       int     `json:"refund_count"`
	RefundAmount      float64 `json:"refund_amount"`
	TotalRefundAmount float64 `json:"total_refund_amount"`

	// InventoryRefund (inventory reimbursements) offsets fulfillment fees in
	// the profit identity, not sales.
	InventoryRefund float64 `json:"inventory_refund"`

	OrderCount             int `json:"order_count"`
	AmazonOrderCount       int `json:"amazon_order_count"`
	MultiChannelOrderCount int `json:"multi_channel_order_count"`
	SelmonOrderCount       int `json:"selmon_order_count"`

	Daily            map[string]*DailyData           `json:"daily"`
	Products         map[string]*ProductData         `json:"products"`
	ProductFees      map[string]*ProductFeeSamples   `json:"product_fees"`
	TransactionTypes map[string]*TransactionTypeData `json:"transaction_types"`

	MultiChannel MultiChannelData `json:"multi_channel"`
	Vine         VineData         `json:"vine"`
	Selmon       SelmonSummary    `json:"selmon"`

	// RawRows is attached by the period indexer on month summaries so the
	// day-of-month sub-period filter can re-aggregate without a second pass
	// over the whole dataset. Never serialized.
	RawRows []SettlementRow `json:"-"`
}
