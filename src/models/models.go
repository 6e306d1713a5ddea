package models

import "time"

// Source tags attached to every normalized row.
const (
	SourceAmazon    = "amazon"
	SourceSelmon    = "selmon"
	SourceChildASIN = "childasin"
	SourceUnknown   = "unknown"
)

// Transaction type strings as they appear in (or are synthesized from) the
// marketplace exports. The aggregation fold dispatches on these.
const (
	TxTypeOrderPayment           = "Order Payment"
	TxTypeRefund                 = "Refund"
	TxTypeInventoryReimbursement = "Inventory Reimbursement"
	// Payout transfers move the settlement balance to the seller's bank
	// account. They are not sales events and must not appear in any total.
	TxTypePayoutTransfer = "Transfer to Bank Account"

	// Synthetic bucket names. The export has no distinct type for these;
	// they are derived during aggregation.
	TxTypeOrderPaymentItem  = "Order Payment (item price)"
	TxTypeOrderPaymentOther = "Order Payment (other)"
	TxTypeMultiChannel      = "Multi-Channel Fulfillment"
)

// Selmon category literals.
const (
	SelmonCategorySales       = "sales revenue"
	SelmonCategoryAdvertising = "advertising"
	SelmonTypePrefix          = "selmon / "
	SelmonProductPrefix       = "[selmon] "
)

// UnknownProduct is the description used when a row carries no product detail.
const UnknownProduct = "unknown"

// SettlementRow is the unified, normalized representation of one settlement
// transaction row. Each parser populates as many fields as possible directly
// from the source file; Selmon rows are reshaped into this form.
//
// Numeric columns stay strings here on purpose: the aggregation engine parses
// them at every read site with a parse-or-zero policy, so a malformed cell
// degrades to 0 instead of dropping or failing the row.
type SettlementRow struct {
	Source          string `json:"source"`
	Date            string `json:"date"`
	TransactionType string `json:"transaction_type"`
	OrderID         string `json:"order_id"`
	Description     string `json:"description"`

	ProductSales       string `json:"product_sales"`
	PromotionalRebates string `json:"promotional_rebates"`
	SellingFees        string `json:"selling_fees"`
	Other              string `json:"other"`
	Total              string `json:"total"`

	// Selmon-only fields. Empty for amazon rows.
	SoldAt       string `json:"sold_at,omitempty"`
	Category     string `json:"category,omitempty"`
	Mall         string `json:"mall,omitempty"`
	Quantity     string `json:"quantity,omitempty"`
	TotalInclTax string `json:"total_incl_tax,omitempty"`
	UnitAmount   string `json:"unit_amount,omitempty"`
}

// LoadedFile is one imported settlement export. Files are keyed by name:
// re-importing the same file name replaces the previous entry wholesale, so
// an identical re-upload never double-counts.
type LoadedFile struct {
	FileName   string          `json:"file_name"`
	SourceType string          `json:"source_type"`
	FileSize   int64           `json:"file_size"`
	RowCount   int             `json:"row_count"`
	ImportID   string          `json:"import_id"`
	ImportedAt time.Time       `json:"imported_at"`
	Rows       []SettlementRow `json:"rows,omitempty"`
}
