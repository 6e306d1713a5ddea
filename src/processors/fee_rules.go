package processors

import (
	"math"
	"strings"

	"github.com/username/sellerfolio/backend/src/models"
)

// Fee amount formulas. Which columns feed a category is fixed per category
// and not derivable from a general rule, so each rule carries its own.
func feesPlusOther(fees, other float64) float64 { return math.Abs(fees) + math.Abs(other) }
func feesOnly(fees, other float64) float64      { return math.Abs(fees) }
func otherOnly(fees, other float64) float64     { return math.Abs(other) }

func typeEquals(want string) func(txType, desc string) bool {
	return func(txType, desc string) bool { return txType == want }
}

func descContains(keyword string) func(txType, desc string) bool {
	return func(txType, desc string) bool {
		return strings.Contains(strings.ToLower(desc), keyword)
	}
}

type feeRule struct {
	name   string
	match  func(txType, desc string) bool
	amount func(fees, other float64) float64
	apply  func(fb *models.FeeBreakdown, v float64)
}

// feeRules is the fulfillment-fee dispatch table, evaluated top to bottom
// with first-match-wins semantics. Rows matching no rule fall into the
// "other" category only when their fee sum is nonzero.
var feeRules = []feeRule{
	{
		name:   "returns",
		match:  typeEquals("FBA Customer Return Fee"),
		amount: feesPlusOther,
		apply:  func(fb *models.FeeBreakdown, v float64) { fb.ReturnFees += v },
	},
	{
		name:   "inbound",
		match:  typeEquals("FBA Inbound Transportation Fee"),
		amount: otherOnly,
		apply:  func(fb *models.FeeBreakdown, v float64) { fb.InboundFees += v },
	},
	{
		name:   "fulfillment",
		match:  typeEquals("FBA Transaction Fee"),
		amount: feesPlusOther,
		apply:  func(fb *models.FeeBreakdown, v float64) { fb.FulfillmentFees += v },
	},
	{
		name:   "storage",
		match:  typeEquals("FBA Inventory Storage Fee"),
		amount: otherOnly,
		apply:  func(fb *models.FeeBreakdown, v float64) { fb.StorageFees += v },
	},
	{
		name:   "subscription",
		match:  typeEquals("Subscription Fee"),
		amount: otherOnly,
		apply:  func(fb *models.FeeBreakdown, v float64) { fb.SubscriptionFees += v },
	},
	{
		name:   "advertising",
		match:  typeEquals("Cost of Advertising"),
		amount: otherOnly,
		apply:  func(fb *models.FeeBreakdown, v float64) { fb.AdvertisingFees += v },
	},
	{
		name:   "coupon",
		match:  descContains("coupon"),
		amount: feesPlusOther,
		apply:  func(fb *models.FeeBreakdown, v float64) { fb.CouponFees += v },
	},
	{
		name:   "refund-related",
		match:  typeEquals("Refund Administration Fee"),
		amount: feesOnly,
		apply:  func(fb *models.FeeBreakdown, v float64) { fb.RefundFees += v },
	},
}

// classifyFee routes a non-sales, non-refund transaction into one of the nine
// fee categories. Returns the category name, or "" when the row matched
// nothing and carried no fee amount.
func classifyFee(fb *models.FeeBreakdown, txType, desc string, fees, other float64) string {
	for _, rule := range feeRules {
		if rule.match(txType, desc) {
			rule.apply(fb, rule.amount(fees, other))
			return rule.name
		}
	}
	if v := feesPlusOther(fees, other); v != 0 {
		fb.OtherFees += v
		return "other"
	}
	return ""
}
