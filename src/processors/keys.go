package processors

import (
	"fmt"
	"math"
	"strings"
)

// Order-type tags kept in the fold's side map. The unique-order partition in
// the finalize pass dispatches on these.
const (
	orderTypeAmazon       = "amazon"
	orderTypeMultiChannel = "multiChannel"
	orderTypeSelmon       = "selmon"
)

// SynthesizeOrderKey builds the fallback order identity for primary rows
// without a marketplace order number. It only exists for set-membership
// during unique-order counting, never as a stored entity.
func SynthesizeOrderKey(date, description string, total float64) string {
	return fmt.Sprintf("%s_%s_%g", strings.TrimSpace(date), strings.TrimSpace(description), math.Abs(total))
}

// SelmonFallbackOrderKey is the secondary marketplace's order identity when
// the export carries no order or line item id.
func SelmonFallbackOrderKey(date, description string) string {
	return fmt.Sprintf("%s_%s", strings.TrimSpace(date), strings.TrimSpace(description))
}
