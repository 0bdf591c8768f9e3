package domain

import (
	"fmt"
	"strings"
)

// FormatShortfallText renders a plain-text shopping checklist of every
// ingredient in shortage, one line each: missing amount to two decimal
// places, unit, name. Entries whose stock could not be read are marked so
// nobody buys against a guessed number.
func FormatShortfallText(reqs []IngredientRequirement) string {
	var b strings.Builder
	for _, req := range reqs {
		if req.Status != StatusShortage {
			continue
		}
		fmt.Fprintf(&b, "- %s %s %s", req.Missing.StringFixed(2), req.Unit, req.IngredientName)
		if req.StockUnknown {
			b.WriteString(" (stock unknown)")
		}
		b.WriteByte('\n')
	}
	return b.String()
}
