package rental

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var amountPrinter = message.NewPrinter(language.English)

// FormatAmount renders a currency or meter amount with two decimals and thousands grouping.
// Example: 1250.5 -> "1,250.50"
func FormatAmount(d decimal.Decimal) string {
	return amountPrinter.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// StatusLabel turns an enum value such as "MOVED_OUT" into "Moved Out"
func StatusLabel(status string) string {
	// Casers keep state between calls, so each call gets its own
	return cases.Title(language.English).String(strings.ReplaceAll(strings.ToLower(status), "_", " "))
}
