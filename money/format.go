package money

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var groupPrinter = message.NewPrinter(language.English)

// Format renders minor units as whole major units with thousands grouping,
// e.g. 1234550 -> "NT$12,346". The optional symbol overrides the configured one.
func (e *Engine) Format(amountMinor int64, symbol ...string) string {
	whole := roundHalfAway(decimal.NewFromInt(amountMinor), hundred)
	sign := ""
	if whole < 0 {
		sign = "-"
		whole = -whole
	}
	return sign + e.symbol(symbol) + groupPrinter.Sprintf("%d", whole)
}

// FormatWithDecimals renders minor units with two decimals, e.g. 1234550 -> "NT$12,345.50".
func (e *Engine) FormatWithDecimals(amountMinor int64, symbol ...string) string {
	sign := ""
	magnitude := uint64(amountMinor)
	if amountMinor < 0 {
		sign = "-"
		// -MinInt64 overflows int64 but not uint64
		magnitude = uint64(-(amountMinor + 1)) + 1
	}
	return fmt.Sprintf("%s%s%s.%02d", sign, e.symbol(symbol), groupPrinter.Sprintf("%d", magnitude/100), magnitude%100)
}

func (e *Engine) symbol(override []string) string {
	if len(override) > 0 {
		return override[0]
	}
	return e.cfg.CurrencySymbol
}
