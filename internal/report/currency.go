package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CurrencyFormat controls how monetary amounts are rendered in reports.
// Locale and symbol are configuration, not hard-coded in the reporters.
type CurrencyFormat struct {
	Symbol      string
	ThousandSep string
	DecimalSep  string
}

// DefaultCurrencyFormat renders amounts in the es-CO style: $1.234,56
func DefaultCurrencyFormat() CurrencyFormat {
	return CurrencyFormat{Symbol: "$", ThousandSep: ".", DecimalSep: ","}
}

// Format renders d with two decimals, thousands separators and the symbol.
func (f CurrencyFormat) Format(d decimal.Decimal) string {
	s := d.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteString(f.ThousandSep)
		}
		b.WriteRune(r)
	}

	out := f.Symbol + b.String() + f.DecimalSep + fracPart
	if neg {
		out = "-" + out
	}
	return out
}
