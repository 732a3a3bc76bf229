package report

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.BritishEnglish)

// Money formats an amount as pounds with thousands separators, "£1,234.56".
// Negative amounts put the sign before the pound sign.
func Money(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	return sign + "£" + printer.Sprintf("%.2f", d.InexactFloat64())
}

// MoneyFloat is Money for a float already rounded to pennies.
func MoneyFloat(v float64) string {
	return Money(decimal.NewFromFloat(v))
}

// pdfText converts UTF-8 text to the Latin-1 bytes the standard PDF fonts
// expect; the £ sign is 0xC2 0xA3 in UTF-8 but a single 0xA3 in Latin-1.
func pdfText(s string) string {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		switch {
		case r <= 0xFF:
			out = append(out, byte(r))
		case r == '–' || r == '—' || r == '−':
			out = append(out, '-')
		default:
			out = append(out, '?')
		}
	}
	return string(out)
}
