package report

import (
	"fmt"
	"io"
	"strings"

	"goContractorPay/internal/calculator"
)

const textWidth = 78

// WriteText renders doc as a console report.
func WriteText(w io.Writer, doc Document) error {
	var b strings.Builder

	for i, bd := range doc.Breakdowns {
		if i > 0 {
			b.WriteString("\n")
		}
		writeBreakdownText(&b, bd)
	}

	if doc.Comparison != nil {
		b.WriteString("\n")
		writeComparisonText(&b, *doc.Comparison)
	}

	if doc.Sweep != nil {
		if len(doc.Breakdowns) > 0 {
			b.WriteString("\n")
		}
		writeSweepText(&b, doc)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func box(b *strings.Builder, title string) {
	fmt.Fprintf(b, "╔%s╗\n", strings.Repeat("═", textWidth))
	fmt.Fprintf(b, "║ %-*s ║\n", textWidth-2, title)
	fmt.Fprintf(b, "╚%s╝\n", strings.Repeat("═", textWidth))
}

func writeBreakdownText(b *strings.Builder, bd calculator.Breakdown) {
	box(b, bd.Model.Title())
	fmt.Fprintf(b, "  Tax year: %s\n\n", bd.TaxYear)

	for _, line := range bd.Lines() {
		// Separate the headline net figure from the workings above it
		if line.Key == calculator.KeyNetPay || line.Key == calculator.KeyTotalNetIncome {
			fmt.Fprintf(b, "  %s\n", strings.Repeat("─", textWidth-4))
		}
		fmt.Fprintf(b, "  %-40s %20s\n", line.Label, Money(line.Amount))
	}
}

func writeComparisonText(b *strings.Builder, cmp calculator.Comparison) {
	b.WriteString("Comparison:\n")
	b.WriteString("───────────\n")
	fmt.Fprintf(b, "  %-40s %20s\n", "Umbrella net (annual)", Money(cmp.Umbrella.Net()))
	fmt.Fprintf(b, "  %-40s %20s\n", "Limited company net (annual)", Money(cmp.Ltd.Net()))
	fmt.Fprintf(b, "  %-40s %20s\n", "Difference (annual)", Money(cmp.NetDifference))
	fmt.Fprintf(b, "  %-40s %20s\n", "Difference (monthly)", Money(cmp.MonthlyDifference))

	switch cmp.Better {
	case string(calculator.ModelLtd):
		b.WriteString("\n  The limited company nets more.\n")
	case string(calculator.ModelUmbrella):
		b.WriteString("\n  The umbrella company nets more.\n")
	default:
		b.WriteString("\n  Both models net the same.\n")
	}
}

func writeSweepText(b *strings.Builder, doc Document) {
	res := doc.Sweep
	box(b, fmt.Sprintf("Rate Sweep (%s rate)", res.RateType))
	fmt.Fprintf(b, "  Tax year: %s\n\n", res.TaxYear)

	fmt.Fprintf(b, "  %10s │ %14s │ %14s │ %14s │ %-8s\n", "Rate", "Umbrella Net", "Ltd Net", "Difference", "Better")
	fmt.Fprintf(b, "  %s\n", strings.Repeat("─", textWidth-4))
	for _, p := range res.Points {
		fmt.Fprintf(b, "  %10s │ %14s │ %14s │ %14s │ %-8s\n",
			MoneyFloat(p.Rate), MoneyFloat(p.UmbrellaNet), MoneyFloat(p.LtdNet), MoneyFloat(p.Difference), p.Better)
	}

	if res.LtdBetterFrom != nil {
		fmt.Fprintf(b, "\n  Limited company nets more from %s upwards.\n", MoneyFloat(*res.LtdBetterFrom))
	}
}
