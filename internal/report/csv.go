package report

import (
	"encoding/csv"
	"io"
	"strconv"
)

// WriteCSV writes doc as CSV. A single breakdown gets the two columns
// Field,Value; several breakdowns are prefixed with a Model column. A sweep
// is written as one row per rate.
func WriteCSV(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)

	switch {
	case doc.Sweep != nil:
		writeSweepCSV(cw, doc)
	case len(doc.Breakdowns) == 1:
		_ = cw.Write([]string{"Field", "Value"})
		for _, line := range doc.Breakdowns[0].Lines() {
			_ = cw.Write([]string{line.Label, line.Amount.StringFixed(2)})
		}
	default:
		_ = cw.Write([]string{"Model", "Field", "Value"})
		for _, bd := range doc.Breakdowns {
			for _, line := range bd.Lines() {
				_ = cw.Write([]string{string(bd.Model), line.Label, line.Amount.StringFixed(2)})
			}
		}
		if cmp := doc.Comparison; cmp != nil {
			_ = cw.Write([]string{"comparison", "Difference (annual)", cmp.NetDifference.StringFixed(2)})
			_ = cw.Write([]string{"comparison", "Difference (monthly)", cmp.MonthlyDifference.StringFixed(2)})
		}
	}

	// csv.Writer keeps the first write error until Flush
	cw.Flush()
	return cw.Error()
}

func writeSweepCSV(cw *csv.Writer, doc Document) {
	_ = cw.Write([]string{"Rate", "Umbrella Net", "Ltd Net", "Umbrella Monthly", "Ltd Monthly", "Difference", "Better"})
	for _, p := range doc.Sweep.Points {
		_ = cw.Write([]string{
			fixed(p.Rate),
			fixed(p.UmbrellaNet),
			fixed(p.LtdNet),
			fixed(p.UmbrellaMonthly),
			fixed(p.LtdMonthly),
			fixed(p.Difference),
			p.Better,
		})
	}
}

func fixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
