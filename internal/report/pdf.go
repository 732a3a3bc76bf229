package report

import (
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"goContractorPay/internal/calculator"
)

const (
	pageWidth    = 210.0
	marginLeft   = 20.0
	marginRight  = 20.0
	marginTop    = 20.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight
	rowHeight    = 7.0
)

// WritePDF renders doc as an A4 PDF: one page per breakdown, then the
// comparison and the sweep table.
func WritePDF(w io.Writer, doc Document) error {
	pdf := buildPDF(doc)
	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	return pdf.Output(w)
}

func buildPDF(doc Document) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.SetTitle(doc.title(), true)
	pdf.SetCreator("goContractorPay", true)

	for _, bd := range doc.Breakdowns {
		addBreakdownPage(pdf, doc, bd)
	}
	if doc.Comparison != nil {
		addComparisonSection(pdf, *doc.Comparison)
	}
	if doc.Sweep != nil {
		addSweepPage(pdf, doc)
	}
	// An empty document still gets a titled page
	if pdf.PageNo() == 0 {
		pdf.AddPage()
		addTitle(pdf, doc, "")
	}
	return pdf
}

func addTitle(pdf *fpdf.Fpdf, doc Document, model string) {
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(contentWidth, 10, pdfText(doc.title()), "", 1, "C", false, 0, "")

	if model != "" {
		pdf.SetFont("Arial", "", 12)
		pdf.SetTextColor(80, 80, 80)
		pdf.CellFormat(contentWidth, 8, pdfText(doc.subheading(model)), "", 1, "C", false, 0, "")
	}
	pdf.Ln(8)
}

// row writes a label on the left and an amount flush right.
func row(pdf *fpdf.Fpdf, label, amount string) {
	pdf.CellFormat(contentWidth*0.65, rowHeight, pdfText(label+":"), "", 0, "L", false, 0, "")
	pdf.CellFormat(contentWidth*0.35, rowHeight, pdfText(amount), "", 1, "R", false, 0, "")
}

func addBreakdownPage(pdf *fpdf.Fpdf, doc Document, bd calculator.Breakdown) {
	pdf.AddPage()
	addTitle(pdf, doc, bd.Model.Title())

	pdf.SetTextColor(50, 50, 50)
	for _, line := range bd.Lines() {
		headline := line.Key == calculator.KeyNetPay || line.Key == calculator.KeyTotalNetIncome
		if headline {
			pdf.SetFont("Arial", "B", 11)
		} else {
			pdf.SetFont("Arial", "", 11)
		}
		row(pdf, line.Label, Money(line.Amount))
	}
}

func addComparisonSection(pdf *fpdf.Fpdf, cmp calculator.Comparison) {
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 12)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(contentWidth, 8, "Comparison", "B", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 11)
	pdf.SetTextColor(50, 50, 50)
	row(pdf, "Umbrella net (annual)", Money(cmp.Umbrella.Net()))
	row(pdf, "Limited company net (annual)", Money(cmp.Ltd.Net()))
	row(pdf, "Difference (annual)", Money(cmp.NetDifference))
	row(pdf, "Difference (monthly)", Money(cmp.MonthlyDifference))

	pdf.Ln(2)
	pdf.SetFont("Arial", "I", 11)
	verdict := "Both models net the same."
	switch cmp.Better {
	case string(calculator.ModelLtd):
		verdict = "The limited company nets more."
	case string(calculator.ModelUmbrella):
		verdict = "The umbrella company nets more."
	}
	pdf.CellFormat(contentWidth, rowHeight, verdict, "", 1, "L", false, 0, "")
}

func addSweepPage(pdf *fpdf.Fpdf, doc Document) {
	res := doc.Sweep
	pdf.AddPage()
	addTitle(pdf, doc, fmt.Sprintf("Rate sweep (%s)", res.RateType))

	headers := []string{"Rate", "Umbrella Net", "Ltd Net", "Difference", "Better"}
	widths := []float64{26, 38, 38, 38, contentWidth - 140}

	header := func() {
		pdf.SetFont("Arial", "B", 10)
		pdf.SetFillColor(245, 247, 250)
		pdf.SetTextColor(0, 51, 102)
		for i, h := range headers {
			pdf.CellFormat(widths[i], rowHeight, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(50, 50, 50)
	}

	// Repeat the header row on every page of the table
	_, pageHeight := pdf.GetPageSize()
	header()
	for _, p := range res.Points {
		if pdf.GetY()+rowHeight > pageHeight-marginBottom {
			pdf.AddPage()
			header()
		}
		cells := []string{MoneyFloat(p.Rate), MoneyFloat(p.UmbrellaNet), MoneyFloat(p.LtdNet), MoneyFloat(p.Difference), p.Better}
		for i, c := range cells {
			align := "R"
			if i == len(cells)-1 {
				align = "C"
			}
			pdf.CellFormat(widths[i], rowHeight, pdfText(c), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	if res.LtdBetterFrom != nil {
		pdf.Ln(4)
		pdf.SetFont("Arial", "I", 10)
		pdf.CellFormat(contentWidth, rowHeight,
			pdfText(fmt.Sprintf("Limited company nets more from %s upwards.", MoneyFloat(*res.LtdBetterFrom))),
			"", 1, "L", false, 0, "")
	}
}
