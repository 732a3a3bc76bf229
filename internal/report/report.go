// Package report renders breakdowns, comparisons and sweeps as console
// text, CSV, JSON, PDF and XLSX.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"goContractorPay/internal/calculator"
	"goContractorPay/internal/sweep"
)

// DefaultTitle heads every report unless a Document sets its own.
const DefaultTitle = "Contractor Take-Home Pay"

// Format is an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatJSON, FormatCSV, FormatPDF, FormatXLSX}

// ErrUnknownFormat is returned for any format not in Formats.
var ErrUnknownFormat = fmt.Errorf("unknown report format (want one of %s)", joinFormats())

func joinFormats() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// ParseFormat accepts a format name in any case. "txt" and "excel" are
// accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "text", "txt", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "pdf":
		return FormatPDF, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Binary reports whether the format should not be written to a terminal.
func (f Format) Binary() bool {
	return f == FormatPDF || f == FormatXLSX
}

// ContentType is the MIME type served for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatPDF:
		return "application/pdf"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/plain; charset=utf-8"
}

// Extension is the file extension for the format, without the dot.
func (f Format) Extension() string {
	if f == FormatText {
		return "txt"
	}
	return string(f)
}

// Document is everything one report shows. Breakdowns are rendered in
// order; Comparison and Sweep are optional.
type Document struct {
	Title      string
	Date       time.Time
	TaxYear    string
	Breakdowns []calculator.Breakdown
	Comparison *calculator.Comparison
	Sweep      *sweep.Result
}

// ForBreakdowns builds a document for one or more breakdowns.
func ForBreakdowns(breakdowns ...calculator.Breakdown) Document {
	doc := Document{Title: DefaultTitle, Date: time.Now(), Breakdowns: breakdowns}
	if len(breakdowns) > 0 {
		doc.TaxYear = breakdowns[0].TaxYear
	}
	return doc
}

// ForComparison builds a document showing both models and their difference.
func ForComparison(cmp calculator.Comparison) Document {
	doc := ForBreakdowns(cmp.Umbrella, cmp.Ltd)
	doc.Comparison = &cmp
	return doc
}

// ForSweep builds a document for a rate sweep.
func ForSweep(res *sweep.Result) Document {
	return Document{Title: DefaultTitle, Date: time.Now(), TaxYear: res.TaxYear, Sweep: res}
}

func (d Document) title() string {
	if d.Title == "" {
		return DefaultTitle
	}
	return d.Title
}

func (d Document) date() string {
	if d.Date.IsZero() {
		return time.Now().Format(time.DateOnly)
	}
	return d.Date.Format(time.DateOnly)
}

// subheading is the "Model: X | Tax year: Y | Date: Z" line under a title.
func (d Document) subheading(model string) string {
	return fmt.Sprintf("Model: %s | Tax year: %s | Date: %s", model, d.TaxYear, d.date())
}

// Write renders doc to w in format f.
func Write(w io.Writer, doc Document, f Format) error {
	switch f {
	case FormatText:
		return WriteText(w, doc)
	case FormatJSON:
		return WriteJSON(w, doc)
	case FormatCSV:
		return WriteCSV(w, doc)
	case FormatPDF:
		return WritePDF(w, doc)
	case FormatXLSX:
		return WriteXLSX(w, doc)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, f)
}

// Filename suggests a download name such as "umbrella-2025-26.pdf".
func Filename(doc Document, f Format) string {
	name := "contractor-pay"
	switch {
	case doc.Sweep != nil:
		name = "sweep"
	case doc.Comparison != nil:
		name = "comparison"
	case len(doc.Breakdowns) == 1:
		name = string(doc.Breakdowns[0].Model)
	}
	if doc.TaxYear != "" {
		name += "-" + strings.NewReplacer("/", "-", " ", "-").Replace(doc.TaxYear)
	}
	return name + "." + f.Extension()
}
