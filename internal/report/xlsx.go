package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"goContractorPay/internal/calculator"
)

const moneyFormat = "£#,##0.00"

// Sheet names used by WriteXLSX.
const (
	SheetComparison = "Comparison"
	SheetSweep      = "Sweep"
)

// SheetName is the worksheet a breakdown of model m is written to.
func SheetName(m calculator.Model) string {
	switch m {
	case calculator.ModelUmbrella:
		return "Umbrella"
	case calculator.ModelLtd:
		return "Limited Company"
	}
	return string(m)
}

type workbook struct {
	f      *excelize.File
	bold   int
	money  int
	sheets int
}

// WriteXLSX writes doc as a workbook with one sheet per breakdown, plus a
// comparison sheet and a sweep sheet when doc has them.
func WriteXLSX(w io.Writer, doc Document) error {
	f := excelize.NewFile()
	defer f.Close()

	wb, err := newWorkbook(f)
	if err != nil {
		return err
	}

	for _, bd := range doc.Breakdowns {
		if err := wb.breakdownSheet(bd); err != nil {
			return err
		}
	}
	if doc.Comparison != nil {
		if err := wb.comparisonSheet(*doc.Comparison); err != nil {
			return err
		}
	}
	if doc.Sweep != nil {
		if err := wb.sweepSheet(doc); err != nil {
			return err
		}
	}
	if wb.sheets == 0 {
		if err := f.SetCellValue("Sheet1", "A1", doc.title()); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func newWorkbook(f *excelize.File) (*workbook, error) {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	numFmt := moneyFormat
	money, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
	if err != nil {
		return nil, fmt.Errorf("money style: %w", err)
	}
	return &workbook{f: f, bold: bold, money: money}, nil
}

// sheet creates the next sheet, reusing the default "Sheet1" for the first.
func (wb *workbook) sheet(name string) error {
	wb.sheets++
	if wb.sheets == 1 {
		return wb.f.SetSheetName("Sheet1", name)
	}
	_, err := wb.f.NewSheet(name)
	return err
}

func (wb *workbook) header(sheet string, cols ...any) error {
	if err := wb.f.SetSheetRow(sheet, "A1", &cols); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(cols), 1)
	if err != nil {
		return err
	}
	return wb.f.SetCellStyle(sheet, "A1", last, wb.bold)
}

// moneyRow writes a label in column A and an amount in column B.
func (wb *workbook) moneyRow(sheet string, row int, label string, amount float64) error {
	if err := wb.f.SetCellValue(sheet, fmt.Sprintf("A%d", row), label); err != nil {
		return err
	}
	cell := fmt.Sprintf("B%d", row)
	if err := wb.f.SetCellValue(sheet, cell, amount); err != nil {
		return err
	}
	return wb.f.SetCellStyle(sheet, cell, cell, wb.money)
}

func (wb *workbook) breakdownSheet(bd calculator.Breakdown) error {
	name := SheetName(bd.Model)
	if err := wb.sheet(name); err != nil {
		return fmt.Errorf("sheet %s: %w", name, err)
	}
	if err := wb.header(name, "Field", "Value"); err != nil {
		return err
	}
	for i, line := range bd.Lines() {
		if err := wb.moneyRow(name, i+2, line.Label, line.Amount.InexactFloat64()); err != nil {
			return err
		}
	}
	return wb.f.SetColWidth(name, "A", "A", 36)
}

func (wb *workbook) comparisonSheet(cmp calculator.Comparison) error {
	name := SheetComparison
	if err := wb.sheet(name); err != nil {
		return fmt.Errorf("sheet %s: %w", name, err)
	}
	if err := wb.header(name, "Field", "Value"); err != nil {
		return err
	}
	rows := []struct {
		label  string
		amount float64
	}{
		{"Umbrella net (annual)", cmp.Umbrella.Net().InexactFloat64()},
		{"Limited company net (annual)", cmp.Ltd.Net().InexactFloat64()},
		{"Difference (annual)", cmp.NetDifference.InexactFloat64()},
		{"Difference (monthly)", cmp.MonthlyDifference.InexactFloat64()},
	}
	for i, r := range rows {
		if err := wb.moneyRow(name, i+2, r.label, r.amount); err != nil {
			return err
		}
	}
	if err := wb.f.SetCellValue(name, fmt.Sprintf("A%d", len(rows)+2), "Better"); err != nil {
		return err
	}
	if err := wb.f.SetCellValue(name, fmt.Sprintf("B%d", len(rows)+2), cmp.Better); err != nil {
		return err
	}
	return wb.f.SetColWidth(name, "A", "A", 36)
}

func (wb *workbook) sweepSheet(doc Document) error {
	name := SheetSweep
	if err := wb.sheet(name); err != nil {
		return fmt.Errorf("sheet %s: %w", name, err)
	}
	if err := wb.header(name, "Rate", "Umbrella Net", "Ltd Net", "Umbrella Monthly", "Ltd Monthly", "Difference", "Better"); err != nil {
		return err
	}
	for i, p := range doc.Sweep.Points {
		row := i + 2
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := []any{p.Rate, p.UmbrellaNet, p.LtdNet, p.UmbrellaMonthly, p.LtdMonthly, p.Difference, p.Better}
		if err := wb.f.SetSheetRow(name, cell, &values); err != nil {
			return err
		}
	}
	if n := len(doc.Sweep.Points); n > 0 {
		last, err := excelize.CoordinatesToCellName(6, n+1)
		if err != nil {
			return err
		}
		if err := wb.f.SetCellStyle(name, "A2", last, wb.money); err != nil {
			return err
		}
	}
	return wb.f.SetColWidth(name, "A", "G", 16)
}
