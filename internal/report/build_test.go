package report

import (
	"context"
	"errors"
	"testing"

	"goContractorPay/internal/calculator"
	"goContractorPay/internal/sweep"
)

func TestBuild(t *testing.T) {
	req := sweep.Request{
		CompareParams: calculator.CompareParams{
			ContractInput: calculator.DefaultContract(),
			LtdOptions:    calculator.DefaultLtdOptions(),
		},
		Min: 400, Max: 600, Step: 50,
	}
	calc := calculator.New(nil)

	tests := []struct {
		kind       string
		breakdowns int
		comparison bool
		points     int
		filename   string
	}{
		{"umbrella", 1, false, 0, "umbrella-2025-26.csv"},
		{"LTD", 1, false, 0, "ltd-2025-26.csv"},
		{"compare", 2, true, 0, "comparison-2025-26.csv"},
		{"both", 2, true, 0, "comparison-2025-26.csv"},
		{"sweep", 0, false, 5, "sweep-2025-26.csv"},
	}
	for _, tc := range tests {
		t.Run(tc.kind, func(t *testing.T) {
			doc, err := Build(context.Background(), calc, tc.kind, req)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if len(doc.Breakdowns) != tc.breakdowns {
				t.Errorf("expected %d breakdowns, got %d", tc.breakdowns, len(doc.Breakdowns))
			}
			if (doc.Comparison != nil) != tc.comparison {
				t.Errorf("comparison present = %v, want %v", doc.Comparison != nil, tc.comparison)
			}
			if tc.points > 0 && (doc.Sweep == nil || len(doc.Sweep.Points) != tc.points) {
				t.Errorf("expected %d sweep points, got %+v", tc.points, doc.Sweep)
			}
			if got := Filename(doc, FormatCSV); got != tc.filename {
				t.Errorf("expected %s, got %s", tc.filename, got)
			}
		})
	}
}

func TestBuild_Errors(t *testing.T) {
	calc := calculator.New(nil)
	base := sweep.Request{CompareParams: calculator.CompareParams{ContractInput: calculator.DefaultContract()}}

	var invalid *calculator.InvalidInputError
	_, err := Build(context.Background(), calc, "sole-trader", base)
	if !errors.As(err, &invalid) || invalid.Fields()[0] != "model" {
		t.Errorf("expected a model violation, got %v", err)
	}

	// The sweep kind validates its range; the others ignore it
	if _, err := Build(context.Background(), calc, KindSweep, base); !errors.Is(err, calculator.ErrInvalidInput) {
		t.Errorf("expected a sweep without step to be rejected, got %v", err)
	}
	if _, err := Build(context.Background(), calc, KindCompare, base); err != nil {
		t.Errorf("compare should ignore sweep fields, got %v", err)
	}
}
