package report

import (
	"context"
	"strings"

	"goContractorPay/internal/calculator"
	"goContractorPay/internal/sweep"
)

// Report kinds accepted by Build besides the two calculator models.
const (
	KindCompare = "compare"
	KindSweep   = "sweep"
)

// Kinds lists the report kinds Build accepts.
var Kinds = []string{string(calculator.ModelUmbrella), string(calculator.ModelLtd), KindCompare, KindSweep}

// Build runs the calculation named by kind and wraps it in a document.
// Only the sweep kind reads the Min, Max, Step and Workers fields of req.
func Build(ctx context.Context, calc *calculator.Calculator, kind string, req sweep.Request) (Document, error) {
	p := req.CompareParams
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case string(calculator.ModelUmbrella):
		b, err := calc.ComputeUmbrella(p.Umbrella())
		if err != nil {
			return Document{}, err
		}
		return ForBreakdowns(b), nil
	case string(calculator.ModelLtd):
		b, err := calc.ComputeLtd(p.Ltd())
		if err != nil {
			return Document{}, err
		}
		return ForBreakdowns(b), nil
	case KindCompare, "both":
		cmp, err := calc.Compare(p)
		if err != nil {
			return Document{}, err
		}
		return ForComparison(cmp), nil
	case KindSweep:
		res, err := sweep.Run(ctx, calc, req)
		if err != nil {
			return Document{}, err
		}
		return ForSweep(res), nil
	}
	return Document{}, &calculator.InvalidInputError{Violations: []calculator.Violation{{
		Field:      "model",
		Constraint: "must be one of " + strings.Join(Kinds, ", "),
		Value:      kind,
	}}}
}
