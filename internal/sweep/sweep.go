// Package sweep runs both pay models across a range of contract rates.
package sweep

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"goContractorPay/internal/calculator"
	"goContractorPay/internal/validation"
)

// MaxPoints caps the number of rates in one sweep.
const MaxPoints = 1000

// Request describes a sweep. The contract rate in CompareParams is replaced
// by each swept rate; everything else is held fixed.
type Request struct {
	calculator.CompareParams
	Min  float64 `json:"min" yaml:"min" validate:"finite,gte=0"`
	Max  float64 `json:"max" yaml:"max" validate:"finite,gte=0"`
	Step float64 `json:"step" yaml:"step" validate:"finite,gt=0"`
	// Workers bounds concurrent calculations; 0 uses one per CPU
	Workers int `json:"workers,omitempty" yaml:"workers,omitempty" validate:"gte=0"`
}

// Point is the outcome of both models at one rate.
type Point struct {
	Rate            float64 `json:"rate"`
	UmbrellaNet     float64 `json:"umbrella_net"`
	LtdNet          float64 `json:"ltd_net"`
	UmbrellaMonthly float64 `json:"umbrella_monthly"`
	LtdMonthly      float64 `json:"ltd_monthly"`
	// Difference is ltd minus umbrella, annual
	Difference float64 `json:"difference"`
	Better     string  `json:"better"`
}

// Result holds the points of a sweep ordered by rate.
type Result struct {
	TaxYear  string              `json:"tax_year"`
	RateType calculator.RateType `json:"rate_type"`
	Points   []Point             `json:"points"`
	// LtdBetterFrom is the lowest swept rate from which the limited company
	// nets more at every higher rate, or nil if it never does
	LtdBetterFrom *float64 `json:"ltd_better_from,omitempty"`
}

// Rates returns the swept rates from Min to Max inclusive. Each rate is
// computed from its index so steps do not accumulate float error. A range
// of more than MaxPoints rates returns nil.
func (r Request) Rates() []float64 {
	if r.Step <= 0 || r.Max < r.Min {
		return nil
	}
	points := r.points()
	if !(points <= MaxPoints) {
		return nil
	}
	n := int(points)
	rates := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		rate := r.Min + float64(i)*r.Step
		rates = append(rates, math.Round(rate*1e6)/1e6)
	}
	return rates
}

// points is the number of rates in the range. It stays a float so a
// huge span compares against MaxPoints instead of overflowing an int.
func (r Request) points() float64 {
	// small epsilon so 0.1 steps reach Max exactly
	return math.Floor((r.Max-r.Min)/r.Step+1e-9) + 1
}

func (r Request) validate() error {
	violations, err := validation.Struct(r)
	if err != nil {
		return err
	}
	if len(violations) == 0 {
		if r.Max < r.Min {
			violations = append(violations, calculator.Violation{Field: "max", Constraint: "must be at least min", Value: r.Max})
		} else if n := r.points(); !(n <= MaxPoints) {
			violations = append(violations, calculator.Violation{
				Field:      "step",
				Constraint: fmt.Sprintf("gives %.0f points, at most %d allowed", n, MaxPoints),
				Value:      r.Step,
			})
		}
	}
	if len(violations) > 0 {
		return &calculator.InvalidInputError{Violations: violations}
	}
	return nil
}

func (r Request) workers(points int) int {
	w := r.Workers
	if w <= 0 {
		w = runtime.NumCPU()
	}
	return max(1, min(w, points))
}

// Run evaluates every rate of req with calc. Calculations run concurrently,
// bounded by req.Workers. The first calculation error or a cancelled ctx
// stops the sweep and is returned.
func Run(ctx context.Context, calc *calculator.Calculator, req Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	rates := req.Rates()
	points := make([]Point, len(rates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(req.workers(len(rates)))

	for i, rate := range rates {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			p := req.CompareParams
			p.Rate = rate
			cmp, err := calc.Compare(p)
			if err != nil {
				return fmt.Errorf("rate %.2f: %w", rate, err)
			}
			points[i] = newPoint(rate, cmp)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Wait returns nil when the loop stopped early on a cancelled parent
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Result{
		TaxYear:       calc.TaxYear(),
		RateType:      req.RateType,
		Points:        points,
		LtdBetterFrom: ltdBetterFrom(points),
	}, nil
}

func newPoint(rate float64, cmp calculator.Comparison) Point {
	return Point{
		Rate:            rate,
		UmbrellaNet:     cmp.Umbrella.Net().InexactFloat64(),
		LtdNet:          cmp.Ltd.Net().InexactFloat64(),
		UmbrellaMonthly: cmp.Umbrella.Monthly().InexactFloat64(),
		LtdMonthly:      cmp.Ltd.Monthly().InexactFloat64(),
		Difference:      cmp.NetDifference.InexactFloat64(),
		Better:          cmp.Better,
	}
}

func ltdBetterFrom(points []Point) *float64 {
	from := -1
	for i := len(points) - 1; i >= 0; i-- {
		if points[i].Better != "ltd" {
			break
		}
		from = i
	}
	if from < 0 {
		return nil
	}
	rate := points[from].Rate
	return &rate
}
