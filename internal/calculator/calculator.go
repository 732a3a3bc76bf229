// Package calculator estimates UK contractor take-home pay inside IR35
// (umbrella company) and outside IR35 (limited company).
//
// A Calculator holds one immutable tax year. Every method is a pure
// function of its arguments and the tax year, so a Calculator can be shared
// between goroutines.
package calculator

import (
	"goContractorPay/internal/taxyear"
)

// Calculator runs both models against one tax year.
type Calculator struct {
	cfg *taxyear.Config
}

// New returns a Calculator for cfg. A nil cfg selects the default tax year.
// cfg is copied, so later changes to it do not affect the Calculator.
func New(cfg *taxyear.Config) *Calculator {
	if cfg == nil {
		cfg = taxyear.Default()
	} else {
		cfg = cfg.Clone()
	}
	return &Calculator{cfg: cfg}
}

// TaxYear returns the label of the tax year in use.
func (c *Calculator) TaxYear() string {
	return c.cfg.Label()
}

// Config returns a copy of the tax year in use.
func (c *Calculator) Config() *taxyear.Config {
	return c.cfg.Clone()
}

// AnnualIncome validates in and converts it to gross annual contract income.
func (c *Calculator) AnnualIncome(in ContractInput) (float64, error) {
	if err := check(in); err != nil {
		return 0, err
	}
	return annualIncome(in, c.cfg.GetHoursPerDay())
}

// ComputeUmbrella runs the umbrella model on the default tax year.
func ComputeUmbrella(p UmbrellaParams) (Breakdown, error) {
	return New(nil).ComputeUmbrella(p)
}

// ComputeLtd runs the limited company model on the default tax year.
func ComputeLtd(p LtdParams) (Breakdown, error) {
	return New(nil).ComputeLtd(p)
}

// perPeriod splits an annual net figure into monthly and weekly amounts.
// weeks has been validated to be at least 1.
func perPeriod(net float64, weeks int) (monthly, weekly float64) {
	monthly = net / 12
	if weeks > 0 {
		weekly = net / float64(weeks)
	}
	return monthly, weekly
}
