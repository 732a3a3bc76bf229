package calculator

import (
	"math"

	"goContractorPay/internal/taxyear"
)

// applyBands charges each band's rate on the slice of income between the
// previous band's upper limit (start, for the first band) and its own.
func applyBands(income, start float64, bands []taxyear.TaxBand) float64 {
	if income <= start {
		return 0
	}

	var total float64
	lower := start
	for _, band := range bands {
		if income <= lower {
			break
		}

		upper := band.Upper
		if band.Unbounded() {
			upper = math.Inf(1)
		}

		// Calculate the taxable amount in this band
		inBand := math.Min(income, upper) - lower
		if inBand > 0 {
			total += inBand * band.Rate
		}
		lower = upper
	}

	return total
}

// PersonalAllowance returns the allowance for the given income. When
// tapering is configured, £1 is lost for every £2 (taper rate 0.5) above the
// threshold, down to zero.
func (c *Calculator) PersonalAllowance(income float64) float64 {
	it := c.cfg.IncomeTax
	if !it.Taper.Enabled || income <= it.Taper.Threshold {
		return it.PersonalAllowance
	}

	reduction := (income - it.Taper.Threshold) * it.Taper.Rate
	return math.Max(0, it.PersonalAllowance-reduction)
}

// IncomeTax charges the income tax bands on taxable income (income after
// the personal allowance).
func (c *Calculator) IncomeTax(taxable float64) float64 {
	return applyBands(taxable, 0, c.cfg.IncomeTax.Bands)
}

// EmployeeNI charges the primary Class 1 bands on earnings above the
// primary threshold.
func (c *Calculator) EmployeeNI(earnings float64) float64 {
	ni := c.cfg.EmployeeNI
	return applyBands(earnings, ni.PrimaryThreshold, ni.Bands)
}

// EmployerNI charges the secondary rate on income above the secondary threshold.
func (c *Calculator) EmployerNI(income float64) float64 {
	ni := c.cfg.EmployerNI
	return math.Max(0, income-ni.Threshold) * ni.Rate
}

// CorporationTax applies the small profits rate up to the lower limit, the
// main rate from the upper limit, and marginal relief in between. Losses
// and zero profit pay nothing.
func (c *Calculator) CorporationTax(profit float64) float64 {
	ct := c.cfg.CorporationTax
	switch {
	case profit <= 0:
		return 0
	case profit <= ct.LowerLimit:
		return profit * ct.SmallRate
	case profit >= ct.UpperLimit:
		return profit * ct.MainRate
	}

	relief := (ct.UpperLimit - profit) * ct.MarginalReliefFraction
	effectiveRate := ct.MainRate - relief/profit
	return profit * effectiveRate
}
