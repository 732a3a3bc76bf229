package calculator

// Breakdown keys for the limited company model, in output order. Monthly
// and weekly share KeyMonthly and KeyWeekly with the umbrella model.
const (
	KeyGrossIncome     = "gross_income"
	KeySalary          = "salary"
	KeyExpenses        = "expenses"
	KeyProfitBeforeTax = "profit_before_tax"
	KeyCorporationTax  = "corporation_tax"
	KeyPostTaxProfit   = "post_tax_profit"
	KeyDividendTax     = "dividend_tax"
	KeyNetDividends    = "net_dividends"
	KeyTotalNetIncome  = "total_net_income"
)

// LtdResult holds every step of the limited company calculation, unrounded.
type LtdResult struct {
	TaxYear         string
	GrossIncome     float64
	Salary          float64
	Expenses        float64
	ProfitBeforeTax float64
	CorporationTax  float64
	PostTaxProfit   float64
	DividendTax     float64
	NetDividends    float64
	TotalNetIncome  float64
	Monthly         float64
	Weekly          float64
}

// Ltd runs the outside-IR35 pipeline: salary and expenses come off
// gross income, corporation tax is charged on the profit, and what is left
// is paid out as dividends taxed at the given flat rate.
func (c *Calculator) Ltd(p LtdParams) (LtdResult, error) {
	if err := check(p); err != nil {
		return LtdResult{}, err
	}

	gross, err := annualIncome(p.ContractInput, c.cfg.GetHoursPerDay())
	if err != nil {
		return LtdResult{}, err
	}

	r := LtdResult{
		TaxYear:     c.TaxYear(),
		GrossIncome: gross,
		Salary:      p.DirectorSalary,
		Expenses:    c.cfg.Ltd.Expenses,
	}

	r.ProfitBeforeTax = r.GrossIncome - r.Salary - r.Expenses
	r.CorporationTax = c.CorporationTax(r.ProfitBeforeTax)
	r.PostTaxProfit = r.ProfitBeforeTax - r.CorporationTax

	// A loss carries no dividend and no dividend tax, but still reduces take-home
	if r.PostTaxProfit > 0 {
		r.DividendTax = r.PostTaxProfit * p.DividendTaxRate
	}
	r.NetDividends = r.PostTaxProfit - r.DividendTax

	r.TotalNetIncome = r.NetDividends + r.Salary
	r.Monthly, r.Weekly = perPeriod(r.TotalNetIncome, p.WeeksPerYear)

	return r, nil
}

// Breakdown rounds r into the ordered report form.
func (r LtdResult) Breakdown() Breakdown {
	b := newBreakdown(ModelLtd, r.TaxYear)
	b.add(KeyGrossIncome, "Gross Contract Income", r.GrossIncome)
	b.add(KeySalary, "Salary", r.Salary)
	b.add(KeyExpenses, "Expenses", r.Expenses)
	b.add(KeyProfitBeforeTax, "Profit Before Tax", r.ProfitBeforeTax)
	b.add(KeyCorporationTax, "Corporation Tax", r.CorporationTax)
	b.add(KeyPostTaxProfit, "Post-Tax Profit", r.PostTaxProfit)
	b.add(KeyDividendTax, "Dividend Tax", r.DividendTax)
	b.add(KeyNetDividends, "Dividends (Net)", r.NetDividends)
	b.add(KeyTotalNetIncome, "Total Net Income", r.TotalNetIncome)
	b.add(KeyMonthly, "Monthly Take-Home", r.Monthly)
	b.add(KeyWeekly, "Weekly Take-Home", r.Weekly)
	return *b
}

// ComputeLtd runs Ltd and returns the rounded breakdown.
func (c *Calculator) ComputeLtd(p LtdParams) (Breakdown, error) {
	r, err := c.Ltd(p)
	if err != nil {
		return Breakdown{}, err
	}
	return r.Breakdown(), nil
}
