package calculator

import "math"

// Breakdown keys for the umbrella model, in output order.
const (
	KeyAnnualContractIncome = "annual_contract_income"
	KeyUmbrellaMargin       = "umbrella_margin"
	KeyEmployerNI           = "employer_ni"
	KeyEmployerPension      = "employer_pension"
	KeyAdjustedGross        = "adjusted_gross"
	KeyEmployeePension      = "employee_pension"
	KeyPersonalAllowance    = "personal_allowance"
	KeyTaxableIncome        = "taxable_income"
	KeyIncomeTax            = "income_tax"
	KeyEmployeeNI           = "employee_ni"
	KeyOtherDeductions      = "other_deductions"
	KeyNetPay               = "net_pay"
	KeyMonthly              = "monthly"
	KeyWeekly               = "weekly"
)

// UmbrellaResult holds every step of the umbrella calculation, unrounded.
type UmbrellaResult struct {
	TaxYear              string
	AnnualContractIncome float64
	UmbrellaMargin       float64
	EmployerNI           float64
	EmployerPension      float64
	// AdjustedGross is what the umbrella pays the contractor before PAYE
	AdjustedGross     float64
	EmployeePension   float64
	PersonalAllowance float64
	TaxableIncome     float64
	IncomeTax         float64
	EmployeeNI        float64
	OtherDeductions   float64
	NetPay            float64
	Monthly           float64
	Weekly            float64
}

// Umbrella runs the inside-IR35 pipeline:
// margin, employer NI, employer pension, adjusted gross, employee pension,
// personal allowance, income tax, employee NI, net pay.
func (c *Calculator) Umbrella(p UmbrellaParams) (UmbrellaResult, error) {
	if err := check(p); err != nil {
		return UmbrellaResult{}, err
	}

	annual, err := annualIncome(p.ContractInput, c.cfg.GetHoursPerDay())
	if err != nil {
		return UmbrellaResult{}, err
	}

	r := UmbrellaResult{
		TaxYear:              c.TaxYear(),
		AnnualContractIncome: annual,
		UmbrellaMargin:       c.cfg.Umbrella.WeeklyMargin * float64(p.WeeksPerYear),
		EmployerNI:           c.EmployerNI(annual),
		EmployerPension:      annual * p.EmployerPensionPct / 100,
		OtherDeductions:      p.AdditionalDeductions,
	}

	r.AdjustedGross = annual - r.EmployerNI - r.UmbrellaMargin + r.EmployerPension

	// Salary sacrifice comes off before tax; a negative gross has nothing to sacrifice
	r.EmployeePension = math.Max(0, r.AdjustedGross) * p.EmployeePensionPct / 100

	r.PersonalAllowance = c.PersonalAllowance(r.AdjustedGross)
	r.TaxableIncome = math.Max(0, r.AdjustedGross-r.PersonalAllowance-r.EmployeePension)
	r.IncomeTax = c.IncomeTax(r.TaxableIncome)
	r.EmployeeNI = c.EmployeeNI(r.AdjustedGross)

	r.NetPay = r.AdjustedGross - r.IncomeTax - r.EmployeeNI - r.EmployeePension - r.OtherDeductions
	r.Monthly, r.Weekly = perPeriod(r.NetPay, p.WeeksPerYear)

	return r, nil
}

// Breakdown rounds r into the ordered report form.
func (r UmbrellaResult) Breakdown() Breakdown {
	b := newBreakdown(ModelUmbrella, r.TaxYear)
	b.add(KeyAnnualContractIncome, "Annual Contract Income", r.AnnualContractIncome)
	b.add(KeyUmbrellaMargin, "Umbrella Margin (Annual)", r.UmbrellaMargin)
	b.add(KeyEmployerNI, "Employer NI", r.EmployerNI)
	b.add(KeyEmployerPension, "Employer Pension Contribution", r.EmployerPension)
	b.add(KeyAdjustedGross, "Gross After Employer Deductions", r.AdjustedGross)
	b.add(KeyEmployeePension, "Employee Pension Deduction", r.EmployeePension)
	b.add(KeyPersonalAllowance, "Personal Allowance", r.PersonalAllowance)
	b.add(KeyTaxableIncome, "Taxable Income", r.TaxableIncome)
	b.add(KeyIncomeTax, "Income Tax Due", r.IncomeTax)
	b.add(KeyEmployeeNI, "Employee NI", r.EmployeeNI)
	b.add(KeyOtherDeductions, "Other Deductions", r.OtherDeductions)
	b.add(KeyNetPay, "Net Annual Pay", r.NetPay)
	b.add(KeyMonthly, "Monthly Take-Home", r.Monthly)
	b.add(KeyWeekly, "Weekly Take-Home", r.Weekly)
	return *b
}

// ComputeUmbrella runs Umbrella and returns the rounded breakdown.
func (c *Calculator) ComputeUmbrella(p UmbrellaParams) (Breakdown, error) {
	r, err := c.Umbrella(p)
	if err != nil {
		return Breakdown{}, err
	}
	return r.Breakdown(), nil
}
