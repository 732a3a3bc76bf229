package calculator

// UmbrellaOptions are the umbrella-only inputs.
type UmbrellaOptions struct {
	// EmployeePensionPct is a percentage (5 = 5%) of adjusted gross, taken before tax
	EmployeePensionPct float64 `json:"employee_pension_pct" yaml:"employee_pension_pct" validate:"finite,gte=0,lte=100"`
	// EmployerPensionPct is a percentage of contract income added by the umbrella
	EmployerPensionPct float64 `json:"employer_pension_pct" yaml:"employer_pension_pct" validate:"finite,gte=0,lte=100"`
	// AdditionalDeductions covers yearly amounts such as student loan or insurance
	AdditionalDeductions float64 `json:"additional_deductions" yaml:"additional_deductions" validate:"finite,gte=0"`
}

// LtdOptions are the limited-company-only inputs.
type LtdOptions struct {
	DirectorSalary float64 `json:"director_salary" yaml:"director_salary" validate:"finite,gte=0"`
	// DividendTaxRate is a fraction (0.0875 = 8.75%) charged on post-tax profit
	DividendTaxRate float64 `json:"dividend_tax_rate" yaml:"dividend_tax_rate" validate:"finite,gte=0,lte=1"`
}

// DefaultLtdOptions is a £12,000 director salary and the 8.75% basic
// dividend rate.
func DefaultLtdOptions() LtdOptions {
	return LtdOptions{DirectorSalary: 12000, DividendTaxRate: 0.0875}
}

// UmbrellaParams are the inputs to the umbrella calculation.
type UmbrellaParams struct {
	ContractInput
	UmbrellaOptions
}

// LtdParams are the inputs to the limited company calculation.
type LtdParams struct {
	ContractInput
	LtdOptions
}

// CompareParams carry the inputs for both models over one contract.
type CompareParams struct {
	ContractInput
	UmbrellaOptions
	LtdOptions
}

// Umbrella returns the umbrella half of p.
func (p CompareParams) Umbrella() UmbrellaParams {
	return UmbrellaParams{ContractInput: p.ContractInput, UmbrellaOptions: p.UmbrellaOptions}
}

// Ltd returns the limited company half of p.
func (p CompareParams) Ltd() LtdParams {
	return LtdParams{ContractInput: p.ContractInput, LtdOptions: p.LtdOptions}
}
