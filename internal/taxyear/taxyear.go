// Package taxyear describes the thresholds, rates and allowances of one UK
// tax year. Calculators take a *Config instead of hardcoding constants, so a
// new tax year is a new YAML file rather than a code change.
package taxyear

import (
	"errors"
	"fmt"
	"strings"

	"goContractorPay/internal/validation"
)

// DefaultHoursPerDay is used to turn an hourly rate into a daily one when a
// config does not set hours_per_day.
const DefaultHoursPerDay = 8.0

// TaxBand is one slice of a banded schedule. Upper is the top of the band;
// zero means the band is unbounded, which is only allowed for the last band.
type TaxBand struct {
	Name  string  `yaml:"name" toml:"name" json:"name"`
	Upper float64 `yaml:"upper,omitempty" toml:"upper,omitempty" json:"upper,omitempty" validate:"finite,gte=0"`
	Rate  float64 `yaml:"rate" toml:"rate" json:"rate" validate:"finite,gte=0,lte=1"`
}

// Unbounded reports whether the band has no upper limit.
func (b TaxBand) Unbounded() bool {
	return b.Upper == 0
}

// UmbrellaConfig holds the umbrella company's fee.
type UmbrellaConfig struct {
	// WeeklyMargin is the flat fee taken for every working week
	WeeklyMargin float64 `yaml:"weekly_margin" toml:"weekly_margin" json:"weekly_margin" validate:"finite,gte=0"`
}

// EmployerNIConfig is the secondary Class 1 contribution paid by the umbrella.
type EmployerNIConfig struct {
	// Threshold is the secondary threshold; 0 charges the whole income
	Threshold float64 `yaml:"threshold" toml:"threshold" json:"threshold" validate:"finite,gte=0"`
	Rate      float64 `yaml:"rate" toml:"rate" json:"rate" validate:"finite,gte=0,lte=1"`
}

// TaperConfig reduces the personal allowance for high earners.
type TaperConfig struct {
	Enabled bool `yaml:"enabled" toml:"enabled" json:"enabled"`
	// Threshold is the income above which the allowance starts to reduce (2025/26: £100,000)
	Threshold float64 `yaml:"threshold" toml:"threshold" json:"threshold" validate:"finite,gte=0"`
	// Rate is the allowance lost per £1 over the threshold (2025/26: £0.50)
	Rate float64 `yaml:"rate" toml:"rate" json:"rate" validate:"finite,gte=0,lte=1"`
}

// IncomeTaxConfig holds the personal allowance and the bands charged on
// taxable income (income after the allowance), starting from £0.
type IncomeTaxConfig struct {
	PersonalAllowance float64     `yaml:"personal_allowance" toml:"personal_allowance" json:"personal_allowance" validate:"finite,gte=0"`
	Taper             TaperConfig `yaml:"taper" toml:"taper" json:"taper"`
	Bands             []TaxBand   `yaml:"bands" toml:"bands" json:"bands" validate:"required,min=1,dive"`
}

// EmployeeNIConfig is the primary Class 1 contribution. Bands start at the
// primary threshold and carry absolute upper limits, so a two-tier schedule
// is [{upper: UEL, rate: main}, {rate: upper}] and a flat one is a single
// unbounded band.
type EmployeeNIConfig struct {
	PrimaryThreshold float64   `yaml:"primary_threshold" toml:"primary_threshold" json:"primary_threshold" validate:"finite,gte=0"`
	Bands            []TaxBand `yaml:"bands" toml:"bands" json:"bands" validate:"required,min=1,dive"`
}

// CorporationTaxConfig holds the small profits rate, main rate and the
// marginal relief that smooths the step between them.
type CorporationTaxConfig struct {
	LowerLimit             float64 `yaml:"lower_limit" toml:"lower_limit" json:"lower_limit" validate:"finite,gte=0"`
	UpperLimit             float64 `yaml:"upper_limit" toml:"upper_limit" json:"upper_limit" validate:"finite,gte=0"`
	SmallRate              float64 `yaml:"small_rate" toml:"small_rate" json:"small_rate" validate:"finite,gte=0,lte=1"`
	MainRate               float64 `yaml:"main_rate" toml:"main_rate" json:"main_rate" validate:"finite,gte=0,lte=1"`
	MarginalReliefFraction float64 `yaml:"marginal_relief_fraction" toml:"marginal_relief_fraction" json:"marginal_relief_fraction" validate:"finite,gte=0,lte=1"`
}

// LtdConfig holds limited company assumptions.
type LtdConfig struct {
	// Expenses is a flat yearly estimate of allowable business costs
	Expenses float64 `yaml:"expenses" toml:"expenses" json:"expenses" validate:"finite,gte=0"`
}

// Config is the complete rule set for one tax year.
type Config struct {
	Name           string               `yaml:"name" toml:"name" json:"name"`
	StartYear      int                  `yaml:"start_year,omitempty" toml:"start_year,omitempty" json:"start_year,omitempty" validate:"omitempty,min=1990,max=2100"`
	Description    string               `yaml:"description,omitempty" toml:"description,omitempty" json:"description,omitempty"`
	HoursPerDay    float64              `yaml:"hours_per_day,omitempty" toml:"hours_per_day,omitempty" json:"hours_per_day,omitempty" validate:"omitempty,finite,gte=1,lte=24"`
	Umbrella       UmbrellaConfig       `yaml:"umbrella" toml:"umbrella" json:"umbrella"`
	EmployerNI     EmployerNIConfig     `yaml:"employer_ni" toml:"employer_ni" json:"employer_ni"`
	IncomeTax      IncomeTaxConfig      `yaml:"income_tax" toml:"income_tax" json:"income_tax"`
	EmployeeNI     EmployeeNIConfig     `yaml:"employee_ni" toml:"employee_ni" json:"employee_ni"`
	CorporationTax CorporationTaxConfig `yaml:"corporation_tax" toml:"corporation_tax" json:"corporation_tax"`
	Ltd            LtdConfig            `yaml:"ltd" toml:"ltd" json:"ltd"`
}

// GetHoursPerDay returns the working day length, using the default if not set
func (c *Config) GetHoursPerDay() float64 {
	if c.HoursPerDay <= 0 {
		return DefaultHoursPerDay
	}
	return c.HoursPerDay
}

// Label returns the display name of the tax year, falling back to the
// start year ("2025/26") when no name is configured.
func (c *Config) Label() string {
	if c.Name != "" {
		return c.Name
	}
	if c.StartYear > 0 {
		return Label(c.StartYear)
	}
	return ""
}

// Label formats the tax year starting 6 April of startYear, e.g. 2025 -> "2025/26".
func Label(startYear int) string {
	return fmt.Sprintf("%d/%02d", startYear, (startYear+1)%100)
}

// AllowanceRemovedAt returns the income at which a tapered personal
// allowance reaches zero, or 0 when tapering is off.
func (c *Config) AllowanceRemovedAt() float64 {
	t := c.IncomeTax.Taper
	if !t.Enabled || t.Rate <= 0 {
		return 0
	}
	return t.Threshold + c.IncomeTax.PersonalAllowance/t.Rate
}

// Clone returns a deep copy so callers can adjust a preset without
// changing the shared one.
func (c *Config) Clone() *Config {
	clone := *c
	clone.IncomeTax.Bands = append([]TaxBand(nil), c.IncomeTax.Bands...)
	clone.EmployeeNI.Bands = append([]TaxBand(nil), c.EmployeeNI.Bands...)
	return &clone
}

// ErrInvalidConfig is wrapped by every error returned from Validate.
var ErrInvalidConfig = errors.New("invalid tax year config")

// Validate checks ranges on every field and the ordering rules the
// calculators rely on.
func (c *Config) Validate() error {
	violations, err := validation.Struct(c)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	var problems []string
	for _, v := range violations {
		problems = append(problems, v.String())
	}

	if c.Label() == "" {
		problems = append(problems, "name is required")
	}
	problems = append(problems, checkBands("income_tax.bands", c.IncomeTax.Bands, 0)...)
	problems = append(problems, checkBands("employee_ni.bands", c.EmployeeNI.Bands, c.EmployeeNI.PrimaryThreshold)...)

	ct := c.CorporationTax
	if ct.UpperLimit <= ct.LowerLimit {
		problems = append(problems, fmt.Sprintf("corporation_tax.upper_limit must be greater than lower_limit (%.2f <= %.2f)",
			ct.UpperLimit, ct.LowerLimit))
	}
	if ct.SmallRate > ct.MainRate {
		problems = append(problems, "corporation_tax.small_rate must not exceed main_rate")
	}
	if c.IncomeTax.Taper.Enabled && c.IncomeTax.Taper.Rate <= 0 {
		problems = append(problems, "income_tax.taper.rate must be greater than 0 when tapering is enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w %q: %s", ErrInvalidConfig, c.Label(), strings.Join(problems, "; "))
	}
	return nil
}

// checkBands enforces strictly increasing upper limits above start and a
// single unbounded band in last position.
func checkBands(field string, bands []TaxBand, start float64) []string {
	var problems []string
	lower := start
	for i, band := range bands {
		last := i == len(bands)-1
		if band.Unbounded() {
			if !last {
				problems = append(problems, fmt.Sprintf("%s[%d] is unbounded but is not the last band", field, i))
			}
			continue
		}
		if last {
			problems = append(problems, fmt.Sprintf("%s[%d] must be unbounded (omit upper) so the top rate is explicit", field, i))
		}
		if band.Upper <= lower {
			problems = append(problems, fmt.Sprintf("%s[%d].upper must be greater than %.2f (got %.2f)", field, i, lower, band.Upper))
		}
		lower = band.Upper
	}
	return problems
}
