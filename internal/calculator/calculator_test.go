package calculator

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"goContractorPay/internal/taxyear"
)

// tolerance for floating point comparisons (£0.01)
const tolerance = 0.01

func assertMoney(t *testing.T, expected, actual float64, description string) {
	t.Helper()
	if math.Abs(expected-actual) > tolerance {
		t.Errorf("%s: expected £%.2f, got £%.2f (diff: £%.2f)",
			description, expected, actual, actual-expected)
	}
}

func defaultUmbrella() UmbrellaParams {
	return UmbrellaParams{ContractInput: DefaultContract()}
}

func defaultLtd() LtdParams {
	return LtdParams{ContractInput: DefaultContract(), LtdOptions: DefaultLtdOptions()}
}

// =============================================================================
// Canonical scenarios (default tax year, £500/day, 5 days, 46 weeks)
// =============================================================================

func TestUmbrella_DefaultScenario(t *testing.T) {
	b, err := New(nil).ComputeUmbrella(defaultUmbrella())
	if err != nil {
		t.Fatalf("ComputeUmbrella: %v", err)
	}

	expected := []struct {
		key    string
		amount float64
	}{
		{KeyAnnualContractIncome, 115000},
		{KeyUmbrellaMargin, 1150}, // 25 × 46
		{KeyEmployerNI, 15870},    // 115000 × 13.8%
		{KeyEmployerPension, 0},
		{KeyAdjustedGross, 97980}, // 115000 − 15870 − 1150
		{KeyEmployeePension, 0},
		{KeyPersonalAllowance, 12570}, // below the taper threshold
		{KeyTaxableIncome, 85410},     // 97980 − 12570
		{KeyIncomeTax, 26624},         // 37700 × 20% + 47710 × 40%
		{KeyEmployeeNI, 5478.20},      // 37700 × 12% + 47710 × 2%
		{KeyOtherDeductions, 0},
		{KeyNetPay, 65877.80},
		{KeyMonthly, 5489.82}, // 65877.80 / 12
		{KeyWeekly, 1432.13},  // 65877.80 / 46
	}

	if b.Len() != len(expected) {
		t.Fatalf("expected %d lines, got %d", len(expected), b.Len())
	}
	for i, line := range b.Lines() {
		if line.Key != expected[i].key {
			t.Errorf("line %d: expected key %s, got %s", i, expected[i].key, line.Key)
		}
		assertMoney(t, expected[i].amount, line.Amount.InexactFloat64(), line.Label)
	}
	if b.Model != ModelUmbrella {
		t.Errorf("expected model umbrella, got %s", b.Model)
	}
	if b.TaxYear != "2025/26" {
		t.Errorf("expected tax year 2025/26, got %s", b.TaxYear)
	}
}

func TestLtd_DefaultScenario(t *testing.T) {
	b, err := New(nil).ComputeLtd(defaultLtd())
	if err != nil {
		t.Fatalf("ComputeLtd: %v", err)
	}

	expected := []struct {
		key    string
		amount float64
	}{
		{KeyGrossIncome, 115000},
		{KeySalary, 12000},
		{KeyExpenses, 1000},
		{KeyProfitBeforeTax, 102000},
		{KeyCorporationTax, 23280}, // 102000 × 25% − (250000 − 102000) × 3/200
		{KeyPostTaxProfit, 78720},
		{KeyDividendTax, 6888}, // 78720 × 8.75%
		{KeyNetDividends, 71832},
		{KeyTotalNetIncome, 83832},
		{KeyMonthly, 6986.00},
		{KeyWeekly, 1822.43},
	}

	if b.Len() != len(expected) {
		t.Fatalf("expected %d lines, got %d", len(expected), b.Len())
	}
	for i, line := range b.Lines() {
		if line.Key != expected[i].key {
			t.Errorf("line %d: expected key %s, got %s", i, expected[i].key, line.Key)
		}
		assertMoney(t, expected[i].amount, line.Amount.InexactFloat64(), line.Label)
	}
}

func TestCompare_DefaultScenario(t *testing.T) {
	p := CompareParams{ContractInput: DefaultContract(), LtdOptions: DefaultLtdOptions()}
	cmp, err := New(nil).Compare(p)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}

	assertMoney(t, 65877.80, cmp.Umbrella.Net().InexactFloat64(), "umbrella net")
	assertMoney(t, 83832, cmp.Ltd.Net().InexactFloat64(), "ltd net")
	assertMoney(t, 17954.20, cmp.NetDifference.InexactFloat64(), "annual difference")
	assertMoney(t, 1496.18, cmp.MonthlyDifference.InexactFloat64(), "monthly difference")
	if cmp.Better != "ltd" {
		t.Errorf("expected ltd to be better, got %s", cmp.Better)
	}
}

func TestCompare_Equal(t *testing.T) {
	p := CompareParams{ContractInput: DefaultContract()}
	p.Rate = 0
	p.WeeksPerYear = 1

	// Umbrella nets −25 (the margin); ltd nets −1000 (expenses). Umbrella wins.
	cmp, err := New(nil).Compare(p)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if cmp.Better != "umbrella" {
		t.Errorf("expected umbrella to be better, got %s", cmp.Better)
	}

	// With no umbrella margin and no expenses both models net zero
	cfg := taxyear.Default()
	cfg.Umbrella.WeeklyMargin = 0
	cfg.Ltd.Expenses = 0
	cmp, err = New(cfg).Compare(p)
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if cmp.Better != "equal" {
		t.Errorf("expected equal, got %s (difference %s)", cmp.Better, cmp.NetDifference)
	}
}

// =============================================================================
// Rate conversion
// =============================================================================

func TestAnnualIncome_RateTypes(t *testing.T) {
	tests := []struct {
		name     string
		in       ContractInput
		expected float64
	}{
		{"daily", ContractInput{Rate: 500, RateType: Daily, DaysPerWeek: 5, WeeksPerYear: 46}, 115000},
		{"hourly uses 8 hours a day", ContractInput{Rate: 50, RateType: Hourly, DaysPerWeek: 5, WeeksPerYear: 46}, 92000},
		{"weekly ignores days", ContractInput{Rate: 2000, RateType: Weekly, DaysPerWeek: 3, WeeksPerYear: 46}, 92000},
		{"zero rate", ContractInput{Rate: 0, RateType: Daily, DaysPerWeek: 5, WeeksPerYear: 46}, 0},
	}

	c := New(nil)
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := c.AnnualIncome(tc.in)
			if err != nil {
				t.Fatalf("AnnualIncome: %v", err)
			}
			assertMoney(t, tc.expected, got, tc.name)
		})
	}
}

func TestAnnualIncome_HoursPerDayFromConfig(t *testing.T) {
	cfg := taxyear.Default()
	cfg.HoursPerDay = 7.5
	got, err := New(cfg).AnnualIncome(ContractInput{Rate: 40, RateType: Hourly, DaysPerWeek: 5, WeeksPerYear: 40})
	if err != nil {
		t.Fatalf("AnnualIncome: %v", err)
	}
	assertMoney(t, 60000, got, "40 × 7.5 × 5 × 40")
}

func TestParseRateType(t *testing.T) {
	for _, s := range []string{"daily", "Daily", " HOURLY ", "weekly"} {
		if _, err := ParseRateType(s); err != nil {
			t.Errorf("ParseRateType(%q): %v", s, err)
		}
	}

	_, err := ParseRateType("monthly")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "rate_type") {
		t.Errorf("expected error to name rate_type, got %q", err)
	}
}

// =============================================================================
// Schedules
// =============================================================================

func TestIncomeTax_BandBoundaries(t *testing.T) {
	c := New(nil)
	tests := []struct {
		taxable  float64
		expected float64
	}{
		{0, 0},
		{-100, 0},
		{10000, 2000},
		{37700, 7540}, // top of the basic band
		{37701, 7540.40},
		{125140, 7540 + (125140-37700)*0.40},
		{200000, 7540 + (125140-37700)*0.40 + (200000-125140)*0.45},
	}
	for _, tc := range tests {
		assertMoney(t, tc.expected, c.IncomeTax(tc.taxable), "income tax")
	}

	// No jump at a band boundary
	below := c.IncomeTax(37700 - 0.01)
	above := c.IncomeTax(37700 + 0.01)
	if above-below > 0.01 {
		t.Errorf("income tax jumps at 37,700: %.4f -> %.4f", below, above)
	}
}

func TestPersonalAllowance_Taper(t *testing.T) {
	c := New(nil)
	tests := []struct {
		income   float64
		expected float64
	}{
		{50000, 12570},
		{100000, 12570}, // exactly at the threshold
		{110000, 7570},  // loses 10000 / 2
		{125140, 0},     // fully removed
		{200000, 0},
	}
	for _, tc := range tests {
		assertMoney(t, tc.expected, c.PersonalAllowance(tc.income), "personal allowance")
	}
}

func TestPersonalAllowance_NoTaper(t *testing.T) {
	cfg, err := taxyear.Lookup("2025/26-basic")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	assertMoney(t, 12570, New(cfg).PersonalAllowance(200000), "allowance without taper")
}

func TestEmployeeNI(t *testing.T) {
	c := New(nil)
	tests := []struct {
		earnings float64
		expected float64
	}{
		{-500, 0},
		{12570, 0},
		{20000, 891.60},  // 7430 × 12%
		{50270, 4524},    // 37700 × 12%
		{60270, 4724},    // + 10000 × 2%
		{97980, 5478.20}, // canonical scenario
	}
	for _, tc := range tests {
		assertMoney(t, tc.expected, c.EmployeeNI(tc.earnings), "employee NI")
	}
}

func TestEmployeeNI_FlatSchedule(t *testing.T) {
	cfg := taxyear.Default()
	cfg.EmployeeNI.Bands = []taxyear.TaxBand{{Name: "Flat", Rate: 0.10}}
	assertMoney(t, 1000, New(cfg).EmployeeNI(22570), "flat 10% over the primary threshold")
}

func TestEmployerNI(t *testing.T) {
	assertMoney(t, 15870, New(nil).EmployerNI(115000), "whole income at 13.8%")

	cfg, err := taxyear.Lookup("2025/26-hmrc")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	c := New(cfg)
	assertMoney(t, 16500, c.EmployerNI(115000), "(115000 − 5000) × 15%")
	assertMoney(t, 0, c.EmployerNI(4000), "below the secondary threshold")
}

func TestCorporationTax(t *testing.T) {
	c := New(nil)
	tests := []struct {
		name     string
		profit   float64
		expected float64
	}{
		{"loss", -5000, 0},
		{"zero", 0, 0},
		{"small profits", 30000, 5700},
		{"lower limit", 50000, 9500},
		{"marginal relief", 102000, 23280},
		{"upper limit", 250000, 62500},
		{"main rate", 300000, 75000},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertMoney(t, tc.expected, c.CorporationTax(tc.profit), tc.name)
		})
	}

	// Marginal relief joins both rates without a step
	assertMoney(t, c.CorporationTax(50000), c.CorporationTax(50000.01), "continuity at the lower limit")
	assertMoney(t, c.CorporationTax(250000), c.CorporationTax(249999.99), "continuity at the upper limit")
}

// =============================================================================
// Pipeline edge cases
// =============================================================================

func TestUmbrella_ZeroRate(t *testing.T) {
	p := defaultUmbrella()
	p.Rate = 0
	p.EmployeePensionPct = 5
	r, err := New(nil).Umbrella(p)
	if err != nil {
		t.Fatalf("Umbrella: %v", err)
	}

	assertMoney(t, -1150, r.AdjustedGross, "margin only")
	assertMoney(t, 0, r.EmployeePension, "no pension on a negative gross")
	assertMoney(t, 0, r.TaxableIncome, "taxable income floors at zero")
	assertMoney(t, 0, r.IncomeTax, "income tax")
	assertMoney(t, 0, r.EmployeeNI, "employee NI")
	assertMoney(t, -1150, r.NetPay, "net pay")
}

func TestUmbrella_Pensions(t *testing.T) {
	p := defaultUmbrella()
	p.EmployeePensionPct = 5
	p.EmployerPensionPct = 3
	r, err := New(nil).Umbrella(p)
	if err != nil {
		t.Fatalf("Umbrella: %v", err)
	}

	assertMoney(t, 3450, r.EmployerPension, "3% of 115000")
	assertMoney(t, 101430, r.AdjustedGross, "97980 + 3450")
	assertMoney(t, 5071.50, r.EmployeePension, "5% of 101430")
	assertMoney(t, 11855, r.PersonalAllowance, "taper on adjusted gross")
	assertMoney(t, 101430-11855-5071.50, r.TaxableIncome, "taxable after sacrifice")

	net := r.AdjustedGross - r.IncomeTax - r.EmployeeNI - r.EmployeePension
	assertMoney(t, net, r.NetPay, "net pay identity")
}

func TestUmbrella_OtherDeductions(t *testing.T) {
	p := defaultUmbrella()
	p.AdditionalDeductions = 1200
	b, err := New(nil).ComputeUmbrella(p)
	if err != nil {
		t.Fatalf("ComputeUmbrella: %v", err)
	}
	assertMoney(t, 65877.80-1200, b.Net().InexactFloat64(), "deductions come off net pay")
	assertMoney(t, 1200, b.Amount(KeyOtherDeductions), "other deductions line")
}

func TestLtd_SalaryAboveIncome(t *testing.T) {
	p := defaultLtd()
	p.ContractInput = ContractInput{Rate: 100, RateType: Daily, DaysPerWeek: 5, WeeksPerYear: 20}
	r, err := New(nil).Ltd(p)
	if err != nil {
		t.Fatalf("Ltd: %v", err)
	}

	assertMoney(t, -3000, r.ProfitBeforeTax, "10000 − 12000 − 1000")
	assertMoney(t, 0, r.CorporationTax, "no corporation tax on a loss")
	assertMoney(t, 0, r.DividendTax, "no dividend tax on a loss")
	assertMoney(t, -3000, r.NetDividends, "the loss reduces take-home")
	assertMoney(t, 9000, r.TotalNetIncome, "salary minus the loss")
}

func TestNetBelowGross(t *testing.T) {
	c := New(nil)
	for rate := 100.0; rate <= 2000; rate += 100 {
		p := defaultUmbrella()
		p.Rate = rate
		r, err := c.Umbrella(p)
		if err != nil {
			t.Fatalf("Umbrella(%v): %v", rate, err)
		}
		if r.NetPay > r.AdjustedGross {
			t.Errorf("rate %v: net %.2f above adjusted gross %.2f", rate, r.NetPay, r.AdjustedGross)
		}
	}
}

func TestTakeHome_MonotonicInRate(t *testing.T) {
	c := New(nil)
	prevUmbrella, prevLtd := math.Inf(-1), math.Inf(-1)
	for rate := 0.0; rate <= 2000; rate += 25 {
		u := defaultUmbrella()
		u.Rate = rate
		ur, err := c.Umbrella(u)
		if err != nil {
			t.Fatalf("Umbrella(%v): %v", rate, err)
		}
		l := defaultLtd()
		l.Rate = rate
		lr, err := c.Ltd(l)
		if err != nil {
			t.Fatalf("Ltd(%v): %v", rate, err)
		}

		if ur.NetPay < prevUmbrella {
			t.Errorf("umbrella net fell at rate %v: %.2f < %.2f", rate, ur.NetPay, prevUmbrella)
		}
		if lr.TotalNetIncome < prevLtd {
			t.Errorf("ltd net fell at rate %v: %.2f < %.2f", rate, lr.TotalNetIncome, prevLtd)
		}
		prevUmbrella, prevLtd = ur.NetPay, lr.TotalNetIncome
	}
}

func TestDeterministic(t *testing.T) {
	c := New(nil)
	first, err := c.ComputeUmbrella(defaultUmbrella())
	if err != nil {
		t.Fatal(err)
	}
	second, err := c.ComputeUmbrella(defaultUmbrella())
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("two runs produced different breakdowns")
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("two runs produced different JSON:\n%s\n%s", a, b)
	}
}

func TestPackageHelpers_UseDefaultYear(t *testing.T) {
	b, err := ComputeUmbrella(defaultUmbrella())
	if err != nil {
		t.Fatal(err)
	}
	assertMoney(t, 65877.80, b.Net().InexactFloat64(), "ComputeUmbrella")

	b, err = ComputeLtd(defaultLtd())
	if err != nil {
		t.Fatal(err)
	}
	assertMoney(t, 83832, b.Net().InexactFloat64(), "ComputeLtd")
}

func TestNew_CopiesConfig(t *testing.T) {
	cfg := taxyear.Default()
	c := New(cfg)
	cfg.EmployerNI.Rate = 0.5
	assertMoney(t, 15870, c.EmployerNI(115000), "later edits to cfg are not seen")
}

// =============================================================================
// Rounding
// =============================================================================

func TestBreakdown_RoundsFromUnroundedValues(t *testing.T) {
	// 6.0599 / 12 = 0.50499 rounds to 0.50. Rounding net first would give
	// 6.06 / 12 = 0.505 and then 0.51.
	r := UmbrellaResult{NetPay: 6.0599, Monthly: 6.0599 / 12}
	b := r.Breakdown()

	if got := b.Monthly().StringFixed(2); got != "0.50" {
		t.Errorf("expected monthly 0.50, got %s", got)
	}
	if got := b.Net().StringFixed(2); got != "6.06" {
		t.Errorf("expected net 6.06, got %s", got)
	}
}

func TestUmbrella_PeriodsFromUnroundedNet(t *testing.T) {
	c := New(nil)
	reordered := 0
	for i := 0; i < 1000; i++ {
		p := defaultUmbrella()
		p.Rate = 500 + float64(i)/100
		r, err := c.Umbrella(p)
		if err != nil {
			t.Fatalf("Umbrella(%.2f): %v", p.Rate, err)
		}
		b, err := ComputeUmbrella(p)
		if err != nil {
			t.Fatalf("ComputeUmbrella(%.2f): %v", p.Rate, err)
		}

		want := round2(r.NetPay / 12)
		if !b.Monthly().Equal(want) {
			t.Errorf("rate %.2f: expected monthly %s, got %s", p.Rate, want.StringFixed(2), b.Monthly().StringFixed(2))
		}
		weekly, _ := b.Get(KeyWeekly)
		if want := round2(r.NetPay / float64(p.WeeksPerYear)); !weekly.Equal(want) {
			t.Errorf("rate %.2f: expected weekly %s, got %s", p.Rate, want.StringFixed(2), weekly.StringFixed(2))
		}
		if !round2(round2(r.NetPay).InexactFloat64() / 12).Equal(want) {
			reordered++
		}
	}
	// Some rates must land where rounding the net first moves monthly by a
	// penny, otherwise the loop above shows nothing about the order.
	if reordered == 0 {
		t.Fatal("no rate in the range depends on the rounding order")
	}
}

func TestRound2_HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in       float64
		expected string
	}{
		{0.505, "0.51"},
		{-0.505, "-0.51"},
		{1.004, "1.00"},
		{5489.816666, "5489.82"},
	}
	for _, tc := range tests {
		if got := round2(tc.in).StringFixed(2); got != tc.expected {
			t.Errorf("round2(%v): expected %s, got %s", tc.in, tc.expected, got)
		}
	}
}

// =============================================================================
// Invalid input
// =============================================================================

func TestInvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *UmbrellaParams)
		field  string
		msg    string
	}{
		{"days too high", func(p *UmbrellaParams) { p.DaysPerWeek = 9 }, "days_per_week", "days_per_week must be at most 7 (got 9)"},
		{"days zero", func(p *UmbrellaParams) { p.DaysPerWeek = 0 }, "days_per_week", "must be at least 1"},
		{"weeks too high", func(p *UmbrellaParams) { p.WeeksPerYear = 53 }, "weeks_per_year", "must be at most 52"},
		{"weeks zero", func(p *UmbrellaParams) { p.WeeksPerYear = 0 }, "weeks_per_year", "must be at least 1"},
		{"negative rate", func(p *UmbrellaParams) { p.Rate = -1 }, "rate", "must be at least 0"},
		{"NaN rate", func(p *UmbrellaParams) { p.Rate = math.NaN() }, "rate", "must be a finite number"},
		{"unknown rate type", func(p *UmbrellaParams) { p.RateType = "monthly" }, "rate_type", "must be one of daily, hourly, weekly"},
		{"pension over 100", func(p *UmbrellaParams) { p.EmployeePensionPct = 120 }, "employee_pension_pct", "must be at most 100"},
		{"negative deductions", func(p *UmbrellaParams) { p.AdditionalDeductions = -5 }, "additional_deductions", "must be at least 0"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := defaultUmbrella()
			tc.mutate(&p)

			_, err := New(nil).ComputeUmbrella(p)
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			var iie *InvalidInputError
			if !errors.As(err, &iie) {
				t.Fatalf("expected *InvalidInputError, got %T", err)
			}
			if fields := iie.Fields(); len(fields) != 1 || fields[0] != tc.field {
				t.Errorf("expected field %s, got %v", tc.field, fields)
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Errorf("expected message to contain %q, got %q", tc.msg, err)
			}
		})
	}
}

func TestInvalidInput_Ltd(t *testing.T) {
	p := defaultLtd()
	p.DividendTaxRate = 1.5
	p.DirectorSalary = -1

	_, err := New(nil).ComputeLtd(p)
	var iie *InvalidInputError
	if !errors.As(err, &iie) {
		t.Fatalf("expected *InvalidInputError, got %v", err)
	}
	if !reflect.DeepEqual(iie.Fields(), []string{"director_salary", "dividend_tax_rate"}) {
		t.Errorf("expected both fields reported, got %v", iie.Fields())
	}
}

// =============================================================================
// JSON
// =============================================================================

func TestBreakdown_JSON(t *testing.T) {
	b, err := New(nil).ComputeUmbrella(defaultUmbrella())
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(b)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	out := string(data)

	for _, want := range []string{
		`"model":"umbrella"`,
		`"tax_year":"2025/26"`,
		`{"key":"annual_contract_income","label":"Annual Contract Income","amount":115000.00}`,
		`"net_pay":65877.80`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected JSON to contain %s, got %s", want, out)
		}
	}

	// Keys in "amounts" follow the calculation order
	first := strings.Index(out, `"annual_contract_income":`)
	last := strings.Index(out, `"weekly":`)
	if first < 0 || last < first {
		t.Errorf("amounts out of order: %s", out)
	}
}

func TestComparison_JSON(t *testing.T) {
	p := CompareParams{ContractInput: DefaultContract(), LtdOptions: DefaultLtdOptions()}
	cmp, err := New(nil).Compare(p)
	if err != nil {
		t.Fatal(err)
	}
	data, err := json.Marshal(cmp)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	for _, want := range []string{`"net_difference":17954.20`, `"monthly_difference":1496.18`, `"better":"ltd"`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("expected JSON to contain %s, got %s", want, data)
		}
	}
}
