package main

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"goContractorPay/internal/calculator"
	"goContractorPay/internal/report"
	"goContractorPay/internal/sweep"
)

// parseMoney parses money strings like "500", "£12k" and "1.2m"
func parseMoney(input string) (float64, error) {
	input = strings.TrimSpace(strings.ToLower(input))
	input = strings.TrimPrefix(input, "£")
	input = strings.ReplaceAll(input, ",", "")
	multiplier := 1.0
	if strings.HasSuffix(input, "k") {
		multiplier = 1000
		input = strings.TrimSuffix(input, "k")
	} else if strings.HasSuffix(input, "m") {
		multiplier = 1000000
		input = strings.TrimSuffix(input, "m")
	}
	val, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q (use 500, 12k or 1.2m)", input)
	}
	return val * multiplier, nil
}

// parsePercentOrDecimal converts "8.75%" or "0.0875" to 0.0875
func parsePercentOrDecimal(input string) (float64, error) {
	input = strings.TrimSpace(input)
	if strings.HasSuffix(input, "%") {
		num, err := strconv.ParseFloat(strings.TrimSuffix(input, "%"), 64)
		if err != nil {
			return 0, err
		}
		return num / 100.0, nil
	}
	return strconv.ParseFloat(input, 64)
}

func formatMoneyShort(amount float64) string {
	if amount >= 1000000 {
		return fmt.Sprintf("£%.1fm", amount/1000000)
	} else if amount >= 1000 {
		return fmt.Sprintf("£%gk", amount/1000)
	}
	return fmt.Sprintf("£%g", amount)
}

// moneyFlag is a flag.Value accepting parseMoney input.
type moneyFlag float64

func (m *moneyFlag) String() string { return strconv.FormatFloat(float64(*m), 'f', -1, 64) }

func (m *moneyFlag) Set(s string) error {
	v, err := parseMoney(s)
	if err != nil {
		return err
	}
	*m = moneyFlag(v)
	return nil
}

// fractionFlag is a flag.Value accepting "8.75%" or "0.0875".
type fractionFlag float64

func (f *fractionFlag) String() string { return strconv.FormatFloat(float64(*f), 'f', -1, 64) }

func (f *fractionFlag) Set(s string) error {
	v, err := parsePercentOrDecimal(s)
	if err != nil {
		return fmt.Errorf("invalid rate %q (use 8.75%% or 0.0875)", s)
	}
	*f = fractionFlag(v)
	return nil
}

// prompter asks for contract details on a console, offering the current
// value of each field as its default.
type prompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{reader: bufio.NewReader(in), out: out}
}

// readLine returns the trimmed next line and whether input continues
// after it. A last line without a newline is returned with more false.
func (p *prompter) readLine() (line string, more bool) {
	input, err := p.reader.ReadString('\n')
	return strings.TrimSpace(input), err == nil
}

func (p *prompter) promptString(prompt, defaultVal string) (string, bool) {
	if defaultVal != "" {
		fmt.Fprintf(p.out, "%s [%s]: ", prompt, defaultVal)
	} else {
		fmt.Fprintf(p.out, "%s: ", prompt)
	}
	input, more := p.readLine()
	if input == "" {
		return defaultVal, more
	}
	return input, more
}

// promptChoice repeats until the answer is one of choices. Once input runs
// out it returns the last answer unchecked, so an invalid default is left
// for validation to reject.
func (p *prompter) promptChoice(prompt, defaultVal string, choices []string) string {
	for {
		answer, more := p.promptString(fmt.Sprintf("%s (%s)", prompt, strings.Join(choices, "/")), defaultVal)
		answer = strings.ToLower(answer)
		for _, c := range choices {
			if answer == c {
				return c
			}
		}
		if !more {
			fmt.Fprintln(p.out)
			return answer
		}
		fmt.Fprintf(p.out, "  ✗ Choose one of %s\n", strings.Join(choices, ", "))
	}
}

func (p *prompter) promptInt(prompt string, defaultVal, lo, hi int) int {
	for {
		fmt.Fprintf(p.out, "%s [%d]: ", prompt, defaultVal)
		input, more := p.readLine()
		if input == "" {
			return defaultVal
		}
		val, err := strconv.Atoi(input)
		if err != nil {
			fmt.Fprintf(p.out, "  ✗ Invalid number. Please enter a whole number\n")
			if !more {
				return defaultVal
			}
			continue
		}
		if val < lo || val > hi {
			fmt.Fprintf(p.out, "  ✗ Must be between %d and %d (got %d)\n", lo, hi, val)
			if !more {
				return defaultVal
			}
			continue
		}
		return val
	}
}

func (p *prompter) promptMoney(prompt string, defaultVal float64) float64 {
	for {
		fmt.Fprintf(p.out, "%s [%s]: ", prompt, formatMoneyShort(defaultVal))
		input, more := p.readLine()
		if input == "" {
			return defaultVal
		}
		val, err := parseMoney(input)
		if err != nil {
			fmt.Fprintf(p.out, "  ✗ Invalid amount. Enter as '500', '12k' or '1.2m'\n")
			if !more {
				return defaultVal
			}
			continue
		}
		if val < 0 {
			fmt.Fprintf(p.out, "  ✗ Amount cannot be negative\n")
			if !more {
				return defaultVal
			}
			continue
		}
		return val
	}
}

// promptPercent asks for a fraction, accepting "5%" or "0.05".
func (p *prompter) promptPercent(prompt string, defaultVal float64) float64 {
	for {
		fmt.Fprintf(p.out, "%s [%g%%]: ", prompt, defaultVal*100)
		input, more := p.readLine()
		if input == "" {
			return defaultVal
		}
		val, err := parsePercentOrDecimal(input)
		if err != nil {
			fmt.Fprintf(p.out, "  ✗ Invalid percentage. Enter as '5%%' or '0.05'\n")
			if !more {
				return defaultVal
			}
			continue
		}
		if val < 0 || val > 1 {
			fmt.Fprintf(p.out, "  ✗ Rate must be between 0%% and 100%% (got %g%%)\n", val*100)
			if !more {
				return defaultVal
			}
			continue
		}
		return val
	}
}

// fill prompts for the fields the chosen report kind uses and returns the
// kind, which may itself have been changed at the first prompt.
func (p *prompter) fill(kind string, req *sweep.Request) string {
	fmt.Fprintln(p.out, "Contractor take-home pay")
	fmt.Fprintln(p.out, "Press Enter to keep the value in brackets.")
	fmt.Fprintln(p.out)

	kind = p.promptChoice("Report", kind, report.Kinds)

	rateTypes := make([]string, len(calculator.RateTypes))
	for i, rt := range calculator.RateTypes {
		rateTypes[i] = string(rt)
	}
	in := &req.ContractInput
	in.RateType = calculator.RateType(p.promptChoice("Rate type", string(in.RateType), rateTypes))
	if kind != report.KindSweep {
		in.Rate = p.promptMoney("Contract rate", in.Rate)
	}
	in.DaysPerWeek = p.promptInt("Days per week", in.DaysPerWeek, 1, 7)
	in.WeeksPerYear = p.promptInt("Weeks per year", in.WeeksPerYear, 1, 52)

	if kind != string(calculator.ModelLtd) {
		req.EmployeePensionPct = p.promptPercent("Employee pension", req.EmployeePensionPct/100) * 100
		req.EmployerPensionPct = p.promptPercent("Employer pension", req.EmployerPensionPct/100) * 100
		req.AdditionalDeductions = p.promptMoney("Other yearly deductions", req.AdditionalDeductions)
	}
	if kind != string(calculator.ModelUmbrella) {
		req.DirectorSalary = p.promptMoney("Director salary", req.DirectorSalary)
		req.DividendTaxRate = p.promptPercent("Dividend tax rate", req.DividendTaxRate)
	}
	if kind == report.KindSweep {
		req.Min = p.promptMoney("Lowest rate", req.Min)
		req.Max = p.promptMoney("Highest rate", req.Max)
		req.Step = p.promptMoney("Step", req.Step)
	}
	fmt.Fprintln(p.out)
	return kind
}
