package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"goContractorPay/internal/calculator"
	"goContractorPay/internal/config"
	"goContractorPay/internal/report"
	"goContractorPay/internal/server"
	"goContractorPay/internal/sweep"
	"goContractorPay/internal/taxyear"
)

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitInvalid = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

const usageText = `Contractor Take-Home Pay Calculator

Estimates UK take-home pay for a contract worked through an umbrella company
(inside IR35) and through your own limited company (outside IR35), and
compares the two.

MODELS:
  umbrella   Umbrella company, inside IR35
             Employer NI and the umbrella margin come off the contract income;
             the rest is paid as salary through PAYE.

  ltd        Limited company, outside IR35
             A small director salary plus dividends from the post-tax profit.
             Corporation tax uses the small profits rate with marginal relief.

  compare    Both models side by side with the difference (default)

  sweep      Both models across a range of rates (-sweep-min/-max/-step),
             showing where the limited company starts to pay more

Usage:
  %s [options]

Options:
`

const examplesText = `
Examples:
  %[1]s                                   Compare both models at £500/day
  %[1]s -rate 650 -weeks 44               Compare at £650/day for 44 weeks
  %[1]s -model umbrella -emp-pension 5    Umbrella with a 5%% pension
  %[1]s -model ltd -salary 12570          Ltd with a £12,570 salary
  %[1]s -rate 75 -rate-type hourly        Hourly rate (8 hour day)
  %[1]s -model sweep -sweep-min 300 -sweep-max 800 -format csv
  %[1]s -format pdf -out compare.pdf      Write a PDF report
  %[1]s -interactive                      Answer prompts instead of flags
  %[1]s -list-tax-years                   Show the bundled tax years
  %[1]s -web -addr :8080                  Start the HTTP API

Amounts accept 500, 12k or 1.2m. Rates accept 8.75%% or 0.0875.

Environment:
  CONTRACTOR_TAX_YEAR, CONTRACTOR_TAX_CONFIG, CONTRACTOR_ADDR, CONTRACTOR_LOG_LEVEL,
  CONTRACTOR_LOG_FORMAT, CONTRACTOR_MAX_BODY_BYTES and CONTRACTOR_SWEEP_WORKERS
  set defaults. A .env file in the working directory is read if present.
`

// options holds the parsed command line.
type options struct {
	model        string
	format       string
	out          string
	title        string
	taxYear      string
	taxConfig    string
	listYears    bool
	interactive  bool
	web          bool
	addr         string
	rateType     string
	rate         moneyFlag
	salary       moneyFlag
	deductions   moneyFlag
	dividendRate fractionFlag
	sweepMin     moneyFlag
	sweepMax     moneyFlag
	sweepStep    moneyFlag
	req          sweep.Request
}

func parseFlags(args []string, cfg config.Config, stderr io.Writer) (*options, error) {
	contract := calculator.DefaultContract()
	ltd := calculator.DefaultLtdOptions()
	opts := &options{
		rate:         moneyFlag(contract.Rate),
		salary:       moneyFlag(ltd.DirectorSalary),
		dividendRate: fractionFlag(ltd.DividendTaxRate),
		sweepMin:     300,
		sweepMax:     800,
		sweepStep:    50,
	}

	fs := flag.NewFlagSet("goContractorPay", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, usageText, fs.Name())
		fs.PrintDefaults()
		fmt.Fprintf(stderr, examplesText, fs.Name())
	}

	fs.StringVar(&opts.model, "model", report.KindCompare, "Report: umbrella, ltd, compare or sweep")
	fs.Var(&opts.rate, "rate", "Contract rate in £ per rate type")
	fs.StringVar(&opts.rateType, "rate-type", string(contract.RateType), "Rate type: daily, hourly or weekly")
	fs.IntVar(&opts.req.DaysPerWeek, "days", contract.DaysPerWeek, "Days worked per week (1-7)")
	fs.IntVar(&opts.req.WeeksPerYear, "weeks", contract.WeeksPerYear, "Weeks worked per year (1-52)")
	fs.Float64Var(&opts.req.EmployeePensionPct, "emp-pension", 0, "Umbrella employee pension, % of adjusted gross (5 = 5%)")
	fs.Float64Var(&opts.req.EmployerPensionPct, "er-pension", 0, "Umbrella employer pension, % of contract income")
	fs.Var(&opts.deductions, "deductions", "Umbrella: other yearly deductions in £")
	fs.Var(&opts.salary, "salary", "Ltd: director salary in £")
	fs.Var(&opts.dividendRate, "dividend-rate", "Ltd: dividend tax rate (8.75% or 0.0875)")
	fs.StringVar(&opts.taxYear, "tax-year", cfg.TaxYear, "Bundled tax year to use (see -list-tax-years)")
	fs.StringVar(&opts.taxConfig, "tax-config", cfg.TaxConfigPath, "Tax year YAML or TOML file, overrides -tax-year")
	fs.StringVar(&opts.format, "format", string(report.FormatText), "Output format: text, json, csv, pdf or xlsx")
	fs.StringVar(&opts.out, "out", "", "Write the report to this file instead of stdout")
	fs.StringVar(&opts.title, "title", "", "Report title")
	fs.Var(&opts.sweepMin, "sweep-min", "Sweep: lowest rate")
	fs.Var(&opts.sweepMax, "sweep-max", "Sweep: highest rate")
	fs.Var(&opts.sweepStep, "sweep-step", "Sweep: rate increment")
	fs.IntVar(&opts.req.Workers, "workers", cfg.SweepWorkers, "Sweep: concurrent calculations (0 = one per CPU)")
	fs.BoolVar(&opts.listYears, "list-tax-years", false, "List the bundled tax years and exit")
	fs.BoolVar(&opts.interactive, "interactive", false, "Prompt for contract details on the console")
	fs.BoolVar(&opts.web, "web", false, "Start the HTTP API server")
	fs.StringVar(&opts.addr, "addr", cfg.Addr, "Listen address for -web")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %v\n", fs.Args())
		fs.Usage()
		return nil, errUsage
	}

	opts.req.Rate = float64(opts.rate)
	opts.req.RateType = calculator.RateType(opts.rateType)
	opts.req.AdditionalDeductions = float64(opts.deductions)
	opts.req.DirectorSalary = float64(opts.salary)
	opts.req.DividendTaxRate = float64(opts.dividendRate)
	opts.req.Min = float64(opts.sweepMin)
	opts.req.Max = float64(opts.sweepMax)
	opts.req.Step = float64(opts.sweepStep)
	return opts, nil
}

var errUsage = errors.New("usage")

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintf(stderr, "Error loading .env: %v\n", err)
		return exitFailure
	}
	cfg := config.Load()

	opts, err := parseFlags(args, cfg, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		return exitInvalid
	}

	if opts.listYears {
		listTaxYears(stdout, cfg.TaxYear)
		return exitOK
	}

	cfg.TaxYear = opts.taxYear
	cfg.TaxConfigPath = opts.taxConfig
	cfg.Addr = opts.addr
	year, err := cfg.LoadTaxYear()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading tax year: %v\n", err)
		return exitCode(err)
	}

	if opts.web {
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(stderr, "Error in configuration: %v\n", err)
			return exitInvalid
		}
		if err := serve(cfg, year, stderr); err != nil {
			fmt.Fprintf(stderr, "Web server error: %v\n", err)
			return exitFailure
		}
		return exitOK
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	if err := calculate(opts, calculator.New(year), stdin, stdout, logger); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCode(err)
	}
	return exitOK
}

func exitCode(err error) int {
	if errors.Is(err, calculator.ErrInvalidInput) || errors.Is(err, report.ErrUnknownFormat) || errors.Is(err, taxyear.ErrUnknownTaxYear) {
		return exitInvalid
	}
	return exitFailure
}

// serve runs the API until SIGINT or SIGTERM.
func serve(cfg config.Config, year *taxyear.Config, stderr io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(cfg, year, cfg.Logger(stderr)).Run(ctx)
}

func listTaxYears(w io.Writer, current string) {
	fmt.Fprintln(w, "Bundled tax years:")
	for _, p := range taxyear.Presets() {
		marker := " "
		if p.Label() == current {
			marker = "*"
		}
		fmt.Fprintf(w, "  %s %-16s %s\n", marker, p.Label(), p.Description)
	}
}

// calculate runs one report and writes it to stdout or opts.out.
func calculate(opts *options, calc *calculator.Calculator, stdin io.Reader, stdout io.Writer, logger *slog.Logger) error {
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	if format.Binary() && opts.out == "" {
		return &calculator.InvalidInputError{Violations: []calculator.Violation{{
			Field:      "out",
			Constraint: fmt.Sprintf("is required for %s output", format),
		}}}
	}

	kind := opts.model
	if opts.interactive {
		kind = newPrompter(stdin, stdout).fill(kind, &opts.req)
	}

	rt, err := calculator.ParseRateType(string(opts.req.RateType))
	if err != nil {
		return err
	}
	opts.req.RateType = rt

	start := time.Now()
	doc, err := report.Build(context.Background(), calc, kind, opts.req)
	if err != nil {
		return err
	}
	if opts.title != "" {
		doc.Title = opts.title
	}
	logger.Debug("report built", "kind", kind, "tax_year", calc.TaxYear(), "duration", time.Since(start))

	if opts.out == "" {
		return report.Write(stdout, doc, format)
	}
	return writeFile(opts.out, doc, format, stdout, logger)
}

func writeFile(path string, doc report.Document, format report.Format, stdout io.Writer, logger *slog.Logger) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.Write(f, doc, format); err != nil {
		f.Close()
		if rmErr := os.Remove(path); rmErr != nil {
			logger.Warn("could not remove partial report", "path", path, "err", rmErr)
		}
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Report written to %s\n", path)
	return nil
}
