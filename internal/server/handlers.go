package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"

	"goContractorPay/internal/calculator"
	"goContractorPay/internal/report"
	"goContractorPay/internal/sweep"
	"goContractorPay/internal/taxyear"
)

type taxYearSummary struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Default     bool   `json:"default"`
}

type umbrellaRequest struct {
	TaxYear string `json:"tax_year"`
	calculator.UmbrellaParams
}

type ltdRequest struct {
	TaxYear string `json:"tax_year"`
	calculator.LtdParams
}

type compareRequest struct {
	TaxYear string `json:"tax_year"`
	calculator.CompareParams
}

type sweepRequest struct {
	TaxYear string `json:"tax_year"`
	sweep.Request
}

// exportRequest picks a model and carries the fields of the matching
// endpoint; sweep exports also need min, max and step.
type exportRequest struct {
	Model   string `json:"model"`
	Title   string `json:"title"`
	TaxYear string `json:"tax_year"`
	sweep.Request
}

func defaultCompareParams() calculator.CompareParams {
	return calculator.CompareParams{
		ContractInput: calculator.DefaultContract(),
		LtdOptions:    calculator.DefaultLtdOptions(),
	}
}

// decode reads the whole body and decodes it over dst, so fields the
// client leaves out keep their defaults. Unknown fields are rejected.
func decode(r *http.Request, dst any) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %v", errBadRequest, err)
	}
	return nil
}

// normalizeRateType accepts "Daily" and friends from form posts.
func normalizeRateType(in *calculator.ContractInput) error {
	rt, err := calculator.ParseRateType(string(in.RateType))
	if err != nil {
		return err
	}
	in.RateType = rt
	return nil
}

func (s *Server) handleTaxYears(w http.ResponseWriter, r *http.Request) {
	presets := taxyear.Presets()
	years := make([]taxYearSummary, 0, len(presets))
	for _, p := range presets {
		years = append(years, taxYearSummary{
			Name:        p.Name,
			Label:       p.Label(),
			Description: p.Description,
			Default:     strings.EqualFold(p.Name, s.year.Name),
		})
	}
	success(w, r, years)
}

func (s *Server) handleUmbrella(w http.ResponseWriter, r *http.Request) {
	req := umbrellaRequest{UmbrellaParams: calculator.UmbrellaParams{ContractInput: calculator.DefaultContract()}}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := normalizeRateType(&req.ContractInput); err != nil {
		s.fail(w, r, err)
		return
	}
	calc, err := s.calculatorFor(req.TaxYear)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	b, err := calc.ComputeUmbrella(req.UmbrellaParams)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	success(w, r, b)
}

func (s *Server) handleLtd(w http.ResponseWriter, r *http.Request) {
	req := ltdRequest{LtdParams: calculator.LtdParams{
		ContractInput: calculator.DefaultContract(),
		LtdOptions:    calculator.DefaultLtdOptions(),
	}}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := normalizeRateType(&req.ContractInput); err != nil {
		s.fail(w, r, err)
		return
	}
	calc, err := s.calculatorFor(req.TaxYear)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	b, err := calc.ComputeLtd(req.LtdParams)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	success(w, r, b)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	req := compareRequest{CompareParams: defaultCompareParams()}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	if err := normalizeRateType(&req.ContractInput); err != nil {
		s.fail(w, r, err)
		return
	}
	calc, err := s.calculatorFor(req.TaxYear)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	cmp, err := calc.Compare(req.CompareParams)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	success(w, r, cmp)
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	req := sweepRequest{Request: sweep.Request{CompareParams: defaultCompareParams()}}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.runSweep(r, req.TaxYear, req.Request)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	success(w, r, res)
}

func (s *Server) runSweep(r *http.Request, taxYear string, req sweep.Request) (*sweep.Result, error) {
	if err := normalizeRateType(&req.ContractInput); err != nil {
		return nil, err
	}
	calc, err := s.calculatorFor(taxYear)
	if err != nil {
		return nil, err
	}
	req.Workers = s.sweepWorkers(req.Workers)
	return sweep.Run(r.Context(), calc, req)
}

// sweepWorkers caps a requested worker count at the configured limit.
func (s *Server) sweepWorkers(requested int) int {
	if limit := s.cfg.SweepWorkers; limit > 0 && (requested == 0 || requested > limit) {
		return limit
	}
	return requested
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := report.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	req := exportRequest{Model: report.KindCompare, Request: sweep.Request{CompareParams: defaultCompareParams()}}
	if err := decode(r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := s.exportDocument(r, req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Title != "" {
		doc.Title = req.Title
	}

	// Render fully before writing so a failure can still return an envelope
	var buf bytes.Buffer
	if err := report.Write(&buf, doc, format); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", report.Filename(doc, format)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) exportDocument(r *http.Request, req exportRequest) (report.Document, error) {
	if err := normalizeRateType(&req.ContractInput); err != nil {
		return report.Document{}, err
	}
	calc, err := s.calculatorFor(req.TaxYear)
	if err != nil {
		return report.Document{}, err
	}
	req.Workers = s.sweepWorkers(req.Workers)
	return report.Build(r.Context(), calc, req.Model, req.Request)
}
