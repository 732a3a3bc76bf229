package report

import (
	"io"

	json "github.com/goccy/go-json"

	"goContractorPay/internal/calculator"
	"goContractorPay/internal/sweep"
)

// WriteJSON writes doc as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// MarshalJSON writes the date as YYYY-MM-DD and fills in the default title.
func (d Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Title      string                 `json:"title"`
		Date       string                 `json:"date"`
		TaxYear    string                 `json:"tax_year"`
		Breakdowns []calculator.Breakdown `json:"breakdowns,omitempty"`
		Comparison *calculator.Comparison `json:"comparison,omitempty"`
		Sweep      *sweep.Result          `json:"sweep,omitempty"`
	}{d.title(), d.date(), d.TaxYear, d.Breakdowns, d.Comparison, d.Sweep})
}
