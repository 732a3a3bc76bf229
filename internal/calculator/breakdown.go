package calculator

import (
	"bytes"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// Model identifies the engagement model a breakdown was computed for.
type Model string

const (
	ModelUmbrella Model = "umbrella"
	ModelLtd      Model = "ltd"
)

// Title is the heading used by reports.
func (m Model) Title() string {
	switch m {
	case ModelUmbrella:
		return "Umbrella (Inside IR35)"
	case ModelLtd:
		return "Limited Company (Outside IR35)"
	}
	return string(m)
}

// Line is one labelled amount of a breakdown.
type Line struct {
	Key    string
	Label  string
	Amount decimal.Decimal
}

// fixed2 marshals a decimal as a bare JSON number with two decimal places.
type fixed2 decimal.Decimal

func (d fixed2) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(d).StringFixed(2)), nil
}

func (l Line) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Key    string `json:"key"`
		Label  string `json:"label"`
		Amount fixed2 `json:"amount"`
	}{l.Key, l.Label, fixed2(l.Amount)})
}

// Breakdown is the ordered, rounded result of one calculation. Amounts are
// rounded to pennies when added, from unrounded inputs.
type Breakdown struct {
	Model   Model
	TaxYear string
	lines   []Line
}

func newBreakdown(model Model, taxYear string) *Breakdown {
	return &Breakdown{Model: model, TaxYear: taxYear}
}

func (b *Breakdown) add(key, label string, amount float64) {
	b.lines = append(b.lines, Line{Key: key, Label: label, Amount: round2(amount)})
}

// round2 rounds half away from zero on the shortest decimal form of v, so
// 0.505 becomes 0.51 even though its binary value is a hair below.
func round2(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// Lines returns the lines in calculation order.
func (b Breakdown) Lines() []Line {
	return append([]Line(nil), b.lines...)
}

// Len returns the number of lines.
func (b Breakdown) Len() int {
	return len(b.lines)
}

// Get returns the amount stored under key.
func (b Breakdown) Get(key string) (decimal.Decimal, bool) {
	for _, l := range b.lines {
		if l.Key == key {
			return l.Amount, true
		}
	}
	return decimal.Zero, false
}

// Amount returns the amount under key as a float, or 0 when absent.
func (b Breakdown) Amount(key string) float64 {
	d, _ := b.Get(key)
	return d.InexactFloat64()
}

// Net returns the headline annual take-home figure for the model.
func (b Breakdown) Net() decimal.Decimal {
	key := KeyNetPay
	if b.Model == ModelLtd {
		key = KeyTotalNetIncome
	}
	d, _ := b.Get(key)
	return d
}

// Monthly returns the monthly take-home figure.
func (b Breakdown) Monthly() decimal.Decimal {
	d, _ := b.Get(KeyMonthly)
	return d
}

// Labels returns label -> amount rendered with two decimals, in order. It
// is meant for simple table renderers.
func (b Breakdown) Labels() [][2]string {
	rows := make([][2]string, len(b.lines))
	for i, l := range b.lines {
		rows[i] = [2]string{l.Label, l.Amount.StringFixed(2)}
	}
	return rows
}

// MarshalJSON writes the lines as an array to keep their order, plus an
// "amounts" object keyed in the same order for direct lookups.
func (b Breakdown) MarshalJSON() ([]byte, error) {
	var amounts bytes.Buffer
	amounts.WriteByte('{')
	for i, l := range b.lines {
		if i > 0 {
			amounts.WriteByte(',')
		}
		key, err := json.Marshal(l.Key)
		if err != nil {
			return nil, err
		}
		amounts.Write(key)
		amounts.WriteByte(':')
		amounts.WriteString(l.Amount.StringFixed(2))
	}
	amounts.WriteByte('}')

	lines := b.lines
	if lines == nil {
		lines = []Line{}
	}
	return json.Marshal(struct {
		Model   Model           `json:"model"`
		TaxYear string          `json:"tax_year"`
		Lines   []Line          `json:"lines"`
		Amounts json.RawMessage `json:"amounts"`
	}{b.Model, b.TaxYear, lines, amounts.Bytes()})
}
