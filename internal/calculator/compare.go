package calculator

import (
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// Comparison puts both models side by side for one contract.
type Comparison struct {
	Umbrella Breakdown `json:"umbrella"`
	Ltd      Breakdown `json:"ltd"`
	// NetDifference and MonthlyDifference are ltd minus umbrella
	NetDifference     decimal.Decimal `json:"net_difference"`
	MonthlyDifference decimal.Decimal `json:"monthly_difference"`
	// Better is "umbrella", "ltd" or "equal"
	Better string `json:"better"`
}

// Compare runs both models on the same contract. Differences are taken
// between the rounded figures so they match what reports show.
func (c *Calculator) Compare(p CompareParams) (Comparison, error) {
	u, err := c.Umbrella(p.Umbrella())
	if err != nil {
		return Comparison{}, err
	}
	l, err := c.Ltd(p.Ltd())
	if err != nil {
		return Comparison{}, err
	}

	cmp := Comparison{
		Umbrella: u.Breakdown(),
		Ltd:      l.Breakdown(),
	}
	cmp.NetDifference = cmp.Ltd.Net().Sub(cmp.Umbrella.Net())
	cmp.MonthlyDifference = cmp.Ltd.Monthly().Sub(cmp.Umbrella.Monthly())

	switch cmp.NetDifference.Sign() {
	case 1:
		cmp.Better = string(ModelLtd)
	case -1:
		cmp.Better = string(ModelUmbrella)
	default:
		cmp.Better = "equal"
	}
	return cmp, nil
}

func (c Comparison) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Umbrella          Breakdown `json:"umbrella"`
		Ltd               Breakdown `json:"ltd"`
		NetDifference     fixed2    `json:"net_difference"`
		MonthlyDifference fixed2    `json:"monthly_difference"`
		Better            string    `json:"better"`
	}{c.Umbrella, c.Ltd, fixed2(c.NetDifference), fixed2(c.MonthlyDifference), c.Better})
}
