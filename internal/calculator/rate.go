package calculator

import (
	"fmt"
	"strings"
)

// RateType says what period a contract rate covers.
type RateType string

const (
	Daily  RateType = "daily"
	Hourly RateType = "hourly"
	Weekly RateType = "weekly"
)

// RateTypes lists the accepted rate types in display order.
var RateTypes = []RateType{Daily, Hourly, Weekly}

// ParseRateType accepts any casing and surrounding whitespace ("Daily").
// Unknown values are rejected rather than defaulted.
func ParseRateType(s string) (RateType, error) {
	rt := RateType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range RateTypes {
		if rt == known {
			return rt, nil
		}
	}
	return "", invalid("rate_type", "must be one of daily, hourly, weekly", s)
}

// ContractInput is the rate and working pattern shared by both models.
type ContractInput struct {
	Rate         float64  `json:"rate" yaml:"rate" validate:"finite,gte=0"`
	RateType     RateType `json:"rate_type" yaml:"rate_type" validate:"oneof=daily hourly weekly"`
	DaysPerWeek  int      `json:"days_per_week" yaml:"days_per_week" validate:"min=1,max=7"`
	WeeksPerYear int      `json:"weeks_per_year" yaml:"weeks_per_year" validate:"min=1,max=52"`
}

// DefaultContract is £500 a day, five days a week, 46 weeks a year.
func DefaultContract() ContractInput {
	return ContractInput{Rate: 500, RateType: Daily, DaysPerWeek: 5, WeeksPerYear: 46}
}

// annualIncome converts a validated contract rate into gross annual income.
func annualIncome(in ContractInput, hoursPerDay float64) (float64, error) {
	days := float64(in.DaysPerWeek)
	weeks := float64(in.WeeksPerYear)

	switch in.RateType {
	case Daily:
		return in.Rate * days * weeks, nil
	case Hourly:
		return in.Rate * hoursPerDay * days * weeks, nil
	case Weekly:
		return in.Rate * weeks, nil
	}
	return 0, invalid("rate_type", "must be one of daily, hourly, weekly", string(in.RateType))
}

func (in ContractInput) String() string {
	return fmt.Sprintf("£%.2f %s, %d days/week, %d weeks/year", in.Rate, in.RateType, in.DaysPerWeek, in.WeeksPerYear)
}
