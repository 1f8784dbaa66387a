package taxcalc

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Schedule is a marginal wealth-tax schedule. Rates are fractions (0.01 = 1 %) and
// there is exactly one more rate than there are band bounds: Rates[i] applies below
// Bounds[i], the last rate applies above the last bound.
type Schedule struct {
	Allowance decimal.Decimal
	Bounds    []decimal.Decimal
	Rates     []decimal.Decimal
}

// DefaultSchedule: allowance 1,000,000; 1.0 % up to 5 M, 1.5 % up to 10 M, 2.0 % above.
func DefaultSchedule() Schedule {
	return Schedule{
		Allowance: decimal.NewFromInt(1_000_000),
		Bounds: []decimal.Decimal{
			decimal.NewFromInt(5_000_000),
			decimal.NewFromInt(10_000_000),
		},
		Rates: []decimal.Decimal{
			decimal.RequireFromString("0.01"),
			decimal.RequireFromString("0.015"),
			decimal.RequireFromString("0.02"),
		},
	}
}

// ParseSchedule builds a schedule from configuration strings. Rates are given in percent.
func ParseSchedule(allowance string, bounds, ratesPercent []string) (Schedule, error) {
	var s Schedule

	a, err := decimal.NewFromString(allowance)
	if err != nil {
		return Schedule{}, fmt.Errorf("parse allowance %q: %w", allowance, err)
	}
	s.Allowance = a

	for _, b := range bounds {
		d, err := decimal.NewFromString(b)
		if err != nil {
			return Schedule{}, fmt.Errorf("parse band bound %q: %w", b, err)
		}
		s.Bounds = append(s.Bounds, d)
	}

	for _, r := range ratesPercent {
		d, err := decimal.NewFromString(r)
		if err != nil {
			return Schedule{}, fmt.Errorf("parse band rate %q: %w", r, err)
		}
		s.Rates = append(s.Rates, d.Div(hundred))
	}

	if err := s.Validate(); err != nil {
		return Schedule{}, err
	}

	return s, nil
}

func (s Schedule) Validate() error {
	if s.Allowance.IsNegative() {
		return errors.New("allowance must not be negative")
	}
	if len(s.Rates) != len(s.Bounds)+1 {
		return fmt.Errorf("schedule needs %d rates for %d band bounds, got %d", len(s.Bounds)+1, len(s.Bounds), len(s.Rates))
	}
	prev := decimal.Zero
	for i, b := range s.Bounds {
		if !b.GreaterThan(prev) {
			return fmt.Errorf("band bound #%d (%s) must be greater than %s", i+1, b, prev)
		}
		prev = b
	}
	for i, r := range s.Rates {
		if r.IsNegative() {
			return fmt.Errorf("band rate #%d must not be negative", i+1)
		}
	}
	return nil
}
