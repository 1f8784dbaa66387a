// Package taxcalc derives the wealth-tax estimate from asset and debt positions.
// It performs no I/O and never fails.
package taxcalc

import (
	"github.com/KotFed0t/wealth_tax_helper/internal/model"
	"github.com/shopspring/decimal"
)

type Calculator struct {
	schedule Schedule
}

func New(schedule Schedule) *Calculator {
	return &Calculator{schedule: schedule}
}

func (c *Calculator) Schedule() Schedule {
	return c.schedule
}

// Calculate runs the full computation. valuationDate is copied into the result as is.
func (c *Calculator) Calculate(assets []model.AssetPosition, debts []model.DebtPosition, valuationDate string) model.TaxResult {
	grossAssets := GrossAssets(assets)
	grossDebts := GrossDebts(debts)
	netWorth := NetWorth(grossAssets, grossDebts)
	taxableBase := TaxableBase(netWorth, c.schedule.Allowance)
	tax, bands := c.Tax(taxableBase)

	return model.TaxResult{
		GrossAssets:   grossAssets,
		GrossDebts:    grossDebts,
		NetWorth:      netWorth,
		Allowance:     c.schedule.Allowance,
		TaxableBase:   taxableBase,
		Tax:           tax,
		EffectiveRate: EffectiveRate(tax, netWorth),
		ValuationDate: valuationDate,
		Bands:         bands,
	}
}

// GrossAssets sums quantity × unit value; the stored position value is ignored.
func GrossAssets(assets []model.AssetPosition) decimal.Decimal {
	sum := decimal.Zero
	for _, a := range assets {
		sum = sum.Add(a.Value())
	}
	return sum
}

func GrossDebts(debts []model.DebtPosition) decimal.Decimal {
	sum := decimal.Zero
	for _, d := range debts {
		sum = sum.Add(d.FaceAmount)
	}
	return sum
}

// NetWorth is floored at zero; an excess of debts is not carried anywhere.
func NetWorth(grossAssets, grossDebts decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, grossAssets.Sub(grossDebts))
}

func TaxableBase(netWorth, allowance decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, netWorth.Sub(allowance))
}

// Tax applies the marginal bands to base and returns the total and each band's share.
func (c *Calculator) Tax(base decimal.Decimal) (decimal.Decimal, []model.BandTax) {
	total := decimal.Zero
	bands := make([]model.BandTax, 0, len(c.schedule.Rates))

	lower := decimal.Zero
	for i, rate := range c.schedule.Rates {
		band := model.BandTax{From: lower, Rate: rate}

		upper := decimal.Zero
		open := i == len(c.schedule.Bounds)
		if !open {
			upper = c.schedule.Bounds[i]
			band.UpTo = decimal.NewNullDecimal(upper)
		}

		if base.GreaterThan(lower) {
			inBand := base.Sub(lower)
			if !open && base.GreaterThan(upper) {
				inBand = upper.Sub(lower)
			}
			band.Amount = inBand
			band.Tax = inBand.Mul(rate)
			total = total.Add(band.Tax)
		}

		bands = append(bands, band)
		lower = upper
	}

	return total, bands
}

// EffectiveRate returns tax / netWorth in percent, or zero when netWorth is zero.
func EffectiveRate(tax, netWorth decimal.Decimal) decimal.Decimal {
	if netWorth.IsZero() {
		return decimal.Zero
	}
	return tax.Div(netWorth).Mul(hundred)
}
