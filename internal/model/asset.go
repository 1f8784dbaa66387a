package model

import (
	"strings"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage format of every calendar date in the domain.
const DateLayout = "2006-01-02"

type Category string

const (
	CategoryListedSecurities Category = "Börsennotierte Wertpapiere"
	CategoryUnlistedFunds    Category = "Nicht börsennotierte Investmentanteile"
	CategoryCapitalClaims    Category = "Kapitalforderungen"
	CategoryOtherInstruments Category = "Sonstige Finanzinstrumente"
)

// Categories returns all asset categories in display order.
func Categories() []Category {
	return []Category{
		CategoryListedSecurities,
		CategoryUnlistedFunds,
		CategoryCapitalClaims,
		CategoryOtherInstruments,
	}
}

var categoryAliases = map[string]Category{
	"listed": CategoryListedSecurities,
	"funds":  CategoryUnlistedFunds,
	"claims": CategoryCapitalClaims,
	"other":  CategoryOtherInstruments,
}

// ParseCategory accepts a full category label or one of the short aliases
// listed, funds, claims, other.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, c := range Categories() {
		if string(c) == s {
			return c, true
		}
	}
	c, ok := categoryAliases[strings.ToLower(s)]
	return c, ok
}

type ValuationMethod string

const (
	ValuationListed        ValuationMethod = "§ 11 BewG"
	ValuationFairValue     ValuationMethod = "§ 9 BewG"
	ValuationCapitalClaims ValuationMethod = "§ 12 BewG"

	DefaultValuationMethod = ValuationListed
)

type AssetPosition struct {
	ID              string          `json:"id"`
	Category        Category        `json:"category"`
	Identifier      string          `json:"identifier,omitempty"`
	Name            string          `json:"name"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitValue       decimal.Decimal `json:"unitValue"`
	PositionValue   decimal.Decimal `json:"positionValue"`
	ValuationMethod ValuationMethod `json:"valuationMethod"`
	ValuationDate   string          `json:"valuationDate"`
	Source          string          `json:"source,omitempty"`
}

// Value recomputes the position value from quantity and unit value.
func (a AssetPosition) Value() decimal.Decimal {
	return a.Quantity.Mul(a.UnitValue)
}

// WithUnitValue returns a copy with a new unit value and the matching position value.
func (a AssetPosition) WithUnitValue(unitValue decimal.Decimal) AssetPosition {
	a.UnitValue = unitValue
	a.PositionValue = a.Value()
	return a
}
