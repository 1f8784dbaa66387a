package model

import "github.com/shopspring/decimal"

type TaxResult struct {
	GrossAssets   decimal.Decimal `json:"grossAssets"`
	GrossDebts    decimal.Decimal `json:"grossDebts"`
	NetWorth      decimal.Decimal `json:"netWorth"`
	Allowance     decimal.Decimal `json:"allowance"`
	TaxableBase   decimal.Decimal `json:"taxableBase"`
	Tax           decimal.Decimal `json:"tax"`
	EffectiveRate decimal.Decimal `json:"effectiveRate"` // percent
	ValuationDate string          `json:"valuationDate"`
	Bands         []BandTax       `json:"bands"`
}

// BandTax is the contribution of one marginal band. UpTo is null for the open top band.
type BandTax struct {
	From   decimal.Decimal     `json:"from"`
	UpTo   decimal.NullDecimal `json:"upTo"`
	Rate   decimal.Decimal     `json:"rate"`
	Amount decimal.Decimal     `json:"amount"`
	Tax    decimal.Decimal     `json:"tax"`
}

type CategorySummary struct {
	Category Category        `json:"category"`
	Count    int             `json:"count"`
	Total    decimal.Decimal `json:"total"`
}

// Summary backs the dashboard header cards and the allocation chart.
type Summary struct {
	Categories  []CategorySummary `json:"categories"`
	AssetCount  int               `json:"assetCount"`
	DebtCount   int               `json:"debtCount"`
	GrossAssets decimal.Decimal   `json:"grossAssets"`
	GrossDebts  decimal.Decimal   `json:"grossDebts"`
	Balance     decimal.Decimal   `json:"balance"` // not floored at zero
}
