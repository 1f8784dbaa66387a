package fxModel

import "github.com/shopspring/decimal"

// RatesResponse is the body of a Frankfurter-style reference-rate response.
type RatesResponse struct {
	Amount decimal.Decimal            `json:"amount"`
	Base   string                     `json:"base"`
	Date   string                     `json:"date"`
	Rates  map[string]decimal.Decimal `json:"rates"`
}

type Rate struct {
	From  string
	To    string
	Date  string
	Value decimal.Decimal
}
