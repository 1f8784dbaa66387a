package model

import "github.com/shopspring/decimal"

type DebtPosition struct {
	ID           string              `json:"id"`
	Creditor     string              `json:"creditor"`
	LegalBasis   string              `json:"legalBasis"`
	FaceAmount   decimal.Decimal     `json:"faceAmount"`
	DueDate      string              `json:"dueDate,omitempty"`
	InterestRate decimal.NullDecimal `json:"interestRate"`
	Collateral   string              `json:"collateral,omitempty"`
}
