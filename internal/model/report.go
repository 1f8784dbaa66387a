package model

import "time"

// Report is everything rendered into a report workbook.
type Report struct {
	Case        *CaseData
	Assets      []AssetPosition
	Debts       []DebtPosition
	Result      TaxResult
	GeneratedAt time.Time
}
