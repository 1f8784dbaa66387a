package dbModel

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type Asset struct {
	ID              string          `db:"position_id"`
	Ord             int             `db:"ord"`
	Category        string          `db:"category"`
	Identifier      string          `db:"identifier"`
	Name            string          `db:"name"`
	Quantity        decimal.Decimal `db:"quantity"`
	UnitValue       decimal.Decimal `db:"unit_value"`
	PositionValue   decimal.Decimal `db:"position_value"`
	ValuationMethod string          `db:"valuation_method"`
	ValuationDate   time.Time       `db:"valuation_date"`
	Source          string          `db:"source"`
}

type Debt struct {
	ID           string              `db:"position_id"`
	Ord          int                 `db:"ord"`
	Creditor     string              `db:"creditor"`
	LegalBasis   string              `db:"legal_basis"`
	FaceAmount   decimal.Decimal     `db:"face_amount"`
	DueDate      sql.NullTime        `db:"due_date"`
	InterestRate decimal.NullDecimal `db:"interest_rate"`
	Collateral   string              `db:"collateral"`
}
