package dbConverter

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/KotFed0t/wealth_tax_helper/internal/model"
	"github.com/KotFed0t/wealth_tax_helper/internal/model/dbModel"
)

func ConvertAsset(a dbModel.Asset) model.AssetPosition {
	return model.AssetPosition{
		ID:              a.ID,
		Category:        model.Category(a.Category),
		Identifier:      a.Identifier,
		Name:            a.Name,
		Quantity:        a.Quantity,
		UnitValue:       a.UnitValue,
		PositionValue:   a.PositionValue,
		ValuationMethod: model.ValuationMethod(a.ValuationMethod),
		ValuationDate:   a.ValuationDate.Format(model.DateLayout),
		Source:          a.Source,
	}
}

// ToDbAsset converts an asset stored at position ord of its collection.
func ToDbAsset(a model.AssetPosition, ord int) (dbModel.Asset, error) {
	valuationDate, err := time.Parse(model.DateLayout, a.ValuationDate)
	if err != nil {
		return dbModel.Asset{}, fmt.Errorf("asset %s valuation date: %w", a.ID, err)
	}

	return dbModel.Asset{
		ID:              a.ID,
		Ord:             ord,
		Category:        string(a.Category),
		Identifier:      a.Identifier,
		Name:            a.Name,
		Quantity:        a.Quantity,
		UnitValue:       a.UnitValue,
		PositionValue:   a.Value(),
		ValuationMethod: string(a.ValuationMethod),
		ValuationDate:   valuationDate,
		Source:          a.Source,
	}, nil
}

func ConvertDebt(d dbModel.Debt) model.DebtPosition {
	res := model.DebtPosition{
		ID:           d.ID,
		Creditor:     d.Creditor,
		LegalBasis:   d.LegalBasis,
		FaceAmount:   d.FaceAmount,
		InterestRate: d.InterestRate,
		Collateral:   d.Collateral,
	}
	if d.DueDate.Valid {
		res.DueDate = d.DueDate.Time.Format(model.DateLayout)
	}
	return res
}

func ToDbDebt(d model.DebtPosition, ord int) (dbModel.Debt, error) {
	res := dbModel.Debt{
		ID:           d.ID,
		Ord:          ord,
		Creditor:     d.Creditor,
		LegalBasis:   d.LegalBasis,
		FaceAmount:   d.FaceAmount,
		InterestRate: d.InterestRate,
		Collateral:   d.Collateral,
	}

	if d.DueDate != "" {
		dueDate, err := time.Parse(model.DateLayout, d.DueDate)
		if err != nil {
			return dbModel.Debt{}, fmt.Errorf("debt %s due date: %w", d.ID, err)
		}
		res.DueDate = sql.NullTime{Time: dueDate, Valid: true}
	}

	return res, nil
}

func ConvertCase(c dbModel.Case) (model.CaseData, error) {
	res := model.CaseData{}
	if err := json.Unmarshal(c.Payload, &res); err != nil {
		return model.CaseData{}, fmt.Errorf("unmarshal case %s: %w", c.ID, err)
	}
	res.ID = c.ID
	return res, nil
}

func ToDbCase(c model.CaseData) (dbModel.Case, error) {
	payload, err := json.Marshal(c)
	if err != nil {
		return dbModel.Case{}, fmt.Errorf("marshal case %s: %w", c.ID, err)
	}
	return dbModel.Case{ID: c.ID, Payload: payload}, nil
}
