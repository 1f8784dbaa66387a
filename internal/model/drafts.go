package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AssetDraft is the raw state of an asset form. Build is the only way to turn it
// into an AssetPosition.
type AssetDraft struct {
	Category        string       `json:"category"`
	Identifier      string       `json:"identifier"`
	Name            string       `json:"name"`
	Quantity        NumericInput `json:"quantity"`
	UnitValue       NumericInput `json:"unitValue"`
	QuoteCurrency   string       `json:"quoteCurrency"`
	ValuationMethod string       `json:"valuationMethod"`
	ValuationDate   string       `json:"valuationDate"`
	Source          string       `json:"source"`
}

// Build validates the draft and returns the asset with the given id. The valuation
// date defaults to today.
func (d AssetDraft) Build(id string, now time.Time) (AssetPosition, error) {
	verr := &ValidationError{}

	category, ok := ParseCategory(d.Category)
	if !ok {
		verr.Add("category", "is unknown")
	}

	name := sanitize(d.Name)
	requireText(verr, "name", name)

	quantity := requireNonNegative(verr, "quantity", d.Quantity)
	maxScale(verr, "quantity", quantity, QuantityScale)
	unitValue := requireNonNegative(verr, "unitValue", d.UnitValue)
	maxScale(verr, "unitValue", unitValue, UnitValueScale)

	if c := d.Currency(); c != "" && !currencyPattern.MatchString(c) {
		verr.Add("quoteCurrency", "must be an ISO 4217 code")
	}

	method := ValuationMethod(sanitize(d.ValuationMethod))
	if method == "" {
		method = DefaultValuationMethod
	}

	valuationDate := strings.TrimSpace(d.ValuationDate)
	if valuationDate == "" {
		valuationDate = now.Format(DateLayout)
	} else if !validDate(valuationDate) {
		verr.Add("valuationDate", "must be a date in format YYYY-MM-DD")
	}

	if err := verr.OrNil(); err != nil {
		return AssetPosition{}, err
	}

	asset := AssetPosition{
		ID:              id,
		Category:        category,
		Identifier:      strings.TrimSpace(d.Identifier),
		Name:            name,
		Quantity:        quantity,
		ValuationMethod: method,
		ValuationDate:   valuationDate,
		Source:          sanitize(d.Source),
	}

	return asset.WithUnitValue(unitValue), nil
}

// Currency returns the normalised quote currency, empty when none was given.
func (d AssetDraft) Currency() string {
	return strings.ToUpper(strings.TrimSpace(d.QuoteCurrency))
}

// DraftFromAsset returns the draft that builds an equal asset.
func DraftFromAsset(a AssetPosition) AssetDraft {
	return AssetDraft{
		Category:        string(a.Category),
		Identifier:      a.Identifier,
		Name:            a.Name,
		Quantity:        NumericInput(a.Quantity.String()),
		UnitValue:       NumericInput(a.UnitValue.String()),
		ValuationMethod: string(a.ValuationMethod),
		ValuationDate:   a.ValuationDate,
		Source:          a.Source,
	}
}

type DebtDraft struct {
	Creditor     string       `json:"creditor"`
	LegalBasis   string       `json:"legalBasis"`
	FaceAmount   NumericInput `json:"faceAmount"`
	DueDate      string       `json:"dueDate"`
	InterestRate NumericInput `json:"interestRate"`
	Collateral   string       `json:"collateral"`
}

func (d DebtDraft) Build(id string) (DebtPosition, error) {
	verr := &ValidationError{}

	creditor := sanitize(d.Creditor)
	requireText(verr, "creditor", creditor)

	legalBasis := sanitize(d.LegalBasis)
	requireText(verr, "legalBasis", legalBasis)

	faceAmount := requireNonNegative(verr, "faceAmount", d.FaceAmount)
	maxScale(verr, "faceAmount", faceAmount, MoneyScale)

	dueDate := strings.TrimSpace(d.DueDate)
	if dueDate != "" && !validDate(dueDate) {
		verr.Add("dueDate", "must be a date in format YYYY-MM-DD")
	}

	var interestRate decimal.NullDecimal
	if strings.TrimSpace(string(d.InterestRate)) != "" {
		rate := nonNegative(verr, "interestRate", d.InterestRate)
		if rate.GreaterThan(decimal.NewFromInt(100)) {
			verr.Add("interestRate", "must not exceed 100")
		}
		maxScale(verr, "interestRate", rate, InterestRateScale)
		interestRate = decimal.NewNullDecimal(rate)
	}

	if err := verr.OrNil(); err != nil {
		return DebtPosition{}, err
	}

	return DebtPosition{
		ID:           id,
		Creditor:     creditor,
		LegalBasis:   legalBasis,
		FaceAmount:   faceAmount,
		DueDate:      dueDate,
		InterestRate: interestRate,
		Collateral:   sanitize(d.Collateral),
	}, nil
}
