package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func fieldNames(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	names := make([]string, 0, len(verr.Fields))
	for _, f := range verr.Fields {
		names = append(names, f.Field)
	}
	return names
}

func TestAssetDraft_Build(t *testing.T) {
	draft := AssetDraft{
		Category:      "Börsennotierte Wertpapiere",
		Identifier:    " DE0005140008 ",
		Name:          "Deutsche Telekom AG",
		Quantity:      "100",
		UnitValue:     "75,50",
		ValuationDate: "2024-12-31",
		Source:        "Xetra",
	}

	asset, err := draft.Build("asset-1", today)
	require.NoError(t, err)

	assert.Equal(t, "asset-1", asset.ID)
	assert.Equal(t, CategoryListedSecurities, asset.Category)
	assert.Equal(t, "DE0005140008", asset.Identifier)
	assert.True(t, asset.UnitValue.Equal(decimal.RequireFromString("75.5")))
	assert.True(t, asset.PositionValue.Equal(decimal.NewFromInt(7550)))
	assert.Equal(t, DefaultValuationMethod, asset.ValuationMethod)
	assert.Equal(t, "2024-12-31", asset.ValuationDate)
}

func TestAssetDraft_Build_Defaults(t *testing.T) {
	draft := AssetDraft{
		Category:  "claims",
		Name:      "Tagesgeldkonto Sparkasse München",
		Quantity:  "1",
		UnitValue: "25000",
	}

	asset, err := draft.Build("asset-2", today)
	require.NoError(t, err)

	assert.Equal(t, CategoryCapitalClaims, asset.Category)
	assert.Equal(t, "2025-03-14", asset.ValuationDate)
	assert.Equal(t, ValuationListed, asset.ValuationMethod)
}

func TestAssetDraft_Build_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		draft  AssetDraft
		fields []string
	}{
		{
			name:   "empty draft",
			draft:  AssetDraft{},
			fields: []string{"category", "name", "quantity", "unitValue"},
		},
		{
			name: "negative quantity",
			draft: AssetDraft{
				Category: "listed", Name: "Siemens AG", Quantity: "-5", UnitValue: "165",
			},
			fields: []string{"quantity"},
		},
		{
			name: "non numeric unit value",
			draft: AssetDraft{
				Category: "listed", Name: "Siemens AG", Quantity: "5", UnitValue: "abc",
			},
			fields: []string{"unitValue"},
		},
		{
			name: "bad date and currency",
			draft: AssetDraft{
				Category: "other", Name: "Bitcoin (BTC)", Quantity: "0.5", UnitValue: "42000",
				ValuationDate: "31.12.2024", QuoteCurrency: "dollar",
			},
			fields: []string{"quoteCurrency", "valuationDate"},
		},
		{
			name: "more decimal places than stored",
			draft: AssetDraft{
				Category: "other", Name: "Bitcoin (BTC)", Quantity: "0.123456789", UnitValue: "42000.000000001",
			},
			fields: []string{"quantity", "unitValue"},
		},
		{
			name: "invalid characters in name",
			draft: AssetDraft{
				Category: "other", Name: "<script>", Quantity: "1", UnitValue: "1",
			},
			fields: []string{"name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.draft.Build("id", today)
			assert.Equal(t, tt.fields, fieldNames(t, err))
		})
	}
}

func TestDraftFromAsset_RoundTrip(t *testing.T) {
	asset := AssetPosition{
		ID:              "asset-8",
		Category:        CategoryOtherInstruments,
		Name:            "Bitcoin (BTC)",
		Quantity:        decimal.RequireFromString("0.5"),
		UnitValue:       decimal.NewFromInt(42000),
		PositionValue:   decimal.NewFromInt(21000),
		ValuationMethod: "§ 9 BewG (gemeiner Wert)",
		ValuationDate:   "2024-12-31",
		Source:          "Coinbase",
	}

	rebuilt, err := DraftFromAsset(asset).Build(asset.ID, today)
	require.NoError(t, err)
	assert.Equal(t, asset.Name, rebuilt.Name)
	assert.True(t, rebuilt.PositionValue.Equal(asset.PositionValue))
	assert.Equal(t, asset.ValuationMethod, rebuilt.ValuationMethod)
}

func TestDebtDraft_Build(t *testing.T) {
	debt, err := DebtDraft{
		Creditor:     "Sparkasse München",
		LegalBasis:   "Immobilienkredit",
		FaceAmount:   "250000",
		DueDate:      "2044-12-31",
		InterestRate: "2.5",
		Collateral:   "Grundschuld Immobilie",
	}.Build("schuld-1")
	require.NoError(t, err)

	assert.True(t, debt.FaceAmount.Equal(decimal.NewFromInt(250000)))
	assert.True(t, debt.InterestRate.Valid)
	assert.True(t, debt.InterestRate.Decimal.Equal(decimal.RequireFromString("2.5")))
}

func TestDebtDraft_Build_OptionalRate(t *testing.T) {
	debt, err := DebtDraft{Creditor: "KfW", LegalBasis: "Förderdarlehen", FaceAmount: "75000"}.Build("schuld-3")
	require.NoError(t, err)
	assert.False(t, debt.InterestRate.Valid)
}

func TestDebtDraft_Build_Invalid(t *testing.T) {
	_, err := DebtDraft{FaceAmount: "-1", InterestRate: "150", DueDate: "tomorrow"}.Build("x")
	assert.Equal(t, []string{"creditor", "legalBasis", "faceAmount", "dueDate", "interestRate"}, fieldNames(t, err))
}

func TestDebtDraft_Build_Scale(t *testing.T) {
	_, err := DebtDraft{Creditor: "Bank", LegalBasis: "Darlehen", FaceAmount: "1000.555", InterestRate: "3.12345"}.Build("x")
	assert.Equal(t, []string{"faceAmount", "interestRate"}, fieldNames(t, err))

	// trailing zeros are not extra precision
	debt, err := DebtDraft{Creditor: "Bank", LegalBasis: "Darlehen", FaceAmount: "1000.5500", InterestRate: "3,1234"}.Build("x")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1000.55").Equal(debt.FaceAmount))
}

func TestAssetDraft_Build_MaxScaleAccepted(t *testing.T) {
	asset, err := AssetDraft{
		Category: "other", Name: "Bitcoin (BTC)", Quantity: "0.12345678", UnitValue: "42000.12345678",
	}.Build("id", today)
	require.NoError(t, err)
	assert.True(t, asset.PositionValue.Equal(asset.Quantity.Mul(asset.UnitValue)))
}

func TestNumericInput_UnmarshalJSON(t *testing.T) {
	var draft DebtDraft
	err := json.Unmarshal([]byte(`{"faceAmount": 1250.75, "interestRate": "3,8"}`), &draft)
	require.NoError(t, err)

	assert.Equal(t, NumericInput("1250.75"), draft.FaceAmount)
	assert.Equal(t, NumericInput("3,8"), draft.InterestRate)

	err = json.Unmarshal([]byte(`{"faceAmount": true}`), &draft)
	assert.Error(t, err)
}
