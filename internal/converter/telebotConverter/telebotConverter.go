package telebotConverter

import (
	"fmt"
	"strings"

	"github.com/KotFed0t/wealth_tax_helper/internal/formatter"
	"github.com/KotFed0t/wealth_tax_helper/internal/model"
)

const (
	fieldSeparator = ";"
	noValue        = "–"

	AssetInputHelp = "Vermögensposition eingeben:\n" +
		"Kategorie; Bezeichnung; Stückzahl; Kurs/Wert[; Währung[; ISIN]]\n\n" +
		"Kategorien: listed, funds, claims, other\n" +
		"Beispiel: listed; Siemens AG; 100; 180,50; EUR; DE0007236101\n\n" +
		"/cancel bricht die Eingabe ab."

	DebtInputHelp = "Schuld eingeben:\n" +
		"Gläubiger; Rechtsgrund; Nennbetrag[; Fälligkeit JJJJ-MM-TT[; Zinssatz %]]\n\n" +
		"Beispiel: Sparkasse; Darlehensvertrag; 250000; 2030-06-30; 3,2\n\n" +
		"/cancel bricht die Eingabe ab."
)

// ParseAssetDraft splits a "field; field; …" message into an asset draft.
// Values are validated later when the draft is built.
func ParseAssetDraft(text string) (model.AssetDraft, error) {
	f := splitFields(text)
	if len(f) < 4 || len(f) > 6 {
		return model.AssetDraft{}, fmt.Errorf("expected 4 to 6 fields, got %d", len(f))
	}

	draft := model.AssetDraft{
		Category:  f[0],
		Name:      f[1],
		Quantity:  model.NumericInput(f[2]),
		UnitValue: model.NumericInput(f[3]),
		Source:    "Telegram",
	}
	if len(f) > 4 {
		draft.QuoteCurrency = f[4]
	}
	if len(f) > 5 {
		draft.Identifier = f[5]
	}
	return draft, nil
}

// ParseDebtDraft splits a "field; field; …" message into a debt draft.
func ParseDebtDraft(text string) (model.DebtDraft, error) {
	f := splitFields(text)
	if len(f) < 3 || len(f) > 5 {
		return model.DebtDraft{}, fmt.Errorf("expected 3 to 5 fields, got %d", len(f))
	}

	draft := model.DebtDraft{
		Creditor:   f[0],
		LegalBasis: f[1],
		FaceAmount: model.NumericInput(f[2]),
	}
	if len(f) > 3 {
		draft.DueDate = f[3]
	}
	if len(f) > 4 {
		draft.InterestRate = model.NumericInput(f[4])
	}
	return draft, nil
}

func splitFields(text string) []string {
	parts := strings.Split(strings.TrimSpace(text), fieldSeparator)
	// a trailing separator is not an empty field
	if len(parts) > 1 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func ValidationErrorText(verr *model.ValidationError) string {
	var sb strings.Builder
	sb.WriteString("❌ Eingabe ungültig:\n")
	for _, f := range verr.Fields {
		sb.WriteString(fmt.Sprintf(" ▸ %s: %s\n", f.Field, f.Message))
	}
	return sb.String()
}

func CaseText(c model.CaseData) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("🗂 Fall %s\n", c.ID))
	sb.WriteString(fmt.Sprintf("Organisation: %s\n", orDash(c.Organisation)))
	sb.WriteString(fmt.Sprintf("Abteilung: %s\n\n", orDash(c.Department)))

	sb.WriteString("👤 Steuerpflichtiger\n")
	sb.WriteString(fmt.Sprintf("   ▸ Name: %s\n", orDash(c.Taxpayer.Name)))
	sb.WriteString(fmt.Sprintf("   ▸ Steuer-ID: %s\n", orDash(c.Taxpayer.TaxID)))
	sb.WriteString(fmt.Sprintf("   ▸ Anschrift: %s\n\n", orDash(c.Taxpayer.Address)))

	sb.WriteString("📅 Veranlagung\n")
	sb.WriteString(fmt.Sprintf("   ▸ Bewertungsstichtag: %s\n", orDash(formatter.FormatDate(c.Assessment.ValuationCutoffDate))))
	sb.WriteString(fmt.Sprintf("   ▸ Währung: %s\n", c.Assessment.Currency))

	return sb.String()
}

func AssetsText(assets []model.AssetPosition, currency string) string {
	if len(assets) == 0 {
		return "Keine Vermögenspositionen erfasst."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 Vermögen (%d Positionen)\n\n", len(assets)))

	for i, a := range assets {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, a.Name))
		sb.WriteString(fmt.Sprintf("   ▸ %s\n", a.Category))
		sb.WriteString(fmt.Sprintf("   ▸ %s × %s = %s\n",
			formatter.FormatQuantity(a.Quantity),
			formatter.FormatMoney(a.UnitValue, currency),
			formatter.FormatMoney(a.Value(), currency)))
		sb.WriteString(fmt.Sprintf("   ▸ ID: %s\n\n", a.ID))
	}

	return sb.String()
}

func DebtsText(debts []model.DebtPosition, currency string) string {
	if len(debts) == 0 {
		return "Keine Schulden erfasst."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("📋 Schulden (%d Positionen)\n\n", len(debts)))

	for i, d := range debts {
		sb.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, d.Creditor, d.LegalBasis))
		sb.WriteString(fmt.Sprintf("   ▸ Nennbetrag: %s\n", formatter.FormatMoney(d.FaceAmount, currency)))
		if d.DueDate != "" {
			sb.WriteString(fmt.Sprintf("   ▸ Fällig: %s\n", formatter.FormatDate(d.DueDate)))
		}
		if d.InterestRate.Valid {
			sb.WriteString(fmt.Sprintf("   ▸ Zinssatz: %s\n", formatter.FormatPercent(d.InterestRate.Decimal, 2)))
		}
		sb.WriteString(fmt.Sprintf("   ▸ ID: %s\n\n", d.ID))
	}

	return sb.String()
}

func TaxResultText(res model.TaxResult, currency string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("🧮 Vermögensteuer zum %s\n\n", formatter.FormatDate(res.ValuationDate)))
	sb.WriteString(fmt.Sprintf("Bruttovermögen: %s\n", formatter.FormatMoney(res.GrossAssets, currency)))
	sb.WriteString(fmt.Sprintf("Schulden: %s\n", formatter.FormatMoney(res.GrossDebts, currency)))
	sb.WriteString(fmt.Sprintf("Nettovermögen: %s\n", formatter.FormatMoney(res.NetWorth, currency)))
	sb.WriteString(fmt.Sprintf("Freibetrag: %s\n", formatter.FormatMoney(res.Allowance, currency)))
	sb.WriteString(fmt.Sprintf("Bemessungsgrundlage: %s\n\n", formatter.FormatMoney(res.TaxableBase, currency)))

	for _, b := range res.Bands {
		if b.Amount.IsZero() {
			continue
		}
		sb.WriteString(fmt.Sprintf("   ▸ %s auf %s: %s\n",
			formatter.FormatPercent(b.Rate, 2),
			formatter.FormatMoney(b.Amount, currency),
			formatter.FormatMoney(b.Tax, currency)))
	}

	sb.WriteString(fmt.Sprintf("\n💰 Vermögensteuer: %s\n", formatter.FormatMoney(res.Tax, currency)))
	sb.WriteString(fmt.Sprintf("Effektiver Steuersatz: %s\n", formatter.FormatPercent(res.EffectiveRate, 3)))

	return sb.String()
}

func SummaryText(s model.Summary, currency string) string {
	var sb strings.Builder

	sb.WriteString("📊 Übersicht\n\n")
	for _, c := range s.Categories {
		sb.WriteString(fmt.Sprintf("%s (%d): %s\n", c.Category, c.Count, formatter.FormatMoney(c.Total, currency)))
	}
	sb.WriteString(fmt.Sprintf("\nVermögen (%d): %s\n", s.AssetCount, formatter.FormatMoney(s.GrossAssets, currency)))
	sb.WriteString(fmt.Sprintf("Schulden (%d): %s\n", s.DebtCount, formatter.FormatMoney(s.GrossDebts, currency)))
	sb.WriteString(fmt.Sprintf("Saldo: %s\n", formatter.FormatMoney(s.Balance, currency)))

	return sb.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return noValue
	}
	return s
}
