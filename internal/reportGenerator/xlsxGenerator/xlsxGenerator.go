package xlsxGenerator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/wealth_tax_helper/internal/model"
	"github.com/KotFed0t/wealth_tax_helper/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SheetAssets      = "Vermögen"
	SheetDebts       = "Schulden"
	SheetCalculation = "Berechnung"

	moneyFormat   = "#,##0.00"
	percentFormat = "0.000"
)

var hundred = decimal.NewFromInt(100)

type XLSXGenerator struct{}

func New() *XLSXGenerator {
	return &XLSXGenerator{}
}

type styles struct {
	header   int
	group    int
	money    int
	moneySum int
	percent  int
}

func (g *XLSXGenerator) Generate(ctx context.Context, report model.Report) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "XLSXGenerator.Generate"

	slog.Debug("Generate start", slog.String("rqID", rqID), slog.String("op", op))

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			slog.Error("got error while closing file", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		}
	}()

	st, err := newStyles(f)
	if err != nil {
		slog.Error("got error while creating styles", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	fillers := []struct {
		sheet string
		fill  func(f *excelize.File, st styles, report model.Report) error
	}{
		{SheetCalculation, fillCalculation},
		{SheetAssets, fillAssets},
		{SheetDebts, fillDebts},
	}

	for _, filler := range fillers {
		if _, err := f.NewSheet(filler.sheet); err != nil {
			slog.Error("got error while creating NewSheet", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return nil, "", err
		}
		if err := filler.fill(f, st, report); err != nil {
			slog.Error("got error while filling sheet", slog.String("rqID", rqID), slog.String("op", op),
				slog.String("sheet", filler.sheet), slog.String("err", err.Error()))
			return nil, "", fmt.Errorf("fill sheet %s: %w", filler.sheet, err)
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		slog.Error("got error while deleting Sheet1", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
	}

	if idx, err := f.GetSheetIndex(SheetCalculation); err == nil {
		f.SetActiveSheet(idx)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		slog.Error("got error while saving file to bytes buffer", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", err
	}

	slog.Debug("Generate completed", slog.String("rqID", rqID), slog.String("op", op))

	return buf.Bytes(), ".xlsx", nil
}

func newStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error

	headerFill := func(color string) excelize.Fill {
		return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
	}
	money := moneyFormat
	percent := percentFormat

	if st.header, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      headerFill("#cfe2f3"),
	}); err != nil {
		return styles{}, err
	}
	if st.group, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: headerFill("#d9ead3"),
	}); err != nil {
		return styles{}, err
	}
	if st.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &money}); err != nil {
		return styles{}, err
	}
	if st.moneySum, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &money,
		Font:         &excelize.Font{Bold: true},
		Border:       []excelize.Border{{Type: "top", Color: "#000000", Style: 1}},
	}); err != nil {
		return styles{}, err
	}
	if st.percent, err = f.NewStyle(&excelize.Style{CustomNumFmt: &percent}); err != nil {
		return styles{}, err
	}

	return st, nil
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func setHeader(f *excelize.File, st styles, sheet string, row int, titles ...string) error {
	values := make([]any, len(titles))
	for i, t := range titles {
		values[i] = t
	}
	if err := f.SetSheetRow(sheet, cell("A", row), &values); err != nil {
		return err
	}
	last, err := excelize.ColumnNumberToName(len(titles))
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, cell("A", row), cell(last, row), st.header)
}

func setMoney(f *excelize.File, sheet, axis string, d decimal.Decimal, style int) {
	_ = f.SetCellValue(sheet, axis, d.InexactFloat64())
	_ = f.SetCellStyle(sheet, axis, axis, style)
}

func fillCalculation(f *excelize.File, st styles, report model.Report) error {
	sheet := SheetCalculation
	res := report.Result

	if err := f.MergeCell(sheet, "A1", "E1"); err != nil {
		return err
	}
	_ = f.SetCellStr(sheet, "A1", "Vermögensteuerberechnung")
	if err := f.SetCellStyle(sheet, "A1", "A1", st.header); err != nil {
		return err
	}

	row := 2
	if c := report.Case; c != nil {
		for _, line := range [][2]string{
			{"Organisation", c.Organisation},
			{"Steuerpflichtige Person", c.Taxpayer.Name},
			{"Steuer-ID", c.Taxpayer.TaxID},
			{"Bewertungswährung", c.Assessment.Currency},
		} {
			_ = f.SetCellStr(sheet, cell("A", row), line[0])
			_ = f.SetCellStr(sheet, cell("B", row), line[1])
			row++
		}
	}

	_ = f.SetCellStr(sheet, cell("A", row), "Bewertungsstichtag")
	_ = f.SetCellStr(sheet, cell("B", row), res.ValuationDate)
	row++

	for _, line := range []struct {
		label string
		value decimal.Decimal
		style int
	}{
		{"Bruttovermögen", res.GrossAssets, st.money},
		{"Schulden", res.GrossDebts, st.money},
		{"Nettovermögen", res.NetWorth, st.money},
		{"Freibetrag", res.Allowance, st.money},
		{"Bemessungsgrundlage", res.TaxableBase, st.money},
		{"Vermögensteuer", res.Tax, st.moneySum},
	} {
		_ = f.SetCellStr(sheet, cell("A", row), line.label)
		setMoney(f, sheet, cell("B", row), line.value, line.style)
		row++
	}

	_ = f.SetCellStr(sheet, cell("A", row), "Effektiver Steuersatz (%)")
	_ = f.SetCellValue(sheet, cell("B", row), res.EffectiveRate.InexactFloat64())
	_ = f.SetCellStyle(sheet, cell("B", row), cell("B", row), st.percent)
	row += 2

	if err := setHeader(f, st, sheet, row, "Von", "Bis", "Satz (%)", "Betrag", "Steuer"); err != nil {
		return err
	}
	for _, band := range res.Bands {
		row++
		setMoney(f, sheet, cell("A", row), band.From, st.money)
		if band.UpTo.Valid {
			setMoney(f, sheet, cell("B", row), band.UpTo.Decimal, st.money)
		} else {
			_ = f.SetCellStr(sheet, cell("B", row), "unbegrenzt")
		}
		_ = f.SetCellValue(sheet, cell("C", row), band.Rate.Mul(hundred).InexactFloat64())
		setMoney(f, sheet, cell("D", row), band.Amount, st.money)
		setMoney(f, sheet, cell("E", row), band.Tax, st.money)
	}

	_ = f.SetCellStr(sheet, cell("A", row+2), "Erstellt am")
	_ = f.SetCellStr(sheet, cell("B", row+2), report.GeneratedAt.Format("2006-01-02 15:04"))

	return f.SetColWidth(sheet, "A", "E", 24)
}

func fillAssets(f *excelize.File, st styles, report model.Report) error {
	sheet := SheetAssets

	if err := setHeader(f, st, sheet, 1,
		"Kategorie", "Identifikator", "Bezeichnung", "Menge", "Einheitswert",
		"Positionswert", "Bewertungsmethode", "Kursdatum", "Quelle",
	); err != nil {
		return err
	}

	row := 1
	total := decimal.Zero
	for _, category := range model.Categories() {
		subtotal := decimal.Zero
		count := 0

		for _, a := range report.Assets {
			if a.Category != category {
				continue
			}
			if count == 0 {
				row++
				_ = f.SetCellStr(sheet, cell("A", row), string(category))
				_ = f.SetCellStyle(sheet, cell("A", row), cell("I", row), st.group)
			}
			count++
			row++

			value := a.Value()
			subtotal = subtotal.Add(value)

			_ = f.SetCellStr(sheet, cell("A", row), string(a.Category))
			_ = f.SetCellStr(sheet, cell("B", row), a.Identifier)
			_ = f.SetCellStr(sheet, cell("C", row), a.Name)
			_ = f.SetCellValue(sheet, cell("D", row), a.Quantity.InexactFloat64())
			setMoney(f, sheet, cell("E", row), a.UnitValue, st.money)
			setMoney(f, sheet, cell("F", row), value, st.money)
			_ = f.SetCellStr(sheet, cell("G", row), string(a.ValuationMethod))
			_ = f.SetCellStr(sheet, cell("H", row), a.ValuationDate)
			_ = f.SetCellStr(sheet, cell("I", row), a.Source)
		}

		if count > 0 {
			row++
			_ = f.SetCellStr(sheet, cell("C", row), "Summe "+string(category))
			setMoney(f, sheet, cell("F", row), subtotal, st.moneySum)
			total = total.Add(subtotal)
		}
	}

	row += 2
	_ = f.SetCellStr(sheet, cell("C", row), "Gesamt")
	setMoney(f, sheet, cell("F", row), total, st.moneySum)

	if err := f.SetColWidth(sheet, "A", "A", 36); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "I", 18); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "C", "C", 44)
}

func fillDebts(f *excelize.File, st styles, report model.Report) error {
	sheet := SheetDebts

	if err := setHeader(f, st, sheet, 1,
		"Gläubiger", "Rechtsgrund", "Nennbetrag", "Fälligkeit", "Zinssatz (%)", "Besicherung",
	); err != nil {
		return err
	}

	row := 1
	total := decimal.Zero
	for _, d := range report.Debts {
		row++
		total = total.Add(d.FaceAmount)

		_ = f.SetCellStr(sheet, cell("A", row), d.Creditor)
		_ = f.SetCellStr(sheet, cell("B", row), d.LegalBasis)
		setMoney(f, sheet, cell("C", row), d.FaceAmount, st.money)
		_ = f.SetCellStr(sheet, cell("D", row), d.DueDate)
		if d.InterestRate.Valid {
			_ = f.SetCellValue(sheet, cell("E", row), d.InterestRate.Decimal.InexactFloat64())
		}
		_ = f.SetCellStr(sheet, cell("F", row), d.Collateral)
	}

	row += 2
	_ = f.SetCellStr(sheet, cell("B", row), "Gesamt")
	setMoney(f, sheet, cell("C", row), total, st.moneySum)

	return f.SetColWidth(sheet, "A", "F", 24)
}
