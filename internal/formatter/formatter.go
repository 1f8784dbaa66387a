// Package formatter renders amounts, rates and dates for German-speaking readers.
package formatter

import (
	"strings"
	"time"

	"github.com/KotFed0t/wealth_tax_helper/internal/model"
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const defaultFraction = 2

var printer = message.NewPrinter(language.German)

// FormatMoney rounds amount to the minor unit of currency and formats it as
// "1.234,56 €". Unknown currencies keep their code as symbol.
func FormatMoney(amount decimal.Decimal, currency string) string {
	code := strings.ToUpper(strings.TrimSpace(currency))

	cur := money.GetCurrency(code)
	if cur == nil {
		return printer.Sprint(number.Decimal(amount.Round(defaultFraction).InexactFloat64(), number.Scale(defaultFraction))) + " " + code
	}

	m := money.New(amount.Shift(int32(cur.Fraction)).Round(0).IntPart(), cur.Code)
	major := decimal.New(m.Amount(), -int32(cur.Fraction))

	return printer.Sprint(number.Decimal(major.InexactFloat64(), number.Scale(cur.Fraction))) + " " + cur.Grapheme
}

// FormatPercent formats a value that already is a percentage, e.g. 0.3333 as "0,333 %".
func FormatPercent(value decimal.Decimal, scale int) string {
	return printer.Sprint(number.Decimal(value.Round(int32(scale)).InexactFloat64(), number.Scale(scale))) + " %"
}

// FormatQuantity prints a quantity without trailing zeros.
func FormatQuantity(q decimal.Decimal) string {
	return printer.Sprint(number.Decimal(q.InexactFloat64(), number.MaxFractionDigits(8)))
}

// FormatDate turns YYYY-MM-DD into DD.MM.YYYY; other input is returned unchanged.
func FormatDate(s string) string {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return s
	}
	return t.Format("02.01.2006")
}
