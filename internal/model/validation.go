package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"
)

var (
	// letters of every script, digits, spaces and common punctuation
	textPattern = regexp.MustCompile(`^[\p{L}\p{N}\p{Zs}\-.,'()/&]+$`)
	namePattern = regexp.MustCompile(`^[\p{L}\p{Zs}\-']+$`)
)

// Decimal places kept by the storage backends. Input with more places is rejected
// instead of being rounded on insert.
const (
	QuantityScale     = 8
	UnitValueScale    = 8
	MoneyScale        = 2
	InterestRateScale = 4
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every invalid field of a submitted form.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NumericInput is a form value that accepts both JSON numbers and JSON strings.
type NumericInput string

func (n *NumericInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericInput(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("numeric input: %w", err)
	}
	*n = NumericInput(num.String())
	return nil
}

// parseDecimal accepts "1234.5" as well as the German "1234,5".
func parseDecimal(s string) (decimal.Decimal, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	return decimal.NewFromString(s)
}

// sanitize trims s and normalises it to NFC so that composed umlauts compare equal.
func sanitize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

func validText(s string) bool {
	return strings.TrimSpace(s) != "" && textPattern.MatchString(norm.NFC.String(s))
}

func validName(s string) bool {
	return strings.TrimSpace(s) != "" && namePattern.MatchString(norm.NFC.String(s))
}

func requireText(verr *ValidationError, field, value string) {
	switch {
	case value == "":
		verr.Add(field, "is required")
	case !validText(value):
		verr.Add(field, "contains invalid characters")
	}
}

func requireNonNegative(verr *ValidationError, field string, value NumericInput) decimal.Decimal {
	if strings.TrimSpace(string(value)) == "" {
		verr.Add(field, "is required")
		return decimal.Zero
	}
	return nonNegative(verr, field, value)
}

func nonNegative(verr *ValidationError, field string, value NumericInput) decimal.Decimal {
	d, err := parseDecimal(string(value))
	if err != nil {
		verr.Add(field, "must be a number")
		return decimal.Zero
	}
	if d.IsNegative() {
		verr.Add(field, "must not be negative")
		return decimal.Zero
	}
	return d
}

// maxScale reports value as invalid when it has more than places significant decimals.
func maxScale(verr *ValidationError, field string, value decimal.Decimal, places int32) {
	if !value.Equal(value.Round(places)) {
		verr.Add(field, fmt.Sprintf("must not have more than %d decimal places", places))
	}
}
