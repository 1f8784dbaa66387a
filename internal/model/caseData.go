package model

import (
	"net/mail"
	"regexp"
	"strings"
	"time"
)

const DefaultCaseID = "case-1"

// CaseData is the single master-data record of a case.
type CaseData struct {
	ID           string       `json:"id"`
	Organisation string       `json:"organisation"`
	Department   string       `json:"department"`
	Taxpayer     Taxpayer     `json:"taxpayer"`
	Assessment   Assessment   `json:"assessment"`
	Declarations Declarations `json:"declarations"`
	Contact      Contact      `json:"contact"`
}

type Taxpayer struct {
	Name           string `json:"name,omitempty"`
	BirthDate      string `json:"birthDate,omitempty"`
	TaxID          string `json:"taxId,omitempty"`
	Address        string `json:"address,omitempty"`
	LegalForm      string `json:"legalForm,omitempty"`
	RegisterNumber string `json:"registerNumber,omitempty"`
}

type Assessment struct {
	ValuationCutoffDate string `json:"valuationCutoffDate"`
	Currency            string `json:"currency"`
	Domicile            string `json:"domicile,omitempty"`
}

type Declarations struct {
	Completeness      bool `json:"completeness"`
	CooperationDuties bool `json:"cooperationDuties"`
	DataProcessing    bool `json:"dataProcessing"`
}

type Contact struct {
	PostalAddress string `json:"postalAddress,omitempty"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
}

var (
	currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)
	taxIDPattern    = regexp.MustCompile(`^[0-9]{11}$`)
)

// Normalize trims and NFC-normalises the free-text fields and fills the defaults.
// There is a single case, so the ID is always DefaultCaseID.
func (c CaseData) Normalize() CaseData {
	c.ID = DefaultCaseID
	c.Organisation = sanitize(c.Organisation)
	c.Department = sanitize(c.Department)
	c.Taxpayer.Name = sanitize(c.Taxpayer.Name)
	c.Taxpayer.Address = sanitize(c.Taxpayer.Address)
	c.Taxpayer.TaxID = strings.ReplaceAll(strings.TrimSpace(c.Taxpayer.TaxID), " ", "")
	c.Assessment.Currency = strings.ToUpper(strings.TrimSpace(c.Assessment.Currency))
	if c.Assessment.Currency == "" {
		c.Assessment.Currency = "EUR"
	}
	c.Assessment.Domicile = sanitize(c.Assessment.Domicile)
	c.Contact.PostalAddress = sanitize(c.Contact.PostalAddress)
	c.Contact.Email = strings.TrimSpace(c.Contact.Email)
	return c
}

// Validate checks the case master data and reports every offending field.
func (c CaseData) Validate() error {
	verr := &ValidationError{}

	if c.Taxpayer.Name != "" && !validName(c.Taxpayer.Name) {
		verr.Add("taxpayer.name", "contains invalid characters")
	}
	if c.Taxpayer.BirthDate != "" && !validDate(c.Taxpayer.BirthDate) {
		verr.Add("taxpayer.birthDate", "must be a date in format YYYY-MM-DD")
	}
	if c.Taxpayer.TaxID != "" && !taxIDPattern.MatchString(c.Taxpayer.TaxID) {
		verr.Add("taxpayer.taxId", "must consist of 11 digits")
	}
	if c.Assessment.ValuationCutoffDate != "" && !validDate(c.Assessment.ValuationCutoffDate) {
		verr.Add("assessment.valuationCutoffDate", "must be a date in format YYYY-MM-DD")
	}
	if !currencyPattern.MatchString(c.Assessment.Currency) {
		verr.Add("assessment.currency", "must be an ISO 4217 code")
	}
	if c.Contact.Email != "" {
		if _, err := mail.ParseAddress(c.Contact.Email); err != nil {
			verr.Add("contact.email", "is not a valid e-mail address")
		}
	}

	return verr.OrNil()
}

// CutoffDate returns the valuation cutoff date, or today's date when it is unset.
func (c *CaseData) CutoffDate(now time.Time) string {
	if c == nil || c.Assessment.ValuationCutoffDate == "" {
		return now.Format(DateLayout)
	}
	return c.Assessment.ValuationCutoffDate
}

func validDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
