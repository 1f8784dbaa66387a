package wealthTaxService

import (
	"github.com/KotFed0t/wealth_tax_helper/internal/model"
	"github.com/shopspring/decimal"
)

const (
	seedDate      = "2024-12-31"
	fairValueNote = "§ 9 BewG (gemeiner Wert)"
)

func seedCase() model.CaseData {
	return model.CaseData{
		ID:           model.DefaultCaseID,
		Organisation: "Müller & Schröder GmbH",
		Department:   "Steuerberatung",
		Taxpayer: model.Taxpayer{
			Name:           "Jörg Müller",
			BirthDate:      "1970-01-15",
			TaxID:          "12345678901",
			Address:        "Musterstraße 123, 80331 München",
			LegalForm:      "Einzelunternehmen",
			RegisterNumber: "HRB 123456",
		},
		Assessment: model.Assessment{
			ValuationCutoffDate: seedDate,
			Currency:            "EUR",
			Domicile:            "Deutschland",
		},
		Declarations: model.Declarations{
			Completeness:      true,
			CooperationDuties: true,
			DataProcessing:    true,
		},
		Contact: model.Contact{
			PostalAddress: "Müller & Schröder GmbH\nMusterstraße 123\n80331 München",
			Email:         "joerg.mueller@mueller-schroeder.de",
			Phone:         "+49 89 12345678",
		},
	}
}

func seedAsset(id string, category model.Category, identifier, name, quantity, unitValue string, method model.ValuationMethod, source string) model.AssetPosition {
	a := model.AssetPosition{
		ID:              id,
		Category:        category,
		Identifier:      identifier,
		Name:            name,
		Quantity:        decimal.RequireFromString(quantity),
		ValuationMethod: method,
		ValuationDate:   seedDate,
		Source:          source,
	}
	return a.WithUnitValue(decimal.RequireFromString(unitValue))
}

func seedAssets() []model.AssetPosition {
	listed := model.CategoryListedSecurities
	funds := model.CategoryUnlistedFunds
	claims := model.CategoryCapitalClaims
	other := model.CategoryOtherInstruments

	return []model.AssetPosition{
		seedAsset("asset-1", listed, "DE0005140008", "Deutsche Telekom AG", "100", "75.50", model.ValuationListed, "Xetra"),
		seedAsset("asset-2", listed, "US0378331005", "Apple Inc.", "25", "150.00", model.ValuationListed, "NASDAQ"),
		seedAsset("asset-3", listed, "DE0007236101", "Siemens AG", "50", "165.00", model.ValuationListed, "Xetra"),
		seedAsset("asset-4", listed, "DE0008430026", "Münchener Rückversicherungs-Gesellschaft AG", "75", "285.30", model.ValuationListed, "Xetra"),
		seedAsset("asset-5", listed, "DE0007664039", "Bayerische Motoren Werke AG", "30", "98.45", model.ValuationListed, "Xetra"),
		seedAsset("asset-6", funds, "DE0008491051", "DWS Top Dividende LD", "150", "180.50", fairValueNote, "DWS"),
		seedAsset("asset-7", funds, "LU0274208692", "Xtrackers MSCI World UCITS ETF", "100", "95.00", fairValueNote, "Bloomberg"),
		seedAsset("asset-8", funds, "DE0009772657", "Deka-ÖkoRent Fonds", "200", "125.80", fairValueNote, "Deka Investment"),
		seedAsset("asset-9", funds, "LU1861132840", "Allianz Global Investors Fonds", "80", "142.25", fairValueNote, "Allianz Global Investors"),
		seedAsset("asset-10", claims, "DE12345678901234567890", "Tagesgeldkonto Sparkasse München", "1", "25000", model.ValuationCapitalClaims, "Kontoauszug"),
		seedAsset("asset-11", claims, "DE09876543210987654321", "Festgeld Deutsche Bank", "1", "50000", model.ValuationCapitalClaims, "Kontoauszug"),
		seedAsset("asset-12", claims, "DE11223344556677889900", "Girokonto Commerzbank Köln", "1", "15000", model.ValuationCapitalClaims, "Kontoauszug"),
		seedAsset("asset-13", claims, "DE99887766554433221100", "Forderung gegen Müller & Söhne GmbH", "1", "35000", model.ValuationCapitalClaims, "Rechnungsstellung"),
		seedAsset("asset-14", claims, "DE55667788990011223344", "Darlehensforderung gegen Schröder Immobilien", "1", "120000", model.ValuationCapitalClaims, "Darlehensvertrag"),
		seedAsset("asset-15", other, "", "Bitcoin (BTC)", "0.5", "42000", fairValueNote, "Coinbase"),
		seedAsset("asset-16", other, "", "Ethereum (ETH)", "5", "2200", fairValueNote, "Coinbase"),
		seedAsset("asset-17", other, "", "Optionsschein auf Daimler AG", "100", "12.50", fairValueNote, "Börse Stuttgart"),
		seedAsset("asset-18", other, "", "Wandelanleihe Münchener Hypothekenbank", "1", "45000", fairValueNote, "Emittent"),
	}
}

func seedDebt(id, creditor, legalBasis, faceAmount, dueDate, interestRate, collateral string) model.DebtPosition {
	return model.DebtPosition{
		ID:           id,
		Creditor:     creditor,
		LegalBasis:   legalBasis,
		FaceAmount:   decimal.RequireFromString(faceAmount),
		DueDate:      dueDate,
		InterestRate: decimal.NewNullDecimal(decimal.RequireFromString(interestRate)),
		Collateral:   collateral,
	}
}

func seedDebts() []model.DebtPosition {
	return []model.DebtPosition{
		seedDebt("schuld-1", "Sparkasse München", "Immobilienkredit", "250000", "2044-12-31", "2.5", "Grundschuld Immobilie"),
		seedDebt("schuld-2", "Deutsche Bank", "Betriebsmittelkredit", "50000", "2027-06-30", "3.8", "Bürgschaft"),
		seedDebt("schuld-3", "KfW", "Förderdarlehen", "75000", "2029-12-31", "1.2", "Nachrangig"),
		seedDebt("schuld-4", "Commerzbank Köln", "Kontokorrentkredit", "30000", "2025-12-31", "4.2", "Bürgschaft durch Geschäftsführer"),
		seedDebt("schuld-5", "Münchener Hypothekenbank", "Hypothekendarlehen", "180000", "2035-06-15", "2.1", "Grundschuld auf Bürogebäude"),
		seedDebt("schuld-6", "Bayerische Landesbank", "Investitionskredit", "95000", "2028-03-31", "3.5", "Sicherungsübereignung Maschinen"),
		seedDebt("schuld-7", "Volksbank Nürnberg", "Leasingvertrag", "15000", "2026-09-30", "5.0", "Leasinggegenstand"),
		seedDebt("schuld-8", "Dresdner Bank", "Überziehungskredit", "12000", "2025-01-31", "8.5", "Keine"),
		seedDebt("schuld-9", "Postbank", "Ratenkredit", "25000", "2027-12-31", "6.2", "Lohnabtretung"),
		seedDebt("schuld-10", "HypoVereinsbank", "Bauspardarlehen", "60000", "2030-06-30", "1.8", "Bausparvertrag"),
	}
}
