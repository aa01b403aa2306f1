package ubl

import (
	"testing"
	"time"

	"involinks-backend/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInvoice() *models.InvoiceWithLines {
	issue := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	due := issue.AddDate(0, 0, 30)

	return &models.InvoiceWithLines{
		Invoice: models.Invoice{
			ID:            1,
			CompanyID:     7,
			InvoiceNumber: "INV-000042",
			Status:        models.InvoiceIssued,
			CurrencyCode:  "AED",
			IssueDate:     &issue,
			DueDate:       &due,
			CustomerName:  "Gulf Trading LLC",
			CustomerTRN:   "123456789012345",
			Subtotal:      decimal.RequireFromString("250.00"),
			TaxAmount:     decimal.RequireFromString("10.00"),
			TotalAmount:   decimal.RequireFromString("260.00"),
		},
		Lines: []models.InvoiceLine{
			{
				Position:    1,
				Description: "Consulting services",
				Quantity:    decimal.NewFromInt(2),
				UnitPrice:   decimal.NewFromInt(100),
				TaxCode:     "SR",
				NetAmount:   decimal.NewFromInt(200),
				VATAmount:   decimal.NewFromInt(10),
				TotalAmount: decimal.NewFromInt(210),
			},
			{
				Position:    2,
				Description: "Export shipment",
				Quantity:    decimal.NewFromInt(1),
				UnitPrice:   decimal.NewFromInt(50),
				TaxCode:     "ZR",
				NetAmount:   decimal.NewFromInt(50),
				VATAmount:   decimal.Zero,
				TotalAmount: decimal.NewFromInt(50),
			},
		},
	}
}

func TestGenerateBasicStructure(t *testing.T) {
	out, err := Generate(testInvoice(), Party{Name: "InvoLinks FZ-LLC", TRN: "987654321098765"}, Party{Name: "Gulf Trading LLC", TRN: "123456789012345"})
	require.NoError(t, err)

	xmlStr := string(out)
	assert.Contains(t, xmlStr, `<?xml version="1.0" encoding="UTF-8"?>`)
	assert.Contains(t, xmlStr, "urn:oasis:names:specification:ubl:schema:xsd:Invoice-2")
	assert.Contains(t, xmlStr, "<cbc:CustomizationID>"+CustomizationID+"</cbc:CustomizationID>")
	assert.Contains(t, xmlStr, "<cbc:ID>INV-000042</cbc:ID>")
	assert.Contains(t, xmlStr, "<cbc:IssueDate>2026-03-15</cbc:IssueDate>")
	assert.Contains(t, xmlStr, "<cbc:InvoiceTypeCode>380</cbc:InvoiceTypeCode>")
	assert.Contains(t, xmlStr, "<cbc:RegistrationName>InvoLinks FZ-LLC</cbc:RegistrationName>")
	assert.Contains(t, xmlStr, "<cbc:RegistrationName>Gulf Trading LLC</cbc:RegistrationName>")
}

func TestGenerateTaxSubtotalsPerCode(t *testing.T) {
	out, err := Generate(testInvoice(), Party{Name: "Seller"}, Party{Name: "Buyer"})
	require.NoError(t, err)

	xmlStr := string(out)
	// Standard-rated subtotal: 200.00 taxable, 10.00 tax, category S at 5%
	assert.Contains(t, xmlStr, `<cbc:TaxableAmount currencyID="AED">200.00</cbc:TaxableAmount>`)
	assert.Contains(t, xmlStr, `<cbc:TaxAmount currencyID="AED">10.00</cbc:TaxAmount>`)
	assert.Contains(t, xmlStr, "<cbc:ID>S</cbc:ID>")
	assert.Contains(t, xmlStr, "<cbc:Percent>5</cbc:Percent>")
	// Zero-rated subtotal: 50.00 taxable, category Z at 0%
	assert.Contains(t, xmlStr, `<cbc:TaxableAmount currencyID="AED">50.00</cbc:TaxableAmount>`)
	assert.Contains(t, xmlStr, "<cbc:ID>Z</cbc:ID>")
	assert.Contains(t, xmlStr, "<cbc:Percent>0</cbc:Percent>")
}

func TestGenerateMonetaryTotals(t *testing.T) {
	out, err := Generate(testInvoice(), Party{Name: "Seller"}, Party{Name: "Buyer"})
	require.NoError(t, err)

	xmlStr := string(out)
	assert.Contains(t, xmlStr, `<cbc:LineExtensionAmount currencyID="AED">250.00</cbc:LineExtensionAmount>`)
	assert.Contains(t, xmlStr, `<cbc:TaxInclusiveAmount currencyID="AED">260.00</cbc:TaxInclusiveAmount>`)
	assert.Contains(t, xmlStr, `<cbc:PayableAmount currencyID="AED">260.00</cbc:PayableAmount>`)
}

func TestGenerateCreditNoteTypeCode(t *testing.T) {
	inv := testInvoice()
	inv.TotalAmount = decimal.RequireFromString("-260.00")

	out, err := Generate(inv, Party{Name: "Seller"}, Party{Name: "Buyer"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "<cbc:InvoiceTypeCode>381</cbc:InvoiceTypeCode>")
}

func TestGenerateRequiresIssueDate(t *testing.T) {
	inv := testInvoice()
	inv.IssueDate = nil

	_, err := Generate(inv, Party{Name: "Seller"}, Party{Name: "Buyer"})
	assert.Error(t, err)
}

func TestGenerateUnknownTaxCode(t *testing.T) {
	inv := testInvoice()
	inv.Lines[0].TaxCode = "XX"

	_, err := Generate(inv, Party{Name: "Seller"}, Party{Name: "Buyer"})
	assert.Error(t, err)
}

func TestGenerateDefaultsCountryAndCurrency(t *testing.T) {
	inv := testInvoice()
	inv.CurrencyCode = ""

	out, err := Generate(inv, Party{Name: "Seller"}, Party{Name: "Buyer"})
	require.NoError(t, err)

	xmlStr := string(out)
	assert.Contains(t, xmlStr, "<cbc:DocumentCurrencyCode>AED</cbc:DocumentCurrencyCode>")
	assert.Contains(t, xmlStr, "<cbc:IdentificationCode>AE</cbc:IdentificationCode>")
}
