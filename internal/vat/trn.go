package vat

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

var trnPattern = regexp.MustCompile(`^\d{15}$`)

// IsValidTRN reports whether trn is a well-formed UAE Tax Registration
// Number: exactly 15 digits, no separators.
func IsValidTRN(trn string) bool {
	return trnPattern.MatchString(trn)
}

// FormatTRN groups a TRN for display ("123456789012345" becomes
// "123 4567 8901 2345"). Invalid input is returned unchanged.
func FormatTRN(trn string) string {
	if !IsValidTRN(trn) {
		return trn
	}
	return fmt.Sprintf("%s %s %s %s", trn[:3], trn[3:7], trn[7:11], trn[11:15])
}

// Invoice classifications per FTA rules.
const (
	InvoiceFull       = "full"
	InvoiceSimplified = "simplified"
	InvoiceStandard   = "standard"
)

// fullInvoiceThreshold is the FTA total (incl. VAT) above which a full
// tax invoice, showing both supplier and customer TRN, is mandatory.
var fullInvoiceThreshold = decimal.NewFromInt(10000)

// ClassifyInvoice determines the invoice type from its VAT-inclusive
// total. Non-VAT-registered businesses always issue standard invoices.
func ClassifyInvoice(totalAmount decimal.Decimal, vatEnabled bool) string {
	if !vatEnabled {
		return InvoiceStandard
	}
	if totalAmount.GreaterThanOrEqual(fullInvoiceThreshold) {
		return InvoiceFull
	}
	return InvoiceSimplified
}

var invoiceTypeLabels = map[string]map[string]string{
	InvoiceFull:       {"en": "TAX INVOICE", "ar": "فاتورة ضريبية"},
	InvoiceSimplified: {"en": "SIMPLIFIED TAX INVOICE", "ar": "فاتورة ضريبية مبسطة"},
	InvoiceStandard:   {"en": "INVOICE", "ar": "فاتورة"},
}

// InvoiceTypeLabel returns the printable title for an invoice type in
// the given language ("en" or "ar"). Unknown inputs fall back to the
// plain English label.
func InvoiceTypeLabel(invoiceType, language string) string {
	if byLang, ok := invoiceTypeLabels[invoiceType]; ok {
		if label, ok := byLang[language]; ok {
			return label
		}
	}
	return "INVOICE"
}
