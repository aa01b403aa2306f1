package vat

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// UAE FTA tax codes. Only SR and RC carry the 5% rate; ZR is taxed at
// zero and ES/OP fall outside the tax net entirely.
const (
	CodeStandard      = "SR"
	CodeZeroRated     = "ZR"
	CodeExempt        = "ES"
	CodeReverseCharge = "RC"
	CodeOutOfScope    = "OP"
)

// CodeInfo describes a UAE tax code for display and for PEPPOL/FAF mapping.
type CodeInfo struct {
	Code       string          `json:"code"`
	Rate       decimal.Decimal `json:"rate"`
	Taxable    bool            `json:"taxable"`
	Name       string          `json:"name"`
	NameArabic string          `json:"name_ar"`
	PeppolCode string          `json:"peppol_code"`
}

var standardRate = decimal.New(5, -2) // 0.05

var codes = map[string]CodeInfo{
	CodeStandard:      {Code: CodeStandard, Rate: standardRate, Taxable: true, Name: "Standard-rated", NameArabic: "خاضع للضريبة بالنسبة الأساسية", PeppolCode: "AE"},
	CodeZeroRated:     {Code: CodeZeroRated, Rate: decimal.Zero, Taxable: true, Name: "Zero-rated", NameArabic: "خاضع للضريبة بنسبة الصفر", PeppolCode: "Z"},
	CodeExempt:        {Code: CodeExempt, Rate: decimal.Zero, Taxable: false, Name: "Exempt", NameArabic: "معفى من الضريبة", PeppolCode: "E"},
	CodeReverseCharge: {Code: CodeReverseCharge, Rate: standardRate, Taxable: true, Name: "Reverse charge", NameArabic: "آلية الاحتساب العكسي", PeppolCode: "AE"},
	CodeOutOfScope:    {Code: CodeOutOfScope, Rate: decimal.Zero, Taxable: false, Name: "Out of scope", NameArabic: "خارج نطاق الضريبة", PeppolCode: "O"},
}

// IsValidCode reports whether code is one of the five UAE tax codes.
func IsValidCode(code string) bool {
	_, ok := codes[code]
	return ok
}

// GetCodeInfo returns details for a tax code.
func GetCodeInfo(code string) (CodeInfo, error) {
	info, ok := codes[code]
	if !ok {
		return CodeInfo{}, fmt.Errorf("invalid tax code: %s", code)
	}
	return info, nil
}

// LineItem is one row of an invoice draft. Amounts are tax-exclusive
// unless PriceInclusive is set.
type LineItem struct {
	Description    string          `json:"description"`
	Quantity       decimal.Decimal `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TaxCode        string          `json:"tax_code"`
	PriceInclusive bool            `json:"price_inclusive"`
}

// LineResult holds the computed amounts for a single line. Values are
// kept at full precision; callers round at the presentation boundary.
type LineResult struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxCode     string          `json:"tax_code"`
	Rate        decimal.Decimal `json:"rate"`
	Net         decimal.Decimal `json:"net"`
	VAT         decimal.Decimal `json:"vat"`
	Total       decimal.Decimal `json:"total"`
}

// CodeTotals is the per-tax-code slice of an invoice's totals, used for
// UBL TaxSubtotal elements and FAF rows.
type CodeTotals struct {
	Net   decimal.Decimal `json:"net"`
	VAT   decimal.Decimal `json:"vat"`
	Total decimal.Decimal `json:"total"`
}

// InvoiceTotals aggregates an ordered list of line results.
type InvoiceTotals struct {
	Subtotal   decimal.Decimal       `json:"subtotal"`
	TotalVAT   decimal.Decimal       `json:"total_vat"`
	GrandTotal decimal.Decimal       `json:"grand_total"`
	Lines      []LineResult          `json:"lines"`
	ByCode     map[string]CodeTotals `json:"vat_by_code"`
}

// CalculateLine computes net, VAT and total for one line item.
// Quantity and price are taken as given: negative values flow through
// arithmetically so credit-note lines subtract from the totals.
func CalculateLine(item LineItem) (LineResult, error) {
	info, err := GetCodeInfo(item.TaxCode)
	if err != nil {
		return LineResult{}, err
	}

	amount := item.Quantity.Mul(item.UnitPrice)

	res := LineResult{
		Description: item.Description,
		Quantity:    item.Quantity,
		UnitPrice:   item.UnitPrice,
		TaxCode:     item.TaxCode,
		Rate:        info.Rate,
	}

	if !info.Taxable || info.Rate.IsZero() {
		res.Net = amount
		res.VAT = decimal.Zero
		res.Total = amount
		return res, nil
	}

	if item.PriceInclusive {
		// Gross amount given: back out the net.
		res.Total = amount
		res.Net = amount.Div(decimal.NewFromInt(1).Add(info.Rate))
		res.VAT = res.Total.Sub(res.Net)
	} else {
		res.Net = amount
		res.VAT = amount.Mul(info.Rate)
		res.Total = res.Net.Add(res.VAT)
	}

	return res, nil
}

// Calculate computes invoice-level totals from an ordered list of line
// items. Per-line values are summed at full precision; nothing is
// rounded here. An empty list yields all-zero totals.
func Calculate(items []LineItem) (InvoiceTotals, error) {
	totals := InvoiceTotals{
		Subtotal:   decimal.Zero,
		TotalVAT:   decimal.Zero,
		GrandTotal: decimal.Zero,
		ByCode:     make(map[string]CodeTotals),
	}

	for _, item := range items {
		line, err := CalculateLine(item)
		if err != nil {
			return InvoiceTotals{}, err
		}

		totals.Lines = append(totals.Lines, line)
		totals.Subtotal = totals.Subtotal.Add(line.Net)
		totals.TotalVAT = totals.TotalVAT.Add(line.VAT)
		totals.GrandTotal = totals.GrandTotal.Add(line.Total)

		ct := totals.ByCode[line.TaxCode]
		ct.Net = ct.Net.Add(line.Net)
		ct.VAT = ct.VAT.Add(line.VAT)
		ct.Total = ct.Total.Add(line.Total)
		totals.ByCode[line.TaxCode] = ct
	}

	return totals, nil
}

// RoundAmount rounds a monetary value to the AED minor unit (2 decimal
// places, half away from zero). Presentation-time only.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// VATReturn is the FTA VAT return computation: output VAT collected on
// sales less input VAT paid on purchases and expenses.
type VATReturn struct {
	OutputVAT        decimal.Decimal `json:"output_vat"`
	InputVATBills    decimal.Decimal `json:"input_vat_bills"`
	InputVATExpenses decimal.Decimal `json:"input_vat_expenses"`
	TotalInputVAT    decimal.Decimal `json:"total_input_vat"`
	NetVATPayable    decimal.Decimal `json:"net_vat_payable"`
}

// CalculateVATReturn computes the net VAT payable to the FTA. A negative
// result is refundable.
func CalculateVATReturn(salesVAT, billsVAT, expensesVAT decimal.Decimal) VATReturn {
	totalInput := billsVAT.Add(expensesVAT)
	return VATReturn{
		OutputVAT:        RoundAmount(salesVAT),
		InputVATBills:    RoundAmount(billsVAT),
		InputVATExpenses: RoundAmount(expensesVAT),
		TotalInputVAT:    RoundAmount(totalInput),
		NetVATPayable:    RoundAmount(salesVAT.Sub(totalInput)),
	}
}
