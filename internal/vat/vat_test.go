package vat

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestCalculateEmptyLines(t *testing.T) {
	totals, err := Calculate(nil)
	require.NoError(t, err)
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.TotalVAT.IsZero())
	assert.True(t, totals.GrandTotal.IsZero())
	assert.Empty(t, totals.Lines)
}

func TestCalculateStandardAndZeroRated(t *testing.T) {
	totals, err := Calculate([]LineItem{
		{Description: "Consulting", Quantity: d("2"), UnitPrice: d("100"), TaxCode: CodeStandard},
		{Description: "Export freight", Quantity: d("1"), UnitPrice: d("50"), TaxCode: CodeZeroRated},
	})
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(d("250")), "subtotal = %s", totals.Subtotal)
	assert.True(t, totals.TotalVAT.Equal(d("10")), "vat = %s", totals.TotalVAT)
	assert.True(t, totals.GrandTotal.Equal(d("260")), "total = %s", totals.GrandTotal)
}

func TestCalculateCategoryGating(t *testing.T) {
	// Non-standard codes contribute zero VAT no matter the amounts.
	for _, code := range []string{CodeZeroRated, CodeExempt, CodeOutOfScope} {
		totals, err := Calculate([]LineItem{
			{Quantity: d("10"), UnitPrice: d("999.99"), TaxCode: code},
		})
		require.NoError(t, err)
		assert.True(t, totals.TotalVAT.IsZero(), "code %s should carry no VAT", code)
		assert.True(t, totals.GrandTotal.Equal(totals.Subtotal))
	}
}

func TestCalculateReverseChargeTaxed(t *testing.T) {
	totals, err := Calculate([]LineItem{
		{Quantity: d("1"), UnitPrice: d("1000"), TaxCode: CodeReverseCharge},
	})
	require.NoError(t, err)
	assert.True(t, totals.TotalVAT.Equal(d("50")))
}

func TestCalculateOrderIndependent(t *testing.T) {
	items := []LineItem{
		{Quantity: d("3"), UnitPrice: d("19.99"), TaxCode: CodeStandard},
		{Quantity: d("1"), UnitPrice: d("250"), TaxCode: CodeExempt},
		{Quantity: d("7"), UnitPrice: d("0.33"), TaxCode: CodeStandard},
	}
	reversed := []LineItem{items[2], items[1], items[0]}

	a, err := Calculate(items)
	require.NoError(t, err)
	b, err := Calculate(reversed)
	require.NoError(t, err)

	assert.True(t, a.Subtotal.Equal(b.Subtotal))
	assert.True(t, a.TotalVAT.Equal(b.TotalVAT))
	assert.True(t, a.GrandTotal.Equal(b.GrandTotal))
}

func TestCalculateZeroQuantityLineKept(t *testing.T) {
	totals, err := Calculate([]LineItem{
		{Quantity: d("0"), UnitPrice: d("100"), TaxCode: CodeStandard},
		{Quantity: d("1"), UnitPrice: d("0"), TaxCode: CodeStandard},
	})
	require.NoError(t, err)
	assert.Len(t, totals.Lines, 2)
	assert.True(t, totals.GrandTotal.IsZero())
}

func TestCalculateCreditNoteNegatives(t *testing.T) {
	// Negative quantities propagate arithmetically; nothing is clamped.
	totals, err := Calculate([]LineItem{
		{Quantity: d("-2"), UnitPrice: d("100"), TaxCode: CodeStandard},
	})
	require.NoError(t, err)
	assert.True(t, totals.Subtotal.Equal(d("-200")))
	assert.True(t, totals.TotalVAT.Equal(d("-10")))
	assert.True(t, totals.GrandTotal.Equal(d("-210")))
}

func TestCalculateInclusivePrice(t *testing.T) {
	res, err := CalculateLine(LineItem{
		Quantity:       d("1"),
		UnitPrice:      d("1050"),
		TaxCode:        CodeStandard,
		PriceInclusive: true,
	})
	require.NoError(t, err)
	assert.True(t, RoundAmount(res.Net).Equal(d("1000")))
	assert.True(t, RoundAmount(res.VAT).Equal(d("50")))
	assert.True(t, res.Total.Equal(d("1050")))
}

func TestCalculateNoIntermediateRounding(t *testing.T) {
	// 99 lines of 0.01 at 5%: per-line VAT is 0.0005 which would round
	// away line by line but must survive aggregation.
	var items []LineItem
	for i := 0; i < 99; i++ {
		items = append(items, LineItem{Quantity: d("1"), UnitPrice: d("0.01"), TaxCode: CodeStandard})
	}
	totals, err := Calculate(items)
	require.NoError(t, err)
	assert.True(t, totals.TotalVAT.Equal(d("0.0495")), "vat = %s", totals.TotalVAT)
	assert.True(t, RoundAmount(totals.TotalVAT).Equal(d("0.05")))
}

func TestCalculateByCodeBreakdown(t *testing.T) {
	totals, err := Calculate([]LineItem{
		{Quantity: d("1"), UnitPrice: d("100"), TaxCode: CodeStandard},
		{Quantity: d("1"), UnitPrice: d("200"), TaxCode: CodeStandard},
		{Quantity: d("1"), UnitPrice: d("300"), TaxCode: CodeZeroRated},
	})
	require.NoError(t, err)

	sr := totals.ByCode[CodeStandard]
	assert.True(t, sr.Net.Equal(d("300")))
	assert.True(t, sr.VAT.Equal(d("15")))

	zr := totals.ByCode[CodeZeroRated]
	assert.True(t, zr.Net.Equal(d("300")))
	assert.True(t, zr.VAT.IsZero())
}

func TestCalculateInvalidCode(t *testing.T) {
	_, err := Calculate([]LineItem{{Quantity: d("1"), UnitPrice: d("1"), TaxCode: "XX"}})
	assert.Error(t, err)
}

func TestCalculateVATReturn(t *testing.T) {
	ret := CalculateVATReturn(d("500"), d("120"), d("30"))
	assert.True(t, ret.TotalInputVAT.Equal(d("150")))
	assert.True(t, ret.NetVATPayable.Equal(d("350")))

	// Refund position when input VAT exceeds output VAT.
	ret = CalculateVATReturn(d("100"), d("120"), d("30"))
	assert.True(t, ret.NetVATPayable.Equal(d("-50")))
}

func TestIsValidTRN(t *testing.T) {
	tests := []struct {
		trn   string
		valid bool
	}{
		{"123456789012345", true},
		{"12345678901234", false},
		{"1234567890123456", false},
		{"12345678901234A", false},
		{"123 456789012345", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.valid, IsValidTRN(tt.trn), "trn %q", tt.trn)
	}
}

func TestFormatTRN(t *testing.T) {
	assert.Equal(t, "123 4567 8901 2345", FormatTRN("123456789012345"))
	assert.Equal(t, "bogus", FormatTRN("bogus"))
}

func TestClassifyInvoice(t *testing.T) {
	assert.Equal(t, InvoiceFull, ClassifyInvoice(d("15000"), true))
	assert.Equal(t, InvoiceFull, ClassifyInvoice(d("10000"), true))
	assert.Equal(t, InvoiceSimplified, ClassifyInvoice(d("9999.99"), true))
	assert.Equal(t, InvoiceStandard, ClassifyInvoice(d("15000"), false))
}

func TestInvoiceTypeLabel(t *testing.T) {
	assert.Equal(t, "TAX INVOICE", InvoiceTypeLabel(InvoiceFull, "en"))
	assert.Equal(t, "فاتورة ضريبية مبسطة", InvoiceTypeLabel(InvoiceSimplified, "ar"))
	assert.Equal(t, "INVOICE", InvoiceTypeLabel("unknown", "en"))
}
