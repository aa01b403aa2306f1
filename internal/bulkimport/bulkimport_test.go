package bulkimport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "invoice_ref,customer_name,customer_trn,customer_email,due_date,description,quantity,unit_price,tax_code\n"

func TestParseInvoicesSingleInvoice(t *testing.T) {
	csvData := header +
		"REF-1,Gulf Trading LLC,123456789012345,billing@gulf.ae,2026-04-30,Consulting,2,100.00,SR\n" +
		"REF-1,Gulf Trading LLC,123456789012345,billing@gulf.ae,2026-04-30,Export fee,1,50,ZR\n"

	res, err := ParseInvoices(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Empty(t, res.Errors)
	require.Len(t, res.Invoices, 1)

	inv := res.Invoices[0]
	assert.Equal(t, "Gulf Trading LLC", inv.CustomerName)
	assert.Equal(t, "123456789012345", inv.CustomerTRN)
	assert.Equal(t, "2026-04-30", inv.DueDate)
	assert.Equal(t, "AED", inv.CurrencyCode)
	require.Len(t, inv.Lines, 2)
	assert.Equal(t, "Consulting", inv.Lines[0].Description)
	assert.Equal(t, "SR", inv.Lines[0].TaxCode)
	assert.Equal(t, "ZR", inv.Lines[1].TaxCode)
}

func TestParseInvoicesGroupsByRef(t *testing.T) {
	csvData := header +
		"A,Customer A,,,2026-04-01,Item 1,1,10,SR\n" +
		"B,Customer B,,,2026-04-01,Item 2,1,20,SR\n" +
		"A,Customer A,,,2026-04-01,Item 3,1,30,SR\n"

	res, err := ParseInvoices(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, res.Invoices, 2)
	assert.Len(t, res.Invoices[0].Lines, 2)
	assert.Len(t, res.Invoices[1].Lines, 1)
}

func TestParseInvoicesRejectsWholeInvoiceOnBadRow(t *testing.T) {
	csvData := header +
		"A,Customer A,,,2026-04-01,Good line,1,10,SR\n" +
		"A,Customer A,,,2026-04-01,Bad line,not-a-number,10,SR\n" +
		"B,Customer B,,,2026-04-01,Fine,1,20,SR\n"

	res, err := ParseInvoices(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, res.Invoices, 1)
	assert.Equal(t, "Customer B", res.Invoices[0].CustomerName)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, 3, res.Errors[0].Row)
	assert.Contains(t, res.Errors[0].Message, "quantity")
}

func TestParseInvoicesValidations(t *testing.T) {
	cases := []struct {
		name    string
		row     string
		wantMsg string
	}{
		{"bad TRN", "A,Cust,12345,,2026-04-01,Item,1,10,SR", "invalid TRN"},
		{"bad date", "A,Cust,,,30-04-2026,Item,1,10,SR", "invalid due_date"},
		{"missing description", "A,Cust,,,2026-04-01,,1,10,SR", "description is required"},
		{"bad price", "A,Cust,,,2026-04-01,Item,1,ten,SR", "invalid unit_price"},
		{"bad tax code", "A,Cust,,,2026-04-01,Item,1,10,XX", "unknown tax_code"},
		{"missing ref", ",Cust,,,2026-04-01,Item,1,10,SR", "invoice_ref is required"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := ParseInvoices(strings.NewReader(header + tc.row + "\n"))
			require.NoError(t, err)
			assert.Empty(t, res.Invoices)
			require.NotEmpty(t, res.Errors)
			assert.Contains(t, res.Errors[0].Message, tc.wantMsg)
		})
	}
}

func TestParseInvoicesDefaultsTaxCode(t *testing.T) {
	res, err := ParseInvoices(strings.NewReader(header + "A,Cust,,,2026-04-01,Item,1,10,\n"))
	require.NoError(t, err)
	require.Len(t, res.Invoices, 1)
	assert.Equal(t, "SR", res.Invoices[0].Lines[0].TaxCode)
}

func TestParseInvoicesRejectsWrongHeader(t *testing.T) {
	_, err := ParseInvoices(strings.NewReader("a,b,c,d,e,f,g,h,i\n"))
	assert.Error(t, err)
}

func TestParseInvoicesEmptyFile(t *testing.T) {
	_, err := ParseInvoices(strings.NewReader(""))
	assert.Error(t, err)
}
