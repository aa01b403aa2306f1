package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCSVEscaping(t *testing.T) {
	table := &Table{Headers: []string{"Company", "Notes"}}
	table.AddRow("Acme, Inc.", `Said "hello"`)

	out, err := table.BuildCSV()
	require.NoError(t, err)
	assert.Equal(t, "Company,Notes\n\"Acme, Inc.\",\"Said \"\"hello\"\"\"\n", string(out))
}

func TestBuildCSVRoundTrip(t *testing.T) {
	nasty := []string{
		"plain",
		"has,comma",
		`has"quote`,
		"has\nnewline",
		`all,of "them"` + "\n.",
	}
	table := &Table{Headers: []string{"Value"}}
	for _, v := range nasty {
		table.AddRow(v)
	}

	out, err := table.BuildCSV()
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(nasty)+1)
	for i, v := range nasty {
		assert.Equal(t, v, records[i+1][0])
	}
}

func TestBuildCSVHeaderRowAlignment(t *testing.T) {
	table := &Table{Headers: []string{"A", "B", "C"}}
	table.AddRow("1", "2", "3")
	table.AddRow("only-one") // short row padded
	table.AddRow("1", "2", "3", "dropped")

	out, err := table.BuildCSV()
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	for _, rec := range records {
		assert.Len(t, rec, 3)
	}
	assert.Equal(t, []string{"only-one", "", ""}, records[2])
}

func TestBuildCSVNilRendersEmpty(t *testing.T) {
	table := &Table{Headers: []string{"A", "B"}}
	table.AddRow(nil, (*time.Time)(nil))

	out, err := table.BuildCSV()
	require.NoError(t, err)
	assert.Equal(t, "A,B\n,\n", string(out))
}

func TestBuildCSVCellFormats(t *testing.T) {
	issued := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	table := &Table{Headers: []string{"S", "I", "F", "B", "D", "T"}}
	table.AddRow("x", 42, 3.5, true, decimal.RequireFromString("99.999"), issued)

	out, err := table.BuildCSV()
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "42", "3.50", "true", "100.00", "2026-03-15"}, records[1])
}

func TestFilename(t *testing.T) {
	at := time.Date(2026, 8, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "companies-2026-08-31.csv", Filename("companies", at))
}

func TestBuildFAF(t *testing.T) {
	company := FAFCompany{TRN: "100123456789012", LegalName: "Falcon Trading LLC"}
	day := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)

	sales := []FAFInvoice{
		{
			InvoiceNumber: "INV-000001",
			InvoiceDate:   day,
			TypeCode:      "380",
			PartyTRN:      "100987654321098",
			PartyName:     "Oasis Foods",
			Subtotal:      decimal.RequireFromString("1000"),
			VATAmount:     decimal.RequireFromString("50"),
			Total:         decimal.RequireFromString("1050"),
			Status:        "ISSUED",
		},
		{
			InvoiceNumber: "INV-000002",
			InvoiceDate:   day,
			TypeCode:      "380",
			PartyName:     "Walk-in customer",
			Subtotal:      decimal.RequireFromString("200"),
			VATAmount:     decimal.Zero,
			Total:         decimal.RequireFromString("200"),
			Status:        "ISSUED",
		},
	}
	purchases := []FAFInvoice{
		{
			InvoiceNumber: "SUP-889",
			InvoiceDate:   day,
			TypeCode:      "380",
			PartyTRN:      "100555444333222",
			PartyName:     "Gulf Supplies",
			Subtotal:      decimal.RequireFromString("400"),
			VATAmount:     decimal.RequireFromString("20"),
			Total:         decimal.RequireFromString("420"),
			Status:        "APPROVED",
		},
	}

	data, stats, err := BuildFAF(company, sales, purchases)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.TotalInvoices)
	assert.Equal(t, 2, stats.TotalSales)
	assert.Equal(t, 1, stats.TotalPurchases)
	assert.Equal(t, 1, stats.Customers) // B2C row has no TRN
	assert.Equal(t, 1, stats.Suppliers)
	assert.True(t, stats.TotalVAT.Equal(decimal.RequireFromString("70")))
	assert.Equal(t, len(data), stats.FileSize)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, FAFHeaders, records[0])

	// Standard-rated sale: SR at 5%, customer columns filled.
	assert.Equal(t, "SR", records[1][16])
	assert.Equal(t, "5.00", records[1][17])
	assert.Equal(t, "100987654321098", records[1][5])
	assert.Equal(t, "Sale", records[1][11])

	// B2C zero-rated sale reports N/A customer TRN.
	assert.Equal(t, "N/A", records[2][5])
	assert.Equal(t, "ZR", records[2][16])

	// Purchase fills supplier columns, customer columns empty.
	assert.Equal(t, "", records[3][5])
	assert.Equal(t, "100555444333222", records[3][8])
	assert.Equal(t, "Purchase", records[3][11])
}
