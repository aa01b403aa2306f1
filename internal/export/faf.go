package export

import (
	"time"

	"github.com/shopspring/decimal"
)

// FAFHeaders is the fixed column set of the FTA Audit File (FAF)
// format. Column names and order follow the FTA specification and must
// not change.
var FAFHeaders = []string{
	"TRN",
	"Company Name",
	"Invoice Number",
	"Invoice Date",
	"Invoice Type",
	"Customer TRN",
	"Customer Name",
	"Customer Country",
	"Supplier TRN",
	"Supplier Name",
	"Supplier Country",
	"Transaction Type",
	"Invoice Value (Excl. VAT)",
	"VAT Amount",
	"Total Invoice Value",
	"Currency",
	"Tax Code",
	"VAT Rate %",
	"Payment Date",
	"Payment Method",
	"Status",
}

// FAFCompany identifies the reporting business on every row.
type FAFCompany struct {
	TRN       string
	LegalName string
}

// FAFInvoice is one transaction in the audit file, either a sale
// (issued invoice) or a purchase (received invoice).
type FAFInvoice struct {
	InvoiceNumber string
	InvoiceDate   time.Time
	TypeCode      string // UNTDID code: 380, 381, 480, 81
	PartyTRN      string // customer TRN for sales, supplier TRN for purchases
	PartyName     string
	PartyCountry  string
	Subtotal      decimal.Decimal
	VATAmount     decimal.Decimal
	Total         decimal.Decimal
	Currency      string
	Status        string
}

// FAFStats summarizes a generated audit file.
type FAFStats struct {
	TotalInvoices  int             `json:"total_invoices"`
	TotalSales     int             `json:"total_sales"`
	TotalPurchases int             `json:"total_purchases"`
	Customers      int             `json:"total_customers"`
	Suppliers      int             `json:"total_suppliers"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	TotalVAT       decimal.Decimal `json:"total_vat"`
	FileSize       int             `json:"file_size"`
}

var fafTypeNames = map[string]string{
	"380": "Tax Invoice",
	"381": "Credit Note",
	"480": "Commercial Invoice",
	"81":  "Credit Note (Out of Scope)",
}

func fafTypeName(code string) string {
	if name, ok := fafTypeNames[code]; ok {
		return name
	}
	return "Tax Invoice"
}

// fafTaxInfo derives the reported tax code and rate from the invoice
// amounts. A small tolerance around 5% absorbs rounding on the stored
// totals.
func fafTaxInfo(subtotal, vatAmount decimal.Decimal) (string, decimal.Decimal) {
	if subtotal.IsZero() {
		return "OOS", decimal.Zero
	}
	rate := vatAmount.Div(subtotal).Mul(decimal.NewFromInt(100))
	if rate.IsZero() {
		return "ZR", decimal.Zero
	}
	if rate.GreaterThanOrEqual(decimal.NewFromFloat(4.5)) && rate.LessThanOrEqual(decimal.NewFromFloat(5.5)) {
		return "SR", decimal.NewFromInt(5)
	}
	return "EX", rate
}

// BuildFAF assembles the audit file table from issued (sales) and
// received (purchase) invoices and returns the CSV bytes with summary
// statistics.
func BuildFAF(company FAFCompany, sales, purchases []FAFInvoice) ([]byte, FAFStats, error) {
	table := &Table{Headers: FAFHeaders}
	stats := FAFStats{
		TotalAmount: decimal.Zero,
		TotalVAT:    decimal.Zero,
	}

	customers := make(map[string]bool)
	suppliers := make(map[string]bool)

	for _, inv := range sales {
		taxCode, rate := fafTaxInfo(inv.Subtotal, inv.VATAmount)
		customerTRN := inv.PartyTRN
		if customerTRN == "" {
			customerTRN = "N/A" // B2C sale
		} else {
			customers[inv.PartyTRN] = true
		}
		country := inv.PartyCountry
		if country == "" {
			country = "AE"
		}
		table.AddRow(
			company.TRN, company.LegalName,
			inv.InvoiceNumber, inv.InvoiceDate, fafTypeName(inv.TypeCode),
			customerTRN, inv.PartyName, country,
			"", "", "",
			"Sale",
			inv.Subtotal, inv.VATAmount, inv.Total,
			currencyOrAED(inv.Currency), taxCode, rate.Round(2).StringFixed(2),
			"", "", inv.Status,
		)
		stats.TotalSales++
		stats.TotalAmount = stats.TotalAmount.Add(inv.Total)
		stats.TotalVAT = stats.TotalVAT.Add(inv.VATAmount)
	}

	for _, inv := range purchases {
		taxCode, rate := fafTaxInfo(inv.Subtotal, inv.VATAmount)
		if inv.PartyTRN != "" {
			suppliers[inv.PartyTRN] = true
		}
		table.AddRow(
			company.TRN, company.LegalName,
			inv.InvoiceNumber, inv.InvoiceDate, fafTypeName(inv.TypeCode),
			"", "", "",
			inv.PartyTRN, inv.PartyName, "AE",
			"Purchase",
			inv.Subtotal, inv.VATAmount, inv.Total,
			currencyOrAED(inv.Currency), taxCode, rate.Round(2).StringFixed(2),
			"", "", inv.Status,
		)
		stats.TotalPurchases++
		stats.TotalAmount = stats.TotalAmount.Add(inv.Total)
		stats.TotalVAT = stats.TotalVAT.Add(inv.VATAmount)
	}

	stats.TotalInvoices = stats.TotalSales + stats.TotalPurchases
	stats.Customers = len(customers)
	stats.Suppliers = len(suppliers)

	data, err := table.BuildCSV()
	if err != nil {
		return nil, FAFStats{}, err
	}
	stats.FileSize = len(data)
	return data, stats, nil
}

func currencyOrAED(c string) string {
	if c == "" {
		return "AED"
	}
	return c
}
