package services

import (
	"context"
	"fmt"
	"time"

	"involinks-backend/internal/export"
	"involinks-backend/internal/repositories"
	"involinks-backend/internal/timeutil"
	"involinks-backend/internal/vat"

	"github.com/shopspring/decimal"
)

type ReportService struct {
	invoiceRepo *repositories.InvoiceRepository
	payableRepo *repositories.PayableRepository
	companyRepo *repositories.CompanyRepository
}

func NewReportService(invoiceRepo *repositories.InvoiceRepository,
	payableRepo *repositories.PayableRepository,
	companyRepo *repositories.CompanyRepository) *ReportService {
	return &ReportService{
		invoiceRepo: invoiceRepo,
		payableRepo: payableRepo,
		companyRepo: companyRepo,
	}
}

// Export is a generated file ready to stream to the client.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// parsePeriod reads a YYYY-MM-DD range, defaulting to the current
// month. The returned end bound is exclusive.
func parsePeriod(fromStr, toStr string) (time.Time, time.Time, error) {
	now := timeutil.Now()
	from := timeutil.StartOfMonth(now)
	to := from.AddDate(0, 1, 0)

	if fromStr != "" {
		d, err := timeutil.ParseInGST("2006-01-02", fromStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from date %q", fromStr)
		}
		from = d
	}
	if toStr != "" {
		d, err := timeutil.ParseInGST("2006-01-02", toStr)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to date %q", toStr)
		}
		to = d.AddDate(0, 0, 1)
	}
	if !to.After(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("empty period")
	}
	return from, to, nil
}

// InvoicesCSV exports a company's issued invoices for a period.
func (s *ReportService) InvoicesCSV(ctx context.Context, companyID int, fromStr, toStr string) (*Export, error) {
	from, to, err := parsePeriod(fromStr, toStr)
	if err != nil {
		return nil, err
	}

	invoices, err := s.invoiceRepo.ListIssuedInRange(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}

	table := &export.Table{Headers: []string{
		"Invoice Number", "Issue Date", "Type", "Status", "Customer Name",
		"Customer TRN", "Currency", "Subtotal", "VAT", "Total",
	}}
	for _, inv := range invoices {
		issueDate := ""
		if inv.IssueDate != nil {
			issueDate = inv.IssueDate.Format("2006-01-02")
		}
		table.AddRow(inv.InvoiceNumber, issueDate, inv.InvoiceType, inv.Status,
			inv.CustomerName, inv.CustomerTRN, inv.CurrencyCode,
			inv.Subtotal, inv.TaxAmount, inv.TotalAmount)
	}

	data, err := table.BuildCSV()
	if err != nil {
		return nil, err
	}
	return &Export{
		Filename:    export.Filename("invoices", timeutil.Now()),
		ContentType: export.ContentTypeCSV,
		Data:        data,
	}, nil
}

// PayablesCSV exports the AP register for a period.
func (s *ReportService) PayablesCSV(ctx context.Context, companyID int, fromStr, toStr string) (*Export, error) {
	from, to, err := parsePeriod(fromStr, toStr)
	if err != nil {
		return nil, err
	}

	payables, err := s.payableRepo.ListInRange(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}

	table := &export.Table{Headers: []string{
		"Supplier Invoice", "Supplier Name", "Supplier TRN", "Invoice Date",
		"Due Date", "Status", "Received Via", "Currency", "Subtotal", "VAT", "Total",
	}}
	for _, p := range payables {
		table.AddRow(p.SupplierInvoiceNumber, p.SupplierName, p.SupplierTRN,
			p.InvoiceDate.Format("2006-01-02"), p.DueDate.Format("2006-01-02"),
			p.Status, p.ReceivedVia, p.CurrencyCode,
			p.Subtotal, p.TaxAmount, p.TotalAmount)
	}

	data, err := table.BuildCSV()
	if err != nil {
		return nil, err
	}
	return &Export{
		Filename:    export.Filename("payables", timeutil.Now()),
		ContentType: export.ContentTypeCSV,
		Data:        data,
	}, nil
}

// FAF generates the FTA Audit File covering both sales and purchases.
func (s *ReportService) FAF(ctx context.Context, companyID int, fromStr, toStr string) (*Export, export.FAFStats, error) {
	from, to, err := parsePeriod(fromStr, toStr)
	if err != nil {
		return nil, export.FAFStats{}, err
	}

	company, err := s.companyRepo.Get(ctx, companyID)
	if err != nil {
		return nil, export.FAFStats{}, err
	}

	invoices, err := s.invoiceRepo.ListIssuedInRange(ctx, companyID, from, to)
	if err != nil {
		return nil, export.FAFStats{}, err
	}
	payables, err := s.payableRepo.ListInRange(ctx, companyID, from, to)
	if err != nil {
		return nil, export.FAFStats{}, err
	}

	sales := make([]export.FAFInvoice, 0, len(invoices))
	for _, inv := range invoices {
		typeCode := "380"
		if inv.TotalAmount.IsNegative() {
			typeCode = "381"
		}
		row := export.FAFInvoice{
			InvoiceNumber: inv.InvoiceNumber,
			TypeCode:      typeCode,
			PartyTRN:      inv.CustomerTRN,
			PartyName:     inv.CustomerName,
			PartyCountry:  "AE",
			Subtotal:      inv.Subtotal,
			VATAmount:     inv.TaxAmount,
			Total:         inv.TotalAmount,
			Currency:      inv.CurrencyCode,
			Status:        inv.Status,
		}
		if inv.IssueDate != nil {
			row.InvoiceDate = *inv.IssueDate
		}
		sales = append(sales, row)
	}

	purchases := make([]export.FAFInvoice, 0, len(payables))
	for _, p := range payables {
		purchases = append(purchases, export.FAFInvoice{
			InvoiceNumber: p.SupplierInvoiceNumber,
			InvoiceDate:   p.InvoiceDate,
			TypeCode:      "380",
			PartyTRN:      p.SupplierTRN,
			PartyName:     p.SupplierName,
			PartyCountry:  "AE",
			Subtotal:      p.Subtotal,
			VATAmount:     p.TaxAmount,
			Total:         p.TotalAmount,
			Currency:      p.CurrencyCode,
			Status:        p.Status,
		})
	}

	data, stats, err := export.BuildFAF(
		export.FAFCompany{TRN: company.TRN, LegalName: company.LegalName},
		sales, purchases)
	if err != nil {
		return nil, export.FAFStats{}, err
	}
	return &Export{
		Filename:    export.Filename("faf", timeutil.Now()),
		ContentType: export.ContentTypeCSV,
		Data:        data,
	}, stats, nil
}

// VATReturn computes the FTA return figures for a period. Expense VAT
// is not tracked separately yet, so the expenses leg is zero.
func (s *ReportService) VATReturn(ctx context.Context, companyID int, fromStr, toStr string) (*vat.VATReturn, error) {
	from, to, err := parsePeriod(fromStr, toStr)
	if err != nil {
		return nil, err
	}

	outputVAT, err := s.invoiceRepo.SumOutputVAT(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}
	inputVAT, err := s.payableRepo.SumInputVAT(ctx, companyID, from, to)
	if err != nil {
		return nil, err
	}

	ret := vat.CalculateVATReturn(outputVAT, inputVAT, decimal.Zero)
	return &ret, nil
}
