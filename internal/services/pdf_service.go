package services

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"

	"involinks-backend/internal/models"
	"involinks-backend/internal/repositories"
	"involinks-backend/internal/storage"
	"involinks-backend/internal/timeutil"
	"involinks-backend/internal/vat"

	"github.com/jung-kurt/gofpdf/v2"
)

type PDFService struct {
	invoiceRepo *repositories.InvoiceRepository
	companyRepo *repositories.CompanyRepository
	store       *storage.ObjectStore
}

func NewPDFService(invoiceRepo *repositories.InvoiceRepository,
	companyRepo *repositories.CompanyRepository,
	store *storage.ObjectStore) *PDFService {
	return &PDFService{
		invoiceRepo: invoiceRepo,
		companyRepo: companyRepo,
		store:       store,
	}
}

// InvoicePDF renders an invoice as an A4 tax invoice document.
func (s *PDFService) InvoicePDF(ctx context.Context, companyID, invoiceID int) ([]byte, error) {
	inv, err := s.invoiceRepo.GetWithLines(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.CompanyID != companyID {
		return nil, fmt.Errorf("invoice %d not found", invoiceID)
	}
	if inv.Status == models.InvoiceDraft {
		return nil, errors.New("drafts cannot be rendered as PDF")
	}

	company, err := s.companyRepo.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	return renderInvoicePDF(inv, company)
}

func renderInvoicePDF(inv *models.InvoiceWithLines, company *models.Company) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	title := "TAX INVOICE"
	if inv.TotalAmount.IsNegative() {
		title = "CREDIT NOTE"
	} else if inv.InvoiceType == "simplified" {
		title = "SIMPLIFIED TAX INVOICE"
	}
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Supplier block
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Supplier", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", company.LegalName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("TRN: %s", vat.FormatTRN(company.TRN)), "RB", 1, "L", false, 0, "")
	pdf.Ln(2)

	// Invoice block
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Invoice Details", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	issueDate := ""
	if inv.IssueDate != nil {
		issueDate = inv.IssueDate.Format("02-Jan-2006")
	}
	pdf.CellFormat(95, 7, fmt.Sprintf("Number: %s", inv.InvoiceNumber), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Issue Date: %s", issueDate), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Customer: %s", inv.CustomerName), "LB", 0, "L", false, 0, "")
	customerTRN := vat.FormatTRN(inv.CustomerTRN)
	if customerTRN == "" {
		customerTRN = "-"
	}
	pdf.CellFormat(95, 7, fmt.Sprintf("Customer TRN: %s", customerTRN), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Line table
	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(70, 7, "Description", "1", 0, "C", true, 0, "")
	pdf.CellFormat(20, 7, "Qty", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Unit Price", "1", 0, "C", true, 0, "")
	pdf.CellFormat(15, 7, "Tax", "1", 0, "C", true, 0, "")
	pdf.CellFormat(25, 7, "VAT", "1", 0, "C", true, 0, "")
	pdf.CellFormat(30, 7, "Total", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	for _, line := range inv.Lines {
		pdf.CellFormat(70, 6, line.Description, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 6, line.Quantity.String(), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, line.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(15, 6, line.TaxCode, "1", 0, "C", false, 0, "")
		pdf.CellFormat(25, 6, line.VATAmount.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 6, line.TotalAmount.StringFixed(2), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(5)

	// Totals
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(63, 8, fmt.Sprintf("Subtotal: %s %s", inv.CurrencyCode, inv.Subtotal.StringFixed(2)), "1", 0, "C", false, 0, "")
	pdf.CellFormat(63, 8, fmt.Sprintf("VAT: %s %s", inv.CurrencyCode, inv.TaxAmount.StringFixed(2)), "1", 0, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(64, 8, fmt.Sprintf("Total: %s %s", inv.CurrencyCode, inv.TotalAmount.StringFixed(2)), "1", 1, "C", false, 0, "")

	// Integrity footer
	if inv.InvoiceHash != "" {
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 7)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(190, 4, fmt.Sprintf("Document hash: %s", inv.InvoiceHash), "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ArchivePDF renders and stores the PDF in object storage, returning
// the storage key. Issued invoices are archived once, on demand.
func (s *PDFService) ArchivePDF(ctx context.Context, companyID, invoiceID int) (string, error) {
	if s.store == nil {
		return "", errors.New("document storage is not configured")
	}
	inv, err := s.invoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return "", err
	}
	if inv.CompanyID != companyID {
		return "", fmt.Errorf("invoice %d not found", invoiceID)
	}

	data, err := s.InvoicePDF(ctx, companyID, invoiceID)
	if err != nil {
		return "", err
	}
	key := storage.InvoicePDFKey(companyID, inv.InvoiceNumber)
	if err := s.store.Put(ctx, key, data, "application/pdf"); err != nil {
		return "", err
	}
	return key, nil
}

// BulkPDFs renders a batch of invoices in parallel with a small worker
// pool, keyed by invoice number.
func (s *PDFService) BulkPDFs(ctx context.Context, companyID int, invoiceIDs []int) (map[string][]byte, error) {
	type pdfResult struct {
		number string
		data   []byte
		err    error
	}

	jobs := make(chan int, len(invoiceIDs))
	results := make(chan pdfResult, len(invoiceIDs))

	workers := 5
	if len(invoiceIDs) < workers {
		workers = len(invoiceIDs)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				inv, err := s.invoiceRepo.GetWithLines(ctx, id)
				if err != nil || inv.CompanyID != companyID {
					results <- pdfResult{err: fmt.Errorf("invoice %d not found", id)}
					continue
				}
				company, err := s.companyRepo.Get(ctx, companyID)
				if err != nil {
					results <- pdfResult{err: err}
					continue
				}
				data, err := renderInvoicePDF(inv, company)
				results <- pdfResult{number: inv.InvoiceNumber, data: data, err: err}
			}
		}()
	}

	for _, id := range invoiceIDs {
		jobs <- id
	}
	close(jobs)
	wg.Wait()
	close(results)

	out := make(map[string][]byte, len(invoiceIDs))
	for r := range results {
		if r.err != nil {
			log.Printf("[PDF] Skipping invoice in bulk render: %v", r.err)
			continue
		}
		out[r.number] = r.data
	}
	return out, nil
}

// BulkPDFZip renders a batch of invoices and bundles them into one zip
// archive for download.
func (s *PDFService) BulkPDFZip(ctx context.Context, companyID int, invoiceIDs []int) ([]byte, error) {
	if len(invoiceIDs) == 0 {
		return nil, errors.New("no invoices selected")
	}
	files, err := s.BulkPDFs(ctx, companyID, invoiceIDs)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, errors.New("no invoices could be rendered")
	}
	return zipPDFs(files)
}

// zipPDFs writes the rendered documents into a zip, one entry per
// invoice number, in stable order.
func zipPDFs(files map[string][]byte) ([]byte, error) {
	numbers := make([]string, 0, len(files))
	for number := range files {
		numbers = append(numbers, number)
	}
	sort.Strings(numbers)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, number := range numbers {
		entry, err := zw.Create(number + ".pdf")
		if err != nil {
			return nil, err
		}
		if _, err := entry.Write(files[number]); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
