package bulkimport

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"involinks-backend/internal/models"
	"involinks-backend/internal/vat"

	"github.com/shopspring/decimal"
)

// Expected header for invoice import files. Column order is fixed;
// each data row is one invoice line, and consecutive rows with the
// same invoice_ref are grouped into one invoice.
var InvoiceHeaders = []string{
	"invoice_ref",
	"customer_name",
	"customer_trn",
	"customer_email",
	"due_date",
	"description",
	"quantity",
	"unit_price",
	"tax_code",
}

const maxRows = 5000

// RowError ties a validation failure to its 1-based file row.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

// Result is the outcome of parsing one import file. Invoices holds the
// fully valid drafts; Errors the rejected rows. An invoice with any bad
// row is rejected whole, never partially imported.
type Result struct {
	Invoices []models.CreateInvoiceRequest `json:"invoices"`
	Errors   []RowError                    `json:"errors"`
}

// ParseInvoices reads and validates an invoice import CSV.
func ParseInvoices(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(InvoiceHeaders)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	for i, want := range InvoiceHeaders {
		if strings.TrimSpace(strings.ToLower(header[i])) != want {
			return nil, fmt.Errorf("column %d must be %q, got %q", i+1, want, header[i])
		}
	}

	type draft struct {
		req      models.CreateInvoiceRequest
		firstRow int
		bad      bool
	}
	var (
		result Result
		order  []string
		byRef  = make(map[string]*draft)
	)

	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if row-1 > maxRows {
			return nil, fmt.Errorf("import exceeds %d row limit", maxRows)
		}
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: row, Message: err.Error()})
			continue
		}

		ref := strings.TrimSpace(record[0])
		if ref == "" {
			result.Errors = append(result.Errors, RowError{Row: row, Message: "invoice_ref is required"})
			continue
		}

		d, ok := byRef[ref]
		if !ok {
			d = &draft{firstRow: row}
			byRef[ref] = d
			order = append(order, ref)
		}

		line, rowErrs := parseLine(record, row)
		if len(rowErrs) > 0 {
			d.bad = true
			result.Errors = append(result.Errors, rowErrs...)
			continue
		}

		if len(d.req.Lines) == 0 {
			d.req.CustomerName = strings.TrimSpace(record[1])
			d.req.CustomerTRN = strings.TrimSpace(record[2])
			d.req.CustomerEmail = strings.TrimSpace(record[3])
			d.req.DueDate = strings.TrimSpace(record[4])
			d.req.CurrencyCode = "AED"
		}
		d.req.Lines = append(d.req.Lines, line)
	}

	for _, ref := range order {
		d := byRef[ref]
		if d.bad {
			continue
		}
		if d.req.CustomerName == "" {
			result.Errors = append(result.Errors, RowError{Row: d.firstRow, Message: "customer_name is required"})
			continue
		}
		result.Invoices = append(result.Invoices, d.req)
	}

	return &result, nil
}

func parseLine(record []string, row int) (models.LineItemRequest, []RowError) {
	var errs []RowError

	trn := strings.TrimSpace(record[2])
	if trn != "" && !vat.IsValidTRN(trn) {
		errs = append(errs, RowError{Row: row, Message: fmt.Sprintf("invalid TRN %q", trn)})
	}

	dueDate := strings.TrimSpace(record[4])
	if dueDate != "" {
		if _, err := time.Parse("2006-01-02", dueDate); err != nil {
			errs = append(errs, RowError{Row: row, Message: fmt.Sprintf("invalid due_date %q, expected YYYY-MM-DD", dueDate)})
		}
	}

	description := strings.TrimSpace(record[5])
	if description == "" {
		errs = append(errs, RowError{Row: row, Message: "description is required"})
	}

	qty := strings.TrimSpace(record[6])
	if _, err := decimal.NewFromString(qty); err != nil {
		errs = append(errs, RowError{Row: row, Message: fmt.Sprintf("invalid quantity %q", qty)})
	}

	price := strings.TrimSpace(record[7])
	if _, err := decimal.NewFromString(price); err != nil {
		errs = append(errs, RowError{Row: row, Message: fmt.Sprintf("invalid unit_price %q", price)})
	}

	taxCode := strings.ToUpper(strings.TrimSpace(record[8]))
	if taxCode == "" {
		taxCode = "SR"
	}
	if !vat.IsValidCode(taxCode) {
		errs = append(errs, RowError{Row: row, Message: fmt.Sprintf("unknown tax_code %q", record[8])})
	}

	return models.LineItemRequest{
		Description: description,
		Quantity:    qty,
		UnitPrice:   price,
		TaxCode:     taxCode,
	}, errs
}
