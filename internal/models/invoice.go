package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice statuses
const (
	InvoiceDraft  = "DRAFT"
	InvoiceIssued = "ISSUED"
	InvoiceSent   = "SENT" // transmitted via PEPPOL
	InvoicePaid   = "PAID"
	InvoiceVoided = "VOIDED"
)

// Invoice is an outgoing (sales) invoice. Amount columns are stored
// values recomputed from the line list at issue time; drafts always
// recompute from lines and never trust these fields.
type Invoice struct {
	ID            int             `json:"id"`
	CompanyID     int             `json:"company_id"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceType   string          `json:"invoice_type"` // full, simplified, standard
	Status        string          `json:"status"`
	CurrencyCode  string          `json:"currency_code"`
	IssueDate     *time.Time      `json:"issue_date"`
	DueDate       *time.Time      `json:"due_date"`
	CustomerName  string          `json:"customer_name"`
	CustomerTRN   string          `json:"customer_trn"`
	CustomerEmail string          `json:"customer_email"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Notes         string          `json:"notes"`
	InvoiceHash   string          `json:"invoice_hash,omitempty"`
	PreviousHash  string          `json:"previous_hash,omitempty"`
	Signature     string          `json:"signature,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// InvoiceLine is one row of an invoice. Position preserves the order
// the lines were entered in.
type InvoiceLine struct {
	ID          int             `json:"id"`
	InvoiceID   int             `json:"invoice_id"`
	Position    int             `json:"position"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxCode     string          `json:"tax_code"`
	NetAmount   decimal.Decimal `json:"net_amount"`
	VATAmount   decimal.Decimal `json:"vat_amount"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// InvoiceWithLines bundles an invoice with its ordered lines.
type InvoiceWithLines struct {
	Invoice
	Lines []InvoiceLine `json:"lines"`
}

// LineItemRequest is one draft row as submitted by the client. Amounts
// arrive as strings so no precision is lost in JSON float parsing.
type LineItemRequest struct {
	Description    string `json:"description"`
	Quantity       string `json:"quantity"`
	UnitPrice      string `json:"unit_price"`
	TaxCode        string `json:"tax_code"`
	PriceInclusive bool   `json:"price_inclusive"`
}

// CreateInvoiceRequest creates or previews a draft invoice.
type CreateInvoiceRequest struct {
	CurrencyCode  string            `json:"currency_code"`
	DueDate       string            `json:"due_date"` // YYYY-MM-DD
	CustomerName  string            `json:"customer_name"`
	CustomerTRN   string            `json:"customer_trn"`
	CustomerEmail string            `json:"customer_email"`
	Notes         string            `json:"notes"`
	Lines         []LineItemRequest `json:"lines"`
}

// InvoiceTotalsResponse is the live-preview answer for a draft.
type InvoiceTotalsResponse struct {
	Subtotal    decimal.Decimal            `json:"subtotal"`
	TaxAmount   decimal.Decimal            `json:"tax_amount"`
	TotalAmount decimal.Decimal            `json:"total_amount"`
	InvoiceType string                     `json:"invoice_type"`
	ByCode      map[string]decimal.Decimal `json:"vat_by_code"`
}
