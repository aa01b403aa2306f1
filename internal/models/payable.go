package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payable (inward invoice) statuses
const (
	PayableReceived = "RECEIVED"
	PayableApproved = "APPROVED"
	PayablePaid     = "PAID"
	PayableDisputed = "DISPUTED"
)

// Payable is an invoice received from a supplier, sitting in the
// accounts-payable inbox until it is approved and paid.
type Payable struct {
	ID                    int             `json:"id"`
	CompanyID             int             `json:"company_id"`
	SupplierInvoiceNumber string          `json:"supplier_invoice_number"`
	SupplierName          string          `json:"supplier_name"`
	SupplierTRN           string          `json:"supplier_trn"`
	InvoiceDate           time.Time       `json:"invoice_date"`
	DueDate               time.Time       `json:"due_date"`
	CurrencyCode          string          `json:"currency_code"`
	Subtotal              decimal.Decimal `json:"subtotal"`
	TaxAmount             decimal.Decimal `json:"tax_amount"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
	Status                string          `json:"status"`
	ReceivedVia           string          `json:"received_via"` // peppol, email, manual
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// PayableView adds the aging fields computed at fetch time.
type PayableView struct {
	Payable
	DaysOverdue int    `json:"days_overdue"`
	Aging       string `json:"aging"` // overdue, due_soon, active
}

// CreatePayableRequest records a received invoice manually.
type CreatePayableRequest struct {
	SupplierInvoiceNumber string `json:"supplier_invoice_number"`
	SupplierName          string `json:"supplier_name"`
	SupplierTRN           string `json:"supplier_trn"`
	InvoiceDate           string `json:"invoice_date"` // YYYY-MM-DD
	DueDate               string `json:"due_date"`
	CurrencyCode          string `json:"currency_code"`
	Subtotal              string `json:"subtotal"`
	TaxAmount             string `json:"tax_amount"`
}
