package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"involinks-backend/internal/analytics"
	"involinks-backend/internal/models"
	"involinks-backend/internal/repositories"
	"involinks-backend/internal/timeutil"
	"involinks-backend/internal/vat"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type PayableService struct {
	payableRepo *repositories.PayableRepository
}

func NewPayableService(payableRepo *repositories.PayableRepository) *PayableService {
	return &PayableService{payableRepo: payableRepo}
}

// Create records a supplier invoice received outside PEPPOL.
func (s *PayableService) Create(ctx context.Context, companyID int, req *models.CreatePayableRequest) (*models.Payable, error) {
	if req.SupplierName == "" {
		return nil, errors.New("supplier name is required")
	}
	if req.SupplierTRN != "" && !vat.IsValidTRN(req.SupplierTRN) {
		return nil, fmt.Errorf("invalid supplier TRN %q", req.SupplierTRN)
	}

	invoiceDate, err := time.Parse("2006-01-02", req.InvoiceDate)
	if err != nil {
		return nil, fmt.Errorf("invalid invoice date %q, expected YYYY-MM-DD", req.InvoiceDate)
	}
	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q, expected YYYY-MM-DD", req.DueDate)
	}
	if dueDate.Before(invoiceDate) {
		return nil, errors.New("due date precedes invoice date")
	}

	subtotal, err := decimal.NewFromString(req.Subtotal)
	if err != nil {
		return nil, fmt.Errorf("invalid subtotal %q", req.Subtotal)
	}
	taxAmount, err := decimal.NewFromString(req.TaxAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid tax amount %q", req.TaxAmount)
	}
	if subtotal.IsNegative() || taxAmount.IsNegative() {
		return nil, errors.New("amounts cannot be negative")
	}

	p := &models.Payable{
		CompanyID:             companyID,
		SupplierInvoiceNumber: req.SupplierInvoiceNumber,
		SupplierName:          req.SupplierName,
		SupplierTRN:           req.SupplierTRN,
		InvoiceDate:           invoiceDate,
		DueDate:               dueDate,
		CurrencyCode:          currencyOrDefault(req.CurrencyCode),
		Subtotal:              vat.RoundAmount(subtotal),
		TaxAmount:             vat.RoundAmount(taxAmount),
		TotalAmount:           vat.RoundAmount(subtotal.Add(taxAmount)),
	}
	if err := s.payableRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// List returns the AP inbox with aging computed against today.
func (s *PayableService) List(ctx context.Context, companyID int, status string) ([]*models.PayableView, error) {
	payables, err := s.payableRepo.ListByCompany(ctx, companyID, status)
	if err != nil {
		return nil, err
	}

	now := timeutil.Now()
	views := make([]*models.PayableView, len(payables))
	for i, p := range payables {
		days := timeutil.DaysOverdue(p.DueDate, now)
		aging := analytics.ClassifyAging(days)
		// Paid bills are never overdue
		if p.Status == models.PayablePaid {
			days = 0
			aging = analytics.AgingActive
		}
		views[i] = &models.PayableView{Payable: *p, DaysOverdue: days, Aging: aging}
	}
	return views, nil
}

func (s *PayableService) Get(ctx context.Context, companyID, payableID int) (*models.PayableView, error) {
	p, err := s.payableRepo.Get(ctx, payableID)
	if err != nil {
		return nil, err
	}
	if p.CompanyID != companyID {
		return nil, pgx.ErrNoRows
	}
	days := timeutil.DaysOverdue(p.DueDate, timeutil.Now())
	return &models.PayableView{Payable: *p, DaysOverdue: days, Aging: analytics.ClassifyAging(days)}, nil
}

// Valid status transitions for the AP workflow. DISPUTED can be
// re-approved once the supplier resolves the issue.
var payableTransitions = map[string][]string{
	models.PayableReceived: {models.PayableApproved, models.PayableDisputed},
	models.PayableApproved: {models.PayablePaid, models.PayableDisputed},
	models.PayableDisputed: {models.PayableApproved},
}

// UpdateStatus moves a payable through the approval workflow.
func (s *PayableService) UpdateStatus(ctx context.Context, companyID, payableID int, status string) error {
	p, err := s.payableRepo.Get(ctx, payableID)
	if err != nil {
		return err
	}
	if p.CompanyID != companyID {
		return pgx.ErrNoRows
	}
	for _, allowed := range payableTransitions[p.Status] {
		if status == allowed {
			return s.payableRepo.UpdateStatus(ctx, payableID, status)
		}
	}
	return fmt.Errorf("cannot move payable from %s to %s", p.Status, status)
}
