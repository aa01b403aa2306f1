package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"involinks-backend/internal/bulkimport"
	"involinks-backend/internal/cache"
	"involinks-backend/internal/metrics"
	"involinks-backend/internal/models"
	"involinks-backend/internal/repositories"
	"involinks-backend/internal/signing"
	"involinks-backend/internal/timeutil"
	"involinks-backend/internal/vat"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var (
	ErrInvoiceQuotaExceeded = errors.New("monthly invoice quota exceeded for current plan")
	ErrNotDraft             = errors.New("invoice is not a draft")
)

type InvoiceService struct {
	invoiceRepo      *repositories.InvoiceRepository
	companyRepo      *repositories.CompanyRepository
	subscriptionRepo *repositories.SubscriptionRepository
	planRepo         *repositories.PlanRepository
	signer           *signing.Signer
}

func NewInvoiceService(invoiceRepo *repositories.InvoiceRepository,
	companyRepo *repositories.CompanyRepository,
	subscriptionRepo *repositories.SubscriptionRepository,
	planRepo *repositories.PlanRepository,
	signer *signing.Signer) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:      invoiceRepo,
		companyRepo:      companyRepo,
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		signer:           signer,
	}
}

// buildLines validates the request rows and computes per-line amounts.
func buildLines(req *models.CreateInvoiceRequest) ([]models.InvoiceLine, *vat.InvoiceTotals, error) {
	if len(req.Lines) == 0 {
		return nil, nil, errors.New("invoice needs at least one line")
	}

	items := make([]vat.LineItem, 0, len(req.Lines))
	for i, lr := range req.Lines {
		qty, err := decimal.NewFromString(lr.Quantity)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: invalid quantity %q", i+1, lr.Quantity)
		}
		price, err := decimal.NewFromString(lr.UnitPrice)
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: invalid unit price %q", i+1, lr.UnitPrice)
		}
		code := lr.TaxCode
		if code == "" {
			code = vat.CodeStandard
		}
		items = append(items, vat.LineItem{
			Description:    lr.Description,
			Quantity:       qty,
			UnitPrice:      price,
			TaxCode:        code,
			PriceInclusive: lr.PriceInclusive,
		})
	}

	totals, err := vat.Calculate(items)
	if err != nil {
		return nil, nil, err
	}

	lines := make([]models.InvoiceLine, len(totals.Lines))
	for i, lr := range totals.Lines {
		lines[i] = models.InvoiceLine{
			Description: items[i].Description,
			Quantity:    items[i].Quantity,
			UnitPrice:   items[i].UnitPrice,
			TaxCode:     items[i].TaxCode,
			NetAmount:   lr.Net,
			VATAmount:   lr.VAT,
			TotalAmount: lr.Total,
		}
	}
	return lines, &totals, nil
}

// Preview computes totals and classification without persisting anything.
func (s *InvoiceService) Preview(ctx context.Context, companyID int, req *models.CreateInvoiceRequest) (*models.InvoiceTotalsResponse, error) {
	_, totals, err := buildLines(req)
	if err != nil {
		return nil, err
	}

	company, err := s.companyRepo.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}

	byCode := make(map[string]decimal.Decimal, len(totals.ByCode))
	for code, ct := range totals.ByCode {
		byCode[code] = vat.RoundAmount(ct.VAT)
	}

	return &models.InvoiceTotalsResponse{
		Subtotal:    vat.RoundAmount(totals.Subtotal),
		TaxAmount:   vat.RoundAmount(totals.TotalVAT),
		TotalAmount: vat.RoundAmount(totals.GrandTotal),
		InvoiceType: vat.ClassifyInvoice(totals.GrandTotal, company.VATEnabled),
		ByCode:      byCode,
	}, nil
}

// CreateDraft stores a new draft invoice with computed amounts.
func (s *InvoiceService) CreateDraft(ctx context.Context, companyID int, req *models.CreateInvoiceRequest) (*models.InvoiceWithLines, error) {
	lines, totals, err := buildLines(req)
	if err != nil {
		return nil, err
	}

	if req.CustomerTRN != "" && !vat.IsValidTRN(req.CustomerTRN) {
		return nil, fmt.Errorf("invalid customer TRN %q", req.CustomerTRN)
	}

	company, err := s.companyRepo.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}

	inv := &models.Invoice{
		CompanyID:     companyID,
		InvoiceType:   vat.ClassifyInvoice(totals.GrandTotal, company.VATEnabled),
		CurrencyCode:  currencyOrDefault(req.CurrencyCode),
		CustomerName:  req.CustomerName,
		CustomerTRN:   req.CustomerTRN,
		CustomerEmail: req.CustomerEmail,
		Subtotal:      vat.RoundAmount(totals.Subtotal),
		TaxAmount:     vat.RoundAmount(totals.TotalVAT),
		TotalAmount:   vat.RoundAmount(totals.GrandTotal),
		Notes:         req.Notes,
	}
	if req.DueDate != "" {
		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("invalid due date %q, expected YYYY-MM-DD", req.DueDate)
		}
		inv.DueDate = &due
	}

	if err := s.invoiceRepo.CreateDraft(ctx, inv, lines); err != nil {
		return nil, err
	}
	return &models.InvoiceWithLines{Invoice: *inv, Lines: lines}, nil
}

// UpdateDraft replaces a draft's content. Issued invoices are immutable.
func (s *InvoiceService) UpdateDraft(ctx context.Context, companyID, invoiceID int, req *models.CreateInvoiceRequest) (*models.InvoiceWithLines, error) {
	existing, err := s.getOwned(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if existing.Status != models.InvoiceDraft {
		return nil, ErrNotDraft
	}

	lines, totals, err := buildLines(req)
	if err != nil {
		return nil, err
	}

	company, err := s.companyRepo.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}

	existing.InvoiceType = vat.ClassifyInvoice(totals.GrandTotal, company.VATEnabled)
	existing.CurrencyCode = currencyOrDefault(req.CurrencyCode)
	existing.CustomerName = req.CustomerName
	existing.CustomerTRN = req.CustomerTRN
	existing.CustomerEmail = req.CustomerEmail
	existing.Subtotal = vat.RoundAmount(totals.Subtotal)
	existing.TaxAmount = vat.RoundAmount(totals.TotalVAT)
	existing.TotalAmount = vat.RoundAmount(totals.GrandTotal)
	existing.Notes = req.Notes
	existing.DueDate = nil
	if req.DueDate != "" {
		due, err := time.Parse("2006-01-02", req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("invalid due date %q, expected YYYY-MM-DD", req.DueDate)
		}
		existing.DueDate = &due
	}

	if err := s.invoiceRepo.ReplaceLines(ctx, existing, lines); err != nil {
		return nil, err
	}
	return &models.InvoiceWithLines{Invoice: *existing, Lines: lines}, nil
}

// Issue finalizes a draft: checks the plan quota, assigns the next
// sequential number, freezes the classification, links the hash chain,
// and signs the result. After this the invoice is immutable.
func (s *InvoiceService) Issue(ctx context.Context, companyID, invoiceID int) (*models.Invoice, error) {
	inv, err := s.getOwned(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.Status != models.InvoiceDraft {
		return nil, ErrNotDraft
	}

	company, err := s.companyRepo.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if company.Status != models.CompanyActive {
		return nil, errors.New("company is not active")
	}

	if err := s.checkQuota(ctx, companyID); err != nil {
		return nil, err
	}

	now := timeutil.Now()
	issueDate := timeutil.StartOfDay(now)
	inv.IssueDate = &issueDate
	inv.InvoiceType = vat.ClassifyInvoice(inv.TotalAmount, company.VATEnabled)

	// The repository links the chain and assigns the number inside the
	// issue transaction; the finalizer hashes and signs the result.
	if err := s.invoiceRepo.Issue(ctx, inv, issueFinalizer(s.signer, issueDate)); err != nil {
		return nil, err
	}

	if sub, err := s.subscriptionRepo.GetCurrent(ctx, companyID); err == nil {
		s.subscriptionRepo.IncrementInvoiceCount(ctx, sub.ID)
	}

	metrics.InvoicesIssuedTotal.WithLabelValues(inv.InvoiceType).Inc()
	cache.InvalidateInvoiceCaches(ctx, companyID)

	return inv, nil
}

// issueFinalizer hashes and signs an invoice once the repository has
// assigned its number and previous hash. It must only run inside the
// issue transaction, after chain linking.
func issueFinalizer(signer *signing.Signer, issueDate time.Time) func(*models.Invoice) error {
	return func(inv *models.Invoice) error {
		inv.InvoiceHash = signing.ChainHash(signing.HashInput{
			InvoiceNumber: inv.InvoiceNumber,
			CompanyID:     inv.CompanyID,
			IssueDate:     issueDate.Format("2006-01-02"),
			CustomerTRN:   inv.CustomerTRN,
			TotalAmount:   inv.TotalAmount,
			PreviousHash:  inv.PreviousHash,
		})
		if signer == nil {
			return nil
		}
		sig, err := signer.Sign(inv.InvoiceHash)
		if err != nil {
			return err
		}
		inv.Signature = sig
		return nil
	}
}

// checkQuota enforces the plan's monthly invoice allowance
func (s *InvoiceService) checkQuota(ctx context.Context, companyID int) error {
	sub, err := s.subscriptionRepo.GetCurrent(ctx, companyID)
	if err != nil {
		// Companies without a subscription are not quota-limited
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}

	plan, err := s.planRepo.Get(ctx, sub.PlanID)
	if err != nil {
		return err
	}
	if plan.MaxInvoicesPerMonth == nil {
		return nil
	}

	monthStart := timeutil.StartOfMonth(timeutil.Now())
	count, err := s.invoiceRepo.CountIssuedInMonth(ctx, companyID, monthStart)
	if err != nil {
		return err
	}
	if count >= *plan.MaxInvoicesPerMonth {
		return ErrInvoiceQuotaExceeded
	}
	return nil
}

// Void marks an issued invoice voided. The row is kept so the hash
// chain stays intact.
func (s *InvoiceService) Void(ctx context.Context, companyID, invoiceID int) error {
	inv, err := s.getOwned(ctx, companyID, invoiceID)
	if err != nil {
		return err
	}
	if inv.Status == models.InvoiceDraft {
		return errors.New("drafts are deleted, not voided")
	}
	if inv.Status == models.InvoiceVoided {
		return nil
	}
	cache.InvalidateInvoiceCaches(ctx, companyID)
	return s.invoiceRepo.UpdateStatus(ctx, invoiceID, models.InvoiceVoided)
}

// MarkPaid records payment receipt for an issued invoice
func (s *InvoiceService) MarkPaid(ctx context.Context, companyID, invoiceID int) error {
	inv, err := s.getOwned(ctx, companyID, invoiceID)
	if err != nil {
		return err
	}
	if inv.Status != models.InvoiceIssued && inv.Status != models.InvoiceSent {
		return fmt.Errorf("cannot mark %s invoice paid", inv.Status)
	}
	cache.InvalidateInvoiceCaches(ctx, companyID)
	return s.invoiceRepo.UpdateStatus(ctx, invoiceID, models.InvoicePaid)
}

// DeleteDraft removes an unissued invoice
func (s *InvoiceService) DeleteDraft(ctx context.Context, companyID, invoiceID int) error {
	if _, err := s.getOwned(ctx, companyID, invoiceID); err != nil {
		return err
	}
	return s.invoiceRepo.DeleteDraft(ctx, invoiceID)
}

func (s *InvoiceService) Get(ctx context.Context, companyID, invoiceID int) (*models.InvoiceWithLines, error) {
	inv, err := s.invoiceRepo.GetWithLines(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.CompanyID != companyID {
		return nil, pgx.ErrNoRows
	}
	return inv, nil
}

func (s *InvoiceService) List(ctx context.Context, companyID int, status string) ([]*models.Invoice, error) {
	return s.invoiceRepo.ListByCompany(ctx, companyID, status)
}

// VerifyChain re-walks a company's issued invoices and checks each
// stored hash and signature.
func (s *InvoiceService) VerifyChain(ctx context.Context, companyID int) error {
	from := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	to := timeutil.Now().AddDate(0, 0, 1)
	invoices, err := s.invoiceRepo.ListIssuedInRange(ctx, companyID, from, to)
	if err != nil {
		return err
	}

	prevHash := ""
	for _, inv := range invoices {
		if inv.InvoiceHash == "" {
			continue
		}
		if inv.PreviousHash != prevHash {
			return fmt.Errorf("invoice %s: chain break, expected previous hash %q", inv.InvoiceNumber, prevHash)
		}
		expected := signing.ChainHash(signing.HashInput{
			InvoiceNumber: inv.InvoiceNumber,
			CompanyID:     inv.CompanyID,
			IssueDate:     inv.IssueDate.Format("2006-01-02"),
			CustomerTRN:   inv.CustomerTRN,
			TotalAmount:   inv.TotalAmount,
			PreviousHash:  inv.PreviousHash,
		})
		if expected != inv.InvoiceHash {
			return fmt.Errorf("invoice %s: hash mismatch", inv.InvoiceNumber)
		}
		if s.signer != nil && inv.Signature != "" {
			if err := s.signer.Verify(inv.InvoiceHash, inv.Signature); err != nil {
				return fmt.Errorf("invoice %s: %w", inv.InvoiceNumber, err)
			}
		}
		prevHash = inv.InvoiceHash
	}
	return nil
}

// SigningKeyPEM exports the public verifying key so auditors can check
// invoice signatures independently.
func (s *InvoiceService) SigningKeyPEM() (string, error) {
	if s.signer == nil {
		return "", errors.New("invoice signing is not configured")
	}
	return s.signer.PublicKeyPEM()
}

// ImportDrafts parses a bulk CSV upload and creates a draft for every
// valid invoice group. Row errors are returned alongside the created
// drafts so a partially valid file still imports.
func (s *InvoiceService) ImportDrafts(ctx context.Context, companyID int, csvData io.Reader) ([]*models.InvoiceWithLines, []bulkimport.RowError, error) {
	result, err := bulkimport.ParseInvoices(csvData)
	if err != nil {
		return nil, nil, err
	}

	created := make([]*models.InvoiceWithLines, 0, len(result.Invoices))
	rowErrors := result.Errors
	for i := range result.Invoices {
		inv, err := s.CreateDraft(ctx, companyID, &result.Invoices[i])
		if err != nil {
			rowErrors = append(rowErrors, bulkimport.RowError{Message: err.Error()})
			continue
		}
		created = append(created, inv)
	}
	return created, rowErrors, nil
}

func (s *InvoiceService) getOwned(ctx context.Context, companyID, invoiceID int) (*models.Invoice, error) {
	inv, err := s.invoiceRepo.Get(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv.CompanyID != companyID {
		return nil, pgx.ErrNoRows
	}
	return inv, nil
}

func currencyOrDefault(code string) string {
	if code == "" {
		return "AED"
	}
	return code
}
