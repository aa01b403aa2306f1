package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"involinks-backend/internal/models"
	"involinks-backend/internal/repositories"
	"involinks-backend/internal/storage"
	"involinks-backend/internal/timeutil"
	"involinks-backend/internal/vat"

	"github.com/jackc/pgx/v5"
)

// Wizard step numbers. Steps complete in order; the UI can revisit
// earlier steps but current_step never moves backwards.
const (
	StepCompanyInfo     = 1
	StepBusinessDetails = 2
	StepDocuments       = 3
	StepPlanSelection   = 4
	StepReview          = 5
)

const maxDocumentSize = 10 << 20 // 10 MB per upload

var ErrStepOutOfOrder = errors.New("previous wizard step is not complete")

type RegistrationService struct {
	companyRepo      *repositories.CompanyRepository
	registrationRepo *repositories.RegistrationRepository
	documentRepo     *repositories.DocumentRepository
	planRepo         *repositories.PlanRepository
	subscriptionRepo *repositories.SubscriptionRepository
	store            *storage.ObjectStore
}

func NewRegistrationService(companyRepo *repositories.CompanyRepository,
	registrationRepo *repositories.RegistrationRepository,
	documentRepo *repositories.DocumentRepository,
	planRepo *repositories.PlanRepository,
	subscriptionRepo *repositories.SubscriptionRepository,
	store *storage.ObjectStore) *RegistrationService {
	return &RegistrationService{
		companyRepo:      companyRepo,
		registrationRepo: registrationRepo,
		documentRepo:     documentRepo,
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		store:            store,
	}
}

// Start creates the company shell and its wizard progress row.
func (s *RegistrationService) Start(ctx context.Context, legalName string) (*models.Company, *models.RegistrationProgress, error) {
	if legalName == "" {
		return nil, nil, errors.New("legal name is required")
	}

	company := &models.Company{LegalName: legalName}
	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, nil, err
	}

	progress, err := s.registrationRepo.Create(ctx, company.ID)
	if err != nil {
		return nil, nil, err
	}
	return company, progress, nil
}

// Progress returns the wizard state, plus the company's documents so
// the UI can render step 3 without a second round trip.
func (s *RegistrationService) Progress(ctx context.Context, companyID int) (*models.RegistrationProgress, []*models.CompanyDocument, error) {
	progress, err := s.registrationRepo.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, nil, err
	}
	docs, err := s.documentRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, nil, err
	}
	return progress, docs, nil
}

// SubmitCompanyInfo handles wizard step 1.
func (s *RegistrationService) SubmitCompanyInfo(ctx context.Context, companyID int, req *models.CompanyInfoRequest) error {
	if req.LegalName == "" {
		return errors.New("legal name is required")
	}
	if req.Email == "" {
		return errors.New("contact email is required")
	}

	company, err := s.companyRepo.Get(ctx, companyID)
	if err != nil {
		return err
	}

	company.LegalName = req.LegalName
	company.BusinessType = req.BusinessType
	company.RegistrationNumber = req.RegistrationNumber
	company.Email = req.Email
	company.Phone = req.Phone
	company.Website = req.Website
	company.RegistrationDate = nil
	if req.RegistrationDate != "" {
		d, err := time.Parse("2006-01-02", req.RegistrationDate)
		if err != nil {
			return fmt.Errorf("invalid registration date %q, expected YYYY-MM-DD", req.RegistrationDate)
		}
		company.RegistrationDate = &d
	}

	if err := s.companyRepo.UpdateCompanyInfo(ctx, company); err != nil {
		return err
	}
	return s.registrationRepo.CompleteStep(ctx, companyID, StepCompanyInfo)
}

// SubmitBusinessDetails handles wizard step 2. A TRN is optional here:
// companies below the registration threshold operate without one.
func (s *RegistrationService) SubmitBusinessDetails(ctx context.Context, companyID int, req *models.BusinessDetailsRequest) error {
	if err := s.requireStep(ctx, companyID, StepCompanyInfo); err != nil {
		return err
	}
	if req.TRN != "" && !vat.IsValidTRN(req.TRN) {
		return fmt.Errorf("invalid TRN %q, expected 15 digits", req.TRN)
	}

	company, err := s.companyRepo.Get(ctx, companyID)
	if err != nil {
		return err
	}

	company.BusinessActivity = req.BusinessActivity
	company.AddressLine1 = req.AddressLine1
	company.AddressLine2 = req.AddressLine2
	company.City = req.City
	company.Emirate = req.Emirate
	company.POBox = req.POBox
	company.TRN = req.TRN
	company.VATEnabled = req.TRN != ""
	company.AuthorizedPersonName = req.AuthorizedPersonName
	company.AuthorizedPersonTitle = req.AuthorizedPersonTitle
	company.AuthorizedPersonEmail = req.AuthorizedPersonEmail
	company.AuthorizedPersonPhone = req.AuthorizedPersonPhone

	if err := s.companyRepo.UpdateBusinessDetails(ctx, company); err != nil {
		return err
	}
	return s.registrationRepo.CompleteStep(ctx, companyID, StepBusinessDetails)
}

// UploadDocument stores one registration document (wizard step 3).
// The bytes go to object storage; only metadata lands in the database.
func (s *RegistrationService) UploadDocument(ctx context.Context, companyID int, docType, fileName, mimeType string, data []byte) (*models.CompanyDocument, error) {
	if err := s.requireStep(ctx, companyID, StepBusinessDetails); err != nil {
		return nil, err
	}
	if !models.ValidDocumentType(docType) {
		return nil, fmt.Errorf("unknown document type %q", docType)
	}
	if len(data) == 0 {
		return nil, errors.New("empty file")
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("file exceeds %d MB limit", maxDocumentSize>>20)
	}
	if s.store == nil {
		return nil, errors.New("document storage is not configured")
	}

	key := storage.DocumentKey(companyID, docType, fileName)
	if err := s.store.Put(ctx, key, data, mimeType); err != nil {
		return nil, fmt.Errorf("uploading document: %w", err)
	}

	doc := &models.CompanyDocument{
		CompanyID:    companyID,
		DocumentType: docType,
		FileName:     fileName,
		StorageKey:   key,
		FileSize:     int64(len(data)),
		MimeType:     mimeType,
	}
	if err := s.documentRepo.Create(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// CompleteDocumentsStep closes step 3 once at least one document exists.
func (s *RegistrationService) CompleteDocumentsStep(ctx context.Context, companyID int) error {
	count, err := s.documentRepo.CountByCompany(ctx, companyID)
	if err != nil {
		return err
	}
	if count == 0 {
		return errors.New("at least one document must be uploaded")
	}
	return s.registrationRepo.CompleteStep(ctx, companyID, StepDocuments)
}

// SelectPlan handles wizard step 4, creating a trial subscription.
func (s *RegistrationService) SelectPlan(ctx context.Context, companyID int, planID, billingCycle string) error {
	if err := s.requireStep(ctx, companyID, StepDocuments); err != nil {
		return err
	}
	if billingCycle != models.BillingMonthly && billingCycle != models.BillingYearly {
		return fmt.Errorf("invalid billing cycle %q", billingCycle)
	}

	plan, err := s.planRepo.Get(ctx, planID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("unknown plan %q", planID)
		}
		return err
	}
	if !plan.Active {
		return fmt.Errorf("plan %q is not available", planID)
	}

	now := timeutil.Now()
	sub := &models.CompanySubscription{
		CompanyID:          companyID,
		PlanID:             plan.ID,
		Status:             models.SubscriptionTrial,
		BillingCycle:       billingCycle,
		CurrentPeriodStart: now,
		CurrentPeriodEnd:   now.AddDate(0, 0, 14),
	}
	if err := s.subscriptionRepo.Create(ctx, sub); err != nil {
		return err
	}
	return s.registrationRepo.CompleteStep(ctx, companyID, StepPlanSelection)
}

// Finalize submits the registration for admin review (wizard step 5).
// The company stays PENDING_REVIEW until an admin approves it.
func (s *RegistrationService) Finalize(ctx context.Context, companyID int) error {
	progress, err := s.registrationRepo.GetByCompany(ctx, companyID)
	if err != nil {
		return err
	}
	if !progress.StepCompanyInfo || !progress.StepBusinessDetails ||
		!progress.StepDocuments || !progress.StepPlanSelection {
		return ErrStepOutOfOrder
	}
	if err := s.registrationRepo.CompleteStep(ctx, companyID, StepReview); err != nil {
		return err
	}
	return s.registrationRepo.MarkCompleted(ctx, companyID)
}

// requireStep checks that the named step has already been completed.
func (s *RegistrationService) requireStep(ctx context.Context, companyID, step int) error {
	progress, err := s.registrationRepo.GetByCompany(ctx, companyID)
	if err != nil {
		return err
	}
	done := map[int]bool{
		StepCompanyInfo:     progress.StepCompanyInfo,
		StepBusinessDetails: progress.StepBusinessDetails,
		StepDocuments:       progress.StepDocuments,
		StepPlanSelection:   progress.StepPlanSelection,
		StepReview:          progress.StepReview,
	}
	if !done[step] {
		return ErrStepOutOfOrder
	}
	return nil
}
