package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"involinks-backend/internal/cache"
	"involinks-backend/internal/models"
	"involinks-backend/internal/repositories"
)

type CompanyService struct {
	companyRepo      *repositories.CompanyRepository
	documentRepo     *repositories.DocumentRepository
	registrationRepo *repositories.RegistrationRepository
	subscriptionRepo *repositories.SubscriptionRepository
	planRepo         *repositories.PlanRepository
}

func NewCompanyService(companyRepo *repositories.CompanyRepository,
	documentRepo *repositories.DocumentRepository,
	registrationRepo *repositories.RegistrationRepository,
	subscriptionRepo *repositories.SubscriptionRepository,
	planRepo *repositories.PlanRepository) *CompanyService {
	return &CompanyService{
		companyRepo:      companyRepo,
		documentRepo:     documentRepo,
		registrationRepo: registrationRepo,
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
	}
}

func (s *CompanyService) Get(ctx context.Context, id int) (*models.Company, error) {
	return s.companyRepo.Get(ctx, id)
}

// List returns companies, optionally filtered by status.
func (s *CompanyService) List(ctx context.Context, status string) ([]*models.Company, error) {
	if status == "" {
		return s.companyRepo.List(ctx)
	}
	return s.companyRepo.ListByStatus(ctx, status)
}

// PendingReview lists companies waiting in the admin approval queue
// that have actually finished the wizard.
func (s *CompanyService) PendingReview(ctx context.Context) ([]*models.Company, error) {
	companies, err := s.companyRepo.ListByStatus(ctx, models.CompanyPendingReview)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Company, 0, len(companies))
	for _, c := range companies {
		progress, err := s.registrationRepo.GetByCompany(ctx, c.ID)
		if err != nil || !progress.Completed {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// ReviewDetail bundles everything an admin needs to decide on an
// application: the company, its documents, and its chosen plan.
type ReviewDetail struct {
	Company      *models.Company              `json:"company"`
	Documents    []*models.CompanyDocument    `json:"documents"`
	Progress     *models.RegistrationProgress `json:"progress"`
	Subscription *models.SubscriptionWithPlan `json:"subscription,omitempty"`
}

func (s *CompanyService) ReviewDetail(ctx context.Context, companyID int) (*ReviewDetail, error) {
	company, err := s.companyRepo.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	docs, err := s.documentRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	progress, err := s.registrationRepo.GetByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	detail := &ReviewDetail{Company: company, Documents: docs, Progress: progress}
	if sub, err := s.subscriptionRepo.GetCurrent(ctx, companyID); err == nil {
		withPlan := &models.SubscriptionWithPlan{CompanySubscription: *sub}
		if plan, err := s.planRepo.Get(ctx, sub.PlanID); err == nil {
			withPlan.Plan = plan
		}
		detail.Subscription = withPlan
	}
	return detail, nil
}

// Approve activates a pending company so it can issue invoices.
func (s *CompanyService) Approve(ctx context.Context, companyID int) error {
	company, err := s.companyRepo.Get(ctx, companyID)
	if err != nil {
		return err
	}
	if company.Status != models.CompanyPendingReview {
		return fmt.Errorf("company is %s, only pending companies can be approved", company.Status)
	}
	if err := s.companyRepo.UpdateStatus(ctx, companyID, models.CompanyActive, ""); err != nil {
		return err
	}
	cache.InvalidateCompanyCaches(ctx, companyID)
	log.Printf("[Admin] Company %d (%s) approved", companyID, company.LegalName)
	return nil
}

// Reject declines a pending application. The reason is shown to the
// applicant so they can fix and resubmit.
func (s *CompanyService) Reject(ctx context.Context, companyID int, reason string) error {
	if reason == "" {
		return errors.New("a rejection reason is required")
	}
	company, err := s.companyRepo.Get(ctx, companyID)
	if err != nil {
		return err
	}
	if company.Status != models.CompanyPendingReview {
		return fmt.Errorf("company is %s, only pending companies can be rejected", company.Status)
	}
	if err := s.companyRepo.UpdateStatus(ctx, companyID, models.CompanyRejected, reason); err != nil {
		return err
	}
	cache.InvalidateCompanyCaches(ctx, companyID)
	log.Printf("[Admin] Company %d (%s) rejected: %s", companyID, company.LegalName, reason)
	return nil
}

// Suspend blocks an active company from issuing invoices.
func (s *CompanyService) Suspend(ctx context.Context, companyID int, reason string) error {
	company, err := s.companyRepo.Get(ctx, companyID)
	if err != nil {
		return err
	}
	if company.Status != models.CompanyActive {
		return fmt.Errorf("company is %s, only active companies can be suspended", company.Status)
	}
	if err := s.companyRepo.UpdateStatus(ctx, companyID, models.CompanySuspended, reason); err != nil {
		return err
	}
	cache.InvalidateCompanyCaches(ctx, companyID)
	log.Printf("[Admin] Company %d (%s) suspended", companyID, company.LegalName)
	return nil
}

// Reinstate re-activates a suspended company.
func (s *CompanyService) Reinstate(ctx context.Context, companyID int) error {
	company, err := s.companyRepo.Get(ctx, companyID)
	if err != nil {
		return err
	}
	if company.Status != models.CompanySuspended {
		return fmt.Errorf("company is %s, only suspended companies can be reinstated", company.Status)
	}
	if err := s.companyRepo.UpdateStatus(ctx, companyID, models.CompanyActive, ""); err != nil {
		return err
	}
	cache.InvalidateCompanyCaches(ctx, companyID)
	return nil
}

// ReviewDocument lets an admin approve or reject a single document.
func (s *CompanyService) ReviewDocument(ctx context.Context, documentID int, approved bool) error {
	status := models.DocApproved
	if !approved {
		status = models.DocRejected
	}
	return s.documentRepo.UpdateStatus(ctx, documentID, status)
}

// CurrentSubscription returns the company's newest subscription with
// its plan attached.
func (s *CompanyService) CurrentSubscription(ctx context.Context, companyID int) (*models.SubscriptionWithPlan, error) {
	sub, err := s.subscriptionRepo.GetCurrent(ctx, companyID)
	if err != nil {
		return nil, err
	}
	withPlan := &models.SubscriptionWithPlan{CompanySubscription: *sub}
	if plan, err := s.planRepo.Get(ctx, sub.PlanID); err == nil {
		withPlan.Plan = plan
	}
	return withPlan, nil
}

// ListPlans returns the active plans for the pricing page.
func (s *CompanyService) ListPlans(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	return s.planRepo.ListActive(ctx)
}
