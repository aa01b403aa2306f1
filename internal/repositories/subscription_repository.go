package repositories

import (
	"context"
	"time"

	"involinks-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionRepository struct {
	DB *pgxpool.Pool
}

func NewSubscriptionRepository(db *pgxpool.Pool) *SubscriptionRepository {
	return &SubscriptionRepository{DB: db}
}

func (r *SubscriptionRepository) Create(ctx context.Context, s *models.CompanySubscription) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO company_subscriptions(company_id, plan_id, status, billing_cycle,
		 current_period_start, current_period_end)
         VALUES($1, $2, $3, $4, $5, $6)
         RETURNING id, created_at`,
		s.CompanyID, s.PlanID, s.Status, s.BillingCycle,
		s.CurrentPeriodStart, s.CurrentPeriodEnd,
	).Scan(&s.ID, &s.CreatedAt)
}

func (r *SubscriptionRepository) Get(ctx context.Context, id int) (*models.CompanySubscription, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, company_id, plan_id, status, billing_cycle,
		 current_period_start, current_period_end, invoices_this_period, created_at
         FROM company_subscriptions WHERE id=$1`, id)

	var s models.CompanySubscription
	err := row.Scan(&s.ID, &s.CompanyID, &s.PlanID, &s.Status, &s.BillingCycle,
		&s.CurrentPeriodStart, &s.CurrentPeriodEnd, &s.InvoicesThisPeriod, &s.CreatedAt)
	return &s, err
}

// GetCurrent returns the newest subscription for a company
func (r *SubscriptionRepository) GetCurrent(ctx context.Context, companyID int) (*models.CompanySubscription, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, company_id, plan_id, status, billing_cycle,
		 current_period_start, current_period_end, invoices_this_period, created_at
         FROM company_subscriptions WHERE company_id=$1
         ORDER BY created_at DESC LIMIT 1`, companyID)

	var s models.CompanySubscription
	err := row.Scan(&s.ID, &s.CompanyID, &s.PlanID, &s.Status, &s.BillingCycle,
		&s.CurrentPeriodStart, &s.CurrentPeriodEnd, &s.InvoicesThisPeriod, &s.CreatedAt)
	return &s, err
}

func (r *SubscriptionRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE company_subscriptions SET status=$1 WHERE id=$2`, status, id)
	return err
}

// IncrementInvoiceCount bumps the period counter when an invoice is
// issued and returns the new count for quota enforcement.
func (r *SubscriptionRepository) IncrementInvoiceCount(ctx context.Context, id int) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		`UPDATE company_subscriptions SET invoices_this_period = invoices_this_period + 1
		 WHERE id=$1 RETURNING invoices_this_period`, id).Scan(&count)
	return count, err
}

// RenewPeriod rolls the billing period forward and resets the counter
func (r *SubscriptionRepository) RenewPeriod(ctx context.Context, id int, start, end time.Time) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE company_subscriptions SET current_period_start=$1, current_period_end=$2,
		 invoices_this_period=0, status=$3 WHERE id=$4`,
		start, end, models.SubscriptionActive, id)
	return err
}

// ChangePlan switches the subscription to a new plan at the next period
func (r *SubscriptionRepository) ChangePlan(ctx context.Context, id int, planID, billingCycle string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE company_subscriptions SET plan_id=$1, billing_cycle=$2 WHERE id=$3`,
		planID, billingCycle, id)
	return err
}
