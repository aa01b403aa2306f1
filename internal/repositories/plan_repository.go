package repositories

import (
	"context"

	"involinks-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PlanRepository struct {
	DB *pgxpool.Pool
}

func NewPlanRepository(db *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{DB: db}
}

const planColumns = `id, name, COALESCE(description, ''), price_monthly::text, price_yearly::text,
	max_invoices_per_month, max_users, max_pos_devices,
	allow_api_access, allow_branding, allow_multi_currency, priority_support,
	active, created_at`

func scanPlan(row interface{ Scan(...interface{}) error }) (*models.SubscriptionPlan, error) {
	var (
		p            models.SubscriptionPlan
		priceMonthly string
		priceYearly  string
	)
	err := row.Scan(&p.ID, &p.Name, &p.Description, &priceMonthly, &priceYearly,
		&p.MaxInvoicesPerMonth, &p.MaxUsers, &p.MaxPOSDevices,
		&p.AllowAPIAccess, &p.AllowBranding, &p.AllowMultiCurrency, &p.PrioritySupport,
		&p.Active, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if d, err := decimal.NewFromString(priceMonthly); err == nil {
		p.PriceMonthly, _ = d.Float64()
	}
	if d, err := decimal.NewFromString(priceYearly); err == nil {
		p.PriceYearly, _ = d.Float64()
	}
	return &p, nil
}

func (r *PlanRepository) Get(ctx context.Context, id string) (*models.SubscriptionPlan, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+planColumns+` FROM subscription_plans WHERE id=$1`, id)
	return scanPlan(row)
}

// ListActive returns plans shown on the pricing page
func (r *PlanRepository) ListActive(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+planColumns+` FROM subscription_plans WHERE active=true ORDER BY price_monthly ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*models.SubscriptionPlan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}
