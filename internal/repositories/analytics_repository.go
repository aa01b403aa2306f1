package repositories

import (
	"context"
	"strconv"
	"time"

	"involinks-backend/internal/analytics"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type AnalyticsRepository struct {
	DB *pgxpool.Pool
}

func NewAnalyticsRepository(db *pgxpool.Pool) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

// CompanyRecords builds the flattened dashboard rows: one per company
// with its current plan, this month's invoice count, and the monthly
// recurring revenue its subscription contributes (yearly plans count
// at one twelfth).
func (r *AnalyticsRepository) CompanyRecords(ctx context.Context, monthStart time.Time) ([]analytics.CompanyRecord, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT c.id, c.legal_name, c.status, c.emirate, c.vat_enabled,
		       COALESCE(p.name, ''),
		       COALESCE(s.billing_cycle, ''),
		       COALESCE(p.price_monthly, 0)::text,
		       COALESCE(p.price_yearly, 0)::text,
		       COALESCE(s.status, ''),
		       (SELECT COUNT(*) FROM invoices i
		        WHERE i.company_id = c.id AND i.status != 'DRAFT'
		        AND i.issue_date >= $1 AND i.issue_date < $2)
		FROM companies c
		LEFT JOIN LATERAL (
			SELECT plan_id, billing_cycle, status
			FROM company_subscriptions
			WHERE company_id = c.id
			ORDER BY created_at DESC LIMIT 1
		) s ON true
		LEFT JOIN subscription_plans p ON p.id = s.plan_id
		ORDER BY c.created_at DESC`,
		monthStart, monthStart.AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []analytics.CompanyRecord
	for rows.Next() {
		var (
			rec          analytics.CompanyRecord
			id           int
			billingCycle string
			subStatus    string
			priceMonthly string
			priceYearly  string
		)
		err := rows.Scan(&id, &rec.Name, &rec.Status, &rec.Region, &rec.VATRegistered,
			&rec.Plan, &billingCycle, &priceMonthly, &priceYearly, &subStatus,
			&rec.InvoicesThisMonth)
		if err != nil {
			return nil, err
		}
		rec.ID = strconv.Itoa(id)

		// Only active subscriptions contribute revenue
		if subStatus == "ACTIVE" {
			if billingCycle == "yearly" {
				if d, err := decimal.NewFromString(priceYearly); err == nil {
					rec.MonthlyRevenue = d.Div(decimal.NewFromInt(12)).Round(2)
				}
			} else {
				if d, err := decimal.NewFromString(priceMonthly); err == nil {
					rec.MonthlyRevenue = d
				}
			}
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// InvoiceCountInRange counts non-draft invoices platform-wide, used for
// the month-over-month dashboard delta.
func (r *AnalyticsRepository) InvoiceCountInRange(ctx context.Context, from, to time.Time) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices
         WHERE status != 'DRAFT' AND issue_date >= $1 AND issue_date < $2`,
		from, to).Scan(&count)
	return count, err
}
