package services

import (
	"context"
	"encoding/json"
	"time"

	"involinks-backend/internal/analytics"
	"involinks-backend/internal/cache"
	"involinks-backend/internal/export"
	"involinks-backend/internal/repositories"
	"involinks-backend/internal/timeutil"

	"github.com/shopspring/decimal"
)

const dashboardCacheTTL = 5 * time.Minute

type AnalyticsService struct {
	analyticsRepo *repositories.AnalyticsRepository
}

func NewAnalyticsService(analyticsRepo *repositories.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{analyticsRepo: analyticsRepo}
}

// Dashboard is the full super-admin dashboard payload.
type Dashboard struct {
	Stats        analytics.DashboardStats `json:"stats"`
	InvoiceDelta analytics.Delta          `json:"invoice_delta"`
	GeneratedAt  time.Time                `json:"generated_at"`
}

// Dashboard aggregates platform-wide stats, cached for a few minutes
// because the underlying query scans every tenant.
func (s *AnalyticsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	if data, ok := cache.GetCached(ctx, cache.DashboardStatsKey); ok {
		var d Dashboard
		if err := json.Unmarshal(data, &d); err == nil {
			return &d, nil
		}
	}

	now := timeutil.Now()
	monthStart := timeutil.StartOfMonth(now)
	lastMonthStart := monthStart.AddDate(0, -1, 0)

	records, err := s.analyticsRepo.CompanyRecords(ctx, monthStart)
	if err != nil {
		return nil, err
	}

	thisMonth, err := s.analyticsRepo.InvoiceCountInRange(ctx, monthStart, now)
	if err != nil {
		return nil, err
	}
	lastMonth, err := s.analyticsRepo.InvoiceCountInRange(ctx, lastMonthStart, monthStart)
	if err != nil {
		return nil, err
	}

	d := &Dashboard{
		Stats: analytics.Summarize(records),
		InvoiceDelta: analytics.MonthDelta(
			decimal.NewFromInt(int64(thisMonth)),
			decimal.NewFromInt(int64(lastMonth))),
		GeneratedAt: now,
	}

	if data, err := json.Marshal(d); err == nil {
		cache.SetCached(ctx, cache.DashboardStatsKey, data, dashboardCacheTTL)
	}
	return d, nil
}

// Companies returns the filtered company listing for the dashboard
// table. Filtering happens in memory on the already-aggregated records.
func (s *AnalyticsService) Companies(ctx context.Context, f analytics.CompanyFilter) ([]analytics.CompanyRecord, error) {
	monthStart := timeutil.StartOfMonth(timeutil.Now())
	records, err := s.analyticsRepo.CompanyRecords(ctx, monthStart)
	if err != nil {
		return nil, err
	}
	return analytics.FilterCompanies(records, f), nil
}

func companiesTable(records []analytics.CompanyRecord) *export.Table {
	table := &export.Table{Headers: []string{
		"Company ID", "Name", "Status", "Plan", "Region",
		"VAT Registered", "Invoices This Month", "Monthly Revenue",
	}}
	for _, rec := range records {
		table.AddRow(rec.ID, rec.Name, rec.Status, rec.Plan, rec.Region,
			rec.VATRegistered, rec.InvoicesThisMonth, rec.MonthlyRevenue)
	}
	return table
}

// CompaniesCSV exports the filtered company table as a download.
func (s *AnalyticsService) CompaniesCSV(ctx context.Context, f analytics.CompanyFilter) (*Export, error) {
	records, err := s.Companies(ctx, f)
	if err != nil {
		return nil, err
	}
	data, err := companiesTable(records).BuildCSV()
	if err != nil {
		return nil, err
	}
	return &Export{
		Filename:    export.Filename("companies", timeutil.Now()),
		ContentType: export.ContentTypeCSV,
		Data:        data,
	}, nil
}
