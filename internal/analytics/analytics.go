package analytics

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FilterAll is the sentinel that disables a categorical filter.
const FilterAll = "all"

// CompanyRecord is the flattened company row the super-admin dashboard
// filters and aggregates. It is derived from already-fetched data, never
// persisted in this shape.
type CompanyRecord struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Status            string          `json:"status"`
	Plan              string          `json:"plan"`
	Region            string          `json:"region"`
	VATRegistered     bool            `json:"vat_registered"`
	InvoicesThisMonth int             `json:"invoices_this_month"`
	MonthlyRevenue    decimal.Decimal `json:"monthly_revenue"`
}

// CompanyFilter restricts a company listing. Zero values disable the
// corresponding criterion; active criteria combine with logical AND.
type CompanyFilter struct {
	Search      string // case-insensitive substring on name
	Status      string // exact match, "all" or "" disables
	Plan        string // exact match, "all" or "" disables
	MinInvoices *int   // keep records with InvoicesThisMonth >= threshold
}

// Matches reports whether a single record passes every active criterion.
func (f CompanyFilter) Matches(c CompanyRecord) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.Status != "" && f.Status != FilterAll && c.Status != f.Status {
		return false
	}
	if f.Plan != "" && f.Plan != FilterAll && c.Plan != f.Plan {
		return false
	}
	if f.MinInvoices != nil && c.InvoicesThisMonth < *f.MinInvoices {
		return false
	}
	return true
}

// FilterCompanies returns the records passing the filter, preserving
// input order.
func FilterCompanies(records []CompanyRecord, f CompanyFilter) []CompanyRecord {
	filtered := make([]CompanyRecord, 0, len(records))
	for _, c := range records {
		if f.Matches(c) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

// Delta is a month-over-month comparison for a dashboard stat card.
type Delta struct {
	MonthToDate decimal.Decimal `json:"month_to_date"`
	LastMonth   decimal.Decimal `json:"last_month"`
	Percent     decimal.Decimal `json:"delta_percent"`
	Positive    bool            `json:"positive"`
}

// MonthDelta computes the percentage change of monthToDate against
// lastMonth. A zero lastMonth yields 0% and positive styling, never a
// division error.
func MonthDelta(monthToDate, lastMonth decimal.Decimal) Delta {
	d := Delta{MonthToDate: monthToDate, LastMonth: lastMonth}
	if lastMonth.IsZero() {
		d.Percent = decimal.Zero
		d.Positive = true
		return d
	}
	d.Percent = monthToDate.Sub(lastMonth).Div(lastMonth).Mul(decimal.NewFromInt(100))
	d.Positive = d.Percent.GreaterThanOrEqual(decimal.Zero)
	return d
}

// Payable aging buckets.
const (
	AgingOverdue = "overdue"
	AgingDueSoon = "due_soon"
	AgingActive  = "active"
)

// ClassifyAging buckets a payable by its days-overdue value: positive
// means past due, -7..0 means due within a week.
func ClassifyAging(daysOverdue int) string {
	switch {
	case daysOverdue > 0:
		return AgingOverdue
	case daysOverdue >= -7:
		return AgingDueSoon
	default:
		return AgingActive
	}
}

// DashboardStats is the aggregate block at the top of the super-admin
// dashboard.
type DashboardStats struct {
	TotalCompanies   int                        `json:"total_companies"`
	ActiveCompanies  int                        `json:"active_companies"`
	PendingCompanies int                        `json:"pending_companies"`
	TotalInvoicesMTD int                        `json:"total_invoices_mtd"`
	MRR              decimal.Decimal            `json:"mrr"`
	ARPU             decimal.Decimal            `json:"arpu"`
	MRRByPlan        map[string]decimal.Decimal `json:"mrr_by_plan"`
}

// Summarize derives dashboard statistics from a company listing. ARPU
// divides MRR over active companies and is zero when there are none.
func Summarize(records []CompanyRecord) DashboardStats {
	stats := DashboardStats{
		MRR:       decimal.Zero,
		ARPU:      decimal.Zero,
		MRRByPlan: make(map[string]decimal.Decimal),
	}
	for _, c := range records {
		stats.TotalCompanies++
		switch c.Status {
		case "ACTIVE":
			stats.ActiveCompanies++
		case "PENDING_REVIEW":
			stats.PendingCompanies++
		}
		stats.TotalInvoicesMTD += c.InvoicesThisMonth
		stats.MRR = stats.MRR.Add(c.MonthlyRevenue)
		if c.Plan != "" {
			stats.MRRByPlan[c.Plan] = stats.MRRByPlan[c.Plan].Add(c.MonthlyRevenue)
		}
	}
	if stats.ActiveCompanies > 0 {
		stats.ARPU = stats.MRR.Div(decimal.NewFromInt(int64(stats.ActiveCompanies))).Round(2)
	}
	return stats
}
