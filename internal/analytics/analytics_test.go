package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func sampleCompanies() []CompanyRecord {
	return []CompanyRecord{
		{ID: "c1", Name: "Falcon Trading LLC", Status: "ACTIVE", Plan: "Enterprise", InvoicesThisMonth: 120, MonthlyRevenue: decimal.NewFromInt(999)},
		{ID: "c2", Name: "Oasis Foods", Status: "ACTIVE", Plan: "Starter", InvoicesThisMonth: 12, MonthlyRevenue: decimal.NewFromInt(99)},
		{ID: "c3", Name: "Desert Rose Interiors", Status: "PENDING_REVIEW", Plan: "Professional", InvoicesThisMonth: 0, MonthlyRevenue: decimal.Zero},
		{ID: "c4", Name: "falcon logistics", Status: "SUSPENDED", Plan: "Enterprise", InvoicesThisMonth: 40, MonthlyRevenue: decimal.NewFromInt(999)},
	}
}

func TestFilterSearchCaseInsensitive(t *testing.T) {
	got := FilterCompanies(sampleCompanies(), CompanyFilter{Search: "FALCON"})
	assert.Len(t, got, 2)
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, "c4", got[1].ID)
}

func TestFilterEmptyMatchesAll(t *testing.T) {
	got := FilterCompanies(sampleCompanies(), CompanyFilter{})
	assert.Len(t, got, 4)
}

func TestFilterAllSentinelDisables(t *testing.T) {
	got := FilterCompanies(sampleCompanies(), CompanyFilter{Status: FilterAll, Plan: FilterAll})
	assert.Len(t, got, 4)
}

func TestFilterConjunction(t *testing.T) {
	// Enterprise + min 50 invoices: c1 qualifies, c4 fails the threshold.
	got := FilterCompanies(sampleCompanies(), CompanyFilter{
		Plan:        "Enterprise",
		Status:      FilterAll,
		MinInvoices: intPtr(50),
	})
	assert.Len(t, got, 1)
	assert.Equal(t, "c1", got[0].ID)

	// A record passes iff it passes every individually-active filter.
	f := CompanyFilter{Search: "falcon", Status: "ACTIVE", MinInvoices: intPtr(10)}
	for _, c := range sampleCompanies() {
		individually := CompanyFilter{Search: f.Search}.Matches(c) &&
			CompanyFilter{Status: f.Status}.Matches(c) &&
			CompanyFilter{MinInvoices: f.MinInvoices}.Matches(c)
		assert.Equal(t, individually, f.Matches(c), "company %s", c.ID)
	}
}

func TestMonthDeltaZeroSafety(t *testing.T) {
	d := MonthDelta(decimal.NewFromInt(500), decimal.Zero)
	assert.True(t, d.Percent.IsZero())
	assert.True(t, d.Positive)

	d = MonthDelta(decimal.Zero, decimal.Zero)
	assert.True(t, d.Percent.IsZero())
	assert.True(t, d.Positive)
}

func TestMonthDelta(t *testing.T) {
	d := MonthDelta(decimal.NewFromInt(150), decimal.NewFromInt(100))
	assert.True(t, d.Percent.Equal(decimal.NewFromInt(50)))
	assert.True(t, d.Positive)

	d = MonthDelta(decimal.NewFromInt(80), decimal.NewFromInt(100))
	assert.True(t, d.Percent.Equal(decimal.NewFromInt(-20)))
	assert.False(t, d.Positive)

	// Flat month is styled positive.
	d = MonthDelta(decimal.NewFromInt(100), decimal.NewFromInt(100))
	assert.True(t, d.Positive)
}

func TestClassifyAging(t *testing.T) {
	assert.Equal(t, AgingOverdue, ClassifyAging(1))
	assert.Equal(t, AgingOverdue, ClassifyAging(45))
	assert.Equal(t, AgingDueSoon, ClassifyAging(0))
	assert.Equal(t, AgingDueSoon, ClassifyAging(-7))
	assert.Equal(t, AgingActive, ClassifyAging(-8))
}

func TestSummarize(t *testing.T) {
	stats := Summarize(sampleCompanies())
	assert.Equal(t, 4, stats.TotalCompanies)
	assert.Equal(t, 2, stats.ActiveCompanies)
	assert.Equal(t, 1, stats.PendingCompanies)
	assert.Equal(t, 172, stats.TotalInvoicesMTD)
	assert.True(t, stats.MRR.Equal(decimal.NewFromInt(2097)))
	// ARPU over the two active companies.
	assert.True(t, stats.ARPU.Equal(decimal.RequireFromString("1048.50")))
	assert.True(t, stats.MRRByPlan["Enterprise"].Equal(decimal.NewFromInt(1998)))
}

func TestSummarizeEmpty(t *testing.T) {
	stats := Summarize(nil)
	assert.Equal(t, 0, stats.TotalCompanies)
	assert.True(t, stats.ARPU.IsZero())
}
