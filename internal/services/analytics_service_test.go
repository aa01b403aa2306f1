package services

import (
	"bytes"
	"encoding/csv"
	"testing"

	"involinks-backend/internal/analytics"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompaniesTableCSV(t *testing.T) {
	records := []analytics.CompanyRecord{
		{
			ID:                "12",
			Name:              "Falcon Trading LLC",
			Status:            "ACTIVE",
			Plan:              "growth",
			Region:            "Dubai",
			VATRegistered:     true,
			InvoicesThisMonth: 48,
			MonthlyRevenue:    decimal.RequireFromString("1250.5"),
		},
		{
			ID:     "15",
			Name:   "Oasis Foods",
			Status: "PENDING_REVIEW",
			Plan:   "starter",
		},
	}

	data, err := companiesTable(records).BuildCSV()
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"Company ID", "Name", "Status", "Plan", "Region",
		"VAT Registered", "Invoices This Month", "Monthly Revenue",
	}, rows[0])
	assert.Equal(t, []string{"12", "Falcon Trading LLC", "ACTIVE", "growth", "Dubai", "true", "48", "1250.50"}, rows[1])
	assert.Equal(t, "false", rows[2][5])
}
