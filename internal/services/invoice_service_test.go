package services

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"involinks-backend/internal/models"
	"involinks-backend/internal/signing"
	"involinks-backend/internal/vat"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLinesComputesAmounts(t *testing.T) {
	req := &models.CreateInvoiceRequest{
		Lines: []models.LineItemRequest{
			{Description: "Consulting", Quantity: "10", UnitPrice: "150"},
			{Description: "Export shipment", Quantity: "1", UnitPrice: "500", TaxCode: vat.CodeZeroRated},
		},
	}

	lines, totals, err := buildLines(req)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	// Blank tax code defaults to standard rate.
	assert.Equal(t, vat.CodeStandard, lines[0].TaxCode)
	assert.True(t, lines[0].VATAmount.Equal(decimal.RequireFromString("75")))
	assert.True(t, lines[1].VATAmount.IsZero())
	assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString("2000")))
	assert.True(t, totals.GrandTotal.Equal(decimal.RequireFromString("2075")))
}

func TestBuildLinesRejectsBadInput(t *testing.T) {
	_, _, err := buildLines(&models.CreateInvoiceRequest{})
	assert.ErrorContains(t, err, "at least one line")

	_, _, err = buildLines(&models.CreateInvoiceRequest{
		Lines: []models.LineItemRequest{{Description: "x", Quantity: "two", UnitPrice: "5"}},
	})
	assert.ErrorContains(t, err, "line 1")

	_, _, err = buildLines(&models.CreateInvoiceRequest{
		Lines: []models.LineItemRequest{{Description: "x", Quantity: "1", UnitPrice: "5", TaxCode: "XX"}},
	})
	assert.Error(t, err)
}

func TestIssueFinalizerHashesCurrentChainLink(t *testing.T) {
	issueDate := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	finalize := issueFinalizer(nil, issueDate)

	inv := &models.Invoice{
		ID:            7,
		CompanyID:     3,
		InvoiceNumber: "INV-000002",
		CustomerTRN:   "100123456789012",
		TotalAmount:   decimal.RequireFromString("1050"),
		PreviousHash:  "aaaa",
	}
	require.NoError(t, finalize(inv))
	first := inv.InvoiceHash
	assert.NotEmpty(t, first)
	assert.Empty(t, inv.Signature)

	// A different predecessor, as set by the repository inside the
	// issue transaction, must produce a different hash: the finalizer
	// reads the chain link at call time, never from a stale snapshot.
	inv.PreviousHash = "bbbb"
	require.NoError(t, finalize(inv))
	assert.NotEqual(t, first, inv.InvoiceHash)

	// The assigned number is part of the hash too.
	inv.InvoiceNumber = "INV-000003"
	withNewNumber := inv.InvoiceHash
	require.NoError(t, finalize(inv))
	assert.NotEqual(t, withNewNumber, inv.InvoiceHash)
}

func TestIssueFinalizerSignsWithKey(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	signer := signing.NewSigner(key)

	issueDate := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	inv := &models.Invoice{
		CompanyID:     3,
		InvoiceNumber: "INV-000001",
		TotalAmount:   decimal.RequireFromString("200"),
	}
	require.NoError(t, issueFinalizer(signer, issueDate)(inv))
	require.NotEmpty(t, inv.Signature)
	assert.NoError(t, signer.Verify(inv.InvoiceHash, inv.Signature))
}

func TestPayableTransitions(t *testing.T) {
	allowed := func(from, to string) bool {
		for _, s := range payableTransitions[from] {
			if s == to {
				return true
			}
		}
		return false
	}

	assert.True(t, allowed(models.PayableReceived, models.PayableApproved))
	assert.True(t, allowed(models.PayableReceived, models.PayableDisputed))
	assert.True(t, allowed(models.PayableApproved, models.PayablePaid))
	assert.True(t, allowed(models.PayableDisputed, models.PayableApproved))

	// Terminal and skipped transitions stay blocked.
	assert.False(t, allowed(models.PayableReceived, models.PayablePaid))
	assert.False(t, allowed(models.PayablePaid, models.PayableApproved))
	assert.False(t, allowed(models.PayableDisputed, models.PayablePaid))
}
