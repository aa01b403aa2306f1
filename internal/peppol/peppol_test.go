package peppol

import (
	"context"
	"testing"

	"involinks-backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockSendAndStatus(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	res, err := m.SendInvoice(ctx, "0235:111111111111111", "0235:222222222222222", []byte("<Invoice/>"))
	require.NoError(t, err)
	assert.Equal(t, "SENT", res.Status)
	assert.NotEmpty(t, res.MessageID)

	status, err := m.GetStatus(ctx, res.MessageID)
	require.NoError(t, err)
	assert.Equal(t, "DELIVERED", status.Status)
}

func TestMockSendRejectsEmptyInput(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	_, err := m.SendInvoice(ctx, "a", "b", nil)
	assert.Error(t, err)

	_, err = m.SendInvoice(ctx, "a", "", []byte("<Invoice/>"))
	assert.Error(t, err)
}

func TestMockStatusUnknownMessage(t *testing.T) {
	_, err := NewMock().GetStatus(context.Background(), "missing")
	assert.Error(t, err)
}

func TestMockMessageIDsUnique(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	a, err := m.SendInvoice(ctx, "s", "r", []byte("<Invoice/>"))
	require.NoError(t, err)
	b, err := m.SendInvoice(ctx, "s", "r", []byte("<Invoice/>"))
	require.NoError(t, err)

	assert.NotEqual(t, a.MessageID, b.MessageID)
}

func TestMockValidateParticipant(t *testing.T) {
	m := NewMock()
	ctx := context.Background()

	cases := []struct {
		id    string
		valid bool
	}{
		{"0235:123456789012345", true},
		{"9906:IT-VAT-123", true},
		{"no-scheme", false},
		{":missing", false},
		{"0235:", false},
		{"", false},
	}
	for _, tc := range cases {
		ok, err := m.ValidateParticipant(ctx, tc.id)
		require.NoError(t, err)
		assert.Equal(t, tc.valid, ok, "participant %q", tc.id)
	}
}

func TestNewProviderFactory(t *testing.T) {
	cfg := &config.Config{}

	cfg.Peppol.Provider = "mock"
	p, err := NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "mock", p.Name())

	cfg.Peppol.Provider = "tradeshift"
	p, err = NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "tradeshift", p.Name())

	cfg.Peppol.Provider = "basware"
	p, err = NewProvider(cfg)
	require.NoError(t, err)
	assert.Equal(t, "basware", p.Name())

	cfg.Peppol.Provider = "unknown"
	_, err = NewProvider(cfg)
	assert.Error(t, err)
}
