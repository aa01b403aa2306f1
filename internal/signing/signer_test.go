package signing

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInput() HashInput {
	return HashInput{
		InvoiceNumber: "INV-000001",
		CompanyID:     42,
		IssueDate:     "2026-03-15",
		CustomerTRN:   "123456789012345",
		TotalAmount:   decimal.RequireFromString("1050.00"),
		PreviousHash:  "",
	}
}

func TestChainHashDeterministic(t *testing.T) {
	a := ChainHash(testInput())
	b := ChainHash(testInput())

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
}

func TestChainHashChangesWithContent(t *testing.T) {
	base := ChainHash(testInput())

	in := testInput()
	in.TotalAmount = decimal.RequireFromString("1050.01")
	assert.NotEqual(t, base, ChainHash(in))

	in = testInput()
	in.PreviousHash = base
	assert.NotEqual(t, base, ChainHash(in))
}

func TestChainHashAmountNormalized(t *testing.T) {
	a := testInput()
	a.TotalAmount = decimal.RequireFromString("1050")
	b := testInput()
	b.TotalAmount = decimal.RequireFromString("1050.00")

	// Equivalent amounts must hash identically regardless of input scale
	assert.Equal(t, ChainHash(a), ChainHash(b))
}

func TestSignAndVerify(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	signer := NewSigner(key)

	hash := ChainHash(testInput())
	sig, err := signer.Sign(hash)
	require.NoError(t, err)
	assert.NotEmpty(t, sig)

	assert.NoError(t, signer.Verify(hash, sig))

	// A different hash must not verify against the same signature
	other := testInput()
	other.InvoiceNumber = "INV-000002"
	assert.Error(t, signer.Verify(ChainHash(other), sig))

	assert.Error(t, signer.Verify(hash, "not-base64!!!"))
}

func TestPublicKeyPEM(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pemStr, err := NewSigner(key).PublicKeyPEM()
	require.NoError(t, err)
	assert.Contains(t, pemStr, "BEGIN PUBLIC KEY")
}
