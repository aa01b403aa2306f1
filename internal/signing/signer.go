package signing

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
)

// HashInput is the canonical invoice content that goes into the chain
// hash. Field order matters: changing it invalidates every stored hash.
type HashInput struct {
	InvoiceNumber string
	CompanyID     int
	IssueDate     string // YYYY-MM-DD
	CustomerTRN   string
	TotalAmount   decimal.Decimal
	PreviousHash  string
}

// ChainHash computes the SHA-256 link for an issued invoice. Each hash
// covers the previous invoice's hash, so tampering with any issued
// invoice breaks verification of everything after it.
func ChainHash(in HashInput) string {
	canonical := fmt.Sprintf("%s|%d|%s|%s|%s|%s",
		in.InvoiceNumber,
		in.CompanyID,
		in.IssueDate,
		in.CustomerTRN,
		in.TotalAmount.Round(2).StringFixed(2),
		in.PreviousHash,
	)
	sum := sha256.Sum256([]byte(canonical))
	return hex.EncodeToString(sum[:])
}

// Signer signs invoice hashes with the platform RSA key.
type Signer struct {
	key *rsa.PrivateKey
}

// LoadSigner reads a PEM-encoded RSA private key from disk. PKCS#1 and
// PKCS#8 encodings are both accepted.
func LoadSigner(path string) (*Signer, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read signing key: %w", err)
	}

	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("signing key is not valid PEM")
	}

	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		parsed, err2 := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err2 != nil {
			return nil, fmt.Errorf("failed to parse signing key: %w", err)
		}
		rsaKey, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("signing key is not RSA")
		}
		key = rsaKey
	}

	return &Signer{key: key}, nil
}

// NewSigner wraps an in-memory key, used by tests and ephemeral setups.
func NewSigner(key *rsa.PrivateKey) *Signer {
	return &Signer{key: key}
}

// Sign produces a base64 RSA-PSS signature over the hex chain hash.
func (s *Signer) Sign(chainHash string) (string, error) {
	digest := sha256.Sum256([]byte(chainHash))
	sig, err := rsa.SignPSS(rand.Reader, s.key, crypto.SHA256, digest[:], nil)
	if err != nil {
		return "", fmt.Errorf("failed to sign invoice hash: %w", err)
	}
	return base64.StdEncoding.EncodeToString(sig), nil
}

// Verify checks a base64 signature against a chain hash.
func (s *Signer) Verify(chainHash, signature string) error {
	sig, err := base64.StdEncoding.DecodeString(signature)
	if err != nil {
		return fmt.Errorf("signature is not valid base64: %w", err)
	}
	digest := sha256.Sum256([]byte(chainHash))
	if err := rsa.VerifyPSS(&s.key.PublicKey, crypto.SHA256, digest[:], sig, nil); err != nil {
		return fmt.Errorf("signature verification failed: %w", err)
	}
	return nil
}

// PublicKeyPEM exports the verifying key for external auditors.
func (s *Signer) PublicKeyPEM() (string, error) {
	der, err := x509.MarshalPKIXPublicKey(&s.key.PublicKey)
	if err != nil {
		return "", err
	}
	out := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der})
	return string(out), nil
}
