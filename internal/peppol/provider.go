package peppol

import (
	"context"
	"fmt"

	"involinks-backend/internal/config"
)

// SendResult is a provider's answer to a transmission request.
type SendResult struct {
	MessageID string
	Status    string // SENT, DELIVERED, FAILED
}

// DeliveryStatus is a later status poll for a sent message.
type DeliveryStatus struct {
	MessageID string
	Status    string
	Detail    string
}

// Provider is an access point operator on the PEPPOL network.
type Provider interface {
	Name() string

	// SendInvoice transmits a UBL document to the receiver participant.
	SendInvoice(ctx context.Context, senderID, receiverID string, ublXML []byte) (*SendResult, error)

	// GetStatus polls delivery status for a previously sent message.
	GetStatus(ctx context.Context, messageID string) (*DeliveryStatus, error)

	// ValidateParticipant checks whether a participant ID is registered
	// on the network and can receive documents.
	ValidateParticipant(ctx context.Context, participantID string) (bool, error)
}

// NewProvider builds the configured access point client.
func NewProvider(cfg *config.Config) (Provider, error) {
	switch cfg.Peppol.Provider {
	case "tradeshift":
		return NewTradeshift(cfg.Peppol.BaseURL, cfg.Peppol.APIKey), nil
	case "basware":
		return NewBasware(cfg.Peppol.BaseURL, cfg.Peppol.APIKey), nil
	case "mock", "":
		return NewMock(), nil
	default:
		return nil, fmt.Errorf("unknown peppol provider %q", cfg.Peppol.Provider)
	}
}
