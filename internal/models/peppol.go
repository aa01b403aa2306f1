package models

import "time"

// PEPPOL transmission statuses
const (
	PeppolSent      = "SENT"
	PeppolDelivered = "DELIVERED"
	PeppolFailed    = "FAILED"
)

// PeppolTransmission records one attempt to deliver an invoice over the
// PEPPOL network.
type PeppolTransmission struct {
	ID          int        `json:"id"`
	InvoiceID   int        `json:"invoice_id"`
	Provider    string     `json:"provider"`
	MessageID   string     `json:"message_id"`
	SenderID    string     `json:"sender_id"`
	ReceiverID  string     `json:"receiver_id"`
	Status      string     `json:"status"`
	ErrorDetail string     `json:"error_detail,omitempty"`
	SentAt      time.Time  `json:"sent_at"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
}
