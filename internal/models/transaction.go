package models

import "time"

// Subscription payment transaction statuses
const (
	TxnCreated   = "CREATED"
	TxnCaptured  = "CAPTURED"
	TxnFailed    = "FAILED"
	TxnRefunded  = "REFUNDED"
)

// PaymentTransaction is one gateway order/payment pair for a
// subscription charge.
type PaymentTransaction struct {
	ID             int       `json:"id"`
	CompanyID      int       `json:"company_id"`
	SubscriptionID int       `json:"subscription_id"`
	OrderID        string    `json:"order_id"`
	PaymentID      string    `json:"payment_id,omitempty"`
	AmountMinor    int64     `json:"amount"` // gateway minor units (fils for AED)
	Currency       string    `json:"currency"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TOTPAttempt logs a 2FA verification attempt for rate limiting.
type TOTPAttempt struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	IPAddress string    `json:"ip_address"`
	Success   bool      `json:"success"`
	CreatedAt time.Time `json:"created_at"`
}
