package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"involinks-backend/internal/models"
	"involinks-backend/internal/repositories"
	"involinks-backend/internal/timeutil"

	razorpay "github.com/razorpay/razorpay-go"
)

// PaymentService drives subscription checkout through the payment
// gateway. Orders are created in the gateway's minor currency unit
// (fils for AED).
type PaymentService struct {
	transactionRepo  *repositories.TransactionRepository
	subscriptionRepo *repositories.SubscriptionRepository
	planRepo         *repositories.PlanRepository
	keyID            string
	keySecret        string
	webhookSecret    string
}

func NewPaymentService(keyID, keySecret, webhookSecret string,
	transactionRepo *repositories.TransactionRepository,
	subscriptionRepo *repositories.SubscriptionRepository,
	planRepo *repositories.PlanRepository) *PaymentService {
	return &PaymentService{
		transactionRepo:  transactionRepo,
		subscriptionRepo: subscriptionRepo,
		planRepo:         planRepo,
		keyID:            keyID,
		keySecret:        keySecret,
		webhookSecret:    webhookSecret,
	}
}

func (s *PaymentService) client() *razorpay.Client {
	if s.keyID == "" || s.keySecret == "" {
		return nil
	}
	return razorpay.NewClient(s.keyID, s.keySecret)
}

// IsEnabled reports whether gateway credentials are configured
func (s *PaymentService) IsEnabled() bool {
	return s.keyID != "" && s.keySecret != ""
}

// CheckoutResponse carries what the frontend needs to open the
// gateway's payment widget.
type CheckoutResponse struct {
	OrderID     string `json:"order_id"`
	AmountMinor int64  `json:"amount"`
	Currency    string `json:"currency"`
	KeyID       string `json:"key_id"`
	PlanName    string `json:"plan_name"`
}

// CreateCheckout creates a gateway order for a subscription charge
func (s *PaymentService) CreateCheckout(ctx context.Context, companyID int, billingCycle string) (*CheckoutResponse, error) {
	client := s.client()
	if client == nil {
		return nil, fmt.Errorf("payment gateway not configured")
	}
	if billingCycle != models.BillingMonthly && billingCycle != models.BillingYearly {
		return nil, fmt.Errorf("billing cycle must be monthly or yearly")
	}

	sub, err := s.subscriptionRepo.GetCurrent(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("no subscription found: %w", err)
	}

	plan, err := s.planRepo.Get(ctx, sub.PlanID)
	if err != nil {
		return nil, fmt.Errorf("plan not found: %w", err)
	}

	price := plan.PriceMonthly
	if billingCycle == models.BillingYearly {
		price = plan.PriceYearly
	}
	amountMinor := int64(price*100 + 0.5)

	orderData := map[string]interface{}{
		"amount":   amountMinor,
		"currency": "AED",
		"receipt":  fmt.Sprintf("sub_%d_%d", sub.ID, time.Now().Unix()),
		"notes": map[string]interface{}{
			"company_id":      companyID,
			"subscription_id": sub.ID,
			"plan_id":         plan.ID,
			"billing_cycle":   billingCycle,
		},
	}

	order, err := client.Order.Create(orderData, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %w", err)
	}
	orderID, _ := order["id"].(string)
	if orderID == "" {
		return nil, fmt.Errorf("gateway returned no order id")
	}

	txn := &models.PaymentTransaction{
		CompanyID:      companyID,
		SubscriptionID: sub.ID,
		OrderID:        orderID,
		AmountMinor:    amountMinor,
		Currency:       "AED",
	}
	if err := s.transactionRepo.Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to store transaction: %w", err)
	}

	return &CheckoutResponse{
		OrderID:     orderID,
		AmountMinor: amountMinor,
		Currency:    "AED",
		KeyID:       s.keyID,
		PlanName:    plan.Name,
	}, nil
}

// VerifyPaymentRequest is the client-side callback payload after checkout
type VerifyPaymentRequest struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// VerifyPayment checks the gateway signature, marks the transaction
// captured, and renews the subscription period.
func (s *PaymentService) VerifyPayment(ctx context.Context, req *VerifyPaymentRequest) (*models.PaymentTransaction, error) {
	if !s.verifySignature(req.OrderID, req.PaymentID, req.Signature) {
		_ = s.transactionRepo.MarkFailed(ctx, req.OrderID)
		return nil, fmt.Errorf("invalid payment signature")
	}

	txn, err := s.transactionRepo.GetByOrderID(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("transaction not found: %w", err)
	}

	// Idempotent: a repeated callback returns the captured transaction
	if txn.Status == models.TxnCaptured {
		return txn, nil
	}

	if err := s.transactionRepo.MarkCaptured(ctx, req.OrderID, req.PaymentID); err != nil {
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	if err := s.renewSubscription(ctx, txn.SubscriptionID); err != nil {
		// Payment is captured either way; renewal can be retried
		log.Printf("[Payment] Failed to renew subscription %d: %v", txn.SubscriptionID, err)
	}

	return s.transactionRepo.GetByOrderID(ctx, req.OrderID)
}

func (s *PaymentService) renewSubscription(ctx context.Context, subscriptionID int) error {
	sub, err := s.subscriptionRepo.Get(ctx, subscriptionID)
	if err != nil {
		return err
	}

	start := timeutil.Now()
	end := start.AddDate(0, 1, 0)
	if sub.BillingCycle == models.BillingYearly {
		end = start.AddDate(1, 0, 0)
	}
	return s.subscriptionRepo.RenewPeriod(ctx, subscriptionID, start, end)
}

// verifySignature verifies the gateway payment signature
func (s *PaymentService) verifySignature(orderID, paymentID, signature string) bool {
	h := hmac.New(sha256.New, []byte(s.keySecret))
	h.Write([]byte(orderID + "|" + paymentID))
	expectedSignature := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expectedSignature), []byte(signature))
}

// VerifyWebhookSignature verifies a gateway webhook payload signature
func (s *PaymentService) VerifyWebhookSignature(body []byte, signature string) bool {
	if s.webhookSecret == "" {
		return false
	}
	h := hmac.New(sha256.New, []byte(s.webhookSecret))
	h.Write(body)
	expectedSignature := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expectedSignature), []byte(signature))
}

// HandleWebhook processes payment.captured and payment.failed events
func (s *PaymentService) HandleWebhook(ctx context.Context, event string, orderID, paymentID string) error {
	switch event {
	case "payment.captured":
		txn, err := s.transactionRepo.GetByOrderID(ctx, orderID)
		if err != nil {
			return fmt.Errorf("transaction not found for order %s: %w", orderID, err)
		}
		if txn.Status == models.TxnCaptured {
			return nil
		}
		if err := s.transactionRepo.MarkCaptured(ctx, orderID, paymentID); err != nil {
			return err
		}
		return s.renewSubscription(ctx, txn.SubscriptionID)
	case "payment.failed":
		return s.transactionRepo.MarkFailed(ctx, orderID)
	default:
		// Unhandled events are acknowledged without action
		return nil
	}
}
