package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"involinks-backend/internal/middleware"
	"involinks-backend/internal/services"
	"involinks-backend/pkg/utils"
)

type PaymentHandler struct {
	PaymentService *services.PaymentService
}

func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{PaymentService: paymentService}
}

// CreateCheckout opens a gateway order for the company's plan renewal.
func (h *PaymentHandler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	companyID, ok := middleware.GetCompanyIDFromContext(r.Context())
	if !ok {
		utils.Error(w, http.StatusForbidden, "No company context")
		return
	}
	if !h.PaymentService.IsEnabled() {
		utils.Error(w, http.StatusServiceUnavailable, "Payments are not configured")
		return
	}

	var req struct {
		BillingCycle string `json:"billing_cycle"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	checkout, err := h.PaymentService.CreateCheckout(r.Context(), companyID, req.BillingCycle)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusCreated, checkout)
}

// VerifyPayment confirms the gateway callback signature and activates
// the renewed period.
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req services.VerifyPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	txn, err := h.PaymentService.VerifyPayment(r.Context(), &req)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, txn)
}

// Webhook receives asynchronous gateway notifications. The signature
// covers the raw body, so read it before decoding.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Failed to read body")
		return
	}

	if !h.PaymentService.VerifyWebhookSignature(body, r.Header.Get("X-Razorpay-Signature")) {
		utils.Error(w, http.StatusUnauthorized, "Invalid webhook signature")
		return
	}

	var payload struct {
		Event   string `json:"event"`
		Payload struct {
			Payment struct {
				Entity struct {
					ID      string `json:"id"`
					OrderID string `json:"order_id"`
				} `json:"entity"`
			} `json:"payment"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid webhook payload")
		return
	}

	entity := payload.Payload.Payment.Entity
	if err := h.PaymentService.HandleWebhook(r.Context(), payload.Event, entity.OrderID, entity.ID); err != nil {
		utils.Error(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
