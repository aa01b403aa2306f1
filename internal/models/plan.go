package models

import "time"

// SubscriptionPlan is a billable tier. A nil MaxInvoicesPerMonth means
// unlimited issuance.
type SubscriptionPlan struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Description         string    `json:"description"`
	PriceMonthly        float64   `json:"price_monthly"`
	PriceYearly         float64   `json:"price_yearly"`
	MaxInvoicesPerMonth *int      `json:"max_invoices_per_month"`
	MaxUsers            int       `json:"max_users"`
	MaxPOSDevices       int       `json:"max_pos_devices"`
	AllowAPIAccess      bool      `json:"allow_api_access"`
	AllowBranding       bool      `json:"allow_branding"`
	AllowMultiCurrency  bool      `json:"allow_multi_currency"`
	PrioritySupport     bool      `json:"priority_support"`
	Active              bool      `json:"active"`
	CreatedAt           time.Time `json:"created_at"`
}

// Billing cycles
const (
	BillingMonthly = "monthly"
	BillingYearly  = "yearly"
)

// Subscription statuses
const (
	SubscriptionTrial    = "TRIAL"
	SubscriptionActive   = "ACTIVE"
	SubscriptionPastDue  = "PAST_DUE"
	SubscriptionCanceled = "CANCELED"
)

// CompanySubscription ties a company to its plan and billing period.
type CompanySubscription struct {
	ID                 int       `json:"id"`
	CompanyID          int       `json:"company_id"`
	PlanID             string    `json:"plan_id"`
	Status             string    `json:"status"`
	BillingCycle       string    `json:"billing_cycle"` // monthly or yearly
	CurrentPeriodStart time.Time `json:"current_period_start"`
	CurrentPeriodEnd   time.Time `json:"current_period_end"`
	InvoicesThisPeriod int       `json:"invoices_this_period"`
	CreatedAt          time.Time `json:"created_at"`
}

// SubscriptionWithPlan joins the subscription with its plan for the
// company settings screen.
type SubscriptionWithPlan struct {
	CompanySubscription
	Plan *SubscriptionPlan `json:"plan"`
}
