package models

import "time"

// Company statuses
const (
	CompanyPendingReview = "PENDING_REVIEW"
	CompanyActive        = "ACTIVE"
	CompanySuspended     = "SUSPENDED"
	CompanyRejected      = "REJECTED"
)

// Company is a registered (or registering) tenant business.
type Company struct {
	ID                 int        `json:"id"`
	LegalName          string     `json:"legal_name"`
	Country            string     `json:"country"`
	Status             string     `json:"status"`
	TRN                string     `json:"trn"`
	VATEnabled         bool       `json:"vat_enabled"`
	BusinessType       string     `json:"business_type"`
	BusinessActivity   string     `json:"business_activity"`
	RegistrationNumber string     `json:"registration_number"`
	RegistrationDate   *time.Time `json:"registration_date"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	Website            string     `json:"website"`

	// Address
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	Emirate      string `json:"emirate"`
	POBox        string `json:"po_box"`

	// Authorized person
	AuthorizedPersonName  string `json:"authorized_person_name"`
	AuthorizedPersonTitle string `json:"authorized_person_title"`
	AuthorizedPersonEmail string `json:"authorized_person_email"`
	AuthorizedPersonPhone string `json:"authorized_person_phone"`

	RejectionReason string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CompanyInfoRequest is registration wizard step 1
type CompanyInfoRequest struct {
	LegalName          string `json:"legal_name"`
	BusinessType       string `json:"business_type"`
	RegistrationNumber string `json:"registration_number"`
	RegistrationDate   string `json:"registration_date"` // YYYY-MM-DD
	Email              string `json:"email"`
	Phone              string `json:"phone"`
	Website            string `json:"website"`
}

// BusinessDetailsRequest is registration wizard step 2
type BusinessDetailsRequest struct {
	BusinessActivity      string `json:"business_activity"`
	AddressLine1          string `json:"address_line1"`
	AddressLine2          string `json:"address_line2"`
	City                  string `json:"city"`
	Emirate               string `json:"emirate"`
	POBox                 string `json:"po_box"`
	TRN                   string `json:"trn"`
	AuthorizedPersonName  string `json:"authorized_person_name"`
	AuthorizedPersonTitle string `json:"authorized_person_title"`
	AuthorizedPersonEmail string `json:"authorized_person_email"`
	AuthorizedPersonPhone string `json:"authorized_person_phone"`
}
