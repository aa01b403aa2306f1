package models

import "time"

// Document types accepted by the registration wizard
const (
	DocBusinessLicense = "BUSINESS_LICENSE"
	DocTRNCertificate  = "TRN_CERTIFICATE"
	DocTradeLicense    = "TRADE_LICENSE"
	DocPassport        = "PASSPORT"
	DocEmiratesID      = "EMIRATES_ID"
)

// Document review statuses
const (
	DocPendingReview = "PENDING_REVIEW"
	DocApproved      = "APPROVED"
	DocRejected      = "REJECTED"
)

// CompanyDocument is an uploaded registration document. The bytes live
// in object storage under StorageKey; only metadata is kept here.
type CompanyDocument struct {
	ID             int        `json:"id"`
	CompanyID      int        `json:"company_id"`
	DocumentType   string     `json:"document_type"`
	FileName       string     `json:"file_name"`
	StorageKey     string     `json:"-"`
	FileSize       int64      `json:"file_size"`
	MimeType       string     `json:"mime_type"`
	Status         string     `json:"status"`
	IssueDate      *time.Time `json:"issue_date"`
	ExpiryDate     *time.Time `json:"expiry_date"`
	DocumentNumber string     `json:"document_number"`
	UploadedAt     time.Time  `json:"uploaded_at"`
}

// RegistrationProgress tracks which wizard steps a company has finished.
type RegistrationProgress struct {
	ID                  int       `json:"id"`
	CompanyID           int       `json:"company_id"`
	CurrentStep         int       `json:"current_step"`
	StepCompanyInfo     bool      `json:"step_company_info"`
	StepBusinessDetails bool      `json:"step_business_details"`
	StepDocuments       bool      `json:"step_documents"`
	StepPlanSelection   bool      `json:"step_plan_selection"`
	StepReview          bool      `json:"step_review"`
	Completed           bool      `json:"completed"`
	CreatedAt           time.Time `json:"created_at"`
}

// ValidDocumentType reports whether t is one of the accepted upload types.
func ValidDocumentType(t string) bool {
	switch t {
	case DocBusinessLicense, DocTRNCertificate, DocTradeLicense, DocPassport, DocEmiratesID:
		return true
	}
	return false
}
