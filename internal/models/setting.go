package models

import "time"

// CompanySetting is one key/value pair of per-company configuration:
// branding, PEPPOL participant id, VAT toggles.
type CompanySetting struct {
	ID           int       `json:"id"`
	CompanyID    int       `json:"company_id"`
	SettingKey   string    `json:"setting_key"`
	SettingValue string    `json:"setting_value"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Well-known setting keys
const (
	SettingBrandLogoURL      = "brand_logo_url"
	SettingBrandPrimaryColor = "brand_primary_color"
	SettingPeppolParticipant = "peppol_participant_id"
	SettingPeppolProvider    = "peppol_provider"
	SettingVATEnabled        = "vat_enabled"
	SettingDefaultTaxCode    = "default_tax_code"
)

// ContentBlock is a CMS key/content pair edited by super admins and
// read by every tenant with a fallback default.
type ContentBlock struct {
	ID         int       `json:"id"`
	ContentKey string    `json:"content_key"`
	Content    string    `json:"content"`
	UpdatedBy  *int      `json:"updated_by"`
	UpdatedAt  time.Time `json:"updated_at"`
}
