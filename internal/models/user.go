package models

import "time"

// User roles
const (
	RoleSuperAdmin   = "SUPER_ADMIN"
	RoleCompanyAdmin = "COMPANY_ADMIN"
	RoleFinanceUser  = "FINANCE_USER"
)

// User represents a platform user. CompanyID is nil for super admins.
type User struct {
	ID             int        `json:"id"`
	Email          string     `json:"email"`
	Name           string     `json:"name"`
	PasswordHash   string     `json:"-"`
	Role           string     `json:"role"`
	CompanyID      *int       `json:"company_id"`
	IsActive       bool       `json:"is_active"`
	TOTPSecret     string     `json:"-"`
	TOTPEnabled    bool       `json:"totp_enabled"`
	TOTPVerifiedAt *time.Time `json:"totp_verified_at,omitempty"`
	BackupCodes    string     `json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// SignupRequest creates the first COMPANY_ADMIN user for a company
type SignupRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	CompanyID *int   `json:"company_id"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned on successful login. When the account has
// TOTP enabled, Token is empty and TempToken carries the short-lived
// 2fa_pending token for the second step.
type AuthResponse struct {
	Token       string `json:"token,omitempty"`
	TempToken   string `json:"temp_token,omitempty"`
	RequiresMFA bool   `json:"requires_mfa"`
	User        *User  `json:"user,omitempty"`
}

// TOTPSetupResponse carries the enrollment secret and QR code
type TOTPSetupResponse struct {
	Secret      string `json:"secret"`
	QRCode      string `json:"qr_code"`
	Issuer      string `json:"issuer"`
	AccountName string `json:"account_name"`
}

type BackupCodesResponse struct {
	Codes []string `json:"codes"`
}

type User2FAStatus struct {
	Enabled        bool       `json:"enabled"`
	EnabledAt      *time.Time `json:"enabled_at,omitempty"`
	HasBackupCodes bool       `json:"has_backup_codes"`
}

// LoginLog records a successful authentication for the admin audit view
type LoginLog struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}
