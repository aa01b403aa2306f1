package repositories

import (
	"context"

	"involinks-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = models.RoleCompanyAdmin
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO users(email, name, password_hash, role, company_id, is_active)
         VALUES($1, $2, $3, $4, $5, true)
         RETURNING id, is_active, created_at, updated_at`,
		u.Email, u.Name, u.PasswordHash, u.Role, u.CompanyID,
	).Scan(&u.ID, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) Get(ctx context.Context, id int) (*models.User, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, email, name, password_hash, role, company_id, is_active,
		 COALESCE(totp_secret, ''), totp_enabled, totp_verified_at, COALESCE(backup_codes, ''),
		 created_at, updated_at
         FROM users WHERE id=$1`, id)

	var user models.User
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&user.Role, &user.CompanyID, &user.IsActive,
		&user.TOTPSecret, &user.TOTPEnabled, &user.TOTPVerifiedAt, &user.BackupCodes,
		&user.CreatedAt, &user.UpdatedAt)
	return &user, err
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, email, name, password_hash, role, company_id, is_active,
		 COALESCE(totp_secret, ''), totp_enabled, totp_verified_at, COALESCE(backup_codes, ''),
		 created_at, updated_at
         FROM users WHERE email=$1`, email)

	var user models.User
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash,
		&user.Role, &user.CompanyID, &user.IsActive,
		&user.TOTPSecret, &user.TOTPEnabled, &user.TOTPVerifiedAt, &user.BackupCodes,
		&user.CreatedAt, &user.UpdatedAt)
	return &user, err
}

// ListByCompany returns a company's users without credential columns
func (r *UserRepository) ListByCompany(ctx context.Context, companyID int) ([]*models.User, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, email, name, role, company_id, is_active, totp_enabled, created_at, updated_at
         FROM users WHERE company_id=$1 ORDER BY created_at DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var user models.User
		err := rows.Scan(&user.ID, &user.Email, &user.Name, &user.Role,
			&user.CompanyID, &user.IsActive, &user.TOTPEnabled, &user.CreatedAt, &user.UpdatedAt)
		if err != nil {
			return nil, err
		}
		users = append(users, &user)
	}
	return users, rows.Err()
}

// CountByCompany is used for the plan seat limit check
func (r *UserRepository) CountByCompany(ctx context.Context, companyID int) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE company_id=$1`, companyID).Scan(&count)
	return count, err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int, passwordHash string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET password_hash=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`,
		passwordHash, userID)
	return err
}

// ToggleActiveStatus suspends or reactivates a user account
func (r *UserRepository) ToggleActiveStatus(ctx context.Context, userID int, isActive bool) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET is_active=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`,
		isActive, userID)
	return err
}

func (r *UserRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	return err
}

// SetTOTPSecret stores the TOTP secret for a user (during setup, before verification)
func (r *UserRepository) SetTOTPSecret(ctx context.Context, userID int, secret string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET totp_secret=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`,
		secret, userID)
	return err
}

// EnableTOTP marks 2FA as enabled after verification
func (r *UserRepository) EnableTOTP(ctx context.Context, userID int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET totp_enabled=true, totp_verified_at=CURRENT_TIMESTAMP, updated_at=CURRENT_TIMESTAMP WHERE id=$1`,
		userID)
	return err
}

// DisableTOTP disables 2FA and clears the secret and backup codes
func (r *UserRepository) DisableTOTP(ctx context.Context, userID int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET totp_enabled=false, totp_secret=NULL, totp_verified_at=NULL, backup_codes=NULL, updated_at=CURRENT_TIMESTAMP WHERE id=$1`,
		userID)
	return err
}

// SetBackupCodes stores hashed backup codes for a user
func (r *UserRepository) SetBackupCodes(ctx context.Context, userID int, hashedCodes string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE users SET backup_codes=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`,
		hashedCodes, userID)
	return err
}
