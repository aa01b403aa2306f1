package repositories

import (
	"context"

	"involinks-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type SettingRepository struct {
	DB *pgxpool.Pool
}

func NewSettingRepository(db *pgxpool.Pool) *SettingRepository {
	return &SettingRepository{DB: db}
}

// Upsert writes a single company setting
func (r *SettingRepository) Upsert(ctx context.Context, companyID int, key, value string) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO company_settings(company_id, setting_key, setting_value)
         VALUES($1, $2, $3)
         ON CONFLICT (company_id, setting_key)
         DO UPDATE SET setting_value=EXCLUDED.setting_value, updated_at=CURRENT_TIMESTAMP`,
		companyID, key, value)
	return err
}

func (r *SettingRepository) Get(ctx context.Context, companyID int, key string) (*models.CompanySetting, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, company_id, setting_key, setting_value, updated_at
         FROM company_settings WHERE company_id=$1 AND setting_key=$2`,
		companyID, key)

	var s models.CompanySetting
	err := row.Scan(&s.ID, &s.CompanyID, &s.SettingKey, &s.SettingValue, &s.UpdatedAt)
	return &s, err
}

// ListByCompany returns all settings for a company
func (r *SettingRepository) ListByCompany(ctx context.Context, companyID int) ([]*models.CompanySetting, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, company_id, setting_key, setting_value, updated_at
         FROM company_settings WHERE company_id=$1 ORDER BY setting_key ASC`,
		companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var settings []*models.CompanySetting
	for rows.Next() {
		var s models.CompanySetting
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.SettingKey, &s.SettingValue, &s.UpdatedAt); err != nil {
			return nil, err
		}
		settings = append(settings, &s)
	}
	return settings, rows.Err()
}

func (r *SettingRepository) Delete(ctx context.Context, companyID int, key string) error {
	_, err := r.DB.Exec(ctx,
		`DELETE FROM company_settings WHERE company_id=$1 AND setting_key=$2`,
		companyID, key)
	return err
}
