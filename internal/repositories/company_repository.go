package repositories

import (
	"context"

	"involinks-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CompanyRepository struct {
	DB *pgxpool.Pool
}

func NewCompanyRepository(db *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{DB: db}
}

const companyColumns = `id, legal_name, country, status, COALESCE(trn, ''), vat_enabled,
	COALESCE(business_type, ''), COALESCE(business_activity, ''),
	COALESCE(registration_number, ''), registration_date,
	COALESCE(email, ''), COALESCE(phone, ''), COALESCE(website, ''),
	COALESCE(address_line1, ''), COALESCE(address_line2, ''), COALESCE(city, ''),
	COALESCE(emirate, ''), COALESCE(po_box, ''),
	COALESCE(authorized_person_name, ''), COALESCE(authorized_person_title, ''),
	COALESCE(authorized_person_email, ''), COALESCE(authorized_person_phone, ''),
	COALESCE(rejection_reason, ''), created_at, updated_at`

func scanCompany(row interface{ Scan(...interface{}) error }) (*models.Company, error) {
	var c models.Company
	err := row.Scan(&c.ID, &c.LegalName, &c.Country, &c.Status, &c.TRN, &c.VATEnabled,
		&c.BusinessType, &c.BusinessActivity,
		&c.RegistrationNumber, &c.RegistrationDate,
		&c.Email, &c.Phone, &c.Website,
		&c.AddressLine1, &c.AddressLine2, &c.City,
		&c.Emirate, &c.POBox,
		&c.AuthorizedPersonName, &c.AuthorizedPersonTitle,
		&c.AuthorizedPersonEmail, &c.AuthorizedPersonPhone,
		&c.RejectionReason, &c.CreatedAt, &c.UpdatedAt)
	return &c, err
}

// Create starts a registration with just the legal name; the wizard
// fills in the rest step by step.
func (r *CompanyRepository) Create(ctx context.Context, c *models.Company) error {
	if c.Country == "" {
		c.Country = "AE"
	}
	if c.Status == "" {
		c.Status = models.CompanyPendingReview
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO companies(legal_name, country, status)
         VALUES($1, $2, $3)
         RETURNING id, created_at, updated_at`,
		c.LegalName, c.Country, c.Status,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
}

func (r *CompanyRepository) Get(ctx context.Context, id int) (*models.Company, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id=$1`, id)
	return scanCompany(row)
}

func (r *CompanyRepository) List(ctx context.Context) ([]*models.Company, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+companyColumns+` FROM companies ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

func (r *CompanyRepository) ListByStatus(ctx context.Context, status string) ([]*models.Company, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE status=$1 ORDER BY created_at ASC`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*models.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

// UpdateCompanyInfo saves registration step 1
func (r *CompanyRepository) UpdateCompanyInfo(ctx context.Context, c *models.Company) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE companies SET legal_name=$1, business_type=$2, registration_number=$3,
		 registration_date=$4, email=$5, phone=$6, website=$7, updated_at=CURRENT_TIMESTAMP
		 WHERE id=$8`,
		c.LegalName, c.BusinessType, c.RegistrationNumber,
		c.RegistrationDate, c.Email, c.Phone, c.Website, c.ID)
	return err
}

// UpdateBusinessDetails saves registration step 2
func (r *CompanyRepository) UpdateBusinessDetails(ctx context.Context, c *models.Company) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE companies SET business_activity=$1, address_line1=$2, address_line2=$3,
		 city=$4, emirate=$5, po_box=$6, trn=$7, vat_enabled=$8,
		 authorized_person_name=$9, authorized_person_title=$10,
		 authorized_person_email=$11, authorized_person_phone=$12,
		 updated_at=CURRENT_TIMESTAMP
		 WHERE id=$13`,
		c.BusinessActivity, c.AddressLine1, c.AddressLine2,
		c.City, c.Emirate, c.POBox, c.TRN, c.VATEnabled,
		c.AuthorizedPersonName, c.AuthorizedPersonTitle,
		c.AuthorizedPersonEmail, c.AuthorizedPersonPhone, c.ID)
	return err
}

// UpdateStatus moves a company through the review lifecycle. The
// rejection reason is cleared on any transition away from REJECTED.
func (r *CompanyRepository) UpdateStatus(ctx context.Context, id int, status, rejectionReason string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE companies SET status=$1, rejection_reason=$2, updated_at=CURRENT_TIMESTAMP WHERE id=$3`,
		status, rejectionReason, id)
	return err
}

func (r *CompanyRepository) SetVATEnabled(ctx context.Context, id int, enabled bool) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE companies SET vat_enabled=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`,
		enabled, id)
	return err
}
