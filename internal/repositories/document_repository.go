package repositories

import (
	"context"

	"involinks-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DocumentRepository struct {
	DB *pgxpool.Pool
}

func NewDocumentRepository(db *pgxpool.Pool) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

func (r *DocumentRepository) Create(ctx context.Context, d *models.CompanyDocument) error {
	if d.Status == "" {
		d.Status = models.DocPendingReview
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO company_documents(company_id, document_type, file_name, storage_key,
		 file_size, mime_type, status, issue_date, expiry_date, document_number)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
         RETURNING id, uploaded_at`,
		d.CompanyID, d.DocumentType, d.FileName, d.StorageKey,
		d.FileSize, d.MimeType, d.Status, d.IssueDate, d.ExpiryDate, d.DocumentNumber,
	).Scan(&d.ID, &d.UploadedAt)
}

func (r *DocumentRepository) Get(ctx context.Context, id int) (*models.CompanyDocument, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, company_id, document_type, file_name, storage_key, file_size,
		 COALESCE(mime_type, ''), status, issue_date, expiry_date,
		 COALESCE(document_number, ''), uploaded_at
         FROM company_documents WHERE id=$1`, id)

	var d models.CompanyDocument
	err := row.Scan(&d.ID, &d.CompanyID, &d.DocumentType, &d.FileName, &d.StorageKey,
		&d.FileSize, &d.MimeType, &d.Status, &d.IssueDate, &d.ExpiryDate,
		&d.DocumentNumber, &d.UploadedAt)
	return &d, err
}

func (r *DocumentRepository) ListByCompany(ctx context.Context, companyID int) ([]*models.CompanyDocument, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, company_id, document_type, file_name, storage_key, file_size,
		 COALESCE(mime_type, ''), status, issue_date, expiry_date,
		 COALESCE(document_number, ''), uploaded_at
         FROM company_documents WHERE company_id=$1 ORDER BY uploaded_at DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.CompanyDocument
	for rows.Next() {
		var d models.CompanyDocument
		err := rows.Scan(&d.ID, &d.CompanyID, &d.DocumentType, &d.FileName, &d.StorageKey,
			&d.FileSize, &d.MimeType, &d.Status, &d.IssueDate, &d.ExpiryDate,
			&d.DocumentNumber, &d.UploadedAt)
		if err != nil {
			return nil, err
		}
		docs = append(docs, &d)
	}
	return docs, rows.Err()
}

// CountByCompany counts uploads, used by the wizard's step gate
func (r *DocumentRepository) CountByCompany(ctx context.Context, companyID int) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM company_documents WHERE company_id=$1`, companyID).Scan(&count)
	return count, err
}

// UpdateStatus records the admin review decision for one document
func (r *DocumentRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE company_documents SET status=$1 WHERE id=$2`, status, id)
	return err
}

func (r *DocumentRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM company_documents WHERE id=$1`, id)
	return err
}
