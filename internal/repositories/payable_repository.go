package repositories

import (
	"context"
	"time"

	"involinks-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PayableRepository struct {
	DB *pgxpool.Pool
}

func NewPayableRepository(db *pgxpool.Pool) *PayableRepository {
	return &PayableRepository{DB: db}
}

const payableColumns = `id, company_id, supplier_invoice_number, supplier_name,
	COALESCE(supplier_trn, ''), invoice_date, due_date, currency_code,
	subtotal::text, tax_amount::text, total_amount::text, status, received_via,
	created_at, updated_at`

func scanPayable(row interface{ Scan(...interface{}) error }) (*models.Payable, error) {
	var p models.Payable
	var subtotal, tax, total string
	err := row.Scan(&p.ID, &p.CompanyID, &p.SupplierInvoiceNumber, &p.SupplierName,
		&p.SupplierTRN, &p.InvoiceDate, &p.DueDate, &p.CurrencyCode,
		&subtotal, &tax, &total, &p.Status, &p.ReceivedVia,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if p.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return nil, err
	}
	if p.TaxAmount, err = decimal.NewFromString(tax); err != nil {
		return nil, err
	}
	if p.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PayableRepository) Create(ctx context.Context, p *models.Payable) error {
	if p.Status == "" {
		p.Status = models.PayableReceived
	}
	if p.ReceivedVia == "" {
		p.ReceivedVia = "manual"
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO payables(company_id, supplier_invoice_number, supplier_name, supplier_trn,
		 invoice_date, due_date, currency_code, subtotal, tax_amount, total_amount, status, received_via)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
         RETURNING id, created_at, updated_at`,
		p.CompanyID, p.SupplierInvoiceNumber, p.SupplierName, p.SupplierTRN,
		p.InvoiceDate, p.DueDate, p.CurrencyCode,
		p.Subtotal.String(), p.TaxAmount.String(), p.TotalAmount.String(),
		p.Status, p.ReceivedVia,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *PayableRepository) Get(ctx context.Context, id int) (*models.Payable, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+payableColumns+` FROM payables WHERE id=$1`, id)
	return scanPayable(row)
}

// ListByCompany returns payables oldest due date first, optionally
// filtered by status.
func (r *PayableRepository) ListByCompany(ctx context.Context, companyID int, status string) ([]*models.Payable, error) {
	query := `SELECT ` + payableColumns + ` FROM payables WHERE company_id=$1`
	args := []interface{}{companyID}
	if status != "" {
		query += ` AND status=$2`
		args = append(args, status)
	}
	query += ` ORDER BY due_date ASC, id ASC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payables []*models.Payable
	for rows.Next() {
		p, err := scanPayable(rows)
		if err != nil {
			return nil, err
		}
		payables = append(payables, p)
	}
	return payables, rows.Err()
}

func (r *PayableRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE payables SET status=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`, status, id)
	return err
}

// SumInputVAT totals recoverable VAT on non-disputed payables in a
// date range, for the VAT return. The end bound is exclusive.
func (r *PayableRepository) SumInputVAT(ctx context.Context, companyID int, from, to time.Time) (decimal.Decimal, error) {
	var sum string
	err := r.DB.QueryRow(ctx,
		`SELECT COALESCE(SUM(tax_amount), 0)::text FROM payables
         WHERE company_id=$1 AND status != $2
         AND invoice_date >= $3 AND invoice_date < $4`,
		companyID, models.PayableDisputed, from, to).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(sum)
}

// ListInRange returns payables for the FAF purchase section. The end
// bound is exclusive.
func (r *PayableRepository) ListInRange(ctx context.Context, companyID int, from, to time.Time) ([]*models.Payable, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+payableColumns+` FROM payables
         WHERE company_id=$1 AND invoice_date >= $2 AND invoice_date < $3
         ORDER BY invoice_date ASC, id ASC`,
		companyID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payables []*models.Payable
	for rows.Next() {
		p, err := scanPayable(rows)
		if err != nil {
			return nil, err
		}
		payables = append(payables, p)
	}
	return payables, rows.Err()
}
