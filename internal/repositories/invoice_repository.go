package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"involinks-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type InvoiceRepository struct {
	DB *pgxpool.Pool
}

func NewInvoiceRepository(db *pgxpool.Pool) *InvoiceRepository {
	return &InvoiceRepository{DB: db}
}

const invoiceColumns = `id, company_id, COALESCE(invoice_number, ''), invoice_type, status,
	currency_code, issue_date, due_date,
	COALESCE(customer_name, ''), COALESCE(customer_trn, ''), COALESCE(customer_email, ''),
	subtotal::text, tax_amount::text, total_amount::text, COALESCE(notes, ''),
	COALESCE(invoice_hash, ''), COALESCE(previous_hash, ''), COALESCE(signature, ''),
	created_at, updated_at`

func scanInvoice(row interface{ Scan(...interface{}) error }) (*models.Invoice, error) {
	var (
		inv           models.Invoice
		subtotal, tax string
		total         string
	)
	err := row.Scan(&inv.ID, &inv.CompanyID, &inv.InvoiceNumber, &inv.InvoiceType, &inv.Status,
		&inv.CurrencyCode, &inv.IssueDate, &inv.DueDate,
		&inv.CustomerName, &inv.CustomerTRN, &inv.CustomerEmail,
		&subtotal, &tax, &total, &inv.Notes,
		&inv.InvoiceHash, &inv.PreviousHash, &inv.Signature,
		&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if inv.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return nil, fmt.Errorf("invalid subtotal %q: %w", subtotal, err)
	}
	if inv.TaxAmount, err = decimal.NewFromString(tax); err != nil {
		return nil, fmt.Errorf("invalid tax_amount %q: %w", tax, err)
	}
	if inv.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("invalid total_amount %q: %w", total, err)
	}
	return &inv, nil
}

// CreateDraft inserts the invoice and its lines in one transaction.
func (r *InvoiceRepository) CreateDraft(ctx context.Context, inv *models.Invoice, lines []models.InvoiceLine) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		`INSERT INTO invoices(company_id, invoice_type, status, currency_code, due_date,
		 customer_name, customer_trn, customer_email,
		 subtotal, tax_amount, total_amount, notes)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
         RETURNING id, created_at, updated_at`,
		inv.CompanyID, inv.InvoiceType, models.InvoiceDraft, inv.CurrencyCode, inv.DueDate,
		inv.CustomerName, inv.CustomerTRN, inv.CustomerEmail,
		inv.Subtotal.String(), inv.TaxAmount.String(), inv.TotalAmount.String(), inv.Notes,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return err
	}
	inv.Status = models.InvoiceDraft

	if err := insertLines(ctx, tx, inv.ID, lines); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ReplaceLines rewrites a draft's lines and stored totals.
func (r *InvoiceRepository) ReplaceLines(ctx context.Context, inv *models.Invoice, lines []models.InvoiceLine) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE invoices SET currency_code=$1, due_date=$2, customer_name=$3, customer_trn=$4,
		 customer_email=$5, subtotal=$6, tax_amount=$7, total_amount=$8, notes=$9,
		 updated_at=CURRENT_TIMESTAMP
		 WHERE id=$10 AND status=$11`,
		inv.CurrencyCode, inv.DueDate, inv.CustomerName, inv.CustomerTRN,
		inv.CustomerEmail, inv.Subtotal.String(), inv.TaxAmount.String(), inv.TotalAmount.String(), inv.Notes,
		inv.ID, models.InvoiceDraft)
	if err != nil {
		return err
	}

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id=$1`, inv.ID); err != nil {
		return err
	}
	if err := insertLines(ctx, tx, inv.ID, lines); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertLines(ctx context.Context, tx pgx.Tx, invoiceID int, lines []models.InvoiceLine) error {
	for i := range lines {
		lines[i].InvoiceID = invoiceID
		lines[i].Position = i + 1
		err := tx.QueryRow(ctx,
			`INSERT INTO invoice_lines(invoice_id, position, description, quantity, unit_price,
			 tax_code, net_amount, vat_amount, total_amount)
             VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
             RETURNING id`,
			invoiceID, lines[i].Position, lines[i].Description,
			lines[i].Quantity.String(), lines[i].UnitPrice.String(),
			lines[i].TaxCode, lines[i].NetAmount.String(),
			lines[i].VATAmount.String(), lines[i].TotalAmount.String(),
		).Scan(&lines[i].ID)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *InvoiceRepository) Get(ctx context.Context, id int) (*models.Invoice, error) {
	row := r.DB.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id=$1`, id)
	return scanInvoice(row)
}

// GetWithLines loads an invoice and its lines in entry order.
func (r *InvoiceRepository) GetWithLines(ctx context.Context, id int) (*models.InvoiceWithLines, error) {
	inv, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx,
		`SELECT id, invoice_id, position, description, quantity::text, unit_price::text,
		 tax_code, net_amount::text, vat_amount::text, total_amount::text
         FROM invoice_lines WHERE invoice_id=$1 ORDER BY position ASC`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := &models.InvoiceWithLines{Invoice: *inv}
	for rows.Next() {
		var line models.InvoiceLine
		var qty, price, net, vatAmt, total string
		err := rows.Scan(&line.ID, &line.InvoiceID, &line.Position, &line.Description,
			&qty, &price, &line.TaxCode, &net, &vatAmt, &total)
		if err != nil {
			return nil, err
		}
		if line.Quantity, err = decimal.NewFromString(qty); err != nil {
			return nil, err
		}
		if line.UnitPrice, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		if line.NetAmount, err = decimal.NewFromString(net); err != nil {
			return nil, err
		}
		if line.VATAmount, err = decimal.NewFromString(vatAmt); err != nil {
			return nil, err
		}
		if line.TotalAmount, err = decimal.NewFromString(total); err != nil {
			return nil, err
		}
		result.Lines = append(result.Lines, line)
	}
	return result, rows.Err()
}

// ListByCompany returns invoices newest first, optionally filtered by status.
func (r *InvoiceRepository) ListByCompany(ctx context.Context, companyID int, status string) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE company_id=$1`
	args := []interface{}{companyID}
	if status != "" {
		query += ` AND status=$2`
		args = append(args, status)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// Issue assigns the next sequential number and finalizes the draft in
// one transaction. The sequence row stays locked until commit, so
// concurrent issues for the same company serialize: numbers never
// collide and each invoice links to a distinct chain predecessor.
// finalize runs after the number and previous hash are set so the
// caller can compute the chain hash and signature over the final
// invoice content.
func (r *InvoiceRepository) Issue(ctx context.Context, inv *models.Invoice, finalize func(*models.Invoice) error) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var seq int
	err = tx.QueryRow(ctx,
		`INSERT INTO invoice_number_sequences(company_id, last_number) VALUES($1, 1)
		 ON CONFLICT (company_id) DO UPDATE SET last_number = invoice_number_sequences.last_number + 1
		 RETURNING last_number`, inv.CompanyID).Scan(&seq)
	if err != nil {
		return err
	}
	inv.InvoiceNumber = fmt.Sprintf("INV-%06d", seq)

	// The chain head is read under the sequence lock. A concurrent
	// issue commits before this one acquires the lock, so its hash is
	// visible here and the chain never forks.
	var prevHash string
	err = tx.QueryRow(ctx,
		`SELECT invoice_hash FROM invoices
         WHERE company_id=$1 AND status != $2 AND invoice_hash != ''
         ORDER BY issue_date DESC, id DESC LIMIT 1`,
		inv.CompanyID, models.InvoiceDraft).Scan(&prevHash)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	inv.PreviousHash = prevHash

	if finalize != nil {
		if err := finalize(inv); err != nil {
			return err
		}
	}

	_, err = tx.Exec(ctx,
		`UPDATE invoices SET invoice_number=$1, invoice_type=$2, status=$3, issue_date=$4,
		 invoice_hash=$5, previous_hash=$6, signature=$7, updated_at=CURRENT_TIMESTAMP
		 WHERE id=$8 AND status=$9`,
		inv.InvoiceNumber, inv.InvoiceType, models.InvoiceIssued, inv.IssueDate,
		inv.InvoiceHash, inv.PreviousHash, inv.Signature,
		inv.ID, models.InvoiceDraft)
	if err != nil {
		return err
	}
	inv.Status = models.InvoiceIssued

	return tx.Commit(ctx)
}

func (r *InvoiceRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE invoices SET status=$1, updated_at=CURRENT_TIMESTAMP WHERE id=$2`, status, id)
	return err
}

// DeleteDraft removes an unissued invoice. Issued invoices are never
// deleted, only voided.
func (r *InvoiceRepository) DeleteDraft(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx,
		`DELETE FROM invoices WHERE id=$1 AND status=$2`, id, models.InvoiceDraft)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("invoice %d is not a draft", id)
	}
	return nil
}

// CountIssuedInMonth is used for plan quota checks and dashboards.
func (r *InvoiceRepository) CountIssuedInMonth(ctx context.Context, companyID int, monthStart time.Time) (int, error) {
	var count int
	err := r.DB.QueryRow(ctx,
		`SELECT COUNT(*) FROM invoices
         WHERE company_id=$1 AND status != $2
         AND issue_date >= $3 AND issue_date < $4`,
		companyID, models.InvoiceDraft,
		monthStart, monthStart.AddDate(0, 1, 0)).Scan(&count)
	return count, err
}

// SumOutputVAT totals the VAT on non-draft, non-voided invoices in a
// date range, for the VAT return. The end bound is exclusive.
func (r *InvoiceRepository) SumOutputVAT(ctx context.Context, companyID int, from, to time.Time) (decimal.Decimal, error) {
	var sum string
	err := r.DB.QueryRow(ctx,
		`SELECT COALESCE(SUM(tax_amount), 0)::text FROM invoices
         WHERE company_id=$1 AND status NOT IN ($2, $3)
         AND issue_date >= $4 AND issue_date < $5`,
		companyID, models.InvoiceDraft, models.InvoiceVoided, from, to).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(sum)
}

// ListIssuedInRange returns non-draft invoices for exports (FAF, CSV).
// The end bound is exclusive.
func (r *InvoiceRepository) ListIssuedInRange(ctx context.Context, companyID int, from, to time.Time) ([]*models.Invoice, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+invoiceColumns+` FROM invoices
         WHERE company_id=$1 AND status != $2
         AND issue_date >= $3 AND issue_date < $4
         ORDER BY issue_date ASC, id ASC`,
		companyID, models.InvoiceDraft, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}
