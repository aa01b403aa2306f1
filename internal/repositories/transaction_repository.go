package repositories

import (
	"context"

	"involinks-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type TransactionRepository struct {
	DB *pgxpool.Pool
}

func NewTransactionRepository(db *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{DB: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *models.PaymentTransaction) error {
	if t.Status == "" {
		t.Status = models.TxnCreated
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO payment_transactions(company_id, subscription_id, order_id, amount_minor, currency, status)
         VALUES($1, $2, $3, $4, $5, $6)
         RETURNING id, created_at, updated_at`,
		t.CompanyID, t.SubscriptionID, t.OrderID, t.AmountMinor, t.Currency, t.Status,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
}

func (r *TransactionRepository) GetByOrderID(ctx context.Context, orderID string) (*models.PaymentTransaction, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, company_id, subscription_id, order_id, COALESCE(payment_id, ''),
		 amount_minor, currency, status, created_at, updated_at
         FROM payment_transactions WHERE order_id=$1`, orderID)

	var t models.PaymentTransaction
	err := row.Scan(&t.ID, &t.CompanyID, &t.SubscriptionID, &t.OrderID, &t.PaymentID,
		&t.AmountMinor, &t.Currency, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	return &t, err
}

// MarkCaptured records a successful gateway payment
func (r *TransactionRepository) MarkCaptured(ctx context.Context, orderID, paymentID string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE payment_transactions SET status=$1, payment_id=$2, updated_at=CURRENT_TIMESTAMP
		 WHERE order_id=$3`,
		models.TxnCaptured, paymentID, orderID)
	return err
}

func (r *TransactionRepository) MarkFailed(ctx context.Context, orderID string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE payment_transactions SET status=$1, updated_at=CURRENT_TIMESTAMP WHERE order_id=$2`,
		models.TxnFailed, orderID)
	return err
}

// ListByCompany returns a company's payment history newest first
func (r *TransactionRepository) ListByCompany(ctx context.Context, companyID int) ([]*models.PaymentTransaction, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, company_id, subscription_id, order_id, COALESCE(payment_id, ''),
		 amount_minor, currency, status, created_at, updated_at
         FROM payment_transactions WHERE company_id=$1 ORDER BY created_at DESC`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txns []*models.PaymentTransaction
	for rows.Next() {
		var t models.PaymentTransaction
		err := rows.Scan(&t.ID, &t.CompanyID, &t.SubscriptionID, &t.OrderID, &t.PaymentID,
			&t.AmountMinor, &t.Currency, &t.Status, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, err
		}
		txns = append(txns, &t)
	}
	return txns, rows.Err()
}
