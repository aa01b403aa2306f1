package repositories

import (
	"context"

	"involinks-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PeppolRepository struct {
	DB *pgxpool.Pool
}

func NewPeppolRepository(db *pgxpool.Pool) *PeppolRepository {
	return &PeppolRepository{DB: db}
}

func (r *PeppolRepository) Create(ctx context.Context, t *models.PeppolTransmission) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO peppol_transmissions(invoice_id, provider, message_id, sender_id,
		 receiver_id, status, error_detail)
         VALUES($1, $2, $3, $4, $5, $6, $7)
         RETURNING id, sent_at`,
		t.InvoiceID, t.Provider, t.MessageID, t.SenderID,
		t.ReceiverID, t.Status, t.ErrorDetail,
	).Scan(&t.ID, &t.SentAt)
}

func (r *PeppolRepository) Get(ctx context.Context, id int) (*models.PeppolTransmission, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, invoice_id, provider, message_id, sender_id, receiver_id, status,
		 COALESCE(error_detail, ''), sent_at, delivered_at
         FROM peppol_transmissions WHERE id=$1`, id)

	var t models.PeppolTransmission
	err := row.Scan(&t.ID, &t.InvoiceID, &t.Provider, &t.MessageID, &t.SenderID,
		&t.ReceiverID, &t.Status, &t.ErrorDetail, &t.SentAt, &t.DeliveredAt)
	return &t, err
}

// ListByInvoice returns transmission attempts newest first
func (r *PeppolRepository) ListByInvoice(ctx context.Context, invoiceID int) ([]*models.PeppolTransmission, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, invoice_id, provider, message_id, sender_id, receiver_id, status,
		 COALESCE(error_detail, ''), sent_at, delivered_at
         FROM peppol_transmissions WHERE invoice_id=$1 ORDER BY sent_at DESC`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*models.PeppolTransmission
	for rows.Next() {
		var t models.PeppolTransmission
		err := rows.Scan(&t.ID, &t.InvoiceID, &t.Provider, &t.MessageID, &t.SenderID,
			&t.ReceiverID, &t.Status, &t.ErrorDetail, &t.SentAt, &t.DeliveredAt)
		if err != nil {
			return nil, err
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}

// MarkDelivered records a successful delivery poll
func (r *PeppolRepository) MarkDelivered(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE peppol_transmissions SET status=$1, delivered_at=CURRENT_TIMESTAMP WHERE id=$2`,
		models.PeppolDelivered, id)
	return err
}

// MarkFailed records a delivery failure with the provider's detail
func (r *PeppolRepository) MarkFailed(ctx context.Context, id int, detail string) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE peppol_transmissions SET status=$1, error_detail=$2 WHERE id=$3`,
		models.PeppolFailed, detail, id)
	return err
}
