package repositories

import (
	"context"

	"involinks-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type LoginLogRepository struct {
	DB *pgxpool.Pool
}

func NewLoginLogRepository(db *pgxpool.Pool) *LoginLogRepository {
	return &LoginLogRepository{DB: db}
}

// Create records a successful login
func (r *LoginLogRepository) Create(ctx context.Context, userID int, ipAddress, userAgent string) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO login_logs (user_id, ip_address, user_agent) VALUES ($1, $2, $3)`,
		userID, ipAddress, userAgent)
	return err
}

// ListRecent returns the latest login events for the admin audit view
func (r *LoginLogRepository) ListRecent(ctx context.Context, limit int) ([]*models.LoginLog, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.Query(ctx,
		`SELECT id, user_id, COALESCE(ip_address, ''), COALESCE(user_agent, ''), created_at
         FROM login_logs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.LoginLog
	for rows.Next() {
		var l models.LoginLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.IPAddress, &l.UserAgent, &l.CreatedAt); err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
