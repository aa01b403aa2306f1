package repositories

import (
	"context"

	"involinks-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ContentRepository struct {
	DB *pgxpool.Pool
}

func NewContentRepository(db *pgxpool.Pool) *ContentRepository {
	return &ContentRepository{DB: db}
}

func (r *ContentRepository) Upsert(ctx context.Context, key, content string, updatedBy int) error {
	_, err := r.DB.Exec(ctx,
		`INSERT INTO content_blocks(content_key, content, updated_by)
         VALUES($1, $2, $3)
         ON CONFLICT (content_key)
         DO UPDATE SET content=EXCLUDED.content, updated_by=EXCLUDED.updated_by, updated_at=CURRENT_TIMESTAMP`,
		key, content, updatedBy)
	return err
}

func (r *ContentRepository) Get(ctx context.Context, key string) (*models.ContentBlock, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, content_key, content, updated_by, updated_at
         FROM content_blocks WHERE content_key=$1`, key)

	var b models.ContentBlock
	err := row.Scan(&b.ID, &b.ContentKey, &b.Content, &b.UpdatedBy, &b.UpdatedAt)
	return &b, err
}

func (r *ContentRepository) List(ctx context.Context) ([]*models.ContentBlock, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, content_key, content, updated_by, updated_at
         FROM content_blocks ORDER BY content_key ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var blocks []*models.ContentBlock
	for rows.Next() {
		var b models.ContentBlock
		if err := rows.Scan(&b.ID, &b.ContentKey, &b.Content, &b.UpdatedBy, &b.UpdatedAt); err != nil {
			return nil, err
		}
		blocks = append(blocks, &b)
	}
	return blocks, rows.Err()
}

func (r *ContentRepository) Delete(ctx context.Context, key string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM content_blocks WHERE content_key=$1`, key)
	return err
}
