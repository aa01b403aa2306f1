package services

import (
	"context"
	"errors"
	"time"

	"involinks-backend/internal/cache"
	"involinks-backend/internal/models"
	"involinks-backend/internal/repositories"

	"github.com/jackc/pgx/v5"
)

const contentCacheTTL = 30 * time.Minute

// Fallback text served when a content block was never configured.
var defaultContent = map[string]string{
	"welcome_banner":  "Welcome to InvoLinks, the UAE e-invoicing platform.",
	"support_email":   "support@involinks.ae",
	"onboarding_help": "Complete all five registration steps to activate your account.",
}

type ContentService struct {
	contentRepo *repositories.ContentRepository
}

func NewContentService(contentRepo *repositories.ContentRepository) *ContentService {
	return &ContentService{contentRepo: contentRepo}
}

// Get returns a content block, falling back to the built-in default
// when the key was never edited.
func (s *ContentService) Get(ctx context.Context, key string) (string, error) {
	cacheKey := "content:" + key
	if data, ok := cache.GetCached(ctx, cacheKey); ok {
		return string(data), nil
	}

	block, err := s.contentRepo.Get(ctx, key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if fallback, ok := defaultContent[key]; ok {
				return fallback, nil
			}
			return "", err
		}
		return "", err
	}

	cache.SetCached(ctx, cacheKey, []byte(block.Content), contentCacheTTL)
	return block.Content, nil
}

func (s *ContentService) List(ctx context.Context) ([]*models.ContentBlock, error) {
	return s.contentRepo.List(ctx)
}

// Set upserts a block. Only super admins reach this path.
func (s *ContentService) Set(ctx context.Context, key, content string, updatedBy int) error {
	if key == "" {
		return errors.New("content key is required")
	}
	if err := s.contentRepo.Upsert(ctx, key, content, updatedBy); err != nil {
		return err
	}
	cache.InvalidateContentCaches(ctx)
	return nil
}

func (s *ContentService) Delete(ctx context.Context, key string) error {
	if err := s.contentRepo.Delete(ctx, key); err != nil {
		return err
	}
	cache.InvalidateContentCaches(ctx)
	return nil
}
