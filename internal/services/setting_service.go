package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"involinks-backend/internal/cache"
	"involinks-backend/internal/models"
	"involinks-backend/internal/repositories"
	"involinks-backend/internal/vat"
)

const settingCacheTTL = 10 * time.Minute

type SettingService struct {
	settingRepo *repositories.SettingRepository
}

func NewSettingService(settingRepo *repositories.SettingRepository) *SettingService {
	return &SettingService{settingRepo: settingRepo}
}

func settingsCacheKey(companyID int) string {
	return fmt.Sprintf("settings:%d", companyID)
}

// List returns all of a company's settings, cache-aside.
func (s *SettingService) List(ctx context.Context, companyID int) ([]*models.CompanySetting, error) {
	key := settingsCacheKey(companyID)
	if data, ok := cache.GetCached(ctx, key); ok {
		var settings []*models.CompanySetting
		if err := json.Unmarshal(data, &settings); err == nil {
			return settings, nil
		}
	}

	settings, err := s.settingRepo.ListByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(settings); err == nil {
		cache.SetCached(ctx, key, data, settingCacheTTL)
	}
	return settings, nil
}

func (s *SettingService) Get(ctx context.Context, companyID int, key string) (*models.CompanySetting, error) {
	return s.settingRepo.Get(ctx, companyID, key)
}

// Set validates well-known keys before writing.
func (s *SettingService) Set(ctx context.Context, companyID int, key, value string) error {
	if key == "" {
		return errors.New("setting key is required")
	}
	switch key {
	case models.SettingDefaultTaxCode:
		if !vat.IsValidCode(value) {
			return fmt.Errorf("invalid tax code %q", value)
		}
	case models.SettingVATEnabled:
		if value != "true" && value != "false" {
			return fmt.Errorf("%s must be true or false", key)
		}
	case models.SettingPeppolProvider:
		if value != "tradeshift" && value != "basware" && value != "mock" {
			return fmt.Errorf("unknown PEPPOL provider %q", value)
		}
	}
	if err := s.settingRepo.Upsert(ctx, companyID, key, value); err != nil {
		return err
	}
	cache.InvalidateSettingCaches(ctx)
	return nil
}

func (s *SettingService) Delete(ctx context.Context, companyID int, key string) error {
	if err := s.settingRepo.Delete(ctx, companyID, key); err != nil {
		return err
	}
	cache.InvalidateSettingCaches(ctx)
	return nil
}
