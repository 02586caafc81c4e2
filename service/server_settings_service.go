package service

import (
	"context"
	"fmt"

	"dicekeeper/models"
)

// serverSettingsService implements the ServerSettingsService interface
type serverSettingsService struct {
	settingsRepo ServerSettingsRepository
}

// NewServerSettingsService creates a new server settings service
func NewServerSettingsService(settingsRepo ServerSettingsRepository) ServerSettingsService {
	return &serverSettingsService{
		settingsRepo: settingsRepo,
	}
}

// GetOrCreateSettings retrieves guild settings or creates default ones if not found
func (s *serverSettingsService) GetOrCreateSettings(ctx context.Context, guildID int64) (*models.ServerSettings, error) {
	settings, err := s.settingsRepo.GetOrCreate(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create server settings: %w", err)
	}

	return settings, nil
}

// Commit persists the whole settings document. Every menu mutation commits
// immediately; a failure here must surface to the session rather than being
// swallowed, so the caller can abort.
func (s *serverSettingsService) Commit(ctx context.Context, settings *models.ServerSettings) error {
	if err := s.settingsRepo.Update(ctx, settings); err != nil {
		return fmt.Errorf("failed to commit server settings: %w", err)
	}

	return nil
}
