package service

import (
	"context"

	"dicekeeper/models"
)

// ServerSettingsRepository defines the persistence operations for settings documents
type ServerSettingsRepository interface {
	// GetOrCreate retrieves settings for a guild, seeding defaults if absent
	GetOrCreate(ctx context.Context, guildID int64) (*models.ServerSettings, error)
	// Update writes the whole settings document (last-write-wins)
	Update(ctx context.Context, settings *models.ServerSettings) error
}

// ServerSettingsService manages per-guild settings documents
type ServerSettingsService interface {
	GetOrCreateSettings(ctx context.Context, guildID int64) (*models.ServerSettings, error)
	Commit(ctx context.Context, settings *models.ServerSettings) error
}
