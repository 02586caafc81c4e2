package service

import (
	"context"

	"dicekeeper/models"

	"github.com/stretchr/testify/mock"
)

// MockServerSettingsRepository is a mock implementation of ServerSettingsRepository
type MockServerSettingsRepository struct {
	mock.Mock
}

func (m *MockServerSettingsRepository) GetOrCreate(ctx context.Context, guildID int64) (*models.ServerSettings, error) {
	args := m.Called(ctx, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ServerSettings), args.Error(1)
}

func (m *MockServerSettingsRepository) Update(ctx context.Context, settings *models.ServerSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

// MockLinkedAccountRepository is a mock linked account lookup
type MockLinkedAccountRepository struct {
	mock.Mock
}

func (m *MockLinkedAccountRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.LinkedAccount, error) {
	args := m.Called(ctx, discordID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.LinkedAccount), args.Error(1)
}
