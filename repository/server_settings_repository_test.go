package repository

import (
	"context"
	"testing"

	"dicekeeper/models"
	"dicekeeper/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerSettingsRepository_GetOrCreate_SeedsDefaults(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	repo := NewServerSettingsRepository(testDB.DB)
	ctx := context.Background()

	settings, err := repo.GetOrCreate(ctx, 42)
	require.NoError(t, err)

	assert.Equal(t, int64(42), settings.GuildID)
	assert.Nil(t, settings.DMRoleIDs)
	assert.True(t, settings.LookupDMRequired)
	assert.Equal(t, models.InlineRollingDisabled, settings.InlineRolling)
	assert.Equal(t, "4d6kh3", settings.RandcharDice)
	assert.Equal(t, 1, settings.RandcharSets)
	assert.Equal(t, 6, settings.RandcharNum)
	assert.Nil(t, settings.RandcharMin)
	assert.Empty(t, settings.RandcharRules)
	assert.True(t, settings.ShowCampaignCTA)

	// Second call returns the same row, not a new one
	again, err := repo.GetOrCreate(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, settings.GuildID, again.GuildID)
}

func TestServerSettingsRepository_Update_RoundTrips(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	repo := NewServerSettingsRepository(testDB.DB)
	ctx := context.Background()

	settings, err := repo.GetOrCreate(ctx, 7)
	require.NoError(t, err)

	minTotal := 60
	settings.DMRoleIDs = []int64{111, 222}
	settings.LookupDMRequired = false
	settings.LookupPMResult = true
	settings.InlineRolling = models.InlineRollingReaction
	settings.RandcharDice = "3d6"
	settings.RandcharSets = 4
	settings.RandcharNum = 4
	settings.RandcharStraight = true
	settings.RandcharStatNames = []string{"A", "B", "C", "D"}
	settings.RandcharMin = &minTotal
	settings.RandcharRules = []models.RandcharRule{{Kind: models.RuleUnder, Amount: 2, Value: 10}}
	settings.NLPOptIn = true

	require.NoError(t, repo.Update(ctx, settings))

	loaded, err := repo.GetOrCreate(ctx, 7)
	require.NoError(t, err)

	assert.Equal(t, []int64{111, 222}, loaded.DMRoleIDs)
	assert.False(t, loaded.LookupDMRequired)
	assert.True(t, loaded.LookupPMResult)
	assert.Equal(t, models.InlineRollingReaction, loaded.InlineRolling)
	assert.Equal(t, "3d6", loaded.RandcharDice)
	assert.Equal(t, 4, loaded.RandcharSets)
	assert.Equal(t, 4, loaded.RandcharNum)
	assert.True(t, loaded.RandcharStraight)
	assert.Equal(t, []string{"A", "B", "C", "D"}, loaded.RandcharStatNames)
	require.NotNil(t, loaded.RandcharMin)
	assert.Equal(t, 60, *loaded.RandcharMin)
	assert.Nil(t, loaded.RandcharMax)
	require.Len(t, loaded.RandcharRules, 1)
	assert.Equal(t, models.RandcharRule{Kind: models.RuleUnder, Amount: 2, Value: 10}, loaded.RandcharRules[0])
	assert.True(t, loaded.NLPOptIn)
}

func TestServerSettingsRepository_Update_ClearsDMRoles(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	repo := NewServerSettingsRepository(testDB.DB)
	ctx := context.Background()

	settings, err := repo.GetOrCreate(ctx, 9)
	require.NoError(t, err)

	settings.DMRoleIDs = []int64{333}
	require.NoError(t, repo.Update(ctx, settings))

	// reset back to the platform default names
	settings.DMRoleIDs = nil
	require.NoError(t, repo.Update(ctx, settings))

	loaded, err := repo.GetOrCreate(ctx, 9)
	require.NoError(t, err)
	assert.Nil(t, loaded.DMRoleIDs)
}

func TestServerSettingsRepository_Update_UnknownGuild(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	repo := NewServerSettingsRepository(testDB.DB)

	err := repo.Update(context.Background(), models.NewServerSettings(404))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLinkedAccountRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	testDB := testutil.SetupTestDatabase(t)
	repo := NewLinkedAccountRepository(testDB.DB)
	ctx := context.Background()

	// Unlinked user resolves to nil, not an error
	account, err := repo.GetByDiscordID(ctx, 555)
	require.NoError(t, err)
	assert.Nil(t, account)

	require.NoError(t, repo.Upsert(ctx, &models.LinkedAccount{
		DiscordID: 555,
		AccountID: "acct-abc",
		Username:  "player one",
	}))

	account, err = repo.GetByDiscordID(ctx, 555)
	require.NoError(t, err)
	require.NotNil(t, account)
	assert.Equal(t, "acct-abc", account.AccountID)
	assert.Equal(t, "player one", account.Username)

	require.NoError(t, repo.Delete(ctx, 555))
	account, err = repo.GetByDiscordID(ctx, 555)
	require.NoError(t, err)
	assert.Nil(t, account)
}
