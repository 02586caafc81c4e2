package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"dicekeeper/database"
	"dicekeeper/models"

	"github.com/jackc/pgx/v5"
)

// ServerSettingsRepository persists per-guild settings documents
type ServerSettingsRepository struct {
	db *database.DB
}

// NewServerSettingsRepository creates a new server settings repository
func NewServerSettingsRepository(db *database.DB) *ServerSettingsRepository {
	return &ServerSettingsRepository{db: db}
}

const serverSettingsColumns = `guild_id, dm_role_ids, lookup_dm_required, lookup_pm_dm, lookup_pm_result,
	       inline_rolling, randchar_dice, randchar_sets, randchar_num, randchar_straight,
	       randchar_stat_names, randchar_min, randchar_max, randchar_rules,
	       show_campaign_cta, nlp_opt_in`

// GetOrCreate retrieves the settings document for a guild, creating it with
// defaults if it does not exist yet
func (r *ServerSettingsRepository) GetOrCreate(ctx context.Context, guildID int64) (*models.ServerSettings, error) {
	query := `
		SELECT ` + serverSettingsColumns + `
		FROM server_settings
		WHERE guild_id = $1
	`

	settings, err := r.scanSettings(r.db.QueryRow(ctx, query, guildID))
	if err == nil {
		return settings, nil
	}

	if err != pgx.ErrNoRows {
		return nil, fmt.Errorf("failed to get server settings for guild %d: %w", guildID, err)
	}

	// If not found, create default settings. ON CONFLICT handles the race
	// where two sessions seed the same guild at once.
	insertQuery := `
		INSERT INTO server_settings (guild_id)
		VALUES ($1)
		ON CONFLICT (guild_id) DO NOTHING
	`
	if _, err := r.db.Exec(ctx, insertQuery, guildID); err != nil {
		return nil, fmt.Errorf("failed to create server settings for guild %d: %w", guildID, err)
	}

	settings, err = r.scanSettings(r.db.QueryRow(ctx, query, guildID))
	if err != nil {
		return nil, fmt.Errorf("failed to read back server settings for guild %d: %w", guildID, err)
	}

	return settings, nil
}

// Update writes the whole settings document for a guild in one statement.
// Concurrent editors are last-write-wins; there is no optimistic concurrency
// check. This is a known product decision, not an oversight.
func (r *ServerSettingsRepository) Update(ctx context.Context, settings *models.ServerSettings) error {
	dmRoles, statNames, rules, err := marshalSettingsJSON(settings)
	if err != nil {
		return err
	}

	query := `
		UPDATE server_settings
		SET dm_role_ids = $2,
		    lookup_dm_required = $3,
		    lookup_pm_dm = $4,
		    lookup_pm_result = $5,
		    inline_rolling = $6,
		    randchar_dice = $7,
		    randchar_sets = $8,
		    randchar_num = $9,
		    randchar_straight = $10,
		    randchar_stat_names = $11,
		    randchar_min = $12,
		    randchar_max = $13,
		    randchar_rules = $14,
		    show_campaign_cta = $15,
		    nlp_opt_in = $16
		WHERE guild_id = $1
	`

	result, err := r.db.Exec(ctx, query,
		settings.GuildID,
		dmRoles,
		settings.LookupDMRequired,
		settings.LookupPMDM,
		settings.LookupPMResult,
		string(settings.InlineRolling),
		settings.RandcharDice,
		settings.RandcharSets,
		settings.RandcharNum,
		settings.RandcharStraight,
		statNames,
		settings.RandcharMin,
		settings.RandcharMax,
		rules,
		settings.ShowCampaignCTA,
		settings.NLPOptIn,
	)

	if err != nil {
		return fmt.Errorf("failed to update server settings for guild %d: %w", settings.GuildID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("server settings for guild %d not found", settings.GuildID)
	}

	return nil
}

// scanSettings scans one settings row, decoding the JSONB columns
func (r *ServerSettingsRepository) scanSettings(row pgx.Row) (*models.ServerSettings, error) {
	var settings models.ServerSettings
	var inlineRolling string
	var dmRoles, statNames, rules []byte

	err := row.Scan(
		&settings.GuildID,
		&dmRoles,
		&settings.LookupDMRequired,
		&settings.LookupPMDM,
		&settings.LookupPMResult,
		&inlineRolling,
		&settings.RandcharDice,
		&settings.RandcharSets,
		&settings.RandcharNum,
		&settings.RandcharStraight,
		&statNames,
		&settings.RandcharMin,
		&settings.RandcharMax,
		&rules,
		&settings.ShowCampaignCTA,
		&settings.NLPOptIn,
	)
	if err != nil {
		return nil, err
	}

	settings.InlineRolling = models.InlineRollingMode(inlineRolling)

	if dmRoles != nil {
		if err := json.Unmarshal(dmRoles, &settings.DMRoleIDs); err != nil {
			return nil, fmt.Errorf("failed to decode dm_role_ids for guild %d: %w", settings.GuildID, err)
		}
	}
	if err := json.Unmarshal(statNames, &settings.RandcharStatNames); err != nil {
		return nil, fmt.Errorf("failed to decode randchar_stat_names for guild %d: %w", settings.GuildID, err)
	}
	if err := json.Unmarshal(rules, &settings.RandcharRules); err != nil {
		return nil, fmt.Errorf("failed to decode randchar_rules for guild %d: %w", settings.GuildID, err)
	}

	return &settings, nil
}

// marshalSettingsJSON encodes the JSONB columns. A nil DM role list is stored
// as SQL NULL so "use default role names" is distinguishable from "no roles".
func marshalSettingsJSON(settings *models.ServerSettings) (dmRoles, statNames, rules []byte, err error) {
	if settings.DMRoleIDs != nil {
		dmRoles, err = json.Marshal(settings.DMRoleIDs)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to encode dm_role_ids: %w", err)
		}
	}

	names := settings.RandcharStatNames
	if names == nil {
		names = []string{}
	}
	statNames, err = json.Marshal(names)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode randchar_stat_names: %w", err)
	}

	ruleList := settings.RandcharRules
	if ruleList == nil {
		ruleList = []models.RandcharRule{}
	}
	rules, err = json.Marshal(ruleList)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode randchar_rules: %w", err)
	}

	return dmRoles, statNames, rules, nil
}
