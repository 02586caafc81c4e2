package repository

import (
	"context"
	"fmt"

	"dicekeeper/database"
	"dicekeeper/models"

	"github.com/jackc/pgx/v5"
)

// LinkedAccountRepository looks up the external account linked to a Discord user
type LinkedAccountRepository struct {
	db *database.DB
}

// NewLinkedAccountRepository creates a new linked account repository
func NewLinkedAccountRepository(db *database.DB) *LinkedAccountRepository {
	return &LinkedAccountRepository{db: db}
}

// GetByDiscordID returns the linked account for a Discord user, or nil if the
// user has not linked their account
func (r *LinkedAccountRepository) GetByDiscordID(ctx context.Context, discordID int64) (*models.LinkedAccount, error) {
	query := `
		SELECT discord_id, account_id, username, linked_at
		FROM linked_accounts
		WHERE discord_id = $1
	`

	var account models.LinkedAccount
	err := r.db.QueryRow(ctx, query, discordID).Scan(
		&account.DiscordID,
		&account.AccountID,
		&account.Username,
		&account.LinkedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get linked account for user %d: %w", discordID, err)
	}

	return &account, nil
}

// Upsert creates or replaces the account link for a Discord user
func (r *LinkedAccountRepository) Upsert(ctx context.Context, account *models.LinkedAccount) error {
	query := `
		INSERT INTO linked_accounts (discord_id, account_id, username)
		VALUES ($1, $2, $3)
		ON CONFLICT (discord_id) DO UPDATE
		SET account_id = EXCLUDED.account_id,
		    username = EXCLUDED.username,
		    linked_at = NOW()
	`

	if _, err := r.db.Exec(ctx, query, account.DiscordID, account.AccountID, account.Username); err != nil {
		return fmt.Errorf("failed to upsert linked account for user %d: %w", account.DiscordID, err)
	}

	return nil
}

// Delete removes the account link for a Discord user
func (r *LinkedAccountRepository) Delete(ctx context.Context, discordID int64) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM linked_accounts WHERE discord_id = $1`, discordID); err != nil {
		return fmt.Errorf("failed to delete linked account for user %d: %w", discordID, err)
	}
	return nil
}
