package models

import "time"

// LinkedAccount associates a Discord user with their external tabletop account.
// Game log events are only processed for users with a linked account.
type LinkedAccount struct {
	DiscordID int64     `db:"discord_id"`
	AccountID string    `db:"account_id"`
	Username  string    `db:"username"`
	LinkedAt  time.Time `db:"linked_at"`
}
