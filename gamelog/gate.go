package gamelog

import (
	"context"
	"strconv"

	"dicekeeper/featureflags"
	"dicekeeper/models"

	log "github.com/sirupsen/logrus"
)

// AccountResolver looks up the external account linked to a Discord user.
// Satisfied by repository.LinkedAccountRepository.
type AccountResolver interface {
	GetByDiscordID(ctx context.Context, discordID int64) (*models.LinkedAccount, error)
}

// Gate wraps game log handlers behind remote feature flags.
//
// Flags are evaluated against the linked account id only, with the Discord id
// as a secondary property; the full user profile is never loaded. Targeting
// is therefore limited to global rollout percentage or explicit account id
// overrides - attribute rules that need profile data always see the global
// value. This is a known limitation.
type Gate struct {
	resolver AccountResolver
	flags    featureflags.Client
}

// NewGate creates a feature gate over the given resolver and flag client
func NewGate(resolver AccountResolver, flags featureflags.Client) *Gate {
	return &Gate{
		resolver: resolver,
		flags:    flags,
	}
}

// Require returns a handler that runs next only when the flag evaluates true
// for the event's linked account. Unlinked users, disabled flags, and lookup
// failures all drop the event silently - never an error.
func (g *Gate) Require(flagKey string, next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, evt *EventContext) error {
		// The link lookup is cheap; loading the full external profile is
		// slow and unnecessary for flag evaluation, so we stop here.
		account, err := g.resolver.GetByDiscordID(ctx, evt.UserID)
		if err != nil {
			log.WithError(err).WithField("user_id", evt.UserID).
				Warn("Failed to resolve linked account, dropping event")
			return IgnoreEvent("account lookup failed for user %d", evt.UserID)
		}
		if account == nil {
			return IgnoreEvent("user %d has not linked their account", evt.UserID)
		}

		enabled := g.flags.IsEnabled(flagKey, featureflags.Subject{
			ID: account.AccountID,
			Properties: map[string]string{
				"discord_id": strconv.FormatInt(evt.UserID, 10),
			},
		}, false)
		if !enabled {
			return IgnoreEvent("flag %q is disabled for account %s", flagKey, account.AccountID)
		}

		return next(ctx, evt)
	}
}
