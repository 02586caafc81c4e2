package cmd

import (
	"context"
	"fmt"
	"time"

	"dicekeeper/bot"
	"dicekeeper/config"
	"dicekeeper/database"
	"dicekeeper/featureflags"
	"dicekeeper/gamelog"
	"dicekeeper/repository"
	"dicekeeper/service"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting dicekeeper bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Database connection established")

	// Initialize repositories and services
	settingsRepo := repository.NewServerSettingsRepository(db)
	linkedAccountRepo := repository.NewLinkedAccountRepository(db)
	settingsService := service.NewServerSettingsService(settingsRepo)

	// Initialize feature flag client
	flags, err := newFlagClient(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize feature flags: %w", err)
	}
	defer flags.Close()

	// Initialize Discord bot
	log.Info("Initializing Discord bot...")
	discordBot, err := bot.New(bot.Config{Token: cfg.DiscordToken}, settingsService, flags)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Info("Discord bot initialized")

	// Connect to NATS and start the game log subscriber
	log.Info("Connecting to NATS...")
	nc, err := nats.Connect(cfg.NATSServers,
		nats.Name("dicekeeper"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		discordBot.Close()
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer nc.Close()

	gate := gamelog.NewGate(linkedAccountRepo, flags)
	subscriber := gamelog.NewSubscriber(nc)
	subscriber.Handle(gamelog.EventTypeRoll,
		gate.Require(gamelog.FlagDiceRolls, gamelog.NewRollHandler(discordBot.Session()).Handle))
	subscriber.Handle(gamelog.EventTypeCharacterSync,
		gate.Require(gamelog.FlagCharacterSync, gamelog.NewCharacterUpdateHandler(discordBot.Session()).Handle))

	if err := subscriber.Start(cfg.GameLogSubject); err != nil {
		discordBot.Close()
		return fmt.Errorf("failed to start game log subscriber: %w", err)
	}

	// Wait for context cancellation
	log.Infof("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Info("Shutting down bot...")
	subscriber.Stop()

	if err := discordBot.Close(); err != nil {
		log.Errorf("Error closing Discord bot: %v", err)
	}

	log.Info("Shutdown completed")
	return nil
}

// newFlagClient picks the flag backend. Without an Unleash URL, development
// and test environments fall back to a static all-off client; production
// requires a real server.
func newFlagClient(cfg *config.Config) (featureflags.Client, error) {
	if cfg.UnleashURL == "" {
		if cfg.Environment == "production" {
			return nil, fmt.Errorf("UNLEASH_URL is required in production")
		}
		log.Warn("UNLEASH_URL not set, all feature flags evaluate to their fallback")
		return &featureflags.StaticClient{}, nil
	}
	return featureflags.NewUnleashClient(cfg.UnleashURL, cfg.UnleashAPIToken, cfg.UnleashAppName)
}
