package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"dicekeeper/bot/common"
	"dicekeeper/bot/features/settings"
	"dicekeeper/featureflags"
	"dicekeeper/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token string
}

type Bot struct {
	config          Config
	session         *discordgo.Session
	settingsService service.ServerSettingsService
	collector       *common.MessageCollector
	settingsFeature *settings.Feature
}

func New(config Config, settingsService service.ServerSettingsService, flags featureflags.Client) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsAll

	collector := common.NewMessageCollector()

	bot := &Bot{
		config:          config,
		session:         dg,
		settingsService: settingsService,
		collector:       collector,
		settingsFeature: settings.New(dg, settingsService, flags, collector),
	}

	dg.AddHandler(bot.handleCommands)
	dg.AddHandler(bot.handleComponentInteractions)
	dg.AddHandler(bot.handleMessageCreate)
	dg.AddHandler(bot.handleGuildCreate)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	// Register slash commands with Discord
	if err := bot.registerCommands(); err != nil {
		dg.Close()
		return nil, fmt.Errorf("error registering commands: %w", err)
	}

	return bot, nil
}

func (b *Bot) Close() error {
	b.settingsFeature.Close()
	return b.session.Close()
}

// Session exposes the underlying Discord session for other subsystems
func (b *Bot) Session() *discordgo.Session {
	return b.session
}

func (b *Bot) handleCommands(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	switch i.ApplicationCommandData().Name {
	case "serversettings":
		b.settingsFeature.HandleCommand(s, i)
	}
}

// handleComponentInteractions routes component interactions by custom id prefix
func (b *Bot) handleComponentInteractions(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	customID := i.MessageComponentData().CustomID
	if strings.HasPrefix(customID, "srvset_") {
		b.settingsFeature.HandleInteraction(s, i)
	}
}

// handleMessageCreate feeds channel messages to any pending freeform input wait
func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == s.State.User.ID || m.Author.Bot {
		return
	}
	b.collector.Dispatch(m.Message)
}

// handleGuildCreate seeds the settings document when the bot joins a guild
func (b *Bot) handleGuildCreate(_ *discordgo.Session, g *discordgo.GuildCreate) {
	guildID, err := strconv.ParseInt(g.ID, 10, 64)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", g.ID, err)
		return
	}

	if _, err := b.settingsService.GetOrCreateSettings(context.Background(), guildID); err != nil {
		log.Errorf("Failed to seed settings for guild %d: %v", guildID, err)
		return
	}
	log.Infof("Settings ready for guild %s (%s)", g.Name, g.ID)
}
