package settings

import (
	"context"
	"strconv"
	"time"

	"dicekeeper/bot/common"
	"dicekeeper/featureflags"
	"dicekeeper/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature flags gating menu sub-elements
const (
	flagInlineRolling = "dice.inline-rolling.enabled"
	flagNLPTraining   = "initiative.nlp-training.enabled"
)

// Messenger is the slice of the Discord session the menu needs.
// Satisfied by *discordgo.Session.
type Messenger interface {
	common.Sender
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error)
}

// Feature implements the /serversettings menu
type Feature struct {
	discord         Messenger
	settingsService service.ServerSettingsService
	flags           featureflags.Client
	collector       *common.MessageCollector
	sessions        *sessionRegistry
	inputTimeout    time.Duration
	done            chan struct{}
}

// New creates the server settings feature
func New(discord Messenger, settingsService service.ServerSettingsService, flags featureflags.Client, collector *common.MessageCollector) *Feature {
	f := &Feature{
		discord:         discord,
		settingsService: settingsService,
		flags:           flags,
		collector:       collector,
		sessions:        newSessionRegistry(),
		inputTimeout:    inputTimeout,
		done:            make(chan struct{}),
	}

	go f.runSessionCleanup()

	return f
}

// Close stops the session cleanup loop
func (f *Feature) Close() {
	close(f.done)
}

// runSessionCleanup periodically closes menus idle past the session timeout
func (f *Feature) runSessionCleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			f.expireSessions()
		case <-f.done:
			return
		}
	}
}

// expireSessions drops idle sessions and strips their menu components, so an
// abandoned menu goes inert instead of answering every click with an expiry
// error
func (f *Feature) expireSessions() {
	for _, sess := range f.sessions.takeExpired() {
		f.releaseMenu(sess)
	}
}

// releaseMenu removes the components from a closed session's menu message
func (f *Feature) releaseMenu(sess *menuSession) {
	channelID, messageID := sess.location()
	if messageID == "" {
		return
	}
	embed, _, err := f.render(sess)
	if err != nil {
		log.Errorf("Failed to render settings menu on expiry: %v", err)
		return
	}
	if err := common.EditMessage(f.discord, channelID, messageID, embed, []discordgo.MessageComponent{}); err != nil {
		log.Errorf("Failed to release settings menu %s: %v", messageID, err)
	}
}

// HandleCommand handles the /serversettings command by opening a new menu
func (f *Feature) HandleCommand(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" || i.Member == nil {
		common.RespondWithError(s, i, "This command can only be used in a server.")
		return
	}
	if !common.IsUserAdmin(s, i.GuildID, i.Member.User.ID) {
		common.RespondWithError(s, i, "You need administrator permissions to change server settings.")
		return
	}

	guildID, err := strconv.ParseInt(i.GuildID, 10, 64)
	if err != nil {
		log.Errorf("Failed to parse guild ID %s: %v", i.GuildID, err)
		common.RespondWithError(s, i, "Failed to open server settings.")
		return
	}

	ctx := context.Background()
	guildSettings, err := f.settingsService.GetOrCreateSettings(ctx, guildID)
	if err != nil {
		log.Errorf("Failed to load settings for guild %d: %v", guildID, err)
		common.RespondWithError(s, i, "Failed to load server settings. Please try again.")
		return
	}

	sess := f.sessions.create(i.Member.User.ID, i.GuildID, i.ChannelID, guildSettings)

	embed, components, err := f.render(sess)
	if err != nil {
		log.Errorf("Failed to render settings menu: %v", err)
		f.sessions.remove(sess.id)
		common.RespondWithError(s, i, "Failed to open server settings.")
		return
	}

	if err := common.RespondWithEmbed(s, i, embed, components, false); err != nil {
		log.Errorf("Failed to respond with settings menu: %v", err)
		f.sessions.remove(sess.id)
		return
	}

	// Remember the menu message so freeform flows can re-render it later
	if msg, err := s.InteractionResponse(i.Interaction); err == nil {
		sess.mu.Lock()
		sess.messageID = msg.ID
		sess.mu.Unlock()
	}
}

// HandleInteraction routes component interactions on open menus
func (f *Feature) HandleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	data := i.MessageComponentData()
	sessionID, action, ok := parseCustomID(data.CustomID)
	if !ok {
		return
	}

	sess := f.sessions.get(sessionID)
	if sess == nil {
		common.RespondWithError(s, i, "This menu has expired. Run /serversettings to open a new one.")
		return
	}

	user := common.InteractionUser(i)
	if user == nil || user.ID != sess.ownerID {
		common.RespondWithError(s, i, "Only the user who opened this menu can use it.")
		return
	}

	sess.touch()
	if i.Message != nil {
		sess.mu.Lock()
		sess.messageID = i.Message.ID
		sess.channelID = i.ChannelID
		sess.mu.Unlock()
	}

	f.handleAction(i, sess, action, data.Values)
}

// guildInfo returns the guild's name and role list, preferring the state
// cache when a live session is behind the messenger
func (f *Feature) guildInfo(guildID string) (string, []*discordgo.Role, error) {
	if s, ok := f.discord.(*discordgo.Session); ok {
		if guild, err := s.State.Guild(guildID); err == nil && len(guild.Roles) > 0 {
			return guild.Name, guild.Roles, nil
		}
	}
	guild, err := f.discord.Guild(guildID)
	if err != nil {
		return "", nil, err
	}
	return guild.Name, guild.Roles, nil
}

// showNLPToggle evaluates the NLP training flag for the menu owner
func (f *Feature) showNLPToggle(sess *menuSession) bool {
	return f.flags.IsEnabled(flagNLPTraining, featureflags.Subject{ID: sess.ownerID}, false)
}

// inlineDesc renders the inline rolling status line, honoring the global flag
func (f *Feature) inlineDesc(sess *menuSession) string {
	globallyEnabled := f.flags.IsEnabled(flagInlineRolling, featureflags.Subject{ID: sess.ownerID}, false)
	return inlineRollingDesc(sess.settings.InlineRolling, globallyEnabled)
}

// render builds the embed and components for the session's current screen.
// The document lock is held while building so a concurrent freeform flow
// cannot mutate the settings mid-read.
func (f *Feature) render(sess *menuSession) (*discordgo.MessageEmbed, []discordgo.MessageComponent, error) {
	guildName, roles, err := f.guildInfo(sess.guildID)
	if err != nil {
		return nil, nil, err
	}

	sess.docMu.Lock()
	defer sess.docMu.Unlock()

	switch sess.currentScreen() {
	case screenLookup:
		return buildLookupEmbed(guildName, sess.settings), buildLookupComponents(sess, roles), nil
	case screenInlineRolling:
		return buildInlineRollingEmbed(guildName, f.inlineDesc(sess)), buildInlineRollingComponents(sess), nil
	case screenRandchar:
		return buildRandcharEmbed(guildName, sess.settings), buildRandcharComponents(sess), nil
	case screenMiscellaneous:
		showNLP := f.showNLPToggle(sess)
		return buildMiscellaneousEmbed(guildName, sess.settings, showNLP), buildMiscellaneousComponents(sess, showNLP), nil
	default:
		return buildRootEmbed(guildName, sess.settings, f.inlineDesc(sess), f.showNLPToggle(sess)), buildRootComponents(sess), nil
	}
}

// refresh re-renders the current screen in response to a component interaction
func (f *Feature) refresh(i *discordgo.InteractionCreate, sess *menuSession) {
	embed, components, err := f.render(sess)
	if err != nil {
		log.Errorf("Failed to render settings menu: %v", err)
		return
	}
	if err := common.UpdateComponentMessage(f.discord, i, embed, components); err != nil {
		log.Errorf("Failed to update settings menu: %v", err)
	}
}

// refreshMessage re-renders the menu message directly, outside an interaction response
func (f *Feature) refreshMessage(sess *menuSession) {
	channelID, messageID := sess.location()
	if messageID == "" {
		return
	}

	embed, components, err := f.render(sess)
	if err != nil {
		log.Errorf("Failed to render settings menu: %v", err)
		return
	}
	if err := common.EditMessage(f.discord, channelID, messageID, embed, components); err != nil {
		log.Errorf("Failed to edit settings menu message: %v", err)
	}
}

// commit persists the session's settings document. Callers hold docMu.
func (f *Feature) commit(ctx context.Context, sess *menuSession) error {
	return f.settingsService.Commit(ctx, sess.settings)
}

// endSession closes the menu, stripping its components so it goes inert
func (f *Feature) endSession(i *discordgo.InteractionCreate, sess *menuSession) {
	f.sessions.remove(sess.id)

	embed, _, err := f.render(sess)
	if err != nil {
		log.Errorf("Failed to render settings menu on exit: %v", err)
		if err := common.DeferUpdate(f.discord, i); err != nil {
			log.Errorf("Failed to acknowledge exit: %v", err)
		}
		return
	}
	if err := common.UpdateComponentMessage(f.discord, i, embed, []discordgo.MessageComponent{}); err != nil {
		log.Errorf("Failed to close settings menu: %v", err)
	}
}
