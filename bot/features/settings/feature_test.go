package settings

import (
	"context"
	"sync"
	"testing"
	"time"

	"dicekeeper/bot/common"
	"dicekeeper/featureflags"
	"dicekeeper/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingMessenger captures the Discord calls the menu makes
type recordingMessenger struct {
	mu        sync.Mutex
	responses int
	followUps []string
	edits     []*discordgo.MessageEdit
	deletes   []string
}

func (r *recordingMessenger) InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.responses++
	return nil
}

func (r *recordingMessenger) FollowupMessageCreate(interaction *discordgo.Interaction, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.followUps = append(r.followUps, data.Content)
	return &discordgo.Message{ID: "followup"}, nil
}

func (r *recordingMessenger) ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edits = append(r.edits, m)
	return nil, nil
}

func (r *recordingMessenger) ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletes = append(r.deletes, messageID)
	return nil
}

func (r *recordingMessenger) Guild(guildID string, options ...discordgo.RequestOption) (*discordgo.Guild, error) {
	return &discordgo.Guild{
		ID:    guildID,
		Name:  "Test Guild",
		Roles: []*discordgo.Role{{ID: "7", Name: "Dungeon Master", Position: 1}},
	}, nil
}

func (r *recordingMessenger) lastFollowUp() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.followUps) == 0 {
		return ""
	}
	return r.followUps[len(r.followUps)-1]
}

func (r *recordingMessenger) editCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.edits)
}

func (r *recordingMessenger) lastEdit() *discordgo.MessageEdit {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.edits) == 0 {
		return nil
	}
	return r.edits[len(r.edits)-1]
}

// fakeSettingsService counts commits without touching a database
type fakeSettingsService struct {
	mu      sync.Mutex
	commits int
	err     error
}

func (s *fakeSettingsService) GetOrCreateSettings(ctx context.Context, guildID int64) (*models.ServerSettings, error) {
	return models.NewServerSettings(guildID), nil
}

func (s *fakeSettingsService) Commit(ctx context.Context, settings *models.ServerSettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commits++
	return s.err
}

func (s *fakeSettingsService) commitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

func newTestFeature(t *testing.T) (*Feature, *recordingMessenger, *fakeSettingsService, *menuSession) {
	t.Helper()

	discord := &recordingMessenger{}
	svc := &fakeSettingsService{}
	f := New(discord, svc, &featureflags.StaticClient{}, common.NewMessageCollector())
	t.Cleanup(f.Close)

	sess := f.sessions.create("42", "1000", "2000", models.NewServerSettings(1000))
	sess.mu.Lock()
	sess.messageID = "3000"
	sess.mu.Unlock()
	return f, discord, svc, sess
}

func componentInteraction() *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Type:      discordgo.InteractionMessageComponent,
		ChannelID: "2000",
	}}
}

func ownerMessage(content string) *discordgo.Message {
	return &discordgo.Message{
		ID:        "m1",
		ChannelID: "2000",
		Content:   content,
		Author:    &discordgo.User{ID: "42"},
	}
}

func TestCollectInputTimeoutLeavesSettingsUntouched(t *testing.T) {
	f, discord, svc, sess := newTestFeature(t)
	f.inputTimeout = 50 * time.Millisecond

	f.collectDice(componentInteraction(), sess)

	assert.False(t, sess.isDisabled(actionSetDice), "trigger re-enabled after timeout")
	assert.Equal(t, "4d6kh3", sess.settings.RandcharDice)
	assert.Equal(t, 0, svc.commitCount())
	assert.Contains(t, discord.lastFollowUp(), "No valid dice found")
	assert.NotZero(t, discord.editCount(), "menu re-rendered after the flow")
}

func TestCollectInputRejectsInvalidReply(t *testing.T) {
	f, discord, svc, sess := newTestFeature(t)
	f.inputTimeout = time.Second

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.collectDice(componentInteraction(), sess)
	}()

	msg := ownerMessage("hello there")
	require.Eventually(t, func() bool { return f.collector.Dispatch(msg) }, time.Second, 5*time.Millisecond)
	<-done

	assert.False(t, sess.isDisabled(actionSetDice))
	assert.Equal(t, "4d6kh3", sess.settings.RandcharDice)
	assert.Equal(t, 0, svc.commitCount())
	assert.Contains(t, discord.lastFollowUp(), "No valid dice found")
}

func TestCollectInputAppliesValidReply(t *testing.T) {
	f, discord, svc, sess := newTestFeature(t)
	f.inputTimeout = time.Second

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.collectDice(componentInteraction(), sess)
	}()

	msg := ownerMessage("3d6")
	require.Eventually(t, func() bool { return f.collector.Dispatch(msg) }, time.Second, 5*time.Millisecond)
	<-done

	assert.False(t, sess.isDisabled(actionSetDice))
	assert.Equal(t, "3d6", sess.settings.RandcharDice)
	assert.Equal(t, 1, svc.commitCount())
	assert.Contains(t, discord.lastFollowUp(), "Your dice have been updated")
}

func TestTogglesDuringInputWaitStaySerialized(t *testing.T) {
	f, _, svc, sess := newTestFeature(t)
	f.inputTimeout = time.Second

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.collectDice(componentInteraction(), sess)
	}()

	// Other controls stay clickable while the flow awaits input; their
	// mutations must not interleave with the flow's apply step
	var wg sync.WaitGroup
	for n := 0; n < 20; n++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f.handleAction(componentInteraction(), sess, actionToggleDMRequired, nil)
		}()
	}
	wg.Wait()

	msg := ownerMessage("3d6")
	require.Eventually(t, func() bool { return f.collector.Dispatch(msg) }, time.Second, 5*time.Millisecond)
	<-done

	assert.Equal(t, "3d6", sess.settings.RandcharDice)
	assert.True(t, sess.settings.LookupDMRequired, "even number of flips lands on the default")
	assert.Equal(t, 21, svc.commitCount())
}

func TestExpiredSessionReleasesMenu(t *testing.T) {
	f, discord, _, sess := newTestFeature(t)

	sess.mu.Lock()
	sess.channelID = "2000"
	sess.lastActive = time.Now().Add(-sessionTimeout - time.Minute)
	sess.mu.Unlock()

	require.Nil(t, f.sessions.get(sess.id), "idle session no longer serves interactions")

	f.expireSessions()

	require.Equal(t, 1, discord.editCount())
	edit := discord.lastEdit()
	assert.Equal(t, "3000", edit.ID)
	assert.Equal(t, "2000", edit.Channel)
	require.NotNil(t, edit.Components)
	assert.Empty(t, *edit.Components, "components stripped so the menu goes inert")

	assert.Nil(t, f.sessions.get(sess.id))
}
