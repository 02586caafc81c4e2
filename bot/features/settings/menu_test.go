package settings

import (
	"fmt"
	"testing"

	"dicekeeper/bot/common"
	"dicekeeper/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession(t *testing.T) *menuSession {
	t.Helper()
	registry := newSessionRegistry()
	return registry.create("42", "1000", "2000", models.NewServerSettings(1000))
}

func TestRenderIdempotence(t *testing.T) {
	sess := testSession(t)
	sess.settings.DMRoleIDs = []int64{5, 6}
	sess.settings.AddRule(models.RandcharRule{Kind: models.RuleUnder, Amount: 2, Value: 10})

	first := buildRootEmbed("Test Guild", sess.settings, inlineRollingDesc(sess.settings.InlineRolling, true), true)
	second := buildRootEmbed("Test Guild", sess.settings, inlineRollingDesc(sess.settings.InlineRolling, true), true)
	assert.Equal(t, first, second)

	firstRand := buildRandcharEmbed("Test Guild", sess.settings)
	secondRand := buildRandcharEmbed("Test Guild", sess.settings)
	assert.Equal(t, firstRand, secondRand)
}

func TestRootEmbedSummaries(t *testing.T) {
	sess := testSession(t)

	embed := buildRootEmbed("Test Guild", sess.settings, inlineRollingDesc(sess.settings.InlineRolling, true), false)
	assert.Equal(t, "Server Settings for Test Guild", embed.Title)
	require.Len(t, embed.Fields, 4)

	// Default DM roles shown as role names, not mentions
	assert.Contains(t, embed.Fields[0].Value, "Dungeon Master, DM, Game Master, or GM")
	assert.Contains(t, embed.Fields[2].Value, "**Dice**: 4d6kh3")
	assert.Contains(t, embed.Fields[2].Value, "**Over/Under Rules**: None")
	// NLP line omitted when the flag is off
	assert.NotContains(t, embed.Fields[3].Value, "NLP")

	sess.settings.DMRoleIDs = []int64{5}
	sess.settings.AddRule(models.RandcharRule{Kind: models.RuleUnder, Amount: 2, Value: 10})
	embed = buildRootEmbed("Test Guild", sess.settings, inlineRollingDesc(sess.settings.InlineRolling, true), true)
	assert.Contains(t, embed.Fields[0].Value, "<@&5>")
	assert.Contains(t, embed.Fields[2].Value, "At least 2 under 10")
	assert.Contains(t, embed.Fields[3].Value, "NLP Training")
}

func TestInlineRollingDesc(t *testing.T) {
	assert.Contains(t, inlineRollingDesc(models.InlineRollingDisabled, false), "globally disabled")
	assert.Contains(t, inlineRollingDesc(models.InlineRollingEnabled, false), "globally disabled")
	assert.Contains(t, inlineRollingDesc(models.InlineRollingDisabled, true), "**disabled**")
	assert.Contains(t, inlineRollingDesc(models.InlineRollingReaction, true), "**react**")
	assert.Contains(t, inlineRollingDesc(models.InlineRollingEnabled, true), "**enabled**")
}

func TestInlineRollingComponentsDisableActiveMode(t *testing.T) {
	sess := testSession(t)
	sess.settings.InlineRolling = models.InlineRollingReaction

	rows := buildInlineRollingComponents(sess)
	require.Len(t, rows, 2)
	buttons := rows[0].(discordgo.ActionsRow).Components

	assert.False(t, buttons[0].(discordgo.Button).Disabled)
	assert.True(t, buttons[1].(discordgo.Button).Disabled)
	assert.False(t, buttons[2].(discordgo.Button).Disabled)
}

func TestDMRoleSelectFallsBackWithManyRoles(t *testing.T) {
	sess := testSession(t)

	var roles []*discordgo.Role
	for n := 0; n < 30; n++ {
		roles = append(roles, &discordgo.Role{ID: fmt.Sprint(n), Name: fmt.Sprintf("Role %d", n), Position: n})
	}

	menu := buildDMRoleSelect(sess, roles)
	require.Len(t, menu.Options, 1)
	assert.Equal(t, tooManyRolesSentinel, menu.Options[0].Value)
}

func TestDMRoleSelectMarksSelectedHighestFirst(t *testing.T) {
	sess := testSession(t)
	sess.settings.DMRoleIDs = []int64{2}

	roles := []*discordgo.Role{
		{ID: "1", Name: "Low", Position: 1},
		{ID: "3", Name: "High", Position: 3},
		{ID: "2", Name: "Mid", Position: 2},
	}

	menu := buildDMRoleSelect(sess, roles)
	require.Len(t, menu.Options, 3)
	assert.Equal(t, "High", menu.Options[0].Label)
	assert.Equal(t, "Mid", menu.Options[1].Label)
	assert.True(t, menu.Options[1].Default)
	assert.Equal(t, "Low", menu.Options[2].Label)
	assert.Equal(t, 3, menu.MaxValues)
}

func TestRemoveRuleSelect(t *testing.T) {
	sess := testSession(t)

	menu := buildRemoveRuleSelect(sess)
	assert.True(t, menu.Disabled)

	sess.settings.AddRule(models.RandcharRule{Kind: models.RuleOver, Amount: 1, Value: 15})
	menu = buildRemoveRuleSelect(sess)
	assert.False(t, menu.Disabled)
	require.Len(t, menu.Options, 1)
	assert.Equal(t, "1 over 15", menu.Options[0].Label)
	assert.Equal(t, "0", menu.Options[0].Value)
}

func TestAddRuleDisabledAtSelectLimit(t *testing.T) {
	sess := testSession(t)
	for n := 0; n < common.MaxSelectOptions; n++ {
		sess.settings.AddRule(models.RandcharRule{Kind: models.RuleOver, Amount: 1, Value: n})
	}

	rows := buildRandcharComponents(sess)
	addRule := rows[1].(discordgo.ActionsRow).Components[2].(discordgo.Button)
	assert.Equal(t, "Add Over/Under Rule", addRule.Label)
	assert.True(t, addRule.Disabled)
}

func TestCustomIDRoundTrip(t *testing.T) {
	sess := testSession(t)

	id := sess.customID(actionSelectDMRoles)
	sessionID, action, ok := parseCustomID(id)
	require.True(t, ok)
	assert.Equal(t, sess.id, sessionID)
	assert.Equal(t, actionSelectDMRoles, action)

	_, _, ok = parseCustomID("bet_odds_50")
	assert.False(t, ok)
	_, _, ok = parseCustomID("plain")
	assert.False(t, ok)
}

func TestSessionRegistry(t *testing.T) {
	registry := newSessionRegistry()
	sess := registry.create("42", "1000", "2000", models.NewServerSettings(1000))

	assert.Same(t, sess, registry.get(sess.id))
	assert.Nil(t, registry.get("unknown"))

	registry.remove(sess.id)
	assert.Nil(t, registry.get(sess.id))
}

func TestSessionDisabledActions(t *testing.T) {
	sess := testSession(t)

	assert.False(t, sess.isDisabled(actionSetDice))
	sess.disable(actionSetDice)
	assert.True(t, sess.isDisabled(actionSetDice))
	assert.True(t, sess.button("Set Dice", actionSetDice, discordgo.PrimaryButton).Disabled)

	sess.enable(actionSetDice)
	assert.False(t, sess.isDisabled(actionSetDice))
}
