package settings

import (
	"context"
	"strconv"

	"dicekeeper/bot/common"
	"dicekeeper/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// handleAction dispatches a component action on an open menu session
func (f *Feature) handleAction(i *discordgo.InteractionCreate, sess *menuSession, action string, values []string) {
	switch action {
	// Navigation
	case actionGotoLookup:
		sess.setScreen(screenLookup)
		f.refresh(i, sess)
	case actionGotoInline:
		sess.setScreen(screenInlineRolling)
		f.refresh(i, sess)
	case actionGotoRandchar:
		sess.setScreen(screenRandchar)
		f.refresh(i, sess)
	case actionGotoMisc:
		sess.setScreen(screenMiscellaneous)
		f.refresh(i, sess)
	case actionBack:
		sess.setScreen(screenRoot)
		f.refresh(i, sess)
	case actionExit:
		f.endSession(i, sess)

	// Immediate toggles
	case actionToggleDMRequired:
		f.applyToggle(i, sess, func() { sess.settings.LookupDMRequired = !sess.settings.LookupDMRequired })
	case actionTogglePMDM:
		f.applyToggle(i, sess, func() { sess.settings.LookupPMDM = !sess.settings.LookupPMDM })
	case actionTogglePMResult:
		f.applyToggle(i, sess, func() { sess.settings.LookupPMResult = !sess.settings.LookupPMResult })
	case actionToggleCampaignCTA:
		f.applyToggle(i, sess, func() { sess.settings.ShowCampaignCTA = !sess.settings.ShowCampaignCTA })
	case actionToggleNLP:
		f.applyToggle(i, sess, func() { sess.settings.NLPOptIn = !sess.settings.NLPOptIn })

	// Inline rolling mode buttons
	case actionInlineDisable:
		f.applyToggle(i, sess, func() { sess.settings.InlineRolling = models.InlineRollingDisabled })
	case actionInlineReact:
		f.applyToggle(i, sess, func() { sess.settings.InlineRolling = models.InlineRollingReaction })
	case actionInlineEnable:
		f.applyToggle(i, sess, func() { sess.settings.InlineRolling = models.InlineRollingEnabled })

	// Selects
	case actionSelectDMRoles:
		f.handleDMRoleSelect(i, sess, values)
	case actionRemoveRule:
		f.handleRemoveRule(i, sess, values)

	// Freeform input flows
	case actionSetDice:
		f.collectDice(i, sess)
	case actionSetSets:
		f.collectSets(i, sess)
	case actionSetStats:
		f.collectNumStats(i, sess)
	case actionToggleStraight:
		f.handleToggleStraight(i, sess)
	case actionSetMin:
		f.collectMinimum(i, sess)
	case actionSetMax:
		f.collectMaximum(i, sess)
	case actionAddRule:
		f.collectRule(i, sess)

	default:
		log.Warnf("Unknown settings menu action %q", action)
	}
}

// applyToggle mutates a field under the document lock, persists the document,
// and re-renders
func (f *Feature) applyToggle(i *discordgo.InteractionCreate, sess *menuSession, mutate func()) {
	sess.docMu.Lock()
	mutate()
	err := f.commit(context.Background(), sess)
	sess.docMu.Unlock()
	if err != nil {
		log.Errorf("Failed to commit settings for guild %s: %v", sess.guildID, err)
		f.sessions.remove(sess.id)
		common.RespondWithError(f.discord, i, "Failed to save server settings. Run /serversettings to try again.")
		return
	}
	f.refresh(i, sess)
}

// handleDMRoleSelect applies a DM role selection. The sentinel option
// switches to the freeform text flow instead.
func (f *Feature) handleDMRoleSelect(i *discordgo.InteractionCreate, sess *menuSession, values []string) {
	if len(values) == 1 && values[0] == tooManyRolesSentinel {
		f.collectDMRoles(i, sess)
		return
	}

	var roleIDs []int64
	for _, value := range values {
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			log.Warnf("Ignoring non-numeric role value %q", value)
			continue
		}
		roleIDs = append(roleIDs, id)
	}

	// Empty selection resets to the default role name matching
	f.applyToggle(i, sess, func() { sess.settings.DMRoleIDs = roleIDs })
}

// handleRemoveRule removes the selected over/under rule
func (f *Feature) handleRemoveRule(i *discordgo.InteractionCreate, sess *menuSession, values []string) {
	if len(values) == 0 {
		f.refresh(i, sess)
		return
	}
	index, err := strconv.Atoi(values[0])
	if err != nil {
		f.refresh(i, sess)
		return
	}
	f.applyToggle(i, sess, func() { sess.settings.RemoveRule(index) })
}
