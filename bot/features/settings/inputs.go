package settings

import (
	"context"
	"strings"
	"time"

	"dicekeeper/bot/common"
	"dicekeeper/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// inputTimeout bounds how long a freeform prompt waits for the user's reply
const inputTimeout = 60 * time.Second

// inputFlow describes one freeform text collection: which control it locks,
// what to ask, and how to apply a reply to the settings document
type inputFlow struct {
	action  string
	prompt  string
	failure string // shown on timeout or invalid input
	success string
	apply   func(content string) error
}

// collectInput runs a freeform flow: disable the trigger, prompt, wait for
// the owner's next message in the channel, apply, persist, and report.
// The trigger is re-enabled and the menu re-rendered on every exit path.
// Apply and commit run under the document lock so toggles clicked during the
// wait cannot interleave with them.
//
// Interaction handlers run on their own goroutine, so blocking on the wait
// here does not stall event dispatch.
func (f *Feature) collectInput(i *discordgo.InteractionCreate, sess *menuSession, flow inputFlow) {
	sess.disable(flow.action)
	f.refresh(i, sess)
	if err := common.FollowUpEphemeral(f.discord, i, flow.prompt); err != nil {
		log.Errorf("Failed to send input prompt: %v", err)
	}

	defer func() {
		sess.enable(flow.action)
		f.refreshMessage(sess)
	}()

	channelID, _ := sess.location()
	msg, err := f.collector.Await(context.Background(), channelID, sess.ownerID, f.inputTimeout)
	if err != nil {
		f.followUp(i, flow.failure)
		return
	}
	f.deleteInputMessage(msg)

	sess.docMu.Lock()
	applyErr := flow.apply(msg.Content)
	var commitErr error
	if applyErr == nil {
		commitErr = f.commit(context.Background(), sess)
	}
	sess.docMu.Unlock()

	if applyErr != nil {
		log.Debugf("Rejected settings input %q: %v", msg.Content, applyErr)
		f.followUp(i, flow.failure)
		return
	}
	if commitErr != nil {
		f.abortSession(i, sess, commitErr)
		return
	}
	f.followUp(i, flow.success)
}

func (f *Feature) followUp(i *discordgo.InteractionCreate, content string) {
	if err := common.FollowUpEphemeral(f.discord, i, content); err != nil {
		log.Errorf("Failed to send follow-up: %v", err)
	}
}

// deleteInputMessage removes the user's reply from the channel, best effort
func (f *Feature) deleteInputMessage(msg *discordgo.Message) {
	if err := f.discord.ChannelMessageDelete(msg.ChannelID, msg.ID); err != nil {
		log.Debugf("Failed to delete input message %s: %v", msg.ID, err)
	}
}

// abortSession ends the session after a persistence failure
func (f *Feature) abortSession(i *discordgo.InteractionCreate, sess *menuSession, err error) {
	log.Errorf("Failed to commit settings for guild %s: %v", sess.guildID, err)
	f.sessions.remove(sess.id)
	common.FollowUpWithError(f.discord, i, "Failed to save server settings. Run /serversettings to try again.")
}

func (f *Feature) collectDice(i *discordgo.InteractionCreate, sess *menuSession) {
	f.collectInput(i, sess, inputFlow{
		action:  actionSetDice,
		prompt:  "Choose a new dice string to roll by sending a message in this channel.",
		failure: "No valid dice found. Press `Set Dice` to try again.",
		success: "Your dice have been updated.",
		apply: func(content string) error {
			expr, err := ValidateDice(content)
			if err != nil {
				return err
			}
			sess.settings.RandcharDice = expr
			return nil
		},
	})
}

func (f *Feature) collectSets(i *discordgo.InteractionCreate, sess *menuSession) {
	f.collectInput(i, sess, inputFlow{
		action:  actionSetSets,
		prompt:  "Choose a new number of sets to roll by sending a message in this channel.",
		failure: "No valid number of sets found. Press `Set Number of Sets` to try again.",
		success: "Your number of sets has been updated.",
		apply: func(content string) error {
			n, err := ParseBoundedInt(content, models.MinRandcharSets, models.MaxRandcharSets)
			if err != nil {
				return err
			}
			sess.settings.RandcharSets = n
			return nil
		},
	})
}

func (f *Feature) collectNumStats(i *discordgo.InteractionCreate, sess *menuSession) {
	f.collectInput(i, sess, inputFlow{
		action:  actionSetStats,
		prompt:  "Choose a new number of stats to roll by sending a message in this channel.",
		failure: "No valid number of stats found. Press `Set Number of Stats` to try again.",
		success: "Your number of stats has been updated.",
		apply: func(content string) error {
			n, err := ParseBoundedInt(content, models.MinRandcharStats, models.MaxRandcharStats)
			if err != nil {
				return err
			}
			sess.settings.SetNumStats(n)
			return nil
		},
	})
}

func (f *Feature) collectMinimum(i *discordgo.InteractionCreate, sess *menuSession) {
	f.collectInput(i, sess, inputFlow{
		action:  actionSetMin,
		prompt:  "Choose a new minimum roll total by sending a message in this channel. To reset it, respond with 'default'.",
		failure: "No valid minimum found. Press `Set Minimum` to try again.",
		success: "Your minimum score has been updated.",
		apply: func(content string) error {
			bound, err := ParseTotalBound(content)
			if err != nil {
				return err
			}
			sess.settings.RandcharMin = bound
			return nil
		},
	})
}

func (f *Feature) collectMaximum(i *discordgo.InteractionCreate, sess *menuSession) {
	f.collectInput(i, sess, inputFlow{
		action:  actionSetMax,
		prompt:  "Choose a new maximum roll total by sending a message in this channel. To reset it, respond with 'default'.",
		failure: "No valid maximum found. Press `Set Maximum` to try again.",
		success: "Your maximum score has been updated.",
		apply: func(content string) error {
			bound, err := ParseTotalBound(content)
			if err != nil {
				return err
			}
			sess.settings.RandcharMax = bound
			return nil
		},
	})
}

func (f *Feature) collectRule(i *discordgo.InteractionCreate, sess *menuSession) {
	f.collectInput(i, sess, inputFlow{
		action: actionAddRule,
		prompt: "Choose a new required over/under rule by sending a message in this channel.\n" +
			"Please use the format 'number>score' or 'number<score', for example '1>15' for at least one over 15, " +
			"or '2<10' for at least two under 10.",
		failure: "No valid over/under rule found. Press `Add Over/Under Rule` to try again.",
		success: "Your over/under rules have been updated.",
		apply: func(content string) error {
			rule, err := ParseOverUnderRule(content)
			if err != nil {
				return err
			}
			sess.settings.AddRule(rule)
			return nil
		},
	})
}

// handleToggleStraight flips direct stat assignment. Turning it on collects
// the stat names to assign; a timeout or bad input turns it back off while
// leaving any previously configured names alone.
func (f *Feature) handleToggleStraight(i *discordgo.InteractionCreate, sess *menuSession) {
	sess.docMu.Lock()
	sess.settings.RandcharStraight = !sess.settings.RandcharStraight
	turnedOn := sess.settings.RandcharStraight
	sess.docMu.Unlock()

	if !turnedOn {
		f.applyToggle(i, sess, func() {})
		return
	}

	sess.disable(actionToggleStraight)
	f.refresh(i, sess)
	f.followUp(i, "Choose the stat names to automatically assign the rolled stats to, separated by commas.\n"+
		"If you wish to use the default stats, respond with 'default'. This will only work if your number of stats is 6.")

	defer func() {
		sess.enable(actionToggleStraight)
		f.refreshMessage(sess)
	}()

	channelID, _ := sess.location()
	msg, err := f.collector.Await(context.Background(), channelID, sess.ownerID, f.inputTimeout)
	failed := err != nil
	if !failed {
		f.deleteInputMessage(msg)
	}

	sess.docMu.Lock()
	if !failed {
		names, parseErr := ParseStatNames(msg.Content, sess.settings.RandcharNum)
		if parseErr != nil {
			log.Debugf("Rejected stat names %q: %v", msg.Content, parseErr)
			failed = true
		} else {
			sess.settings.RandcharStatNames = names
		}
	}
	if failed {
		sess.settings.RandcharStraight = false
	}
	commitErr := f.commit(context.Background(), sess)
	sess.docMu.Unlock()

	if commitErr != nil {
		f.abortSession(i, sess, commitErr)
		return
	}
	if failed {
		f.followUp(i, "Invalid stat names found. Press `Toggle Assign Stats` to try again.")
	} else {
		f.followUp(i, "Your stat names have been updated.")
	}
}

// collectDMRoles is the freeform fallback when the guild has too many roles
// for a select menu
func (f *Feature) collectDMRoles(i *discordgo.InteractionCreate, sess *menuSession) {
	sess.disable(actionSelectDMRoles)
	f.refresh(i, sess)
	f.followUp(i, "Choose the DM roles by sending a message to this channel. You can mention the roles, or use a "+
		"comma-separated list of role names or IDs. Type `reset` to reset the role list to the default.")

	defer func() {
		sess.enable(actionSelectDMRoles)
		f.refreshMessage(sess)
	}()

	channelID, _ := sess.location()
	msg, err := f.collector.Await(context.Background(), channelID, sess.ownerID, f.inputTimeout)
	if err != nil {
		f.followUp(i, "No valid roles found. Use the select menu to try again.")
		return
	}
	f.deleteInputMessage(msg)

	// nil role ids means "use the default role names"
	var roleIDs []int64
	if !strings.EqualFold(strings.TrimSpace(msg.Content), "reset") {
		_, roles, err := f.guildInfo(sess.guildID)
		if err != nil {
			log.Errorf("Failed to fetch roles for guild %s: %v", sess.guildID, err)
			f.followUp(i, "No valid roles found. Use the select menu to try again.")
			return
		}
		roleIDs = ResolveRoles(msg.Content, msg.MentionRoles, roles)
		if len(roleIDs) == 0 {
			f.followUp(i, "No valid roles found. Use the select menu to try again.")
			return
		}
	}

	sess.docMu.Lock()
	sess.settings.DMRoleIDs = roleIDs
	commitErr := f.commit(context.Background(), sess)
	sess.docMu.Unlock()

	if commitErr != nil {
		f.abortSession(i, sess, commitErr)
		return
	}
	f.followUp(i, "The DM roles have been updated.")
}
