package settings

import (
	"sort"
	"strconv"

	"dicekeeper/bot/common"
	"dicekeeper/models"

	"github.com/bwmarrin/discordgo"
)

// Component actions. The full custom id is prefix + session id + action.
const (
	actionGotoLookup   = "goto_lookup"
	actionGotoInline   = "goto_inline"
	actionGotoRandchar = "goto_randchar"
	actionGotoMisc     = "goto_misc"
	actionExit         = "exit"
	actionBack         = "back"

	actionSelectDMRoles    = "dm_roles"
	actionToggleDMRequired = "dm_required"
	actionTogglePMDM       = "pm_dm"
	actionTogglePMResult   = "pm_result"

	actionInlineDisable = "inline_disable"
	actionInlineReact   = "inline_react"
	actionInlineEnable  = "inline_enable"

	actionSetDice        = "dice"
	actionSetSets        = "sets"
	actionSetStats       = "stats"
	actionToggleStraight = "straight"
	actionSetMin         = "min"
	actionSetMax         = "max"
	actionAddRule        = "add_rule"
	actionRemoveRule     = "remove_rule"

	actionToggleCampaignCTA = "campaign_cta"
	actionToggleNLP         = "nlp_opt_in"
)

// tooManyRolesSentinel is the select option value that triggers the freeform
// text fallback when the guild has more roles than a select can hold
const tooManyRolesSentinel = "special:too_many_roles"

func (m *menuSession) button(label, action string, style discordgo.ButtonStyle) discordgo.Button {
	return discordgo.Button{
		Label:    label,
		Style:    style,
		CustomID: m.customID(action),
		Disabled: m.isDisabled(action),
	}
}

// buildRootComponents builds the root screen's navigation buttons
func buildRootComponents(sess *menuSession) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			sess.button("Lookup Settings", actionGotoLookup, discordgo.PrimaryButton),
			sess.button("Inline Rolling Settings", actionGotoInline, discordgo.PrimaryButton),
			sess.button("Randchar Settings", actionGotoRandchar, discordgo.PrimaryButton),
			sess.button("Miscellaneous Settings", actionGotoMisc, discordgo.PrimaryButton),
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			sess.button("Exit", actionExit, discordgo.DangerButton),
		}},
	}
}

// buildDMRoleSelect builds the DM role multi-select. With more roles than a
// select can hold, a single sentinel option switches to freeform input.
func buildDMRoleSelect(sess *menuSession, roles []*discordgo.Role) discordgo.SelectMenu {
	minValues := 0
	menu := discordgo.SelectMenu{
		CustomID:    sess.customID(actionSelectDMRoles),
		Placeholder: "Select DM Roles",
		MinValues:   &minValues,
		Disabled:    sess.isDisabled(actionSelectDMRoles),
	}

	if len(roles) > common.MaxSelectOptions {
		menu.MaxValues = 1
		menu.Options = []discordgo.SelectMenuOption{{
			Label: "Whoa, this server has a lot of roles! Click here to select them.",
			Value: tooManyRolesSentinel,
		}}
		return menu
	}

	// Highest role first
	sorted := make([]*discordgo.Role, len(roles))
	copy(sorted, roles)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Position > sorted[j].Position })

	selected := make(map[string]bool)
	for _, id := range sess.settings.DMRoleIDs {
		selected[strconv.FormatInt(id, 10)] = true
	}

	for _, role := range sorted {
		menu.Options = append(menu.Options, discordgo.SelectMenuOption{
			Label:   role.Name,
			Value:   role.ID,
			Default: selected[role.ID],
		})
	}
	menu.MaxValues = len(menu.Options)
	return menu
}

// buildLookupComponents builds the lookup screen's select and toggles
func buildLookupComponents(sess *menuSession, roles []*discordgo.Role) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			buildDMRoleSelect(sess, roles),
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			sess.button("Toggle Monsters Require DM", actionToggleDMRequired, discordgo.PrimaryButton),
			sess.button("Toggle Direct Message DMs", actionTogglePMDM, discordgo.PrimaryButton),
			sess.button("Toggle Direct Message Results", actionTogglePMResult, discordgo.PrimaryButton),
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			sess.button("Back", actionBack, discordgo.SecondaryButton),
		}},
	}
}

// buildInlineRollingComponents builds the mode buttons, disabling the active one
func buildInlineRollingComponents(sess *menuSession) []discordgo.MessageComponent {
	disable := sess.button("Disable", actionInlineDisable, discordgo.PrimaryButton)
	react := sess.button("React", actionInlineReact, discordgo.PrimaryButton)
	enable := sess.button("Enable", actionInlineEnable, discordgo.PrimaryButton)

	switch sess.settings.InlineRolling {
	case models.InlineRollingReaction:
		react.Disabled = true
	case models.InlineRollingEnabled:
		enable.Disabled = true
	default:
		disable.Disabled = true
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{disable, react, enable}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			sess.button("Back", actionBack, discordgo.SecondaryButton),
		}},
	}
}

// buildRemoveRuleSelect builds the rule removal select; disabled when empty
func buildRemoveRuleSelect(sess *menuSession) discordgo.SelectMenu {
	minValues := 0
	menu := discordgo.SelectMenu{
		CustomID:    sess.customID(actionRemoveRule),
		Placeholder: "Remove Rule",
		MinValues:   &minValues,
		MaxValues:   1,
	}

	rules := sess.settings.RandcharRules
	if len(rules) == 0 {
		menu.Disabled = true
		menu.Options = []discordgo.SelectMenuOption{{Label: "Empty", Value: "none"}}
		return menu
	}

	for i, rule := range rules {
		menu.Options = append(menu.Options, discordgo.SelectMenuOption{
			Label: rule.Desc(),
			Value: strconv.Itoa(i),
		})
	}
	return menu
}

// buildRandcharComponents builds the randchar screen's buttons and rule select
func buildRandcharComponents(sess *menuSession) []discordgo.MessageComponent {
	addRule := sess.button("Add Over/Under Rule", actionAddRule, discordgo.PrimaryButton)
	if len(sess.settings.RandcharRules) >= common.MaxSelectOptions {
		addRule.Disabled = true
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			sess.button("Set Dice", actionSetDice, discordgo.PrimaryButton),
			sess.button("Set Number of Sets", actionSetSets, discordgo.PrimaryButton),
			sess.button("Set Number of Stats", actionSetStats, discordgo.PrimaryButton),
			sess.button("Toggle Assign Stats", actionToggleStraight, discordgo.PrimaryButton),
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			sess.button("Set Minimum", actionSetMin, discordgo.PrimaryButton),
			sess.button("Set Maximum", actionSetMax, discordgo.PrimaryButton),
			addRule,
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			buildRemoveRuleSelect(sess),
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			sess.button("Back", actionBack, discordgo.SecondaryButton),
		}},
	}
}

// buildMiscellaneousComponents builds the misc screen's toggles. The NLP
// toggle is omitted when the flag is off for the invoker.
func buildMiscellaneousComponents(sess *menuSession, showNLP bool) []discordgo.MessageComponent {
	toggles := []discordgo.MessageComponent{
		sess.button("Toggle Campaign Message", actionToggleCampaignCTA, discordgo.PrimaryButton),
	}
	if showNLP {
		toggles = append(toggles, sess.button("Toggle NLP Opt In", actionToggleNLP, discordgo.PrimaryButton))
	}

	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: toggles},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			sess.button("Back", actionBack, discordgo.SecondaryButton),
		}},
	}
}
