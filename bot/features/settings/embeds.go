package settings

import (
	"fmt"
	"strconv"
	"strings"

	"dicekeeper/bot/common"
	"dicekeeper/models"

	"github.com/bwmarrin/discordgo"
)

// defaultDMRoleNames is shown when no explicit DM roles are configured;
// users with a role named one of these count as DMs.
const defaultDMRoleNames = "Dungeon Master, DM, Game Master, or GM"

// dmRolesSummary renders the configured DM roles, or the default name list
func dmRolesSummary(settings *models.ServerSettings) string {
	if !settings.HasDMRoles() {
		return defaultDMRoleNames
	}
	return common.NaturalJoin(common.RoleMentions(settings.DMRoleIDs), "or")
}

// overUnderDesc renders the rule list, e.g. "At least 1 over 15, 2 under 10"
func overUnderDesc(rules []models.RandcharRule) string {
	if len(rules) == 0 {
		return "None"
	}
	descs := make([]string, len(rules))
	for i, rule := range rules {
		descs[i] = rule.Desc()
	}
	return "At least " + strings.Join(descs, ", ")
}

// statNamesDesc renders the configured stat names, or the canonical six
func statNamesDesc(settings *models.ServerSettings) string {
	return strings.Join(settings.StatNamesOrDefault(), ", ")
}

// boundDesc renders an optional total bound
func boundDesc(bound *int) string {
	if bound == nil {
		return "None"
	}
	return strconv.Itoa(*bound)
}

// inlineRollingDesc renders the inline rolling status line for embeds
func inlineRollingDesc(mode models.InlineRollingMode, globallyEnabled bool) string {
	if !globallyEnabled {
		return "Inline rolling is currently **globally disabled** for all users. Check back soon!"
	}
	switch mode {
	case models.InlineRollingReaction:
		return "Inline rolling is currently set to **react**. I'll look for messages containing `[[dice]]` " +
			"and react with 🎲 - click the reaction to roll!"
	case models.InlineRollingEnabled:
		return "Inline rolling is currently **enabled**. I'll roll any `[[dice]]` I find in messages!"
	default:
		return "Inline rolling is currently **disabled**."
	}
}

// buildRootEmbed summarizes every settings group on one screen
func buildRootEmbed(guildName string, settings *models.ServerSettings, inlineDesc string, showNLP bool) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Server Settings for %s", guildName),
		Color: common.ColorPrimary,
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "Lookup Settings",
		Value: fmt.Sprintf("**DM Roles**: %s\n**Monsters Require DM**: %s\n**Direct Message DM**: %s\n**Direct Message Results**: %s",
			dmRolesSummary(settings),
			common.FormatToggle(settings.LookupDMRequired),
			common.FormatToggle(settings.LookupPMDM),
			common.FormatToggle(settings.LookupPMResult)),
	})

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Inline Rolling Settings",
		Value: inlineDesc,
	})

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "Randchar Settings",
		Value: fmt.Sprintf("**Dice**: %s\n**Number of Sets**: %d\n**Number of Stats**: %d\n**Assign Stats**: %s\n"+
			"**Stat Names:** %s\n**Minimum Total**: %s\n**Maximum Total**: %s\n**Over/Under Rules**: %s",
			settings.RandcharDice,
			settings.RandcharSets,
			settings.RandcharNum,
			common.FormatToggle(settings.RandcharStraight),
			statNamesDesc(settings),
			boundDesc(settings.RandcharMin),
			boundDesc(settings.RandcharMax),
			overUnderDesc(settings.RandcharRules)),
	})

	misc := fmt.Sprintf("**Show Campaign Message**: %s", common.FormatToggle(settings.ShowCampaignCTA))
	if showNLP {
		misc += fmt.Sprintf("\n**Contribute Message Data to NLP Training**: %s", common.FormatToggle(settings.NLPOptIn))
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Miscellaneous Settings",
		Value: misc,
	})

	return embed
}

// buildLookupEmbed describes the lookup screen's fields with help text
func buildLookupEmbed(guildName string, settings *models.ServerSettings) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Server Settings (%s) / Lookup Settings", guildName),
		Color:       common.ColorPrimary,
		Description: "These settings affect how lookup results are displayed on this server.",
	}

	if !settings.HasDMRoles() {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "DM Roles",
			Value: fmt.Sprintf("**%s**\n*Any user with a role named one of these will be considered a DM. "+
				"This lets them look up a monster's full stat block if `Monsters Require DM` is enabled, "+
				"skip other players' turns in initiative, and more.*", defaultDMRoleNames),
		})
	} else {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "DM Roles",
			Value: fmt.Sprintf("**%s**\n*Any user with at least one of these roles will be considered a DM. "+
				"This lets them look up a monster's full stat block if `Monsters Require DM` is enabled, "+
				"skip turns in initiative, and more.*",
				common.NaturalJoin(common.RoleMentions(settings.DMRoleIDs), "or")),
		})
	}

	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{
			Name: "Monsters Require DM",
			Value: fmt.Sprintf("**%s**\n*If this is enabled, monster lookups will display hidden stats for any "+
				"user without a role named DM, GM, Dungeon Master, Game Master, or the DM role configured above.*",
				common.FormatToggle(settings.LookupDMRequired)),
		},
		&discordgo.MessageEmbedField{
			Name: "Direct Message DMs",
			Value: fmt.Sprintf("**%s**\n*If this is enabled, the result of monster lookups will be direct messaged "+
				"to the user who looked it up, rather than being printed to the channel, if the user is a DM.*",
				common.FormatToggle(settings.LookupPMDM)),
		},
		&discordgo.MessageEmbedField{
			Name: "Direct Message Results",
			Value: fmt.Sprintf("**%s**\n*If this is enabled, the result of all lookups will be direct messaged "+
				"to the user who looked it up, rather than being printed to the channel.*",
				common.FormatToggle(settings.LookupPMResult)),
		},
	)

	return embed
}

// buildInlineRollingEmbed describes the inline rolling screen
func buildInlineRollingEmbed(guildName string, inlineDesc string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Server Settings (%s) / Inline Rolling Settings", guildName),
		Color:       common.ColorPrimary,
		Description: inlineDesc,
	}
}

// buildRandcharEmbed describes the randchar screen's fields with help text
func buildRandcharEmbed(guildName string, settings *models.ServerSettings) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Server Settings (%s) / Randchar Settings", guildName),
		Color: common.ColorPrimary,
	}

	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{
			Name: "Dice Rolled",
			Value: fmt.Sprintf("**%s**\n*This is the dice expression that will be rolled once for each stat.*",
				settings.RandcharDice),
		},
		&discordgo.MessageEmbedField{
			Name: "Number of Sets",
			Value: fmt.Sprintf("**%d**\n*This is how many sets of stat rolls it will return, "+
				"allowing your players to choose between them.*", settings.RandcharSets),
		},
		&discordgo.MessageEmbedField{
			Name: "Number of Stats",
			Value: fmt.Sprintf("**%d**\n*This is how many stat rolls it will return per set.*",
				settings.RandcharNum),
		},
		&discordgo.MessageEmbedField{
			Name: "Assign Stats Directly",
			Value: fmt.Sprintf("**%s**\n**Stat Names:** %s\n*If this is enabled, rolls will automatically be "+
				"assigned to stats in the order they are rolled.*",
				common.FormatToggle(settings.RandcharStraight), statNamesDesc(settings)),
		},
		&discordgo.MessageEmbedField{
			Name: "Minimum Total Score Required",
			Value: fmt.Sprintf("**%s**\n*This is the minimum combined score required. Standard array is 72 total.*",
				boundDesc(settings.RandcharMin)),
		},
		&discordgo.MessageEmbedField{
			Name: "Maximum Total Score Required",
			Value: fmt.Sprintf("**%s**\n*This is the maximum combined score required. Standard array is 72 total.*",
				boundDesc(settings.RandcharMax)),
		},
		&discordgo.MessageEmbedField{
			Name: "Over/Under Rules",
			Value: fmt.Sprintf("**%s**\n*This is a list of how many of the stats you require to be over/under "+
				"a certain value, such as having at least one stat over 17, or two stats under 10.*",
				overUnderDesc(settings.RandcharRules)),
		},
	)

	return embed
}

// buildMiscellaneousEmbed describes the miscellaneous screen. The NLP field
// is omitted entirely when the flag is off for the invoker.
func buildMiscellaneousEmbed(guildName string, settings *models.ServerSettings, showNLP bool) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Server Settings (%s) / Miscellaneous Settings", guildName),
		Color: common.ColorPrimary,
	}

	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name: "Show Campaign Message",
		Value: fmt.Sprintf("**%s**\n*If this is enabled, you will receive occasional reminders to link your "+
			"campaign when you import a character in an unlinked campaign.*",
			common.FormatToggle(settings.ShowCampaignCTA)),
	})

	if showNLP {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Contribute Message Data to Natural Language AI Training",
			Value: fmt.Sprintf("**%s**\n*If this is enabled, the contents of messages, usernames, and character "+
				"names will be recorded in channels **with an active combat**, to be used for research into "+
				"natural language understanding of game commands.*",
				common.FormatToggle(settings.NLPOptIn)),
		})
	}

	return embed
}
