package models

import "fmt"

// InlineRollingMode controls how the bot reacts to dice notation in ordinary messages
type InlineRollingMode string

const (
	InlineRollingDisabled InlineRollingMode = "disabled"
	InlineRollingReaction InlineRollingMode = "react"
	InlineRollingEnabled  InlineRollingMode = "enabled"
)

// RuleKind is the comparison direction of an over/under rule
type RuleKind string

const (
	RuleOver  RuleKind = "gt"
	RuleUnder RuleKind = "lt"
)

// Randchar bounds enforced on menu input
const (
	MinRandcharSets  = 1
	MaxRandcharSets  = 25
	MinRandcharStats = 1
	MaxRandcharStats = 10
	DefaultDice      = "4d6kh3"
)

// StatAbbreviations is the canonical six-stat name list used when a guild
// hasn't configured its own stat names
var StatAbbreviations = []string{"STR", "DEX", "CON", "INT", "WIS", "CHA"}

// DefaultStatNames returns a fresh copy of the canonical stat name list
func DefaultStatNames() []string {
	names := make([]string, len(StatAbbreviations))
	copy(names, StatAbbreviations)
	return names
}

// RandcharRule requires at least Amount generated stats to be over/under Value
type RandcharRule struct {
	Kind   RuleKind `json:"type"`
	Amount int      `json:"amount"`
	Value  int      `json:"value"`
}

// Desc returns the rule's display text, e.g. "2 under 10"
func (r RandcharRule) Desc() string {
	direction := "over"
	if r.Kind == RuleUnder {
		direction = "under"
	}
	return fmt.Sprintf("%d %s %d", r.Amount, direction, r.Value)
}

// ServerSettings is the per-guild settings document
type ServerSettings struct {
	GuildID int64 `db:"guild_id"`

	// Lookup settings
	DMRoleIDs        []int64 `db:"dm_role_ids"` // nil = match on default role names
	LookupDMRequired bool    `db:"lookup_dm_required"`
	LookupPMDM       bool    `db:"lookup_pm_dm"`
	LookupPMResult   bool    `db:"lookup_pm_result"`

	// Inline rolling
	InlineRolling InlineRollingMode `db:"inline_rolling"`

	// Random character generation
	RandcharDice      string         `db:"randchar_dice"`
	RandcharSets      int            `db:"randchar_sets"`
	RandcharNum       int            `db:"randchar_num"`
	RandcharStraight  bool           `db:"randchar_straight"`
	RandcharStatNames []string       `db:"randchar_stat_names"`
	RandcharMin       *int           `db:"randchar_min"`
	RandcharMax       *int           `db:"randchar_max"`
	RandcharRules     []RandcharRule `db:"randchar_rules"`

	// Miscellaneous
	ShowCampaignCTA bool `db:"show_campaign_cta"`
	NLPOptIn        bool `db:"nlp_opt_in"`
}

// NewServerSettings returns a settings document with all defaults for a guild
func NewServerSettings(guildID int64) *ServerSettings {
	return &ServerSettings{
		GuildID:           guildID,
		LookupDMRequired:  true,
		InlineRolling:     InlineRollingDisabled,
		RandcharDice:      DefaultDice,
		RandcharSets:      1,
		RandcharNum:       6,
		RandcharStatNames: []string{},
		RandcharRules:     []RandcharRule{},
		ShowCampaignCTA:   true,
	}
}

// HasDMRoles checks whether explicit DM roles are configured
func (s *ServerSettings) HasDMRoles() bool {
	return len(s.DMRoleIDs) > 0
}

// SetNumStats updates the stat count. If the configured stat names no longer
// match the new count, direct stat assignment is switched off; the stat name
// list itself is left alone.
func (s *ServerSettings) SetNumStats(n int) {
	s.RandcharNum = n
	if s.RandcharStraight && len(s.RandcharStatNames) != n {
		s.RandcharStraight = false
	}
}

// StatNamesOrDefault returns the configured stat names, or the canonical six
// when none are set
func (s *ServerSettings) StatNamesOrDefault() []string {
	if len(s.RandcharStatNames) > 0 {
		return s.RandcharStatNames
	}
	return DefaultStatNames()
}

// AddRule appends an over/under rule
func (s *ServerSettings) AddRule(rule RandcharRule) {
	s.RandcharRules = append(s.RandcharRules, rule)
}

// RemoveRule removes the rule at index i; out-of-range indexes are ignored
func (s *ServerSettings) RemoveRule(i int) {
	if i < 0 || i >= len(s.RandcharRules) {
		return
	}
	s.RandcharRules = append(s.RandcharRules[:i], s.RandcharRules[i+1:]...)
}
