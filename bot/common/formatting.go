package common

import (
	"fmt"
	"strings"
)

// Discord color constants
const (
	ColorPrimary = 0x5865F2 // Discord blurple
	ColorSuccess = 0x57F287 // Green
	ColorDanger  = 0xED4245 // Red
)

// UI constants
const (
	// MaxSelectOptions is Discord's cap on options in one select menu
	MaxSelectOptions = 25
)

// NaturalJoin joins items with commas and a final conjunction,
// e.g. ["a", "b", "c"] with "or" becomes "a, b, or c"
func NaturalJoin(items []string, conjunction string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return fmt.Sprintf("%s %s %s", items[0], conjunction, items[1])
	default:
		return fmt.Sprintf("%s, %s %s", strings.Join(items[:len(items)-1], ", "), conjunction, items[len(items)-1])
	}
}

// FormatToggle renders a boolean setting the way the menus display it
func FormatToggle(enabled bool) string {
	if enabled {
		return "True"
	}
	return "False"
}

// RoleMention returns a Discord role mention for a role id
func RoleMention(roleID int64) string {
	return fmt.Sprintf("<@&%d>", roleID)
}

// RoleMentions maps role ids to mention strings
func RoleMentions(roleIDs []int64) []string {
	mentions := make([]string, len(roleIDs))
	for i, id := range roleIDs {
		mentions[i] = RoleMention(id)
	}
	return mentions
}
