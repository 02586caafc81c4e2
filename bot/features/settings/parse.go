package settings

import (
	"fmt"
	"strconv"
	"strings"

	"dicekeeper/models"

	"github.com/bwmarrin/discordgo"
	"github.com/justinian/dice"
)

// defaultToken resets a field to its unset/default value when typed as input
const defaultToken = "default"

// ParseBoundedInt parses an integer and checks it against inclusive bounds
func ParseBoundedInt(input string, min, max int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", input)
	}
	if n < min || n > max {
		return 0, fmt.Errorf("%d is outside the range %d-%d", n, min, max)
	}
	return n, nil
}

// ParseTotalBound parses a min/max total input. The literal "default" clears
// the bound, returning nil.
func ParseTotalBound(input string) (*int, error) {
	trimmed := strings.TrimSpace(input)
	if strings.EqualFold(trimmed, defaultToken) {
		return nil, nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", input)
	}
	return &n, nil
}

// ParseStatNames parses a comma-separated stat name list. The token count
// must match the configured number of stats. The literal "default" yields the
// canonical six names and is only accepted when count is 6.
func ParseStatNames(input string, count int) ([]string, error) {
	trimmed := strings.TrimSpace(input)
	if strings.EqualFold(trimmed, defaultToken) {
		if count != len(models.StatAbbreviations) {
			return nil, fmt.Errorf("default names require %d stats, have %d", len(models.StatAbbreviations), count)
		}
		return models.DefaultStatNames(), nil
	}

	var names []string
	for _, token := range strings.Split(trimmed, ",") {
		name := strings.TrimSpace(token)
		if name == "" {
			return nil, fmt.Errorf("empty stat name in %q", input)
		}
		names = append(names, name)
	}
	if len(names) != count {
		return nil, fmt.Errorf("expected %d stat names, got %d", count, len(names))
	}
	return names, nil
}

// ParseOverUnderRule parses "N>value" or "N<value" into a rule
func ParseOverUnderRule(input string) (models.RandcharRule, error) {
	trimmed := strings.TrimSpace(input)

	kind := models.RuleOver
	sep := ">"
	if !strings.Contains(trimmed, ">") {
		kind = models.RuleUnder
		sep = "<"
	}

	amountStr, valueStr, found := strings.Cut(trimmed, sep)
	if !found {
		return models.RandcharRule{}, fmt.Errorf("expected N>value or N<value, got %q", input)
	}
	amount, err := strconv.Atoi(strings.TrimSpace(amountStr))
	if err != nil {
		return models.RandcharRule{}, fmt.Errorf("invalid amount in %q", input)
	}
	value, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		return models.RandcharRule{}, fmt.Errorf("invalid value in %q", input)
	}
	return models.RandcharRule{Kind: kind, Amount: amount, Value: value}, nil
}

// ValidateDice checks a dice expression by rolling it once, returning the
// trimmed expression on success
func ValidateDice(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", fmt.Errorf("empty dice expression")
	}
	if _, _, err := dice.Roll(trimmed); err != nil {
		return "", fmt.Errorf("invalid dice expression %q: %w", trimmed, err)
	}
	return trimmed, nil
}

// ResolveRoles maps freeform DM-role input to role ids. Mentioned roles are
// taken as-is; the remaining comma-separated tokens are matched against the
// guild's roles by id or case-insensitive name. Unresolved tokens are
// dropped. Returns nil when nothing resolves.
func ResolveRoles(content string, mentionRoleIDs []string, guildRoles []*discordgo.Role) []int64 {
	var roleIDs []int64
	seen := make(map[int64]bool)
	add := func(id int64) {
		if !seen[id] {
			seen[id] = true
			roleIDs = append(roleIDs, id)
		}
	}

	for _, idStr := range mentionRoleIDs {
		if id, err := strconv.ParseInt(idStr, 10, 64); err == nil {
			add(id)
		}
	}

	for _, token := range strings.Split(content, ",") {
		clean := strings.TrimSpace(token)
		if clean == "" {
			continue
		}
		if id, err := strconv.ParseInt(clean, 10, 64); err == nil {
			for _, role := range guildRoles {
				if role.ID == clean {
					add(id)
					break
				}
			}
			continue
		}
		for _, role := range guildRoles {
			if strings.EqualFold(role.Name, clean) {
				if id, err := strconv.ParseInt(role.ID, 10, 64); err == nil {
					add(id)
				}
				break
			}
		}
	}

	return roleIDs
}
