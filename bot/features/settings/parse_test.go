package settings

import (
	"testing"

	"dicekeeper/models"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBoundedInt(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		min, max int
		expected int
		wantErr  bool
	}{
		{"lower bound", "1", 1, 25, 1, false},
		{"upper bound", "25", 1, 25, 25, false},
		{"middle", "10", 1, 25, 10, false},
		{"whitespace", " 5 ", 1, 25, 5, false},
		{"below bound", "0", 1, 25, 0, true},
		{"above bound", "26", 1, 25, 0, true},
		{"not a number", "ten", 1, 25, 0, true},
		{"empty", "", 1, 25, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := ParseBoundedInt(tt.input, tt.min, tt.max)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n)
		})
	}
}

func TestParseTotalBound(t *testing.T) {
	bound, err := ParseTotalBound("72")
	require.NoError(t, err)
	require.NotNil(t, bound)
	assert.Equal(t, 72, *bound)

	bound, err = ParseTotalBound("default")
	require.NoError(t, err)
	assert.Nil(t, bound)

	bound, err = ParseTotalBound("DEFAULT")
	require.NoError(t, err)
	assert.Nil(t, bound)

	_, err = ParseTotalBound("seventy")
	assert.Error(t, err)
}

func TestParseStatNames(t *testing.T) {
	names, err := ParseStatNames("A, B, C, D", 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C", "D"}, names)

	// default only works for six stats
	names, err = ParseStatNames("default", 6)
	require.NoError(t, err)
	assert.Equal(t, []string{"STR", "DEX", "CON", "INT", "WIS", "CHA"}, names)

	_, err = ParseStatNames("default", 4)
	assert.Error(t, err)

	_, err = ParseStatNames("A, B, C", 4)
	assert.Error(t, err)

	_, err = ParseStatNames("A,,C,D", 4)
	assert.Error(t, err)
}

func TestParseOverUnderRule(t *testing.T) {
	rule, err := ParseOverUnderRule("1>15")
	require.NoError(t, err)
	assert.Equal(t, models.RandcharRule{Kind: models.RuleOver, Amount: 1, Value: 15}, rule)

	rule, err = ParseOverUnderRule("2<10")
	require.NoError(t, err)
	assert.Equal(t, models.RandcharRule{Kind: models.RuleUnder, Amount: 2, Value: 10}, rule)
	assert.Equal(t, "2 under 10", rule.Desc())

	for _, input := range []string{"nope", "a>15", "1>b", "115", ""} {
		_, err := ParseOverUnderRule(input)
		assert.Error(t, err, "input %q should be rejected", input)
	}
}

func TestValidateDice(t *testing.T) {
	expr, err := ValidateDice(" 4d6 ")
	require.NoError(t, err)
	assert.Equal(t, "4d6", expr)

	_, err = ValidateDice("")
	assert.Error(t, err)

	_, err = ValidateDice("not dice")
	assert.Error(t, err)
}

func TestResolveRoles(t *testing.T) {
	guildRoles := []*discordgo.Role{
		{ID: "100", Name: "Dungeon Master"},
		{ID: "200", Name: "Players"},
		{ID: "300", Name: "GM"},
	}

	t.Run("mentions", func(t *testing.T) {
		ids := ResolveRoles("", []string{"100", "300"}, guildRoles)
		assert.Equal(t, []int64{100, 300}, ids)
	})

	t.Run("names and ids", func(t *testing.T) {
		ids := ResolveRoles("dungeon master, 200", nil, guildRoles)
		assert.Equal(t, []int64{100, 200}, ids)
	})

	t.Run("unresolved tokens dropped", func(t *testing.T) {
		ids := ResolveRoles("nobody, 999, GM", nil, guildRoles)
		assert.Equal(t, []int64{300}, ids)
	})

	t.Run("duplicates collapsed", func(t *testing.T) {
		ids := ResolveRoles("GM", []string{"300"}, guildRoles)
		assert.Equal(t, []int64{300}, ids)
	})

	t.Run("nothing resolves", func(t *testing.T) {
		assert.Nil(t, ResolveRoles("nobody here", nil, guildRoles))
	})
}
