package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNaturalJoin(t *testing.T) {
	tests := []struct {
		name     string
		items    []string
		expected string
	}{
		{"empty", nil, ""},
		{"single", []string{"a"}, "a"},
		{"pair", []string{"a", "b"}, "a or b"},
		{"three", []string{"a", "b", "c"}, "a, b, or c"},
		{"four", []string{"a", "b", "c", "d"}, "a, b, c, or d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NaturalJoin(tt.items, "or"))
		})
	}
}

func TestFormatToggle(t *testing.T) {
	assert.Equal(t, "True", FormatToggle(true))
	assert.Equal(t, "False", FormatToggle(false))
}

func TestRoleMentions(t *testing.T) {
	assert.Equal(t, []string{"<@&1>", "<@&2>"}, RoleMentions([]int64{1, 2}))
	assert.Empty(t, RoleMentions(nil))
}
