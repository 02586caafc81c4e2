package featureflags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticClient_KnownFlag(t *testing.T) {
	client := &StaticClient{Flags: map[string]bool{"x": true, "y": false}}

	assert.True(t, client.IsEnabled("x", Subject{ID: "u1"}, false))
	assert.False(t, client.IsEnabled("y", Subject{ID: "u1"}, true))
}

func TestStaticClient_UnknownFlagFallsBack(t *testing.T) {
	client := &StaticClient{}

	assert.False(t, client.IsEnabled("missing", Subject{ID: "u1"}, false))
	assert.True(t, client.IsEnabled("missing", Subject{ID: "u1"}, true))
}
