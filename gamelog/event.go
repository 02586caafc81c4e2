// Package gamelog consumes game log events from the message bus and
// dispatches them into feature-gated handlers.
package gamelog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Event types carried on the game log subject
const (
	EventTypeRoll          = "dice.roll"
	EventTypeCharacterSync = "character.update"
)

// EventContext carries one game log event through the handler chain
type EventContext struct {
	EventType string          `json:"event_type"`
	UserID    int64           `json:"user_id"` // Discord id of the originating user
	GuildID   int64           `json:"guild_id"`
	ChannelID int64           `json:"channel_id"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// HandlerFunc processes one game log event
type HandlerFunc func(ctx context.Context, evt *EventContext) error

// ErrIgnoreEvent signals that an event should be dropped without processing.
// It is not an error condition: unlinked users and disabled flags are normal.
var ErrIgnoreEvent = errors.New("event ignored")

// IgnoreEvent wraps ErrIgnoreEvent with a reason for debug logging
func IgnoreEvent(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrIgnoreEvent, fmt.Sprintf(format, args...))
}
