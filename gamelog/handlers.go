package gamelog

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Feature flag keys for gated game log handlers
const (
	FlagDiceRolls     = "gamelog.dice-rolls.enabled"
	FlagCharacterSync = "gamelog.character-sync.enabled"
)

// Messenger is the slice of the Discord session the handlers need.
// Satisfied by *discordgo.Session.
type Messenger interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// RollEvent is the payload of an EventTypeRoll event
type RollEvent struct {
	CharacterName string `json:"character_name"`
	Expression    string `json:"expression"`
	Result        string `json:"result"`
	Total         int    `json:"total"`
}

// RollHandler mirrors dice rolls from the external tabletop client into the
// channel the event originated from
type RollHandler struct {
	messenger Messenger
}

// NewRollHandler creates a roll handler posting through the given messenger
func NewRollHandler(messenger Messenger) *RollHandler {
	return &RollHandler{messenger: messenger}
}

// Handle posts an embed for one roll event
func (h *RollHandler) Handle(ctx context.Context, evt *EventContext) error {
	var roll RollEvent
	if err := json.Unmarshal(evt.Data, &roll); err != nil {
		return fmt.Errorf("failed to decode roll event: %w", err)
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s rolled %s", roll.CharacterName, roll.Expression),
		Description: fmt.Sprintf("%s = **%d**", roll.Result, roll.Total),
	}

	channelID := strconv.FormatInt(evt.ChannelID, 10)
	if _, err := h.messenger.ChannelMessageSendEmbed(channelID, embed); err != nil {
		return fmt.Errorf("failed to post roll to channel %s: %w", channelID, err)
	}

	log.WithFields(log.Fields{
		"user_id":    evt.UserID,
		"channel_id": evt.ChannelID,
		"expression": roll.Expression,
	}).Debug("Mirrored game log roll")

	return nil
}

// CharacterUpdateEvent is the payload of an EventTypeCharacterSync event
type CharacterUpdateEvent struct {
	CharacterName string `json:"character_name"`
	Level         int    `json:"level"`
	Class         string `json:"class"`
}

// CharacterUpdateHandler announces character sheet updates pushed from the
// external tabletop client
type CharacterUpdateHandler struct {
	messenger Messenger
}

// NewCharacterUpdateHandler creates a character update handler
func NewCharacterUpdateHandler(messenger Messenger) *CharacterUpdateHandler {
	return &CharacterUpdateHandler{messenger: messenger}
}

// Handle posts an embed for one character update event
func (h *CharacterUpdateHandler) Handle(ctx context.Context, evt *EventContext) error {
	var update CharacterUpdateEvent
	if err := json.Unmarshal(evt.Data, &update); err != nil {
		return fmt.Errorf("failed to decode character update event: %w", err)
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s was updated", update.CharacterName),
		Description: fmt.Sprintf("Now a level %d %s.", update.Level, update.Class),
	}

	channelID := strconv.FormatInt(evt.ChannelID, 10)
	if _, err := h.messenger.ChannelMessageSendEmbed(channelID, embed); err != nil {
		return fmt.Errorf("failed to post character update to channel %s: %w", channelID, err)
	}

	log.WithFields(log.Fields{
		"user_id":   evt.UserID,
		"character": update.CharacterName,
	}).Debug("Mirrored character update")

	return nil
}
