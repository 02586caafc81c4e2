package gamelog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	log "github.com/sirupsen/logrus"
)

// handlerTimeout bounds how long one event handler may run
const handlerTimeout = 30 * time.Second

// Subscriber consumes game log events from NATS and dispatches them by event type
type Subscriber struct {
	conn     *nats.Conn
	handlers map[string]HandlerFunc
	sub      *nats.Subscription
}

// NewSubscriber creates a subscriber on an existing NATS connection
func NewSubscriber(conn *nats.Conn) *Subscriber {
	return &Subscriber{
		conn:     conn,
		handlers: make(map[string]HandlerFunc),
	}
}

// Handle registers a handler for an event type. Must be called before Start.
func (s *Subscriber) Handle(eventType string, handler HandlerFunc) {
	s.handlers[eventType] = handler
}

// Start subscribes to the game log subject and begins dispatching events
func (s *Subscriber) Start(subject string) error {
	sub, err := s.conn.Subscribe(subject, s.dispatch)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	s.sub = sub

	log.WithField("subject", subject).Info("Game log subscriber started")
	return nil
}

// Stop unsubscribes from the game log subject
func (s *Subscriber) Stop() {
	if s.sub != nil {
		if err := s.sub.Unsubscribe(); err != nil {
			log.WithError(err).Warn("Failed to unsubscribe game log subscriber")
		}
	}
}

// dispatch decodes one message and runs the registered handler for its type
func (s *Subscriber) dispatch(msg *nats.Msg) {
	var evt EventContext
	if err := json.Unmarshal(msg.Data, &evt); err != nil {
		log.WithError(err).WithField("subject", msg.Subject).
			Error("Failed to decode game log event")
		return
	}

	handler, ok := s.handlers[evt.EventType]
	if !ok {
		log.WithFields(log.Fields{
			"event_type": evt.EventType,
			"user_id":    evt.UserID,
		}).Debug("No handler registered for game log event type")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	err := handler(ctx, &evt)
	switch {
	case err == nil:
	case errors.Is(err, ErrIgnoreEvent):
		log.WithFields(log.Fields{
			"event_type": evt.EventType,
			"user_id":    evt.UserID,
		}).Debugf("Game log event dropped: %v", err)
	default:
		log.WithError(err).WithFields(log.Fields{
			"event_type": evt.EventType,
			"user_id":    evt.UserID,
			"guild_id":   evt.GuildID,
		}).Error("Game log handler failed")
	}
}
