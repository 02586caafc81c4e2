package common

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// ErrAwaitTimeout is returned when no matching message arrives in time
var ErrAwaitTimeout = errors.New("timed out waiting for message")

// ErrAwaitReplaced is returned when a newer Await for the same user and
// channel supersedes a pending one
var ErrAwaitReplaced = errors.New("wait superseded by a newer one")

type waiterKey struct {
	channelID string
	userID    string
}

// MessageCollector hands incoming messages to goroutines waiting on them.
// At most one wait is pending per (channel, user); starting another evicts
// the first.
type MessageCollector struct {
	mu      sync.Mutex
	waiters map[waiterKey]chan *discordgo.Message
}

// NewMessageCollector creates an empty collector
func NewMessageCollector() *MessageCollector {
	return &MessageCollector{
		waiters: make(map[waiterKey]chan *discordgo.Message),
	}
}

// Dispatch offers an incoming message to a pending waiter.
// Returns true if a waiter consumed the message.
func (c *MessageCollector) Dispatch(m *discordgo.Message) bool {
	if m.Author == nil {
		return false
	}
	key := waiterKey{channelID: m.ChannelID, userID: m.Author.ID}

	c.mu.Lock()
	ch, ok := c.waiters[key]
	if ok {
		delete(c.waiters, key)
	}
	c.mu.Unlock()

	if !ok {
		return false
	}

	// Buffered channel, the waiter may already have given up
	ch <- m
	return true
}

// Await blocks until the user sends a message in the channel, the timeout
// elapses, or the context is cancelled
func (c *MessageCollector) Await(ctx context.Context, channelID, userID string, timeout time.Duration) (*discordgo.Message, error) {
	key := waiterKey{channelID: channelID, userID: userID}
	ch := make(chan *discordgo.Message, 1)

	c.mu.Lock()
	if old, ok := c.waiters[key]; ok {
		close(old)
	}
	c.waiters[key] = ch
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		if cur, ok := c.waiters[key]; ok && cur == ch {
			delete(c.waiters, key)
		}
		c.mu.Unlock()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case m, ok := <-ch:
		if !ok {
			return nil, ErrAwaitReplaced
		}
		return m, nil
	case <-timer.C:
		return nil, ErrAwaitTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
