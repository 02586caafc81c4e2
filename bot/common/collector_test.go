package common

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMessage(channelID, userID, content string) *discordgo.Message {
	return &discordgo.Message{
		ChannelID: channelID,
		Author:    &discordgo.User{ID: userID},
		Content:   content,
	}
}

func TestMessageCollector_DeliversMatchingMessage(t *testing.T) {
	collector := NewMessageCollector()

	done := make(chan struct{})
	var got *discordgo.Message
	var err error
	go func() {
		defer close(done)
		got, err = collector.Await(context.Background(), "chan1", "user1", time.Second)
	}()

	// Let the waiter register before dispatching
	require.Eventually(t, func() bool {
		return collector.Dispatch(testMessage("chan1", "user1", "hello"))
	}, time.Second, 5*time.Millisecond)

	<-done
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Content)
}

func TestMessageCollector_IgnoresOtherUsersAndChannels(t *testing.T) {
	collector := NewMessageCollector()

	go func() {
		_, _ = collector.Await(context.Background(), "chan1", "user1", 200*time.Millisecond)
	}()
	time.Sleep(20 * time.Millisecond)

	assert.False(t, collector.Dispatch(testMessage("chan1", "user2", "wrong user")))
	assert.False(t, collector.Dispatch(testMessage("chan2", "user1", "wrong channel")))
}

func TestMessageCollector_Timeout(t *testing.T) {
	collector := NewMessageCollector()

	start := time.Now()
	msg, err := collector.Await(context.Background(), "chan1", "user1", 50*time.Millisecond)

	assert.Nil(t, msg)
	assert.ErrorIs(t, err, ErrAwaitTimeout)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestMessageCollector_ContextCancel(t *testing.T) {
	collector := NewMessageCollector()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	msg, err := collector.Await(ctx, "chan1", "user1", time.Second)

	assert.Nil(t, msg)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMessageCollector_NewAwaitEvictsOld(t *testing.T) {
	collector := NewMessageCollector()

	firstErr := make(chan error, 1)
	go func() {
		_, err := collector.Await(context.Background(), "chan1", "user1", time.Second)
		firstErr <- err
	}()
	time.Sleep(20 * time.Millisecond)

	done := make(chan struct{})
	var got *discordgo.Message
	go func() {
		defer close(done)
		got, _ = collector.Await(context.Background(), "chan1", "user1", time.Second)
	}()

	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, ErrAwaitReplaced)
	case <-time.After(time.Second):
		t.Fatal("first waiter was not evicted")
	}

	require.Eventually(t, func() bool {
		return collector.Dispatch(testMessage("chan1", "user1", "for the second waiter"))
	}, time.Second, 5*time.Millisecond)

	<-done
	assert.Equal(t, "for the second waiter", got.Content)
}

func TestMessageCollector_DispatchWithoutWaiter(t *testing.T) {
	collector := NewMessageCollector()
	assert.False(t, collector.Dispatch(testMessage("chan1", "user1", "nobody listening")))
}
