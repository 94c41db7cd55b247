package messaging_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/serroba/shortlink/internal/messaging"
	"github.com/serroba/shortlink/internal/shortener"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockPublisher struct {
	messages   []*message.Message
	topic      string
	publishErr error
	closeErr   error
}

func (m *mockPublisher) Publish(topic string, msgs ...*message.Message) error {
	if m.publishErr != nil {
		return m.publishErr
	}

	m.topic = topic
	m.messages = append(m.messages, msgs...)

	return nil
}

func (m *mockPublisher) Close() error {
	return m.closeErr
}

func fillEvent() *shortener.CacheFillEvent {
	return &shortener.CacheFillEvent{
		Code:       "k3f9a2x",
		LongURL:    "https://example.com/landing",
		TTLSeconds: 3600,
	}
}

func TestNewPublishFunc(t *testing.T) {
	t.Run("publishes cache fill event as json", func(t *testing.T) {
		pub := &mockPublisher{}
		publish := messaging.NewPublishFunc[shortener.CacheFillEvent](pub, shortener.TopicCacheFill)

		require.NoError(t, publish(fillEvent()))

		assert.Equal(t, shortener.TopicCacheFill, pub.topic)
		require.Len(t, pub.messages, 1)
		assert.NotEmpty(t, pub.messages[0].UUID)

		var wire map[string]any
		require.NoError(t, json.Unmarshal(pub.messages[0].Payload, &wire))
		assert.Equal(t, "k3f9a2x", wire["code"])
		assert.Equal(t, "https://example.com/landing", wire["longUrl"])
		assert.EqualValues(t, 3600, wire["ttlSeconds"])
	})

	t.Run("stamps publish time", func(t *testing.T) {
		pub := &mockPublisher{}
		publish := messaging.NewPublishFunc[shortener.CacheFillEvent](pub, shortener.TopicCacheFill)
		before := time.Now().UTC()

		require.NoError(t, publish(fillEvent()))

		at, err := time.Parse(time.RFC3339Nano, pub.messages[0].Metadata.Get(messaging.MetadataPublishedAt))
		require.NoError(t, err)
		assert.False(t, at.Before(before))
	})

	t.Run("wraps publisher errors with the topic", func(t *testing.T) {
		errBroker := errors.New("broker unavailable")
		publish := messaging.NewPublishFunc[shortener.CacheFillEvent](
			&mockPublisher{publishErr: errBroker}, shortener.TopicCacheFill,
		)

		err := publish(fillEvent())

		require.ErrorIs(t, err, errBroker)
		assert.Contains(t, err.Error(), shortener.TopicCacheFill)
	})
}

func TestPublisherGroup(t *testing.T) {
	t.Run("exposes the shared publisher", func(t *testing.T) {
		pub := &mockPublisher{}
		group := messaging.NewPublisherGroup(pub, zap.NewNop())

		assert.Same(t, pub, group.Publisher())
	})

	t.Run("closes the publisher on shutdown", func(t *testing.T) {
		group := messaging.NewPublisherGroup(&mockPublisher{}, zap.NewNop())

		require.NoError(t, group.Shutdown())
	})

	t.Run("returns close error", func(t *testing.T) {
		errClose := errors.New("close error")
		group := messaging.NewPublisherGroup(&mockPublisher{closeErr: errClose}, zap.NewNop())

		assert.ErrorIs(t, group.Shutdown(), errClose)
	})
}
