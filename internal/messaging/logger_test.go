package messaging_test

import (
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/serroba/shortlink/internal/messaging"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger(t *testing.T) {
	t.Run("maps levels and fields", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		logger := messaging.NewZapLogger(zap.New(core))

		logger.Info("info message", watermill.LogFields{"topic": "a"})
		logger.Debug("debug message", nil)
		logger.Trace("trace message", nil)
		logger.Error("error message", errors.New("boom"), watermill.LogFields{"topic": "b"})

		entries := logs.AllUntimed()
		assert.Len(t, entries, 4)
		assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
		assert.Equal(t, "a", entries[0].ContextMap()["topic"])
		assert.Equal(t, zapcore.DebugLevel, entries[2].Level)
		assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
		assert.Equal(t, "boom", entries[3].ContextMap()["error"])
	})

	t.Run("with adds fields to later entries", func(t *testing.T) {
		core, logs := observer.New(zapcore.InfoLevel)
		logger := messaging.NewZapLogger(zap.New(core)).With(watermill.LogFields{"consumer_group": "cache-fill"})

		logger.Info("subscribed", nil)

		assert.Equal(t, "cache-fill", logs.All()[0].ContextMap()["consumer_group"])
	})
}
