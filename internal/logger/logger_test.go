package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_FieldsAndErrors(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := FromZap(zap.New(core)).With(zap.String("user", "octocat"))

	l.Info("fetched profile")
	l.Warn("rate limited", zap.Int("status", 403))
	l.Error("cache write failed", errors.New("disk full"))
	l.Error("no cause", nil)

	entries := logs.All()
	assert.Equal(t, 4, len(entries))
	assert.Equal(t, "octocat", entries[0].ContextMap()["user"])
	assert.Equal(t, int64(403), entries[1].ContextMap()["status"])
	assert.Equal(t, "disk full", entries[2].ContextMap()["error"])
	_, hasErr := entries[3].ContextMap()["error"]
	assert.False(t, hasErr)
}

func TestNewZapLogger(t *testing.T) {
	assert.NotNil(t, NewZapLogger("production"))
	assert.NotNil(t, NewZapLogger("development"))
	assert.NotNil(t, NewNop())
}
