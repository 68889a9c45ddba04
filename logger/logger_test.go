package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetLevel(t *testing.T) {
	defer level.SetLevel(zapcore.InfoLevel)

	assert.NoError(t, SetLevel("DEBUG"))
	assert.Equal(t, zapcore.DebugLevel, level.Level())
	assert.Error(t, SetLevel("loud"))
	assert.Equal(t, zapcore.DebugLevel, level.Level())
}

func TestReplace(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := Replace(zap.New(core))

	Debug("hidden")
	Info("shown", zap.String("script", "Tai_Tham"))
	restore()
	Info("elsewhere")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "shown", entries[0].Message)
		assert.Equal(t, "Tai_Tham", entries[0].ContextMap()["script"])
	}
}
