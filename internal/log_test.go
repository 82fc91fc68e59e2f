package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelError, ParseLogLevel("ERROR"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel("warn"))
	assert.Equal(t, LogLevelDebug, ParseLogLevel("DEBUG"))
	assert.Equal(t, LogLevelTrace, ParseLogLevel("TRACE"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel(""))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("chatty"))
}

func TestLoggerFiltersByLevel(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewLoggerWithZap(LogLevelWarn, zap.New(core)).Named("engine")

	logger.Info("hidden %d", 1)
	logger.Warn("shown %d", 2)
	logger.Error("shown %d", 3)
	logger.Trace("hidden")

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "shown 2", entries[0].Message)
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, "engine", entries[0].LoggerName)
		assert.Equal(t, "shown 3", entries[1].Message)
	}
}

func TestLoggerTraceAndContext(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger := NewLoggerWithZap(LogLevelTrace, zap.New(core)).With("dataset", "survey")

	logger.Trace("pair %s", "a/b")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "[TRACE] pair a/b", entries[0].Message)
		assert.Equal(t, "survey", entries[0].ContextMap()["dataset"])
	}
}
