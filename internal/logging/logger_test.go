package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"bowling/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"verbose": zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}

	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNew(t *testing.T) {
	for _, format := range []string{"json", "text"} {
		logger, err := New(config.LoggingConfig{Level: "warn", Format: format})
		require.NoError(t, err)

		assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))
	}
}
