package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnableDisable(t *testing.T) {
	require.False(t, IsEnabled(), "logging is off until enabled")

	var buf bytes.Buffer
	Enable(&buf)
	assert.True(t, IsEnabled())

	Debug("carousel moved", "index", 2)
	assert.Contains(t, buf.String(), "carousel moved")
	assert.Contains(t, buf.String(), "index=2")

	Disable()
	assert.False(t, IsEnabled())
	buf.Reset()
	Error("after disable")
	assert.Empty(t, buf.String())
}

func TestSetLevel(t *testing.T) {
	var buf bytes.Buffer
	Enable(&buf)
	defer Disable()

	SetLevel(slog.LevelWarn)
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")

	out := buf.String()
	assert.NotContains(t, out, "debug msg")
	assert.NotContains(t, out, "info msg")
	assert.Contains(t, out, "warn msg")
	assert.Contains(t, out, "error msg")
}

func TestLoggerFollowsLevel(t *testing.T) {
	var buf bytes.Buffer
	Enable(&buf)
	defer Disable()

	l := Logger()
	SetLevel(slog.LevelError)
	l.Info("hidden")
	l.Error("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{" warning ", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("verbose")
	assert.ErrorContains(t, err, "verbose")
}
