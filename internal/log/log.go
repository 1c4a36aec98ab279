// Package log is a small process-wide wrapper around log/slog.
//
// Logging is disabled until Enable is called: the terminal belongs to the
// carousel, so output has to go to a file or a test buffer.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
)

var (
	mu      sync.RWMutex
	level   = new(slog.LevelVar)
	logger  = slog.New(slog.NewTextHandler(io.Discard, nil))
	enabled bool
)

// Enable starts writing log records to w at debug level. Call SetLevel
// afterwards to raise the threshold.
func Enable(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	level.Set(slog.LevelDebug)
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
	enabled = true
}

// Disable discards all further log records
func Disable() {
	mu.Lock()
	defer mu.Unlock()
	logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	enabled = false
	level.Set(slog.LevelInfo)
}

// IsEnabled reports whether records are written anywhere
func IsEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetLevel sets the minimum level written
func SetLevel(l slog.Level) {
	level.Set(l)
}

// ParseLevel converts "debug", "info", "warn"/"warning" or "error" to a slog level
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s (must be error, warn, info, or debug)", s)
	}
}

// Logger returns the current logger, for components that take a *slog.Logger
func Logger() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debug(msg string, args ...any) { Logger().Log(context.Background(), slog.LevelDebug, msg, args...) }
func Info(msg string, args ...any)  { Logger().Log(context.Background(), slog.LevelInfo, msg, args...) }
func Warn(msg string, args ...any)  { Logger().Log(context.Background(), slog.LevelWarn, msg, args...) }
func Error(msg string, args ...any) { Logger().Log(context.Background(), slog.LevelError, msg, args...) }
