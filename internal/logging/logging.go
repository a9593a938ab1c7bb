// Package logging provides the structured logger shared by every fresh
// component and cmd binary.
package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

const envLevel = "FRESH_LOG_LEVEL"

var (
	mu      sync.Mutex
	handler slog.Handler
)

// Default returns a logger scoped to component, e.g. "fresh-bench" or
// "highlight". The level is read once from FRESH_LOG_LEVEL (debug, info,
// warn, error; default info) and shared by every call.
func Default(component string) *slog.Logger {
	mu.Lock()
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: levelFromEnv()})
	}
	h := handler
	mu.Unlock()
	return slog.New(h).With("component", component)
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(envLevel))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
