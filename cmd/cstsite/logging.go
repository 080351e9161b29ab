package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

func configureDefaultLogger(rawLevel string) string {
	level, err := parseLogLevel(rawLevel)
	if err != nil {
		slog.SetDefault(newLogger(slog.LevelInfo))
		return fmt.Sprintf("warning: invalid log_level %q; defaulting to info", rawLevel)
	}
	slog.SetDefault(newLogger(level))
	return ""
}

func parseLogLevel(raw string) (slog.Level, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return slog.LevelInfo, nil
	}
	if strings.EqualFold(value, "warning") {
		value = "warn"
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", raw)
	}
	return level, nil
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
