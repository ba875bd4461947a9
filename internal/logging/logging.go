// Copyright 2024 Bjørn Erik Pedersen
// SPDX-License-Identifier: MIT

// Package logging sets up the structured logger used by the framemeta command.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// New returns a slog.Logger writing to w with the provided level (debug, info, warn, error).
// format may be "json" or "text".
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel parses level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// Warnf returns a printf style func logging to logger at warn level,
// suitable for framemeta.Options.Warnf.
func Warnf(logger *slog.Logger, args ...any) func(string, ...any) {
	return func(format string, a ...any) {
		logger.Warn(fmt.Sprintf(format, a...), args...)
	}
}
