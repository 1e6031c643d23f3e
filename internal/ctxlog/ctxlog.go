// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LevelEnvVar is the environment variable read at start-up for the initial log level.
const LevelEnvVar = "CMDHOST_LOG_LEVEL"

// Output formats accepted by NewLogger.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// ErrUnknownFormat is returned when a log format is not console or json.
var ErrUnknownFormat = errors.New("unknown log format")

// ErrUnknownLevel is returned when a log level name cannot be parsed.
var ErrUnknownLevel = errors.New("unknown log level")

type loggerKey struct{}

// LevelVar is the level shared by every logger created in this package.
var LevelVar = &slog.LevelVar{}

// DefaultLogger is the logger used when a context carries none.
var DefaultLogger = slog.New(NewConsoleHandler(os.Stderr, &slog.HandlerOptions{Level: LevelVar}))

func init() {
	lvl, err := ParseLevel(os.Getenv(LevelEnvVar))
	if err != nil {
		lvl = slog.LevelWarn
	}

	LevelVar.Set(lvl)
}

// New returns a copy of ctx carrying logger.
// If logger is nil, DefaultLogger is used.
func New(ctx context.Context, logger *slog.Logger) context.Context {
	if logger == nil {
		logger = DefaultLogger
	}

	return context.WithValue(ctx, loggerKey{}, logger)
}

// Logger returns the logger from the context, or the default logger if not found.
func Logger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok || logger == nil {
		return DefaultLogger
	}

	return logger
}

// Info logs an info message with the given context.
func Info(ctx context.Context, msg string, args ...any) {
	Logger(ctx).InfoContext(ctx, msg, args...)
}

// Debug logs a debug message with the given context.
func Debug(ctx context.Context, msg string, args ...any) {
	Logger(ctx).DebugContext(ctx, msg, args...)
}

// Warn logs a warning message with the given context.
func Warn(ctx context.Context, msg string, args ...any) {
	Logger(ctx).WarnContext(ctx, msg, args...)
}

// Error logs an error message with the given context.
func Error(ctx context.Context, msg string, args ...any) {
	Logger(ctx).ErrorContext(ctx, msg, args...)
}

// ParseLevel converts DEBUG, INFO, WARN or ERROR (any case) to a slog.Level.
// The empty string means WARN.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO":
		return slog.LevelInfo, nil
	case "WARN", "WARNING", "":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
	}
}

// NewLogger builds a logger for the given format writing to w.
func NewLogger(format string, w io.Writer) (*slog.Logger, error) {
	opts := &slog.HandlerOptions{Level: LevelVar}

	switch strings.ToLower(format) {
	case FormatConsole, "":
		return slog.New(NewConsoleHandler(w, opts)), nil
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
