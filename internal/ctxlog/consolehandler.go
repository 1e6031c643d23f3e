// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/TylerBrock/colorjson"
	"github.com/matt-FFFFFF/cmdhost/internal/color"
)

var (
	// ErrMarshalAttribute is returned when an error occurs while marshaling an attribute.
	ErrMarshalAttribute = errors.New("error when marshaling attribute")
	// ErrIoWrite is returned when an error occurs while writing to the output.
	ErrIoWrite = errors.New("error when writing to output")
)

// TimeFormat is the format used for timestamps in console log lines.
const TimeFormat = "15:04:05.000"

// ConsoleHandler writes one line per record: time, level, message and the
// attributes rendered as compact JSON.
// Attributes are collected by an inner JSON handler so that groups and
// WithAttrs behave exactly as they do for slog.JSONHandler.
type ConsoleHandler struct {
	inner  slog.Handler
	buf    *bytes.Buffer
	mu     *sync.Mutex
	out    io.Writer
	colour bool
	fmt    *colorjson.Formatter
}

// NewConsoleHandler creates a ConsoleHandler writing to w.
// Colour is enabled when w is a terminal, subject to NO_COLOR and FORCE_COLOR.
func NewConsoleHandler(w io.Writer, opts *slog.HandlerOptions) *ConsoleHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}

	colour := color.EnabledFor(w)
	f := colorjson.NewFormatter()
	f.DisabledColor = !colour

	buf := &bytes.Buffer{}

	return &ConsoleHandler{
		inner: slog.NewJSONHandler(buf, &slog.HandlerOptions{
			Level:     opts.Level,
			AddSource: opts.AddSource,
			ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
				if len(groups) == 0 && (a.Key == slog.TimeKey || a.Key == slog.LevelKey || a.Key == slog.MessageKey) {
					return slog.Attr{}
				}

				if opts.ReplaceAttr != nil {
					return opts.ReplaceAttr(groups, a)
				}

				return a
			},
		}),
		buf:    buf,
		mu:     &sync.Mutex{},
		out:    w,
		colour: colour,
		fmt:    f,
	}
}

// Enabled implements slog.Handler.
func (h *ConsoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// WithAttrs implements slog.Handler.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.inner = h.inner.WithAttrs(attrs)

	return &c
}

// WithGroup implements slog.Handler.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.inner = h.inner.WithGroup(name)

	return &c
}

// Handle implements slog.Handler.
func (h *ConsoleHandler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.buf.Reset()

	if err := h.inner.Handle(ctx, r); err != nil {
		return fmt.Errorf("inner handler: %w", err)
	}

	var attrs map[string]any
	if err := json.Unmarshal(h.buf.Bytes(), &attrs); err != nil {
		return errors.Join(ErrMarshalAttribute, err)
	}

	sb := strings.Builder{}
	sb.WriteString(color.Colorize(r.Time.Format(TimeFormat), h.colour, color.Faint))
	sb.WriteString(" ")
	sb.WriteString(color.Colorize(fmt.Sprintf("%-5s", r.Level.String()), h.colour, levelColour(r.Level)))
	sb.WriteString(" ")
	sb.WriteString(r.Message)

	if len(attrs) > 0 {
		b, err := h.fmt.Marshal(attrs)
		if err != nil {
			return errors.Join(ErrMarshalAttribute, err)
		}

		sb.WriteString(" ")
		sb.Write(b)
	}

	sb.WriteString("\n")

	if _, err := io.WriteString(h.out, sb.String()); err != nil {
		return errors.Join(ErrIoWrite, err)
	}

	return nil
}

func levelColour(l slog.Level) color.Code {
	switch {
	case l < slog.LevelInfo:
		return color.FgWhite
	case l < slog.LevelWarn:
		return color.FgCyan
	case l < slog.LevelError:
		return color.FgYellow
	case l == slog.LevelError:
		return color.FgRed
	default:
		return color.FgHiMagenta
	}
}
