// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package host

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/matt-FFFFFF/cmdhost/internal/ctxlog"
	"github.com/matt-FFFFFF/cmdhost/internal/events"
	"github.com/matt-FFFFFF/cmdhost/internal/peer"
	"github.com/matt-FFFFFF/cmdhost/internal/registry"
)

const eventSource = "host"

var (
	_ peer.Peer          = (*Session)(nil)
	_ peer.CommandLister = (*Session)(nil)
	_ peer.CommandLister = (*Host)(nil)
)

// Activator is called before the host answers a retryable request for an unknown
// command, for example to start the component that contributes it.
type Activator func(ctx context.Context, id string) error

// Host is the peer-side command service. It is safe for concurrent use.
type Host struct {
	builtins    *registry.Registry
	contributed map[string]*Session
	mu          sync.RWMutex
	activator   Activator
	reporter    events.Reporter
}

// Option configures a Host.
type Option func(h *Host)

// WithActivator sets the function run when a retryable request names an unknown command.
func WithActivator(a Activator) Option {
	return func(h *Host) {
		h.activator = a
	}
}

// WithReporter sets the reporter that receives lifecycle events.
func WithReporter(r events.Reporter) Option {
	return func(h *Host) {
		h.reporter = r
	}
}

// New creates an empty Host.
func New(opts ...Option) *Host {
	h := &Host{
		builtins:    registry.New(registry.DuplicateReject),
		contributed: make(map[string]*Session),
	}

	for _, opt := range opts {
		opt(h)
	}

	if h.reporter == nil {
		h.reporter = events.NewNullReporter()
	}

	return h
}

// RegisterBuiltin registers a command owned by the host itself.
// An id is either a builtin or a contributed command, never both.
func (h *Host) RegisterBuiltin(id string, handler registry.Handler) error {
	h.mu.Lock()
	if _, taken := h.contributed[id]; taken {
		h.mu.Unlock()
		return fmt.Errorf("%w: %s", registry.ErrCommandExists, id)
	}

	_, err := h.builtins.Add(&registry.Entry{ID: id, Handler: handler})
	h.mu.Unlock()

	if err != nil {
		return err
	}

	h.reporter.Report(events.New(eventSource, id, events.EventRegistered, events.EventData{}))

	return nil
}

// Attach returns a Session through which a facade announces and executes commands.
// Executions of commands announced through the session are sent to c.
func (h *Host) Attach(c peer.Contributor) *Session {
	return &Session{host: h, contributor: c}
}

// HasCommand reports whether id is a built-in or contributed command.
func (h *Host) HasCommand(id string) bool {
	if h.builtins.Has(id) {
		return true
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.contributed[id]

	return ok
}

// GetCommands returns every known command id in sorted order.
func (h *Host) GetCommands(_ context.Context) ([]string, error) {
	ids := h.builtins.IDs()

	h.mu.RLock()
	for id := range h.contributed {
		ids = append(ids, id)
	}
	h.mu.RUnlock()

	slices.Sort(ids)

	return slices.Compact(ids), nil
}

// ExecuteCommand runs a built-in command or routes a contributed one to its owner.
// Unknown commands yield peer.ErrRetryable when retry is set and args is not empty,
// and peer.ErrCommandNotFound otherwise.
func (h *Host) ExecuteCommand(ctx context.Context, id string, args []any, retry bool) (any, error) {
	if entry, ok := h.builtins.Get(id); ok {
		return h.run(id, func() (any, error) {
			ctxlog.Debug(ctx, "host", "detail", "executing builtin", "command", id)
			return entry.Handler(ctx, args...)
		})
	}

	h.mu.RLock()
	owner, ok := h.contributed[id]
	h.mu.RUnlock()

	if ok {
		return h.run(id, func() (any, error) {
			ctxlog.Debug(ctx, "host", "detail", "routing to contributor", "command", id)
			return owner.contributor.ExecuteContributedCommand(ctx, id, args)
		})
	}

	if retry && len(args) > 0 {
		if h.activator != nil {
			if err := h.activator(ctx, id); err != nil {
				ctxlog.Warn(ctx, "host", "detail", "activation failed", "command", id, "error", err)
			}
		}

		ctxlog.Debug(ctx, "host", "detail", "unknown command, asking caller to retry", "command", id)

		err := peer.NewRetryableError(id)
		h.reporter.Report(events.New(eventSource, id, events.EventRetried, events.EventData{Attempt: 1, Error: err}))

		return nil, err
	}

	err := peer.NewNotFoundError(id)
	h.reporter.Report(events.New(eventSource, id, events.EventFailed, events.EventData{Error: err}))

	return nil, err
}

func (h *Host) run(id string, fn func() (any, error)) (any, error) {
	res, err := fn()
	if err != nil {
		h.reporter.Report(events.New(eventSource, id, events.EventFailed, events.EventData{Attempt: 1, Error: err}))
		return nil, err
	}

	h.reporter.Report(events.New(eventSource, id, events.EventExecuted, events.EventData{Attempt: 1}))

	return res, nil
}

func (h *Host) addContributed(ctx context.Context, s *Session, id string) error {
	h.mu.Lock()
	if s.closed {
		h.mu.Unlock()
		return ErrSessionClosed
	}

	if h.builtins.Has(id) {
		h.mu.Unlock()
		return fmt.Errorf("%w: %s", registry.ErrCommandExists, id)
	}

	prev, ok := h.contributed[id]
	h.contributed[id] = s
	h.mu.Unlock()

	switch {
	case ok && prev == s:
		return nil
	case ok:
		ctxlog.Warn(ctx, "host", "detail", "command contributed again, last registration wins", "command", id)
		h.reporter.Report(events.New(eventSource, id, events.EventUnregistered, events.EventData{Global: true}))
	}

	h.reporter.Report(events.New(eventSource, id, events.EventRegistered, events.EventData{Global: true}))

	return nil
}

func (h *Host) removeContributed(s *Session, id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.removeLocked(s, id)
}

func (h *Host) removeLocked(s *Session, id string) {
	if owner, ok := h.contributed[id]; ok && owner == s {
		delete(h.contributed, id)
		h.reporter.Report(events.New(eventSource, id, events.EventUnregistered, events.EventData{Global: true}))
	}
}

func (h *Host) closeSession(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s.closed {
		return
	}

	s.closed = true

	for id, owner := range h.contributed {
		if owner == s {
			h.removeLocked(s, id)
		}
	}
}

func (h *Host) ownedBy(s *Session) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var ids []string

	for id, owner := range h.contributed {
		if owner == s {
			ids = append(ids, id)
		}
	}

	slices.Sort(ids)

	return ids
}
