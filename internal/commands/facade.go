// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package commands

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/matt-FFFFFF/cmdhost/internal/ctxlog"
	"github.com/matt-FFFFFF/cmdhost/internal/events"
	"github.com/matt-FFFFFF/cmdhost/internal/peer"
	"github.com/matt-FFFFFF/cmdhost/internal/registry"
)

const eventSource = "facade"

var _ peer.Contributor = (*Facade)(nil)

// ErrListCommands is returned when the peer fails to list its commands.
var ErrListCommands = errors.New("failed to list peer commands")

// Handler is the function run when a command is executed.
type Handler = registry.Handler

// ErrHandlerPanic is returned when a command handler panics.
// It is constructed with the command id and the value that caused the panic.
type ErrHandlerPanic struct {
	id string
	v  any
}

// Error implements the error interface for ErrHandlerPanic.
func (e *ErrHandlerPanic) Error() string {
	switch x := e.v.(type) {
	case error:
		return fmt.Sprintf("command %q panicked: %s", e.id, x.Error())
	default:
		return fmt.Sprintf("command %q panicked: %v", e.id, x)
	}
}

// Unwrap returns the panic value when it is an error.
func (e *ErrHandlerPanic) Unwrap() error {
	err, _ := e.v.(error)
	return err
}

// NewErrHandlerPanic creates a new ErrHandlerPanic.
func NewErrHandlerPanic(id string, v any) error {
	return &ErrHandlerPanic{id: id, v: v}
}

// Facade registers command handlers locally and with a peer, and executes commands by id.
// It is safe for concurrent use.
type Facade struct {
	peer       peer.Peer
	registry   *registry.Registry
	reporter   events.Reporter
	instanceID string

	// announceMu orders each registry change with its peer notification, so the peer
	// sees registrations and disposals in the order the registry applied them.
	announceMu sync.Mutex
}

// Option configures a Facade.
type Option func(f *Facade)

// WithRegistry sets the local registry. The default rejects duplicate ids.
func WithRegistry(r *registry.Registry) Option {
	return func(f *Facade) {
		f.registry = r
	}
}

// WithReporter sets the reporter that receives lifecycle events.
func WithReporter(r events.Reporter) Option {
	return func(f *Facade) {
		f.reporter = r
	}
}

// WithInstanceID sets the id that identifies this facade to the peer.
// The default is a random UUID.
func WithInstanceID(id string) Option {
	return func(f *Facade) {
		f.instanceID = id
	}
}

// New creates a Facade that talks to p.
func New(p peer.Peer, opts ...Option) *Facade {
	f := &Facade{
		peer: p,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.registry == nil {
		f.registry = registry.New(registry.DuplicateReject)
	}

	if f.reporter == nil {
		f.reporter = events.NewNullReporter()
	}

	if f.instanceID == "" {
		f.instanceID = uuid.NewString()
	}

	return f
}

// InstanceID returns the id that identifies this facade to the peer.
func (f *Facade) InstanceID() string {
	return f.instanceID
}

// Registry returns the local registry.
func (f *Facade) Registry() *registry.Registry {
	return f.registry
}

// RegisterCommand registers handler under id.
// A global command is also announced to the peer. The announcement is fire-and-forget:
// a peer failure is logged and reported but does not fail the registration.
func (f *Facade) RegisterCommand(ctx context.Context, global bool, id string, handler Handler) (*Registration, error) {
	entry := &registry.Entry{ID: id, Handler: handler, Global: global}

	f.announceMu.Lock()
	defer f.announceMu.Unlock()

	replaced, err := f.registry.Add(entry)
	if err != nil {
		return nil, err
	}

	logger := ctxlog.Logger(ctx).With("command", id, "global", global)
	logger.Debug("facade", "detail", "registered command", "replaced", replaced != nil)

	if replaced != nil {
		if replaced.Global && !global {
			f.notifyPeer(ctx, id, f.peer.UnregisterCommand)
		}

		f.reporter.Report(events.New(eventSource, id, events.EventUnregistered, events.EventData{Global: replaced.Global}))
	}

	if global {
		f.notifyPeer(ctx, id, f.peer.RegisterCommand)
	}

	f.reporter.Report(events.New(eventSource, id, events.EventRegistered, events.EventData{Global: global}))

	return &Registration{facade: f, entry: entry}, nil
}

func (f *Facade) notifyPeer(ctx context.Context, id string, call func(context.Context, string) error) {
	if err := call(ctx, id); err != nil {
		ctxlog.Warn(ctx, "facade", "detail", "peer notification failed", "command", id, "error", err)
		f.reporter.Report(events.New(eventSource, id, events.EventPeerError, events.EventData{Error: err}))
	}
}

// ExecuteCommand executes the command id with args.
//
// A locally registered command runs directly. Otherwise the peer is asked with the
// retry flag set; if it answers with a retryable error the request is issued exactly
// once more, after the first attempt has completed, with the retry flag cleared. The
// outcome of that second attempt is returned unchanged. Any other error from the first
// attempt is returned unchanged and no retry happens.
func (f *Facade) ExecuteCommand(ctx context.Context, id string, args ...any) (any, error) {
	return f.execute(ctx, id, args, true)
}

func (f *Facade) execute(ctx context.Context, id string, args []any, retry bool) (any, error) {
	attempt := 1
	if !retry {
		attempt = 2
	}

	// The command may have been registered locally while the first attempt was in flight.
	if entry, ok := f.registry.Get(id); ok {
		return f.runLocal(ctx, entry, args, attempt)
	}

	ctxlog.Debug(ctx, "facade", "detail", "executing on peer", "command", id, "retry", retry)

	res, err := f.peer.ExecuteCommand(ctx, id, args, retry)
	if err == nil {
		f.reporter.Report(events.New(eventSource, id, events.EventExecuted, events.EventData{Attempt: attempt}))
		return res, nil
	}

	if retry && peer.IsRetryable(err) {
		ctxlog.Debug(ctx, "facade", "detail", "peer asked for retry", "command", id, "error", err)
		f.reporter.Report(events.New(eventSource, id, events.EventRetried, events.EventData{Attempt: attempt, Error: err}))

		return f.execute(ctx, id, args, false)
	}

	f.reporter.Report(events.New(eventSource, id, events.EventFailed, events.EventData{Attempt: attempt, Error: err}))

	return nil, err
}

// ExecuteContributedCommand runs a locally registered handler on behalf of the peer.
func (f *Facade) ExecuteContributedCommand(ctx context.Context, id string, args []any) (any, error) {
	entry, ok := f.registry.Get(id)
	if !ok {
		err := peer.NewNotFoundError(id)
		f.reporter.Report(events.New(eventSource, id, events.EventFailed, events.EventData{Local: true, Attempt: 1, Error: err}))

		return nil, err
	}

	return f.runLocal(ctx, entry, args, 1)
}

func (f *Facade) runLocal(ctx context.Context, entry *registry.Entry, args []any, attempt int) (res any, err error) {
	defer func() {
		if r := recover(); r != nil {
			ctxlog.Error(ctx, "facade", "detail", "command handler panicked", "command", entry.ID, "panic", r)
			res, err = nil, NewErrHandlerPanic(entry.ID, r)
		}

		data := events.EventData{Local: true, Attempt: attempt, Error: err}
		if err != nil {
			f.reporter.Report(events.New(eventSource, entry.ID, events.EventFailed, data))
			return
		}

		f.reporter.Report(events.New(eventSource, entry.ID, events.EventExecuted, data))
	}()

	ctxlog.Debug(ctx, "facade", "detail", "executing local handler", "command", entry.ID)

	return entry.Handler(ctx, args...)
}

// GetCommands returns the ids known locally and, if the peer can list them, remotely.
// With filterInternal set, ids starting with an underscore are left out.
func (f *Facade) GetCommands(ctx context.Context, filterInternal bool) ([]string, error) {
	ids := f.registry.IDs()

	if lister, ok := f.peer.(peer.CommandLister); ok {
		remote, err := lister.GetCommands(ctx)
		if err != nil {
			return nil, errors.Join(ErrListCommands, err)
		}

		ids = append(ids, remote...)
	}

	if filterInternal {
		ids = slices.DeleteFunc(ids, func(id string) bool {
			return strings.HasPrefix(id, "_")
		})
	}

	slices.Sort(ids)

	return slices.Compact(ids), nil
}
