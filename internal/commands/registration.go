// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package commands

import (
	"context"
	"sync/atomic"

	"github.com/matt-FFFFFF/cmdhost/internal/ctxlog"
	"github.com/matt-FFFFFF/cmdhost/internal/events"
	"github.com/matt-FFFFFF/cmdhost/internal/registry"
)

// Registration is the handle returned by Facade.RegisterCommand.
type Registration struct {
	facade   *Facade
	entry    *registry.Entry
	disposed atomic.Bool
}

// ID returns the command id.
func (r *Registration) ID() string {
	return r.entry.ID
}

// Global reports whether the command was announced to the peer.
func (r *Registration) Global() bool {
	return r.entry.Global
}

// Disposed reports whether Dispose has been called.
func (r *Registration) Disposed() bool {
	return r.disposed.Load()
}

// Dispose removes the command from the local registry if this registration is still
// the active one and, for a global command, tells the peer exactly once.
// Calling Dispose again, or concurrently, has no further effect. It never fails;
// a peer error is logged and reported.
func (r *Registration) Dispose(ctx context.Context) {
	if !r.disposed.CompareAndSwap(false, true) {
		return
	}

	f := r.facade

	f.announceMu.Lock()
	defer f.announceMu.Unlock()

	if !f.registry.Remove(r.entry) {
		ctxlog.Debug(ctx, "facade", "detail", "registration already replaced", "command", r.entry.ID)
		return
	}

	ctxlog.Debug(ctx, "facade", "detail", "unregistered command", "command", r.entry.ID)

	if r.entry.Global {
		f.notifyPeer(ctx, r.entry.ID, f.peer.UnregisterCommand)
	}

	f.reporter.Report(events.New(eventSource, r.entry.ID, events.EventUnregistered, events.EventData{Global: r.entry.Global}))
}
