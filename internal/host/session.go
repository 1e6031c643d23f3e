// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package host

import (
	"context"
	"errors"

	"github.com/matt-FFFFFF/cmdhost/internal/ctxlog"
	"github.com/matt-FFFFFF/cmdhost/internal/peer"
)

// ErrSessionClosed is returned when a closed session is used to announce a command.
var ErrSessionClosed = errors.New("session closed")

// Session is one facade's view of a Host. It implements peer.Peer.
type Session struct {
	host        *Host
	contributor peer.Contributor
	closed      bool // guarded by host.mu
}

// RegisterCommand records that the session's facade owns id.
// A command already contributed by another session is taken over.
func (s *Session) RegisterCommand(ctx context.Context, id string) error {
	ctxlog.Debug(ctx, "host", "detail", "contributed command registered", "command", id)

	return s.host.addContributed(ctx, s, id)
}

// UnregisterCommand removes id if this session still owns it.
func (s *Session) UnregisterCommand(ctx context.Context, id string) error {
	ctxlog.Debug(ctx, "host", "detail", "contributed command unregistered", "command", id)
	s.host.removeContributed(s, id)

	return nil
}

// ExecuteCommand implements peer.Peer by delegating to the host.
func (s *Session) ExecuteCommand(ctx context.Context, id string, args []any, retry bool) (any, error) {
	return s.host.ExecuteCommand(ctx, id, args, retry)
}

// GetCommands implements peer.CommandLister.
func (s *Session) GetCommands(ctx context.Context) ([]string, error) {
	return s.host.GetCommands(ctx)
}

// Commands returns the ids currently owned by the session.
func (s *Session) Commands() []string {
	return s.host.ownedBy(s)
}

// Close drops every command the session owns. It is safe to call more than once.
func (s *Session) Close() {
	s.host.closeSession(s)
}
