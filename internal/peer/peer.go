// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package peer

import "context"

// Peer is the remote counterpart of a command facade.
type Peer interface {
	// RegisterCommand announces that the caller now owns the command id.
	RegisterCommand(ctx context.Context, id string) error
	// UnregisterCommand withdraws a previous announcement.
	UnregisterCommand(ctx context.Context, id string) error
	// ExecuteCommand runs the command id with args.
	// When retry is true the peer may answer with ErrRetryable to ask the caller
	// to issue the request once more, for example because the command is still
	// being registered.
	ExecuteCommand(ctx context.Context, id string, args []any, retry bool) (any, error)
}

// CommandLister is implemented by peers that can enumerate the commands they know.
type CommandLister interface {
	GetCommands(ctx context.Context) ([]string, error)
}

// Contributor runs commands that are owned by the other side of the connection.
// The host uses it to route an execution back to the facade that registered the command.
type Contributor interface {
	ExecuteContributedCommand(ctx context.Context, id string, args []any) (any, error)
}

// ContributorFunc adapts a plain function to the Contributor interface.
type ContributorFunc func(ctx context.Context, id string, args []any) (any, error)

// ExecuteContributedCommand implements Contributor.
func (f ContributorFunc) ExecuteContributedCommand(ctx context.Context, id string, args []any) (any, error) {
	return f(ctx, id, args)
}
