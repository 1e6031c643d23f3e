// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package host

import (
	"context"
	"errors"
)

// Built-in command ids registered by RegisterStandardBuiltins.
const (
	CmdPing         = "_host.ping"
	CmdEcho         = "host.echo"
	CmdListCommands = "host.listCommands"
)

// RegisterStandardBuiltins registers the commands every host offers.
func RegisterStandardBuiltins(h *Host) error {
	return errors.Join(
		h.RegisterBuiltin(CmdPing, func(_ context.Context, _ ...any) (any, error) {
			return "pong", nil
		}),
		h.RegisterBuiltin(CmdEcho, func(_ context.Context, args ...any) (any, error) {
			if len(args) == 1 {
				return args[0], nil
			}

			return args, nil
		}),
		h.RegisterBuiltin(CmdListCommands, func(ctx context.Context, _ ...any) (any, error) {
			return h.GetCommands(ctx)
		}),
	)
}
