// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package cmdstate

import (
	"context"

	"github.com/google/uuid"
	"github.com/matt-FFFFFF/cmdhost/internal/commands"
	"github.com/matt-FFFFFF/cmdhost/internal/ctxlog"
	"github.com/matt-FFFFFF/cmdhost/internal/natsbridge"
	"github.com/matt-FFFFFF/cmdhost/internal/registry"
)

// Facade connects to NATS using the configuration in ctx and returns a facade whose
// peer is the host. The returned function ends the session and closes the connection.
func Facade(ctx context.Context) (*commands.Facade, func(), error) {
	cfg := Config(ctx)

	nc, err := natsbridge.Connect(ctx, cfg.NATS)
	if err != nil {
		return nil, nil, err
	}

	id := uuid.NewString()
	client := natsbridge.NewClient(nc, cfg.NATS.SubjectPrefix, id, cfg.NATS.Timeout())

	f := commands.New(client,
		commands.WithInstanceID(id),
		commands.WithRegistry(registry.New(cfg.Registry.Policy())),
	)

	closeFn := func() {
		if err := client.Close(ctx); err != nil {
			ctxlog.Debug(ctx, "cmdstate", "detail", "closing client", "error", err)
		}

		nc.Close()
	}

	return f, closeFn, nil
}
