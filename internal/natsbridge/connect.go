// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package natsbridge

import (
	"context"
	"fmt"
	"time"

	"github.com/matt-FFFFFF/cmdhost/internal/config"
	"github.com/matt-FFFFFF/cmdhost/internal/ctxlog"
	"github.com/nats-io/nats.go"
)

// Connect dials the NATS server described by cfg.
func Connect(ctx context.Context, cfg config.NATS) (*nats.Conn, error) {
	nc, err := nats.Connect(cfg.URL,
		nats.Name(cfg.Name),
		nats.Timeout(cfg.Timeout()),
		nats.MaxReconnects(5),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				ctxlog.Warn(ctx, "natsbridge", "detail", "disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			ctxlog.Info(ctx, "natsbridge", "detail", "reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", cfg.URL, err)
	}

	return nc, nil
}
