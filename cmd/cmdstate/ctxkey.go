// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmdstate carries the loaded configuration from the root command to its
// subcommands through the context.
package cmdstate

import (
	"context"

	"github.com/matt-FFFFFF/cmdhost/internal/config"
)

type configKey struct{}

// WithConfig returns a copy of ctx holding cfg.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// Config returns the configuration stored in ctx, or the defaults when there is none.
func Config(ctx context.Context) *config.Config {
	if cfg, ok := ctx.Value(configKey{}).(*config.Config); ok && cfg != nil {
		return cfg
	}

	return config.Default()
}
