// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config implements the config subcommand.
package config

import (
	"context"
	"errors"
	"io"

	"github.com/goccy/go-yaml"
	"github.com/matt-FFFFFF/cmdhost/cmd/cmdstate"
	cfgpkg "github.com/matt-FFFFFF/cmdhost/internal/config"
	"github.com/urfave/cli/v3"
)

// ErrWriteConfig is returned when the configuration cannot be written.
var ErrWriteConfig = errors.New("failed to write configuration")

// ConfigCmd prints the effective configuration.
var ConfigCmd = &cli.Command{
	Name:  "config",
	Usage: "Print the effective configuration as YAML",
	Description: `Print the configuration after defaults, the configuration file and
CMDHOST_* environment variables have been applied.`,
	Action: func(ctx context.Context, cmd *cli.Command) error {
		return Write(cmd.Root().Writer, cmdstate.Config(ctx))
	},
}

// Write encodes cfg as YAML to w.
func Write(w io.Writer, cfg *cfgpkg.Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Join(ErrWriteConfig, err)
	}

	if _, err := w.Write(data); err != nil {
		return errors.Join(ErrWriteConfig, err)
	}

	return nil
}
