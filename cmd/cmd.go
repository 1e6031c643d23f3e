// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"context"
	"errors"
	"os"

	"github.com/matt-FFFFFF/cmdhost/cmd/cmdstate"
	"github.com/matt-FFFFFF/cmdhost/cmd/config"
	"github.com/matt-FFFFFF/cmdhost/cmd/execute"
	"github.com/matt-FFFFFF/cmdhost/cmd/list"
	"github.com/matt-FFFFFF/cmdhost/cmd/serve"
	cfgpkg "github.com/matt-FFFFFF/cmdhost/internal/config"
	"github.com/matt-FFFFFF/cmdhost/internal/ctxlog"
	"github.com/urfave/cli/v3"
)

const configFlag = "config"

// ErrConfigure is returned when the configuration cannot be loaded or applied.
var ErrConfigure = errors.New("failed to configure cmdhost")

// RootCmd is the root command for the CLI.
var RootCmd = &cli.Command{
	Commands: []*cli.Command{
		config.ConfigCmd,
		execute.ExecCmd,
		list.ListCmd,
		serve.ServeCmd,
	},
	Flags:     rootFlags(),
	Before:    before,
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "cmdhost",
	Description: `cmdhost dispatches named commands between processes over NATS.
A host process owns built-in commands and keeps track of the commands that connected
facades contribute. Facades execute commands by name; a command the host does not know
yet is retried once after the host has had a chance to activate it.`,
	Usage:     "cmdhost serve",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}

func rootFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:      configFlag,
			Aliases:   []string{"c"},
			Usage:     "Path to a YAML configuration file. Environment variables prefixed CMDHOST_ override it.",
			Sources:   cli.EnvVars("CMDHOST_CONFIG"),
			TakesFile: true,
		},
	}
}

// before loads the configuration and replaces the context logger with one built from it.
func before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := cfgpkg.Load(cmd.String(configFlag))
	if err != nil {
		return ctx, errors.Join(ErrConfigure, err)
	}

	level, err := ctxlog.ParseLevel(cfg.Log.Level)
	if err != nil {
		return ctx, errors.Join(ErrConfigure, err)
	}

	ctxlog.LevelVar.Set(level)

	logger, err := ctxlog.NewLogger(cfg.Log.Format, cmd.Root().ErrWriter)
	if err != nil {
		return ctx, errors.Join(ErrConfigure, err)
	}

	ctx = ctxlog.New(ctx, logger)
	ctxlog.Debug(ctx, "cmd", "detail", "configuration loaded", "nats_url", cfg.NATS.URL)

	return cmdstate.WithConfig(ctx, cfg), nil
}
