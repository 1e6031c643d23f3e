// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package list implements the list subcommand.
package list

import (
	"context"
	"fmt"

	"github.com/matt-FFFFFF/cmdhost/cmd/cmdstate"
	"github.com/urfave/cli/v3"
)

const allFlag = "all"

// ListCmd lists the commands known to the host.
var ListCmd = &cli.Command{
	Name:  "list",
	Usage: "List the commands known to the host",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:        allFlag,
			Aliases:     []string{"a"},
			Usage:       "Include internal commands whose id starts with an underscore",
			Value:       false,
			DefaultText: "false",
			OnlyOnce:    true,
		},
	},
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	f, closeFn, err := cmdstate.Facade(ctx)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer closeFn()

	ids, err := f.GetCommands(ctx, !cmd.Bool(allFlag))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	for _, id := range ids {
		fmt.Fprintln(cmd.Root().Writer, id) //nolint:errcheck
	}

	return nil
}
