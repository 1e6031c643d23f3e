// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the cmdhost command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/cmdhost"
	"github.com/matt-FFFFFF/cmdhost/cmd"
	"github.com/matt-FFFFFF/cmdhost/internal/ctxlog"
	"github.com/matt-FFFFFF/cmdhost/internal/signalbroker"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)

	go signalbroker.Watch(ctx, sigCh, cancel, false)

	cmd.RootCmd.Version = fmt.Sprintf("%s (commit: %s)", cmdhost.Version, cmdhost.Commit)

	err := cmd.RootCmd.Run(ctx, os.Args)

	signalbroker.Stop(sigCh)

	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("command terminated due to cancellation", "error", ctx.Err())
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command failed", "error", err)
		os.Exit(1)
	}
}
