// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package signalbroker

import (
	"context"
	"os"

	"github.com/matt-FFFFFF/cmdhost/internal/ctxlog"
)

// Watch cancels the context on the second signal of the same type.
// With graceful set the first signal already cancels; serve uses this so that a
// single Ctrl-C shuts the host down.
// Watch returns after cancelling, when the channel is closed or when the context is done.
func Watch(ctx context.Context, sigCh chan os.Signal, cancel context.CancelFunc, graceful bool) {
	seen := make(map[os.Signal]struct{})

	for {
		select {
		case <-ctx.Done():
			return
		case sig, ok := <-sigCh:
			if !ok {
				return
			}

			_, dup := seen[sig]
			seen[sig] = struct{}{}

			if dup || graceful {
				ctxlog.Info(ctx, "watchdog", "detail", "terminating", "signal", sig.String(), "repeat", dup)
				cancel()

				return
			}

			ctxlog.Info(ctx, "watchdog", "detail", "received first signal of type, send again to terminate", "signal", sig.String())
		}
	}
}
