// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package serve implements the serve subcommand, which runs the host.
package serve

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/matt-FFFFFF/cmdhost/cmd/cmdstate"
	"github.com/matt-FFFFFF/cmdhost/internal/ctxlog"
	"github.com/matt-FFFFFF/cmdhost/internal/events"
	"github.com/matt-FFFFFF/cmdhost/internal/host"
	"github.com/matt-FFFFFF/cmdhost/internal/metrics"
	"github.com/matt-FFFFFF/cmdhost/internal/natsbridge"
	"github.com/matt-FFFFFF/cmdhost/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

const (
	shutdownTimeout   = 5 * time.Second
	readHeaderTimeout = 5 * time.Second
)

// ServeCmd runs the host until it receives a termination signal.
var ServeCmd = &cli.Command{
	Name:  "serve",
	Usage: "Run the command host",
	Description: `Serve the host over NATS. Facades register their commands with it and execute
commands through it. Prometheus metrics are exposed on /metrics at the configured address.`,
	Action: actionFunc,
}

func actionFunc(ctx context.Context, _ *cli.Command) error {
	cfg := cmdstate.Config(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigCh := signalbroker.New(ctx)
	defer signalbroker.Stop(sigCh)

	go signalbroker.Watch(ctx, sigCh, cancel, true)

	collector := metrics.New()
	reporter := events.NewChannelReporter(0)
	reporter.Listen(events.ListenerFunc(func(e events.Event) {
		collector.OnEvent(e)
		ctxlog.Debug(ctx, "serve", "detail", "event", "command", e.CommandID, "type", e.Type.String())
	}))

	defer reporter.Close()

	h := host.New(host.WithReporter(reporter))
	if err := host.RegisterStandardBuiltins(h); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	nc, err := natsbridge.Connect(ctx, cfg.NATS)
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer nc.Close()

	srv := natsbridge.NewServer(nc, h, cfg.NATS.SubjectPrefix, cfg.NATS.Timeout())
	if err := srv.Serve(ctx); err != nil {
		return cli.Exit(err.Error(), 1)
	}
	defer srv.Close()

	if cfg.Metrics.Listen != "" {
		stop := serveMetrics(ctx, cfg.Metrics.Listen, collector.Handler())
		defer stop()
	}

	ctxlog.Info(ctx, "serve", "detail", "host ready", "nats_url", cfg.NATS.URL, "prefix", cfg.NATS.SubjectPrefix)

	<-ctx.Done()

	ctxlog.Info(ctx, "serve", "detail", "shutting down")

	return nil
}

// serveMetrics serves handler on /metrics and returns a function that shuts the server down.
func serveMetrics(ctx context.Context, addr string, handler http.Handler) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", handler)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ctxlog.Error(ctx, "serve", "detail", "metrics server failed", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			ctxlog.Warn(ctx, "serve", "detail", "metrics server shutdown", "error", err)
		}
	}
}
