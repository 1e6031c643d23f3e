// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package natsbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/matt-FFFFFF/cmdhost/internal/ctxlog"
	"github.com/matt-FFFFFF/cmdhost/internal/peer"
	"github.com/nats-io/nats.go"
)

var (
	_ peer.Peer          = (*Client)(nil)
	_ peer.CommandLister = (*Client)(nil)
)

// ErrAlreadyServing is returned when ServeContributor is called twice.
var ErrAlreadyServing = errors.New("contributor already served")

// Client is a peer.Peer backed by a host reachable over NATS.
type Client struct {
	requester
	subjects Subjects
	mu       sync.Mutex
	sub      *nats.Subscription
	wg       sync.WaitGroup
	cancel   context.CancelFunc
}

// NewClient creates a Client for the facade instance instanceID.
// Requests without a context deadline use timeout.
func NewClient(nc *nats.Conn, prefix, instanceID string, timeout time.Duration) *Client {
	return &Client{
		requester: requester{nc: nc, instanceID: instanceID, timeout: timeout},
		subjects:  Subjects{Prefix: prefix},
	}
}

// RegisterCommand implements peer.Peer.
func (c *Client) RegisterCommand(ctx context.Context, id string) error {
	_, err := c.request(ctx, c.subjects.Register(), idRequest{ID: id})
	return err
}

// UnregisterCommand implements peer.Peer.
func (c *Client) UnregisterCommand(ctx context.Context, id string) error {
	_, err := c.request(ctx, c.subjects.Unregister(), idRequest{ID: id})
	return err
}

// ExecuteCommand implements peer.Peer.
func (c *Client) ExecuteCommand(ctx context.Context, id string, args []any, retry bool) (any, error) {
	raw, err := c.request(ctx, c.subjects.Execute(), executeRequest{ID: id, Args: args, Retry: retry})
	if err != nil {
		return nil, err
	}

	return decodeResult(raw)
}

// GetCommands implements peer.CommandLister.
func (c *Client) GetCommands(ctx context.Context) ([]string, error) {
	raw, err := c.request(ctx, c.subjects.List(), struct{}{})
	if err != nil {
		return nil, err
	}

	var ids []string
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &ids); err != nil {
			return nil, errors.Join(ErrDecode, err)
		}
	}

	return ids, nil
}

// ServeContributor answers the host's requests to run commands owned by this instance.
// Each request is handled on its own goroutine with a context derived from ctx.
func (c *Client) ServeContributor(ctx context.Context, contributor peer.Contributor) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sub != nil {
		return ErrAlreadyServing
	}

	ctx, cancel := context.WithCancel(ctx)
	subject := c.subjects.Contributed(c.instanceID)

	sub, err := c.nc.Subscribe(subject, func(m *nats.Msg) {
		c.mu.Lock()
		if c.sub == nil {
			c.mu.Unlock()
			return
		}

		c.wg.Add(1)
		c.mu.Unlock()

		go func() {
			defer c.wg.Done()

			var req executeRequest
			if err := json.Unmarshal(m.Data, &req); err != nil {
				respond(ctx, m, nil, errors.Join(ErrDecode, err))
				return
			}

			res, err := contributor.ExecuteContributedCommand(ctx, req.ID, req.Args)
			respond(ctx, m, res, err)
		}()
	})
	if err != nil {
		cancel()
		return fmt.Errorf("subscribe to %s: %w", subject, err)
	}

	ctxlog.Debug(ctx, "natsbridge", "detail", "serving contributed commands", "subject", subject)

	c.sub = sub
	c.cancel = cancel

	return nil
}

// Close ends the session on the host and stops serving contributed commands.
// The host is told on a best-effort basis.
func (c *Client) Close(ctx context.Context) error {
	if _, err := c.request(ctx, c.subjects.Bye(), struct{}{}); err != nil {
		ctxlog.Debug(ctx, "natsbridge", "detail", "bye not acknowledged", "error", err)
	}

	c.mu.Lock()
	sub, cancel := c.sub, c.cancel
	c.sub, c.cancel = nil, nil
	c.mu.Unlock()

	if sub == nil {
		return nil
	}

	err := sub.Unsubscribe()

	cancel()
	c.wg.Wait()

	return err
}

func respond(ctx context.Context, m *nats.Msg, result any, err error) {
	if rerr := m.Respond(encodeReply(result, err)); rerr != nil {
		ctxlog.Warn(ctx, "natsbridge", "detail", "failed to respond", "subject", m.Subject, "error", rerr)
	}
}
