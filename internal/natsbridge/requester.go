// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package natsbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

var (
	// ErrNoResponders is returned when nobody serves the requested subject.
	ErrNoResponders = errors.New("no responders on subject")
	// ErrRequest is returned when a request fails in transport.
	ErrRequest = errors.New("nats request failed")
)

// requester sends JSON requests stamped with the instance header.
type requester struct {
	nc         *nats.Conn
	instanceID string
	timeout    time.Duration
}

func (r requester) request(ctx context.Context, subject string, payload any) (json.RawMessage, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request for %s: %w", subject, err)
	}

	msg := nats.NewMsg(subject)
	msg.Data = data
	msg.Header.Set(InstanceHeader, r.instanceID)

	if _, ok := ctx.Deadline(); !ok && r.timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	resp, err := r.nc.RequestMsgWithContext(ctx, msg)
	if err != nil {
		if errors.Is(err, nats.ErrNoResponders) {
			return nil, fmt.Errorf("%w: %s", ErrNoResponders, subject)
		}

		return nil, fmt.Errorf("%w: %s: %w", ErrRequest, subject, err)
	}

	return decodeReply(resp.Data)
}
