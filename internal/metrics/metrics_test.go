// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/matt-FFFFFF/cmdhost/internal/events"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorCounts(t *testing.T) {
	c := New()

	c.OnEvent(events.New("facade", "a", events.EventRegistered, events.EventData{Global: true}))
	c.OnEvent(events.New("facade", "b", events.EventRegistered, events.EventData{}))
	c.OnEvent(events.New("facade", "a", events.EventUnregistered, events.EventData{Global: true}))
	c.OnEvent(events.New("facade", "x", events.EventRetried, events.EventData{Attempt: 1}))
	c.OnEvent(events.New("facade", "x", events.EventExecuted, events.EventData{Attempt: 2}))
	c.OnEvent(events.New("host", "y", events.EventFailed, events.EventData{Error: errors.New("boom")}))
	c.OnEvent(events.New("facade", "a", events.EventPeerError, events.EventData{Error: errors.New("gone")}))

	assert.InDelta(t, 2, testutil.ToFloat64(c.registered.WithLabelValues("facade")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.unregistered.WithLabelValues("facade")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.active.WithLabelValues("facade")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.retries.WithLabelValues("facade")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.executions.WithLabelValues("facade", OutcomeSuccess)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.executions.WithLabelValues("host", OutcomeFailure)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.peerErrors.WithLabelValues("facade")), 0)
}

func TestCollectorWithChannelReporter(t *testing.T) {
	c := New()
	r := events.NewChannelReporter(8)
	r.Listen(c)

	r.Report(events.New("host", "a", events.EventExecuted, events.EventData{}))
	r.Report(events.New("host", "a", events.EventExecuted, events.EventData{}))
	r.Close()

	assert.InDelta(t, 2, testutil.ToFloat64(c.executions.WithLabelValues("host", OutcomeSuccess)), 0)
}

func TestHandler(t *testing.T) {
	c := New()
	c.OnEvent(events.New("host", "a", events.EventRegistered, events.EventData{}))

	srv := httptest.NewServer(c.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)

	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `cmdhost_commands_registered_total{source="host"} 1`)
	assert.Contains(t, string(body), `cmdhost_commands_active{source="host"} 1`)
}
