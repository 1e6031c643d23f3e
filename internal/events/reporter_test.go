// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package events

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type collector struct {
	mu     sync.Mutex
	events []Event
}

func (c *collector) OnEvent(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.events = append(c.events, e)
}

func (c *collector) all() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]Event(nil), c.events...)
}

func TestChannelReporterListen(t *testing.T) {
	r := NewChannelReporter(8)
	c := &collector{}
	r.Listen(c)

	r.Report(New("facade", "foo", EventRegistered, EventData{Global: true}))
	r.Report(New("facade", "foo", EventExecuted, EventData{Attempt: 1}))
	r.Close()

	got := c.all()
	require.Len(t, got, 2)
	assert.Equal(t, EventRegistered, got[0].Type)
	assert.True(t, got[0].Data.Global)
	assert.Equal(t, "facade", got[0].Source)
	assert.Equal(t, EventExecuted, got[1].Type)
	assert.False(t, got[1].Timestamp.IsZero())
}

func TestChannelReporterDropsWhenFull(t *testing.T) {
	r := NewChannelReporter(1)

	r.Report(New("host", "a", EventExecuted, EventData{}))
	r.Report(New("host", "b", EventExecuted, EventData{}))
	r.Report(New("host", "c", EventExecuted, EventData{}))

	assert.Equal(t, uint64(2), r.Dropped())

	e := <-r.Events()
	assert.Equal(t, "a", e.CommandID)
	r.Close()
}

func TestChannelReporterReportAfterClose(t *testing.T) {
	r := NewChannelReporter(0)
	r.Close()
	r.Close()

	assert.NotPanics(t, func() {
		r.Report(New("facade", "foo", EventFailed, EventData{Error: errors.New("boom")}))
	})

	_, ok := <-r.Events()
	assert.False(t, ok)
}

func TestMultiReporter(t *testing.T) {
	a := NewChannelReporter(4)
	b := NewChannelReporter(4)
	ca, cb := &collector{}, &collector{}
	a.Listen(ca)
	b.Listen(cb)

	m := MultiReporter{a, b, NewNullReporter()}
	m.Report(New("facade", "foo", EventRetried, EventData{Attempt: 2}))
	m.Close()

	assert.Len(t, ca.all(), 1)
	assert.Len(t, cb.all(), 1)
}

func TestEventTypeString(t *testing.T) {
	tests := map[EventType]string{
		EventRegistered:   "registered",
		EventUnregistered: "unregistered",
		EventExecuted:     "executed",
		EventRetried:      "retried",
		EventFailed:       "failed",
		EventPeerError:    "peer_error",
		EventType(99):     "unknown",
	}

	for et, want := range tests {
		assert.Equal(t, want, et.String())
	}
}
