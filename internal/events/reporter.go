// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package events

import (
	"sync"
	"sync/atomic"
)

// DefaultBufferSize is the channel capacity used when a ChannelReporter is created
// with a non-positive size.
const DefaultBufferSize = 256

// ChannelReporter implements Reporter using a buffered channel.
// Events are dropped when the buffer is full or the reporter is closed.
type ChannelReporter struct {
	ch      chan Event
	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
	wg      sync.WaitGroup
	once    sync.Once
}

// NewChannelReporter creates a new ChannelReporter with the specified buffer size.
func NewChannelReporter(bufferSize int) *ChannelReporter {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	return &ChannelReporter{
		ch: make(chan Event, bufferSize),
	}
}

// Report implements Reporter.Report.
func (cr *ChannelReporter) Report(event Event) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()

	if cr.closed {
		return
	}

	select {
	case cr.ch <- event:
	default:
		cr.dropped.Add(1)
	}
}

// Dropped returns the number of events discarded because the buffer was full.
func (cr *ChannelReporter) Dropped() uint64 {
	return cr.dropped.Load()
}

// Close implements Reporter.Close.
// It closes the channel and waits for listeners to drain it.
func (cr *ChannelReporter) Close() {
	cr.once.Do(func() {
		cr.mu.Lock()
		cr.closed = true
		close(cr.ch)
		cr.mu.Unlock()
		cr.wg.Wait()
	})
}

// Listen forwards events to listener on a new goroutine until the reporter is closed.
// Only one of Listen or Events should be used for a given reporter.
func (cr *ChannelReporter) Listen(listener Listener) {
	cr.wg.Add(1)

	go func() {
		defer cr.wg.Done()

		for event := range cr.ch {
			listener.OnEvent(event)
		}
	}()
}

// Events returns a read-only channel of events.
func (cr *ChannelReporter) Events() <-chan Event {
	return cr.ch
}

// MultiReporter fans events out to several reporters.
type MultiReporter []Reporter

// Report implements Reporter.Report.
func (m MultiReporter) Report(event Event) {
	for _, r := range m {
		r.Report(event)
	}
}

// Close implements Reporter.Close.
func (m MultiReporter) Close() {
	for _, r := range m {
		r.Close()
	}
}
