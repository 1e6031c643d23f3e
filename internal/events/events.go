// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package events

import (
	"time"
)

// Event represents something that happened to a command.
type Event struct {
	CommandID string    // The command the event is about
	Type      EventType // Event type indicating what happened
	Source    string    // Component that emitted the event, e.g. "facade" or "host"
	Timestamp time.Time // When the event occurred
	Data      EventData // Type-specific data
}

// EventType represents the type of lifecycle event.
type EventType int

const (
	// EventRegistered indicates a command was added to a registry.
	EventRegistered EventType = iota
	// EventUnregistered indicates a command was removed from a registry.
	EventUnregistered
	// EventExecuted indicates a command ran successfully.
	EventExecuted
	// EventRetried indicates a retryable failure caused a second attempt.
	EventRetried
	// EventFailed indicates a command execution failed.
	EventFailed
	// EventPeerError indicates a fire-and-forget peer notification failed.
	EventPeerError
)

// String implements the Stringer interface for EventType.
func (et EventType) String() string {
	switch et {
	case EventRegistered:
		return "registered"
	case EventUnregistered:
		return "unregistered"
	case EventExecuted:
		return "executed"
	case EventRetried:
		return "retried"
	case EventFailed:
		return "failed"
	case EventPeerError:
		return "peer_error"
	default:
		return "unknown"
	}
}

// EventData contains type-specific information for lifecycle events.
type EventData struct {
	// For EventRegistered/EventUnregistered
	Global bool

	// For EventExecuted/EventFailed
	Local   bool // Ran on a local handler without peer traffic
	Attempt int  // 1 for the first attempt, 2 for the retry

	// For EventFailed/EventPeerError
	Error error
}

// New returns an event stamped with the current time.
func New(source, commandID string, et EventType, data EventData) Event {
	return Event{
		CommandID: commandID,
		Type:      et,
		Source:    source,
		Timestamp: time.Now(),
		Data:      data,
	}
}

// Reporter is the interface for sending lifecycle events.
type Reporter interface {
	// Report sends an event. Implementations must not block the caller.
	Report(event Event)
	// Close signals that no more events will be sent and cleans up resources.
	Close()
}

// Listener receives lifecycle events.
type Listener interface {
	// OnEvent is called for every event delivered to the listener.
	OnEvent(event Event)
}

// ListenerFunc adapts a function to the Listener interface.
type ListenerFunc func(event Event)

// OnEvent implements Listener.
func (f ListenerFunc) OnEvent(event Event) {
	f(event)
}

// NullReporter is a no-op implementation of Reporter.
type NullReporter struct{}

// Report implements Reporter.Report by doing nothing.
func (nr *NullReporter) Report(_ Event) {}

// Close implements Reporter.Close by doing nothing.
func (nr *NullReporter) Close() {}

// NewNullReporter creates a new NullReporter.
func NewNullReporter() Reporter {
	return &NullReporter{}
}
