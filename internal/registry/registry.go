// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var (
	// ErrInvalidCommandID is returned when a command id is empty or only whitespace.
	ErrInvalidCommandID = errors.New("invalid command id")
	// ErrCommandExists is returned when an id is already registered and the policy is DuplicateReject.
	ErrCommandExists = errors.New("command already exists")
	// ErrNilHandler is returned when an entry has no handler.
	ErrNilHandler = errors.New("command handler is nil")
)

// Handler runs a command. It receives the arguments exactly as the caller passed them.
type Handler func(ctx context.Context, args ...any) (any, error)

// Entry is a single registered command.
// Entries are compared by identity, so a stale entry never matches its replacement.
type Entry struct {
	ID      string
	Handler Handler
	Global  bool // Global entries are announced to the peer.
}

// Registry holds the mapping between command ids and their active entries.
// It is safe for concurrent use.
type Registry struct {
	policy  DuplicatePolicy
	entries map[string]*Entry
	mu      sync.RWMutex
}

// New creates an empty Registry with the given duplicate policy.
func New(policy DuplicatePolicy) *Registry {
	return &Registry{
		policy:  policy,
		entries: make(map[string]*Entry),
	}
}

// Policy returns the duplicate policy of the registry.
func (r *Registry) Policy() DuplicatePolicy {
	return r.policy
}

// Add makes e the active entry for e.ID.
// If the id was already registered and the policy is DuplicateReplace, the replaced
// entry is returned.
func (r *Registry) Add(e *Entry) (*Entry, error) {
	if e == nil || strings.TrimSpace(e.ID) == "" {
		return nil, ErrInvalidCommandID
	}

	if e.Handler == nil {
		return nil, fmt.Errorf("%w: %s", ErrNilHandler, e.ID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.entries[e.ID]
	if ok && r.policy == DuplicateReject {
		return nil, fmt.Errorf("%w: %s", ErrCommandExists, e.ID)
	}

	r.entries[e.ID] = e

	return existing, nil
}

// Remove deletes e from the registry if, and only if, it is still the active entry
// for its id. The lookup and the delete happen under one lock.
func (r *Registry) Remove(e *Entry) bool {
	if e == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if cur, ok := r.entries[e.ID]; !ok || cur != e {
		return false
	}

	delete(r.entries, e.ID)

	return true
}

// Get returns the active entry for id.
func (r *Registry) Get(id string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.entries[id]

	return e, ok
}

// Has reports whether id has an active entry.
func (r *Registry) Has(id string) bool {
	_, ok := r.Get(id)
	return ok
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	ids := make([]string, 0, len(r.entries))

	for id := range r.entries {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	slices.Sort(ids)

	return ids
}

// Len returns the number of active entries.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}
