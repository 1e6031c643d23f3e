// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package peer

import (
	"errors"
	"fmt"
)

var (
	// ErrRetryable signals that the peer could not run the command yet and that
	// the same request may succeed if it is issued once more.
	ErrRetryable = errors.New("command not available yet, retry")
	// ErrCommandNotFound is returned when no handler is registered for a command id.
	ErrCommandNotFound = errors.New("command not found")
)

// NewRetryableError returns an error that wraps ErrRetryable for the command id.
func NewRetryableError(id string) error {
	return fmt.Errorf("%w: %s", ErrRetryable, id)
}

// NewNotFoundError returns an error that wraps ErrCommandNotFound for the command id.
func NewNotFoundError(id string) error {
	return fmt.Errorf("%w: %s", ErrCommandNotFound, id)
}

// IsRetryable reports whether err carries the retry signal.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrRetryable)
}

// RemoteError is a terminal failure whose original error value was lost crossing a
// process boundary. Only the message survives.
type RemoteError struct {
	Message string
}

// Error implements the error interface for RemoteError.
func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote: %s", e.Message)
}

// NewRemoteError creates a new RemoteError with the given message.
func NewRemoteError(msg string) error {
	return &RemoteError{Message: msg}
}
