// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package host implements the peer side of the command contract.
//
// A Host owns built-in commands and keeps track of the commands announced by attached
// facades. Each facade talks to the host through its own Session, so an execution of a
// contributed command is routed back to the facade that announced it.
//
// When an unknown command is executed with the retry flag and at least one argument,
// the host runs its activator and answers with peer.ErrRetryable, giving the caller one
// chance to find the command after activation.
package host
