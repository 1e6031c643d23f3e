// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package commands provides the command facade used by a process that contributes
// commands to a remote peer.
//
// Callers register handlers by id and execute commands by id without knowing where the
// command lives. Local handlers run directly. Anything else is sent to the peer, and a
// retryable answer from the peer causes exactly one more attempt with the retry flag
// cleared.
package commands
