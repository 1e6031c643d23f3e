// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package peer defines the contract between a command facade and the remote process
// that actually registers, unregisters and executes commands.
//
// The facade only ever calls the three operations of Peer. Everything else a peer can
// do is expressed as an optional interface, so any type with the three methods can be
// substituted in tests.
package peer
