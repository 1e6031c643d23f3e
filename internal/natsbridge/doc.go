// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package natsbridge carries the peer contract over NATS request/reply.
//
// A Client is the facade's peer: it sends register, unregister, execute and list
// requests to the host subjects and serves the facade's contributed commands on a
// per-instance subject. A Server exposes a host.Host on the host subjects and keeps one
// host session per facade instance, identified by the Cmdhost-Instance header.
//
// Payloads are JSON. Errors travel as a kind plus a message, and the kinds are mapped
// back to peer.ErrRetryable and peer.ErrCommandNotFound on the receiving side, so the
// retry contract survives the transport. JSON numbers in results decode as float64.
package natsbridge
