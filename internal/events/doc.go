// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package events provides lifecycle events for command registration and execution.
//
// The facade and the host emit events through a Reporter. Listeners such as the
// metrics collector consume them without slowing down the code that reports them.
package events
