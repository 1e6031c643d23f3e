// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package metrics turns command lifecycle events into Prometheus metrics.
// The collector uses its own registry so that /metrics only exposes cmdhost series.
package metrics
