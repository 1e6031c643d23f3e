// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package registry provides the process-wide map from command id to the handler that
// currently owns it. At most one entry is active per id.
package registry
