// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a *slog.Logger in a context.Context.
// The default logger writes to stderr through a console handler that prints attributes
// as colour JSON. All loggers built by this package share LevelVar, so changing the
// level at runtime affects every logger.
package ctxlog
