// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color decides whether a writer should receive ANSI colour codes and applies them.
// NO_COLOR always wins over FORCE_COLOR. Without either variable, colour is only used
// when the writer is a terminal.
package color
