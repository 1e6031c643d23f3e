// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config loads cmdhost configuration.
//
// Values come from, in increasing priority: built-in defaults, an optional YAML file and
// CMDHOST_* environment variables. Validate reports every problem at once.
package config
