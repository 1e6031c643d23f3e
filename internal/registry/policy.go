// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package registry

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownPolicy is returned when a duplicate policy name cannot be parsed.
var ErrUnknownPolicy = errors.New("unknown duplicate policy")

// DuplicatePolicy decides what happens when an id that is already registered is added again.
type DuplicatePolicy int

const (
	// DuplicateReject refuses the second registration with ErrCommandExists.
	DuplicateReject DuplicatePolicy = iota
	// DuplicateReplace makes the new entry active. The replaced entry can no longer
	// remove the id from the registry.
	DuplicateReplace
)

// String implements the Stringer interface for DuplicatePolicy.
func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateReject:
		return "reject"
	case DuplicateReplace:
		return "replace"
	default:
		return "unknown"
	}
}

// ParseDuplicatePolicy converts a configuration value to a DuplicatePolicy.
// The empty string selects DuplicateReject.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "reject":
		return DuplicateReject, nil
	case "replace":
		return DuplicateReplace, nil
	default:
		return DuplicateReject, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}
