// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

const (
	// NoColor is the environment variable that disables color output.
	NoColor = "NO_COLOR"
	// ForceColor is the environment variable that forces color output.
	ForceColor = "FORCE_COLOR"
	reset      = "\033[0m"
	prefix     = "\033["
	suffix     = "m"
)

// Code represents an ANSI control code for text formatting.
type Code int

// Control codes for text formatting.
const (
	Reset Code = 0
	Bold  Code = 1
	Faint Code = 2
)

// Foreground text colors.
const (
	FgRed     Code = 31
	FgGreen   Code = 32
	FgYellow  Code = 33
	FgBlue    Code = 34
	FgMagenta Code = 35
	FgCyan    Code = 36
	FgWhite   Code = 37

	FgHiMagenta Code = 95
	FgHiWhite   Code = 97
)

// EnabledFor reports whether colour codes should be written to w.
func EnabledFor(w io.Writer) bool {
	if os.Getenv(NoColor) != "" {
		return false
	}

	if os.Getenv(ForceColor) != "" {
		return true
	}

	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}

// Colorize wraps str in the given codes followed by a reset.
// When on is false str is returned unchanged.
func Colorize(str string, on bool, codes ...Code) string {
	if !on || len(codes) == 0 {
		return str
	}

	sb := strings.Builder{}
	sb.Grow(len(str) + len(prefix) + len(suffix) + len(reset) + 4*len(codes))
	sb.WriteString(prefix)

	for i, code := range codes {
		if i > 0 {
			sb.WriteString(";")
		}

		sb.WriteString(strconv.Itoa(int(code)))
	}

	sb.WriteString(suffix)
	sb.WriteString(str)
	sb.WriteString(reset)

	return sb.String()
}
