// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnabledFor(t *testing.T) {
	buf := &bytes.Buffer{}

	t.Setenv(NoColor, "1")
	t.Setenv(ForceColor, "1")
	assert.False(t, EnabledFor(buf), "NO_COLOR wins over FORCE_COLOR")

	t.Setenv(NoColor, "")
	assert.True(t, EnabledFor(buf), "FORCE_COLOR enables colour for any writer")

	t.Setenv(ForceColor, "")
	assert.False(t, EnabledFor(buf), "a buffer is not a terminal")
}

func TestColorize(t *testing.T) {
	assert.Equal(t, "plain", Colorize("plain", false, FgRed))
	assert.Equal(t, "plain", Colorize("plain", true))
	assert.Equal(t, "\033[31mred\033[0m", Colorize("red", true, FgRed))
	assert.Equal(t, "\033[1;36mx\033[0m", Colorize("x", true, Bold, FgCyan))
}
