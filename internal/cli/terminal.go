// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - Terminal detection and handling for the rigwrite CLI.
//
// USABILITY: TTY detection for proper terminal handling

package cli

import (
	"os"
	"sync"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// =============================================================================
// TTY DETECTION
// =============================================================================

// IsTTY returns true if stdin is a terminal. Interactive prompts
// require it.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// IsStdoutTTY returns true if stdout is a terminal. Colored and
// rendered output requires it; piped output stays plain.
func IsStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// =============================================================================
// TERMINAL WIDTH
// =============================================================================

const defaultTermWidth = 80

// TermWidth returns the terminal width, or a default for non-TTY
// output.
func TermWidth() int {
	if !IsStdoutTTY() {
		return defaultTermWidth
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultTermWidth
	}
	return w
}

// =============================================================================
// COLOR CONTROL
// =============================================================================

var (
	colorProfileOnce sync.Once
	colorProfile     termenv.Profile
)

// GetColorProfile returns the color profile for stdout, honoring
// NO_COLOR and non-TTY output.
func GetColorProfile() termenv.Profile {
	colorProfileOnce.Do(func() {
		if os.Getenv("NO_COLOR") != "" || !IsStdoutTTY() {
			colorProfile = termenv.Ascii
			return
		}
		colorProfile = termenv.ColorProfile()
	})
	return colorProfile
}

// ColorEnabled reports whether output should be colored.
func ColorEnabled() bool {
	return GetColorProfile() != termenv.Ascii
}
