// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides utility functions for the rigwrite application.
package util

import (
	"github.com/mattn/go-runewidth"
)

// UNICODE: Rune-aware helpers prevent mid-character slicing of UTF-8 text.
// Buffer columns throughout rigwrite are rune offsets, never byte offsets,
// so every slice operation here counts runes.

// RuneLen returns the number of runes (characters) in a string.
// This is safer than len() for UTF-8 strings.
func RuneLen(s string) int {
	return len([]rune(s))
}

// SafeSubstring returns a substring using rune indices (not byte indices).
// Out-of-range indices are clamped rather than panicking.
func SafeSubstring(s string, start, end int) string {
	runes := []rune(s)
	if start < 0 {
		start = 0
	}
	if start > len(runes) {
		return ""
	}
	if end < 0 || end > len(runes) {
		end = len(runes)
	}
	if start >= end {
		return ""
	}
	return string(runes[start:end])
}

// TruncateWidth truncates a string to a maximum display width, appending
// "..." when anything was cut. Accounts for double-width characters.
func TruncateWidth(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	if maxWidth <= 3 {
		return runewidth.Truncate(s, maxWidth, "")
	}
	return runewidth.Truncate(s, maxWidth, "...")
}
