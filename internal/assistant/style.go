// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import "strings"

// =============================================================================
// RESPONSE STYLE
// =============================================================================

// ResponseStyle selects the visual framing of an inserted response.
type ResponseStyle int

const (
	// StylePlain inserts the response as-is after a blank line.
	StylePlain ResponseStyle = iota

	// StyleDivider wraps the response in horizontal rules.
	StyleDivider

	// StyleCallout renders the response inside a block quote.
	StyleCallout
)

// calloutPrefix marks every line of a callout-styled response.
const calloutPrefix = "> "

// calloutHeader opens the callout block.
const calloutHeader = "> [!ai]+ AI"

// ParseStyle maps a configuration string to a ResponseStyle. Unknown
// values fall back to plain; config.Validate rejects them earlier.
func ParseStyle(s string) ResponseStyle {
	switch s {
	case "divider":
		return StyleDivider
	case "callout":
		return StyleCallout
	default:
		return StylePlain
	}
}

// String returns the configuration name of the style.
func (s ResponseStyle) String() string {
	switch s {
	case StyleDivider:
		return "divider"
	case StyleCallout:
		return "callout"
	default:
		return "plain"
	}
}

// PlaceholderOffset is the line distance from the invocation line to
// the generation line once the preamble has been inserted.
func (s ResponseStyle) PlaceholderOffset() int {
	switch s {
	case StyleDivider:
		return 4
	case StyleCallout:
		return 3
	default:
		return 2
	}
}

// preamble is the text inserted at the end of the invocation line
// before the placeholder frame. It opens the response block and ends
// exactly at the column where the placeholder (and later the first
// delta) goes.
func (s ResponseStyle) preamble() string {
	switch s {
	case StyleDivider:
		return "\n\n---\n\n"
	case StyleCallout:
		return "\n\n" + calloutHeader + "\n" + calloutPrefix
	default:
		return "\n\n"
	}
}

// transformFirst prepares the first delta of a response. For callout it
// prepends the quote marker, since the first delta replaces the entire
// placeholder line including its prefix.
func (s ResponseStyle) transformFirst(delta string) string {
	if s != StyleCallout {
		return delta
	}
	return calloutPrefix + s.transform(delta)
}

// transform re-escapes a fragment for insertion mid-block: every
// newline a callout fragment carries must be followed by the quote
// marker or the block ends early.
func (s ResponseStyle) transform(delta string) string {
	if s != StyleCallout {
		return delta
	}
	return strings.ReplaceAll(delta, "\n", "\n"+calloutPrefix)
}

// trailer is appended after the response (and sources) once the stream
// completes. Only divider closes its block.
func (s ResponseStyle) trailer() string {
	if s == StyleDivider {
		return "\n\n---"
	}
	return ""
}

// =============================================================================
// CURSOR BEHAVIOR
// =============================================================================

// CursorBehavior controls where the editing cursor lands after a
// generation finalizes.
type CursorBehavior int

const (
	// CursorToEnd moves the cursor just past the inserted response.
	CursorToEnd CursorBehavior = iota

	// CursorKeep leaves the cursor where the user had it.
	CursorKeep
)

// ParseCursorBehavior maps a configuration string to a CursorBehavior.
func ParseCursorBehavior(s string) CursorBehavior {
	if s == "keep" {
		return CursorKeep
	}
	return CursorToEnd
}

// String returns the configuration name of the behavior.
func (c CursorBehavior) String() string {
	if c == CursorKeep {
		return "keep"
	}
	return "end"
}
