// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/jeranaias/rigwrite/internal/ui/styles"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// Status is the editor's activity state shown in the status bar.
type Status int

const (
	StatusReady     Status = iota
	StatusWaiting          // request sent, awaiting first byte
	StatusStreaming        // deltas arriving
	StatusError
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusWaiting:
		return "Waiting..."
	case StatusStreaming:
		return "Streaming..."
	case StatusError:
		return "Error"
	default:
		return "Ready"
	}
}

// StatusBar is the bottom bar: file name, dirty marker, cursor
// position, activity and transient notices.
type StatusBar struct {
	FileName string
	Dirty    bool
	Line     int // 1-based for display
	Col      int // 1-based for display
	Status   Status
	Notice   string // transient message, cleared by the editor
	Spinner  string // rendered spinner view, "" when idle
	Width    int

	theme *styles.Theme
}

// NewStatusBar creates a status bar bound to a theme.
func NewStatusBar(theme *styles.Theme) StatusBar {
	return StatusBar{theme: theme, Status: StatusReady}
}

// View renders the bar at the configured width.
func (b StatusBar) View() string {
	if b.Width <= 0 {
		return ""
	}
	t := b.theme

	name := b.FileName
	if name == "" {
		name = "[No Name]"
	}
	if b.Dirty {
		name += " *"
	}
	left := t.StatusMode.Render("RIGWRITE") + t.StatusBar.Render(name)

	var mid string
	switch {
	case b.Notice != "" && b.Status == StatusError:
		mid = t.StatusError.Render(b.Notice)
	case b.Notice != "":
		mid = t.StatusNotice.Render(b.Notice)
	case b.Spinner != "":
		mid = t.StatusSpinner.Render(b.Spinner)
	default:
		mid = t.StatusHint.Render("^G generate  ^P preview  ^S save  ^Q quit")
	}

	right := t.StatusModel.Render(fmt.Sprintf("%d:%d", b.Line, b.Col))

	// Pad the middle so the position pins to the right edge.
	used := lipgloss.Width(left) + 1 + lipgloss.Width(mid) + lipgloss.Width(right)
	pad := b.Width - used
	if pad < 1 {
		mid = truncateCell(mid, lipgloss.Width(mid)+pad-1)
		pad = 1
	}
	return left + " " + mid + strings.Repeat(" ", pad) + right
}

// truncateCell trims a styled string to a display width.
func truncateCell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.Truncate(s, width, "…")
}
