// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the rigwrite
// TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components for the editor. It detects the
// terminal's color capability once and the rest of the UI renders
// through its prebuilt styles.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// EDITOR STYLES
	// ==========================================================================

	Text        lipgloss.Style // ordinary buffer text
	LineNumber  lipgloss.Style
	CursorLine  lipgloss.Style // background tint for the cursor line
	Cursor      lipgloss.Style // the cell under the cursor
	Token       lipgloss.Style // @model / @persona references
	Trigger     lipgloss.Style // the trigger phrase at line end
	Placeholder lipgloss.Style // spinner placeholder line

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar     lipgloss.Style
	StatusMode    lipgloss.Style
	StatusModel   lipgloss.Style
	StatusNotice  lipgloss.Style
	StatusError   lipgloss.Style
	StatusHint    lipgloss.Style
	StatusSpinner lipgloss.Style
}

// NewTheme builds a theme for the current terminal.
func NewTheme() *Theme {
	profile := termenv.ColorProfile()
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: profile == termenv.TrueColor,
		ColorProfile: profile,
	}

	t.Text = lipgloss.NewStyle().Foreground(TextPrimary)
	t.LineNumber = lipgloss.NewStyle().Foreground(TextMuted).Width(4).Align(lipgloss.Right).MarginRight(1)
	t.CursorLine = lipgloss.NewStyle().Background(SurfaceDim)
	t.Cursor = lipgloss.NewStyle().Reverse(true)
	t.Token = lipgloss.NewStyle().Foreground(Purple).Bold(true)
	t.Trigger = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.Placeholder = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	t.StatusBar = lipgloss.NewStyle().Background(SurfaceDim).Foreground(TextSecondary).Padding(0, 1)
	t.StatusMode = lipgloss.NewStyle().Background(Purple).Foreground(TextInverse).Padding(0, 1).Bold(true)
	t.StatusModel = lipgloss.NewStyle().Foreground(Cyan)
	t.StatusNotice = lipgloss.NewStyle().Foreground(Amber)
	t.StatusError = lipgloss.NewStyle().Foreground(Rose).Bold(true)
	t.StatusHint = lipgloss.NewStyle().Foreground(TextMuted)
	t.StatusSpinner = lipgloss.NewStyle().Foreground(Amber)

	return t
}
