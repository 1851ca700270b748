// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/rigwrite/internal/ui/styles"
)

// =============================================================================
// STATUS SPINNER
// =============================================================================

// Spinner is the status-bar activity spinner shown while a generation
// is in flight. The frames match the in-buffer placeholder animation
// so the two read as one activity.
type Spinner struct {
	spinner   spinner.Model
	message   string
	startTime time.Time
	active    bool
}

// NewSpinner creates a spinner with ASCII-safe frames.
func NewSpinner() Spinner {
	s := spinner.New()
	s.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	s.Style = lipgloss.NewStyle().Foreground(styles.Amber)
	return Spinner{spinner: s, message: "Generating"}
}

// Start activates the spinner and begins the elapsed timer.
func (s *Spinner) Start(message string) tea.Cmd {
	s.active = true
	s.message = message
	s.startTime = time.Now()
	return s.spinner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.active = false
}

// Active reports whether the spinner is running.
func (s *Spinner) Active() bool {
	return s.active
}

// Update advances the animation. Inactive spinners swallow ticks so
// the program stops scheduling them.
func (s *Spinner) Update(msg tea.Msg) tea.Cmd {
	if !s.active {
		return nil
	}
	var cmd tea.Cmd
	s.spinner, cmd = s.spinner.Update(msg)
	return cmd
}

// View renders the spinner with its message and elapsed time, or ""
// when inactive.
func (s Spinner) View() string {
	if !s.active {
		return ""
	}
	elapsed := time.Since(s.startTime).Round(time.Second)
	return fmt.Sprintf("%s %s (%s)", s.spinner.View(), s.message, elapsed)
}
