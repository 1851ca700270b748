// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package editor

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/rigwrite/internal/assistant"
	"github.com/jeranaias/rigwrite/internal/buffer"
	"github.com/jeranaias/rigwrite/internal/config"
	"github.com/jeranaias/rigwrite/internal/ui/components"
	"github.com/jeranaias/rigwrite/internal/ui/styles"
)

// =============================================================================
// MESSAGES
// =============================================================================

// noticeMsg carries an orchestrator notice to the status bar.
type noticeMsg struct {
	text  string
	isErr bool
}

// phaseMsg reports a generation lifecycle transition.
type phaseMsg struct {
	phase assistant.Phase
}

// genDoneMsg signals one Generate call returned.
type genDoneMsg struct {
	err error
}

// repaintMsg drives view refresh while deltas stream into the buffer
// from the generation goroutine.
type repaintMsg struct{}

// clearNoticeMsg expires a transient notice.
type clearNoticeMsg struct{ seq int }

// =============================================================================
// EDITOR MODEL
// =============================================================================

// Model is the Bubble Tea model for the editor.
type Model struct {
	// Document
	buf      *buffer.Buffer
	filePath string
	dirty    bool

	// Generation
	orc        *assistant.Orchestrator
	generating int // in-flight Generate calls
	events     chan tea.Msg

	// Styling
	theme *styles.Theme

	// Dimensions and scroll
	width  int
	height int
	top    int // first visible buffer line

	// Preview
	preview     bool
	previewText string
	renderer    *glamour.TermRenderer

	// Components
	statusBar components.StatusBar
	spin      components.Spinner

	// Config-driven display options
	showLineNumbers bool

	keyMap    KeyMap
	noticeSeq int // invalidates stale clearNoticeMsg
	quitting  bool
}

// New creates an editor over the buffer. The orchestrator's notifier
// and phase hook must already be wired to the channel returned by
// Events; Wire does both in one step.
func New(buf *buffer.Buffer, orc *assistant.Orchestrator, cfg *config.Config, filePath string) *Model {
	theme := styles.NewTheme()

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		renderer = nil // preview degrades to raw text
	}

	m := &Model{
		buf:             buf,
		filePath:        filePath,
		orc:             orc,
		events:          make(chan tea.Msg, 16),
		theme:           theme,
		renderer:        renderer,
		statusBar:       components.NewStatusBar(theme),
		spin:            components.NewSpinner(),
		showLineNumbers: cfg.UI.ShowLineNumbers,
		keyMap:          DefaultKeyMap(),
	}
	return m
}

// Wire connects the orchestrator's callbacks to this editor's event
// channel. Call once before starting the program.
func (m *Model) Wire() {
	m.orc.OnPhase = func(p assistant.Phase) {
		m.events <- phaseMsg{phase: p}
	}
}

// Notify implements assistant.Notifier: notices surface in the status
// bar. Safe to call from the generation goroutine.
func (m *Model) Notify(message string) {
	m.events <- noticeMsg{text: message, isErr: true}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.waitEvent()
}

// waitEvent blocks on the next cross-goroutine event.
func (m *Model) waitEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}
